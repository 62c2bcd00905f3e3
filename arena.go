package chunkheap

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// DefaultCapacity is the default arena reservation for new heaps (64 MiB).
const DefaultCapacity = 64 << 20

// Source supplies the raw arena a Heap carves chunks from.
//
// Growth is program-break style: every successful Grow extends one
// contiguous region by exactly n bytes and returns the previous break.
// The region never shrinks and its backing memory never moves, so the
// slices returned by Mem stay valid across growths.
type Source interface {
	// Grow extends the region by n bytes and returns the old break.
	// Failures wrap ErrExhausted and are never retried.
	Grow(n int) (base int, err error)
	// Mem returns the granted region [0, break).
	Mem() []byte
	// Cap returns the maximal size the region can grow to.
	Cap() int
	// Release returns the reservation to the operating system.
	Release() error
}

// BreakSource is a Source backed by a single up-front reservation. Pages
// are only touched once the break passes them.
type BreakSource struct {
	mu       sync.Mutex
	region   []byte
	brk      int
	released bool
	unmap    func([]byte) error
}

// NewBreakSource reserves capacity bytes of address space.
// If capacity <= 0, DefaultCapacity is used.
func NewBreakSource(capacity int) (*BreakSource, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	capacity = alignUp(capacity)
	region, unmap, err := reserve(capacity)
	if err != nil {
		return nil, errors.Wrapf(err, "chunkheap: reserve %d bytes", capacity)
	}
	return &BreakSource{region: region, unmap: unmap}, nil
}

// Grow implements Source.
func (s *BreakSource) Grow(n int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return 0, ErrClosed
	}
	if n <= 0 {
		return 0, errors.Wrapf(ErrInvalidSize, "grow by %d bytes", n)
	}
	if n > len(s.region)-s.brk {
		return 0, errors.Wrapf(ErrExhausted, "grow by %d bytes at break %d of %d", n, s.brk, len(s.region))
	}
	base := s.brk
	s.brk += n
	return base, nil
}

// Mem implements Source.
func (s *BreakSource) Mem() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil
	}
	return s.region[:s.brk:s.brk]
}

// Cap implements Source.
func (s *BreakSource) Cap() int {
	return len(s.region)
}

// Break returns the current size of the granted region.
func (s *BreakSource) Break() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brk
}

// Release implements Source. Releasing twice is a no-op.
func (s *BreakSource) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil
	}
	s.released = true
	region := s.region
	s.region, s.brk = nil, 0
	if s.unmap == nil {
		return nil
	}
	return errors.Wrap(s.unmap(region), "chunkheap: release arena")
}
