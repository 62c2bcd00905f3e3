package chunkheap

import (
	"context"
	"iter"
	"math"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"
)

// maxRequest keeps alignUp and the grow size from overflowing.
const maxRequest = math.MaxInt - HeaderSize - Alignment

// Heap is a first-fit chunk allocator over a single break-style arena.
// A single mutex serializes every chain mutation and arena growth, so all
// methods are safe for concurrent use.
type Heap struct {
	mu       sync.Mutex
	src      Source
	chain    chain
	closed   bool
	capacity int

	// origins maps chunk -> Origin. Written outside mu.
	origins sync.Map

	log   *slog.Logger
	stats counters

	closeOnce sync.Once
	closeErr  error
}

// NewHeap creates a Heap over a BreakSource of the given capacity.
// If capacity <= 0, DefaultCapacity is used.
func NewHeap(capacity int) (*Heap, error) {
	return NewHeapWithConfig(Config{Capacity: capacity})
}

// NewHeapWithConfig creates a Heap from cfg.
func NewHeapWithConfig(cfg Config) (*Heap, error) {
	src := cfg.Source
	if src == nil {
		bs, err := NewBreakSource(cfg.Capacity)
		if err != nil {
			return nil, err
		}
		src = bs
	}
	logger := cfg.Logger
	if logger == nil {
		logger = defaultLogger()
	}
	h := &Heap{
		src:      src,
		capacity: src.Cap(),
		log:      logger,
	}
	h.chain.head = noChunk
	h.chain.mem = src.Mem()
	h.stats.arenaBytes.Store(int64(len(h.chain.mem)))
	return h, nil
}

// Alloc returns a payload of at least size bytes, labeled with the
// caller's file and line. It returns Nil if size <= 0 or the arena cannot
// grow. The payload is not zeroed.
func (h *Heap) Alloc(size int) Ptr {
	return h.AllocAt(size, Caller(1))
}

// AllocZeroed is Alloc with the payload cleared.
func (h *Heap) AllocZeroed(size int) Ptr {
	p := h.AllocAt(size, Caller(1))
	clear(h.Bytes(p))
	return p
}

// AllocAt is Alloc with an explicit origin label.
func (h *Heap) AllocAt(size int, origin Origin) Ptr {
	p, err := h.allocate(size, origin)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, ErrInvalidSize) {
			level = slog.LevelDebug
		}
		h.log.Log(context.Background(), level, "chunkheap: allocation failed",
			slog.Int("size", size),
			slog.String("origin", origin.String()),
			slog.Any("err", err))
	}
	return p
}

func (h *Heap) allocate(size int, origin Origin) (Ptr, error) {
	// request counters reflect attempts, not successes
	h.stats.noteRequest(size)
	if size <= 0 || size > maxRequest {
		return Nil, errors.Wrapf(ErrInvalidSize, "alloc %d bytes", size)
	}
	n := alignUp(size)

	h.mu.Lock()
	h.panicIfClosed()
	c, pred := h.chain.findFit(n)
	if c != noChunk {
		if h.chain.canSplit(c, n) {
			h.chain.split(c, n)
		}
		h.chain.header(c).setFree(false)
	} else {
		var err error
		if c, err = h.grow(n); err != nil {
			h.mu.Unlock()
			return Nil, err
		}
		h.chain.appendChunk(pred, c)
	}
	h.stats.inUse.Add(int64(h.chain.header(c).size()))
	h.mu.Unlock()

	// origin only labels leak reports; last writer wins.
	h.origins.Store(c, origin)
	return c.payload(), nil
}

// grow asks the source for a chunk of n payload bytes. Must hold mu.
func (h *Heap) grow(n int) (chunk, error) {
	h.stats.arenaGrowths.Add(1)
	brk := len(h.chain.mem)
	base, err := h.src.Grow(n + HeaderSize)
	if err != nil {
		return noChunk, err
	}
	mem := h.src.Mem()
	if base != brk || len(mem) != brk+n+HeaderSize {
		return noChunk, errors.AssertionFailedf(
			"chunkheap: source grew non-contiguously: base %d, break %d -> %d", base, brk, len(mem))
	}
	h.chain.mem = mem
	h.stats.arenaBytes.Store(int64(len(mem)))

	c := chunk(base)
	h.chain.header(c).stamp(n, false, noChunk)
	h.log.Debug("chunkheap: arena grown", slog.Int("base", base), slog.Int("bytes", n+HeaderSize))
	return c, nil
}

// Free releases the payload at p. Freeing Nil is a no-op.
//
// A header that fails validation is counted, reported, and left alone:
// its size and link cannot be trusted for coalescing, so the chunk leaks.
func (h *Heap) Free(p Ptr) {
	if p == Nil {
		return
	}
	c := p.chunk()

	h.mu.Lock()
	h.panicIfClosed()
	if !h.chain.contains(c) || h.chain.header(c).magic() != Magic {
		h.stats.corrupted.Add(1)
		h.mu.Unlock()
		h.log.Error("chunkheap: memory corruption",
			slog.String("ptr", p.String()),
			slog.Any("err", errors.Wrapf(ErrCorrupted, "free %s", p)))
		return
	}
	hd := h.chain.header(c)
	if hd.free() {
		h.mu.Unlock()
		h.log.Warn("chunkheap: double free", slog.String("ptr", p.String()))
		return
	}
	hd.setFree(true)
	h.stats.inUse.Add(-int64(hd.size()))
	h.chain.mergeForward(c)
	h.mu.Unlock()
}

// Bytes returns the payload of an occupied chunk, or nil if p does not
// address one. The slice is valid until p is freed.
func (h *Heap) Bytes(p Ptr) []byte {
	if p == Nil {
		return nil
	}
	c := p.chunk()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || !h.chain.contains(c) {
		return nil
	}
	hd := h.chain.header(c)
	if hd.magic() != Magic || hd.free() {
		return nil
	}
	end := int(p) + hd.size()
	if end > len(h.chain.mem) {
		return nil
	}
	return h.chain.mem[p:end:end]
}

// Contains reports whether p lies inside the granted arena.
func (h *Heap) Contains(p Ptr) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return p >= HeaderSize && int(p) < len(h.chain.mem)
}

// ChunkInfo describes one chunk of the chain.
type ChunkInfo struct {
	Addr   int    // arena offset of the header
	Ptr    Ptr    // payload address
	Size   int    // payload capacity
	Free   bool   // available for reuse
	Origin Origin // last allocation site; zero while free
}

// Chunks iterates over a snapshot of the chain taken under the heap lock.
func (h *Heap) Chunks() iter.Seq[ChunkInfo] {
	infos := h.snapshot()
	return func(yield func(ChunkInfo) bool) {
		for _, ci := range infos {
			if !yield(ci) {
				return
			}
		}
	}
}

func (h *Heap) snapshot() []ChunkInfo {
	h.mu.Lock()
	var infos []ChunkInfo
	_ = h.walk(func(c chunk, hd header) error {
		infos = append(infos, ChunkInfo{
			Addr: int(c),
			Ptr:  c.payload(),
			Size: hd.size(),
			Free: hd.free(),
		})
		return nil
	})
	h.mu.Unlock()

	for i := range infos {
		if infos[i].Free {
			continue
		}
		if o, ok := h.origins.Load(chunk(infos[i].Addr)); ok {
			infos[i].Origin = o.(Origin)
		}
	}
	return infos
}

// Audit reports every chunk still occupied and adds them to the unfreed
// counter. Close runs it once; calling it directly counts again.
func (h *Heap) Audit() []ChunkInfo {
	var leaks []ChunkInfo
	for ci := range h.Chunks() {
		if ci.Free {
			continue
		}
		h.stats.unfreed.Add(1)
		h.log.Warn("chunkheap: unfreed chunk",
			slog.String("ptr", ci.Ptr.String()),
			slog.Int("size", ci.Size),
			slog.String("origin", ci.Origin.String()))
		leaks = append(leaks, ci)
	}
	return leaks
}

// Close audits the heap for leaks and releases the arena. Close is the
// teardown hook; it runs once and any later Alloc or Free panics.
func (h *Heap) Close() error {
	h.closeOnce.Do(func() {
		h.Audit()
		h.mu.Lock()
		h.closed = true
		h.chain = chain{head: noChunk}
		h.mu.Unlock()
		h.closeErr = h.src.Release()
	})
	return h.closeErr
}

// panicIfClosed panics if the heap has been closed. Must hold mu.
func (h *Heap) panicIfClosed() {
	if h.closed {
		h.mu.Unlock()
		panic("chunkheap: use after Close()")
	}
}
