package chunkheap

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"
)

func TestNewBreakSource(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		expected int
	}{
		{"default capacity", 0, DefaultCapacity},
		{"negative capacity", -1, DefaultCapacity},
		{"custom capacity", 8192, 8192},
		{"unaligned capacity", 100, 104},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewBreakSource(tt.capacity)
			if err != nil {
				t.Fatalf("NewBreakSource(%d): %v", tt.capacity, err)
			}
			defer s.Release()
			if s.Cap() != tt.expected {
				t.Errorf("NewBreakSource(%d) cap = %d, want %d", tt.capacity, s.Cap(), tt.expected)
			}
			if s.Break() != 0 || len(s.Mem()) != 0 {
				t.Errorf("fresh source break = %d, mem = %d, want 0", s.Break(), len(s.Mem()))
			}
		})
	}
}

func TestBreakSourceGrow(t *testing.T) {
	s, err := NewBreakSource(256)
	if err != nil {
		t.Fatalf("NewBreakSource: %v", err)
	}
	defer s.Release()

	for i, n := range []int{32, 64, 160} {
		before := s.Break()
		base, err := s.Grow(n)
		if err != nil {
			t.Fatalf("Grow #%d(%d): %v", i, n, err)
		}
		if base != before {
			t.Errorf("Grow #%d base = %d, want old break %d", i, base, before)
		}
		if got := len(s.Mem()); got != before+n {
			t.Errorf("Grow #%d mem = %d, want %d", i, got, before+n)
		}
	}

	// the region never moves between growths
	first := &s.Mem()[0]
	s.Mem()[0] = 0x5a
	if &s.Mem()[0] != first || s.Mem()[0] != 0x5a {
		t.Error("region moved or lost data")
	}
}

func TestBreakSourceGrowFailures(t *testing.T) {
	s, err := NewBreakSource(64)
	if err != nil {
		t.Fatalf("NewBreakSource: %v", err)
	}

	if _, err := s.Grow(65); !errors.Is(err, ErrExhausted) {
		t.Errorf("Grow past capacity = %v, want ErrExhausted", err)
	}
	if _, err := s.Grow(0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Grow(0) = %v, want ErrInvalidSize", err)
	}
	if s.Break() != 0 {
		t.Errorf("failed growth moved the break to %d", s.Break())
	}
	if _, err := s.Grow(64); err != nil {
		t.Errorf("Grow to capacity: %v", err)
	}

	if err := s.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := s.Release(); err != nil {
		t.Errorf("second Release: %v", err)
	}
	if _, err := s.Grow(8); !errors.Is(err, ErrClosed) {
		t.Errorf("Grow after Release = %v, want ErrClosed", err)
	}
	if s.Mem() != nil {
		t.Error("Mem after Release should be nil")
	}
}

// failingSource refuses every growth.
type failingSource struct{ *BreakSource }

func (failingSource) Grow(n int) (int, error) {
	return 0, errors.Wrapf(ErrExhausted, "grow by %d bytes", n)
}

// skewSource leaves a gap before every chunk it grants.
type skewSource struct{ *BreakSource }

func (s skewSource) Grow(n int) (int, error) {
	if _, err := s.BreakSource.Grow(Alignment); err != nil {
		return 0, err
	}
	return s.BreakSource.Grow(n)
}

func TestHeapCustomSource(t *testing.T) {
	bs, err := NewBreakSource(4096)
	if err != nil {
		t.Fatalf("NewBreakSource: %v", err)
	}
	var buf strings.Builder
	h, err := NewHeapWithConfig(Config{
		Source: failingSource{bs},
		Logger: slog.New(slog.NewTextHandler(&buf, nil)),
	})
	if err != nil {
		t.Fatalf("NewHeapWithConfig: %v", err)
	}
	defer h.Close()

	for range 3 {
		if p := h.Alloc(8); p != Nil {
			t.Errorf("Alloc on failing source = %v, want Nil", p)
		}
	}
	s := h.Stats()
	if s.ArenaGrowths != 3 || s.AllocCalls != 3 {
		t.Errorf("ArenaGrowths, AllocCalls = %d, %d, want 3, 3", s.ArenaGrowths, s.AllocCalls)
	}
	if len(chainLayout(h)) != 0 {
		t.Error("failed growth left chunks behind")
	}
	if !strings.Contains(buf.String(), "allocation failed") {
		t.Errorf("failure not reported, log:\n%s", buf.String())
	}
}

func TestHeapRejectsNonContiguousSource(t *testing.T) {
	bs, err := NewBreakSource(4096)
	if err != nil {
		t.Fatalf("NewBreakSource: %v", err)
	}
	h, err := NewHeapWithConfig(Config{
		Source: skewSource{bs},
		Logger: slog.New(slog.NewTextHandler(&strings.Builder{}, nil)),
	})
	if err != nil {
		t.Fatalf("NewHeapWithConfig: %v", err)
	}
	defer h.Close()

	if p := h.Alloc(8); p != Nil {
		t.Errorf("Alloc on skewed source = %v, want Nil", p)
	}
	if err := h.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
