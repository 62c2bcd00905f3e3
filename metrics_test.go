package chunkheap

import (
	"testing"
)

func TestHeapStats(t *testing.T) {
	h, _ := newTestHeap(t, 4096)

	// Test initial state
	if s := h.Stats(); s != (Stats{Capacity: 4096}) {
		t.Errorf("initial Stats = %+v, want only Capacity set", s)
	}
	if h.Stats().Utilization() != 0 {
		t.Errorf("initial Utilization = %f, want 0", h.Stats().Utilization())
	}

	a := h.Alloc(5)
	b := h.Alloc(60)
	h.Alloc(5)
	h.Free(b)
	h.Alloc(5)
	h.Free(a)

	s := h.Stats()
	if s.AllocCalls != 4 {
		t.Errorf("AllocCalls = %d, want 4", s.AllocCalls)
	}
	if s.BytesRequested != 75 {
		t.Errorf("BytesRequested = %d, want 75", s.BytesRequested)
	}
	if s.PeakBytes != 75 {
		t.Errorf("PeakBytes = %d, want 75", s.PeakBytes)
	}
	if s.ArenaGrowths != 3 {
		t.Errorf("ArenaGrowths = %d, want 3", s.ArenaGrowths)
	}
	if want := 3*HeaderSize + 8 + 64 + 8; s.ArenaBytes != want {
		t.Errorf("ArenaBytes = %d, want %d", s.ArenaBytes, want)
	}
	if s.InUse != 16 {
		t.Errorf("InUse = %d, want 16", s.InUse)
	}

	utilization := s.Utilization()
	if utilization <= 0 || utilization > 1 {
		t.Errorf("Utilization = %f, want 0 < x <= 1", utilization)
	}
}

func TestPeakTracksRequests(t *testing.T) {
	h, _ := newTestHeap(t, 4096)

	for _, size := range []int{10, 0, 20, -5, 30} {
		h.Free(h.Alloc(size))
	}
	s := h.Stats()
	if s.AllocCalls != 5 {
		t.Errorf("AllocCalls = %d, want 5", s.AllocCalls)
	}
	if s.BytesRequested != 60 || s.PeakBytes != 60 {
		t.Errorf("BytesRequested, PeakBytes = %d, %d, want 60, 60", s.BytesRequested, s.PeakBytes)
	}
	if s.InUse != 0 {
		t.Errorf("InUse = %d, want 0", s.InUse)
	}
}

func TestStatsUtilization(t *testing.T) {
	tests := []struct {
		stats Stats
		want  float64
	}{
		{Stats{}, 0},
		{Stats{InUse: 32, ArenaBytes: 64}, 0.5},
		{Stats{InUse: 64, ArenaBytes: 64}, 1},
	}
	for _, tt := range tests {
		if got := tt.stats.Utilization(); got != tt.want {
			t.Errorf("%+v.Utilization() = %f, want %f", tt.stats, got, tt.want)
		}
	}
}
