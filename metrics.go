package chunkheap

import "sync/atomic"

// Stats is a snapshot of heap statistics. Counters are read without the
// heap lock, so a snapshot taken during concurrent use is advisory.
type Stats struct {
	AllocCalls      int64 // Alloc calls, including rejected ones
	BytesRequested  int64 // Cumulative bytes asked for by Alloc
	PeakBytes       int64 // High-water mark of BytesRequested
	ArenaGrowths    int64 // Source.Grow attempts, including failed ones
	CorruptedChunks int64 // Free calls rejected by the sentinel check
	UnfreedChunks   int64 // Occupied chunks found by Audit
	InUse           int64 // Payload bytes of occupied chunks
	ArenaBytes      int   // Bytes granted by the source so far
	Capacity        int   // Bytes the source can grant in total
}

// Utilization returns the ratio of payload bytes in use to arena bytes
// granted (0.0 to 1.0). Returns 0.0 if nothing has been granted.
func (s Stats) Utilization() float64 {
	if s.ArenaBytes == 0 {
		return 0
	}
	return float64(s.InUse) / float64(s.ArenaBytes)
}

// counters holds the live statistics of a Heap.
type counters struct {
	allocCalls     atomic.Int64
	bytesRequested atomic.Int64
	peakBytes      atomic.Int64
	arenaGrowths   atomic.Int64
	corrupted      atomic.Int64
	unfreed        atomic.Int64
	inUse          atomic.Int64
	arenaBytes     atomic.Int64
}

// noteRequest records an Alloc call before it reaches the chain.
func (c *counters) noteRequest(size int) {
	c.allocCalls.Add(1)
	if size <= 0 {
		return
	}
	total := c.bytesRequested.Add(int64(size))
	for {
		peak := c.peakBytes.Load()
		if total <= peak || c.peakBytes.CompareAndSwap(peak, total) {
			return
		}
	}
}

// Stats returns a snapshot of the heap statistics.
func (h *Heap) Stats() Stats {
	return Stats{
		AllocCalls:      h.stats.allocCalls.Load(),
		BytesRequested:  h.stats.bytesRequested.Load(),
		PeakBytes:       h.stats.peakBytes.Load(),
		ArenaGrowths:    h.stats.arenaGrowths.Load(),
		CorruptedChunks: h.stats.corrupted.Load(),
		UnfreedChunks:   h.stats.unfreed.Load(),
		InUse:           h.stats.inUse.Load(),
		ArenaBytes:      int(h.stats.arenaBytes.Load()),
		Capacity:        h.capacity,
	}
}
