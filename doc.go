// Package chunkheap implements a first-fit chunk allocator over a single
// break-style arena.
//
// # Overview
//
// A Heap reserves one contiguous region from the operating system and
// extends a break pointer through it as demand grows. Every block handed
// out is a chunk: a 24-byte header followed by the payload. The header is
// stored inside the arena itself and carries a sentinel, the payload size,
// a free flag and the offset of the next chunk. Chunks form a singly
// linked list in address order, so a chunk's successor is always its
// physical neighbour.
//
// This is useful when you want to observe or control allocation at the
// chunk level:
//
//   - Inspect chunk layout, reuse and fragmentation
//   - Detect releases of damaged or stale headers
//   - Report blocks still live at shutdown, labeled with their call site
//   - Collect allocation statistics
//
// # Basic Usage
//
//	h, err := chunkheap.NewHeap(0) // Use default capacity
//	if err != nil {
//		return err
//	}
//	defer h.Close() // Reports leaks, releases the arena
//
//	p := h.Alloc(100)  // Payload of at least 100 bytes
//	buf := h.Bytes(p)  // View it as a byte slice
//	h.Free(p)
//
//	// Typed views for pointer-free types
//	v, pv := chunkheap.New[MyStruct](h)
//	xs, px := chunkheap.AllocSlice[int64](h, 16)
//
// # Allocation Policy
//
// Alloc rounds the request up to 8 bytes and scans the chain from the head
// for the first free chunk that is large enough. When the chunk has room
// for at least one more header plus 8 bytes, the excess is split off as a
// new free chunk; otherwise the caller gets the slightly larger chunk.
// When no chunk fits, the arena grows by exactly the request plus one
// header and the new chunk is appended to the tail.
//
// Free marks the chunk free and absorbs every free chunk that follows it.
// Coalescing only looks forward: a chunk freed after its free predecessor
// is not merged into it. This leaves slack behind an occupied neighbour
// that repeated free/alloc cycles never recover, which is accepted.
//
// The arena never shrinks while the heap is open; freed chunks are only
// reused.
//
// # Corruption and Leaks
//
// Free checks the sentinel of the header in front of the pointer. If it
// does not match, the call is counted in Stats.CorruptedChunks, reported
// through the configured logger, and the chunk is left untouched. Close
// walks the chain once, reporting every chunk that is still occupied
// together with the file and line that allocated it.
//
// # Thread Safety
//
// A single mutex per Heap serializes every chain mutation and arena
// growth. Origin labels are written outside it. Statistics are atomic and
// can be read at any time without blocking allocators.
//
// # Metrics and Monitoring
//
//	s := h.Stats()
//	fmt.Printf("Utilization: %.2f%%\n", s.Utilization()*100)
//	chunkheap.WriteStats(os.Stdout, s)
//	chunkheap.WriteDump(os.Stdout, h.Chunks())
//
// Package heapmetrics exports the same statistics to Prometheus.
package chunkheap
