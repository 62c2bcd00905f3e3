package chunkheap

import (
	"fmt"
	"io"
	"iter"
)

// WriteStats renders s as one "label: value" line per counter.
func WriteStats(w io.Writer, s Stats) error {
	_, err := fmt.Fprintf(w,
		"Allocation calls: %d\n"+
			"Allocated in total: %d bytes\n"+
			"Peak usage: %d bytes\n"+
			"Arena growths: %d\n"+
			"Corrupted chunks: %d\n"+
			"Unfreed chunks: %d\n"+
			"In use: %d of %d arena bytes (%.2f%%)\n",
		s.AllocCalls, s.BytesRequested, s.PeakBytes, s.ArenaGrowths,
		s.CorruptedChunks, s.UnfreedChunks,
		s.InUse, s.ArenaBytes, s.Utilization()*100)
	return err
}

// WriteDump renders every chunk yielded by chunks, followed by a separator.
func WriteDump(w io.Writer, chunks iter.Seq[ChunkInfo]) error {
	for ci := range chunks {
		free := "No"
		if ci.Free {
			free = "Yes"
		}
		_, err := fmt.Fprintf(w, "Chunk at address: %#x\n\tSize: %d\n\tOrigin: %s\n\tFree: %s\n\n",
			ci.Addr, ci.Size, ci.Origin, free)
		if err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "###############################\n")
	return err
}
