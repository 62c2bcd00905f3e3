// Command heapdemo replays a fixed allocation script against a chunkheap
// and prints the resulting statistics, chunk dump and leak report.
package main

import (
	"log"
	"os"

	"golang.org/x/exp/slog"

	"github.com/pavanmanishd/chunkheap"
)

func main() {
	cfg := chunkheap.DefaultConfig()
	cfg.Capacity = 1 << 20
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h, err := chunkheap.NewHeapWithConfig(cfg)
	if err != nil {
		log.Fatalf("heap init failed: %v", err)
	}

	ptr := h.Alloc(5)
	ptr3 := h.Alloc(60)
	ptr2 := h.Alloc(5)
	h.Free(ptr3)
	ptr4 := h.Alloc(5) // reuses the front of the freed 64-byte chunk
	h.Free(ptr)
	h.Free(ptr2)
	_ = ptr4 // left allocated for the leak report

	if err := chunkheap.WriteDump(os.Stdout, h.Chunks()); err != nil {
		log.Fatalf("dump failed: %v", err)
	}
	if err := h.Validate(); err != nil {
		log.Fatalf("chain invalid: %v", err)
	}

	if err := h.Close(); err != nil {
		log.Fatalf("heap close failed: %v", err)
	}
	if err := chunkheap.WriteStats(os.Stdout, h.Stats()); err != nil {
		log.Fatalf("stats failed: %v", err)
	}
}
