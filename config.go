package chunkheap

import (
	"os"

	"golang.org/x/exp/slog"
)

// Config controls how a Heap is built.
type Config struct {
	// Capacity bounds the arena when Source is nil.
	// If Capacity <= 0, DefaultCapacity is used.
	Capacity int

	// Logger receives corruption, exhaustion and leak reports.
	// If nil, a text logger on stderr is used.
	Logger *slog.Logger

	// Source overrides the default BreakSource. The Heap takes ownership
	// and releases it on Close.
	Source Source
}

// DefaultConfig returns a Config with DefaultCapacity and the default
// stderr logger.
func DefaultConfig() Config {
	return Config{
		Capacity: DefaultCapacity,
		Logger:   defaultLogger(),
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
