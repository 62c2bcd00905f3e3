package chunkheap

import "github.com/cockroachdb/errors"

var (
	// ErrExhausted is reported when the arena source cannot grow.
	ErrExhausted = errors.New("chunkheap: arena exhausted")
	// ErrInvalidSize is reported for non-positive or oversized requests.
	ErrInvalidSize = errors.New("chunkheap: invalid allocation size")
	// ErrCorrupted is reported when a released header fails validation.
	ErrCorrupted = errors.New("chunkheap: corrupted chunk")
	// ErrClosed is reported by a source used after release.
	ErrClosed = errors.New("chunkheap: use after Close()")
)
