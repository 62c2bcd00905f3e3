//go:build !unix

package chunkheap

// reserve falls back to a Go-managed buffer where mmap is unavailable.
func reserve(n int) ([]byte, func([]byte) error, error) {
	return make([]byte, n), nil, nil
}
