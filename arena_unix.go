//go:build unix

package chunkheap

import "golang.org/x/sys/unix"

// reserve maps an anonymous private region. The kernel commits pages lazily.
func reserve(n int) ([]byte, func([]byte) error, error) {
	mem, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	return mem, unix.Munmap, nil
}
