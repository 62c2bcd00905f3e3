package chunkheap

import "unsafe"

// The helpers below overlay Go values on heap payloads. The arena is not
// scanned by the garbage collector, so T must not contain Go pointers
// (no pointers, slices, strings, maps, channels, funcs or interfaces).

// View returns the payload at p as a *T, or nil if p does not address an
// occupied chunk large enough to hold a T.
func View[T any](h *Heap, p Ptr) *T {
	var zero T
	b := h.Bytes(p)
	if len(b) == 0 || len(b) < int(unsafe.Sizeof(zero)) {
		return nil
	}
	return (*T)(unsafe.Pointer(&b[0]))
}

// New allocates a zeroed T on the heap and returns it with its Ptr.
// It returns nil and Nil if the allocation fails.
func New[T any](h *Heap) (*T, Ptr) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		size = 1
	}
	p := h.AllocAt(size, Caller(1))
	if p == Nil {
		return nil, Nil
	}
	b := h.Bytes(p)
	clear(b)
	return (*T)(unsafe.Pointer(&b[0])), p
}

// AllocSlice allocates n elements of type T on the heap. The elements are
// not initialized. Returns nil and Nil if n <= 0 or the allocation fails.
func AllocSlice[T any](h *Heap, n int) ([]T, Ptr) {
	return allocSlice[T](h, n, Caller(1))
}

// AllocSliceZeroed is AllocSlice with the elements cleared.
func AllocSliceZeroed[T any](h *Heap, n int) ([]T, Ptr) {
	s, p := allocSlice[T](h, n, Caller(1))
	if p != Nil {
		clear(h.Bytes(p))
	}
	return s, p
}

func allocSlice[T any](h *Heap, n int, origin Origin) ([]T, Ptr) {
	if n <= 0 {
		return nil, Nil
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize == 0 || n > maxRequest/elemSize {
		return nil, Nil
	}
	p := h.AllocAt(elemSize*n, origin)
	if p == Nil {
		return nil, Nil
	}
	b := h.Bytes(p)
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n), p
}
