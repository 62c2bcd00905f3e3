package chunkheap

import (
	"encoding/binary"
	"fmt"
)

const (
	// Alignment is the granularity of every payload size and chunk offset.
	Alignment = 8

	// HeaderSize is the width of the metadata header prefixed to every chunk.
	HeaderSize = 24

	// Magic is the sentinel stamped into every header created by a Heap.
	Magic uint32 = 0x12345678

	// minSplit is the smallest leftover that is carved into its own chunk.
	minSplit = HeaderSize + Alignment
)

// Header field offsets, relative to the chunk start.
const (
	offMagic = 0
	offFlags = 4
	offSize  = 8
	offNext  = 16
)

const flagFree = 1

// Ptr addresses a payload inside a Heap's arena. The zero value is Nil.
type Ptr int

// Nil is returned by failed allocations. No payload ever lives at offset 0
// because the first header occupies it.
const Nil Ptr = 0

func (p Ptr) String() string {
	return fmt.Sprintf("%#x", int(p))
}

// chunk is the arena offset of a chunk header.
type chunk int

// noChunk marks the absence of a chunk in search results.
const noChunk chunk = -1

func (c chunk) payload() Ptr { return Ptr(int(c) + HeaderSize) }

func (p Ptr) chunk() chunk { return chunk(int(p) - HeaderSize) }

// header reads and writes chunk metadata in place inside the arena bytes.
// Offset 0 is always the chain head, so a stored next of 0 means "none".
type header []byte

func headerAt(mem []byte, c chunk) header {
	return header(mem[c : int(c)+HeaderSize : int(c)+HeaderSize])
}

func (h header) magic() uint32 { return binary.LittleEndian.Uint32(h[offMagic:]) }

func (h header) setMagic(v uint32) { binary.LittleEndian.PutUint32(h[offMagic:], v) }

func (h header) free() bool { return binary.LittleEndian.Uint32(h[offFlags:])&flagFree != 0 }

func (h header) setFree(free bool) {
	var flags uint32
	if free {
		flags = flagFree
	}
	binary.LittleEndian.PutUint32(h[offFlags:], flags)
}

func (h header) size() int { return int(binary.LittleEndian.Uint64(h[offSize:])) }

func (h header) setSize(n int) { binary.LittleEndian.PutUint64(h[offSize:], uint64(n)) }

func (h header) next() chunk {
	n := binary.LittleEndian.Uint64(h[offNext:])
	if n == 0 {
		return noChunk
	}
	return chunk(n)
}

func (h header) setNext(c chunk) {
	var n uint64
	if c != noChunk {
		n = uint64(c)
	}
	binary.LittleEndian.PutUint64(h[offNext:], n)
}

// stamp initializes a fresh header.
func (h header) stamp(size int, free bool, next chunk) {
	h.setMagic(Magic)
	h.setSize(size)
	h.setFree(free)
	h.setNext(next)
}

// alignUp rounds n up to the next multiple of Alignment.
func alignUp(n int) int {
	const mask = Alignment - 1
	return (n + mask) &^ mask
}
