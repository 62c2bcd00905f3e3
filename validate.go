package chunkheap

import "github.com/cockroachdb/errors"

// walk visits chunks from the head in chain order. It stops at the first
// link that leaves the arena or revisits memory, so a damaged chain cannot
// loop forever. Must hold mu.
func (h *Heap) walk(fn func(c chunk, hd header) error) error {
	ch := &h.chain
	limit := len(ch.mem)/HeaderSize + 1
	steps := 0
	for c := ch.head; c != noChunk; {
		if steps++; steps > limit {
			return errors.Newf("chain longer than %d chunks, assuming a cycle", limit)
		}
		if !ch.contains(c) {
			return errors.Newf("chunk at %d lies outside the arena of %d bytes", c, len(ch.mem))
		}
		hd := ch.header(c)
		if err := fn(c, hd); err != nil {
			return err
		}
		next := hd.next()
		if next != noChunk && next <= c {
			return errors.Newf("chunk at %d links backwards to %d", c, next)
		}
		c = next
	}
	return nil
}

// Validate checks the structure of the chain: every header carries Magic,
// sizes are aligned, each link points at the physically adjacent chunk,
// and the last chunk ends at the arena break.
func (h *Heap) Validate() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	mem := h.chain.mem
	if len(mem) > 0 && h.chain.head != 0 {
		return errors.Newf("chain head at %d, want 0", h.chain.head)
	}
	end := 0
	err := h.walk(func(c chunk, hd header) error {
		if m := hd.magic(); m != Magic {
			return errors.Wrapf(ErrCorrupted, "chunk at %d has sentinel %#x", c, m)
		}
		size := hd.size()
		if size < 0 || size%Alignment != 0 {
			return errors.Newf("chunk at %d has unaligned size %d", c, size)
		}
		if int(c) != end {
			return errors.Newf("chunk at %d does not follow the previous chunk ending at %d", c, end)
		}
		end = int(c) + HeaderSize + size
		if end > len(mem) {
			return errors.Newf("chunk at %d of size %d overruns the arena of %d bytes", c, size, len(mem))
		}
		return nil
	})
	if err != nil {
		return err
	}
	if end != len(mem) {
		return errors.Newf("chain ends at %d, arena break is %d", end, len(mem))
	}
	return nil
}
