package chunkheap

// chain is the address-ordered list of chunks laid out in one arena.
// Not goroutine-safe; Heap serializes every call.
type chain struct {
	mem  []byte
	head chunk
}

func (ch *chain) header(c chunk) header {
	return headerAt(ch.mem, c)
}

// findFit returns the first free chunk with at least n bytes of payload.
// On a miss it returns noChunk together with the tail, so a grown chunk
// can be appended without a second walk.
func (ch *chain) findFit(n int) (match, pred chunk) {
	pred = noChunk
	for c := ch.head; c != noChunk; c = ch.header(c).next() {
		h := ch.header(c)
		if h.free() && h.size() >= n {
			return c, pred
		}
		pred = c
	}
	return noChunk, pred
}

// canSplit reports whether c holds a useful remainder beyond n bytes.
func (ch *chain) canSplit(c chunk, n int) bool {
	return ch.header(c).size()-n >= minSplit
}

// split carves the bytes of c beyond n into a free chunk linked after c.
func (ch *chain) split(c chunk, n int) {
	h := ch.header(c)
	rest := chunk(int(c) + HeaderSize + n)
	ch.header(rest).stamp(h.size()-n-HeaderSize, true, h.next())
	h.setSize(n)
	h.setNext(rest)
}

// mergeForward absorbs every free successor of c. Only successors are
// considered: a free predecessor stays separate.
func (ch *chain) mergeForward(c chunk) (absorbed int) {
	h := ch.header(c)
	for next := h.next(); next != noChunk; next = h.next() {
		nh := ch.header(next)
		if !nh.free() {
			break
		}
		h.setSize(h.size() + HeaderSize + nh.size())
		h.setNext(nh.next())
		// the absorbed header is now payload; a stale Ptr to it must fail
		// the sentinel check.
		nh.setMagic(0)
		absorbed++
	}
	return absorbed
}

// appendChunk links a freshly grown chunk after pred, or makes it the head.
func (ch *chain) appendChunk(pred, c chunk) {
	if pred == noChunk {
		ch.head = c
		return
	}
	ch.header(pred).setNext(c)
}

// contains reports whether a header of c fits inside the arena.
func (ch *chain) contains(c chunk) bool {
	return c >= 0 && int(c)%Alignment == 0 && int(c)+HeaderSize <= len(ch.mem)
}
