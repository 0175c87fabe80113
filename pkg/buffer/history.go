package buffer

import "iter"

// History keeps retired chunks in retirement order, oldest first. It is
// append-only: entries are never dropped while the history lives, so any
// view into a retired chunk stays valid.
type History struct {
	chunks []*Chunk
}

// Push retains c and appends it to the history.
func (h *History) Push(c *Chunk) {
	c.Acquire()
	h.chunks = append(h.chunks, c)
}

func (h *History) Len() int {
	return len(h.chunks)
}

func (h *History) Get(i int) *Chunk {
	return h.chunks[i]
}

// All iterates the retired chunks, oldest first. The sequence is
// restartable and read-only.
func (h *History) All() iter.Seq[*Chunk] {
	return func(yield func(*Chunk) bool) {
		for _, c := range h.chunks {
			if !yield(c) {
				return
			}
		}
	}
}

func (h *History) release() {
	for _, c := range h.chunks {
		c.Release()
	}
	h.chunks = nil
}
