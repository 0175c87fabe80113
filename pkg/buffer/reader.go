package buffer

import (
	"io"

	"github.com/pkg/errors"
)

// Reader pulls bytes from a source into persistent chunks. It never
// overwrites or moves what it has read: when the current chunk runs out
// of room, the chunk is retired into the history and a fresh one takes
// its place, so views into earlier data stay valid while reading goes on.
type Reader struct {
	src       io.Reader
	current   *Chunk
	history   History
	policy    SizePolicy
	exhausted bool
}

// NewReader creates a reader with an initial chunk sized by policy(0).
func NewReader(src io.Reader, policy SizePolicy) (*Reader, error) {
	c, err := NewChunk(policy(0))
	if err != nil {
		return nil, err
	}
	return &Reader{src: src, current: c, policy: policy}, nil
}

// Fill pulls once from the source into the current chunk. If the chunk is
// full it is first retired and a new one allocated, sized by the policy.
// Fill returns the number of bytes appended; 0 with a nil error means the
// source is exhausted, which is terminal. A source failure is returned
// with the reader untouched beyond the bytes already published.
func (r *Reader) Fill() (int, error) {
	if r.exhausted {
		return 0, nil
	}
	if r.current.Remaining() == 0 {
		if err := r.rollover(); err != nil {
			return 0, err
		}
	}
	n, err := r.src.Read(r.current.unfilled())
	if n > 0 {
		r.current.advance(n)
	}
	if err == io.EOF {
		r.exhausted = true
		return n, nil
	}
	if err != nil {
		return n, errors.Wrap(err, "read from source")
	}
	if n == 0 {
		r.exhausted = true
	}
	return n, nil
}

// rollover retires the current chunk into the history and starts a new
// one. The new chunk is allocated first, so a failed allocation leaves
// the reader unchanged.
func (r *Reader) rollover() error {
	c, err := NewChunk(r.policy(r.history.Len() + 1))
	if err != nil {
		return err
	}
	r.history.Push(r.current)
	r.current.Release()
	r.current = c
	return nil
}

// Exhausted reports whether the source has signalled end-of-data.
func (r *Reader) Exhausted() bool {
	return r.exhausted
}

// CurrentView returns the filled prefix of the chunk being written. The
// slice stays valid across further fills.
func (r *Reader) CurrentView() []byte {
	return r.current.FilledView()
}

// Current returns the chunk being written. A caller retaining it beyond
// the reader's lifetime must Acquire it.
func (r *Reader) Current() *Chunk {
	return r.current
}

// History returns the retired chunks, oldest first.
func (r *Reader) History() *History {
	return &r.history
}

// Close releases the reader's chunks. Chunks still referenced elsewhere
// (snapshots, retained views) live on.
func (r *Reader) Close() error {
	if r.current != nil {
		r.current.Release()
		r.current = nil
	}
	r.history.release()
	return nil
}
