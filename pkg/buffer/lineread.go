package buffer

import (
	"bytes"
	"io"

	"AveBuf/pkg/utils"
	"github.com/pkg/errors"
)

// Bytes is a slice paired with a reference to the chunk backing it, so
// the slice can be retained after the reader has moved on.
type Bytes struct {
	chunk *Chunk
	data  []byte
}

func (b Bytes) Slice() []byte {
	return b.data
}

// Chunk returns the backing chunk. The reference stays with the Bytes;
// retain it separately with Acquire.
func (b Bytes) Chunk() *Chunk {
	return b.chunk
}

// Release drops the reference backing the slice.
func (b Bytes) Release() {
	if b.chunk != nil {
		b.chunk.Release()
	}
}

// LineReader reads LF-delimited lines through persistent chunks. Returned
// lines are not copied and are never overwritten; they stay valid while
// their Bytes is alive, however long reading continues.
type LineReader struct {
	src      io.Reader
	current  *Chunk
	consumed int
	// the initial capacity for a new chunk
	initial int
}

func NewLineReader(src io.Reader, initialCapacity int) (*LineReader, error) {
	c, err := NewChunk(initialCapacity)
	if err != nil {
		return nil, err
	}
	return &LineReader{src: src, current: c, initial: initialCapacity}, nil
}

// ReadLine reads until LF or EOF and returns the line, including the
// trailing LF. At end-of-data it returns an empty line.
func (r *LineReader) ReadLine() (Bytes, error) {
	var length int
	if i := bytes.IndexByte(r.available(), '\n'); i >= 0 {
		length = i + 1
	} else {
		length = len(r.available())
		for {
			if r.current.Remaining() == 0 {
				if err := r.carryOver(); err != nil {
					return Bytes{}, err
				}
			}
			n, err := r.src.Read(r.current.unfilled())
			if n > 0 {
				mark := r.current.Filled()
				r.current.advance(n)
				if i := bytes.IndexByte(r.current.View(mark, n), '\n'); i >= 0 {
					length += i + 1
					break
				}
				length += n
			}
			if err == io.EOF || (err == nil && n == 0) {
				break
			}
			if err != nil {
				return Bytes{}, errors.Wrap(err, "read from source")
			}
		}
	}
	line := r.current.View(r.consumed, length)
	r.consumed += length
	r.current.Acquire()
	return Bytes{chunk: r.current, data: line}, nil
}

// carryOver starts a fresh chunk and moves the unconsumed partial line
// into it. The old chunk lives on only through Bytes still referencing it.
func (r *LineReader) carryOver() error {
	partial := r.available()
	c, err := NewChunk(utils.Max(len(partial)*2, r.initial))
	if err != nil {
		return err
	}
	if len(partial) > 0 {
		if err := c.Append(partial); err != nil {
			c.Release()
			return err
		}
	}
	old := r.current
	r.current = c
	r.consumed = 0
	old.Release()
	return nil
}

func (r *LineReader) available() []byte {
	return r.current.FilledView()[r.consumed:]
}

// Buffer retains and returns the chunk currently being filled.
func (r *LineReader) Buffer() *Chunk {
	r.current.Acquire()
	return r.current
}

func (r *LineReader) Close() error {
	if r.current != nil {
		r.current.Release()
		r.current = nil
	}
	return nil
}
