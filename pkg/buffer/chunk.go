package buffer

import (
	"io"
	"runtime"
	"sync/atomic"

	"AveBuf/pkg/utils"
	"github.com/pkg/errors"
)

var logger = utils.GetLogger("avebuf")

var (
	ErrBadCapacity      = errors.New("capacity of chunk should be > 0")
	ErrCapacityExceeded = errors.New("not enough room in chunk")
)

// Chunk is a fixed-capacity, append-only block of bytes. The backing array
// is allocated once and never reallocated, so views of the filled prefix
// stay valid for as long as a reference keeps the chunk alive. A single
// writer extends the unfilled suffix; everyone else only reads.
//
//	+----------------+----------+
//	|     filled     | unfilled |
//	+----------------+----------+
type Chunk struct {
	refs   int32
	filled atomic.Int64
	data   []byte
}

// NewChunk allocates a chunk with one reference held by the caller.
func NewChunk(capacity int) (*Chunk, error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(ErrBadCapacity, "capacity %d", capacity)
	}
	c := &Chunk{refs: 1, data: make([]byte, capacity)}
	runtime.SetFinalizer(c, func(c *Chunk) {
		refCnt := atomic.LoadInt32(&c.refs)
		if refCnt != 0 {
			logger.Errorf("refcount of chunk %p is not zero: %d", c, refCnt)
		}
	})
	return c, nil
}

// Acquire increase the refcount
func (c *Chunk) Acquire() {
	atomic.AddInt32(&c.refs, 1)
}

// Release decreases the refcount
func (c *Chunk) Release() {
	if atomic.AddInt32(&c.refs, -1) == 0 {
		c.data = nil
	}
}

func (c *Chunk) Capacity() int { return len(c.data) }

func (c *Chunk) Filled() int { return int(c.filled.Load()) }

func (c *Chunk) Remaining() int { return len(c.data) - c.Filled() }

// FilledView returns the written prefix. It may be called concurrently
// with Append by the writer: appends only touch bytes past the filled
// mark, and the mark is published atomically after the copy, so the
// returned slice is never overwritten.
func (c *Chunk) FilledView() []byte {
	return c.data[:c.filled.Load()]
}

// View returns a sub-slice of the filled prefix.
func (c *Chunk) View(off, n int) []byte {
	filled := c.Filled()
	if off < 0 || n < 0 || off+n > filled {
		panic("view outside the filled prefix")
	}
	return c.data[off : off+n]
}

// Append copies p into the unfilled suffix and publishes the new filled
// length. Only the writer that created the chunk may call it; callers
// check Remaining() first and roll over to a new chunk when it hits 0.
func (c *Chunk) Append(p []byte) error {
	filled := c.Filled()
	if len(p) > len(c.data)-filled {
		return errors.Wrapf(ErrCapacityExceeded, "append %d bytes with %d remaining", len(p), len(c.data)-filled)
	}
	copy(c.data[filled:], p)
	c.filled.Store(int64(filled + len(p)))
	return nil
}

// unfilled returns the writable suffix for the single writer.
func (c *Chunk) unfilled() []byte {
	return c.data[c.filled.Load():]
}

// advance publishes n bytes written directly into the unfilled suffix.
func (c *Chunk) advance(n int) {
	c.filled.Add(int64(n))
}

// ChunkReader reads the filled prefix of a chunk, keeping the chunk alive
// until closed.
type ChunkReader struct {
	c   *Chunk
	off int
}

func NewChunkReader(c *Chunk) *ChunkReader {
	c.Acquire()
	return &ChunkReader{c, 0}
}

func (r *ChunkReader) Read(buf []byte) (int, error) {
	n, err := r.ReadAt(buf, int64(r.off))
	r.off += n
	return n, err
}

func (r *ChunkReader) ReadAt(buf []byte, off int64) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	if r.c == nil {
		return 0, errors.New("chunk is already released")
	}
	filled := r.c.Filled()
	if int(off) >= filled {
		return 0, io.EOF
	}
	n := copy(buf, r.c.data[off:filled])
	if n < len(buf) {
		return n, io.EOF
	}
	return n, nil
}

func (r *ChunkReader) Close() error {
	if r.c != nil {
		r.c.Release()
		r.c = nil
	}
	return nil
}
