package buffer

import "io"

// Snapshot packages a set of chunks together with the lengths of their
// filled prefixes at capture time. The views it hands out point into
// chunks the snapshot itself keeps alive, so it can be stored or passed
// around as one value without tracking buffer lifetime separately.
//
// Views are resolved from (chunk, recorded length) on access instead of
// being stored as slices, so they can never be separated from the chunks
// backing them.
type Snapshot struct {
	owner []*Chunk
	lens  []int
}

// Capture snapshots the reader's retired chunks, plus the chunk currently
// being filled if includeCurrent is set. Each chunk's filled length is
// read once; bytes appended after the capture are not visible through it.
func Capture(r *Reader, includeCurrent bool) *Snapshot {
	s := &Snapshot{}
	for c := range r.history.All() {
		s.retain(c)
	}
	if includeCurrent && r.current != nil {
		s.retain(r.current)
	}
	return s
}

func (s *Snapshot) retain(c *Chunk) {
	c.Acquire()
	s.owner = append(s.owner, c)
	s.lens = append(s.lens, c.Filled())
}

// Len returns the number of captured views.
func (s *Snapshot) Len() int {
	return len(s.owner)
}

// View returns the i-th captured view, oldest first. It stays valid for
// the snapshot's entire lifetime.
func (s *Snapshot) View(i int) []byte {
	return s.owner[i].View(0, s.lens[i])
}

// Size returns the total number of bytes visible through the snapshot.
func (s *Snapshot) Size() int {
	var n int
	for _, l := range s.lens {
		n += l
	}
	return n
}

// Open returns a reader over the concatenation of all captured views.
// Closing it is optional; the snapshot keeps the chunks alive either way.
func (s *Snapshot) Open() io.ReadCloser {
	readers := make([]*ChunkReader, len(s.owner))
	parts := make([]io.Reader, len(s.owner))
	for i, c := range s.owner {
		readers[i] = NewChunkReader(c)
		parts[i] = io.LimitReader(readers[i], int64(s.lens[i]))
	}
	return &snapshotReader{io.MultiReader(parts...), readers}
}

type snapshotReader struct {
	io.Reader
	chunks []*ChunkReader
}

func (r *snapshotReader) Close() error {
	for _, cr := range r.chunks {
		_ = cr.Close()
	}
	r.chunks = nil
	return nil
}

// Release drops the snapshot's references; views from it must not be
// used afterwards.
func (s *Snapshot) Release() {
	for _, c := range s.owner {
		c.Release()
	}
	s.owner, s.lens = nil, nil
}
