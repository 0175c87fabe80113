package buffer

// Pair packages a parsed value together with the chunks its slices point
// into, so the value can be stored or returned as one unit without the
// caller tracking buffer lifetime.
type Pair[T any] struct {
	value T
	owner []*Chunk
}

// NewPair runs build against a Builder that records the chunk behind
// every line it reads, then packages the result with those chunks.
func NewPair[T any](r *LineReader, build func(*Builder) (T, error)) (*Pair[T], error) {
	b := &Builder{r: r}
	v, err := build(b)
	if err != nil {
		b.release()
		return nil, err
	}
	return &Pair[T]{value: v, owner: b.owner}, nil
}

func (p *Pair[T]) Value() T {
	return p.value
}

// Owners returns how many chunks the pair keeps alive.
func (p *Pair[T]) Owners() int {
	return len(p.owner)
}

// Release drops the pair's references; slices inside the value must not
// be used afterwards.
func (p *Pair[T]) Release() {
	for _, c := range p.owner {
		c.Release()
	}
	p.owner = nil
}

// Builder reads lines on behalf of NewPair, retaining each distinct
// backing chunk for the pair under construction.
type Builder struct {
	r     *LineReader
	owner []*Chunk
}

// ReadLine reads a line and keeps the chunk it came from alive in the
// pair being built, so the returned slice outlives the reader.
func (b *Builder) ReadLine() ([]byte, error) {
	line, err := b.r.ReadLine()
	if err != nil {
		return nil, err
	}
	if n := len(b.owner); n > 0 && b.owner[n-1] == line.Chunk() {
		// already retained by a previous line
		line.Release()
	} else {
		b.owner = append(b.owner, line.Chunk())
	}
	return line.Slice(), nil
}

func (b *Builder) release() {
	for _, c := range b.owner {
		c.Release()
	}
	b.owner = nil
}
