package buffer

import (
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// scriptSource yields predetermined byte sequences, one per Read as far
// as the destination allows, then EOF.
type scriptSource struct {
	parts []string
}

func (s *scriptSource) Read(p []byte) (int, error) {
	if len(s.parts) == 0 {
		return 0, io.EOF
	}
	n := copy(p, s.parts[0])
	if n == len(s.parts[0]) {
		s.parts = s.parts[1:]
	} else {
		s.parts[0] = s.parts[0][n:]
	}
	return n, nil
}

// limitReader caps how many bytes a single Read may return.
type limitReader struct {
	r     io.Reader
	limit int
}

func (l *limitReader) Read(p []byte) (int, error) {
	if len(p) > l.limit {
		p = p[:l.limit]
	}
	return l.r.Read(p)
}

func drain(t *testing.T, r *Reader) int {
	var total int
	for {
		n, err := r.Fill()
		require.NoError(t, err)
		if n == 0 {
			break
		}
		total += n
	}
	return total
}

func collect(r *Reader) string {
	var sb strings.Builder
	for c := range r.History().All() {
		sb.Write(c.FilledView())
	}
	sb.Write(r.CurrentView())
	return sb.String()
}

func TestFillRollover(t *testing.T) {
	src := &scriptSource{parts: []string{"AB", "CDE", ""}}
	r, err := NewReader(src, FixedSize(4))
	require.NoError(t, err)
	defer r.Close()

	n, err := r.Fill()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "AB", string(r.CurrentView()))
	require.Equal(t, 0, r.History().Len())

	n, err = r.Fill()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 0, r.Current().Remaining())
	require.Equal(t, 0, r.History().Len(), "retirement waits for the next fill")

	n, err = r.Fill()
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, 1, r.History().Len())
	retired := r.History().Get(0)
	require.Equal(t, retired.Capacity(), retired.Filled())
	require.Equal(t, "ABCD", string(retired.FilledView()))
	require.Equal(t, "E", string(r.CurrentView()))

	snap := Capture(r, true)
	defer snap.Release()
	require.Equal(t, 2, snap.Len())
	require.Equal(t, "ABCD", string(snap.View(0)))
	require.Equal(t, "E", string(snap.View(1)))
}

func TestFillExhaustedIsTerminal(t *testing.T) {
	r, err := NewReader(strings.NewReader("xy"), FixedSize(8))
	require.NoError(t, err)
	defer r.Close()

	drain(t, r)
	require.True(t, r.Exhausted())
	for i := 0; i < 3; i++ {
		n, err := r.Fill()
		require.NoError(t, err)
		require.Equal(t, 0, n)
	}
	require.Equal(t, "xy", string(r.CurrentView()))
}

func TestFillReassemblesSource(t *testing.T) {
	input := strings.Repeat("the quick brown fox jumps over the lazy dog\n", 20)
	for _, policy := range []SizePolicy{FixedSize(16), FixedSize(7), Doubling(8, 64)} {
		r, err := NewReader(&limitReader{strings.NewReader(input), 5}, policy)
		require.NoError(t, err)
		total := drain(t, r)
		require.Equal(t, len(input), total)
		require.Equal(t, input, collect(r))
		require.NoError(t, r.Close())
	}
}

func TestFilledPrefixImmutable(t *testing.T) {
	input := strings.Repeat("0123456789", 10)
	r, err := NewReader(&limitReader{strings.NewReader(input), 3}, FixedSize(32))
	require.NoError(t, err)
	defer r.Close()

	n, err := r.Fill()
	require.NoError(t, err)
	view := r.CurrentView()
	seen := string(view)
	require.Equal(t, n, len(seen))

	drain(t, r)
	require.Equal(t, seen, string(view))
	require.Equal(t, seen, string(r.History().Get(0).FilledView()[:len(seen)]))
}

type errSource struct {
	next io.Reader
	err  error
}

func (s *errSource) Read(p []byte) (int, error) {
	if s.err != nil {
		err := s.err
		s.err = nil
		return 0, err
	}
	return s.next.Read(p)
}

func TestFillSourceError(t *testing.T) {
	boom := errors.New("boom")
	src := &errSource{next: strings.NewReader("ok"), err: boom}
	r, err := NewReader(src, FixedSize(8))
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Fill()
	require.Error(t, err)
	require.Equal(t, boom, errors.Cause(err))
	require.False(t, r.Exhausted())
	require.Len(t, r.CurrentView(), 0)

	// the reader stays usable after a source failure
	n, err := r.Fill()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "ok", string(r.CurrentView()))
}

func TestDoublingPolicy(t *testing.T) {
	p := Doubling(8, 32)
	require.Equal(t, 8, p(0))
	require.Equal(t, 16, p(1))
	require.Equal(t, 32, p(2))
	require.Equal(t, 32, p(10))
}

func TestHistoryIterRestartable(t *testing.T) {
	input := strings.Repeat("z", 40)
	r, err := NewReader(strings.NewReader(input), FixedSize(8))
	require.NoError(t, err)
	defer r.Close()
	drain(t, r)

	for round := 0; round < 2; round++ {
		var n int
		for c := range r.History().All() {
			require.Equal(t, 8, c.Filled())
			n++
		}
		require.Equal(t, r.History().Len(), n)
	}
}
