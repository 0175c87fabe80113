package buffer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type ident struct {
	author    []byte
	committer []byte
}

func directive(b *Builder, name string) ([]byte, error) {
	line, err := b.ReadLine()
	if err != nil {
		return nil, err
	}
	line = bytes.TrimSuffix(line, []byte("\n"))
	value, ok := bytes.CutPrefix(line, []byte(name+": "))
	if !ok {
		return nil, errors.Errorf("expected %s directive", name)
	}
	return value, nil
}

func TestSelfRefPair(t *testing.T) {
	s := "author: Author\ncommitter: Committer"
	r, err := NewLineReader(&limitReader{strings.NewReader(s), 8}, 100)
	require.NoError(t, err)
	defer r.Close()

	pair, err := NewPair(r, func(b *Builder) (ident, error) {
		author, err := directive(b, "author")
		if err != nil {
			return ident{}, err
		}
		committer, err := directive(b, "committer")
		if err != nil {
			return ident{}, err
		}
		return ident{author, committer}, nil
	})
	require.NoError(t, err)
	defer pair.Release()

	require.Equal(t, "Author", string(pair.Value().author))
	require.Equal(t, "Committer", string(pair.Value().committer))
	require.Equal(t, 1, pair.Owners(), "both lines fit in one chunk")

	// the pair keeps its chunks alive after the reader is gone
	require.NoError(t, r.Close())
	require.Equal(t, "Author", string(pair.Value().author))
}

func TestPairAcrossChunks(t *testing.T) {
	s := "author: Somebody With A Long Name\ncommitter: Somebody Else Entirely\n"
	r, err := NewLineReader(&limitReader{strings.NewReader(s), 4}, 16)
	require.NoError(t, err)
	defer r.Close()

	pair, err := NewPair(r, func(b *Builder) (ident, error) {
		author, err := directive(b, "author")
		if err != nil {
			return ident{}, err
		}
		committer, err := directive(b, "committer")
		if err != nil {
			return ident{}, err
		}
		return ident{author, committer}, nil
	})
	require.NoError(t, err)
	defer pair.Release()

	require.Equal(t, "Somebody With A Long Name", string(pair.Value().author))
	require.Equal(t, "Somebody Else Entirely", string(pair.Value().committer))
	require.GreaterOrEqual(t, pair.Owners(), 2)
}

func TestPairBuildError(t *testing.T) {
	s := "writer: Nobody\n"
	r, err := NewLineReader(strings.NewReader(s), 64)
	require.NoError(t, err)
	defer r.Close()

	_, err = NewPair(r, func(b *Builder) (ident, error) {
		author, err := directive(b, "author")
		if err != nil {
			return ident{}, err
		}
		return ident{author: author}, nil
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "expected author directive")
}
