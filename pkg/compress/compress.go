package compress

import (
	"fmt"
	"strings"

	"github.com/DataDog/zstd"
	lz4 "github.com/hungys/go-lz4"
)

// Compressor works on independent blocks, a natural fit for fixed-size
// chunks: every block can be unpacked on its own.
type Compressor interface {
	Name() string
	CompressBound(len int) int // maximum compressed length
	Compress(dst, src []byte) (int, error)
	Decompress(dst, src []byte) (int, error)
}

// NewCompressor returns a compressor for the named algorithm, or nil if
// the name is unknown.
func NewCompressor(algr string) Compressor {
	switch strings.ToLower(algr) {
	case "zstd":
		return ZStandard{}
	case "lz4":
		return LZ4{}
	case "none", "":
		return NoOp{}
	}
	return nil
}

type NoOp struct{}

func (n NoOp) Name() string { return "Noop" }

func (n NoOp) CompressBound(l int) int { return l }

func (n NoOp) Compress(dst, src []byte) (int, error) {
	if len(dst) < len(src) {
		return 0, fmt.Errorf("dst is not big enough: %d < %d", len(dst), len(src))
	}
	return copy(dst, src), nil
}

func (n NoOp) Decompress(dst, src []byte) (int, error) {
	if len(dst) < len(src) {
		return 0, fmt.Errorf("dst is not big enough: %d < %d", len(dst), len(src))
	}
	return copy(dst, src), nil
}

type LZ4 struct{}

func (l LZ4) Name() string { return "LZ4" }

func (l LZ4) CompressBound(size int) int { return lz4.CompressBound(size) }

func (l LZ4) Compress(dst, src []byte) (int, error) {
	return lz4.CompressDefault(src, dst)
}

func (l LZ4) Decompress(dst, src []byte) (int, error) {
	return lz4.DecompressSafe(src, dst)
}

type ZStandard struct{}

func (z ZStandard) Name() string { return "Zstd" }

func (z ZStandard) CompressBound(l int) int { return zstd.CompressBound(l) }

func (z ZStandard) Compress(dst, src []byte) (int, error) {
	d, err := zstd.CompressLevel(dst, src, 1)
	return len(d), err
}

func (z ZStandard) Decompress(dst, src []byte) (int, error) {
	d, err := zstd.Decompress(dst, src)
	return len(d), err
}
