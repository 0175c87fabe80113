package buffer

import (
	"io"

	"github.com/juju/ratelimit"
)

type limitedReader struct {
	io.Reader
	bucket *ratelimit.Bucket
}

func (l *limitedReader) Read(buf []byte) (int, error) {
	n, err := l.Reader.Read(buf)
	if l.bucket != nil {
		l.bucket.Wait(int64(n))
	}
	return n, err
}

// Throttled caps a source at bps bytes per second. A non-positive rate
// returns the source unchanged.
func Throttled(r io.Reader, bps int64) io.Reader {
	if bps <= 0 {
		return r
	}
	return &limitedReader{r, ratelimit.NewBucketWithRate(float64(bps), bps)}
}
