package stream

import (
	"io"
	"math"
)

// LengthReader reads at most n bytes from an underlying BlockReader and then
// reports EOF, as needed for request bodies with a known content length.
// Each ReadBlock returns exactly the requested size while data remains.
type LengthReader struct {
	r    BlockReader
	left int64
}

var _ BlockReader = (*LengthReader)(nil)

func NewLengthReader(r BlockReader, n int64) *LengthReader {
	return &LengthReader{r: r, left: max(n, 0)}
}

// ReadBlock reads up to size bytes without going past the length. A
// negative size reads all that is left; 0 reads up to DefaultChunkSize.
func (l *LengthReader) ReadBlock(size int) ([]byte, error) {
	if l.left <= 0 {
		return nil, io.EOF
	}

	left := int(min(l.left, math.MaxInt))
	switch {
	case size < 0 || size > left:
		size = left
	case size == 0:
		size = min(left, DefaultChunkSize)
	}

	block, err := ReadExact(l.r, size)
	if err == io.EOF {
		// The underlying reader ended early
		l.left = 0
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}
	l.left -= int64(len(block))
	return block, nil
}

// Remaining returns how many bytes may still be read.
func (l *LengthReader) Remaining() int64 {
	return l.left
}
