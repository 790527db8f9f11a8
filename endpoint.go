package stream

import (
	"io"

	"github.com/mattn/go-isatty"
)

// maxEmptyReads is how many times an io.Reader may return (0, nil) in a row
// before the adapter gives up with io.ErrNoProgress.
const maxEmptyReads = 100

// BlockReader is the read capability of an endpoint. ReadBlock returns at
// most size bytes; a short block is normal. End of data is signalled by
// io.EOF or by an empty block with a nil error, and must keep being
// signalled on later calls.
type BlockReader interface {
	ReadBlock(size int) ([]byte, error)
}

// ReaderFunc adapts a plain function to BlockReader.
type ReaderFunc func(size int) ([]byte, error)

func (f ReaderFunc) ReadBlock(size int) ([]byte, error) {
	return f(size)
}

// Flusher is the optional flush capability of an endpoint.
type Flusher interface {
	Flush() error
}

// FileDescriptor is the optional fileno capability of an endpoint.
type FileDescriptor interface {
	Fd() uintptr
}

// Terminal is the optional isatty capability of an endpoint.
type Terminal interface {
	IsTerminal() bool
}

// Namer is the optional name capability of an endpoint.
type Namer interface {
	Name() string
}

// NewBlockReader adapts an io.Reader to BlockReader. Each ReadBlock issues
// one Read into a fresh buffer of the requested size; a negative size reads
// everything up to EOF.
func NewBlockReader(r io.Reader) BlockReader {
	if br, ok := r.(BlockReader); ok {
		return br
	}
	return &ioBlockReader{r: r}
}

type ioBlockReader struct {
	r   io.Reader
	eof bool
}

func (b *ioBlockReader) ReadBlock(size int) ([]byte, error) {
	if b.eof {
		return nil, io.EOF
	}
	if size < 0 {
		b.eof = true
		data, err := io.ReadAll(b.r)
		if err == nil && len(data) == 0 {
			return nil, io.EOF
		}
		return data, err
	}
	if size == 0 {
		size = DefaultChunkSize
	}

	buf := make([]byte, size)
	for range maxEmptyReads {
		n, err := b.r.Read(buf)
		if err == io.EOF {
			b.eof = true
			if n > 0 {
				return buf[:n], nil
			}
			return nil, io.EOF
		}
		if n > 0 || err != nil {
			return buf[:n], err
		}
	}
	return nil, io.ErrNoProgress
}

// capabilities holds what an endpoint can do, probed once.
type capabilities struct {
	reader  BlockReader
	writer  io.Writer
	flusher Flusher
	closer  io.Closer
	fd      FileDescriptor
	tty     Terminal
	namer   Namer
}

func probe(endpoint any) capabilities {
	var caps capabilities

	switch r := endpoint.(type) {
	case BlockReader:
		caps.reader = r
	case io.Reader:
		caps.reader = &ioBlockReader{r: r}
	}

	caps.writer, _ = endpoint.(io.Writer)
	caps.flusher, _ = endpoint.(Flusher)
	caps.closer, _ = endpoint.(io.Closer)
	caps.fd, _ = endpoint.(FileDescriptor)
	caps.tty, _ = endpoint.(Terminal)
	caps.namer, _ = endpoint.(Namer)
	return caps
}

func (c capabilities) isTerminal() bool {
	if c.tty != nil {
		return c.tty.IsTerminal()
	}
	if c.fd != nil {
		fd := c.fd.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return false
}

func (c capabilities) name() string {
	if c.namer == nil {
		return ""
	}
	return c.namer.Name()
}
