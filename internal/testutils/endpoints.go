package testutils

import (
	"bytes"
	"io"

	"github.com/pior/stream"
)

func eofOr(err error) error {
	if err == nil {
		return io.EOF
	}
	return err
}

// ChunkReader is a scripted BlockReader. Each ReadBlock returns the next
// chunk, cut to the requested size, and records the size asked for.
type ChunkReader struct {
	chunks [][]byte

	Sizes []int // sizes passed to ReadBlock
	Err   error // returned once the chunks are exhausted, io.EOF if nil

	// FailAt makes the ReadBlock call with this index (0-based) return
	// FailErr without consuming a chunk. Negative disables it.
	FailAt  int
	FailErr error
}

func NewChunkReader(chunks ...string) *ChunkReader {
	r := &ChunkReader{FailAt: -1}
	for _, c := range chunks {
		r.chunks = append(r.chunks, []byte(c))
	}
	return r
}

func (r *ChunkReader) ReadBlock(size int) ([]byte, error) {
	call := len(r.Sizes)
	r.Sizes = append(r.Sizes, size)

	if call == r.FailAt {
		return nil, r.FailErr
	}
	if len(r.chunks) == 0 {
		return nil, eofOr(r.Err)
	}

	chunk := r.chunks[0]
	if size > 0 && len(chunk) > size {
		r.chunks[0] = chunk[size:]
		return bytes.Clone(chunk[:size]), nil
	}
	r.chunks = r.chunks[1:]
	return chunk, nil
}

// Calls returns the number of ReadBlock calls.
func (r *ChunkReader) Calls() int {
	return len(r.Sizes)
}

// Recorder is a writable endpoint recording every call made to it.
type Recorder struct {
	Writes  [][]byte
	Flushes int
	Closes  int

	WriteErr error
	FlushErr error
	CloseErr error
}

var (
	_ io.WriteCloser = (*Recorder)(nil)
	_ stream.Flusher = (*Recorder)(nil)
)

func (r *Recorder) Write(p []byte) (int, error) {
	if r.WriteErr != nil {
		return 0, r.WriteErr
	}
	r.Writes = append(r.Writes, bytes.Clone(p))
	return len(p), nil
}

func (r *Recorder) Flush() error {
	r.Flushes++
	return r.FlushErr
}

func (r *Recorder) Close() error {
	r.Closes++
	return r.CloseErr
}

// String returns everything written so far.
func (r *Recorder) String() string {
	return string(bytes.Join(r.Writes, nil))
}

// Duplex combines a ChunkReader and a Recorder into one endpoint.
type Duplex struct {
	*ChunkReader
	*Recorder
}

// SocketMock is a scripted stream.Socket with shutdown and close support.
type SocketMock struct {
	reader *ChunkReader
	sent   bytes.Buffer

	Shutdowns   []stream.ShutdownMode
	ShutdownErr error
	Closes      int
	CloseErr    error
	SendErr     error
}

var (
	_ stream.Socket     = (*SocketMock)(nil)
	_ stream.Shutdowner = (*SocketMock)(nil)
	_ io.Closer         = (*SocketMock)(nil)
)

func NewSocketMock(chunks ...string) *SocketMock {
	return &SocketMock{reader: NewChunkReader(chunks...)}
}

func (m *SocketMock) Recv(size int) ([]byte, error) {
	return m.reader.ReadBlock(size)
}

func (m *SocketMock) SendAll(p []byte) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.sent.Write(p)
	return nil
}

func (m *SocketMock) Shutdown(mode stream.ShutdownMode) error {
	m.Shutdowns = append(m.Shutdowns, mode)
	return m.ShutdownErr
}

func (m *SocketMock) Close() error {
	m.Closes++
	return m.CloseErr
}

// Sent returns everything passed to SendAll.
func (m *SocketMock) Sent() string {
	return m.sent.String()
}

// RecvSizes returns the sizes passed to Recv.
func (m *SocketMock) RecvSizes() []int {
	return m.reader.Sizes
}
