package stream

import (
	"bytes"
	"io"
	"iter"
	"runtime"
	"strconv"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// streamSeq numbers unnamed streams when choosing a pool shard.
var streamSeq atomic.Uint64

// Stream wraps an endpoint with a buffered reader and a buffered writer.
//
// The endpoint may provide any subset of the capabilities described by
// BlockReader (or io.Reader), io.Writer, Flusher, io.Closer, FileDescriptor,
// Terminal and Namer. They are probed once, in New.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	endpoint any
	caps     capabilities

	rbuf chain
	wbuf chain

	chunkSize int
	blockIter int
	readExact bool

	eof       bool
	closed    bool
	softspace bool

	logger *zap.Logger
	stats  streamStatsCollector
}

var (
	_ io.ReadWriteCloser = (*Stream)(nil)
	_ io.StringWriter    = (*Stream)(nil)
	_ BlockReader        = (*Stream)(nil)
	_ Flusher            = (*Stream)(nil)
)

// New creates a buffered stream over endpoint.
func New(endpoint any, config Config) *Stream {
	s := &Stream{
		endpoint:  endpoint,
		caps:      probe(endpoint),
		chunkSize: config.chunkSize(),
		blockIter: config.blockIter(),
		readExact: config.ReadExact,
		logger:    config.logger(),
	}

	pool := config.pool()
	if sharder, ok := pool.(Sharder); ok {
		key := config.PoolKey
		if key == "" {
			key = s.poolKey()
		}
		pool = sharder.Shard(key)
	}
	s.rbuf.pool = pool
	s.wbuf.pool = pool

	if config.CloseOnFinalize {
		runtime.SetFinalizer(s, (*Stream).finalize)
	}
	return s
}

func (s *Stream) poolKey() string {
	if name := s.caps.name(); name != "" {
		return name
	}
	return "stream-" + strconv.FormatUint(streamSeq.Add(1), 10)
}

func (s *Stream) finalize() {
	if err := s.Close(); err != nil {
		s.logger.Error("error while closing stream implicitly",
			zap.String("name", s.caps.name()),
			zap.Error(err),
		)
	}
}

// readChunkSize is the size of one underlying read. Tiny chunk sizes only
// make sense for writes.
func (s *Stream) readChunkSize() int {
	if s.chunkSize < 2 {
		return DefaultChunkSize
	}
	return s.chunkSize
}

// fill issues one underlying read of at most size bytes and appends the
// result to the read chain.
func (s *Stream) fill(size int) error {
	block, err := s.caps.reader.ReadBlock(size)
	s.stats.recordRead(len(block))

	if len(block) > 0 {
		if aerr := s.rbuf.append(block); aerr != nil {
			return aerr
		}
	}
	if err == io.EOF || (err == nil && len(block) == 0) {
		s.eof = true
		return nil
	}
	return err
}

func (s *Stream) checkRead() error {
	if s.closed {
		return ErrClosed
	}
	if s.caps.reader == nil {
		return ErrNoReader
	}
	return nil
}

// read is the single-read primitive behind ReadBlock, ReadLine and Read.
func (s *Stream) read(size int) ([]byte, error) {
	if err := s.checkRead(); err != nil {
		return nil, err
	}

	switch {
	case size < 0:
		for !s.eof {
			if err := s.fill(s.readChunkSize()); err != nil {
				return nil, err
			}
		}
		size = s.rbuf.size

	case size == 0:
		if s.rbuf.empty() && !s.eof {
			if err := s.fill(s.readChunkSize()); err != nil {
				return nil, err
			}
		}
		if s.rbuf.empty() {
			return nil, io.EOF
		}
		return s.rbuf.popFront(), nil

	default:
		if s.rbuf.size < size && !s.eof {
			if err := s.fill(min(s.readChunkSize(), size-s.rbuf.size)); err != nil {
				return nil, err
			}
		}
	}

	if s.rbuf.size == 0 {
		return nil, io.EOF
	}
	return s.rbuf.take(size), nil
}

// ReadBlock reads up to size bytes.
//
// A negative size reads everything up to EOF. A size of 0 returns the next
// buffered chunk as is, reading one chunk from the endpoint only when
// nothing is buffered. A positive size issues at most one underlying read,
// so the result may be shorter than requested before EOF. In exact mode
// ReadBlock behaves like ReadExact for any size other than 0.
//
// At EOF ReadBlock returns (nil, io.EOF).
func (s *Stream) ReadBlock(size int) ([]byte, error) {
	if s.readExact && size != 0 {
		return s.ReadExact(size)
	}
	return s.read(size)
}

// ReadExact reads exactly size bytes unless EOF comes first, in which case
// the remaining bytes are returned. A negative size reads everything.
//
// If the endpoint fails before size bytes are collected, they are put back
// in the read buffer before the error is returned.
func (s *Stream) ReadExact(size int) ([]byte, error) {
	if err := s.checkRead(); err != nil {
		return nil, err
	}
	return readExact(s.read, size, s.rbuf.pool, s.rbuf.pushFront)
}

// Read implements io.Reader. It issues at most one underlying read.
func (s *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, s.checkRead()
	}
	block, err := s.read(len(p))
	return copy(p, block), err
}

// Next returns the next line or block, depending on Config.BlockIter.
func (s *Stream) Next() ([]byte, error) {
	if s.blockIter == IterLines {
		return s.ReadLine(0)
	}
	return s.ReadBlock(s.blockIter)
}

// Blocks iterates over the stream with Next until EOF. The sequence ends
// after the first error, which it yields.
func (s *Stream) Blocks() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for {
			block, err := s.Next()
			if err == io.EOF {
				return
			}
			if !yield(block, err) || err != nil {
				return
			}
		}
	}
}

func (s *Stream) checkWrite() error {
	if s.closed {
		return ErrClosed
	}
	if s.caps.writer == nil {
		return ErrNoWriter
	}
	return nil
}

// Write buffers a copy of p. The buffer is flushed once it holds more than
// the chunk size.
func (s *Stream) Write(p []byte) (int, error) {
	if err := s.checkWrite(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	if err := s.bufferWrite(bytes.Clone(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString is like Write.
func (s *Stream) WriteString(str string) (int, error) {
	if err := s.checkWrite(); err != nil {
		return 0, err
	}
	if str == "" {
		return 0, nil
	}
	if err := s.bufferWrite([]byte(str)); err != nil {
		return 0, err
	}
	return len(str), nil
}

// WriteLines writes every block in order, stopping at the first error.
func (s *Stream) WriteLines(blocks [][]byte) error {
	for _, block := range blocks {
		if _, err := s.Write(block); err != nil {
			return err
		}
	}
	return nil
}

func (s *Stream) bufferWrite(block []byte) error {
	if err := s.wbuf.prepend(block); err != nil {
		if !errors.Is(err, ErrOverflow) {
			return err
		}
		if err := s.flush(false); err != nil {
			return err
		}
		if err := s.wbuf.prepend(block); err != nil {
			return err
		}
	}

	if s.wbuf.size > s.chunkSize {
		return s.flush(false)
	}
	return nil
}

// Flush writes the buffered data to the endpoint and then flushes the
// endpoint itself when it is a Flusher.
func (s *Stream) Flush() error {
	if s.closed {
		return ErrClosed
	}
	return s.flush(true)
}

// FlushBuffer writes the buffered data to the endpoint without flushing the
// endpoint.
func (s *Stream) FlushBuffer() error {
	if s.closed {
		return ErrClosed
	}
	return s.flush(false)
}

// flush hands the write buffer to the endpoint in one call. The buffer is
// emptied even when the write fails.
func (s *Stream) flush(passdown bool) error {
	if s.caps.writer == nil {
		return ErrNoWriter
	}

	if !s.wbuf.empty() {
		block := s.wbuf.drainReverse()
		n, err := s.caps.writer.Write(block)
		s.stats.recordWrite(n)
		if err != nil {
			return err
		}
		if n < len(block) {
			return io.ErrShortWrite
		}
	}

	if passdown && s.caps.flusher != nil {
		s.stats.recordFlush()
		return s.caps.flusher.Flush()
	}
	return nil
}

// Close flushes the write buffer and closes the endpoint when it is an
// io.Closer. Closing an already closed stream does nothing.
//
// The stream is marked closed even when flushing fails. If both the flush
// and the endpoint's Close fail, the Close error is returned with the flush
// error attached.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	runtime.SetFinalizer(s, nil)

	var err error
	if ferr := s.flush(false); ferr != nil && !errors.Is(ferr, ErrNoWriter) {
		err = ferr
	}

	s.closed = true
	s.rbuf.release()
	s.wbuf.release()

	if s.caps.closer != nil {
		if cerr := s.caps.closer.Close(); cerr != nil {
			err = errors.CombineErrors(cerr, err)
		}
	}
	return err
}

// Closed reports whether Close was called.
func (s *Stream) Closed() bool {
	return s.closed
}

// Fileno returns the endpoint's file descriptor.
func (s *Stream) Fileno() (uintptr, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if s.caps.fd == nil {
		return 0, errors.Wrap(ErrNoCapability, "fileno")
	}
	return s.caps.fd.Fd(), nil
}

// IsTerminal reports whether the endpoint is a terminal. It is false for
// endpoints that cannot tell. Like Fileno, it fails with ErrClosed once the
// stream is closed.
func (s *Stream) IsTerminal() (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	return s.caps.isTerminal(), nil
}

// Name returns the endpoint's name, or "" when it has none.
func (s *Stream) Name() string {
	return s.caps.name()
}

// Endpoint returns the wrapped endpoint.
func (s *Stream) Endpoint() any {
	return s.endpoint
}

// Softspace is a flag for print-like helpers. The stream never reads it.
func (s *Stream) Softspace() bool {
	return s.softspace
}

func (s *Stream) SetSoftspace(v bool) {
	s.softspace = v
}

// Buffered returns the number of bytes read from the endpoint but not yet
// consumed.
func (s *Stream) Buffered() int {
	return s.rbuf.size
}

// Pending returns the number of written bytes not yet flushed.
func (s *Stream) Pending() int {
	return s.wbuf.size
}

// Stats returns the stream's traffic counters.
func (s *Stream) Stats() StreamStats {
	return s.stats.snapshot()
}
