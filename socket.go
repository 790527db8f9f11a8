package stream

import (
	"io"
	"runtime"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Socket is the minimal surface of a connected socket.
type Socket interface {
	// Recv receives at most size bytes in one call. An empty result or
	// io.EOF means the peer is done sending.
	Recv(size int) ([]byte, error)

	// SendAll sends all of p or fails.
	SendAll(p []byte) error
}

// Shutdowner is implemented by sockets that support half-closing.
type Shutdowner interface {
	Shutdown(mode ShutdownMode) error
}

// SocketStream turns a Socket into a stream endpoint: ReadBlock receives,
// Write sends. Closing it either shuts down one direction of the socket or
// closes it, depending on the shutdown mode.
type SocketStream struct {
	sock Socket
	recv func(int) ([]byte, error)
	send func([]byte) error

	mode         ShutdownMode
	notConnected func(error) bool
	logger       *zap.Logger
}

var (
	_ BlockReader    = (*SocketStream)(nil)
	_ io.WriteCloser = (*SocketStream)(nil)
	_ Namer          = (*SocketStream)(nil)
)

// SocketOption configures a SocketStream.
type SocketOption func(*SocketStream)

// WithNotConnected replaces the classifier of errors that mean the socket
// is no longer connected. Such errors are ignored by Close.
func WithNotConnected(fn func(error) bool) SocketOption {
	return func(s *SocketStream) {
		s.notConnected = fn
	}
}

func WithSocketLogger(logger *zap.Logger) SocketOption {
	return func(s *SocketStream) {
		s.logger = logger
	}
}

// WithSocketCloseOnFinalize closes the socket stream when it is garbage
// collected.
func WithSocketCloseOnFinalize() SocketOption {
	return func(s *SocketStream) {
		runtime.SetFinalizer(s, (*SocketStream).finalize)
	}
}

// NewSocketStream wraps sock. With mode NoShutdown, Close closes the socket;
// otherwise it shuts down the given direction.
func NewSocketStream(sock Socket, mode ShutdownMode, opts ...SocketOption) *SocketStream {
	s := &SocketStream{
		sock:         sock,
		recv:         sock.Recv,
		send:         sock.SendAll,
		mode:         mode,
		notConnected: isNotConnected,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SocketStream) finalize() {
	if err := s.Close(); err != nil {
		s.logger.Error("error while closing socket implicitly", zap.Error(err))
	}
}

// ReadBlock receives up to size bytes. A non-positive size receives up to
// DefaultChunkSize bytes.
func (s *SocketStream) ReadBlock(size int) ([]byte, error) {
	if s.recv == nil {
		return nil, ErrClosed
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	return s.recv(size)
}

// Write sends all of p.
func (s *SocketStream) Write(p []byte) (int, error) {
	if s.send == nil {
		return 0, ErrClosed
	}
	if err := s.send(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close releases the socket. A socket that is already disconnected is not
// an error when shutting down.
func (s *SocketStream) Close() error {
	sock := s.sock
	if sock == nil {
		return nil
	}
	runtime.SetFinalizer(s, nil)
	s.sock, s.recv, s.send = nil, nil, nil

	if s.mode == NoShutdown {
		if closer, ok := sock.(io.Closer); ok {
			return closer.Close()
		}
		return nil
	}

	shutdowner, ok := sock.(Shutdowner)
	if !ok {
		return nil
	}
	if err := shutdowner.Shutdown(s.mode); err != nil {
		if s.notConnected(err) {
			s.logger.Debug("socket already disconnected",
				zap.Stringer("mode", s.mode),
				zap.Error(err),
			)
			return nil
		}
		return err
	}
	return nil
}

// Closed reports whether Close was called.
func (s *SocketStream) Closed() bool {
	return s.sock == nil
}

// Endpoint returns the wrapped socket while the stream is open.
func (s *SocketStream) Endpoint() (Socket, error) {
	if s.sock == nil {
		return nil, errors.Wrap(ErrNoCapability, "socket stream is closed")
	}
	return s.sock, nil
}

// Mode returns the shutdown mode applied by Close.
func (s *SocketStream) Mode() ShutdownMode {
	return s.mode
}

func (s *SocketStream) Name() string {
	return socketName
}
