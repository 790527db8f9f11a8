package stream

import (
	"io"
	"net"
	"time"

	"github.com/cockroachdb/errors"
)

// NetSocket adapts a net.Conn to Socket and Shutdowner. Every Recv and
// SendAll gets its own deadline when a timeout is set.
type NetSocket struct {
	conn    net.Conn
	timeout time.Duration
}

var (
	_ Socket     = (*NetSocket)(nil)
	_ Shutdowner = (*NetSocket)(nil)
	_ io.Closer  = (*NetSocket)(nil)
)

func NewNetSocket(conn net.Conn) *NetSocket {
	return &NetSocket{conn: conn}
}

// SetTimeout sets the per-operation timeout. Zero disables it.
func (s *NetSocket) SetTimeout(d time.Duration) {
	s.timeout = d
}

func (s *NetSocket) Timeout() time.Duration {
	return s.timeout
}

// Conn returns the underlying connection.
func (s *NetSocket) Conn() net.Conn {
	return s.conn
}

func (s *NetSocket) deadline() time.Time {
	if s.timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(s.timeout)
}

// Recv issues a single Read of at most size bytes.
func (s *NetSocket) Recv(size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if err := s.conn.SetReadDeadline(s.deadline()); err != nil {
		return nil, err
	}

	buf := make([]byte, size)
	n, err := s.conn.Read(buf)
	if err == io.EOF {
		if n > 0 {
			return buf[:n], nil
		}
		return nil, io.EOF
	}
	return buf[:n], err
}

func (s *NetSocket) SendAll(p []byte) error {
	if err := s.conn.SetWriteDeadline(s.deadline()); err != nil {
		return err
	}
	// net.Conn writes everything or returns an error
	_, err := s.conn.Write(p)
	return err
}

// Shutdown shuts down one or both directions of the connection.
func (s *NetSocket) Shutdown(mode ShutdownMode) error {
	return shutdownConn(s.conn, mode)
}

func (s *NetSocket) Close() error {
	return s.conn.Close()
}

type halfCloser interface {
	CloseRead() error
	CloseWrite() error
}

// shutdownHalf uses the CloseRead and CloseWrite methods of TCP and unix
// connections.
func shutdownHalf(conn net.Conn, mode ShutdownMode) error {
	hc, ok := conn.(halfCloser)
	if !ok {
		return errors.Wrapf(ErrNoCapability, "shutdown on %T", conn)
	}

	switch mode {
	case ShutRD:
		return hc.CloseRead()
	case ShutWR:
		return hc.CloseWrite()
	case ShutRDWR:
		return errors.CombineErrors(hc.CloseRead(), hc.CloseWrite())
	default:
		return errors.Newf("stream: invalid shutdown mode %d", int(mode))
	}
}
