package stream

import (
	"net"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Conn is a connected socket handing out buffered streams for each
// direction. Closing the reader stream shuts down the read side, closing the
// writer stream shuts down the write side; Conn.Close shuts down both and
// closes the socket.
type Conn struct {
	nc     net.Conn
	sock   *NetSocket
	config Config
	logger *zap.Logger
	closed bool
}

// NewConn wraps an established connection. Streams created by Reader and
// Writer use config; when it names no pool key, the remote address is used.
func NewConn(nc net.Conn, config Config) *Conn {
	if config.PoolKey == "" && nc.RemoteAddr() != nil {
		config.PoolKey = nc.RemoteAddr().String()
	}
	return &Conn{
		nc:     nc,
		sock:   NewNetSocket(nc),
		config: config,
		logger: config.logger(),
	}
}

// Reader returns a new buffered stream reading from the connection.
func (c *Conn) Reader() *Stream {
	return c.stream(ShutRD)
}

// Writer returns a new buffered stream writing to the connection.
func (c *Conn) Writer() *Stream {
	return c.stream(ShutWR)
}

func (c *Conn) stream(mode ShutdownMode) *Stream {
	return New(NewSocketStream(c.sock, mode, WithSocketLogger(c.logger)), c.config)
}

// SetTimeout sets the timeout applied to each receive and send. Zero
// disables it.
func (c *Conn) SetTimeout(d time.Duration) {
	c.sock.SetTimeout(d)
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.nc.RemoteAddr()
}

func (c *Conn) LocalAddr() net.Addr {
	return c.nc.LocalAddr()
}

// NetConn returns the underlying connection.
func (c *Conn) NetConn() net.Conn {
	return c.nc
}

// Close shuts the connection down in both directions and closes it. The
// socket is closed even when the shutdown fails.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	err := c.sock.Shutdown(ShutRDWR)
	if err != nil && isNotConnected(err) {
		c.logger.Debug("connection already disconnected",
			zap.Stringer("remote", c.nc.RemoteAddr()),
			zap.Error(err),
		)
		err = nil
	}
	if errors.Is(err, ErrNoCapability) {
		err = nil
	}

	return errors.CombineErrors(err, c.nc.Close())
}
