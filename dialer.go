package stream

import (
	"context"
	"net"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Dialer opens connections wrapped in Conn. When NewCircuitBreaker is set,
// every address gets its own breaker and dials to an address whose breaker is
// open fail immediately with gobreaker.ErrOpenState.
type Dialer struct {
	// NetDialer defaults to a zero net.Dialer.
	NetDialer *net.Dialer

	// Config is used for the streams of dialed connections.
	Config Config

	// NewCircuitBreaker creates the breaker of an address.
	// See NewCircuitBreakerConfig.
	NewCircuitBreaker func(addr string) *gobreaker.CircuitBreaker[net.Conn]

	Logger *zap.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[net.Conn]
}

// Dial connects to addr on the named network.
func (d *Dialer) Dial(ctx context.Context, network, addr string) (*Conn, error) {
	dial := func() (net.Conn, error) {
		return d.netDialer().DialContext(ctx, network, addr)
	}

	var (
		nc  net.Conn
		err error
	)
	if cb := d.breaker(addr); cb != nil {
		nc, err = cb.Execute(dial)
	} else {
		nc, err = dial()
	}
	if err != nil {
		d.logger().Debug("dial failed",
			zap.String("network", network),
			zap.String("addr", addr),
			zap.Error(err),
		)
		return nil, errors.Wrapf(err, "dial %s %s", network, addr)
	}

	config := d.Config
	if config.Logger == nil {
		config.Logger = d.Logger
	}
	return NewConn(nc, config), nil
}

// BreakerState returns the state of the breaker of addr. Addresses never
// dialed, or a Dialer without breakers, report gobreaker.StateClosed.
func (d *Dialer) BreakerState(addr string) gobreaker.State {
	d.mu.Lock()
	cb := d.breakers[addr]
	d.mu.Unlock()

	if cb == nil {
		return gobreaker.StateClosed
	}
	return cb.State()
}

func (d *Dialer) breaker(addr string) *gobreaker.CircuitBreaker[net.Conn] {
	if d.NewCircuitBreaker == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.breakers == nil {
		d.breakers = make(map[string]*gobreaker.CircuitBreaker[net.Conn])
	}
	cb, ok := d.breakers[addr]
	if !ok {
		cb = d.NewCircuitBreaker(addr)
		d.breakers[addr] = cb
	}
	return cb
}

func (d *Dialer) netDialer() *net.Dialer {
	if d.NetDialer == nil {
		return &net.Dialer{}
	}
	return d.NetDialer
}

func (d *Dialer) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
