package stream

import (
	"net"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// NewCircuitBreakerConfig returns a function that creates circuit breakers for
// dial addresses. This is a helper for common use cases; state changes are
// logged at info level when logger is not nil.
func NewCircuitBreakerConfig(maxRequests uint32, interval, timeout time.Duration, logger *zap.Logger) func(string) *gobreaker.CircuitBreaker[net.Conn] {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(addr string) *gobreaker.CircuitBreaker[net.Conn] {
		settings := gobreaker.Settings{
			Name:        addr,
			MaxRequests: maxRequests,
			Interval:    interval,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Info("circuit breaker state changed",
					zap.String("addr", name),
					zap.Stringer("from", from),
					zap.Stringer("to", to),
				)
			},
		}
		return gobreaker.NewCircuitBreaker[net.Conn](settings)
	}
}
