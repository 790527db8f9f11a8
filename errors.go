package stream

import (
	"math"

	"github.com/cockroachdb/errors"
)

var (
	// ErrClosed is returned by any I/O operation attempted on a closed stream.
	ErrClosed = errors.New("stream: I/O operation on closed stream")

	// ErrOverflow is returned when an accumulated byte count would not fit an int.
	// The operation that hit it is aborted and not retried.
	ErrOverflow = errors.New("stream: buffer became too big")

	// ErrNoCapability is returned when the endpoint lacks a required capability
	// (read, write, fileno, or attribute access on a released socket).
	// ErrNoReader and ErrNoWriter carry it as a mark, so match them with
	// errors.Is from github.com/cockroachdb/errors.
	ErrNoCapability = errors.New("stream: endpoint does not provide this capability")

	// ErrNoReader is returned by read operations on a write-only endpoint.
	ErrNoReader = errors.Mark(errors.New("stream: endpoint does not provide a read function"), ErrNoCapability)

	// ErrNoWriter is returned by write and flush operations on a read-only endpoint.
	ErrNoWriter = errors.Mark(errors.New("stream: endpoint does not provide a write function"), ErrNoCapability)
)

// maxBuffered bounds every accumulated byte count.
var maxBuffered = math.MaxInt

// addLen adds n to total, failing instead of going past maxBuffered.
func addLen(total, n int) (int, error) {
	if n > maxBuffered-total {
		return total, errors.Wrapf(ErrOverflow, "adding %d bytes to %d", n, total)
	}
	return total + n, nil
}
