//go:build !unix

package stream

import (
	"net"
	"syscall"

	"github.com/cockroachdb/errors"
)

func isNotConnected(err error) bool {
	return errors.Is(err, syscall.ENOTCONN)
}

func shutdownConn(conn net.Conn, mode ShutdownMode) error {
	return shutdownHalf(conn, mode)
}
