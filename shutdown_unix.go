//go:build unix

package stream

import (
	"net"
	"os"
	"syscall"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

func isNotConnected(err error) bool {
	return errors.Is(err, unix.ENOTCONN)
}

// shutdownConn calls shutdown(2) on the connection's descriptor when it has
// one, and falls back to CloseRead/CloseWrite otherwise.
func shutdownConn(conn net.Conn, mode ShutdownMode) error {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return shutdownHalf(conn, mode)
	}

	var how int
	switch mode {
	case ShutRD:
		how = unix.SHUT_RD
	case ShutWR:
		how = unix.SHUT_WR
	case ShutRDWR:
		how = unix.SHUT_RDWR
	default:
		return errors.Newf("stream: invalid shutdown mode %d", int(mode))
	}

	raw, err := sc.SyscallConn()
	if err != nil {
		return err
	}

	var serr error
	if err := raw.Control(func(fd uintptr) {
		serr = unix.Shutdown(int(fd), how)
	}); err != nil {
		return err
	}
	if serr != nil {
		return os.NewSyscallError("shutdown", serr)
	}
	return nil
}
