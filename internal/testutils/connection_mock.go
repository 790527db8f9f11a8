package testutils

import (
	"bytes"
	"net"
	"strings"
	"time"
)

// ConnectionMock is a mock implementation of net.Conn for testing. Reads are
// served from the scripted data, one Read per chunk.
type ConnectionMock struct {
	chunks   [][]byte
	writeBuf *bytes.Buffer
	closed   bool

	ReadDeadlines  []time.Time
	WriteDeadlines []time.Time
	ReadErr        error // returned once the chunks are exhausted, io.EOF if nil
}

// NewConnectionMock creates a new mock connection delivering each chunk in
// its own Read.
func NewConnectionMock(chunks ...string) *ConnectionMock {
	m := &ConnectionMock{writeBuf: &bytes.Buffer{}}
	for _, c := range chunks {
		m.chunks = append(m.chunks, []byte(c))
	}
	return m
}

func (m *ConnectionMock) Read(b []byte) (n int, err error) {
	if m.closed {
		return 0, net.ErrClosed
	}
	if len(m.chunks) == 0 {
		return 0, eofOr(m.ReadErr)
	}
	n = copy(b, m.chunks[0])
	m.chunks[0] = m.chunks[0][n:]
	if len(m.chunks[0]) == 0 {
		m.chunks = m.chunks[1:]
	}
	return n, nil
}

func (m *ConnectionMock) Write(b []byte) (n int, err error) {
	if m.closed {
		return 0, net.ErrClosed
	}
	return m.writeBuf.Write(b)
}

func (m *ConnectionMock) Close() error {
	m.closed = true
	return nil
}

func (m *ConnectionMock) Closed() bool {
	return m.closed
}

func (m *ConnectionMock) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
}

func (m *ConnectionMock) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 4000}
}

func (m *ConnectionMock) SetDeadline(t time.Time) error {
	m.ReadDeadlines = append(m.ReadDeadlines, t)
	m.WriteDeadlines = append(m.WriteDeadlines, t)
	return nil
}

func (m *ConnectionMock) SetReadDeadline(t time.Time) error {
	m.ReadDeadlines = append(m.ReadDeadlines, t)
	return nil
}

func (m *ConnectionMock) SetWriteDeadline(t time.Time) error {
	m.WriteDeadlines = append(m.WriteDeadlines, t)
	return nil
}

// Written returns the bytes written to the mock connection
func (m *ConnectionMock) Written() string {
	return m.writeBuf.String()
}

// Lines joins lines with "\n", each line terminated.
func Lines(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}
