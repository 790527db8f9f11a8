package stream

import "io"

// devNull is an endpoint that is always at EOF and swallows writes.
type devNull struct{}

func (devNull) ReadBlock(int) ([]byte, error) { return nil, io.EOF }
func (devNull) Write(p []byte) (int, error)  { return len(p), nil }
func (devNull) Name() string                 { return "/dev/null" }

// DevNull returns a stream that reads nothing and discards what is written
// to it.
func DevNull() *Stream {
	return New(devNull{}, Config{})
}
