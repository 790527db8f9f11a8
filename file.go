package stream

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
)

// FileStream is a buffered stream over a regular file, with the file's
// metadata captured when it was opened.
type FileStream struct {
	*Stream

	resource     string
	length       int64
	lastModified time.Time
}

// Open opens the file at path for reading. ReadBlock on the returned stream
// always reads exactly the requested size until EOF.
func Open(path string, config Config) (*FileStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, errors.Newf("stream: %s is a directory", path)
	}

	config.ReadExact = true
	return &FileStream{
		Stream:       New(f, config),
		resource:     path,
		length:       info.Size(),
		lastModified: info.ModTime().UTC(),
	}, nil
}

// Resource returns the path the stream was opened with.
func (f *FileStream) Resource() string {
	return f.resource
}

// Length returns the size of the file when it was opened.
func (f *FileStream) Length() int64 {
	return f.length
}

// LastModified returns the file's modification time, in UTC.
func (f *FileStream) LastModified() time.Time {
	return f.lastModified
}
