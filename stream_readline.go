package stream

import (
	"bytes"
	"io"
)

// ReadLine reads up to and including the next '\n'. With size > 0 the line
// is cut after size bytes. The last line of a stream may lack the newline.
// Bytes read past the end of the line stay buffered for the next read.
//
// If the endpoint fails in the middle of a line, the bytes collected so far
// are put back before the error is returned.
func (s *Stream) ReadLine(size int) ([]byte, error) {
	if size < 0 {
		size = 0
	}

	block, err := s.read(size)
	if err != nil {
		return nil, err
	}

	line := chain{pool: s.rbuf.pool}
	if err := line.append(block); err != nil {
		_ = s.rbuf.prepend(block)
		return nil, err
	}

	for {
		// Only the newest block is scanned, limited to what fits in size.
		scan := block
		if size > 0 && line.size > size {
			scan = scan[:len(scan)-(line.size-size)]
		}
		if i := bytes.IndexByte(scan, '\n'); i >= 0 {
			size = line.size - len(block) + i + 1
			break
		}
		if size > 0 && line.size >= size {
			break
		}

		want := 0
		if size > 0 {
			want = size - line.size
		}
		block, err = s.read(want)
		if err == io.EOF {
			size = line.size
			break
		}
		if err != nil {
			s.rbuf.pushFront(&line)
			return nil, err
		}
		if err := line.append(block); err != nil {
			_ = s.rbuf.prepend(block)
			s.rbuf.pushFront(&line)
			return nil, err
		}
	}

	out := line.take(size)
	s.rbuf.pushFront(&line)
	return out, nil
}

// ReadLines reads lines until EOF. On error the lines read so far are
// returned along with it.
func (s *Stream) ReadLines(size int) ([][]byte, error) {
	var lines [][]byte
	for {
		line, err := s.ReadLine(size)
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
}
