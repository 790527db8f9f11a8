package stream

import "io"

// ReadExact reads exactly size bytes from r unless EOF comes first, in which
// case whatever was read is returned. A negative size is passed to r in a
// single call. At EOF with nothing read, ReadExact returns (nil, io.EOF).
//
// Chunks are collected in a chain from DefaultPool. When r fails, the
// partial data is dropped and only the error is returned.
func ReadExact(r BlockReader, size int) ([]byte, error) {
	return readExact(r.ReadBlock, size, DefaultPool, nil)
}

// readExact hands the partial data to keep, when set, instead of dropping it
// on error.
func readExact(read func(int) ([]byte, error), size int, pool NodePool, keep func(*chain)) ([]byte, error) {
	if size < 0 {
		return read(size)
	}

	acc := chain{pool: pool}
	for acc.size < size {
		block, err := read(size - acc.size)
		if err != nil && err != io.EOF {
			if keep != nil {
				keep(&acc)
			}
			acc.release()
			return nil, err
		}
		if len(block) == 0 {
			break
		}
		if aerr := acc.append(block); aerr != nil {
			acc.release()
			return nil, aerr
		}
		if err == io.EOF {
			break
		}
	}

	if acc.empty() {
		if size == 0 {
			return []byte{}, nil
		}
		return nil, io.EOF
	}

	// A reader returning more than asked for loses the surplus.
	out := acc.take(size)
	acc.release()
	return out, nil
}
