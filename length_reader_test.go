package stream_test

import (
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pior/stream"
	"github.com/pior/stream/internal/testutils"
)

func TestLengthReader(t *testing.T) {
	r := testutils.NewChunkReader("hel", "lo wor", "ld")
	lr := stream.NewLengthReader(r, 8)

	block, err := lr.ReadBlock(5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(block))
	assert.Equal(t, int64(3), lr.Remaining())

	block, err = lr.ReadBlock(10)
	require.NoError(t, err)
	assert.Equal(t, " wo", string(block), "clamped to the length")
	assert.Equal(t, int64(0), lr.Remaining())

	_, err = lr.ReadBlock(1)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, []int{5, 2, 3}, r.Sizes, "the underlying reader is not read past the length")
}

func TestLengthReader_Sizes(t *testing.T) {
	t.Run("negative reads the rest", func(t *testing.T) {
		lr := stream.NewLengthReader(testutils.NewChunkReader("abcdefgh"), 6)
		block, err := lr.ReadBlock(-1)
		require.NoError(t, err)
		assert.Equal(t, "abcdef", string(block))
	})

	t.Run("zero reads a chunk", func(t *testing.T) {
		r := testutils.NewChunkReader("abcdefgh")
		lr := stream.NewLengthReader(r, 4)
		block, err := lr.ReadBlock(0)
		require.NoError(t, err)
		assert.Equal(t, "abcd", string(block))
		assert.Equal(t, []int{4}, r.Sizes)
	})

	t.Run("negative length", func(t *testing.T) {
		lr := stream.NewLengthReader(testutils.NewChunkReader("abc"), -5)
		assert.Equal(t, int64(0), lr.Remaining())
		_, err := lr.ReadBlock(1)
		assert.Equal(t, io.EOF, err)
	})
}

func TestLengthReader_UnderlyingEndsEarly(t *testing.T) {
	lr := stream.NewLengthReader(testutils.NewChunkReader("abc"), 10)

	block, err := lr.ReadBlock(-1)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(block))
	assert.Equal(t, int64(7), lr.Remaining())

	_, err = lr.ReadBlock(-1)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, int64(0), lr.Remaining())
}

func TestLengthReader_Error(t *testing.T) {
	r := testutils.NewChunkReader()
	r.Err = errors.New("reset by peer")
	lr := stream.NewLengthReader(r, 10)

	_, err := lr.ReadBlock(4)
	assert.ErrorIs(t, err, r.Err)
	assert.Equal(t, int64(10), lr.Remaining())
}

func TestLengthReader_AsEndpoint(t *testing.T) {
	src := stream.New(testutils.NewChunkReader("a\nb\nc\nd\n"), stream.Config{})
	body := stream.New(stream.NewLengthReader(src, 4), stream.Config{})

	lines, err := body.ReadLines(0)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	rest, err := src.ReadBlock(-1)
	require.NoError(t, err)
	assert.Equal(t, "c\nd\n", string(rest))
}
