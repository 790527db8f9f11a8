package stream

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChain() *chain {
	return &chain{pool: NewChannelPool(16)}
}

func chainLoads(c *chain) []string {
	var loads []string
	for n := c.head; n != nil; n = n.next {
		loads = append(loads, string(n.load))
	}
	return loads
}

// chainLen sums the node lengths, to check the cached size.
func chainLen(c *chain) int {
	total := 0
	for n := c.head; n != nil; n = n.next {
		total += len(n.load)
	}
	return total
}

func TestChain_AppendTake(t *testing.T) {
	c := newTestChain()
	require.NoError(t, c.append([]byte("hello")))
	require.NoError(t, c.append([]byte(" ")))
	require.NoError(t, c.append([]byte("world")))
	assert.Equal(t, 11, c.size)

	assert.Equal(t, "hel", string(c.take(3)))
	assert.Equal(t, []string{"lo", " ", "world"}, chainLoads(c))
	assert.Equal(t, chainLen(c), c.size)

	assert.Equal(t, "lo w", string(c.take(4)))
	assert.Equal(t, []string{"orld"}, chainLoads(c))
	assert.Equal(t, 4, c.size)

	assert.Equal(t, "orld", string(c.take(10)))
	assert.True(t, c.empty())
	assert.Nil(t, c.tail)
	assert.Equal(t, 0, c.size)

	assert.Nil(t, c.take(1))
}

func TestChain_TakeFromSingleNodeDoesNotCopy(t *testing.T) {
	c := newTestChain()
	block := []byte("abcdef")
	require.NoError(t, c.append(block))

	head := c.take(2)
	assert.Equal(t, "ab", string(head))
	assert.True(t, &head[0] == &block[0])
	assert.Equal(t, 2, cap(head), "split part must not reach into the remainder")

	rest := c.take(4)
	assert.Equal(t, "cdef", string(rest))
	assert.True(t, &rest[0] == &block[2])
}

func TestChain_CutHeadKeepsTail(t *testing.T) {
	c := newTestChain()
	require.NoError(t, c.append([]byte("abc")))

	assert.Equal(t, "a", string(c.take(1)))
	assert.Same(t, c.head, c.tail)

	require.NoError(t, c.append([]byte("d")))
	assert.Equal(t, []string{"bc", "d"}, chainLoads(c))
	assert.Equal(t, "bcd", string(c.take(3)))
}

func TestChain_PopFront(t *testing.T) {
	c := newTestChain()
	require.NoError(t, c.append([]byte("ab")))
	require.NoError(t, c.append([]byte("cde")))

	assert.Equal(t, "ab", string(c.popFront()))
	assert.Equal(t, 3, c.size)
	assert.Equal(t, "cde", string(c.popFront()))
	assert.True(t, c.empty())
	assert.Nil(t, c.popFront())
}

func TestChain_PrependDrainReverse(t *testing.T) {
	c := newTestChain()
	require.NoError(t, c.prepend([]byte("a")))
	require.NoError(t, c.prepend([]byte("bc")))
	require.NoError(t, c.prepend([]byte("def")))

	assert.Equal(t, []string{"def", "bc", "a"}, chainLoads(c))
	assert.Equal(t, "abcdef", string(c.drainReverse()))
	assert.True(t, c.empty())
	assert.Equal(t, 0, c.size)

	assert.Nil(t, c.drainReverse())

	single := []byte("x")
	require.NoError(t, c.prepend(single))
	out := c.drainReverse()
	assert.True(t, &out[0] == &single[0])
}

func TestChain_PushFront(t *testing.T) {
	c := newTestChain()
	require.NoError(t, c.append([]byte("cd")))

	other := newTestChain()
	require.NoError(t, other.append([]byte("a")))
	require.NoError(t, other.append([]byte("b")))

	c.pushFront(other)
	assert.Equal(t, []string{"a", "b", "cd"}, chainLoads(c))
	assert.Equal(t, 4, c.size)
	assert.True(t, other.empty())
	assert.Equal(t, 0, other.size)

	c.pushFront(other)
	assert.Equal(t, 4, c.size)

	empty := newTestChain()
	require.NoError(t, other.append([]byte("z")))
	empty.pushFront(other)
	assert.Same(t, empty.head, empty.tail)
	require.NoError(t, empty.append([]byte("y")))
	assert.Equal(t, "zy", string(empty.take(2)))
}

func TestChain_Overflow(t *testing.T) {
	c := newTestChain()
	require.NoError(t, c.append([]byte("x")))
	c.size = math.MaxInt - 2

	err := c.append([]byte("abc"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOverflow))
	assert.Equal(t, math.MaxInt-2, c.size)
	assert.Equal(t, []string{"x"}, chainLoads(c))

	err = c.prepend([]byte("abc"))
	assert.True(t, errors.Is(err, ErrOverflow))
	assert.Equal(t, []string{"x"}, chainLoads(c))

	require.NoError(t, c.append([]byte("ab")))
	assert.Equal(t, math.MaxInt, c.size)
}

func TestChain_ReleaseReturnsNodesToPool(t *testing.T) {
	pool := NewChannelPool(16)
	c := &chain{pool: pool}
	for range 3 {
		require.NoError(t, c.append([]byte("data")))
	}

	c.release()
	assert.True(t, c.empty())
	assert.Equal(t, 0, c.size)

	stats := pool.Stats()
	assert.Equal(t, uint64(3), stats.Gets)
	assert.Equal(t, uint64(3), stats.Puts)
	assert.Equal(t, int32(3), stats.Idle)
}
