package stream

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelPool_ReusesNodes(t *testing.T) {
	pool := NewChannelPool(2)

	n := pool.Get()
	require.NotNil(t, n)
	n.load = []byte("data")
	n.next = &Node{}
	pool.Put(n)

	again := pool.Get()
	assert.Same(t, n, again)
	assert.Nil(t, again.load, "load must be cleared")
	assert.Nil(t, again.next, "next must be cleared")

	stats := pool.Stats()
	assert.Equal(t, uint64(2), stats.Gets)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(1), stats.Puts)
	assert.Equal(t, int32(0), stats.Idle)
}

func TestChannelPool_HonoursCap(t *testing.T) {
	pool := NewChannelPool(2)

	for range 5 {
		pool.Put(&Node{})
	}

	stats := pool.Stats()
	assert.Equal(t, uint64(5), stats.Puts)
	assert.Equal(t, uint64(3), stats.Discards)
	assert.Equal(t, int32(2), stats.Idle)
}

func TestChannelPool_ZeroCapAlwaysAllocates(t *testing.T) {
	pool := NewChannelPool(0)
	n := pool.Get()
	pool.Put(n)
	assert.NotSame(t, n, pool.Get())
	assert.Equal(t, uint64(1), pool.Stats().Discards)
}

func TestChannelPool_PutNil(t *testing.T) {
	pool := NewChannelPool(1)
	pool.Put(nil)
	assert.Equal(t, uint64(0), pool.Stats().Puts)
}

func TestChannelPool_Concurrent(t *testing.T) {
	pool := NewChannelPool(DefaultPoolCap)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				n := pool.Get()
				n.load = []byte("x")
				pool.Put(n)
			}
		}()
	}
	wg.Wait()

	stats := pool.Stats()
	assert.Equal(t, uint64(8000), stats.Gets)
	assert.Equal(t, stats.Gets, stats.Hits+stats.Misses)
	assert.Equal(t, uint64(8000), stats.Puts)
	assert.LessOrEqual(t, stats.Idle, int32(DefaultPoolCap))
}

func TestPuddlePool(t *testing.T) {
	pool, err := NewPuddlePool(4)
	require.NoError(t, err)
	defer pool.Close()

	// The first Get only triggers background creation of a pooled node.
	var nodes []*Node
	for range 10 {
		nodes = append(nodes, pool.Get())
	}
	for _, n := range nodes {
		require.NotNil(t, n)
		n.load = []byte("x")
		pool.Put(n)
	}

	stats := pool.Stats()
	assert.Equal(t, uint64(10), stats.Gets)
	assert.Equal(t, uint64(10), stats.Hits+stats.Misses)
	assert.Equal(t, uint64(10), stats.Puts)
	assert.Equal(t, stats.Misses, stats.Discards, "unpooled nodes are dropped on Put")
	assert.LessOrEqual(t, stats.Idle, int32(4))

	for _, n := range nodes {
		assert.Nil(t, n.load)
		assert.Nil(t, n.res)
	}
}

func TestPuddlePool_GetAfterClose(t *testing.T) {
	pool, err := NewPuddlePool(2)
	require.NoError(t, err)
	pool.Close()

	n := pool.Get()
	require.NotNil(t, n)
	assert.Nil(t, n.res)
	pool.Put(n)
	assert.Equal(t, uint64(1), pool.Stats().Discards)
}

func TestShardedPool_ShardIsStable(t *testing.T) {
	pool := NewShardedPool(8, 4)

	for _, key := range []string{"a", "b", "10.0.0.1:80", "stream-42"} {
		assert.Same(t, pool.Shard(key), pool.Shard(key), key)
	}

	single := NewShardedPool(1, 4)
	assert.Same(t, single.Shard("a"), single.Shard("z"))
}

func TestShardedPool_SpreadsKeys(t *testing.T) {
	pool := NewShardedPool(4, 4)

	seen := map[NodePool]bool{}
	for i := range 100 {
		seen[pool.Shard(string(rune('a'+i%26))+string(rune('A'+i/26)))] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestShardedPool_Stats(t *testing.T) {
	pool := NewShardedPool(3, 1)

	for range 6 {
		pool.Put(&Node{})
	}

	stats := pool.Stats()
	assert.Equal(t, uint64(6), stats.Puts)
	assert.Equal(t, int32(3), stats.Idle)
	assert.Equal(t, uint64(3), stats.Discards)

	perShard := pool.ShardStats()
	require.Len(t, perShard, 3)
	for _, s := range perShard {
		assert.Equal(t, uint64(2), s.Puts)
		assert.Equal(t, int32(1), s.Idle)
	}
}

func TestNewPoolFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  PoolConfig
		check   func(t *testing.T, pool NodePool)
		wantErr bool
	}{
		{
			name:   "default is channel",
			config: PoolConfig{},
			check: func(t *testing.T, pool NodePool) {
				assert.IsType(t, &channelPool{}, pool)
				assert.Equal(t, DefaultPoolCap, cap(pool.(*channelPool).nodes))
			},
		},
		{
			name:   "channel with cap",
			config: PoolConfig{Kind: PoolChannel, Cap: 7},
			check: func(t *testing.T, pool NodePool) {
				assert.Equal(t, 7, cap(pool.(*channelPool).nodes))
			},
		},
		{
			name:   "puddle",
			config: PoolConfig{Kind: PoolPuddle, Cap: 3},
			check: func(t *testing.T, pool NodePool) {
				p, ok := pool.(*PuddlePool)
				require.True(t, ok)
				p.Close()
			},
		},
		{
			name:   "sharded",
			config: PoolConfig{Kind: PoolSharded, Cap: 2},
			check: func(t *testing.T, pool NodePool) {
				p, ok := pool.(*ShardedPool)
				require.True(t, ok)
				assert.Len(t, p.ShardStats(), DefaultPoolShards)
			},
		},
		{
			name:    "unknown",
			config:  PoolConfig{Kind: "ring"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewPoolFromConfig(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, pool)
				return
			}
			require.NoError(t, err)
			tt.check(t, pool)
		})
	}
}
