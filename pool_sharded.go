package stream

import (
	"sync/atomic"

	"github.com/zeebo/xxh3"

	"github.com/pior/stream/internal"
)

// ShardedPool spreads nodes over several channel pools so that concurrent
// stream owners do not contend on a single free list.
type ShardedPool struct {
	shards []NodePool
	next   atomic.Uint32
}

var _ Sharder = (*ShardedPool)(nil)

// NewShardedPool creates a pool of shards channel pools, each keeping at most
// capPerShard idle nodes.
func NewShardedPool(shards, capPerShard int) *ShardedPool {
	if shards < 1 {
		shards = 1
	}
	p := &ShardedPool{shards: make([]NodePool, shards)}
	for i := range p.shards {
		p.shards[i] = NewChannelPool(capPerShard)
	}
	return p
}

// Shard returns the shard owning key. The same key always maps to the same
// shard, using jump hashing over the key's xxh3 hash.
func (p *ShardedPool) Shard(key string) NodePool {
	return p.shards[internal.JumpHash(xxh3.HashString(key), len(p.shards))]
}

// Get takes a node from the shards in round-robin order.
func (p *ShardedPool) Get() *Node {
	return p.pick().Get()
}

// Put returns a node to the shards in round-robin order. Nodes carry no shard
// affinity, any shard can take them.
func (p *ShardedPool) Put(n *Node) {
	p.pick().Put(n)
}

// Stats sums the counters of all shards.
func (p *ShardedPool) Stats() PoolStats {
	var total PoolStats
	for _, shard := range p.shards {
		total = total.add(shard.Stats())
	}
	return total
}

// ShardStats returns the counters of each shard, in shard order.
func (p *ShardedPool) ShardStats() []PoolStats {
	stats := make([]PoolStats, len(p.shards))
	for i, shard := range p.shards {
		stats[i] = shard.Stats()
	}
	return stats
}

func (p *ShardedPool) pick() NodePool {
	i := p.next.Add(1) - 1
	return p.shards[int(i%uint32(len(p.shards)))]
}
