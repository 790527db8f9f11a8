package stream

import (
	"context"

	"github.com/jackc/puddle/v2"
)

// PuddlePool is a node pool backed by puddle. At most capacity nodes are
// tracked by puddle at a time; when all of them are checked out, Get falls
// back to unpooled nodes that are simply dropped on Put.
type PuddlePool struct {
	pool  *puddle.Pool[*Node]
	stats *poolStatsCollector
}

// NewPuddlePool creates a puddle-based node pool.
func NewPuddlePool(capacity int32) (*PuddlePool, error) {
	if capacity < 1 {
		capacity = 1
	}

	p := &PuddlePool{stats: newPoolStatsCollector()}

	pool, err := puddle.NewPool(&puddle.Config[*Node]{
		Constructor: func(ctx context.Context) (*Node, error) {
			return &Node{}, nil
		},
		Destructor: func(n *Node) {
			n.reset()
		},
		MaxSize: capacity,
	})
	if err != nil {
		return nil, err
	}
	p.pool = pool
	return p, nil
}

func (p *PuddlePool) Get() *Node {
	p.stats.recordGet()

	res, err := p.pool.TryAcquire(context.Background())
	if err != nil {
		// puddle.ErrNotAvailable (growing in the background) or ErrClosedPool
		p.stats.recordMiss()
		return &Node{}
	}

	p.stats.recordHit()
	n := res.Value()
	n.res = res
	return n
}

func (p *PuddlePool) Put(n *Node) {
	if n == nil {
		return
	}
	n.reset()
	p.stats.recordPut()

	res := n.res
	if res == nil {
		p.stats.recordDiscard()
		return
	}
	n.res = nil
	res.Release()
}

// Stats maps puddle's counters onto PoolStats.
func (p *PuddlePool) Stats() PoolStats {
	s := p.stats.snapshot()
	s.Idle = p.pool.Stat().IdleResources()
	return s
}

// Close destroys all idle nodes. Nodes checked out afterwards are unpooled.
func (p *PuddlePool) Close() {
	p.pool.Close()
}
