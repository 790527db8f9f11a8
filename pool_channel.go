package stream

// NewChannelPool creates a node pool keeping at most capacity idle nodes in a
// buffered channel. This is the default pool implementation.
func NewChannelPool(capacity int) NodePool {
	if capacity < 0 {
		capacity = 0
	}
	return &channelPool{
		nodes: make(chan *Node, capacity),
		stats: newPoolStatsCollector(),
	}
}

// channelPool is a bounded free list. Get never blocks: an empty channel
// means a fresh allocation, and Put drops the node when the channel is full.
type channelPool struct {
	nodes chan *Node
	stats *poolStatsCollector
}

func (p *channelPool) Get() *Node {
	p.stats.recordGet()

	select {
	case n := <-p.nodes:
		p.stats.recordHit()
		return n
	default:
		p.stats.recordMiss()
		return &Node{}
	}
}

func (p *channelPool) Put(n *Node) {
	if n == nil {
		return
	}
	n.reset()
	p.stats.recordPut()

	select {
	case p.nodes <- n:
	default:
		// Free list is full, let the GC have it
		p.stats.recordDiscard()
	}
}

func (p *channelPool) Stats() PoolStats {
	s := p.stats.snapshot()
	s.Idle = int32(len(p.nodes))
	return s
}
