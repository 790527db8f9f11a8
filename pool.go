package stream

import (
	"github.com/jackc/puddle/v2"
)

// Node is one link of a buffer chain. Its load is never modified once set;
// splitting a node creates a new node for the remainder.
type Node struct {
	next *Node
	load []byte

	// set while the node is checked out of a puddle pool
	res *puddle.Resource[*Node]
}

// Bytes returns the node's load.
func (n *Node) Bytes() []byte {
	return n.load
}

// Len returns the number of bytes in the node's load.
func (n *Node) Len() int {
	return len(n.load)
}

// NodePool hands out chain nodes and takes them back once unlinked.
// Implementations must be safe for concurrent use: a single pool is usually
// shared by every stream of the process.
type NodePool interface {
	// Get returns an empty node, from the free list if possible.
	Get() *Node

	// Put clears the node and keeps it for reuse, or drops it when the
	// free list is full.
	Put(n *Node)

	// Stats returns a snapshot of the pool counters.
	Stats() PoolStats
}

// Sharder is implemented by pools that can give each owner its own free list.
type Sharder interface {
	Shard(key string) NodePool
}

// DefaultPool is the process-wide pool used by streams configured without one.
var DefaultPool NodePool = NewChannelPool(DefaultPoolCap)

// reset drops every reference held by the node before it goes back to a pool.
func (n *Node) reset() {
	n.next = nil
	n.load = nil
}
