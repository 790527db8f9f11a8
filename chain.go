package stream

// chain is a singly linked list of immutable byte blocks with a cached total
// length. The read chain of a stream is FIFO: append at the tail, consume at
// the head. The write chain is built by prepending, so head is the most
// recent block and drainReverse restores write order.
type chain struct {
	head *Node
	tail *Node
	size int
	pool NodePool
}

func (c *chain) empty() bool {
	return c.head == nil
}

func (c *chain) node(load []byte) *Node {
	n := c.pool.Get()
	n.load = load
	return n
}

// append links load at the tail.
func (c *chain) append(load []byte) error {
	size, err := addLen(c.size, len(load))
	if err != nil {
		return err
	}

	n := c.node(load)
	if c.tail == nil {
		c.head = n
	} else {
		c.tail.next = n
	}
	c.tail = n
	c.size = size
	return nil
}

// prepend links load in front of the head.
func (c *chain) prepend(load []byte) error {
	size, err := addLen(c.size, len(load))
	if err != nil {
		return err
	}

	n := c.node(load)
	n.next = c.head
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
	c.size = size
	return nil
}

// popFront unlinks the head node and returns its load.
func (c *chain) popFront() []byte {
	n := c.head
	if n == nil {
		return nil
	}

	c.head = n.next
	if c.head == nil {
		c.tail = nil
	}
	c.size -= len(n.load)

	load := n.load
	c.pool.Put(n)
	return load
}

// cutHead returns the first n bytes of the head node, n <= len(head). When
// the head is longer, a new node holding the remainder takes its place.
func (c *chain) cutHead(n int) []byte {
	h := c.head
	if n >= len(h.load) {
		return c.popFront()
	}

	rest := c.node(h.load[n:])
	rest.next = h.next
	if c.tail == h {
		c.tail = rest
	}
	c.head = rest
	c.size -= n

	load := h.load[:n:n]
	c.pool.Put(h)
	return load
}

// take removes the first n bytes of the chain and returns them as one block.
// A request covered by the head node alone is served without copying.
func (c *chain) take(n int) []byte {
	if n > c.size {
		n = c.size
	}
	if n <= 0 {
		return nil
	}
	if len(c.head.load) >= n {
		return c.cutHead(n)
	}

	out := make([]byte, n)
	off := 0
	for off < n {
		if len(c.head.load) > n-off {
			off += copy(out[off:], c.cutHead(n-off))
			break
		}
		off += copy(out[off:], c.popFront())
	}
	return out
}

// drainReverse empties a prepend-built chain into one block in the order the
// blocks were originally added. The copy runs from the end of the output
// backwards, following the chain from the newest block.
func (c *chain) drainReverse() []byte {
	if c.head == nil {
		return nil
	}
	if c.head.next == nil {
		load := c.popFront()
		c.size = 0
		return load
	}

	out := make([]byte, c.size)
	end := len(out)
	for c.head != nil {
		load := c.popFront()
		end -= len(load)
		copy(out[end:], load)
	}
	c.size = 0
	return out
}

// pushFront moves all nodes of other in front of c, keeping their order.
// The bytes were taken from c in the first place, so the length cannot
// overflow.
func (c *chain) pushFront(other *chain) {
	if other.head == nil {
		return
	}

	other.tail.next = c.head
	if c.tail == nil {
		c.tail = other.tail
	}
	c.head = other.head
	c.size += other.size

	other.head, other.tail, other.size = nil, nil, 0
}

// release returns every node to the pool.
func (c *chain) release() {
	for c.head != nil {
		c.popFront()
	}
	c.size = 0
}
