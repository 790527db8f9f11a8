package stream

import (
	"sync/atomic"
	"time"

	"github.com/pior/stream/internal/coarsetime"
)

// PoolStats contains statistics about a node pool.
//
// For Prometheus integration, expose these as:
//   - Counters: Gets, Hits, Misses, Puts, Discards
//   - Gauge: Idle
type PoolStats struct {
	Gets     uint64 // Total Get calls
	Hits     uint64 // Gets served from the free list
	Misses   uint64 // Gets that allocated a fresh node
	Puts     uint64 // Total Put calls
	Discards uint64 // Puts dropped because the free list was full
	Idle     int32  // Nodes currently on the free list
}

func (s PoolStats) add(o PoolStats) PoolStats {
	return PoolStats{
		Gets:     s.Gets + o.Gets,
		Hits:     s.Hits + o.Hits,
		Misses:   s.Misses + o.Misses,
		Puts:     s.Puts + o.Puts,
		Discards: s.Discards + o.Discards,
		Idle:     s.Idle + o.Idle,
	}
}

// StreamStats contains statistics about a buffered stream's traffic with its
// endpoint. Reading them is safe from any goroutine.
type StreamStats struct {
	Reads        uint64    // Underlying read calls
	BytesRead    uint64    // Bytes received from the endpoint
	Writes       uint64    // Underlying write calls
	BytesWritten uint64    // Bytes handed to the endpoint
	Flushes      uint64    // Passdown flushes
	LastActivity time.Time // Coarse time of the last underlying call
}

// poolStatsCollector provides internal methods for updating pool stats.
type poolStatsCollector struct {
	stats *PoolStats
}

func newPoolStatsCollector() *poolStatsCollector {
	return &poolStatsCollector{stats: &PoolStats{}}
}

func (c *poolStatsCollector) recordGet() {
	atomic.AddUint64(&c.stats.Gets, 1)
}

func (c *poolStatsCollector) recordHit() {
	atomic.AddUint64(&c.stats.Hits, 1)
}

func (c *poolStatsCollector) recordMiss() {
	atomic.AddUint64(&c.stats.Misses, 1)
}

func (c *poolStatsCollector) recordPut() {
	atomic.AddUint64(&c.stats.Puts, 1)
}

func (c *poolStatsCollector) recordDiscard() {
	atomic.AddUint64(&c.stats.Discards, 1)
}

func (c *poolStatsCollector) snapshot() PoolStats {
	return PoolStats{
		Gets:     atomic.LoadUint64(&c.stats.Gets),
		Hits:     atomic.LoadUint64(&c.stats.Hits),
		Misses:   atomic.LoadUint64(&c.stats.Misses),
		Puts:     atomic.LoadUint64(&c.stats.Puts),
		Discards: atomic.LoadUint64(&c.stats.Discards),
	}
}

// streamStatsCollector is owned by one stream but may be read concurrently.
type streamStatsCollector struct {
	reads        atomic.Uint64
	bytesRead    atomic.Uint64
	writes       atomic.Uint64
	bytesWritten atomic.Uint64
	flushes      atomic.Uint64
	lastActivity atomic.Int64
}

func (c *streamStatsCollector) recordRead(n int) {
	c.reads.Add(1)
	c.bytesRead.Add(uint64(n))
	c.touch()
}

func (c *streamStatsCollector) recordWrite(n int) {
	c.writes.Add(1)
	c.bytesWritten.Add(uint64(n))
	c.touch()
}

func (c *streamStatsCollector) recordFlush() {
	c.flushes.Add(1)
	c.touch()
}

func (c *streamStatsCollector) touch() {
	c.lastActivity.Store(coarsetime.Now().UnixNano())
}

func (c *streamStatsCollector) snapshot() StreamStats {
	s := StreamStats{
		Reads:        c.reads.Load(),
		BytesRead:    c.bytesRead.Load(),
		Writes:       c.writes.Load(),
		BytesWritten: c.bytesWritten.Load(),
		Flushes:      c.flushes.Load(),
	}
	if ns := c.lastActivity.Load(); ns != 0 {
		s.LastActivity = time.Unix(0, ns)
	}
	return s
}
