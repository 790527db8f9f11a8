package promexporter

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pior/stream"
)

// StatsSource is anything reporting stream traffic, usually a *stream.Stream.
type StatsSource interface {
	Stats() stream.StreamStats
}

// Collector exports node pool and stream statistics. Sources are read on
// every scrape; their counters are atomics so scraping from another
// goroutine is safe.
type Collector struct {
	mu      sync.Mutex
	pools   map[string]stream.NodePool
	streams map[string]StatsSource

	poolGets     *prometheus.Desc
	poolHits     *prometheus.Desc
	poolMisses   *prometheus.Desc
	poolPuts     *prometheus.Desc
	poolDiscards *prometheus.Desc
	poolIdle     *prometheus.Desc

	reads        *prometheus.Desc
	bytesRead    *prometheus.Desc
	writes       *prometheus.Desc
	bytesWritten *prometheus.Desc
	flushes      *prometheus.Desc
	lastActivity *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	pool := []string{"pool"}
	strm := []string{"stream"}

	return &Collector{
		pools:   make(map[string]stream.NodePool),
		streams: make(map[string]StatsSource),

		poolGets:     prometheus.NewDesc("stream_pool_gets_total", "Total node requests", pool, nil),
		poolHits:     prometheus.NewDesc("stream_pool_hits_total", "Node requests served from the free list", pool, nil),
		poolMisses:   prometheus.NewDesc("stream_pool_misses_total", "Node requests that allocated", pool, nil),
		poolPuts:     prometheus.NewDesc("stream_pool_puts_total", "Total nodes given back", pool, nil),
		poolDiscards: prometheus.NewDesc("stream_pool_discards_total", "Nodes dropped because the free list was full", pool, nil),
		poolIdle:     prometheus.NewDesc("stream_pool_idle_nodes", "Nodes currently on the free list", pool, nil),

		reads:        prometheus.NewDesc("stream_reads_total", "Underlying read calls", strm, nil),
		bytesRead:    prometheus.NewDesc("stream_read_bytes_total", "Bytes received from the endpoint", strm, nil),
		writes:       prometheus.NewDesc("stream_writes_total", "Underlying write calls", strm, nil),
		bytesWritten: prometheus.NewDesc("stream_written_bytes_total", "Bytes handed to the endpoint", strm, nil),
		flushes:      prometheus.NewDesc("stream_flushes_total", "Flushes passed down to the endpoint", strm, nil),
		lastActivity: prometheus.NewDesc("stream_last_activity_timestamp_seconds", "Coarse time of the last underlying call", strm, nil),
	}
}

// AddPool exports pool under name, replacing any pool of the same name.
func (c *Collector) AddPool(name string, pool stream.NodePool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pools[name] = pool
}

// AddStream exports s under name, replacing any stream of the same name.
func (c *Collector) AddStream(name string, s StatsSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.streams[name] = s
}

// RemoveStream stops exporting the stream registered under name.
func (c *Collector) RemoveStream(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.streams, name)
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.poolGets
	ch <- c.poolHits
	ch <- c.poolMisses
	ch <- c.poolPuts
	ch <- c.poolDiscards
	ch <- c.poolIdle
	ch <- c.reads
	ch <- c.bytesRead
	ch <- c.writes
	ch <- c.bytesWritten
	ch <- c.flushes
	ch <- c.lastActivity
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, pool := range c.pools {
		s := pool.Stats()
		ch <- prometheus.MustNewConstMetric(c.poolGets, prometheus.CounterValue, float64(s.Gets), name)
		ch <- prometheus.MustNewConstMetric(c.poolHits, prometheus.CounterValue, float64(s.Hits), name)
		ch <- prometheus.MustNewConstMetric(c.poolMisses, prometheus.CounterValue, float64(s.Misses), name)
		ch <- prometheus.MustNewConstMetric(c.poolPuts, prometheus.CounterValue, float64(s.Puts), name)
		ch <- prometheus.MustNewConstMetric(c.poolDiscards, prometheus.CounterValue, float64(s.Discards), name)
		ch <- prometheus.MustNewConstMetric(c.poolIdle, prometheus.GaugeValue, float64(s.Idle), name)
	}

	for name, src := range c.streams {
		s := src.Stats()
		ch <- prometheus.MustNewConstMetric(c.reads, prometheus.CounterValue, float64(s.Reads), name)
		ch <- prometheus.MustNewConstMetric(c.bytesRead, prometheus.CounterValue, float64(s.BytesRead), name)
		ch <- prometheus.MustNewConstMetric(c.writes, prometheus.CounterValue, float64(s.Writes), name)
		ch <- prometheus.MustNewConstMetric(c.bytesWritten, prometheus.CounterValue, float64(s.BytesWritten), name)
		ch <- prometheus.MustNewConstMetric(c.flushes, prometheus.CounterValue, float64(s.Flushes), name)

		var ts float64
		if !s.LastActivity.IsZero() {
			ts = float64(s.LastActivity.UnixNano()) / 1e9
		}
		ch <- prometheus.MustNewConstMetric(c.lastActivity, prometheus.GaugeValue, ts, name)
	}
}
