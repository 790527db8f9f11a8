package promexporter

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pior/stream"
)

func scrape(t *testing.T, e *Exporter) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, e.WriteText(&buf))
	return buf.String()
}

func TestExporter_PoolMetrics(t *testing.T) {
	pool := stream.NewChannelPool(4)
	for range 3 {
		pool.Put(pool.Get())
	}

	e := NewExporter()
	e.Collector().AddPool("default", pool)

	text := scrape(t, e)
	assert.Contains(t, text, `stream_pool_gets_total{pool="default"} 3`)
	assert.Contains(t, text, `stream_pool_hits_total{pool="default"} 2`)
	assert.Contains(t, text, `stream_pool_misses_total{pool="default"} 1`)
	assert.Contains(t, text, `stream_pool_puts_total{pool="default"} 3`)
	assert.Contains(t, text, `stream_pool_discards_total{pool="default"} 0`)
	assert.Contains(t, text, `stream_pool_idle_nodes{pool="default"} 1`)
	assert.Contains(t, text, "# TYPE stream_pool_idle_nodes gauge")
}

func TestExporter_StreamMetrics(t *testing.T) {
	var out bytes.Buffer
	s := stream.New(struct {
		io.Reader
		io.Writer
	}{strings.NewReader("a\nb\n"), &out}, stream.Config{})

	_, err := s.ReadLines(0)
	require.NoError(t, err)
	_, err = s.WriteString("hello")
	require.NoError(t, err)
	require.NoError(t, s.FlushBuffer())

	e := NewExporter()
	e.Collector().AddStream("client", s)

	text := scrape(t, e)
	assert.Contains(t, text, `stream_read_bytes_total{stream="client"} 4`)
	assert.Contains(t, text, `stream_writes_total{stream="client"} 1`)
	assert.Contains(t, text, `stream_written_bytes_total{stream="client"} 5`)
	assert.Contains(t, text, `stream_flushes_total{stream="client"} 0`)
	assert.Contains(t, text, `stream_last_activity_timestamp_seconds{stream="client"}`)
	assert.NotContains(t, text, `stream_last_activity_timestamp_seconds{stream="client"} 0`)

	e.Collector().RemoveStream("client")
	assert.NotContains(t, scrape(t, e), `stream="client"`)
}

func TestExporter_Handler(t *testing.T) {
	e := NewExporter()
	e.Collector().AddPool("sharded", stream.NewShardedPool(2, 2))

	rec := httptest.NewRecorder()
	e.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `stream_pool_idle_nodes{pool="sharded"} 0`)
}

func TestCollector_Describe(t *testing.T) {
	ch := make(chan *prometheus.Desc, 32)
	go func() {
		NewCollector().Describe(ch)
		close(ch)
	}()

	count := 0
	for range ch {
		count++
	}
	assert.Equal(t, 12, count)
}
