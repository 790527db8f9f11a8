package stream

import (
	"sync"
	"testing"
	"time"
)

func TestStreamStats_Counters(t *testing.T) {
	var c streamStatsCollector

	// Initial stats should be zero
	stats := c.snapshot()
	if stats.Reads != 0 || stats.Writes != 0 {
		t.Errorf("Expected zero counters, got %+v", stats)
	}
	if !stats.LastActivity.IsZero() {
		t.Errorf("Expected zero LastActivity, got %v", stats.LastActivity)
	}

	c.recordRead(10)
	c.recordRead(0)
	c.recordWrite(7)
	c.recordFlush()

	stats = c.snapshot()
	if stats.Reads != 2 {
		t.Errorf("Expected Reads=2, got %d", stats.Reads)
	}
	if stats.BytesRead != 10 {
		t.Errorf("Expected BytesRead=10, got %d", stats.BytesRead)
	}
	if stats.Writes != 1 {
		t.Errorf("Expected Writes=1, got %d", stats.Writes)
	}
	if stats.BytesWritten != 7 {
		t.Errorf("Expected BytesWritten=7, got %d", stats.BytesWritten)
	}
	if stats.Flushes != 1 {
		t.Errorf("Expected Flushes=1, got %d", stats.Flushes)
	}
	if time.Since(stats.LastActivity) > time.Minute {
		t.Errorf("Expected a recent LastActivity, got %v", stats.LastActivity)
	}
}

// Stats may be read while the owning goroutine uses the stream.
func TestStreamStats_ConcurrentSnapshot(t *testing.T) {
	var c streamStatsCollector

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 1000 {
			c.recordRead(1)
		}
	}()

	for range 100 {
		_ = c.snapshot()
	}
	wg.Wait()

	if got := c.snapshot().BytesRead; got != 1000 {
		t.Errorf("Expected BytesRead=1000, got %d", got)
	}
}

func TestPoolStats_Add(t *testing.T) {
	a := PoolStats{Gets: 1, Hits: 2, Misses: 3, Puts: 4, Discards: 5, Idle: 6}
	b := PoolStats{Gets: 10, Hits: 20, Misses: 30, Puts: 40, Discards: 50, Idle: 60}

	want := PoolStats{Gets: 11, Hits: 22, Misses: 33, Puts: 44, Discards: 55, Idle: 66}
	if got := a.add(b); got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}
