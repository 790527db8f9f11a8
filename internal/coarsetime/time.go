// Package coarsetime is a cheap clock for hot paths. The current time is
// refreshed every 50ms by a goroutine started on first use, so values may
// lag behind time.Now by up to one tick.
package coarsetime

import (
	"sync"
	"sync/atomic"
	"time"
)

const Tick = 50 * time.Millisecond

var (
	nowNanos atomic.Int64
	start    sync.Once
)

func run() {
	nowNanos.Store(time.Now().UnixNano())

	ticker := time.NewTicker(Tick)
	go func() {
		for t := range ticker.C {
			nowNanos.Store(t.UnixNano())
		}
	}()
}

// Now returns the coarse current time.
func Now() time.Time {
	start.Do(run)
	return time.Unix(0, nowNanos.Load())
}
