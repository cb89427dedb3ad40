package metrics

import (
	"context"
	"runtime"
	"time"
)

// CollectSystem samples runtime stats every interval until ctx is done.
func CollectSystem(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastPauseTotal uint64
	var lastNumGC uint32
	for {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		UpdateSystemMemoryUsage(ms.HeapAlloc)
		UpdateSystemGoroutineCount(runtime.NumGoroutine())
		if n := ms.NumGC - lastNumGC; n > 0 && lastNumGC > 0 {
			avg := float64(ms.PauseTotalNs-lastPauseTotal) / float64(n) / float64(time.Millisecond)
			RecordSystemGCPauseTime(avg)
		}
		lastPauseTotal, lastNumGC = ms.PauseTotalNs, ms.NumGC

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
