// Package debug logs periodic runtime statistics when debug mode is
// on. The verdict loop and the Tk render loop both allocate frames at
// a steady rate; these logs make leaks visible without a profiler.
package debug

import (
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"
)

const statsInterval = 5 * time.Second

// StartRuntimeStats launches a background logger for goroutine, heap
// and RSS figures. Best-effort: RSS query failures are logged once and
// suppressed.
func StartRuntimeStats(logger *slog.Logger) {
	go func() {
		t := time.NewTicker(statsInterval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		var rssErrLogged bool
		for range t.C {
			metrics.Read(samples)
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			rss, err := residentSetSize()
			if err != nil && !rssErrLogged {
				logger.Warn("rss query failed", slog.String("err", err.Error()))
				rssErrLogged = true
			}
			logger.Info("runtime-stats",
				slog.Uint64("goroutines", samples[0].Value.Uint64()),
				slog.Uint64("heap_alloc", ms.HeapAlloc),
				slog.Uint64("heap_inuse", ms.HeapInuse),
				slog.Uint64("stack_inuse", uint64(ms.StackInuse)),
				slog.Uint64("next_gc", ms.NextGC),
				slog.Uint64("rss", rss),
				slog.Uint64("num_gc", uint64(ms.NumGC)),
			)
		}
	}()
}
