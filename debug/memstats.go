// Package debug holds runtime loggers started only when config.Debug is true.
// They help tell Go heap growth apart from native (Tk photo) memory growth
// while browsing large image folders.
package debug

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// MemSample is one memory observation.
type MemSample struct {
	Goroutines int
	HeapAlloc  uint64
	HeapInuse  uint64
	HeapSys    uint64
	NumGC      uint32
	StackInuse uint64
	RSS        uint64 // 0 when the platform query failed
}

// Sample reads Go heap statistics and the process resident set size.
func Sample() (MemSample, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s := MemSample{
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  ms.HeapAlloc,
		HeapInuse:  ms.HeapInuse,
		HeapSys:    ms.HeapSys,
		NumGC:      ms.NumGC,
		StackInuse: ms.StackInuse,
	}
	rss, err := residentSetSize()
	s.RSS = rss
	return s, err
}

// StartMemLogger logs a MemSample every interval until ctx is done. RSS query
// failures are logged once and suppressed.
func StartMemLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		var rssErrLogged bool
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			s, err := Sample()
			if err != nil && !rssErrLogged {
				logger.Warn("memlog: rss query failed", slog.String("err", err.Error()))
				rssErrLogged = true
			}
			logger.Info("memstats",
				slog.Int("goroutines", s.Goroutines),
				slog.Uint64("heap_alloc", s.HeapAlloc),
				slog.Uint64("heap_inuse", s.HeapInuse),
				slog.Uint64("heap_sys", s.HeapSys),
				slog.Uint64("num_gc", uint64(s.NumGC)),
				slog.Uint64("stack_inuse", s.StackInuse),
				slog.Uint64("rss", s.RSS),
			)
		}
	}()
}
