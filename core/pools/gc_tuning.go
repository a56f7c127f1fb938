package pools

import (
	"runtime"
	"runtime/debug"
)

// GCConfig holds garbage collector tuning parameters for a server process
// that holds a large number of long-lived, pooled buffers — the provision
// pool's retained arenas and recv buffers are exactly the kind of memory
// that benefits from a less aggressive collector.
type GCConfig struct {
	// GOGC is the GC target percentage; higher means less frequent GC at
	// the cost of peak memory. Default Go behavior is 100.
	GOGC int

	// MemoryLimit sets a soft memory limit in bytes; 0 means no limit.
	MemoryLimit int64

	// WarmRetainBytes, if > 0, is allocated and discarded once at startup
	// to raise the heap's baseline size before traffic arrives, so the
	// first GC cycle doesn't run while pools are still warming up.
	WarmRetainBytes int64
}

// DefaultGCConfig favors throughput over peak memory, appropriate for a
// server whose connection_count_max keeps steady-state memory bounded
// anyway.
func DefaultGCConfig() GCConfig {
	return GCConfig{
		GOGC:            200,
		WarmRetainBytes: 50 << 20,
	}
}

// ApplyGCConfig applies cfg to the running process.
func ApplyGCConfig(cfg GCConfig) {
	if cfg.GOGC > 0 {
		debug.SetGCPercent(cfg.GOGC)
	}
	if cfg.MemoryLimit > 0 {
		debug.SetMemoryLimit(cfg.MemoryLimit)
	}
	if cfg.WarmRetainBytes > 0 {
		runtime.GC()
		_ = make([]byte, cfg.WarmRetainBytes)
	}
}

// GCStats is a snapshot of collector activity, as returned by ReadGCStats.
type GCStats struct {
	NumGC        uint32
	AllocBytes   uint64
	TotalAlloc   uint64
	Sys          uint64
	NumGoroutine int
}

// ReadGCStats reads current runtime memory statistics.
func ReadGCStats() GCStats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return GCStats{
		NumGC:        ms.NumGC,
		AllocBytes:   ms.Alloc,
		TotalAlloc:   ms.TotalAlloc,
		Sys:          ms.Sys,
		NumGoroutine: runtime.NumGoroutine(),
	}
}
