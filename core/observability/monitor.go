// Package observability tracks per-route latency and error counts for the
// connection engine, with no locking on the request hot path.
package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// PerformanceMonitor accumulates per-route counters. Routes are keyed by
// the path the engine matched against, found or inserted into a sync.Map
// so RecordRequest never blocks one route's writers on another's.
type PerformanceMonitor struct {
	routes sync.Map // string -> *RouteMetrics
}

// RouteMetrics is one route's running counters, all atomics so
// RecordRequest can update them from any worker without a lock.
type RouteMetrics struct {
	Route         string
	Count         atomic.Uint64
	Errors        atomic.Uint64
	TotalDuration atomic.Uint64
	MinDuration   atomic.Uint64
	MaxDuration   atomic.Uint64
}

// RouteSnapshot is a point-in-time, non-atomic copy of one route's
// counters, safe to hand to a JSON encoder or print.
type RouteSnapshot struct {
	Route      string        `json:"route"`
	Count      uint64        `json:"count"`
	Errors     uint64        `json:"errors"`
	AvgLatency time.Duration `json:"avg_latency_ns"`
	MinLatency time.Duration `json:"min_latency_ns"`
	MaxLatency time.Duration `json:"max_latency_ns"`
}

func NewPerformanceMonitor() *PerformanceMonitor {
	return &PerformanceMonitor{}
}

// RecordRequest folds one completed request's outcome into its route's
// counters. Called once per request from the engine's worker, after the
// handler chain has run.
func (pm *PerformanceMonitor) RecordRequest(route string, duration time.Duration, isError bool) {
	val, _ := pm.routes.LoadOrStore(route, &RouteMetrics{Route: route})
	m := val.(*RouteMetrics)

	m.Count.Add(1)
	if isError {
		m.Errors.Add(1)
	}

	d := uint64(duration.Nanoseconds())
	m.TotalDuration.Add(d)
	updateMinMax(m, d)
}

func updateMinMax(m *RouteMetrics, d uint64) {
	for {
		min := m.MinDuration.Load()
		if min != 0 && d >= min {
			break
		}
		if m.MinDuration.CompareAndSwap(min, d) {
			break
		}
	}
	for {
		max := m.MaxDuration.Load()
		if d <= max {
			break
		}
		if m.MaxDuration.CompareAndSwap(max, d) {
			break
		}
	}
}

// Snapshot returns every route's counters as of now, for an admin or
// metrics endpoint to report on. Order is unspecified — sync.Map doesn't
// preserve one.
func (pm *PerformanceMonitor) Snapshot() []RouteSnapshot {
	var out []RouteSnapshot
	pm.routes.Range(func(_, value any) bool {
		m := value.(*RouteMetrics)
		count := m.Count.Load()
		var avg time.Duration
		if count > 0 {
			avg = time.Duration(m.TotalDuration.Load() / count)
		}
		out = append(out, RouteSnapshot{
			Route:      m.Route,
			Count:      count,
			Errors:     m.Errors.Load(),
			AvgLatency: avg,
			MinLatency: time.Duration(m.MinDuration.Load()),
			MaxLatency: time.Duration(m.MaxDuration.Load()),
		})
		return true
	})
	return out
}
