package core

import (
	"encoding/json"
	"fmt"

	"github.com/searchktools/zzz/core/observability"
	"github.com/searchktools/zzz/core/pools"
)

// PoolStats is a snapshot of every pool the engine keeps plus per-route
// latency, for an observability endpoint to report on.
type PoolStats struct {
	Provision ProvisionPoolStats            `json:"provision"`
	Worker    pools.WorkerPoolStats         `json:"worker"`
	Routes    []observability.RouteSnapshot `json:"routes"`
}

// ProvisionPoolStats reports borrow/release/allocation counters plus the
// derived hit rate: the fraction of Borrow calls that reused an existing
// Provision instead of allocating a new one.
type ProvisionPoolStats struct {
	Gets    uint64  `json:"gets"`
	Puts    uint64  `json:"puts"`
	News    uint64  `json:"news"`
	HitRate float64 `json:"hit_rate"`
}

// PoolStats returns a snapshot of the provision pool and worker pool.
func (e *Engine) PoolStats() PoolStats {
	gets, puts, news := e.provisions.Stats()
	hitRate := 0.0
	if gets > 0 {
		hitRate = float64(gets-news) / float64(gets)
	}
	return PoolStats{
		Provision: ProvisionPoolStats{Gets: gets, Puts: puts, News: news, HitRate: hitRate},
		Worker:    e.workers.Stats(),
		Routes:    e.monitor.Snapshot(),
	}
}

// PoolStatsJSON returns PoolStats marshaled as indented JSON.
func (e *Engine) PoolStatsJSON() string {
	data, _ := json.MarshalIndent(e.PoolStats(), "", "  ")
	return string(data)
}

// PoolStatsText returns PoolStats as a human-readable report.
func (e *Engine) PoolStatsText() string {
	s := e.PoolStats()
	report := fmt.Sprintf(`Pool Statistics
===============

Provision Pool:
  Gets:     %d
  Puts:     %d
  News:     %d
  Hit Rate: %.2f%%

Worker Pool:
  Workers:         %d
  Tasks Submitted: %d
  Tasks Completed: %d
  Steals Success:  %d
  Steals Failed:   %d

Routes:
`,
		s.Provision.Gets, s.Provision.Puts, s.Provision.News, s.Provision.HitRate*100,
		s.Worker.NumWorkers, s.Worker.TasksSubmitted, s.Worker.TasksCompleted,
		s.Worker.StealsSuccess, s.Worker.StealsFailed,
	)
	for _, r := range s.Routes {
		report += fmt.Sprintf("  %-24s count=%-8d errors=%-6d avg=%v\n", r.Route, r.Count, r.Errors, r.AvgLatency)
	}
	return report
}
