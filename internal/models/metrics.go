package models

import "time"

// MetricsSnapshot is a lightweight JSON view of the service counters.
type MetricsSnapshot struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	OptimizerRuns            uint64    `json:"optimizer_runs"`
	OptimizerFailures        uint64    `json:"optimizer_failures"`
	LastRunAssignments       int       `json:"last_run_assignments"`
	LastRunUnresolved        int       `json:"last_run_unresolved"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
