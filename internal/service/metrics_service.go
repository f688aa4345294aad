package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/deputat-planner/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	cacheLatency     prometheus.Observer
	cacheWrite       prometheus.Observer
	cacheHitRatio    prometheus.Gauge
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	optimizerRuns    *prometheus.CounterVec
	optimizerLatency prometheus.Observer
	assignments      prometheus.Gauge
	unresolved       prometheus.Gauge
	fallback         prometheus.Gauge
	reportLines      *prometheus.CounterVec

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	runCount             uint64
	runFailures          uint64
	lastAssignments      int64
	lastUnresolved       int64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	optimizerRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planning_optimizer_runs_total",
		Help: "Optimizer runs by outcome",
	}, []string{"status"})

	optimizerLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planning_optimizer_duration_seconds",
		Help:    "Duration of optimizer runs including persistence",
		Buckets: prometheus.DefBuckets,
	})

	assignments := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planning_assignments_last_run",
		Help: "Assignment rows written by the last successful run",
	})

	unresolved := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planning_unresolved_last_run",
		Help: "Unresolved class/subject pairs of the last successful run",
	})

	fallback := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planning_fallback_matches_last_run",
		Help: "Pairs committed through the relaxed qualification pass in the last run",
	})

	reportLines := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "staffing_report_lines_total",
		Help: "Staffing report lines generated by mode",
	}, []string{"mode"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		optimizerRuns, optimizerLatency, assignments, unresolved, fallback, reportLines, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:         registry,
		handler:          handler,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		cacheLatency:     cacheLatency,
		cacheWrite:       cacheWrite,
		cacheHitRatio:    cacheHitRatio,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		optimizerRuns:    optimizerRuns,
		optimizerLatency: optimizerLatency,
		assignments:      assignments,
		unresolved:       unresolved,
		fallback:         fallback,
		reportLines:      reportLines,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	if m.cacheLatency != nil {
		m.cacheLatency.Observe(duration.Seconds())
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil || m.cacheWrite == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveOptimizerRun records the outcome of one optimizer run. Result gauges
// only move on success.
func (m *MetricsService) ObserveOptimizerRun(status models.RunStatus, duration time.Duration, assignments, unresolved, fallback int) {
	if m == nil {
		return
	}
	m.optimizerRuns.WithLabelValues(string(status)).Inc()
	m.optimizerLatency.Observe(duration.Seconds())
	atomic.AddUint64(&m.runCount, 1)
	if status != models.RunStatusSucceeded {
		atomic.AddUint64(&m.runFailures, 1)
		return
	}
	m.assignments.Set(float64(assignments))
	m.unresolved.Set(float64(unresolved))
	m.fallback.Set(float64(fallback))
	atomic.StoreInt64(&m.lastAssignments, int64(assignments))
	atomic.StoreInt64(&m.lastUnresolved, int64(unresolved))
}

// ObserveReport counts generated report lines.
func (m *MetricsService) ObserveReport(mode models.ReportMode, lines int) {
	if m == nil {
		return
	}
	m.reportLines.WithLabelValues(string(mode)).Add(float64(lines))
}

// Snapshot returns aggregated metrics suitable for the summary endpoint.
func (m *MetricsService) Snapshot() models.MetricsSnapshot {
	if m == nil {
		return models.MetricsSnapshot{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var cacheRatio float64
	if totalLookups := hits + misses; totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.MetricsSnapshot{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		OptimizerRuns:            atomic.LoadUint64(&m.runCount),
		OptimizerFailures:        atomic.LoadUint64(&m.runFailures),
		LastRunAssignments:       int(atomic.LoadInt64(&m.lastAssignments)),
		LastRunUnresolved:        int(atomic.LoadInt64(&m.lastUnresolved)),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
