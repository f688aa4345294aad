package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/deputat-planner/internal/models"
	appErrors "github.com/noah-isme/deputat-planner/pkg/errors"
)

const defaultReportCacheTTL = 10 * time.Minute

type reportPayloadStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ReportCache holds computed staffing reports per school year and mode until
// the next optimizer run for that year. Cache failures degrade to a miss.
type ReportCache struct {
	store   reportPayloadStore
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	enabled bool
}

// NewReportCache constructs a report cache. A disabled cache misses on every read.
func NewReportCache(store reportPayloadStore, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, enabled bool) *ReportCache {
	if ttl <= 0 {
		ttl = defaultReportCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportCache{store: store, metrics: metrics, ttl: ttl, logger: logger, enabled: enabled}
}

// Enabled reports whether reads and writes reach the store.
func (c *ReportCache) Enabled() bool {
	return c != nil && c.enabled && c.store != nil
}

// Lines returns the cached report of a year and mode.
func (c *ReportCache) Lines(ctx context.Context, schoolYear string, mode models.ReportMode) ([]models.StaffingReportLine, bool) {
	if !c.Enabled() {
		return nil, false
	}
	var lines []models.StaffingReportLine
	start := time.Now()
	err := c.store.Get(ctx, reportCacheKey(schoolYear, mode), &lines)
	c.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			c.logger.Warn("staffing report cache read failed",
				zap.String("school_year", schoolYear), zap.String("mode", string(mode)), zap.Error(err))
		}
		return nil, false
	}
	return lines, true
}

// Store caches a computed report. Failures are logged only.
func (c *ReportCache) Store(ctx context.Context, schoolYear string, mode models.ReportMode, lines []models.StaffingReportLine) {
	if !c.Enabled() {
		return
	}
	start := time.Now()
	err := c.store.Set(ctx, reportCacheKey(schoolYear, mode), lines, c.ttl)
	c.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		c.logger.Warn("staffing report cache write failed",
			zap.String("school_year", schoolYear), zap.String("mode", string(mode)), zap.Error(err))
	}
}

// InvalidateYear drops every cached report of a school year.
func (c *ReportCache) InvalidateYear(ctx context.Context, schoolYear string) error {
	if !c.Enabled() {
		return nil
	}
	return c.store.DeleteByPattern(ctx, reportCachePattern(schoolYear))
}

func reportCacheKey(schoolYear string, mode models.ReportMode) string {
	return "staffing:" + schoolYear + ":" + string(mode)
}

func reportCachePattern(schoolYear string) string {
	return "staffing:" + schoolYear + ":*"
}
