package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/deputat-planner/internal/models"
	"github.com/noah-isme/deputat-planner/internal/repository"
	"github.com/noah-isme/deputat-planner/pkg/cache"
	"github.com/noah-isme/deputat-planner/pkg/database"
	appErrors "github.com/noah-isme/deputat-planner/pkg/errors"
	"github.com/noah-isme/deputat-planner/pkg/jobs"
	"github.com/noah-isme/deputat-planner/pkg/logger"
)

// JobTypeOptimize tags optimizer jobs on the planning queue.
const JobTypeOptimize = "optimize"

type teacherStore interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error)
	UpdateWorkloads(ctx context.Context, exec sqlx.ExtContext, workloads []models.TeacherWorkload) error
}

type classLister interface {
	ListBySchoolYear(ctx context.Context, schoolYear string) ([]models.ClassUnit, error)
}

type subjectLister interface {
	List(ctx context.Context) ([]models.Subject, error)
}

type parallelGroupLister interface {
	List(ctx context.Context) ([]models.ParallelGroup, error)
}

type assignmentStore interface {
	ListBySchoolYear(ctx context.Context, schoolYear string) ([]models.Assignment, error)
	DeleteBySchoolYear(ctx context.Context, exec sqlx.ExtContext, schoolYear string) (int64, error)
	BulkCreate(ctx context.Context, exec sqlx.ExtContext, assignments []models.Assignment) error
}

type planningRunStore interface {
	Create(ctx context.Context, run *models.PlanningRun) error
	GetByID(ctx context.Context, id string) (*models.PlanningRun, error)
	Update(ctx context.Context, id string, params repository.UpdatePlanningRunParams) error
	ListBySchoolYear(ctx context.Context, schoolYear string, limit int) ([]models.PlanningRun, error)
	ListQueued(ctx context.Context, limit int) ([]models.PlanningRun, error)
}

type runLocker interface {
	AcquireRunLock(ctx context.Context, key string, ttl time.Duration) (*cache.Lock, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// PlanningServiceConfig tunes run locking.
type PlanningServiceConfig struct {
	LockTTL time.Duration
}

// OptimizeSummary is returned to callers of a completed run.
type OptimizeSummary struct {
	RunID               string                   `json:"run_id"`
	SchoolYear          string                   `json:"school_year"`
	AssignmentsCreated  int                      `json:"assignments_created"`
	AssignmentsReplaced int64                    `json:"assignments_replaced"`
	Committed           int                      `json:"committed"`
	FallbackCount       int                      `json:"fallback_count"`
	Unresolved          models.UnresolvedDemands `json:"unresolved"`
	Workload            []models.TeacherWorkload `json:"workload"`
	DurationMs          int64                    `json:"duration_ms"`
}

// PlanningService runs the assignment optimizer against the database.
type PlanningService struct {
	teachers    teacherStore
	classes     classLister
	subjects    subjectLister
	assignments assignmentStore
	runs        planningRunStore
	db          database.TxBeginner
	locker      runLocker
	cache       *ReportCache
	metrics     *MetricsService
	queue       jobDispatcher
	optimizer   *AssignmentOptimizer
	logger      *zap.Logger
	cfg         PlanningServiceConfig

	inflight sync.Map
}

// NewPlanningService constructs the service. locker, cache, metrics and queue may be nil.
func NewPlanningService(
	teachers teacherStore,
	classes classLister,
	subjects subjectLister,
	assignments assignmentStore,
	runs planningRunStore,
	db database.TxBeginner,
	locker runLocker,
	reportCache *ReportCache,
	metrics *MetricsService,
	optimizer *AssignmentOptimizer,
	logger *zap.Logger,
	cfg PlanningServiceConfig,
) *PlanningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if optimizer == nil {
		optimizer = NewAssignmentOptimizer(nil, nil, logger)
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 5 * time.Minute
	}
	return &PlanningService{
		teachers:    teachers,
		classes:     classes,
		subjects:    subjects,
		assignments: assignments,
		runs:        runs,
		db:          db,
		locker:      locker,
		cache:       reportCache,
		metrics:     metrics,
		optimizer:   optimizer,
		logger:      logger,
		cfg:         cfg,
	}
}

// SetQueue attaches the job queue used by OptimizeAsync. The queue's handler
// is HandleJob, so it is created after the service.
func (s *PlanningService) SetQueue(queue jobDispatcher) {
	s.queue = queue
}

// Optimize runs the optimizer synchronously and replaces the assignments of the year.
func (s *PlanningService) Optimize(ctx context.Context, schoolYear, actorID string) (*OptimizeSummary, error) {
	if !models.ValidSchoolYear(schoolYear) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "school year must look like 2025-26")
	}
	run := &models.PlanningRun{
		SchoolYear:  schoolYear,
		Trigger:     models.RunTriggerSync,
		Status:      models.RunStatusRunning,
		RequestedBy: actorID,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record planning run")
	}
	return s.execute(ctx, run)
}

// OptimizeAsync records a queued run and hands it to the worker queue.
func (s *PlanningService) OptimizeAsync(ctx context.Context, schoolYear, actorID string) (*models.PlanningRun, error) {
	if !models.ValidSchoolYear(schoolYear) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "school year must look like 2025-26")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrFeatureDisabled, "asynchronous planning is not configured")
	}
	run := &models.PlanningRun{
		SchoolYear:  schoolYear,
		Trigger:     models.RunTriggerAsync,
		Status:      models.RunStatusQueued,
		RequestedBy: actorID,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record planning run")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: run.ID, Type: JobTypeOptimize, Payload: schoolYear}); err != nil {
		s.finish(ctx, run, models.RunStatusFailed, nil, "failed to enqueue run")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue planning run")
	}
	return run, nil
}

// HandleJob is the queue handler for asynchronous runs. A run blocked by
// another in-flight run is returned as an error so the queue retries it.
func (s *PlanningService) HandleJob(ctx context.Context, job jobs.Job) error {
	run, err := s.runs.GetByID(ctx, job.ID)
	if err != nil {
		return err
	}
	if run.Status != models.RunStatusQueued {
		return nil
	}
	_, err = s.execute(ctx, run)
	if errors.Is(err, appErrors.ErrRunInProgress) {
		return err
	}
	return nil
}

// AbandonJob marks a run that the queue stopped retrying as failed.
func (s *PlanningService) AbandonJob(ctx context.Context, job jobs.Job, cause error) {
	run, err := s.runs.GetByID(ctx, job.ID)
	if err != nil {
		s.logger.Warn("failed to load abandoned planning run", zap.String("run_id", job.ID), zap.Error(err))
		return
	}
	if run.Status != models.RunStatusQueued {
		return
	}
	s.finish(ctx, run, models.RunStatusFailed, nil, fmt.Sprintf("gave up after %d attempts: %v", job.Attempt, cause))
	s.metrics.ObserveOptimizerRun(models.RunStatusFailed, 0, 0, 0, 0)
}

// RecoverPendingRuns replays queued runs (e.g. after process restart).
func (s *PlanningService) RecoverPendingRuns(ctx context.Context) {
	if s.queue == nil {
		return
	}
	pending, err := s.runs.ListQueued(ctx, 50)
	if err != nil {
		s.logger.Warn("failed to recover queued planning runs", zap.Error(err))
		return
	}
	for _, run := range pending {
		if err := s.queue.Enqueue(jobs.Job{ID: run.ID, Type: JobTypeOptimize, Payload: run.SchoolYear}); err != nil {
			s.logger.Warn("failed to requeue planning run", zap.String("run_id", run.ID), zap.Error(err))
		}
	}
}

// GetRun returns one run record.
func (s *PlanningService) GetRun(ctx context.Context, id string) (*models.PlanningRun, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load planning run")
	}
	return run, nil
}

// ListRuns returns recent runs of a school year.
func (s *PlanningService) ListRuns(ctx context.Context, schoolYear string, limit int) ([]models.PlanningRun, error) {
	runs, err := s.runs.ListBySchoolYear(ctx, schoolYear, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list planning runs")
	}
	return runs, nil
}

// ListAssignments returns the current assignments of a school year.
func (s *PlanningService) ListAssignments(ctx context.Context, schoolYear string) ([]models.Assignment, error) {
	items, err := s.assignments.ListBySchoolYear(ctx, schoolYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return items, nil
}

func (s *PlanningService) execute(ctx context.Context, run *models.PlanningRun) (*OptimizeSummary, error) {
	log := logger.ForRun(s.logger, run.SchoolYear, run.ID)
	start := time.Now()

	release, err := s.acquire(ctx, run.SchoolYear)
	if err != nil {
		if run.Trigger == models.RunTriggerAsync && errors.Is(err, appErrors.ErrRunInProgress) {
			log.Info("school year busy, run stays queued")
			return nil, err
		}
		s.finish(ctx, run, models.RunStatusFailed, nil, err.Error())
		s.metrics.ObserveOptimizerRun(models.RunStatusFailed, time.Since(start), 0, 0, 0)
		return nil, err
	}
	defer release()

	if run.Status != models.RunStatusRunning {
		running := models.RunStatusRunning
		if err := s.runs.Update(ctx, run.ID, repository.UpdatePlanningRunParams{Status: &running}); err != nil {
			log.Warn("failed to mark run as running", zap.Error(err))
		}
		run.Status = running
	}

	summary, err := s.optimize(ctx, run, log)
	duration := time.Since(start)
	if err != nil {
		log.Error("planning run failed", zap.Error(err))
		s.finish(ctx, run, models.RunStatusFailed, nil, err.Error())
		s.metrics.ObserveOptimizerRun(models.RunStatusFailed, duration, 0, 0, 0)
		return nil, err
	}
	summary.DurationMs = duration.Milliseconds()

	s.finish(ctx, run, models.RunStatusSucceeded, summary, "")
	s.metrics.ObserveOptimizerRun(models.RunStatusSucceeded, duration, summary.AssignmentsCreated, len(summary.Unresolved), summary.FallbackCount)
	log.Info("planning run finished",
		zap.Int("assignments", summary.AssignmentsCreated),
		zap.Int64("replaced", summary.AssignmentsReplaced),
		zap.Int("unresolved", len(summary.Unresolved)),
		zap.Duration("duration", duration),
	)
	return summary, nil
}

// acquire serialises runs per school year, in process and, with Redis, across replicas.
func (s *PlanningService) acquire(ctx context.Context, schoolYear string) (func(), error) {
	if _, busy := s.inflight.LoadOrStore(schoolYear, struct{}{}); busy {
		return nil, appErrors.ErrRunInProgress
	}
	if s.locker == nil {
		return func() { s.inflight.Delete(schoolYear) }, nil
	}
	lock, err := s.locker.AcquireRunLock(ctx, runLockKey(schoolYear), s.cfg.LockTTL)
	if err != nil {
		s.inflight.Delete(schoolYear)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire run lock")
	}
	if lock == nil {
		s.inflight.Delete(schoolYear)
		return nil, appErrors.ErrRunInProgress
	}
	return func() {
		if err := lock.Release(context.Background()); err != nil {
			s.logger.Warn("failed to release run lock", zap.String("school_year", schoolYear), zap.Error(err))
		}
		s.inflight.Delete(schoolYear)
	}, nil
}

func (s *PlanningService) optimize(ctx context.Context, run *models.PlanningRun, log *zap.Logger) (*OptimizeSummary, error) {
	teachers, err := s.teachers.List(ctx, models.TeacherFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	classes, err := s.classes.ListBySchoolYear(ctx, run.SchoolYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classes")
	}
	if len(classes) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no classes found for school year %s", run.SchoolYear))
	}
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}

	result := s.optimizer.Optimize(OptimizerInput{
		SchoolYear: run.SchoolYear,
		Teachers:   teachers,
		Classes:    classes,
		Subjects:   subjects,
	})
	workloads := workloadList(teachers, result.Workload)

	var replaced int64
	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		n, err := s.assignments.DeleteBySchoolYear(ctx, tx, run.SchoolYear)
		if err != nil {
			return err
		}
		replaced = n
		if err := s.assignments.BulkCreate(ctx, tx, result.Assignments); err != nil {
			return err
		}
		return s.teachers.UpdateWorkloads(ctx, tx, workloads)
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist assignments")
	}

	if err := s.cache.InvalidateYear(ctx, run.SchoolYear); err != nil {
		log.Warn("failed to invalidate staffing cache", zap.Error(err))
	}

	return &OptimizeSummary{
		RunID:               run.ID,
		SchoolYear:          run.SchoolYear,
		AssignmentsCreated:  len(result.Assignments),
		AssignmentsReplaced: replaced,
		Committed:           len(result.Committed),
		FallbackCount:       result.FallbackCount(),
		Unresolved:          result.Unresolved,
		Workload:            workloads,
	}, nil
}

func (s *PlanningService) finish(ctx context.Context, run *models.PlanningRun, status models.RunStatus, summary *OptimizeSummary, message string) {
	now := time.Now().UTC()
	params := repository.UpdatePlanningRunParams{Status: &status, FinishedAt: &now}
	if summary != nil {
		params.AssignmentsCreated = &summary.AssignmentsCreated
		params.FallbackCount = &summary.FallbackCount
		params.Unresolved = summary.Unresolved
		if params.Unresolved == nil {
			params.Unresolved = models.UnresolvedDemands{}
		}
	}
	if message != "" {
		params.ErrorMessage = &message
	}
	if err := s.runs.Update(ctx, run.ID, params); err != nil {
		s.logger.Warn("failed to update planning run", zap.String("run_id", run.ID), zap.Error(err))
	}
	run.Status = status
	run.FinishedAt = &now
}

// workloadList covers every teacher so hours from an earlier run never survive
// for teachers the optimizer skipped.
func workloadList(teachers []models.Teacher, hours map[string]float64) []models.TeacherWorkload {
	ids := make([]string, 0, len(teachers))
	for _, t := range teachers {
		ids = append(ids, t.ID)
	}
	sort.Strings(ids)
	out := make([]models.TeacherWorkload, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.TeacherWorkload{TeacherID: id, AssignedHours: hours[id]})
	}
	return out
}

func runLockKey(schoolYear string) string {
	return "planning:lock:" + schoolYear
}
