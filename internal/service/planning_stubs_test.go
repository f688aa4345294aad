package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/deputat-planner/internal/models"
	"github.com/noah-isme/deputat-planner/internal/repository"
	"github.com/noah-isme/deputat-planner/pkg/cache"
	appErrors "github.com/noah-isme/deputat-planner/pkg/errors"
	"github.com/noah-isme/deputat-planner/pkg/jobs"
)

func newTxDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

type stubTeacherStore struct {
	teachers  []models.Teacher
	workloads []models.TeacherWorkload
	listErr   error
}

func (s *stubTeacherStore) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error) {
	return s.teachers, s.listErr
}

func (s *stubTeacherStore) UpdateWorkloads(ctx context.Context, exec sqlx.ExtContext, workloads []models.TeacherWorkload) error {
	s.workloads = workloads
	return nil
}

type stubClassReader struct {
	classes  []models.ClassUnit
	students int
}

func (s *stubClassReader) ListBySchoolYear(ctx context.Context, schoolYear string) ([]models.ClassUnit, error) {
	return s.classes, nil
}

func (s *stubClassReader) CountStudents(ctx context.Context, schoolYear string) (int, error) {
	return s.students, nil
}

type stubSubjectLister struct{ subjects []models.Subject }

func (s stubSubjectLister) List(ctx context.Context) ([]models.Subject, error) { return s.subjects, nil }

type stubGroupLister struct{ groups []models.ParallelGroup }

func (s stubGroupLister) List(ctx context.Context) ([]models.ParallelGroup, error) { return s.groups, nil }

type stubAssignmentStore struct {
	existing  []models.Assignment
	created   []models.Assignment
	deleted   []string
	insertErr error
}

func (s *stubAssignmentStore) ListBySchoolYear(ctx context.Context, schoolYear string) ([]models.Assignment, error) {
	return s.existing, nil
}

func (s *stubAssignmentStore) DeleteBySchoolYear(ctx context.Context, exec sqlx.ExtContext, schoolYear string) (int64, error) {
	s.deleted = append(s.deleted, schoolYear)
	return int64(len(s.existing)), nil
}

func (s *stubAssignmentStore) BulkCreate(ctx context.Context, exec sqlx.ExtContext, assignments []models.Assignment) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.created = append(s.created, assignments...)
	return nil
}

type stubRunStore struct {
	mu      sync.Mutex
	runs    map[string]*models.PlanningRun
	updates []repository.UpdatePlanningRunParams
}

func newStubRunStore() *stubRunStore {
	return &stubRunStore{runs: map[string]*models.PlanningRun{}}
}

func (s *stubRunStore) Create(ctx context.Context, run *models.PlanningRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run.ID == "" {
		run.ID = "run-" + string(rune('a'+len(s.runs)))
	}
	cp := *run
	s.runs[run.ID] = &cp
	return nil
}

func (s *stubRunStore) GetByID(ctx context.Context, id string) (*models.PlanningRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *run
	return &cp, nil
}

func (s *stubRunStore) Update(ctx context.Context, id string, params repository.UpdatePlanningRunParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, params)
	run, ok := s.runs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		run.Status = *params.Status
	}
	if params.AssignmentsCreated != nil {
		run.AssignmentsCreated = *params.AssignmentsCreated
	}
	if params.Unresolved != nil {
		run.Unresolved = params.Unresolved
	}
	if params.ErrorMessage != nil {
		run.ErrorMessage = params.ErrorMessage
	}
	return nil
}

func (s *stubRunStore) ListBySchoolYear(ctx context.Context, schoolYear string, limit int) ([]models.PlanningRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PlanningRun
	for _, run := range s.runs {
		if run.SchoolYear == schoolYear {
			out = append(out, *run)
		}
	}
	return out, nil
}

func (s *stubRunStore) ListQueued(ctx context.Context, limit int) ([]models.PlanningRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PlanningRun
	for _, run := range s.runs {
		if run.Status == models.RunStatusQueued {
			out = append(out, *run)
		}
	}
	return out, nil
}

type stubLocker struct {
	held bool
	keys []string
}

func (s *stubLocker) AcquireRunLock(ctx context.Context, key string, ttl time.Duration) (*cache.Lock, error) {
	s.keys = append(s.keys, key)
	if s.held {
		return nil, nil
	}
	return &cache.Lock{}, nil
}

type stubDispatcher struct {
	jobs []jobs.Job
	err  error
}

func (s *stubDispatcher) Enqueue(job jobs.Job) error {
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

type stubCacheRepo struct {
	store       map[string][]byte
	invalidated []string
}

func newStubCacheRepo() *stubCacheRepo {
	return &stubCacheRepo{store: map[string][]byte{}}
}

func (s *stubCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *stubCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = raw
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	s.invalidated = append(s.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range s.store {
		if strings.HasPrefix(key, prefix) {
			delete(s.store, key)
		}
	}
	return nil
}
