package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/deputat-planner/internal/models"
)

const planningRunColumns = "id, school_year, trigger, status, assignments_created, fallback_count, unresolved, requested_by, created_at, finished_at, error_message"

// PlanningRunRepository persists optimizer run metadata.
type PlanningRunRepository struct {
	db *sqlx.DB
}

// NewPlanningRunRepository constructs the repository.
func NewPlanningRunRepository(db *sqlx.DB) *PlanningRunRepository {
	return &PlanningRunRepository{db: db}
}

// Create inserts a new run row with generated defaults.
func (r *PlanningRunRepository) Create(ctx context.Context, run *models.PlanningRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Status == "" {
		run.Status = models.RunStatusQueued
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO planning_runs (id, school_year, trigger, status, assignments_created, fallback_count, unresolved, requested_by, created_at, finished_at, error_message)
VALUES (:id, :school_year, :trigger, :status, :assignments_created, :fallback_count, :unresolved, :requested_by, :created_at, :finished_at, :error_message)`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("create planning run: %w", err)
	}
	return nil
}

// GetByID returns a run by its identifier.
func (r *PlanningRunRepository) GetByID(ctx context.Context, id string) (*models.PlanningRun, error) {
	query := "SELECT " + planningRunColumns + " FROM planning_runs WHERE id = $1"
	var run models.PlanningRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, fmt.Errorf("get planning run: %w", err)
	}
	return &run, nil
}

// UpdatePlanningRunParams defines the mutable fields.
type UpdatePlanningRunParams struct {
	Status             *models.RunStatus
	AssignmentsCreated *int
	FallbackCount      *int
	Unresolved         models.UnresolvedDemands
	ErrorMessage       *string
	FinishedAt         *time.Time
}

// Update persists the provided changes for a run row.
func (r *PlanningRunRepository) Update(ctx context.Context, id string, params UpdatePlanningRunParams) error {
	set := make([]string, 0, 6)
	args := make([]interface{}, 0, 7)

	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if params.Status != nil {
		add("status", *params.Status)
	}
	if params.AssignmentsCreated != nil {
		add("assignments_created", *params.AssignmentsCreated)
	}
	if params.FallbackCount != nil {
		add("fallback_count", *params.FallbackCount)
	}
	if params.Unresolved != nil {
		add("unresolved", params.Unresolved)
	}
	if params.ErrorMessage != nil {
		add("error_message", *params.ErrorMessage)
	}
	if params.FinishedAt != nil {
		add("finished_at", *params.FinishedAt)
	}
	if len(set) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE planning_runs SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update planning run: %w", err)
	}
	return nil
}

// ListBySchoolYear returns the most recent runs of a school year.
func (r *PlanningRunRepository) ListBySchoolYear(ctx context.Context, schoolYear string, limit int) ([]models.PlanningRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := "SELECT " + planningRunColumns + " FROM planning_runs WHERE school_year = $1 ORDER BY created_at DESC LIMIT $2"
	var runs []models.PlanningRun
	if err := r.db.SelectContext(ctx, &runs, query, schoolYear, limit); err != nil {
		return nil, fmt.Errorf("list planning runs: %w", err)
	}
	return runs, nil
}

// ListQueued fetches queued runs (used for cold start recovery).
func (r *PlanningRunRepository) ListQueued(ctx context.Context, limit int) ([]models.PlanningRun, error) {
	if limit <= 0 {
		limit = 20
	}
	query := "SELECT " + planningRunColumns + " FROM planning_runs WHERE status = 'QUEUED' ORDER BY created_at ASC LIMIT $1"
	var runs []models.PlanningRun
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("list queued planning runs: %w", err)
	}
	return runs, nil
}
