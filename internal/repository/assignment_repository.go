package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/deputat-planner/internal/models"
)

const assignmentColumns = "id, school_year, teacher_id, class_id, subject_id, semester, hours_per_week, team_teaching_id, created_at"

// AssignmentRepository persists teaching assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListBySchoolYear returns the assignments of a school year.
func (r *AssignmentRepository) ListBySchoolYear(ctx context.Context, schoolYear string) ([]models.Assignment, error) {
	query := "SELECT " + assignmentColumns + " FROM assignments WHERE school_year = $1 ORDER BY class_id ASC, subject_id ASC, semester ASC, teacher_id ASC"
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, schoolYear); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// ListByIDs returns the assignments with the given ids in id order.
func (r *AssignmentRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Assignment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT "+assignmentColumns+" FROM assignments WHERE id IN (?) ORDER BY id ASC", ids)
	if err != nil {
		return nil, fmt.Errorf("build assignment lookup: %w", err)
	}
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list assignments by id: %w", err)
	}
	return assignments, nil
}

// ListByTeamTeachingID returns the members of a team teaching group.
func (r *AssignmentRepository) ListByTeamTeachingID(ctx context.Context, groupID string) ([]models.Assignment, error) {
	query := "SELECT " + assignmentColumns + " FROM assignments WHERE team_teaching_id = $1 ORDER BY id ASC"
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, groupID); err != nil {
		return nil, fmt.Errorf("list team teaching group: %w", err)
	}
	return assignments, nil
}

// DeleteBySchoolYear removes every assignment of a school year.
func (r *AssignmentRepository) DeleteBySchoolYear(ctx context.Context, exec sqlx.ExtContext, schoolYear string) (int64, error) {
	res, err := r.exec(exec).ExecContext(ctx, `DELETE FROM assignments WHERE school_year = $1`, schoolYear)
	if err != nil {
		return 0, fmt.Errorf("delete assignments: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete assignments rows: %w", err)
	}
	return affected, nil
}

// BulkCreate inserts assignments, generating ids where missing.
func (r *AssignmentRepository) BulkCreate(ctx context.Context, exec sqlx.ExtContext, assignments []models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO assignments (id, school_year, teacher_id, class_id, subject_id, semester, hours_per_week, team_teaching_id, created_at)
VALUES (:id, :school_year, :teacher_id, :class_id, :subject_id, :semester, :hours_per_week, :team_teaching_id, :created_at)`

	for i := range assignments {
		a := &assignments[i]
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, a); err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
	}
	return nil
}

// SetTeamTeachingID updates the group id of the given rows; nil clears it.
func (r *AssignmentRepository) SetTeamTeachingID(ctx context.Context, exec sqlx.ExtContext, ids []string, groupID *string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In("UPDATE assignments SET team_teaching_id = ? WHERE id IN (?)", groupID, ids)
	if err != nil {
		return fmt.Errorf("build team teaching update: %w", err)
	}
	if _, err := r.exec(exec).ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("update team teaching id: %w", err)
	}
	return nil
}
