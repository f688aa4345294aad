package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/deputat-planner/internal/models"
)

const teacherColumns = "id, short_code, full_name, qualifications, max_hours, assigned_hours, active, created_at, updated_at"

// TeacherRepository manages persistence for teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

func (r *TeacherRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns teachers matching filters ordered by short code. Roster order
// drives first-fit selection, so the order must stay stable.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error) {
	query := "SELECT " + teacherColumns + " FROM teachers WHERE 1=1"
	var args []interface{}

	if filter.Active != nil {
		args = append(args, *filter.Active)
		query += fmt.Sprintf(" AND active = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		query += fmt.Sprintf(" AND (LOWER(full_name) LIKE $%d OR LOWER(short_code) LIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY short_code ASC"

	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// FindByID fetches a teacher by id.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	query := "SELECT " + teacherColumns + " FROM teachers WHERE id = $1"
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher: %w", err)
	}
	return &teacher, nil
}

// UpdateWorkloads stores the assigned hours produced by an optimizer run.
func (r *TeacherRepository) UpdateWorkloads(ctx context.Context, exec sqlx.ExtContext, workloads []models.TeacherWorkload) error {
	if len(workloads) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()
	const query = `UPDATE teachers SET assigned_hours = $1, updated_at = $2 WHERE id = $3`
	for _, w := range workloads {
		if _, err := target.ExecContext(ctx, query, w.AssignedHours, now, w.TeacherID); err != nil {
			return fmt.Errorf("update workload of teacher %s: %w", w.TeacherID, err)
		}
	}
	return nil
}
