package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/deputat-planner/internal/models"
)

// StaffingReportRepository persists staffing report lines per school year and mode.
type StaffingReportRepository struct {
	db *sqlx.DB
}

// NewStaffingReportRepository constructs the repository.
func NewStaffingReportRepository(db *sqlx.DB) *StaffingReportRepository {
	return &StaffingReportRepository{db: db}
}

func (r *StaffingReportRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Replace swaps the stored lines of (schoolYear, mode) for the given lines.
func (r *StaffingReportRepository) Replace(ctx context.Context, exec sqlx.ExtContext, schoolYear string, mode models.ReportMode, lines []models.StaffingReportLine) error {
	target := r.exec(exec)
	if _, err := target.ExecContext(ctx, `DELETE FROM staffing_report_lines WHERE school_year = $1 AND mode = $2`, schoolYear, mode); err != nil {
		return fmt.Errorf("clear staffing report: %w", err)
	}

	const query = `
INSERT INTO staffing_report_lines (id, school_year, mode, position, grade, subject_id, category, component, line_type, required_hours, available_hours, deficit, formula, color, created_at)
VALUES (:id, :school_year, :mode, :position, :grade, :subject_id, :category, :component, :line_type, :required_hours, :available_hours, :deficit, :formula, :color, :created_at)`

	now := time.Now().UTC()
	for i := range lines {
		line := &lines[i]
		if line.ID == "" {
			line.ID = uuid.NewString()
		}
		line.SchoolYear = schoolYear
		line.Mode = mode
		if line.CreatedAt.IsZero() {
			line.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, line); err != nil {
			return fmt.Errorf("insert staffing report line: %w", err)
		}
	}
	return nil
}

// List returns the stored lines of (schoolYear, mode) in display order.
func (r *StaffingReportRepository) List(ctx context.Context, schoolYear string, mode models.ReportMode) ([]models.StaffingReportLine, error) {
	const query = `SELECT id, school_year, mode, position, grade, subject_id, category, component, line_type, required_hours, available_hours, deficit, formula, color, created_at
FROM staffing_report_lines WHERE school_year = $1 AND mode = $2 ORDER BY position ASC`
	var lines []models.StaffingReportLine
	if err := r.db.SelectContext(ctx, &lines, query, schoolYear, mode); err != nil {
		return nil, fmt.Errorf("list staffing report: %w", err)
	}
	return lines, nil
}
