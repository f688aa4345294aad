package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/deputat-planner/internal/models"
)

// ClassRepository reads class units of a school year.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// ListBySchoolYear returns the classes of a school year ordered by grade and name.
func (r *ClassRepository) ListBySchoolYear(ctx context.Context, schoolYear string) ([]models.ClassUnit, error) {
	const query = `SELECT id, school_year, name, grade, student_count, subject_hours, created_at, updated_at
FROM class_units WHERE school_year = $1 ORDER BY grade ASC, name ASC`
	var classes []models.ClassUnit
	if err := r.db.SelectContext(ctx, &classes, query, schoolYear); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// CountStudents sums the student counts of a school year.
func (r *ClassRepository) CountStudents(ctx context.Context, schoolYear string) (int, error) {
	const query = `SELECT COALESCE(SUM(student_count), 0) FROM class_units WHERE school_year = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, schoolYear); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}
