package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/deputat-planner/internal/models"
)

// ParallelGroupRepository reads parallel group definitions.
type ParallelGroupRepository struct {
	db *sqlx.DB
}

// NewParallelGroupRepository constructs a ParallelGroupRepository.
func NewParallelGroupRepository(db *sqlx.DB) *ParallelGroupRepository {
	return &ParallelGroupRepository{db: db}
}

// List returns all groups ordered by id.
func (r *ParallelGroupRepository) List(ctx context.Context) ([]models.ParallelGroup, error) {
	const query = `SELECT id, name, subject_codes, hours_per_grade, created_at, updated_at FROM parallel_groups ORDER BY id ASC`
	var groups []models.ParallelGroup
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("list parallel groups: %w", err)
	}
	return groups, nil
}
