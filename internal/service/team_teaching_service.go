package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/deputat-planner/internal/models"
	"github.com/noah-isme/deputat-planner/pkg/database"
	appErrors "github.com/noah-isme/deputat-planner/pkg/errors"
)

type teamTeachingStore interface {
	ListByIDs(ctx context.Context, ids []string) ([]models.Assignment, error)
	ListByTeamTeachingID(ctx context.Context, groupID string) ([]models.Assignment, error)
	SetTeamTeachingID(ctx context.Context, exec sqlx.ExtContext, ids []string, groupID *string) error
}

// TeamTeachingService links co-taught assignments and dissolves groups.
type TeamTeachingService struct {
	assignments teamTeachingStore
	db          database.TxBeginner
	logger      *zap.Logger
}

// NewTeamTeachingService constructs the service.
func NewTeamTeachingService(assignments teamTeachingStore, db database.TxBeginner, logger *zap.Logger) *TeamTeachingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeamTeachingService{assignments: assignments, db: db, logger: logger}
}

// Form links the given assignments of a school year into one team.
func (s *TeamTeachingService) Form(ctx context.Context, schoolYear string, ids []string) ([]models.Assignment, error) {
	ids = uniqueStrings(ids)
	rows, err := s.assignments.ListByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	if len(rows) != len(ids) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "one or more assignments do not exist")
	}
	for _, row := range rows {
		if row.SchoolYear != schoolYear {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("assignment %s does not belong to school year %s", row.ID, schoolYear))
		}
		if row.TeamTeachingID != nil {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("assignment %s is already team taught", row.ID))
		}
	}

	groupID, err := FormTeamTeaching(rows)
	if err != nil {
		return nil, err
	}
	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return s.assignments.SetTeamTeachingID(ctx, tx, ids, &groupID)
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store team teaching group")
	}
	s.logger.Info("team teaching formed", zap.String("group_id", groupID), zap.Strings("assignments", ids))
	return rows, nil
}

// Leave removes one assignment from its team. The group is dissolved when
// fewer than two members would remain.
func (s *TeamTeachingService) Leave(ctx context.Context, schoolYear, assignmentID string) ([]models.Assignment, error) {
	found, err := s.assignments.ListByIDs(ctx, []string{assignmentID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if len(found) == 0 || found[0].SchoolYear != schoolYear {
		return nil, appErrors.ErrNotFound
	}
	if found[0].TeamTeachingID == nil {
		return nil, appErrors.Clone(appErrors.ErrTeamTeachingInvalid, "assignment is not team taught")
	}

	groupID := *found[0].TeamTeachingID
	group, err := s.assignments.ListByTeamTeachingID(ctx, groupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load team teaching group")
	}
	changed, err := LeaveTeamTeaching(group, assignmentID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(changed))
	for i, row := range changed {
		ids[i] = row.ID
	}
	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return s.assignments.SetTeamTeachingID(ctx, tx, ids, nil)
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update team teaching group")
	}
	s.logger.Info("team teaching member left",
		zap.String("group_id", groupID),
		zap.String("assignment_id", assignmentID),
		zap.Bool("dissolved", len(changed) > 1),
	)
	return changed, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
