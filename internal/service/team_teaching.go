package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/noah-isme/deputat-planner/internal/models"
	appErrors "github.com/noah-isme/deputat-planner/pkg/errors"
)

// FormTeamTeaching validates that rows describe one co-taught slot and links
// them under a fresh group id. Rows are modified in place.
func FormTeamTeaching(rows []models.Assignment) (string, error) {
	if len(rows) < 2 {
		return "", appErrors.Clone(appErrors.ErrTeamTeachingInvalid, "team teaching requires at least two assignments")
	}
	first := rows[0]
	teachers := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if row.ClassID != first.ClassID || row.SubjectID != first.SubjectID ||
			row.Semester != first.Semester || row.HoursPerWeek != first.HoursPerWeek {
			return "", appErrors.Clone(appErrors.ErrTeamTeachingInvalid,
				fmt.Sprintf("assignment %s does not match class, subject, semester and hours of %s", row.ID, first.ID))
		}
		if _, dup := teachers[row.TeacherID]; dup {
			return "", appErrors.Clone(appErrors.ErrTeamTeachingInvalid,
				fmt.Sprintf("teacher %s appears twice in the team", row.TeacherID))
		}
		teachers[row.TeacherID] = struct{}{}
	}

	groupID := uuid.NewString()
	for i := range rows {
		id := groupID
		rows[i].TeamTeachingID = &id
	}
	return groupID, nil
}

// LeaveTeamTeaching removes one assignment from its group. It returns every
// row whose group id changed: the leaving row, plus all remaining rows when
// fewer than two would stay behind.
func LeaveTeamTeaching(group []models.Assignment, assignmentID string) ([]models.Assignment, error) {
	idx := -1
	for i, row := range group {
		if row.ID == assignmentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment is not part of the team teaching group")
	}
	if group[idx].TeamTeachingID == nil {
		return nil, appErrors.Clone(appErrors.ErrTeamTeachingInvalid, "assignment is not team taught")
	}

	leaving := group[idx]
	leaving.TeamTeachingID = nil
	changed := []models.Assignment{leaving}

	remaining := len(group) - 1
	if remaining >= 2 {
		return changed, nil
	}
	for i, row := range group {
		if i == idx {
			continue
		}
		row.TeamTeachingID = nil
		changed = append(changed, row)
	}
	return changed, nil
}
