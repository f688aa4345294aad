package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/deputat-planner/internal/models"
)

var planningRunRowColumns = []string{"id", "school_year", "trigger", "status", "assignments_created", "fallback_count", "unresolved", "requested_by", "created_at", "finished_at", "error_message"}

func TestPlanningRunRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanningRunRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO planning_runs")).
		WithArgs(sqlmock.AnyArg(), "2025/26", "async", "QUEUED", 0, 0, sqlmock.AnyArg(), "user-1", sqlmock.AnyArg(), nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	run := &models.PlanningRun{SchoolYear: "2025/26", Trigger: models.RunTriggerAsync, RequestedBy: "user-1"}
	require.NoError(t, repo.Create(context.Background(), run))
	assert.NotEmpty(t, run.ID)

	rows := sqlmock.NewRows(planningRunRowColumns).
		AddRow(run.ID, "2025/26", "async", "FAILED", 0, 0, `[{"class_id":"5a","base_subject":"KR","reason":"NO_ELIGIBLE_TEACHER"}]`, "user-1", time.Now(), time.Now(), "boom")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + planningRunColumns + " FROM planning_runs WHERE id = $1")).
		WithArgs(run.ID).
		WillReturnRows(rows)

	fetched, err := repo.GetByID(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusFailed, fetched.Status)
	require.Len(t, fetched.Unresolved, 1)
	assert.Equal(t, "KR", fetched.Unresolved[0].BaseSubject)
	require.NotNil(t, fetched.ErrorMessage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanningRunRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanningRunRepository(db)

	now := time.Now()
	status := models.RunStatusSucceeded
	created := 42
	mock.ExpectExec(regexp.QuoteMeta("UPDATE planning_runs SET status = $1, assignments_created = $2, finished_at = $3 WHERE id = $4")).
		WithArgs(status, created, now, "run-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "run-1", UpdatePlanningRunParams{Status: &status, AssignmentsCreated: &created, FinishedAt: &now})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanningRunRepositoryUpdateNoop(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanningRunRepository(db)

	require.NoError(t, repo.Update(context.Background(), "run-1", UpdatePlanningRunParams{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanningRunRepositoryListQueued(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanningRunRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM planning_runs WHERE status = 'QUEUED' ORDER BY created_at ASC LIMIT $1")).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows(planningRunRowColumns).
			AddRow("run-1", "2025/26", "async", "QUEUED", 0, 0, nil, "user-1", time.Now(), nil, nil))

	runs, err := repo.ListQueued(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Empty(t, runs[0].Unresolved)
	assert.NoError(t, mock.ExpectationsWereMet())
}
