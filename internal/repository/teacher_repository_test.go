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

var teacherRowColumns = []string{"id", "short_code", "full_name", "qualifications", "max_hours", "assigned_hours", "active", "created_at", "updated_at"}

func TestTeacherRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows(teacherRowColumns).
		AddRow("t1", "MAY", "Anna Mayer", "{M,PH}", 25.5, 0, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + teacherColumns + " FROM teachers WHERE 1=1 AND active = $1 ORDER BY short_code ASC")).
		WithArgs(true).
		WillReturnRows(rows)

	active := true
	list, err := repo.List(context.Background(), models.TeacherFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "MAY", list[0].ShortCode)
	assert.Equal(t, []string{"M", "PH"}, []string(list[0].Qualifications))
	assert.InDelta(t, 25.5, list[0].MaxHours, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListSearch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("(LOWER(full_name) LIKE $1 OR LOWER(short_code) LIKE $1)")).
		WithArgs("%may%").
		WillReturnRows(sqlmock.NewRows(teacherRowColumns))

	list, err := repo.List(context.Background(), models.TeacherFilter{Search: "May"})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryUpdateWorkloads(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE teachers SET assigned_hours = $1")).
		WithArgs(16.0, sqlmock.AnyArg(), "t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE teachers SET assigned_hours = $1")).
		WithArgs(0.0, sqlmock.AnyArg(), "t2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	err = repo.UpdateWorkloads(context.Background(), tx, []models.TeacherWorkload{
		{TeacherID: "t1", AssignedHours: 16},
		{TeacherID: "t2", AssignedHours: 0},
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
