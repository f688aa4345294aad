package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassRepositoryListBySchoolYear(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	rows := sqlmock.NewRows([]string{"id", "school_year", "name", "grade", "student_count", "subject_hours", "created_at", "updated_at"}).
		AddRow("c1", "2025/26", "5a", 5, 28, []byte(`{"D":4,"KR":2}`), time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM class_units WHERE school_year = $1 ORDER BY grade ASC, name ASC")).
		WithArgs("2025/26").
		WillReturnRows(rows)

	classes, err := repo.ListBySchoolYear(context.Background(), "2025/26")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, 5, classes[0].Grade)
	assert.InDelta(t, 4, classes[0].SubjectHours["D"], 1e-9)
	assert.Equal(t, []string{"D", "KR"}, classes[0].SubjectHours.Codes())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryCountStudents(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(student_count), 0) FROM class_units")).
		WithArgs("2025/26").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(710))

	total, err := repo.CountStudents(context.Background(), "2025/26")
	require.NoError(t, err)
	assert.Equal(t, 710, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
