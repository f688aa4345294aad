package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/deputat-planner/internal/models"
	"github.com/noah-isme/deputat-planner/internal/service"
	appErrors "github.com/noah-isme/deputat-planner/pkg/errors"
)

type catalogueServiceMock struct {
	filter models.TeacherFilter
}

func (m *catalogueServiceMock) Teachers(ctx context.Context, filter models.TeacherFilter) ([]service.TeacherLoad, error) {
	m.filter = filter
	return []service.TeacherLoad{{Teacher: models.Teacher{ID: "t1"}}}, nil
}

func (m *catalogueServiceMock) Teacher(ctx context.Context, id string) (*service.TeacherLoad, error) {
	return nil, appErrors.ErrNotFound
}

func (m *catalogueServiceMock) Classes(ctx context.Context, schoolYear string) ([]models.ClassUnit, error) {
	return nil, appErrors.Clone(appErrors.ErrValidation, "bad year")
}

func (m *catalogueServiceMock) Subjects(ctx context.Context) ([]models.Subject, error) {
	return []models.Subject{{Code: "M"}}, nil
}

func (m *catalogueServiceMock) ParallelGroups(ctx context.Context) ([]models.ParallelGroup, error) {
	return []models.ParallelGroup{}, nil
}

func TestCatalogueHandlerTeachersFilter(t *testing.T) {
	svc := &catalogueServiceMock{}
	h := NewCatalogueHandler(svc)
	c, w := newTestContext(http.MethodGet, "/teachers?search=%20may%20&active=false", "", nil)

	h.Teachers(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "may", svc.filter.Search)
	require.NotNil(t, svc.filter.Active)
	assert.False(t, *svc.filter.Active)
}

func TestCatalogueHandlerErrors(t *testing.T) {
	h := NewCatalogueHandler(&catalogueServiceMock{})

	c, w := newTestContext(http.MethodGet, "/teachers/x", "", gin.Params{{Key: "id", Value: "x"}})
	h.Teacher(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newTestContext(http.MethodGet, "/classes/x", "", gin.Params{{Key: "schoolYear", Value: "x"}})
	h.Classes(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext(http.MethodGet, "/subjects", "", nil)
	h.Subjects(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
