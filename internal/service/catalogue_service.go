package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/noah-isme/deputat-planner/internal/models"
	appErrors "github.com/noah-isme/deputat-planner/pkg/errors"
)

type teacherReader interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// TeacherLoad is a teacher with its current utilisation.
type TeacherLoad struct {
	models.Teacher
	RemainingHours float64 `json:"remaining_hours"`
	Utilisation    float64 `json:"utilisation"`
}

func newTeacherLoad(t models.Teacher) TeacherLoad {
	load := TeacherLoad{Teacher: t, RemainingHours: round2(t.RemainingHours())}
	if t.MaxHours > 0 {
		load.Utilisation = round2(t.AssignedHours / t.MaxHours)
	}
	return load
}

// CatalogueService serves the read-only master data the planner works on.
type CatalogueService struct {
	teachers teacherReader
	classes  classLister
	subjects subjectLister
	groups   parallelGroupLister
}

// NewCatalogueService constructs the service.
func NewCatalogueService(teachers teacherReader, classes classLister, subjects subjectLister, groups parallelGroupLister) *CatalogueService {
	return &CatalogueService{teachers: teachers, classes: classes, subjects: subjects, groups: groups}
}

// Teachers lists teachers matching filter with their workload.
func (s *CatalogueService) Teachers(ctx context.Context, filter models.TeacherFilter) ([]TeacherLoad, error) {
	teachers, err := s.teachers.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	out := make([]TeacherLoad, len(teachers))
	for i, t := range teachers {
		out[i] = newTeacherLoad(t)
	}
	return out, nil
}

// Teacher returns one teacher with its workload.
func (s *CatalogueService) Teacher(ctx context.Context, id string) (*TeacherLoad, error) {
	teacher, err := s.teachers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	load := newTeacherLoad(*teacher)
	return &load, nil
}

// Classes lists the classes of a school year.
func (s *CatalogueService) Classes(ctx context.Context, schoolYear string) ([]models.ClassUnit, error) {
	if !models.ValidSchoolYear(schoolYear) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "school year must look like 2025-26")
	}
	classes, err := s.classes.ListBySchoolYear(ctx, schoolYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// Subjects lists the subject catalogue.
func (s *CatalogueService) Subjects(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}

// ParallelGroups lists the parallel groups.
func (s *CatalogueService) ParallelGroups(ctx context.Context) ([]models.ParallelGroup, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list parallel groups")
	}
	return groups, nil
}
