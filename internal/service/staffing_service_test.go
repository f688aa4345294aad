package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/deputat-planner/internal/models"
	appErrors "github.com/noah-isme/deputat-planner/pkg/errors"
)

type stubReportStore struct {
	stored   map[models.ReportMode][]models.StaffingReportLine
	replaced int
}

func (s *stubReportStore) Replace(ctx context.Context, exec sqlx.ExtContext, schoolYear string, mode models.ReportMode, lines []models.StaffingReportLine) error {
	if s.stored == nil {
		s.stored = map[models.ReportMode][]models.StaffingReportLine{}
	}
	s.stored[mode] = lines
	s.replaced++
	return nil
}

func (s *stubReportStore) List(ctx context.Context, schoolYear string, mode models.ReportMode) ([]models.StaffingReportLine, error) {
	return s.stored[mode], nil
}

type staffingFixture struct {
	svc         *StaffingService
	mock        sqlmock.Sqlmock
	reports     *stubReportStore
	cacheRepo   *stubCacheRepo
	teachers    *stubTeacherStore
	assignments *stubAssignmentStore
}

func newStaffingFixture(t *testing.T) *staffingFixture {
	t.Helper()
	db, mock := newTxDB(t)
	f := &staffingFixture{
		mock:      mock,
		reports:   &stubReportStore{},
		cacheRepo: newStubCacheRepo(),
		teachers: &stubTeacherStore{teachers: []models.Teacher{
			{ID: "t1", ShortCode: "MAY", Qualifications: []string{"M"}, AssignedHours: 16, Active: true},
			{ID: "t2", ShortCode: "SCH", Qualifications: []string{"KR"}, AssignedHours: 2, Active: true},
		}},
		assignments: &stubAssignmentStore{existing: []models.Assignment{
			{TeacherID: "t1", HoursPerWeek: 3, Semester: models.SemesterFirst},
			{TeacherID: "t1", HoursPerWeek: 3, Semester: models.SemesterSecond},
		}},
	}
	classes := &stubClassReader{
		students: 710,
		classes: []models.ClassUnit{
			{ID: "5a", Grade: 5, SubjectHours: models.SubjectHours{"M": 4, "KR": 2}},
			{ID: "5b", Grade: 5, SubjectHours: models.SubjectHours{"M": 4, "ER": 2}},
			{ID: "6a", Grade: 6, SubjectHours: models.SubjectHours{"M": 3}},
		},
	}
	subjects := stubSubjectLister{subjects: []models.Subject{
		{ID: "s-m", Code: "M", Name: "Mathematik", Category: "MINT"},
		{ID: "s-kr", Code: "KR", Category: CategoryReligion},
		{ID: "s-er", Code: "ER", Category: CategoryReligion},
	}}
	groups := stubGroupLister{groups: []models.ParallelGroup{religionGroup()}}
	cacheSvc := NewReportCache(f.cacheRepo, nil, time.Minute, zap.NewNop(), true)

	f.svc = NewStaffingService(classes, subjects, groups, f.teachers, f.assignments, f.reports, db, cacheSvc, NewMetricsService(),
		nil, nil, nil, zap.NewNop(), StaffingServiceConfig{DefaultRatio: 20.19, DefaultDeputat: 28})
	return f
}

func TestStaffingServiceGradeHours(t *testing.T) {
	f := newStaffingFixture(t)

	grades, err := f.svc.GradeHours(context.Background(), "2025-26", false)
	require.NoError(t, err)
	require.Len(t, grades, 2)
	assert.Equal(t, 5, grades[0].Grade)
	assert.InDelta(t, 8, grades[0].RegularHours["M"], 1e-9)
	assert.InDelta(t, 2, grades[0].ParallelGroupHours["rel"], 1e-9)
	assert.InDelta(t, 10, grades[0].TotalHours, 1e-9)

	semester, err := f.svc.GradeHours(context.Background(), "2025-26", true)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, semester[1].RegularHours["M"], 1e-9)
}

func TestStaffingServiceRosterReportUsesYearAssignments(t *testing.T) {
	f := newStaffingFixture(t)

	lines, err := f.svc.RosterReport(context.Background(), "2025-26", false)
	require.NoError(t, err)

	var math *models.StaffingReportLine
	for i := range lines {
		if lines[i].Component == "Jahrgang 5 - Mathematik" {
			math = &lines[i]
		}
	}
	require.NotNil(t, math)
	assert.InDelta(t, 6, math.AvailableHours, 1e-9)
}

func TestWithYearWorkloadIgnoresStoredHours(t *testing.T) {
	teachers := []models.Teacher{{ID: "t1", AssignedHours: 4}, {ID: "t2", AssignedHours: 10}}
	out := withYearWorkload(teachers, []models.Assignment{
		{TeacherID: "t1", HoursPerWeek: 4},
		{TeacherID: "t1", HoursPerWeek: 4},
		{TeacherID: "t1", HoursPerWeek: 4},
		{TeacherID: "t1", HoursPerWeek: 4},
	})

	assert.InDelta(t, 16, out[0].AssignedHours, 1e-9)
	assert.InDelta(t, 0, out[1].AssignedHours, 1e-9)
	assert.InDelta(t, 4, teachers[0].AssignedHours, 1e-9)
}

func TestStaffingServiceRosterReportIsCached(t *testing.T) {
	f := newStaffingFixture(t)

	first, err := f.svc.RosterReport(context.Background(), "2025-26", false)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	for _, line := range first {
		assert.Equal(t, "2025-26", line.SchoolYear)
		assert.Equal(t, models.ReportModeRoster, line.Mode)
	}
	require.Contains(t, f.cacheRepo.store, "staffing:2025-26:roster")

	f.teachers.listErr = errors.New("database down")
	second, err := f.svc.RosterReport(context.Background(), "2025-26", false)
	require.NoError(t, err)
	assert.Equal(t, len(first), len(second))
}

func TestStaffingServiceRosterReportPersists(t *testing.T) {
	f := newStaffingFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	lines, err := f.svc.RosterReport(context.Background(), "2025-26", true)
	require.NoError(t, err)
	assert.Equal(t, 1, f.reports.replaced)
	assert.Len(t, f.reports.stored[models.ReportModeRoster], len(lines))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestStaffingServicePolicyReportFillsStudentCount(t *testing.T) {
	f := newStaffingFixture(t)
	policy := f.svc.PolicyDefaults()
	policy.TrainingDeduction = -0.5
	policy.RoundingAdjustment = -0.21

	result, err := f.svc.PolicyReport(context.Background(), "2025-26", policy, false)
	require.NoError(t, err)
	assert.InDelta(t, 710, result.Policy.StudentCount, 1e-9)
	assert.InDelta(t, 34.45, result.Computation.SumBaseNeed, 1e-9)
	assert.Equal(t, models.ReportModePolicy, result.Lines[0].Mode)
	assert.Zero(t, f.reports.replaced)
}

func TestStaffingServicePolicyReportValidates(t *testing.T) {
	f := newStaffingFixture(t)
	policy := f.svc.PolicyDefaults()
	policy.StudentTeacherRatio = -1

	_, err := f.svc.PolicyReport(context.Background(), "2025-26", policy, false)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestStaffingServiceExport(t *testing.T) {
	f := newStaffingFixture(t)

	_, err := f.svc.Export(context.Background(), "2025-26", models.ReportModePolicy, FormatCSV)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	file, err := f.svc.Export(context.Background(), "2025-26", models.ReportModeRoster, FormatCSV)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(file.Data), "Jahrgang 5 - Mathematik"))

	_, err = f.svc.Export(context.Background(), "2025-26", models.ReportModeRoster, "docx")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = f.svc.Export(context.Background(), "2025-26", models.ReportMode("other"), FormatCSV)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestStaffingServicePolicyDefaultsFollowConfig(t *testing.T) {
	svc := NewStaffingService(nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, StaffingServiceConfig{DefaultRatio: 19.5})
	defaults := svc.PolicyDefaults()
	assert.InDelta(t, 19.5, defaults.StudentTeacherRatio, 1e-9)
	assert.InDelta(t, models.DefaultPerPositionDeputat, defaults.PerPositionDeputat, 1e-9)
}
