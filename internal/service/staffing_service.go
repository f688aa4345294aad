package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/deputat-planner/internal/models"
	"github.com/noah-isme/deputat-planner/pkg/database"
	appErrors "github.com/noah-isme/deputat-planner/pkg/errors"
)

type staffingReportStore interface {
	Replace(ctx context.Context, exec sqlx.ExtContext, schoolYear string, mode models.ReportMode, lines []models.StaffingReportLine) error
	List(ctx context.Context, schoolYear string, mode models.ReportMode) ([]models.StaffingReportLine, error)
}

type studentCounter interface {
	CountStudents(ctx context.Context, schoolYear string) (int, error)
}

type yearAssignmentLister interface {
	ListBySchoolYear(ctx context.Context, schoolYear string) ([]models.Assignment, error)
}

type staffingClassReader interface {
	classLister
	studentCounter
}

// StaffingServiceConfig carries policy defaults from configuration.
type StaffingServiceConfig struct {
	DefaultRatio   float64
	DefaultDeputat float64
}

// PolicyReportResult bundles Mode-B lines with the computation summary.
type PolicyReportResult struct {
	SchoolYear  string                      `json:"school_year"`
	Policy      models.StaffingPolicy       `json:"policy"`
	Computation models.PolicyComputation    `json:"computation"`
	Lines       []models.StaffingReportLine `json:"lines"`
}

// StaffingService computes, caches, persists and exports staffing reports.
type StaffingService struct {
	classes     staffingClassReader
	subjects    subjectLister
	groups      parallelGroupLister
	teachers    teacherStore
	assignments yearAssignmentLister
	reports     staffingReportStore
	db          database.TxBeginner
	cache       *ReportCache
	metrics     *MetricsService
	exporter    *ExportService
	calculator  *StaffingCalculator
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         StaffingServiceConfig
}

// NewStaffingService constructs the service.
func NewStaffingService(
	classes staffingClassReader,
	subjects subjectLister,
	groups parallelGroupLister,
	teachers teacherStore,
	assignments yearAssignmentLister,
	reports staffingReportStore,
	db database.TxBeginner,
	reportCache *ReportCache,
	metrics *MetricsService,
	exporter *ExportService,
	calculator *StaffingCalculator,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg StaffingServiceConfig,
) *StaffingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if calculator == nil {
		calculator = NewStaffingCalculator(nil)
	}
	if exporter == nil {
		exporter = NewExportService(ExportConfig{}, logger, nil, nil, nil)
	}
	if cfg.DefaultRatio <= 0 {
		cfg.DefaultRatio = models.DefaultStudentTeacherRatio
	}
	if cfg.DefaultDeputat <= 0 {
		cfg.DefaultDeputat = models.DefaultPerPositionDeputat
	}
	return &StaffingService{
		classes:     classes,
		subjects:    subjects,
		groups:      groups,
		teachers:    teachers,
		assignments: assignments,
		reports:     reports,
		db:          db,
		cache:       reportCache,
		metrics:     metrics,
		exporter:    exporter,
		calculator:  calculator,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
	}
}

// PolicyDefaults returns the policy a partial request is merged onto.
func (s *StaffingService) PolicyDefaults() models.StaffingPolicy {
	p := models.DefaultStaffingPolicy()
	p.StudentTeacherRatio = s.cfg.DefaultRatio
	p.PerPositionDeputat = s.cfg.DefaultDeputat
	return p
}

// GradeHours aggregates the weekly demand of every grade of a school year.
func (s *StaffingService) GradeHours(ctx context.Context, schoolYear string, semesterView bool) ([]GradeDemand, error) {
	if !models.ValidSchoolYear(schoolYear) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "school year must look like 2025-26")
	}
	classes, groups, subjects, err := s.loadRoster(ctx, schoolYear)
	if err != nil {
		return nil, err
	}
	aggregator := NewHourAggregator(NewParallelGroupResolver(groups, subjects)).WithSemesterView(semesterView)
	demands := aggregator.Aggregate(classes)

	out := make([]GradeDemand, 0, len(demands))
	for _, grade := range demands.Grades() {
		out = append(out, *demands[grade])
	}
	return out, nil
}

// RosterReport computes the roster-derived report (Mode A). Results are cached
// per school year until the next optimizer run; persist stores the lines.
func (s *StaffingService) RosterReport(ctx context.Context, schoolYear string, persist bool) ([]models.StaffingReportLine, error) {
	if !models.ValidSchoolYear(schoolYear) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "school year must look like 2025-26")
	}
	lines, hit := s.cache.Lines(ctx, schoolYear, models.ReportModeRoster)
	if !hit {
		var err error
		if lines, err = s.computeRoster(ctx, schoolYear); err != nil {
			return nil, err
		}
		s.cache.Store(ctx, schoolYear, models.ReportModeRoster, lines)
	}

	if persist {
		if err := s.persist(ctx, schoolYear, models.ReportModeRoster, lines); err != nil {
			return nil, err
		}
	}
	return lines, nil
}

// PolicyReport validates the policy and computes the administrative
// worksheet (Mode B). A zero student count is filled from the classes of the year.
func (s *StaffingService) PolicyReport(ctx context.Context, schoolYear string, policy models.StaffingPolicy, persist bool) (*PolicyReportResult, error) {
	if !models.ValidSchoolYear(schoolYear) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "school year must look like 2025-26")
	}
	if err := s.validator.Struct(policy); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staffing policy")
	}
	if policy.StudentCount == 0 && s.classes != nil {
		count, err := s.classes.CountStudents(ctx, schoolYear)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
		}
		policy.StudentCount = float64(count)
	}

	lines, computation := s.calculator.PolicyReport(policy)
	stamp(lines, schoolYear, models.ReportModePolicy)
	s.metrics.ObserveReport(models.ReportModePolicy, len(lines))

	if persist {
		if err := s.persist(ctx, schoolYear, models.ReportModePolicy, lines); err != nil {
			return nil, err
		}
	}
	return &PolicyReportResult{
		SchoolYear:  schoolYear,
		Policy:      policy,
		Computation: computation,
		Lines:       lines,
	}, nil
}

// Export renders the stored report of a mode. A roster report that was never
// persisted is computed on the fly; a missing policy report is not found.
func (s *StaffingService) Export(ctx context.Context, schoolYear string, mode models.ReportMode, format string) (*ExportFile, error) {
	if mode != models.ReportModeRoster && mode != models.ReportModePolicy {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mode must be roster or policy")
	}
	if !SupportedFormat(format) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv, pdf or xlsx")
	}
	lines, err := s.reports.List(ctx, schoolYear, mode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staffing report")
	}
	if len(lines) == 0 {
		if mode == models.ReportModePolicy {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no persisted policy report for this school year")
		}
		if lines, err = s.RosterReport(ctx, schoolYear, false); err != nil {
			return nil, err
		}
	}
	file, err := s.exporter.Render(schoolYear, mode, format, lines)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render staffing report")
	}
	return file, nil
}

func (s *StaffingService) computeRoster(ctx context.Context, schoolYear string) ([]models.StaffingReportLine, error) {
	classes, groups, subjects, err := s.loadRoster(ctx, schoolYear)
	if err != nil {
		return nil, err
	}
	teachers, err := s.teachers.List(ctx, models.TeacherFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	var assignments []models.Assignment
	if s.assignments != nil {
		if assignments, err = s.assignments.ListBySchoolYear(ctx, schoolYear); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
		}
	}
	teachers = withYearWorkload(teachers, assignments)
	demands := NewHourAggregator(NewParallelGroupResolver(groups, subjects)).Aggregate(classes)
	lines := s.calculator.RosterReport(RosterInput{
		Demands:  demands,
		Groups:   groups,
		Subjects: subjects,
		Teachers: teachers,
	})
	stamp(lines, schoolYear, models.ReportModeRoster)
	s.metrics.ObserveReport(models.ReportModeRoster, len(lines))
	return lines, nil
}

func (s *StaffingService) loadRoster(ctx context.Context, schoolYear string) ([]models.ClassUnit, []models.ParallelGroup, []models.Subject, error) {
	classes, err := s.classes.ListBySchoolYear(ctx, schoolYear)
	if err != nil {
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classes")
	}
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load parallel groups")
	}
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	return classes, groups, subjects, nil
}

func (s *StaffingService) persist(ctx context.Context, schoolYear string, mode models.ReportMode, lines []models.StaffingReportLine) error {
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return s.reports.Replace(ctx, tx, schoolYear, mode, lines)
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to persist %s report", mode))
	}
	return nil
}

func stamp(lines []models.StaffingReportLine, schoolYear string, mode models.ReportMode) {
	for i := range lines {
		lines[i].SchoolYear = schoolYear
		lines[i].Mode = mode
	}
}

// withYearWorkload replaces each teacher's assigned hours with the hours of the
// given school year's assignments. The stored value belongs to the most recent
// optimizer run, which may have been for another year.
func withYearWorkload(teachers []models.Teacher, assignments []models.Assignment) []models.Teacher {
	hours := make(map[string]float64, len(teachers))
	for _, a := range assignments {
		hours[a.TeacherID] += a.HoursPerWeek
	}
	out := make([]models.Teacher, len(teachers))
	for i, t := range teachers {
		t.AssignedHours = hours[t.ID]
		out[i] = t
	}
	return out
}
