package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/deputat-planner/internal/models"
)

// capacityEpsilon tolerates float noise when comparing hour sums with caps.
const capacityEpsilon = 1e-9

// Reasons recorded for unresolved demand.
const (
	UnresolvedNoTeacher      = "NO_ELIGIBLE_TEACHER"
	UnresolvedSubjectMissing = "SUBJECT_NOT_IN_ROSTER"
)

// Match outcomes of a committed (class, base subject) pair.
const (
	MatchStrict   = "strict"
	MatchFallback = "fallback"
)

// OptimizerInput is the full roster an optimizer run works on.
type OptimizerInput struct {
	SchoolYear string
	Teachers   []models.Teacher
	Classes    []models.ClassUnit
	Subjects   []models.Subject
}

// CommittedDemand records which teacher took a (class, base subject) pair.
type CommittedDemand struct {
	ClassID     string  `json:"class_id"`
	BaseSubject string  `json:"base_subject"`
	TeacherID   string  `json:"teacher_id"`
	WeeklyHours float64 `json:"weekly_hours"`
	Match       string  `json:"match"`
}

// OptimizationResult is the complete replacement set of one run.
type OptimizationResult struct {
	Assignments []models.Assignment
	Committed   []CommittedDemand
	Unresolved  models.UnresolvedDemands
	Workload    map[string]float64
}

// FallbackCount returns how many pairs were committed by the relaxed pass.
func (r OptimizationResult) FallbackCount() int {
	count := 0
	for _, c := range r.Committed {
		if c.Match == MatchFallback {
			count++
		}
	}
	return count
}

// workloadLedger accumulates committed hours per teacher for one run.
type workloadLedger struct {
	hours map[string]float64
}

func newWorkloadLedger() *workloadLedger {
	return &workloadLedger{hours: make(map[string]float64)}
}

func (l *workloadLedger) fits(teacher models.Teacher, need float64) bool {
	return l.hours[teacher.ID]+need <= teacher.MaxHours+capacityEpsilon
}

func (l *workloadLedger) commit(teacherID string, need float64) {
	l.hours[teacherID] += need
}

// AssignmentOptimizer assigns teachers to class/subject/semester slots first-fit
// in roster order. It never backtracks, so results are deterministic for a
// given roster order but not globally optimal.
type AssignmentOptimizer struct {
	curriculum Curriculum
	matcher    *QualificationMatcher
	logger     *zap.Logger
}

// NewAssignmentOptimizer constructs an optimizer.
func NewAssignmentOptimizer(curriculum Curriculum, matcher *QualificationMatcher, logger *zap.Logger) *AssignmentOptimizer {
	if curriculum == nil {
		curriculum = DefaultCurriculum
	}
	if matcher == nil {
		matcher = NewQualificationMatcher(nil, nil, nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentOptimizer{curriculum: curriculum, matcher: matcher, logger: logger}
}

// Optimize computes a full replacement assignment set. Every run starts from a
// fresh ledger; prior assignments are ignored.
func (o *AssignmentOptimizer) Optimize(in OptimizerInput) OptimizationResult {
	ledger := newWorkloadLedger()
	subjectsByCode := make(map[string]models.Subject, len(in.Subjects))
	for _, s := range in.Subjects {
		subjectsByCode[s.Code] = s
	}
	active := make([]models.Teacher, 0, len(in.Teachers))
	for _, t := range in.Teachers {
		if t.Active {
			active = append(active, t)
			ledger.hours[t.ID] = 0
		}
	}

	result := OptimizationResult{}
	for _, class := range in.Classes {
		for _, subject := range o.curriculum.SubjectsForGrade(class.Grade) {
			subjectIDs, ok := resolveSemesterSubjects(subject, subjectsByCode)
			if !ok {
				result.Unresolved = append(result.Unresolved, o.unresolved(class, subject, UnresolvedSubjectMissing))
				continue
			}

			need := 2 * subject.WeeklyHours
			teacher, match, found := o.selectTeacher(active, subject, need, ledger)
			if !found {
				result.Unresolved = append(result.Unresolved, o.unresolved(class, subject, UnresolvedNoTeacher))
				continue
			}

			for i, semester := range models.Semesters {
				result.Assignments = append(result.Assignments, models.Assignment{
					SchoolYear:   in.SchoolYear,
					TeacherID:    teacher.ID,
					ClassID:      class.ID,
					SubjectID:    subjectIDs[i],
					Semester:     semester,
					HoursPerWeek: subject.WeeklyHours,
				})
			}
			ledger.commit(teacher.ID, need)
			result.Committed = append(result.Committed, CommittedDemand{
				ClassID:     class.ID,
				BaseSubject: subject.BaseCode,
				TeacherID:   teacher.ID,
				WeeklyHours: subject.WeeklyHours,
				Match:       match,
			})
		}
	}

	result.Workload = ledger.hours
	o.logger.Info("assignment optimization finished",
		zap.String("school_year", in.SchoolYear),
		zap.Int("assignments", len(result.Assignments)),
		zap.Int("committed", len(result.Committed)),
		zap.Int("fallback", result.FallbackCount()),
		zap.Int("unresolved", len(result.Unresolved)),
	)
	return result
}

// selectTeacher runs the strict pass over non-excluded candidates, then the
// relaxed pass over the full roster. Overrides and the capacity check apply
// to both passes.
func (o *AssignmentOptimizer) selectTeacher(roster []models.Teacher, subject CurriculumSubject, need float64, ledger *workloadLedger) (models.Teacher, string, bool) {
	candidates := make([]models.Teacher, 0, len(roster))
	for _, t := range roster {
		if o.matcher.Excluded(t, subject.BaseCode, subject.Category) {
			continue
		}
		candidates = append(candidates, t)
	}

	for _, t := range candidates {
		if o.matcher.Strict(t, subject.BaseCode) && ledger.fits(t, need) {
			return t, MatchStrict, true
		}
	}
	for _, t := range candidates {
		if o.matcher.Relaxed(t, subject.BaseCode) && ledger.fits(t, need) {
			return t, MatchFallback, true
		}
	}
	return models.Teacher{}, "", false
}

func (o *AssignmentOptimizer) unresolved(class models.ClassUnit, subject CurriculumSubject, reason string) models.UnresolvedDemand {
	o.logger.Warn("unresolved teaching demand",
		zap.String("class_id", class.ID),
		zap.String("class", class.Name),
		zap.Int("grade", class.Grade),
		zap.String("subject", subject.BaseCode),
		zap.String("reason", reason),
	)
	return models.UnresolvedDemand{
		ClassID:     class.ID,
		ClassName:   class.Name,
		Grade:       class.Grade,
		BaseSubject: subject.BaseCode,
		WeeklyHours: subject.WeeklyHours,
		Reason:      reason,
	}
}

// resolveSemesterSubjects maps both semester codes to subject ids, falling back
// to the base code when the roster has no semester-specific subject.
func resolveSemesterSubjects(subject CurriculumSubject, byCode map[string]models.Subject) ([2]string, bool) {
	var ids [2]string
	for i, semester := range models.Semesters {
		if s, ok := byCode[subject.SemesterCode(semester)]; ok {
			ids[i] = s.ID
			continue
		}
		if s, ok := byCode[subject.BaseCode]; ok {
			ids[i] = s.ID
			continue
		}
		return ids, false
	}
	return ids, true
}
