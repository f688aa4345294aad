package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/deputat-planner/internal/models"
)

func findLine(t *testing.T, lines []models.StaffingReportLine, component string) models.StaffingReportLine {
	t.Helper()
	for _, l := range lines {
		if l.Component == component {
			return l
		}
	}
	t.Fatalf("line %q not found", component)
	return models.StaffingReportLine{}
}

func TestPolicyReportBaseNeed(t *testing.T) {
	calc := NewStaffingCalculator(nil)
	policy := models.StaffingPolicy{
		StudentCount:        710,
		StudentTeacherRatio: 20.19,
		TrainingDeduction:   -0.5,
		RoundingAdjustment:  -0.21,
		PerPositionDeputat:  28,
	}

	lines, out := calc.PolicyReport(policy)

	assert.InDelta(t, 35.1659, out.Quotient, 1e-4)
	assert.InDelta(t, 35.16, out.QuotientTruncated, 1e-9)
	assert.InDelta(t, 35, out.RoundedBase, 1e-9)
	assert.InDelta(t, 34.45, out.SumBaseNeed, 1e-9)
	assert.InDelta(t, 34.45, out.GrandTotalHours, 1e-9)
	assert.InDelta(t, 34.45/28, out.RequiredPositions, 1e-9)

	sum := findLine(t, lines, "Summe Grundbedarf")
	assert.Equal(t, models.OperatorSum, sum.Formula.Operator)
	assert.Len(t, sum.Formula.Operands, 3)

	deduction := findLine(t, lines, "Ausbildungsabzug")
	assert.Equal(t, models.LineTypeRequirement, deduction.LineType)
	assert.Equal(t, models.OperatorDirect, deduction.Formula.Operator)

	for i, l := range lines {
		assert.Equal(t, i+1, l.Position)
	}
}

func TestPolicyReportGrandTotalIsSumOfParts(t *testing.T) {
	calc := NewStaffingCalculator(nil)
	policy := models.StaffingPolicy{
		StudentCount:        812,
		StudentTeacherRatio: 20.19,
		PerPositionDeputat:  25.5,
		Compensation: models.CompensationAllowances{
			Leadership:    6.5,
			FullDaySchool: 3.25,
			Inclusion:     1.1,
		},
		OtherAreas: models.OtherAreaAllowances{Secondments: 0.5, ExamDuties: 0.25},
		Custom1:    models.CustomLine{Label: "Schulversuch", Hours: 1},
		Custom2:    models.CustomLine{Hours: 0.75},
	}

	lines, out := calc.PolicyReport(policy)

	assert.InDelta(t, 10.85, out.SumCompensationNeed, 1e-9)
	assert.InDelta(t, 2.5, out.SumOtherAreas, 1e-9)
	assert.Equal(t, out.SumBaseNeed+out.SumCompensationNeed+out.SumOtherAreas, out.GrandTotalHours)
	assert.InDelta(t, out.GrandTotalHours/25.5, out.RequiredPositions, 1e-12)

	assert.Equal(t, "Schulversuch", findLine(t, lines, "Schulversuch").Component)
	assert.InDelta(t, 0.75, findLine(t, lines, "Sonstiges 2").RequiredHours, 1e-9)

	total := findLine(t, lines, "Gesamtbedarf (Stunden)")
	assert.Equal(t, models.LineTypeSummary, total.LineType)
	assert.Equal(t, ColorSummary, total.Color)
}

func TestPolicyReportEmitsEveryNonZeroInput(t *testing.T) {
	lines, _ := NewStaffingCalculator(nil).PolicyReport(models.StaffingPolicy{
		StudentCount:        710,
		StudentTeacherRatio: 20.19,
		PerPositionDeputat:  28,
	})

	requirements := map[string]float64{}
	for _, l := range lines {
		if l.LineType == models.LineTypeRequirement {
			assert.Equal(t, models.OperatorDirect, l.Formula.Operator)
			assert.Equal(t, "direct value", l.Formula.Description)
			requirements[l.Component] = l.RequiredHours
		}
	}
	assert.Equal(t, map[string]float64{
		"Schülerzahl":                 710,
		"Schüler-Lehrer-Relation":     20.19,
		"Deputat einer vollen Stelle": 28,
	}, requirements)

	zero, _ := NewStaffingCalculator(nil).PolicyReport(models.StaffingPolicy{})
	for _, l := range zero {
		assert.NotEqual(t, models.LineTypeRequirement, l.LineType)
	}
}

func TestPolicyReportSumsAreNotRounded(t *testing.T) {
	_, out := NewStaffingCalculator(nil).PolicyReport(models.StaffingPolicy{
		Compensation: models.CompensationAllowances{Leadership: 0.125, Inclusion: 0.001},
		OtherAreas:   models.OtherAreaAllowances{ExamDuties: 0.333},
	})

	assert.InDelta(t, 0.126, out.SumCompensationNeed, 1e-12)
	assert.InDelta(t, 0.333, out.SumOtherAreas, 1e-12)
	assert.Equal(t, out.SumBaseNeed+out.SumCompensationNeed+out.SumOtherAreas, out.GrandTotalHours)
}

func TestPolicyReportZeroDivisors(t *testing.T) {
	_, out := NewStaffingCalculator(nil).PolicyReport(models.StaffingPolicy{StudentCount: 500})

	assert.Zero(t, out.Quotient)
	assert.Zero(t, out.RequiredPositions)
}

func TestPolicyReportTruncationAbsorbsFloatNoise(t *testing.T) {
	_, out := NewStaffingCalculator(nil).PolicyReport(models.StaffingPolicy{StudentCount: 29, StudentTeacherRatio: 100, PerPositionDeputat: 28})
	assert.InDelta(t, 0.29, out.QuotientTruncated, 1e-12)
}

func TestHalfStep(t *testing.T) {
	assert.InDelta(t, 35, halfStep(35.49), 1e-9)
	assert.InDelta(t, 35.5, halfStep(35.5), 1e-9)
	assert.InDelta(t, 35.5, halfStep(35.99), 1e-9)
}

func TestRosterReportComparesDemandWithQualifiedTeachers(t *testing.T) {
	group := religionGroup()
	resolver := NewParallelGroupResolver([]models.ParallelGroup{group}, nil)
	demands := NewHourAggregator(resolver).Aggregate([]models.ClassUnit{
		{ID: "5a", Grade: 5, SubjectHours: models.SubjectHours{"KR": 2, "M": 4}},
		{ID: "5b", Grade: 5, SubjectHours: models.SubjectHours{"ER": 2, "M": 4}},
	})
	teachers := []models.Teacher{
		{ID: "t1", ShortCode: "MAY", Qualifications: []string{"Mathe"}, AssignedHours: 5, Active: true},
		{ID: "t2", ShortCode: "SCH", Qualifications: []string{"KR"}, AssignedHours: 3, Active: true},
		{ID: "t3", ShortCode: "HOF", Qualifications: []string{"KR", "M"}, AssignedHours: 4, Active: true},
		{ID: "t4", ShortCode: "OLD", Qualifications: []string{"M"}, AssignedHours: 10, Active: false},
	}
	subjects := []models.Subject{
		{ID: "s-m", Code: "M", Name: "Mathematik", Category: "MINT"},
		{ID: "s-kr", Code: "KR", Name: "Katholische Religion", Category: CategoryReligion},
		{ID: "s-er", Code: "ER", Name: "Evangelische Religion", Category: CategoryReligion},
	}

	lines := NewStaffingCalculator(nil).RosterReport(RosterInput{
		Demands:  demands,
		Groups:   []models.ParallelGroup{group},
		Subjects: subjects,
		Teachers: teachers,
	})

	require.Len(t, lines, 2)

	groupLine := lines[0]
	assert.Equal(t, CategoryParallelGroup, groupLine.Category)
	assert.InDelta(t, 2, groupLine.RequiredHours, 1e-9)
	assert.InDelta(t, 3, groupLine.AvailableHours, 1e-9)
	assert.InDelta(t, -1, groupLine.Deficit, 1e-9)
	assert.Equal(t, ColorSurplus, groupLine.Color)

	mathLine := lines[1]
	require.NotNil(t, mathLine.SubjectID)
	assert.Equal(t, "s-m", *mathLine.SubjectID)
	assert.Equal(t, "Jahrgang 5 - Mathematik", mathLine.Component)
	assert.InDelta(t, 8, mathLine.RequiredHours, 1e-9)
	assert.InDelta(t, 9, mathLine.AvailableHours, 1e-9)
	assert.Equal(t, models.OperatorSubtract, mathLine.Formula.Operator)
	assert.Equal(t, 2, mathLine.Position)
}

func TestRosterReportOverrideWithoutRosterSubjects(t *testing.T) {
	group := religionGroup()
	demands := NewHourAggregator(NewParallelGroupResolver([]models.ParallelGroup{group}, nil)).Aggregate([]models.ClassUnit{
		{ID: "5a", Grade: 5, SubjectHours: models.SubjectHours{"KR": 2}},
	})
	teachers := []models.Teacher{
		{ID: "t2", ShortCode: "SCH", Qualifications: []string{"KR"}, AssignedHours: 3, Active: true},
		{ID: "t3", ShortCode: "HOF", Qualifications: []string{"KR"}, AssignedHours: 4, Active: true},
	}

	lines := NewStaffingCalculator(nil).RosterReport(RosterInput{
		Demands:  demands,
		Groups:   []models.ParallelGroup{group},
		Teachers: teachers,
	})

	require.Len(t, lines, 1)
	assert.InDelta(t, 3, lines[0].AvailableHours, 1e-9)
}

func TestCurriculumCategory(t *testing.T) {
	assert.Equal(t, CategoryReligion, DefaultCurriculum.Category("KR"))
	assert.Equal(t, "MINT", DefaultCurriculum.Category("M.2"))
	assert.Equal(t, "", DefaultCurriculum.Category("PP"))
}

func TestDeficitColor(t *testing.T) {
	assert.Equal(t, ColorDeficit, deficitColor(1))
	assert.Equal(t, ColorSurplus, deficitColor(-1))
	assert.Equal(t, ColorBalanced, deficitColor(0))
}
