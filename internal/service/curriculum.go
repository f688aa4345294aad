package service

import (
	"fmt"

	"github.com/noah-isme/deputat-planner/internal/models"
)

// CurriculumSubject is a base subject with its semester-specific subject codes.
type CurriculumSubject struct {
	BaseCode      string
	Category      string
	SemesterCodes [2]string
	WeeklyHours   float64
}

// SemesterCode returns the subject code used for the given semester.
func (s CurriculumSubject) SemesterCode(semester models.Semester) string {
	if semester == models.SemesterSecond {
		return s.SemesterCodes[1]
	}
	return s.SemesterCodes[0]
}

// CurriculumTier unlocks its subjects for every grade >= MinGrade.
type CurriculumTier struct {
	MinGrade int
	Subjects []CurriculumSubject
}

// Curriculum is an ordered list of grade-threshold tiers.
type Curriculum []CurriculumTier

// SubjectsForGrade returns the required base subjects for a grade in table order.
func (c Curriculum) SubjectsForGrade(grade int) []CurriculumSubject {
	var subjects []CurriculumSubject
	for _, tier := range c {
		if grade < tier.MinGrade {
			continue
		}
		subjects = append(subjects, tier.Subjects...)
	}
	return subjects
}

// Category returns the category of a base or semester code, or "" when the
// table does not list it.
func (c Curriculum) Category(code string) string {
	for _, tier := range c {
		for _, subject := range tier.Subjects {
			if subject.BaseCode == code || subject.SemesterCodes[0] == code || subject.SemesterCodes[1] == code {
				return subject.Category
			}
		}
	}
	return ""
}

func baseSubject(code, category string, hours float64) CurriculumSubject {
	return CurriculumSubject{
		BaseCode:      code,
		Category:      category,
		SemesterCodes: [2]string{fmt.Sprintf("%s.1", code), fmt.Sprintf("%s.2", code)},
		WeeklyHours:   hours,
	}
}

// DefaultCurriculum is the Sekundarstufe I table used by the optimizer.
var DefaultCurriculum = Curriculum{
	{
		MinGrade: 5,
		Subjects: []CurriculumSubject{
			baseSubject("D", "Sprachen", 4),
			baseSubject("M", "MINT", 4),
			baseSubject("E", "Sprachen", 4),
			baseSubject("BIO", "MINT", 2),
			baseSubject("EK", "Gesellschaft", 2),
			baseSubject("KU", "Musisch", 2),
			baseSubject("MU", "Musisch", 2),
			baseSubject("SP", "Sport", 3),
			baseSubject("KR", CategoryReligion, 2),
			baseSubject("ER", CategoryReligion, 2),
		},
	},
	{
		MinGrade: 6,
		Subjects: []CurriculumSubject{
			baseSubject("F", "Sprachen", 4),
			baseSubject("GE", "Gesellschaft", 2),
		},
	},
	{
		MinGrade: 7,
		Subjects: []CurriculumSubject{
			baseSubject("PH", "MINT", 2),
			baseSubject("PO", "Gesellschaft", 2),
		},
	},
	{
		MinGrade: 8,
		Subjects: []CurriculumSubject{
			baseSubject("CH", "MINT", 2),
			baseSubject("INF", "MINT", 2),
		},
	},
}
