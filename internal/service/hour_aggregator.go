package service

import (
	"sort"

	"github.com/noah-isme/deputat-planner/internal/models"
)

// GradeDemand is the weekly hour demand of one grade.
type GradeDemand struct {
	Grade      int `json:"grade"`
	ClassCount int `json:"class_count"`
	GroupedHours
}

// GradeDemands maps grade to its aggregated demand.
type GradeDemands map[int]*GradeDemand

// Grades returns the grades in ascending order.
func (d GradeDemands) Grades() []int {
	grades := make([]int, 0, len(d))
	for grade := range d {
		grades = append(grades, grade)
	}
	sort.Ints(grades)
	return grades
}

type classHourResolver interface {
	Resolve(subjectHours models.SubjectHours, grade int, semesterView bool) GroupedHours
}

// HourAggregator rolls class demand up to grade demand.
type HourAggregator struct {
	resolver     classHourResolver
	semesterView bool
}

// NewHourAggregator constructs an aggregator around a resolver.
func NewHourAggregator(resolver classHourResolver) *HourAggregator {
	return &HourAggregator{resolver: resolver}
}

// WithSemesterView returns a copy that resolves every class in semester view.
func (a *HourAggregator) WithSemesterView(on bool) *HourAggregator {
	cp := *a
	cp.semesterView = on
	return &cp
}

// Aggregate sums regular subject hours across the classes of a grade and takes
// the maximum of each parallel group, whose slot is shared by those classes.
func (a *HourAggregator) Aggregate(classes []models.ClassUnit) GradeDemands {
	demands := make(GradeDemands)
	for _, class := range classes {
		resolved := a.resolver.Resolve(class.SubjectHours, class.Grade, a.semesterView)

		demand, ok := demands[class.Grade]
		if !ok {
			demand = &GradeDemand{Grade: class.Grade, GroupedHours: newGroupedHours()}
			demands[class.Grade] = demand
		}
		demand.ClassCount++

		for code, hours := range resolved.RegularHours {
			demand.RegularHours[code] += hours
		}
		for groupID, hours := range resolved.ParallelGroupHours {
			if current, seen := demand.ParallelGroupHours[groupID]; !seen || hours > current {
				demand.ParallelGroupHours[groupID] = hours
			}
		}
		demand.recompute()
	}
	return demands
}
