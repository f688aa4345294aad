package service

import (
	"math"
	"sort"

	"github.com/noah-isme/deputat-planner/internal/models"
)

// GroupedHours splits a subject-hour map into shared parallel-group slots and
// ordinary per-subject hours.
type GroupedHours struct {
	ParallelGroupHours map[string]float64 `json:"parallel_group_hours"`
	RegularHours       map[string]float64 `json:"regular_hours"`
	TotalHours         float64            `json:"total_hours"`
}

func newGroupedHours() GroupedHours {
	return GroupedHours{
		ParallelGroupHours: make(map[string]float64),
		RegularHours:       make(map[string]float64),
	}
}

func (g *GroupedHours) recompute() {
	var total float64
	for _, h := range g.ParallelGroupHours {
		total += h
	}
	for _, h := range g.RegularHours {
		total += h
	}
	g.TotalHours = total
}

// ParallelGroupResolver de-duplicates hours of subjects taught in one shared slot.
type ParallelGroupResolver struct {
	groups map[string]models.ParallelGroup
	byCode map[string]string
}

// NewParallelGroupResolver indexes groups by member code. Subjects carrying a
// parallel group back-reference are indexed as members too.
func NewParallelGroupResolver(groups []models.ParallelGroup, subjects []models.Subject) *ParallelGroupResolver {
	sorted := make([]models.ParallelGroup, len(groups))
	copy(sorted, groups)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	r := &ParallelGroupResolver{
		groups: make(map[string]models.ParallelGroup, len(sorted)),
		byCode: make(map[string]string),
	}
	for _, group := range sorted {
		r.groups[group.ID] = group
		for _, code := range group.SubjectCodes {
			if _, taken := r.byCode[code]; !taken {
				r.byCode[code] = group.ID
			}
		}
	}
	for _, subject := range subjects {
		if subject.ParallelGroupID == nil {
			continue
		}
		if _, ok := r.groups[*subject.ParallelGroupID]; !ok {
			continue
		}
		if _, taken := r.byCode[subject.Code]; !taken {
			r.byCode[subject.Code] = *subject.ParallelGroupID
		}
	}
	return r
}

// GroupFor returns the parallel group a subject code belongs to.
func (r *ParallelGroupResolver) GroupFor(code string) (models.ParallelGroup, bool) {
	id, ok := r.byCode[code]
	if !ok {
		return models.ParallelGroup{}, false
	}
	return r.groups[id], true
}

// Groups returns all known groups ordered by id.
func (r *ParallelGroupResolver) Groups() []models.ParallelGroup {
	result := make([]models.ParallelGroup, 0, len(r.groups))
	for _, g := range r.groups {
		result = append(result, g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Resolve splits one class's subject hours. A group contributes its fixed
// hoursPerGrade value once, however many member subjects the class lists.
// With semesterView every contributed value is halved and rounded to one decimal.
func (r *ParallelGroupResolver) Resolve(subjectHours models.SubjectHours, grade int, semesterView bool) GroupedHours {
	result := newGroupedHours()
	for _, code := range subjectHours.Codes() {
		if group, ok := r.GroupFor(code); ok {
			if _, recorded := result.ParallelGroupHours[group.ID]; recorded {
				continue
			}
			result.ParallelGroupHours[group.ID] = contribute(group.HoursPerGrade[grade], semesterView)
			continue
		}
		result.RegularHours[code] = contribute(subjectHours[code], semesterView)
	}
	result.recompute()
	return result
}

func contribute(hours float64, semesterView bool) float64 {
	if !semesterView {
		return hours
	}
	return HalveForSemester(hours)
}

// HalveForSemester halves an annual hour value and rounds half-up to one decimal.
func HalveForSemester(hours float64) float64 {
	return roundHalfUp((hours/2)*10) / 10
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
