package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/deputat-planner/internal/models"
)

// stubResolver returns prepared per-class results keyed by the "_class" entry
// of the subject-hour map.
type stubResolver struct {
	byClass map[float64]GroupedHours
}

func (s stubResolver) Resolve(subjectHours models.SubjectHours, grade int, semesterView bool) GroupedHours {
	return s.byClass[subjectHours["_class"]]
}

func TestHourAggregatorSumsRegularAndMaxesGroups(t *testing.T) {
	resolver := stubResolver{byClass: map[float64]GroupedHours{
		1: {ParallelGroupHours: map[string]float64{"rel": 3}, RegularHours: map[string]float64{"D": 4}},
		2: {ParallelGroupHours: map[string]float64{"rel": 4}, RegularHours: map[string]float64{"D": 4}},
	}}
	classes := []models.ClassUnit{
		{ID: "5a", Grade: 5, SubjectHours: models.SubjectHours{"_class": 1}},
		{ID: "5b", Grade: 5, SubjectHours: models.SubjectHours{"_class": 2}},
	}

	demands := NewHourAggregator(resolver).Aggregate(classes)

	require.Contains(t, demands, 5)
	d := demands[5]
	assert.Equal(t, 2, d.ClassCount)
	assert.InDelta(t, 8, d.RegularHours["D"], 1e-9)
	assert.InDelta(t, 4, d.ParallelGroupHours["rel"], 1e-9)
	assert.InDelta(t, 12, d.TotalHours, 1e-9)
}

func TestHourAggregatorWithResolver(t *testing.T) {
	r := NewParallelGroupResolver([]models.ParallelGroup{religionGroup()}, nil)
	classes := []models.ClassUnit{
		{ID: "6a", Grade: 6, SubjectHours: models.SubjectHours{"KR": 2, "M": 4}},
		{ID: "5a", Grade: 5, SubjectHours: models.SubjectHours{"ER": 2, "M": 4}},
		{ID: "5b", Grade: 5, SubjectHours: models.SubjectHours{"KR": 2, "M": 5}},
	}

	demands := NewHourAggregator(r).Aggregate(classes)

	assert.Equal(t, []int{5, 6}, demands.Grades())
	assert.InDelta(t, 9, demands[5].RegularHours["M"], 1e-9)
	assert.InDelta(t, 2, demands[5].ParallelGroupHours["rel"], 1e-9)
	assert.InDelta(t, 11, demands[5].TotalHours, 1e-9)
	assert.Equal(t, 1, demands[6].ClassCount)
}

func TestHourAggregatorEmpty(t *testing.T) {
	demands := NewHourAggregator(NewParallelGroupResolver(nil, nil)).Aggregate(nil)
	assert.Empty(t, demands)
	assert.Empty(t, demands.Grades())
}
