package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/deputat-planner/internal/models"
)

func teacherWith(code string, quals ...string) models.Teacher {
	return models.Teacher{ID: "t-" + code, ShortCode: code, Qualifications: quals, MaxHours: 28, Active: true}
}

func TestQualificationMatcherStrictUsesAliases(t *testing.T) {
	m := NewQualificationMatcher(nil, nil, nil)

	assert.True(t, m.Strict(teacherWith("MUE", "Mathe"), "M"))
	assert.True(t, m.Strict(teacherWith("MUE", " deutsch "), "D"))
	assert.False(t, m.Strict(teacherWith("MUE", "Physik"), "M"))
}

func TestQualificationMatcherReligionRequiresExactCode(t *testing.T) {
	m := NewQualificationMatcher(nil, nil, nil)

	assert.True(t, m.Strict(teacherWith("ABC", "KR"), "KR"))
	assert.False(t, m.Strict(teacherWith("ABC", "kr"), "KR"))
	assert.False(t, m.Strict(teacherWith("ABC", "ER"), "KR"))
	assert.Equal(t, []string{"KR"}, m.Spellings("KR"))
}

func TestQualificationMatcherRelaxedMatchesSubstrings(t *testing.T) {
	m := NewQualificationMatcher(nil, nil, nil)

	assert.True(t, m.Relaxed(teacherWith("X", "Mathematik (Sek I)"), "M"))
	assert.True(t, m.Relaxed(teacherWith("X", "bio"), "BIO"))
	assert.False(t, m.Relaxed(teacherWith("X", ""), "M"))
	assert.False(t, m.Relaxed(teacherWith("X", "Sport"), "BIO"))
}

func TestQualificationMatcherRelaxedKeepsReligionExact(t *testing.T) {
	m := NewQualificationMatcher(nil, nil, nil)

	assert.False(t, m.Relaxed(teacherWith("GEO", "Erdkunde"), "ER"))
	assert.False(t, m.Relaxed(teacherWith("ENG", "E"), "ER"))
	assert.False(t, m.Relaxed(teacherWith("ABC", "KR Sek I"), "KR"))
	assert.True(t, m.Relaxed(teacherWith("ABC", "ER"), "ER"))
}

func TestQualificationMatcherRelaxedIgnoresShortCodes(t *testing.T) {
	m := NewQualificationMatcher(nil, nil, nil)

	assert.False(t, m.Relaxed(teacherWith("X", "M"), "MU"))
	assert.False(t, m.Relaxed(teacherWith("X", "M"), "CH"))
	assert.False(t, m.Relaxed(teacherWith("X", "M"), "INF"))
	assert.False(t, m.Relaxed(teacherWith("X", "Erdkunde"), "E"))
	assert.False(t, m.Relaxed(teacherWith("X", "Geschichte"), "CH"))
	assert.True(t, m.Relaxed(teacherWith("X", "m"), "M"))

	matched := 0
	for _, tier := range DefaultCurriculum {
		for _, subject := range tier.Subjects {
			if m.Relaxed(teacherWith("X", "E"), subject.BaseCode) {
				matched++
			}
		}
	}
	assert.Equal(t, 1, matched)
}

func TestQualificationMatcherOverrideExcludesReligion(t *testing.T) {
	m := NewQualificationMatcher(nil, nil, nil)
	hof := teacherWith("HOF", "KR", "M")

	assert.True(t, m.Excluded(hof, "KR", CategoryReligion))
	assert.False(t, m.Excluded(hof, "M", "MINT"))
	assert.False(t, m.QualifiedForAny(hof, []string{"KR"}, CategoryReligion))
	assert.True(t, m.QualifiedForAny(hof, []string{"M"}, ""))
}

func TestEligibilityRuleMatchesSubjectCodes(t *testing.T) {
	rule := EligibilityRule{TeacherCode: "abc", SubjectCodes: []string{"SP"}}

	assert.True(t, rule.Excludes(teacherWith("ABC"), "sp", ""))
	assert.False(t, rule.Excludes(teacherWith("ABC"), "M", ""))
	assert.False(t, rule.Excludes(teacherWith("XYZ"), "SP", ""))
}
