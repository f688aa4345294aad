package service

import (
	"strings"
	"unicode/utf8"

	"github.com/noah-isme/deputat-planner/internal/models"
)

// CategoryReligion marks denominational religion subjects.
const CategoryReligion = "Religion"

// SubjectAliases lists the accepted spellings of each canonical subject code as
// they appear in imported qualification records. The canonical code itself is
// always accepted and does not need to be listed.
var SubjectAliases = map[string][]string{
	"D":   {"Deu", "Deutsch"},
	"M":   {"Ma", "Mat", "Mathe", "Mathematik"},
	"E":   {"En", "Eng", "Englisch"},
	"F":   {"Fr", "Frz", "Französisch", "Franzoesisch"},
	"L":   {"La", "Lat", "Latein"},
	"BIO": {"Bi", "Bio", "Biologie"},
	"CH":  {"Ch", "Chemie"},
	"PH":  {"Ph", "Phy", "Physik"},
	"EK":  {"Ek", "Erdkunde", "Geo", "Geographie"},
	"GE":  {"Ge", "Ges", "Geschichte"},
	"PO":  {"Po", "Pol", "Politik", "SoWi", "Sozialwissenschaften"},
	"KU":  {"Ku", "Kunst", "BK"},
	"MU":  {"Mu", "Musik"},
	"SP":  {"Sp", "Spo", "Sport"},
	"INF": {"If", "Inf", "Informatik"},
	"PP":  {"Philo", "Praktische Philosophie"},
	"KR":  nil,
	"ER":  nil,
}

// ExactMatchCodes are compared by exact code equality only, so a teacher of one
// denomination is never matched to the other through an alias.
var ExactMatchCodes = map[string]struct{}{
	"KR": {},
	"ER": {},
}

// EligibilityRule forbids one teacher from a subject or subject category
// regardless of the qualifications listed in their imported record.
type EligibilityRule struct {
	TeacherCode  string
	SubjectCodes []string
	Category     string
	Reason       string
}

// Excludes reports whether the rule forbids teacher from teaching the subject.
func (r EligibilityRule) Excludes(teacher models.Teacher, subjectCode, category string) bool {
	if !strings.EqualFold(strings.TrimSpace(teacher.ShortCode), r.TeacherCode) {
		return false
	}
	if r.Category != "" && strings.EqualFold(r.Category, category) {
		return true
	}
	for _, code := range r.SubjectCodes {
		if strings.EqualFold(code, subjectCode) {
			return true
		}
	}
	return false
}

// DefaultEligibilityOverrides corrects known defects of the imported
// qualification records.
var DefaultEligibilityOverrides = []EligibilityRule{
	{
		TeacherCode: "HOF",
		Category:    CategoryReligion,
		Reason:      "imported record lists KR but no church teaching licence is on file",
	},
}

// QualificationMatcher decides whether a teacher may teach a subject.
type QualificationMatcher struct {
	aliases   map[string][]string
	exact     map[string]struct{}
	overrides []EligibilityRule
}

// NewQualificationMatcher builds a matcher from alias data and override rules.
// Nil arguments fall back to the package defaults.
func NewQualificationMatcher(aliases map[string][]string, exact map[string]struct{}, overrides []EligibilityRule) *QualificationMatcher {
	if aliases == nil {
		aliases = SubjectAliases
	}
	if exact == nil {
		exact = ExactMatchCodes
	}
	if overrides == nil {
		overrides = DefaultEligibilityOverrides
	}
	return &QualificationMatcher{aliases: aliases, exact: exact, overrides: overrides}
}

// Excluded reports whether an eligibility override forbids the pairing.
func (m *QualificationMatcher) Excluded(teacher models.Teacher, subjectCode, category string) bool {
	for _, rule := range m.overrides {
		if rule.Excludes(teacher, subjectCode, category) {
			return true
		}
	}
	return false
}

// Spellings returns the canonical code followed by its aliases.
func (m *QualificationMatcher) Spellings(subjectCode string) []string {
	if m.isExact(subjectCode) {
		return []string{subjectCode}
	}
	aliases, ok := m.aliases[subjectCode]
	if !ok {
		aliases = m.aliases[strings.ToUpper(subjectCode)]
	}
	return append([]string{subjectCode}, aliases...)
}

// Strict reports set-membership of the subject in the teacher's qualifications.
func (m *QualificationMatcher) Strict(teacher models.Teacher, subjectCode string) bool {
	if m.isExact(subjectCode) {
		for _, q := range teacher.Qualifications {
			if strings.TrimSpace(q) == subjectCode {
				return true
			}
		}
		return false
	}
	spellings := m.Spellings(subjectCode)
	for _, q := range teacher.Qualifications {
		q = strings.TrimSpace(q)
		for _, s := range spellings {
			if strings.EqualFold(q, s) {
				return true
			}
		}
	}
	return false
}

// minContainedSpelling is the shortest spelling matched by containment. Shorter
// codes such as "E" or "Ch" occur inside unrelated subject names and only
// match by equality.
const minContainedSpelling = 3

// Relaxed reports whether a teacher qualification equals an accepted spelling
// case-insensitively or contains one of at least minContainedSpelling runes.
// Exact-match codes have no relaxed form and fall back to Strict.
func (m *QualificationMatcher) Relaxed(teacher models.Teacher, subjectCode string) bool {
	if m.isExact(subjectCode) {
		return m.Strict(teacher, subjectCode)
	}
	spellings := m.Spellings(subjectCode)
	for _, q := range teacher.Qualifications {
		q = strings.ToLower(strings.TrimSpace(q))
		if q == "" {
			continue
		}
		for _, s := range spellings {
			s = strings.ToLower(s)
			if s == "" {
				continue
			}
			if q == s {
				return true
			}
			if utf8.RuneCountInString(s) >= minContainedSpelling && strings.Contains(q, s) {
				return true
			}
		}
	}
	return false
}

// QualifiedForAny reports whether the teacher strictly matches at least one of
// the codes and is not excluded from it.
func (m *QualificationMatcher) QualifiedForAny(teacher models.Teacher, codes []string, category string) bool {
	for _, code := range codes {
		if m.Excluded(teacher, code, category) {
			continue
		}
		if m.Strict(teacher, code) {
			return true
		}
	}
	return false
}

func (m *QualificationMatcher) isExact(subjectCode string) bool {
	_, ok := m.exact[subjectCode]
	return ok
}
