package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/noah-isme/deputat-planner/internal/models"
)

// Display colors of report lines.
const (
	ColorDeficit     = "red"
	ColorSurplus     = "green"
	ColorBalanced    = "gray"
	ColorRequirement = "blue"
	ColorCalculated  = "orange"
	ColorSummary     = "green"
)

// Report categories.
const (
	CategoryParallelGroup = "Parallelgruppe"
	CategoryBaseNeed      = "Grundbedarf"
	CategoryCompensation  = "Ausgleichsbedarf"
	CategoryOtherAreas    = "Andere Bereiche"
	CategoryTotal         = "Gesamt"
)

// RosterInput bundles the inputs of the roster-derived calculation.
type RosterInput struct {
	Demands  GradeDemands
	Groups   []models.ParallelGroup
	Subjects []models.Subject
	Teachers []models.Teacher
}

// StaffingCalculator produces staffing report lines. It performs no I/O and
// treats missing configuration as zero.
type StaffingCalculator struct {
	matcher    *QualificationMatcher
	curriculum Curriculum
}

// NewStaffingCalculator constructs a calculator.
func NewStaffingCalculator(matcher *QualificationMatcher) *StaffingCalculator {
	if matcher == nil {
		matcher = NewQualificationMatcher(nil, nil, nil)
	}
	return &StaffingCalculator{matcher: matcher, curriculum: DefaultCurriculum}
}

// RosterReport emits one requirement line per (grade, group) and per
// (grade, subject), comparing demand with the assigned hours of qualified teachers.
func (c *StaffingCalculator) RosterReport(in RosterInput) []models.StaffingReportLine {
	groups := make(map[string]models.ParallelGroup, len(in.Groups))
	for _, g := range in.Groups {
		groups[g.ID] = g
	}
	subjects := make(map[string]models.Subject, len(in.Subjects))
	for _, s := range in.Subjects {
		subjects[s.Code] = s
	}

	var lines []models.StaffingReportLine
	for _, grade := range in.Demands.Grades() {
		demand := in.Demands[grade]
		g := grade

		for _, groupID := range sortedKeys(demand.ParallelGroupHours) {
			group := groups[groupID]
			name := group.Name
			if name == "" {
				name = groupID
			}
			available := c.availableHours(in.Teachers, group.SubjectCodes, subjects)
			lines = append(lines, rosterLine(&g, nil, CategoryParallelGroup,
				fmt.Sprintf("Jahrgang %d - %s (Parallelgruppe)", grade, name),
				demand.ParallelGroupHours[groupID], available,
				"Maximum der Klassen des Jahrgangs, abzüglich Stunden qualifizierter Lehrkräfte der Gruppenfächer"))
		}

		for _, code := range sortedKeys(demand.RegularHours) {
			subject, known := subjects[code]
			var subjectID *string
			category := subject.Category
			label := code
			if known {
				id := subject.ID
				subjectID = &id
				if subject.Name != "" {
					label = subject.Name
				}
			}
			available := c.availableHours(in.Teachers, []string{code}, subjects)
			lines = append(lines, rosterLine(&g, subjectID, category,
				fmt.Sprintf("Jahrgang %d - %s", grade, label),
				demand.RegularHours[code], available,
				"Summe der Klassen des Jahrgangs, abzüglich Stunden qualifizierter Lehrkräfte"))
		}
	}
	numberLines(lines)
	return lines
}

// availableHours sums the assigned hours of active teachers qualified for at
// least one of codes. Overrides are checked against each code's own category.
func (c *StaffingCalculator) availableHours(teachers []models.Teacher, codes []string, subjects map[string]models.Subject) float64 {
	categories := make([]string, len(codes))
	for i, code := range codes {
		categories[i] = c.category(code, codes, subjects)
	}
	var total float64
	for _, t := range teachers {
		if !t.Active {
			continue
		}
		for i, code := range codes {
			if c.matcher.QualifiedForAny(t, []string{code}, categories[i]) {
				total += t.AssignedHours
				break
			}
		}
	}
	return round2(total)
}

// category resolves a subject category from the roster, then the curriculum,
// then the first known category among the code's group siblings.
func (c *StaffingCalculator) category(code string, siblings []string, subjects map[string]models.Subject) string {
	if s, ok := subjects[code]; ok && s.Category != "" {
		return s.Category
	}
	if cat := c.curriculum.Category(code); cat != "" {
		return cat
	}
	for _, sibling := range siblings {
		if s, ok := subjects[sibling]; ok && s.Category != "" {
			return s.Category
		}
	}
	return ""
}

func rosterLine(grade *int, subjectID *string, category, component string, required, available float64, description string) models.StaffingReportLine {
	required = round2(required)
	deficit := round2(required - available)
	return models.StaffingReportLine{
		Grade:          grade,
		SubjectID:      subjectID,
		Category:       category,
		Component:      component,
		LineType:       models.LineTypeRequirement,
		RequiredHours:  required,
		AvailableHours: available,
		Deficit:        deficit,
		Formula: models.FormulaDescriptor{
			Operator: models.OperatorSubtract,
			Operands: []models.FormulaOperand{
				{Label: "Bedarf", Value: required},
				{Label: "Verfügbar", Value: available},
			},
			Description: description,
		},
		Color: deficitColor(deficit),
	}
}

func deficitColor(deficit float64) string {
	switch {
	case deficit > 0:
		return ColorDeficit
	case deficit < 0:
		return ColorSurplus
	default:
		return ColorBalanced
	}
}

type policyItem struct {
	label string
	value float64
}

func compensationItems(c models.CompensationAllowances) []policyItem {
	return []policyItem{
		{"Schulleitung", c.Leadership},
		{"Ganztag", c.FullDaySchool},
		{"Gemeinsames Lernen / Inklusion", c.Inclusion},
		{"Sprachförderung / Integration", c.LanguageSupport},
		{"Sozialindex", c.SocialIndex},
		{"Vertretungsreserve", c.SubstituteReserve},
		{"Altersermäßigung", c.AgeReduction},
		{"Schwerbehinderung", c.SevereDisability},
		{"Personalrat", c.StaffCouncil},
		{"Gleichstellung", c.EqualOpportunity},
		{"Herkunftssprachlicher Unterricht", c.HeritageLanguage},
		{"Begabtenförderung", c.GiftedSupport},
		{"IT-Betreuung / Digitalisierung", c.DigitalSupport},
		{"Berufsorientierung", c.CareerGuidance},
		{"Klassenfrequenzzuschlag", c.ClassSizeSurcharge},
	}
}

func otherAreaItems(p models.StaffingPolicy) []policyItem {
	return []policyItem{
		{"Abordnungen", p.OtherAreas.Secondments},
		{"Sabbatjahr / Freistellung", p.OtherAreas.Sabbatical},
		{"Sonderprojekte", p.OtherAreas.SpecialProjects},
		{"Prüfungsaufgaben", p.OtherAreas.ExamDuties},
		{customLabel(p.Custom1, "Sonstiges 1"), p.Custom1.Hours},
		{customLabel(p.Custom2, "Sonstiges 2"), p.Custom2.Hours},
	}
}

func customLabel(line models.CustomLine, fallback string) string {
	if label := strings.TrimSpace(line.Label); label != "" {
		return label
	}
	return fallback
}

// PolicyReport replicates the administrative staffing worksheet.
func (c *StaffingCalculator) PolicyReport(p models.StaffingPolicy) ([]models.StaffingReportLine, models.PolicyComputation) {
	var out models.PolicyComputation
	var lines []models.StaffingReportLine

	if p.StudentTeacherRatio != 0 {
		out.Quotient = p.StudentCount / p.StudentTeacherRatio
	}
	out.QuotientTruncated = truncate2(out.Quotient)
	out.RoundedBase = halfStep(out.Quotient)

	lines = appendRequirement(lines, CategoryBaseNeed, "Schülerzahl", p.StudentCount)
	lines = appendRequirement(lines, CategoryBaseNeed, "Schüler-Lehrer-Relation", p.StudentTeacherRatio)
	lines = append(lines,
		calculatedLine(CategoryBaseNeed, "Schülerzahl / Relation", models.LineTypeCalculated, out.Quotient, models.OperatorDivide,
			"Schülerzahl geteilt durch Schüler-Lehrer-Relation",
			operand("Schülerzahl", p.StudentCount), operand("Relation", p.StudentTeacherRatio)),
		calculatedLine(CategoryBaseNeed, "Quotient (2 Stellen abgeschnitten)", models.LineTypeCalculated, out.QuotientTruncated, models.OperatorTruncate,
			"Quotient auf zwei Nachkommastellen abgeschnitten",
			operand("Quotient", out.Quotient)),
		calculatedLine(CategoryBaseNeed, "Quotient (halbe Stellen gerundet)", models.LineTypeCalculated, out.RoundedBase, models.OperatorHalfStep,
			"Abrunden, ab Rest 0,5 auf halbe Stelle; nicht in der Summe enthalten",
			operand("Quotient", out.Quotient)),
	)
	lines = appendRequirement(lines, CategoryBaseNeed, "Ausbildungsabzug", p.TrainingDeduction)
	lines = appendRequirement(lines, CategoryBaseNeed, "Rundungsausgleich", p.RoundingAdjustment)

	out.SumBaseNeed = out.QuotientTruncated + p.TrainingDeduction + p.RoundingAdjustment
	lines = append(lines, calculatedLine(CategoryBaseNeed, "Summe Grundbedarf", models.LineTypeCalculated, out.SumBaseNeed, models.OperatorSum,
		"Quotient (abgeschnitten) + Ausbildungsabzug + Rundungsausgleich",
		operand("Quotient (abgeschnitten)", out.QuotientTruncated),
		operand("Ausbildungsabzug", p.TrainingDeduction),
		operand("Rundungsausgleich", p.RoundingAdjustment)))

	var compOperands []models.FormulaOperand
	var compSum float64
	for _, item := range compensationItems(p.Compensation) {
		lines = appendRequirement(lines, CategoryCompensation, item.label, item.value)
		compOperands = append(compOperands, operand(item.label, item.value))
		compSum += item.value
	}
	out.SumCompensationNeed = compSum
	lines = append(lines, calculatedLine(CategoryCompensation, "Summe Ausgleichsbedarf", models.LineTypeCalculated, out.SumCompensationNeed, models.OperatorSum,
		"Summe aller Ausgleichsbedarfe", compOperands...))

	var otherOperands []models.FormulaOperand
	var otherSum float64
	for _, item := range otherAreaItems(p) {
		lines = appendRequirement(lines, CategoryOtherAreas, item.label, item.value)
		otherOperands = append(otherOperands, operand(item.label, item.value))
		otherSum += item.value
	}
	out.SumOtherAreas = otherSum
	lines = append(lines, calculatedLine(CategoryOtherAreas, "Summe andere Bereiche", models.LineTypeCalculated, out.SumOtherAreas, models.OperatorSum,
		"Summe aller anderen Bereiche einschließlich freier Zeilen", otherOperands...))

	out.GrandTotalHours = out.SumBaseNeed + out.SumCompensationNeed + out.SumOtherAreas
	lines = append(lines, calculatedLine(CategoryTotal, "Gesamtbedarf (Stunden)", models.LineTypeSummary, out.GrandTotalHours, models.OperatorSum,
		"Grundbedarf + Ausgleichsbedarf + andere Bereiche",
		operand("Summe Grundbedarf", out.SumBaseNeed),
		operand("Summe Ausgleichsbedarf", out.SumCompensationNeed),
		operand("Summe andere Bereiche", out.SumOtherAreas)))

	lines = appendRequirement(lines, CategoryTotal, "Deputat einer vollen Stelle", p.PerPositionDeputat)
	if p.PerPositionDeputat != 0 {
		out.RequiredPositions = out.GrandTotalHours / p.PerPositionDeputat
	}
	lines = append(lines, calculatedLine(CategoryTotal, "Stellenbedarf", models.LineTypeSummary, out.RequiredPositions, models.OperatorDivide,
		"Gesamtbedarf geteilt durch Deputat einer vollen Stelle",
		operand("Gesamtbedarf", out.GrandTotalHours),
		operand("Deputat", p.PerPositionDeputat)))

	numberLines(lines)
	return lines, out
}

func appendRequirement(lines []models.StaffingReportLine, category, label string, value float64) []models.StaffingReportLine {
	if value == 0 {
		return lines
	}
	return append(lines, models.StaffingReportLine{
		Category:      category,
		Component:     label,
		LineType:      models.LineTypeRequirement,
		RequiredHours: value,
		Deficit:       value,
		Formula: models.FormulaDescriptor{
			Operator:    models.OperatorDirect,
			Operands:    []models.FormulaOperand{operand(label, value)},
			Description: "direct value",
		},
		Color: ColorRequirement,
	})
}

func calculatedLine(category, label string, lineType models.ReportLineType, value float64, operator, description string, operands ...models.FormulaOperand) models.StaffingReportLine {
	color := ColorCalculated
	if lineType == models.LineTypeSummary {
		color = ColorSummary
	}
	return models.StaffingReportLine{
		Category:      category,
		Component:     label,
		LineType:      lineType,
		RequiredHours: value,
		Deficit:       value,
		Formula: models.FormulaDescriptor{
			Operator:    operator,
			Operands:    operands,
			Description: description,
		},
		Color: color,
	}
}

func operand(label string, value float64) models.FormulaOperand {
	return models.FormulaOperand{Label: label, Value: value}
}

func numberLines(lines []models.StaffingReportLine) {
	for i := range lines {
		lines[i].Position = i + 1
	}
}

// truncate2 cuts to two decimals. The epsilon absorbs binary representation
// error such as 0.29*100 = 28.999999999999996.
func truncate2(v float64) float64 {
	return math.Trunc(v*100+1e-9) / 100
}

func halfStep(v float64) float64 {
	base := math.Floor(v)
	if v-base < 0.5 {
		return base
	}
	return base + 0.5
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
