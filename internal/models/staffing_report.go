package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// ReportLineType classifies staffing report lines.
type ReportLineType string

const (
	LineTypeRequirement ReportLineType = "requirement"
	LineTypeCalculated  ReportLineType = "calculated"
	LineTypeSummary     ReportLineType = "summary"
)

// ReportMode names the calculation that produced a report.
type ReportMode string

const (
	ReportModeRoster ReportMode = "roster"
	ReportModePolicy ReportMode = "policy"
)

// Formula operators used in report provenance.
const (
	OperatorDirect   = "direct"
	OperatorSum      = "sum"
	OperatorMax      = "max"
	OperatorDivide   = "divide"
	OperatorTruncate = "truncate"
	OperatorHalfStep = "half_step"
	OperatorSubtract = "subtract"
)

// FormulaOperand is one named input to a formula.
type FormulaOperand struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// FormulaDescriptor records how a line value was derived.
type FormulaDescriptor struct {
	Operator    string           `json:"operator"`
	Operands    []FormulaOperand `json:"operands"`
	Description string           `json:"description"`
}

// Value encodes the descriptor as JSON for storage.
func (f FormulaDescriptor) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan decodes the JSON column.
func (f *FormulaDescriptor) Scan(src interface{}) error {
	return scanJSON(src, f)
}

// StaffingReportLine compares required with available hours for one component.
type StaffingReportLine struct {
	ID             string            `db:"id" json:"id"`
	SchoolYear     string            `db:"school_year" json:"school_year"`
	Mode           ReportMode        `db:"mode" json:"mode"`
	Position       int               `db:"position" json:"position"`
	Grade          *int              `db:"grade" json:"grade,omitempty"`
	SubjectID      *string           `db:"subject_id" json:"subject_id,omitempty"`
	Category       string            `db:"category" json:"category"`
	Component      string            `db:"component" json:"component"`
	LineType       ReportLineType    `db:"line_type" json:"line_type"`
	RequiredHours  float64           `db:"required_hours" json:"required_hours"`
	AvailableHours float64           `db:"available_hours" json:"available_hours"`
	Deficit        float64           `db:"deficit" json:"deficit"`
	Formula        FormulaDescriptor `db:"formula" json:"formula"`
	Color          string            `db:"color" json:"color"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
}
