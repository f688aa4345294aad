package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// GradeHours maps a grade to a fixed weekly hour value.
type GradeHours map[int]float64

// Value encodes the map as JSON for storage.
func (g GradeHours) Value() (driver.Value, error) {
	if g == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(g)
}

// Scan decodes the JSON column.
func (g *GradeHours) Scan(src interface{}) error {
	return scanJSON(src, g)
}

// ParallelGroup bundles subject offerings that share one timetable slot.
// HoursPerGrade is authoritative over any member subject's own hour value.
type ParallelGroup struct {
	ID            string         `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	SubjectCodes  pq.StringArray `db:"subject_codes" json:"subject_codes"`
	HoursPerGrade GradeHours     `db:"hours_per_grade" json:"hours_per_grade"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}
