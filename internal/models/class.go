package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// SubjectHours maps a subject code to its weekly hour demand.
type SubjectHours map[string]float64

// Codes returns the subject codes in ascending order.
func (h SubjectHours) Codes() []string {
	codes := make([]string, 0, len(h))
	for code := range h {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Value encodes the map as JSON for storage.
func (h SubjectHours) Value() (driver.Value, error) {
	if h == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(h)
}

// Scan decodes the JSON column.
func (h *SubjectHours) Scan(src interface{}) error {
	return scanJSON(src, h)
}

// ClassUnit represents one class of a grade with its subject-hour demand.
type ClassUnit struct {
	ID           string       `db:"id" json:"id"`
	SchoolYear   string       `db:"school_year" json:"school_year"`
	Name         string       `db:"name" json:"name"`
	Grade        int          `db:"grade" json:"grade"`
	StudentCount int          `db:"student_count" json:"student_count"`
	SubjectHours SubjectHours `db:"subject_hours" json:"subject_hours"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

func scanJSON(src interface{}, dest interface{}) error {
	if src == nil {
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported json source %T", src)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
