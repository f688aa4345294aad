package models

import (
	"time"

	"github.com/lib/pq"
)

// Teacher represents an instructor record together with its teaching capacity.
type Teacher struct {
	ID             string         `db:"id" json:"id"`
	ShortCode      string         `db:"short_code" json:"short_code"`
	FullName       string         `db:"full_name" json:"full_name"`
	Qualifications pq.StringArray `db:"qualifications" json:"qualifications"`
	MaxHours       float64        `db:"max_hours" json:"max_hours"`
	AssignedHours  float64        `db:"assigned_hours" json:"assigned_hours"`
	Active         bool           `db:"active" json:"active"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// RemainingHours reports how many weekly hours are still free.
func (t Teacher) RemainingHours() float64 {
	return t.MaxHours - t.AssignedHours
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search string
	Active *bool
}

// TeacherWorkload is the assigned-hours value written back after an optimizer run.
type TeacherWorkload struct {
	TeacherID     string  `db:"id" json:"teacher_id"`
	AssignedHours float64 `db:"assigned_hours" json:"assigned_hours"`
}
