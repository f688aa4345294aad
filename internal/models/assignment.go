package models

import "time"

// Semester identifies one half of the school year.
type Semester int

const (
	SemesterFirst  Semester = 1
	SemesterSecond Semester = 2
)

// Semesters lists both halves in order.
var Semesters = [2]Semester{SemesterFirst, SemesterSecond}

// Assignment links a teacher to a class/subject/semester slot.
type Assignment struct {
	ID             string    `db:"id" json:"id"`
	SchoolYear     string    `db:"school_year" json:"school_year"`
	TeacherID      string    `db:"teacher_id" json:"teacher_id"`
	ClassID        string    `db:"class_id" json:"class_id"`
	SubjectID      string    `db:"subject_id" json:"subject_id"`
	Semester       Semester  `db:"semester" json:"semester"`
	HoursPerWeek   float64   `db:"hours_per_week" json:"hours_per_week"`
	TeamTeachingID *string   `db:"team_teaching_id" json:"team_teaching_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
