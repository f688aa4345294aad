package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// RunStatus captures the lifecycle of an optimizer run.
type RunStatus string

const (
	RunStatusQueued    RunStatus = "QUEUED"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusSucceeded RunStatus = "SUCCEEDED"
	RunStatusFailed    RunStatus = "FAILED"
)

// RunTrigger records how a run was started.
type RunTrigger string

const (
	RunTriggerSync  RunTrigger = "sync"
	RunTriggerAsync RunTrigger = "async"
)

// UnresolvedDemand is a (class, base subject) pair no teacher could take.
type UnresolvedDemand struct {
	ClassID     string  `json:"class_id"`
	ClassName   string  `json:"class_name"`
	Grade       int     `json:"grade"`
	BaseSubject string  `json:"base_subject"`
	WeeklyHours float64 `json:"weekly_hours"`
	Reason      string  `json:"reason"`
}

// UnresolvedDemands is stored as JSONB on the run row.
type UnresolvedDemands []UnresolvedDemand

// Value marshals the list to JSON.
func (u UnresolvedDemands) Value() (driver.Value, error) {
	if u == nil {
		u = UnresolvedDemands{}
	}
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("marshal unresolved demands: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSON payload.
func (u *UnresolvedDemands) Scan(value interface{}) error {
	*u = nil
	return scanJSON(value, u)
}

// PlanningRun is the persisted record of one optimizer run.
type PlanningRun struct {
	ID                 string            `db:"id" json:"id"`
	SchoolYear         string            `db:"school_year" json:"school_year"`
	Trigger            RunTrigger        `db:"trigger" json:"trigger"`
	Status             RunStatus         `db:"status" json:"status"`
	AssignmentsCreated int               `db:"assignments_created" json:"assignments_created"`
	FallbackCount      int               `db:"fallback_count" json:"fallback_count"`
	Unresolved         UnresolvedDemands `db:"unresolved" json:"unresolved"`
	RequestedBy        string            `db:"requested_by" json:"requested_by"`
	CreatedAt          time.Time         `db:"created_at" json:"created_at"`
	FinishedAt         *time.Time        `db:"finished_at" json:"finished_at,omitempty"`
	ErrorMessage       *string           `db:"error_message" json:"error_message,omitempty"`
}

var schoolYearPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ValidSchoolYear reports whether s names a school year such as "2025-26".
func ValidSchoolYear(s string) bool {
	return schoolYearPattern.MatchString(s)
}
