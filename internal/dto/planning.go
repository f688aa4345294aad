package dto

import "github.com/noah-isme/deputat-planner/internal/models"

// TeamTeachingRequest captures POST /planning/{schoolYear}/team-teaching.
type TeamTeachingRequest struct {
	AssignmentIDs []string `json:"assignment_ids" validate:"required,min=2,dive,required"`
}

// RunListQuery filters GET /planning/{schoolYear}/runs.
type RunListQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

// PolicyReportRequest captures POST /staffing/{schoolYear}/policy-report.
// Fields omitted from Policy keep their configured defaults.
type PolicyReportRequest struct {
	Policy models.StaffingPolicy `json:"policy"`
}

// ExportQuery selects the stored report and output format of an export.
type ExportQuery struct {
	Mode   models.ReportMode `form:"mode" validate:"required,oneof=roster policy"`
	Format string            `form:"format" validate:"omitempty,oneof=csv pdf xlsx"`
}

// RunAcceptedResponse is returned when an optimizer run is queued.
type RunAcceptedResponse struct {
	RunID     string           `json:"run_id"`
	Status    models.RunStatus `json:"status"`
	StatusURL string           `json:"status_url"`
}
