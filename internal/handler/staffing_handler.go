package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/deputat-planner/internal/dto"
	"github.com/noah-isme/deputat-planner/internal/models"
	"github.com/noah-isme/deputat-planner/internal/service"
	appErrors "github.com/noah-isme/deputat-planner/pkg/errors"
	"github.com/noah-isme/deputat-planner/pkg/response"
)

type staffingService interface {
	GradeHours(ctx context.Context, schoolYear string, semesterView bool) ([]service.GradeDemand, error)
	RosterReport(ctx context.Context, schoolYear string, persist bool) ([]models.StaffingReportLine, error)
	PolicyReport(ctx context.Context, schoolYear string, policy models.StaffingPolicy, persist bool) (*service.PolicyReportResult, error)
	PolicyDefaults() models.StaffingPolicy
	Export(ctx context.Context, schoolYear string, mode models.ReportMode, format string) (*service.ExportFile, error)
}

// StaffingHandler exposes hour aggregation and staffing reports.
type StaffingHandler struct {
	service   staffingService
	validator *validator.Validate
}

// NewStaffingHandler constructs the handler.
func NewStaffingHandler(svc staffingService, validate *validator.Validate) *StaffingHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &StaffingHandler{service: svc, validator: validate}
}

// GradeHours godoc
// @Summary Weekly hour demand per grade
// @Tags Staffing
// @Produce json
// @Param schoolYear path string true "School year"
// @Param semester query bool false "Halve hours for a semester view"
// @Success 200 {object} response.Envelope
// @Router /staffing/{schoolYear}/grade-hours [get]
func (h *StaffingHandler) GradeHours(c *gin.Context) {
	year, err := schoolYearParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	grades, err := h.service.GradeHours(c.Request.Context(), year, queryBool(c, "semester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil)
}

// RosterReport godoc
// @Summary Roster-derived staffing report
// @Tags Staffing
// @Produce json
// @Param schoolYear path string true "School year"
// @Param persist query bool false "Store the lines"
// @Success 200 {object} response.Envelope
// @Router /staffing/{schoolYear}/roster-report [get]
func (h *StaffingHandler) RosterReport(c *gin.Context) {
	year, err := schoolYearParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	lines, err := h.service.RosterReport(c.Request.Context(), year, queryBool(c, "persist"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lines, nil, map[string]interface{}{"count": len(lines)})
}

// PolicyDefaults godoc
// @Summary Default staffing policy
// @Tags Staffing
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /staffing/policy-defaults [get]
func (h *StaffingHandler) PolicyDefaults(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.PolicyDefaults(), nil)
}

// PolicyReport godoc
// @Summary Administrative staffing worksheet
// @Description Fields omitted from the policy keep their defaults.
// @Tags Staffing
// @Accept json
// @Produce json
// @Param schoolYear path string true "School year"
// @Param persist query bool false "Store the lines"
// @Param payload body dto.PolicyReportRequest false "Policy"
// @Success 200 {object} response.Envelope
// @Router /staffing/{schoolYear}/policy-report [post]
func (h *StaffingHandler) PolicyReport(c *gin.Context) {
	year, err := schoolYearParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req := dto.PolicyReportRequest{Policy: h.service.PolicyDefaults()}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid policy payload"))
			return
		}
	}
	result, err := h.service.PolicyReport(c.Request.Context(), year, req.Policy, queryBool(c, "persist"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Export godoc
// @Summary Download a staffing report
// @Tags Staffing
// @Produce octet-stream
// @Param schoolYear path string true "School year"
// @Param mode query string true "roster or policy"
// @Param format query string false "csv, pdf or xlsx"
// @Success 200 {file} file
// @Router /staffing/{schoolYear}/export [get]
func (h *StaffingHandler) Export(c *gin.Context) {
	year, err := schoolYearParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid export query"))
		return
	}
	if err := validateRequest(h.validator, query); err != nil {
		response.Error(c, err)
		return
	}
	if query.Format == "" {
		query.Format = service.FormatCSV
	}
	file, err := h.service.Export(c.Request.Context(), year, query.Mode, query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
