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

type planningService interface {
	Optimize(ctx context.Context, schoolYear, actorID string) (*service.OptimizeSummary, error)
	OptimizeAsync(ctx context.Context, schoolYear, actorID string) (*models.PlanningRun, error)
	GetRun(ctx context.Context, id string) (*models.PlanningRun, error)
	ListRuns(ctx context.Context, schoolYear string, limit int) ([]models.PlanningRun, error)
	ListAssignments(ctx context.Context, schoolYear string) ([]models.Assignment, error)
}

// PlanningHandler exposes optimizer runs and their results.
type PlanningHandler struct {
	service   planningService
	validator *validator.Validate
	runsPath  string
}

// NewPlanningHandler constructs the handler. runsPath is the public prefix
// used to build status URLs of queued runs.
func NewPlanningHandler(svc planningService, validate *validator.Validate, runsPath string) *PlanningHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &PlanningHandler{service: svc, validator: validate, runsPath: runsPath}
}

// Optimize godoc
// @Summary Run the assignment optimizer
// @Description Replaces every assignment of the school year with a fresh first-fit allocation.
// @Tags Planning
// @Produce json
// @Param schoolYear path string true "School year, e.g. 2025-26"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /planning/{schoolYear}/optimize [post]
func (h *PlanningHandler) Optimize(c *gin.Context) {
	year, err := schoolYearParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.service.Optimize(c.Request.Context(), year, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// OptimizeAsync godoc
// @Summary Queue an optimizer run
// @Tags Planning
// @Produce json
// @Param schoolYear path string true "School year"
// @Success 202 {object} response.Envelope
// @Router /planning/{schoolYear}/optimize/async [post]
func (h *PlanningHandler) OptimizeAsync(c *gin.Context) {
	year, err := schoolYearParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	run, err := h.service.OptimizeAsync(c.Request.Context(), year, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, dto.RunAcceptedResponse{
		RunID:     run.ID,
		Status:    run.Status,
		StatusURL: fmt.Sprintf("%s/%s", h.runsPath, run.ID),
	}, nil)
}

// Assignments godoc
// @Summary List assignments of a school year
// @Tags Planning
// @Produce json
// @Param schoolYear path string true "School year"
// @Success 200 {object} response.Envelope
// @Router /planning/{schoolYear}/assignments [get]
func (h *PlanningHandler) Assignments(c *gin.Context) {
	year, err := schoolYearParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.service.ListAssignments(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil, map[string]interface{}{"count": len(items)})
}

// Runs godoc
// @Summary List recent optimizer runs
// @Tags Planning
// @Produce json
// @Param schoolYear path string true "School year"
// @Param limit query int false "Maximum runs (1-100)"
// @Success 200 {object} response.Envelope
// @Router /planning/{schoolYear}/runs [get]
func (h *PlanningHandler) Runs(c *gin.Context) {
	year, err := schoolYearParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var query dto.RunListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a number"))
		return
	}
	if err := validateRequest(h.validator, query); err != nil {
		response.Error(c, err)
		return
	}
	if query.Limit == 0 {
		query.Limit = 20
	}
	runs, err := h.service.ListRuns(c.Request.Context(), year, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, runs, &models.Pagination{Page: 1, PageSize: query.Limit, TotalCount: len(runs)})
}

// Run godoc
// @Summary Get one optimizer run
// @Tags Planning
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /planning/runs/{id} [get]
func (h *PlanningHandler) Run(c *gin.Context) {
	run, err := h.service.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}
