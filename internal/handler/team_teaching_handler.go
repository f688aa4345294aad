package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/deputat-planner/internal/dto"
	"github.com/noah-isme/deputat-planner/internal/models"
	appErrors "github.com/noah-isme/deputat-planner/pkg/errors"
	"github.com/noah-isme/deputat-planner/pkg/response"
)

type teamTeachingService interface {
	Form(ctx context.Context, schoolYear string, ids []string) ([]models.Assignment, error)
	Leave(ctx context.Context, schoolYear, assignmentID string) ([]models.Assignment, error)
}

// TeamTeachingHandler links and unlinks co-taught assignments.
type TeamTeachingHandler struct {
	service   teamTeachingService
	validator *validator.Validate
}

// NewTeamTeachingHandler constructs the handler.
func NewTeamTeachingHandler(svc teamTeachingService, validate *validator.Validate) *TeamTeachingHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &TeamTeachingHandler{service: svc, validator: validate}
}

// Form godoc
// @Summary Form a team teaching group
// @Tags Planning
// @Accept json
// @Produce json
// @Param schoolYear path string true "School year"
// @Param payload body dto.TeamTeachingRequest true "Assignments"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /planning/{schoolYear}/team-teaching [post]
func (h *TeamTeachingHandler) Form(c *gin.Context) {
	year, err := schoolYearParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.TeamTeachingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid team teaching payload"))
		return
	}
	if err := validateRequest(h.validator, req); err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.service.Form(c.Request.Context(), year, req.AssignmentIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rows)
}

// Leave godoc
// @Summary Remove an assignment from its team
// @Tags Planning
// @Produce json
// @Param schoolYear path string true "School year"
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /planning/{schoolYear}/team-teaching/{id} [delete]
func (h *TeamTeachingHandler) Leave(c *gin.Context) {
	year, err := schoolYearParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	changed, err := h.service.Leave(c.Request.Context(), year, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, changed, nil)
}
