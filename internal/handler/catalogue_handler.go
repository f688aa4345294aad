package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/deputat-planner/internal/models"
	"github.com/noah-isme/deputat-planner/internal/service"
	"github.com/noah-isme/deputat-planner/pkg/response"
)

type catalogueService interface {
	Teachers(ctx context.Context, filter models.TeacherFilter) ([]service.TeacherLoad, error)
	Teacher(ctx context.Context, id string) (*service.TeacherLoad, error)
	Classes(ctx context.Context, schoolYear string) ([]models.ClassUnit, error)
	Subjects(ctx context.Context) ([]models.Subject, error)
	ParallelGroups(ctx context.Context) ([]models.ParallelGroup, error)
}

// CatalogueHandler exposes the master data read by the planner.
type CatalogueHandler struct {
	service catalogueService
}

// NewCatalogueHandler constructs a CatalogueHandler.
func NewCatalogueHandler(svc catalogueService) *CatalogueHandler {
	return &CatalogueHandler{service: svc}
}

// Teachers godoc
// @Summary List teachers with workload
// @Tags Catalogue
// @Produce json
// @Param search query string false "Search by short code or name"
// @Param active query bool false "Filter by active status"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *CatalogueHandler) Teachers(c *gin.Context) {
	filter := models.TeacherFilter{Search: strings.TrimSpace(c.Query("search"))}
	switch strings.ToLower(c.Query("active")) {
	case "true":
		val := true
		filter.Active = &val
	case "false":
		val := false
		filter.Active = &val
	}

	teachers, err := h.service.Teachers(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil, map[string]interface{}{"count": len(teachers)})
}

// Teacher godoc
// @Summary Get teacher workload
// @Tags Catalogue
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [get]
func (h *CatalogueHandler) Teacher(c *gin.Context) {
	teacher, err := h.service.Teacher(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Classes godoc
// @Summary List classes of a school year
// @Tags Catalogue
// @Produce json
// @Param schoolYear path string true "School year"
// @Success 200 {object} response.Envelope
// @Router /classes/{schoolYear} [get]
func (h *CatalogueHandler) Classes(c *gin.Context) {
	classes, err := h.service.Classes(c.Request.Context(), c.Param("schoolYear"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Subjects godoc
// @Summary List subjects
// @Tags Catalogue
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *CatalogueHandler) Subjects(c *gin.Context) {
	subjects, err := h.service.Subjects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// ParallelGroups godoc
// @Summary List parallel groups
// @Tags Catalogue
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /parallel-groups [get]
func (h *CatalogueHandler) ParallelGroups(c *gin.Context) {
	groups, err := h.service.ParallelGroups(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil)
}
