package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/deputat-planner/internal/middleware"
	"github.com/noah-isme/deputat-planner/internal/models"
	appErrors "github.com/noah-isme/deputat-planner/pkg/errors"
)

func actorID(c *gin.Context) string {
	if claims := middleware.Claims(c); claims != nil {
		return claims.UserID
	}
	return ""
}

// schoolYearParam reads and checks the :schoolYear path segment.
func schoolYearParam(c *gin.Context) (string, error) {
	year := c.Param("schoolYear")
	if !models.ValidSchoolYear(year) {
		return "", appErrors.Clone(appErrors.ErrValidation, "school year must look like 2025-26")
	}
	return year, nil
}

func validateRequest(v *validator.Validate, req interface{}) error {
	if v == nil {
		return nil
	}
	if err := v.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return nil
}

func queryBool(c *gin.Context, key string) bool {
	on, _ := strconv.ParseBool(c.Query(key))
	return on
}
