package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/edutrack/student-portal-api/pkg/errors"
)

func parseQueryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func parseStudentID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "student id must be a positive integer")
	}
	return id, nil
}
