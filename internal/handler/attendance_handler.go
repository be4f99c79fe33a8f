package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edutrack/student-portal-api/internal/models"
	"github.com/edutrack/student-portal-api/internal/service"
	appErrors "github.com/edutrack/student-portal-api/pkg/errors"
	"github.com/edutrack/student-portal-api/pkg/response"
)

type attendanceScoring interface {
	MarkAttendance(ctx context.Context, req service.MarkAttendanceRequest) (*models.ApplyResult, error)
}

// AttendanceHandler exposes the attendance-marking endpoint.
type AttendanceHandler struct {
	scoring attendanceScoring
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(scoring attendanceScoring) *AttendanceHandler {
	return &AttendanceHandler{scoring: scoring}
}

// Mark records one attendance fact and applies it through the scoring ledger.
// Retries and duplicate clicks come back as applied=false with no score change.
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req service.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload"))
		return
	}

	result, err := h.scoring.MarkAttendance(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
