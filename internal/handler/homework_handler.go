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

type homeworkScoring interface {
	ReportHomework(ctx context.Context, req service.ReportHomeworkRequest) (*models.ApplyResult, error)
}

// HomeworkHandler exposes the homework status reporting endpoint.
type HomeworkHandler struct {
	scoring homeworkScoring
}

// NewHomeworkHandler constructs the handler.
func NewHomeworkHandler(scoring homeworkScoring) *HomeworkHandler {
	return &HomeworkHandler{scoring: scoring}
}

// Report records one homework completion state for a lesson.
func (h *HomeworkHandler) Report(c *gin.Context) {
	var req service.ReportHomeworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid homework payload"))
		return
	}

	result, err := h.scoring.ReportHomework(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
