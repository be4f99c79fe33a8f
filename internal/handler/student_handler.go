package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edutrack/student-portal-api/internal/models"
	"github.com/edutrack/student-portal-api/pkg/response"
)

type studentRankService interface {
	Rank(ctx context.Context, studentID int64, groupBy models.RankGroupBy) (*models.RankEntry, error)
}

type scoringHistoryService interface {
	History(ctx context.Context, studentID int64) ([]models.ScoringHistoryRecord, error)
}

type eligibleContentService interface {
	ListEligible(ctx context.Context, studentID int64, kind models.ContentKind) ([]models.ScopedContent, error)
}

// StudentHandler serves per-student views: rank, scoring history, eligible content.
type StudentHandler struct {
	rankings studentRankService
	scoring  scoringHistoryService
	content  eligibleContentService
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(rankings studentRankService, scoring scoringHistoryService, content eligibleContentService) *StudentHandler {
	return &StudentHandler{rankings: rankings, scoring: scoring, content: content}
}

// Rank returns the student's rank and group size for ?groupBy=center|course.
// groupBy defaults to center.
func (h *StudentHandler) Rank(c *gin.Context) {
	id, err := parseStudentID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	groupBy := models.RankGroupBy(c.DefaultQuery("groupBy", string(models.RankByCenter)))
	entry, err := h.rankings.Rank(c.Request.Context(), id, groupBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// ScoreHistory returns the student's scoring history, newest first.
func (h *StudentHandler) ScoreHistory(c *gin.Context) {
	id, err := parseStudentID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	records, err := h.scoring.History(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Content lists the scoped content of ?kind=group|quiz|mock_exam the student
// is eligible for.
func (h *StudentHandler) Content(c *gin.Context) {
	id, err := parseStudentID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	kind := models.ContentKind(c.Query("kind"))
	items, err := h.content.ListEligible(c.Request.Context(), id, kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
