package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edutrack/student-portal-api/internal/models"
	"github.com/edutrack/student-portal-api/internal/service"
	"github.com/edutrack/student-portal-api/pkg/response"
)

type leaderboardService interface {
	Leaderboard(ctx context.Context, groupBy models.RankGroupBy, key string, limit int) ([]models.LeaderboardEntry, error)
}

type leaderboardExportService interface {
	Leaderboard(ctx context.Context, groupBy models.RankGroupBy, key, format string) (*service.ExportResult, error)
}

// RankingHandler serves group leaderboards and their downloadable exports.
type RankingHandler struct {
	rankings leaderboardService
	exports  leaderboardExportService
}

// NewRankingHandler constructs the handler.
func NewRankingHandler(rankings leaderboardService, exports leaderboardExportService) *RankingHandler {
	return &RankingHandler{rankings: rankings, exports: exports}
}

// Leaderboard returns the ordered standing of one rank group:
// ?groupBy=center&key=Maadi&limit=50.
func (h *RankingHandler) Leaderboard(c *gin.Context) {
	groupBy := models.RankGroupBy(c.DefaultQuery("groupBy", string(models.RankByCenter)))
	key := c.Query("key")
	limit := parseQueryInt(c, "limit", 0)

	board, err := h.rankings.Leaderboard(c.Request.Context(), groupBy, key, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, board, nil)
}

// Export streams one group's leaderboard as ?format=csv or pdf.
func (h *RankingHandler) Export(c *gin.Context) {
	groupBy := models.RankGroupBy(c.DefaultQuery("groupBy", string(models.RankByCenter)))
	key := c.Query("key")
	format := c.DefaultQuery("format", service.ExportFormatCSV)

	result, err := h.exports.Leaderboard(c.Request.Context(), groupBy, key, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
