package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/edutrack/student-portal-api/internal/models"
	appErrors "github.com/edutrack/student-portal-api/pkg/errors"
	"github.com/edutrack/student-portal-api/pkg/export"
)

// Export formats supported for leaderboard downloads.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type leaderboardProvider interface {
	Leaderboard(ctx context.Context, groupBy models.RankGroupBy, key string, limit int) ([]models.LeaderboardEntry, error)
}

// ExportResult carries rendered bytes plus download metadata.
type ExportResult struct {
	ContentType string
	Filename    string
	Payload     []byte
}

// ExportService renders group leaderboards into downloadable documents.
type ExportService struct {
	rankings leaderboardProvider
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	enabled  bool
	logger   *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(rankings leaderboardProvider, enabled bool, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		rankings: rankings,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		enabled:  enabled,
		logger:   logger,
	}
}

// Leaderboard renders the standing of one rank group as CSV or PDF.
func (s *ExportService) Leaderboard(ctx context.Context, groupBy models.RankGroupBy, key, format string) (*ExportResult, error) {
	if !s.enabled {
		return nil, appErrors.ErrFeatureDisabled
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	entries, err := s.rankings.Leaderboard(ctx, groupBy, key, 0)
	if err != nil {
		return nil, err
	}

	board := export.Leaderboard{GroupBy: string(groupBy), GroupKey: strings.TrimSpace(key)}
	for _, entry := range entries {
		board.Rows = append(board.Rows, export.LeaderboardRow{
			Rank:        entry.Rank,
			StudentID:   entry.StudentID,
			StudentName: entry.FullName,
			Score:       entry.Score,
		})
	}

	filename := fmt.Sprintf("rankings-%s-%s.%s", groupBy, slugify(key), format)
	switch format {
	case ExportFormatPDF:
		payload, err := s.pdf.Render(board)
		if err != nil {
			s.logger.Error("leaderboard pdf render failed", zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render pdf failed")
		}
		return &ExportResult{ContentType: "application/pdf", Filename: filename, Payload: payload}, nil
	default:
		payload, err := s.csv.Render(board)
		if err != nil {
			s.logger.Error("leaderboard csv render failed", zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv failed")
		}
		return &ExportResult{ContentType: "text/csv", Filename: filename, Payload: payload}, nil
	}
}

func slugify(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	return strings.ReplaceAll(raw, " ", "-")
}
