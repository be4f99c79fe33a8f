package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders leaderboards into a basic tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document titled after the rank group.
func (e *PDFExporter) Render(board Leaderboard) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	title := fmt.Sprintf("Rankings by %s", board.GroupBy)
	if board.GroupKey != "" {
		title = fmt.Sprintf("%s - %s", title, board.GroupKey)
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	widths := []float64{20, 30, 100, 40}
	pdf.SetFont("Arial", "B", 10)
	for i, header := range leaderboardHeaders {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range board.Rows {
		cells := []string{
			strconv.Itoa(row.Rank),
			strconv.FormatInt(row.StudentID, 10),
			row.StudentName,
			strconv.Itoa(row.Score),
		}
		for i, value := range cells {
			pdf.CellFormat(widths[i], 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
