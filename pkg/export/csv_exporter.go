package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// LeaderboardRow is one rendered line of a group leaderboard.
type LeaderboardRow struct {
	Rank        int
	StudentID   int64
	StudentName string
	Score       int
}

// Leaderboard describes an exportable standing for one rank group.
type Leaderboard struct {
	GroupBy  string
	GroupKey string
	Rows     []LeaderboardRow
}

var leaderboardHeaders = []string{"rank", "student_id", "student_name", "score"}

// CSVExporter renders leaderboards into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the leaderboard.
func (e *CSVExporter) Render(board Leaderboard) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(leaderboardHeaders); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range board.Rows {
		record := []string{
			strconv.Itoa(row.Rank),
			strconv.FormatInt(row.StudentID, 10),
			row.StudentName,
			strconv.Itoa(row.Score),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
