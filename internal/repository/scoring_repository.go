package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edutrack/student-portal-api/internal/models"
)

// ScoringRepository persists the append-only scoring history and the
// per-student score it gates.
type ScoringRepository struct {
	db *sqlx.DB
}

// NewScoringRepository constructs the repository.
func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

// ApplyEvent applies one scoring event in a single transaction: lock the
// student's score row, read the latest history entry for the event's
// (student, type, lesson) tuple, short-circuit when the status was already
// applied, otherwise insert the history record and add the delta to the
// stored score. deltaFor receives the previous status (empty string on the
// first event for the tuple) and returns the score delta for the transition.
//
// The unique index on (student_id, event_type, lesson, status) backs the
// insert's ON CONFLICT clause, so an identical event racing in from another
// instance lands on the duplicate path instead of double-scoring.
func (r *ScoringRepository) ApplyEvent(ctx context.Context, event models.ScoringEvent, deltaFor func(previous string) int) (*models.ApplyResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin apply scoring event: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var currentScore sql.NullInt64
	if err := tx.GetContext(ctx, &currentScore,
		`SELECT score FROM students WHERE id = $1 FOR UPDATE`, event.StudentID); err != nil {
		return nil, fmt.Errorf("lock student score: %w", err)
	}

	var previous *string
	var prevStatus string
	err = tx.GetContext(ctx, &prevStatus,
		`SELECT status FROM scoring_history
WHERE student_id = $1 AND event_type = $2 AND lesson = $3
ORDER BY applied_at DESC, id DESC LIMIT 1`,
		event.StudentID, event.Type, event.Lesson)
	switch {
	case err == nil:
		previous = &prevStatus
	case err == sql.ErrNoRows:
		// first event for this tuple
	default:
		return nil, fmt.Errorf("find last scoring history: %w", err)
	}

	if previous != nil && *previous == event.Status {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit duplicate scoring event: %w", err)
		}
		committed = true
		return &models.ApplyResult{Applied: false, PreviousStatus: previous, Delta: 0}, nil
	}

	prevValue := ""
	if previous != nil {
		prevValue = *previous
	}
	delta := deltaFor(prevValue)

	var insertedID string
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO scoring_history (id, student_id, event_type, lesson, status, previous_status, applied_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (student_id, event_type, lesson, status) DO NOTHING
RETURNING id`,
		uuid.NewString(), event.StudentID, event.Type, event.Lesson, event.Status, previous, time.Now().UTC()).
		Scan(&insertedID)
	if err != nil {
		if err == sql.ErrNoRows {
			// a concurrent identical event got there first
			if err := tx.Commit(); err != nil {
				return nil, fmt.Errorf("commit conflicting scoring event: %w", err)
			}
			committed = true
			return &models.ApplyResult{Applied: false, PreviousStatus: previous, Delta: 0}, nil
		}
		return nil, fmt.Errorf("insert scoring history: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE students SET score = COALESCE(score, 0) + $1 WHERE id = $2`,
		delta, event.StudentID); err != nil {
		return nil, fmt.Errorf("adjust student score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit apply scoring event: %w", err)
	}
	committed = true
	return &models.ApplyResult{Applied: true, PreviousStatus: previous, Delta: delta}, nil
}

// FindLastHistory returns the most recent history record for the tuple, or
// nil when the tuple has never been scored.
func (r *ScoringRepository) FindLastHistory(ctx context.Context, studentID int64, eventType models.ScoringEventType, lesson string) (*models.ScoringHistoryRecord, error) {
	var record models.ScoringHistoryRecord
	err := r.db.GetContext(ctx, &record,
		`SELECT id, student_id, event_type, lesson, status, previous_status, applied_at
FROM scoring_history
WHERE student_id = $1 AND event_type = $2 AND lesson = $3
ORDER BY applied_at DESC, id DESC LIMIT 1`,
		studentID, eventType, lesson)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find last scoring history: %w", err)
	}
	return &record, nil
}

// ListByStudent returns a student's full scoring history, newest first.
func (r *ScoringRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.ScoringHistoryRecord, error) {
	var records []models.ScoringHistoryRecord
	if err := r.db.SelectContext(ctx, &records,
		`SELECT id, student_id, event_type, lesson, status, previous_status, applied_at
FROM scoring_history
WHERE student_id = $1
ORDER BY applied_at DESC, id DESC`,
		studentID); err != nil {
		return nil, fmt.Errorf("list scoring history: %w", err)
	}
	return records, nil
}
