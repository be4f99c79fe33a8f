package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edutrack/student-portal-api/internal/models"
	appErrors "github.com/edutrack/student-portal-api/pkg/errors"
)

// StudentRepository reads student profiles and the live score snapshot.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// GetProfile returns one student's profile snapshot.
func (r *StudentRepository) GetProfile(ctx context.Context, id int64) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	err := r.db.GetContext(ctx, &profile,
		`SELECT id, full_name, course, course_type, center, gender, score
FROM students WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("get student profile: %w", err)
	}
	return &profile, nil
}

// ScoreSnapshot returns every student's current score with the fields the
// rank aggregator partitions on. Order is stable (by id) so repeated reads
// of unchanged data rank identically.
func (r *StudentRepository) ScoreSnapshot(ctx context.Context) ([]models.ScoreSnapshotEntry, error) {
	var entries []models.ScoreSnapshotEntry
	if err := r.db.SelectContext(ctx, &entries,
		`SELECT id AS student_id, full_name, score, center, course
FROM students
ORDER BY id`); err != nil {
		return nil, fmt.Errorf("score snapshot: %w", err)
	}
	return entries, nil
}
