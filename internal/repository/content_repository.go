package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edutrack/student-portal-api/internal/models"
)

// ContentRepository reads scoped content items. Authoring and CRUD live in a
// different system; this side only lists what may be delivered.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository constructs the repository.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// ListActiveByKind returns the active content items of one kind, scope
// included, ordered by creation time.
func (r *ContentRepository) ListActiveByKind(ctx context.Context, kind models.ContentKind) ([]models.ScopedContent, error) {
	var items []models.ScopedContent
	if err := r.db.SelectContext(ctx, &items,
		`SELECT id, kind, title, link, course, course_type, center, gender, active, created_at
FROM scoped_content
WHERE kind = $1 AND active = TRUE
ORDER BY created_at DESC`, kind); err != nil {
		return nil, fmt.Errorf("list scoped content: %w", err)
	}
	return items, nil
}
