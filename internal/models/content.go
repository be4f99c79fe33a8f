package models

import "time"

// ContentKind enumerates the scoped content delivered through the portal.
type ContentKind string

const (
	ContentKindGroup    ContentKind = "group"
	ContentKindQuiz     ContentKind = "quiz"
	ContentKindMockExam ContentKind = "mock_exam"
)

// Valid returns true when the kind is supported.
func (k ContentKind) Valid() bool {
	switch k {
	case ContentKindGroup, ContentKindQuiz, ContentKindMockExam:
		return true
	default:
		return false
	}
}

// ScopedContent is a cohort-restricted content item (WhatsApp group link,
// quiz, mock exam). Authoring happens elsewhere; this service only reads and
// filters by scope.
type ScopedContent struct {
	ID        string      `db:"id" json:"id"`
	Kind      ContentKind `db:"kind" json:"kind"`
	Title     string      `db:"title" json:"title"`
	Link      *string     `db:"link" json:"link,omitempty"`
	Scope     `json:"scope"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
