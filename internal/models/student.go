package models

// StudentProfile is the immutable per-request snapshot of a student record.
// Cohort matching and scoring read it; nothing in this service writes it
// beyond the score column.
type StudentProfile struct {
	ID         int64  `db:"id" json:"id"`
	FullName   string `db:"full_name" json:"full_name"`
	Course     string `db:"course" json:"course"`
	CourseType string `db:"course_type" json:"course_type"`
	Center     string `db:"center" json:"center"`
	Gender     string `db:"gender" json:"gender"`
	Score      *int   `db:"score" json:"score,omitempty"`
}

// ScoreSnapshotEntry is one row of the live all-students score snapshot used
// for ranking. Score is nil for students who have never been scored.
type ScoreSnapshotEntry struct {
	StudentID int64  `db:"student_id" json:"student_id"`
	FullName  string `db:"full_name" json:"full_name"`
	Score     *int   `db:"score" json:"score"`
	Center    string `db:"center" json:"center"`
	Course    string `db:"course" json:"course"`
}

// Pagination captures paging metadata on list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
