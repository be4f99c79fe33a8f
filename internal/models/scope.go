package models

// Wildcard tokens a Scope field may carry to match any student value. An
// empty field means the same thing.
const (
	ScopeAll  = "All"
	ScopeBoth = "Both"
)

// Scope restricts a piece of content (message group, quiz, mock exam) to a
// cohort of students. Each field independently may be empty or carry its
// wildcard token, in which case it matches every student.
type Scope struct {
	Course     string `db:"course" json:"course"`
	CourseType string `db:"course_type" json:"course_type"`
	Center     string `db:"center" json:"center"`
	Gender     string `db:"gender" json:"gender"`
}
