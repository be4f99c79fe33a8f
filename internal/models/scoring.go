package models

import "time"

// ScoringEventType distinguishes the kinds of reported facts that can move a
// student's score.
type ScoringEventType string

const (
	EventTypeAttendance ScoringEventType = "attendance"
	EventTypeHomework   ScoringEventType = "homework"
)

// Valid returns true when the event type is supported.
func (t ScoringEventType) Valid() bool {
	switch t {
	case EventTypeAttendance, EventTypeHomework:
		return true
	default:
		return false
	}
}

// Statuses reported per event type.
const (
	AttendanceStatusAttend = "attend"
	AttendanceStatusAbsent = "absent"

	HomeworkStatusDone       = "done"
	HomeworkStatusIncomplete = "incomplete"
	HomeworkStatusMissing    = "missing"
)

// ValidStatus reports whether status is a supported value for the event type.
// Comparison is exact; callers normalise case before validation.
func ValidStatus(t ScoringEventType, status string) bool {
	switch t {
	case EventTypeAttendance:
		return status == AttendanceStatusAttend || status == AttendanceStatusAbsent
	case EventTypeHomework:
		return status == HomeworkStatusDone || status == HomeworkStatusIncomplete || status == HomeworkStatusMissing
	default:
		return false
	}
}

// ScoringEvent is a reported fact not yet reflected in a score. It is created
// by the attendance/homework handlers and consumed exactly once by the ledger.
type ScoringEvent struct {
	StudentID  int64            `json:"studentId"`
	Type       ScoringEventType `json:"type"`
	Lesson     string           `json:"lesson"`
	Status     string           `json:"status"`
	OccurredAt time.Time        `json:"occurredAt"`
}

// ScoringHistoryRecord is the append-only record of an applied event. The set
// of records for a (studentId, type, lesson) tuple fully reconstructs the
// transition sequence; a record whose status matches an incoming event gates
// it from being applied again. The JSON shape is the stable external schema
// and must not change.
type ScoringHistoryRecord struct {
	ID             string           `db:"id" json:"-"`
	StudentID      int64            `db:"student_id" json:"studentId"`
	Type           ScoringEventType `db:"event_type" json:"type"`
	Lesson         string           `db:"lesson" json:"lesson"`
	Status         string           `db:"status" json:"status"`
	PreviousStatus *string          `db:"previous_status" json:"previousStatus"`
	AppliedAt      time.Time        `db:"applied_at" json:"appliedAt"`
}

// ApplyResult reports the outcome of one ledger application. Applied=false
// with a nil error is the idempotent no-op path, distinguishable from a
// storage failure which surfaces as an error instead.
type ApplyResult struct {
	Applied        bool    `json:"applied"`
	PreviousStatus *string `json:"previousStatus"`
	Delta          int     `json:"delta"`
}
