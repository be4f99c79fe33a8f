package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edutrack/student-portal-api/internal/models"
	"github.com/edutrack/student-portal-api/pkg/config"
	appErrors "github.com/edutrack/student-portal-api/pkg/errors"
)

type scoringRepository interface {
	ApplyEvent(ctx context.Context, event models.ScoringEvent, deltaFor func(previous string) int) (*models.ApplyResult, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.ScoringHistoryRecord, error)
}

// DeltaStrategy scores a status transition for one event type. It must be a
// pure function of its arguments: the ledger replays transitions from the
// history, and replaying the full history against the same strategy from an
// empty score has to reproduce the final score.
type DeltaStrategy func(eventType models.ScoringEventType, previous, next string) int

// DefaultDeltaStrategy builds the transition scorer from the configured
// per-status point table: the delta of a transition is the new status's
// points minus the previous status's points, so a correction (absent then
// attend) reverses the earlier penalty instead of stacking on top of it.
func DefaultDeltaStrategy(cfg config.ScoringConfig) DeltaStrategy {
	points := func(t models.ScoringEventType, status string) int {
		switch t {
		case models.EventTypeAttendance:
			switch status {
			case models.AttendanceStatusAttend:
				return cfg.AttendPoints
			case models.AttendanceStatusAbsent:
				return cfg.AbsentPoints
			}
		case models.EventTypeHomework:
			switch status {
			case models.HomeworkStatusDone:
				return cfg.HomeworkDonePoints
			case models.HomeworkStatusIncomplete:
				return cfg.HomeworkIncompletePoints
			case models.HomeworkStatusMissing:
				return cfg.HomeworkMissingPoints
			}
		}
		return 0
	}
	return func(t models.ScoringEventType, previous, next string) int {
		return points(t, next) - points(t, previous)
	}
}

// ScoringService is the ledger: it applies scoring events to student scores
// exactly once per distinct status transition, using the append-only history
// as the deduplication source of truth.
type ScoringService struct {
	repo      scoringRepository
	delta     DeltaStrategy
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	cache     *CacheService
}

// NewScoringService constructs the ledger service. cache may be nil; when
// present, applied events invalidate the rank snapshot so rankings reflect
// new scores before the TTL lapses.
func NewScoringService(repo scoringRepository, delta DeltaStrategy, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, cache *CacheService) *ScoringService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ScoringService{repo: repo, delta: delta, validator: validate, logger: logger, metrics: metrics, cache: cache}
	svc.validator.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.ValidStatus(models.EventTypeAttendance, normalizeStatus(fl.Field().String()))
	})
	svc.validator.RegisterValidation("homework_status", func(fl validator.FieldLevel) bool {
		return models.ValidStatus(models.EventTypeHomework, normalizeStatus(fl.Field().String()))
	})
	return svc
}

// MarkAttendanceRequest reports one attendance fact for a lesson.
type MarkAttendanceRequest struct {
	StudentID int64  `json:"student_id" validate:"required,gt=0"`
	Lesson    string `json:"lesson" validate:"required"`
	Status    string `json:"status" validate:"required,attendance_status"`
}

// ReportHomeworkRequest reports one homework completion state for a lesson.
type ReportHomeworkRequest struct {
	StudentID int64  `json:"student_id" validate:"required,gt=0"`
	Lesson    string `json:"lesson" validate:"required"`
	Status    string `json:"status" validate:"required,homework_status"`
}

// MarkAttendance validates and applies an attendance event.
func (s *ScoringService) MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (*models.ApplyResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	return s.Apply(ctx, models.ScoringEvent{
		StudentID:  req.StudentID,
		Type:       models.EventTypeAttendance,
		Lesson:     strings.TrimSpace(req.Lesson),
		Status:     normalizeStatus(req.Status),
		OccurredAt: time.Now().UTC(),
	})
}

// ReportHomework validates and applies a homework event.
func (s *ScoringService) ReportHomework(ctx context.Context, req ReportHomeworkRequest) (*models.ApplyResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid homework payload")
	}
	return s.Apply(ctx, models.ScoringEvent{
		StudentID:  req.StudentID,
		Type:       models.EventTypeHomework,
		Lesson:     strings.TrimSpace(req.Lesson),
		Status:     normalizeStatus(req.Status),
		OccurredAt: time.Now().UTC(),
	})
}

// Apply runs one event through the ledger. Applied=false with a nil error is
// the idempotent no-op for an already-scored transition; storage failures
// come back as errors and never masquerade as no-ops.
func (s *ScoringService) Apply(ctx context.Context, event models.ScoringEvent) (*models.ApplyResult, error) {
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	result, err := s.repo.ApplyEvent(ctx, event, func(previous string) int {
		return s.delta(event.Type, previous, event.Status)
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordScoringEvent(string(event.Type), ScoringOutcomeFailed, 0)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrStudentNotFound
		}
		s.logger.Error("scoring event failed",
			zap.Int64("student_id", event.StudentID),
			zap.String("type", string(event.Type)),
			zap.String("lesson", event.Lesson),
			zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "scoring event failed")
	}

	outcome := ScoringOutcomeApplied
	if !result.Applied {
		outcome = ScoringOutcomeDuplicate
	} else {
		_ = s.cache.Invalidate(ctx, "rankings:*")
	}
	if s.metrics != nil {
		s.metrics.RecordScoringEvent(string(event.Type), outcome, result.Delta)
	}
	s.logger.Info("scoring event",
		zap.Int64("student_id", event.StudentID),
		zap.String("type", string(event.Type)),
		zap.String("lesson", event.Lesson),
		zap.String("status", event.Status),
		zap.Bool("applied", result.Applied),
		zap.Int("delta", result.Delta))
	return result, nil
}

// History returns a student's scoring history, newest first.
func (s *ScoringService) History(ctx context.Context, studentID int64) ([]models.ScoringHistoryRecord, error) {
	if studentID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id must be positive")
	}
	records, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list scoring history failed")
	}
	return records, nil
}

func validateEvent(event models.ScoringEvent) error {
	if event.StudentID <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "student id must be positive")
	}
	if !event.Type.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown event type")
	}
	if strings.TrimSpace(event.Lesson) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "lesson is required")
	}
	if !models.ValidStatus(event.Type, event.Status) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown status for event type")
	}
	return nil
}

func normalizeStatus(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
