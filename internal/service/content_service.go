package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/edutrack/student-portal-api/internal/cohort"
	"github.com/edutrack/student-portal-api/internal/models"
	appErrors "github.com/edutrack/student-portal-api/pkg/errors"
)

type contentRepository interface {
	ListActiveByKind(ctx context.Context, kind models.ContentKind) ([]models.ScopedContent, error)
}

type studentProfileReader interface {
	GetProfile(ctx context.Context, id int64) (*models.StudentProfile, error)
}

// ContentService resolves which scoped content a student is eligible for.
type ContentService struct {
	content  contentRepository
	students studentProfileReader
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewContentService constructs the content eligibility service.
func NewContentService(content contentRepository, students studentProfileReader, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{content: content, students: students, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// ListEligible returns the active content of one kind whose scope matches the
// student's cohort.
func (s *ContentService) ListEligible(ctx context.Context, studentID int64, kind models.ContentKind) ([]models.ScopedContent, error) {
	if studentID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id must be positive")
	}
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown content kind")
	}

	cacheKey := fmt.Sprintf("content:%s:student:%d", kind, studentID)
	var cached []models.ScopedContent
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	profile, err := s.students.GetProfile(ctx, studentID)
	if err != nil {
		return nil, err
	}

	items, err := s.content.ListActiveByKind(ctx, kind)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list content failed")
	}

	eligible := make([]models.ScopedContent, 0, len(items))
	for _, item := range items {
		if cohort.Matches(item.Scope, *profile) {
			eligible = append(eligible, item)
		}
	}

	if err := s.cache.Set(ctx, cacheKey, eligible, s.cacheTTL); err != nil {
		s.logger.Warn("content cache refresh failed", zap.Int64("student_id", studentID), zap.Error(err))
	}
	return eligible, nil
}
