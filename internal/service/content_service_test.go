package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edutrack/student-portal-api/internal/models"
	appErrors "github.com/edutrack/student-portal-api/pkg/errors"
)

type fakeContentRepo struct {
	items []models.ScopedContent
	calls int
}

func (f *fakeContentRepo) ListActiveByKind(context.Context, models.ContentKind) ([]models.ScopedContent, error) {
	f.calls++
	return f.items, nil
}

type fakeProfileRepo struct {
	profile *models.StudentProfile
}

func (f *fakeProfileRepo) GetProfile(context.Context, int64) (*models.StudentProfile, error) {
	if f.profile == nil {
		return nil, appErrors.ErrStudentNotFound
	}
	return f.profile, nil
}

func grade11MaadiStudent() *models.StudentProfile {
	return &models.StudentProfile{ID: 1, Course: "Grade11", CourseType: "National", Center: "Maadi", Gender: "Male"}
}

func TestContentServiceListEligibleFiltersByCohort(t *testing.T) {
	content := &fakeContentRepo{items: []models.ScopedContent{
		{ID: "c1", Kind: models.ContentKindQuiz, Title: "Broadcast quiz", Scope: models.Scope{Course: "All", Gender: "Both"}},
		{ID: "c2", Kind: models.ContentKindQuiz, Title: "Grade 11 Maadi quiz", Scope: models.Scope{Course: "Grade11", Center: "Maadi"}},
		{ID: "c3", Kind: models.ContentKindQuiz, Title: "Grade 10 quiz", Scope: models.Scope{Course: "Grade10"}},
		{ID: "c4", Kind: models.ContentKindQuiz, Title: "Girls only", Scope: models.Scope{Gender: "Female"}},
	}}
	svc := NewContentService(content, &fakeProfileRepo{profile: grade11MaadiStudent()}, nil, time.Minute, zap.NewNop())

	eligible, err := svc.ListEligible(context.Background(), 1, models.ContentKindQuiz)
	require.NoError(t, err)
	require.Len(t, eligible, 2)
	require.Equal(t, "c1", eligible[0].ID)
	require.Equal(t, "c2", eligible[1].ID)
}

func TestContentServiceListEligibleCaches(t *testing.T) {
	content := &fakeContentRepo{items: []models.ScopedContent{
		{ID: "c1", Kind: models.ContentKindGroup, Title: "Everyone"},
	}}
	cache := NewCacheService(newStubCacheRepo(), nil, time.Minute, zap.NewNop(), true)
	svc := NewContentService(content, &fakeProfileRepo{profile: grade11MaadiStudent()}, cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	_, err := svc.ListEligible(ctx, 1, models.ContentKindGroup)
	require.NoError(t, err)
	_, err = svc.ListEligible(ctx, 1, models.ContentKindGroup)
	require.NoError(t, err)
	require.Equal(t, 1, content.calls, "second listing must come from cache")
}

func TestContentServiceListEligibleUnknownStudent(t *testing.T) {
	svc := NewContentService(&fakeContentRepo{}, &fakeProfileRepo{}, nil, time.Minute, zap.NewNop())

	_, err := svc.ListEligible(context.Background(), 42, models.ContentKindQuiz)
	require.ErrorIs(t, err, appErrors.ErrStudentNotFound)
}

func TestContentServiceListEligibleValidation(t *testing.T) {
	svc := NewContentService(&fakeContentRepo{}, &fakeProfileRepo{profile: grade11MaadiStudent()}, nil, time.Minute, zap.NewNop())
	ctx := context.Background()

	_, err := svc.ListEligible(ctx, 0, models.ContentKindQuiz)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.ListEligible(ctx, 1, models.ContentKind("homework"))
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
