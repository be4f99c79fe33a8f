package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/edutrack/student-portal-api/internal/models"
	appErrors "github.com/edutrack/student-portal-api/pkg/errors"
)

const rankSnapshotCacheKey = "rankings:snapshot"

type rankSnapshotRepository interface {
	ScoreSnapshot(ctx context.Context) ([]models.ScoreSnapshotEntry, error)
}

// RankStudents computes one student's standing within the group the groupBy
// key places them in. Group keys compare case-insensitively; the entry
// reports the target student's own key spelling. Students without a score
// are excluded from ranking and from group size. The sort is stable, so
// tied scores keep the snapshot's relative order and every student gets a
// distinct rank: two students tied
// at the top occupy ranks 1 and 2. The second return value is false when the
// student is absent from the snapshot or has no score.
func RankStudents(snapshot []models.ScoreSnapshotEntry, groupBy models.RankGroupBy, studentID int64) (models.RankEntry, bool) {
	var target *models.ScoreSnapshotEntry
	for i := range snapshot {
		if snapshot[i].StudentID == studentID {
			target = &snapshot[i]
			break
		}
	}
	if target == nil || target.Score == nil {
		return models.RankEntry{}, false
	}

	key := groupKey(*target, groupBy)
	group := make([]models.ScoreSnapshotEntry, 0, len(snapshot))
	for _, entry := range snapshot {
		if entry.Score == nil {
			continue
		}
		if strings.EqualFold(groupKey(entry, groupBy), key) {
			group = append(group, entry)
		}
	}

	sort.SliceStable(group, func(i, j int) bool {
		return *group[i].Score > *group[j].Score
	})

	for i, entry := range group {
		if entry.StudentID == studentID {
			return models.RankEntry{
				StudentID: studentID,
				GroupKey:  key,
				Rank:      i + 1,
				GroupSize: len(group),
			}, true
		}
	}
	return models.RankEntry{}, false
}

// GroupLeaderboard returns the ordered standing of one rank group. A zero or
// negative limit returns the whole group.
func GroupLeaderboard(snapshot []models.ScoreSnapshotEntry, groupBy models.RankGroupBy, key string, limit int) []models.LeaderboardEntry {
	key = strings.TrimSpace(key)
	group := make([]models.ScoreSnapshotEntry, 0, len(snapshot))
	for _, entry := range snapshot {
		if entry.Score == nil {
			continue
		}
		if strings.EqualFold(groupKey(entry, groupBy), key) {
			group = append(group, entry)
		}
	}

	sort.SliceStable(group, func(i, j int) bool {
		return *group[i].Score > *group[j].Score
	})

	if limit > 0 && len(group) > limit {
		group = group[:limit]
	}

	board := make([]models.LeaderboardEntry, 0, len(group))
	for i, entry := range group {
		board = append(board, models.LeaderboardEntry{
			Rank:      i + 1,
			StudentID: entry.StudentID,
			FullName:  entry.FullName,
			Score:     *entry.Score,
		})
	}
	return board
}

func groupKey(entry models.ScoreSnapshotEntry, groupBy models.RankGroupBy) string {
	var key string
	switch groupBy {
	case models.RankByCenter:
		key = entry.Center
	case models.RankByCourse:
		key = entry.Course
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return models.UnknownGroupKey
	}
	return key
}

// RankingService answers rank queries over a snapshot of all student scores,
// caching the snapshot between page loads.
type RankingService struct {
	repo        rankSnapshotRepository
	cache       *CacheService
	cacheTTL    time.Duration
	maxPageSize int
	logger      *zap.Logger
	metrics     *MetricsService
}

// NewRankingService constructs the ranking service.
func NewRankingService(repo rankSnapshotRepository, cache *CacheService, cacheTTL time.Duration, maxPageSize int, logger *zap.Logger, metrics *MetricsService) *RankingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxPageSize <= 0 {
		maxPageSize = 200
	}
	return &RankingService{repo: repo, cache: cache, cacheTTL: cacheTTL, maxPageSize: maxPageSize, logger: logger, metrics: metrics}
}

// Rank returns the student's rank and group size for the requested grouping.
func (s *RankingService) Rank(ctx context.Context, studentID int64, groupBy models.RankGroupBy) (*models.RankEntry, error) {
	if studentID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id must be positive")
	}
	if !groupBy.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "groupBy must be center or course")
	}

	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordRankQuery(string(groupBy))
	}

	entry, ok := RankStudents(snapshot, groupBy, studentID)
	if !ok {
		return nil, appErrors.ErrStudentUnranked
	}
	return &entry, nil
}

// Leaderboard returns the ordered standing of one group, capped at limit.
func (s *RankingService) Leaderboard(ctx context.Context, groupBy models.RankGroupBy, key string, limit int) ([]models.LeaderboardEntry, error) {
	if !groupBy.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "groupBy must be center or course")
	}
	if strings.TrimSpace(key) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "group key is required")
	}
	if limit <= 0 || limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordRankQuery(string(groupBy))
	}
	return GroupLeaderboard(snapshot, groupBy, key, limit), nil
}

func (s *RankingService) snapshot(ctx context.Context) ([]models.ScoreSnapshotEntry, error) {
	var cached []models.ScoreSnapshotEntry
	if hit, err := s.cache.Get(ctx, rankSnapshotCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	snapshot, err := s.repo.ScoreSnapshot(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load score snapshot failed")
	}
	if err := s.cache.Set(ctx, rankSnapshotCacheKey, snapshot, s.cacheTTL); err != nil {
		s.logger.Warn("rank snapshot cache refresh failed", zap.Error(err))
	}
	return snapshot, nil
}
