package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edutrack/student-portal-api/internal/models"
	"github.com/edutrack/student-portal-api/pkg/config"
	appErrors "github.com/edutrack/student-portal-api/pkg/errors"
)

// fakeScoringRepo mirrors the real repository's transactional semantics with
// a mutex: check-then-act runs as one critical section, exactly what the
// Postgres row lock plus unique index provide.
type fakeScoringRepo struct {
	mu      sync.Mutex
	history map[string][]models.ScoringHistoryRecord
	scores  map[int64]int
	applyN  int
	failErr error
}

func newFakeScoringRepo() *fakeScoringRepo {
	return &fakeScoringRepo{
		history: make(map[string][]models.ScoringHistoryRecord),
		scores:  make(map[int64]int),
	}
}

func tupleKey(studentID int64, t models.ScoringEventType, lesson string) string {
	return fmt.Sprintf("%d|%s|%s", studentID, t, lesson)
}

func (f *fakeScoringRepo) ApplyEvent(_ context.Context, event models.ScoringEvent, deltaFor func(previous string) int) (*models.ApplyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failErr != nil {
		return nil, f.failErr
	}
	f.applyN++

	key := tupleKey(event.StudentID, event.Type, event.Lesson)
	records := f.history[key]
	var previous *string
	if len(records) > 0 {
		status := records[len(records)-1].Status
		previous = &status
	}
	if previous != nil && *previous == event.Status {
		return &models.ApplyResult{Applied: false, PreviousStatus: previous, Delta: 0}, nil
	}

	prevValue := ""
	if previous != nil {
		prevValue = *previous
	}
	delta := deltaFor(prevValue)

	f.history[key] = append(f.history[key], models.ScoringHistoryRecord{
		StudentID:      event.StudentID,
		Type:           event.Type,
		Lesson:         event.Lesson,
		Status:         event.Status,
		PreviousStatus: previous,
		AppliedAt:      time.Now().UTC(),
	})
	f.scores[event.StudentID] += delta
	return &models.ApplyResult{Applied: true, PreviousStatus: previous, Delta: delta}, nil
}

func (f *fakeScoringRepo) ListByStudent(_ context.Context, studentID int64) ([]models.ScoringHistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []models.ScoringHistoryRecord
	for _, records := range f.history {
		for _, record := range records {
			if record.StudentID == studentID {
				all = append(all, record)
			}
		}
	}
	return all, nil
}

func (f *fakeScoringRepo) score(studentID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scores[studentID]
}

func testScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		AttendPoints:             10,
		AbsentPoints:             -5,
		HomeworkDonePoints:       10,
		HomeworkIncompletePoints: 3,
		HomeworkMissingPoints:    -5,
	}
}

func newTestLedger(repo *fakeScoringRepo) *ScoringService {
	return NewScoringService(repo, DefaultDeltaStrategy(testScoringConfig()), nil, zap.NewNop(), nil, nil)
}

func attendanceEvent(status string) models.ScoringEvent {
	return models.ScoringEvent{
		StudentID:  1,
		Type:       models.EventTypeAttendance,
		Lesson:     "Lesson 3",
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}
}

func TestScoringServiceApplyFirstEventScoresOnce(t *testing.T) {
	repo := newFakeScoringRepo()
	svc := newTestLedger(repo)

	result, err := svc.Apply(context.Background(), attendanceEvent(models.AttendanceStatusAttend))
	require.NoError(t, err)
	require.True(t, result.Applied)
	require.Nil(t, result.PreviousStatus)
	require.Equal(t, 10, result.Delta)
	require.Equal(t, 10, repo.score(1))
}

func TestScoringServiceApplyTwiceIsIdempotent(t *testing.T) {
	repo := newFakeScoringRepo()
	svc := newTestLedger(repo)

	first, err := svc.Apply(context.Background(), attendanceEvent(models.AttendanceStatusAttend))
	require.NoError(t, err)
	require.True(t, first.Applied)
	d := first.Delta

	second, err := svc.Apply(context.Background(), attendanceEvent(models.AttendanceStatusAttend))
	require.NoError(t, err)
	require.False(t, second.Applied)
	require.Zero(t, second.Delta)
	require.NotNil(t, second.PreviousStatus)
	require.Equal(t, models.AttendanceStatusAttend, *second.PreviousStatus)

	require.Equal(t, d, repo.score(1), "score must move by exactly one delta, not two")
}

func TestScoringServiceAbsentThenAttendReversesPenalty(t *testing.T) {
	repo := newFakeScoringRepo()
	svc := newTestLedger(repo)
	ctx := context.Background()

	first, err := svc.Apply(ctx, attendanceEvent(models.AttendanceStatusAbsent))
	require.NoError(t, err)
	require.Equal(t, -5, first.Delta)
	require.Equal(t, -5, repo.score(1))

	second, err := svc.Apply(ctx, attendanceEvent(models.AttendanceStatusAttend))
	require.NoError(t, err)
	require.True(t, second.Applied)
	require.NotNil(t, second.PreviousStatus)
	require.Equal(t, models.AttendanceStatusAbsent, *second.PreviousStatus)
	// attend points minus the absent penalty already on the books
	require.Equal(t, 15, second.Delta)
	require.Equal(t, 10, repo.score(1), "final score must equal a plain attend")
}

func TestScoringServiceReplayFromHistoryReproducesScore(t *testing.T) {
	repo := newFakeScoringRepo()
	svc := newTestLedger(repo)
	ctx := context.Background()

	statuses := []string{
		models.AttendanceStatusAbsent,
		models.AttendanceStatusAttend,
		models.AttendanceStatusAbsent,
		models.AttendanceStatusAttend,
	}
	for _, status := range statuses {
		_, err := svc.Apply(ctx, attendanceEvent(status))
		require.NoError(t, err)
	}

	// replay recorded transitions against the same strategy from zero
	records, err := svc.History(ctx, 1)
	require.NoError(t, err)
	strategy := DefaultDeltaStrategy(testScoringConfig())
	replayed := 0
	for _, record := range records {
		prev := ""
		if record.PreviousStatus != nil {
			prev = *record.PreviousStatus
		}
		replayed += strategy(record.Type, prev, record.Status)
	}
	require.Equal(t, repo.score(1), replayed)
}

func TestScoringServiceDistinctLessonsScoreIndependently(t *testing.T) {
	repo := newFakeScoringRepo()
	svc := newTestLedger(repo)
	ctx := context.Background()

	for _, lesson := range []string{"Lesson 1", "Lesson 2", "Lesson 3"} {
		event := attendanceEvent(models.AttendanceStatusAttend)
		event.Lesson = lesson
		result, err := svc.Apply(ctx, event)
		require.NoError(t, err)
		require.True(t, result.Applied)
	}
	require.Equal(t, 30, repo.score(1))
}

func TestScoringServiceHomeworkTransitions(t *testing.T) {
	repo := newFakeScoringRepo()
	svc := newTestLedger(repo)
	ctx := context.Background()

	event := models.ScoringEvent{
		StudentID:  2,
		Type:       models.EventTypeHomework,
		Lesson:     "Lesson 7",
		Status:     models.HomeworkStatusMissing,
		OccurredAt: time.Now().UTC(),
	}
	result, err := svc.Apply(ctx, event)
	require.NoError(t, err)
	require.Equal(t, -5, result.Delta)

	event.Status = models.HomeworkStatusDone
	result, err = svc.Apply(ctx, event)
	require.NoError(t, err)
	require.Equal(t, 15, result.Delta)
	require.Equal(t, 10, repo.score(2))
}

func TestScoringServiceConcurrentDuplicatesApplyOnce(t *testing.T) {
	repo := newFakeScoringRepo()
	svc := newTestLedger(repo)

	const workers = 32
	results := make([]*models.ApplyResult, workers)
	errs := make([]error, workers)

	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer done.Done()
			start.Wait()
			results[i], errs[i] = svc.Apply(context.Background(), attendanceEvent(models.AttendanceStatusAttend))
		}(i)
	}
	start.Done()
	done.Wait()

	applied := 0
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		if results[i].Applied {
			applied++
		}
	}
	require.Equal(t, 1, applied, "exactly one concurrent duplicate may apply")
	require.Equal(t, 10, repo.score(1))
}

func TestScoringServiceValidation(t *testing.T) {
	svc := newTestLedger(newFakeScoringRepo())
	ctx := context.Background()

	cases := []struct {
		name  string
		event models.ScoringEvent
	}{
		{"zero student", models.ScoringEvent{Type: models.EventTypeAttendance, Lesson: "L1", Status: "attend"}},
		{"unknown type", models.ScoringEvent{StudentID: 1, Type: "exam", Lesson: "L1", Status: "attend"}},
		{"blank lesson", models.ScoringEvent{StudentID: 1, Type: models.EventTypeAttendance, Lesson: "  ", Status: "attend"}},
		{"wrong status for type", models.ScoringEvent{StudentID: 1, Type: models.EventTypeHomework, Lesson: "L1", Status: "attend"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.Apply(ctx, tc.event)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
			assert.Nil(t, result)
		})
	}
}

func TestScoringServiceStorageFailureSurfaces(t *testing.T) {
	repo := newFakeScoringRepo()
	repo.failErr = errors.New("connection refused")
	svc := newTestLedger(repo)

	result, err := svc.Apply(context.Background(), attendanceEvent(models.AttendanceStatusAttend))
	require.Error(t, err)
	require.Nil(t, result, "a storage failure must not look like a duplicate no-op")
	require.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestScoringServiceMarkAttendanceNormalizesInput(t *testing.T) {
	repo := newFakeScoringRepo()
	svc := newTestLedger(repo)

	result, err := svc.MarkAttendance(context.Background(), MarkAttendanceRequest{
		StudentID: 1,
		Lesson:    "  Lesson 3  ",
		Status:    " ATTEND ",
	})
	require.NoError(t, err)
	require.True(t, result.Applied)

	// the raw-cased retry hits the same tuple
	dup, err := svc.Apply(context.Background(), attendanceEvent(models.AttendanceStatusAttend))
	require.NoError(t, err)
	require.False(t, dup.Applied)
}

func TestScoringServiceMarkAttendanceRejectsUnknownStatus(t *testing.T) {
	svc := newTestLedger(newFakeScoringRepo())

	_, err := svc.MarkAttendance(context.Background(), MarkAttendanceRequest{
		StudentID: 1,
		Lesson:    "Lesson 3",
		Status:    "late",
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
