package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/student-portal-api/internal/models"
	appErrors "github.com/edutrack/student-portal-api/pkg/errors"
)

type rankServiceMock struct {
	entry *models.RankEntry
	err   error
}

func (m *rankServiceMock) Rank(_ context.Context, _ int64, groupBy models.RankGroupBy) (*models.RankEntry, error) {
	if !groupBy.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "groupBy must be center or course")
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.entry, nil
}

type historyServiceMock struct {
	records []models.ScoringHistoryRecord
}

func (m *historyServiceMock) History(context.Context, int64) ([]models.ScoringHistoryRecord, error) {
	return m.records, nil
}

type contentServiceMock struct {
	items []models.ScopedContent
}

func (m *contentServiceMock) ListEligible(_ context.Context, _ int64, kind models.ContentKind) ([]models.ScopedContent, error) {
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown content kind")
	}
	return m.items, nil
}

func getPath(t *testing.T, handlerFunc gin.HandlerFunc, id, rawQuery string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/students/"+id+"?"+rawQuery, nil)
	require.NoError(t, err)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: id}}
	handlerFunc(c)
	return w
}

func newStudentHandler(rank *rankServiceMock) *StudentHandler {
	return NewStudentHandler(rank, &historyServiceMock{}, &contentServiceMock{})
}

func TestStudentHandlerRank(t *testing.T) {
	h := newStudentHandler(&rankServiceMock{entry: &models.RankEntry{StudentID: 1, GroupKey: "Maadi", Rank: 2, GroupSize: 14}})

	w := getPath(t, h.Rank, "1", "groupBy=center")
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.RankEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, 2, envelope.Data.Rank)
	require.Equal(t, 14, envelope.Data.GroupSize)
}

func TestStudentHandlerRankDefaultsToCenter(t *testing.T) {
	h := newStudentHandler(&rankServiceMock{entry: &models.RankEntry{Rank: 1, GroupSize: 1}})

	w := getPath(t, h.Rank, "1", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestStudentHandlerRankBadID(t *testing.T) {
	h := newStudentHandler(&rankServiceMock{})

	w := getPath(t, h.Rank, "abc", "groupBy=center")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentHandlerRankBadGroupBy(t *testing.T) {
	h := newStudentHandler(&rankServiceMock{})

	w := getPath(t, h.Rank, "1", "groupBy=school")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentHandlerRankUnranked(t *testing.T) {
	h := newStudentHandler(&rankServiceMock{err: appErrors.ErrStudentUnranked})

	w := getPath(t, h.Rank, "1", "groupBy=center")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestStudentHandlerContentUnknownKind(t *testing.T) {
	h := newStudentHandler(&rankServiceMock{})

	w := getPath(t, h.Content, "1", "kind=video")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentHandlerScoreHistory(t *testing.T) {
	h := NewStudentHandler(&rankServiceMock{}, &historyServiceMock{records: []models.ScoringHistoryRecord{
		{StudentID: 1, Type: models.EventTypeAttendance, Lesson: "Lesson 3", Status: "attend"},
	}}, &contentServiceMock{})

	w := getPath(t, h.ScoreHistory, "1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.ScoringHistoryRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	require.Equal(t, "Lesson 3", envelope.Data[0].Lesson)
}
