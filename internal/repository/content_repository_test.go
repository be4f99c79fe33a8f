package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/student-portal-api/internal/models"
)

func TestContentRepositoryListActiveByKind(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewContentRepository(sqlx.NewDb(db, "sqlmock"))

	link := "https://chat.example.com/g11-maadi"
	rows := sqlmock.NewRows([]string{"id", "kind", "title", "link", "course", "course_type", "center", "gender", "active", "created_at"}).
		AddRow("content-1", "group", "Grade 11 Maadi group", link, "Grade11", "All", "Maadi", "Both", true, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, kind, title, link, course, course_type, center, gender, active, created_at")).
		WithArgs(models.ContentKindGroup).
		WillReturnRows(rows)

	items, err := repo.ListActiveByKind(context.Background(), models.ContentKindGroup)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, models.ContentKindGroup, items[0].Kind)
	require.Equal(t, "Maadi", items[0].Scope.Center)
	require.NoError(t, mock.ExpectationsWereMet())
}
