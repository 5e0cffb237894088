package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target-saas/study-tracker-api/internal/models"
)

func TestAggregateRepositoryTotalMinutes(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAggregateRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(duration_minutes), 0) FROM study_sessions WHERE student_id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(135))

	total, err := repo.TotalMinutes(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 135, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAggregateRepositoryRank(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAggregateRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "student_name", "total_minutes"}).
		AddRow("a", "Ada", 120).
		AddRow("b", "Ben", 60).
		AddRow("c", "Cy", 0)
	mock.ExpectQuery("LEFT JOIN study_sessions s ON s.student_id = u.id").
		WithArgs(string(models.RoleStudent)).
		WillReturnRows(rows)

	entries, err := repo.Rank(context.Background(), models.RankFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 120, entries[0].TotalMinutes)
	assert.Equal(t, 0, entries[2].TotalMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAggregateRepositoryRankWithFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAggregateRepository(db)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("AND s.subject = \\$2 AND s.date >= \\$3").
		WithArgs(string(models.RoleStudent), "AWS", from).
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "student_name", "total_minutes"}))

	_, err := repo.Rank(context.Background(), models.RankFilter{Subject: "AWS", DateFrom: &from})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAggregateRepositoryTimeSeries(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAggregateRepository(db)

	rows := sqlmock.NewRows([]string{"date", "total_minutes"}).
		AddRow(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), 60).
		AddRow(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), 90)
	mock.ExpectQuery("GROUP BY date").
		WithArgs("u1", 30).
		WillReturnRows(rows)

	points, err := repo.TimeSeries(context.Background(), "u1", 0)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 60, points[0].TotalMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
