package repository

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target-saas/study-tracker-api/internal/models"
)

func sessionRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "student_id", "task_id", "subject", "subtitle", "date", "start_time", "end_time", "duration_minutes", "type", "is_validated", "completion_comment", "completion_file", "completion_link", "created_at"}).
		AddRow("s1", "u1", nil, "AWS", nil, now, now, nil, 0, string(models.SessionFree), false, nil, nil, nil, now)
}

func TestSessionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec("INSERT INTO study_sessions").WillReturnResult(sqlmock.NewResult(1, 1))

	session := &models.StudySession{StudentID: "u1", Subject: "AWS", StartTime: time.Now(), Type: models.SessionFree}
	err := repo.Create(context.Background(), session)
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryFindActiveByStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	query := fmt.Sprintf("SELECT %s FROM study_sessions WHERE student_id = $1 AND end_time IS NULL LIMIT 1", sessionColumns)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("u1").
		WillReturnRows(sessionRows(time.Now()))

	session, err := repo.FindActiveByStudent(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.True(t, session.Active())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryFindActiveByStudentNone(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	query := fmt.Sprintf("SELECT %s FROM study_sessions WHERE student_id = $1 AND end_time IS NULL LIMIT 1", sessionColumns)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// No open session is nil, nil: not an error.
	session, err := repo.FindActiveByStudent(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "task_id", "subject", "subtitle", "date", "start_time", "end_time", "duration_minutes", "type", "is_validated", "completion_comment", "completion_file", "completion_link", "created_at", "student_name", "student_email"}).
		AddRow("s1", "u1", nil, "AWS", nil, time.Now(), time.Now(), nil, 0, string(models.SessionFree), false, nil, nil, nil, time.Now(), "Ada", "ada@example.com")
	mock.ExpectQuery("SELECT .+ FROM study_sessions s").WillReturnRows(rows)

	details, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Ada", details[0].StudentName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
