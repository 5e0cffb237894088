package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/target-saas/study-tracker-api/internal/models"
)

const sessionColumns = "id, student_id, task_id, subject, subtitle, date, start_time, end_time, duration_minutes, type, is_validated, completion_comment, completion_file, completion_link, created_at"

// SessionRepository manages persistence for study sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new study session.
func (r *SessionRepository) Create(ctx context.Context, session *models.StudySession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO study_sessions (id, student_id, task_id, subject, subtitle, date, start_time, end_time, duration_minutes, type, is_validated, completion_comment, completion_file, completion_link, created_at)
        VALUES (:id, :student_id, :task_id, :subject, :subtitle, :date, :start_time, :end_time, :duration_minutes, :type, :is_validated, :completion_comment, :completion_file, :completion_link, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// FindByID fetches a session by ID.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.StudySession, error) {
	query := fmt.Sprintf("SELECT %s FROM study_sessions WHERE id = $1", sessionColumns)
	var session models.StudySession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// FindActiveByStudent returns the student's open session, if any.
func (r *SessionRepository) FindActiveByStudent(ctx context.Context, studentID string) (*models.StudySession, error) {
	query := fmt.Sprintf("SELECT %s FROM study_sessions WHERE student_id = $1 AND end_time IS NULL LIMIT 1", sessionColumns)
	var session models.StudySession
	if err := r.db.GetContext(ctx, &session, query, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active session: %w", err)
	}
	return &session, nil
}

// Update persists session mutations performed on stop/validate.
func (r *SessionRepository) Update(ctx context.Context, session *models.StudySession) error {
	const query = `UPDATE study_sessions SET end_time = :end_time, duration_minutes = :duration_minutes, is_validated = :is_validated,
        completion_comment = :completion_comment, completion_file = :completion_file, completion_link = :completion_link WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// ListByStudent returns the student's sessions, newest first.
func (r *SessionRepository) ListByStudent(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, int, error) {
	conditions := []string{"student_id = $1"}
	args := []interface{}{filter.StudentID}

	if filter.Subject != "" {
		args = append(args, filter.Subject)
		conditions = append(conditions, fmt.Sprintf("subject = $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM study_sessions WHERE %s ORDER BY start_time DESC LIMIT %d OFFSET %d", sessionColumns, where, size, offset)

	var sessions []models.StudySession
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM study_sessions WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}
	return sessions, total, nil
}

// ListActive returns every open session with its owner, for monitoring.
func (r *SessionRepository) ListActive(ctx context.Context) ([]models.ActiveSessionDetail, error) {
	const query = `SELECT s.id, s.student_id, s.task_id, s.subject, s.subtitle, s.date, s.start_time, s.end_time, s.duration_minutes, s.type, s.is_validated,
        s.completion_comment, s.completion_file, s.completion_link, s.created_at,
        u.name AS student_name, u.email AS student_email
        FROM study_sessions s
        JOIN users u ON u.id = s.student_id
        WHERE s.end_time IS NULL
        ORDER BY s.start_time ASC`
	var details []models.ActiveSessionDetail
	if err := r.db.SelectContext(ctx, &details, query); err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	return details, nil
}
