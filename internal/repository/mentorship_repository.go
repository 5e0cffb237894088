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

const mentorshipColumns = "id, student_id, teacher_id, status, created_at, updated_at"

// MentorshipRepository manages persistence for mentorship links.
type MentorshipRepository struct {
	db *sqlx.DB
}

// NewMentorshipRepository constructs a MentorshipRepository.
func NewMentorshipRepository(db *sqlx.DB) *MentorshipRepository {
	return &MentorshipRepository{db: db}
}

// FindByPair returns the mentorship between a student and a teacher, or nil.
// The one-record-per-pair invariant rests on callers checking this first.
func (r *MentorshipRepository) FindByPair(ctx context.Context, studentID, teacherID string) (*models.Mentorship, error) {
	query := fmt.Sprintf("SELECT %s FROM mentorships WHERE student_id = $1 AND teacher_id = $2 LIMIT 1", mentorshipColumns)
	var m models.Mentorship
	if err := r.db.GetContext(ctx, &m, query, studentID, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find mentorship: %w", err)
	}
	return &m, nil
}

// FindByID fetches a mentorship by ID.
func (r *MentorshipRepository) FindByID(ctx context.Context, id string) (*models.Mentorship, error) {
	query := fmt.Sprintf("SELECT %s FROM mentorships WHERE id = $1", mentorshipColumns)
	var m models.Mentorship
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new mentorship record.
func (r *MentorshipRepository) Create(ctx context.Context, m *models.Mentorship) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	const query = `INSERT INTO mentorships (id, student_id, teacher_id, status, created_at, updated_at)
        VALUES (:id, :student_id, :teacher_id, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("create mentorship: %w", err)
	}
	return nil
}

// UpdateStatus transitions a mentorship request.
func (r *MentorshipRepository) UpdateStatus(ctx context.Context, id string, status models.MentorshipStatus) error {
	const query = `UPDATE mentorships SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update mentorship status: %w", err)
	}
	return nil
}

// ListByTeacher returns mentorships for a teacher, optionally by status.
func (r *MentorshipRepository) ListByTeacher(ctx context.Context, teacherID string, status models.MentorshipStatus) ([]models.MentorshipDetail, error) {
	query := fmt.Sprintf(`SELECT %s, su.name AS student_name, tu.name AS teacher_name
        FROM mentorships m
        JOIN users su ON su.id = m.student_id
        JOIN users tu ON tu.id = m.teacher_id
        WHERE m.teacher_id = $1`, prefixColumns("m", mentorshipColumns))
	args := []interface{}{teacherID}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND m.status = $%d", len(args))
	}
	query += " ORDER BY m.created_at ASC"

	var details []models.MentorshipDetail
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, fmt.Errorf("list teacher mentorships: %w", err)
	}
	return details, nil
}

// ListByStudent returns the student's mentorships with teacher names.
func (r *MentorshipRepository) ListByStudent(ctx context.Context, studentID string) ([]models.MentorshipDetail, error) {
	query := fmt.Sprintf(`SELECT %s, su.name AS student_name, tu.name AS teacher_name
        FROM mentorships m
        JOIN users su ON su.id = m.student_id
        JOIN users tu ON tu.id = m.teacher_id
        WHERE m.student_id = $1
        ORDER BY m.created_at ASC`, prefixColumns("m", mentorshipColumns))
	var details []models.MentorshipDetail
	if err := r.db.SelectContext(ctx, &details, query, studentID); err != nil {
		return nil, fmt.Errorf("list student mentorships: %w", err)
	}
	return details, nil
}

func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}
