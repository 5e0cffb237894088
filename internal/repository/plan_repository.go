package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/target-saas/study-tracker-api/internal/models"
)

const planColumns = "id, student_id, mentor_id, target_subject, target_hours, completed_hours, status, deadline, created_at, updated_at"

// PlanRepository manages persistence for study plans.
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository constructs a PlanRepository.
func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Create inserts a new study plan.
func (r *PlanRepository) Create(ctx context.Context, plan *models.StudyPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now
	const query = `INSERT INTO study_plans (id, student_id, mentor_id, target_subject, target_hours, completed_hours, status, deadline, created_at, updated_at)
        VALUES (:id, :student_id, :mentor_id, :target_subject, :target_hours, :completed_hours, :status, :deadline, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

// FindByID fetches a plan by ID.
func (r *PlanRepository) FindByID(ctx context.Context, id string) (*models.StudyPlan, error) {
	query := fmt.Sprintf("SELECT %s FROM study_plans WHERE id = $1", planColumns)
	var plan models.StudyPlan
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListByStudent returns every plan of a student, oldest first.
func (r *PlanRepository) ListByStudent(ctx context.Context, studentID string) ([]models.StudyPlan, error) {
	query := fmt.Sprintf("SELECT %s FROM study_plans WHERE student_id = $1 ORDER BY created_at ASC", planColumns)
	var plans []models.StudyPlan
	if err := r.db.SelectContext(ctx, &plans, query, studentID); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// FindFirstBySubject returns the student's first plan whose target subject
// matches exactly, or nil when no plan matches.
func (r *PlanRepository) FindFirstBySubject(ctx context.Context, studentID, subject string) (*models.StudyPlan, error) {
	query := fmt.Sprintf("SELECT %s FROM study_plans WHERE student_id = $1 AND target_subject = $2 ORDER BY created_at ASC LIMIT 1", planColumns)
	var plan models.StudyPlan
	if err := r.db.GetContext(ctx, &plan, query, studentID, subject); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find plan by subject: %w", err)
	}
	return &plan, nil
}

// AddCompletedHours increments the plan's progress counter. The delta is
// already rounded by the caller; the counter never decreases.
func (r *PlanRepository) AddCompletedHours(ctx context.Context, id string, delta float64) error {
	const query = `UPDATE study_plans SET completed_hours = completed_hours + $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, delta, time.Now().UTC()); err != nil {
		return fmt.Errorf("add completed hours: %w", err)
	}
	return nil
}

// UpdateStatus moves the plan to a new lifecycle state.
func (r *PlanRepository) UpdateStatus(ctx context.Context, id string, status models.PlanStatus) error {
	const query = `UPDATE study_plans SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update plan status: %w", err)
	}
	return nil
}
