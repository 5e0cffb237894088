package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/target-saas/study-tracker-api/internal/models"
)

const taskColumns = "id, teacher_id, student_id, title, description, external_link, attachment_path, is_completed, created_at"

// TaskRepository manages persistence for assigned tasks.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository constructs a TaskRepository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new assigned task.
func (r *TaskRepository) Create(ctx context.Context, task *models.AssignedTask) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO assigned_tasks (id, teacher_id, student_id, title, description, external_link, attachment_path, is_completed, created_at)
        VALUES (:id, :teacher_id, :student_id, :title, :description, :external_link, :attachment_path, :is_completed, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// FindByID fetches a task by ID.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*models.AssignedTask, error) {
	query := fmt.Sprintf("SELECT %s FROM assigned_tasks WHERE id = $1", taskColumns)
	var task models.AssignedTask
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByTeacher returns the tasks a teacher has assigned, newest first.
func (r *TaskRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.AssignedTask, error) {
	query := fmt.Sprintf("SELECT %s FROM assigned_tasks WHERE teacher_id = $1 ORDER BY created_at DESC", taskColumns)
	var tasks []models.AssignedTask
	if err := r.db.SelectContext(ctx, &tasks, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher tasks: %w", err)
	}
	return tasks, nil
}

// ListForStudent returns tasks addressed directly to the student plus
// broadcasts (NULL student_id) from teachers the student has an active
// mentorship with.
func (r *TaskRepository) ListForStudent(ctx context.Context, studentID string) ([]models.AssignedTask, error) {
	query := fmt.Sprintf(`SELECT %s FROM assigned_tasks t
        WHERE t.student_id = $1
           OR (t.student_id IS NULL AND t.teacher_id IN (
                SELECT m.teacher_id FROM mentorships m
                WHERE m.student_id = $1 AND m.status = $2))
        ORDER BY t.created_at DESC`, prefixColumns("t", taskColumns))
	var tasks []models.AssignedTask
	if err := r.db.SelectContext(ctx, &tasks, query, studentID, models.MentorshipActive); err != nil {
		return nil, fmt.Errorf("list student tasks: %w", err)
	}
	return tasks, nil
}

// MarkCompleted flips the completion flag.
func (r *TaskRepository) MarkCompleted(ctx context.Context, id string) error {
	const query = `UPDATE assigned_tasks SET is_completed = TRUE WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}
