package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/target-saas/study-tracker-api/internal/models"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
)

// TaskRepository describes the persistence operations the task service needs.
type TaskRepository interface {
	Create(ctx context.Context, task *models.AssignedTask) error
	FindByID(ctx context.Context, id string) (*models.AssignedTask, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.AssignedTask, error)
	ListForStudent(ctx context.Context, studentID string) ([]models.AssignedTask, error)
	MarkCompleted(ctx context.Context, id string) error
}

// TaskService implements teacher-assigned tasks, direct or broadcast.
type TaskService struct {
	repo        TaskRepository
	mentorships MentorshipChecker
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewTaskService constructs a TaskService.
func NewTaskService(repo TaskRepository, mentorships MentorshipChecker, logger *zap.Logger) *TaskService {
	return &TaskService{
		repo:        repo,
		mentorships: mentorships,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Assign creates a task. With a student ID the task targets one active
// mentee; without one it becomes a broadcast visible to every active mentee
// of the teacher. attachmentPath is an already-stored upload, or nil.
func (s *TaskService) Assign(ctx context.Context, teacherID string, req models.AssignTaskRequest, attachmentPath *string) (*models.AssignedTask, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	if req.StudentID != nil {
		mentorship, err := s.mentorships.FindByPair(ctx, *req.StudentID, teacherID)
		if err != nil {
			return nil, err
		}
		if mentorship == nil || mentorship.Status != models.MentorshipActive {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "no active mentorship with this student")
		}
	}

	task := &models.AssignedTask{
		TeacherID:      teacherID,
		StudentID:      req.StudentID,
		Title:          req.Title,
		Description:    req.Description,
		ExternalLink:   req.ExternalLink,
		AttachmentPath: attachmentPath,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task assigned",
		zap.String("task_id", task.ID),
		zap.String("teacher_id", teacherID),
		zap.Bool("broadcast", task.StudentID == nil))
	return task, nil
}

// ListForTeacher returns tasks the teacher has assigned, newest first.
func (s *TaskService) ListForTeacher(ctx context.Context, teacherID string) ([]models.AssignedTask, error) {
	return s.repo.ListByTeacher(ctx, teacherID)
}

// ListForStudent returns the student's direct tasks plus broadcasts from
// their active mentors.
func (s *TaskService) ListForStudent(ctx context.Context, studentID string) ([]models.AssignedTask, error) {
	return s.repo.ListForStudent(ctx, studentID)
}

// Complete marks a task done. Only the addressed student may complete a
// direct task; broadcasts are completed by any active mentee of the sender.
func (s *TaskService) Complete(ctx context.Context, studentID, taskID string) (*models.AssignedTask, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}

	if task.StudentID != nil {
		if *task.StudentID != studentID {
			return nil, appErrors.ErrForbidden
		}
	} else {
		mentorship, err := s.mentorships.FindByPair(ctx, studentID, task.TeacherID)
		if err != nil {
			return nil, err
		}
		if mentorship == nil || mentorship.Status != models.MentorshipActive {
			return nil, appErrors.ErrForbidden
		}
	}

	if !task.IsCompleted {
		if err := s.repo.MarkCompleted(ctx, taskID); err != nil {
			return nil, err
		}
		task.IsCompleted = true
	}
	return task, nil
}
