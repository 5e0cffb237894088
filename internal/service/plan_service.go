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

// PlanRepository describes the persistence operations the plan service needs.
type PlanRepository interface {
	Create(ctx context.Context, plan *models.StudyPlan) error
	FindByID(ctx context.Context, id string) (*models.StudyPlan, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.StudyPlan, error)
	UpdateStatus(ctx context.Context, id string, status models.PlanStatus) error
}

// PlanService implements mentor-assigned study plans.
type PlanService struct {
	repo        PlanRepository
	mentorships MentorshipChecker
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewPlanService constructs a PlanService.
func NewPlanService(repo PlanRepository, mentorships MentorshipChecker, logger *zap.Logger) *PlanService {
	return &PlanService{
		repo:        repo,
		mentorships: mentorships,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Create assigns a target-hours plan to a mentee. The mentor must hold an
// active mentorship with the student.
func (s *PlanService) Create(ctx context.Context, mentorID string, req models.CreatePlanRequest) (*models.StudyPlan, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	mentorship, err := s.mentorships.FindByPair(ctx, req.StudentID, mentorID)
	if err != nil {
		return nil, err
	}
	if mentorship == nil || mentorship.Status != models.MentorshipActive {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no active mentorship with this student")
	}

	plan := &models.StudyPlan{
		StudentID:     req.StudentID,
		MentorID:      mentorID,
		TargetSubject: req.TargetSubject,
		TargetHours:   req.TargetHours,
		Status:        models.PlanBacklog,
		Deadline:      req.Deadline,
	}
	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, err
	}

	s.logger.Info("plan created",
		zap.String("plan_id", plan.ID),
		zap.String("student_id", plan.StudentID),
		zap.String("subject", plan.TargetSubject))
	return plan, nil
}

// ListForStudent returns every plan of a student, oldest first.
func (s *PlanService) ListForStudent(ctx context.Context, studentID string) ([]models.StudyPlan, error) {
	return s.repo.ListByStudent(ctx, studentID)
}

// UpdateStatus lets the owning student move a plan between lifecycle states.
func (s *PlanService) UpdateStatus(ctx context.Context, studentID, planID string, req models.UpdatePlanStatusRequest) (*models.StudyPlan, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	plan, err := s.repo.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	if plan.StudentID != studentID {
		return nil, appErrors.ErrForbidden
	}

	if err := s.repo.UpdateStatus(ctx, planID, req.Status); err != nil {
		return nil, err
	}
	plan.Status = req.Status
	return plan, nil
}
