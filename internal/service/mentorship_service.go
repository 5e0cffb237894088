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

// MentorshipRepository describes the persistence operations the mentorship
// service needs.
type MentorshipRepository interface {
	FindByPair(ctx context.Context, studentID, teacherID string) (*models.Mentorship, error)
	FindByID(ctx context.Context, id string) (*models.Mentorship, error)
	Create(ctx context.Context, m *models.Mentorship) error
	UpdateStatus(ctx context.Context, id string, status models.MentorshipStatus) error
	ListByTeacher(ctx context.Context, teacherID string, status models.MentorshipStatus) ([]models.MentorshipDetail, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.MentorshipDetail, error)
}

// MentorshipService implements the student→teacher mentorship flow.
type MentorshipService struct {
	repo     MentorshipRepository
	users    UserLookup
	validate *validator.Validate
	logger   *zap.Logger
}

// NewMentorshipService constructs a MentorshipService.
func NewMentorshipService(repo MentorshipRepository, users UserLookup, logger *zap.Logger) *MentorshipService {
	return &MentorshipService{
		repo:     repo,
		users:    users,
		validate: validator.New(),
		logger:   logger,
	}
}

// Request creates a pending mentorship toward a teacher. A repeated request
// for the same pair returns the existing record with created=false instead
// of failing.
func (s *MentorshipService) Request(ctx context.Context, studentID string, req models.MentorshipRequest) (*models.Mentorship, bool, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	teacher, err := s.users.FindByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, false, err
	}
	if teacher.Role != models.RoleTeacher || !teacher.IsApproved {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "mentorship requests must target an approved teacher")
	}

	existing, err := s.repo.FindByPair(ctx, studentID, req.TeacherID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	mentorship := &models.Mentorship{
		StudentID: studentID,
		TeacherID: req.TeacherID,
		Status:    models.MentorshipPending,
	}
	if err := s.repo.Create(ctx, mentorship); err != nil {
		return nil, false, err
	}

	s.logger.Info("mentorship requested",
		zap.String("mentorship_id", mentorship.ID),
		zap.String("student_id", studentID),
		zap.String("teacher_id", req.TeacherID))
	return mentorship, true, nil
}

// Respond lets the addressed teacher approve or reject a pending request.
func (s *MentorshipService) Respond(ctx context.Context, teacherID, mentorshipID string, approve bool) (*models.Mentorship, error) {
	mentorship, err := s.repo.FindByID(ctx, mentorshipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	if mentorship.TeacherID != teacherID {
		return nil, appErrors.ErrForbidden
	}
	if mentorship.Status != models.MentorshipPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "mentorship request was already decided")
	}

	status := models.MentorshipRejected
	if approve {
		status = models.MentorshipActive
	}
	if err := s.repo.UpdateStatus(ctx, mentorshipID, status); err != nil {
		return nil, err
	}
	mentorship.Status = status

	s.logger.Info("mentorship decided",
		zap.String("mentorship_id", mentorshipID),
		zap.String("status", string(status)))
	return mentorship, nil
}

// ListForTeacher returns the teacher's mentorships, optionally by status.
func (s *MentorshipService) ListForTeacher(ctx context.Context, teacherID string, status models.MentorshipStatus) ([]models.MentorshipDetail, error) {
	if status != "" {
		switch status {
		case models.MentorshipPending, models.MentorshipActive, models.MentorshipRejected:
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown mentorship status")
		}
	}
	return s.repo.ListByTeacher(ctx, teacherID, status)
}

// ListForStudent returns the student's mentorships with teacher names.
func (s *MentorshipService) ListForStudent(ctx context.Context, studentID string) ([]models.MentorshipDetail, error) {
	return s.repo.ListByStudent(ctx, studentID)
}
