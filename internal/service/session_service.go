package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/target-saas/study-tracker-api/internal/models"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
)

// SessionRepository describes the persistence operations the session service needs.
type SessionRepository interface {
	Create(ctx context.Context, session *models.StudySession) error
	FindByID(ctx context.Context, id string) (*models.StudySession, error)
	FindActiveByStudent(ctx context.Context, studentID string) (*models.StudySession, error)
	Update(ctx context.Context, session *models.StudySession) error
	ListByStudent(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, int, error)
}

// PlanProgressRepository is the slice of the plan repository that session
// completion feeds.
type PlanProgressRepository interface {
	FindFirstBySubject(ctx context.Context, studentID, subject string) (*models.StudyPlan, error)
	AddCompletedHours(ctx context.Context, id string, delta float64) error
	UpdateStatus(ctx context.Context, id string, status models.PlanStatus) error
}

// MentorshipChecker answers whether a teacher actively mentors a student.
type MentorshipChecker interface {
	FindByPair(ctx context.Context, studentID, teacherID string) (*models.Mentorship, error)
}

// AggregateInvalidator drops cached aggregates after session writes.
type AggregateInvalidator interface {
	InvalidateStudent(ctx context.Context, studentID string)
}

// SessionService implements the study session lifecycle.
type SessionService struct {
	repo        SessionRepository
	plans       PlanProgressRepository
	mentorships MentorshipChecker
	invalidator AggregateInvalidator
	metrics     *MetricsService
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewSessionService constructs a SessionService.
func NewSessionService(repo SessionRepository, plans PlanProgressRepository, mentorships MentorshipChecker, invalidator AggregateInvalidator, metrics *MetricsService, logger *zap.Logger) *SessionService {
	return &SessionService{
		repo:        repo,
		plans:       plans,
		mentorships: mentorships,
		invalidator: invalidator,
		metrics:     metrics,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Start opens a live session for the student. A second concurrent session is
// rejected; the database's partial unique index backs this up under races.
func (s *SessionService) Start(ctx context.Context, studentID string, req models.StartSessionRequest) (*models.StudySession, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	active, err := s.repo.FindActiveByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, appErrors.ErrSessionActive
	}

	kind := models.SessionScheduled
	if req.TaskID != nil {
		kind = models.SessionAssisted
	}

	now := time.Now().UTC()
	session := &models.StudySession{
		StudentID: studentID,
		TaskID:    req.TaskID,
		Subject:   req.Subject,
		Subtitle:  req.Subtitle,
		Date:      now.Truncate(24 * time.Hour),
		StartTime: now,
		Type:      kind,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("session started",
		zap.String("session_id", session.ID),
		zap.String("student_id", studentID),
		zap.String("subject", session.Subject))
	return session, nil
}

// Stop closes the student's active session, computes the duration and feeds
// plan progress. A stopped session counts immediately, so it is marked
// validated here. Stopping with no active session is a 404.
func (s *SessionService) Stop(ctx context.Context, studentID string, req models.StopSessionRequest, completionFile *string) (*models.StudySession, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	session, err := s.repo.FindActiveByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no active study session")
	}

	now := time.Now().UTC()
	session.EndTime = &now
	session.DurationMinutes = durationMinutes(session.StartTime, now)
	session.IsValidated = true
	session.CompletionComment = req.Comment
	session.CompletionLink = req.Link
	session.CompletionFile = completionFile

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, err
	}

	s.applyPlanProgress(ctx, session)
	s.invalidator.InvalidateStudent(ctx, studentID)
	s.metrics.SessionCompleted()

	s.logger.Info("session stopped",
		zap.String("session_id", session.ID),
		zap.Int("duration_minutes", session.DurationMinutes))
	return session, nil
}

// LogManual records an already-finished study block. The duration comes from
// the supplied interval, clamped at zero; manual entries are validated on
// creation.
func (s *SessionService) LogManual(ctx context.Context, studentID string, req models.ManualSessionRequest) (*models.StudySession, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end time must come after start time")
	}

	end := req.EndTime
	session := &models.StudySession{
		StudentID:       studentID,
		Subject:         req.Subject,
		Subtitle:        req.Subtitle,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         &end,
		DurationMinutes: durationMinutes(req.StartTime, req.EndTime),
		IsValidated:     true,
		Type:            sessionType(req.Type),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.applyPlanProgress(ctx, session)
	s.invalidator.InvalidateStudent(ctx, studentID)
	s.metrics.SessionCompleted()

	s.logger.Info("manual session logged",
		zap.String("session_id", session.ID),
		zap.Int("duration_minutes", session.DurationMinutes))
	return session, nil
}

// Validate marks one of the student's own completed sessions as validated.
// Sessions belonging to another student are off limits.
func (s *SessionService) Validate(ctx context.Context, studentID, sessionID string) (*models.StudySession, error) {
	session, err := s.findCompleted(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "session belongs to another student")
	}
	return s.markValidated(ctx, session)
}

// ValidateAsMentor lets a teacher with an active mentorship confirm a
// mentee's completed session.
func (s *SessionService) ValidateAsMentor(ctx context.Context, teacherID, sessionID string) (*models.StudySession, error) {
	session, err := s.findCompleted(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	mentorship, err := s.mentorships.FindByPair(ctx, session.StudentID, teacherID)
	if err != nil {
		return nil, err
	}
	if mentorship == nil || mentorship.Status != models.MentorshipActive {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no active mentorship with this student")
	}
	return s.markValidated(ctx, session)
}

func (s *SessionService) findCompleted(ctx context.Context, sessionID string) (*models.StudySession, error) {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	if session.Active() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot validate a running session")
	}
	return session, nil
}

func (s *SessionService) markValidated(ctx context.Context, session *models.StudySession) (*models.StudySession, error) {
	if !session.IsValidated {
		session.IsValidated = true
		if err := s.repo.Update(ctx, session); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// Active returns the student's running session, or a 404 when none exists.
func (s *SessionService) Active(ctx context.Context, studentID string) (*models.StudySession, error) {
	session, err := s.repo.FindActiveByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no active study session")
	}
	return session, nil
}

// List returns the student's history, newest first.
func (s *SessionService) List(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, *models.Pagination, error) {
	sessions, total, err := s.repo.ListByStudent(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return sessions, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// applyPlanProgress feeds a finished session's hours into the student's
// first plan for the same subject. Progress failures are logged, never
// surfaced; the session itself is already saved.
func (s *SessionService) applyPlanProgress(ctx context.Context, session *models.StudySession) {
	if session.DurationMinutes <= 0 {
		return
	}

	plan, err := s.plans.FindFirstBySubject(ctx, session.StudentID, session.Subject)
	if err != nil {
		s.logger.Warn("plan progress lookup failed", zap.Error(err), zap.String("session_id", session.ID))
		return
	}
	if plan == nil {
		return
	}

	delta := math.Round(float64(session.DurationMinutes)/60*100) / 100
	if err := s.plans.AddCompletedHours(ctx, plan.ID, delta); err != nil {
		s.logger.Warn("plan progress update failed", zap.Error(err), zap.String("plan_id", plan.ID))
		return
	}

	if plan.Status != models.PlanCompleted && plan.CompletedHours+delta >= plan.TargetHours {
		if err := s.plans.UpdateStatus(ctx, plan.ID, models.PlanCompleted); err != nil {
			s.logger.Warn("plan completion update failed", zap.Error(err), zap.String("plan_id", plan.ID))
		}
	}
}

// durationMinutes returns the whole minutes between two instants, never
// negative.
func durationMinutes(start, end time.Time) int {
	minutes := int(end.Sub(start).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}

// sessionType maps a manual log's declared type, defaulting to free.
func sessionType(raw string) models.SessionType {
	switch models.SessionType(raw) {
	case models.SessionScheduled, models.SessionAssisted:
		return models.SessionType(raw)
	default:
		return models.SessionFree
	}
}
