package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/target-saas/study-tracker-api/internal/models"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
)

type mockSessionRepo struct {
	sessions map[string]models.StudySession
	seq      int
}

func (m *mockSessionRepo) Create(ctx context.Context, session *models.StudySession) error {
	if m.sessions == nil {
		m.sessions = make(map[string]models.StudySession)
	}
	if session.ID == "" {
		m.seq++
		session.ID = "session-" + time.Now().Format("150405") + string(rune('a'+m.seq))
	}
	m.sessions[session.ID] = *session
	return nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*models.StudySession, error) {
	if s, ok := m.sessions[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSessionRepo) FindActiveByStudent(ctx context.Context, studentID string) (*models.StudySession, error) {
	for _, s := range m.sessions {
		if s.StudentID == studentID && s.EndTime == nil {
			found := s
			return &found, nil
		}
	}
	return nil, nil
}

func (m *mockSessionRepo) Update(ctx context.Context, session *models.StudySession) error {
	m.sessions[session.ID] = *session
	return nil
}

func (m *mockSessionRepo) ListByStudent(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, int, error) {
	var out []models.StudySession
	for _, s := range m.sessions {
		if s.StudentID == filter.StudentID {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

type mockPlanProgress struct {
	plans     map[string]models.StudyPlan
	deltas    map[string]float64
	completed []string
}

func (m *mockPlanProgress) FindFirstBySubject(ctx context.Context, studentID, subject string) (*models.StudyPlan, error) {
	for _, p := range m.plans {
		if p.StudentID == studentID && p.TargetSubject == subject {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (m *mockPlanProgress) AddCompletedHours(ctx context.Context, id string, delta float64) error {
	if m.deltas == nil {
		m.deltas = make(map[string]float64)
	}
	m.deltas[id] += delta
	return nil
}

func (m *mockPlanProgress) UpdateStatus(ctx context.Context, id string, status models.PlanStatus) error {
	if status == models.PlanCompleted {
		m.completed = append(m.completed, id)
	}
	return nil
}

type mockMentorships struct {
	pairs map[string]models.MentorshipStatus
}

func (m *mockMentorships) FindByPair(ctx context.Context, studentID, teacherID string) (*models.Mentorship, error) {
	if status, ok := m.pairs[studentID+"/"+teacherID]; ok {
		return &models.Mentorship{ID: "m1", StudentID: studentID, TeacherID: teacherID, Status: status}, nil
	}
	return nil, nil
}

type mockInvalidator struct {
	invalidated []string
}

func (m *mockInvalidator) InvalidateStudent(ctx context.Context, studentID string) {
	m.invalidated = append(m.invalidated, studentID)
}

func newSessionService(repo *mockSessionRepo, plans *mockPlanProgress, mentorships *mockMentorships, invalidator *mockInvalidator) *SessionService {
	return NewSessionService(repo, plans, mentorships, invalidator, NewMetricsService(), zap.NewNop())
}

func TestSessionServiceStart(t *testing.T) {
	repo := &mockSessionRepo{}
	svc := newSessionService(repo, &mockPlanProgress{}, &mockMentorships{}, &mockInvalidator{})

	session, err := svc.Start(context.Background(), "student-1", models.StartSessionRequest{Subject: "AWS"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, models.SessionScheduled, session.Type)
	assert.True(t, session.Active())
	assert.False(t, session.IsValidated)
}

func TestSessionServiceStartTypeFollowsTask(t *testing.T) {
	repo := &mockSessionRepo{}
	svc := newSessionService(repo, &mockPlanProgress{}, &mockMentorships{}, &mockInvalidator{})

	taskID := "7f8d2c2e-0c1a-4b8f-9a59-3f2b3f6f1a01"
	session, err := svc.Start(context.Background(), "student-1", models.StartSessionRequest{Subject: "AWS", TaskID: &taskID})
	require.NoError(t, err)
	assert.Equal(t, models.SessionAssisted, session.Type)
}

func TestSessionServiceStartConflict(t *testing.T) {
	repo := &mockSessionRepo{}
	svc := newSessionService(repo, &mockPlanProgress{}, &mockMentorships{}, &mockInvalidator{})

	_, err := svc.Start(context.Background(), "student-1", models.StartSessionRequest{Subject: "AWS"})
	require.NoError(t, err)

	_, err = svc.Start(context.Background(), "student-1", models.StartSessionRequest{Subject: "Linux"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrSessionActive))
}

func TestSessionServiceStopComputesDurationAndFeedsPlan(t *testing.T) {
	repo := &mockSessionRepo{sessions: map[string]models.StudySession{
		"s1": {ID: "s1", StudentID: "student-1", Subject: "AWS", StartTime: time.Now().UTC().Add(-90 * time.Minute)},
	}}
	plans := &mockPlanProgress{plans: map[string]models.StudyPlan{
		"p1": {ID: "p1", StudentID: "student-1", TargetSubject: "AWS", TargetHours: 10, CompletedHours: 0, Status: models.PlanActive},
	}}
	invalidator := &mockInvalidator{}
	svc := newSessionService(repo, plans, &mockMentorships{}, invalidator)

	session, err := svc.Stop(context.Background(), "student-1", models.StopSessionRequest{}, nil)
	require.NoError(t, err)
	assert.False(t, session.Active())
	assert.Equal(t, 90, session.DurationMinutes)
	assert.True(t, session.IsValidated)
	assert.True(t, repo.sessions["s1"].IsValidated)
	assert.InDelta(t, 1.5, plans.deltas["p1"], 0.0001)
	assert.Equal(t, []string{"student-1"}, invalidator.invalidated)
}

func TestSessionServiceStopWithoutActive(t *testing.T) {
	svc := newSessionService(&mockSessionRepo{}, &mockPlanProgress{}, &mockMentorships{}, &mockInvalidator{})

	_, err := svc.Stop(context.Background(), "student-1", models.StopSessionRequest{}, nil)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestSessionServiceLogManual(t *testing.T) {
	repo := &mockSessionRepo{}
	plans := &mockPlanProgress{plans: map[string]models.StudyPlan{
		"p1": {ID: "p1", StudentID: "student-1", TargetSubject: "AWS", TargetHours: 1.5, CompletedHours: 0.5, Status: models.PlanActive},
	}}
	svc := newSessionService(repo, plans, &mockMentorships{}, &mockInvalidator{})

	start := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	session, err := svc.LogManual(context.Background(), "student-1", models.ManualSessionRequest{
		Subject:   "AWS",
		Date:      start,
		StartTime: start,
		EndTime:   start.Add(90 * time.Minute),
	})
	require.NoError(t, err)
	assert.Equal(t, 90, session.DurationMinutes)
	assert.True(t, session.IsValidated)
	assert.InDelta(t, 1.5, plans.deltas["p1"], 0.0001)
	// 0.5 already done plus 1.5 new crosses the 1.5h target.
	assert.Contains(t, plans.completed, "p1")
}

func TestSessionServiceLogManualRejectsInvertedInterval(t *testing.T) {
	svc := newSessionService(&mockSessionRepo{}, &mockPlanProgress{}, &mockMentorships{}, &mockInvalidator{})

	start := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	_, err := svc.LogManual(context.Background(), "student-1", models.ManualSessionRequest{
		Subject:   "AWS",
		Date:      start,
		StartTime: start,
		EndTime:   start.Add(-time.Hour),
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestSessionServiceValidateByOwner(t *testing.T) {
	end := time.Now().UTC()
	repo := &mockSessionRepo{sessions: map[string]models.StudySession{
		"s1": {ID: "s1", StudentID: "student-1", Subject: "AWS", StartTime: end.Add(-time.Hour), EndTime: &end, DurationMinutes: 60},
	}}
	svc := newSessionService(repo, &mockPlanProgress{}, &mockMentorships{}, &mockInvalidator{})

	session, err := svc.Validate(context.Background(), "student-1", "s1")
	require.NoError(t, err)
	assert.True(t, session.IsValidated)
	assert.True(t, repo.sessions["s1"].IsValidated)

	// Someone else's session is off limits.
	_, err = svc.Validate(context.Background(), "student-2", "s1")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestSessionServiceValidateRejectsRunning(t *testing.T) {
	repo := &mockSessionRepo{sessions: map[string]models.StudySession{
		"s1": {ID: "s1", StudentID: "student-1", Subject: "AWS", StartTime: time.Now().UTC().Add(-time.Hour)},
	}}
	svc := newSessionService(repo, &mockPlanProgress{}, &mockMentorships{}, &mockInvalidator{})

	_, err := svc.Validate(context.Background(), "student-1", "s1")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestSessionServiceMentorValidateRequiresMentorship(t *testing.T) {
	end := time.Now().UTC()
	repo := &mockSessionRepo{sessions: map[string]models.StudySession{
		"s1": {ID: "s1", StudentID: "student-1", Subject: "AWS", StartTime: end.Add(-time.Hour), EndTime: &end, DurationMinutes: 60},
	}}
	mentorships := &mockMentorships{pairs: map[string]models.MentorshipStatus{
		"student-1/teacher-1": models.MentorshipActive,
		"student-1/teacher-2": models.MentorshipPending,
	}}
	svc := newSessionService(repo, &mockPlanProgress{}, mentorships, &mockInvalidator{})

	session, err := svc.ValidateAsMentor(context.Background(), "teacher-1", "s1")
	require.NoError(t, err)
	assert.True(t, session.IsValidated)

	_, err = svc.ValidateAsMentor(context.Background(), "teacher-2", "s1")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestDurationMinutesNeverNegative(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 0, durationMinutes(now, now.Add(-time.Hour)))
	assert.Equal(t, 0, durationMinutes(now, now.Add(30*time.Second)))
	assert.Equal(t, 90, durationMinutes(now, now.Add(90*time.Minute)))
}
