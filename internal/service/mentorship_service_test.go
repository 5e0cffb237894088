package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/target-saas/study-tracker-api/internal/models"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
)

type mockMentorshipRepo struct {
	records map[string]models.Mentorship
	seq     int
}

func (m *mockMentorshipRepo) FindByPair(ctx context.Context, studentID, teacherID string) (*models.Mentorship, error) {
	for _, r := range m.records {
		if r.StudentID == studentID && r.TeacherID == teacherID {
			found := r
			return &found, nil
		}
	}
	return nil, nil
}

func (m *mockMentorshipRepo) FindByID(ctx context.Context, id string) (*models.Mentorship, error) {
	if r, ok := m.records[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMentorshipRepo) Create(ctx context.Context, mentorship *models.Mentorship) error {
	if m.records == nil {
		m.records = make(map[string]models.Mentorship)
	}
	if mentorship.ID == "" {
		m.seq++
		mentorship.ID = "mentorship-" + string(rune('a'+m.seq))
	}
	m.records[mentorship.ID] = *mentorship
	return nil
}

func (m *mockMentorshipRepo) UpdateStatus(ctx context.Context, id string, status models.MentorshipStatus) error {
	r := m.records[id]
	r.Status = status
	m.records[id] = r
	return nil
}

func (m *mockMentorshipRepo) ListByTeacher(ctx context.Context, teacherID string, status models.MentorshipStatus) ([]models.MentorshipDetail, error) {
	var out []models.MentorshipDetail
	for _, r := range m.records {
		if r.TeacherID == teacherID && (status == "" || r.Status == status) {
			out = append(out, models.MentorshipDetail{Mentorship: r})
		}
	}
	return out, nil
}

func (m *mockMentorshipRepo) ListByStudent(ctx context.Context, studentID string) ([]models.MentorshipDetail, error) {
	var out []models.MentorshipDetail
	for _, r := range m.records {
		if r.StudentID == studentID {
			out = append(out, models.MentorshipDetail{Mentorship: r})
		}
	}
	return out, nil
}

func approvedTeacherLookup() *mockUserLookup {
	return &mockUserLookup{users: map[string]models.User{
		"t1": {ID: "t1", Name: "Prof", Role: models.RoleTeacher, IsApproved: true},
		"t2": {ID: "t2", Name: "Pending", Role: models.RoleTeacher, IsApproved: false},
	}}
}

func TestMentorshipServiceRequestUnknownTeacher(t *testing.T) {
	repo := &mockMentorshipRepo{}
	svc := NewMentorshipService(repo, approvedTeacherLookup(), zap.NewNop())

	mentorship, created, err := svc.Request(context.Background(), "s1", models.MentorshipRequest{TeacherID: "11111111-1111-1111-1111-111111111111"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.Nil(t, mentorship)
	assert.False(t, created)
}

func TestMentorshipServiceRequestDuplicateIsNoOp(t *testing.T) {
	repo := &mockMentorshipRepo{}
	users := &mockUserLookup{users: map[string]models.User{
		"11111111-1111-1111-1111-111111111111": {
			ID: "11111111-1111-1111-1111-111111111111", Name: "Prof", Role: models.RoleTeacher, IsApproved: true,
		},
	}}
	svc := NewMentorshipService(repo, users, zap.NewNop())

	req := models.MentorshipRequest{TeacherID: "11111111-1111-1111-1111-111111111111"}

	first, created, err := svc.Request(context.Background(), "s1", req)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.MentorshipPending, first.Status)

	second, created, err := svc.Request(context.Background(), "s1", req)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.records, 1)
}

func TestMentorshipServiceRespond(t *testing.T) {
	repo := &mockMentorshipRepo{records: map[string]models.Mentorship{
		"m1": {ID: "m1", StudentID: "s1", TeacherID: "t1", Status: models.MentorshipPending},
	}}
	svc := NewMentorshipService(repo, approvedTeacherLookup(), zap.NewNop())

	_, err := svc.Respond(context.Background(), "t2", "m1", true)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	mentorship, err := svc.Respond(context.Background(), "t1", "m1", true)
	require.NoError(t, err)
	assert.Equal(t, models.MentorshipActive, mentorship.Status)

	// Already decided.
	_, err = svc.Respond(context.Background(), "t1", "m1", false)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestMentorshipServiceRejectsUnapprovedTeacher(t *testing.T) {
	users := &mockUserLookup{users: map[string]models.User{
		"22222222-2222-2222-2222-222222222222": {
			ID: "22222222-2222-2222-2222-222222222222", Name: "Pending", Role: models.RoleTeacher, IsApproved: false,
		},
	}}
	svc := NewMentorshipService(&mockMentorshipRepo{}, users, zap.NewNop())

	_, _, err := svc.Request(context.Background(), "s1", models.MentorshipRequest{TeacherID: "22222222-2222-2222-2222-222222222222"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
