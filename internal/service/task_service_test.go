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

type mockTaskRepo struct {
	tasks map[string]models.AssignedTask
	seq   int
}

func (m *mockTaskRepo) Create(ctx context.Context, task *models.AssignedTask) error {
	if m.tasks == nil {
		m.tasks = make(map[string]models.AssignedTask)
	}
	if task.ID == "" {
		m.seq++
		task.ID = "task-" + string(rune('a'+m.seq))
	}
	m.tasks[task.ID] = *task
	return nil
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id string) (*models.AssignedTask, error) {
	if t, ok := m.tasks[id]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTaskRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.AssignedTask, error) {
	var out []models.AssignedTask
	for _, t := range m.tasks {
		if t.TeacherID == teacherID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTaskRepo) ListForStudent(ctx context.Context, studentID string) ([]models.AssignedTask, error) {
	var out []models.AssignedTask
	for _, t := range m.tasks {
		if t.StudentID != nil && *t.StudentID == studentID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTaskRepo) MarkCompleted(ctx context.Context, id string) error {
	t := m.tasks[id]
	t.IsCompleted = true
	m.tasks[id] = t
	return nil
}

func TestTaskServiceAssignRequiresMentorship(t *testing.T) {
	mentorships := &mockMentorships{pairs: map[string]models.MentorshipStatus{
		"00000000-0000-0000-0000-000000000001/t1": models.MentorshipActive,
	}}
	svc := NewTaskService(&mockTaskRepo{}, mentorships, zap.NewNop())

	mentee := "00000000-0000-0000-0000-000000000001"
	task, err := svc.Assign(context.Background(), "t1", models.AssignTaskRequest{StudentID: &mentee, Title: "Read chapter 3"}, nil)
	require.NoError(t, err)
	assert.Equal(t, mentee, *task.StudentID)

	stranger := "00000000-0000-0000-0000-000000000002"
	_, err = svc.Assign(context.Background(), "t1", models.AssignTaskRequest{StudentID: &stranger, Title: "Nope"}, nil)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestTaskServiceBroadcastAssign(t *testing.T) {
	svc := NewTaskService(&mockTaskRepo{}, &mockMentorships{}, zap.NewNop())

	task, err := svc.Assign(context.Background(), "t1", models.AssignTaskRequest{Title: "Weekly review"}, nil)
	require.NoError(t, err)
	assert.Nil(t, task.StudentID)
}

func TestTaskServiceComplete(t *testing.T) {
	mentee := "s1"
	repo := &mockTaskRepo{tasks: map[string]models.AssignedTask{
		"direct":    {ID: "direct", TeacherID: "t1", StudentID: &mentee, Title: "Direct"},
		"broadcast": {ID: "broadcast", TeacherID: "t1", Title: "Broadcast"},
	}}
	mentorships := &mockMentorships{pairs: map[string]models.MentorshipStatus{
		"s1/t1": models.MentorshipActive,
	}}
	svc := NewTaskService(repo, mentorships, zap.NewNop())

	task, err := svc.Complete(context.Background(), "s1", "direct")
	require.NoError(t, err)
	assert.True(t, task.IsCompleted)

	_, err = svc.Complete(context.Background(), "s2", "direct")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	task, err = svc.Complete(context.Background(), "s1", "broadcast")
	require.NoError(t, err)
	assert.True(t, task.IsCompleted)

	// s2 has no active mentorship with the broadcasting teacher.
	_, err = svc.Complete(context.Background(), "s2", "broadcast")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}
