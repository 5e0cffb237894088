package models

import "time"

// StartSessionRequest opens a live study session. The session type is
// derived server-side: assisted when a task is attached, scheduled otherwise.
type StartSessionRequest struct {
	Subject  string  `json:"subject" validate:"required"`
	Subtitle *string `json:"subtitle"`
	TaskID   *string `json:"task_id" validate:"omitempty,uuid"`
}

// StopSessionRequest closes the student's active session.
type StopSessionRequest struct {
	Comment *string `json:"comment"`
	Link    *string `json:"link" validate:"omitempty,url"`
}

// ManualSessionRequest records an already-finished block of study time.
type ManualSessionRequest struct {
	Subject   string    `json:"subject" validate:"required"`
	Subtitle  *string   `json:"subtitle"`
	Date      time.Time `json:"date" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	Type      string    `json:"type" validate:"omitempty,oneof=scheduled free assisted"`
}

// CreatePlanRequest is a mentor's target-hours assignment for one subject.
type CreatePlanRequest struct {
	StudentID     string     `json:"student_id" validate:"required,uuid"`
	TargetSubject string     `json:"target_subject" validate:"required"`
	TargetHours   float64    `json:"target_hours" validate:"required,gt=0"`
	Deadline      *time.Time `json:"deadline"`
}

// UpdatePlanStatusRequest moves a plan between lifecycle states.
type UpdatePlanStatusRequest struct {
	Status PlanStatus `json:"status" validate:"required,oneof=backlog active completed"`
}

// AssignTaskRequest creates a task for one mentee or, with no student ID,
// broadcasts it to every active mentee.
type AssignTaskRequest struct {
	StudentID    *string `json:"student_id" validate:"omitempty,uuid"`
	Title        string  `json:"title" validate:"required"`
	Description  *string `json:"description"`
	ExternalLink *string `json:"external_link" validate:"omitempty,url"`
}

// MentorshipRequest asks a teacher for mentorship.
type MentorshipRequest struct {
	TeacherID string `json:"teacher_id" validate:"required,uuid"`
}

// MentorshipDecisionRequest approves or rejects a pending request.
type MentorshipDecisionRequest struct {
	Approve bool `json:"approve"`
}

// LinkSubmissionRequest shares an external URL as study evidence.
type LinkSubmissionRequest struct {
	URL         string  `json:"url" validate:"required,url"`
	Description *string `json:"description"`
}

// ExternalCertificateRequest registers a certificate earned elsewhere.
type ExternalCertificateRequest struct {
	Issuer     string  `json:"issuer" validate:"required"`
	TotalHours float64 `json:"total_hours" validate:"required,gt=0"`
}

// IssueLicenseRequest creates an institutional license.
type IssueLicenseRequest struct {
	StudentLimit int `json:"student_limit" validate:"required,gt=0"`
}

// SupportMessageRequest sends a message to the admin inbox.
type SupportMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

// AssistantChatRequest is one user turn for the study assistant.
type AssistantChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// AssistantChatResponse carries the assistant's reply.
type AssistantChatResponse struct {
	Reply   string `json:"reply"`
	Offline bool   `json:"offline"`
}

// AdminOverview summarises platform activity for the admin dashboard.
type AdminOverview struct {
	TotalUsers         int     `json:"total_users"`
	PendingApprovals   int     `json:"pending_approvals"`
	ActiveSessions     int     `json:"active_sessions"`
	PlatformTotalHours float64 `json:"platform_total_hours"`
}
