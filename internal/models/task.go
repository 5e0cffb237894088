package models

import "time"

// AssignedTask is work a teacher hands to a mentee. A nil StudentID makes
// the task a broadcast to every active mentee of that teacher.
type AssignedTask struct {
	ID             string    `db:"id" json:"id"`
	TeacherID      string    `db:"teacher_id" json:"teacher_id"`
	StudentID      *string   `db:"student_id" json:"student_id,omitempty"`
	Title          string    `db:"title" json:"title"`
	Description    *string   `db:"description" json:"description,omitempty"`
	ExternalLink   *string   `db:"external_link" json:"external_link,omitempty"`
	AttachmentPath *string   `db:"attachment_path" json:"attachment_path,omitempty"`
	IsCompleted    bool      `db:"is_completed" json:"is_completed"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
