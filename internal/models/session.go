package models

import "time"

// SessionType classifies how a study session was created.
type SessionType string

const (
	SessionScheduled SessionType = "scheduled"
	SessionFree      SessionType = "free"
	SessionAssisted  SessionType = "assisted"
)

// StudySession is one continuous block of study time. A session with a nil
// EndTime is "active"; at most one active session may exist per student.
type StudySession struct {
	ID                string      `db:"id" json:"id"`
	StudentID         string      `db:"student_id" json:"student_id"`
	TaskID            *string     `db:"task_id" json:"task_id,omitempty"`
	Subject           string      `db:"subject" json:"subject"`
	Subtitle          *string     `db:"subtitle" json:"subtitle,omitempty"`
	Date              time.Time   `db:"date" json:"date"`
	StartTime         time.Time   `db:"start_time" json:"start_time"`
	EndTime           *time.Time  `db:"end_time" json:"end_time,omitempty"`
	DurationMinutes   int         `db:"duration_minutes" json:"duration_minutes"`
	Type              SessionType `db:"type" json:"type"`
	IsValidated       bool        `db:"is_validated" json:"is_validated"`
	CompletionComment *string     `db:"completion_comment" json:"completion_comment,omitempty"`
	CompletionFile    *string     `db:"completion_file" json:"completion_file,omitempty"`
	CompletionLink    *string     `db:"completion_link" json:"completion_link,omitempty"`
	CreatedAt         time.Time   `db:"created_at" json:"created_at"`
}

// Active reports whether the session is still running.
func (s *StudySession) Active() bool {
	return s.EndTime == nil
}

// SessionFilter narrows session listings.
type SessionFilter struct {
	StudentID string
	Subject   string
	Page      int
	PageSize  int
}

// ActiveSessionDetail pairs an open session with its owner, for the admin
// monitoring view.
type ActiveSessionDetail struct {
	StudySession
	StudentName  string `db:"student_name" json:"student_name"`
	StudentEmail string `db:"student_email" json:"student_email"`
}
