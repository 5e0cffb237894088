package models

import "time"

// SubmissionType distinguishes uploaded files from shared links.
type SubmissionType string

const (
	SubmissionFile SubmissionType = "file"
	SubmissionLink SubmissionType = "link"
)

// Submission is evidence of study a student shares with mentors: either a
// stored filename or an external URL.
type Submission struct {
	ID          string         `db:"id" json:"id"`
	StudentID   string         `db:"student_id" json:"student_id"`
	Type        SubmissionType `db:"type" json:"type"`
	Content     string         `db:"content" json:"content"`
	Description *string        `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}
