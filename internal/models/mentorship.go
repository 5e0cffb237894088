package models

import "time"

// MentorshipStatus tracks a mentorship request through approval.
type MentorshipStatus string

const (
	MentorshipPending  MentorshipStatus = "pending"
	MentorshipActive   MentorshipStatus = "active"
	MentorshipRejected MentorshipStatus = "rejected"
)

// Mentorship is a directed student→teacher link. At most one record exists
// per (student, teacher) pair, enforced by lookup-before-insert.
type Mentorship struct {
	ID        string           `db:"id" json:"id"`
	StudentID string           `db:"student_id" json:"student_id"`
	TeacherID string           `db:"teacher_id" json:"teacher_id"`
	Status    MentorshipStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// MentorshipDetail joins the counterpart's identity for listings.
type MentorshipDetail struct {
	Mentorship
	StudentName string `db:"student_name" json:"student_name"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}
