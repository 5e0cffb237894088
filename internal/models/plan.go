package models

import "time"

// PlanStatus tracks a study plan through its lifecycle. Status changes are
// driven by the owning student; completed_hours is driven by sessions.
type PlanStatus string

const (
	PlanBacklog   PlanStatus = "backlog"
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
)

// Valid reports whether the status is one of the known plan states.
func (s PlanStatus) Valid() bool {
	switch s {
	case PlanBacklog, PlanActive, PlanCompleted:
		return true
	}
	return false
}

// StudyPlan is a mentor-assigned target of hours for one subject.
// CompletedHours only ever grows, fed by completed sessions whose subject
// matches TargetSubject exactly.
type StudyPlan struct {
	ID             string     `db:"id" json:"id"`
	StudentID      string     `db:"student_id" json:"student_id"`
	MentorID       string     `db:"mentor_id" json:"mentor_id"`
	TargetSubject  string     `db:"target_subject" json:"target_subject"`
	TargetHours    float64    `db:"target_hours" json:"target_hours"`
	CompletedHours float64    `db:"completed_hours" json:"completed_hours"`
	Status         PlanStatus `db:"status" json:"status"`
	Deadline       *time.Time `db:"deadline" json:"deadline,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}
