package models

import "time"

// LeaderboardEntry ranks one student by accumulated study minutes. Students
// without a single session still appear, with zero minutes.
type LeaderboardEntry struct {
	StudentID    string  `db:"student_id" json:"student_id"`
	StudentName  string  `db:"student_name" json:"student_name"`
	TotalMinutes int     `db:"total_minutes" json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
}

// RankFilter narrows leaderboard aggregation at the session level, before
// grouping.
type RankFilter struct {
	Subject   string
	DateFrom  *time.Time
	DateTo    *time.Time
	Ascending bool
}

// TimeSeriesPoint is one calendar day of accumulated study minutes.
type TimeSeriesPoint struct {
	Date         time.Time `db:"date" json:"date"`
	TotalMinutes int       `db:"total_minutes" json:"total_minutes"`
}
