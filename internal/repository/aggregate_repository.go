package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/target-saas/study-tracker-api/internal/models"
)

// AggregateRepository exposes read-only aggregation queries over study
// sessions. Every aggregate is a full re-scan; nothing here maintains
// incremental counters.
type AggregateRepository struct {
	db *sqlx.DB
}

// NewAggregateRepository instantiates the repository.
func NewAggregateRepository(db *sqlx.DB) *AggregateRepository {
	return &AggregateRepository{db: db}
}

// TotalMinutes sums every session's duration for one student. NULL durations
// count as zero.
func (r *AggregateRepository) TotalMinutes(ctx context.Context, studentID string) (int, error) {
	const query = `SELECT COALESCE(SUM(duration_minutes), 0) FROM study_sessions WHERE student_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, studentID); err != nil {
		return 0, fmt.Errorf("total minutes: %w", err)
	}
	return total, nil
}

// PlatformTotalMinutes sums every session's duration across all students.
func (r *AggregateRepository) PlatformTotalMinutes(ctx context.Context) (int, error) {
	const query = `SELECT COALESCE(SUM(duration_minutes), 0) FROM study_sessions`
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("platform total minutes: %w", err)
	}
	return total, nil
}

// Rank groups students by summed session minutes. The LEFT JOIN keeps
// students with zero sessions on the board; filters apply to sessions before
// grouping.
func (r *AggregateRepository) Rank(ctx context.Context, filter models.RankFilter) ([]models.LeaderboardEntry, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT u.id AS student_id, u.name AS student_name, COALESCE(SUM(s.duration_minutes), 0) AS total_minutes
        FROM users u
        LEFT JOIN study_sessions s ON s.student_id = u.id`)

	args := []interface{}{models.RoleStudent}
	if filter.Subject != "" {
		args = append(args, filter.Subject)
		builder.WriteString(fmt.Sprintf(" AND s.subject = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		builder.WriteString(fmt.Sprintf(" AND s.date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		builder.WriteString(fmt.Sprintf(" AND s.date <= $%d", len(args)))
	}

	builder.WriteString(" WHERE u.role = $1 GROUP BY u.id, u.name ORDER BY total_minutes ")
	if filter.Ascending {
		builder.WriteString("ASC")
	} else {
		builder.WriteString("DESC")
	}
	builder.WriteString(", u.name ASC")

	var entries []models.LeaderboardEntry
	if err := r.db.SelectContext(ctx, &entries, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("rank students: %w", err)
	}
	return entries, nil
}

// TimeSeries sums minutes per calendar date over the last windowDays days,
// ascending by date.
func (r *AggregateRepository) TimeSeries(ctx context.Context, studentID string, windowDays int) ([]models.TimeSeriesPoint, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	const query = `SELECT date, COALESCE(SUM(duration_minutes), 0) AS total_minutes
        FROM study_sessions
        WHERE student_id = $1 AND date >= CURRENT_DATE - $2::INTEGER
        GROUP BY date
        ORDER BY date ASC`
	var points []models.TimeSeriesPoint
	if err := r.db.SelectContext(ctx, &points, query, studentID, windowDays); err != nil {
		return nil, fmt.Errorf("time series: %w", err)
	}
	return points, nil
}
