package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/target-saas/study-tracker-api/internal/models"
	"github.com/target-saas/study-tracker-api/pkg/config"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
)

// AggregateRepository exposes the read-only aggregation queries.
type AggregateRepository interface {
	TotalMinutes(ctx context.Context, studentID string) (int, error)
	Rank(ctx context.Context, filter models.RankFilter) ([]models.LeaderboardEntry, error)
	TimeSeries(ctx context.Context, studentID string, windowDays int) ([]models.TimeSeriesPoint, error)
}

// AggregateCache stores computed aggregates with TTLs.
type AggregateCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AggregateService computes totals, leaderboards and time series, with an
// optional redis cache in front of the re-scanning queries.
type AggregateService struct {
	repo    AggregateRepository
	cache   AggregateCache
	cfg     config.CacheConfig
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAggregateService constructs an AggregateService. cache may be nil when
// caching is disabled.
func NewAggregateService(repo AggregateRepository, cache AggregateCache, cfg config.CacheConfig, metrics *MetricsService, logger *zap.Logger) *AggregateService {
	return &AggregateService{
		repo:    repo,
		cache:   cache,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}
}

// TotalHours sums a student's minutes and converts once to hours, rounded to
// one decimal. Summing first keeps repeated short sessions from drifting.
func (s *AggregateService) TotalHours(ctx context.Context, studentID string) (float64, error) {
	key := fmt.Sprintf("totals:%s", studentID)
	if s.cacheEnabled() {
		var cached float64
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.CacheHit()
			return cached, nil
		} else if appErrors.Is(err, appErrors.ErrCacheMiss) {
			s.metrics.CacheMiss()
		}
	}

	minutes, err := s.repo.TotalMinutes(ctx, studentID)
	if err != nil {
		return 0, err
	}
	hours := math.Round(float64(minutes)/60*10) / 10

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, key, hours, s.cfg.TotalHoursTTL); err != nil {
			s.logger.Warn("totals cache write failed", zap.Error(err))
		}
	}
	return hours, nil
}

// Leaderboard ranks students by accumulated minutes. Entries carry both raw
// minutes and rounded hours.
func (s *AggregateService) Leaderboard(ctx context.Context, filter models.RankFilter) ([]models.LeaderboardEntry, error) {
	key := leaderboardKey(filter)
	if s.cacheEnabled() {
		var cached []models.LeaderboardEntry
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.CacheHit()
			return cached, nil
		} else if appErrors.Is(err, appErrors.ErrCacheMiss) {
			s.metrics.CacheMiss()
		}
	}

	entries, err := s.repo.Rank(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].TotalHours = math.Round(float64(entries[i].TotalMinutes)/60*10) / 10
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, key, entries, s.cfg.LeaderboardTTL); err != nil {
			s.logger.Warn("leaderboard cache write failed", zap.Error(err))
		}
	}
	return entries, nil
}

// TimeSeries returns per-day minutes for the student's recent history.
func (s *AggregateService) TimeSeries(ctx context.Context, studentID string, windowDays int) ([]models.TimeSeriesPoint, error) {
	return s.repo.TimeSeries(ctx, studentID, windowDays)
}

// InvalidateStudent drops the aggregates a new or updated session makes
// stale. Invalidation failures are logged, never surfaced.
func (s *AggregateService) InvalidateStudent(ctx context.Context, studentID string) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("totals:%s", studentID)); err != nil {
		s.logger.Warn("totals cache invalidation failed", zap.Error(err))
	}
	if err := s.cache.DeleteByPattern(ctx, "leaderboard:*"); err != nil {
		s.logger.Warn("leaderboard cache invalidation failed", zap.Error(err))
	}
}

func (s *AggregateService) cacheEnabled() bool {
	return s.cfg.Enabled && s.cache != nil
}

func leaderboardKey(filter models.RankFilter) string {
	from, to := "", ""
	if filter.DateFrom != nil {
		from = filter.DateFrom.Format("2006-01-02")
	}
	if filter.DateTo != nil {
		to = filter.DateTo.Format("2006-01-02")
	}
	order := "desc"
	if filter.Ascending {
		order = "asc"
	}
	return fmt.Sprintf("leaderboard:%s:%s:%s:%s", filter.Subject, from, to, order)
}
