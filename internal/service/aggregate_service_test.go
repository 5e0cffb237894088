package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/target-saas/study-tracker-api/internal/models"
	"github.com/target-saas/study-tracker-api/pkg/config"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
)

type mockAggregateRepo struct {
	minutes   map[string]int
	rank      []models.LeaderboardEntry
	rankCalls int
}

func (m *mockAggregateRepo) TotalMinutes(ctx context.Context, studentID string) (int, error) {
	return m.minutes[studentID], nil
}

func (m *mockAggregateRepo) Rank(ctx context.Context, filter models.RankFilter) ([]models.LeaderboardEntry, error) {
	m.rankCalls++
	out := make([]models.LeaderboardEntry, len(m.rank))
	copy(out, m.rank)
	return out, nil
}

func (m *mockAggregateRepo) TimeSeries(ctx context.Context, studentID string, windowDays int) ([]models.TimeSeriesPoint, error) {
	return nil, nil
}

type memoryCache struct {
	values map[string][]byte
	sets   int
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.values == nil {
		m.values = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	m.sets++
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.values {
		if key == pattern || strings.HasPrefix(key, prefix) {
			delete(m.values, key)
		}
	}
	return nil
}

func TestAggregateServiceTotalHoursRounding(t *testing.T) {
	repo := &mockAggregateRepo{minutes: map[string]int{"a": 120, "b": 90, "c": 100}}
	svc := NewAggregateService(repo, nil, config.CacheConfig{}, NewMetricsService(), zap.NewNop())

	for student, want := range map[string]float64{"a": 2.0, "b": 1.5, "c": 1.7} {
		hours, err := svc.TotalHours(context.Background(), student)
		require.NoError(t, err)
		assert.InDelta(t, want, hours, 0.0001, "student %s", student)
	}
}

func TestAggregateServiceLeaderboardHours(t *testing.T) {
	repo := &mockAggregateRepo{rank: []models.LeaderboardEntry{
		{StudentID: "a", StudentName: "Ada", TotalMinutes: 120},
		{StudentID: "b", StudentName: "Ben", TotalMinutes: 60},
		{StudentID: "c", StudentName: "Cy", TotalMinutes: 0},
	}}
	svc := NewAggregateService(repo, nil, config.CacheConfig{}, NewMetricsService(), zap.NewNop())

	entries, err := svc.Leaderboard(context.Background(), models.RankFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.InDelta(t, 2.0, entries[0].TotalHours, 0.0001)
	assert.InDelta(t, 1.0, entries[1].TotalHours, 0.0001)
	assert.InDelta(t, 0.0, entries[2].TotalHours, 0.0001)
}

func TestAggregateServiceLeaderboardCached(t *testing.T) {
	repo := &mockAggregateRepo{rank: []models.LeaderboardEntry{{StudentID: "a", StudentName: "Ada", TotalMinutes: 60}}}
	cache := &memoryCache{}
	cfg := config.CacheConfig{Enabled: true, LeaderboardTTL: time.Minute, TotalHoursTTL: time.Minute}
	svc := NewAggregateService(repo, cache, cfg, NewMetricsService(), zap.NewNop())

	_, err := svc.Leaderboard(context.Background(), models.RankFilter{})
	require.NoError(t, err)
	_, err = svc.Leaderboard(context.Background(), models.RankFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.rankCalls)

	svc.InvalidateStudent(context.Background(), "a")
	_, err = svc.Leaderboard(context.Background(), models.RankFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.rankCalls)
}
