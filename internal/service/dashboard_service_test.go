package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltline/inventory-backend/internal/domain"
)

type fakeMetricsRepo struct {
	metrics *domain.DashboardMetrics
	trend   []domain.UsageTrendPoint
	calls   int
}

func (r *fakeMetricsRepo) GetDashboardMetrics(ctx context.Context) (*domain.DashboardMetrics, error) {
	r.calls++
	cp := *r.metrics
	return &cp, nil
}

func (r *fakeMetricsRepo) GetUsageTrend(ctx context.Context, days int) ([]domain.UsageTrendPoint, error) {
	r.calls++
	return append([]domain.UsageTrendPoint(nil), r.trend...), nil
}

type memoryDashboardCache struct {
	metrics *domain.DashboardMetrics
	trends  map[int][]domain.UsageTrendPoint
}

func newMemoryDashboardCache() *memoryDashboardCache {
	return &memoryDashboardCache{trends: make(map[int][]domain.UsageTrendPoint)}
}

func (c *memoryDashboardCache) GetMetrics(ctx context.Context) (*domain.DashboardMetrics, bool, error) {
	if c.metrics == nil {
		return nil, false, nil
	}
	cp := *c.metrics
	return &cp, true, nil
}

func (c *memoryDashboardCache) SetMetrics(ctx context.Context, m *domain.DashboardMetrics) error {
	cp := *m
	c.metrics = &cp
	return nil
}

func (c *memoryDashboardCache) GetUsageTrend(ctx context.Context, days int) ([]domain.UsageTrendPoint, bool, error) {
	points, ok := c.trends[days]
	return points, ok, nil
}

func (c *memoryDashboardCache) SetUsageTrend(ctx context.Context, days int, points []domain.UsageTrendPoint) error {
	c.trends[days] = points
	return nil
}

func (c *memoryDashboardCache) InvalidateAll(ctx context.Context) error {
	c.metrics = nil
	c.trends = make(map[int][]domain.UsageTrendPoint)
	return nil
}

func TestGetMetricsCachesResult(t *testing.T) {
	repo := &fakeMetricsRepo{metrics: &domain.DashboardMetrics{
		TotalComponents:     12,
		CriticalComponents:  2,
		TotalInventoryValue: decimal.NewFromFloat(1043.50),
	}}
	svc := NewDashboardService(repo, newMemoryDashboardCache())

	first, err := svc.GetMetrics(context.Background())
	require.NoError(t, err)
	second, err := svc.GetMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, first.TotalComponents)
	assert.Equal(t, first.TotalComponents, second.TotalComponents)
	assert.Equal(t, 1, repo.calls, "second read should come from cache")
}

func TestGetUsageTrendDefaultsAndBounds(t *testing.T) {
	repo := &fakeMetricsRepo{trend: []domain.UsageTrendPoint{{Date: "2026-08-31", UnitsUsed: 14}}}
	cache := newMemoryDashboardCache()
	svc := NewDashboardService(repo, cache)

	points, err := svc.GetUsageTrend(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, points, 1)

	// the zero request was normalized to the default window
	_, ok := cache.trends[defaultTrendDays]
	assert.True(t, ok)

	_, err = svc.GetUsageTrend(context.Background(), 1000)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
