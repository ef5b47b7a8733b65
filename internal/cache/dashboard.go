package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voltline/inventory-backend/internal/config"
	"github.com/voltline/inventory-backend/internal/domain"
)

const (
	dashboardKeyPrefix     = "dashboard:"
	dashboardMetricsKey    = dashboardKeyPrefix + "metrics"
	dashboardTrendKeyFmt   = dashboardKeyPrefix + "usage_trend:%d"
	dashboardScanBatchSize = 100
)

// DashboardCache caches the dashboard headline metrics and usage trend.
// Stock-changing writes invalidate it.
type DashboardCache interface {
	GetMetrics(ctx context.Context) (*domain.DashboardMetrics, bool, error)
	SetMetrics(ctx context.Context, metrics *domain.DashboardMetrics) error
	GetUsageTrend(ctx context.Context, days int) ([]domain.UsageTrendPoint, bool, error)
	SetUsageTrend(ctx context.Context, days int, points []domain.UsageTrendPoint) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisDashboardCache{client: client, ttl: ttl}, nil
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetMetrics(ctx context.Context) (*domain.DashboardMetrics, bool, error) {
	payload, err := c.client.Get(ctx, dashboardMetricsKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var metrics domain.DashboardMetrics
	if err := json.Unmarshal(payload, &metrics); err != nil {
		return nil, false, fmt.Errorf("decode dashboard metrics cache: %w", err)
	}

	return &metrics, true, nil
}

func (c *redisDashboardCache) SetMetrics(ctx context.Context, metrics *domain.DashboardMetrics) error {
	payload, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("encode dashboard metrics cache: %w", err)
	}

	if err := c.client.Set(ctx, dashboardMetricsKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDashboardCache) GetUsageTrend(ctx context.Context, days int) ([]domain.UsageTrendPoint, bool, error) {
	key := fmt.Sprintf(dashboardTrendKeyFmt, days)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var points []domain.UsageTrendPoint
	if err := json.Unmarshal(payload, &points); err != nil {
		return nil, false, fmt.Errorf("decode usage trend cache: %w", err)
	}

	return points, true, nil
}

func (c *redisDashboardCache) SetUsageTrend(ctx context.Context, days int, points []domain.UsageTrendPoint) error {
	key := fmt.Sprintf(dashboardTrendKeyFmt, days)

	payload, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("encode usage trend cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, dashboardKeyPrefix, dashboardScanBatchSize)
}

func (n *noopDashboardCache) GetMetrics(ctx context.Context) (*domain.DashboardMetrics, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetMetrics(ctx context.Context, metrics *domain.DashboardMetrics) error {
	return nil
}

func (n *noopDashboardCache) GetUsageTrend(ctx context.Context, days int) ([]domain.UsageTrendPoint, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetUsageTrend(ctx context.Context, days int, points []domain.UsageTrendPoint) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}
