package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/voltline/inventory-backend/internal/cache"
	"github.com/voltline/inventory-backend/internal/domain"
	"github.com/voltline/inventory-backend/internal/repository"
)

const (
	defaultTrendDays = 30
	maxTrendDays     = 365
)

// DashboardService serves the headline metrics and usage trend, cached
// until the next stock-changing write.
type DashboardService struct {
	metrics repository.MetricsRepository
	cache   cache.DashboardCache
}

func NewDashboardService(metrics repository.MetricsRepository, dashboardCache cache.DashboardCache) *DashboardService {
	return &DashboardService{metrics: metrics, cache: dashboardCache}
}

func (s *DashboardService) GetMetrics(ctx context.Context) (*domain.DashboardMetrics, error) {
	cached, hit, err := s.cache.GetMetrics(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("dashboard metrics cache read failed")
	}
	if hit {
		return cached, nil
	}

	metrics, err := s.metrics.GetDashboardMetrics(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetMetrics(ctx, metrics); err != nil {
		log.Warn().Err(err).Msg("dashboard metrics cache write failed")
	}

	return metrics, nil
}

func (s *DashboardService) GetUsageTrend(ctx context.Context, days int) ([]domain.UsageTrendPoint, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	if days > maxTrendDays {
		return nil, fmt.Errorf("%w: trend window %d exceeds %d days", domain.ErrInvalidInput, days, maxTrendDays)
	}

	cached, hit, err := s.cache.GetUsageTrend(ctx, days)
	if err != nil {
		log.Warn().Err(err).Msg("usage trend cache read failed")
	}
	if hit {
		return cached, nil
	}

	points, err := s.metrics.GetUsageTrend(ctx, days)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetUsageTrend(ctx, days, points); err != nil {
		log.Warn().Err(err).Msg("usage trend cache write failed")
	}

	return points, nil
}
