package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/voltline/inventory-backend/internal/domain"
	"github.com/voltline/inventory-backend/internal/repository"
)

type metricsRepository struct {
	db *sqlx.DB
}

func NewMetricsRepository(db *sqlx.DB) repository.MetricsRepository {
	return &metricsRepository{db: db}
}

func (r *metricsRepository) GetDashboardMetrics(ctx context.Context) (*domain.DashboardMetrics, error) {
	query := `
        SELECT
            (SELECT COUNT(*) FROM components) AS total_components,
            (SELECT COUNT(*) FROM components WHERE min_stock > 0 AND current_stock >= min_stock AND current_stock * 10 <= min_stock * 11) AS low_stock_alerts,
            (SELECT COUNT(*) FROM components WHERE current_stock < min_stock) AS critical_components,
            (SELECT COUNT(*) FROM orders WHERE status = 'pending') AS pending_orders,
            (SELECT COALESCE(SUM(current_stock * unit_cost), 0) FROM components) AS total_inventory_value,
            (SELECT COALESCE(AVG(lead_time_days), 0) FROM component_suppliers WHERE is_primary) AS avg_lead_time
    `

	var metrics domain.DashboardMetrics
	if err := r.db.GetContext(ctx, &metrics, query); err != nil {
		return nil, fmt.Errorf("error getting dashboard metrics: %w", err)
	}

	return &metrics, nil
}

func (r *metricsRepository) GetUsageTrend(ctx context.Context, days int) ([]domain.UsageTrendPoint, error) {
	if days <= 0 {
		days = 30
	}

	query := `
        WITH dates AS (
            SELECT date_trunc('day', current_date - (n || ' days')::interval) AS date
            FROM generate_series(0, $1) n
        ),
        daily_usage AS (
            SELECT date_trunc('day', date) AS date, SUM(units_used) AS units_used
            FROM usage_history
            WHERE date >= (current_date - ($1 || ' days')::interval)
            GROUP BY date_trunc('day', date)
        )
        SELECT
            to_char(d.date, 'YYYY-MM-DD') AS date,
            COALESCE(du.units_used, 0) AS units_used
        FROM dates d
        LEFT JOIN daily_usage du ON d.date = du.date
        ORDER BY d.date
    `

	var points []domain.UsageTrendPoint
	if err := r.db.SelectContext(ctx, &points, query, days-1); err != nil {
		return nil, fmt.Errorf("error getting usage trend: %w", err)
	}

	return points, nil
}
