package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voltline/inventory-backend/internal/domain"
	"github.com/voltline/inventory-backend/internal/repository"
)

type usageRepository struct {
	db *sqlx.DB
}

func NewUsageRepository(db *sqlx.DB) repository.UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) Create(ctx context.Context, u *domain.UsageRecord) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Date.IsZero() {
		u.Date = time.Now().UTC()
	}

	query := `
        INSERT INTO usage_history (id, component_id, date, units_used, created_at)
        VALUES ($1, $2, $3, $4, now())
        RETURNING created_at
    `

	err := r.db.QueryRowxContext(ctx, query,
		u.ID, u.ComponentID, u.Date, u.UnitsUsed,
	).Scan(&u.CreatedAt)
	if err != nil {
		return fmt.Errorf("error recording usage: %w", err)
	}

	return nil
}

func (r *usageRepository) ListByComponent(ctx context.Context, componentID uuid.UUID, since time.Time) ([]domain.UsageRecord, error) {
	query := `
        SELECT id, component_id, date, units_used, created_at
        FROM usage_history
        WHERE component_id = $1 AND date >= $2
        ORDER BY date ASC
    `

	var records []domain.UsageRecord
	if err := r.db.SelectContext(ctx, &records, query, componentID, since); err != nil {
		return nil, fmt.Errorf("error listing usage history: %w", err)
	}

	return records, nil
}
