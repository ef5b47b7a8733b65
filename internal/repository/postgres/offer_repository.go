package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voltline/inventory-backend/internal/domain"
	"github.com/voltline/inventory-backend/internal/repository"
)

type offerRepository struct {
	db *sqlx.DB
}

func NewOfferRepository(db *sqlx.DB) repository.OfferRepository {
	return &offerRepository{db: db}
}

const offerColumns = `
    cs.id, cs.component_id, cs.supplier_id, cs.unit_price, cs.lead_time_days, cs.is_primary,
    s.name AS supplier_name, s.email AS supplier_email, s.rating
`

func (r *offerRepository) ListByComponent(ctx context.Context, componentID uuid.UUID) ([]domain.SupplierOffer, error) {
	query := `
        SELECT ` + offerColumns + `
        FROM component_suppliers cs
        JOIN suppliers s ON s.id = cs.supplier_id
        WHERE cs.component_id = $1
        ORDER BY cs.is_primary DESC, cs.unit_price
    `

	var offers []domain.SupplierOffer
	if err := r.db.SelectContext(ctx, &offers, query, componentID); err != nil {
		return nil, fmt.Errorf("error listing offers: %w", err)
	}

	return offers, nil
}

func (r *offerRepository) GetPrimary(ctx context.Context, componentID uuid.UUID) (*domain.SupplierOffer, error) {
	query := `
        SELECT ` + offerColumns + `
        FROM component_suppliers cs
        JOIN suppliers s ON s.id = cs.supplier_id
        WHERE cs.component_id = $1 AND cs.is_primary
    `

	var offer domain.SupplierOffer
	if err := r.db.GetContext(ctx, &offer, query, componentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("primary offer for component %s: %w", componentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("error getting primary offer: %w", err)
	}

	return &offer, nil
}

func (r *offerRepository) Upsert(ctx context.Context, o *domain.SupplierOffer) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}

	// a component has at most one primary offer
	if o.IsPrimary {
		demote := `UPDATE component_suppliers SET is_primary = false WHERE component_id = $1 AND supplier_id <> $2`
		if _, err := r.db.ExecContext(ctx, demote, o.ComponentID, o.SupplierID); err != nil {
			return fmt.Errorf("error demoting primary offers: %w", err)
		}
	}

	query := `
        INSERT INTO component_suppliers (id, component_id, supplier_id, unit_price, lead_time_days, is_primary)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (component_id, supplier_id)
        DO UPDATE SET unit_price = EXCLUDED.unit_price,
                      lead_time_days = EXCLUDED.lead_time_days,
                      is_primary = EXCLUDED.is_primary
    `

	if _, err := r.db.ExecContext(ctx, query,
		o.ID, o.ComponentID, o.SupplierID, o.UnitPrice, o.LeadTimeDays, o.IsPrimary,
	); err != nil {
		return fmt.Errorf("error upserting offer: %w", err)
	}

	return nil
}

func (r *offerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM component_suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting offer: %w", err)
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("offer %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
