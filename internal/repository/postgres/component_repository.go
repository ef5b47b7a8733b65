package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voltline/inventory-backend/internal/domain"
	"github.com/voltline/inventory-backend/internal/repository"
)

type componentRepository struct {
	db *sqlx.DB
}

func NewComponentRepository(db *sqlx.DB) repository.ComponentRepository {
	return &componentRepository{db: db}
}

func (r *componentRepository) Create(ctx context.Context, c *domain.Component) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	query := `
        INSERT INTO components (id, name, category, current_stock, min_stock, unit_cost, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
        RETURNING created_at, updated_at
    `

	err := r.db.QueryRowxContext(ctx, query,
		c.ID, c.Name, c.Category, c.CurrentStock, c.MinStock, c.UnitCost, c.Description,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating component: %w", err)
	}

	return nil
}

func (r *componentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Component, error) {
	query := `
        SELECT id, name, category, current_stock, min_stock, unit_cost, description, created_at, updated_at
        FROM components
        WHERE id = $1
    `

	var c domain.Component
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("component %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("error getting component: %w", err)
	}

	return &c, nil
}

func (r *componentRepository) List(ctx context.Context, filter domain.ComponentFilter) ([]domain.Component, int, error) {
	countQuery := `SELECT COUNT(*) FROM components WHERE 1=1`
	query := `
        SELECT id, name, category, current_stock, min_stock, unit_cost, description, created_at, updated_at
        FROM components
        WHERE 1=1
    `

	var args []interface{}
	var conditions []string
	argCounter := 1

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argCounter))
		args = append(args, filter.Category)
		argCounter++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argCounter))
		args = append(args, "%"+filter.Search+"%")
		argCounter++
	}

	if len(conditions) > 0 {
		whereClause := " AND " + strings.Join(conditions, " AND ")
		query += whereClause
		countQuery += whereClause
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("error counting components: %w", err)
	}

	query += " ORDER BY name"
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCounter, argCounter+1)
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	var components []domain.Component
	if err := r.db.SelectContext(ctx, &components, query, args...); err != nil {
		return nil, 0, fmt.Errorf("error listing components: %w", err)
	}

	return components, total, nil
}

func (r *componentRepository) Update(ctx context.Context, c *domain.Component) error {
	query := `
        UPDATE components
        SET name = $2, category = $3, current_stock = $4, min_stock = $5, unit_cost = $6, description = $7, updated_at = now()
        WHERE id = $1
        RETURNING updated_at
    `

	err := r.db.QueryRowxContext(ctx, query,
		c.ID, c.Name, c.Category, c.CurrentStock, c.MinStock, c.UnitCost, c.Description,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("component %s: %w", c.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("error updating component: %w", err)
	}

	return nil
}

func (r *componentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM components WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting component: %w", err)
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("component %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *componentRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.Component, error) {
	query := `
        UPDATE components
        SET current_stock = current_stock + $2, updated_at = now()
        WHERE id = $1 AND current_stock + $2 >= 0
        RETURNING id, name, category, current_stock, min_stock, unit_cost, description, created_at, updated_at
    `

	var c domain.Component
	if err := r.db.GetContext(ctx, &c, query, id, delta); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// either the component is missing or the delta would drain
			// stock below zero
			if _, lookupErr := r.GetByID(ctx, id); lookupErr != nil {
				return nil, lookupErr
			}
			return nil, fmt.Errorf("%w: stock adjustment %d would make stock negative", domain.ErrInvalidInput, delta)
		}
		return nil, fmt.Errorf("error adjusting stock: %w", err)
	}

	return &c, nil
}

func (r *componentRepository) ListBelowReorderBand(ctx context.Context) ([]domain.Component, error) {
	query := `
        SELECT id, name, category, current_stock, min_stock, unit_cost, description, created_at, updated_at
        FROM components
        WHERE min_stock > 0 AND current_stock * 10 <= min_stock * 11
        ORDER BY current_stock::float / min_stock
    `

	var components []domain.Component
	if err := r.db.SelectContext(ctx, &components, query); err != nil {
		return nil, fmt.Errorf("error listing low stock components: %w", err)
	}

	return components, nil
}

func (r *componentRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM components ORDER BY name`); err != nil {
		return nil, fmt.Errorf("error listing component ids: %w", err)
	}

	return ids, nil
}
