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

type supplierRepository struct {
	db *sqlx.DB
}

func NewSupplierRepository(db *sqlx.DB) repository.SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(ctx context.Context, s *domain.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	query := `
        INSERT INTO suppliers (id, name, email, phone, address, rating, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, now())
        RETURNING created_at
    `

	err := r.db.QueryRowxContext(ctx, query,
		s.ID, s.Name, s.Email, s.Phone, s.Address, s.Rating,
	).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating supplier: %w", err)
	}

	return nil
}

func (r *supplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	query := `
        SELECT id, name, email, phone, address, rating, created_at
        FROM suppliers
        WHERE id = $1
    `

	var s domain.Supplier
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("supplier %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("error getting supplier: %w", err)
	}

	return &s, nil
}

func (r *supplierRepository) List(ctx context.Context) ([]domain.Supplier, error) {
	query := `
        SELECT id, name, email, phone, address, rating, created_at
        FROM suppliers
        ORDER BY name
    `

	var suppliers []domain.Supplier
	if err := r.db.SelectContext(ctx, &suppliers, query); err != nil {
		return nil, fmt.Errorf("error listing suppliers: %w", err)
	}

	return suppliers, nil
}

func (r *supplierRepository) Update(ctx context.Context, s *domain.Supplier) error {
	query := `
        UPDATE suppliers
        SET name = $2, email = $3, phone = $4, address = $5, rating = $6
        WHERE id = $1
    `

	res, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.Email, s.Phone, s.Address, s.Rating)
	if err != nil {
		return fmt.Errorf("error updating supplier: %w", err)
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("supplier %s: %w", s.ID, domain.ErrNotFound)
	}

	return nil
}

func (r *supplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting supplier: %w", err)
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("supplier %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
