package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/voltline/inventory-backend/internal/domain"
	"github.com/voltline/inventory-backend/internal/repository"
)

type orderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now().UTC()
	}
	if o.Status == "" {
		o.Status = domain.OrderStatusPending
	}
	if o.TotalAmount.IsZero() {
		o.TotalAmount = o.UnitPrice.Mul(decimal.NewFromInt(int64(o.Quantity)))
	}

	query := `
        INSERT INTO orders (id, component_id, supplier_id, quantity, unit_price, total_amount, order_date, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
        RETURNING created_at
    `

	err := r.db.QueryRowxContext(ctx, query,
		o.ID, o.ComponentID, o.SupplierID, o.Quantity, o.UnitPrice, o.TotalAmount, o.OrderDate, o.Status,
	).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating order: %w", err)
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
        SELECT id, component_id, supplier_id, quantity, unit_price, total_amount, order_date, status, created_at
        FROM orders
        WHERE id = $1
    `

	var o domain.Order
	if err := r.db.GetContext(ctx, &o, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("error getting order: %w", err)
	}

	return &o, nil
}

func (r *orderRepository) List(ctx context.Context, page, pageSize int) ([]domain.Order, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM orders`); err != nil {
		return nil, 0, fmt.Errorf("error counting orders: %w", err)
	}

	query := `
        SELECT id, component_id, supplier_id, quantity, unit_price, total_amount, order_date, status, created_at
        FROM orders
        ORDER BY order_date DESC, created_at DESC
    `

	var args []interface{}
	if pageSize > 0 {
		if page < 1 {
			page = 1
		}
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, pageSize, (page-1)*pageSize)
	}

	var orders []domain.Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("error listing orders: %w", err)
	}

	return orders, total, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("error updating order status: %w", err)
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *orderRepository) ListCompletedSince(ctx context.Context, componentID uuid.UUID, since time.Time) ([]domain.OrderRecord, error) {
	query := `
        SELECT quantity, order_date, status
        FROM orders
        WHERE component_id = $1 AND status = $2 AND order_date >= $3
        ORDER BY order_date DESC
    `

	var records []domain.OrderRecord
	if err := r.db.SelectContext(ctx, &records, query, componentID, domain.OrderStatusCompleted, since); err != nil {
		return nil, fmt.Errorf("error listing completed orders: %w", err)
	}

	return records, nil
}
