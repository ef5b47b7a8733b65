// internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voltline/inventory-backend/internal/domain"
)

// ComponentRepository is the component lookup/CRUD boundary.
type ComponentRepository interface {
	Create(ctx context.Context, c *domain.Component) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Component, error)
	List(ctx context.Context, filter domain.ComponentFilter) ([]domain.Component, int, error)
	Update(ctx context.Context, c *domain.Component) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustStock applies a delta and returns the updated component.
	// Stock never goes negative; a draining delta past zero fails.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.Component, error)

	// ListBelowReorderBand returns components with stock at or below
	// 1.10x their minimum.
	ListBelowReorderBand(ctx context.Context) ([]domain.Component, error)

	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// SupplierRepository is the supplier CRUD boundary.
type SupplierRepository interface {
	Create(ctx context.Context, s *domain.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error)
	List(ctx context.Context) ([]domain.Supplier, error)
	Update(ctx context.Context, s *domain.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OfferRepository manages the component/supplier pricing join.
type OfferRepository interface {
	ListByComponent(ctx context.Context, componentID uuid.UUID) ([]domain.SupplierOffer, error)
	GetPrimary(ctx context.Context, componentID uuid.UUID) (*domain.SupplierOffer, error)
	Upsert(ctx context.Context, o *domain.SupplierOffer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UsageRepository is the append-only usage log.
type UsageRepository interface {
	Create(ctx context.Context, u *domain.UsageRecord) error
	ListByComponent(ctx context.Context, componentID uuid.UUID, since time.Time) ([]domain.UsageRecord, error)
}

// OrderRepository manages purchase orders and exposes the completed
// order history the reorder calculator consumes.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, page, pageSize int) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListCompletedSince(ctx context.Context, componentID uuid.UUID, since time.Time) ([]domain.OrderRecord, error)
}

// AlertRepository owns the email history log and per-component episode
// state. Tx variants run against a caller-held transaction so the alert
// pipeline can serialize per component.
type AlertRepository interface {
	RecordEvent(ctx context.Context, e *domain.AlertEvent) error
	RecordEventTx(ctx context.Context, tx *sqlx.Tx, e *domain.AlertEvent) error
	ListEvents(ctx context.Context, filter domain.AlertFilter) ([]domain.AlertEvent, int, error)
	UpdateEventStatus(ctx context.Context, providerMessageID, status string) error

	GetEpisodeState(ctx context.Context, componentID uuid.UUID) (*domain.EpisodeState, error)
	// LockEpisodeState reads the state FOR UPDATE, creating the row on
	// first touch.
	LockEpisodeState(ctx context.Context, tx *sqlx.Tx, componentID uuid.UUID) (*domain.EpisodeState, error)
	SetEpisodeStateTx(ctx context.Context, tx *sqlx.Tx, componentID uuid.UUID, tier string, at time.Time) error
}

// MetricsRepository backs the dashboard.
type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (*domain.DashboardMetrics, error)
	GetUsageTrend(ctx context.Context, days int) ([]domain.UsageTrendPoint, error)
}
