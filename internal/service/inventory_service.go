package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/voltline/inventory-backend/internal/cache"
	"github.com/voltline/inventory-backend/internal/domain"
	"github.com/voltline/inventory-backend/internal/repository"
)

// InventoryService owns component, supplier, offer, usage and order
// operations. Every stock-changing write invalidates the dashboard
// cache and hands the component to the alert pipeline.
type InventoryService struct {
	components repository.ComponentRepository
	suppliers  repository.SupplierRepository
	offers     repository.OfferRepository
	usage      repository.UsageRepository
	orders     repository.OrderRepository
	alerts     *AlertService
	cache      cache.DashboardCache
}

func NewInventoryService(
	components repository.ComponentRepository,
	suppliers repository.SupplierRepository,
	offers repository.OfferRepository,
	usage repository.UsageRepository,
	orders repository.OrderRepository,
	alerts *AlertService,
	dashboardCache cache.DashboardCache,
) *InventoryService {
	return &InventoryService{
		components: components,
		suppliers:  suppliers,
		offers:     offers,
		usage:      usage,
		orders:     orders,
		alerts:     alerts,
		cache:      dashboardCache,
	}
}

func (s *InventoryService) CreateComponent(ctx context.Context, c *domain.Component) error {
	if err := validateComponent(c); err != nil {
		return err
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	if err := s.components.Create(ctx, c); err != nil {
		return err
	}

	s.invalidateDashboard(ctx)
	return nil
}

func (s *InventoryService) GetComponent(ctx context.Context, id uuid.UUID) (*domain.Component, error) {
	return s.components.GetByID(ctx, id)
}

func (s *InventoryService) ListComponents(ctx context.Context, filter domain.ComponentFilter) ([]domain.Component, int, error) {
	return s.components.List(ctx, filter)
}

func (s *InventoryService) UpdateComponent(ctx context.Context, c *domain.Component) (*AlertOutcome, error) {
	if err := validateComponent(c); err != nil {
		return nil, err
	}

	if err := s.components.Update(ctx, c); err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx)
	return s.evaluateAlerts(ctx, c.ID), nil
}

func (s *InventoryService) DeleteComponent(ctx context.Context, id uuid.UUID) error {
	if err := s.components.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateDashboard(ctx)
	return nil
}

// LogUsage records consumed units and drains stock by the same amount.
func (s *InventoryService) LogUsage(ctx context.Context, componentID uuid.UUID, unitsUsed int, date time.Time) (*AlertOutcome, error) {
	if unitsUsed <= 0 {
		return nil, fmt.Errorf("%w: units used must be positive, got %d", domain.ErrInvalidInput, unitsUsed)
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}

	record := &domain.UsageRecord{
		ID:          uuid.New(),
		ComponentID: componentID,
		Date:        date,
		UnitsUsed:   unitsUsed,
	}
	if err := s.usage.Create(ctx, record); err != nil {
		return nil, err
	}

	if _, err := s.components.AdjustStock(ctx, componentID, -unitsUsed); err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx)
	return s.evaluateAlerts(ctx, componentID), nil
}

func (s *InventoryService) ListUsage(ctx context.Context, componentID uuid.UUID, since time.Time) ([]domain.UsageRecord, error) {
	return s.usage.ListByComponent(ctx, componentID, since)
}

func (s *InventoryService) CreateSupplier(ctx context.Context, sup *domain.Supplier) error {
	if err := validateSupplier(sup); err != nil {
		return err
	}
	if sup.ID == uuid.Nil {
		sup.ID = uuid.New()
	}

	return s.suppliers.Create(ctx, sup)
}

func (s *InventoryService) GetSupplier(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	return s.suppliers.GetByID(ctx, id)
}

func (s *InventoryService) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return s.suppliers.List(ctx)
}

func (s *InventoryService) UpdateSupplier(ctx context.Context, sup *domain.Supplier) error {
	if err := validateSupplier(sup); err != nil {
		return err
	}

	return s.suppliers.Update(ctx, sup)
}

func (s *InventoryService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	return s.suppliers.Delete(ctx, id)
}

func (s *InventoryService) ListOffers(ctx context.Context, componentID uuid.UUID) ([]domain.SupplierOffer, error) {
	return s.offers.ListByComponent(ctx, componentID)
}

// UpsertOffer creates or updates a supplier's pricing for a component.
// Marking an offer primary demotes any existing primary.
func (s *InventoryService) UpsertOffer(ctx context.Context, o *domain.SupplierOffer) error {
	if o.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price must not be negative", domain.ErrInvalidInput)
	}
	if o.LeadTimeDays < 0 {
		return fmt.Errorf("%w: lead time must not be negative", domain.ErrInvalidInput)
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}

	return s.offers.Upsert(ctx, o)
}

func (s *InventoryService) DeleteOffer(ctx context.Context, id uuid.UUID) error {
	return s.offers.Delete(ctx, id)
}

// CreateOrder records a purchase order. Unit price defaults to the
// supplier's offer when not given; stock is only adjusted on delivery.
func (s *InventoryService) CreateOrder(ctx context.Context, o *domain.Order) error {
	if o.Quantity <= 0 {
		return fmt.Errorf("%w: order quantity must be positive, got %d", domain.ErrInvalidInput, o.Quantity)
	}

	if _, err := s.components.GetByID(ctx, o.ComponentID); err != nil {
		return err
	}
	if _, err := s.suppliers.GetByID(ctx, o.SupplierID); err != nil {
		return err
	}

	if o.UnitPrice.IsZero() {
		offers, err := s.offers.ListByComponent(ctx, o.ComponentID)
		if err == nil {
			for _, offer := range offers {
				if offer.SupplierID == o.SupplierID {
					o.UnitPrice = offer.UnitPrice
					break
				}
			}
		}
	}

	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now().UTC()
	}
	// every order enters the lifecycle at pending, whatever the client sent
	o.Status = domain.OrderStatusPending
	o.TotalAmount = o.UnitPrice.Mul(decimal.NewFromInt(int64(o.Quantity)))

	return s.orders.Create(ctx, o)
}

func (s *InventoryService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *InventoryService) ListOrders(ctx context.Context, page, pageSize int) ([]domain.Order, int, error) {
	return s.orders.List(ctx, page, pageSize)
}

// UpdateOrderStatus moves an order along its lifecycle. Delivery is the
// moment stock arrives, so it replenishes the component and re-runs the
// alert evaluation.
func (s *InventoryService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*AlertOutcome, error) {
	status = strings.ToLower(status)
	if !domain.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrInvalidInput, status)
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransitionOrder(order.Status, status) {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", domain.ErrInvalidInput, order.Status, status)
	}

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	if status != domain.OrderStatusDelivered {
		return nil, nil
	}

	if _, err := s.components.AdjustStock(ctx, order.ComponentID, order.Quantity); err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx)
	return s.evaluateAlerts(ctx, order.ComponentID), nil
}

// evaluateAlerts runs the alert pipeline after a stock change. Alerting
// failures never fail the write that triggered them.
func (s *InventoryService) evaluateAlerts(ctx context.Context, componentID uuid.UUID) *AlertOutcome {
	outcome, err := s.alerts.HandleStockChanged(ctx, componentID)
	if err != nil {
		log.Error().Err(err).Str("component_id", componentID.String()).Msg("alert evaluation failed")
		return nil
	}

	return outcome
}

func (s *InventoryService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("dashboard cache invalidation failed")
	}
}

func validateComponent(c *domain.Component) error {
	if c.Name == "" {
		return fmt.Errorf("%w: component name is required", domain.ErrInvalidInput)
	}
	if c.CurrentStock < 0 {
		return fmt.Errorf("%w: current stock must not be negative", domain.ErrInvalidInput)
	}
	if c.MinStock < 0 {
		return fmt.Errorf("%w: minimum stock must not be negative", domain.ErrInvalidInput)
	}
	if c.UnitCost.IsNegative() {
		return fmt.Errorf("%w: unit cost must not be negative", domain.ErrInvalidInput)
	}

	return nil
}

func validateSupplier(s *domain.Supplier) error {
	if s.Name == "" {
		return fmt.Errorf("%w: supplier name is required", domain.ErrInvalidInput)
	}
	if s.Rating < 0 || s.Rating > 4 {
		return fmt.Errorf("%w: supplier rating %d outside 0..4", domain.ErrInvalidInput, s.Rating)
	}

	return nil
}
