package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voltline/inventory-backend/internal/domain"
	"github.com/voltline/inventory-backend/internal/mail"
)

// In-memory fakes for the repository boundary. Tx-aware methods ignore
// the transaction handle; the fakes are single-goroutine test helpers.

// fakeTxRunner mimics rollback by restoring the alert repo's state when
// the transaction function fails.
type fakeTxRunner struct {
	alerts *fakeAlertRepo
}

func (r fakeTxRunner) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	events, states := r.alerts.snapshot()
	if err := fn(nil); err != nil {
		r.alerts.restore(events, states)
		return err
	}
	return nil
}

type fakeComponentRepo struct {
	components map[uuid.UUID]*domain.Component
}

func newFakeComponentRepo() *fakeComponentRepo {
	return &fakeComponentRepo{components: make(map[uuid.UUID]*domain.Component)}
}

func (r *fakeComponentRepo) Create(ctx context.Context, c *domain.Component) error {
	cp := *c
	r.components[c.ID] = &cp
	return nil
}

func (r *fakeComponentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Component, error) {
	c, ok := r.components[id]
	if !ok {
		return nil, fmt.Errorf("component %s: %w", id, domain.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeComponentRepo) List(ctx context.Context, filter domain.ComponentFilter) ([]domain.Component, int, error) {
	out := make([]domain.Component, 0, len(r.components))
	for _, c := range r.components {
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (r *fakeComponentRepo) Update(ctx context.Context, c *domain.Component) error {
	if _, ok := r.components[c.ID]; !ok {
		return fmt.Errorf("component %s: %w", c.ID, domain.ErrNotFound)
	}
	cp := *c
	r.components[c.ID] = &cp
	return nil
}

func (r *fakeComponentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.components[id]; !ok {
		return fmt.Errorf("component %s: %w", id, domain.ErrNotFound)
	}
	delete(r.components, id)
	return nil
}

func (r *fakeComponentRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.Component, error) {
	c, ok := r.components[id]
	if !ok {
		return nil, fmt.Errorf("component %s: %w", id, domain.ErrNotFound)
	}
	if c.CurrentStock+delta < 0 {
		return nil, fmt.Errorf("%w: stock cannot go negative", domain.ErrInvalidInput)
	}
	c.CurrentStock += delta
	cp := *c
	return &cp, nil
}

func (r *fakeComponentRepo) ListBelowReorderBand(ctx context.Context) ([]domain.Component, error) {
	var out []domain.Component
	for _, c := range r.components {
		if c.MinStock > 0 && c.CurrentStock*10 <= c.MinStock*11 {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeComponentRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(r.components))
	for id := range r.components {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeSupplierRepo struct {
	suppliers map[uuid.UUID]*domain.Supplier
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{suppliers: make(map[uuid.UUID]*domain.Supplier)}
}

func (r *fakeSupplierRepo) Create(ctx context.Context, s *domain.Supplier) error {
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *fakeSupplierRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, fmt.Errorf("supplier %s: %w", id, domain.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSupplierRepo) List(ctx context.Context) ([]domain.Supplier, error) {
	out := make([]domain.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSupplierRepo) Update(ctx context.Context, s *domain.Supplier) error {
	if _, ok := r.suppliers[s.ID]; !ok {
		return fmt.Errorf("supplier %s: %w", s.ID, domain.ErrNotFound)
	}
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *fakeSupplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.suppliers, id)
	return nil
}

type fakeOfferRepo struct {
	offers map[uuid.UUID][]domain.SupplierOffer
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{offers: make(map[uuid.UUID][]domain.SupplierOffer)}
}

func (r *fakeOfferRepo) ListByComponent(ctx context.Context, componentID uuid.UUID) ([]domain.SupplierOffer, error) {
	return append([]domain.SupplierOffer(nil), r.offers[componentID]...), nil
}

func (r *fakeOfferRepo) GetPrimary(ctx context.Context, componentID uuid.UUID) (*domain.SupplierOffer, error) {
	for _, o := range r.offers[componentID] {
		if o.IsPrimary {
			cp := o
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("primary offer for %s: %w", componentID, domain.ErrNotFound)
}

func (r *fakeOfferRepo) Upsert(ctx context.Context, o *domain.SupplierOffer) error {
	existing := r.offers[o.ComponentID]
	if o.IsPrimary {
		for i := range existing {
			existing[i].IsPrimary = false
		}
	}
	for i := range existing {
		if existing[i].SupplierID == o.SupplierID {
			existing[i] = *o
			r.offers[o.ComponentID] = existing
			return nil
		}
	}
	r.offers[o.ComponentID] = append(existing, *o)
	return nil
}

func (r *fakeOfferRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for componentID, offers := range r.offers {
		for i, o := range offers {
			if o.ID == id {
				r.offers[componentID] = append(offers[:i], offers[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("offer %s: %w", id, domain.ErrNotFound)
}

type fakeUsageRepo struct {
	records []domain.UsageRecord
}

func (r *fakeUsageRepo) Create(ctx context.Context, u *domain.UsageRecord) error {
	r.records = append(r.records, *u)
	return nil
}

func (r *fakeUsageRepo) ListByComponent(ctx context.Context, componentID uuid.UUID, since time.Time) ([]domain.UsageRecord, error) {
	var out []domain.UsageRecord
	for _, u := range r.records {
		if u.ComponentID == componentID && !u.Date.Before(since) {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if o.Status == "" {
		o.Status = domain.OrderStatusPending
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) List(ctx context.Context, page, pageSize int) ([]domain.Order, int, error) {
	out := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	o, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	o.Status = status
	return nil
}

func (r *fakeOrderRepo) ListCompletedSince(ctx context.Context, componentID uuid.UUID, since time.Time) ([]domain.OrderRecord, error) {
	var out []domain.OrderRecord
	for _, o := range r.orders {
		if o.ComponentID == componentID && o.Status == domain.OrderStatusCompleted && !o.OrderDate.Before(since) {
			out = append(out, domain.OrderRecord{Quantity: o.Quantity, OrderDate: o.OrderDate, Status: o.Status})
		}
	}
	return out, nil
}

type fakeAlertRepo struct {
	events []domain.AlertEvent
	states map[uuid.UUID]*domain.EpisodeState
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{states: make(map[uuid.UUID]*domain.EpisodeState)}
}

func (r *fakeAlertRepo) RecordEvent(ctx context.Context, e *domain.AlertEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.SentAt = time.Now().UTC()
	r.events = append(r.events, *e)
	return nil
}

func (r *fakeAlertRepo) RecordEventTx(ctx context.Context, tx *sqlx.Tx, e *domain.AlertEvent) error {
	return r.RecordEvent(ctx, e)
}

func (r *fakeAlertRepo) ListEvents(ctx context.Context, filter domain.AlertFilter) ([]domain.AlertEvent, int, error) {
	var out []domain.AlertEvent
	for _, e := range r.events {
		if filter.ComponentID != nil && e.ComponentID != *filter.ComponentID {
			continue
		}
		if filter.Tier != "" && e.Tier != filter.Tier {
			continue
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

func (r *fakeAlertRepo) UpdateEventStatus(ctx context.Context, providerMessageID, status string) error {
	for i := range r.events {
		if r.events[i].ProviderMessageID == providerMessageID {
			r.events[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("event %s: %w", providerMessageID, domain.ErrNotFound)
}

func (r *fakeAlertRepo) GetEpisodeState(ctx context.Context, componentID uuid.UUID) (*domain.EpisodeState, error) {
	return r.LockEpisodeState(ctx, nil, componentID)
}

func (r *fakeAlertRepo) LockEpisodeState(ctx context.Context, tx *sqlx.Tx, componentID uuid.UUID) (*domain.EpisodeState, error) {
	state, ok := r.states[componentID]
	if !ok {
		state = &domain.EpisodeState{ComponentID: componentID, LastTier: "healthy"}
		r.states[componentID] = state
	}
	cp := *state
	return &cp, nil
}

func (r *fakeAlertRepo) SetEpisodeStateTx(ctx context.Context, tx *sqlx.Tx, componentID uuid.UUID, tier string, at time.Time) error {
	r.states[componentID] = &domain.EpisodeState{ComponentID: componentID, LastTier: tier, ChangedAt: at}
	return nil
}

func (r *fakeAlertRepo) snapshot() ([]domain.AlertEvent, map[uuid.UUID]*domain.EpisodeState) {
	events := append([]domain.AlertEvent(nil), r.events...)
	states := make(map[uuid.UUID]*domain.EpisodeState, len(r.states))
	for id, s := range r.states {
		cp := *s
		states[id] = &cp
	}
	return events, states
}

func (r *fakeAlertRepo) restore(events []domain.AlertEvent, states map[uuid.UUID]*domain.EpisodeState) {
	r.events = events
	r.states = states
}

type sentMail struct {
	To      string
	Subject string
	HTML    string
}

type fakeTransport struct {
	sent    []sentMail
	failing bool
}

func (t *fakeTransport) Send(ctx context.Context, to, subject, html string) (*mail.SendResult, error) {
	if t.failing {
		return nil, fmt.Errorf("%w: connection refused", domain.ErrTransportFailure)
	}
	t.sent = append(t.sent, sentMail{To: to, Subject: subject, HTML: html})
	return &mail.SendResult{ProviderMessageID: fmt.Sprintf("msg-%d", len(t.sent))}, nil
}
