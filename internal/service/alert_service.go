package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/voltline/inventory-backend/internal/domain"
	"github.com/voltline/inventory-backend/internal/engine"
	"github.com/voltline/inventory-backend/internal/mail"
	"github.com/voltline/inventory-backend/internal/repository"
)

// consumptionWindow is how far back completed orders are consulted for
// the usage-based reorder estimate.
const consumptionWindow = 6 * 30 * 24 * time.Hour

// TxRunner runs a function inside a database transaction. Satisfied by
// postgres.DB.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// AlertOutcome reports what one evaluation of a component did.
type AlertOutcome struct {
	ComponentID    uuid.UUID              `json:"component_id"`
	Tier           string                 `json:"tier"`
	Recommendation *engine.Recommendation `json:"recommendation,omitempty"`
	Sent           bool                   `json:"sent"`
	SkipReason     string                 `json:"skip_reason,omitempty"`
	Email          *engine.Email          `json:"email,omitempty"`
	BestOffer      *engine.OfferScore     `json:"best_offer,omitempty"`
}

// ManualAlertRequest is a manager-initiated send. It bypasses the
// dispatch policy but still renders and records like an automatic one.
type ManualAlertRequest struct {
	ComponentID uuid.UUID `json:"component_id"`
	Tier        string    `json:"tier"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	Quantity    int       `json:"quantity"`
	PreviewOnly bool      `json:"preview_only"`
}

// AlertService runs the reorder alert pipeline: classify, recommend,
// rank suppliers, apply the dispatch policy, render and deliver.
type AlertService struct {
	tx         TxRunner
	components repository.ComponentRepository
	offers     repository.OfferRepository
	orders     repository.OrderRepository
	alerts     repository.AlertRepository
	transport  mail.Transport
}

func NewAlertService(
	tx TxRunner,
	components repository.ComponentRepository,
	offers repository.OfferRepository,
	orders repository.OrderRepository,
	alerts repository.AlertRepository,
	transport mail.Transport,
) *AlertService {
	return &AlertService{
		tx:         tx,
		components: components,
		offers:     offers,
		orders:     orders,
		alerts:     alerts,
		transport:  transport,
	}
}

// HandleStockChanged re-evaluates a component after any stock-changing
// event and sends an alert when the dispatch policy calls for one. The
// episode row lock serializes concurrent evaluations of the same
// component, so at most one alert fires per tier transition.
func (s *AlertService) HandleStockChanged(ctx context.Context, componentID uuid.UUID) (*AlertOutcome, error) {
	c, err := s.components.GetByID(ctx, componentID)
	if err != nil {
		return nil, err
	}

	tier, err := engine.Classify(c.CurrentStock, c.MinStock)
	if err != nil {
		return nil, err
	}

	outcome := &AlertOutcome{ComponentID: componentID, Tier: string(tier)}

	if tier == engine.TierHealthy {
		// still advance the episode state so recovery re-arms alerts
		if err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
			state, err := s.alerts.LockEpisodeState(ctx, tx, componentID)
			if err != nil {
				return err
			}
			if engine.Tier(state.LastTier) == engine.TierHealthy {
				return nil
			}
			return s.alerts.SetEpisodeStateTx(ctx, tx, componentID, string(tier), time.Now().UTC())
		}); err != nil {
			return nil, err
		}

		outcome.SkipReason = "stock is healthy"
		return outcome, nil
	}

	rec := s.recommendation(ctx, c)
	outcome.Recommendation = &rec

	ranked, recipient := s.rankedOffers(ctx, c)
	if len(ranked) > 0 {
		outcome.BestOffer = &ranked[0]
	}

	if recipient == nil || recipient.SupplierEmail == "" {
		outcome.SkipReason = "no supplier email on file"
		log.Warn().Str("component", c.Name).Msg("alert skipped, no supplier email")
		return outcome, nil
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		state, err := s.alerts.LockEpisodeState(ctx, tx, componentID)
		if err != nil {
			return err
		}

		prev := engine.Tier(state.LastTier)
		send := engine.ShouldSend(prev, tier)

		if err := s.alerts.SetEpisodeStateTx(ctx, tx, componentID, string(tier), time.Now().UTC()); err != nil {
			return err
		}
		if !send {
			outcome.SkipReason = "already alerted this episode"
			return nil
		}

		email, err := engine.BuildEmail(*c, recipient.SupplierName, tier, rec, nil)
		if err != nil {
			return err
		}

		result, err := s.transport.Send(ctx, recipient.SupplierEmail, email.Subject, email.HTML)
		if err != nil {
			// roll back the episode advance so the alert can re-fire
			return err
		}

		event := &domain.AlertEvent{
			ComponentID:       componentID,
			SupplierID:        recipient.SupplierID,
			Tier:              string(tier),
			Subject:           email.Subject,
			Body:              email.HTML,
			SentTo:            recipient.SupplierEmail,
			Status:            "sent",
			OriginalQuantity:  rec.Quantity,
			ProviderMessageID: result.ProviderMessageID,
		}
		if err := s.alerts.RecordEventTx(ctx, tx, event); err != nil {
			return err
		}

		outcome.Sent = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if outcome.Sent {
		log.Info().
			Str("component", c.Name).
			Str("tier", string(tier)).
			Int("quantity", rec.Quantity).
			Str("to", recipient.SupplierEmail).
			Msg("supplier alert sent")
	}

	return outcome, nil
}

// SendManual renders and (unless previewing) sends a manager-initiated
// alert. Policy is not consulted; episode state is left untouched.
func (s *AlertService) SendManual(ctx context.Context, req ManualAlertRequest) (*AlertOutcome, error) {
	c, err := s.components.GetByID(ctx, req.ComponentID)
	if err != nil {
		return nil, err
	}

	tier, err := s.manualTier(c, req.Tier)
	if err != nil {
		return nil, err
	}

	rec := s.recommendation(ctx, c)
	ranked, recipient := s.rankedOffers(ctx, c)

	outcome := &AlertOutcome{
		ComponentID:    req.ComponentID,
		Tier:           string(tier),
		Recommendation: &rec,
	}
	if len(ranked) > 0 {
		outcome.BestOffer = &ranked[0]
	}

	opts := &engine.EmailOptions{
		Subject:  req.Subject,
		Message:  req.Message,
		Quantity: req.Quantity,
	}

	supplierName := ""
	if recipient != nil {
		supplierName = recipient.SupplierName
	}

	email, err := engine.BuildEmail(*c, supplierName, tier, rec, opts)
	if err != nil {
		return nil, err
	}

	if req.PreviewOnly {
		outcome.Email = &email
		return outcome, nil
	}

	if recipient == nil || recipient.SupplierEmail == "" {
		return nil, fmt.Errorf("%w: component %s has no supplier email", domain.ErrInvalidInput, c.Name)
	}

	result, err := s.transport.Send(ctx, recipient.SupplierEmail, email.Subject, email.HTML)
	if err != nil {
		return nil, err
	}

	finalQuantity := rec.Quantity
	if req.Quantity > 0 {
		finalQuantity = req.Quantity
	}

	event := &domain.AlertEvent{
		ComponentID:       req.ComponentID,
		SupplierID:        recipient.SupplierID,
		Tier:              string(tier),
		Subject:           email.Subject,
		Body:              email.HTML,
		SentTo:            recipient.SupplierEmail,
		Status:            "sent",
		OriginalQuantity:  rec.Quantity,
		FinalQuantity:     finalQuantity,
		ModifiedByManager: req.Quantity > 0 && req.Quantity != rec.Quantity,
		ProviderMessageID: result.ProviderMessageID,
	}
	if err := s.alerts.RecordEvent(ctx, event); err != nil {
		return nil, err
	}

	outcome.Sent = true
	return outcome, nil
}

// History lists recorded alert events.
func (s *AlertService) History(ctx context.Context, filter domain.AlertFilter) ([]domain.AlertEvent, int, error) {
	return s.alerts.ListEvents(ctx, filter)
}

// recommendation computes the reorder quantity, degrading to the
// no-history estimate when the order history lookup fails.
func (s *AlertService) recommendation(ctx context.Context, c *domain.Component) engine.Recommendation {
	leadTime := engine.DefaultLeadTimeDays
	primary, err := s.offers.GetPrimary(ctx, c.ID)
	if err == nil && primary.LeadTimeDays > 0 {
		leadTime = primary.LeadTimeDays
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		log.Warn().Err(err).Str("component", c.Name).Msg("primary offer lookup failed, using default lead time")
	}

	since := time.Now().UTC().Add(-consumptionWindow)
	history, err := s.orders.ListCompletedSince(ctx, c.ID, since)
	if err != nil {
		log.Warn().Err(err).Str("component", c.Name).Msg("order history unavailable, using baseline estimate")
		history = nil
	}

	rec, err := engine.Recommend(*c, leadTime, history)
	if err != nil {
		// inputs were validated by Classify upstream; fall back to the
		// bare minimum rather than dropping the alert
		log.Error().Err(err).Str("component", c.Name).Msg("reorder calculation failed")
		rec = engine.Recommendation{Quantity: c.MinStock, LeadTimeDays: leadTime}
	}

	return rec
}

// rankedOffers scores the component's offers and picks the alert
// recipient: the primary supplier when present, otherwise the
// best-ranked offer.
func (s *AlertService) rankedOffers(ctx context.Context, c *domain.Component) ([]engine.OfferScore, *domain.SupplierOffer) {
	offers, err := s.offers.ListByComponent(ctx, c.ID)
	if err != nil {
		log.Warn().Err(err).Str("component", c.Name).Msg("offer lookup failed")
		return nil, nil
	}
	if len(offers) == 0 {
		return nil, nil
	}

	var recipient *domain.SupplierOffer
	referencePrice := offers[0].UnitPrice
	for i := range offers {
		if offers[i].IsPrimary {
			recipient = &offers[i]
			referencePrice = offers[i].UnitPrice
			break
		}
	}

	ranked, err := engine.RankOffers(offers, referencePrice)
	if err != nil {
		log.Warn().Err(err).Str("component", c.Name).Msg("offer ranking failed")
		ranked = nil
	}

	if recipient == nil && len(ranked) > 0 {
		recipient = &ranked[0].Offer
	}

	return ranked, recipient
}

func (s *AlertService) manualTier(c *domain.Component, requested string) (engine.Tier, error) {
	if requested != "" {
		tier := engine.Tier(strings.ToLower(requested))
		if tier != engine.TierCritical && tier != engine.TierReorder {
			return "", fmt.Errorf("%w: unknown alert tier %q", domain.ErrInvalidInput, requested)
		}
		return tier, nil
	}

	tier, err := engine.Classify(c.CurrentStock, c.MinStock)
	if err != nil {
		return "", err
	}
	if tier == engine.TierHealthy {
		// manual sends are allowed for healthy components, framed as a
		// standard reorder request
		tier = engine.TierReorder
	}

	return tier, nil
}
