package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/voltline/inventory-backend/internal/domain"
	"github.com/voltline/inventory-backend/internal/engine"
	"github.com/voltline/inventory-backend/internal/repository"
)

// ProcurementItem is one component needing attention, with the reorder
// recommendation and the ranked supplier options for it.
type ProcurementItem struct {
	Component        domain.Component      `json:"component"`
	Tier             string                `json:"tier"`
	Recommendation   engine.Recommendation `json:"recommendation"`
	Offers           []engine.OfferScore   `json:"offers"`
	PotentialSavings decimal.Decimal       `json:"potential_savings"`
}

// ProcurementService builds the restocking worklist: every component at
// or below the reorder band, with quantities and scored suppliers.
type ProcurementService struct {
	components repository.ComponentRepository
	offers     repository.OfferRepository
	orders     repository.OrderRepository
}

func NewProcurementService(
	components repository.ComponentRepository,
	offers repository.OfferRepository,
	orders repository.OrderRepository,
) *ProcurementService {
	return &ProcurementService{
		components: components,
		offers:     offers,
		orders:     orders,
	}
}

// Worklist returns procurement items for every component below the
// reorder band, most severe first.
func (s *ProcurementService) Worklist(ctx context.Context) ([]ProcurementItem, error) {
	components, err := s.components.ListBelowReorderBand(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]ProcurementItem, 0, len(components))
	for _, c := range components {
		item, err := s.buildItem(ctx, c)
		if err != nil {
			log.Warn().Err(err).Str("component", c.Name).Msg("skipping component in procurement worklist")
			continue
		}
		items = append(items, item)
	}

	// critical components float to the top
	sort.SliceStable(items, func(i, j int) bool {
		return tierRank(items[i].Tier) > tierRank(items[j].Tier)
	})

	return items, nil
}

// ComponentDetail builds the procurement view for one component, whether
// or not it sits below the reorder band.
func (s *ProcurementService) ComponentDetail(ctx context.Context, componentID uuid.UUID) (*ProcurementItem, error) {
	c, err := s.components.GetByID(ctx, componentID)
	if err != nil {
		return nil, err
	}

	item, err := s.buildItem(ctx, *c)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (s *ProcurementService) buildItem(ctx context.Context, c domain.Component) (ProcurementItem, error) {
	tier, err := engine.Classify(c.CurrentStock, c.MinStock)
	if err != nil {
		return ProcurementItem{}, err
	}

	offers, err := s.offers.ListByComponent(ctx, c.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return ProcurementItem{}, err
	}

	leadTime := engine.DefaultLeadTimeDays
	referencePrice := decimal.Zero
	var primary *domain.SupplierOffer
	for i := range offers {
		if offers[i].IsPrimary {
			primary = &offers[i]
			break
		}
	}
	if primary != nil {
		referencePrice = primary.UnitPrice
		if primary.LeadTimeDays > 0 {
			leadTime = primary.LeadTimeDays
		}
	} else if len(offers) > 0 {
		referencePrice = offers[0].UnitPrice
	}

	since := time.Now().UTC().Add(-consumptionWindow)
	history, err := s.orders.ListCompletedSince(ctx, c.ID, since)
	if err != nil {
		log.Warn().Err(err).Str("component", c.Name).Msg("order history unavailable, using baseline estimate")
		history = nil
	}

	rec, err := engine.Recommend(c, leadTime, history)
	if err != nil {
		return ProcurementItem{}, err
	}

	ranked, err := engine.RankOffers(offers, referencePrice)
	if err != nil {
		return ProcurementItem{}, err
	}

	return ProcurementItem{
		Component:        c,
		Tier:             string(tier),
		Recommendation:   rec,
		Offers:           ranked,
		PotentialSavings: potentialSavings(primary, ranked, rec.Quantity),
	}, nil
}

// potentialSavings is what switching from the primary supplier to the
// best-ranked one would save on the recommended quantity.
func potentialSavings(primary *domain.SupplierOffer, ranked []engine.OfferScore, quantity int) decimal.Decimal {
	if primary == nil || len(ranked) == 0 {
		return decimal.Zero
	}

	best := ranked[0].Offer
	if best.ID == primary.ID || !best.UnitPrice.LessThan(primary.UnitPrice) {
		return decimal.Zero
	}

	perUnit := primary.UnitPrice.Sub(best.UnitPrice)
	return perUnit.Mul(decimal.NewFromInt(int64(quantity)))
}

func tierRank(tier string) int {
	return engine.Severity(engine.Tier(tier))
}
