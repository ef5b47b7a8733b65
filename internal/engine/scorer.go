package engine

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/voltline/inventory-backend/internal/domain"
)

const (
	maxRating           = 4
	maxExpectedLeadDays = 60

	priceWeight    = 0.4
	leadTimeWeight = 0.3
	ratingWeight   = 0.3
)

// OfferScore is a scored supplier offer. All component scores are on a
// 0..100 scale.
type OfferScore struct {
	Offer              domain.SupplierOffer `json:"offer"`
	PriceScore         float64              `json:"price_score"`
	LeadTimeScore      float64              `json:"lead_time_score"`
	RatingScore        float64              `json:"rating_score"`
	Total              float64              `json:"total_score"`
	IsBest             bool                 `json:"is_best"`
	CheaperThanCurrent bool                 `json:"cheaper_than_current"`
}

// ScoreOffer scores one offer against the component's reference price
// (the primary supplier's unit price). Weighted 40% price, 30% lead
// time, 30% rating.
func ScoreOffer(offer domain.SupplierOffer, referencePrice decimal.Decimal) (OfferScore, error) {
	if err := validateOffer(offer); err != nil {
		return OfferScore{}, err
	}

	price := offer.UnitPrice.InexactFloat64()
	ref := referencePrice.InexactFloat64()
	if ref < 0 {
		ref = 0
	}

	leadTime := offer.LeadTimeDays
	if leadTime <= 0 {
		leadTime = DefaultLeadTimeDays
	}

	// Prices up to 1.5x the reference are spread across the scale;
	// anything above scores a flat floor.
	maxExpectedPrice := price
	if ref > maxExpectedPrice {
		maxExpectedPrice = ref
	}
	maxExpectedPrice *= 1.5

	priceScore := 100.0
	if maxExpectedPrice > 0 {
		priceScore = clampScore(100 - (price/maxExpectedPrice)*100)
	}

	leadTimeScore := clampScore(100 - (float64(leadTime)/maxExpectedLeadDays)*100)
	ratingScore := (float64(offer.Rating) / maxRating) * 100

	total := priceScore*priceWeight + leadTimeScore*leadTimeWeight + ratingScore*ratingWeight

	return OfferScore{
		Offer:              offer,
		PriceScore:         priceScore,
		LeadTimeScore:      leadTimeScore,
		RatingScore:        ratingScore,
		Total:              total,
		CheaperThanCurrent: ref > 0 && offer.UnitPrice.LessThan(referencePrice),
	}, nil
}

// RankOffers scores all offers and sorts them best-first. Ties on total
// score fall back to lower price, then shorter lead time, so the order
// is deterministic. The top entry is flagged IsBest.
func RankOffers(offers []domain.SupplierOffer, referencePrice decimal.Decimal) ([]OfferScore, error) {
	scored := make([]OfferScore, 0, len(offers))
	for _, offer := range offers {
		s, err := ScoreOffer(offer, referencePrice)
		if err != nil {
			return nil, err
		}
		scored = append(scored, s)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Total != scored[j].Total {
			return scored[i].Total > scored[j].Total
		}
		if !scored[i].Offer.UnitPrice.Equal(scored[j].Offer.UnitPrice) {
			return scored[i].Offer.UnitPrice.LessThan(scored[j].Offer.UnitPrice)
		}
		return scored[i].Offer.LeadTimeDays < scored[j].Offer.LeadTimeDays
	})

	if len(scored) > 0 {
		scored[0].IsBest = true
	}

	return scored, nil
}

func validateOffer(offer domain.SupplierOffer) error {
	if offer.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: offer %s has negative unit price", domain.ErrInvalidInput, offer.ID)
	}
	if offer.Rating < 0 || offer.Rating > maxRating {
		return fmt.Errorf("%w: offer %s rating %d outside 0..%d", domain.ErrInvalidInput, offer.ID, offer.Rating, maxRating)
	}

	return nil
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
