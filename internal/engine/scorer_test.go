package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/voltline/inventory-backend/internal/domain"
)

func offer(price float64, leadDays, rating int) domain.SupplierOffer {
	return domain.SupplierOffer{
		UnitPrice:    decimal.NewFromFloat(price),
		LeadTimeDays: leadDays,
		Rating:       rating,
	}
}

func TestScoreOffer_WeightedFormula(t *testing.T) {
	ref := decimal.NewFromInt(100)

	// price 100 vs ref 100: priceScore = 100 - 100/150*100 = 33.33
	// lead 10: leadScore = 100 - 10/60*100 = 83.33; rating 4 -> 100
	a, err := ScoreOffer(offer(100, 10, 4), ref)
	require.NoError(t, err)
	assert.InDelta(t, 33.3333, a.PriceScore, 0.01)
	assert.InDelta(t, 83.3333, a.LeadTimeScore, 0.01)
	assert.InDelta(t, 100.0, a.RatingScore, 0.01)
	assert.InDelta(t, 68.3333, a.Total, 0.01)

	// price 90: priceScore = 100 - 90/150*100 = 40
	// lead 20 -> 66.67; rating 2 -> 50
	b, err := ScoreOffer(offer(90, 20, 2), ref)
	require.NoError(t, err)
	assert.InDelta(t, 40.0, b.PriceScore, 0.01)
	assert.InDelta(t, 66.6667, b.LeadTimeScore, 0.01)
	assert.InDelta(t, 50.0, b.RatingScore, 0.01)
	assert.InDelta(t, 51.0, b.Total, 0.01)

	assert.Greater(t, a.Total, b.Total)
}

func TestRankOffers_BestFlagAndOrder(t *testing.T) {
	ref := decimal.NewFromInt(100)
	offers := []domain.SupplierOffer{
		offer(90, 20, 2),
		offer(100, 10, 4),
	}

	ranked, err := RankOffers(offers, ref)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.True(t, ranked[0].IsBest)
	assert.False(t, ranked[1].IsBest)
	assert.True(t, ranked[0].Offer.UnitPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, ranked[1].CheaperThanCurrent)
}

func TestRankOffers_TieBreaksOnPriceThenLeadTime(t *testing.T) {
	ref := decimal.NewFromInt(50)
	// identical scores except price
	ranked, err := RankOffers([]domain.SupplierOffer{
		offer(60, 10, 3),
		offer(55, 10, 3),
	}, ref)
	require.NoError(t, err)
	assert.True(t, ranked[0].Offer.UnitPrice.LessThan(ranked[1].Offer.UnitPrice))
}

func TestRankOffers_StableAcrossRuns(t *testing.T) {
	ref := decimal.NewFromInt(80)
	offers := []domain.SupplierOffer{
		offer(100, 30, 1),
		offer(80, 14, 3),
		offer(75, 21, 2),
		offer(80, 14, 3),
	}

	first, err := RankOffers(offers, ref)
	require.NoError(t, err)
	second, err := RankOffers(offers, ref)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i].Offer.UnitPrice.Equal(second[i].Offer.UnitPrice))
		assert.Equal(t, first[i].Offer.LeadTimeDays, second[i].Offer.LeadTimeDays)
		assert.Equal(t, first[i].IsBest, second[i].IsBest)
	}
}

func TestScoreOffer_InvalidOffers(t *testing.T) {
	ref := decimal.NewFromInt(100)

	_, err := ScoreOffer(offer(-1, 10, 3), ref)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ScoreOffer(offer(10, 10, 5), ref)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestScoreOffer_Monotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ref := decimal.NewFromFloat(rapid.Float64Range(1, 1000).Draw(t, "ref"))
		price := rapid.Float64Range(0, 1000).Draw(t, "price")
		cheaper := rapid.Float64Range(0, price).Draw(t, "cheaper")
		lead := rapid.IntRange(1, 120).Draw(t, "lead")
		shorterLead := rapid.IntRange(1, lead).Draw(t, "shorterLead")
		rating := rapid.IntRange(0, 4).Draw(t, "rating")
		higherRating := rapid.IntRange(rating, 4).Draw(t, "higherRating")

		base, err := ScoreOffer(offer(price, lead, rating), ref)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cheaperScore, err := ScoreOffer(offer(cheaper, lead, rating), ref)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cheaperScore.Total < base.Total-1e-9 {
			t.Fatalf("cheaper offer scored lower: %.6f < %.6f", cheaperScore.Total, base.Total)
		}

		fasterScore, err := ScoreOffer(offer(price, shorterLead, rating), ref)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fasterScore.Total < base.Total-1e-9 {
			t.Fatalf("faster offer scored lower: %.6f < %.6f", fasterScore.Total, base.Total)
		}

		betterRated, err := ScoreOffer(offer(price, lead, higherRating), ref)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if betterRated.Total < base.Total-1e-9 {
			t.Fatalf("better rated offer scored lower: %.6f < %.6f", betterRated.Total, base.Total)
		}
	})
}
