package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/voltline/inventory-backend/internal/domain"
)

func component(current, min int) domain.Component {
	return domain.Component{Name: "10k resistor", Category: "Passive", CurrentStock: current, MinStock: min}
}

func TestRecommend_NoHistory(t *testing.T) {
	// current 8, min 10, lead 7: daily = 10/30, safety = ceil(7/3) = 3,
	// target = 11 + 3 = 14, qty = max(14-8, 10) = 10
	rec, err := Recommend(component(8, 10), 7, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, rec.SafetyStock)
	assert.Equal(t, 14, rec.TargetStock)
	assert.Equal(t, 10, rec.Quantity)
	assert.False(t, rec.UsedHistory)
	assert.InDelta(t, 10.0/30.0, rec.DailyConsumption, 1e-9)
}

func TestRecommend_DefaultLeadTime(t *testing.T) {
	rec, err := Recommend(component(8, 10), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultLeadTimeDays, rec.LeadTimeDays)
}

func TestRecommend_WithHistory(t *testing.T) {
	// 60 units over 90 days: avg monthly = ceil(60/3) = 20,
	// safety = ceil(20/30 * 10 * 1.5) = 10, target = max(10, 20) + 10 = 30
	history := []domain.OrderRecord{
		{Quantity: 25, OrderDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Status: domain.OrderStatusCompleted},
		{Quantity: 35, OrderDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Status: domain.OrderStatusCompleted},
	}

	rec, err := Recommend(component(5, 10), 10, history)
	require.NoError(t, err)

	assert.True(t, rec.UsedHistory)
	assert.Equal(t, 20, rec.AvgMonthlyConsumption)
	assert.Equal(t, 10, rec.SafetyStock)
	assert.Equal(t, 30, rec.TargetStock)
	assert.Equal(t, 25, rec.Quantity)
}

func TestRecommend_SingleOrderSpansOneMonth(t *testing.T) {
	// one order: zero day span is clamped to one month
	history := []domain.OrderRecord{
		{Quantity: 30, OrderDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Status: domain.OrderStatusCompleted},
	}

	rec, err := Recommend(component(0, 10), 7, history)
	require.NoError(t, err)

	assert.Equal(t, 30, rec.AvgMonthlyConsumption)
	// daily = 1, safety = ceil(1 * 7 * 1.5) = 11
	assert.Equal(t, 11, rec.SafetyStock)
	assert.Equal(t, 41, rec.Quantity)
}

func TestRecommend_IgnoresIncompleteOrders(t *testing.T) {
	history := []domain.OrderRecord{
		{Quantity: 100, OrderDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), Status: domain.OrderStatusPending},
		{Quantity: 50, OrderDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Status: domain.OrderStatusCancelled},
	}

	rec, err := Recommend(component(8, 10), 7, history)
	require.NoError(t, err)
	assert.False(t, rec.UsedHistory)
	assert.Equal(t, 10, rec.Quantity)
}

func TestRecommend_NegativeStock(t *testing.T) {
	_, err := Recommend(component(-1, 10), 7, nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecommend_FloorsAtMinStock(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		min := rapid.IntRange(1, 10000).Draw(t, "min")
		current := rapid.IntRange(0, min-1).Draw(t, "current")
		lead := rapid.IntRange(1, 90).Draw(t, "lead")

		rec, err := Recommend(component(current, min), lead, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Quantity < min {
			t.Fatalf("quantity %d below min stock floor %d", rec.Quantity, min)
		}
	})
}
