package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/voltline/inventory-backend/internal/domain"
)

const (
	// DefaultLeadTimeDays is assumed when no primary supplier lead time
	// is known.
	DefaultLeadTimeDays = 7

	daysPerMonth = 30
)

// Recommendation explains a recommended order quantity. The breakdown
// fields mirror what the calculation used so callers can surface them.
type Recommendation struct {
	Quantity              int     `json:"quantity"`
	SafetyStock           int     `json:"safety_stock"`
	TargetStock           int     `json:"target_stock"`
	AvgMonthlyConsumption int     `json:"avg_monthly_consumption,omitempty"`
	DailyConsumption      float64 `json:"daily_consumption"`
	LeadTimeDays          int     `json:"lead_time_days"`
	UsedHistory           bool    `json:"used_history"`
}

// Recommend computes the suggested order quantity for a component.
//
// With at least one completed order in the supplied history, consumption
// is estimated from the trailing order volume and padded with a 50%
// safety buffer over the supplier lead time. Without history the minimum
// stock is treated as one month of demand. In both modes the result is
// floored at min stock, so a triggered reorder never suggests less than
// the baseline.
func Recommend(c domain.Component, leadTimeDays int, history []domain.OrderRecord) (Recommendation, error) {
	if c.CurrentStock < 0 || c.MinStock < 0 {
		return Recommendation{}, fmt.Errorf("%w: negative stock on component %s", domain.ErrInvalidInput, c.ID)
	}
	if leadTimeDays <= 0 {
		leadTimeDays = DefaultLeadTimeDays
	}

	completed := completedOrders(history)
	if len(completed) == 0 {
		return recommendWithoutHistory(c, leadTimeDays), nil
	}

	return recommendFromHistory(c, leadTimeDays, completed), nil
}

func recommendWithoutHistory(c domain.Component, leadTimeDays int) Recommendation {
	daily := float64(c.MinStock) / daysPerMonth
	safety := int(math.Ceil(daily * float64(leadTimeDays)))

	// ceil(min * 1.10) in integer arithmetic
	healthyLevel := ceilDiv(c.MinStock*110, 100)
	target := healthyLevel + safety

	qty := target - c.CurrentStock
	if qty < c.MinStock {
		qty = c.MinStock
	}

	return Recommendation{
		Quantity:         qty,
		SafetyStock:      safety,
		TargetStock:      target,
		DailyConsumption: daily,
		LeadTimeDays:     leadTimeDays,
	}
}

func recommendFromHistory(c domain.Component, leadTimeDays int, completed []domain.OrderRecord) Recommendation {
	total := 0
	oldest := completed[0].OrderDate
	newest := completed[0].OrderDate
	for _, o := range completed {
		total += o.Quantity
		if o.OrderDate.Before(oldest) {
			oldest = o.OrderDate
		}
		if o.OrderDate.After(newest) {
			newest = o.OrderDate
		}
	}

	days := newest.Sub(oldest).Hours() / 24
	months := math.Max(days/daysPerMonth, 1)

	avgMonthly := int(math.Ceil(float64(total) / months))
	daily := float64(avgMonthly) / daysPerMonth

	// 50% buffer over lead-time demand
	safety := int(math.Ceil(daily * float64(leadTimeDays) * 1.5))

	target := maxInt(c.MinStock, avgMonthly) + safety

	qty := target - c.CurrentStock
	if qty < c.MinStock {
		qty = c.MinStock
	}

	return Recommendation{
		Quantity:              qty,
		SafetyStock:           safety,
		TargetStock:           target,
		AvgMonthlyConsumption: avgMonthly,
		DailyConsumption:      daily,
		LeadTimeDays:          leadTimeDays,
		UsedHistory:           true,
	}
}

func completedOrders(history []domain.OrderRecord) []domain.OrderRecord {
	out := make([]domain.OrderRecord, 0, len(history))
	for _, o := range history {
		if o.Status == domain.OrderStatusCompleted {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.Before(out[j].OrderDate) })

	return out
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
