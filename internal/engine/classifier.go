// Package engine holds the reorder decision logic: stock classification,
// reorder quantity calculation, supplier scoring, alert dispatch policy
// and email content building. Everything here is pure computation; data
// access and mail delivery stay with the callers.
package engine

import (
	"fmt"

	"github.com/voltline/inventory-backend/internal/domain"
)

// Tier classifies how urgent a component's stock situation is.
type Tier string

const (
	TierHealthy  Tier = "healthy"
	TierReorder  Tier = "reorder"
	TierCritical Tier = "critical"
)

// Classify maps current and minimum stock to a tier:
//
//	critical  when current < min
//	reorder   when min <= current <= 1.10 * min
//	healthy   otherwise
//
// A zero minimum means the component has no reorder baseline, so any
// non-negative stock is healthy. The 1.10 boundary is evaluated in
// integer arithmetic to keep it exact at e.g. min=10, current=11.
func Classify(currentStock, minStock int) (Tier, error) {
	if currentStock < 0 {
		return "", fmt.Errorf("%w: current stock %d is negative", domain.ErrInvalidInput, currentStock)
	}
	if minStock < 0 {
		return "", fmt.Errorf("%w: min stock %d is negative", domain.ErrInvalidInput, minStock)
	}

	if minStock == 0 {
		return TierHealthy, nil
	}

	if currentStock < minStock {
		return TierCritical, nil
	}

	// current <= min * 1.10
	if currentStock*10 <= minStock*11 {
		return TierReorder, nil
	}

	return TierHealthy, nil
}

// Severity orders tiers for transition decisions. Higher is worse.
func Severity(t Tier) int {
	switch t {
	case TierCritical:
		return 2
	case TierReorder:
		return 1
	default:
		return 0
	}
}
