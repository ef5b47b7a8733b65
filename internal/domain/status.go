package domain

import "strings"

// Order statuses follow the original procurement lifecycle. "completed"
// orders are the only ones consulted for consumption estimates.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

var orderStatusTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {OrderStatusCompleted},
}

// ValidOrderStatus reports whether the given label is a known status.
func ValidOrderStatus(status string) bool {
	switch strings.ToLower(status) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}

	return false
}

// CanTransitionOrder reports whether an order may move from one status to
// another.
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderStatusTransitions[strings.ToLower(from)] {
		if next == strings.ToLower(to) {
			return true
		}
	}

	return false
}
