// Package mail delivers rendered alert emails. The engine never calls
// this directly; services hand it finished subject/body pairs.
package mail

import "context"

// SendResult reports a completed delivery attempt.
type SendResult struct {
	ProviderMessageID string
}

// Transport sends a single HTML email.
type Transport interface {
	Send(ctx context.Context, to, subject, html string) (*SendResult, error)
}
