package domain

import "errors"

// Error taxonomy shared across the engine, services and handlers.
var (
	// ErrInvalidInput marks malformed caller input (negative stock,
	// unknown status, bad offer). Never recovered by defaulting.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a missing component, supplier or order.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable marks a failed history/offer lookup. Callers
	// degrade to the no-history estimate instead of aborting.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrTransportFailure marks a failed email send. Surfaced to the
	// caller, not retried here.
	ErrTransportFailure = errors.New("transport failure")
)
