package engine

// ShouldSend decides whether an automatic alert fires for a tier change.
//
// Episodes are encoded in the previously observed tier: an alert fires
// exactly when severity strictly increases, so entering reorder or
// critical from healthy alerts once, escalating reorder -> critical
// alerts again, and re-evaluations at the same tier (or a partial
// recovery back to reorder) stay silent until the component passes
// through healthy. Manual resends bypass this policy entirely.
func ShouldSend(prev, next Tier) bool {
	if next == TierHealthy {
		return false
	}

	return Severity(next) > Severity(prev)
}

// EpisodeClosed reports whether a tier change ends the current episode.
func EpisodeClosed(prev, next Tier) bool {
	return prev != TierHealthy && next == TierHealthy
}
