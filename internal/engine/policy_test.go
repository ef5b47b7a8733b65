package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldSend(t *testing.T) {
	tests := []struct {
		name string
		prev Tier
		next Tier
		want bool
	}{
		{"entering reorder from healthy alerts", TierHealthy, TierReorder, true},
		{"entering critical from healthy alerts", TierHealthy, TierCritical, true},
		{"escalation reorder to critical alerts again", TierReorder, TierCritical, true},
		{"re-evaluation at reorder stays silent", TierReorder, TierReorder, false},
		{"re-evaluation at critical stays silent", TierCritical, TierCritical, false},
		{"partial recovery to reorder stays silent", TierCritical, TierReorder, false},
		{"recovery to healthy never alerts", TierCritical, TierHealthy, false},
		{"healthy to healthy never alerts", TierHealthy, TierHealthy, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldSend(tt.prev, tt.next))
		})
	}
}

func TestShouldSend_EpisodeIdempotence(t *testing.T) {
	// drop into reorder: first evaluation alerts, second does not
	assert.True(t, ShouldSend(TierHealthy, TierReorder))
	assert.False(t, ShouldSend(TierReorder, TierReorder))

	// only a pass through healthy re-arms the same tier
	assert.False(t, ShouldSend(TierReorder, TierReorder))
	assert.False(t, ShouldSend(TierReorder, TierHealthy))
	assert.True(t, ShouldSend(TierHealthy, TierReorder))
}

func TestEpisodeClosed(t *testing.T) {
	assert.True(t, EpisodeClosed(TierReorder, TierHealthy))
	assert.True(t, EpisodeClosed(TierCritical, TierHealthy))
	assert.False(t, EpisodeClosed(TierHealthy, TierHealthy))
	assert.False(t, EpisodeClosed(TierReorder, TierCritical))
}
