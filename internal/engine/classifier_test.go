package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/voltline/inventory-backend/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		current int
		min     int
		want    Tier
	}{
		{"below minimum is critical", 8, 10, TierCritical},
		{"zero stock with minimum is critical", 0, 10, TierCritical},
		{"at minimum is reorder", 10, 10, TierReorder},
		{"inside 110 percent band is reorder", 11, 10, TierReorder},
		{"just above band is healthy", 12, 10, TierHealthy},
		{"well stocked is healthy", 500, 10, TierHealthy},
		{"zero minimum is always healthy", 5, 0, TierHealthy},
		{"zero stock and zero minimum is healthy", 0, 0, TierHealthy},
		{"band boundary at larger scale", 110, 100, TierReorder},
		{"above band at larger scale", 111, 100, TierHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, err := Classify(tt.current, tt.min)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tier)
		})
	}
}

func TestClassify_NegativeInput(t *testing.T) {
	_, err := Classify(-1, 10)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = Classify(5, -3)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClassify_Partition(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		current := rapid.IntRange(0, 100000).Draw(t, "current")
		min := rapid.IntRange(0, 100000).Draw(t, "min")

		tier, err := Classify(current, min)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		switch {
		case min == 0:
			if tier != TierHealthy {
				t.Fatalf("min=0 must be healthy, got %s", tier)
			}
		case current < min:
			if tier != TierCritical {
				t.Fatalf("current %d < min %d must be critical, got %s", current, min, tier)
			}
		case current*10 <= min*11:
			if tier != TierReorder {
				t.Fatalf("current %d within 1.10*min %d must be reorder, got %s", current, min, tier)
			}
		default:
			if tier != TierHealthy {
				t.Fatalf("current %d above band for min %d must be healthy, got %s", current, min, tier)
			}
		}
	})
}
