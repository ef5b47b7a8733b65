package engine

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltline/inventory-backend/internal/domain"
)

func testComponent() domain.Component {
	return domain.Component{
		Name:         "ATmega328P",
		Category:     "Microcontrollers",
		CurrentStock: 8,
		MinStock:     10,
		UnitCost:     decimal.NewFromFloat(42.50),
	}
}

func TestBuildEmail_Critical(t *testing.T) {
	rec := Recommendation{Quantity: 10}

	email, err := BuildEmail(testComponent(), "Acme Parts", TierCritical, rec, nil)
	require.NoError(t, err)

	assert.Equal(t, "CRITICAL: ATmega328P Stock Alert - Immediate Action Required", email.Subject)
	assert.Contains(t, email.HTML, "Acme Parts")
	assert.Contains(t, email.HTML, "ATmega328P")
	assert.Contains(t, email.HTML, "Microcontrollers")
	assert.Contains(t, email.HTML, "8 units")
	assert.Contains(t, email.HTML, "10 units")
	assert.Contains(t, email.HTML, "80.0%")
	assert.Contains(t, email.HTML, "42.50")
	// 10 * 42.50
	assert.Contains(t, email.HTML, "425.00")
	assert.Contains(t, email.HTML, "URGENT")
}

func TestBuildEmail_ReorderSubject(t *testing.T) {
	email, err := BuildEmail(testComponent(), "Acme Parts", TierReorder, Recommendation{Quantity: 12}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Reorder Recommendation: ATmega328P", email.Subject)
	assert.Contains(t, email.HTML, "STANDARD")
}

func TestBuildEmail_ZeroMinStockPercent(t *testing.T) {
	c := testComponent()
	c.MinStock = 0

	email, err := BuildEmail(c, "Acme Parts", TierReorder, Recommendation{Quantity: 5}, nil)
	require.NoError(t, err)
	assert.Contains(t, email.HTML, "N/A")
	assert.False(t, strings.Contains(email.HTML, "Inf"))
}

func TestBuildEmail_ManagerOverrides(t *testing.T) {
	opts := &EmailOptions{
		Subject:  "Expedite: ATmega328P",
		Message:  "Please prioritise over open PO #4412.",
		Quantity: 20,
	}

	email, err := BuildEmail(testComponent(), "Acme Parts", TierCritical, Recommendation{Quantity: 10}, opts)
	require.NoError(t, err)

	assert.Equal(t, "Expedite: ATmega328P", email.Subject)
	assert.Contains(t, email.HTML, "Please prioritise over open PO #4412.")
	// total value follows the overridden quantity: 20 * 42.50
	assert.Contains(t, email.HTML, "850.00")
}

func TestBuildEmail_RejectsHealthyTier(t *testing.T) {
	_, err := BuildEmail(testComponent(), "Acme Parts", TierHealthy, Recommendation{}, nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuildEmail_DefaultSupplierName(t *testing.T) {
	email, err := BuildEmail(testComponent(), "", TierReorder, Recommendation{Quantity: 5}, nil)
	require.NoError(t, err)
	assert.Contains(t, email.HTML, "Dear Supplier")
}
