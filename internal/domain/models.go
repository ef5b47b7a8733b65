// internal/domain/models.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Component represents an electronic component tracked in inventory
type Component struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Category     string          `json:"category" db:"category"`
	CurrentStock int             `json:"current_stock" db:"current_stock"`
	MinStock     int             `json:"min_stock" db:"min_stock"`
	UnitCost     decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	Description  string          `json:"description" db:"description"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// Supplier represents a supplier that can provide components
type Supplier struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Address   string    `json:"address" db:"address"`
	Rating    int       `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SupplierOffer is a supplier's pricing for a specific component
// (component_suppliers join). At most one offer per component is primary.
type SupplierOffer struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	ComponentID   uuid.UUID       `json:"component_id" db:"component_id"`
	SupplierID    uuid.UUID       `json:"supplier_id" db:"supplier_id"`
	SupplierName  string          `json:"supplier_name" db:"supplier_name"`
	SupplierEmail string          `json:"supplier_email" db:"supplier_email"`
	UnitPrice     decimal.Decimal `json:"unit_price" db:"unit_price"`
	LeadTimeDays  int             `json:"lead_time_days" db:"lead_time_days"`
	Rating        int             `json:"rating" db:"rating"`
	IsPrimary     bool            `json:"is_primary" db:"is_primary"`
}

// UsageRecord is an append-only log entry of components consumed on a date
type UsageRecord struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ComponentID uuid.UUID `json:"component_id" db:"component_id"`
	Date        time.Time `json:"date" db:"date"`
	UnitsUsed   int       `json:"units_used" db:"units_used"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Order represents a purchase order for a component
type Order struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	ComponentID uuid.UUID       `json:"component_id" db:"component_id"`
	SupplierID  uuid.UUID       `json:"supplier_id" db:"supplier_id"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
	OrderDate   time.Time       `json:"order_date" db:"order_date"`
	Status      string          `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// OrderRecord is the slice of order history the reorder calculator consumes
type OrderRecord struct {
	Quantity  int       `json:"quantity" db:"quantity"`
	OrderDate time.Time `json:"order_date" db:"order_date"`
	Status    string    `json:"status" db:"status"`
}

// AlertEvent is an append-only email history row. It doubles as the
// idempotency record for the dispatch policy.
type AlertEvent struct {
	ID                uuid.UUID `json:"id" db:"id"`
	ComponentID       uuid.UUID `json:"component_id" db:"component_id"`
	SupplierID        uuid.UUID `json:"supplier_id" db:"supplier_id"`
	Tier              string    `json:"alert_type" db:"alert_type"`
	Subject           string    `json:"subject" db:"subject"`
	Body              string    `json:"email_body" db:"email_body"`
	SentTo            string    `json:"sent_to" db:"sent_to"`
	Status            string    `json:"status" db:"status"`
	OriginalQuantity  int       `json:"original_quantity" db:"original_quantity"`
	FinalQuantity     int       `json:"final_quantity" db:"final_quantity"`
	ModifiedByManager bool      `json:"modified_by_manager" db:"modified_by_manager"`
	ProviderMessageID string    `json:"provider_message_id" db:"provider_message_id"`
	SentAt            time.Time `json:"sent_at" db:"sent_at"`
}

// EpisodeState tracks the tier a component was last observed in. An
// episode starts when the tier leaves healthy and ends when it returns.
type EpisodeState struct {
	ComponentID uuid.UUID `json:"component_id" db:"component_id"`
	LastTier    string    `json:"last_tier" db:"last_tier"`
	ChangedAt   time.Time `json:"changed_at" db:"changed_at"`
}

// DashboardMetrics is the headline figures shown on the dashboard
type DashboardMetrics struct {
	TotalComponents     int             `json:"total_components" db:"total_components"`
	LowStockAlerts      int             `json:"low_stock_alerts" db:"low_stock_alerts"`
	CriticalComponents  int             `json:"critical_components" db:"critical_components"`
	PendingOrders       int             `json:"pending_orders" db:"pending_orders"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value" db:"total_inventory_value"`
	AvgLeadTimeDays     float64         `json:"avg_lead_time" db:"avg_lead_time"`
}

// UsageTrendPoint is a single day of aggregate component usage
type UsageTrendPoint struct {
	Date      string `json:"date" db:"date"`
	UnitsUsed int    `json:"units_used" db:"units_used"`
}

// ComponentFilter represents filters for component list queries
type ComponentFilter struct {
	Category string `json:"category"`
	Search   string `json:"search"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// AlertFilter represents filters for email history queries
type AlertFilter struct {
	ComponentID *uuid.UUID `json:"component_id"`
	Tier        string     `json:"tier"`
	Page        int        `json:"page"`
	PageSize    int        `json:"page_size"`
}
