package engine

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/voltline/inventory-backend/internal/domain"
)

// Email is rendered alert content. Delivery is the caller's problem.
type Email struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// EmailOptions carries optional manager overrides for a rendered alert.
type EmailOptions struct {
	Subject  string
	Message  string
	Quantity int // overrides the recommended quantity when > 0
}

type emailData struct {
	SupplierName  string
	ComponentName string
	Category      string
	CurrentStock  int
	MinStock      int
	StockPercent  string
	Quantity      int
	UnitCost      string
	TotalValue    string
	UrgencyLevel  string
	Timeline      string
	Message       string
}

var emailTmpl = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html>
<body style="font-family:Arial,sans-serif;line-height:1.6;color:#333;max-width:600px;margin:0 auto">
  <h2>{{.UrgencyLevel}} stock alert: {{.ComponentName}}</h2>
  <p>Dear {{.SupplierName}},</p>
  <p>Our inventory system flagged the following component for restocking:</p>
  <table style="width:100%;border-collapse:collapse">
    <tr><td style="padding:8px 0;color:#6b7280">Component:</td><td><strong>{{.ComponentName}}</strong></td></tr>
    <tr><td style="padding:8px 0;color:#6b7280">Category:</td><td>{{.Category}}</td></tr>
    <tr><td style="padding:8px 0;color:#6b7280">Current stock:</td><td><strong>{{.CurrentStock}} units</strong></td></tr>
    <tr><td style="padding:8px 0;color:#6b7280">Minimum required:</td><td>{{.MinStock}} units</td></tr>
    <tr><td style="padding:8px 0;color:#6b7280">Stock level:</td><td>{{.StockPercent}} of minimum</td></tr>
    <tr><td style="padding:8px 0;color:#6b7280">Recommended order:</td><td><strong>{{.Quantity}} units</strong></td></tr>
    <tr><td style="padding:8px 0;color:#6b7280">Unit cost:</td><td>{{.UnitCost}}</td></tr>
    <tr><td style="padding:8px 0;color:#6b7280">Total value:</td><td>{{.TotalValue}}</td></tr>
  </table>
  <p><strong>Urgency:</strong> {{.UrgencyLevel}}<br><strong>Requested delivery:</strong> {{.Timeline}}</p>
  {{if .Message}}<p style="background:#f9fafb;padding:12px;border-left:3px solid #6b7280">{{.Message}}</p>{{end}}
  <p>Please confirm receipt with an order confirmation number and expected delivery date.</p>
  <p style="font-size:12px;color:#6b7280">Inventory Management System | Automated alert</p>
</body>
</html>`))

// BuildEmail renders the alert subject and body for a component and
// tier. Pure function, no I/O; the result is handed to a mail transport
// by the caller. A healthy tier has nothing to say and is rejected.
func BuildEmail(c domain.Component, supplierName string, tier Tier, rec Recommendation, opts *EmailOptions) (Email, error) {
	if tier != TierCritical && tier != TierReorder {
		return Email{}, fmt.Errorf("%w: no alert email for tier %q", domain.ErrInvalidInput, tier)
	}

	if supplierName == "" {
		supplierName = "Supplier"
	}

	quantity := rec.Quantity
	if opts != nil && opts.Quantity > 0 {
		quantity = opts.Quantity
	}

	data := emailData{
		SupplierName:  supplierName,
		ComponentName: c.Name,
		Category:      c.Category,
		CurrentStock:  c.CurrentStock,
		MinStock:      c.MinStock,
		StockPercent:  stockPercent(c.CurrentStock, c.MinStock),
		Quantity:      quantity,
		UnitCost:      c.UnitCost.StringFixed(2),
		TotalValue:    c.UnitCost.Mul(decimal.NewFromInt(int64(quantity))).StringFixed(2),
	}

	var subject string
	switch tier {
	case TierCritical:
		subject = fmt.Sprintf("CRITICAL: %s Stock Alert - Immediate Action Required", c.Name)
		data.UrgencyLevel = "URGENT"
		data.Timeline = "24-48 hours"
	default:
		subject = fmt.Sprintf("Reorder Recommendation: %s", c.Name)
		data.UrgencyLevel = "STANDARD"
		data.Timeline = "3-5 business days"
	}

	if opts != nil {
		if opts.Subject != "" {
			subject = opts.Subject
		}
		data.Message = opts.Message
	}

	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, data); err != nil {
		return Email{}, fmt.Errorf("render alert email: %w", err)
	}

	return Email{Subject: subject, HTML: buf.String()}, nil
}

// stockPercent formats current/min as a percentage with one decimal.
// A zero minimum has no meaningful percentage.
func stockPercent(current, min int) string {
	if min == 0 {
		return "N/A"
	}

	return fmt.Sprintf("%.1f%%", float64(current)/float64(min)*100)
}
