package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomUsage is a caller-defined emission source with a precomputed carbon value.
type CustomUsage struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Unit       string          `json:"unit"`
	CarbonInKg decimal.Decimal `json:"carbonInKg"`
}

// UsageMetrics are the raw activity counts a footprint is computed from.
type UsageMetrics struct {
	InvoiceCount int64           `json:"invoiceCount"`
	EmailCount   int64           `json:"emailCount"`
	StorageGB    decimal.Decimal `json:"storageGb"`
	APICallCount int64           `json:"apiCallCount"`
	CustomUsage  []CustomUsage   `json:"customUsage,omitempty"`
}

// CarbonUsage is a usage snapshot for one scope and reporting period.
type CarbonUsage struct {
	UsageID string `json:"usageId"`
	Scope
	UsageMetrics
	TotalCarbonInKg     decimal.Decimal `json:"totalCarbonInKg"`
	OffsetCarbonInKg    decimal.Decimal `json:"offsetCarbonInKg"`
	RemainingCarbonInKg decimal.Decimal `json:"remainingCarbonInKg"`
	Period              Period          `json:"period"`
	AuditFields
}

// RemainingCarbon returns max(0, total - offset).
func RemainingCarbon(total, offset decimal.Decimal) decimal.Decimal {
	remaining := total.Sub(offset)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// CountsOffset reports whether the snapshot's offset total already includes an
// offset purchased at purchasedAt. Offsets are summed into a snapshot when it is
// recorded, so any purchase inside the period made before that is counted.
func (u *CarbonUsage) CountsOffset(purchasedAt time.Time) bool {
	return u.Period.Contains(purchasedAt) && purchasedAt.Before(u.CreatedAt)
}
