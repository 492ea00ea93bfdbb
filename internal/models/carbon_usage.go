package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomUsage is one entry of the custom_usage JSONB column.
type CustomUsage struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Unit       string          `json:"unit"`
	CarbonInKg decimal.Decimal `json:"carbonInKg"`
}

// CarbonUsage represents a row of the carbon_usage table.
type CarbonUsage struct {
	UsageID string `json:"usageId"` // Primary Key (UUID)
	Scope
	InvoiceCount        int64           `json:"invoiceCount"`
	EmailCount          int64           `json:"emailCount"`
	StorageGB           decimal.Decimal `json:"storageGb"`
	APICallCount        int64           `json:"apiCallCount"`
	CustomUsage         []CustomUsage   `json:"customUsage"` // JSONB
	TotalCarbonInKg     decimal.Decimal `json:"totalCarbonInKg"`
	OffsetCarbonInKg    decimal.Decimal `json:"offsetCarbonInKg"`
	RemainingCarbonInKg decimal.Decimal `json:"remainingCarbonInKg"`
	PeriodStart         time.Time       `json:"periodStart"`
	PeriodEnd           time.Time       `json:"periodEnd"`
	AuditFields
}
