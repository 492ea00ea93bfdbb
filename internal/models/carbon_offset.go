package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OffsetProject is stored as JSONB on the offset row.
type OffsetProject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// CarbonOffset represents a row of the carbon_offsets table.
type CarbonOffset struct {
	OffsetID string `json:"offsetId"`
	Scope
	PurchaseID     string          `json:"purchaseId"`
	EstimateID     string          `json:"estimateId"`
	CarbonInKg     decimal.Decimal `json:"carbonInKg"`
	CostInUSDCents int64           `json:"costInUsdCents"`
	Project        OffsetProject   `json:"project"`
	ReceiptURL     string          `json:"receiptUrl"`
	CertificateURL string          `json:"certificateUrl"`
	Status         string          `json:"status"`
	PurchaseDate   time.Time       `json:"purchaseDate"`
	CreatedBy      string          `json:"createdBy"`
}

// OffsetApplication represents a row of the offset_applications table.
type OffsetApplication struct {
	ApplicationID string `json:"applicationId"`
	OffsetID      string `json:"offsetId"`
	Scope
	PeriodStart   time.Time       `json:"periodStart"`
	PeriodEnd     time.Time       `json:"periodEnd"`
	CarbonInKg    decimal.Decimal `json:"carbonInKg"`
	Status        string          `json:"status"`
	UsageID       *string         `json:"usageId"` // Nullable until applied
	Attempts      int             `json:"attempts"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}
