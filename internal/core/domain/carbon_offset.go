package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OffsetProjectType classifies the project an offset is sourced from.
type OffsetProjectType string

const (
	ProjectRenewableEnergy  OffsetProjectType = "renewable_energy"
	ProjectForestry         OffsetProjectType = "forestry"
	ProjectMethaneCapture   OffsetProjectType = "methane_capture"
	ProjectEnergyEfficiency OffsetProjectType = "energy_efficiency"
	ProjectWaterRestoration OffsetProjectType = "water_restoration"
	ProjectCommunity        OffsetProjectType = "community"
)

// IsValid checks that the project type is one of the known values.
func (t OffsetProjectType) IsValid() bool {
	switch t {
	case ProjectRenewableEnergy, ProjectForestry, ProjectMethaneCapture,
		ProjectEnergyEfficiency, ProjectWaterRestoration, ProjectCommunity:
		return true
	}
	return false
}

// PurchaseStatus is the exchange-side state of an offset purchase.
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseFailed    PurchaseStatus = "failed"
	PurchaseRefunded  PurchaseStatus = "refunded"
)

// OffsetProject describes the project backing an offset.
type OffsetProject struct {
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name"`
	Type        OffsetProjectType `json:"type"`
	Location    string            `json:"location,omitempty"`
	Description string            `json:"description,omitempty"`
}

// OffsetEstimate is a price quote returned by the offset exchange.
type OffsetEstimate struct {
	EstimateID     string          `json:"estimateId"`
	CarbonInKg     decimal.Decimal `json:"carbonInKg"`
	CostInUSDCents int64           `json:"costInUsdCents"`
	PrettyCost     string          `json:"prettyCost,omitempty"`
	Project        OffsetProject   `json:"project"`
}

// OffsetPurchase is the exchange's record of an executed purchase.
type OffsetPurchase struct {
	PurchaseID     string          `json:"purchaseId"`
	EstimateID     string          `json:"estimateId"`
	CarbonInKg     decimal.Decimal `json:"carbonInKg"`
	CostInUSDCents int64           `json:"costInUsdCents"`
	ReceiptURL     string          `json:"receiptUrl,omitempty"`
	CertificateURL string          `json:"certificateUrl,omitempty"`
	Status         PurchaseStatus  `json:"status"`
	Project        OffsetProject   `json:"project"`
}

// CarbonOffset is the immutable local record of a purchased offset.
type CarbonOffset struct {
	OffsetID string `json:"offsetId"`
	Scope
	PurchaseID     string          `json:"purchaseId"`
	EstimateID     string          `json:"estimateId"`
	CarbonInKg     decimal.Decimal `json:"carbonInKg"`
	CostInUSDCents int64           `json:"costInUsdCents"`
	Project        OffsetProject   `json:"project"`
	ReceiptURL     string          `json:"receiptUrl,omitempty"`
	CertificateURL string          `json:"certificateUrl,omitempty"`
	Status         PurchaseStatus  `json:"status"`
	PurchaseDate   time.Time       `json:"purchaseDate"`
	CreatedBy      string          `json:"createdBy"`
}

// ApplicationStatus tracks whether a purchased offset has been applied to a usage snapshot.
type ApplicationStatus string

const (
	ApplicationPending ApplicationStatus = "pending"
	ApplicationApplied ApplicationStatus = "applied"
	// ApplicationNoUsage means no usage snapshot existed for the month; nothing to update.
	ApplicationNoUsage ApplicationStatus = "no_usage"
)

// OffsetApplication is the persisted marker for applying an offset to the
// usage snapshot of the month it was purchased in.
type OffsetApplication struct {
	ApplicationID string `json:"applicationId"`
	OffsetID      string `json:"offsetId"`
	Scope
	Period        Period            `json:"period"`
	CarbonInKg    decimal.Decimal   `json:"carbonInKg"`
	Status        ApplicationStatus `json:"status"`
	UsageID       string            `json:"usageId,omitempty"`
	Attempts      int               `json:"attempts"`
	CreatedAt     time.Time         `json:"createdAt"`
	LastUpdatedAt time.Time         `json:"lastUpdatedAt"`
}

// OffsetSettlement joins a recorded offset with its application marker and the
// status the exchange currently reports for the purchase.
type OffsetSettlement struct {
	Offset         CarbonOffset       `json:"offset"`
	Application    *OffsetApplication `json:"application,omitempty"`
	ExchangeStatus PurchaseStatus     `json:"exchangeStatus"`
	// StatusChanged is true when the exchange status differs from the status recorded at purchase.
	StatusChanged bool `json:"statusChanged"`
}
