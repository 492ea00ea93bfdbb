package dto

import (
	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EstimateOffsetRequest asks the exchange for a quote.
type EstimateOffsetRequest struct {
	CarbonInKg  decimal.Decimal `json:"carbonInKg"`
	ProjectType string          `json:"projectType,omitempty" binding:"omitempty,oneof=renewable_energy forestry methane_capture energy_efficiency water_restoration community"`
}

// PurchaseOffsetRequest executes a quote for a scope.
type PurchaseOffsetRequest struct {
	ScopeRequest
	EstimateID string `json:"estimateId" binding:"required"`
}

// OffsetListResponse wraps a page of offsets.
type OffsetListResponse struct {
	Offsets []domain.CarbonOffset `json:"offsets"`
}
