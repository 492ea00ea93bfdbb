package dto

import (
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CustomUsageRequest is a caller-defined emission source.
type CustomUsageRequest struct {
	Name       string          `json:"name" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Unit       string          `json:"unit"`
	CarbonInKg decimal.Decimal `json:"carbonInKg"`
}

// UsageMetricsRequest holds the raw activity counts.
type UsageMetricsRequest struct {
	InvoiceCount int64                `json:"invoiceCount" binding:"min=0"`
	EmailCount   int64                `json:"emailCount" binding:"min=0"`
	StorageGB    decimal.Decimal      `json:"storageGb"`
	APICallCount int64                `json:"apiCallCount" binding:"min=0"`
	CustomUsage  []CustomUsageRequest `json:"customUsage,omitempty" binding:"omitempty,dive"`
}

// ToDomain converts the request metrics to domain.UsageMetrics.
func (r UsageMetricsRequest) ToDomain() domain.UsageMetrics {
	custom := make([]domain.CustomUsage, len(r.CustomUsage))
	for i, cu := range r.CustomUsage {
		custom[i] = domain.CustomUsage{Name: cu.Name, Amount: cu.Amount, Unit: cu.Unit, CarbonInKg: cu.CarbonInKg}
	}
	return domain.UsageMetrics{
		InvoiceCount: r.InvoiceCount,
		EmailCount:   r.EmailCount,
		StorageGB:    r.StorageGB,
		APICallCount: r.APICallCount,
		CustomUsage:  custom,
	}
}

// RecordUsageRequest defines the body for recording a usage snapshot.
type RecordUsageRequest struct {
	ScopeRequest
	UsageMetricsRequest
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}

// CalculateFootprintResponse is the result of a footprint calculation.
type CalculateFootprintResponse struct {
	CarbonInKg decimal.Decimal            `json:"carbonInKg"`
	BySource   map[string]decimal.Decimal `json:"bySource"`
}

// UsageResponse defines the API shape of a usage snapshot.
type UsageResponse struct {
	UsageID             string               `json:"usageId"`
	OrganizationID      string               `json:"organizationId"`
	DepartmentID        string               `json:"departmentId,omitempty"`
	ProjectID           string               `json:"projectId,omitempty"`
	InvoiceCount        int64                `json:"invoiceCount"`
	EmailCount          int64                `json:"emailCount"`
	StorageGB           decimal.Decimal      `json:"storageGb"`
	APICallCount        int64                `json:"apiCallCount"`
	CustomUsage         []domain.CustomUsage `json:"customUsage,omitempty"`
	TotalCarbonInKg     decimal.Decimal      `json:"totalCarbonInKg"`
	OffsetCarbonInKg    decimal.Decimal      `json:"offsetCarbonInKg"`
	RemainingCarbonInKg decimal.Decimal      `json:"remainingCarbonInKg"`
	StartDate           time.Time            `json:"startDate"`
	EndDate             time.Time            `json:"endDate"`
	CreatedAt           time.Time            `json:"createdAt"`
	CreatedBy           string               `json:"createdBy"`
}

// ToUsageResponse converts a domain.CarbonUsage to UsageResponse
func ToUsageResponse(u *domain.CarbonUsage) UsageResponse {
	return UsageResponse{
		UsageID:             u.UsageID,
		OrganizationID:      u.OrganizationID,
		DepartmentID:        u.DepartmentID,
		ProjectID:           u.ProjectID,
		InvoiceCount:        u.InvoiceCount,
		EmailCount:          u.EmailCount,
		StorageGB:           u.StorageGB,
		APICallCount:        u.APICallCount,
		CustomUsage:         u.CustomUsage,
		TotalCarbonInKg:     u.TotalCarbonInKg,
		OffsetCarbonInKg:    u.OffsetCarbonInKg,
		RemainingCarbonInKg: u.RemainingCarbonInKg,
		StartDate:           u.Period.StartDate,
		EndDate:             u.Period.EndDate,
		CreatedAt:           u.CreatedAt,
		CreatedBy:           u.CreatedBy,
	}
}

// ToListUsageResponse converts a slice of usage records.
func ToListUsageResponse(usages []domain.CarbonUsage) []UsageResponse {
	responses := make([]UsageResponse, len(usages))
	for i := range usages {
		responses[i] = ToUsageResponse(&usages[i])
	}
	return responses
}
