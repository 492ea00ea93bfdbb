package mapping

import (
	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	"github.com/SscSPs/carbon_accounting_app/internal/models"
)

// ToModelCarbonUsage converts a domain CarbonUsage to a model CarbonUsage
func ToModelCarbonUsage(d domain.CarbonUsage) models.CarbonUsage {
	custom := make([]models.CustomUsage, len(d.CustomUsage))
	for i, cu := range d.CustomUsage {
		custom[i] = models.CustomUsage{Name: cu.Name, Amount: cu.Amount, Unit: cu.Unit, CarbonInKg: cu.CarbonInKg}
	}
	return models.CarbonUsage{
		UsageID:             d.UsageID,
		Scope:               ToModelScope(d.Scope),
		InvoiceCount:        d.InvoiceCount,
		EmailCount:          d.EmailCount,
		StorageGB:           d.StorageGB,
		APICallCount:        d.APICallCount,
		CustomUsage:         custom,
		TotalCarbonInKg:     d.TotalCarbonInKg,
		OffsetCarbonInKg:    d.OffsetCarbonInKg,
		RemainingCarbonInKg: d.RemainingCarbonInKg,
		PeriodStart:         d.Period.StartDate,
		PeriodEnd:           d.Period.EndDate,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCarbonUsage converts a model CarbonUsage to a domain CarbonUsage
func ToDomainCarbonUsage(m models.CarbonUsage) domain.CarbonUsage {
	var custom []domain.CustomUsage
	if len(m.CustomUsage) > 0 {
		custom = make([]domain.CustomUsage, len(m.CustomUsage))
		for i, cu := range m.CustomUsage {
			custom[i] = domain.CustomUsage{Name: cu.Name, Amount: cu.Amount, Unit: cu.Unit, CarbonInKg: cu.CarbonInKg}
		}
	}
	return domain.CarbonUsage{
		UsageID: m.UsageID,
		Scope:   ToDomainScope(m.Scope),
		UsageMetrics: domain.UsageMetrics{
			InvoiceCount: m.InvoiceCount,
			EmailCount:   m.EmailCount,
			StorageGB:    m.StorageGB,
			APICallCount: m.APICallCount,
			CustomUsage:  custom,
		},
		TotalCarbonInKg:     m.TotalCarbonInKg,
		OffsetCarbonInKg:    m.OffsetCarbonInKg,
		RemainingCarbonInKg: m.RemainingCarbonInKg,
		Period:              domain.Period{StartDate: m.PeriodStart.UTC(), EndDate: m.PeriodEnd.UTC()},
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCarbonUsageSlice converts a slice of model usage rows.
func ToDomainCarbonUsageSlice(ms []models.CarbonUsage) []domain.CarbonUsage {
	ds := make([]domain.CarbonUsage, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCarbonUsage(m)
	}
	return ds
}
