package mapping

import (
	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	"github.com/SscSPs/carbon_accounting_app/internal/models"
)

func toModelOffsetProject(d domain.OffsetProject) models.OffsetProject {
	return models.OffsetProject{
		ID:          d.ID,
		Name:        d.Name,
		Type:        string(d.Type),
		Location:    d.Location,
		Description: d.Description,
	}
}

func toDomainOffsetProject(m models.OffsetProject) domain.OffsetProject {
	return domain.OffsetProject{
		ID:          m.ID,
		Name:        m.Name,
		Type:        domain.OffsetProjectType(m.Type),
		Location:    m.Location,
		Description: m.Description,
	}
}

// ToModelCarbonOffset converts a domain CarbonOffset to a model CarbonOffset
func ToModelCarbonOffset(d domain.CarbonOffset) models.CarbonOffset {
	return models.CarbonOffset{
		OffsetID:       d.OffsetID,
		Scope:          ToModelScope(d.Scope),
		PurchaseID:     d.PurchaseID,
		EstimateID:     d.EstimateID,
		CarbonInKg:     d.CarbonInKg,
		CostInUSDCents: d.CostInUSDCents,
		Project:        toModelOffsetProject(d.Project),
		ReceiptURL:     d.ReceiptURL,
		CertificateURL: d.CertificateURL,
		Status:         string(d.Status),
		PurchaseDate:   d.PurchaseDate,
		CreatedBy:      d.CreatedBy,
	}
}

// ToDomainCarbonOffset converts a model CarbonOffset to a domain CarbonOffset
func ToDomainCarbonOffset(m models.CarbonOffset) domain.CarbonOffset {
	return domain.CarbonOffset{
		OffsetID:       m.OffsetID,
		Scope:          ToDomainScope(m.Scope),
		PurchaseID:     m.PurchaseID,
		EstimateID:     m.EstimateID,
		CarbonInKg:     m.CarbonInKg,
		CostInUSDCents: m.CostInUSDCents,
		Project:        toDomainOffsetProject(m.Project),
		ReceiptURL:     m.ReceiptURL,
		CertificateURL: m.CertificateURL,
		Status:         domain.PurchaseStatus(m.Status),
		PurchaseDate:   m.PurchaseDate.UTC(),
		CreatedBy:      m.CreatedBy,
	}
}

// ToDomainCarbonOffsetSlice converts a slice of model offsets.
func ToDomainCarbonOffsetSlice(ms []models.CarbonOffset) []domain.CarbonOffset {
	ds := make([]domain.CarbonOffset, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCarbonOffset(m)
	}
	return ds
}

// ToModelOffsetApplication converts a domain OffsetApplication to a model OffsetApplication
func ToModelOffsetApplication(d domain.OffsetApplication) models.OffsetApplication {
	var usageID *string
	if d.UsageID != "" {
		id := d.UsageID
		usageID = &id
	}
	return models.OffsetApplication{
		ApplicationID: d.ApplicationID,
		OffsetID:      d.OffsetID,
		Scope:         ToModelScope(d.Scope),
		PeriodStart:   d.Period.StartDate,
		PeriodEnd:     d.Period.EndDate,
		CarbonInKg:    d.CarbonInKg,
		Status:        string(d.Status),
		UsageID:       usageID,
		Attempts:      d.Attempts,
		CreatedAt:     d.CreatedAt,
		LastUpdatedAt: d.LastUpdatedAt,
	}
}

// ToDomainOffsetApplication converts a model OffsetApplication to a domain OffsetApplication
func ToDomainOffsetApplication(m models.OffsetApplication) domain.OffsetApplication {
	usageID := ""
	if m.UsageID != nil {
		usageID = *m.UsageID
	}
	return domain.OffsetApplication{
		ApplicationID: m.ApplicationID,
		OffsetID:      m.OffsetID,
		Scope:         ToDomainScope(m.Scope),
		Period:        domain.Period{StartDate: m.PeriodStart.UTC(), EndDate: m.PeriodEnd.UTC()},
		CarbonInKg:    m.CarbonInKg,
		Status:        domain.ApplicationStatus(m.Status),
		UsageID:       usageID,
		Attempts:      m.Attempts,
		CreatedAt:     m.CreatedAt.UTC(),
		LastUpdatedAt: m.LastUpdatedAt.UTC(),
	}
}
