package mapping

import (
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	"github.com/SscSPs/carbon_accounting_app/internal/models"
)

// ToModelAuditFields converts a domain AuditFields to a model AuditFields
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

// ToDomainAuditFields converts a model AuditFields to a domain AuditFields.
// Timestamps come back from pgx in the local zone and are normalised to UTC.
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt.UTC(),
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: m.LastUpdatedAt.UTC(),
		LastUpdatedBy: m.LastUpdatedBy,
	}
}

// ToModelScope converts a domain Scope to its column form.
func ToModelScope(d domain.Scope) models.Scope {
	return models.Scope{
		OrganizationID: d.OrganizationID,
		DepartmentID:   d.DepartmentID,
		ProjectID:      d.ProjectID,
	}
}

// ToDomainScope converts scope columns back to a domain Scope.
func ToDomainScope(m models.Scope) domain.Scope {
	return domain.Scope{
		OrganizationID: m.OrganizationID,
		DepartmentID:   m.DepartmentID,
		ProjectID:      m.ProjectID,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
