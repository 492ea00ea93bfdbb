package mapping

import (
	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	"github.com/SscSPs/carbon_accounting_app/internal/models"
	"github.com/shopspring/decimal"
)

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNullDecimal(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

// ToModelReport converts a domain SustainabilityReport to a model SustainabilityReport
func ToModelReport(d domain.SustainabilityReport) models.SustainabilityReport {
	standards := make([]models.ReportStandard, len(d.Standards))
	for i, s := range d.Standards {
		standards[i] = models.ReportStandard{Name: string(s.Name), Compliant: s.Compliant, Details: s.Details}
	}
	return models.SustainabilityReport{
		ReportID:                    d.ReportID,
		Scope:                       ToModelScope(d.Scope),
		Name:                        d.Name,
		ReportType:                  string(d.ReportType),
		PeriodStart:                 d.Period.StartDate,
		PeriodEnd:                   d.Period.EndDate,
		TotalCarbonInKg:             d.TotalCarbonInKg,
		OffsetCarbonInKg:            d.OffsetCarbonInKg,
		RemainingCarbonInKg:         d.RemainingCarbonInKg,
		OffsetPercentage:            d.OffsetPercentage,
		ReductionFromPreviousPeriod: toNullDecimal(d.ReductionFromPreviousPeriod),
		ReductionPercentage:         toNullDecimal(d.ReductionPercentage),
		Standards:                   standards,
		GeneratedAt:                 d.GeneratedAt,
		GeneratedBy:                 d.GeneratedBy,
		DocumentKey:                 d.DocumentKey,
	}
}

// ToDomainReport converts a model SustainabilityReport to a domain SustainabilityReport
func ToDomainReport(m models.SustainabilityReport) domain.SustainabilityReport {
	standards := make([]domain.ReportStandard, len(m.Standards))
	for i, s := range m.Standards {
		standards[i] = domain.ReportStandard{Name: domain.AccountingStandard(s.Name), Compliant: s.Compliant, Details: s.Details}
	}
	return domain.SustainabilityReport{
		ReportID:                    m.ReportID,
		Scope:                       ToDomainScope(m.Scope),
		Name:                        m.Name,
		ReportType:                  domain.ReportType(m.ReportType),
		Period:                      domain.Period{StartDate: m.PeriodStart.UTC(), EndDate: m.PeriodEnd.UTC()},
		TotalCarbonInKg:             m.TotalCarbonInKg,
		OffsetCarbonInKg:            m.OffsetCarbonInKg,
		RemainingCarbonInKg:         m.RemainingCarbonInKg,
		OffsetPercentage:            m.OffsetPercentage,
		ReductionFromPreviousPeriod: fromNullDecimal(m.ReductionFromPreviousPeriod),
		ReductionPercentage:         fromNullDecimal(m.ReductionPercentage),
		Standards:                   standards,
		GeneratedAt:                 m.GeneratedAt.UTC(),
		GeneratedBy:                 m.GeneratedBy,
		DocumentKey:                 m.DocumentKey,
	}
}

// ToDomainReportSlice converts a slice of model reports.
func ToDomainReportSlice(ms []models.SustainabilityReport) []domain.SustainabilityReport {
	ds := make([]domain.SustainabilityReport, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReport(m)
	}
	return ds
}

// ToModelCompliance converts a domain StandardCompliance to a model StandardCompliance
func ToModelCompliance(d domain.StandardCompliance) models.StandardCompliance {
	return models.StandardCompliance{
		ComplianceID:         d.ComplianceID,
		OrganizationID:       d.OrganizationID,
		Standard:             string(d.Standard),
		Compliant:            d.Compliant,
		VerificationBody:     d.VerificationBody,
		LastVerificationDate: d.LastVerificationDate,
		NextVerificationDate: d.NextVerificationDate,
		CertificateURL:       d.CertificateURL,
		Notes:                d.Notes,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCompliance converts a model StandardCompliance to a domain StandardCompliance
func ToDomainCompliance(m models.StandardCompliance) domain.StandardCompliance {
	return domain.StandardCompliance{
		ComplianceID:         m.ComplianceID,
		OrganizationID:       m.OrganizationID,
		Standard:             domain.AccountingStandard(m.Standard),
		Compliant:            m.Compliant,
		VerificationBody:     m.VerificationBody,
		LastVerificationDate: utcPtr(m.LastVerificationDate),
		NextVerificationDate: utcPtr(m.NextVerificationDate),
		CertificateURL:       m.CertificateURL,
		Notes:                m.Notes,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}
