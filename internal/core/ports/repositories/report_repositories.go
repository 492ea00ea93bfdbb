package repositories

import (
	"context"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
)

// ReportReader defines read operations for sustainability reports
type ReportReader interface {
	FindReportByID(ctx context.Context, reportID string) (*domain.SustainabilityReport, error)
	// ListReports returns reports newest first, at most limit rows.
	ListReports(ctx context.Context, organizationID string, filter domain.ReportFilter, limit int) ([]domain.SustainabilityReport, error)
}

// ReportWriter defines write operations for sustainability reports
type ReportWriter interface {
	SaveReport(ctx context.Context, report domain.SustainabilityReport) error
	// AttachDocumentKey stores the object storage key of the rendered report.
	AttachDocumentKey(ctx context.Context, reportID, key string) error
}

// ReportRepositoryFacade combines all report-related repository interfaces
type ReportRepositoryFacade interface {
	ReportReader
	ReportWriter
}

// ComplianceReader defines read operations for standard compliance records
type ComplianceReader interface {
	FindCompliance(ctx context.Context, organizationID string, standard domain.AccountingStandard) (*domain.StandardCompliance, error)
	ListCompliance(ctx context.Context, organizationID string) ([]domain.StandardCompliance, error)
}

// ComplianceWriter defines write operations for standard compliance records
type ComplianceWriter interface {
	SaveCompliance(ctx context.Context, compliance domain.StandardCompliance) error
	UpdateCompliance(ctx context.Context, compliance domain.StandardCompliance) error
}

// ComplianceRepositoryFacade combines all compliance-related repository interfaces
type ComplianceRepositoryFacade interface {
	ComplianceReader
	ComplianceWriter
}
