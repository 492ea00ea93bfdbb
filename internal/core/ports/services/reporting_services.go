package services

import (
	"context"
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
)

// ReportGeneratorSvc builds sustainability reports
type ReportGeneratorSvc interface {
	GenerateReport(ctx context.Context, scope domain.Scope, reportType domain.ReportType, start, end time.Time, userID string) (*domain.SustainabilityReport, error)
}

// ReportReaderSvc defines read operations for generated reports
type ReportReaderSvc interface {
	GetReport(ctx context.Context, reportID string) (*domain.SustainabilityReport, error)
	// GetReports returns reports newest first; limit <= 0 uses the service default.
	GetReports(ctx context.Context, organizationID string, filter domain.ReportFilter, limit int) ([]domain.SustainabilityReport, error)
}

// ComplianceSvc manages the standards compliance registry
type ComplianceSvc interface {
	SetStandardCompliance(ctx context.Context, organizationID string, standard domain.AccountingStandard, compliant bool, details *domain.ComplianceDetails, userID string) (*domain.StandardCompliance, error)
	// GetStandardsCompliance lists the organization's records; an empty standard returns all.
	GetStandardsCompliance(ctx context.Context, organizationID string, standard domain.AccountingStandard) ([]domain.StandardCompliance, error)
}

// ReportingSvcFacade combines all reporting interfaces
type ReportingSvcFacade interface {
	ReportGeneratorSvc
	ReportReaderSvc
	ComplianceSvc
}
