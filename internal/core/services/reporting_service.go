package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/apperrors"
	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	portsprov "github.com/SscSPs/carbon_accounting_app/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/carbon_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/carbon_accounting_app/internal/core/ports/services"
	"github.com/SscSPs/carbon_accounting_app/internal/utils/carbon"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const defaultReportLimit = 20

// reportingService implements the ReportingSvcFacade interface
type reportingService struct {
	BaseService
	reportRepo     portsrepo.ReportRepositoryFacade
	complianceRepo portsrepo.ComplianceRepositoryFacade
	usage          portssvc.UsagePeriodReaderSvc
	renderer       portsprov.DocumentRenderer
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithDocumentRenderer enables PDF rendering of generated reports.
func WithDocumentRenderer(renderer portsprov.DocumentRenderer) ReportingServiceOption {
	return func(s *reportingService) {
		s.renderer = renderer
	}
}

// WithReportingClock overrides the clock used for generation and verification timestamps.
func WithReportingClock(clock func() time.Time) ReportingServiceOption {
	return func(s *reportingService) {
		s.clock = clock
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(
	reportRepo portsrepo.ReportRepositoryFacade,
	complianceRepo portsrepo.ComplianceRepositoryFacade,
	usage portssvc.UsagePeriodReaderSvc,
	options ...ReportingServiceOption,
) portssvc.ReportingSvcFacade {
	svc := &reportingService{
		reportRepo:     reportRepo,
		complianceRepo: complianceRepo,
		usage:          usage,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GenerateReport builds, persists and (best effort) renders a report for the usage
// snapshot recorded for exactly [start, end].
func (s *reportingService) GenerateReport(ctx context.Context, scope domain.Scope, reportType domain.ReportType, start, end time.Time, userID string) (*domain.SustainabilityReport, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}
	if !reportType.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown report type %q", reportType))
	}
	period := domain.Period{StartDate: start.UTC(), EndDate: end.UTC()}
	if !period.StartDate.Before(period.EndDate) {
		return nil, apperrors.NewValidationError("report start date must be before end date")
	}

	current, err := s.usage.GetUsageForPeriod(ctx, scope, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get usage for report period: %w", err)
	}
	if current == nil {
		return nil, apperrors.NewNotFoundError("no usage data for period")
	}

	var (
		previous   *domain.CarbonUsage
		compliance []domain.StandardCompliance
	)
	prevPeriod := period.Previous()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		previous, err = s.usage.GetUsageForPeriod(gctx, scope, prevPeriod.StartDate, prevPeriod.EndDate)
		if err != nil {
			return fmt.Errorf("failed to get usage for previous period: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		compliance, err = s.complianceRepo.ListCompliance(gctx, scope.OrganizationID)
		if err != nil {
			return fmt.Errorf("failed to list standards compliance: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to gather report inputs", scopeAttrs(scope))
		return nil, err
	}

	report := domain.SustainabilityReport{
		ReportID:            uuid.NewString(),
		Scope:               scope,
		Name:                ReportName(scope, reportType, period),
		ReportType:          reportType,
		Period:              period,
		TotalCarbonInKg:     current.TotalCarbonInKg,
		OffsetCarbonInKg:    current.OffsetCarbonInKg,
		RemainingCarbonInKg: current.RemainingCarbonInKg,
		OffsetPercentage:    carbon.Percentage(current.OffsetCarbonInKg, current.TotalCarbonInKg),
		Standards:           toReportStandards(compliance),
		GeneratedAt:         s.Now(),
		GeneratedBy:         userID,
	}
	if previous != nil {
		reduction := decimal.Max(decimal.Zero, previous.TotalCarbonInKg.Sub(current.TotalCarbonInKg))
		pct := carbon.Percentage(reduction, previous.TotalCarbonInKg)
		report.ReductionFromPreviousPeriod = &reduction
		report.ReductionPercentage = &pct
	}

	if err := s.reportRepo.SaveReport(ctx, report); err != nil {
		s.LogError(ctx, err, "Failed to save sustainability report", scopeAttrs(scope))
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	s.attachRendering(ctx, &report)

	s.LogInfo(ctx, "Sustainability report generated",
		slog.String("report_id", report.ReportID),
		slog.String("report_type", string(reportType)),
		scopeAttrs(scope))
	return &report, nil
}

// attachRendering renders the report and records its document key. Failures are
// logged only; a report without a document is still a valid result.
func (s *reportingService) attachRendering(ctx context.Context, report *domain.SustainabilityReport) {
	if s.renderer == nil {
		return
	}
	key, err := s.renderer.RenderPDF(ctx, *report)
	if err != nil {
		s.LogWarn(ctx, err, "Report PDF rendering failed; returning report without URL",
			slog.String("report_id", report.ReportID))
		return
	}
	if err := s.reportRepo.AttachDocumentKey(ctx, report.ReportID, key); err != nil {
		s.LogWarn(ctx, err, "Failed to store report document key", slog.String("report_id", report.ReportID))
	}
	report.DocumentKey = key
	s.signReportURL(ctx, report)
}

// signReportURL fills ReportURL with a fresh download link for the stored document.
func (s *reportingService) signReportURL(ctx context.Context, report *domain.SustainabilityReport) {
	if s.renderer == nil || report.DocumentKey == "" {
		return
	}
	url, err := s.renderer.DocumentURL(ctx, report.DocumentKey)
	if err != nil {
		s.LogWarn(ctx, err, "Failed to sign report URL", slog.String("report_id", report.ReportID))
		return
	}
	report.ReportURL = url
}

// ReportName builds the display name of a report from its type, period and scope.
func ReportName(scope domain.Scope, reportType domain.ReportType, period domain.Period) string {
	label := scope.Label()
	start := period.StartDate
	switch reportType {
	case domain.ReportMonthly:
		return fmt.Sprintf("%s Monthly Sustainability Report - %s", label, start.Format("January 2006"))
	case domain.ReportQuarterly:
		quarter := (int(start.Month())-1)/3 + 1
		return fmt.Sprintf("%s Q%d Sustainability Report - %d", label, quarter, start.Year())
	case domain.ReportAnnual:
		return fmt.Sprintf("%s Annual Sustainability Report - %d", label, start.Year())
	default:
		return fmt.Sprintf("%s Sustainability Report - %s to %s", label,
			start.Format("Jan 2, 2006"), period.EndDate.Format("Jan 2, 2006"))
	}
}

func toReportStandards(compliance []domain.StandardCompliance) []domain.ReportStandard {
	standards := make([]domain.ReportStandard, 0, len(compliance))
	for _, c := range compliance {
		details := "Not compliant"
		if c.Compliant {
			body := c.VerificationBody
			if body == "" {
				body = "internal assessment"
			}
			details = "Verified by " + body
		}
		standards = append(standards, domain.ReportStandard{
			Name:      c.Standard,
			Compliant: c.Compliant,
			Details:   details,
		})
	}
	return standards
}

// GetReport retrieves a report by ID.
func (s *reportingService) GetReport(ctx context.Context, reportID string) (*domain.SustainabilityReport, error) {
	if reportID == "" {
		return nil, apperrors.NewValidationError("report ID is required")
	}
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("report not found: " + reportID)
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	s.signReportURL(ctx, report)
	return report, nil
}

// GetReports lists reports newest first.
func (s *reportingService) GetReports(ctx context.Context, organizationID string, filter domain.ReportFilter, limit int) ([]domain.SustainabilityReport, error) {
	if organizationID == "" {
		return nil, apperrors.NewValidationError("organization ID is required")
	}
	if filter.ReportType != "" && !filter.ReportType.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown report type %q", filter.ReportType))
	}
	if limit <= 0 {
		limit = defaultReportLimit
	}
	reports, err := s.reportRepo.ListReports(ctx, organizationID, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	for i := range reports {
		s.signReportURL(ctx, &reports[i])
	}
	return reports, nil
}

// SetStandardCompliance creates or updates the organization's record for standard.
// An existing record keeps its ID and creation time.
func (s *reportingService) SetStandardCompliance(ctx context.Context, organizationID string, standard domain.AccountingStandard, compliant bool, details *domain.ComplianceDetails, userID string) (*domain.StandardCompliance, error) {
	if organizationID == "" {
		return nil, apperrors.NewValidationError("organization ID is required")
	}
	if !standard.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown accounting standard %q", standard))
	}
	if details == nil {
		details = &domain.ComplianceDetails{}
	}

	now := s.Now()
	verifiedAt := now
	if details.VerificationDate != nil {
		verifiedAt = details.VerificationDate.UTC()
	}

	existing, err := s.complianceRepo.FindCompliance(ctx, organizationID, standard)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up compliance record: %w", err)
	}

	record := domain.StandardCompliance{
		ComplianceID:         uuid.NewString(),
		OrganizationID:       organizationID,
		Standard:             standard,
		Compliant:            compliant,
		VerificationBody:     details.VerificationBody,
		LastVerificationDate: &verifiedAt,
		NextVerificationDate: details.NextVerificationDate,
		CertificateURL:       details.CertificateURL,
		Notes:                details.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if existing != nil {
		return s.overwriteCompliance(ctx, *existing, record)
	}

	err = s.complianceRepo.SaveCompliance(ctx, record)
	if errors.Is(err, apperrors.ErrDuplicate) {
		// A concurrent request inserted the record first.
		existing, findErr := s.complianceRepo.FindCompliance(ctx, organizationID, standard)
		if findErr != nil {
			return nil, fmt.Errorf("failed to look up concurrently created compliance record: %w", findErr)
		}
		return s.overwriteCompliance(ctx, *existing, record)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to save compliance record",
			slog.String("organization_id", organizationID),
			slog.String("standard", string(standard)))
		return nil, fmt.Errorf("failed to save compliance record: %w", err)
	}
	return &record, nil
}

// overwriteCompliance replaces the verification fields of existing, keeping its identity.
func (s *reportingService) overwriteCompliance(ctx context.Context, existing, record domain.StandardCompliance) (*domain.StandardCompliance, error) {
	record.ComplianceID = existing.ComplianceID
	record.CreatedAt = existing.CreatedAt
	record.CreatedBy = existing.CreatedBy
	if err := s.complianceRepo.UpdateCompliance(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to update compliance record",
			slog.String("organization_id", record.OrganizationID),
			slog.String("standard", string(record.Standard)))
		return nil, fmt.Errorf("failed to update compliance record: %w", err)
	}
	return &record, nil
}

// GetStandardsCompliance lists compliance records; a non-empty standard narrows to that one.
func (s *reportingService) GetStandardsCompliance(ctx context.Context, organizationID string, standard domain.AccountingStandard) ([]domain.StandardCompliance, error) {
	if organizationID == "" {
		return nil, apperrors.NewValidationError("organization ID is required")
	}
	if standard != "" {
		if !standard.IsValid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown accounting standard %q", standard))
		}
		record, err := s.complianceRepo.FindCompliance(ctx, organizationID, standard)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return []domain.StandardCompliance{}, nil
			}
			return nil, fmt.Errorf("failed to get compliance record: %w", err)
		}
		return []domain.StandardCompliance{*record}, nil
	}

	records, err := s.complianceRepo.ListCompliance(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list compliance records: %w", err)
	}
	return records, nil
}
