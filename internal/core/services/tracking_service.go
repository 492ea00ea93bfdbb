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
)

const (
	defaultHistoryLimit = 10
	// systemUserID attributes updates made by background reconciliation.
	systemUserID = "system"
)

var (
	defaultOffsetPricePerTonUSD = decimal.NewFromInt(10)
	defaultMinimumPurchaseUSD   = decimal.NewFromInt(1)
	kgPerTon                    = decimal.NewFromInt(1000)
)

// trackingService implements the TrackingSvcFacade interface
type trackingService struct {
	BaseService
	usageRepo       portsrepo.UsageRepositoryFacade
	offsetRepo      portsrepo.OffsetRepositoryFacade
	applicationRepo portsrepo.OffsetApplicationRepository
	exchange        portsprov.OffsetExchange

	pricePerTonUSD     decimal.Decimal
	minimumPurchaseUSD decimal.Decimal
}

// TrackingServiceOption is a functional option for configuring the tracking service
type TrackingServiceOption func(*trackingService)

// WithTrackingClock overrides the clock used for purchase dates and summary windows.
func WithTrackingClock(clock func() time.Time) TrackingServiceOption {
	return func(s *trackingService) {
		s.clock = clock
	}
}

// WithOffsetPricing sets the indicative price used to reject estimates below the purchase minimum.
func WithOffsetPricing(pricePerTonUSD, minimumPurchaseUSD decimal.Decimal) TrackingServiceOption {
	return func(s *trackingService) {
		s.pricePerTonUSD = pricePerTonUSD
		s.minimumPurchaseUSD = minimumPurchaseUSD
	}
}

// NewTrackingService creates a new carbon tracking service with the provided options
func NewTrackingService(
	usageRepo portsrepo.UsageRepositoryFacade,
	offsetRepo portsrepo.OffsetRepositoryFacade,
	applicationRepo portsrepo.OffsetApplicationRepository,
	exchange portsprov.OffsetExchange,
	options ...TrackingServiceOption,
) portssvc.TrackingSvcFacade {
	svc := &trackingService{
		usageRepo:          usageRepo,
		offsetRepo:         offsetRepo,
		applicationRepo:    applicationRepo,
		exchange:           exchange,
		pricePerTonUSD:     defaultOffsetPricePerTonUSD,
		minimumPurchaseUSD: defaultMinimumPurchaseUSD,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.TrackingSvcFacade = (*trackingService)(nil)

// CalculateFootprint returns the total kg CO2e of the metrics.
func (s *trackingService) CalculateFootprint(metrics domain.UsageMetrics) decimal.Decimal {
	return carbon.CalculateFootprint(metrics)
}

// RecordUsage computes the footprint of metrics and persists a new usage snapshot for the period.
// Existing snapshots for the same period are left untouched.
func (s *trackingService) RecordUsage(ctx context.Context, scope domain.Scope, metrics domain.UsageMetrics, period domain.Period, userID string) (*domain.CarbonUsage, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}
	period = domain.Period{StartDate: period.StartDate.UTC(), EndDate: period.EndDate.UTC()}
	if !period.StartDate.Before(period.EndDate) {
		return nil, apperrors.NewValidationError("period start date must be before end date")
	}
	if !carbon.ValidateMetrics(metrics) {
		return nil, apperrors.NewValidationError("usage metrics must not be negative")
	}

	total := carbon.CalculateFootprint(metrics)
	offset, err := s.offsetRepo.SumOffsets(ctx, scope, period.StartDate, period.EndDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum offsets for usage period", scopeAttrs(scope))
		return nil, fmt.Errorf("failed to sum offsets for period: %w", err)
	}

	// Read after summing: every offset the sum saw was purchased before CreatedAt.
	now := s.Now()
	usage := domain.CarbonUsage{
		UsageID:             uuid.NewString(),
		Scope:               scope,
		UsageMetrics:        metrics,
		TotalCarbonInKg:     total,
		OffsetCarbonInKg:    offset,
		RemainingCarbonInKg: domain.RemainingCarbon(total, offset),
		Period:              period,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.usageRepo.SaveUsage(ctx, usage); err != nil {
		s.LogError(ctx, err, "Failed to save carbon usage", scopeAttrs(scope))
		return nil, fmt.Errorf("failed to save carbon usage: %w", err)
	}

	s.LogInfo(ctx, "Carbon usage recorded",
		slog.String("usage_id", usage.UsageID),
		scopeAttrs(scope),
		slog.String("total_kg", total.String()))
	return &usage, nil
}

// GetUsageForPeriod returns the usage whose period matches start and end exactly, or nil.
func (s *trackingService) GetUsageForPeriod(ctx context.Context, scope domain.Scope, start, end time.Time) (*domain.CarbonUsage, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}
	usage, err := s.usageRepo.FindUsageForPeriod(ctx, scope, start.UTC(), end.UTC())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get usage for period: %w", err)
	}
	return usage, nil
}

// GetUsageHistory returns the most recent usage snapshots, newest first.
func (s *trackingService) GetUsageHistory(ctx context.Context, scope domain.Scope, limit int) ([]domain.CarbonUsage, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	usages, err := s.usageRepo.ListRecentUsage(ctx, scope, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage history: %w", err)
	}
	return usages, nil
}

// GetOffsetTotalForPeriod sums the carbon of offsets purchased in [start, end].
func (s *trackingService) GetOffsetTotalForPeriod(ctx context.Context, scope domain.Scope, start, end time.Time) (decimal.Decimal, error) {
	if err := validateScope(scope); err != nil {
		return decimal.Zero, err
	}
	total, err := s.offsetRepo.SumOffsets(ctx, scope, start.UTC(), end.UTC())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum offsets: %w", err)
	}
	return total, nil
}

// EstimateOffset asks the exchange for a quote. It does not change any state.
func (s *trackingService) EstimateOffset(ctx context.Context, carbonInKg decimal.Decimal, projectType domain.OffsetProjectType) (*domain.OffsetEstimate, error) {
	if !carbonInKg.IsPositive() {
		return nil, apperrors.NewValidationError("carbon amount must be greater than zero")
	}
	if projectType != "" && !projectType.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown offset project type %q", projectType))
	}
	indicativeCost := carbonInKg.Div(kgPerTon).Mul(s.pricePerTonUSD)
	if indicativeCost.LessThan(s.minimumPurchaseUSD) {
		return nil, apperrors.NewValidationError(fmt.Sprintf(
			"offset of %s kg is below the minimum purchase of $%s", carbonInKg.String(), s.minimumPurchaseUSD.StringFixed(2)))
	}

	estimate, err := s.exchange.Estimate(ctx, carbonInKg, projectType)
	if err != nil {
		s.LogError(ctx, err, "Offset estimate failed", slog.String("carbon_kg", carbonInKg.String()))
		return nil, fmt.Errorf("failed to estimate offset: %w", err)
	}
	return estimate, nil
}

// PurchaseOffset executes an estimate, records the offset with a pending application
// marker and applies it to the current month's usage snapshot if one exists.
//
// The purchase is never rolled back. If applying fails the marker stays pending and
// ReconcilePendingOffsets retries it; the offset is still returned.
func (s *trackingService) PurchaseOffset(ctx context.Context, userID, estimateID string, scope domain.Scope) (*domain.CarbonOffset, error) {
	if estimateID == "" {
		return nil, apperrors.NewValidationError("estimate ID is required")
	}
	if err := validateScope(scope); err != nil {
		return nil, err
	}

	purchase, err := s.exchange.Purchase(ctx, estimateID)
	if err != nil {
		s.LogError(ctx, err, "Offset purchase failed", slog.String("estimate_id", estimateID))
		return nil, fmt.Errorf("failed to purchase offset: %w", err)
	}

	now := s.Now()
	status := purchase.Status
	if status == "" {
		status = domain.PurchaseCompleted
	}
	offset := domain.CarbonOffset{
		OffsetID:       uuid.NewString(),
		Scope:          scope,
		PurchaseID:     purchase.PurchaseID,
		EstimateID:     estimateID,
		CarbonInKg:     purchase.CarbonInKg,
		CostInUSDCents: purchase.CostInUSDCents,
		Project:        purchase.Project,
		ReceiptURL:     purchase.ReceiptURL,
		CertificateURL: purchase.CertificateURL,
		Status:         status,
		PurchaseDate:   now,
		CreatedBy:      userID,
	}
	application := domain.OffsetApplication{
		ApplicationID: uuid.NewString(),
		OffsetID:      offset.OffsetID,
		Scope:         scope,
		Period:        domain.MonthPeriod(now),
		CarbonInKg:    offset.CarbonInKg,
		Status:        domain.ApplicationPending,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}

	if err := s.offsetRepo.SaveOffset(ctx, offset, application); err != nil {
		s.LogError(ctx, err, "Offset purchased at exchange but could not be recorded",
			slog.String("purchase_id", purchase.PurchaseID),
			scopeAttrs(scope))
		return nil, fmt.Errorf("failed to save offset purchase %s: %w", purchase.PurchaseID, err)
	}

	if err := s.applyOffset(ctx, application, userID); err != nil {
		s.LogWarn(ctx, err, "Offset recorded but not yet applied to usage; left for reconciliation",
			slog.String("offset_id", offset.OffsetID),
			slog.String("application_id", application.ApplicationID))
	}

	s.LogInfo(ctx, "Carbon offset purchased",
		slog.String("offset_id", offset.OffsetID),
		slog.String("purchase_id", offset.PurchaseID),
		slog.String("carbon_kg", offset.CarbonInKg.String()),
		scopeAttrs(scope))
	return &offset, nil
}

// applyOffset settles one application marker against the usage snapshot of its period.
func (s *trackingService) applyOffset(ctx context.Context, application domain.OffsetApplication, userID string) error {
	usage, err := s.usageRepo.FindUsageForPeriod(ctx, application.Scope, application.Period.StartDate, application.Period.EndDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if markErr := s.applicationRepo.MarkNoUsage(ctx, application.ApplicationID); markErr != nil {
				return fmt.Errorf("failed to mark offset application without usage: %w", markErr)
			}
			s.LogDebug(ctx, "No usage snapshot for offset month; offset recorded without usage update",
				slog.String("application_id", application.ApplicationID))
			return nil
		}
		return fmt.Errorf("failed to find usage for offset month: %w", err)
	}

	if usage.CountsOffset(application.CreatedAt) {
		if err := s.applicationRepo.MarkIncluded(ctx, application.ApplicationID, usage.UsageID); err != nil {
			return fmt.Errorf("failed to mark offset application included in usage %s: %w", usage.UsageID, err)
		}
		s.LogDebug(ctx, "Usage snapshot already counts offset; marked applied without update",
			slog.String("application_id", application.ApplicationID),
			slog.String("usage_id", usage.UsageID))
		return nil
	}

	if err := s.applicationRepo.ApplyToUsage(ctx, application.ApplicationID, usage.UsageID, userID); err != nil {
		return fmt.Errorf("failed to apply offset to usage %s: %w", usage.UsageID, err)
	}
	return nil
}

// ReconcilePendingOffsets retries every pending application marker, up to limit.
func (s *trackingService) ReconcilePendingOffsets(ctx context.Context, limit int) (int, error) {
	pending, err := s.applicationRepo.ListPendingApplications(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending offset applications: %w", err)
	}

	settled := 0
	var errs []error
	for _, application := range pending {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := s.applyOffset(ctx, application, systemUserID); err != nil {
			s.LogWarn(ctx, err, "Offset application retry failed",
				slog.String("application_id", application.ApplicationID),
				slog.Int("attempts", application.Attempts+1))
			if attemptErr := s.applicationRepo.RecordAttempt(ctx, application.ApplicationID); attemptErr != nil {
				errs = append(errs, attemptErr)
			}
			errs = append(errs, err)
			continue
		}
		settled++
	}

	s.LogInfo(ctx, "Offset reconciliation finished",
		slog.Int("pending", len(pending)),
		slog.Int("settled", settled))
	return settled, errors.Join(errs...)
}

// GetOffsetHistory returns the most recent offsets for the scope, newest first.
func (s *trackingService) GetOffsetHistory(ctx context.Context, scope domain.Scope, limit int) ([]domain.CarbonOffset, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	offsets, err := s.offsetRepo.ListOffsetsByScope(ctx, scope, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list offsets: %w", err)
	}
	return offsets, nil
}

// GetOffsetSettlement returns a recorded offset with its application marker and the
// exchange's current view of the purchase. The local record is not changed.
func (s *trackingService) GetOffsetSettlement(ctx context.Context, offsetID string) (*domain.OffsetSettlement, error) {
	if offsetID == "" {
		return nil, apperrors.NewValidationError("offset ID is required")
	}
	offset, err := s.offsetRepo.FindOffsetByID(ctx, offsetID)
	if err != nil {
		return nil, fmt.Errorf("failed to find offset %s: %w", offsetID, err)
	}

	settlement := &domain.OffsetSettlement{Offset: *offset}
	application, err := s.applicationRepo.FindApplicationByOffsetID(ctx, offsetID)
	switch {
	case err == nil:
		settlement.Application = application
	case errors.Is(err, apperrors.ErrNotFound):
		s.LogWarn(ctx, err, "Offset has no application marker", slog.String("offset_id", offsetID))
	default:
		return nil, fmt.Errorf("failed to find application of offset %s: %w", offsetID, err)
	}

	purchase, err := s.exchange.GetPurchase(ctx, offset.PurchaseID)
	if err != nil {
		s.LogError(ctx, err, "Offset purchase lookup failed",
			slog.String("offset_id", offsetID),
			slog.String("purchase_id", offset.PurchaseID))
		return nil, fmt.Errorf("failed to look up purchase %s: %w", offset.PurchaseID, err)
	}
	settlement.ExchangeStatus = purchase.Status
	settlement.StatusChanged = purchase.Status != "" && purchase.Status != offset.Status
	return settlement, nil
}

// GetAvailableProjects lists offset projects offered by the exchange.
func (s *trackingService) GetAvailableProjects(ctx context.Context, projectType domain.OffsetProjectType) ([]domain.OffsetProject, error) {
	if projectType != "" && !projectType.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown offset project type %q", projectType))
	}
	projects, err := s.exchange.ListProjects(ctx, projectType)
	if err != nil {
		return nil, fmt.Errorf("failed to list offset projects: %w", err)
	}
	return projects, nil
}

func validateScope(scope domain.Scope) error {
	if scope.OrganizationID == "" {
		return apperrors.NewValidationError("organization ID is required")
	}
	return nil
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperrors.NewValidationError("start and end dates are required")
	}
	if end.Before(start) {
		return apperrors.NewValidationError("end date must not be before start date")
	}
	return nil
}
