package services

import (
	"context"
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FootprintCalculatorSvc exposes the pure footprint calculation.
type FootprintCalculatorSvc interface {
	CalculateFootprint(metrics domain.UsageMetrics) decimal.Decimal
}

// UsagePeriodReaderSvc looks up the usage snapshot of one period
type UsagePeriodReaderSvc interface {
	// GetUsageForPeriod matches period boundaries exactly. A missing record is (nil, nil).
	GetUsageForPeriod(ctx context.Context, scope domain.Scope, start, end time.Time) (*domain.CarbonUsage, error)
}

// FootprintRangeReaderSvc totals footprint over an arbitrary range
type FootprintRangeReaderSvc interface {
	// GetFootprintForRange sums usage totals whose period starts in [from, to).
	GetFootprintForRange(ctx context.Context, scope domain.Scope, from, to time.Time) (decimal.Decimal, error)
}

// UsageReaderSvc defines read operations over recorded usage
type UsageReaderSvc interface {
	UsagePeriodReaderSvc
	FootprintRangeReaderSvc
	GetUsageHistory(ctx context.Context, scope domain.Scope, limit int) ([]domain.CarbonUsage, error)
	GetOffsetTotalForPeriod(ctx context.Context, scope domain.Scope, start, end time.Time) (decimal.Decimal, error)
	GetFootprintSummary(ctx context.Context, scope domain.Scope) (*domain.FootprintSummary, error)
}

// UsageWriterSvc defines write operations for usage
type UsageWriterSvc interface {
	RecordUsage(ctx context.Context, scope domain.Scope, metrics domain.UsageMetrics, period domain.Period, userID string) (*domain.CarbonUsage, error)
}

// OffsetSvc covers estimating, purchasing and applying carbon offsets
type OffsetSvc interface {
	EstimateOffset(ctx context.Context, carbonInKg decimal.Decimal, projectType domain.OffsetProjectType) (*domain.OffsetEstimate, error)
	PurchaseOffset(ctx context.Context, userID, estimateID string, scope domain.Scope) (*domain.CarbonOffset, error)
	GetOffsetHistory(ctx context.Context, scope domain.Scope, limit int) ([]domain.CarbonOffset, error)
	GetAvailableProjects(ctx context.Context, projectType domain.OffsetProjectType) ([]domain.OffsetProject, error)
	// ReconcilePendingOffsets retries applying purchased offsets to usage. Returns how many were settled.
	ReconcilePendingOffsets(ctx context.Context, limit int) (int, error)
	// GetOffsetSettlement reports how a purchased offset was applied and its current exchange status.
	GetOffsetSettlement(ctx context.Context, offsetID string) (*domain.OffsetSettlement, error)
}

// EmissionsAnalyticsSvc provides derived read-side views over usage history
type EmissionsAnalyticsSvc interface {
	GetEmissionsTimeSeries(ctx context.Context, scope domain.Scope, start, end time.Time) ([]domain.EmissionsPoint, error)
	GetEmissionsBreakdown(ctx context.Context, scope domain.Scope, start, end time.Time) ([]domain.EmissionsBreakdownItem, error)
	GetEmissionsTrends(ctx context.Context, scope domain.Scope, start, end time.Time) ([]domain.EmissionsTrend, error)
}

// TrackingSvcFacade combines all carbon tracking interfaces
type TrackingSvcFacade interface {
	FootprintCalculatorSvc
	UsageReaderSvc
	UsageWriterSvc
	OffsetSvc
	EmissionsAnalyticsSvc
}
