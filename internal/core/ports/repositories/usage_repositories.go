package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
)

// UsageReader defines read operations for carbon usage snapshots
type UsageReader interface {
	// FindUsageForPeriod returns the usage whose period boundaries match start and end exactly.
	// Returns apperrors.ErrNotFound when no such record exists.
	FindUsageForPeriod(ctx context.Context, scope domain.Scope, start, end time.Time) (*domain.CarbonUsage, error)
	// ListUsageInRange returns usage with period start in [from, to], oldest first.
	ListUsageInRange(ctx context.Context, scope domain.Scope, from, to time.Time) ([]domain.CarbonUsage, error)
	// ListRecentUsage returns the latest usage records, newest first.
	ListRecentUsage(ctx context.Context, scope domain.Scope, limit int) ([]domain.CarbonUsage, error)
}

// UsageWriter defines write operations for carbon usage snapshots
type UsageWriter interface {
	SaveUsage(ctx context.Context, usage domain.CarbonUsage) error
}

// UsageRepositoryFacade combines all usage-related repository interfaces
type UsageRepositoryFacade interface {
	UsageReader
	UsageWriter
}
