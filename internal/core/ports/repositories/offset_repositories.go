package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OffsetReader defines read operations for purchased offsets
type OffsetReader interface {
	// SumOffsets totals carbon of offsets purchased in [start, end] for the scope.
	SumOffsets(ctx context.Context, scope domain.Scope, start, end time.Time) (decimal.Decimal, error)
	// ListOffsetsByScope returns offsets newest first; limit <= 0 means no limit.
	ListOffsetsByScope(ctx context.Context, scope domain.Scope, limit int) ([]domain.CarbonOffset, error)
	CountOffsetsByScope(ctx context.Context, scope domain.Scope) (int64, error)
	// FindOffsetByID returns the offset or apperrors.ErrNotFound.
	FindOffsetByID(ctx context.Context, offsetID string) (*domain.CarbonOffset, error)
}

// OffsetWriter defines write operations for purchased offsets
type OffsetWriter interface {
	// SaveOffset persists the offset together with its pending application marker.
	SaveOffset(ctx context.Context, offset domain.CarbonOffset, application domain.OffsetApplication) error
}

// OffsetApplicationRepository manages the markers that track applying an offset to usage.
type OffsetApplicationRepository interface {
	// ApplyToUsage adds the application's carbon to the usage offset total, recomputes
	// the remaining carbon and marks the application applied, all or nothing.
	ApplyToUsage(ctx context.Context, applicationID, usageID, updatedBy string) error
	// MarkIncluded marks the application applied against a usage snapshot whose
	// offset total already counts it, leaving the snapshot unchanged.
	MarkIncluded(ctx context.Context, applicationID, usageID string) error
	// MarkNoUsage records that no usage snapshot existed for the application period.
	MarkNoUsage(ctx context.Context, applicationID string) error
	// RecordAttempt bumps the attempt counter of a pending application.
	RecordAttempt(ctx context.Context, applicationID string) error
	ListPendingApplications(ctx context.Context, limit int) ([]domain.OffsetApplication, error)
	// FindApplicationByOffsetID returns the marker of an offset or apperrors.ErrNotFound.
	FindApplicationByOffsetID(ctx context.Context, offsetID string) (*domain.OffsetApplication, error)
}

// OffsetRepositoryFacade combines all offset-related repository interfaces
type OffsetRepositoryFacade interface {
	OffsetReader
	OffsetWriter
}
