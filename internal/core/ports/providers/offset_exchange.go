// Package providers declares the external collaborators the carbon engines call out to.
package providers

import (
	"context"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OffsetExchange is the carbon offset marketplace.
type OffsetExchange interface {
	// Estimate quotes the cost of offsetting carbonInKg. projectType may be empty.
	Estimate(ctx context.Context, carbonInKg decimal.Decimal, projectType domain.OffsetProjectType) (*domain.OffsetEstimate, error)
	// Purchase executes a previously quoted estimate.
	Purchase(ctx context.Context, estimateID string) (*domain.OffsetPurchase, error)
	GetPurchase(ctx context.Context, purchaseID string) (*domain.OffsetPurchase, error)
	ListProjects(ctx context.Context, projectType domain.OffsetProjectType) ([]domain.OffsetProject, error)
}
