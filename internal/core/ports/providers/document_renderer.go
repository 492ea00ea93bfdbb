package providers

import (
	"context"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
)

// DocumentRenderer turns a report into a downloadable document.
type DocumentRenderer interface {
	// RenderPDF renders and stores the report, returning the storage key of the document.
	RenderPDF(ctx context.Context, report domain.SustainabilityReport) (string, error)
	// DocumentURL returns a short-lived download link for a stored document.
	DocumentURL(ctx context.Context, key string) (string, error)
}
