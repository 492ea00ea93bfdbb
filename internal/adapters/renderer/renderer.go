// Package renderer turns sustainability reports into PDFs kept in object storage.
package renderer

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/SscSPs/carbon_accounting_app/internal/apperrors"
	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	portsprov "github.com/SscSPs/carbon_accounting_app/internal/core/ports/providers"
	"github.com/SscSPs/carbon_accounting_app/internal/middleware"
)

const pdfContentType = "application/pdf"

// Uploader stores documents and signs download links for them.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body []byte) error
	PresignURL(ctx context.Context, key string) (string, error)
}

// PDFRenderer implements DocumentRenderer on top of BuildPDF and an Uploader.
type PDFRenderer struct {
	uploader Uploader
	prefix   string
}

// NewPDFRenderer creates a renderer that stores documents under prefix.
func NewPDFRenderer(uploader Uploader, prefix string) *PDFRenderer {
	if prefix == "" {
		prefix = "reports"
	}
	return &PDFRenderer{uploader: uploader, prefix: prefix}
}

var _ portsprov.DocumentRenderer = (*PDFRenderer)(nil)

func (r *PDFRenderer) RenderPDF(ctx context.Context, report domain.SustainabilityReport) (string, error) {
	doc, err := BuildPDF(report)
	if err != nil {
		return "", err
	}

	key := ObjectKey(r.prefix, report)
	if err := r.uploader.Upload(ctx, key, pdfContentType, doc); err != nil {
		return "", apperrors.NewExternalError("report upload failed", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Report document stored",
		slog.String("report_id", report.ReportID),
		slog.String("key", key),
		slog.Int("bytes", len(doc)))
	return key, nil
}

// DocumentURL presigns a download link for key.
func (r *PDFRenderer) DocumentURL(ctx context.Context, key string) (string, error) {
	url, err := r.uploader.PresignURL(ctx, key)
	if err != nil {
		return "", apperrors.NewExternalError("report link signing failed", err)
	}
	return url, nil
}

// ObjectKey is the storage key of a report's PDF: <prefix>/<organization>/<yyyy-mm>/<report id>.pdf.
func ObjectKey(prefix string, report domain.SustainabilityReport) string {
	return path.Join(prefix, report.OrganizationID,
		report.Period.StartDate.UTC().Format("2006-01"),
		fmt.Sprintf("%s.pdf", report.ReportID))
}
