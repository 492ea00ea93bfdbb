// Package cloverly implements the offset exchange port against the Cloverly REST API.
package cloverly

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/apperrors"
	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	portsprov "github.com/SscSPs/carbon_accounting_app/internal/core/ports/providers"
	"github.com/SscSPs/carbon_accounting_app/internal/middleware"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL     = "https://api.cloverly.com/2021-03"
	defaultHTTPTimeout = 30 * time.Second

	estimatesPath = "/estimates"
	purchasesPath = "/purchases"
	projectsPath  = "/offset-projects"

	// maxErrorBody bounds how much of an error response is read into the error message.
	maxErrorBody = 4 << 10
)

// Client talks to Cloverly with a bearer API key.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another Cloverly environment (or a test server).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. A client passed through WithHTTPClient
// is copied first so the caller's instance keeps its own timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			hc := *c.http
			hc.Timeout = timeout
			c.http = &hc
		}
	}
}

// NewClient creates a Cloverly client. An empty API key is an error.
func NewClient(apiKey string, options ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("cloverly API key is required")
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, option := range options {
		option(c)
	}
	return c, nil
}

var _ portsprov.OffsetExchange = (*Client)(nil)

type quantity struct {
	Value json.Number `json:"value"`
	Units string      `json:"units"`
}

type estimateRequest struct {
	Carbon      quantity `json:"carbon"`
	ProjectType string   `json:"project_type,omitempty"`
}

type purchaseRequest struct {
	EstimateSlug string `json:"estimate_slug"`
}

type location struct {
	Country string `json:"country"`
	State   string `json:"state,omitempty"`
}

type offsetSource struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Location    location `json:"location"`
}

// transactionResponse is the shape shared by estimates and purchases.
type transactionResponse struct {
	Slug                 string          `json:"slug"`
	State                string          `json:"state"`
	TotalCostInUSDCents  int64           `json:"total_cost_in_usd_cents"`
	CarbonInKg           decimal.Decimal `json:"carbon_in_kg"`
	PrettyCost           string          `json:"pretty_cost"`
	Offset               *offsetSource   `json:"offset,omitempty"`
	ReceiptURL           string          `json:"receipt_url,omitempty"`
	RenewableCertificate string          `json:"renewable_certificate_url,omitempty"`
	EstimateSlug         string          `json:"estimate_slug,omitempty"`
}

type projectsResponse struct {
	Data []offsetSource `json:"data"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Estimate requests a price quote for carbonInKg. projectType may be empty.
func (c *Client) Estimate(ctx context.Context, carbonInKg decimal.Decimal, projectType domain.OffsetProjectType) (*domain.OffsetEstimate, error) {
	payload := estimateRequest{
		Carbon:      quantity{Value: json.Number(carbonInKg.String()), Units: "kg"},
		ProjectType: string(projectType),
	}
	var resp transactionResponse
	if err := c.do(ctx, http.MethodPost, estimatesPath, payload, &resp); err != nil {
		return nil, err
	}
	return &domain.OffsetEstimate{
		EstimateID:     resp.Slug,
		CarbonInKg:     resp.CarbonInKg,
		CostInUSDCents: resp.TotalCostInUSDCents,
		PrettyCost:     resp.PrettyCost,
		Project:        toProject(resp.Offset),
	}, nil
}

// Purchase executes a previously created estimate.
func (c *Client) Purchase(ctx context.Context, estimateID string) (*domain.OffsetPurchase, error) {
	var resp transactionResponse
	if err := c.do(ctx, http.MethodPost, purchasesPath, purchaseRequest{EstimateSlug: estimateID}, &resp); err != nil {
		return nil, err
	}
	purchase := toPurchase(resp)
	if purchase.EstimateID == "" {
		purchase.EstimateID = estimateID
	}
	return purchase, nil
}

// GetPurchase fetches a purchase by its slug.
func (c *Client) GetPurchase(ctx context.Context, purchaseID string) (*domain.OffsetPurchase, error) {
	var resp transactionResponse
	if err := c.do(ctx, http.MethodGet, purchasesPath+"/"+url.PathEscape(purchaseID), nil, &resp); err != nil {
		return nil, err
	}
	return toPurchase(resp), nil
}

// ListProjects lists offset projects, optionally narrowed to one type.
func (c *Client) ListProjects(ctx context.Context, projectType domain.OffsetProjectType) ([]domain.OffsetProject, error) {
	path := projectsPath
	if projectType != "" {
		path += "?" + url.Values{"type": {string(projectType)}}.Encode()
	}
	var resp projectsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	projects := make([]domain.OffsetProject, 0, len(resp.Data))
	for i := range resp.Data {
		projects = append(projects, toProject(&resp.Data[i]))
	}
	return projects, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			return fmt.Errorf("failed to encode cloverly request: %w", err)
		}
		body = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build cloverly request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewExternalError("cloverly "+method+" "+path, err)
	}
	defer resp.Body.Close()

	logger.Debug("Cloverly request finished",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return apperrors.NewExternalError(
			fmt.Sprintf("cloverly %s %s returned %d", method, path, resp.StatusCode),
			errors.New(errorMessage(raw, resp.Status)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewExternalError("cloverly returned an unreadable response", err)
	}
	return nil
}

func errorMessage(raw []byte, status string) string {
	var e errorResponse
	if json.Unmarshal(raw, &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return msg
	}
	return status
}

func toProject(src *offsetSource) domain.OffsetProject {
	if src == nil {
		return domain.OffsetProject{Name: "Unknown Project", Location: "Unknown Location"}
	}
	id := src.ID
	if id == "" {
		id = src.Slug
	}
	return domain.OffsetProject{
		ID:          id,
		Name:        src.Name,
		Type:        domain.OffsetProjectType(src.Type),
		Location:    src.Location.Country,
		Description: src.Description,
	}
}

func toPurchase(resp transactionResponse) *domain.OffsetPurchase {
	return &domain.OffsetPurchase{
		PurchaseID:     resp.Slug,
		EstimateID:     resp.EstimateSlug,
		CarbonInKg:     resp.CarbonInKg,
		CostInUSDCents: resp.TotalCostInUSDCents,
		ReceiptURL:     resp.ReceiptURL,
		CertificateURL: resp.RenewableCertificate,
		Status:         purchaseStatus(resp.State),
		Project:        toProject(resp.Offset),
	}
}

// purchaseStatus maps Cloverly transaction states onto purchase statuses.
func purchaseStatus(state string) domain.PurchaseStatus {
	switch strings.ToLower(state) {
	case "purchased", "completed", "retired":
		return domain.PurchaseCompleted
	case "cancelled", "canceled", "failed":
		return domain.PurchaseFailed
	case "refunded":
		return domain.PurchaseRefunded
	default:
		return domain.PurchasePending
	}
}
