// Package redis caches offset exchange lookups in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	portsprov "github.com/SscSPs/carbon_accounting_app/internal/core/ports/providers"
	"github.com/SscSPs/carbon_accounting_app/internal/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	DefaultEstimateTTL = 2 * time.Minute
	DefaultProjectsTTL = 10 * time.Minute

	keyPrefix = "cae:exchange:"
)

// CachedExchange wraps an OffsetExchange and caches estimates and project listings.
// Purchases always go to the exchange. Redis failures degrade to uncached calls.
type CachedExchange struct {
	next        portsprov.OffsetExchange
	client      goredis.UniversalClient
	estimateTTL time.Duration
	projectsTTL time.Duration
}

// Option configures a CachedExchange.
type Option func(*CachedExchange)

// WithEstimateTTL sets how long estimates stay cached.
func WithEstimateTTL(ttl time.Duration) Option {
	return func(c *CachedExchange) {
		if ttl > 0 {
			c.estimateTTL = ttl
		}
	}
}

// WithProjectsTTL sets how long project listings stay cached.
func WithProjectsTTL(ttl time.Duration) Option {
	return func(c *CachedExchange) {
		if ttl > 0 {
			c.projectsTTL = ttl
		}
	}
}

// NewCachedExchange creates the caching decorator.
func NewCachedExchange(next portsprov.OffsetExchange, client goredis.UniversalClient, options ...Option) *CachedExchange {
	c := &CachedExchange{
		next:        next,
		client:      client,
		estimateTTL: DefaultEstimateTTL,
		projectsTTL: DefaultProjectsTTL,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

var _ portsprov.OffsetExchange = (*CachedExchange)(nil)

// NewClient parses a redis:// URL and verifies the connection.
func NewClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (c *CachedExchange) Estimate(ctx context.Context, carbonInKg decimal.Decimal, projectType domain.OffsetProjectType) (*domain.OffsetEstimate, error) {
	key := estimateKey(carbonInKg, projectType)

	var cached domain.OffsetEstimate
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	estimate, err := c.next.Estimate(ctx, carbonInKg, projectType)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, estimate, c.estimateTTL)
	return estimate, nil
}

func (c *CachedExchange) Purchase(ctx context.Context, estimateID string) (*domain.OffsetPurchase, error) {
	return c.next.Purchase(ctx, estimateID)
}

func (c *CachedExchange) GetPurchase(ctx context.Context, purchaseID string) (*domain.OffsetPurchase, error) {
	return c.next.GetPurchase(ctx, purchaseID)
}

func (c *CachedExchange) ListProjects(ctx context.Context, projectType domain.OffsetProjectType) ([]domain.OffsetProject, error) {
	key := projectsKey(projectType)

	var cached []domain.OffsetProject
	if c.get(ctx, key, &cached) {
		return cached, nil
	}

	projects, err := c.next.ListProjects(ctx, projectType)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, projects, c.projectsTTL)
	return projects, nil
}

func (c *CachedExchange) get(ctx context.Context, key string, out any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			middleware.GetLoggerFromCtx(ctx).Warn("Exchange cache read failed",
				slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Discarding unreadable exchange cache entry",
			slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}

func (c *CachedExchange) set(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Exchange cache write failed",
			slog.String("key", key), slog.String("error", err.Error()))
	}
}

func estimateKey(carbonInKg decimal.Decimal, projectType domain.OffsetProjectType) string {
	return fmt.Sprintf("%sestimate:%s:%s", keyPrefix, carbonInKg.String(), projectOrAll(projectType))
}

func projectsKey(projectType domain.OffsetProjectType) string {
	return keyPrefix + "projects:" + projectOrAll(projectType)
}

func projectOrAll(projectType domain.OffsetProjectType) string {
	if projectType == "" {
		return "all"
	}
	return string(projectType)
}
