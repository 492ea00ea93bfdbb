// Package app wires configuration into adapters and engines for the API and job binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/carbon_accounting_app/internal/adapters/cache/redis"
	"github.com/SscSPs/carbon_accounting_app/internal/adapters/cloverly"
	"github.com/SscSPs/carbon_accounting_app/internal/adapters/renderer"
	portsprov "github.com/SscSPs/carbon_accounting_app/internal/core/ports/providers"
	portssvc "github.com/SscSPs/carbon_accounting_app/internal/core/ports/services"
	"github.com/SscSPs/carbon_accounting_app/internal/core/services"
	"github.com/SscSPs/carbon_accounting_app/internal/platform/config"
	"github.com/SscSPs/carbon_accounting_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/carbon_accounting_app/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

// App holds the long-lived resources shared by the API server and the jobs CLI.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *pgxpool.Pool
	Redis    *goredis.Client // nil when REDIS_URL is unset
	Services *portssvc.ServiceContainer
}

// New opens the database pool, builds the adapters and wires the engines.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	logger.Info("Database connection pool established.")

	a := &App{Config: cfg, Logger: logger, DB: dbPool}

	if cfg.RedisURL != "" {
		a.Redis, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		logger.Info("Redis connection established.")
	}

	exchange, err := a.newExchange()
	if err != nil {
		a.Close()
		return nil, err
	}

	documents, err := a.newRenderer(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Services = services.NewServiceContainer(pgsql.NewRepositoryProvider(dbPool), exchange, documents)
	return a, nil
}

func (a *App) newExchange() (portsprov.OffsetExchange, error) {
	client, err := cloverly.NewClient(a.Config.CloverlyAPIKey,
		cloverly.WithBaseURL(a.Config.CloverlyBaseURL),
		cloverly.WithTimeout(a.Config.CloverlyTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create offset exchange client: %w", err)
	}
	if a.Redis == nil {
		return client, nil
	}
	return redis.NewCachedExchange(client, a.Redis, redis.WithEstimateTTL(a.Config.ExchangeCacheTTL)), nil
}

// newRenderer returns nil when no report bucket is configured.
func (a *App) newRenderer(ctx context.Context) (portsprov.DocumentRenderer, error) {
	if a.Config.ReportBucket == "" {
		return nil, nil
	}
	uploader, err := renderer.NewS3Uploader(ctx, renderer.S3Config{
		Bucket:          a.Config.ReportBucket,
		Region:          a.Config.AWSRegion,
		AccessKeyID:     a.Config.AWSAccessKeyID,
		SecretAccessKey: a.Config.AWSSecretAccessKey,
		Endpoint:        a.Config.AWSEndpointURL,
		URLExpiry:       a.Config.ReportURLExpiry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create report uploader: %w", err)
	}
	return renderer.NewPDFRenderer(uploader, "reports"), nil
}

// Close releases the pool and the Redis client.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("Error closing redis client", slog.String("error", err.Error()))
		}
	}
	database.ClosePgxPool(a.DB)
}
