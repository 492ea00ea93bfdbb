package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string

	JWTSecret string
	JWTIssuer string

	RateLimit          string // ulule/limiter format, e.g. "100-M"
	CORSAllowedOrigins []string

	// Offset exchange
	RedisURL         string
	ExchangeCacheTTL time.Duration
	CloverlyAPIKey   string
	CloverlyBaseURL  string
	CloverlyTimeout  time.Duration

	// Report documents
	ReportBucket       string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSEndpointURL     string
	ReportURLExpiry    time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("EXCHANGE_CACHE_TTL", "2m")
	v.SetDefault("CLOVERLY_API_KEY", "")
	v.SetDefault("CLOVERLY_BASE_URL", "https://api.cloverly.com/2021-03")
	v.SetDefault("CLOVERLY_TIMEOUT", "30s")
	v.SetDefault("REPORT_BUCKET", "")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("AWS_ENDPOINT_URL", "")
	v.SetDefault("REPORT_URL_EXPIRY", "24h")
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		RateLimit:          v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RedisURL:           v.GetString("REDIS_URL"),
		ExchangeCacheTTL:   durationOr(v, "EXCHANGE_CACHE_TTL", 2*time.Minute),
		CloverlyAPIKey:     v.GetString("CLOVERLY_API_KEY"),
		CloverlyBaseURL:    v.GetString("CLOVERLY_BASE_URL"),
		CloverlyTimeout:    durationOr(v, "CLOVERLY_TIMEOUT", 30*time.Second),
		ReportBucket:       v.GetString("REPORT_BUCKET"),
		AWSRegion:          v.GetString("AWS_REGION"),
		AWSAccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
		AWSEndpointURL:     v.GetString("AWS_ENDPOINT_URL"),
		ReportURLExpiry:    durationOr(v, "REPORT_URL_EXPIRY", 24*time.Hour),
	}

	if cfg.DatabaseURL == "" {
		slog.Warn("PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.JWTSecret == defaultJWTSecret {
		slog.Warn("JWT_SECRET not set. Using default insecure key.")
	}
	if cfg.CloverlyAPIKey == "" {
		slog.Warn("CLOVERLY_API_KEY not set. The offset exchange client cannot be created.")
	}
	if cfg.ReportBucket == "" {
		slog.Warn("REPORT_BUCKET not set. Reports are generated without documents.")
	}

	return cfg, nil
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			slog.Warn("Invalid duration, using default",
				slog.String("key", key), slog.String("value", raw), slog.Duration("default", fallback))
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
