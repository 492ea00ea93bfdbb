package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/apperrors"
	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	portsrepo "github.com/SscSPs/carbon_accounting_app/internal/core/ports/repositories"
	"github.com/SscSPs/carbon_accounting_app/internal/models"
	"github.com/SscSPs/carbon_accounting_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const usageColumns = `
	usage_id, organization_id, department_id, project_id,
	invoice_count, email_count, storage_gb, api_call_count, custom_usage,
	total_carbon_kg, offset_carbon_kg, remaining_carbon_kg,
	period_start, period_end,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxUsageRepository struct {
	BaseRepository
}

// newPgxUsageRepository creates a new repository for usage snapshots.
func newPgxUsageRepository(pool *pgxpool.Pool) portsrepo.UsageRepositoryFacade {
	return &PgxUsageRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.UsageRepositoryFacade = (*PgxUsageRepository)(nil)

// SaveUsage inserts a new usage snapshot.
func (r *PgxUsageRepository) SaveUsage(ctx context.Context, usage domain.CarbonUsage) error {
	m := mapping.ToModelCarbonUsage(usage)
	custom, err := json.Marshal(m.CustomUsage)
	if err != nil {
		return fmt.Errorf("failed to encode custom usage: %w", err)
	}

	query := `INSERT INTO carbon_usage (` + usageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);`
	_, err = r.Pool.Exec(ctx, query,
		m.UsageID, m.OrganizationID, m.DepartmentID, m.ProjectID,
		m.InvoiceCount, m.EmailCount, m.StorageGB, m.APICallCount, custom,
		m.TotalCarbonInKg, m.OffsetCarbonInKg, m.RemainingCarbonInKg,
		m.PeriodStart, m.PeriodEnd,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: usage %s already exists", apperrors.ErrDuplicate, m.UsageID)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert usage "+m.UsageID, err)
	}
	return nil
}

// FindUsageForPeriod returns the most recently created snapshot whose period matches exactly.
func (r *PgxUsageRepository) FindUsageForPeriod(ctx context.Context, scope domain.Scope, start, end time.Time) (*domain.CarbonUsage, error) {
	query := `SELECT ` + usageColumns + `
		FROM carbon_usage
		WHERE ` + scopeClause + ` AND period_start = $4 AND period_end = $5
		ORDER BY created_at DESC
		LIMIT 1;`
	row := r.Pool.QueryRow(ctx, query, scope.OrganizationID, scope.DepartmentID, scope.ProjectID, start, end)

	usage, err := scanUsage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find usage for period", err)
	}
	return &usage, nil
}

// ListUsageInRange returns snapshots whose period starts within [from, to], oldest first.
func (r *PgxUsageRepository) ListUsageInRange(ctx context.Context, scope domain.Scope, from, to time.Time) ([]domain.CarbonUsage, error) {
	query := `SELECT ` + usageColumns + `
		FROM carbon_usage
		WHERE ` + scopeClause + ` AND period_start >= $4 AND period_start <= $5
		ORDER BY period_start ASC;`
	return r.queryUsage(ctx, query, scope.OrganizationID, scope.DepartmentID, scope.ProjectID, from, to)
}

// ListRecentUsage returns up to limit snapshots, newest period first.
func (r *PgxUsageRepository) ListRecentUsage(ctx context.Context, scope domain.Scope, limit int) ([]domain.CarbonUsage, error) {
	query := `SELECT ` + usageColumns + `
		FROM carbon_usage
		WHERE ` + scopeClause + `
		ORDER BY period_start DESC, created_at DESC
		LIMIT $4;`
	return r.queryUsage(ctx, query, scope.OrganizationID, scope.DepartmentID, scope.ProjectID, limit)
}

func (r *PgxUsageRepository) queryUsage(ctx context.Context, query string, args ...any) ([]domain.CarbonUsage, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query usage", err)
	}
	defer rows.Close()

	usages := []domain.CarbonUsage{}
	for rows.Next() {
		usage, err := scanUsage(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan usage row", err)
		}
		usages = append(usages, usage)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating usage rows", err)
	}
	return usages, nil
}

func scanUsage(row pgx.Row) (domain.CarbonUsage, error) {
	var m models.CarbonUsage
	var custom []byte
	err := row.Scan(
		&m.UsageID, &m.OrganizationID, &m.DepartmentID, &m.ProjectID,
		&m.InvoiceCount, &m.EmailCount, &m.StorageGB, &m.APICallCount, &custom,
		&m.TotalCarbonInKg, &m.OffsetCarbonInKg, &m.RemainingCarbonInKg,
		&m.PeriodStart, &m.PeriodEnd,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return domain.CarbonUsage{}, err
	}
	if len(custom) > 0 {
		if err := json.Unmarshal(custom, &m.CustomUsage); err != nil {
			return domain.CarbonUsage{}, fmt.Errorf("failed to decode custom usage of %s: %w", m.UsageID, err)
		}
	}
	return mapping.ToDomainCarbonUsage(m), nil
}
