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
	"github.com/shopspring/decimal"
)

type PgxOffsetRepository struct {
	BaseRepository
}

// newPgxOffsetRepository creates a new repository for purchased offsets.
func newPgxOffsetRepository(pool *pgxpool.Pool) portsrepo.OffsetRepositoryFacade {
	return &PgxOffsetRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.OffsetRepositoryFacade = (*PgxOffsetRepository)(nil)

// SaveOffset inserts the offset and its pending application marker in one transaction.
func (r *PgxOffsetRepository) SaveOffset(ctx context.Context, offset domain.CarbonOffset, application domain.OffsetApplication) error {
	o := mapping.ToModelCarbonOffset(offset)
	a := mapping.ToModelOffsetApplication(application)
	project, err := json.Marshal(o.Project)
	if err != nil {
		return fmt.Errorf("failed to encode offset project: %w", err)
	}

	return r.inTx(ctx, func(tx pgx.Tx) error {
		offsetQuery := `
			INSERT INTO carbon_offsets (
				offset_id, organization_id, department_id, project_id,
				purchase_id, estimate_id, carbon_kg, cost_usd_cents, offset_project,
				receipt_url, certificate_url, status, purchase_date, created_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`
		_, err := tx.Exec(ctx, offsetQuery,
			o.OffsetID, o.OrganizationID, o.DepartmentID, o.ProjectID,
			o.PurchaseID, o.EstimateID, o.CarbonInKg, o.CostInUSDCents, project,
			o.ReceiptURL, o.CertificateURL, o.Status, o.PurchaseDate, o.CreatedBy,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: offset for purchase %s already recorded", apperrors.ErrDuplicate, o.PurchaseID)
			}
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert offset "+o.OffsetID, err)
		}

		applicationQuery := `
			INSERT INTO offset_applications (
				application_id, offset_id, organization_id, department_id, project_id,
				period_start, period_end, carbon_kg, status, usage_id, attempts,
				created_at, last_updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
		_, err = tx.Exec(ctx, applicationQuery,
			a.ApplicationID, a.OffsetID, a.OrganizationID, a.DepartmentID, a.ProjectID,
			a.PeriodStart, a.PeriodEnd, a.CarbonInKg, a.Status, a.UsageID, a.Attempts,
			a.CreatedAt, a.LastUpdatedAt,
		)
		if err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert offset application "+a.ApplicationID, err)
		}
		return nil
	})
}

// SumOffsets totals the carbon of offsets purchased within [start, end].
func (r *PgxOffsetRepository) SumOffsets(ctx context.Context, scope domain.Scope, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(carbon_kg), 0)
		FROM carbon_offsets
		WHERE ` + scopeClause + ` AND purchase_date >= $4 AND purchase_date <= $5;`
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, scope.OrganizationID, scope.DepartmentID, scope.ProjectID, start, end).Scan(&total)
	if err != nil {
		return decimal.Zero, apperrors.NewAppError(http.StatusInternalServerError, "failed to sum offsets", err)
	}
	return total, nil
}

const offsetColumns = `
	offset_id, organization_id, department_id, project_id,
	purchase_id, estimate_id, carbon_kg, cost_usd_cents, offset_project,
	receipt_url, certificate_url, status, purchase_date, created_by`

// ListOffsetsByScope returns up to limit offsets, newest first.
func (r *PgxOffsetRepository) ListOffsetsByScope(ctx context.Context, scope domain.Scope, limit int) ([]domain.CarbonOffset, error) {
	query := `SELECT ` + offsetColumns + `
		FROM carbon_offsets
		WHERE ` + scopeClause + `
		ORDER BY purchase_date DESC
		LIMIT $4;`
	rows, err := r.Pool.Query(ctx, query, scope.OrganizationID, scope.DepartmentID, scope.ProjectID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query offsets", err)
	}
	defer rows.Close()

	offsets := []models.CarbonOffset{}
	for rows.Next() {
		o, err := scanOffset(rows)
		if err != nil {
			return nil, err
		}
		offsets = append(offsets, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating offset rows", err)
	}
	return mapping.ToDomainCarbonOffsetSlice(offsets), nil
}

// FindOffsetByID returns the offset or apperrors.ErrNotFound.
func (r *PgxOffsetRepository) FindOffsetByID(ctx context.Context, offsetID string) (*domain.CarbonOffset, error) {
	query := `SELECT ` + offsetColumns + ` FROM carbon_offsets WHERE offset_id = $1;`
	o, err := scanOffset(r.Pool.QueryRow(ctx, query, offsetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("offset " + offsetID + " not found")
		}
		return nil, err
	}
	offset := mapping.ToDomainCarbonOffset(o)
	return &offset, nil
}

// scanOffset reads one carbon_offsets row selected with offsetColumns.
// pgx.ErrNoRows is returned unwrapped.
func scanOffset(row pgx.Row) (models.CarbonOffset, error) {
	var o models.CarbonOffset
	var project []byte
	if err := row.Scan(
		&o.OffsetID, &o.OrganizationID, &o.DepartmentID, &o.ProjectID,
		&o.PurchaseID, &o.EstimateID, &o.CarbonInKg, &o.CostInUSDCents, &project,
		&o.ReceiptURL, &o.CertificateURL, &o.Status, &o.PurchaseDate, &o.CreatedBy,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return o, err
		}
		return o, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan offset row", err)
	}
	if len(project) > 0 {
		if err := json.Unmarshal(project, &o.Project); err != nil {
			return o, fmt.Errorf("failed to decode project of offset %s: %w", o.OffsetID, err)
		}
	}
	return o, nil
}

// CountOffsetsByScope returns the number of offsets purchased for the scope.
func (r *PgxOffsetRepository) CountOffsetsByScope(ctx context.Context, scope domain.Scope) (int64, error) {
	query := `SELECT COUNT(*) FROM carbon_offsets WHERE ` + scopeClause + `;`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, scope.OrganizationID, scope.DepartmentID, scope.ProjectID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(http.StatusInternalServerError, "failed to count offsets", err)
	}
	return count, nil
}
