package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/carbon_accounting_app/internal/apperrors"
	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	portsrepo "github.com/SscSPs/carbon_accounting_app/internal/core/ports/repositories"
	"github.com/SscSPs/carbon_accounting_app/internal/models"
	"github.com/SscSPs/carbon_accounting_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxOffsetApplicationRepository struct {
	BaseRepository
}

// newPgxOffsetApplicationRepository creates a repository for offset application markers.
func newPgxOffsetApplicationRepository(pool *pgxpool.Pool) portsrepo.OffsetApplicationRepository {
	return &PgxOffsetApplicationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.OffsetApplicationRepository = (*PgxOffsetApplicationRepository)(nil)

// ApplyToUsage adds the application's carbon to the usage snapshot and marks the
// application applied, in one transaction. Already settled applications are left alone.
func (r *PgxOffsetApplicationRepository) ApplyToUsage(ctx context.Context, applicationID, usageID, updatedBy string) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		var status string
		var carbonKg decimal.Decimal
		err := tx.QueryRow(ctx, `
			SELECT status, carbon_kg
			FROM offset_applications
			WHERE application_id = $1
			FOR UPDATE;`, applicationID).Scan(&status, &carbonKg)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to lock offset application "+applicationID, err)
		}
		if domain.ApplicationStatus(status) != domain.ApplicationPending {
			return nil
		}

		tag, err := tx.Exec(ctx, `
			UPDATE carbon_usage
			SET offset_carbon_kg = offset_carbon_kg + $1,
			    remaining_carbon_kg = GREATEST(0, total_carbon_kg - (offset_carbon_kg + $1)),
			    last_updated_at = NOW(),
			    last_updated_by = $2
			WHERE usage_id = $3;`, carbonKg, updatedBy, usageID)
		if err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to apply offset to usage "+usageID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}

		_, err = tx.Exec(ctx, `
			UPDATE offset_applications
			SET status = $1, usage_id = $2, attempts = attempts + 1, last_updated_at = NOW()
			WHERE application_id = $3;`, string(domain.ApplicationApplied), usageID, applicationID)
		if err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to mark offset application "+applicationID, err)
		}
		return nil
	})
}

// MarkIncluded settles a pending application whose carbon the usage snapshot already counts.
func (r *PgxOffsetApplicationRepository) MarkIncluded(ctx context.Context, applicationID, usageID string) error {
	return r.setStatus(ctx, applicationID, domain.ApplicationApplied, usageID)
}

// MarkNoUsage settles a pending application for which no usage snapshot exists.
func (r *PgxOffsetApplicationRepository) MarkNoUsage(ctx context.Context, applicationID string) error {
	return r.setStatus(ctx, applicationID, domain.ApplicationNoUsage, "")
}

func (r *PgxOffsetApplicationRepository) setStatus(ctx context.Context, applicationID string, status domain.ApplicationStatus, usageID string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE offset_applications
		SET status = $1, usage_id = NULLIF($2, ''), attempts = attempts + 1, last_updated_at = NOW()
		WHERE application_id = $3 AND status = 'pending';`, string(status), usageID, applicationID)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to update offset application "+applicationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RecordAttempt bumps the attempt counter of a still pending application.
func (r *PgxOffsetApplicationRepository) RecordAttempt(ctx context.Context, applicationID string) error {
	_, err := r.Pool.Exec(ctx, `
		UPDATE offset_applications
		SET attempts = attempts + 1, last_updated_at = NOW()
		WHERE application_id = $1;`, applicationID)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to record attempt for offset application "+applicationID, err)
	}
	return nil
}

const applicationColumns = `
	application_id, offset_id, organization_id, department_id, project_id,
	period_start, period_end, carbon_kg, status, usage_id, attempts,
	created_at, last_updated_at`

// ListPendingApplications returns up to limit pending applications, oldest first.
func (r *PgxOffsetApplicationRepository) ListPendingApplications(ctx context.Context, limit int) ([]domain.OffsetApplication, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+applicationColumns+`
		FROM offset_applications
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1;`, limit)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query pending offset applications", err)
	}
	defer rows.Close()

	applications := []domain.OffsetApplication{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan offset application row", err)
		}
		applications = append(applications, mapping.ToDomainOffsetApplication(a))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating offset application rows", err)
	}
	return applications, nil
}

// FindApplicationByOffsetID returns the application marker created with the offset.
func (r *PgxOffsetApplicationRepository) FindApplicationByOffsetID(ctx context.Context, offsetID string) (*domain.OffsetApplication, error) {
	a, err := scanApplication(r.Pool.QueryRow(ctx, `
		SELECT `+applicationColumns+`
		FROM offset_applications
		WHERE offset_id = $1;`, offsetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no application found for offset " + offsetID)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find application of offset "+offsetID, err)
	}
	application := mapping.ToDomainOffsetApplication(a)
	return &application, nil
}

func scanApplication(row pgx.Row) (models.OffsetApplication, error) {
	var a models.OffsetApplication
	err := row.Scan(
		&a.ApplicationID, &a.OffsetID, &a.OrganizationID, &a.DepartmentID, &a.ProjectID,
		&a.PeriodStart, &a.PeriodEnd, &a.CarbonInKg, &a.Status, &a.UsageID, &a.Attempts,
		&a.CreatedAt, &a.LastUpdatedAt,
	)
	return a, err
}
