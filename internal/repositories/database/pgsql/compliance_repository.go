package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/carbon_accounting_app/internal/apperrors"
	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	portsrepo "github.com/SscSPs/carbon_accounting_app/internal/core/ports/repositories"
	"github.com/SscSPs/carbon_accounting_app/internal/models"
	"github.com/SscSPs/carbon_accounting_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const complianceColumns = `
	compliance_id, organization_id, standard, compliant, verification_body,
	last_verification_date, next_verification_date, certificate_url, notes,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxComplianceRepository struct {
	BaseRepository
}

// newPgxComplianceRepository creates a repository for standards compliance records.
func newPgxComplianceRepository(pool *pgxpool.Pool) portsrepo.ComplianceRepositoryFacade {
	return &PgxComplianceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ComplianceRepositoryFacade = (*PgxComplianceRepository)(nil)

// SaveCompliance inserts a record. (organization, standard) is unique.
func (r *PgxComplianceRepository) SaveCompliance(ctx context.Context, compliance domain.StandardCompliance) error {
	m := mapping.ToModelCompliance(compliance)
	query := `INSERT INTO standard_compliance (` + complianceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
	_, err := r.Pool.Exec(ctx, query,
		m.ComplianceID, m.OrganizationID, m.Standard, m.Compliant, m.VerificationBody,
		m.LastVerificationDate, m.NextVerificationDate, m.CertificateURL, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: compliance for %s already recorded", apperrors.ErrDuplicate, m.Standard)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert compliance record", err)
	}
	return nil
}

// UpdateCompliance overwrites the verification fields of an existing record.
func (r *PgxComplianceRepository) UpdateCompliance(ctx context.Context, compliance domain.StandardCompliance) error {
	m := mapping.ToModelCompliance(compliance)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE standard_compliance
		SET compliant = $1, verification_body = $2,
		    last_verification_date = $3, next_verification_date = $4,
		    certificate_url = $5, notes = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE compliance_id = $9;`,
		m.Compliant, m.VerificationBody,
		m.LastVerificationDate, m.NextVerificationDate,
		m.CertificateURL, m.Notes,
		m.LastUpdatedAt, m.LastUpdatedBy,
		m.ComplianceID,
	)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to update compliance record "+m.ComplianceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindCompliance returns the organization's record for one standard.
func (r *PgxComplianceRepository) FindCompliance(ctx context.Context, organizationID string, standard domain.AccountingStandard) (*domain.StandardCompliance, error) {
	query := `SELECT ` + complianceColumns + ` FROM standard_compliance WHERE organization_id = $1 AND standard = $2;`
	record, err := scanCompliance(r.Pool.QueryRow(ctx, query, organizationID, string(standard)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find compliance record", err)
	}
	return &record, nil
}

// ListCompliance returns all of an organization's records, oldest first.
func (r *PgxComplianceRepository) ListCompliance(ctx context.Context, organizationID string) ([]domain.StandardCompliance, error) {
	query := `SELECT ` + complianceColumns + ` FROM standard_compliance WHERE organization_id = $1 ORDER BY created_at ASC;`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query compliance records", err)
	}
	defer rows.Close()

	records := []domain.StandardCompliance{}
	for rows.Next() {
		record, err := scanCompliance(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan compliance row", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating compliance rows", err)
	}
	return records, nil
}

func scanCompliance(row pgx.Row) (domain.StandardCompliance, error) {
	var m models.StandardCompliance
	err := row.Scan(
		&m.ComplianceID, &m.OrganizationID, &m.Standard, &m.Compliant, &m.VerificationBody,
		&m.LastVerificationDate, &m.NextVerificationDate, &m.CertificateURL, &m.Notes,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return domain.StandardCompliance{}, err
	}
	return mapping.ToDomainCompliance(m), nil
}
