package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/SscSPs/carbon_accounting_app/internal/apperrors"
	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	portsrepo "github.com/SscSPs/carbon_accounting_app/internal/core/ports/repositories"
	"github.com/SscSPs/carbon_accounting_app/internal/models"
	"github.com/SscSPs/carbon_accounting_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reportColumns = `
	report_id, organization_id, department_id, project_id, name, report_type,
	period_start, period_end,
	total_carbon_kg, offset_carbon_kg, remaining_carbon_kg, offset_percentage,
	reduction_kg, reduction_percentage, standards,
	generated_at, generated_by, document_key`

// reportRepository implements the ReportRepositoryFacade interface
type reportRepository struct {
	BaseRepository
}

// newReportRepository creates a new sustainability report repository
func newReportRepository(db *pgxpool.Pool) portsrepo.ReportRepositoryFacade {
	return &reportRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportRepositoryFacade = (*reportRepository)(nil)

// SaveReport inserts a generated report.
func (r *reportRepository) SaveReport(ctx context.Context, report domain.SustainabilityReport) error {
	m := mapping.ToModelReport(report)
	standards, err := json.Marshal(m.Standards)
	if err != nil {
		return fmt.Errorf("failed to encode report standards: %w", err)
	}

	query := `INSERT INTO sustainability_reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);`
	_, err = r.Pool.Exec(ctx, query,
		m.ReportID, m.OrganizationID, m.DepartmentID, m.ProjectID, m.Name, m.ReportType,
		m.PeriodStart, m.PeriodEnd,
		m.TotalCarbonInKg, m.OffsetCarbonInKg, m.RemainingCarbonInKg, m.OffsetPercentage,
		m.ReductionFromPreviousPeriod, m.ReductionPercentage, standards,
		m.GeneratedAt, m.GeneratedBy, m.DocumentKey,
	)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert report "+m.ReportID, err)
	}
	return nil
}

// AttachDocumentKey records where the rendered document of a report lives.
func (r *reportRepository) AttachDocumentKey(ctx context.Context, reportID, key string) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE sustainability_reports SET document_key = $1 WHERE report_id = $2;`, key, reportID)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to attach document to report "+reportID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindReportByID retrieves a report by its ID.
func (r *reportRepository) FindReportByID(ctx context.Context, reportID string) (*domain.SustainabilityReport, error) {
	query := `SELECT ` + reportColumns + ` FROM sustainability_reports WHERE report_id = $1;`
	report, err := scanReport(r.Pool.QueryRow(ctx, query, reportID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find report by ID "+reportID, err)
	}
	return &report, nil
}

// ListReports returns up to limit reports of an organization, newest first.
func (r *reportRepository) ListReports(ctx context.Context, organizationID string, filter domain.ReportFilter, limit int) ([]domain.SustainabilityReport, error) {
	query := `SELECT ` + reportColumns + ` FROM sustainability_reports WHERE organization_id = $1`
	args := []any{organizationID}
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		query += " AND department_id = $" + strconv.Itoa(len(args))
	}
	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		query += " AND project_id = $" + strconv.Itoa(len(args))
	}
	if filter.ReportType != "" {
		args = append(args, string(filter.ReportType))
		query += " AND report_type = $" + strconv.Itoa(len(args))
	}
	args = append(args, limit)
	query += " ORDER BY generated_at DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying reports: %w", err)
	}
	defer rows.Close()

	reports := []domain.SustainabilityReport{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning report row: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}
	return reports, nil
}

func scanReport(row pgx.Row) (domain.SustainabilityReport, error) {
	var m models.SustainabilityReport
	var standards []byte
	err := row.Scan(
		&m.ReportID, &m.OrganizationID, &m.DepartmentID, &m.ProjectID, &m.Name, &m.ReportType,
		&m.PeriodStart, &m.PeriodEnd,
		&m.TotalCarbonInKg, &m.OffsetCarbonInKg, &m.RemainingCarbonInKg, &m.OffsetPercentage,
		&m.ReductionFromPreviousPeriod, &m.ReductionPercentage, &standards,
		&m.GeneratedAt, &m.GeneratedBy, &m.DocumentKey,
	)
	if err != nil {
		return domain.SustainabilityReport{}, err
	}
	if len(standards) > 0 {
		if err := json.Unmarshal(standards, &m.Standards); err != nil {
			return domain.SustainabilityReport{}, fmt.Errorf("failed to decode standards of report %s: %w", m.ReportID, err)
		}
	}
	return mapping.ToDomainReport(m), nil
}
