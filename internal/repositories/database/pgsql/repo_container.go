package pgsql

import (
	portsrepo "github.com/SscSPs/carbon_accounting_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UsageRepo:             newPgxUsageRepository(dbPool),
		OffsetRepo:            newPgxOffsetRepository(dbPool),
		OffsetApplicationRepo: newPgxOffsetApplicationRepository(dbPool),
		GoalRepo:              newPgxGoalRepository(dbPool),
		ReportRepo:            newReportRepository(dbPool),
		ComplianceRepo:        newPgxComplianceRepository(dbPool),
	}
}
