package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	UsageRepo             UsageRepositoryFacade
	OffsetRepo            OffsetRepositoryFacade
	OffsetApplicationRepo OffsetApplicationRepository
	GoalRepo              GoalRepositoryFacade
	ReportRepo            ReportRepositoryFacade
	ComplianceRepo        ComplianceRepositoryFacade
}
