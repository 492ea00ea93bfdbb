package services

import (
	portsprov "github.com/SscSPs/carbon_accounting_app/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/carbon_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/carbon_accounting_app/internal/core/ports/services"
)

// NewServiceContainer wires the engines together. The tracking engine feeds both the
// goals engine (current footprint) and the reporting engine (period snapshots).
// renderer may be nil, in which case reports are generated without a document URL.
func NewServiceContainer(
	repos portsrepo.RepositoryProvider,
	exchange portsprov.OffsetExchange,
	renderer portsprov.DocumentRenderer,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Tracking = NewTrackingService(
		repos.UsageRepo,
		repos.OffsetRepo,
		repos.OffsetApplicationRepo,
		exchange,
	)

	container.Goals = NewGoalService(repos.GoalRepo, container.Tracking)

	reportingOptions := []ReportingServiceOption{}
	if renderer != nil {
		reportingOptions = append(reportingOptions, WithDocumentRenderer(renderer))
	}
	container.Reporting = NewReportingService(
		repos.ReportRepo,
		repos.ComplianceRepo,
		container.Tracking,
		reportingOptions...,
	)

	return container
}
