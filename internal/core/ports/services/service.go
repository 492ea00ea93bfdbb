package services

// ServiceContainer holds instances of all the application services.
// It is the entry point the handlers and the jobs CLI use to reach the engines.
type ServiceContainer struct {
	Tracking  TrackingSvcFacade
	Goals     GoalSvcFacade
	Reporting ReportingSvcFacade
}
