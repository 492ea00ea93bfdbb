package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	portssvc "github.com/SscSPs/carbon_accounting_app/internal/core/ports/services"
	"github.com/SscSPs/carbon_accounting_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock TrackingService ---
type MockTrackingService struct {
	mock.Mock
}

func (m *MockTrackingService) CalculateFootprint(metrics domain.UsageMetrics) decimal.Decimal {
	args := m.Called(metrics)
	return args.Get(0).(decimal.Decimal)
}
func (m *MockTrackingService) GetUsageForPeriod(ctx context.Context, scope domain.Scope, start, end time.Time) (*domain.CarbonUsage, error) {
	args := m.Called(ctx, scope, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarbonUsage), args.Error(1)
}
func (m *MockTrackingService) GetFootprintForRange(ctx context.Context, scope domain.Scope, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, scope, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockTrackingService) GetUsageHistory(ctx context.Context, scope domain.Scope, limit int) ([]domain.CarbonUsage, error) {
	args := m.Called(ctx, scope, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CarbonUsage), args.Error(1)
}
func (m *MockTrackingService) GetOffsetTotalForPeriod(ctx context.Context, scope domain.Scope, start, end time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, scope, start, end)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockTrackingService) GetFootprintSummary(ctx context.Context, scope domain.Scope) (*domain.FootprintSummary, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FootprintSummary), args.Error(1)
}
func (m *MockTrackingService) RecordUsage(ctx context.Context, scope domain.Scope, metrics domain.UsageMetrics, period domain.Period, userID string) (*domain.CarbonUsage, error) {
	args := m.Called(ctx, scope, metrics, period, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarbonUsage), args.Error(1)
}
func (m *MockTrackingService) EstimateOffset(ctx context.Context, carbonInKg decimal.Decimal, projectType domain.OffsetProjectType) (*domain.OffsetEstimate, error) {
	args := m.Called(ctx, carbonInKg, projectType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OffsetEstimate), args.Error(1)
}
func (m *MockTrackingService) PurchaseOffset(ctx context.Context, userID, estimateID string, scope domain.Scope) (*domain.CarbonOffset, error) {
	args := m.Called(ctx, userID, estimateID, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarbonOffset), args.Error(1)
}
func (m *MockTrackingService) GetOffsetHistory(ctx context.Context, scope domain.Scope, limit int) ([]domain.CarbonOffset, error) {
	args := m.Called(ctx, scope, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CarbonOffset), args.Error(1)
}
func (m *MockTrackingService) GetAvailableProjects(ctx context.Context, projectType domain.OffsetProjectType) ([]domain.OffsetProject, error) {
	args := m.Called(ctx, projectType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OffsetProject), args.Error(1)
}
func (m *MockTrackingService) ReconcilePendingOffsets(ctx context.Context, limit int) (int, error) {
	args := m.Called(ctx, limit)
	return args.Int(0), args.Error(1)
}
func (m *MockTrackingService) GetOffsetSettlement(ctx context.Context, offsetID string) (*domain.OffsetSettlement, error) {
	args := m.Called(ctx, offsetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OffsetSettlement), args.Error(1)
}
func (m *MockTrackingService) GetEmissionsTimeSeries(ctx context.Context, scope domain.Scope, start, end time.Time) ([]domain.EmissionsPoint, error) {
	args := m.Called(ctx, scope, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmissionsPoint), args.Error(1)
}
func (m *MockTrackingService) GetEmissionsBreakdown(ctx context.Context, scope domain.Scope, start, end time.Time) ([]domain.EmissionsBreakdownItem, error) {
	args := m.Called(ctx, scope, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmissionsBreakdownItem), args.Error(1)
}
func (m *MockTrackingService) GetEmissionsTrends(ctx context.Context, scope domain.Scope, start, end time.Time) ([]domain.EmissionsTrend, error) {
	args := m.Called(ctx, scope, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmissionsTrend), args.Error(1)
}

var _ portssvc.TrackingSvcFacade = (*MockTrackingService)(nil)

// --- Mock GoalService ---
type MockGoalService struct {
	mock.Mock
}

func (m *MockGoalService) GetGoal(ctx context.Context, goalID string) (*domain.CarbonReductionGoal, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarbonReductionGoal), args.Error(1)
}
func (m *MockGoalService) GetGoals(ctx context.Context, organizationID string, filter domain.GoalFilter) ([]domain.CarbonReductionGoal, error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CarbonReductionGoal), args.Error(1)
}
func (m *MockGoalService) CreateGoal(ctx context.Context, req dto.CreateGoalRequest, userID string) (*domain.CarbonReductionGoal, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarbonReductionGoal), args.Error(1)
}
func (m *MockGoalService) UpdateGoal(ctx context.Context, goalID string, req dto.UpdateGoalRequest, userID string) (*domain.CarbonReductionGoal, error) {
	args := m.Called(ctx, goalID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarbonReductionGoal), args.Error(1)
}
func (m *MockGoalService) AddMilestone(ctx context.Context, goalID string, req dto.CreateMilestoneRequest, userID string) (*domain.CarbonReductionGoal, error) {
	args := m.Called(ctx, goalID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarbonReductionGoal), args.Error(1)
}
func (m *MockGoalService) UpdateGoalProgress(ctx context.Context, goalID string) (*domain.GoalProgress, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GoalProgress), args.Error(1)
}
func (m *MockGoalService) RefreshActiveGoals(ctx context.Context, organizationID string) ([]domain.GoalProgress, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GoalProgress), args.Error(1)
}

var _ portssvc.GoalSvcFacade = (*MockGoalService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GenerateReport(ctx context.Context, scope domain.Scope, reportType domain.ReportType, start, end time.Time, userID string) (*domain.SustainabilityReport, error) {
	args := m.Called(ctx, scope, reportType, start, end, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SustainabilityReport), args.Error(1)
}
func (m *MockReportingService) GetReport(ctx context.Context, reportID string) (*domain.SustainabilityReport, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SustainabilityReport), args.Error(1)
}
func (m *MockReportingService) GetReports(ctx context.Context, organizationID string, filter domain.ReportFilter, limit int) ([]domain.SustainabilityReport, error) {
	args := m.Called(ctx, organizationID, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SustainabilityReport), args.Error(1)
}
func (m *MockReportingService) SetStandardCompliance(ctx context.Context, organizationID string, standard domain.AccountingStandard, compliant bool, details *domain.ComplianceDetails, userID string) (*domain.StandardCompliance, error) {
	args := m.Called(ctx, organizationID, standard, compliant, details, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StandardCompliance), args.Error(1)
}
func (m *MockReportingService) GetStandardsCompliance(ctx context.Context, organizationID string, standard domain.AccountingStandard) ([]domain.StandardCompliance, error) {
	args := m.Called(ctx, organizationID, standard)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StandardCompliance), args.Error(1)
}

var _ portssvc.ReportingSvcFacade = (*MockReportingService)(nil)
