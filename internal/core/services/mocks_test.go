package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/apperrors"
	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock UsageRepository ---
type MockUsageRepository struct {
	mock.Mock
}

func (m *MockUsageRepository) FindUsageForPeriod(ctx context.Context, scope domain.Scope, start, end time.Time) (*domain.CarbonUsage, error) {
	args := m.Called(ctx, scope, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarbonUsage), args.Error(1)
}

func (m *MockUsageRepository) ListUsageInRange(ctx context.Context, scope domain.Scope, from, to time.Time) ([]domain.CarbonUsage, error) {
	args := m.Called(ctx, scope, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CarbonUsage), args.Error(1)
}

func (m *MockUsageRepository) ListRecentUsage(ctx context.Context, scope domain.Scope, limit int) ([]domain.CarbonUsage, error) {
	args := m.Called(ctx, scope, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CarbonUsage), args.Error(1)
}

func (m *MockUsageRepository) SaveUsage(ctx context.Context, usage domain.CarbonUsage) error {
	args := m.Called(ctx, usage)
	return args.Error(0)
}

// --- Mock OffsetRepository ---
type MockOffsetRepository struct {
	mock.Mock
}

func (m *MockOffsetRepository) SumOffsets(ctx context.Context, scope domain.Scope, start, end time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, scope, start, end)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockOffsetRepository) ListOffsetsByScope(ctx context.Context, scope domain.Scope, limit int) ([]domain.CarbonOffset, error) {
	args := m.Called(ctx, scope, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CarbonOffset), args.Error(1)
}

func (m *MockOffsetRepository) CountOffsetsByScope(ctx context.Context, scope domain.Scope) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOffsetRepository) FindOffsetByID(ctx context.Context, offsetID string) (*domain.CarbonOffset, error) {
	args := m.Called(ctx, offsetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarbonOffset), args.Error(1)
}

func (m *MockOffsetRepository) SaveOffset(ctx context.Context, offset domain.CarbonOffset, application domain.OffsetApplication) error {
	args := m.Called(ctx, offset, application)
	return args.Error(0)
}

// --- Mock OffsetApplicationRepository ---
type MockOffsetApplicationRepository struct {
	mock.Mock
}

func (m *MockOffsetApplicationRepository) ApplyToUsage(ctx context.Context, applicationID, usageID, updatedBy string) error {
	args := m.Called(ctx, applicationID, usageID, updatedBy)
	return args.Error(0)
}

func (m *MockOffsetApplicationRepository) MarkIncluded(ctx context.Context, applicationID, usageID string) error {
	args := m.Called(ctx, applicationID, usageID)
	return args.Error(0)
}

func (m *MockOffsetApplicationRepository) MarkNoUsage(ctx context.Context, applicationID string) error {
	args := m.Called(ctx, applicationID)
	return args.Error(0)
}

func (m *MockOffsetApplicationRepository) RecordAttempt(ctx context.Context, applicationID string) error {
	args := m.Called(ctx, applicationID)
	return args.Error(0)
}

func (m *MockOffsetApplicationRepository) ListPendingApplications(ctx context.Context, limit int) ([]domain.OffsetApplication, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OffsetApplication), args.Error(1)
}

func (m *MockOffsetApplicationRepository) FindApplicationByOffsetID(ctx context.Context, offsetID string) (*domain.OffsetApplication, error) {
	args := m.Called(ctx, offsetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OffsetApplication), args.Error(1)
}

// --- Mock OffsetExchange ---
type MockOffsetExchange struct {
	mock.Mock
}

func (m *MockOffsetExchange) Estimate(ctx context.Context, carbonInKg decimal.Decimal, projectType domain.OffsetProjectType) (*domain.OffsetEstimate, error) {
	args := m.Called(ctx, carbonInKg, projectType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OffsetEstimate), args.Error(1)
}

func (m *MockOffsetExchange) Purchase(ctx context.Context, estimateID string) (*domain.OffsetPurchase, error) {
	args := m.Called(ctx, estimateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OffsetPurchase), args.Error(1)
}

func (m *MockOffsetExchange) GetPurchase(ctx context.Context, purchaseID string) (*domain.OffsetPurchase, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OffsetPurchase), args.Error(1)
}

func (m *MockOffsetExchange) ListProjects(ctx context.Context, projectType domain.OffsetProjectType) ([]domain.OffsetProject, error) {
	args := m.Called(ctx, projectType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OffsetProject), args.Error(1)
}

// --- Mock GoalRepository ---
type MockGoalRepository struct {
	mock.Mock
}

func (m *MockGoalRepository) FindGoalByID(ctx context.Context, goalID string) (*domain.CarbonReductionGoal, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarbonReductionGoal), args.Error(1)
}

func (m *MockGoalRepository) ListGoals(ctx context.Context, organizationID string, filter domain.GoalFilter) ([]domain.CarbonReductionGoal, error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CarbonReductionGoal), args.Error(1)
}

func (m *MockGoalRepository) SaveGoal(ctx context.Context, goal domain.CarbonReductionGoal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) UpdateGoal(ctx context.Context, goal domain.CarbonReductionGoal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

// --- Mock FootprintRangeReader ---
type MockFootprintReader struct {
	mock.Mock
}

func (m *MockFootprintReader) GetFootprintForRange(ctx context.Context, scope domain.Scope, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, scope, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock UsagePeriodReader ---
type MockUsagePeriodReader struct {
	mock.Mock
}

func (m *MockUsagePeriodReader) GetUsageForPeriod(ctx context.Context, scope domain.Scope, start, end time.Time) (*domain.CarbonUsage, error) {
	args := m.Called(ctx, scope, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarbonUsage), args.Error(1)
}

// --- Mock ReportRepository ---
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) FindReportByID(ctx context.Context, reportID string) (*domain.SustainabilityReport, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SustainabilityReport), args.Error(1)
}

func (m *MockReportRepository) ListReports(ctx context.Context, organizationID string, filter domain.ReportFilter, limit int) ([]domain.SustainabilityReport, error) {
	args := m.Called(ctx, organizationID, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SustainabilityReport), args.Error(1)
}

func (m *MockReportRepository) SaveReport(ctx context.Context, report domain.SustainabilityReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) AttachDocumentKey(ctx context.Context, reportID, key string) error {
	args := m.Called(ctx, reportID, key)
	return args.Error(0)
}

// --- Mock DocumentRenderer ---
type MockDocumentRenderer struct {
	mock.Mock
}

func (m *MockDocumentRenderer) RenderPDF(ctx context.Context, report domain.SustainabilityReport) (string, error) {
	args := m.Called(ctx, report)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentRenderer) DocumentURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// --- In-memory ComplianceRepository ---

// memoryComplianceRepo keeps compliance records in a map keyed by ID.
type memoryComplianceRepo struct {
	mu      sync.Mutex
	records map[string]domain.StandardCompliance
	order   []string
}

func newMemoryComplianceRepo() *memoryComplianceRepo {
	return &memoryComplianceRepo{records: make(map[string]domain.StandardCompliance)}
}

func (r *memoryComplianceRepo) FindCompliance(_ context.Context, organizationID string, standard domain.AccountingStandard) (*domain.StandardCompliance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		rec := r.records[id]
		if rec.OrganizationID == organizationID && rec.Standard == standard {
			return &rec, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memoryComplianceRepo) ListCompliance(_ context.Context, organizationID string) ([]domain.StandardCompliance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.StandardCompliance{}
	for _, id := range r.order {
		if rec := r.records[id]; rec.OrganizationID == organizationID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memoryComplianceRepo) SaveCompliance(_ context.Context, c domain.StandardCompliance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[c.ComplianceID]; exists {
		return apperrors.ErrDuplicate
	}
	for _, rec := range r.records {
		if rec.OrganizationID == c.OrganizationID && rec.Standard == c.Standard {
			return apperrors.ErrDuplicate
		}
	}
	r.records[c.ComplianceID] = c
	r.order = append(r.order, c.ComplianceID)
	return nil
}

func (r *memoryComplianceRepo) UpdateCompliance(_ context.Context, c domain.StandardCompliance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[c.ComplianceID]; !exists {
		return apperrors.ErrNotFound
	}
	r.records[c.ComplianceID] = c
	return nil
}

// racingComplianceRepo lets a rival record land between the first lookup and the insert.
type racingComplianceRepo struct {
	*memoryComplianceRepo
	rival domain.StandardCompliance
	raced bool
}

func (r *racingComplianceRepo) FindCompliance(ctx context.Context, organizationID string, standard domain.AccountingStandard) (*domain.StandardCompliance, error) {
	if !r.raced {
		r.raced = true
		if err := r.memoryComplianceRepo.SaveCompliance(ctx, r.rival); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrNotFound
	}
	return r.memoryComplianceRepo.FindCompliance(ctx, organizationID, standard)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func kg(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func ptr[T any](v T) *T {
	return &v
}
