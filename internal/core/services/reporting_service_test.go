package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/apperrors"
	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	portssvc "github.com/SscSPs/carbon_accounting_app/internal/core/ports/services"
	"github.com/SscSPs/carbon_accounting_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	reportRepo     *MockReportRepository
	complianceRepo *memoryComplianceRepo
	usage          *MockUsagePeriodReader
	renderer       *MockDocumentRenderer
	service        portssvc.ReportingSvcFacade
	ctx            context.Context
	now            time.Time
	scope          domain.Scope
	may            domain.Period
}

func (s *ReportingServiceTestSuite) SetupTest() {
	s.reportRepo = new(MockReportRepository)
	s.complianceRepo = newMemoryComplianceRepo()
	s.usage = new(MockUsagePeriodReader)
	s.renderer = new(MockDocumentRenderer)
	s.ctx = context.Background()
	s.now = time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	s.scope = domain.Scope{OrganizationID: "org-1"}
	s.may = domain.MonthPeriod(time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC))
	s.service = services.NewReportingService(s.reportRepo, s.complianceRepo, s.usage,
		services.WithDocumentRenderer(s.renderer),
		services.WithReportingClock(fixedClock(s.now)),
	)
}

func (s *ReportingServiceTestSuite) TearDownTest() {
	s.reportRepo.AssertExpectations(s.T())
	s.usage.AssertExpectations(s.T())
	s.renderer.AssertExpectations(s.T())
}

func TestReportingServiceSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

func (s *ReportingServiceTestSuite) expectUsage(period domain.Period, usage *domain.CarbonUsage) {
	if usage == nil {
		s.usage.On("GetUsageForPeriod", mock.Anything, s.scope, period.StartDate, period.EndDate).Return(nil, nil).Once()
		return
	}
	s.usage.On("GetUsageForPeriod", mock.Anything, s.scope, period.StartDate, period.EndDate).Return(usage, nil).Once()
}

func (s *ReportingServiceTestSuite) TestGenerateReport_ComparesWithPreviousPeriod() {
	s.expectUsage(s.may, &domain.CarbonUsage{TotalCarbonInKg: kg("1000"), OffsetCarbonInKg: kg("250"), RemainingCarbonInKg: kg("750")})
	s.expectUsage(s.may.Previous(), &domain.CarbonUsage{TotalCarbonInKg: kg("1200")})
	_, err := s.service.SetStandardCompliance(s.ctx, "org-1", domain.StandardGHGProtocol, true, nil, "user-1")
	require.NoError(s.T(), err)
	_, err = s.service.SetStandardCompliance(s.ctx, "org-1", domain.StandardCDP, false, nil, "user-1")
	require.NoError(s.T(), err)

	s.reportRepo.On("SaveReport", s.ctx, mock.AnythingOfType("domain.SustainabilityReport")).Return(nil).Once()
	s.renderer.On("RenderPDF", s.ctx, mock.AnythingOfType("domain.SustainabilityReport")).Return("reports/org-1/2025-05/r.pdf", nil).Once()
	s.reportRepo.On("AttachDocumentKey", s.ctx, mock.AnythingOfType("string"), "reports/org-1/2025-05/r.pdf").Return(nil).Once()
	s.renderer.On("DocumentURL", s.ctx, "reports/org-1/2025-05/r.pdf").Return("https://reports.example.com/r.pdf?sig=1", nil).Once()

	report, err := s.service.GenerateReport(s.ctx, s.scope, domain.ReportMonthly, s.may.StartDate, s.may.EndDate, "user-1")

	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Organization Monthly Sustainability Report - May 2025", report.Name)
	assert.True(s.T(), kg("1000").Equal(report.TotalCarbonInKg))
	assert.True(s.T(), kg("25").Equal(report.OffsetPercentage))
	require.NotNil(s.T(), report.ReductionFromPreviousPeriod)
	require.NotNil(s.T(), report.ReductionPercentage)
	assert.True(s.T(), kg("200").Equal(*report.ReductionFromPreviousPeriod))
	assert.Equal(s.T(), "16.67", report.ReductionPercentage.StringFixed(2))
	assert.Equal(s.T(), s.now, report.GeneratedAt)
	assert.Equal(s.T(), "reports/org-1/2025-05/r.pdf", report.DocumentKey)
	assert.Equal(s.T(), "https://reports.example.com/r.pdf?sig=1", report.ReportURL)
	require.Len(s.T(), report.Standards, 2)
	assert.Equal(s.T(), domain.ReportStandard{Name: domain.StandardGHGProtocol, Compliant: true, Details: "Verified by internal assessment"}, report.Standards[0])
	assert.Equal(s.T(), domain.ReportStandard{Name: domain.StandardCDP, Compliant: false, Details: "Not compliant"}, report.Standards[1])
}

func (s *ReportingServiceTestSuite) TestGenerateReport_IncreaseIsNotAReduction() {
	s.expectUsage(s.may, &domain.CarbonUsage{TotalCarbonInKg: kg("1500")})
	s.expectUsage(s.may.Previous(), &domain.CarbonUsage{TotalCarbonInKg: kg("1200")})
	s.reportRepo.On("SaveReport", s.ctx, mock.AnythingOfType("domain.SustainabilityReport")).Return(nil).Once()
	s.renderer.On("RenderPDF", s.ctx, mock.Anything).Return("k", nil).Once()
	s.reportRepo.On("AttachDocumentKey", s.ctx, mock.Anything, "k").Return(nil).Once()
	s.renderer.On("DocumentURL", s.ctx, "k").Return("u", nil).Once()

	report, err := s.service.GenerateReport(s.ctx, s.scope, domain.ReportMonthly, s.may.StartDate, s.may.EndDate, "user-1")

	require.NoError(s.T(), err)
	assert.True(s.T(), report.ReductionFromPreviousPeriod.IsZero())
	assert.True(s.T(), report.ReductionPercentage.IsZero())
}

func (s *ReportingServiceTestSuite) TestGenerateReport_NoPreviousPeriod() {
	s.expectUsage(s.may, &domain.CarbonUsage{TotalCarbonInKg: kg("0")})
	s.expectUsage(s.may.Previous(), nil)
	s.reportRepo.On("SaveReport", s.ctx, mock.AnythingOfType("domain.SustainabilityReport")).Return(nil).Once()
	s.renderer.On("RenderPDF", s.ctx, mock.Anything).Return("k", nil).Once()
	s.reportRepo.On("AttachDocumentKey", s.ctx, mock.Anything, "k").Return(nil).Once()
	s.renderer.On("DocumentURL", s.ctx, "k").Return("u", nil).Once()

	report, err := s.service.GenerateReport(s.ctx, s.scope, domain.ReportMonthly, s.may.StartDate, s.may.EndDate, "user-1")

	require.NoError(s.T(), err)
	assert.Nil(s.T(), report.ReductionFromPreviousPeriod)
	assert.Nil(s.T(), report.ReductionPercentage)
	assert.True(s.T(), report.OffsetPercentage.IsZero())
	assert.Empty(s.T(), report.Standards)
}

func (s *ReportingServiceTestSuite) TestGenerateReport_NoUsageData() {
	s.expectUsage(s.may, nil)

	report, err := s.service.GenerateReport(s.ctx, s.scope, domain.ReportMonthly, s.may.StartDate, s.may.EndDate, "user-1")

	assert.Nil(s.T(), report)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
	s.reportRepo.AssertNotCalled(s.T(), "SaveReport", mock.Anything, mock.Anything)
}

func (s *ReportingServiceTestSuite) TestGenerateReport_RenderFailureStillReturnsReport() {
	s.expectUsage(s.may, &domain.CarbonUsage{TotalCarbonInKg: kg("100")})
	s.expectUsage(s.may.Previous(), nil)
	s.reportRepo.On("SaveReport", s.ctx, mock.AnythingOfType("domain.SustainabilityReport")).Return(nil).Once()
	s.renderer.On("RenderPDF", s.ctx, mock.Anything).Return("", errors.New("bucket unavailable")).Once()

	report, err := s.service.GenerateReport(s.ctx, s.scope, domain.ReportMonthly, s.may.StartDate, s.may.EndDate, "user-1")

	require.NoError(s.T(), err)
	assert.Empty(s.T(), report.ReportURL)
	s.reportRepo.AssertNotCalled(s.T(), "AttachDocumentKey", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReportingServiceTestSuite) TestGenerateReport_ValidationErrors() {
	tests := []struct {
		name       string
		scope      domain.Scope
		reportType domain.ReportType
		start, end time.Time
	}{
		{name: "missing organization", reportType: domain.ReportMonthly, start: s.may.StartDate, end: s.may.EndDate},
		{name: "unknown type", scope: s.scope, reportType: "weekly", start: s.may.StartDate, end: s.may.EndDate},
		{name: "inverted period", scope: s.scope, reportType: domain.ReportCustom, start: s.may.EndDate, end: s.may.StartDate},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			report, err := s.service.GenerateReport(s.ctx, tt.scope, tt.reportType, tt.start, tt.end, "user-1")
			assert.Nil(s.T(), report)
			assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
		})
	}
}

func (s *ReportingServiceTestSuite) TestGetReport_NotFound() {
	s.reportRepo.On("FindReportByID", s.ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	report, err := s.service.GetReport(s.ctx, "missing")

	assert.Nil(s.T(), report)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func (s *ReportingServiceTestSuite) TestGetReport_SignsFreshURLOnRead() {
	stored := &domain.SustainabilityReport{ReportID: "r1", DocumentKey: "reports/org-1/2025-05/r1.pdf"}
	s.reportRepo.On("FindReportByID", s.ctx, "r1").Return(stored, nil).Once()
	s.renderer.On("DocumentURL", s.ctx, "reports/org-1/2025-05/r1.pdf").Return("https://reports.example.com/r1.pdf?sig=fresh", nil).Once()

	report, err := s.service.GetReport(s.ctx, "r1")

	require.NoError(s.T(), err)
	assert.Equal(s.T(), "https://reports.example.com/r1.pdf?sig=fresh", report.ReportURL)
}

func (s *ReportingServiceTestSuite) TestGetReports_SigningFailureLeavesURLEmpty() {
	filter := domain.ReportFilter{}
	s.reportRepo.On("ListReports", s.ctx, "org-1", filter, 5).Return([]domain.SustainabilityReport{
		{ReportID: "r1", DocumentKey: "k1"},
		{ReportID: "r2"},
		{ReportID: "r3", DocumentKey: "k3"},
	}, nil).Once()
	s.renderer.On("DocumentURL", s.ctx, "k1").Return("", apperrors.NewExternalError("report link signing failed", nil)).Once()
	s.renderer.On("DocumentURL", s.ctx, "k3").Return("https://reports.example.com/k3", nil).Once()

	reports, err := s.service.GetReports(s.ctx, "org-1", filter, 5)

	require.NoError(s.T(), err)
	require.Len(s.T(), reports, 3)
	assert.Empty(s.T(), reports[0].ReportURL)
	assert.Empty(s.T(), reports[1].ReportURL)
	assert.Equal(s.T(), "https://reports.example.com/k3", reports[2].ReportURL)
}

func (s *ReportingServiceTestSuite) TestGetReports_DefaultLimit() {
	filter := domain.ReportFilter{ReportType: domain.ReportAnnual}
	s.reportRepo.On("ListReports", s.ctx, "org-1", filter, 20).Return([]domain.SustainabilityReport{{ReportID: "r1"}}, nil).Once()

	reports, err := s.service.GetReports(s.ctx, "org-1", filter, 0)

	require.NoError(s.T(), err)
	assert.Len(s.T(), reports, 1)
}

func (s *ReportingServiceTestSuite) TestSetStandardCompliance_Upserts() {
	verified := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)

	first, err := s.service.SetStandardCompliance(s.ctx, "org-1", domain.StandardISO14064, false, nil, "user-1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.now, *first.LastVerificationDate)

	second, err := s.service.SetStandardCompliance(s.ctx, "org-1", domain.StandardISO14064, true, &domain.ComplianceDetails{
		VerificationBody: "Bureau Veritas",
		VerificationDate: &verified,
		Notes:            "annual audit",
	}, "user-2")
	require.NoError(s.T(), err)

	records, err := s.service.GetStandardsCompliance(s.ctx, "org-1", "")
	require.NoError(s.T(), err)
	require.Len(s.T(), records, 1)
	assert.Equal(s.T(), first.ComplianceID, second.ComplianceID)
	assert.Equal(s.T(), first.ComplianceID, records[0].ComplianceID)
	assert.True(s.T(), records[0].Compliant)
	assert.Equal(s.T(), "Bureau Veritas", records[0].VerificationBody)
	assert.Equal(s.T(), verified, *records[0].LastVerificationDate)
	assert.Equal(s.T(), "user-1", records[0].CreatedBy)
	assert.Equal(s.T(), "user-2", records[0].LastUpdatedBy)
}

func (s *ReportingServiceTestSuite) TestSetStandardCompliance_ConcurrentFirstInsertBecomesUpdate() {
	rivalCreated := s.now.Add(-time.Second)
	repo := &racingComplianceRepo{
		memoryComplianceRepo: newMemoryComplianceRepo(),
		rival: domain.StandardCompliance{
			ComplianceID:   "rival-1",
			OrganizationID: "org-1",
			Standard:       domain.StandardScienceBasedTargets,
			AuditFields:    domain.AuditFields{CreatedAt: rivalCreated, CreatedBy: "user-rival"},
		},
	}
	service := services.NewReportingService(s.reportRepo, repo, s.usage,
		services.WithReportingClock(fixedClock(s.now)),
	)

	record, err := service.SetStandardCompliance(s.ctx, "org-1", domain.StandardScienceBasedTargets, true, &domain.ComplianceDetails{
		VerificationBody: "Verifier Ltd",
	}, "user-1")

	require.NoError(s.T(), err)
	assert.Equal(s.T(), "rival-1", record.ComplianceID)
	assert.Equal(s.T(), "user-rival", record.CreatedBy)
	assert.Equal(s.T(), rivalCreated, record.CreatedAt)

	stored, err := repo.memoryComplianceRepo.FindCompliance(s.ctx, "org-1", domain.StandardScienceBasedTargets)
	require.NoError(s.T(), err)
	assert.True(s.T(), stored.Compliant)
	assert.Equal(s.T(), "Verifier Ltd", stored.VerificationBody)
	assert.Equal(s.T(), "user-1", stored.LastUpdatedBy)
}

func (s *ReportingServiceTestSuite) TestGetStandardsCompliance_SingleStandard() {
	_, err := s.service.SetStandardCompliance(s.ctx, "org-1", domain.StandardTCFD, true, nil, "user-1")
	require.NoError(s.T(), err)

	found, err := s.service.GetStandardsCompliance(s.ctx, "org-1", domain.StandardTCFD)
	require.NoError(s.T(), err)
	require.Len(s.T(), found, 1)
	assert.Equal(s.T(), domain.StandardTCFD, found[0].Standard)

	missing, err := s.service.GetStandardsCompliance(s.ctx, "org-1", domain.StandardPAS2060)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), missing)

	_, err = s.service.GetStandardsCompliance(s.ctx, "org-1", "iso_9001")
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func TestReportName(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	tests := []struct {
		name       string
		scope      domain.Scope
		reportType domain.ReportType
		period     domain.Period
		want       string
	}{
		{
			name:       "monthly organization",
			scope:      domain.Scope{OrganizationID: "o"},
			reportType: domain.ReportMonthly,
			period:     domain.MonthPeriod(day(2024, time.January, 1)),
			want:       "Organization Monthly Sustainability Report - January 2024",
		},
		{
			name:       "quarterly department",
			scope:      domain.Scope{OrganizationID: "o", DepartmentID: "d"},
			reportType: domain.ReportQuarterly,
			period:     domain.Period{StartDate: day(2025, time.April, 1), EndDate: day(2025, time.June, 30)},
			want:       "Department Q2 Sustainability Report - 2025",
		},
		{
			name:       "annual project",
			scope:      domain.Scope{OrganizationID: "o", DepartmentID: "d", ProjectID: "p"},
			reportType: domain.ReportAnnual,
			period:     domain.Period{StartDate: day(2024, time.January, 1), EndDate: day(2024, time.December, 31)},
			want:       "Project Annual Sustainability Report - 2024",
		},
		{
			name:       "custom range",
			scope:      domain.Scope{OrganizationID: "o"},
			reportType: domain.ReportCustom,
			period:     domain.Period{StartDate: day(2025, time.March, 3), EndDate: day(2025, time.March, 17)},
			want:       "Organization Sustainability Report - Mar 3, 2025 to Mar 17, 2025",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.ReportName(tt.scope, tt.reportType, tt.period))
		})
	}
}
