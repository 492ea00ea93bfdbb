package dto

import (
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GenerateReportRequest defines the body for generating a report.
type GenerateReportRequest struct {
	ScopeRequest
	ReportType string    `json:"reportType" binding:"required,oneof=monthly quarterly annual custom"`
	StartDate  time.Time `json:"startDate" binding:"required"`
	EndDate    time.Time `json:"endDate" binding:"required"`
}

// ListReportsQuery binds report listing filters from the query string.
type ListReportsQuery struct {
	OrganizationID string `form:"organizationId" binding:"required"`
	DepartmentID   string `form:"departmentId"`
	ProjectID      string `form:"projectId"`
	ReportType     string `form:"reportType" binding:"omitempty,oneof=monthly quarterly annual custom"`
	Limit          int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ToFilter converts the query to a domain.ReportFilter.
func (q ListReportsQuery) ToFilter() domain.ReportFilter {
	return domain.ReportFilter{
		DepartmentID: q.DepartmentID,
		ProjectID:    q.ProjectID,
		ReportType:   domain.ReportType(q.ReportType),
	}
}

// ReportResponse defines the API shape of a sustainability report.
type ReportResponse struct {
	ReportID                    string                  `json:"reportId"`
	OrganizationID              string                  `json:"organizationId"`
	DepartmentID                string                  `json:"departmentId,omitempty"`
	ProjectID                   string                  `json:"projectId,omitempty"`
	Name                        string                  `json:"name"`
	ReportType                  domain.ReportType       `json:"reportType"`
	StartDate                   time.Time               `json:"startDate"`
	EndDate                     time.Time               `json:"endDate"`
	TotalCarbonInKg             decimal.Decimal         `json:"totalCarbonInKg"`
	OffsetCarbonInKg            decimal.Decimal         `json:"offsetCarbonInKg"`
	RemainingCarbonInKg         decimal.Decimal         `json:"remainingCarbonInKg"`
	OffsetPercentage            decimal.Decimal         `json:"offsetPercentage"`
	ReductionFromPreviousPeriod *decimal.Decimal        `json:"reductionFromPreviousPeriod,omitempty"`
	ReductionPercentage         *decimal.Decimal        `json:"reductionPercentage,omitempty"`
	Standards                   []domain.ReportStandard `json:"standards"`
	GeneratedAt                 time.Time               `json:"generatedAt"`
	ReportURL                   string                  `json:"reportUrl,omitempty"`
}

// ToReportResponse converts a domain.SustainabilityReport to ReportResponse
func ToReportResponse(r *domain.SustainabilityReport) ReportResponse {
	resp := ReportResponse{
		ReportID:            r.ReportID,
		OrganizationID:      r.OrganizationID,
		DepartmentID:        r.DepartmentID,
		ProjectID:           r.ProjectID,
		Name:                r.Name,
		ReportType:          r.ReportType,
		StartDate:           r.Period.StartDate,
		EndDate:             r.Period.EndDate,
		TotalCarbonInKg:     r.TotalCarbonInKg,
		OffsetCarbonInKg:    r.OffsetCarbonInKg,
		RemainingCarbonInKg: r.RemainingCarbonInKg,
		OffsetPercentage:    r.OffsetPercentage.Round(2),
		Standards:           r.Standards,
		GeneratedAt:         r.GeneratedAt,
		ReportURL:           r.ReportURL,
	}
	if r.ReductionFromPreviousPeriod != nil {
		v := *r.ReductionFromPreviousPeriod
		resp.ReductionFromPreviousPeriod = &v
	}
	if r.ReductionPercentage != nil {
		v := r.ReductionPercentage.Round(2)
		resp.ReductionPercentage = &v
	}
	if resp.Standards == nil {
		resp.Standards = []domain.ReportStandard{}
	}
	return resp
}

// ToListReportResponse converts a slice of reports.
func ToListReportResponse(reports []domain.SustainabilityReport) []ReportResponse {
	responses := make([]ReportResponse, len(reports))
	for i := range reports {
		responses[i] = ToReportResponse(&reports[i])
	}
	return responses
}

// SetComplianceRequest defines the body for upserting a standard compliance record.
type SetComplianceRequest struct {
	OrganizationID       string     `json:"organizationId" binding:"required"`
	Compliant            bool       `json:"compliant"`
	VerificationBody     string     `json:"verificationBody,omitempty" binding:"max=255"`
	VerificationDate     *time.Time `json:"verificationDate,omitempty"`
	NextVerificationDate *time.Time `json:"nextVerificationDate,omitempty"`
	CertificateURL       string     `json:"certificateUrl,omitempty" binding:"omitempty,url"`
	Notes                string     `json:"notes,omitempty" binding:"max=2000"`
}

// ToDetails converts the request to domain.ComplianceDetails.
func (r SetComplianceRequest) ToDetails() *domain.ComplianceDetails {
	return &domain.ComplianceDetails{
		VerificationBody:     r.VerificationBody,
		VerificationDate:     r.VerificationDate,
		NextVerificationDate: r.NextVerificationDate,
		CertificateURL:       r.CertificateURL,
		Notes:                r.Notes,
	}
}
