package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportType is the cadence a sustainability report covers.
type ReportType string

const (
	ReportMonthly   ReportType = "monthly"
	ReportQuarterly ReportType = "quarterly"
	ReportAnnual    ReportType = "annual"
	ReportCustom    ReportType = "custom"
)

// IsValid checks that the report type is one of the known values.
func (t ReportType) IsValid() bool {
	switch t {
	case ReportMonthly, ReportQuarterly, ReportAnnual, ReportCustom:
		return true
	}
	return false
}

// AccountingStandard is a named carbon-accounting standard.
type AccountingStandard string

const (
	StandardGHGProtocol         AccountingStandard = "ghg_protocol"
	StandardISO14064            AccountingStandard = "iso_14064"
	StandardPAS2060             AccountingStandard = "pas_2060"
	StandardTCFD                AccountingStandard = "tcfd"
	StandardCDP                 AccountingStandard = "cdp"
	StandardScienceBasedTargets AccountingStandard = "science_based_targets"
)

// AllStandards lists the supported standards.
var AllStandards = []AccountingStandard{
	StandardGHGProtocol,
	StandardISO14064,
	StandardPAS2060,
	StandardTCFD,
	StandardCDP,
	StandardScienceBasedTargets,
}

// IsValid checks that the standard is one of the known values.
func (s AccountingStandard) IsValid() bool {
	for _, known := range AllStandards {
		if s == known {
			return true
		}
	}
	return false
}

// ReportStandard is the compliance rollup line embedded in a report.
type ReportStandard struct {
	Name      AccountingStandard `json:"name"`
	Compliant bool               `json:"compliant"`
	Details   string             `json:"details"`
}

// SustainabilityReport is an immutable snapshot of a scope's footprint for a period.
type SustainabilityReport struct {
	ReportID string `json:"reportId"`
	Scope
	Name                        string           `json:"name"`
	ReportType                  ReportType       `json:"reportType"`
	Period                      Period           `json:"period"`
	TotalCarbonInKg             decimal.Decimal  `json:"totalCarbonInKg"`
	OffsetCarbonInKg            decimal.Decimal  `json:"offsetCarbonInKg"`
	RemainingCarbonInKg         decimal.Decimal  `json:"remainingCarbonInKg"`
	OffsetPercentage            decimal.Decimal  `json:"offsetPercentage"`
	ReductionFromPreviousPeriod *decimal.Decimal `json:"reductionFromPreviousPeriod,omitempty"`
	ReductionPercentage         *decimal.Decimal `json:"reductionPercentage,omitempty"`
	Standards                   []ReportStandard `json:"standards"`
	GeneratedAt                 time.Time        `json:"generatedAt"`
	GeneratedBy                 string           `json:"generatedBy"`
	// DocumentKey locates the rendered PDF in object storage.
	DocumentKey string `json:"-"`
	// ReportURL is a presigned download link, filled in when the report is read.
	ReportURL string `json:"reportUrl,omitempty"`
}

// ReportFilter narrows a report listing. Empty fields are ignored.
type ReportFilter struct {
	DepartmentID string
	ProjectID    string
	ReportType   ReportType
}

// StandardCompliance records an organization's adherence to one standard.
type StandardCompliance struct {
	ComplianceID         string             `json:"complianceId"`
	OrganizationID       string             `json:"organizationId"`
	Standard             AccountingStandard `json:"standard"`
	Compliant            bool               `json:"compliant"`
	VerificationBody     string             `json:"verificationBody,omitempty"`
	LastVerificationDate *time.Time         `json:"lastVerificationDate,omitempty"`
	NextVerificationDate *time.Time         `json:"nextVerificationDate,omitempty"`
	CertificateURL       string             `json:"certificateUrl,omitempty"`
	Notes                string             `json:"notes,omitempty"`
	AuditFields
}

// ComplianceDetails are the optional verification fields of a compliance update.
type ComplianceDetails struct {
	VerificationBody     string
	VerificationDate     *time.Time
	NextVerificationDate *time.Time
	CertificateURL       string
	Notes                string
}
