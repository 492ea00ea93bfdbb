package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportStandard is one element of the standards JSONB column.
type ReportStandard struct {
	Name      string `json:"name"`
	Compliant bool   `json:"compliant"`
	Details   string `json:"details"`
}

// SustainabilityReport represents a row of the sustainability_reports table.
type SustainabilityReport struct {
	ReportID string `json:"reportId"`
	Scope
	Name                        string              `json:"name"`
	ReportType                  string              `json:"reportType"`
	PeriodStart                 time.Time           `json:"periodStart"`
	PeriodEnd                   time.Time           `json:"periodEnd"`
	TotalCarbonInKg             decimal.Decimal     `json:"totalCarbonInKg"`
	OffsetCarbonInKg            decimal.Decimal     `json:"offsetCarbonInKg"`
	RemainingCarbonInKg         decimal.Decimal     `json:"remainingCarbonInKg"`
	OffsetPercentage            decimal.Decimal     `json:"offsetPercentage"`
	ReductionFromPreviousPeriod decimal.NullDecimal `json:"reductionFromPreviousPeriod"`
	ReductionPercentage         decimal.NullDecimal `json:"reductionPercentage"`
	Standards                   []ReportStandard    `json:"standards"` // JSONB
	GeneratedAt                 time.Time           `json:"generatedAt"`
	GeneratedBy                 string              `json:"generatedBy"`
	DocumentKey                 string              `json:"documentKey"`
}

// StandardCompliance represents a row of the standard_compliance table.
type StandardCompliance struct {
	ComplianceID         string     `json:"complianceId"`
	OrganizationID       string     `json:"organizationId"`
	Standard             string     `json:"standard"`
	Compliant            bool       `json:"compliant"`
	VerificationBody     string     `json:"verificationBody"`
	LastVerificationDate *time.Time `json:"lastVerificationDate"`
	NextVerificationDate *time.Time `json:"nextVerificationDate"`
	CertificateURL       string     `json:"certificateUrl"`
	Notes                string     `json:"notes"`
	AuditFields
}
