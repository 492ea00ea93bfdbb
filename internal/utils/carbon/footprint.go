// Package carbon holds the emission factor table and the pure footprint math
// shared by services and repositories.
package carbon

import (
	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Emission factors in kg CO2e per unit.
var (
	FactorInvoice   = decimal.RequireFromString("0.2")   // per invoice
	FactorEmail     = decimal.RequireFromString("0.004") // per email
	FactorStorageGB = decimal.RequireFromString("0.05")  // per GB stored
	FactorAPICall   = decimal.RequireFromString("0.002") // per API call
)

// Emission source names used in breakdowns and time series.
const (
	SourceInvoices = "Invoices"
	SourceEmails   = "Emails"
	SourceStorage  = "Storage"
	SourceAPICalls = "API Calls"
	SourceCustom   = "Custom"
)

// Sources is the fixed display order of emission sources.
var Sources = []string{SourceInvoices, SourceEmails, SourceStorage, SourceAPICalls, SourceCustom}

var hundred = decimal.NewFromInt(100)

// CalculateFootprint returns the total kg CO2e for the given metrics.
// Custom usage carbon values are trusted as supplied.
func CalculateFootprint(m domain.UsageMetrics) decimal.Decimal {
	total := decimal.Zero
	for _, v := range SourceBreakdown(m) {
		total = total.Add(v)
	}
	return total
}

// SourceBreakdown returns kg CO2e per emission source.
func SourceBreakdown(m domain.UsageMetrics) map[string]decimal.Decimal {
	custom := decimal.Zero
	for _, cu := range m.CustomUsage {
		custom = custom.Add(cu.CarbonInKg)
	}
	return map[string]decimal.Decimal{
		SourceInvoices: decimal.NewFromInt(m.InvoiceCount).Mul(FactorInvoice),
		SourceEmails:   decimal.NewFromInt(m.EmailCount).Mul(FactorEmail),
		SourceStorage:  m.StorageGB.Mul(FactorStorageGB),
		SourceAPICalls: decimal.NewFromInt(m.APICallCount).Mul(FactorAPICall),
		SourceCustom:   custom,
	}
}

// Percentage returns part/whole*100, or zero when whole is zero.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// PercentageChange returns (current-previous)/previous*100, or zero when previous is zero.
func PercentageChange(current, previous decimal.Decimal) decimal.Decimal {
	return Percentage(current.Sub(previous), previous)
}

// ValidateMetrics reports whether every metric is non-negative.
func ValidateMetrics(m domain.UsageMetrics) bool {
	if m.InvoiceCount < 0 || m.EmailCount < 0 || m.APICallCount < 0 || m.StorageGB.IsNegative() {
		return false
	}
	for _, cu := range m.CustomUsage {
		if cu.CarbonInKg.IsNegative() || cu.Amount.IsNegative() {
			return false
		}
	}
	return true
}
