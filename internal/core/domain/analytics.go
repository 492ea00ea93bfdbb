package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyFootprint is one calendar-month bucket of a footprint summary.
type MonthlyFootprint struct {
	Month            string          `json:"month"` // YYYY-MM
	CarbonInKg       decimal.Decimal `json:"carbonInKg"`
	OffsetCarbonInKg decimal.Decimal `json:"offsetCarbonInKg"`
}

// FootprintSummary aggregates the trailing twelve months of usage for a scope.
type FootprintSummary struct {
	TotalCarbonInKg      decimal.Decimal    `json:"totalCarbonInKg"`
	OffsetCarbonInKg     decimal.Decimal    `json:"offsetCarbonInKg"`
	RemainingCarbonInKg  decimal.Decimal    `json:"remainingCarbonInKg"`
	OffsetPercentage     decimal.Decimal    `json:"offsetPercentage"`
	TotalOffsetPurchases int64              `json:"totalOffsetPurchases"`
	MonthlyTrend         []MonthlyFootprint `json:"monthlyTrend"`
}

// EmissionsPoint is one day of an emissions time series.
type EmissionsPoint struct {
	Date      time.Time                  `json:"date"`
	Emissions decimal.Decimal            `json:"emissions"`
	Offsets   decimal.Decimal            `json:"offsets"`
	Sources   map[string]decimal.Decimal `json:"sources"`
}

// EmissionsBreakdownItem is the share of one emission source.
type EmissionsBreakdownItem struct {
	Source     string          `json:"source"`
	Emissions  decimal.Decimal `json:"emissions"`
	Percentage decimal.Decimal `json:"percentage"`
}

// EmissionsTrend compares a range against the same range one window earlier.
type EmissionsTrend struct {
	Period           string          `json:"period"`
	Current          decimal.Decimal `json:"current"`
	Previous         decimal.Decimal `json:"previous"`
	Change           decimal.Decimal `json:"change"`
	PercentageChange decimal.Decimal `json:"percentageChange"`
}
