package carbon

import "github.com/shopspring/decimal"

// EPA greenhouse gas equivalency factors, in kg CO2e per unit.
var (
	kgPerMileDriven       = decimal.RequireFromString("0.192")
	kgPerSmartphoneCharge = decimal.RequireFromString("0.00822")
	kgPerTreeSeedling     = decimal.RequireFromString("60")
	kgPerHomeDay          = decimal.RequireFromString("18.3")
)

// Equivalency expresses a carbon mass in everyday terms.
type Equivalency struct {
	Label string
	Value decimal.Decimal
}

// Equivalencies converts kg CO2e to the EPA comparison units shown in reports.
// Non-positive input yields no equivalencies.
func Equivalencies(carbonInKg decimal.Decimal) []Equivalency {
	if !carbonInKg.IsPositive() {
		return nil
	}
	return []Equivalency{
		{Label: "miles driven by an average passenger vehicle", Value: carbonInKg.Div(kgPerMileDriven).Round(0)},
		{Label: "smartphones charged", Value: carbonInKg.Div(kgPerSmartphoneCharge).Round(0)},
		{Label: "tree seedlings grown for 10 years", Value: carbonInKg.Div(kgPerTreeSeedling).Round(1)},
		{Label: "days of average home energy use", Value: carbonInKg.Div(kgPerHomeDay).Round(1)},
	}
}
