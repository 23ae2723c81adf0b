package tax

import "github.com/shopspring/decimal"

// Breakdown itemizes a tax amount by jurisdiction level. Amounts are
// currency values rounded to two decimal places.
type Breakdown struct {
	StateTax           decimal.Decimal
	CountyTax          decimal.Decimal
	CityTax            decimal.Decimal
	SpecialDistrictTax decimal.Decimal
}

// Calculation is the result of applying a jurisdiction rate to a subtotal.
type Calculation struct {
	Subtotal     decimal.Decimal
	TaxRate      decimal.Decimal
	TaxAmount    decimal.Decimal
	Breakdown    Breakdown
	Jurisdiction string
	ZipCode      string
	Source       Source
}

// Source identifies where a calculation's rates came from.
type Source string

const (
	SourceLocal    Source = "local"
	SourceExternal Source = "taxjar"
)

// RoundCurrency rounds a monetary amount to two decimal places, half away
// from zero.
func RoundCurrency(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// Calculate applies a resolved rate to a subtotal. The headline tax amount
// comes from the total rate, not from summing the rounded components, so the
// two can disagree by a cent; the total is authoritative.
func Calculate(subtotal decimal.Decimal, rate *JurisdictionRate) *Calculation {
	percent := decimal.NewFromInt(100)
	component := func(r decimal.Decimal) decimal.Decimal {
		return RoundCurrency(subtotal.Mul(r).Div(percent))
	}
	return &Calculation{
		Subtotal:  RoundCurrency(subtotal),
		TaxRate:   rate.TotalRate,
		TaxAmount: component(rate.TotalRate),
		Breakdown: Breakdown{
			StateTax:           component(rate.StateRate),
			CountyTax:          component(rate.CountyRate),
			CityTax:            component(rate.CityRate),
			SpecialDistrictTax: component(rate.SpecialDistrictRate),
		},
		Jurisdiction: rate.Jurisdiction,
		ZipCode:      rate.ZipCode,
		Source:       SourceLocal,
	}
}
