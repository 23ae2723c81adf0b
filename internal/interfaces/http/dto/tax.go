package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/blindscommerce/backend/internal/domain/tax"
)

// CalculateTaxRequest is the body of POST /tax/calculate. Subtotal is a
// pointer so that a missing field is distinguishable from zero.
type CalculateTaxRequest struct {
	Subtotal *float64           `json:"subtotal" binding:"required"`
	Shipping float64            `json:"shipping" binding:"omitempty,min=0"`
	ZipCode  string             `json:"zip_code" binding:"required,max=20"`
	Items    []CalculateTaxItem `json:"items" binding:"omitempty,dive"`
}

// CalculateTaxItem is one order line in a calculation request.
type CalculateTaxItem struct {
	ID        string  `json:"id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	UnitPrice float64 `json:"unit_price" binding:"min=0"`
	TaxCode   string  `json:"tax_code"`
}

// TaxBreakdownResponse itemizes tax by jurisdiction level. Currency values
// are strings with two decimal places.
type TaxBreakdownResponse struct {
	StateTax           string `json:"state_tax"`
	CountyTax          string `json:"county_tax"`
	CityTax            string `json:"city_tax"`
	SpecialDistrictTax string `json:"special_district_tax"`
}

// CalculateTaxResponse is the result of a tax calculation.
type CalculateTaxResponse struct {
	Subtotal     string               `json:"subtotal"`
	TaxRate      string               `json:"tax_rate"`
	TaxAmount    string               `json:"tax_amount"`
	Total        string               `json:"total"`
	Breakdown    TaxBreakdownResponse `json:"breakdown"`
	Jurisdiction string               `json:"jurisdiction"`
	ZipCode      string               `json:"zip_code"`
	Source       string               `json:"source"`
}

// NewCalculateTaxResponse converts a domain calculation to its DTO.
func NewCalculateTaxResponse(calc *tax.Calculation) CalculateTaxResponse {
	return CalculateTaxResponse{
		Subtotal:     calc.Subtotal.StringFixed(2),
		TaxRate:      calc.TaxRate.String(),
		TaxAmount:    calc.TaxAmount.StringFixed(2),
		Total:        calc.Subtotal.Add(calc.TaxAmount).StringFixed(2),
		Breakdown: TaxBreakdownResponse{
			StateTax:           calc.Breakdown.StateTax.StringFixed(2),
			CountyTax:          calc.Breakdown.CountyTax.StringFixed(2),
			CityTax:            calc.Breakdown.CityTax.StringFixed(2),
			SpecialDistrictTax: calc.Breakdown.SpecialDistrictTax.StringFixed(2),
		},
		Jurisdiction: calc.Jurisdiction,
		ZipCode:      calc.ZipCode,
		Source:       string(calc.Source),
	}
}

// TaxRateResponse is one jurisdiction rate record.
type TaxRateResponse struct {
	ID                  string     `json:"id,omitempty"`
	ZipCode             string     `json:"zip_code"`
	City                string     `json:"city"`
	County              string     `json:"county"`
	StateCode           string     `json:"state_code"`
	StateName           string     `json:"state_name"`
	StateRate           string     `json:"state_rate"`
	CountyRate          string     `json:"county_rate"`
	CityRate            string     `json:"city_rate"`
	SpecialDistrictRate string     `json:"special_district_rate"`
	TotalRate           string     `json:"total_rate"`
	Jurisdiction        string     `json:"jurisdiction"`
	IsActive            bool       `json:"is_active"`
	EffectiveDate       *time.Time `json:"effective_date,omitempty"`
}

// NewTaxRateResponse converts a domain rate to its DTO.
func NewTaxRateResponse(r *tax.JurisdictionRate) TaxRateResponse {
	resp := TaxRateResponse{
		ZipCode:             r.ZipCode,
		City:                r.City,
		County:              r.County,
		StateCode:           r.StateCode,
		StateName:           r.StateName,
		StateRate:           r.StateRate.String(),
		CountyRate:          r.CountyRate.String(),
		CityRate:            r.CityRate.String(),
		SpecialDistrictRate: r.SpecialDistrictRate.String(),
		TotalRate:           r.TotalRate.String(),
		Jurisdiction:        r.Jurisdiction,
		IsActive:            r.IsActive,
		EffectiveDate:       r.EffectiveDate,
	}
	if r.ID != uuid.Nil {
		resp.ID = r.ID.String()
	}
	return resp
}

// UpsertTaxRateRequest is the body of PUT /admin/tax-rates.
type UpsertTaxRateRequest struct {
	ZipCode             string     `json:"zip_code" binding:"required,max=10"`
	City                string     `json:"city" binding:"max=100"`
	County              string     `json:"county" binding:"max=100"`
	StateCode           string     `json:"state_code" binding:"required,len=2"`
	StateName           string     `json:"state_name" binding:"max=50"`
	StateRate           float64    `json:"state_rate" binding:"min=0"`
	CountyRate          float64    `json:"county_rate" binding:"min=0"`
	CityRate            float64    `json:"city_rate" binding:"min=0"`
	SpecialDistrictRate float64    `json:"special_district_rate" binding:"min=0"`
	TotalRate           *float64   `json:"total_rate"`
	Jurisdiction        string     `json:"jurisdiction" binding:"max=200"`
	EffectiveDate       *time.Time `json:"effective_date"`
}

// ToDomain converts the request to a domain rate. When total_rate is omitted
// it is derived from the components.
func (r *UpsertTaxRateRequest) ToDomain() *tax.JurisdictionRate {
	rate := &tax.JurisdictionRate{
		ZipCode:             r.ZipCode,
		City:                r.City,
		County:              r.County,
		StateCode:           r.StateCode,
		StateName:           r.StateName,
		StateRate:           decimal.NewFromFloat(r.StateRate),
		CountyRate:          decimal.NewFromFloat(r.CountyRate),
		CityRate:            decimal.NewFromFloat(r.CityRate),
		SpecialDistrictRate: decimal.NewFromFloat(r.SpecialDistrictRate),
		Jurisdiction:        r.Jurisdiction,
		EffectiveDate:       r.EffectiveDate,
		IsActive:            true,
	}
	if r.TotalRate != nil {
		rate.TotalRate = decimal.NewFromFloat(*r.TotalRate)
	} else {
		rate.TotalRate = rate.ComponentSum()
	}
	return rate
}

// UpsertTaxRateResponse reports whether the write took effect.
type UpsertTaxRateResponse struct {
	Updated bool   `json:"updated"`
	ZipCode string `json:"zip_code"`
}

// ConnectionStatusResponse is the result of an external provider probe.
type ConnectionStatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
