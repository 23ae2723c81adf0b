package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/blindscommerce/backend/internal/domain/tax"
)

// TaxRateModel is the persistence model for jurisdiction tax rates. State
// wildcards share zip_code "00000" (one per state) and the national average
// uses "99999", so uniqueness spans zip_code plus state_code.
type TaxRateModel struct {
	BaseModel
	ZipCode             string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_tax_rates_zip_state"`
	City                string          `gorm:"type:varchar(100)"`
	County              string          `gorm:"type:varchar(100)"`
	StateCode           string          `gorm:"type:varchar(2);not null;uniqueIndex:idx_tax_rates_zip_state;index"`
	StateName           string          `gorm:"type:varchar(50)"`
	StateRate           decimal.Decimal `gorm:"type:numeric(8,4);not null"`
	CountyRate          decimal.Decimal `gorm:"type:numeric(8,4);not null"`
	CityRate            decimal.Decimal `gorm:"type:numeric(8,4);not null"`
	SpecialDistrictRate decimal.Decimal `gorm:"type:numeric(8,4);not null"`
	TotalRate           decimal.Decimal `gorm:"type:numeric(8,4);not null"`
	Jurisdiction        string          `gorm:"type:varchar(200)"`
	IsActive            bool            `gorm:"not null;default:true;index"`
	EffectiveDate       *time.Time
}

// TableName overrides the table name
func (TaxRateModel) TableName() string {
	return "tax_rates"
}

// ToDomain converts the persistence model to a domain entity
func (m *TaxRateModel) ToDomain() *tax.JurisdictionRate {
	return &tax.JurisdictionRate{
		BaseEntity:          m.BaseModel.ToDomain(),
		ZipCode:             m.ZipCode,
		City:                m.City,
		County:              m.County,
		StateCode:           m.StateCode,
		StateName:           m.StateName,
		StateRate:           m.StateRate,
		CountyRate:          m.CountyRate,
		CityRate:            m.CityRate,
		SpecialDistrictRate: m.SpecialDistrictRate,
		TotalRate:           m.TotalRate,
		Jurisdiction:        m.Jurisdiction,
		IsActive:            m.IsActive,
		EffectiveDate:       m.EffectiveDate,
	}
}

// TaxRateModelFromDomain converts a domain entity to the persistence model
func TaxRateModelFromDomain(r *tax.JurisdictionRate) *TaxRateModel {
	m := &TaxRateModel{
		ZipCode:             r.ZipCode,
		City:                r.City,
		County:              r.County,
		StateCode:           r.StateCode,
		StateName:           r.StateName,
		StateRate:           r.StateRate,
		CountyRate:          r.CountyRate,
		CityRate:            r.CityRate,
		SpecialDistrictRate: r.SpecialDistrictRate,
		TotalRate:           r.TotalRate,
		Jurisdiction:        r.Jurisdiction,
		IsActive:            r.IsActive,
		EffectiveDate:       r.EffectiveDate,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}
