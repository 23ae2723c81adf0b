package tax

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/blindscommerce/backend/internal/domain/shared"
)

// Reserved postal-code sentinels in the rate table.
const (
	// ZipStateWildcard marks a state-level default record, matched when no
	// ZIP-specific record exists for a resolvable state.
	ZipStateWildcard = "00000"
	// ZipNationalDefault marks the pre-seeded US-average record, the last
	// database-backed tier of the resolution cascade.
	ZipNationalDefault = "99999"
)

// componentTolerance is the allowed drift between the stored total rate and
// the sum of its four components. Rates are entered by operators; a stored
// total off by more than this is rejected rather than trusted.
var componentTolerance = decimal.NewFromFloat(0.001)

// JurisdictionRate describes the tax rates for a geographic area. Rate
// components are percentages (6.25 means 6.25%).
type JurisdictionRate struct {
	shared.BaseEntity
	ZipCode             string
	City                string
	County              string
	StateCode           string
	StateName           string
	StateRate           decimal.Decimal
	CountyRate          decimal.Decimal
	CityRate            decimal.Decimal
	SpecialDistrictRate decimal.Decimal
	TotalRate           decimal.Decimal
	Jurisdiction        string
	IsActive            bool
	EffectiveDate       *time.Time
}

// ComponentSum returns the sum of the four rate components.
func (r *JurisdictionRate) ComponentSum() decimal.Decimal {
	return r.StateRate.
		Add(r.CountyRate).
		Add(r.CityRate).
		Add(r.SpecialDistrictRate)
}

// IsStateWildcard reports whether this record is a state-level default.
func (r *JurisdictionRate) IsStateWildcard() bool {
	return r.ZipCode == ZipStateWildcard
}

// Validate checks the record before it is persisted or trusted for
// calculation. The stored total must match the component sum; the table is
// not guaranteed to enforce this at write time.
func (r *JurisdictionRate) Validate() error {
	if r.ZipCode == "" {
		return shared.NewDomainError("RATE_ZIP_REQUIRED", "Postal code is required")
	}
	if len(r.ZipCode) > 10 {
		return shared.NewDomainError("RATE_ZIP_TOO_LONG", "Postal code must be at most 10 characters")
	}
	if r.StateCode == "" {
		return shared.NewDomainError("RATE_STATE_REQUIRED", "State code is required")
	}
	for _, component := range []decimal.Decimal{r.StateRate, r.CountyRate, r.CityRate, r.SpecialDistrictRate, r.TotalRate} {
		if component.IsNegative() {
			return shared.NewDomainError("RATE_NEGATIVE", "Rate components cannot be negative")
		}
	}
	if r.TotalRate.Sub(r.ComponentSum()).Abs().GreaterThan(componentTolerance) {
		return shared.NewDomainError("RATE_TOTAL_MISMATCH", "Total rate does not equal the sum of its components")
	}
	return nil
}

// DefaultRate returns the hardcoded national fallback used when no database
// record matches (or the database is unreachable). The given postal code is
// carried through so callers can see what was asked for.
func DefaultRate(zipCode string) *JurisdictionRate {
	return &JurisdictionRate{
		ZipCode:             zipCode,
		City:                "Unknown",
		County:              "Unknown",
		StateCode:           "US",
		StateName:           "United States",
		StateRate:           decimal.NewFromFloat(6.0),
		CountyRate:          decimal.NewFromFloat(2.0),
		CityRate:            decimal.Zero,
		SpecialDistrictRate: decimal.Zero,
		TotalRate:           decimal.NewFromFloat(8.0),
		Jurisdiction:        "Default US Rate",
		IsActive:            true,
	}
}
