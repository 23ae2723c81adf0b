package tax

import (
	"context"

	"github.com/blindscommerce/backend/internal/domain/shared"
)

// RateRepository is the persistence port for jurisdiction rates.
type RateRepository interface {
	// FindActiveByZip returns the active rate whose zip_code equals the
	// given code exactly, or shared.ErrNotFound.
	FindActiveByZip(ctx context.Context, zipCode string) (*JurisdictionRate, error)
	// FindStateDefault returns the active state-wildcard record for a
	// state, or shared.ErrNotFound.
	FindStateDefault(ctx context.Context, stateCode string) (*JurisdictionRate, error)
	// FindNationalDefault returns the active national-average record, or
	// shared.ErrNotFound.
	FindNationalDefault(ctx context.Context) (*JurisdictionRate, error)
	// FindAll returns active rates matching the filter's search and
	// pagination, ordered by state, city, then postal code.
	FindAll(ctx context.Context, filter shared.Filter) ([]*JurisdictionRate, error)
	// Count returns the number of active rates matching the filter's search.
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Upsert inserts the rate or, when a record with the same zip_code
	// already exists, overwrites that record's fields.
	Upsert(ctx context.Context, rate *JurisdictionRate) error
}
