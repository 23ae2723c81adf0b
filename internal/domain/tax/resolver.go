package tax

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/blindscommerce/backend/internal/domain/shared"
)

// maxZipLength bounds normalized postal codes, enough for ZIP+4 ("12345-6789").
const maxZipLength = 10

// NormalizeZip strips everything but digits and hyphens from a postal code
// and truncates the result to ten characters. It never fails; garbage input
// simply yields a code no record will match.
func NormalizeZip(raw string) string {
	var b strings.Builder
	for _, c := range raw {
		if (c >= '0' && c <= '9') || c == '-' {
			b.WriteRune(c)
		}
	}
	cleaned := b.String()
	if len(cleaned) > maxZipLength {
		cleaned = cleaned[:maxZipLength]
	}
	return cleaned
}

// RateResolver finds the best available jurisdiction rate for a postal code.
// Resolution never fails: repository errors are logged and treated as misses,
// and the hardcoded national rate backstops everything.
type RateResolver struct {
	rates  RateRepository
	logger *zap.Logger
}

func NewRateResolver(rates RateRepository, logger *zap.Logger) *RateResolver {
	return &RateResolver{rates: rates, logger: logger}
}

// Resolve walks the cascade: exact match, five-digit prefix, state wildcard,
// national record, hardcoded default.
func (r *RateResolver) Resolve(ctx context.Context, rawZip string) *JurisdictionRate {
	zip := NormalizeZip(rawZip)

	if rate := r.lookup(ctx, "exact", zip, func() (*JurisdictionRate, error) {
		return r.rates.FindActiveByZip(ctx, zip)
	}); rate != nil {
		return rate
	}

	if len(zip) > 5 {
		zip5 := zip[:5]
		if rate := r.lookup(ctx, "zip5", zip5, func() (*JurisdictionRate, error) {
			return r.rates.FindActiveByZip(ctx, zip5)
		}); rate != nil {
			return rate
		}
	}

	if state := StateForZip(zip); state != "" {
		if rate := r.lookup(ctx, "state", state, func() (*JurisdictionRate, error) {
			return r.rates.FindStateDefault(ctx, state)
		}); rate != nil {
			return rate
		}
	}

	if rate := r.lookup(ctx, "national", ZipNationalDefault, func() (*JurisdictionRate, error) {
		return r.rates.FindNationalDefault(ctx)
	}); rate != nil {
		return rate
	}

	r.logger.Warn("no tax rate record matched, using hardcoded default",
		zap.String("zip_code", rawZip))
	return DefaultRate(rawZip)
}

// lookup runs one cascade tier. A not-found result is a silent miss; any
// other error is logged and also treated as a miss so resolution continues.
func (r *RateResolver) lookup(ctx context.Context, tier, key string, find func() (*JurisdictionRate, error)) *JurisdictionRate {
	rate, err := find()
	if err != nil {
		if !isNotFound(err) {
			r.logger.Warn("tax rate lookup failed",
				zap.String("tier", tier),
				zap.String("key", key),
				zap.Error(err))
		}
		return nil
	}
	return rate
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
