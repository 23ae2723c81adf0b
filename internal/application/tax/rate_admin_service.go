package tax

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blindscommerce/backend/internal/domain/shared"
	"github.com/blindscommerce/backend/internal/domain/tax"
)

// RateAdminService backs the admin rate-table surface: listing, upserting,
// and probing the external provider.
type RateAdminService struct {
	rates    tax.RateRepository
	external tax.ExternalCalculator
	logger   *zap.Logger
}

func NewRateAdminService(rates tax.RateRepository, external tax.ExternalCalculator, logger *zap.Logger) *RateAdminService {
	return &RateAdminService{rates: rates, external: external, logger: logger}
}

// ListRates returns a page of active rates. Listing is a dashboard read, so
// repository failures are logged and surface as an empty page rather than an
// error.
func (s *RateAdminService) ListRates(ctx context.Context, filter shared.Filter) shared.Paginated[*tax.JurisdictionRate] {
	items, err := s.rates.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list tax rates", zap.Error(err))
		return shared.NewPaginated([]*tax.JurisdictionRate{}, 0, filter.Page, filter.PageSize)
	}
	total, err := s.rates.Count(ctx, filter)
	if err != nil {
		s.logger.Error("failed to count tax rates", zap.Error(err))
		return shared.NewPaginated([]*tax.JurisdictionRate{}, 0, filter.Page, filter.PageSize)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize)
}

// UpsertRate writes a rate keyed on its postal code, creating or overwriting
// as needed. The boolean reports whether the write took effect.
func (s *RateAdminService) UpsertRate(ctx context.Context, rate *tax.JurisdictionRate) (bool, error) {
	if err := rate.Validate(); err != nil {
		return false, err
	}
	if rate.ID == uuid.Nil {
		rate.BaseEntity = shared.NewBaseEntity()
	}
	rate.IsActive = true

	if err := s.rates.Upsert(ctx, rate); err != nil {
		s.logger.Error("failed to upsert tax rate",
			zap.String("zip_code", rate.ZipCode),
			zap.Error(err))
		return false, nil
	}
	return true, nil
}

// TestConnection probes the configured external provider.
func (s *RateAdminService) TestConnection(ctx context.Context) tax.ConnectionStatus {
	if s.external == nil {
		return tax.ConnectionStatus{Success: false, Message: "External tax provider is not configured"}
	}
	return s.external.TestConnection(ctx)
}
