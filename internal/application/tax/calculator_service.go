// Package tax implements the tax determination use cases: calculating tax for
// a checkout and administering the jurisdiction rate table.
package tax

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/blindscommerce/backend/internal/domain/settings"
	"github.com/blindscommerce/backend/internal/domain/shared"
	"github.com/blindscommerce/backend/internal/domain/tax"
)

// CalculateRequest carries everything needed to determine tax for an order.
type CalculateRequest struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	ZipCode  string
	Items    []tax.LineItem
}

// CalculatorService determines tax for checkouts. The external provider is
// optional; when it is absent, disabled, or failing, the local rate table
// answers instead. Calculation never fails for a valid request.
type CalculatorService struct {
	resolver *tax.RateResolver
	settings settings.Provider
	external tax.ExternalCalculator
	logger   *zap.Logger
}

func NewCalculatorService(
	resolver *tax.RateResolver,
	provider settings.Provider,
	external tax.ExternalCalculator,
	logger *zap.Logger,
) *CalculatorService {
	return &CalculatorService{
		resolver: resolver,
		settings: provider,
		external: external,
		logger:   logger,
	}
}

// CalculateTax validates the request, then tries each source in order until
// one produces a result. The local table cannot fail, so a valid request
// always gets an answer.
func (s *CalculatorService) CalculateTax(ctx context.Context, req CalculateRequest) (*tax.Calculation, error) {
	if req.Subtotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Subtotal cannot be negative")
	}

	if calc := s.attemptExternal(ctx, req); calc != nil {
		return calc, nil
	}
	if calc := s.attemptLocal(ctx, req); calc != nil {
		return calc, nil
	}

	// Unreachable unless the resolver itself panicked; answer anyway.
	calc := tax.Calculate(req.Subtotal, tax.DefaultRate(req.ZipCode))
	return calc, nil
}

// attemptExternal consults the runtime flag, then the provider. Any failure
// is logged and absorbed so checkout is never blocked on a third party.
func (s *CalculatorService) attemptExternal(ctx context.Context, req CalculateRequest) *tax.Calculation {
	if s.external == nil {
		return nil
	}
	if !s.settings.Bool(ctx, settings.CategoryIntegrations, settings.KeyUseTaxJarAPI, false) {
		return nil
	}

	calc, err := s.external.ComputeTax(ctx, req.Subtotal, req.Shipping, req.ZipCode, req.Items)
	if err != nil {
		s.logger.Warn("external tax calculation failed, falling back to local rates",
			zap.String("zip_code", req.ZipCode),
			zap.Error(err))
		return nil
	}
	return calc
}

func (s *CalculatorService) attemptLocal(ctx context.Context, req CalculateRequest) (calc *tax.Calculation) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("local tax calculation panicked",
				zap.String("zip_code", req.ZipCode),
				zap.Any("panic", r))
			calc = nil
		}
	}()
	rate := s.resolver.Resolve(ctx, req.ZipCode)
	return tax.Calculate(req.Subtotal, rate)
}

// GetRateForZip resolves the jurisdiction rate for a postal code without
// computing any amounts. Backs the public rate lookup endpoint.
func (s *CalculatorService) GetRateForZip(ctx context.Context, zipCode string) *tax.JurisdictionRate {
	return s.resolver.Resolve(ctx, zipCode)
}
