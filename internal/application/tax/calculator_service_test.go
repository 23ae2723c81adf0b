package tax

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/blindscommerce/backend/internal/domain/settings"
	"github.com/blindscommerce/backend/internal/domain/shared"
	"github.com/blindscommerce/backend/internal/domain/tax"
)

type mockRateRepository struct {
	mock.Mock
}

func (m *mockRateRepository) FindActiveByZip(ctx context.Context, zipCode string) (*tax.JurisdictionRate, error) {
	args := m.Called(ctx, zipCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tax.JurisdictionRate), args.Error(1)
}

func (m *mockRateRepository) FindStateDefault(ctx context.Context, stateCode string) (*tax.JurisdictionRate, error) {
	args := m.Called(ctx, stateCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tax.JurisdictionRate), args.Error(1)
}

func (m *mockRateRepository) FindNationalDefault(ctx context.Context) (*tax.JurisdictionRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tax.JurisdictionRate), args.Error(1)
}

func (m *mockRateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*tax.JurisdictionRate, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tax.JurisdictionRate), args.Error(1)
}

func (m *mockRateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRateRepository) Upsert(ctx context.Context, rate *tax.JurisdictionRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

type mockExternalCalculator struct {
	mock.Mock
}

func (m *mockExternalCalculator) ComputeTax(ctx context.Context, subtotal, shipping decimal.Decimal, zipCode string, items []tax.LineItem) (*tax.Calculation, error) {
	args := m.Called(ctx, subtotal, shipping, zipCode, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tax.Calculation), args.Error(1)
}

func (m *mockExternalCalculator) TestConnection(ctx context.Context) tax.ConnectionStatus {
	args := m.Called(ctx)
	return args.Get(0).(tax.ConnectionStatus)
}

// staticProvider serves settings from a fixed map, keyed category/key.
type staticProvider map[string]string

func (p staticProvider) String(_ context.Context, category, key, fallback string) string {
	if v, ok := p[category+"/"+key]; ok {
		return v
	}
	return fallback
}

func (p staticProvider) Bool(_ context.Context, category, key string, fallback bool) bool {
	if v, ok := p[category+"/"+key]; ok {
		return v == "true"
	}
	return fallback
}

func texasRate() *tax.JurisdictionRate {
	r := &tax.JurisdictionRate{
		ZipCode:             "78701",
		City:                "Austin",
		County:              "Travis",
		StateCode:           "TX",
		StateName:           "Texas",
		StateRate:           decimal.NewFromFloat(6.25),
		CityRate:            decimal.NewFromFloat(1.0),
		SpecialDistrictRate: decimal.NewFromFloat(1.0),
		Jurisdiction:        "Austin, TX",
		IsActive:            true,
	}
	r.TotalRate = r.ComponentSum()
	return r
}

func newCalculator(repo *mockRateRepository, provider settings.Provider, external tax.ExternalCalculator) *CalculatorService {
	resolver := tax.NewRateResolver(repo, zap.NewNop())
	return NewCalculatorService(resolver, provider, external, zap.NewNop())
}

func TestCalculateTaxLocal(t *testing.T) {
	repo := new(mockRateRepository)
	repo.On("FindActiveByZip", mock.Anything, "78701").Return(texasRate(), nil)

	svc := newCalculator(repo, staticProvider{}, nil)
	calc, err := svc.CalculateTax(context.Background(), CalculateRequest{
		Subtotal: decimal.NewFromFloat(100),
		ZipCode:  "78701",
	})

	assert.NoError(t, err)
	assert.Equal(t, "8.25", calc.TaxAmount.StringFixed(2))
	assert.Equal(t, tax.SourceLocal, calc.Source)
}

func TestCalculateTaxRejectsNegativeSubtotal(t *testing.T) {
	svc := newCalculator(new(mockRateRepository), staticProvider{}, nil)

	_, err := svc.CalculateTax(context.Background(), CalculateRequest{
		Subtotal: decimal.NewFromFloat(-1),
		ZipCode:  "78701",
	})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestCalculateTaxUsesExternalWhenEnabled(t *testing.T) {
	external := new(mockExternalCalculator)
	external.On("ComputeTax", mock.Anything, mock.Anything, mock.Anything, "90002", mock.Anything).
		Return(&tax.Calculation{
			TaxAmount: decimal.NewFromFloat(9.50),
			Source:    tax.SourceExternal,
		}, nil)

	repo := new(mockRateRepository)
	provider := staticProvider{"integrations/use_taxjar_api": "true"}

	svc := newCalculator(repo, provider, external)
	calc, err := svc.CalculateTax(context.Background(), CalculateRequest{
		Subtotal: decimal.NewFromFloat(100),
		ZipCode:  "90002",
	})

	assert.NoError(t, err)
	assert.Equal(t, tax.SourceExternal, calc.Source)
	repo.AssertNotCalled(t, "FindActiveByZip", mock.Anything, mock.Anything)
}

func TestCalculateTaxSkipsExternalWhenDisabled(t *testing.T) {
	external := new(mockExternalCalculator)
	repo := new(mockRateRepository)
	repo.On("FindActiveByZip", mock.Anything, "78701").Return(texasRate(), nil)

	svc := newCalculator(repo, staticProvider{"integrations/use_taxjar_api": "false"}, external)
	calc, err := svc.CalculateTax(context.Background(), CalculateRequest{
		Subtotal: decimal.NewFromFloat(100),
		ZipCode:  "78701",
	})

	assert.NoError(t, err)
	assert.Equal(t, tax.SourceLocal, calc.Source)
	external.AssertNotCalled(t, "ComputeTax", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCalculateTaxFallsBackWhenExternalFails(t *testing.T) {
	external := new(mockExternalCalculator)
	external.On("ComputeTax", mock.Anything, mock.Anything, mock.Anything, "78701", mock.Anything).
		Return(nil, assert.AnError)

	repo := new(mockRateRepository)
	repo.On("FindActiveByZip", mock.Anything, "78701").Return(texasRate(), nil)

	svc := newCalculator(repo, staticProvider{"integrations/use_taxjar_api": "true"}, external)
	calc, err := svc.CalculateTax(context.Background(), CalculateRequest{
		Subtotal: decimal.NewFromFloat(100),
		ZipCode:  "78701",
	})

	assert.NoError(t, err)
	assert.Equal(t, tax.SourceLocal, calc.Source)
	assert.Equal(t, "8.25", calc.TaxAmount.StringFixed(2))
}

func TestCalculateTaxSurvivesTotalDatabaseOutage(t *testing.T) {
	repo := new(mockRateRepository)
	repo.On("FindActiveByZip", mock.Anything, mock.Anything).Return(nil, assert.AnError)
	repo.On("FindStateDefault", mock.Anything, mock.Anything).Return(nil, assert.AnError)
	repo.On("FindNationalDefault", mock.Anything).Return(nil, assert.AnError)

	svc := newCalculator(repo, staticProvider{}, nil)
	calc, err := svc.CalculateTax(context.Background(), CalculateRequest{
		Subtotal: decimal.NewFromFloat(100),
		ZipCode:  "78701",
	})

	assert.NoError(t, err)
	assert.Equal(t, "8.00", calc.TaxAmount.StringFixed(2))
	assert.Equal(t, "Default US Rate", calc.Jurisdiction)
}
