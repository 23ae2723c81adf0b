package taxjar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domainsettings "github.com/blindscommerce/backend/internal/domain/settings"
	"github.com/blindscommerce/backend/internal/domain/tax"
)

// defaultProductTaxCode is TaxJar's general tangible goods code, used for
// line items that don't specify their own.
const defaultProductTaxCode = "A_GEN_TAX"

// connectionTestZip is a known-good Los Angeles ZIP used to probe the API.
const connectionTestZip = "90002"

// Origin describes the warehouse address reported on every calculation.
type Origin struct {
	Country string
	Zip     string
	State   string
}

// DefaultOrigin is the Austin fulfillment center.
var DefaultOrigin = Origin{Country: "US", Zip: "78701", State: "TX"}

// Adapter implements tax.ExternalCalculator against the TaxJar API. The API
// key and environment are read from runtime settings on each call, so
// operators can rotate credentials without a restart.
type Adapter struct {
	settings domainsettings.Provider
	client   *client
	origin   Origin
	timeout  time.Duration
	logger   *zap.Logger

	// baseURL overrides the environment-derived host when set. Used in tests.
	baseURL string
}

// NewAdapter creates a TaxJar adapter.
func NewAdapter(provider domainsettings.Provider, origin Origin, timeout time.Duration, logger *zap.Logger) *Adapter {
	if origin == (Origin{}) {
		origin = DefaultOrigin
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	// The timeout is applied per request via Config so it rides along with
	// the other runtime-assembled settings.
	return &Adapter{
		settings: provider,
		client:   newClient(&http.Client{}),
		origin:   origin,
		timeout:  timeout,
		logger:   logger,
	}
}

// config assembles the current configuration from runtime settings.
func (a *Adapter) config(ctx context.Context) (*Config, error) {
	cfg := &Config{
		APIKey: a.settings.String(ctx, domainsettings.CategoryIntegrations, domainsettings.KeyTaxJarAPIKey, ""),
		Environment: a.settings.String(ctx, domainsettings.CategoryIntegrations,
			domainsettings.KeyTaxJarEnvironment, EnvironmentProduction),
		Timeout: a.timeout,
		baseURL: a.baseURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ComputeTax asks TaxJar for the tax on an order.
func (a *Adapter) ComputeTax(ctx context.Context, subtotal, shipping decimal.Decimal, zipCode string, items []tax.LineItem) (*tax.Calculation, error) {
	cfg, err := a.config(ctx)
	if err != nil {
		return nil, err
	}

	zip := tax.NormalizeZip(zipCode)
	req := taxesRequest{
		FromCountry: a.origin.Country,
		FromZip:     a.origin.Zip,
		FromState:   a.origin.State,
		ToCountry:   "US",
		ToZip:       zip,
		ToState:     tax.StateForZip(zip),
		Amount:      subtotal.InexactFloat64(),
		Shipping:    shipping.InexactFloat64(),
	}
	for _, item := range items {
		taxCode := item.TaxCode
		if taxCode == "" {
			taxCode = defaultProductTaxCode
		}
		req.LineItems = append(req.LineItems, taxesLineItem{
			ID:             item.ID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice.InexactFloat64(),
			ProductTaxCode: taxCode,
		})
	}

	var resp TaxesResponse
	if err := a.client.post(ctx, cfg, "/v2/taxes", req, &resp); err != nil {
		return nil, err
	}

	calc := &tax.Calculation{
		Subtotal:  tax.RoundCurrency(subtotal),
		TaxRate:   fractionToPercent(decimal.NewFromFloat(resp.Tax.Rate)),
		TaxAmount: tax.RoundCurrency(decimal.NewFromFloat(resp.Tax.AmountToCollect)),
		ZipCode:   zipCode,
		Source:    tax.SourceExternal,
	}
	if b := resp.Tax.Breakdown; b != nil {
		calc.Breakdown = tax.Breakdown{
			StateTax:           tax.RoundCurrency(decimal.NewFromFloat(b.StateTaxCollectable)),
			CountyTax:          tax.RoundCurrency(decimal.NewFromFloat(b.CountyTaxCollectable)),
			CityTax:            tax.RoundCurrency(decimal.NewFromFloat(b.CityTaxCollectable)),
			SpecialDistrictTax: tax.RoundCurrency(decimal.NewFromFloat(b.SpecialDistrictTaxCollectable)),
		}
	}
	if j := resp.Tax.Jurisdictions; j != nil {
		calc.Jurisdiction = jurisdictionLabel(j.City, j.State)
	}
	return calc, nil
}

// FetchRate retrieves the jurisdiction rate TaxJar has on file for a postal
// code, converted to the percent convention used by the local table.
func (a *Adapter) FetchRate(ctx context.Context, zipCode string) (*tax.JurisdictionRate, error) {
	cfg, err := a.config(ctx)
	if err != nil {
		return nil, err
	}

	zip := tax.NormalizeZip(zipCode)
	var resp RateResponse
	if err := a.client.get(ctx, cfg, "/v2/rates/"+url.PathEscape(zip), &resp); err != nil {
		return nil, err
	}

	rate := &tax.JurisdictionRate{
		ZipCode:             resp.Rate.Zip,
		City:                resp.Rate.City,
		County:              resp.Rate.County,
		StateCode:           resp.Rate.State,
		StateRate:           parseFraction(resp.Rate.StateRate),
		CountyRate:          parseFraction(resp.Rate.CountyRate),
		CityRate:            parseFraction(resp.Rate.CityRate),
		SpecialDistrictRate: parseFraction(resp.Rate.CombinedDistrictRate),
		TotalRate:           parseFraction(resp.Rate.CombinedRate),
		Jurisdiction:        jurisdictionLabel(resp.Rate.City, resp.Rate.State),
		IsActive:            true,
	}
	return rate, nil
}

// TestConnection probes the API with a reference lookup and reports the
// outcome for the admin diagnostics panel.
func (a *Adapter) TestConnection(ctx context.Context) tax.ConnectionStatus {
	cfg, err := a.config(ctx)
	if err != nil {
		return tax.ConnectionStatus{Success: false, Message: err.Error()}
	}

	rate, err := a.FetchRate(ctx, connectionTestZip)
	if err != nil {
		a.logger.Warn("taxjar connection test failed", zap.Error(err))
		return tax.ConnectionStatus{Success: false, Message: err.Error()}
	}

	return tax.ConnectionStatus{
		Success: true,
		Message: fmt.Sprintf("Connected to TaxJar (%s): rate for %s is %s%%",
			cfg.Environment, connectionTestZip, rate.TotalRate.String()),
	}
}

// parseFraction converts a string-encoded rate fraction ("0.0625") to a
// percentage (6.25). Unparseable values become zero.
func parseFraction(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return fractionToPercent(d)
}

func fractionToPercent(d decimal.Decimal) decimal.Decimal {
	return d.Mul(decimal.NewFromInt(100))
}

func jurisdictionLabel(city, state string) string {
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case state != "":
		return state
	default:
		return ""
	}
}

// Ensure Adapter implements tax.ExternalCalculator
var _ tax.ExternalCalculator = (*Adapter)(nil)
