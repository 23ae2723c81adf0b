package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apptax "github.com/blindscommerce/backend/internal/application/tax"
	"github.com/blindscommerce/backend/internal/domain/shared"
	"github.com/blindscommerce/backend/internal/domain/tax"
	"github.com/blindscommerce/backend/internal/interfaces/http/dto"
)

// fakeRateRepository serves rates from an in-memory map keyed by zip_code.
type fakeRateRepository struct {
	rates map[string]*tax.JurisdictionRate
}

func (f *fakeRateRepository) FindActiveByZip(_ context.Context, zipCode string) (*tax.JurisdictionRate, error) {
	if r, ok := f.rates[zipCode]; ok {
		return r, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRateRepository) FindStateDefault(_ context.Context, stateCode string) (*tax.JurisdictionRate, error) {
	for _, r := range f.rates {
		if r.StateCode == stateCode && r.IsStateWildcard() {
			return r, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRateRepository) FindNationalDefault(_ context.Context) (*tax.JurisdictionRate, error) {
	if r, ok := f.rates[tax.ZipNationalDefault]; ok {
		return r, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRateRepository) FindAll(_ context.Context, _ shared.Filter) ([]*tax.JurisdictionRate, error) {
	result := make([]*tax.JurisdictionRate, 0, len(f.rates))
	for _, r := range f.rates {
		result = append(result, r)
	}
	return result, nil
}

func (f *fakeRateRepository) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(f.rates)), nil
}

func (f *fakeRateRepository) Upsert(_ context.Context, rate *tax.JurisdictionRate) error {
	f.rates[rate.ZipCode] = rate
	return nil
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

func austinRate() *tax.JurisdictionRate {
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

func newTaxTestRouter(repo tax.RateRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	resolver := tax.NewRateResolver(repo, zap.NewNop())
	calculator := apptax.NewCalculatorService(resolver, staticProvider{}, nil, zap.NewNop())
	h := NewTaxHandler(calculator)

	engine := gin.New()
	engine.POST("/tax/calculate", h.Calculate)
	engine.GET("/tax/rates/:zip", h.GetRate)
	return engine
}

func TestTaxHandlerCalculate(t *testing.T) {
	repo := &fakeRateRepository{rates: map[string]*tax.JurisdictionRate{"78701": austinRate()}}
	engine := newTaxTestRouter(repo)

	body, _ := json.Marshal(gin.H{
		"subtotal": 100.0,
		"zip_code": "78701",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tax/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                     `json:"success"`
		Data    dto.CalculateTaxResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "8.25", resp.Data.TaxAmount)
	assert.Equal(t, "108.25", resp.Data.Total)
	assert.Equal(t, "Austin, TX", resp.Data.Jurisdiction)
	assert.Equal(t, "local", resp.Data.Source)
}

func TestTaxHandlerCalculateZeroSubtotal(t *testing.T) {
	repo := &fakeRateRepository{rates: map[string]*tax.JurisdictionRate{"78701": austinRate()}}
	engine := newTaxTestRouter(repo)

	// Zero is a valid subtotal and must not be confused with a missing field.
	body, _ := json.Marshal(gin.H{
		"subtotal": 0,
		"zip_code": "78701",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tax/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTaxHandlerCalculateValidation(t *testing.T) {
	engine := newTaxTestRouter(&fakeRateRepository{rates: map[string]*tax.JurisdictionRate{}})

	tests := []struct {
		name string
		body gin.H
		want int
	}{
		{"missing subtotal", gin.H{"zip_code": "78701"}, http.StatusBadRequest},
		{"missing zip", gin.H{"subtotal": 100.0}, http.StatusBadRequest},
		{"negative subtotal", gin.H{"subtotal": -5.0, "zip_code": "78701"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/tax/calculate", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestTaxHandlerCalculateFallsBackToDefault(t *testing.T) {
	engine := newTaxTestRouter(&fakeRateRepository{rates: map[string]*tax.JurisdictionRate{}})

	body, _ := json.Marshal(gin.H{
		"subtotal": 50.0,
		"zip_code": "00501",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tax/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data dto.CalculateTaxResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "4.00", resp.Data.TaxAmount)
	assert.Equal(t, "Default US Rate", resp.Data.Jurisdiction)
}

func TestTaxHandlerGetRate(t *testing.T) {
	repo := &fakeRateRepository{rates: map[string]*tax.JurisdictionRate{"78701": austinRate()}}
	engine := newTaxTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tax/rates/78701", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data dto.TaxRateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "78701", resp.Data.ZipCode)
	assert.Equal(t, "8.25", resp.Data.TotalRate)
}

func TestTaxHandlerGetRateUnknownZip(t *testing.T) {
	engine := newTaxTestRouter(&fakeRateRepository{rates: map[string]*tax.JurisdictionRate{}})

	// Unknown postal codes still resolve, via the hardcoded default.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tax/rates/00000-000", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data dto.TaxRateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "US", resp.Data.StateCode)
	assert.Equal(t, "8", resp.Data.TotalRate)
}
