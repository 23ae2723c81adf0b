package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apptax "github.com/blindscommerce/backend/internal/application/tax"
	"github.com/blindscommerce/backend/internal/domain/tax"
	"github.com/blindscommerce/backend/internal/interfaces/http/dto"
)

func newAdminTestRouter(repo tax.RateRepository, external tax.ExternalCalculator) *gin.Engine {
	gin.SetMode(gin.TestMode)

	admin := apptax.NewRateAdminService(repo, external, zap.NewNop())
	h := NewTaxRateAdminHandler(admin)

	engine := gin.New()
	engine.GET("/admin/tax-rates", h.List)
	engine.PUT("/admin/tax-rates", h.Upsert)
	engine.POST("/admin/tax-rates/test-connection", h.TestConnection)
	return engine
}

func TestTaxRateAdminList(t *testing.T) {
	repo := &fakeRateRepository{rates: map[string]*tax.JurisdictionRate{"78701": austinRate()}}
	engine := newAdminTestRouter(repo, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/tax-rates?page=1&page_size=20", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                  `json:"success"`
		Data    []dto.TaxRateResponse `json:"data"`
		Meta    *dto.Meta             `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "78701", resp.Data[0].ZipCode)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestTaxRateAdminListRejectsBadPageSize(t *testing.T) {
	engine := newAdminTestRouter(&fakeRateRepository{rates: map[string]*tax.JurisdictionRate{}}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/tax-rates?page_size=5000", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaxRateAdminUpsert(t *testing.T) {
	repo := &fakeRateRepository{rates: map[string]*tax.JurisdictionRate{}}
	engine := newAdminTestRouter(repo, nil)

	body, _ := json.Marshal(gin.H{
		"zip_code":              "98101",
		"city":                  "Seattle",
		"county":                "King",
		"state_code":            "WA",
		"state_name":            "Washington",
		"state_rate":            6.5,
		"city_rate":             3.75,
		"county_rate":           0,
		"special_district_rate": 0,
		"jurisdiction":          "Seattle, WA",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/tax-rates", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data dto.UpsertTaxRateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Updated)
	assert.Equal(t, "98101", resp.Data.ZipCode)

	// Total rate was derived from the components.
	stored := repo.rates["98101"]
	require.NotNil(t, stored)
	assert.Equal(t, "10.25", stored.TotalRate.StringFixed(2))
}

func TestTaxRateAdminUpsertRejectsMismatchedTotal(t *testing.T) {
	engine := newAdminTestRouter(&fakeRateRepository{rates: map[string]*tax.JurisdictionRate{}}, nil)

	body, _ := json.Marshal(gin.H{
		"zip_code":   "98101",
		"state_code": "WA",
		"state_rate": 6.5,
		"total_rate": 99.0,
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/tax-rates", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaxRateAdminTestConnectionUnconfigured(t *testing.T) {
	engine := newAdminTestRouter(&fakeRateRepository{rates: map[string]*tax.JurisdictionRate{}}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/tax-rates/test-connection", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data dto.ConnectionStatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Success)
	assert.Contains(t, resp.Data.Message, "not configured")
}
