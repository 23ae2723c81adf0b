package router

import (
	"github.com/gin-gonic/gin"

	"github.com/blindscommerce/backend/internal/interfaces/http/handler"
)

// TaxRoutes registers the public tax endpoints.
type TaxRoutes struct {
	tax *handler.TaxHandler
}

func NewTaxRoutes(tax *handler.TaxHandler) *TaxRoutes {
	return &TaxRoutes{tax: tax}
}

func (r *TaxRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/tax")
	{
		group.POST("/calculate", r.tax.Calculate)
		group.GET("/rates/:zip", r.tax.GetRate)
	}
}

// AdminRoutes registers the admin tax and settings endpoints.
type AdminRoutes struct {
	rates    *handler.TaxRateAdminHandler
	settings *handler.SettingsHandler
}

func NewAdminRoutes(rates *handler.TaxRateAdminHandler, settings *handler.SettingsHandler) *AdminRoutes {
	return &AdminRoutes{rates: rates, settings: settings}
}

func (r *AdminRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	{
		admin.GET("/tax-rates", r.rates.List)
		admin.PUT("/tax-rates", r.rates.Upsert)
		admin.POST("/tax-rates/test-connection", r.rates.TestConnection)

		admin.GET("/settings/integrations", r.settings.GetIntegrations)
		admin.PUT("/settings/integrations", r.settings.UpdateIntegrations)
	}
}
