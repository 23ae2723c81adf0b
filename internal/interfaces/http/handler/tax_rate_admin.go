package handler

import (
	"github.com/gin-gonic/gin"

	apptax "github.com/blindscommerce/backend/internal/application/tax"
	"github.com/blindscommerce/backend/internal/domain/shared"
	"github.com/blindscommerce/backend/internal/interfaces/http/dto"
	"github.com/blindscommerce/backend/internal/interfaces/http/middleware"
)

// TaxRateAdminHandler serves the admin rate-table endpoints.
type TaxRateAdminHandler struct {
	BaseHandler
	admin *apptax.RateAdminService
}

// NewTaxRateAdminHandler creates a new TaxRateAdminHandler
func NewTaxRateAdminHandler(admin *apptax.RateAdminService) *TaxRateAdminHandler {
	return &TaxRateAdminHandler{admin: admin}
}

// List handles GET /admin/tax-rates
func (h *TaxRateAdminHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.OrderBy = req.OrderBy
	filter.OrderDir = req.OrderDir
	filter.Search = req.Search

	page := h.admin.ListRates(c.Request.Context(), filter)

	rates := make([]dto.TaxRateResponse, len(page.Items))
	for i, rate := range page.Items {
		rates[i] = dto.NewTaxRateResponse(rate)
	}
	h.SuccessWithMeta(c, rates, page.Total, page.Page, page.PageSize, page.TotalPages)
}

// Upsert handles PUT /admin/tax-rates
func (h *TaxRateAdminHandler) Upsert(c *gin.Context) {
	var req dto.UpsertTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	rate := req.ToDomain()
	updated, err := h.admin.UpsertRate(c.Request.Context(), rate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.UpsertTaxRateResponse{Updated: updated, ZipCode: rate.ZipCode})
}

// TestConnection handles POST /admin/tax-rates/test-connection
func (h *TaxRateAdminHandler) TestConnection(c *gin.Context) {
	status := h.admin.TestConnection(c.Request.Context())
	h.Success(c, dto.ConnectionStatusResponse{
		Success: status.Success,
		Message: status.Message,
	})
}
