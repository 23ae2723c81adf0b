package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apptax "github.com/blindscommerce/backend/internal/application/tax"
	"github.com/blindscommerce/backend/internal/domain/tax"
	"github.com/blindscommerce/backend/internal/interfaces/http/dto"
	"github.com/blindscommerce/backend/internal/interfaces/http/middleware"
)

// TaxHandler serves the public tax endpoints used by checkout.
type TaxHandler struct {
	BaseHandler
	calculator *apptax.CalculatorService
}

// NewTaxHandler creates a new TaxHandler
func NewTaxHandler(calculator *apptax.CalculatorService) *TaxHandler {
	return &TaxHandler{calculator: calculator}
}

// Calculate handles POST /tax/calculate
func (h *TaxHandler) Calculate(c *gin.Context) {
	var req dto.CalculateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	items := make([]tax.LineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = tax.LineItem{
			ID:        item.ID,
			Quantity:  item.Quantity,
			UnitPrice: decimal.NewFromFloat(item.UnitPrice),
			TaxCode:   item.TaxCode,
		}
	}

	calc, err := h.calculator.CalculateTax(c.Request.Context(), apptax.CalculateRequest{
		Subtotal: decimal.NewFromFloat(*req.Subtotal),
		Shipping: decimal.NewFromFloat(req.Shipping),
		ZipCode:  req.ZipCode,
		Items:    items,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewCalculateTaxResponse(calc))
}

// GetRate handles GET /tax/rates/:zip
func (h *TaxHandler) GetRate(c *gin.Context) {
	zip := c.Param("zip")
	if zip == "" {
		h.BadRequest(c, "Postal code is required")
		return
	}

	rate := h.calculator.GetRateForZip(c.Request.Context(), zip)
	h.Success(c, dto.NewTaxRateResponse(rate))
}
