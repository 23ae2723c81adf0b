package handler

import (
	"github.com/gin-gonic/gin"

	appsettings "github.com/blindscommerce/backend/internal/application/settings"
	"github.com/blindscommerce/backend/internal/domain/settings"
	"github.com/blindscommerce/backend/internal/interfaces/http/dto"
	"github.com/blindscommerce/backend/internal/interfaces/http/middleware"
)

// SettingsHandler serves the admin integration-settings endpoints.
type SettingsHandler struct {
	BaseHandler
	settings *appsettings.Service
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(service *appsettings.Service) *SettingsHandler {
	return &SettingsHandler{settings: service}
}

// GetIntegrations handles GET /admin/settings/integrations
func (h *SettingsHandler) GetIntegrations(c *gin.Context) {
	stored, err := h.settings.Category(c.Request.Context(), settings.CategoryIntegrations)
	if err != nil {
		h.InternalError(c, "Failed to load settings")
		return
	}

	result := make([]dto.SettingResponse, len(stored))
	for i, s := range stored {
		result[i] = dto.NewSettingResponse(s)
	}
	h.Success(c, result)
}

// UpdateIntegrations handles PUT /admin/settings/integrations
func (h *SettingsHandler) UpdateIntegrations(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	for key, value := range req.Settings {
		setting := &settings.Setting{
			Category: settings.CategoryIntegrations,
			Key:      key,
			Value:    value,
		}
		if err := h.settings.Put(c.Request.Context(), setting); err != nil {
			h.HandleError(c, err)
			return
		}
	}

	h.Success(c, gin.H{"updated": len(req.Settings)})
}
