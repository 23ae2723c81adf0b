package dto

import "github.com/blindscommerce/backend/internal/domain/settings"

// SettingResponse is one stored setting.
type SettingResponse struct {
	Category string `json:"category"`
	Key      string `json:"key"`
	Value    string `json:"value"`
}

// NewSettingResponse converts a domain setting to its DTO.
func NewSettingResponse(s *settings.Setting) SettingResponse {
	return SettingResponse{
		Category: s.Category,
		Key:      s.Key,
		Value:    s.Value,
	}
}

// UpdateSettingsRequest is the body of PUT /admin/settings/integrations.
// Keys not present are left unchanged.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required,min=1"`
}
