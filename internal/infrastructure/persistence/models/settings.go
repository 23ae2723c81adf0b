package models

import (
	"github.com/blindscommerce/backend/internal/domain/settings"
)

// SettingModel is the persistence model for platform settings.
type SettingModel struct {
	BaseModel
	Category string `gorm:"type:varchar(50);not null;uniqueIndex:idx_settings_category_key"`
	Key      string `gorm:"type:varchar(100);not null;uniqueIndex:idx_settings_category_key"`
	Value    string `gorm:"type:text;not null"`
}

// TableName overrides the table name
func (SettingModel) TableName() string {
	return "settings"
}

// ToDomain converts the persistence model to a domain entity
func (m *SettingModel) ToDomain() *settings.Setting {
	return &settings.Setting{
		BaseEntity: m.BaseModel.ToDomain(),
		Category:   m.Category,
		Key:        m.Key,
		Value:      m.Value,
	}
}

// SettingModelFromDomain converts a domain entity to the persistence model
func SettingModelFromDomain(s *settings.Setting) *SettingModel {
	m := &SettingModel{
		Category: s.Category,
		Key:      s.Key,
		Value:    s.Value,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}
