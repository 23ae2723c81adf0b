package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/blindscommerce/backend/internal/domain/settings"
	"github.com/blindscommerce/backend/internal/domain/shared"
	"github.com/blindscommerce/backend/internal/infrastructure/persistence/models"
)

// GormSettingRepository implements settings.Repository using GORM
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// Find returns the setting for a category/key pair
func (r *GormSettingRepository) Find(ctx context.Context, category, key string) (*settings.Setting, error) {
	var model models.SettingModel
	err := r.db.WithContext(ctx).
		Where("category = ? AND key = ?", category, key).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCategory returns all settings in a category ordered by key
func (r *GormSettingRepository) FindByCategory(ctx context.Context, category string) ([]*settings.Setting, error) {
	var settingModels []models.SettingModel
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("key ASC").
		Find(&settingModels).Error
	if err != nil {
		return nil, err
	}

	result := make([]*settings.Setting, len(settingModels))
	for i := range settingModels {
		result[i] = settingModels[i].ToDomain()
	}
	return result, nil
}

// Upsert inserts the setting or overwrites the value for an existing
// category/key pair.
func (r *GormSettingRepository) Upsert(ctx context.Context, setting *settings.Setting) error {
	if setting.ID == uuid.Nil {
		setting.BaseEntity = shared.NewBaseEntity()
	}
	model := models.SettingModelFromDomain(setting)
	model.UpdatedAt = time.Now()

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(model).Error
}

// Ensure GormSettingRepository implements settings.Repository
var _ settings.Repository = (*GormSettingRepository)(nil)
