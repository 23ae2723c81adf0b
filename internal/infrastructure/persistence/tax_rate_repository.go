package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/blindscommerce/backend/internal/domain/shared"
	"github.com/blindscommerce/backend/internal/domain/tax"
	"github.com/blindscommerce/backend/internal/infrastructure/persistence/models"
)

// TaxRateSortFields contains allowed sort fields for tax rates
var TaxRateSortFields = map[string]bool{
	"zip_code":   true,
	"city":       true,
	"state_code": true,
	"total_rate": true,
	"created_at": true,
	"updated_at": true,
}

// GormTaxRateRepository implements tax.RateRepository using GORM
type GormTaxRateRepository struct {
	db *gorm.DB
}

// NewGormTaxRateRepository creates a new GormTaxRateRepository
func NewGormTaxRateRepository(db *gorm.DB) *GormTaxRateRepository {
	return &GormTaxRateRepository{db: db}
}

// FindActiveByZip finds the active rate with an exact zip_code match
func (r *GormTaxRateRepository) FindActiveByZip(ctx context.Context, zipCode string) (*tax.JurisdictionRate, error) {
	var model models.TaxRateModel
	err := r.db.WithContext(ctx).
		Where("zip_code = ? AND is_active = ?", zipCode, true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindStateDefault finds the active state-wildcard record for a state
func (r *GormTaxRateRepository) FindStateDefault(ctx context.Context, stateCode string) (*tax.JurisdictionRate, error) {
	var model models.TaxRateModel
	err := r.db.WithContext(ctx).
		Where("state_code = ? AND zip_code = ? AND is_active = ?", stateCode, tax.ZipStateWildcard, true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindNationalDefault finds the active national-average record
func (r *GormTaxRateRepository) FindNationalDefault(ctx context.Context) (*tax.JurisdictionRate, error) {
	var model models.TaxRateModel
	err := r.db.WithContext(ctx).
		Where("zip_code = ? AND is_active = ?", tax.ZipNationalDefault, true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll retrieves active rates matching the filter, ordered by state, city,
// then postal code unless the filter asks otherwise.
func (r *GormTaxRateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*tax.JurisdictionRate, error) {
	var rateModels []models.TaxRateModel

	query := r.db.WithContext(ctx).Model(&models.TaxRateModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&rateModels).Error; err != nil {
		return nil, err
	}

	rates := make([]*tax.JurisdictionRate, len(rateModels))
	for i := range rateModels {
		rates[i] = rateModels[i].ToDomain()
	}
	return rates, nil
}

// Count counts active rates matching the filter
func (r *GormTaxRateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.TaxRateModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Upsert inserts the rate or overwrites the existing record for the same
// postal code. The conflict target is the unique index on (zip_code,
// state_code), which lets the "00000" state wildcards coexist while a real
// zip still maps to exactly one row.
func (r *GormTaxRateRepository) Upsert(ctx context.Context, rate *tax.JurisdictionRate) error {
	model := models.TaxRateModelFromDomain(rate)
	model.UpdatedAt = time.Now()

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "zip_code"}, {Name: "state_code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"city", "county", "state_name",
				"state_rate", "county_rate", "city_rate", "special_district_rate",
				"total_rate", "jurisdiction", "is_active", "effective_date",
				"updated_at",
			}),
		}).
		Create(model).Error
}

// applyFilter applies filter options to the query
func (r *GormTaxRateRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, TaxRateSortFields, "")
		if sortField != "" {
			return query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))
		}
	}
	return query.Order("state_code ASC, city ASC, zip_code ASC")
}

// applyFilterWithoutPagination applies search and the active constraint.
// Listing always excludes inactive rates.
func (r *GormTaxRateRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = query.Where("is_active = ?", true)

	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("zip_code ILIKE ? OR city ILIKE ? OR state_name ILIKE ?", search, search, search)
	}

	return query
}

// Ensure GormTaxRateRepository implements tax.RateRepository
var _ tax.RateRepository = (*GormTaxRateRepository)(nil)
