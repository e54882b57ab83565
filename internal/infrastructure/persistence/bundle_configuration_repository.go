package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/bundle"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormConfigurationRepository implements bundle.ConfigurationRepository using GORM
type GormConfigurationRepository struct {
	db *gorm.DB
}

// NewGormConfigurationRepository creates a new GormConfigurationRepository
func NewGormConfigurationRepository(db *gorm.DB) *GormConfigurationRepository {
	return &GormConfigurationRepository{db: db}
}

// FindByID finds a bundle configuration by its ID
func (r *GormConfigurationRepository) FindByID(ctx context.Context, id uuid.UUID) (*bundle.BundleConfiguration, error) {
	var cfg bundle.BundleConfiguration
	if err := r.db.WithContext(ctx).First(&cfg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// FindByProductID finds the configuration attached to a storefront product
func (r *GormConfigurationRepository) FindByProductID(ctx context.Context, productID uuid.UUID) (*bundle.BundleConfiguration, error) {
	var cfg bundle.BundleConfiguration
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// FindAll finds all bundle configurations matching the filter
func (r *GormConfigurationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]bundle.BundleConfiguration, error) {
	var cfgs []bundle.BundleConfiguration
	query := r.applyFilter(r.db.WithContext(ctx).Model(&bundle.BundleConfiguration{}), filter)

	if err := query.Find(&cfgs).Error; err != nil {
		return nil, err
	}
	return cfgs, nil
}

// Save writes the whole configuration record. Slots are stored as a single
// jsonb document, so concurrent saves resolve as last write wins.
func (r *GormConfigurationRepository) Save(ctx context.Context, cfg *bundle.BundleConfiguration) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

// Delete deletes a bundle configuration
func (r *GormConfigurationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&bundle.BundleConfiguration{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts bundle configurations matching the filter
func (r *GormConfigurationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&bundle.BundleConfiguration{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormConfigurationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, BundleSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormConfigurationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "enabled":
			query = query.Where("enabled = ?", value)
		}
	}

	return query
}

// Ensure GormConfigurationRepository implements ConfigurationRepository
var _ bundle.ConfigurationRepository = (*GormConfigurationRepository)(nil)
