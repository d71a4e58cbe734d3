package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storemate/backend/internal/domain/returns"
	"github.com/storemate/backend/internal/domain/shared"
)

// GormDamagedProductRepository implements returns.DamagedProductRepository using GORM
type GormDamagedProductRepository struct {
	db *gorm.DB
}

// NewGormDamagedProductRepository creates a new GORM-based damaged product repository
func NewGormDamagedProductRepository(db *gorm.DB) *GormDamagedProductRepository {
	return &GormDamagedProductRepository{db: db}
}

// FindByID finds a damaged product record by its ID
func (r *GormDamagedProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.DamagedProduct, error) {
	var damaged returns.DamagedProduct
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&damaged).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &damaged, nil
}

// FindAll returns damaged product records matching the filter
func (r *GormDamagedProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]returns.DamagedProduct, error) {
	var damaged []returns.DamagedProduct
	query := r.db.WithContext(ctx).Model(&returns.DamagedProduct{})

	for key, value := range filter.Filters {
		switch key {
		case "damage_level":
			query = query.Where("damage_level = ?", value)
		case "disposition":
			query = query.Where("disposition = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		}
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, CommonSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&damaged).Error; err != nil {
		return nil, err
	}
	return damaged, nil
}

// Save persists a damaged product record
func (r *GormDamagedProductRepository) Save(ctx context.Context, damaged *returns.DamagedProduct) error {
	return r.db.WithContext(ctx).Save(damaged).Error
}

var _ returns.DamagedProductRepository = (*GormDamagedProductRepository)(nil)
