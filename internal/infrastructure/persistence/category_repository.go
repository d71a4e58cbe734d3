package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storemate/backend/internal/domain/catalog"
	"github.com/storemate/backend/internal/domain/shared"
)

// GormCategoryRepository implements catalog.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GORM-based category repository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindByName finds a category by its exact name
func (r *GormCategoryRepository) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	var category catalog.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAll returns categories matching the filter
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	var categories []catalog.Category
	query := r.db.WithContext(ctx).Model(&catalog.Category{})

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, CommonSortFields, "name")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Save persists a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete removes a category by ID
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&catalog.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
