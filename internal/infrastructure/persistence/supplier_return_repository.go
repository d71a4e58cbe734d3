package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storemate/backend/internal/domain/returns"
	"github.com/storemate/backend/internal/domain/shared"
)

// GormSupplierReturnRepository implements returns.SupplierReturnRepository using GORM
type GormSupplierReturnRepository struct {
	db *gorm.DB
}

// NewGormSupplierReturnRepository creates a new GORM-based supplier return repository
func NewGormSupplierReturnRepository(db *gorm.DB) *GormSupplierReturnRepository {
	return &GormSupplierReturnRepository{db: db}
}

// FindByID finds a supplier return by its ID
func (r *GormSupplierReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.SupplierReturn, error) {
	var supplierReturn returns.SupplierReturn
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&supplierReturn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplierReturn, nil
}

// FindBySupplier returns all supplier returns for a supplier, newest first
func (r *GormSupplierReturnRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]returns.SupplierReturn, error) {
	var supplierReturns []returns.SupplierReturn
	err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("created_at DESC").
		Find(&supplierReturns).Error
	if err != nil {
		return nil, err
	}
	return supplierReturns, nil
}

// Save persists a supplier return
func (r *GormSupplierReturnRepository) Save(ctx context.Context, supplierReturn *returns.SupplierReturn) error {
	return r.db.WithContext(ctx).Save(supplierReturn).Error
}

// NextReturnNumber draws the next SRET-YYYY-MM-NNNN number
func (r *GormSupplierReturnRepository) NextReturnNumber(ctx context.Context, at time.Time) (string, error) {
	return nextSequenceNumber(ctx, r.db, "SRET", at)
}

var _ returns.SupplierReturnRepository = (*GormSupplierReturnRepository)(nil)
