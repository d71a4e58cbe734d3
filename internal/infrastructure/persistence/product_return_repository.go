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

// GormProductReturnRepository implements returns.ProductReturnRepository using GORM
type GormProductReturnRepository struct {
	db *gorm.DB
}

// NewGormProductReturnRepository creates a new GORM-based product return repository
func NewGormProductReturnRepository(db *gorm.DB) *GormProductReturnRepository {
	return &GormProductReturnRepository{db: db}
}

// FindByID finds a return with its exchange detail by ID
func (r *GormProductReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.ProductReturn, error) {
	var productReturn returns.ProductReturn
	err := r.db.WithContext(ctx).Preload("Exchange").
		Where("id = ?", id).
		First(&productReturn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &productReturn, nil
}

// FindByInvoice returns all returns recorded against an invoice, oldest first
func (r *GormProductReturnRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]returns.ProductReturn, error) {
	var productReturns []returns.ProductReturn
	err := r.db.WithContext(ctx).Preload("Exchange").
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&productReturns).Error
	if err != nil {
		return nil, err
	}
	return productReturns, nil
}

// FindAll returns product returns matching the filter
func (r *GormProductReturnRepository) FindAll(ctx context.Context, filter shared.Filter) ([]returns.ProductReturn, error) {
	var productReturns []returns.ProductReturn
	query := r.db.WithContext(ctx).Model(&returns.ProductReturn{}).Preload("Exchange")

	if filter.Search != "" {
		query = query.Where("return_number ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "return_type":
			query = query.Where("return_type = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		}
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, ProductReturnSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&productReturns).Error; err != nil {
		return nil, err
	}
	return productReturns, nil
}

// SumReturnedQuantity totals quantity_returned across all returns for one
// invoice and product pair, regardless of status
func (r *GormProductReturnRepository) SumReturnedQuantity(ctx context.Context, invoiceID, productID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&returns.ProductReturn{}).
		Select("COALESCE(SUM(quantity_returned), 0)").
		Where("invoice_id = ? AND product_id = ?", invoiceID, productID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Save persists a return together with its exchange detail, if any
func (r *GormProductReturnRepository) Save(ctx context.Context, productReturn *returns.ProductReturn) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(productReturn).Error; err != nil {
			return err
		}
		if productReturn.Exchange != nil {
			productReturn.Exchange.ProductReturnID = productReturn.ID
			if err := tx.Save(productReturn.Exchange).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// NextReturnNumber draws the next RET-YYYY-MM-NNNN number
func (r *GormProductReturnRepository) NextReturnNumber(ctx context.Context, at time.Time) (string, error) {
	return nextSequenceNumber(ctx, r.db, "RET", at)
}

var _ returns.ProductReturnRepository = (*GormProductReturnRepository)(nil)
