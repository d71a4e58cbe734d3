package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storemate/backend/internal/domain/inventory"
	"github.com/storemate/backend/internal/domain/shared"
)

// GormPurchasePaymentRepository implements inventory.PurchasePaymentRepository using GORM
type GormPurchasePaymentRepository struct {
	db *gorm.DB
}

// NewGormPurchasePaymentRepository creates a new GORM-based purchase payment repository
func NewGormPurchasePaymentRepository(db *gorm.DB) *GormPurchasePaymentRepository {
	return &GormPurchasePaymentRepository{db: db}
}

// FindByID finds a purchase payment by its ID
func (r *GormPurchasePaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.PurchasePayment, error) {
	var payment inventory.PurchasePayment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByTransactionID finds the payment record of a purchase transaction
func (r *GormPurchasePaymentRepository) FindByTransactionID(ctx context.Context, stockTransactionID uuid.UUID) (*inventory.PurchasePayment, error) {
	var payment inventory.PurchasePayment
	err := r.db.WithContext(ctx).
		Where("stock_transaction_id = ?", stockTransactionID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByTransactionIDForUpdate finds the payment record holding an
// exclusive row lock so concurrent payment updates serialize
func (r *GormPurchasePaymentRepository) FindByTransactionIDForUpdate(ctx context.Context, stockTransactionID uuid.UUID) (*inventory.PurchasePayment, error) {
	var payment inventory.PurchasePayment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("stock_transaction_id = ?", stockTransactionID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindBySupplier returns a supplier's purchase payments matching the filter
func (r *GormPurchasePaymentRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]inventory.PurchasePayment, error) {
	var payments []inventory.PurchasePayment
	query := r.db.WithContext(ctx).Model(&inventory.PurchasePayment{}).
		Where("supplier_id = ?", supplierID)

	if status, ok := filter.Filters["payment_status"]; ok {
		query = query.Where("payment_status = ?", status)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, CommonSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// SumQuantityByProduct totals the delivered quantity of one product across
// all purchase breakdowns. Breakdowns are stored as JSON, so candidate rows
// are narrowed by a substring match on the product ID and then decoded.
func (r *GormPurchasePaymentRepository) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var payments []inventory.PurchasePayment
	err := r.db.WithContext(ctx).
		Where("products LIKE ?", "%"+productID.String()+"%").
		Find(&payments).Error
	if err != nil {
		return 0, err
	}

	var total int64
	for i := range payments {
		lines, err := payments[i].Products()
		if err != nil {
			return 0, err
		}
		for _, line := range lines {
			if line.ProductID == productID {
				total += line.Quantity
			}
		}
	}
	return total, nil
}

// Save persists a purchase payment
func (r *GormPurchasePaymentRepository) Save(ctx context.Context, payment *inventory.PurchasePayment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

var _ inventory.PurchasePaymentRepository = (*GormPurchasePaymentRepository)(nil)
