package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storemate/backend/internal/domain/inventory"
	"github.com/storemate/backend/internal/domain/shared"
)

// GormStockTransactionRepository implements inventory.StockTransactionRepository
// using GORM. The ledger is append-only: there is no update or delete path.
type GormStockTransactionRepository struct {
	db *gorm.DB
}

// NewGormStockTransactionRepository creates a new GORM-based stock transaction repository
func NewGormStockTransactionRepository(db *gorm.DB) *GormStockTransactionRepository {
	return &GormStockTransactionRepository{db: db}
}

// FindByID finds a ledger row by its ID
func (r *GormStockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockTransaction, error) {
	var tx inventory.StockTransaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByProduct returns a product's ledger rows matching the filter
func (r *GormStockTransactionRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockTransaction, error) {
	var txs []inventory.StockTransaction
	query := r.db.WithContext(ctx).Model(&inventory.StockTransaction{}).
		Where("product_id = ?", productID)
	query = r.applyFilter(query, filter)
	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByInvoice returns all ledger rows linked to an invoice, oldest first
func (r *GormStockTransactionRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]inventory.StockTransaction, error) {
	var txs []inventory.StockTransaction
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// SumQuantityByProduct returns the signed quantity sum of all ledger rows
// carrying this product ID. Batch purchase rows keep a NULL product_id and
// are therefore excluded; their per-product quantities live in the purchase
// payment breakdowns.
func (r *GormStockTransactionRepository) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&inventory.StockTransaction{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("product_id = ?", productID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Save appends a ledger row
func (r *GormStockTransactionRepository) Save(ctx context.Context, tx *inventory.StockTransaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

// NextPurchaseNumber draws the next PUR-YYYY-MM-NNNN reference
func (r *GormStockTransactionRepository) NextPurchaseNumber(ctx context.Context, at time.Time) (string, error) {
	return nextSequenceNumber(ctx, r.db, "PUR", at)
}

func (r *GormStockTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "transaction_type":
			query = query.Where("transaction_type = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "date_from":
			query = query.Where("transaction_date >= ?", value)
		case "date_to":
			query = query.Where("transaction_date <= ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockTransactionSortFields, "transaction_date")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

var _ inventory.StockTransactionRepository = (*GormStockTransactionRepository)(nil)
