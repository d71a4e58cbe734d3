package persistence

import (
	"context"

	"gorm.io/gorm"

	appinventory "github.com/storemate/backend/internal/application/inventory"
	"github.com/storemate/backend/internal/domain/catalog"
	"github.com/storemate/backend/internal/domain/inventory"
)

// GormInventoryTransactionScope implements inventory.TransactionScope backed
// by a GORM transaction. Purchase intake writes the stock mutation, the
// ledger row and the payment record through one transaction.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a transaction scope over the given database
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepositories{tx: tx})
	})
}

type gormInventoryRepositories struct {
	tx *gorm.DB
}

func (r *gormInventoryRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormInventoryRepositories) StockTransactionRepo() inventory.StockTransactionRepository {
	return NewGormStockTransactionRepository(r.tx)
}

func (r *gormInventoryRepositories) PurchasePaymentRepo() inventory.PurchasePaymentRepository {
	return NewGormPurchasePaymentRepository(r.tx)
}

var _ appinventory.TransactionScope = (*GormInventoryTransactionScope)(nil)
var _ appinventory.TransactionalRepositories = (*gormInventoryRepositories)(nil)
