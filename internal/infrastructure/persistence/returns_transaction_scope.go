package persistence

import (
	"context"

	"gorm.io/gorm"

	appreturns "github.com/storemate/backend/internal/application/returns"
	"github.com/storemate/backend/internal/domain/billing"
	"github.com/storemate/backend/internal/domain/catalog"
	"github.com/storemate/backend/internal/domain/inventory"
	"github.com/storemate/backend/internal/domain/returns"
)

// GormReturnsTransactionScope implements returns.TransactionScope backed by
// a GORM transaction. A return's record, stock mutation, ledger row and any
// supplier return commit or roll back together.
type GormReturnsTransactionScope struct {
	db *gorm.DB
}

// NewGormReturnsTransactionScope creates a transaction scope over the given database
func NewGormReturnsTransactionScope(db *gorm.DB) *GormReturnsTransactionScope {
	return &GormReturnsTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormReturnsTransactionScope) Execute(ctx context.Context, fn func(repos appreturns.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormReturnsRepositories{tx: tx})
	})
}

type gormReturnsRepositories struct {
	tx *gorm.DB
}

func (r *gormReturnsRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormReturnsRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormReturnsRepositories) StockTransactionRepo() inventory.StockTransactionRepository {
	return NewGormStockTransactionRepository(r.tx)
}

func (r *gormReturnsRepositories) ProductReturnRepo() returns.ProductReturnRepository {
	return NewGormProductReturnRepository(r.tx)
}

func (r *gormReturnsRepositories) DamagedProductRepo() returns.DamagedProductRepository {
	return NewGormDamagedProductRepository(r.tx)
}

func (r *gormReturnsRepositories) SupplierReturnRepo() returns.SupplierReturnRepository {
	return NewGormSupplierReturnRepository(r.tx)
}

var _ appreturns.TransactionScope = (*GormReturnsTransactionScope)(nil)
var _ appreturns.TransactionalRepositories = (*gormReturnsRepositories)(nil)
