package persistence

import (
	"context"

	"gorm.io/gorm"

	appbilling "github.com/storemate/backend/internal/application/billing"
	"github.com/storemate/backend/internal/domain/billing"
	"github.com/storemate/backend/internal/domain/catalog"
	"github.com/storemate/backend/internal/domain/inventory"
)

// GormBillingTransactionScope implements billing.TransactionScope backed by
// a GORM transaction. Every repository handed to the callback shares the
// same *gorm.DB transaction, so invoice, stock and ledger writes commit or
// roll back together.
type GormBillingTransactionScope struct {
	db *gorm.DB
}

// NewGormBillingTransactionScope creates a transaction scope over the given database
func NewGormBillingTransactionScope(db *gorm.DB) *GormBillingTransactionScope {
	return &GormBillingTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormBillingTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormBillingRepositories{tx: tx})
	})
}

type gormBillingRepositories struct {
	tx *gorm.DB
}

func (r *gormBillingRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormBillingRepositories) PaymentRepo() billing.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormBillingRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormBillingRepositories) CategoryRepo() catalog.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

func (r *gormBillingRepositories) StockTransactionRepo() inventory.StockTransactionRepository {
	return NewGormStockTransactionRepository(r.tx)
}

var _ appbilling.TransactionScope = (*GormBillingTransactionScope)(nil)
var _ appbilling.TransactionalRepositories = (*gormBillingRepositories)(nil)
