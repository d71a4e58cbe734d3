package inventory

import (
	"context"

	"github.com/storemate/backend/internal/domain/catalog"
	"github.com/storemate/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the repositories a
// purchase intake or stock operation touches. All repository operations
// inside Execute share one database transaction.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the inventory-side
// repositories within a transaction.
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
	StockTransactionRepo() inventory.StockTransactionRepository
	PurchasePaymentRepo() inventory.PurchasePaymentRepository
}

// NoOpTransactionScope runs the function without a real transaction
type NoOpTransactionScope struct {
	productRepo         catalog.ProductRepository
	stockTxRepo         inventory.StockTransactionRepository
	purchasePaymentRepo inventory.PurchasePaymentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	stockTxRepo inventory.StockTransactionRepository,
	purchasePaymentRepo inventory.PurchasePaymentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:         productRepo,
		stockTxRepo:         stockTxRepo,
		purchasePaymentRepo: purchasePaymentRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository { return s.productRepo }

// StockTransactionRepo returns the stock transaction repository
func (s *NoOpTransactionScope) StockTransactionRepo() inventory.StockTransactionRepository {
	return s.stockTxRepo
}

// PurchasePaymentRepo returns the purchase payment repository
func (s *NoOpTransactionScope) PurchasePaymentRepo() inventory.PurchasePaymentRepository {
	return s.purchasePaymentRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
