package returns

import (
	"context"

	"github.com/storemate/backend/internal/domain/billing"
	"github.com/storemate/backend/internal/domain/catalog"
	"github.com/storemate/backend/internal/domain/inventory"
	"github.com/storemate/backend/internal/domain/returns"
)

// TransactionScope provides transactional access to the repositories the
// return, exchange and damage workflows touch. A return record, its stock
// mutation and its ledger row succeed or fail together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the return-side
// repositories within a transaction.
type TransactionalRepositories interface {
	InvoiceRepo() billing.InvoiceRepository
	ProductRepo() catalog.ProductRepository
	StockTransactionRepo() inventory.StockTransactionRepository
	ProductReturnRepo() returns.ProductReturnRepository
	DamagedProductRepo() returns.DamagedProductRepository
	SupplierReturnRepo() returns.SupplierReturnRepository
}

// NoOpTransactionScope runs the function without a real transaction
type NoOpTransactionScope struct {
	invoiceRepo        billing.InvoiceRepository
	productRepo        catalog.ProductRepository
	stockTxRepo        inventory.StockTransactionRepository
	productReturnRepo  returns.ProductReturnRepository
	damagedProductRepo returns.DamagedProductRepository
	supplierReturnRepo returns.SupplierReturnRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	invoiceRepo billing.InvoiceRepository,
	productRepo catalog.ProductRepository,
	stockTxRepo inventory.StockTransactionRepository,
	productReturnRepo returns.ProductReturnRepository,
	damagedProductRepo returns.DamagedProductRepository,
	supplierReturnRepo returns.SupplierReturnRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		invoiceRepo:        invoiceRepo,
		productRepo:        productRepo,
		stockTxRepo:        stockTxRepo,
		productReturnRepo:  productReturnRepo,
		damagedProductRepo: damagedProductRepo,
		supplierReturnRepo: supplierReturnRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InvoiceRepo returns the invoice repository
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository { return s.invoiceRepo }

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository { return s.productRepo }

// StockTransactionRepo returns the stock transaction repository
func (s *NoOpTransactionScope) StockTransactionRepo() inventory.StockTransactionRepository {
	return s.stockTxRepo
}

// ProductReturnRepo returns the product return repository
func (s *NoOpTransactionScope) ProductReturnRepo() returns.ProductReturnRepository {
	return s.productReturnRepo
}

// DamagedProductRepo returns the damaged product repository
func (s *NoOpTransactionScope) DamagedProductRepo() returns.DamagedProductRepository {
	return s.damagedProductRepo
}

// SupplierReturnRepo returns the supplier return repository
func (s *NoOpTransactionScope) SupplierReturnRepo() returns.SupplierReturnRepository {
	return s.supplierReturnRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
