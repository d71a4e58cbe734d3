package billing

import (
	"context"

	"github.com/storemate/backend/internal/domain/billing"
	"github.com/storemate/backend/internal/domain/catalog"
	"github.com/storemate/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the repositories an
// invoice or payment operation touches. All repository operations inside
// Execute share one database transaction and commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the billing-side
// repositories within a transaction. Invoice creation spans three
// aggregates (invoice, product stock, stock ledger) plus the payment
// expectation row, which is why they are grouped under one scope.
type TransactionalRepositories interface {
	InvoiceRepo() billing.InvoiceRepository
	PaymentRepo() billing.PaymentRepository
	ProductRepo() catalog.ProductRepository
	CategoryRepo() catalog.CategoryRepository
	StockTransactionRepo() inventory.StockTransactionRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful in tests where the repositories are mocks.
type NoOpTransactionScope struct {
	invoiceRepo  billing.InvoiceRepository
	paymentRepo  billing.PaymentRepository
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	stockTxRepo  inventory.StockTransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	invoiceRepo billing.InvoiceRepository,
	paymentRepo billing.PaymentRepository,
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	stockTxRepo inventory.StockTransactionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		stockTxRepo:  stockTxRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InvoiceRepo returns the invoice repository
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository { return s.invoiceRepo }

// PaymentRepo returns the payment repository
func (s *NoOpTransactionScope) PaymentRepo() billing.PaymentRepository { return s.paymentRepo }

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository { return s.productRepo }

// CategoryRepo returns the category repository
func (s *NoOpTransactionScope) CategoryRepo() catalog.CategoryRepository { return s.categoryRepo }

// StockTransactionRepo returns the stock transaction repository
func (s *NoOpTransactionScope) StockTransactionRepo() inventory.StockTransactionRepository {
	return s.stockTxRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
