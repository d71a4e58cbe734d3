package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/storemate/backend/internal/domain/billing"
	"github.com/storemate/backend/internal/domain/catalog"
	"github.com/storemate/backend/internal/domain/inventory"
	"github.com/storemate/backend/internal/domain/shared"
)

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*billing.Invoice, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DeleteItems(ctx context.Context, invoiceID uuid.UUID) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) NextInvoiceNumber(ctx context.Context, at time.Time) (string, error) {
	args := m.Called(ctx, at)
	return args.String(0), args.Error(1)
}

// MockPaymentRepository is a mock implementation of billing.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]billing.Payment, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumPaidByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *billing.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) DeleteByInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockStockTransactionRepository is a mock implementation of inventory.StockTransactionRepository
type MockStockTransactionRepository struct {
	mock.Mock
}

func (m *MockStockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockTransaction), args.Error(1)
}

func (m *MockStockTransactionRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockTransaction, error) {
	args := m.Called(ctx, productID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockTransaction), args.Error(1)
}

func (m *MockStockTransactionRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]inventory.StockTransaction, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockTransaction), args.Error(1)
}

func (m *MockStockTransactionRepository) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockTransactionRepository) Save(ctx context.Context, tx *inventory.StockTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockStockTransactionRepository) NextPurchaseNumber(ctx context.Context, at time.Time) (string, error) {
	args := m.Called(ctx, at)
	return args.String(0), args.Error(1)
}

// capturingPublisher records published events for assertions
type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}
