package returns

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/storemate/backend/internal/domain/billing"
	"github.com/storemate/backend/internal/domain/catalog"
	"github.com/storemate/backend/internal/domain/inventory"
	"github.com/storemate/backend/internal/domain/returns"
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

// MockProductReturnRepository is a mock implementation of returns.ProductReturnRepository
type MockProductReturnRepository struct {
	mock.Mock
}

func (m *MockProductReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.ProductReturn, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*returns.ProductReturn), args.Error(1)
}

func (m *MockProductReturnRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]returns.ProductReturn, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]returns.ProductReturn), args.Error(1)
}

func (m *MockProductReturnRepository) FindAll(ctx context.Context, filter shared.Filter) ([]returns.ProductReturn, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]returns.ProductReturn), args.Error(1)
}

func (m *MockProductReturnRepository) SumReturnedQuantity(ctx context.Context, invoiceID, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, invoiceID, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductReturnRepository) Save(ctx context.Context, productReturn *returns.ProductReturn) error {
	args := m.Called(ctx, productReturn)
	return args.Error(0)
}

func (m *MockProductReturnRepository) NextReturnNumber(ctx context.Context, at time.Time) (string, error) {
	args := m.Called(ctx, at)
	return args.String(0), args.Error(1)
}

// MockDamagedProductRepository is a mock implementation of returns.DamagedProductRepository
type MockDamagedProductRepository struct {
	mock.Mock
}

func (m *MockDamagedProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.DamagedProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*returns.DamagedProduct), args.Error(1)
}

func (m *MockDamagedProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]returns.DamagedProduct, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]returns.DamagedProduct), args.Error(1)
}

func (m *MockDamagedProductRepository) Save(ctx context.Context, damaged *returns.DamagedProduct) error {
	args := m.Called(ctx, damaged)
	return args.Error(0)
}

// MockSupplierReturnRepository is a mock implementation of returns.SupplierReturnRepository
type MockSupplierReturnRepository struct {
	mock.Mock
}

func (m *MockSupplierReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.SupplierReturn, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*returns.SupplierReturn), args.Error(1)
}

func (m *MockSupplierReturnRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]returns.SupplierReturn, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]returns.SupplierReturn), args.Error(1)
}

func (m *MockSupplierReturnRepository) Save(ctx context.Context, supplierReturn *returns.SupplierReturn) error {
	args := m.Called(ctx, supplierReturn)
	return args.Error(0)
}

func (m *MockSupplierReturnRepository) NextReturnNumber(ctx context.Context, at time.Time) (string, error) {
	args := m.Called(ctx, at)
	return args.String(0), args.Error(1)
}
