package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/storemate/backend/internal/domain/catalog"
	"github.com/storemate/backend/internal/domain/inventory"
	"github.com/storemate/backend/internal/domain/shared"
)

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

// MockPurchasePaymentRepository is a mock implementation of inventory.PurchasePaymentRepository
type MockPurchasePaymentRepository struct {
	mock.Mock
}

func (m *MockPurchasePaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.PurchasePayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.PurchasePayment), args.Error(1)
}

func (m *MockPurchasePaymentRepository) FindByTransactionIDForUpdate(ctx context.Context, stockTransactionID uuid.UUID) (*inventory.PurchasePayment, error) {
	args := m.Called(ctx, stockTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.PurchasePayment), args.Error(1)
}

func (m *MockPurchasePaymentRepository) FindByTransactionID(ctx context.Context, stockTransactionID uuid.UUID) (*inventory.PurchasePayment, error) {
	args := m.Called(ctx, stockTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.PurchasePayment), args.Error(1)
}

func (m *MockPurchasePaymentRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]inventory.PurchasePayment, error) {
	args := m.Called(ctx, supplierID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.PurchasePayment), args.Error(1)
}

func (m *MockPurchasePaymentRepository) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchasePaymentRepository) Save(ctx context.Context, payment *inventory.PurchasePayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}
