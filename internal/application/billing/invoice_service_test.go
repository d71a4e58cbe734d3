package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storemate/backend/internal/domain/billing"
	"github.com/storemate/backend/internal/domain/catalog"
	"github.com/storemate/backend/internal/domain/inventory"
	"github.com/storemate/backend/internal/domain/shared"
)

type billingFixture struct {
	invoiceRepo  *MockInvoiceRepository
	paymentRepo  *MockPaymentRepository
	productRepo  *MockProductRepository
	categoryRepo *MockCategoryRepository
	stockTxRepo  *MockStockTransactionRepository
	scope        *NoOpTransactionScope
}

func newBillingFixture() *billingFixture {
	f := &billingFixture{
		invoiceRepo:  new(MockInvoiceRepository),
		paymentRepo:  new(MockPaymentRepository),
		productRepo:  new(MockProductRepository),
		categoryRepo: new(MockCategoryRepository),
		stockTxRepo:  new(MockStockTransactionRepository),
	}
	f.scope = NewNoOpTransactionScope(f.invoiceRepo, f.paymentRepo, f.productRepo, f.categoryRepo, f.stockTxRepo)
	return f
}

func testProduct(t *testing.T, stock int64, categoryID *uuid.UUID) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("P-100", "Steel Bottle", decimal.RequireFromString("100.00"), decimal.RequireFromString("80.00"))
	require.NoError(t, err)
	if stock > 0 {
		require.NoError(t, p.IncreaseStock(stock))
	}
	if categoryID != nil {
		require.NoError(t, p.SetCategory(*categoryID))
	}
	return p
}

func testCategory(t *testing.T) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory("Bottles", "7310",
		decimal.RequireFromString("9"), decimal.RequireFromString("9"), decimal.Zero)
	require.NoError(t, err)
	return c
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("prices lines, decrements stock and writes ledger rows", func(t *testing.T) {
		f := newBillingFixture()
		svc := NewInvoiceService(f.scope, zap.NewNop())

		category := testCategory(t)
		product := testProduct(t, 10, &category.ID)
		customerID := uuid.New()

		f.invoiceRepo.On("NextInvoiceNumber", ctx, mock.AnythingOfType("time.Time")).Return("INV-2026-08-0001", nil)
		f.productRepo.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)
		f.categoryRepo.On("FindByID", ctx, category.ID).Return(category, nil)
		f.productRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)
		f.stockTxRepo.On("Save", ctx, mock.MatchedBy(func(tx *inventory.StockTransaction) bool {
			return tx.TransactionType == inventory.TransactionTypeSale && tx.Quantity == -3
		})).Return(nil)
		f.invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)
		f.paymentRepo.On("Save", ctx, mock.AnythingOfType("*billing.Payment")).Return(nil)

		resp, err := svc.Create(ctx, CreateInvoiceRequest{
			CustomerID: customerID,
			Items: []CreateInvoiceItemInput{{
				ProductID:       product.ID,
				Quantity:        3,
				DiscountPerItem: decimal.RequireFromString("10"),
				DiscountType:    "percentage",
			}},
		})
		require.NoError(t, err)

		assert.Equal(t, "INV-2026-08-0001", resp.InvoiceNumber)
		// 100x3 = 300, 10% line discount = 30, taxable 270; cgst/sgst
		// computed but only igst is charged, so the grand total stays 270
		assert.Equal(t, "270.00", resp.TotalBeforeTax.StringFixed(2))
		assert.Equal(t, "24.30", resp.CGSTAmount.StringFixed(2))
		assert.Equal(t, "0.00", resp.TaxAmount.StringFixed(2))
		assert.Equal(t, "270.00", resp.GrandTotal.StringFixed(2))
		assert.Equal(t, int64(7), product.QuantityInStock)

		f.invoiceRepo.AssertExpectations(t)
		f.stockTxRepo.AssertExpectations(t)
		f.paymentRepo.AssertExpectations(t)
	})

	t.Run("publishes the created event after commit", func(t *testing.T) {
		f := newBillingFixture()
		svc := NewInvoiceService(f.scope, zap.NewNop())
		publisher := &capturingPublisher{}
		svc.SetEventPublisher(publisher)

		product := testProduct(t, 5, nil)

		f.invoiceRepo.On("NextInvoiceNumber", ctx, mock.AnythingOfType("time.Time")).Return("INV-2026-08-0009", nil)
		f.productRepo.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)
		f.productRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)
		f.stockTxRepo.On("Save", ctx, mock.AnythingOfType("*inventory.StockTransaction")).Return(nil)
		f.invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)
		f.paymentRepo.On("Save", ctx, mock.AnythingOfType("*billing.Payment")).Return(nil)

		_, err := svc.Create(ctx, CreateInvoiceRequest{
			CustomerID: uuid.New(),
			Items:      []CreateInvoiceItemInput{{ProductID: product.ID, Quantity: 2}},
		})
		require.NoError(t, err)

		require.Len(t, publisher.events, 1)
		created, ok := publisher.events[0].(*billing.InvoiceCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, "INV-2026-08-0009", created.InvoiceNumber)
	})

	t.Run("insufficient stock aborts the whole operation", func(t *testing.T) {
		f := newBillingFixture()
		svc := NewInvoiceService(f.scope, zap.NewNop())

		product := testProduct(t, 2, nil)

		f.invoiceRepo.On("NextInvoiceNumber", ctx, mock.AnythingOfType("time.Time")).Return("INV-2026-08-0002", nil)
		f.productRepo.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)

		_, err := svc.Create(ctx, CreateInvoiceRequest{
			CustomerID: uuid.New(),
			Items:      []CreateInvoiceItemInput{{ProductID: product.ID, Quantity: 5}},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)

		f.invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.stockTxRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newBillingFixture()
		svc := NewInvoiceService(f.scope, zap.NewNop())

		missing := uuid.New()
		f.invoiceRepo.On("NextInvoiceNumber", ctx, mock.AnythingOfType("time.Time")).Return("INV-2026-08-0003", nil)
		f.productRepo.On("FindByIDForUpdate", ctx, missing).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, CreateInvoiceRequest{
			CustomerID: uuid.New(),
			Items:      []CreateInvoiceItemInput{{ProductID: missing, Quantity: 1}},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRODUCT_NOT_FOUND", domainErr.Code)
	})

	t.Run("empty item list rejected", func(t *testing.T) {
		f := newBillingFixture()
		svc := NewInvoiceService(f.scope, zap.NewNop())

		_, err := svc.Create(ctx, CreateInvoiceRequest{CustomerID: uuid.New()})
		assert.Error(t, err)
	})
}

func TestInvoiceService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("item replacement reverses stock and rebuilds totals", func(t *testing.T) {
		f := newBillingFixture()
		svc := NewInvoiceService(f.scope, zap.NewNop())

		product := testProduct(t, 5, nil)
		customerID := uuid.New()

		inv, err := billing.NewInvoice("INV-2026-08-0004", customerID)
		require.NoError(t, err)
		_, err = inv.AddItem(product, "", 2, decimal.Zero, billing.DiscountTypeAmount, catalog.TaxRates{})
		require.NoError(t, err)
		require.NoError(t, product.DecreaseStock(2)) // as the original create would have
		require.NoError(t, inv.Finalize(decimal.Zero, billing.DiscountTypeAmount, decimal.Zero, decimal.Zero))

		f.invoiceRepo.On("FindByIDForUpdate", ctx, inv.ID).Return(inv, nil)
		f.productRepo.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)
		f.productRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)
		f.stockTxRepo.On("Save", ctx, mock.MatchedBy(func(tx *inventory.StockTransaction) bool {
			return tx.TransactionType == inventory.TransactionTypeReturn && tx.Notes == "Invoice Update"
		})).Return(nil)
		f.stockTxRepo.On("Save", ctx, mock.MatchedBy(func(tx *inventory.StockTransaction) bool {
			return tx.TransactionType == inventory.TransactionTypeSale
		})).Return(nil)
		f.invoiceRepo.On("DeleteItems", ctx, inv.ID).Return(nil)
		f.invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)
		f.paymentRepo.On("FindByInvoice", ctx, inv.ID).Return([]billing.Payment{}, nil)

		newItems := []CreateInvoiceItemInput{{ProductID: product.ID, Quantity: 4}}
		resp, err := svc.Update(ctx, inv.ID, UpdateInvoiceRequest{Items: &newItems})
		require.NoError(t, err)

		assert.Equal(t, "400.00", resp.GrandTotal.StringFixed(2))
		// 3 in stock, +2 reversed, -4 sold again
		assert.Equal(t, int64(1), product.QuantityInStock)
		assert.Len(t, resp.Items, 1)
	})

	t.Run("field-only update leaves items alone", func(t *testing.T) {
		f := newBillingFixture()
		svc := NewInvoiceService(f.scope, zap.NewNop())

		product := testProduct(t, 5, nil)
		inv, err := billing.NewInvoice("INV-2026-08-0005", uuid.New())
		require.NoError(t, err)
		_, err = inv.AddItem(product, "", 2, decimal.Zero, billing.DiscountTypeAmount, catalog.TaxRates{})
		require.NoError(t, err)
		require.NoError(t, inv.Finalize(decimal.Zero, billing.DiscountTypeAmount, decimal.Zero, decimal.Zero))

		f.invoiceRepo.On("FindByIDForUpdate", ctx, inv.ID).Return(inv, nil)
		f.invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)
		f.paymentRepo.On("FindByInvoice", ctx, inv.ID).Return([]billing.Payment{}, nil)

		shipping := decimal.RequireFromString("50.00")
		resp, err := svc.Update(ctx, inv.ID, UpdateInvoiceRequest{ShippingCharges: &shipping})
		require.NoError(t, err)

		assert.Equal(t, "250.00", resp.GrandTotal.StringFixed(2))
		f.invoiceRepo.AssertNotCalled(t, "DeleteItems", mock.Anything, mock.Anything)
		f.productRepo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("expectation row follows the new grand total", func(t *testing.T) {
		f := newBillingFixture()
		svc := NewInvoiceService(f.scope, zap.NewNop())

		inv, err := billing.NewInvoice("INV-2026-08-0006", uuid.New())
		require.NoError(t, err)
		product := testProduct(t, 5, nil)
		_, err = inv.AddItem(product, "", 1, decimal.Zero, billing.DiscountTypeAmount, catalog.TaxRates{})
		require.NoError(t, err)
		require.NoError(t, inv.Finalize(decimal.Zero, billing.DiscountTypeAmount, decimal.Zero, decimal.Zero))

		expectation, err := billing.NewPaymentExpectation(inv.ID, inv.CustomerID, inv.GrandTotal)
		require.NoError(t, err)

		f.invoiceRepo.On("FindByIDForUpdate", ctx, inv.ID).Return(inv, nil)
		f.invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)
		f.paymentRepo.On("FindByInvoice", ctx, inv.ID).Return([]billing.Payment{*expectation}, nil)
		f.paymentRepo.On("Save", ctx, mock.MatchedBy(func(p *billing.Payment) bool {
			return p.AmountBeforeDiscount.Equal(decimal.RequireFromString("125.00"))
		})).Return(nil)

		other := decimal.RequireFromString("25.00")
		_, err = svc.Update(ctx, inv.ID, UpdateInvoiceRequest{OtherCharges: &other})
		require.NoError(t, err)
		f.paymentRepo.AssertExpectations(t)
	})
}

func TestInvoiceService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newBillingFixture()
	svc := NewInvoiceService(f.scope, zap.NewNop())

	inv, err := billing.NewInvoice("INV-2026-08-0007", uuid.New())
	require.NoError(t, err)

	f.invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)
	f.paymentRepo.On("DeleteByInvoice", ctx, inv.ID).Return(nil)
	f.invoiceRepo.On("Delete", ctx, inv.ID).Return(nil)

	require.NoError(t, svc.Delete(ctx, inv.ID))

	// deleting never writes compensating ledger rows
	f.stockTxRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceService_Get(t *testing.T) {
	ctx := context.Background()
	f := newBillingFixture()
	svc := NewInvoiceService(f.scope, zap.NewNop())

	f.invoiceRepo.On("FindByID", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil, shared.ErrNotFound)

	_, err := svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
