package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storemate/backend/internal/domain/inventory"
	"github.com/storemate/backend/internal/domain/shared"
)

func TestInventoryService_AdjustStock(t *testing.T) {
	ctx := context.Background()

	t.Run("positive adjustment increases stock and books the row", func(t *testing.T) {
		f := newInventoryFixture()
		svc := NewInventoryService(f.scope, zap.NewNop())
		product := newTestProduct(t, "Bottle", "80.00", 10)

		f.productRepo.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)
		f.productRepo.On("Save", ctx, product).Return(nil)
		f.stockTxRepo.On("Save", ctx, mock.MatchedBy(func(tx *inventory.StockTransaction) bool {
			return tx.TransactionType == inventory.TransactionTypeAdjustment &&
				tx.Quantity == 5 && tx.Notes == "cycle count correction"
		})).Return(nil)

		resp, err := svc.AdjustStock(ctx, product.ID, 5, "cycle count correction")
		require.NoError(t, err)

		assert.Equal(t, int64(15), product.QuantityInStock)
		assert.Equal(t, int64(5), resp.Quantity)
		assert.Equal(t, "Adjustment", resp.TransactionType)
		f.stockTxRepo.AssertExpectations(t)
	})

	t.Run("negative adjustment decreases stock", func(t *testing.T) {
		f := newInventoryFixture()
		svc := NewInventoryService(f.scope, zap.NewNop())
		product := newTestProduct(t, "Flask", "120.00", 10)

		f.productRepo.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)
		f.productRepo.On("Save", ctx, product).Return(nil)
		f.stockTxRepo.On("Save", ctx, mock.MatchedBy(func(tx *inventory.StockTransaction) bool {
			return tx.Quantity == -3
		})).Return(nil)

		resp, err := svc.AdjustStock(ctx, product.ID, -3, "shrinkage")
		require.NoError(t, err)

		assert.Equal(t, int64(7), product.QuantityInStock)
		assert.Equal(t, int64(-3), resp.Quantity)
	})

	t.Run("rejects a decrement below zero", func(t *testing.T) {
		f := newInventoryFixture()
		svc := NewInventoryService(f.scope, zap.NewNop())
		product := newTestProduct(t, "Mug", "40.00", 2)

		f.productRepo.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)

		_, err := svc.AdjustStock(ctx, product.ID, -5, "shrinkage")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Equal(t, int64(2), product.QuantityInStock)
		f.stockTxRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("requires a reason", func(t *testing.T) {
		f := newInventoryFixture()
		svc := NewInventoryService(f.scope, zap.NewNop())
		product := newTestProduct(t, "Jar", "25.00", 8)

		f.productRepo.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)
		f.productRepo.On("Save", ctx, product).Return(nil)

		_, err := svc.AdjustStock(ctx, product.ID, 1, "")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_REASON", domainErr.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newInventoryFixture()
		svc := NewInventoryService(f.scope, zap.NewNop())

		missing := uuid.New()
		f.productRepo.On("FindByIDForUpdate", ctx, missing).Return(nil, shared.ErrNotFound)

		_, err := svc.AdjustStock(ctx, missing, 1, "recount")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestInventoryService_ListByProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ledger history", func(t *testing.T) {
		f := newInventoryFixture()
		svc := NewInventoryService(f.scope, zap.NewNop())
		productID := uuid.New()

		sale, err := inventory.NewStockTransaction(inventory.TransactionTypeSale, &productID, -2)
		require.NoError(t, err)
		adj, err := inventory.NewAdjustmentTransaction(productID, 1, "recount")
		require.NoError(t, err)

		filter := shared.DefaultFilter()
		f.stockTxRepo.On("FindByProduct", ctx, productID, filter).
			Return([]inventory.StockTransaction{*sale, *adj}, nil)

		rows, err := svc.ListByProduct(ctx, productID, filter)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Sale", rows[0].TransactionType)
		assert.Equal(t, int64(-2), rows[0].Quantity)
		assert.Equal(t, "Adjustment", rows[1].TransactionType)
	})

	t.Run("empty history", func(t *testing.T) {
		f := newInventoryFixture()
		svc := NewInventoryService(f.scope, zap.NewNop())
		productID := uuid.New()

		filter := shared.DefaultFilter()
		f.stockTxRepo.On("FindByProduct", ctx, productID, filter).
			Return([]inventory.StockTransaction{}, nil)

		rows, err := svc.ListByProduct(ctx, productID, filter)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestInventoryService_AuditProductStock(t *testing.T) {
	ctx := context.Background()

	t.Run("consistent when stock equals ledger sum plus purchases", func(t *testing.T) {
		f := newInventoryFixture()
		svc := NewInventoryService(f.scope, zap.NewNop())
		product := newTestProduct(t, "Bottle", "80.00", 12)

		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		// sales and returns net to -8, purchase breakdowns add 20
		f.stockTxRepo.On("SumQuantityByProduct", ctx, product.ID).Return(int64(-8), nil)
		f.paymentRepo.On("SumQuantityByProduct", ctx, product.ID).Return(int64(20), nil)

		resp, err := svc.AuditProductStock(ctx, product.ID)
		require.NoError(t, err)

		assert.True(t, resp.Consistent)
		assert.Equal(t, int64(12), resp.QuantityInStock)
		assert.Equal(t, int64(12), resp.LedgerSum)
	})

	t.Run("flags a mismatch", func(t *testing.T) {
		f := newInventoryFixture()
		svc := NewInventoryService(f.scope, zap.NewNop())
		product := newTestProduct(t, "Flask", "120.00", 9)

		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.stockTxRepo.On("SumQuantityByProduct", ctx, product.ID).Return(int64(-5), nil)
		f.paymentRepo.On("SumQuantityByProduct", ctx, product.ID).Return(int64(10), nil)

		resp, err := svc.AuditProductStock(ctx, product.ID)
		require.NoError(t, err)

		assert.False(t, resp.Consistent)
		assert.Equal(t, int64(9), resp.QuantityInStock)
		assert.Equal(t, int64(5), resp.LedgerSum)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newInventoryFixture()
		svc := NewInventoryService(f.scope, zap.NewNop())

		missing := uuid.New()
		f.productRepo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		_, err := svc.AuditProductStock(ctx, missing)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
