package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storemate/backend/internal/domain/inventory"
	"github.com/storemate/backend/internal/domain/shared"
)

// InventoryService exposes ledger reads, manual adjustments and the stock
// audit that checks a product's quantity against its ledger history.
type InventoryService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(scope TransactionScope, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		scope:  scope,
		logger: logger,
	}
}

// AdjustStock applies a signed manual correction to a product's stock and
// records the matching Adjustment ledger row
func (s *InventoryService) AdjustStock(ctx context.Context, productID uuid.UUID, quantity int64, reason string) (*StockTransactionResponse, error) {
	var response StockTransactionResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		if quantity >= 0 {
			err = product.IncreaseStock(quantity)
		} else {
			err = product.DecreaseStock(-quantity)
		}
		if err != nil {
			return err
		}
		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}

		adjustment, err := inventory.NewAdjustmentTransaction(productID, quantity, reason)
		if err != nil {
			return err
		}
		if err := repos.StockTransactionRepo().Save(ctx, adjustment); err != nil {
			return err
		}

		response = ToStockTransactionResponse(adjustment)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock adjusted",
		zap.String("product_id", productID.String()),
		zap.Int64("quantity", quantity),
		zap.String("reason", reason))
	return &response, nil
}

// ListByProduct returns a product's ledger history
func (s *InventoryService) ListByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockTransactionResponse, error) {
	var responses []StockTransactionResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		transactions, err := repos.StockTransactionRepo().FindByProduct(ctx, productID, filter)
		if err != nil {
			return err
		}
		responses = make([]StockTransactionResponse, 0, len(transactions))
		for i := range transactions {
			responses = append(responses, ToStockTransactionResponse(&transactions[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// AuditProductStock compares quantity_in_stock against the signed sum of
// the product's ledger rows. The two must agree; a mismatch means a stock
// mutation bypassed the ledger.
func (s *InventoryService) AuditProductStock(ctx context.Context, productID uuid.UUID) (*StockAuditResponse, error) {
	var response StockAuditResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		ledgerSum, err := repos.StockTransactionRepo().SumQuantityByProduct(ctx, productID)
		if err != nil {
			return err
		}
		// purchase rows are booked per batch; their per-product inbound
		// quantities come from the purchase breakdowns
		purchased, err := repos.PurchasePaymentRepo().SumQuantityByProduct(ctx, productID)
		if err != nil {
			return err
		}
		ledgerSum += purchased
		response = StockAuditResponse{
			ProductID:       product.ID,
			ProductName:     product.Name,
			QuantityInStock: product.QuantityInStock,
			LedgerSum:       ledgerSum,
			Consistent:      product.QuantityInStock == ledgerSum,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !response.Consistent {
		s.logger.Warn("Stock ledger mismatch",
			zap.String("product_id", productID.String()),
			zap.Int64("quantity_in_stock", response.QuantityInStock),
			zap.Int64("ledger_sum", response.LedgerSum))
	}
	return &response, nil
}
