package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storemate/backend/internal/domain/shared"
)

// StockTransactionRepository is the append-only store for ledger rows
type StockTransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockTransaction, error)
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockTransaction, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]StockTransaction, error)
	// SumQuantityByProduct returns the signed sum of all ledger rows for a
	// product; the stock audit compares it against quantity_in_stock.
	SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	Save(ctx context.Context, tx *StockTransaction) error
	// NextPurchaseNumber draws the next PUR-YYYY-MM-NNNN reference from an
	// atomic counter scoped by year and month.
	NextPurchaseNumber(ctx context.Context, at time.Time) (string, error)
}

// PurchasePaymentRepository stores the structured payment state of purchases
type PurchasePaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchasePayment, error)
	// FindByTransactionIDForUpdate loads the record under an exclusive row
	// lock so concurrent payment updates serialize.
	FindByTransactionIDForUpdate(ctx context.Context, stockTransactionID uuid.UUID) (*PurchasePayment, error)
	FindByTransactionID(ctx context.Context, stockTransactionID uuid.UUID) (*PurchasePayment, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]PurchasePayment, error)
	// SumQuantityByProduct totals the delivered quantity of one product
	// across all purchase breakdowns. Purchase ledger rows are per batch,
	// so the per-product inbound quantity lives here.
	SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	Save(ctx context.Context, payment *PurchasePayment) error
}
