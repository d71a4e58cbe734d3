package returns

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storemate/backend/internal/domain/shared"
)

// ProductReturnRepository defines persistence for customer returns
type ProductReturnRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductReturn, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]ProductReturn, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductReturn, error)
	// SumReturnedQuantity totals quantity_returned across all returns for
	// one invoice+product pair, regardless of status.
	SumReturnedQuantity(ctx context.Context, invoiceID, productID uuid.UUID) (int64, error)
	Save(ctx context.Context, productReturn *ProductReturn) error
	// NextReturnNumber allocates the next RET-YYYY-MM-NNNN number for the
	// month containing at, atomically.
	NextReturnNumber(ctx context.Context, at time.Time) (string, error)
}

// DamagedProductRepository defines persistence for damaged stock records
type DamagedProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*DamagedProduct, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]DamagedProduct, error)
	Save(ctx context.Context, damaged *DamagedProduct) error
}

// SupplierReturnRepository defines persistence for supplier returns
type SupplierReturnRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SupplierReturn, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]SupplierReturn, error)
	Save(ctx context.Context, supplierReturn *SupplierReturn) error
	// NextReturnNumber allocates the next SRET-YYYY-MM-NNNN number
	NextReturnNumber(ctx context.Context, at time.Time) (string, error)
}
