package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/storemate/backend/internal/domain/shared"
)

// TransactionType classifies a stock ledger entry
type TransactionType string

const (
	// TransactionTypePurchase records inbound stock from a supplier
	TransactionTypePurchase TransactionType = "Purchase"
	// TransactionTypeSale records outbound stock sold on an invoice
	TransactionTypeSale TransactionType = "Sale"
	// TransactionTypeReturn records stock restored by a customer return
	// (including line reversal during an invoice update)
	TransactionTypeReturn TransactionType = "Return"
	// TransactionTypeAdjustment records a manual correction
	TransactionTypeAdjustment TransactionType = "Adjustment"
	// TransactionTypeDamageRefund records a damaged item leaving stock toward
	// the supplier for a refund
	TransactionTypeDamageRefund TransactionType = "Damage_Refund"
	// TransactionTypeDamageReplacement records a damaged item leaving stock
	// toward the supplier pending a replacement unit
	TransactionTypeDamageReplacement TransactionType = "Damage_Replacement"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypePurchase, TransactionTypeSale, TransactionTypeReturn,
		TransactionTypeAdjustment, TransactionTypeDamageRefund, TransactionTypeDamageReplacement:
		return true
	}
	return false
}

// StockTransaction is one row in the append-only stock ledger. Quantity is
// signed: positive means stock in, negative means stock out. The ledger is
// the sole explanation for why a product's quantity_in_stock is what it is:
// a product's stock must always equal its initial stock plus the signed sum
// of its transactions. Rows are never updated or deleted; corrections get
// new rows.
//
// Purchase rows are drawn per supplier batch rather than per product, so
// ProductID is optional for them; the per-product breakdown lives on the
// linked PurchasePayment record (and, for compatibility, in Notes).
type StockTransaction struct {
	shared.BaseEntity
	TransactionType TransactionType `gorm:"type:varchar(30);not null;index"`
	ProductID       *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity        int64           `gorm:"not null"` // signed
	SupplierID      *uuid.UUID      `gorm:"type:uuid;index"`
	InvoiceID       *uuid.UUID      `gorm:"type:uuid;index"`
	ReferenceNumber string          `gorm:"type:varchar(100);index"`
	Notes           string          `gorm:"type:text"`
	TransactionDate time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockTransaction) TableName() string {
	return "stock_transactions"
}

// NewStockTransaction creates a ledger row with an explicitly signed quantity
func NewStockTransaction(txType TransactionType, productID *uuid.UUID, quantity int64) (*StockTransaction, error) {
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid stock transaction type")
	}
	if quantity == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transaction quantity cannot be zero")
	}
	if txType != TransactionTypePurchase && (productID == nil || *productID == uuid.Nil) {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID is required for this transaction type")
	}

	return &StockTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		TransactionType: txType,
		ProductID:       productID,
		Quantity:        quantity,
		TransactionDate: time.Now(),
	}, nil
}

// NewSaleTransaction records stock sold on an invoice (stock out)
func NewSaleTransaction(productID, invoiceID uuid.UUID, quantity int64, reference string) (*StockTransaction, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Sale quantity must be positive")
	}
	tx, err := NewStockTransaction(TransactionTypeSale, &productID, -quantity)
	if err != nil {
		return nil, err
	}
	tx.InvoiceID = &invoiceID
	tx.ReferenceNumber = reference
	return tx, nil
}

// NewReturnTransaction records stock restored to inventory (stock in)
func NewReturnTransaction(productID uuid.UUID, invoiceID *uuid.UUID, quantity int64, reference, notes string) (*StockTransaction, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
	}
	tx, err := NewStockTransaction(TransactionTypeReturn, &productID, quantity)
	if err != nil {
		return nil, err
	}
	tx.InvoiceID = invoiceID
	tx.ReferenceNumber = reference
	tx.Notes = notes
	return tx, nil
}

// NewPurchaseTransaction records an inbound supplier batch. Quantity is the
// aggregate across all products in the batch.
func NewPurchaseTransaction(supplierID uuid.UUID, totalQuantity int64, reference string) (*StockTransaction, error) {
	if totalQuantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Purchase quantity must be positive")
	}
	tx, err := NewStockTransaction(TransactionTypePurchase, nil, totalQuantity)
	if err != nil {
		return nil, err
	}
	tx.SupplierID = &supplierID
	tx.ReferenceNumber = reference
	return tx, nil
}

// NewDamageTransaction records a damaged item leaving stock toward a
// supplier, for either the refund or the replacement path.
func NewDamageTransaction(txType TransactionType, productID uuid.UUID, supplierID *uuid.UUID, quantity int64, reference string) (*StockTransaction, error) {
	if txType != TransactionTypeDamageRefund && txType != TransactionTypeDamageReplacement {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Damage transaction must be a refund or replacement")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Damage quantity must be positive")
	}
	tx, err := NewStockTransaction(txType, &productID, -quantity)
	if err != nil {
		return nil, err
	}
	tx.SupplierID = supplierID
	tx.ReferenceNumber = reference
	return tx, nil
}

// NewAdjustmentTransaction records a manual stock correction with a signed
// quantity and a mandatory reason.
func NewAdjustmentTransaction(productID uuid.UUID, quantity int64, reason string) (*StockTransaction, error) {
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}
	tx, err := NewStockTransaction(TransactionTypeAdjustment, &productID, quantity)
	if err != nil {
		return nil, err
	}
	tx.Notes = reason
	return tx, nil
}

// IsInbound returns true if the row adds stock
func (t *StockTransaction) IsInbound() bool {
	return t.Quantity > 0
}

// IsOutbound returns true if the row removes stock
func (t *StockTransaction) IsOutbound() bool {
	return t.Quantity < 0
}
