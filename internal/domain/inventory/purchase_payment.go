package inventory

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storemate/backend/internal/domain/shared"
)

// PurchasePaymentStatus represents the payment state of a supplier purchase
type PurchasePaymentStatus string

const (
	PurchasePaymentStatusPending       PurchasePaymentStatus = "Pending"
	PurchasePaymentStatusPartiallyPaid PurchasePaymentStatus = "PartiallyPaid"
	PurchasePaymentStatusPaid          PurchasePaymentStatus = "Paid"
)

// String returns the string representation of PurchasePaymentStatus
func (s PurchasePaymentStatus) String() string {
	return string(s)
}

// settlementTolerance is the residual below which a purchase counts as
// fully paid (sub-paisa remainders from rounding).
var settlementTolerance = decimal.NewFromFloat(0.01)

// DerivePurchasePaymentStatus computes the payment status from amounts
func DerivePurchasePaymentStatus(totalAmount, paymentAmount decimal.Decimal) PurchasePaymentStatus {
	switch {
	case paymentAmount.GreaterThanOrEqual(totalAmount):
		return PurchasePaymentStatusPaid
	case paymentAmount.IsPositive():
		return PurchasePaymentStatusPartiallyPaid
	default:
		return PurchasePaymentStatusPending
	}
}

// ProductLine is one product's share of a purchase batch. The JSON field
// names form the on-disk breakdown schema and must stay stable.
type ProductLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// LedgerRecord is the legacy payment-state blob stored in the Notes column
// of Purchase stock transactions. Field names are load-bearing: existing
// rows were written with exactly this schema.
type LedgerRecord struct {
	TotalAmount          decimal.Decimal       `json:"total_amount"`
	PaymentAmount        decimal.Decimal       `json:"payment_amount"`
	PaymentStatus        PurchasePaymentStatus `json:"payment_status"`
	PaymentMethod        string                `json:"payment_method"`
	TransactionReference string                `json:"transaction_reference"`
	Products             []ProductLine         `json:"products"`
	Timestamp            time.Time             `json:"timestamp"`
}

// Encode serializes the record for the Notes column
func (r LedgerRecord) Encode() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseLedgerRecord decodes a Purchase transaction's Notes blob
func ParseLedgerRecord(notes string) (LedgerRecord, error) {
	var r LedgerRecord
	if err := json.Unmarshal([]byte(notes), &r); err != nil {
		return LedgerRecord{}, shared.NewDomainError("INVALID_LEDGER_RECORD", "Purchase ledger record is unreadable")
	}
	return r, nil
}

// PurchasePayment is the structured payment state of one supplier purchase
// batch, linked 1:1 to its Purchase stock transaction. It replaces the
// JSON-in-notes ledger as the source of truth; the Notes blob is still
// written alongside for compatibility with existing data.
type PurchasePayment struct {
	shared.BaseAggregateRoot
	StockTransactionID   uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex"`
	SupplierID           uuid.UUID             `gorm:"type:uuid;not null;index"`
	TotalAmount          decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	PaymentAmount        decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentStatus        PurchasePaymentStatus `gorm:"type:varchar(20);not null;default:'Pending'"`
	PaymentMethod        string                `gorm:"type:varchar(30)"`
	TransactionReference string                `gorm:"type:varchar(100)"`
	ProductsJSON         string                `gorm:"column:products;type:text;not null;default:'[]'"`
}

// TableName returns the table name for GORM
func (PurchasePayment) TableName() string {
	return "purchase_payments"
}

// NewPurchasePayment creates the payment record for a purchase batch
func NewPurchasePayment(stockTransactionID, supplierID uuid.UUID, totalAmount, paymentAmount decimal.Decimal, method, reference string, products []ProductLine) (*PurchasePayment, error) {
	if stockTransactionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TRANSACTION", "Stock transaction ID cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if totalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Purchase total must be positive")
	}
	if paymentAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot be negative")
	}

	// An initial overpayment is clamped to the batch total
	if paymentAmount.GreaterThan(totalAmount) {
		paymentAmount = totalAmount
	}

	productsJSON, err := json.Marshal(products)
	if err != nil {
		return nil, err
	}

	return &PurchasePayment{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		StockTransactionID:   stockTransactionID,
		SupplierID:           supplierID,
		TotalAmount:          totalAmount.Round(2),
		PaymentAmount:        paymentAmount.Round(2),
		PaymentStatus:        DerivePurchasePaymentStatus(totalAmount, paymentAmount),
		PaymentMethod:        method,
		TransactionReference: reference,
		ProductsJSON:         string(productsJSON),
	}, nil
}

// Products decodes the per-product breakdown
func (p *PurchasePayment) Products() ([]ProductLine, error) {
	var lines []ProductLine
	if err := json.Unmarshal([]byte(p.ProductsJSON), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Balance returns the outstanding amount owed to the supplier
func (p *PurchasePayment) Balance() decimal.Decimal {
	return p.TotalAmount.Sub(p.PaymentAmount).Round(2)
}

// IsFullyPaid returns true once the outstanding balance is within the
// settlement tolerance.
func (p *PurchasePayment) IsFullyPaid() bool {
	return p.Balance().LessThanOrEqual(settlementTolerance)
}

// AddPayment applies an additional payment toward the batch. Overpayment is
// clamped at the total, never rejected. Fails once the batch is already
// settled.
func (p *PurchasePayment) AddPayment(additional decimal.Decimal, method, reference string) error {
	if additional.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Additional payment amount must be positive")
	}
	if p.IsFullyPaid() {
		return shared.NewDomainError("ALREADY_FULLY_PAID", "Purchase is already fully paid")
	}

	p.PaymentAmount = p.PaymentAmount.Add(additional).Round(2)
	if p.PaymentAmount.GreaterThan(p.TotalAmount) {
		p.PaymentAmount = p.TotalAmount
	}
	p.PaymentStatus = DerivePurchasePaymentStatus(p.TotalAmount, p.PaymentAmount)
	if method != "" {
		p.PaymentMethod = method
	}
	if reference != "" {
		p.TransactionReference = reference
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

// ToLedgerRecord renders the legacy Notes blob for the linked Purchase
// stock transaction.
func (p *PurchasePayment) ToLedgerRecord() (LedgerRecord, error) {
	products, err := p.Products()
	if err != nil {
		return LedgerRecord{}, err
	}
	return LedgerRecord{
		TotalAmount:          p.TotalAmount,
		PaymentAmount:        p.PaymentAmount,
		PaymentStatus:        p.PaymentStatus,
		PaymentMethod:        p.PaymentMethod,
		TransactionReference: p.TransactionReference,
		Products:             products,
		Timestamp:            p.UpdatedAt,
	}, nil
}
