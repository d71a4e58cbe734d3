package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storemate/backend/internal/domain/shared"
)

// ReturnType discriminates the three workflows a customer return can take.
type ReturnType string

const (
	ReturnTypeReturn   ReturnType = "return"
	ReturnTypeExchange ReturnType = "exchange"
	ReturnTypeDamage   ReturnType = "damage"
)

// IsValid checks if the type is a valid ReturnType
func (t ReturnType) IsValid() bool {
	switch t {
	case ReturnTypeReturn, ReturnTypeExchange, ReturnTypeDamage:
		return true
	}
	return false
}

// String returns the string representation of ReturnType
func (t ReturnType) String() string {
	return string(t)
}

// ReturnStatus is the lifecycle state of a return record.
// Simple returns end at Processed; damage records end at Paid (refund)
// or Replaced (replacement unit issued).
type ReturnStatus string

const (
	ReturnStatusPending   ReturnStatus = "Pending"
	ReturnStatusProcessed ReturnStatus = "Processed"
	ReturnStatusPaid      ReturnStatus = "Paid"
	ReturnStatusReplaced  ReturnStatus = "Replaced"
)

// IsValid checks if the status is a valid ReturnStatus
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusPending, ReturnStatusProcessed, ReturnStatusPaid, ReturnStatusReplaced:
		return true
	}
	return false
}

// String returns the string representation of ReturnStatus
func (s ReturnStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is allowed
func (s ReturnStatus) IsTerminal() bool {
	return s != ReturnStatusPending
}

// DamageResolution selects the disposition of a damaged sold item:
// money back to the customer, or a physical replacement unit.
type DamageResolution string

const (
	DamageResolutionRefund      DamageResolution = "refund"
	DamageResolutionReplacement DamageResolution = "replacement"
)

// IsValid checks if the value is a valid DamageResolution
func (r DamageResolution) IsValid() bool {
	return r == DamageResolutionRefund || r == DamageResolutionReplacement
}

// ExchangeDetail is the exchange-only payload of a ProductReturn: which
// product the customer takes instead, and the settlement direction.
// A positive PriceDifference means the customer owes the difference,
// negative means a refund is owed, zero means no settlement.
type ExchangeDetail struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductReturnID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	NewProductID     uuid.UUID       `gorm:"type:uuid;not null"`
	NewProductName   string          `gorm:"type:varchar(200);not null"`
	ExchangeQuantity int64           `gorm:"not null"`
	NewUnitPrice     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PriceDifference  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt        time.Time
}

// TableName returns the table name for GORM
func (ExchangeDetail) TableName() string {
	return "exchange_details"
}

// ProductReturn is the aggregate root for a customer return. The three
// workflows share this row; the type-specific payloads hang off it
// (ExchangeDetail for exchanges, DamagedProduct for damage records) so
// the common columns are never nullable.
type ProductReturn struct {
	shared.BaseAggregateRoot
	ReturnNumber     string           `gorm:"type:varchar(30);not null;uniqueIndex"`
	InvoiceID        uuid.UUID        `gorm:"type:uuid;not null;index:idx_product_returns_invoice_product"`
	CustomerID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID        `gorm:"type:uuid;not null;index:idx_product_returns_invoice_product"`
	ProductName      string           `gorm:"type:varchar(200);not null"`
	QuantityReturned int64            `gorm:"not null"`
	ReturnType       ReturnType       `gorm:"type:varchar(20);not null"`
	RefundAmount     decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	Resolution       DamageResolution `gorm:"type:varchar(20)"`
	Reason           string           `gorm:"type:text"`
	Status           ReturnStatus     `gorm:"type:varchar(20);not null;default:'Pending'"`
	ProcessedAt      *time.Time
	Exchange         *ExchangeDetail `gorm:"foreignKey:ProductReturnID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductReturn) TableName() string {
	return "product_returns"
}

func newProductReturn(returnNumber string, invoiceID, customerID, productID uuid.UUID, productName string, quantity int64, returnType ReturnType) (*ProductReturn, error) {
	if returnNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Return number is required")
	}
	if invoiceID == uuid.Nil || customerID == uuid.Nil || productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invoice, customer and product are required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Return quantity must be positive")
	}
	return &ProductReturn{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReturnNumber:      returnNumber,
		InvoiceID:         invoiceID,
		CustomerID:        customerID,
		ProductID:         productID,
		ProductName:       productName,
		QuantityReturned:  quantity,
		ReturnType:        returnType,
		RefundAmount:      decimal.Zero,
		Status:            ReturnStatusPending,
	}, nil
}

// NewSimpleReturn creates a pending plain return. The refund is the
// tax-inclusive, discount-adjusted price the customer actually paid
// for the returned units.
func NewSimpleReturn(returnNumber string, invoiceID, customerID, productID uuid.UUID, productName string, quantity int64, finalUnitPrice decimal.Decimal, reason string) (*ProductReturn, error) {
	r, err := newProductReturn(returnNumber, invoiceID, customerID, productID, productName, quantity, ReturnTypeReturn)
	if err != nil {
		return nil, err
	}
	if finalUnitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unit price cannot be negative")
	}
	r.RefundAmount = finalUnitPrice.Mul(decimal.NewFromInt(quantity)).Round(2)
	r.Reason = reason
	return r, nil
}

// NewExchangeReturn creates a pending exchange carrying its settlement
// payload. The price difference is computed by the caller from the old
// line's final price and the new product's selling price.
func NewExchangeReturn(returnNumber string, invoiceID, customerID, productID uuid.UUID, productName string, quantity int64, detail ExchangeDetail, reason string) (*ProductReturn, error) {
	r, err := newProductReturn(returnNumber, invoiceID, customerID, productID, productName, quantity, ReturnTypeExchange)
	if err != nil {
		return nil, err
	}
	if detail.NewProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Exchange product is required")
	}
	if detail.ExchangeQuantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Exchange quantity must be positive")
	}
	detail.ID = uuid.New()
	detail.ProductReturnID = r.ID
	r.Exchange = &detail
	r.Reason = reason
	return r, nil
}

// NewDamageReturn creates a pending damage record. Refunds are valued at
// the product's purchase price (the store recovers cost from the
// supplier); replacements carry no refund at all.
func NewDamageReturn(returnNumber string, invoiceID, customerID, productID uuid.UUID, productName string, quantity int64, resolution DamageResolution, purchasePrice decimal.Decimal, reason string) (*ProductReturn, error) {
	r, err := newProductReturn(returnNumber, invoiceID, customerID, productID, productName, quantity, ReturnTypeDamage)
	if err != nil {
		return nil, err
	}
	if !resolution.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Damage resolution must be refund or replacement")
	}
	r.Resolution = resolution
	if resolution == DamageResolutionRefund {
		if purchasePrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Purchase price cannot be negative")
		}
		r.RefundAmount = purchasePrice.Mul(decimal.NewFromInt(quantity)).Round(2)
	}
	r.Reason = reason
	return r, nil
}

func (r *ProductReturn) transition(to ReturnStatus) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Return has already been processed")
	}
	now := time.Now()
	r.Status = to
	r.ProcessedAt = &now
	r.UpdatedAt = now
	return nil
}

// MarkProcessed completes a simple return or exchange
func (r *ProductReturn) MarkProcessed() error {
	if r.ReturnType == ReturnTypeDamage {
		return shared.NewDomainError("INVALID_STATE", "Damage records settle as Paid or Replaced")
	}
	return r.transition(ReturnStatusProcessed)
}

// MarkPaid completes the damage refund path
func (r *ProductReturn) MarkPaid() error {
	if r.ReturnType != ReturnTypeDamage || r.Resolution != DamageResolutionRefund {
		return shared.NewDomainError("INVALID_STATE", "Only damage refunds settle as Paid")
	}
	return r.transition(ReturnStatusPaid)
}

// MarkReplaced completes the damage replacement path
func (r *ProductReturn) MarkReplaced() error {
	if r.ReturnType != ReturnTypeDamage || r.Resolution != DamageResolutionReplacement {
		return shared.NewDomainError("INVALID_STATE", "Only damage replacements settle as Replaced")
	}
	return r.transition(ReturnStatusReplaced)
}
