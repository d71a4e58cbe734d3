package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storemate/backend/internal/domain/shared"
)

// PaymentStatus represents the state of a single payment row
type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "Pending"
	PaymentStatusPartiallyPaid PaymentStatus = "PartiallyPaid"
	PaymentStatusSuccessful    PaymentStatus = "Successful"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartiallyPaid, PaymentStatusSuccessful:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "Cash"
	PaymentMethodCard         PaymentMethod = "Card"
	PaymentMethodUPI          PaymentMethod = "UPI"
	PaymentMethodBankTransfer PaymentMethod = "BankTransfer"
	PaymentMethodCheque       PaymentMethod = "Cheque"
	PaymentMethodOther        PaymentMethod = "Other"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI,
		PaymentMethodBankTransfer, PaymentMethodCheque, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Payment records one payment event against an invoice. Payments are
// additive: an invoice accumulates rows, and its balance/excess/status are
// always derived from the running sum, never from a single mutable field.
type Payment struct {
	shared.BaseAggregateRoot
	InvoiceID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	AmountBeforeDiscount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountPercentage   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AmountPaid           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	BalanceAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ExcessAmount         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentStatus        PaymentStatus   `gorm:"type:varchar(20);not null;default:'Pending'"`
	Method               PaymentMethod   `gorm:"type:varchar(20);not null"`
	BankDetails          string          `gorm:"type:varchar(200)"`
	TransactionReference string          `gorm:"type:varchar(100)"`
	PaidAt               time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a payment row for an invoice. The discount is applied
// off the tendered amount; amount_paid is what actually counts toward the
// invoice balance.
func NewPayment(invoiceID, customerID uuid.UUID, amount, discountPercentage decimal.Decimal, method PaymentMethod) (*Payment, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if discountPercentage.IsNegative() || discountPercentage.GreaterThan(oneHundred) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount percentage must be between 0 and 100")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Invalid payment method")
	}

	discountAmount := quantize(amount.Mul(discountPercentage).Div(oneHundred))
	amountPaid := quantize(amount.Sub(discountAmount))

	return &Payment{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		InvoiceID:            invoiceID,
		CustomerID:           customerID,
		AmountBeforeDiscount: quantize(amount),
		DiscountPercentage:   discountPercentage,
		DiscountAmount:       discountAmount,
		AmountPaid:           amountPaid,
		PaymentStatus:        PaymentStatusPending,
		Method:               method,
		PaidAt:               time.Now(),
	}, nil
}

// NewPaymentExpectation opens the zero-paid payment row that accompanies a
// new invoice. It records the grand total the customer is expected to
// settle; actual tenders accumulate as further rows or through AddAmount.
func NewPaymentExpectation(invoiceID, customerID uuid.UUID, grandTotal decimal.Decimal) (*Payment, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if grandTotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Grand total cannot be negative")
	}
	return &Payment{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		InvoiceID:            invoiceID,
		CustomerID:           customerID,
		AmountBeforeDiscount: quantize(grandTotal),
		AmountPaid:           decimal.Zero,
		BalanceAmount:        quantize(grandTotal),
		PaymentStatus:        PaymentStatusPending,
		Method:               PaymentMethodOther,
		PaidAt:               time.Now(),
	}, nil
}

// RefreshExpectation re-points a zero-paid expectation row at a new grand
// total after an invoice update.
func (p *Payment) RefreshExpectation(grandTotal decimal.Decimal) {
	p.AmountBeforeDiscount = quantize(grandTotal)
	p.BalanceAmount = quantize(grandTotal.Sub(p.AmountPaid))
	if p.BalanceAmount.IsNegative() {
		p.ExcessAmount = p.BalanceAmount.Neg()
		p.BalanceAmount = decimal.Zero
	}
	p.Touch()
}

// WithBankDetails attaches bank details to the payment
func (p *Payment) WithBankDetails(details string) *Payment {
	p.BankDetails = details
	return p
}

// WithReference attaches a transaction reference to the payment
func (p *Payment) WithReference(reference string) *Payment {
	p.TransactionReference = reference
	return p
}

// AddAmount adds an additional tendered amount to this payment thread.
// Prior amounts are never reduced.
func (p *Payment) AddAmount(additional decimal.Decimal) error {
	if additional.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Additional payment amount must be positive")
	}
	p.AmountBeforeDiscount = quantize(p.AmountBeforeDiscount.Add(additional))
	p.AmountPaid = quantize(p.AmountPaid.Add(additional))
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Settlement is the derived payment position of an invoice after summing
// all of its payment rows against the grand total.
type Settlement struct {
	TotalPaid     decimal.Decimal
	BalanceAmount decimal.Decimal
	ExcessAmount  decimal.Decimal
	InvoiceStatus InvoiceStatus
	PaymentStatus PaymentStatus
}

// Reconcile derives balance, excess and statuses from the invoice grand
// total and the cumulative amount paid. At most one of balance and excess is
// positive.
func Reconcile(grandTotal, totalPaid decimal.Decimal) Settlement {
	balance := quantize(grandTotal.Sub(totalPaid))
	excess := decimal.Zero
	if balance.IsNegative() {
		excess = balance.Neg()
		balance = decimal.Zero
	}

	s := Settlement{
		TotalPaid:     quantize(totalPaid),
		BalanceAmount: balance,
		ExcessAmount:  excess,
	}
	switch {
	case totalPaid.GreaterThanOrEqual(grandTotal):
		s.InvoiceStatus = InvoiceStatusPaid
		s.PaymentStatus = PaymentStatusSuccessful
	case totalPaid.IsPositive():
		s.InvoiceStatus = InvoiceStatusPartiallyPaid
		s.PaymentStatus = PaymentStatusPartiallyPaid
	default:
		s.InvoiceStatus = InvoiceStatusPending
		s.PaymentStatus = PaymentStatusPending
	}
	return s
}

// ApplySettlement writes the derived position onto this payment row
func (p *Payment) ApplySettlement(s Settlement) {
	p.BalanceAmount = s.BalanceAmount
	p.ExcessAmount = s.ExcessAmount
	p.PaymentStatus = s.PaymentStatus
	p.Touch()
}
