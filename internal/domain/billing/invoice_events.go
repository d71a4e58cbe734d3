package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storemate/backend/internal/domain/shared"
)

// Event type constants for the billing context
const (
	EventTypeInvoiceCreated = "billing.invoice.created"
	EventTypeInvoiceUpdated = "billing.invoice.updated"
	EventTypeInvoiceDeleted = "billing.invoice.deleted"
	EventTypePaymentApplied = "billing.payment.applied"
)

// InvoiceCreatedEvent is emitted when an invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	ItemCount     int             `json:"item_count"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, "Invoice", inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		GrandTotal:      inv.GrandTotal,
		ItemCount:       len(inv.Items),
	}
}

// InvoiceUpdatedEvent is emitted when an invoice's items or charges change
type InvoiceUpdatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// NewInvoiceUpdatedEvent creates a new InvoiceUpdatedEvent
func NewInvoiceUpdatedEvent(inv *Invoice) *InvoiceUpdatedEvent {
	return &InvoiceUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceUpdated, "Invoice", inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		GrandTotal:      inv.GrandTotal,
	}
}

// PaymentAppliedEvent is emitted when a payment is applied to an invoice
type PaymentAppliedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	BalanceAmount decimal.Decimal `json:"balance_amount"`
	ExcessAmount  decimal.Decimal `json:"excess_amount"`
	InvoiceStatus InvoiceStatus   `json:"invoice_status"`
}

// NewPaymentAppliedEvent creates a new PaymentAppliedEvent
func NewPaymentAppliedEvent(p *Payment, invoiceStatus InvoiceStatus) *PaymentAppliedEvent {
	return &PaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentApplied, "Payment", p.ID),
		InvoiceID:       p.InvoiceID,
		AmountPaid:      p.AmountPaid,
		BalanceAmount:   p.BalanceAmount,
		ExcessAmount:    p.ExcessAmount,
		InvoiceStatus:   invoiceStatus,
	}
}
