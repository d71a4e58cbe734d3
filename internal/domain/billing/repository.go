package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storemate/backend/internal/domain/shared"
)

// InvoiceRepository defines persistence operations for invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// FindByIDForUpdate loads the invoice under an exclusive row lock so
	// concurrent payments serialize on the invoice's payment aggregate.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
	// DeleteItems removes all line items for an invoice (full-update flow)
	DeleteItems(ctx context.Context, invoiceID uuid.UUID) error
	// Delete removes the invoice together with its items and payments
	Delete(ctx context.Context, id uuid.UUID) error
	// NextInvoiceNumber draws the next number from an atomic counter
	// scoped by year and month, e.g. INV-2026-08-0042.
	NextInvoiceNumber(ctx context.Context, at time.Time) (string, error)
}

// PaymentRepository defines persistence operations for payments
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error)
	// SumPaidByInvoice returns the cumulative amount_paid over all payment
	// rows for the invoice.
	SumPaidByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, payment *Payment) error
	DeleteByInvoice(ctx context.Context, invoiceID uuid.UUID) error
}
