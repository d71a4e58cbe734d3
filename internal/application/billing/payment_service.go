package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storemate/backend/internal/application/validation"
	"github.com/storemate/backend/internal/domain/billing"
	"github.com/storemate/backend/internal/domain/shared"
)

// PaymentService reconciles payments against invoices. Payment rows are
// additive events; the invoice's balance, excess and status are always
// derived from the cumulative paid sum under the invoice row lock.
type PaymentService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(scope TransactionScope, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		scope:  scope,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a payment against an invoice and re-derives the invoice's
// settlement position
func (s *PaymentService) Create(ctx context.Context, req CreatePaymentRequest) (*PaymentResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	method := billing.PaymentMethod(req.Method)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", req.Method))
	}

	var response PaymentResponse
	var settled *billing.Invoice
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, req.InvoiceID)
		if err != nil {
			if err == shared.ErrNotFound {
				return shared.NewDomainError("INVOICE_NOT_FOUND", fmt.Sprintf("Invoice %s does not exist", req.InvoiceID))
			}
			return err
		}
		if inv.CustomerID != req.CustomerID {
			return shared.NewDomainError("CUSTOMER_MISMATCH", "Invoice does not belong to this customer")
		}

		payment, err := billing.NewPayment(req.InvoiceID, req.CustomerID, req.Amount, req.DiscountPercentage, method)
		if err != nil {
			return err
		}
		payment.WithBankDetails(req.BankDetails).WithReference(req.TransactionReference)

		previousPaid, err := repos.PaymentRepo().SumPaidByInvoice(ctx, inv.ID)
		if err != nil {
			return err
		}

		settlement := billing.Reconcile(inv.GrandTotal, previousPaid.Add(payment.AmountPaid))
		payment.ApplySettlement(settlement)

		if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
			return err
		}
		if err := inv.SetStatus(settlement.InvoiceStatus); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return err
		}

		inv.AddDomainEvent(billing.NewPaymentAppliedEvent(payment, settlement.InvoiceStatus))
		response = ToPaymentResponse(payment)
		settled = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, settled)

	s.logger.Info("Payment recorded",
		zap.String("invoice_id", req.InvoiceID.String()),
		zap.String("amount_paid", response.AmountPaid.String()),
		zap.String("status", response.PaymentStatus))
	return &response, nil
}

// AddPayment adds an additional amount to an existing payment thread and
// re-derives the settlement. Permitted only while the invoice is still
// Pending or PartiallyPaid.
func (s *PaymentService) AddPayment(ctx context.Context, paymentID uuid.UUID, req AddPaymentRequest) (*PaymentResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var response PaymentResponse
	var settled *billing.Invoice
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.PaymentRepo().FindByID(ctx, paymentID)
		if err != nil {
			if err == shared.ErrNotFound {
				return shared.NewDomainError("PAYMENT_NOT_FOUND", fmt.Sprintf("Payment %s does not exist", paymentID))
			}
			return err
		}

		inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, payment.InvoiceID)
		if err != nil {
			return err
		}
		if inv.Status.IsSettled() {
			return shared.NewDomainError("ALREADY_SETTLED", "Invoice is fully paid; no further payment edits are allowed")
		}

		if err := payment.AddAmount(req.AdditionalAmount); err != nil {
			return err
		}
		if req.Method != "" {
			method := billing.PaymentMethod(req.Method)
			if !method.IsValid() {
				return shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", req.Method))
			}
			payment.Method = method
		}
		if req.TransactionReference != "" {
			payment.WithReference(req.TransactionReference)
		}

		totalPaid, err := repos.PaymentRepo().SumPaidByInvoice(ctx, inv.ID)
		if err != nil {
			return err
		}
		// the sum reflects rows as persisted; fold in this thread's delta
		settlement := billing.Reconcile(inv.GrandTotal, totalPaid.Add(req.AdditionalAmount))
		payment.ApplySettlement(settlement)

		if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
			return err
		}
		if err := inv.SetStatus(settlement.InvoiceStatus); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return err
		}

		inv.AddDomainEvent(billing.NewPaymentAppliedEvent(payment, settlement.InvoiceStatus))
		response = ToPaymentResponse(payment)
		settled = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, settled)

	s.logger.Info("Payment amount added",
		zap.String("payment_id", paymentID.String()),
		zap.String("additional", req.AdditionalAmount.String()),
		zap.String("status", response.PaymentStatus))
	return &response, nil
}

// ListByInvoice returns all payment rows for an invoice
func (s *PaymentService) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]PaymentResponse, error) {
	var responses []PaymentResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		payments, err := repos.PaymentRepo().FindByInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		responses = make([]PaymentResponse, 0, len(payments))
		for i := range payments {
			responses = append(responses, ToPaymentResponse(&payments[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}
