package billing

import (
	"context"

	"go.uber.org/zap"

	"github.com/storemate/backend/internal/domain/billing"
	"github.com/storemate/backend/internal/domain/shared"
)

// SettlementAuditHandler subscribes to billing events and writes a
// structured audit line per invoice lifecycle change. The log stream is
// the audit trail; nothing is persisted here.
type SettlementAuditHandler struct {
	logger *zap.Logger
}

// NewSettlementAuditHandler creates a new audit handler
func NewSettlementAuditHandler(logger *zap.Logger) *SettlementAuditHandler {
	return &SettlementAuditHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *SettlementAuditHandler) EventTypes() []string {
	return []string{
		billing.EventTypeInvoiceCreated,
		billing.EventTypeInvoiceUpdated,
		billing.EventTypePaymentApplied,
	}
}

// Handle writes the audit line for a billing event
func (h *SettlementAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *billing.InvoiceCreatedEvent:
		h.logger.Info("audit: invoice created",
			zap.String("invoice_id", e.AggregateID().String()),
			zap.String("invoice_number", e.InvoiceNumber),
			zap.String("customer_id", e.CustomerID.String()),
			zap.String("grand_total", e.GrandTotal.String()),
			zap.Int("item_count", e.ItemCount),
		)
	case *billing.InvoiceUpdatedEvent:
		h.logger.Info("audit: invoice updated",
			zap.String("invoice_id", e.AggregateID().String()),
			zap.String("invoice_number", e.InvoiceNumber),
			zap.String("grand_total", e.GrandTotal.String()),
		)
	case *billing.PaymentAppliedEvent:
		h.logger.Info("audit: payment applied",
			zap.String("payment_id", e.AggregateID().String()),
			zap.String("invoice_id", e.InvoiceID.String()),
			zap.String("amount_paid", e.AmountPaid.String()),
			zap.String("balance_amount", e.BalanceAmount.String()),
			zap.String("excess_amount", e.ExcessAmount.String()),
			zap.String("invoice_status", string(e.InvoiceStatus)),
		)
	default:
		h.logger.Debug("audit: unrecognized billing event",
			zap.String("event_type", event.EventType()),
		)
	}
	return nil
}

// Ensure SettlementAuditHandler implements EventHandler
var _ shared.EventHandler = (*SettlementAuditHandler)(nil)
