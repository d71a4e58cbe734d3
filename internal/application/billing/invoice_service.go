package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storemate/backend/internal/application/validation"
	"github.com/storemate/backend/internal/domain/billing"
	"github.com/storemate/backend/internal/domain/catalog"
	"github.com/storemate/backend/internal/domain/inventory"
	"github.com/storemate/backend/internal/domain/shared"
)

// InvoiceService orchestrates the invoice lifecycle: pricing every line,
// decrementing product stock under row locks, appending Sale ledger rows,
// and opening the linked payment expectation. Every operation runs inside
// one transaction; any failure rolls back all stock and ledger effects of
// the call.
type InvoiceService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(scope TransactionScope, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		scope:  scope,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvents drains an aggregate's recorded events to the publisher.
// The transaction has already committed, so failures are logged rather
// than returned.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, agg shared.AggregateRoot) {
	if publisher == nil {
		return
	}
	for _, event := range agg.GetDomainEvents() {
		if err := publisher.Publish(ctx, event); err != nil {
			logger.Warn("Failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	agg.ClearDomainEvents()
}

func parseDiscountType(s string) (billing.DiscountType, error) {
	if s == "" {
		return billing.DiscountTypeAmount, nil
	}
	dt := billing.DiscountType(s)
	if !dt.IsValid() {
		return "", shared.NewDomainError("INVALID_DISCOUNT_TYPE", fmt.Sprintf("Unknown discount type %q", s))
	}
	return dt, nil
}

// resolveRates looks up the product's category for tax rates and HSN code.
// Products without a category are priced with zero rates.
func resolveRates(ctx context.Context, categoryRepo catalog.CategoryRepository, product *catalog.Product) (catalog.TaxRates, string, error) {
	if product.CategoryID == nil {
		return catalog.TaxRates{}, "", nil
	}
	category, err := categoryRepo.FindByID(ctx, *product.CategoryID)
	if err != nil {
		return catalog.TaxRates{}, "", err
	}
	return category.Rates(), category.HSNCode, nil
}

// processItems prices and applies the request lines onto the invoice:
// stock sufficiency check, stock decrement, Sale ledger row per line.
// Products are loaded under FOR UPDATE so concurrent sales serialize.
func (s *InvoiceService) processItems(ctx context.Context, repos TransactionalRepositories, inv *billing.Invoice, items []CreateInvoiceItemInput) error {
	for _, item := range items {
		product, err := repos.ProductRepo().FindByIDForUpdate(ctx, item.ProductID)
		if err != nil {
			if err == shared.ErrNotFound {
				return shared.NewDomainError("PRODUCT_NOT_FOUND", fmt.Sprintf("Product %s does not exist", item.ProductID))
			}
			return err
		}

		if !product.CanFulfill(item.Quantity) {
			return shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Insufficient stock for %s: have %d, need %d", product.Name, product.QuantityInStock, item.Quantity))
		}

		discountType, err := parseDiscountType(item.DiscountType)
		if err != nil {
			return err
		}

		rates, hsnCode, err := resolveRates(ctx, repos.CategoryRepo(), product)
		if err != nil {
			return err
		}

		if _, err := inv.AddItem(product, hsnCode, item.Quantity, item.DiscountPerItem, discountType, rates); err != nil {
			return err
		}

		if err := product.DecreaseStock(item.Quantity); err != nil {
			return err
		}
		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}

		saleTx, err := inventory.NewSaleTransaction(product.ID, inv.ID, item.Quantity, inv.InvoiceNumber)
		if err != nil {
			return err
		}
		if err := repos.StockTransactionRepo().Save(ctx, saleTx); err != nil {
			return err
		}
	}
	return nil
}

// Create creates an invoice with all its line items, stock effects and
// ledger rows, plus the linked payment expectation row
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	additionalDiscountType, err := parseDiscountType(req.AdditionalDiscountType)
	if err != nil {
		return nil, err
	}

	var response InvoiceResponse
	var created *billing.Invoice
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoiceNumber, err := repos.InvoiceRepo().NextInvoiceNumber(ctx, time.Now())
		if err != nil {
			return err
		}

		inv, err := billing.NewInvoice(invoiceNumber, req.CustomerID)
		if err != nil {
			return err
		}

		if err := s.processItems(ctx, repos, inv, req.Items); err != nil {
			return err
		}

		if err := inv.Finalize(req.AdditionalDiscount, additionalDiscountType, req.ShippingCharges, req.OtherCharges); err != nil {
			return err
		}
		inv.SetPaymentTerms(req.PaymentTerms)
		if req.DueDate != nil {
			inv.SetDueDate(*req.DueDate)
		}
		inv.Notes = req.Notes

		if err := inv.CheckTotals(); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return err
		}

		expectation, err := billing.NewPaymentExpectation(inv.ID, inv.CustomerID, inv.GrandTotal)
		if err != nil {
			return err
		}
		if err := repos.PaymentRepo().Save(ctx, expectation); err != nil {
			return err
		}

		response = ToInvoiceResponse(inv)
		created = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, created)

	s.logger.Info("Invoice created",
		zap.String("invoice_number", response.InvoiceNumber),
		zap.String("customer_id", response.CustomerID.String()),
		zap.String("grand_total", response.GrandTotal.String()))
	return &response, nil
}

// Update replaces an invoice's item list and/or non-item fields. When new
// items are supplied, every existing line's stock effect is reversed first
// (stock incremented, a Return ledger row appended), the lines are deleted,
// and the new list is processed from scratch. The linked payment
// expectation is refreshed to the new grand total.
func (s *InvoiceService) Update(ctx context.Context, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.Items != nil && len(*req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invoice requires at least one item")
	}

	var response InvoiceResponse
	var updated *billing.Invoice
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}

		if req.Items != nil {
			if err := s.reverseItems(ctx, repos, inv); err != nil {
				return err
			}
			if err := repos.InvoiceRepo().DeleteItems(ctx, inv.ID); err != nil {
				return err
			}
			inv.ClearItems()
			if err := s.processItems(ctx, repos, inv, *req.Items); err != nil {
				return err
			}
		}

		if req.PaymentTerms != nil {
			inv.SetPaymentTerms(*req.PaymentTerms)
		}
		if req.DueDate != nil {
			inv.SetDueDate(*req.DueDate)
		}
		if req.Notes != nil {
			inv.Notes = *req.Notes
		}

		additionalDiscount := inv.AdditionalDiscount
		additionalDiscountType := inv.AdditionalDiscountType
		shipping := inv.ShippingCharges
		other := inv.OtherCharges
		if req.AdditionalDiscount != nil {
			additionalDiscount = *req.AdditionalDiscount
		}
		if req.AdditionalDiscountType != nil {
			additionalDiscountType, err = parseDiscountType(*req.AdditionalDiscountType)
			if err != nil {
				return err
			}
		}
		if req.ShippingCharges != nil {
			shipping = *req.ShippingCharges
		}
		if req.OtherCharges != nil {
			other = *req.OtherCharges
		}

		if err := inv.Finalize(additionalDiscount, additionalDiscountType, shipping, other); err != nil {
			return err
		}
		if err := inv.CheckTotals(); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return err
		}

		if err := s.refreshExpectation(ctx, repos, inv); err != nil {
			return err
		}

		inv.AddDomainEvent(billing.NewInvoiceUpdatedEvent(inv))
		response = ToInvoiceResponse(inv)
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, updated)

	s.logger.Info("Invoice updated",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("grand_total", response.GrandTotal.String()))
	return &response, nil
}

// reverseItems puts every line's quantity back into stock and appends a
// Return ledger row tagged as an invoice update
func (s *InvoiceService) reverseItems(ctx context.Context, repos TransactionalRepositories, inv *billing.Invoice) error {
	for _, item := range inv.Items {
		product, err := repos.ProductRepo().FindByIDForUpdate(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if err := product.IncreaseStock(item.Quantity); err != nil {
			return err
		}
		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}

		returnTx, err := inventory.NewReturnTransaction(item.ProductID, &inv.ID, item.Quantity, inv.InvoiceNumber, "Invoice Update")
		if err != nil {
			return err
		}
		if err := repos.StockTransactionRepo().Save(ctx, returnTx); err != nil {
			return err
		}
	}
	return nil
}

// refreshExpectation re-points the invoice's zero-paid expectation row at
// the new grand total
func (s *InvoiceService) refreshExpectation(ctx context.Context, repos TransactionalRepositories, inv *billing.Invoice) error {
	payments, err := repos.PaymentRepo().FindByInvoice(ctx, inv.ID)
	if err != nil {
		return err
	}
	for i := range payments {
		if payments[i].AmountPaid.IsZero() {
			payments[i].RefreshExpectation(inv.GrandTotal)
			if err := repos.PaymentRepo().Save(ctx, &payments[i]); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

// Delete removes an invoice with its items and payments. Stock already
// sold against the invoice is not restored; returns go through the return
// workflow instead.
func (s *InvoiceService) Delete(ctx context.Context, invoiceID uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.InvoiceRepo().FindByID(ctx, invoiceID); err != nil {
			return err
		}
		if err := repos.PaymentRepo().DeleteByInvoice(ctx, invoiceID); err != nil {
			return err
		}
		return repos.InvoiceRepo().Delete(ctx, invoiceID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Invoice deleted", zap.String("invoice_id", invoiceID.String()))
	return nil
}

// Get loads one invoice with its items
func (s *InvoiceService) Get(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	var response InvoiceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		response = ToInvoiceResponse(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List returns invoices matching the filter
func (s *InvoiceService) List(ctx context.Context, filter shared.Filter) ([]InvoiceResponse, error) {
	var responses []InvoiceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoices, err := repos.InvoiceRepo().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		responses = make([]InvoiceResponse, 0, len(invoices))
		for i := range invoices {
			responses = append(responses, ToInvoiceResponse(&invoices[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}
