package returns

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storemate/backend/internal/application/validation"
	"github.com/storemate/backend/internal/domain/billing"
	"github.com/storemate/backend/internal/domain/inventory"
	"github.com/storemate/backend/internal/domain/returns"
	"github.com/storemate/backend/internal/domain/shared"
)

// ReturnService drives the return, exchange and damage workflows. Each
// operation validates the returnable quantity against what the invoice
// actually sold minus what earlier returns already took back, then applies
// the return record, the stock mutation and the ledger rows in one
// transaction.
type ReturnService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewReturnService creates a new ReturnService
func NewReturnService(scope TransactionScope, logger *zap.Logger) *ReturnService {
	return &ReturnService{
		scope:  scope,
		logger: logger,
	}
}

// returnableLine resolves the invoice line for a product and checks the
// requested quantity against what remains returnable
func (s *ReturnService) returnableLine(ctx context.Context, repos TransactionalRepositories, invoiceID, productID uuid.UUID, quantity int64) (*billing.Invoice, *billing.InvoiceItem, error) {
	inv, err := repos.InvoiceRepo().FindByID(ctx, invoiceID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, nil, shared.NewDomainError("INVOICE_NOT_FOUND", fmt.Sprintf("Invoice %s does not exist", invoiceID))
		}
		return nil, nil, err
	}

	item := inv.ItemForProduct(productID)
	if item == nil {
		return nil, nil, shared.NewDomainError("INVALID_INPUT", "Product was not sold on this invoice")
	}

	alreadyReturned, err := repos.ProductReturnRepo().SumReturnedQuantity(ctx, invoiceID, productID)
	if err != nil {
		return nil, nil, err
	}
	remaining := item.Quantity - alreadyReturned
	if quantity > remaining {
		return nil, nil, shared.NewDomainError("EXCEEDS_RETURNABLE_QUANTITY",
			fmt.Sprintf("Cannot return %d of %s: only %d remaining returnable", quantity, item.ProductName, remaining))
	}
	return inv, item, nil
}

// ValidateReturnQuantity checks whether qty of a product is still
// returnable against an invoice without changing anything
func (s *ReturnService) ValidateReturnQuantity(ctx context.Context, invoiceID, productID uuid.UUID, quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Return quantity must be positive")
	}
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		_, _, err := s.returnableLine(ctx, repos, invoiceID, productID, quantity)
		return err
	})
}

// finalUnitPrice is the tax-inclusive, discount-adjusted price the
// customer actually paid per unit of an invoice line
func finalUnitPrice(item *billing.InvoiceItem) decimal.Decimal {
	return item.TotalPrice.Div(decimal.NewFromInt(item.Quantity)).Round(2)
}

// ProcessReturn handles a plain return: the units go back into stock and
// the customer is refunded what they actually paid for them
func (s *ReturnService) ProcessReturn(ctx context.Context, req ProcessReturnRequest) (*ProductReturnResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	var response ProductReturnResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, item, err := s.returnableLine(ctx, repos, req.InvoiceID, req.ProductID, req.Quantity)
		if err != nil {
			return err
		}

		returnNumber, err := repos.ProductReturnRepo().NextReturnNumber(ctx, time.Now())
		if err != nil {
			return err
		}
		record, err := returns.NewSimpleReturn(returnNumber, inv.ID, inv.CustomerID,
			req.ProductID, item.ProductName, req.Quantity, finalUnitPrice(item), req.Reason)
		if err != nil {
			return err
		}

		product, err := repos.ProductRepo().FindByIDForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if err := product.IncreaseStock(req.Quantity); err != nil {
			return err
		}
		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}

		returnTx, err := inventory.NewReturnTransaction(req.ProductID, &inv.ID, req.Quantity, returnNumber, req.Reason)
		if err != nil {
			return err
		}
		if err := repos.StockTransactionRepo().Save(ctx, returnTx); err != nil {
			return err
		}

		if err := record.MarkProcessed(); err != nil {
			return err
		}
		if err := repos.ProductReturnRepo().Save(ctx, record); err != nil {
			return err
		}

		response = ToProductReturnResponse(record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Return processed",
		zap.String("return_number", response.ReturnNumber),
		zap.String("invoice_id", req.InvoiceID.String()),
		zap.String("refund_amount", response.RefundAmount.String()))
	return &response, nil
}

// ProcessExchange swaps returned units for another product. The price
// difference is settled outside: positive means the customer owes it,
// negative means a refund is owed.
func (s *ReturnService) ProcessExchange(ctx context.Context, req ProcessExchangeRequest) (*ProductReturnResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	var response ProductReturnResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, item, err := s.returnableLine(ctx, repos, req.InvoiceID, req.ProductID, req.Quantity)
		if err != nil {
			return err
		}

		newProduct, err := repos.ProductRepo().FindByIDForUpdate(ctx, req.NewProductID)
		if err != nil {
			if err == shared.ErrNotFound {
				return shared.NewDomainError("PRODUCT_NOT_FOUND", fmt.Sprintf("Product %s does not exist", req.NewProductID))
			}
			return err
		}
		if !newProduct.CanFulfill(req.ExchangeQuantity) {
			return shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Insufficient stock for %s: have %d, need %d", newProduct.Name, newProduct.QuantityInStock, req.ExchangeQuantity))
		}

		returnNumber, err := repos.ProductReturnRepo().NextReturnNumber(ctx, time.Now())
		if err != nil {
			return err
		}

		oldFinal := finalUnitPrice(item).Mul(decimal.NewFromInt(req.Quantity)).Round(2)
		newTotal := newProduct.SellingPrice.Mul(decimal.NewFromInt(req.ExchangeQuantity)).Round(2)
		priceDifference := newTotal.Sub(oldFinal).Round(2)

		record, err := returns.NewExchangeReturn(returnNumber, inv.ID, inv.CustomerID,
			req.ProductID, item.ProductName, req.Quantity, returns.ExchangeDetail{
				NewProductID:     newProduct.ID,
				NewProductName:   newProduct.Name,
				ExchangeQuantity: req.ExchangeQuantity,
				NewUnitPrice:     newProduct.SellingPrice,
				PriceDifference:  priceDifference,
			}, req.Reason)
		if err != nil {
			return err
		}

		returnTx, err := inventory.NewReturnTransaction(req.ProductID, &inv.ID, req.Quantity, returnNumber, "Exchange")
		if err != nil {
			return err
		}
		if err := repos.StockTransactionRepo().Save(ctx, returnTx); err != nil {
			return err
		}
		if req.Resaleable {
			oldProduct, err := repos.ProductRepo().FindByIDForUpdate(ctx, req.ProductID)
			if err != nil {
				return err
			}
			if err := oldProduct.IncreaseStock(req.Quantity); err != nil {
				return err
			}
			if err := repos.ProductRepo().Save(ctx, oldProduct); err != nil {
				return err
			}
		} else {
			// Non-resaleable units never re-enter sellable stock: the return
			// row is offset by a write-off adjustment so the ledger nets zero.
			writeOff, err := inventory.NewAdjustmentTransaction(req.ProductID, -req.Quantity, "Exchange return written off as non-resaleable")
			if err != nil {
				return err
			}
			if err := repos.StockTransactionRepo().Save(ctx, writeOff); err != nil {
				return err
			}
		}

		if err := newProduct.DecreaseStock(req.ExchangeQuantity); err != nil {
			return err
		}
		if err := repos.ProductRepo().Save(ctx, newProduct); err != nil {
			return err
		}
		exchangeTx, err := inventory.NewSaleTransaction(newProduct.ID, inv.ID, req.ExchangeQuantity, returnNumber)
		if err != nil {
			return err
		}
		exchangeTx.Notes = "Exchange"
		if err := repos.StockTransactionRepo().Save(ctx, exchangeTx); err != nil {
			return err
		}

		if err := record.MarkProcessed(); err != nil {
			return err
		}
		if err := repos.ProductReturnRepo().Save(ctx, record); err != nil {
			return err
		}

		response = ToProductReturnResponse(record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Exchange processed",
		zap.String("return_number", response.ReturnNumber),
		zap.String("price_difference", response.PriceDifference.String()))
	return &response, nil
}

// ProcessDamage handles a damaged sold item. The unit leaves sellable
// inventory toward the supplier either way; refund pays the customer back
// at purchase cost, replacement promises a unit once the supplier
// delivers one (restocked via ReceiveSupplierReplacement).
func (s *ReturnService) ProcessDamage(ctx context.Context, req ProcessDamageRequest) (*ProductReturnResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	resolution := returns.DamageResolution(req.Resolution)
	if !resolution.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown damage resolution %q", req.Resolution))
	}
	level := returns.DamageLevel(req.DamageLevel)
	if !level.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown damage level %q", req.DamageLevel))
	}

	var response ProductReturnResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, item, err := s.returnableLine(ctx, repos, req.InvoiceID, req.ProductID, req.Quantity)
		if err != nil {
			return err
		}

		product, err := repos.ProductRepo().FindByIDForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}

		returnNumber, err := repos.ProductReturnRepo().NextReturnNumber(ctx, time.Now())
		if err != nil {
			return err
		}
		record, err := returns.NewDamageReturn(returnNumber, inv.ID, inv.CustomerID,
			req.ProductID, item.ProductName, req.Quantity, resolution, product.PurchasePrice, req.Reason)
		if err != nil {
			return err
		}

		damaged, err := returns.NewDamagedProduct(product.ID, product.Name, req.Quantity, level, req.StorageLocation)
		if err != nil {
			return err
		}
		damaged.LinkReturn(record.ID)

		// the unit leaves inventory toward the supplier
		if err := product.DecreaseStock(req.Quantity); err != nil {
			return err
		}
		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}

		txType := inventory.TransactionTypeDamageRefund
		if resolution == returns.DamageResolutionReplacement {
			txType = inventory.TransactionTypeDamageReplacement
		}
		damageTx, err := inventory.NewDamageTransaction(txType, product.ID, &req.SupplierID, req.Quantity, returnNumber)
		if err != nil {
			return err
		}
		if err := repos.StockTransactionRepo().Save(ctx, damageTx); err != nil {
			return err
		}

		supplierNumber, err := repos.SupplierReturnRepo().NextReturnNumber(ctx, time.Now())
		if err != nil {
			return err
		}
		supplierReturn, err := returns.NewSupplierReturn(supplierNumber, req.SupplierID, product.ID,
			product.Name, req.Quantity, returns.SupplierReturnMode(resolution), product.PurchasePrice, req.Reason)
		if err != nil {
			return err
		}
		if err := damaged.MarkReturnedToSupplier(supplierReturn.ID); err != nil {
			return err
		}

		if resolution == returns.DamageResolutionRefund {
			if err := record.MarkPaid(); err != nil {
				return err
			}
		} else {
			if err := record.MarkReplaced(); err != nil {
				return err
			}
		}

		if err := repos.SupplierReturnRepo().Save(ctx, supplierReturn); err != nil {
			return err
		}
		if err := repos.DamagedProductRepo().Save(ctx, damaged); err != nil {
			return err
		}
		if err := repos.ProductReturnRepo().Save(ctx, record); err != nil {
			return err
		}

		response = ToProductReturnResponse(record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Damage processed",
		zap.String("return_number", response.ReturnNumber),
		zap.String("resolution", req.Resolution),
		zap.String("refund_amount", response.RefundAmount.String()))
	return &response, nil
}

// ReceiveSupplierReplacement books the arrival of replacement units for a
// damage sent back to the supplier: the supplier return settles, stock is
// re-incremented and a Purchase ledger row records the inbound units.
func (s *ReturnService) ReceiveSupplierReplacement(ctx context.Context, supplierReturnID uuid.UUID) (*SupplierReturnResponse, error) {
	var response SupplierReturnResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		supplierReturn, err := repos.SupplierReturnRepo().FindByID(ctx, supplierReturnID)
		if err != nil {
			if err == shared.ErrNotFound {
				return shared.NewDomainError("SUPPLIER_RETURN_NOT_FOUND", fmt.Sprintf("Supplier return %s does not exist", supplierReturnID))
			}
			return err
		}

		if err := supplierReturn.MarkReplacementReceived(); err != nil {
			return err
		}

		product, err := repos.ProductRepo().FindByIDForUpdate(ctx, supplierReturn.ProductID)
		if err != nil {
			return err
		}
		if err := product.IncreaseStock(supplierReturn.Quantity); err != nil {
			return err
		}
		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}

		inboundTx, err := inventory.NewStockTransaction(inventory.TransactionTypePurchase, &product.ID, supplierReturn.Quantity)
		if err != nil {
			return err
		}
		inboundTx.SupplierID = &supplierReturn.SupplierID
		inboundTx.ReferenceNumber = supplierReturn.ReturnNumber
		inboundTx.Notes = "Replacement received"
		if err := repos.StockTransactionRepo().Save(ctx, inboundTx); err != nil {
			return err
		}

		if err := repos.SupplierReturnRepo().Save(ctx, supplierReturn); err != nil {
			return err
		}

		response = ToSupplierReturnResponse(supplierReturn)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Supplier replacement received",
		zap.String("return_number", response.ReturnNumber),
		zap.Int64("quantity", response.Quantity))
	return &response, nil
}

// ReceiveSupplierRefund settles a refund-mode supplier return
func (s *ReturnService) ReceiveSupplierRefund(ctx context.Context, supplierReturnID uuid.UUID) (*SupplierReturnResponse, error) {
	var response SupplierReturnResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		supplierReturn, err := repos.SupplierReturnRepo().FindByID(ctx, supplierReturnID)
		if err != nil {
			return err
		}
		if err := supplierReturn.MarkRefundReceived(); err != nil {
			return err
		}
		if err := repos.SupplierReturnRepo().Save(ctx, supplierReturn); err != nil {
			return err
		}
		response = ToSupplierReturnResponse(supplierReturn)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ListByInvoice returns all return records for an invoice
func (s *ReturnService) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]ProductReturnResponse, error) {
	var responses []ProductReturnResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		records, err := repos.ProductReturnRepo().FindByInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		responses = make([]ProductReturnResponse, 0, len(records))
		for i := range records {
			responses = append(responses, ToProductReturnResponse(&records[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}
