package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storemate/backend/internal/application/validation"
	"github.com/storemate/backend/internal/domain/inventory"
	"github.com/storemate/backend/internal/domain/shared"
)

// PurchaseService handles supplier deliveries and their payment state.
// A delivery becomes one Purchase ledger row (aggregate quantity) plus a
// structured PurchasePayment record; the ledger row's notes also carry the
// payment state as a JSON blob so older tooling keeps working.
type PurchaseService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(scope TransactionScope, logger *zap.Logger) *PurchaseService {
	return &PurchaseService{
		scope:  scope,
		logger: logger,
	}
}

// AddStock books a supplier delivery: increments stock per product line,
// appends the batch Purchase ledger row and opens its payment record
func (s *PurchaseService) AddStock(ctx context.Context, req AddStockRequest) (*PurchaseResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.PaymentAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment amount cannot be negative")
	}

	var response PurchaseResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var (
			lines           []inventory.ProductLine
			totalQuantity   int64
			calculatedTotal = decimal.Zero
		)
		for _, line := range req.Products {
			product, err := repos.ProductRepo().FindByIDForUpdate(ctx, line.ProductID)
			if err != nil {
				if err == shared.ErrNotFound {
					return shared.NewDomainError("PRODUCT_NOT_FOUND", fmt.Sprintf("Product %s does not exist", line.ProductID))
				}
				return err
			}
			if err := product.IncreaseStock(line.Quantity); err != nil {
				return err
			}
			if err := repos.ProductRepo().Save(ctx, product); err != nil {
				return err
			}

			amount := product.PurchasePrice.Mul(decimal.NewFromInt(line.Quantity)).Round(2)
			calculatedTotal = calculatedTotal.Add(amount).Round(2)
			totalQuantity += line.Quantity
			lines = append(lines, inventory.ProductLine{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   product.PurchasePrice,
				Amount:      amount,
			})
		}

		totalAmount := calculatedTotal
		if req.TotalAmount != nil {
			totalAmount = *req.TotalAmount
		}

		reference, err := repos.StockTransactionRepo().NextPurchaseNumber(ctx, time.Now())
		if err != nil {
			return err
		}
		purchaseTx, err := inventory.NewPurchaseTransaction(req.SupplierID, totalQuantity, reference)
		if err != nil {
			return err
		}

		payment, err := inventory.NewPurchasePayment(purchaseTx.ID, req.SupplierID,
			totalAmount, req.PaymentAmount, req.PaymentMethod, req.TransactionReference, lines)
		if err != nil {
			return err
		}

		record, err := payment.ToLedgerRecord()
		if err != nil {
			return err
		}
		notes, err := record.Encode()
		if err != nil {
			return err
		}
		purchaseTx.Notes = notes

		if err := repos.StockTransactionRepo().Save(ctx, purchaseTx); err != nil {
			return err
		}
		if err := repos.PurchasePaymentRepo().Save(ctx, payment); err != nil {
			return err
		}

		response, err = toPurchaseResponse(purchaseTx, payment)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock added from supplier",
		zap.String("supplier_id", req.SupplierID.String()),
		zap.String("reference", response.ReferenceNumber),
		zap.Int64("total_quantity", response.TotalQuantity),
		zap.String("total_amount", response.TotalAmount.String()))
	return &response, nil
}

// UpdatePayment adds an amount to a purchase's payment state. Overpayment
// is clamped at the total; a purchase whose balance is already within one
// paisa of zero refuses further payments.
func (s *PurchaseService) UpdatePayment(ctx context.Context, transactionID uuid.UUID, req UpdatePurchasePaymentRequest) (*PurchaseResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var response PurchaseResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		tx, err := repos.StockTransactionRepo().FindByID(ctx, transactionID)
		if err != nil {
			if err == shared.ErrNotFound {
				return shared.NewDomainError("PURCHASE_NOT_FOUND", fmt.Sprintf("Purchase %s does not exist", transactionID))
			}
			return err
		}
		if tx.TransactionType != inventory.TransactionTypePurchase {
			return shared.NewDomainError("INVALID_STATE", "Transaction is not a purchase")
		}

		payment, err := repos.PurchasePaymentRepo().FindByTransactionIDForUpdate(ctx, tx.ID)
		if err != nil {
			return err
		}

		if err := payment.AddPayment(req.AdditionalAmount, req.PaymentMethod, req.TransactionReference); err != nil {
			return err
		}

		record, err := payment.ToLedgerRecord()
		if err != nil {
			return err
		}
		notes, err := record.Encode()
		if err != nil {
			return err
		}
		tx.Notes = notes

		if err := repos.PurchasePaymentRepo().Save(ctx, payment); err != nil {
			return err
		}
		if err := repos.StockTransactionRepo().Save(ctx, tx); err != nil {
			return err
		}

		response, err = toPurchaseResponse(tx, payment)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Purchase payment updated",
		zap.String("transaction_id", transactionID.String()),
		zap.String("payment_amount", response.PaymentAmount.String()),
		zap.String("status", response.PaymentStatus))
	return &response, nil
}

// GetPurchase reads a purchase batch together with its payment state
func (s *PurchaseService) GetPurchase(ctx context.Context, transactionID uuid.UUID) (*PurchaseResponse, error) {
	var response PurchaseResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		tx, err := repos.StockTransactionRepo().FindByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if tx.TransactionType != inventory.TransactionTypePurchase {
			return shared.NewDomainError("INVALID_STATE", "Transaction is not a purchase")
		}
		payment, err := repos.PurchasePaymentRepo().FindByTransactionID(ctx, tx.ID)
		if err != nil {
			return err
		}
		response, err = toPurchaseResponse(tx, payment)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}
