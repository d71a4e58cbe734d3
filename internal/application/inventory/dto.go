package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storemate/backend/internal/domain/inventory"
)

// AddStockProductInput is one product line of a supplier delivery
type AddStockProductInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
}

// AddStockRequest represents a supplier delivery with its payment state.
// TotalAmount overrides the calculated cost when the supplier invoices a
// different figure; left nil, the sum of purchase_price x quantity is used.
type AddStockRequest struct {
	SupplierID           uuid.UUID              `json:"supplier_id" binding:"required"`
	Products             []AddStockProductInput `json:"products" binding:"required,min=1,dive"`
	TotalAmount          *decimal.Decimal       `json:"total_amount"`
	PaymentAmount        decimal.Decimal        `json:"payment_amount"`
	PaymentMethod        string                 `json:"payment_method"`
	TransactionReference string                 `json:"transaction_reference"`
}

// UpdatePurchasePaymentRequest adds an amount to a purchase's payment state
type UpdatePurchasePaymentRequest struct {
	AdditionalAmount     decimal.Decimal `json:"additional_amount" binding:"required"`
	PaymentMethod        string          `json:"payment_method"`
	TransactionReference string          `json:"transaction_reference"`
}

// PurchaseResponse represents a purchase batch with its payment state
type PurchaseResponse struct {
	TransactionID        uuid.UUID               `json:"transaction_id"`
	SupplierID           uuid.UUID               `json:"supplier_id"`
	ReferenceNumber      string                  `json:"reference_number"`
	TotalQuantity        int64                   `json:"total_quantity"`
	TotalAmount          decimal.Decimal         `json:"total_amount"`
	PaymentAmount        decimal.Decimal         `json:"payment_amount"`
	BalanceAmount        decimal.Decimal         `json:"balance_amount"`
	PaymentStatus        string                  `json:"payment_status"`
	PaymentMethod        string                  `json:"payment_method"`
	TransactionReference string                  `json:"transaction_reference"`
	Products             []inventory.ProductLine `json:"products"`
	TransactionDate      time.Time               `json:"transaction_date"`
}

// StockTransactionResponse represents one ledger row
type StockTransactionResponse struct {
	ID              uuid.UUID  `json:"id"`
	ProductID       *uuid.UUID `json:"product_id"`
	TransactionType string     `json:"transaction_type"`
	Quantity        int64      `json:"quantity"`
	SupplierID      *uuid.UUID `json:"supplier_id"`
	InvoiceID       *uuid.UUID `json:"invoice_id"`
	ReferenceNumber string     `json:"reference_number"`
	Notes           string     `json:"notes"`
	TransactionDate time.Time  `json:"transaction_date"`
}

// ToStockTransactionResponse converts a ledger row to a response DTO
func ToStockTransactionResponse(tx *inventory.StockTransaction) StockTransactionResponse {
	return StockTransactionResponse{
		ID:              tx.ID,
		ProductID:       tx.ProductID,
		TransactionType: tx.TransactionType.String(),
		Quantity:        tx.Quantity,
		SupplierID:      tx.SupplierID,
		InvoiceID:       tx.InvoiceID,
		ReferenceNumber: tx.ReferenceNumber,
		Notes:           tx.Notes,
		TransactionDate: tx.TransactionDate,
	}
}

// StockAuditResponse is the result of checking a product's stock against
// the signed sum of its ledger rows
type StockAuditResponse struct {
	ProductID       uuid.UUID `json:"product_id"`
	ProductName     string    `json:"product_name"`
	QuantityInStock int64     `json:"quantity_in_stock"`
	LedgerSum       int64     `json:"ledger_sum"`
	Consistent      bool      `json:"consistent"`
}

// toPurchaseResponse assembles the response from the ledger row and the
// structured payment record
func toPurchaseResponse(tx *inventory.StockTransaction, payment *inventory.PurchasePayment) (PurchaseResponse, error) {
	products, err := payment.Products()
	if err != nil {
		return PurchaseResponse{}, err
	}
	return PurchaseResponse{
		TransactionID:        tx.ID,
		SupplierID:           payment.SupplierID,
		ReferenceNumber:      tx.ReferenceNumber,
		TotalQuantity:        tx.Quantity,
		TotalAmount:          payment.TotalAmount,
		PaymentAmount:        payment.PaymentAmount,
		BalanceAmount:        payment.Balance(),
		PaymentStatus:        payment.PaymentStatus.String(),
		PaymentMethod:        payment.PaymentMethod,
		TransactionReference: payment.TransactionReference,
		Products:             products,
		TransactionDate:      tx.TransactionDate,
	}, nil
}
