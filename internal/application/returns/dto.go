package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storemate/backend/internal/domain/returns"
)

// ProcessReturnRequest represents a plain customer return
type ProcessReturnRequest struct {
	InvoiceID uuid.UUID `json:"invoice_id" binding:"required"`
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
	Reason    string    `json:"reason"`
}

// ProcessExchangeRequest represents an exchange of an invoiced product for
// another one. Resaleable controls whether the returned units go back into
// sellable stock.
type ProcessExchangeRequest struct {
	InvoiceID        uuid.UUID `json:"invoice_id" binding:"required"`
	ProductID        uuid.UUID `json:"product_id" binding:"required"`
	Quantity         int64     `json:"quantity" binding:"required,gt=0"`
	NewProductID     uuid.UUID `json:"new_product_id" binding:"required"`
	ExchangeQuantity int64     `json:"exchange_quantity" binding:"required,gt=0"`
	Resaleable       bool      `json:"resaleable"`
	Reason           string    `json:"reason"`
}

// ProcessDamageRequest represents a damaged sold item coming back.
// Resolution selects the settlement: refund (money back, valued at
// purchase price) or replacement (a physical unit once the supplier
// delivers it).
type ProcessDamageRequest struct {
	InvoiceID       uuid.UUID `json:"invoice_id" binding:"required"`
	ProductID       uuid.UUID `json:"product_id" binding:"required"`
	Quantity        int64     `json:"quantity" binding:"required,gt=0"`
	Resolution      string    `json:"resolution" binding:"required,oneof=refund replacement"`
	DamageLevel     string    `json:"damage_level" binding:"required,oneof=Minor Moderate Severe"`
	StorageLocation string    `json:"storage_location"`
	SupplierID      uuid.UUID `json:"supplier_id" binding:"required"`
	Reason          string    `json:"reason"`
}

// ProductReturnResponse represents a customer return in responses
type ProductReturnResponse struct {
	ID               uuid.UUID        `json:"id"`
	ReturnNumber     string           `json:"return_number"`
	InvoiceID        uuid.UUID        `json:"invoice_id"`
	CustomerID       uuid.UUID        `json:"customer_id"`
	ProductID        uuid.UUID        `json:"product_id"`
	ProductName      string           `json:"product_name"`
	QuantityReturned int64            `json:"quantity_returned"`
	ReturnType       string           `json:"return_type"`
	RefundAmount     decimal.Decimal  `json:"refund_amount"`
	PriceDifference  *decimal.Decimal `json:"price_difference,omitempty"`
	Status           string           `json:"status"`
	Reason           string           `json:"reason"`
	ProcessedAt      *time.Time       `json:"processed_at"`
	CreatedAt        time.Time        `json:"created_at"`
}

// SupplierReturnResponse represents a supplier return in responses
type SupplierReturnResponse struct {
	ID             uuid.UUID       `json:"id"`
	ReturnNumber   string          `json:"return_number"`
	SupplierID     uuid.UUID       `json:"supplier_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Quantity       int64           `json:"quantity"`
	Mode           string          `json:"mode"`
	ExpectedRefund decimal.Decimal `json:"expected_refund"`
	Status         string          `json:"status"`
	ReturnedAt     *time.Time      `json:"returned_at"`
	ReceivedAt     *time.Time      `json:"received_at"`
}

// ToProductReturnResponse converts a domain return to a response DTO
func ToProductReturnResponse(r *returns.ProductReturn) ProductReturnResponse {
	resp := ProductReturnResponse{
		ID:               r.ID,
		ReturnNumber:     r.ReturnNumber,
		InvoiceID:        r.InvoiceID,
		CustomerID:       r.CustomerID,
		ProductID:        r.ProductID,
		ProductName:      r.ProductName,
		QuantityReturned: r.QuantityReturned,
		ReturnType:       r.ReturnType.String(),
		RefundAmount:     r.RefundAmount,
		Status:           r.Status.String(),
		Reason:           r.Reason,
		ProcessedAt:      r.ProcessedAt,
		CreatedAt:        r.CreatedAt,
	}
	if r.Exchange != nil {
		diff := r.Exchange.PriceDifference
		resp.PriceDifference = &diff
	}
	return resp
}

// ToSupplierReturnResponse converts a domain supplier return to a response DTO
func ToSupplierReturnResponse(sr *returns.SupplierReturn) SupplierReturnResponse {
	return SupplierReturnResponse{
		ID:             sr.ID,
		ReturnNumber:   sr.ReturnNumber,
		SupplierID:     sr.SupplierID,
		ProductID:      sr.ProductID,
		ProductName:    sr.ProductName,
		Quantity:       sr.Quantity,
		Mode:           sr.Mode.String(),
		ExpectedRefund: sr.ExpectedRefund,
		Status:         sr.Status.String(),
		ReturnedAt:     sr.ReturnedAt,
		ReceivedAt:     sr.ReceivedAt,
	}
}
