package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storemate/backend/internal/domain/billing"
)

// ==================== Invoice DTOs ====================

// CreateInvoiceItemInput represents one line in a create/update invoice request
type CreateInvoiceItemInput struct {
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	Quantity        int64           `json:"quantity" binding:"required,gt=0"`
	DiscountPerItem decimal.Decimal `json:"discount_per_item"`
	DiscountType    string          `json:"discount_type" binding:"omitempty,oneof=percentage amount"`
}

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	CustomerID             uuid.UUID                `json:"customer_id" binding:"required"`
	Items                  []CreateInvoiceItemInput `json:"items" binding:"required,min=1,dive"`
	PaymentTerms           string                   `json:"payment_terms"`
	ShippingCharges        decimal.Decimal          `json:"shipping_charges"`
	OtherCharges           decimal.Decimal          `json:"other_charges"`
	AdditionalDiscount     decimal.Decimal          `json:"additional_discount"`
	AdditionalDiscountType string                   `json:"additional_discount_type" binding:"omitempty,oneof=percentage amount"`
	DueDate                *time.Time               `json:"due_date"`
	Notes                  string                   `json:"notes"`
}

// UpdateInvoiceRequest represents a request to update an invoice.
// When Items is nil only the non-item fields are touched; when Items is
// supplied the whole item list is replaced and all totals recomputed.
type UpdateInvoiceRequest struct {
	Items                  *[]CreateInvoiceItemInput `json:"items"`
	PaymentTerms           *string                   `json:"payment_terms"`
	ShippingCharges        *decimal.Decimal          `json:"shipping_charges"`
	OtherCharges           *decimal.Decimal          `json:"other_charges"`
	AdditionalDiscount     *decimal.Decimal          `json:"additional_discount"`
	AdditionalDiscountType *string                   `json:"additional_discount_type" binding:"omitempty,oneof=percentage amount"`
	DueDate                *time.Time                `json:"due_date"`
	Notes                  *string                   `json:"notes"`
}

// InvoiceItemResponse represents an invoice line in responses
type InvoiceItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	HSNCode         string          `json:"hsn_code"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPerItem decimal.Decimal `json:"discount_per_item"`
	DiscountType    string          `json:"discount_type"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	CGSTAmount      decimal.Decimal `json:"cgst_amount"`
	SGSTAmount      decimal.Decimal `json:"sgst_amount"`
	IGSTAmount      decimal.Decimal `json:"igst_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	TotalPrice      decimal.Decimal `json:"total_price"`
}

// InvoiceResponse represents an invoice in responses
type InvoiceResponse struct {
	ID                       uuid.UUID             `json:"id"`
	InvoiceNumber            string                `json:"invoice_number"`
	CustomerID               uuid.UUID             `json:"customer_id"`
	Items                    []InvoiceItemResponse `json:"items"`
	TotalBeforeTax           decimal.Decimal       `json:"total_before_tax"`
	TaxAmount                decimal.Decimal       `json:"tax_amount"`
	CGSTAmount               decimal.Decimal       `json:"cgst_amount"`
	SGSTAmount               decimal.Decimal       `json:"sgst_amount"`
	IGSTAmount               decimal.Decimal       `json:"igst_amount"`
	DiscountAmount           decimal.Decimal       `json:"discount_amount"`
	ShippingCharges          decimal.Decimal       `json:"shipping_charges"`
	OtherCharges             decimal.Decimal       `json:"other_charges"`
	AdditionalDiscount       decimal.Decimal       `json:"additional_discount"`
	AdditionalDiscountType   string                `json:"additional_discount_type"`
	AdditionalDiscountAmount decimal.Decimal       `json:"additional_discount_amount"`
	GrandTotal               decimal.Decimal       `json:"grand_total"`
	Status                   string                `json:"status"`
	PaymentTerms             string                `json:"payment_terms"`
	DueDate                  *time.Time            `json:"due_date"`
	Notes                    string                `json:"notes"`
	CreatedAt                time.Time             `json:"created_at"`
	UpdatedAt                time.Time             `json:"updated_at"`
}

// ToInvoiceItemResponse converts a domain invoice item to a response DTO
func ToInvoiceItemResponse(item billing.InvoiceItem) InvoiceItemResponse {
	return InvoiceItemResponse{
		ID:              item.ID,
		ProductID:       item.ProductID,
		ProductName:     item.ProductName,
		HSNCode:         item.HSNCode,
		Quantity:        item.Quantity,
		UnitPrice:       item.UnitPrice,
		DiscountPerItem: item.DiscountPerItem,
		DiscountType:    item.DiscountType.String(),
		DiscountAmount:  item.DiscountAmount,
		CGSTAmount:      item.CGSTAmount,
		SGSTAmount:      item.SGSTAmount,
		IGSTAmount:      item.IGSTAmount,
		TaxAmount:       item.TaxAmount,
		TotalPrice:      item.TotalPrice,
	}
}

// ToInvoiceResponse converts a domain invoice to a response DTO
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, ToInvoiceItemResponse(item))
	}
	return InvoiceResponse{
		ID:                       inv.ID,
		InvoiceNumber:            inv.InvoiceNumber,
		CustomerID:               inv.CustomerID,
		Items:                    items,
		TotalBeforeTax:           inv.TotalBeforeTax,
		TaxAmount:                inv.TaxAmount,
		CGSTAmount:               inv.CGSTAmount,
		SGSTAmount:               inv.SGSTAmount,
		IGSTAmount:               inv.IGSTAmount,
		DiscountAmount:           inv.DiscountAmount,
		ShippingCharges:          inv.ShippingCharges,
		OtherCharges:             inv.OtherCharges,
		AdditionalDiscount:       inv.AdditionalDiscount,
		AdditionalDiscountType:   inv.AdditionalDiscountType.String(),
		AdditionalDiscountAmount: inv.AdditionalDiscountAmount,
		GrandTotal:               inv.GrandTotal,
		Status:                   inv.Status.String(),
		PaymentTerms:             inv.PaymentTerms,
		DueDate:                  inv.DueDate,
		Notes:                    inv.Notes,
		CreatedAt:                inv.CreatedAt,
		UpdatedAt:                inv.UpdatedAt,
	}
}

// ==================== Payment DTOs ====================

// CreatePaymentRequest represents a request to record a payment against an invoice
type CreatePaymentRequest struct {
	InvoiceID            uuid.UUID       `json:"invoice_id" binding:"required"`
	CustomerID           uuid.UUID       `json:"customer_id" binding:"required"`
	Amount               decimal.Decimal `json:"amount" binding:"required"`
	DiscountPercentage   decimal.Decimal `json:"discount_percentage"`
	Method               string          `json:"method" binding:"required"`
	BankDetails          string          `json:"bank_details"`
	TransactionReference string          `json:"transaction_reference"`
}

// AddPaymentRequest represents a request to add to an existing payment thread
type AddPaymentRequest struct {
	AdditionalAmount     decimal.Decimal `json:"additional_amount" binding:"required"`
	Method               string          `json:"method"`
	TransactionReference string          `json:"transaction_reference"`
}

// PaymentResponse represents a payment in responses
type PaymentResponse struct {
	ID                   uuid.UUID       `json:"id"`
	InvoiceID            uuid.UUID       `json:"invoice_id"`
	CustomerID           uuid.UUID       `json:"customer_id"`
	AmountBeforeDiscount decimal.Decimal `json:"amount_before_discount"`
	DiscountPercentage   decimal.Decimal `json:"discount_percentage"`
	DiscountAmount       decimal.Decimal `json:"discount_amount"`
	AmountPaid           decimal.Decimal `json:"amount_paid"`
	BalanceAmount        decimal.Decimal `json:"balance_amount"`
	ExcessAmount         decimal.Decimal `json:"excess_amount"`
	PaymentStatus        string          `json:"payment_status"`
	Method               string          `json:"method"`
	BankDetails          string          `json:"bank_details"`
	TransactionReference string          `json:"transaction_reference"`
	PaidAt               time.Time       `json:"paid_at"`
	CreatedAt            time.Time       `json:"created_at"`
}

// ToPaymentResponse converts a domain payment to a response DTO
func ToPaymentResponse(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                   p.ID,
		InvoiceID:            p.InvoiceID,
		CustomerID:           p.CustomerID,
		AmountBeforeDiscount: p.AmountBeforeDiscount,
		DiscountPercentage:   p.DiscountPercentage,
		DiscountAmount:       p.DiscountAmount,
		AmountPaid:           p.AmountPaid,
		BalanceAmount:        p.BalanceAmount,
		ExcessAmount:         p.ExcessAmount,
		PaymentStatus:        p.PaymentStatus.String(),
		Method:               p.Method.String(),
		BankDetails:          p.BankDetails,
		TransactionReference: p.TransactionReference,
		PaidAt:               p.PaidAt,
		CreatedAt:            p.CreatedAt,
	}
}
