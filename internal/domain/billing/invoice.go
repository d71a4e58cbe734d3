package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storemate/backend/internal/domain/catalog"
	"github.com/storemate/backend/internal/domain/shared"
)

// InvoiceStatus represents the payment state of an invoice.
// The status is derived: it is recomputed whenever a payment is applied.
type InvoiceStatus string

const (
	InvoiceStatusPending       InvoiceStatus = "Pending"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PartiallyPaid"
	InvoiceStatusPaid          InvoiceStatus = "Paid"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartiallyPaid, InvoiceStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsSettled returns true once the invoice is fully paid
func (s InvoiceStatus) IsSettled() bool {
	return s == InvoiceStatusPaid
}

// InvoiceItem is a line on an invoice. It snapshots the product's selling
// price and the category tax rates at creation time; later price or rate
// changes never alter an existing invoice. Items are immutable once created
// except through a full invoice update, which deletes and recreates them.
type InvoiceItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	HSNCode         string          `gorm:"type:varchar(20)"`
	Quantity        int64           `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountPerItem decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountType    DiscountType    `gorm:"type:varchar(20);not null;default:'amount'"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CGSTRate        decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	CGSTAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SGSTRate        decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	SGSTAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	IGSTRate        decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	IGSTAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// Invoice is the aggregate root for a customer invoice and its line items.
// Items are owned 1:N and cascade-deleted with the invoice.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber            string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	CustomerID               uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items                    []InvoiceItem   `gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE"`
	TotalBeforeTax           decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount                decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CGSTAmount               decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SGSTAmount               decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	IGSTAmount               decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount           decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"` // sum of line discounts
	ShippingCharges          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	OtherCharges             decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AdditionalDiscount       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"` // raw value as entered
	AdditionalDiscountType   DiscountType    `gorm:"type:varchar(20);not null;default:'amount'"`
	AdditionalDiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"` // resolved amount
	GrandTotal               decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status                   InvoiceStatus   `gorm:"type:varchar(20);not null;default:'Pending'"`
	PaymentTerms             string          `gorm:"type:varchar(100)"`
	DueDate                  *time.Time
	Notes                    string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates an empty invoice in Pending status
func NewInvoice(invoiceNumber string, customerID uuid.UUID) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}

	inv := &Invoice{
		BaseAggregateRoot:      shared.NewBaseAggregateRoot(),
		InvoiceNumber:          invoiceNumber,
		CustomerID:             customerID,
		Items:                  make([]InvoiceItem, 0),
		AdditionalDiscountType: DiscountTypeAmount,
		Status:                 InvoiceStatusPending,
	}
	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

// AddItem prices a line with the product's current selling price and the
// category tax rates, snapshots both onto a new InvoiceItem, and folds the
// line into the invoice running totals. The caller is responsible for the
// matching stock decrement and ledger row.
func (inv *Invoice) AddItem(product *catalog.Product, hsnCode string, quantity int64, discount decimal.Decimal, discountType DiscountType, rates catalog.TaxRates) (*InvoiceItem, error) {
	if product == nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product cannot be nil")
	}

	price, err := PriceLine(product.SellingPrice, quantity, discount, discountType, rates)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	item := InvoiceItem{
		ID:              uuid.New(),
		InvoiceID:       inv.ID,
		ProductID:       product.ID,
		ProductName:     product.Name,
		HSNCode:         hsnCode,
		Quantity:        quantity,
		UnitPrice:       product.SellingPrice,
		DiscountPerItem: discount,
		DiscountType:    discountType,
		DiscountAmount:  price.DiscountAmount,
		CGSTRate:        rates.CGST,
		CGSTAmount:      price.CGSTAmount,
		SGSTRate:        rates.SGST,
		SGSTAmount:      price.SGSTAmount,
		IGSTRate:        rates.IGST,
		IGSTAmount:      price.IGSTAmount,
		TaxAmount:       price.TaxAmount,
		TotalPrice:      price.LineTotal,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	inv.Items = append(inv.Items, item)

	inv.TotalBeforeTax = quantize(inv.TotalBeforeTax.Add(price.TaxableAmount))
	inv.TaxAmount = quantize(inv.TaxAmount.Add(price.TaxAmount))
	inv.CGSTAmount = quantize(inv.CGSTAmount.Add(price.CGSTAmount))
	inv.SGSTAmount = quantize(inv.SGSTAmount.Add(price.SGSTAmount))
	inv.IGSTAmount = quantize(inv.IGSTAmount.Add(price.IGSTAmount))
	inv.DiscountAmount = quantize(inv.DiscountAmount.Add(price.DiscountAmount))
	inv.UpdatedAt = now

	return &inv.Items[len(inv.Items)-1], nil
}

// ClearItems drops all line items and resets the accumulated totals.
// Used by the full-update flow, which recreates lines from scratch.
func (inv *Invoice) ClearItems() {
	inv.Items = inv.Items[:0]
	inv.TotalBeforeTax = decimal.Zero
	inv.TaxAmount = decimal.Zero
	inv.CGSTAmount = decimal.Zero
	inv.SGSTAmount = decimal.Zero
	inv.IGSTAmount = decimal.Zero
	inv.DiscountAmount = decimal.Zero
	inv.GrandTotal = decimal.Zero
	inv.AdditionalDiscountAmount = decimal.Zero
	inv.Touch()
}

// Finalize applies the whole-invoice additional discount, shipping and other
// charges on top of the accumulated line totals and computes the grand total:
//
//	grand_total = total_before_tax + tax_amount - additional_discount + shipping + other
func (inv *Invoice) Finalize(additionalDiscount decimal.Decimal, additionalDiscountType DiscountType, shipping, otherCharges decimal.Decimal) error {
	if additionalDiscount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Additional discount cannot be negative")
	}
	if !additionalDiscountType.IsValid() {
		return shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Discount type must be 'percentage' or 'amount'")
	}
	if shipping.IsNegative() || otherCharges.IsNegative() {
		return shared.NewDomainError("INVALID_CHARGES", "Charges cannot be negative")
	}

	subtotalWithTax := quantize(inv.TotalBeforeTax.Add(inv.TaxAmount))

	var discountAmount decimal.Decimal
	if additionalDiscountType == DiscountTypePercentage {
		discountAmount = quantize(subtotalWithTax.Mul(additionalDiscount).Div(oneHundred))
	} else {
		discountAmount = quantize(additionalDiscount)
	}
	if discountAmount.GreaterThan(subtotalWithTax) {
		discountAmount = subtotalWithTax
	}

	inv.AdditionalDiscount = additionalDiscount
	inv.AdditionalDiscountType = additionalDiscountType
	inv.AdditionalDiscountAmount = discountAmount
	inv.ShippingCharges = quantize(shipping)
	inv.OtherCharges = quantize(otherCharges)
	inv.GrandTotal = quantize(subtotalWithTax.Sub(discountAmount).Add(inv.ShippingCharges).Add(inv.OtherCharges))
	inv.Touch()
	inv.IncrementVersion()

	return inv.CheckTotals()
}

// CheckTotals verifies the invoice-level arithmetic invariant to the cent.
// A failure here means a bug in the totals pipeline, never bad user input.
func (inv *Invoice) CheckTotals() error {
	expected := quantize(inv.TotalBeforeTax.
		Add(inv.TaxAmount).
		Sub(inv.AdditionalDiscountAmount).
		Add(inv.ShippingCharges).
		Add(inv.OtherCharges))
	if !inv.GrandTotal.Equal(expected) {
		return shared.NewDomainError("TOTALS_MISMATCH",
			fmt.Sprintf("Invoice %s totals do not reconcile: grand total %s, expected %s",
				inv.InvoiceNumber, inv.GrandTotal.StringFixed(2), expected.StringFixed(2)))
	}
	return nil
}

// ItemForProduct returns the line item for a product, or nil if not present
func (inv *Invoice) ItemForProduct(productID uuid.UUID) *InvoiceItem {
	for i := range inv.Items {
		if inv.Items[i].ProductID == productID {
			return &inv.Items[i]
		}
	}
	return nil
}

// SetStatus transitions the invoice to a derived payment status
func (inv *Invoice) SetStatus(status InvoiceStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid invoice status")
	}
	if inv.Status != status {
		inv.Status = status
		inv.Touch()
		inv.IncrementVersion()
	}
	return nil
}

// SetDueDate sets the invoice due date
func (inv *Invoice) SetDueDate(due time.Time) {
	inv.DueDate = &due
	inv.Touch()
}

// SetPaymentTerms sets the free-form payment terms
func (inv *Invoice) SetPaymentTerms(terms string) {
	inv.PaymentTerms = terms
	inv.Touch()
}

// ItemCount returns the number of line items
func (inv *Invoice) ItemCount() int {
	return len(inv.Items)
}
