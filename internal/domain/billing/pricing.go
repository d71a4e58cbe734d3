package billing

import (
	"github.com/shopspring/decimal"

	"github.com/storemate/backend/internal/domain/catalog"
	"github.com/storemate/backend/internal/domain/shared"
)

// DiscountType determines how a discount value is interpreted
type DiscountType string

const (
	// DiscountTypePercentage interprets the discount value as a percentage of the line subtotal
	DiscountTypePercentage DiscountType = "percentage"
	// DiscountTypeAmount interprets the discount value as a flat currency amount
	DiscountTypeAmount DiscountType = "amount"
)

// IsValid checks if the discount type is valid
func (d DiscountType) IsValid() bool {
	return d == DiscountTypePercentage || d == DiscountTypeAmount
}

// String returns the string representation of DiscountType
func (d DiscountType) String() string {
	return string(d)
}

var oneHundred = decimal.NewFromInt(100)

// quantize rounds a monetary amount half-up to two decimal places.
// Applied after every arithmetic step so that long invoices cannot
// accumulate sub-paisa drift.
func quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LinePrice holds the computed monetary breakdown of a single invoice line
type LinePrice struct {
	Subtotal       decimal.Decimal // unit price * quantity
	DiscountAmount decimal.Decimal // capped at the line subtotal
	TaxableAmount  decimal.Decimal // subtotal - discount
	CGSTAmount     decimal.Decimal
	SGSTAmount     decimal.Decimal
	IGSTAmount     decimal.Decimal
	TaxAmount      decimal.Decimal // the charged tax; equals the IGST component
	LineTotal      decimal.Decimal // taxable amount + charged tax
}

// PriceLine computes the discount, tax breakdown and total for a single
// invoice line. Pure function: no entity state is touched.
//
// CGST and SGST amounts are computed and recorded on the line, but only the
// IGST component contributes to the charged tax and the line total. This is
// the billing rule the store runs on today; changing it is a product
// decision, not a code one.
func PriceLine(unitPrice decimal.Decimal, quantity int64, discount decimal.Decimal, discountType DiscountType, rates catalog.TaxRates) (LinePrice, error) {
	if quantity <= 0 {
		return LinePrice{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return LinePrice{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discount.IsNegative() {
		return LinePrice{}, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if !discountType.IsValid() {
		return LinePrice{}, shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Discount type must be 'percentage' or 'amount'")
	}

	subtotal := quantize(unitPrice.Mul(decimal.NewFromInt(quantity)))

	var discountAmount decimal.Decimal
	if discountType == DiscountTypePercentage {
		discountAmount = quantize(subtotal.Mul(discount).Div(oneHundred))
	} else {
		discountAmount = quantize(discount)
	}
	// A discount never exceeds the line value
	if discountAmount.GreaterThan(subtotal) {
		discountAmount = subtotal
	}

	taxable := quantize(subtotal.Sub(discountAmount))
	cgst := quantize(taxable.Mul(rates.CGST).Div(oneHundred))
	sgst := quantize(taxable.Mul(rates.SGST).Div(oneHundred))
	igst := quantize(taxable.Mul(rates.IGST).Div(oneHundred))

	tax := igst
	total := quantize(taxable.Add(tax))

	return LinePrice{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxable,
		CGSTAmount:     cgst,
		SGSTAmount:     sgst,
		IGSTAmount:     igst,
		TaxAmount:      tax,
		LineTotal:      total,
	}, nil
}
