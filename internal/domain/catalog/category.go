package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/storemate/backend/internal/domain/shared"
)

// Category groups products and carries the GST rates applied to them.
// The rates are read-only inputs to invoice pricing; category rows are
// never mutated by the billing ledger.
type Category struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string          `gorm:"type:text"`
	HSNCode     string          `gorm:"type:varchar(20);index"`
	CGSTRate    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	SGSTRate    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	IGSTRate    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name, hsnCode string, cgstRate, sgstRate, igstRate decimal.Decimal) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	for _, rate := range []decimal.Decimal{cgstRate, sgstRate, igstRate} {
		if rate.IsNegative() {
			return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
		}
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		HSNCode:           hsnCode,
		CGSTRate:          cgstRate,
		SGSTRate:          sgstRate,
		IGSTRate:          igstRate,
	}, nil
}

// TaxRates bundles the three GST rate components for pricing
type TaxRates struct {
	CGST decimal.Decimal
	SGST decimal.Decimal
	IGST decimal.Decimal
}

// Rates returns the category's GST rates as a TaxRates bundle
func (c *Category) Rates() TaxRates {
	return TaxRates{
		CGST: c.CGSTRate,
		SGST: c.SGSTRate,
		IGST: c.IGSTRate,
	}
}

// UpdateRates replaces the GST rates for the category
func (c *Category) UpdateRates(cgst, sgst, igst decimal.Decimal) error {
	for _, rate := range []decimal.Decimal{cgst, sgst, igst} {
		if rate.IsNegative() {
			return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
		}
	}
	c.CGSTRate = cgst
	c.SGSTRate = sgst
	c.IGSTRate = igst
	c.Touch()
	c.IncrementVersion()
	return nil
}
