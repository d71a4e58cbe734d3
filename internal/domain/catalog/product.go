package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storemate/backend/internal/domain/shared"
)

// Product represents a sellable item in the catalog.
// QuantityInStock is only ever mutated through stock ledger operations
// (sale, purchase, return, adjustment, damage) so that every change has a
// matching StockTransaction row.
type Product struct {
	shared.BaseAggregateRoot
	Code            string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Description     string          `gorm:"type:text"`
	CategoryID      *uuid.UUID      `gorm:"type:uuid;index"`
	SellingPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PurchasePrice   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	QuantityInStock int64           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name string, sellingPrice, purchasePrice decimal.Decimal) (*Product, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if sellingPrice.IsNegative() || purchasePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		SellingPrice:      sellingPrice,
		PurchasePrice:     purchasePrice,
	}, nil
}

// SetCategory assigns the product to a category
func (p *Product) SetCategory(categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	p.CategoryID = &categoryID
	p.Touch()
	p.IncrementVersion()
	return nil
}

// CanFulfill returns true if the current stock covers the requested quantity
func (p *Product) CanFulfill(quantity int64) bool {
	return p.QuantityInStock >= quantity
}

// IncreaseStock adds quantity to the stock level.
// Callers must record a matching stock transaction in the same database
// transaction.
func (p *Product) IncreaseStock(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	p.QuantityInStock += quantity
	p.Touch()
	p.IncrementVersion()
	return nil
}

// DecreaseStock removes quantity from the stock level, refusing to go negative.
func (p *Product) DecreaseStock(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.QuantityInStock < quantity {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for product %s: have %d, need %d", p.Name, p.QuantityInStock, quantity))
	}
	p.QuantityInStock -= quantity
	p.Touch()
	p.IncrementVersion()
	return nil
}

// UpdatePrices updates selling and purchase prices
func (p *Product) UpdatePrices(sellingPrice, purchasePrice decimal.Decimal) error {
	if sellingPrice.IsNegative() || purchasePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	p.SellingPrice = sellingPrice
	p.PurchasePrice = purchasePrice
	p.Touch()
	p.IncrementVersion()
	return nil
}
