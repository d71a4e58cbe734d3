package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storemate/backend/internal/domain/shared"
)

// DamageLevel grades how badly a unit is damaged.
type DamageLevel string

const (
	DamageLevelMinor    DamageLevel = "Minor"
	DamageLevelModerate DamageLevel = "Moderate"
	DamageLevelSevere   DamageLevel = "Severe"
)

// IsValid checks if the value is a valid DamageLevel
func (l DamageLevel) IsValid() bool {
	switch l {
	case DamageLevelMinor, DamageLevelModerate, DamageLevelSevere:
		return true
	}
	return false
}

// Disposition tracks where a damaged unit physically ends up.
type Disposition string

const (
	DispositionStored   Disposition = "Stored"
	DispositionRepaired Disposition = "Repaired"
	DispositionDisposed Disposition = "Disposed"
	DispositionReturned Disposition = "Returned"
)

// IsValid checks if the value is a valid Disposition
func (d Disposition) IsValid() bool {
	switch d {
	case DispositionStored, DispositionRepaired, DispositionDisposed, DispositionReturned:
		return true
	}
	return false
}

// DamagedProduct records a damaged unit taken out of sellable stock.
// It links back to the ProductReturn that brought the unit in and to
// the SupplierReturn if the unit is sent back to the supplier.
type DamagedProduct struct {
	shared.BaseAggregateRoot
	ProductReturnID  *uuid.UUID      `gorm:"type:uuid;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	Quantity         int64           `gorm:"not null"`
	DamageLevel      DamageLevel     `gorm:"type:varchar(20);not null"`
	StorageLocation  string          `gorm:"type:varchar(100)"`
	RepairCost       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Disposition      Disposition     `gorm:"type:varchar(20);not null;default:'Stored'"`
	SupplierReturnID *uuid.UUID      `gorm:"type:uuid;index"`
	Notes            string          `gorm:"type:text"`
	DamagedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DamagedProduct) TableName() string {
	return "damaged_products"
}

// NewDamagedProduct creates a damaged product record, initially Stored
func NewDamagedProduct(productID uuid.UUID, productName string, quantity int64, level DamageLevel, storageLocation string) (*DamagedProduct, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Quantity must be positive")
	}
	if !level.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid damage level")
	}
	return &DamagedProduct{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		ProductName:       productName,
		Quantity:          quantity,
		DamageLevel:       level,
		StorageLocation:   storageLocation,
		RepairCost:        decimal.Zero,
		Disposition:       DispositionStored,
		DamagedAt:         time.Now(),
	}, nil
}

// LinkReturn attaches the customer return that surfaced the damage
func (d *DamagedProduct) LinkReturn(productReturnID uuid.UUID) {
	d.ProductReturnID = &productReturnID
	d.Touch()
}

// MarkRepaired records a repair and its cost
func (d *DamagedProduct) MarkRepaired(cost decimal.Decimal) error {
	if d.Disposition == DispositionDisposed || d.Disposition == DispositionReturned {
		return shared.NewDomainError("INVALID_STATE", "Unit has already left damage storage")
	}
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Repair cost cannot be negative")
	}
	d.RepairCost = cost.Round(2)
	d.Disposition = DispositionRepaired
	d.Touch()
	return nil
}

// MarkDisposed writes the unit off
func (d *DamagedProduct) MarkDisposed() error {
	if d.Disposition == DispositionReturned {
		return shared.NewDomainError("INVALID_STATE", "Unit was returned to the supplier")
	}
	d.Disposition = DispositionDisposed
	d.Touch()
	return nil
}

// MarkReturnedToSupplier records the unit leaving toward the supplier
func (d *DamagedProduct) MarkReturnedToSupplier(supplierReturnID uuid.UUID) error {
	if d.Disposition == DispositionDisposed {
		return shared.NewDomainError("INVALID_STATE", "Unit has been disposed of")
	}
	d.SupplierReturnID = &supplierReturnID
	d.Disposition = DispositionReturned
	d.Touch()
	return nil
}
