package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storemate/backend/internal/domain/shared"
)

// SupplierReturnStatus is the lifecycle of goods sent back to a supplier.
// The refund path ends at RefundReceived; the replacement path ends at
// ReplacementReceived once the replacement unit physically arrives and
// is restocked.
type SupplierReturnStatus string

const (
	SupplierReturnStatusPending             SupplierReturnStatus = "Pending"
	SupplierReturnStatusReturned            SupplierReturnStatus = "Returned"
	SupplierReturnStatusRefundReceived      SupplierReturnStatus = "RefundReceived"
	SupplierReturnStatusReplacementReceived SupplierReturnStatus = "ReplacementReceived"
)

// IsValid checks if the status is a valid SupplierReturnStatus
func (s SupplierReturnStatus) IsValid() bool {
	switch s {
	case SupplierReturnStatusPending, SupplierReturnStatusReturned,
		SupplierReturnStatusRefundReceived, SupplierReturnStatusReplacementReceived:
		return true
	}
	return false
}

// String returns the string representation of SupplierReturnStatus
func (s SupplierReturnStatus) String() string {
	return string(s)
}

// SupplierReturnMode selects what the store expects back from the supplier.
type SupplierReturnMode string

const (
	SupplierReturnModeRefund      SupplierReturnMode = "refund"
	SupplierReturnModeReplacement SupplierReturnMode = "replacement"
)

// IsValid checks if the value is a valid SupplierReturnMode
func (m SupplierReturnMode) IsValid() bool {
	return m == SupplierReturnModeRefund || m == SupplierReturnModeReplacement
}

// String returns the string representation of SupplierReturnMode
func (m SupplierReturnMode) String() string {
	return string(m)
}

// SupplierReturn tracks damaged or defective goods sent back to a supplier
// and what came back for them.
type SupplierReturn struct {
	shared.BaseAggregateRoot
	ReturnNumber   string               `gorm:"type:varchar(30);not null;uniqueIndex"`
	SupplierID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductName    string               `gorm:"type:varchar(200);not null"`
	Quantity       int64                `gorm:"not null"`
	Mode           SupplierReturnMode   `gorm:"type:varchar(20);not null"`
	ExpectedRefund decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	Reason         string               `gorm:"type:text"`
	Status         SupplierReturnStatus `gorm:"type:varchar(30);not null;default:'Pending'"`
	ReturnedAt     *time.Time
	ReceivedAt     *time.Time
}

// TableName returns the table name for GORM
func (SupplierReturn) TableName() string {
	return "supplier_returns"
}

// NewSupplierReturn creates a pending supplier return. For the refund
// mode the expected refund is the purchase cost of the returned units.
func NewSupplierReturn(returnNumber string, supplierID, productID uuid.UUID, productName string, quantity int64, mode SupplierReturnMode, purchasePrice decimal.Decimal, reason string) (*SupplierReturn, error) {
	if returnNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Return number is required")
	}
	if supplierID == uuid.Nil || productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Supplier and product are required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Quantity must be positive")
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Mode must be refund or replacement")
	}
	sr := &SupplierReturn{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReturnNumber:      returnNumber,
		SupplierID:        supplierID,
		ProductID:         productID,
		ProductName:       productName,
		Quantity:          quantity,
		Mode:              mode,
		ExpectedRefund:    decimal.Zero,
		Reason:            reason,
		Status:            SupplierReturnStatusPending,
	}
	if mode == SupplierReturnModeRefund {
		if purchasePrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Purchase price cannot be negative")
		}
		sr.ExpectedRefund = purchasePrice.Mul(decimal.NewFromInt(quantity)).Round(2)
	}
	return sr, nil
}

// MarkReturned records the shipment leaving for the supplier
func (s *SupplierReturn) MarkReturned() error {
	if s.Status != SupplierReturnStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Supplier return has already shipped")
	}
	now := time.Now()
	s.Status = SupplierReturnStatusReturned
	s.ReturnedAt = &now
	s.UpdatedAt = now
	return nil
}

// MarkRefundReceived settles the refund path
func (s *SupplierReturn) MarkRefundReceived() error {
	if s.Mode != SupplierReturnModeRefund {
		return shared.NewDomainError("INVALID_STATE", "Supplier return expects a replacement, not a refund")
	}
	if s.Status != SupplierReturnStatusReturned && s.Status != SupplierReturnStatusPending {
		return shared.NewDomainError("ALREADY_PROCESSED", "Supplier return is already settled")
	}
	now := time.Now()
	s.Status = SupplierReturnStatusRefundReceived
	s.ReceivedAt = &now
	s.UpdatedAt = now
	return nil
}

// MarkReplacementReceived settles the replacement path. The caller is
// responsible for restocking the replacement units in the same
// transaction.
func (s *SupplierReturn) MarkReplacementReceived() error {
	if s.Mode != SupplierReturnModeReplacement {
		return shared.NewDomainError("INVALID_STATE", "Supplier return expects a refund, not a replacement")
	}
	if s.Status != SupplierReturnStatusReturned && s.Status != SupplierReturnStatusPending {
		return shared.NewDomainError("ALREADY_PROCESSED", "Supplier return is already settled")
	}
	now := time.Now()
	s.Status = SupplierReturnStatusReplacementReceived
	s.ReceivedAt = &now
	s.UpdatedAt = now
	return nil
}
