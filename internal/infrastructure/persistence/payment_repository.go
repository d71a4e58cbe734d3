package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storemate/backend/internal/domain/billing"
	"github.com/storemate/backend/internal/domain/shared"
)

// GormPaymentRepository implements billing.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GORM-based payment repository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	var payment billing.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByInvoice returns all payment rows for an invoice, oldest first
func (r *GormPaymentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]billing.Payment, error) {
	var payments []billing.Payment
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// SumPaidByInvoice returns the cumulative amount_paid across all payment
// rows for the invoice
func (r *GormPaymentRepository) SumPaidByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&billing.Payment{}).
		Select("COALESCE(SUM(amount_paid), 0)").
		Where("invoice_id = ?", invoiceID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Save persists a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *billing.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// DeleteByInvoice removes all payment rows for an invoice
func (r *GormPaymentRepository) DeleteByInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&billing.Payment{}).Error
}

var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
