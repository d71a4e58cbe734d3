package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storemate/backend/internal/domain/billing"
	"github.com/storemate/backend/internal/domain/shared"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GORM-based invoice repository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice with its items by ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByIDForUpdate finds an invoice by ID holding an exclusive row lock.
// The lock covers the invoice row only; items are loaded afterwards, which
// is enough because every writer serializes on the invoice row first.
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", id).
		Order("created_at ASC").
		Find(&invoice.Items).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber finds an invoice by its invoice number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := r.db.WithContext(ctx).Preload("Items").
		Where("invoice_number = ?", invoiceNumber).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAll returns invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.Invoice{}).Preload("Items"), filter)
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByCustomer returns a customer's invoices matching the filter
func (r *GormInvoiceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.db.WithContext(ctx).Model(&billing.Invoice{}).Preload("Items").
		Where("customer_id = ?", customerID)
	query = r.applyFilter(query, filter)
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save persists an invoice together with its items. Items removed from
// the aggregate are deleted, the rest are upserted.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(invoice).Error; err != nil {
			return err
		}

		currentItemIDs := make([]uuid.UUID, len(invoice.Items))
		for i, item := range invoice.Items {
			currentItemIDs[i] = item.ID
		}

		if len(currentItemIDs) > 0 {
			if err := tx.Where("invoice_id = ? AND id NOT IN ?", invoice.ID, currentItemIDs).
				Delete(&billing.InvoiceItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("invoice_id = ?", invoice.ID).
				Delete(&billing.InvoiceItem{}).Error; err != nil {
				return err
			}
		}

		for i := range invoice.Items {
			invoice.Items[i].InvoiceID = invoice.ID
			if err := tx.Save(&invoice.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// DeleteItems removes all line items for an invoice
func (r *GormInvoiceRepository) DeleteItems(ctx context.Context, invoiceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&billing.InvoiceItem{}).Error
}

// Delete removes the invoice together with its items. Payment rows are
// deleted by the caller before this; stock is intentionally left alone.
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.DeleteItems(ctx, id); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&billing.Invoice{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// NextInvoiceNumber draws the next INV-YYYY-MM-NNNN number
func (r *GormInvoiceRepository) NextInvoiceNumber(ctx context.Context, at time.Time) (string, error) {
	return nextSequenceNumber(ctx, r.db, "INV", at)
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("invoice_number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "date_from":
			query = query.Where("created_at >= ?", value)
		case "date_to":
			query = query.Where("created_at <= ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
