package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"name":       true,
	"created_at": true,
	"updated_at": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"code":              true,
	"name":              true,
	"selling_price":     true,
	"purchase_price":    true,
	"quantity_in_stock": true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"grand_total":    true,
	"status":         true,
	"due_date":       true,
}

// StockTransactionSortFields contains allowed sort fields for stock ledger rows
var StockTransactionSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"transaction_date": true,
	"transaction_type": true,
	"quantity":         true,
	"reference_number": true,
}

// ProductReturnSortFields contains allowed sort fields for customer returns
var ProductReturnSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"return_number": true,
	"return_type":   true,
	"status":        true,
	"refund_amount": true,
	"processed_at":  true,
}
