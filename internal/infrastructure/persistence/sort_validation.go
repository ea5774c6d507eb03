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

// ShipmentSortFields contains allowed sort fields for shipments
var ShipmentSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"consignment_number": true,
	"status":             true,
	"route":              true,
	"final_amount":       true,
	"delivered_at":       true,
}

// ManifestSortFields contains allowed sort fields for manifests
var ManifestSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"manifest_number": true,
	"sequence_no":     true,
	"fiscal_year":     true,
	"vehicle_no":      true,
	"route":           true,
	"status":          true,
	"completed_at":    true,
}

// VehicleSortFields contains allowed sort fields for vehicles
var VehicleSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"vehicle_no":    true,
	"status":        true,
	"current_route": true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"code":        true,
	"sequence_no": true,
	"fiscal_year": true,
	"category":    true,
	"total":       true,
	"status":      true,
	"issued_at":   true,
}

// PreInvoiceSortFields contains allowed sort fields for pre-invoices
var PreInvoiceSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"total":      true,
	"status":     true,
}

// PaymentSortFields contains allowed sort fields for payment rows
var PaymentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"reference_no": true,
	"amount_due":   true,
	"amount_paid":  true,
	"balance":      true,
	"status":       true,
}

// SummarySortFields contains allowed sort fields for entity summaries
var SummarySortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"total_due":     true,
	"total_paid":    true,
	"total_balance": true,
}

// TransactionSortFields contains allowed sort fields for ledger transactions
var TransactionSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"amount":           true,
	"method":           true,
	"reference":        true,
	"transaction_date": true,
	"status":           true,
}
