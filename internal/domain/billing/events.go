package billing

import (
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceIssuedEvent is raised when a numbered invoice is generated
type InvoiceIssuedEvent struct {
	shared.BaseDomainEvent
	Code  string          `json:"code"`
	Total decimal.Decimal `json:"total"`
}

// NewInvoiceIssuedEvent creates an invoice issued event
func NewInvoiceIssuedEvent(inv *Invoice) *InvoiceIssuedEvent {
	return &InvoiceIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("invoice.issued", "Invoice", inv.ID, inv.TenantID),
		Code:            inv.Code,
		Total:           inv.Total,
	}
}

// InvoiceCancelledEvent is raised when an invoice is voided
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewInvoiceCancelledEvent creates an invoice cancelled event
func NewInvoiceCancelledEvent(inv *Invoice) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("invoice.cancelled", "Invoice", inv.ID, inv.TenantID),
		Code:            inv.Code,
	}
}
