package billing

import (
	"fmt"
	"time"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/sequence"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle of a generated invoice
type InvoiceStatus string

const (
	InvoiceActive    InvoiceStatus = "ACTIVE"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a known InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	return s == InvoiceActive || s == InvoicePaid || s == InvoiceCancelled
}

// InvoiceLine is a frozen snapshot of one shipment at invoicing time. Later
// edits to the shipment never flow back into an issued invoice.
type InvoiceLine struct {
	shared.BaseEntity
	InvoiceID         uuid.UUID
	ShipmentID        uuid.UUID
	ConsignmentNumber string
	TaxableValue      decimal.Decimal
	TaxAmount         decimal.Decimal
	Charges           decimal.Decimal
	FinalAmount       decimal.Decimal
}

// Invoice is the numbered billing document aggregate. Its number is gapless
// inside its scope (tenant, fiscal year, category, branch when branch-scoped)
// and permanently consumed: cancelling the invoice never frees the serial.
type Invoice struct {
	shared.TenantAggregateRoot
	Code              string
	SequenceNo        int
	FiscalYear        sequence.FiscalYear
	Category          sequence.BillingCategory
	BranchID          *uuid.UUID
	BranchCode        string
	BillingEntity     valueobject.EntityRef
	BillingLocationID uuid.UUID
	Lines             []InvoiceLine
	Total             decimal.Decimal
	Status            InvoiceStatus
	PreInvoiceID      *uuid.UUID
	IssuedAt          time.Time
	CancelledAt       *time.Time
}

// ComposeInvoiceCode builds the display code {fyToken}{category}[{branchCode}]{serial},
// e.g. "26B1" tenant-wide or "26CBLR4" under branch-scoped invoicing.
func ComposeInvoiceCode(fy sequence.FiscalYear, category sequence.BillingCategory, branchCode string, seq int) string {
	return fmt.Sprintf("%s%s%s%d", fy.Token(), category, branchCode, seq)
}

// NewInvoice creates an ACTIVE invoice from frozen shipment snapshots
func NewInvoice(
	tenantID uuid.UUID,
	fy sequence.FiscalYear,
	category sequence.BillingCategory,
	branchID *uuid.UUID,
	branchCode string,
	seq int,
	entity valueobject.EntityRef,
	locationID uuid.UUID,
	lines []InvoiceLine,
) (*Invoice, error) {
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown billing category %q", category))
	}
	if seq < 1 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice sequence number must be positive")
	}
	if !entity.Kind.IsBillable() {
		return nil, shared.NewDomainError("INVALID_BILLING_ENTITY", fmt.Sprintf("Entity kind %s cannot be billed", entity.Kind))
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BILLING_LOCATION", "Invoice requires a billing location")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INVOICE_LINES", "Invoice must have at least one line")
	}
	if branchID != nil && branchCode == "" {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch-scoped invoice requires a branch code")
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                ComposeInvoiceCode(fy, category, branchCode, seq),
		SequenceNo:          seq,
		FiscalYear:          fy,
		Category:            category,
		BranchID:            branchID,
		BranchCode:          branchCode,
		BillingEntity:       entity,
		BillingLocationID:   locationID,
		Status:              InvoiceActive,
		IssuedAt:            time.Now(),
	}

	total := decimal.Zero
	for i := range lines {
		lines[i].InvoiceID = inv.ID
		if lines[i].ID == uuid.Nil {
			lines[i].BaseEntity = shared.NewBaseEntity()
		}
		total = total.Add(lines[i].FinalAmount)
	}
	inv.Lines = lines
	inv.Total = total

	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv))

	return inv, nil
}

// ShipmentIDs returns the shipments frozen into this invoice
func (inv *Invoice) ShipmentIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		ids = append(ids, l.ShipmentID)
	}
	return ids
}

// MarkPaid records that the invoice total has been fully allocated
func (inv *Invoice) MarkPaid() error {
	if inv.Status != InvoiceActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark a %s invoice paid", inv.Status))
	}
	inv.Status = InvoicePaid
	inv.touch()
	return nil
}

// Reopen reverts a paid invoice to ACTIVE after a payment void. Re-entrant.
func (inv *Invoice) Reopen() {
	if inv.Status == InvoicePaid {
		inv.Status = InvoiceActive
		inv.touch()
	}
}

// Cancel voids the invoice. The consumed serial is never reissued.
func (inv *Invoice) Cancel(at time.Time) error {
	if inv.Status == InvoiceCancelled {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already cancelled")
	}
	inv.Status = InvoiceCancelled
	inv.CancelledAt = &at
	inv.touch()
	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv))
	return nil
}

func (inv *Invoice) touch() {
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
}
