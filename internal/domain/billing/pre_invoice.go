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

// PreInvoiceStatus represents the lifecycle of a draft billing document
type PreInvoiceStatus string

const (
	PreInvoiceDraft     PreInvoiceStatus = "DRAFT"
	PreInvoiceInvoiced  PreInvoiceStatus = "INVOICED"
	PreInvoiceCancelled PreInvoiceStatus = "CANCELLED"
)

// PreInvoiceLine mirrors an invoice line but stays editable while the
// document is a draft: charges and tax can be corrected before finalization.
type PreInvoiceLine struct {
	shared.BaseEntity
	PreInvoiceID      uuid.UUID
	ShipmentID        uuid.UUID
	ConsignmentNumber string
	TaxableValue      decimal.Decimal
	TaxAmount         decimal.Decimal
	Charges           decimal.Decimal
	FinalAmount       decimal.Decimal
}

// PreInvoice is a draft invoice: the same snapshot shape as an Invoice but
// editable and numbered from its own series, so a discarded draft never
// leaves a gap among issued invoices. Finalizing it routes through the
// normal invoice numbering path and freezes the edited lines.
type PreInvoice struct {
	shared.TenantAggregateRoot
	Code              string
	SequenceNo        int
	FiscalYear        sequence.FiscalYear
	Category          sequence.BillingCategory
	BillingEntity     valueobject.EntityRef
	BillingLocationID uuid.UUID
	BranchID          *uuid.UUID
	BranchCode        string
	Lines             []PreInvoiceLine
	Total             decimal.Decimal
	Status            PreInvoiceStatus
	InvoiceID         *uuid.UUID
}

// ComposePreInvoiceCode builds the draft display code
// P{fyToken}{category}[{branchCode}]{serial}, e.g. "P26B1".
func ComposePreInvoiceCode(fy sequence.FiscalYear, category sequence.BillingCategory, branchCode string, seq int) string {
	return fmt.Sprintf("P%s%s%s%d", fy.Token(), category, branchCode, seq)
}

// NewPreInvoice creates a DRAFT pre-invoice over a single billing entity
func NewPreInvoice(
	tenantID uuid.UUID,
	fy sequence.FiscalYear,
	category sequence.BillingCategory,
	branchID *uuid.UUID,
	branchCode string,
	seq int,
	entity valueobject.EntityRef,
	locationID uuid.UUID,
	lines []PreInvoiceLine,
) (*PreInvoice, error) {
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown billing category %q", category))
	}
	if seq < 1 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Pre-invoice sequence number must be positive")
	}
	if !entity.Kind.IsBillable() {
		return nil, shared.NewDomainError("INVALID_BILLING_ENTITY", fmt.Sprintf("Entity kind %s cannot be billed", entity.Kind))
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BILLING_LOCATION", "Pre-invoice requires a billing location")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INVOICE_LINES", "Pre-invoice must have at least one line")
	}

	p := &PreInvoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                ComposePreInvoiceCode(fy, category, branchCode, seq),
		SequenceNo:          seq,
		FiscalYear:          fy,
		Category:            category,
		BillingEntity:       entity,
		BillingLocationID:   locationID,
		BranchID:            branchID,
		BranchCode:          branchCode,
		Status:              PreInvoiceDraft,
	}

	for i := range lines {
		lines[i].PreInvoiceID = p.ID
		if lines[i].ID == uuid.Nil {
			lines[i].BaseEntity = shared.NewBaseEntity()
		}
	}
	p.Lines = lines
	p.recalcTotal()

	return p, nil
}

// UpdateLineCharges edits one draft line's charges and tax, recomputing the
// line and document totals.
func (p *PreInvoice) UpdateLineCharges(lineID uuid.UUID, charges, taxAmount decimal.Decimal) error {
	if p.Status != PreInvoiceDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit a %s pre-invoice", p.Status))
	}
	if charges.IsNegative() || taxAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Charges and tax cannot be negative")
	}
	for i := range p.Lines {
		l := &p.Lines[i]
		if l.ID == lineID {
			l.Charges = charges
			l.TaxAmount = taxAmount
			l.FinalAmount = l.TaxableValue.Add(l.TaxAmount).Add(l.Charges)
			p.recalcTotal()
			p.touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Pre-invoice line not found")
}

// MarkInvoiced links the finalized invoice and closes the draft
func (p *PreInvoice) MarkInvoiced(invoiceID uuid.UUID) error {
	if p.Status != PreInvoiceDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot finalize a %s pre-invoice", p.Status))
	}
	p.Status = PreInvoiceInvoiced
	p.InvoiceID = &invoiceID
	p.touch()
	return nil
}

// RevertToDraft reopens the pre-invoice after its invoice is cancelled.
// Re-entrant.
func (p *PreInvoice) RevertToDraft() {
	if p.Status == PreInvoiceInvoiced {
		p.Status = PreInvoiceDraft
		p.InvoiceID = nil
		p.touch()
	}
}

// Cancel discards the draft
func (p *PreInvoice) Cancel() error {
	if p.Status != PreInvoiceDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel a %s pre-invoice", p.Status))
	}
	p.Status = PreInvoiceCancelled
	p.touch()
	return nil
}

// ShipmentIDs returns the shipments included in the draft
func (p *PreInvoice) ShipmentIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Lines))
	for _, l := range p.Lines {
		ids = append(ids, l.ShipmentID)
	}
	return ids
}

func (p *PreInvoice) recalcTotal() {
	total := decimal.Zero
	for _, l := range p.Lines {
		total = total.Add(l.FinalAmount)
	}
	p.Total = total
}

func (p *PreInvoice) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
