package freight

import (
	"fmt"
	"strings"
	"time"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShipmentStatus is the shipment state machine. The delivery track runs
// PENDING -> MANIFESTATION -> OUT_FOR_DELIVERY -> DELIVERED; shipments with a
// return-leg line item travel the parallel D_-prefixed track. PRE_INVOICED,
// INVOICED and PAID are billing states layered on top of the delivery state.
type ShipmentStatus string

const (
	StatusPending        ShipmentStatus = "PENDING"
	StatusManifestation  ShipmentStatus = "MANIFESTATION"
	StatusOutForDelivery ShipmentStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      ShipmentStatus = "DELIVERED"

	StatusDPending        ShipmentStatus = "D_PENDING"
	StatusDManifestation  ShipmentStatus = "D_MANIFESTATION"
	StatusDOutForDelivery ShipmentStatus = "D_OUT_FOR_DELIVERY"
	StatusDDelivered      ShipmentStatus = "D_DELIVERED"

	StatusPreInvoiced ShipmentStatus = "PRE_INVOICED"
	StatusInvoiced    ShipmentStatus = "INVOICED"
	StatusPaid        ShipmentStatus = "PAID"
)

// IsValid checks if the status is a known ShipmentStatus
func (s ShipmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusManifestation, StatusOutForDelivery, StatusDelivered,
		StatusDPending, StatusDManifestation, StatusDOutForDelivery, StatusDDelivered,
		StatusPreInvoiced, StatusInvoiced, StatusPaid:
		return true
	}
	return false
}

// String returns the string representation of ShipmentStatus
func (s ShipmentStatus) String() string {
	return string(s)
}

// IsReturnLeg returns true for the D_-prefixed track
func (s ShipmentStatus) IsReturnLeg() bool {
	return strings.HasPrefix(string(s), "D_")
}

// IsBillingState returns true for the billing states layered over delivery
func (s ShipmentStatus) IsBillingState() bool {
	return s == StatusPreInvoiced || s == StatusInvoiced || s == StatusPaid
}

// onTrack maps a base delivery status onto the return-leg track when needed
func onTrack(base ShipmentStatus, returnLeg bool) ShipmentStatus {
	if !returnLeg {
		return base
	}
	return ShipmentStatus("D_" + string(base))
}

// Shipment is the consignment aggregate root. Its line items carry the stock
// ledger counters; its status carries both the delivery and billing state.
type Shipment struct {
	shared.TenantAggregateRoot
	ConsignmentNumber string
	Origin            valueobject.EntityRef // branch or hub the shipment leaves from
	ConsignorID       uuid.UUID
	ConsigneeID       uuid.UUID
	BillingEntity     *valueobject.EntityRef
	BillingLocationID *uuid.UUID
	Route             string // free-text route; scanned for vehicle tokens
	LineItems         LineItems
	FinalAmount       decimal.Decimal
	InitialPaid       decimal.Decimal
	Status            ShipmentStatus
	PreInvoiceID      *uuid.UUID
	InvoiceID         *uuid.UUID
	DeliveredAt       *time.Time
}

// NewShipment creates a new shipment in PENDING (or D_PENDING) state
func NewShipment(
	tenantID uuid.UUID,
	consignmentNumber string,
	origin valueobject.EntityRef,
	consignorID, consigneeID uuid.UUID,
	lineItems LineItems,
	finalAmount, initialPaid decimal.Decimal,
) (*Shipment, error) {
	if consignmentNumber == "" {
		return nil, shared.NewDomainError("INVALID_CONSIGNMENT_NUMBER", "Consignment number cannot be empty")
	}
	if origin.Kind != valueobject.EntityKindBranch && origin.Kind != valueobject.EntityKindHub {
		return nil, shared.NewDomainError("INVALID_ORIGIN", "Shipment origin must be a branch or hub")
	}
	if consignorID == uuid.Nil || consigneeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Consignor and consignee are required")
	}
	if len(lineItems) == 0 {
		return nil, shared.NewDomainError("INVALID_LINE_ITEMS", "Shipment must have at least one line item")
	}
	for i := range lineItems {
		li := &lineItems[i]
		if li.ItemType == "" {
			return nil, shared.NewDomainError("INVALID_LINE_ITEMS", "Line item type cannot be empty")
		}
		if li.InStock < 0 || li.InTransit < 0 || li.Delivered < 0 {
			return nil, shared.NewDomainError("INVALID_LINE_ITEMS", "Stock counters cannot be negative")
		}
	}
	if finalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Final amount cannot be negative")
	}
	if initialPaid.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Initial paid cannot be negative")
	}

	sh := &Shipment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ConsignmentNumber:   consignmentNumber,
		Origin:              origin,
		ConsignorID:         consignorID,
		ConsigneeID:         consigneeID,
		LineItems:           lineItems,
		FinalAmount:         finalAmount,
		InitialPaid:         initialPaid,
		Status:              onTrack(StatusPending, lineItems.HasReturnLeg()),
	}

	sh.AddDomainEvent(NewShipmentCreatedEvent(sh))

	return sh, nil
}

// SetBillingEntity assigns the billing entity and location references
func (sh *Shipment) SetBillingEntity(entity valueobject.EntityRef, locationID *uuid.UUID) error {
	if !entity.Kind.IsBillable() {
		return shared.NewDomainError("INVALID_BILLING_ENTITY", fmt.Sprintf("Entity kind %s cannot be billed", entity.Kind))
	}
	sh.BillingEntity = &entity
	sh.BillingLocationID = locationID
	sh.touch()
	return nil
}

// MoveToTransit drains up to qty units of itemType from in-stock into
// in-transit and flips the shipment onto the manifestation status. Returns
// the quantity actually moved; a short move is accepted, never an error.
func (sh *Shipment) MoveToTransit(itemType string, qty int) int {
	moved := sh.LineItems.moveToTransit(itemType, qty)
	if moved > 0 {
		sh.Status = onTrack(StatusManifestation, sh.Status.IsReturnLeg() || sh.LineItems.HasReturnLeg())
		sh.touch()
	}
	return moved
}

// MarkOutForDelivery flips a manifested shipment to the out-for-delivery leg
func (sh *Shipment) MarkOutForDelivery() error {
	if sh.Status != StatusManifestation && sh.Status != StatusDManifestation {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start delivery from %s", sh.Status))
	}
	sh.Status = onTrack(StatusOutForDelivery, sh.Status.IsReturnLeg())
	sh.touch()
	return nil
}

// Deliver moves up to qty units of itemType from in-transit to delivered.
// When no units remain in transit the shipment is marked delivered.
func (sh *Shipment) Deliver(itemType string, qty int, deliveredAt time.Time) int {
	moved := sh.LineItems.deliver(itemType, qty)
	if moved > 0 {
		sh.touch()
	}
	if sh.LineItems.UnitsInTransit() == 0 && moved > 0 {
		sh.Status = onTrack(StatusDelivered, sh.Status.IsReturnLeg())
		sh.DeliveredAt = &deliveredAt
		sh.AddDomainEvent(NewShipmentDeliveredEvent(sh))
	}
	return moved
}

// ReturnToStock reverses a manifest inclusion, moving up to qty units of
// itemType back from in-transit to in-stock. When nothing remains in transit
// the shipment reverts to PENDING or D_PENDING depending on whether any
// return-leg line item remains.
func (sh *Shipment) ReturnToStock(itemType string, qty int) int {
	moved := sh.LineItems.returnToStock(itemType, qty)
	if moved > 0 {
		sh.touch()
	}
	if sh.LineItems.UnitsInTransit() == 0 {
		sh.Status = onTrack(StatusPending, sh.LineItems.HasReturnLeg())
	}
	return moved
}

// ApplyAdjustment applies an explicit delta record to one line item's
// counters and amount. Counters are clamped at zero; the adjustment record
// itself is the audit trail, so the shipment carries only the net result.
func (sh *Shipment) ApplyAdjustment(adj *ManifestAdjustment) error {
	idx := sh.LineItems.indicesOfType(adj.ItemType)
	if len(idx) == 0 {
		return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Shipment has no line item of type %q", adj.ItemType))
	}

	li := &sh.LineItems[idx[0]]
	li.InStock = clampZero(li.InStock + adj.DeltaInStock)
	li.InTransit = clampZero(li.InTransit + adj.DeltaInTransit)
	li.Delivered = clampZero(li.Delivered + adj.DeltaDelivered)
	li.Amount = li.Amount.Add(adj.DeltaAmount)
	if li.Amount.IsNegative() {
		li.Amount = decimal.Zero
	}
	sh.touch()
	return nil
}

// MarkPreInvoiced records inclusion in a pre-invoice
func (sh *Shipment) MarkPreInvoiced(preInvoiceID uuid.UUID) error {
	if sh.Status == StatusInvoiced || sh.Status == StatusPaid {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pre-invoice shipment in %s status", sh.Status))
	}
	sh.Status = StatusPreInvoiced
	sh.PreInvoiceID = &preInvoiceID
	sh.touch()
	return nil
}

// MarkInvoiced flips the shipment to the INVOICED billing state
func (sh *Shipment) MarkInvoiced(invoiceID uuid.UUID) error {
	if sh.Status == StatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Cannot invoice a paid shipment")
	}
	sh.Status = StatusInvoiced
	sh.InvoiceID = &invoiceID
	sh.touch()
	return nil
}

// MarkPaid flips an invoiced shipment to PAID
func (sh *Shipment) MarkPaid() error {
	if sh.Status != StatusInvoiced {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark shipment paid from %s", sh.Status))
	}
	sh.Status = StatusPaid
	sh.touch()
	return nil
}

// ReopenInvoiced reverts a paid shipment to INVOICED (payment void path).
// Re-entrant: reopening an already-invoiced shipment is a no-op.
func (sh *Shipment) ReopenInvoiced() {
	if sh.Status == StatusPaid {
		sh.Status = StatusInvoiced
		sh.touch()
	}
}

// RevertInvoiceCancelled undoes the invoice inclusion after a cancel: back
// to PRE_INVOICED when the shipment still belongs to a pre-invoice, else to
// the pending track. Safe to call twice.
func (sh *Shipment) RevertInvoiceCancelled() {
	sh.InvoiceID = nil
	if sh.PreInvoiceID != nil {
		sh.Status = StatusPreInvoiced
	} else if sh.Status == StatusInvoiced || sh.Status == StatusPaid {
		sh.Status = onTrack(StatusPending, sh.LineItems.HasReturnLeg())
	}
	sh.touch()
}

// PaymentReference is the fixed receivable key for this shipment:
// originBranch$$shipmentId. It also keys the idempotent initial-paid posting.
func (sh *Shipment) PaymentReference() string {
	return sh.Origin.ID.String() + "$$" + sh.ID.String()
}

// EffectiveInitialPaid clamps the declared initial payment to the amount due
func (sh *Shipment) EffectiveInitialPaid() decimal.Decimal {
	if sh.InitialPaid.GreaterThan(sh.FinalAmount) {
		return sh.FinalAmount
	}
	return sh.InitialPaid
}

func (sh *Shipment) touch() {
	sh.UpdatedAt = time.Now()
	sh.IncrementVersion()
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
