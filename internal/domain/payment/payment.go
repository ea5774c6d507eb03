package payment

import (
	"fmt"
	"time"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction separates money owed to the tenant from money the tenant owes
type Direction string

const (
	DirectionReceivable Direction = "receivable"
	DirectionPayable    Direction = "payable"
)

// IsValid checks if the direction is known
func (d Direction) IsValid() bool {
	return d == DirectionReceivable || d == DirectionPayable
}

// PaymentStatus is derived from the balance, never stored independently
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSettled PaymentStatus = "PAID"
)

// Payment is one receivable or payable row, keyed by
// (tenant, entity, direction, referenceNo). For a shipment receivable the
// reference is originBranch$$shipmentId, fixed for the shipment's lifetime.
type Payment struct {
	shared.TenantAggregateRoot
	Entity      valueobject.EntityRef
	Direction   Direction
	ReferenceNo string
	AmountDue   decimal.Decimal
	AmountPaid  decimal.Decimal
	Balance     decimal.Decimal
	Status      PaymentStatus
}

// NewPayment creates a payment row with the balance invariant applied
func NewPayment(
	tenantID uuid.UUID,
	entity valueobject.EntityRef,
	direction Direction,
	referenceNo string,
	amountDue, amountPaid decimal.Decimal,
) (*Payment, error) {
	if !entity.Kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTITY", fmt.Sprintf("Unknown entity kind %q", entity.Kind))
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", fmt.Sprintf("Unknown payment direction %q", direction))
	}
	if referenceNo == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Payment reference cannot be empty")
	}
	if amountDue.IsNegative() || amountPaid.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amounts cannot be negative")
	}

	p := &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Entity:              entity,
		Direction:           direction,
		ReferenceNo:         referenceNo,
		AmountDue:           amountDue,
		AmountPaid:          amountPaid,
	}
	p.recompute()
	return p, nil
}

// SetAmounts replaces both sides of the row and re-derives balance and status
func (p *Payment) SetAmounts(due, paid decimal.Decimal) error {
	if due.IsNegative() || paid.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amounts cannot be negative")
	}
	p.AmountDue = due
	p.AmountPaid = paid
	p.recompute()
	p.touch()
	return nil
}

// AddPaid credits a settlement amount against the row
func (p *Payment) AddPaid(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Settlement amount must be positive")
	}
	p.AmountPaid = p.AmountPaid.Add(amount)
	p.recompute()
	p.touch()
	return nil
}

// ZeroOut clears the row without deleting it, preserving the audit trail of
// a removed shipment.
func (p *Payment) ZeroOut() {
	p.AmountDue = decimal.Zero
	p.AmountPaid = decimal.Zero
	p.recompute()
	p.touch()
}

// recompute applies balance = max(due−paid, 0) and the derived status
func (p *Payment) recompute() {
	balance := p.AmountDue.Sub(p.AmountPaid)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	p.Balance = balance
	if balance.IsZero() && p.AmountDue.IsPositive() {
		p.Status = PaymentSettled
	} else {
		p.Status = PaymentPending
	}
}

func (p *Payment) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
