package payment

import (
	"time"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentEntitySummary is the rollup row per (tenant, entity, direction):
// the running totals the back office reads instead of summing payment rows
// on every screen. The reconciliation sync can rebuild it at any time.
type PaymentEntitySummary struct {
	shared.TenantAggregateRoot
	Entity       valueobject.EntityRef
	Direction    Direction
	TotalDue     decimal.Decimal
	TotalPaid    decimal.Decimal
	TotalBalance decimal.Decimal
}

// NewPaymentEntitySummary creates a zeroed rollup row
func NewPaymentEntitySummary(tenantID uuid.UUID, entity valueobject.EntityRef, direction Direction) *PaymentEntitySummary {
	return &PaymentEntitySummary{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Entity:              entity,
		Direction:           direction,
		TotalDue:            decimal.Zero,
		TotalPaid:           decimal.Zero,
		TotalBalance:        decimal.Zero,
	}
}

// ApplyDelta rolls an incremental change into the totals
func (s *PaymentEntitySummary) ApplyDelta(dueDelta, paidDelta decimal.Decimal) {
	s.TotalDue = s.TotalDue.Add(dueDelta)
	s.TotalPaid = s.TotalPaid.Add(paidDelta)
	if s.TotalDue.IsNegative() {
		s.TotalDue = decimal.Zero
	}
	if s.TotalPaid.IsNegative() {
		s.TotalPaid = decimal.Zero
	}
	s.recompute()
	s.touch()
}

// Reset replaces the totals outright, the reconciliation path
func (s *PaymentEntitySummary) Reset(totalDue, totalPaid decimal.Decimal) {
	s.TotalDue = totalDue
	s.TotalPaid = totalPaid
	s.recompute()
	s.touch()
}

func (s *PaymentEntitySummary) recompute() {
	balance := s.TotalDue.Sub(s.TotalPaid)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	s.TotalBalance = balance
}

func (s *PaymentEntitySummary) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
