package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/payment"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
)

// PaymentModel is the persistence model for one receivable or payable row.
// The natural key (tenant, entity, direction, reference) carries a unique
// index so each shipment owns exactly one row per direction.
type PaymentModel struct {
	TenantAggregateModel
	EntityKind  string                `gorm:"type:varchar(20);not null;uniqueIndex:idx_payment_natural_key,priority:2"`
	EntityID    uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_payment_natural_key,priority:3"`
	Direction   payment.Direction     `gorm:"type:varchar(12);not null;uniqueIndex:idx_payment_natural_key,priority:4"`
	ReferenceNo string                `gorm:"type:varchar(100);not null;uniqueIndex:idx_payment_natural_key,priority:5"`
	AmountDue   decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	AmountPaid  decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Balance     decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status      payment.PaymentStatus `gorm:"type:varchar(12);not null;index"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *payment.Payment {
	p := &payment.Payment{
		Entity:      valueobject.EntityRef{Kind: valueobject.EntityKind(m.EntityKind), ID: m.EntityID},
		Direction:   m.Direction,
		ReferenceNo: m.ReferenceNo,
		AmountDue:   m.AmountDue,
		AmountPaid:  m.AmountPaid,
		Balance:     m.Balance,
		Status:      m.Status,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Payment.
func (m *PaymentModel) FromDomain(p *payment.Payment) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.EntityKind = string(p.Entity.Kind)
	m.EntityID = p.Entity.ID
	m.Direction = p.Direction
	m.ReferenceNo = p.ReferenceNo
	m.AmountDue = p.AmountDue
	m.AmountPaid = p.AmountPaid
	m.Balance = p.Balance
	m.Status = p.Status
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *payment.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// PaymentEntitySummaryModel is the rollup row per (tenant, entity, direction)
type PaymentEntitySummaryModel struct {
	TenantAggregateModel
	EntityKind   string            `gorm:"type:varchar(20);not null;uniqueIndex:idx_summary_entity,priority:2"`
	EntityID     uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_summary_entity,priority:3"`
	Direction    payment.Direction `gorm:"type:varchar(12);not null;uniqueIndex:idx_summary_entity,priority:4"`
	TotalDue     decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	TotalPaid    decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	TotalBalance decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (PaymentEntitySummaryModel) TableName() string {
	return "payment_entity_summaries"
}

// ToDomain converts the persistence model to a domain PaymentEntitySummary.
func (m *PaymentEntitySummaryModel) ToDomain() *payment.PaymentEntitySummary {
	s := &payment.PaymentEntitySummary{
		Entity:       valueobject.EntityRef{Kind: valueobject.EntityKind(m.EntityKind), ID: m.EntityID},
		Direction:    m.Direction,
		TotalDue:     m.TotalDue,
		TotalPaid:    m.TotalPaid,
		TotalBalance: m.TotalBalance,
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain PaymentEntitySummary.
func (m *PaymentEntitySummaryModel) FromDomain(s *payment.PaymentEntitySummary) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.EntityKind = string(s.Entity.Kind)
	m.EntityID = s.Entity.ID
	m.Direction = s.Direction
	m.TotalDue = s.TotalDue
	m.TotalPaid = s.TotalPaid
	m.TotalBalance = s.TotalBalance
}

// PaymentEntitySummaryModelFromDomain creates a new persistence model from a
// domain PaymentEntitySummary.
func PaymentEntitySummaryModelFromDomain(s *payment.PaymentEntitySummary) *PaymentEntitySummaryModel {
	m := &PaymentEntitySummaryModel{}
	m.FromDomain(s)
	return m
}

// PaymentTransactionModel is one append-only ledger entry. Rows are never
// deleted; a void keeps the row and flips its status.
type PaymentTransactionModel struct {
	TenantAggregateModel
	EntityKind      string                    `gorm:"type:varchar(20);not null;index:idx_txn_entity"`
	EntityID        uuid.UUID                 `gorm:"type:uuid;not null;index:idx_txn_entity"`
	Direction       payment.Direction         `gorm:"type:varchar(12);not null"`
	Amount          decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	Method          string                    `gorm:"type:varchar(50);not null;index"`
	Reference       string                    `gorm:"type:varchar(100);index"`
	TransactionDate time.Time                 `gorm:"not null;index"`
	Status          payment.TransactionStatus `gorm:"type:varchar(12);not null;index"`
	VoidedAt        *time.Time
	VoidReason      string                   `gorm:"type:text"`
	Allocations     []PaymentAllocationModel `gorm:"foreignKey:TransactionID"`
}

// TableName returns the table name for GORM
func (PaymentTransactionModel) TableName() string {
	return "payment_transactions"
}

// PaymentAllocationModel earmarks part of a transaction against one invoice.
// The tenant column is denormalized from the owning transaction so per-invoice
// rollups stay a single-table scan.
type PaymentAllocationModel struct {
	BaseModel
	TenantID      uuid.UUID                 `gorm:"type:uuid;not null;index"`
	TransactionID uuid.UUID                 `gorm:"type:uuid;not null;index"`
	InvoiceID     uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	Status        payment.TransactionStatus `gorm:"type:varchar(12);not null"`
}

// TableName returns the table name for GORM
func (PaymentAllocationModel) TableName() string {
	return "payment_allocations"
}

// ToDomain converts the persistence model to a domain PaymentTransaction.
func (m *PaymentTransactionModel) ToDomain() *payment.PaymentTransaction {
	allocs := make([]payment.PaymentAllocation, len(m.Allocations))
	for i, a := range m.Allocations {
		allocs[i] = payment.PaymentAllocation{
			BaseEntity:    a.ToDomain(),
			TransactionID: a.TransactionID,
			InvoiceID:     a.InvoiceID,
			Amount:        a.Amount,
			Status:        a.Status,
		}
	}

	t := &payment.PaymentTransaction{
		Entity:          valueobject.EntityRef{Kind: valueobject.EntityKind(m.EntityKind), ID: m.EntityID},
		Direction:       m.Direction,
		Amount:          m.Amount,
		Method:          m.Method,
		Reference:       m.Reference,
		TransactionDate: m.TransactionDate,
		Status:          m.Status,
		VoidedAt:        m.VoidedAt,
		VoidReason:      m.VoidReason,
		Allocations:     allocs,
	}
	m.PopulateTenantAggregateRoot(&t.TenantAggregateRoot)
	return t
}

// FromDomain populates the persistence model from a domain PaymentTransaction.
func (m *PaymentTransactionModel) FromDomain(t *payment.PaymentTransaction) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.EntityKind = string(t.Entity.Kind)
	m.EntityID = t.Entity.ID
	m.Direction = t.Direction
	m.Amount = t.Amount
	m.Method = t.Method
	m.Reference = t.Reference
	m.TransactionDate = t.TransactionDate
	m.Status = t.Status
	m.VoidedAt = t.VoidedAt
	m.VoidReason = t.VoidReason

	m.Allocations = make([]PaymentAllocationModel, len(t.Allocations))
	for i, a := range t.Allocations {
		am := PaymentAllocationModel{
			TenantID:      t.TenantID,
			TransactionID: t.ID,
			InvoiceID:     a.InvoiceID,
			Amount:        a.Amount,
			Status:        a.Status,
		}
		am.FromDomainBaseEntity(a.BaseEntity)
		m.Allocations[i] = am
	}
}

// PaymentTransactionModelFromDomain creates a new persistence model from a
// domain PaymentTransaction.
func PaymentTransactionModelFromDomain(t *payment.PaymentTransaction) *PaymentTransactionModel {
	m := &PaymentTransactionModel{}
	m.FromDomain(t)
	return m
}
