package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/billing"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/sequence"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
)

// InvoiceModel is the persistence model for the Invoice aggregate. The
// serial carries a unique index over the scope columns; a concurrent batch
// allocating the same serial fails on insert and the whole batch rolls back.
type InvoiceModel struct {
	TenantAggregateModel
	Code              string                   `gorm:"type:varchar(50);not null;index"`
	SequenceNo        int                      `gorm:"not null;uniqueIndex:idx_invoice_scope_seq,priority:5"`
	FiscalYear        int                      `gorm:"not null;uniqueIndex:idx_invoice_scope_seq,priority:2"`
	Category          sequence.BillingCategory `gorm:"type:varchar(5);not null;uniqueIndex:idx_invoice_scope_seq,priority:3"`
	BranchID          *uuid.UUID               `gorm:"type:uuid;uniqueIndex:idx_invoice_scope_seq,priority:4"`
	BranchCode        string                   `gorm:"type:varchar(20)"`
	BillingKind       string                   `gorm:"type:varchar(20);not null"`
	BillingEntityID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	BillingLocationID uuid.UUID                `gorm:"type:uuid;not null"`
	Lines             []InvoiceLineModel       `gorm:"foreignKey:InvoiceID"`
	Total             decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Status            billing.InvoiceStatus    `gorm:"type:varchar(20);not null;index"`
	PreInvoiceID      *uuid.UUID               `gorm:"type:uuid;index"`
	IssuedAt          time.Time                `gorm:"not null"`
	CancelledAt       *time.Time
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceLineModel is one frozen shipment snapshot on an invoice
type InvoiceLineModel struct {
	BaseModel
	InvoiceID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ShipmentID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ConsignmentNumber string          `gorm:"type:varchar(50);not null"`
	TaxableValue      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Charges           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	FinalAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// ToDomain converts the persistence model to a domain Invoice aggregate.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	lines := make([]billing.InvoiceLine, len(m.Lines))
	for i, l := range m.Lines {
		lines[i] = billing.InvoiceLine{
			BaseEntity:        l.ToDomain(),
			InvoiceID:         l.InvoiceID,
			ShipmentID:        l.ShipmentID,
			ConsignmentNumber: l.ConsignmentNumber,
			TaxableValue:      l.TaxableValue,
			TaxAmount:         l.TaxAmount,
			Charges:           l.Charges,
			FinalAmount:       l.FinalAmount,
		}
	}

	inv := &billing.Invoice{
		Code:              m.Code,
		SequenceNo:        m.SequenceNo,
		FiscalYear:        sequence.FiscalYear(m.FiscalYear),
		Category:          m.Category,
		BranchID:          m.BranchID,
		BranchCode:        m.BranchCode,
		BillingEntity:     valueobject.EntityRef{Kind: valueobject.EntityKind(m.BillingKind), ID: m.BillingEntityID},
		BillingLocationID: m.BillingLocationID,
		Lines:             lines,
		Total:             m.Total,
		Status:            m.Status,
		PreInvoiceID:      m.PreInvoiceID,
		IssuedAt:          m.IssuedAt,
		CancelledAt:       m.CancelledAt,
	}
	m.PopulateTenantAggregateRoot(&inv.TenantAggregateRoot)
	return inv
}

// FromDomain populates the persistence model from a domain Invoice.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.Code = inv.Code
	m.SequenceNo = inv.SequenceNo
	m.FiscalYear = int(inv.FiscalYear)
	m.Category = inv.Category
	m.BranchID = inv.BranchID
	m.BranchCode = inv.BranchCode
	m.BillingKind = string(inv.BillingEntity.Kind)
	m.BillingEntityID = inv.BillingEntity.ID
	m.BillingLocationID = inv.BillingLocationID
	m.Total = inv.Total
	m.Status = inv.Status
	m.PreInvoiceID = inv.PreInvoiceID
	m.IssuedAt = inv.IssuedAt
	m.CancelledAt = inv.CancelledAt

	m.Lines = make([]InvoiceLineModel, len(inv.Lines))
	for i, l := range inv.Lines {
		lm := InvoiceLineModel{
			InvoiceID:         inv.ID,
			ShipmentID:        l.ShipmentID,
			ConsignmentNumber: l.ConsignmentNumber,
			TaxableValue:      l.TaxableValue,
			TaxAmount:         l.TaxAmount,
			Charges:           l.Charges,
			FinalAmount:       l.FinalAmount,
		}
		lm.FromDomainBaseEntity(l.BaseEntity)
		m.Lines[i] = lm
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// PreInvoiceModel is the persistence model for the PreInvoice draft. Drafts
// number from their own series, with the same scope-index enforcement as
// issued invoices.
type PreInvoiceModel struct {
	TenantAggregateModel
	Code              string                   `gorm:"type:varchar(50);not null;index"`
	SequenceNo        int                      `gorm:"not null;uniqueIndex:idx_pre_invoice_scope_seq,priority:5"`
	FiscalYear        int                      `gorm:"not null;uniqueIndex:idx_pre_invoice_scope_seq,priority:2"`
	Category          sequence.BillingCategory `gorm:"type:varchar(5);not null;uniqueIndex:idx_pre_invoice_scope_seq,priority:3"`
	BranchID          *uuid.UUID               `gorm:"type:uuid;uniqueIndex:idx_pre_invoice_scope_seq,priority:4"`
	BranchCode        string                   `gorm:"type:varchar(20)"`
	BillingKind       string                   `gorm:"type:varchar(20);not null"`
	BillingEntityID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	BillingLocationID uuid.UUID                `gorm:"type:uuid;not null"`
	Lines             []PreInvoiceLineModel    `gorm:"foreignKey:PreInvoiceID"`
	Total             decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Status            billing.PreInvoiceStatus `gorm:"type:varchar(20);not null;index"`
	InvoiceID         *uuid.UUID               `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (PreInvoiceModel) TableName() string {
	return "pre_invoices"
}

// PreInvoiceLineModel is one editable shipment line on a draft
type PreInvoiceLineModel struct {
	BaseModel
	PreInvoiceID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ShipmentID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ConsignmentNumber string          `gorm:"type:varchar(50);not null"`
	TaxableValue      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Charges           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	FinalAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (PreInvoiceLineModel) TableName() string {
	return "pre_invoice_lines"
}

// ToDomain converts the persistence model to a domain PreInvoice aggregate.
func (m *PreInvoiceModel) ToDomain() *billing.PreInvoice {
	lines := make([]billing.PreInvoiceLine, len(m.Lines))
	for i, l := range m.Lines {
		lines[i] = billing.PreInvoiceLine{
			BaseEntity:        l.ToDomain(),
			PreInvoiceID:      l.PreInvoiceID,
			ShipmentID:        l.ShipmentID,
			ConsignmentNumber: l.ConsignmentNumber,
			TaxableValue:      l.TaxableValue,
			TaxAmount:         l.TaxAmount,
			Charges:           l.Charges,
			FinalAmount:       l.FinalAmount,
		}
	}

	p := &billing.PreInvoice{
		Code:              m.Code,
		SequenceNo:        m.SequenceNo,
		FiscalYear:        sequence.FiscalYear(m.FiscalYear),
		Category:          m.Category,
		BillingEntity:     valueobject.EntityRef{Kind: valueobject.EntityKind(m.BillingKind), ID: m.BillingEntityID},
		BillingLocationID: m.BillingLocationID,
		BranchID:          m.BranchID,
		BranchCode:        m.BranchCode,
		Lines:             lines,
		Total:             m.Total,
		Status:            m.Status,
		InvoiceID:         m.InvoiceID,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain PreInvoice.
func (m *PreInvoiceModel) FromDomain(p *billing.PreInvoice) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Code = p.Code
	m.SequenceNo = p.SequenceNo
	m.FiscalYear = int(p.FiscalYear)
	m.Category = p.Category
	m.BillingKind = string(p.BillingEntity.Kind)
	m.BillingEntityID = p.BillingEntity.ID
	m.BillingLocationID = p.BillingLocationID
	m.BranchID = p.BranchID
	m.BranchCode = p.BranchCode
	m.Total = p.Total
	m.Status = p.Status
	m.InvoiceID = p.InvoiceID

	m.Lines = make([]PreInvoiceLineModel, len(p.Lines))
	for i, l := range p.Lines {
		lm := PreInvoiceLineModel{
			PreInvoiceID:      p.ID,
			ShipmentID:        l.ShipmentID,
			ConsignmentNumber: l.ConsignmentNumber,
			TaxableValue:      l.TaxableValue,
			TaxAmount:         l.TaxAmount,
			Charges:           l.Charges,
			FinalAmount:       l.FinalAmount,
		}
		lm.FromDomainBaseEntity(l.BaseEntity)
		m.Lines[i] = lm
	}
}

// PreInvoiceModelFromDomain creates a new persistence model from a domain PreInvoice.
func PreInvoiceModelFromDomain(p *billing.PreInvoice) *PreInvoiceModel {
	m := &PreInvoiceModel{}
	m.FromDomain(p)
	return m
}
