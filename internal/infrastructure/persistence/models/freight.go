package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/freight"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/sequence"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
)

// ShipmentModel is the persistence model for the Shipment aggregate. The
// stock counters live inside the line items JSONB column; the status column
// carries both the delivery and billing state.
type ShipmentModel struct {
	TenantAggregateModel
	ConsignmentNumber string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_shipment_tenant_cn,priority:2"`
	OriginKind        string                 `gorm:"type:varchar(20);not null"`
	OriginID          uuid.UUID              `gorm:"type:uuid;not null;index"`
	ConsignorID       uuid.UUID              `gorm:"type:uuid;not null;index"`
	ConsigneeID       uuid.UUID              `gorm:"type:uuid;not null;index"`
	BillingKind       *string                `gorm:"type:varchar(20)"`
	BillingEntityID   *uuid.UUID             `gorm:"type:uuid;index"`
	BillingLocationID *uuid.UUID             `gorm:"type:uuid"`
	Route             string                 `gorm:"type:varchar(300);index"`
	LineItems         freight.LineItems      `gorm:"type:jsonb;not null"`
	FinalAmount       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	InitialPaid       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Status            freight.ShipmentStatus `gorm:"type:varchar(30);not null;index"`
	PreInvoiceID      *uuid.UUID             `gorm:"type:uuid;index"`
	InvoiceID         *uuid.UUID             `gorm:"type:uuid;index"`
	DeliveredAt       *time.Time
}

// TableName returns the table name for GORM
func (ShipmentModel) TableName() string {
	return "shipments"
}

// ToDomain converts the persistence model to a domain Shipment aggregate.
func (m *ShipmentModel) ToDomain() *freight.Shipment {
	sh := &freight.Shipment{
		ConsignmentNumber: m.ConsignmentNumber,
		Origin:            valueobject.EntityRef{Kind: valueobject.EntityKind(m.OriginKind), ID: m.OriginID},
		ConsignorID:       m.ConsignorID,
		ConsigneeID:       m.ConsigneeID,
		BillingLocationID: m.BillingLocationID,
		Route:             m.Route,
		LineItems:         m.LineItems,
		FinalAmount:       m.FinalAmount,
		InitialPaid:       m.InitialPaid,
		Status:            m.Status,
		PreInvoiceID:      m.PreInvoiceID,
		InvoiceID:         m.InvoiceID,
		DeliveredAt:       m.DeliveredAt,
	}
	if m.BillingKind != nil && m.BillingEntityID != nil {
		sh.BillingEntity = &valueobject.EntityRef{
			Kind: valueobject.EntityKind(*m.BillingKind),
			ID:   *m.BillingEntityID,
		}
	}
	m.PopulateTenantAggregateRoot(&sh.TenantAggregateRoot)
	return sh
}

// FromDomain populates the persistence model from a domain Shipment.
func (m *ShipmentModel) FromDomain(sh *freight.Shipment) {
	m.FromDomainTenantAggregateRoot(sh.TenantAggregateRoot)
	m.ConsignmentNumber = sh.ConsignmentNumber
	m.OriginKind = string(sh.Origin.Kind)
	m.OriginID = sh.Origin.ID
	m.ConsignorID = sh.ConsignorID
	m.ConsigneeID = sh.ConsigneeID
	if sh.BillingEntity != nil {
		kind := string(sh.BillingEntity.Kind)
		id := sh.BillingEntity.ID
		m.BillingKind = &kind
		m.BillingEntityID = &id
	} else {
		m.BillingKind = nil
		m.BillingEntityID = nil
	}
	m.BillingLocationID = sh.BillingLocationID
	m.Route = sh.Route
	m.LineItems = sh.LineItems
	m.FinalAmount = sh.FinalAmount
	m.InitialPaid = sh.InitialPaid
	m.Status = sh.Status
	m.PreInvoiceID = sh.PreInvoiceID
	m.InvoiceID = sh.InvoiceID
	m.DeliveredAt = sh.DeliveredAt
}

// ShipmentModelFromDomain creates a new persistence model from a domain Shipment.
func ShipmentModelFromDomain(sh *freight.Shipment) *ShipmentModel {
	m := &ShipmentModel{}
	m.FromDomain(sh)
	return m
}

// ManifestModel is the persistence model for the Manifest aggregate. The
// sequence number carries a unique index over its scope columns: a concurrent
// allocation of the same number fails on insert and the caller retries.
type ManifestModel struct {
	TenantAggregateModel
	ManifestNumber string                 `gorm:"type:varchar(50);not null;index"`
	SequenceNo     int                    `gorm:"not null;uniqueIndex:idx_manifest_scope_seq,priority:4"`
	FiscalYear     int                    `gorm:"not null;uniqueIndex:idx_manifest_scope_seq,priority:2"`
	EntityKind     string                 `gorm:"type:varchar(20);not null"`
	EntityID       uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:idx_manifest_scope_seq,priority:3"`
	VehicleNo      string                 `gorm:"type:varchar(20);not null;index"`
	Route          string                 `gorm:"type:varchar(300)"`
	Status         freight.ManifestStatus `gorm:"type:varchar(20);not null;index"`
	Items          []ManifestItemModel    `gorm:"foreignKey:ManifestID"`
	CompletedAt    *time.Time
	CancelledAt    *time.Time
}

// TableName returns the table name for GORM
func (ManifestModel) TableName() string {
	return "manifests"
}

// ManifestItemModel records one shipment's inclusion in a manifest
type ManifestItemModel struct {
	BaseModel
	ManifestID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ShipmentID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ConsignmentNumber string    `gorm:"type:varchar(50);not null"`
	ItemType          string    `gorm:"type:varchar(100);not null"`
	Units             int       `gorm:"not null"`
	Delivered         bool      `gorm:"not null;default:false"`
	DeliveredAt       *time.Time
	Removed           bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ManifestItemModel) TableName() string {
	return "manifest_items"
}

// ToDomain converts the persistence model to a domain Manifest aggregate.
func (m *ManifestModel) ToDomain() *freight.Manifest {
	items := make([]freight.ManifestItem, len(m.Items))
	for i, it := range m.Items {
		items[i] = freight.ManifestItem{
			BaseEntity:        it.ToDomain(),
			ManifestID:        it.ManifestID,
			ShipmentID:        it.ShipmentID,
			ConsignmentNumber: it.ConsignmentNumber,
			ItemType:          it.ItemType,
			Units:             it.Units,
			Delivered:         it.Delivered,
			DeliveredAt:       it.DeliveredAt,
			Removed:           it.Removed,
		}
	}

	mf := &freight.Manifest{
		ManifestNumber: m.ManifestNumber,
		SequenceNo:     m.SequenceNo,
		FiscalYear:     sequence.FiscalYear(m.FiscalYear),
		Entity:         valueobject.EntityRef{Kind: valueobject.EntityKind(m.EntityKind), ID: m.EntityID},
		VehicleNo:      m.VehicleNo,
		Route:          m.Route,
		Status:         m.Status,
		Items:          items,
		CompletedAt:    m.CompletedAt,
		CancelledAt:    m.CancelledAt,
	}
	m.PopulateTenantAggregateRoot(&mf.TenantAggregateRoot)
	return mf
}

// FromDomain populates the persistence model from a domain Manifest.
func (m *ManifestModel) FromDomain(mf *freight.Manifest) {
	m.FromDomainTenantAggregateRoot(mf.TenantAggregateRoot)
	m.ManifestNumber = mf.ManifestNumber
	m.SequenceNo = mf.SequenceNo
	m.FiscalYear = int(mf.FiscalYear)
	m.EntityKind = string(mf.Entity.Kind)
	m.EntityID = mf.Entity.ID
	m.VehicleNo = mf.VehicleNo
	m.Route = mf.Route
	m.Status = mf.Status
	m.CompletedAt = mf.CompletedAt
	m.CancelledAt = mf.CancelledAt

	m.Items = make([]ManifestItemModel, len(mf.Items))
	for i, it := range mf.Items {
		im := ManifestItemModel{
			ManifestID:        mf.ID,
			ShipmentID:        it.ShipmentID,
			ConsignmentNumber: it.ConsignmentNumber,
			ItemType:          it.ItemType,
			Units:             it.Units,
			Delivered:         it.Delivered,
			DeliveredAt:       it.DeliveredAt,
			Removed:           it.Removed,
		}
		im.FromDomainBaseEntity(it.BaseEntity)
		m.Items[i] = im
	}
}

// ManifestModelFromDomain creates a new persistence model from a domain Manifest.
func ManifestModelFromDomain(mf *freight.Manifest) *ManifestModel {
	m := &ManifestModel{}
	m.FromDomain(mf)
	return m
}

// ManifestAdjustmentModel is the append-only stock correction row
type ManifestAdjustmentModel struct {
	TenantAggregateModel
	ShipmentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ManifestID     *uuid.UUID      `gorm:"type:uuid;index"`
	ItemType       string          `gorm:"type:varchar(100);not null"`
	DeltaInStock   int             `gorm:"not null;default:0"`
	DeltaInTransit int             `gorm:"not null;default:0"`
	DeltaDelivered int             `gorm:"not null;default:0"`
	DeltaAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Reason         string          `gorm:"type:text;not null"`
	AdjustedBy     *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ManifestAdjustmentModel) TableName() string {
	return "manifest_adjustments"
}

// ToDomain converts the persistence model to a domain ManifestAdjustment.
func (m *ManifestAdjustmentModel) ToDomain() *freight.ManifestAdjustment {
	adj := &freight.ManifestAdjustment{
		ShipmentID:     m.ShipmentID,
		ManifestID:     m.ManifestID,
		ItemType:       m.ItemType,
		DeltaInStock:   m.DeltaInStock,
		DeltaInTransit: m.DeltaInTransit,
		DeltaDelivered: m.DeltaDelivered,
		DeltaAmount:    m.DeltaAmount,
		Reason:         m.Reason,
		AdjustedBy:     m.AdjustedBy,
	}
	m.PopulateTenantAggregateRoot(&adj.TenantAggregateRoot)
	return adj
}

// FromDomain populates the persistence model from a domain ManifestAdjustment.
func (m *ManifestAdjustmentModel) FromDomain(adj *freight.ManifestAdjustment) {
	m.FromDomainTenantAggregateRoot(adj.TenantAggregateRoot)
	m.ShipmentID = adj.ShipmentID
	m.ManifestID = adj.ManifestID
	m.ItemType = adj.ItemType
	m.DeltaInStock = adj.DeltaInStock
	m.DeltaInTransit = adj.DeltaInTransit
	m.DeltaDelivered = adj.DeltaDelivered
	m.DeltaAmount = adj.DeltaAmount
	m.Reason = adj.Reason
	m.AdjustedBy = adj.AdjustedBy
}

// ManifestAdjustmentModelFromDomain creates a new persistence model from a
// domain ManifestAdjustment.
func ManifestAdjustmentModelFromDomain(adj *freight.ManifestAdjustment) *ManifestAdjustmentModel {
	m := &ManifestAdjustmentModel{}
	m.FromDomain(adj)
	return m
}

// VehicleModel is the persistence model for the Vehicle aggregate
type VehicleModel struct {
	TenantAggregateModel
	VehicleNo    string                `gorm:"type:varchar(20);not null;uniqueIndex:idx_vehicle_tenant_no,priority:2"`
	Status       freight.VehicleStatus `gorm:"type:varchar(20);not null;index"`
	CurrentRoute string                `gorm:"type:varchar(300)"`
}

// TableName returns the table name for GORM
func (VehicleModel) TableName() string {
	return "vehicles"
}

// ToDomain converts the persistence model to a domain Vehicle.
func (m *VehicleModel) ToDomain() *freight.Vehicle {
	v := &freight.Vehicle{
		VehicleNo:    m.VehicleNo,
		Status:       m.Status,
		CurrentRoute: m.CurrentRoute,
	}
	m.PopulateTenantAggregateRoot(&v.TenantAggregateRoot)
	return v
}

// FromDomain populates the persistence model from a domain Vehicle.
func (m *VehicleModel) FromDomain(v *freight.Vehicle) {
	m.FromDomainTenantAggregateRoot(v.TenantAggregateRoot)
	m.VehicleNo = v.VehicleNo
	m.Status = v.Status
	m.CurrentRoute = v.CurrentRoute
}

// VehicleModelFromDomain creates a new persistence model from a domain Vehicle.
func VehicleModelFromDomain(v *freight.Vehicle) *VehicleModel {
	m := &VehicleModel{}
	m.FromDomain(v)
	return m
}
