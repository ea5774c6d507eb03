package freight

import (
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ShipmentCreatedEvent is raised when a new consignment is booked
type ShipmentCreatedEvent struct {
	shared.BaseDomainEvent
	ConsignmentNumber string          `json:"consignment_number"`
	FinalAmount       decimal.Decimal `json:"final_amount"`
	InitialPaid       decimal.Decimal `json:"initial_paid"`
}

// NewShipmentCreatedEvent creates a shipment created event
func NewShipmentCreatedEvent(sh *Shipment) *ShipmentCreatedEvent {
	return &ShipmentCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("shipment.created", "Shipment", sh.ID, sh.TenantID),
		ConsignmentNumber: sh.ConsignmentNumber,
		FinalAmount:       sh.FinalAmount,
		InitialPaid:       sh.InitialPaid,
	}
}

// ShipmentDeliveredEvent is raised when the last in-transit unit lands
type ShipmentDeliveredEvent struct {
	shared.BaseDomainEvent
	ConsignmentNumber string `json:"consignment_number"`
	Status            string `json:"status"`
}

// NewShipmentDeliveredEvent creates a shipment delivered event
func NewShipmentDeliveredEvent(sh *Shipment) *ShipmentDeliveredEvent {
	return &ShipmentDeliveredEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("shipment.delivered", "Shipment", sh.ID, sh.TenantID),
		ConsignmentNumber: sh.ConsignmentNumber,
		Status:            sh.Status.String(),
	}
}

// ManifestCreatedEvent is raised when a dispatch run is scheduled
type ManifestCreatedEvent struct {
	shared.BaseDomainEvent
	ManifestNumber string `json:"manifest_number"`
	VehicleNo      string `json:"vehicle_no"`
}

// NewManifestCreatedEvent creates a manifest created event
func NewManifestCreatedEvent(m *Manifest) *ManifestCreatedEvent {
	return &ManifestCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("manifest.created", "Manifest", m.ID, m.TenantID),
		ManifestNumber:  m.ManifestNumber,
		VehicleNo:       m.VehicleNo,
	}
}

// ManifestClosedEvent is raised when a run completes or is cancelled
type ManifestClosedEvent struct {
	shared.BaseDomainEvent
	ManifestNumber string `json:"manifest_number"`
	Status         string `json:"status"`
	VehicleNo      string `json:"vehicle_no"`
}

// NewManifestClosedEvent creates a manifest closed event
func NewManifestClosedEvent(m *Manifest) *ManifestClosedEvent {
	return &ManifestClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("manifest.closed", "Manifest", m.ID, m.TenantID),
		ManifestNumber:  m.ManifestNumber,
		Status:          string(m.Status),
		VehicleNo:       m.VehicleNo,
	}
}
