package freight

import (
	"fmt"
	"strings"
	"time"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/sequence"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ManifestStatus represents the lifecycle of a dispatch manifest
type ManifestStatus string

const (
	ManifestScheduled ManifestStatus = "SCHEDULED"
	ManifestCompleted ManifestStatus = "COMPLETED"
	ManifestCancelled ManifestStatus = "CANCELLED"
)

// IsValid checks if the status is a known ManifestStatus
func (s ManifestStatus) IsValid() bool {
	return s == ManifestScheduled || s == ManifestCompleted || s == ManifestCancelled
}

// ManifestItem records one shipment's inclusion in a manifest, with the units
// it drew into transit and its per-manifest delivery state.
type ManifestItem struct {
	shared.BaseEntity
	ManifestID        uuid.UUID
	ShipmentID        uuid.UUID
	ConsignmentNumber string
	ItemType          string
	Units             int
	Delivered         bool
	DeliveredAt       *time.Time
	Removed           bool
}

// Manifest is the dispatch run aggregate: a numbered set of shipments
// assigned to a vehicle leaving one branch or hub within a fiscal year.
type Manifest struct {
	shared.TenantAggregateRoot
	ManifestNumber string
	SequenceNo     int
	FiscalYear     sequence.FiscalYear
	Entity         valueobject.EntityRef // dispatching branch or hub
	VehicleNo      string
	Route          string
	Status         ManifestStatus
	Items          []ManifestItem
	CompletedAt    *time.Time
	CancelledAt    *time.Time
}

// ComposeManifestNumber builds the display number MF{fy}{entityToken}{seq}.
// The entity token is the first 4 hex characters of the entity id, uppercased,
// enough to keep numbers readable while staying unique within the scope.
func ComposeManifestNumber(fy sequence.FiscalYear, entity valueobject.EntityRef, seq int) string {
	return fmt.Sprintf("MF%s%s%d", fy.Token(), entityToken(entity), seq)
}

func entityToken(entity valueobject.EntityRef) string {
	compact := strings.ReplaceAll(entity.ID.String(), "-", "")
	return strings.ToUpper(compact[:4])
}

// NewManifest creates a SCHEDULED manifest with an allocated sequence number
func NewManifest(
	tenantID uuid.UUID,
	entity valueobject.EntityRef,
	fy sequence.FiscalYear,
	seq int,
	vehicleNo string,
	route string,
) (*Manifest, error) {
	if entity.Kind != valueobject.EntityKindBranch && entity.Kind != valueobject.EntityKindHub {
		return nil, shared.NewDomainError("INVALID_MANIFEST_ENTITY", "Manifest entity must be a branch or hub")
	}
	if seq < 1 {
		return nil, shared.NewDomainError("INVALID_MANIFEST_NUMBER", "Manifest sequence number must be positive")
	}
	if vehicleNo == "" {
		return nil, shared.NewDomainError("INVALID_VEHICLE", "Manifest requires a vehicle")
	}

	m := &Manifest{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ManifestNumber:      ComposeManifestNumber(fy, entity, seq),
		SequenceNo:          seq,
		FiscalYear:          fy,
		Entity:              entity,
		VehicleNo:           vehicleNo,
		Route:               route,
		Status:              ManifestScheduled,
		Items:               make([]ManifestItem, 0),
	}

	m.AddDomainEvent(NewManifestCreatedEvent(m))

	return m, nil
}

// AddItem records a shipment's inclusion with the units actually drawn
func (m *Manifest) AddItem(shipmentID uuid.UUID, consignmentNumber, itemType string, units int) error {
	if m.Status != ManifestScheduled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot add consignments to a %s manifest", m.Status))
	}
	if units < 1 {
		return shared.NewDomainError("INVALID_LINE_ITEMS", "Manifest item must carry at least one unit")
	}
	m.Items = append(m.Items, ManifestItem{
		BaseEntity:        shared.NewBaseEntity(),
		ManifestID:        m.ID,
		ShipmentID:        shipmentID,
		ConsignmentNumber: consignmentNumber,
		ItemType:          itemType,
		Units:             units,
	})
	m.touch()
	return nil
}

// RemoveItem marks a shipment's inclusion removed and returns the item so the
// caller can credit the units back to the shipment's stock.
func (m *Manifest) RemoveItem(consignmentNumber string) (*ManifestItem, error) {
	if m.Status != ManifestScheduled {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot remove consignments from a %s manifest", m.Status))
	}
	for i := range m.Items {
		it := &m.Items[i]
		if it.ConsignmentNumber == consignmentNumber && !it.Removed {
			it.Removed = true
			m.touch()
			return it, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Consignment %s is not on this manifest", consignmentNumber))
}

// ActiveItems returns the items not removed from the manifest
func (m *Manifest) ActiveItems() []ManifestItem {
	out := make([]ManifestItem, 0, len(m.Items))
	for _, it := range m.Items {
		if !it.Removed {
			out = append(out, it)
		}
	}
	return out
}

// MarkItemDelivered records delivery of one shipment's units on this manifest
func (m *Manifest) MarkItemDelivered(shipmentID uuid.UUID, deliveredAt time.Time) {
	for i := range m.Items {
		it := &m.Items[i]
		if it.ShipmentID == shipmentID && !it.Removed && !it.Delivered {
			it.Delivered = true
			at := deliveredAt
			it.DeliveredAt = &at
		}
	}
	m.touch()
}

// Complete closes the manifest after its run finishes
func (m *Manifest) Complete(at time.Time) error {
	if m.Status != ManifestScheduled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete a %s manifest", m.Status))
	}
	m.Status = ManifestCompleted
	m.CompletedAt = &at
	m.touch()
	m.AddDomainEvent(NewManifestClosedEvent(m))
	return nil
}

// Cancel aborts a scheduled manifest; the caller returns its units to stock
func (m *Manifest) Cancel(at time.Time) error {
	if m.Status != ManifestScheduled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel a %s manifest", m.Status))
	}
	m.Status = ManifestCancelled
	m.CancelledAt = &at
	m.touch()
	m.AddDomainEvent(NewManifestClosedEvent(m))
	return nil
}

func (m *Manifest) touch() {
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}
