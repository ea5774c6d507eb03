package freight

import (
	"context"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/sequence"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// ShipmentRepository defines persistence for shipments
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *Shipment) error
	Update(ctx context.Context, shipment *Shipment) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Shipment, error)
	FindByConsignmentNumber(ctx context.Context, tenantID uuid.UUID, consignmentNumber string) (*Shipment, error)
	FindByConsignmentNumbers(ctx context.Context, tenantID uuid.UUID, consignmentNumbers []string) ([]*Shipment, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*Shipment, error)
	FindByStatus(ctx context.Context, tenantID uuid.UUID, statuses []ShipmentStatus, filter shared.Filter) (shared.Paginated[*Shipment], error)
	FindByInvoiceID(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*Shipment, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*Shipment], error)
	// ExistsActiveOnRoute reports whether any undelivered shipment's route
	// mentions the given vehicle number. Used for the vehicle release rule.
	ExistsActiveOnRoute(ctx context.Context, tenantID uuid.UUID, vehicleNo string) (bool, error)
}

// ManifestRepository defines persistence for manifests. Create must
// translate a unique violation on (tenant, fiscal year, entity, sequence_no)
// into shared.ErrAlreadyExists so callers can retry the allocation.
type ManifestRepository interface {
	Create(ctx context.Context, manifest *Manifest) error
	Update(ctx context.Context, manifest *Manifest) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Manifest, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*Manifest], error)
	// MaxSequenceNo returns the highest allocated sequence number inside the
	// scope, or 0 when the scope is empty.
	MaxSequenceNo(ctx context.Context, scope sequence.Scope) (int, error)
	// ExistsForShipment reports whether any non-cancelled manifest still
	// includes the shipment. Guards shipment deletion.
	ExistsForShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) (bool, error)
}

// AdjustmentRepository persists the append-only stock correction ledger
type AdjustmentRepository interface {
	Create(ctx context.Context, adjustment *ManifestAdjustment) error
	FindByShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) ([]*ManifestAdjustment, error)
}

// VehicleRepository defines persistence for the vehicle pool
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *Vehicle) error
	Update(ctx context.Context, vehicle *Vehicle) error
	FindByVehicleNo(ctx context.Context, tenantID uuid.UUID, vehicleNo string) (*Vehicle, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*Vehicle], error)
}
