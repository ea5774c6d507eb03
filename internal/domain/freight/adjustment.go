package freight

import (
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ManifestAdjustment is an append-only audit record of a manual correction to
// one shipment line item's stock counters. The shipment carries the net
// counters; the adjustment rows carry the history.
type ManifestAdjustment struct {
	shared.TenantAggregateRoot
	ShipmentID     uuid.UUID
	ManifestID     *uuid.UUID
	ItemType       string
	DeltaInStock   int
	DeltaInTransit int
	DeltaDelivered int
	DeltaAmount    decimal.Decimal
	Reason         string
	AdjustedBy     *uuid.UUID
}

// NewManifestAdjustment creates an adjustment record
func NewManifestAdjustment(
	tenantID, shipmentID uuid.UUID,
	itemType string,
	deltaInStock, deltaInTransit, deltaDelivered int,
	deltaAmount decimal.Decimal,
	reason string,
) (*ManifestAdjustment, error) {
	if shipmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT", "Adjustment requires a shipment")
	}
	if itemType == "" {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT", "Adjustment requires an item type")
	}
	if deltaInStock == 0 && deltaInTransit == 0 && deltaDelivered == 0 && deltaAmount.IsZero() {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT", "Adjustment must change at least one counter or the amount")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT", "Adjustment reason cannot be empty")
	}

	return &ManifestAdjustment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ShipmentID:          shipmentID,
		ItemType:            itemType,
		DeltaInStock:        deltaInStock,
		DeltaInTransit:      deltaInTransit,
		DeltaDelivered:      deltaDelivered,
		DeltaAmount:         deltaAmount,
		Reason:              reason,
	}, nil
}
