package freight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/freight"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/sequence"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ManifestService schedules dispatch runs and drives the stock ledger
// through them. Manifest numbers come from the gapless per-scope series:
// read max+1, insert, and retry on the uniqueness violation when another
// writer got there first.
type ManifestService struct {
	manifestRepo   freight.ManifestRepository
	shipmentRepo   freight.ShipmentRepository
	vehicleRepo    freight.VehicleRepository
	adjustmentRepo freight.AdjustmentRepository
	allocator      sequence.Allocator
	logger         *zap.Logger
}

// NewManifestService creates a new ManifestService
func NewManifestService(
	manifestRepo freight.ManifestRepository,
	shipmentRepo freight.ShipmentRepository,
	vehicleRepo freight.VehicleRepository,
	adjustmentRepo freight.AdjustmentRepository,
	allocator sequence.Allocator,
	logger *zap.Logger,
) *ManifestService {
	return &ManifestService{
		manifestRepo:   manifestRepo,
		shipmentRepo:   shipmentRepo,
		vehicleRepo:    vehicleRepo,
		adjustmentRepo: adjustmentRepo,
		allocator:      allocator,
		logger:         logger,
	}
}

// CreateManifestRequest carries a dispatch-run booking
type CreateManifestRequest struct {
	TenantID     uuid.UUID
	Entity       valueobject.EntityRef
	VehicleNo    string
	Route        string
	Consignments []string
}

// CreateManifest schedules a run: allocates the scope serial with bounded
// retry, includes every named consignment with all of its in-stock units,
// moves those units to in-transit and marks the vehicle busy.
func (s *ManifestService) CreateManifest(ctx context.Context, req CreateManifestRequest) (*freight.Manifest, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "manifest", "create")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, req.TenantID.String(),
		telemetry.SpanAttrVehicleNo, req.VehicleNo,
		telemetry.SpanAttrEntityID, req.Entity.ID.String(),
	)

	if len(req.Consignments) == 0 {
		err := shared.NewDomainError("INVALID_INPUT", "Manifest requires at least one consignment")
		telemetry.RecordError(span, err)
		return nil, err
	}

	vehicle, err := s.vehicleRepo.FindByVehicleNo(ctx, req.TenantID, req.VehicleNo)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if vehicle.Status == freight.VehicleBusy {
		err := shared.NewDomainError("VEHICLE_BUSY",
			fmt.Sprintf("Vehicle %s is already on route %s", vehicle.VehicleNo, vehicle.CurrentRoute))
		telemetry.RecordError(span, err)
		return nil, err
	}

	shipments, err := s.shipmentRepo.FindByConsignmentNumbers(ctx, req.TenantID, req.Consignments)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if len(shipments) != len(req.Consignments) {
		err := shared.NewDomainError("NOT_FOUND",
			fmt.Sprintf("Resolved %d of %d consignments", len(shipments), len(req.Consignments)))
		telemetry.RecordError(span, err)
		return nil, err
	}

	// units each shipment will contribute, captured before any mutation
	type draw struct {
		shipment *freight.Shipment
		itemType string
		units    int
	}
	var draws []draw
	for _, sh := range shipments {
		seen := make(map[string]bool)
		for _, li := range sh.LineItems {
			if seen[li.ItemType] {
				continue
			}
			seen[li.ItemType] = true
			units := 0
			for _, other := range sh.LineItems {
				if other.ItemType == li.ItemType {
					units += other.InStock
				}
			}
			if units > 0 {
				draws = append(draws, draw{shipment: sh, itemType: li.ItemType, units: units})
			}
		}
	}
	if len(draws) == 0 {
		err := shared.NewDomainError("INVALID_STATE", "No consignment has units in stock")
		telemetry.RecordError(span, err)
		return nil, err
	}

	fy := sequence.CurrentFiscalYear()
	scope := sequence.NewManifestScope(req.TenantID, fy, req.Entity.ID)

	var manifest *freight.Manifest
	for attempt := 1; attempt <= sequence.MaxAllocationRetries; attempt++ {
		seq, err := s.allocator.Next(ctx, scope)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}

		candidate, err := freight.NewManifest(req.TenantID, req.Entity, fy, seq, req.VehicleNo, req.Route)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		for _, d := range draws {
			if err := candidate.AddItem(d.shipment.ID, d.shipment.ConsignmentNumber, d.itemType, d.units); err != nil {
				telemetry.RecordError(span, err)
				return nil, err
			}
		}

		err = s.manifestRepo.Create(ctx, candidate)
		if err == nil {
			manifest = candidate
			break
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("failed to create manifest: %w", err)
		}
		telemetry.AddEvent(span, "sequence_collision", telemetry.SpanAttrAttempts, attempt)
	}
	if manifest == nil {
		err := sequence.NewContentionError(scope, sequence.MaxAllocationRetries)
		telemetry.RecordError(span, err)
		return nil, err
	}

	for _, d := range draws {
		d.shipment.MoveToTransit(d.itemType, d.units)
	}
	for _, sh := range shipments {
		if req.Route != "" {
			sh.Route = req.Route
		}
		if err := s.shipmentRepo.Update(ctx, sh); err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("failed to update shipment stock: %w", err)
		}
	}

	if err := vehicle.MarkBusy(req.Route); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}

	s.logger.Info("Manifest created",
		zap.String("tenant_id", req.TenantID.String()),
		zap.String("manifest_number", manifest.ManifestNumber),
		zap.String("vehicle_no", req.VehicleNo),
		zap.Int("consignments", len(shipments)),
	)

	return manifest, nil
}

// GetManifest loads one manifest
func (s *ManifestService) GetManifest(ctx context.Context, tenantID, id uuid.UUID) (*freight.Manifest, error) {
	return s.manifestRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListManifests returns a page of the tenant's manifests
func (s *ManifestService) ListManifests(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*freight.Manifest], error) {
	return s.manifestRepo.List(ctx, tenantID, filter)
}

// UpdateStatusRequest drives a manifest (and its shipments) through the run
type UpdateStatusRequest struct {
	TenantID    uuid.UUID
	ManifestID  uuid.UUID
	Status      string
	DeliveredAt *time.Time
}

// UpdateStatus moves the run forward. OUT_FOR_DELIVERY flips the shipments
// onto the delivery leg; COMPLETED delivers the manifested units; CANCELLED
// returns them to stock. Closing the run releases the vehicle unless another
// active shipment route still references it.
func (s *ManifestService) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*freight.Manifest, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "manifest", "update_status")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrManifestID, req.ManifestID.String(),
		"target_status", req.Status,
	)

	manifest, err := s.manifestRepo.FindByIDForTenant(ctx, req.TenantID, req.ManifestID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	switch req.Status {
	case string(freight.StatusOutForDelivery):
		if manifest.Status != freight.ManifestScheduled {
			err := shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Cannot start delivery on a %s manifest", manifest.Status))
			telemetry.RecordError(span, err)
			return nil, err
		}
		if err := s.forEachShipment(ctx, req.TenantID, manifest, func(sh *freight.Shipment, _ []freight.ManifestItem) error {
			return sh.MarkOutForDelivery()
		}); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}

	case string(freight.ManifestCompleted):
		deliveredAt := time.Now()
		if req.DeliveredAt != nil {
			deliveredAt = *req.DeliveredAt
		}
		if err := manifest.Complete(deliveredAt); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if err := s.forEachShipment(ctx, req.TenantID, manifest, func(sh *freight.Shipment, items []freight.ManifestItem) error {
			for _, it := range items {
				sh.Deliver(it.ItemType, it.Units, deliveredAt)
			}
			manifest.MarkItemDelivered(sh.ID, deliveredAt)
			return nil
		}); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if err := s.manifestRepo.Update(ctx, manifest); err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("failed to update manifest: %w", err)
		}
		if err := s.releaseVehicle(ctx, req.TenantID, manifest.VehicleNo); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}

	case string(freight.ManifestCancelled):
		if err := manifest.Cancel(time.Now()); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if err := s.forEachShipment(ctx, req.TenantID, manifest, func(sh *freight.Shipment, items []freight.ManifestItem) error {
			for _, it := range items {
				sh.ReturnToStock(it.ItemType, it.Units)
			}
			return nil
		}); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if err := s.manifestRepo.Update(ctx, manifest); err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("failed to update manifest: %w", err)
		}
		if err := s.releaseVehicle(ctx, req.TenantID, manifest.VehicleNo); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}

	default:
		err := shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown manifest status %q", req.Status))
		telemetry.RecordError(span, err)
		return nil, err
	}

	return manifest, nil
}

// RemoveConsignment takes one shipment off a scheduled manifest and credits
// its units back to stock.
func (s *ManifestService) RemoveConsignment(ctx context.Context, tenantID, manifestID uuid.UUID, consignmentNumber string) (*freight.Manifest, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "manifest", "remove_consignment")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrManifestID, manifestID.String(),
		telemetry.SpanAttrConsignmentNumber, consignmentNumber,
	)

	manifest, err := s.manifestRepo.FindByIDForTenant(ctx, tenantID, manifestID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	item, err := manifest.RemoveItem(consignmentNumber)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	shipment, err := s.shipmentRepo.FindByIDForTenant(ctx, tenantID, item.ShipmentID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	shipment.ReturnToStock(item.ItemType, item.Units)

	if err := s.manifestRepo.Update(ctx, manifest); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to update manifest: %w", err)
	}
	if err := s.shipmentRepo.Update(ctx, shipment); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to update shipment: %w", err)
	}

	return manifest, nil
}

// AdjustmentRequest carries a manual stock correction
type AdjustmentRequest struct {
	TenantID       uuid.UUID
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

// RecordAdjustment applies a ledgered manual correction to one shipment
// line item. The adjustment row is the audit trail; the shipment carries
// only the clamped net counters.
func (s *ManifestService) RecordAdjustment(ctx context.Context, req AdjustmentRequest) (*freight.ManifestAdjustment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "manifest", "record_adjustment")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrShipmentID, req.ShipmentID.String())

	adj, err := freight.NewManifestAdjustment(req.TenantID, req.ShipmentID, req.ItemType,
		req.DeltaInStock, req.DeltaInTransit, req.DeltaDelivered, req.DeltaAmount, req.Reason)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	adj.ManifestID = req.ManifestID
	adj.AdjustedBy = req.AdjustedBy

	shipment, err := s.shipmentRepo.FindByIDForTenant(ctx, req.TenantID, req.ShipmentID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := shipment.ApplyAdjustment(adj); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.adjustmentRepo.Create(ctx, adj); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to record adjustment: %w", err)
	}
	if err := s.shipmentRepo.Update(ctx, shipment); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to update shipment: %w", err)
	}

	s.logger.Info("Stock adjustment recorded",
		zap.String("tenant_id", req.TenantID.String()),
		zap.String("shipment_id", req.ShipmentID.String()),
		zap.String("item_type", req.ItemType),
		zap.String("reason", req.Reason),
	)

	return adj, nil
}

// forEachShipment loads the manifest's active shipments, applies fn with
// each shipment's items, and persists the mutated shipments.
func (s *ManifestService) forEachShipment(ctx context.Context, tenantID uuid.UUID, manifest *freight.Manifest, fn func(*freight.Shipment, []freight.ManifestItem) error) error {
	byShipment := make(map[uuid.UUID][]freight.ManifestItem)
	for _, it := range manifest.ActiveItems() {
		byShipment[it.ShipmentID] = append(byShipment[it.ShipmentID], it)
	}

	for shipmentID, items := range byShipment {
		sh, err := s.shipmentRepo.FindByIDForTenant(ctx, tenantID, shipmentID)
		if err != nil {
			return err
		}
		if err := fn(sh, items); err != nil {
			return err
		}
		if err := s.shipmentRepo.Update(ctx, sh); err != nil {
			return fmt.Errorf("failed to update shipment: %w", err)
		}
	}
	return nil
}

// releaseVehicle frees the vehicle unless an undelivered shipment route
// still references its number.
func (s *ManifestService) releaseVehicle(ctx context.Context, tenantID uuid.UUID, vehicleNo string) error {
	stillBusy, err := s.shipmentRepo.ExistsActiveOnRoute(ctx, tenantID, vehicleNo)
	if err != nil {
		return fmt.Errorf("failed to check active routes: %w", err)
	}
	if stillBusy {
		return nil
	}

	vehicle, err := s.vehicleRepo.FindByVehicleNo(ctx, tenantID, vehicleNo)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	vehicle.Release()
	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return fmt.Errorf("failed to release vehicle: %w", err)
	}
	return nil
}
