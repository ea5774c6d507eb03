package freight

import (
	"context"
	"testing"
	"time"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/freight"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/sequence"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type manifestServiceMocks struct {
	manifestRepo   *MockManifestRepository
	shipmentRepo   *MockShipmentRepository
	vehicleRepo    *MockVehicleRepository
	adjustmentRepo *MockAdjustmentRepository
	allocator      *MockSequenceAllocator
}

func newManifestService(t *testing.T) (*ManifestService, *manifestServiceMocks) {
	t.Helper()
	m := &manifestServiceMocks{
		manifestRepo:   new(MockManifestRepository),
		shipmentRepo:   new(MockShipmentRepository),
		vehicleRepo:    new(MockVehicleRepository),
		adjustmentRepo: new(MockAdjustmentRepository),
		allocator:      new(MockSequenceAllocator),
	}
	svc := NewManifestService(m.manifestRepo, m.shipmentRepo, m.vehicleRepo, m.adjustmentRepo, m.allocator, zap.NewNop())
	return svc, m
}

func pendingShipment(t *testing.T, tenantID uuid.UUID, cn string, units int) *freight.Shipment {
	t.Helper()
	origin, _ := valueobject.NewEntityRef(valueobject.EntityKindBranch, uuid.New())
	sh, err := freight.NewShipment(tenantID, cn, origin, uuid.New(), uuid.New(),
		freight.LineItems{{ItemType: "carton", InStock: units, Amount: decimal.NewFromInt(int64(units * 100))}},
		decimal.NewFromInt(int64(units*100)), decimal.Zero)
	require.NoError(t, err)
	return sh
}

func onlineVehicle(t *testing.T, tenantID uuid.UUID) *freight.Vehicle {
	t.Helper()
	v, err := freight.NewVehicle(tenantID, "KA01AB1234")
	require.NoError(t, err)
	return v
}

func manifestRequest(tenantID uuid.UUID) CreateManifestRequest {
	branch, _ := valueobject.NewEntityRef(valueobject.EntityKindBranch, uuid.New())
	return CreateManifestRequest{
		TenantID:     tenantID,
		Entity:       branch,
		VehicleNo:    "KA01AB1234",
		Route:        "BLR-MAA KA01AB1234",
		Consignments: []string{"CN-1001"},
	}
}

func TestManifestService_CreateManifest(t *testing.T) {
	t.Run("allocates a serial and moves stock to transit", func(t *testing.T) {
		svc, m := newManifestService(t)
		tenantID := uuid.New()
		req := manifestRequest(tenantID)
		sh := pendingShipment(t, tenantID, "CN-1001", 10)
		vehicle := onlineVehicle(t, tenantID)

		m.vehicleRepo.On("FindByVehicleNo", mock.Anything, tenantID, "KA01AB1234").Return(vehicle, nil)
		m.shipmentRepo.On("FindByConsignmentNumbers", mock.Anything, tenantID, req.Consignments).
			Return([]*freight.Shipment{sh}, nil)
		m.allocator.On("Next", mock.Anything, mock.Anything).Return(5, nil)
		m.manifestRepo.On("Create", mock.Anything, mock.AnythingOfType("*freight.Manifest")).Return(nil)
		m.shipmentRepo.On("Update", mock.Anything, sh).Return(nil)
		m.vehicleRepo.On("Update", mock.Anything, vehicle).Return(nil)

		manifest, err := svc.CreateManifest(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, 5, manifest.SequenceNo)
		assert.Len(t, manifest.ActiveItems(), 1)
		assert.Equal(t, 10, manifest.ActiveItems()[0].Units)
		assert.Equal(t, 0, sh.LineItems[0].InStock)
		assert.Equal(t, 10, sh.LineItems[0].InTransit)
		assert.Equal(t, freight.StatusManifestation, sh.Status)
		assert.Equal(t, freight.VehicleBusy, vehicle.Status)
	})

	t.Run("retries the serial on a uniqueness collision", func(t *testing.T) {
		svc, m := newManifestService(t)
		tenantID := uuid.New()
		req := manifestRequest(tenantID)
		sh := pendingShipment(t, tenantID, "CN-1001", 4)
		vehicle := onlineVehicle(t, tenantID)

		m.vehicleRepo.On("FindByVehicleNo", mock.Anything, tenantID, "KA01AB1234").Return(vehicle, nil)
		m.shipmentRepo.On("FindByConsignmentNumbers", mock.Anything, tenantID, req.Consignments).
			Return([]*freight.Shipment{sh}, nil)
		m.allocator.On("Next", mock.Anything, mock.Anything).Return(5, nil).Once()
		m.manifestRepo.On("Create", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists).Once()
		m.allocator.On("Next", mock.Anything, mock.Anything).Return(6, nil).Once()
		m.manifestRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		m.shipmentRepo.On("Update", mock.Anything, sh).Return(nil)
		m.vehicleRepo.On("Update", mock.Anything, vehicle).Return(nil)

		manifest, err := svc.CreateManifest(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, 6, manifest.SequenceNo)
		m.manifestRepo.AssertExpectations(t)
	})

	t.Run("gives up after bounded retries", func(t *testing.T) {
		svc, m := newManifestService(t)
		tenantID := uuid.New()
		req := manifestRequest(tenantID)
		sh := pendingShipment(t, tenantID, "CN-1001", 4)
		vehicle := onlineVehicle(t, tenantID)

		m.vehicleRepo.On("FindByVehicleNo", mock.Anything, tenantID, "KA01AB1234").Return(vehicle, nil)
		m.shipmentRepo.On("FindByConsignmentNumbers", mock.Anything, tenantID, req.Consignments).
			Return([]*freight.Shipment{sh}, nil)
		m.allocator.On("Next", mock.Anything, mock.Anything).Return(5, nil)
		m.manifestRepo.On("Create", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)

		_, err := svc.CreateManifest(context.Background(), req)

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrAllocationContention)
		m.manifestRepo.AssertNumberOfCalls(t, "Create", sequence.MaxAllocationRetries)
		// no stock was moved, no vehicle claimed
		assert.Equal(t, 4, sh.LineItems[0].InStock)
		assert.Equal(t, freight.VehicleOnline, vehicle.Status)
	})

	t.Run("busy vehicle conflicts up front", func(t *testing.T) {
		svc, m := newManifestService(t)
		tenantID := uuid.New()
		req := manifestRequest(tenantID)
		vehicle := onlineVehicle(t, tenantID)
		require.NoError(t, vehicle.MarkBusy("BLR-HYD"))

		m.vehicleRepo.On("FindByVehicleNo", mock.Anything, tenantID, "KA01AB1234").Return(vehicle, nil)

		_, err := svc.CreateManifest(context.Background(), req)

		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "VEHICLE_BUSY", de.Code)
	})

	t.Run("unresolved consignments are rejected", func(t *testing.T) {
		svc, m := newManifestService(t)
		tenantID := uuid.New()
		req := manifestRequest(tenantID)
		req.Consignments = []string{"CN-1001", "CN-9999"}
		sh := pendingShipment(t, tenantID, "CN-1001", 4)
		vehicle := onlineVehicle(t, tenantID)

		m.vehicleRepo.On("FindByVehicleNo", mock.Anything, tenantID, "KA01AB1234").Return(vehicle, nil)
		m.shipmentRepo.On("FindByConsignmentNumbers", mock.Anything, tenantID, req.Consignments).
			Return([]*freight.Shipment{sh}, nil)

		_, err := svc.CreateManifest(context.Background(), req)

		assert.Error(t, err)
	})
}

func scheduledManifest(t *testing.T, tenantID uuid.UUID, sh *freight.Shipment, units int) *freight.Manifest {
	t.Helper()
	branch, _ := valueobject.NewEntityRef(valueobject.EntityKindBranch, uuid.New())
	manifest, err := freight.NewManifest(tenantID, branch, sequence.FiscalYear(2025), 1, "KA01AB1234", "BLR-MAA")
	require.NoError(t, err)
	require.NoError(t, manifest.AddItem(sh.ID, sh.ConsignmentNumber, "carton", units))
	return manifest
}

func TestManifestService_UpdateStatus(t *testing.T) {
	t.Run("completed delivers the manifested units and releases the vehicle", func(t *testing.T) {
		svc, m := newManifestService(t)
		tenantID := uuid.New()
		sh := pendingShipment(t, tenantID, "CN-1001", 10)
		totalBefore := sh.LineItems.TotalUnits()
		sh.MoveToTransit("carton", 10)
		require.NoError(t, sh.MarkOutForDelivery())
		manifest := scheduledManifest(t, tenantID, sh, 10)
		vehicle := onlineVehicle(t, tenantID)
		require.NoError(t, vehicle.MarkBusy("BLR-MAA"))

		m.manifestRepo.On("FindByIDForTenant", mock.Anything, tenantID, manifest.ID).Return(manifest, nil)
		m.shipmentRepo.On("FindByIDForTenant", mock.Anything, tenantID, sh.ID).Return(sh, nil)
		m.shipmentRepo.On("Update", mock.Anything, sh).Return(nil)
		m.manifestRepo.On("Update", mock.Anything, manifest).Return(nil)
		m.shipmentRepo.On("ExistsActiveOnRoute", mock.Anything, tenantID, "KA01AB1234").Return(false, nil)
		m.vehicleRepo.On("FindByVehicleNo", mock.Anything, tenantID, "KA01AB1234").Return(vehicle, nil)
		m.vehicleRepo.On("Update", mock.Anything, vehicle).Return(nil)

		deliveredAt := time.Now()
		updated, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{
			TenantID:    tenantID,
			ManifestID:  manifest.ID,
			Status:      string(freight.ManifestCompleted),
			DeliveredAt: &deliveredAt,
		})

		require.NoError(t, err)
		assert.Equal(t, freight.ManifestCompleted, updated.Status)
		assert.Equal(t, freight.StatusDelivered, sh.Status)
		assert.Equal(t, 10, sh.LineItems[0].Delivered)
		assert.Equal(t, totalBefore, sh.LineItems.TotalUnits(), "units are conserved")
		assert.Equal(t, freight.VehicleOnline, vehicle.Status)
	})

	t.Run("vehicle stays busy while another route references it", func(t *testing.T) {
		svc, m := newManifestService(t)
		tenantID := uuid.New()
		sh := pendingShipment(t, tenantID, "CN-1001", 5)
		sh.MoveToTransit("carton", 5)
		require.NoError(t, sh.MarkOutForDelivery())
		manifest := scheduledManifest(t, tenantID, sh, 5)

		m.manifestRepo.On("FindByIDForTenant", mock.Anything, tenantID, manifest.ID).Return(manifest, nil)
		m.shipmentRepo.On("FindByIDForTenant", mock.Anything, tenantID, sh.ID).Return(sh, nil)
		m.shipmentRepo.On("Update", mock.Anything, sh).Return(nil)
		m.manifestRepo.On("Update", mock.Anything, manifest).Return(nil)
		m.shipmentRepo.On("ExistsActiveOnRoute", mock.Anything, tenantID, "KA01AB1234").Return(true, nil)

		_, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{
			TenantID:   tenantID,
			ManifestID: manifest.ID,
			Status:     string(freight.ManifestCompleted),
		})

		require.NoError(t, err)
		m.vehicleRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("cancelled returns units to stock", func(t *testing.T) {
		svc, m := newManifestService(t)
		tenantID := uuid.New()
		sh := pendingShipment(t, tenantID, "CN-1001", 8)
		totalBefore := sh.LineItems.TotalUnits()
		sh.MoveToTransit("carton", 8)
		manifest := scheduledManifest(t, tenantID, sh, 8)
		vehicle := onlineVehicle(t, tenantID)
		require.NoError(t, vehicle.MarkBusy("BLR-MAA"))

		m.manifestRepo.On("FindByIDForTenant", mock.Anything, tenantID, manifest.ID).Return(manifest, nil)
		m.shipmentRepo.On("FindByIDForTenant", mock.Anything, tenantID, sh.ID).Return(sh, nil)
		m.shipmentRepo.On("Update", mock.Anything, sh).Return(nil)
		m.manifestRepo.On("Update", mock.Anything, manifest).Return(nil)
		m.shipmentRepo.On("ExistsActiveOnRoute", mock.Anything, tenantID, "KA01AB1234").Return(false, nil)
		m.vehicleRepo.On("FindByVehicleNo", mock.Anything, tenantID, "KA01AB1234").Return(vehicle, nil)
		m.vehicleRepo.On("Update", mock.Anything, vehicle).Return(nil)

		_, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{
			TenantID:   tenantID,
			ManifestID: manifest.ID,
			Status:     string(freight.ManifestCancelled),
		})

		require.NoError(t, err)
		assert.Equal(t, 8, sh.LineItems[0].InStock)
		assert.Equal(t, 0, sh.LineItems[0].InTransit)
		assert.Equal(t, freight.StatusPending, sh.Status)
		assert.Equal(t, totalBefore, sh.LineItems.TotalUnits())
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		svc, m := newManifestService(t)
		tenantID := uuid.New()
		sh := pendingShipment(t, tenantID, "CN-1001", 2)
		manifest := scheduledManifest(t, tenantID, sh, 2)

		m.manifestRepo.On("FindByIDForTenant", mock.Anything, tenantID, manifest.ID).Return(manifest, nil)

		_, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{
			TenantID:   tenantID,
			ManifestID: manifest.ID,
			Status:     "TELEPORTED",
		})

		assert.Error(t, err)
	})
}

func TestManifestService_RemoveConsignment(t *testing.T) {
	svc, m := newManifestService(t)
	tenantID := uuid.New()
	sh := pendingShipment(t, tenantID, "CN-1001", 6)
	sh.MoveToTransit("carton", 6)
	manifest := scheduledManifest(t, tenantID, sh, 6)

	m.manifestRepo.On("FindByIDForTenant", mock.Anything, tenantID, manifest.ID).Return(manifest, nil)
	m.shipmentRepo.On("FindByIDForTenant", mock.Anything, tenantID, sh.ID).Return(sh, nil)
	m.manifestRepo.On("Update", mock.Anything, manifest).Return(nil)
	m.shipmentRepo.On("Update", mock.Anything, sh).Return(nil)

	updated, err := svc.RemoveConsignment(context.Background(), tenantID, manifest.ID, "CN-1001")

	require.NoError(t, err)
	assert.Empty(t, updated.ActiveItems())
	assert.Equal(t, 6, sh.LineItems[0].InStock)
	assert.Equal(t, freight.StatusPending, sh.Status)
}

func TestManifestService_RecordAdjustment(t *testing.T) {
	svc, m := newManifestService(t)
	tenantID := uuid.New()
	sh := pendingShipment(t, tenantID, "CN-1001", 6)

	m.shipmentRepo.On("FindByIDForTenant", mock.Anything, tenantID, sh.ID).Return(sh, nil)
	m.adjustmentRepo.On("Create", mock.Anything, mock.AnythingOfType("*freight.ManifestAdjustment")).Return(nil)
	m.shipmentRepo.On("Update", mock.Anything, sh).Return(nil)

	adj, err := svc.RecordAdjustment(context.Background(), AdjustmentRequest{
		TenantID:     tenantID,
		ShipmentID:   sh.ID,
		ItemType:     "carton",
		DeltaInStock: -2,
		DeltaAmount:  decimal.Zero,
		Reason:       "damaged during loading",
	})

	require.NoError(t, err)
	assert.Equal(t, -2, adj.DeltaInStock)
	assert.Equal(t, 4, sh.LineItems[0].InStock)
	m.adjustmentRepo.AssertExpectations(t)
}
