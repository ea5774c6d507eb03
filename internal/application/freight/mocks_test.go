package freight

import (
	"context"

	apppayment "github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/application/payment"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/billing"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/freight"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/sequence"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) Create(ctx context.Context, shipment *freight.Shipment) error {
	args := m.Called(ctx, shipment)
	return args.Error(0)
}

func (m *MockShipmentRepository) Update(ctx context.Context, shipment *freight.Shipment) error {
	args := m.Called(ctx, shipment)
	return args.Error(0)
}

func (m *MockShipmentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockShipmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*freight.Shipment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*freight.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) FindByConsignmentNumber(ctx context.Context, tenantID uuid.UUID, consignmentNumber string) (*freight.Shipment, error) {
	args := m.Called(ctx, tenantID, consignmentNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*freight.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) FindByConsignmentNumbers(ctx context.Context, tenantID uuid.UUID, consignmentNumbers []string) ([]*freight.Shipment, error) {
	args := m.Called(ctx, tenantID, consignmentNumbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*freight.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*freight.Shipment, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*freight.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, statuses []freight.ShipmentStatus, filter shared.Filter) (shared.Paginated[*freight.Shipment], error) {
	args := m.Called(ctx, tenantID, statuses, filter)
	return args.Get(0).(shared.Paginated[*freight.Shipment]), args.Error(1)
}

func (m *MockShipmentRepository) FindByInvoiceID(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*freight.Shipment, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*freight.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*freight.Shipment], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[*freight.Shipment]), args.Error(1)
}

func (m *MockShipmentRepository) ExistsActiveOnRoute(ctx context.Context, tenantID uuid.UUID, vehicleNo string) (bool, error) {
	args := m.Called(ctx, tenantID, vehicleNo)
	return args.Bool(0), args.Error(1)
}

type MockManifestRepository struct {
	mock.Mock
}

func (m *MockManifestRepository) Create(ctx context.Context, manifest *freight.Manifest) error {
	args := m.Called(ctx, manifest)
	return args.Error(0)
}

func (m *MockManifestRepository) Update(ctx context.Context, manifest *freight.Manifest) error {
	args := m.Called(ctx, manifest)
	return args.Error(0)
}

func (m *MockManifestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*freight.Manifest, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*freight.Manifest), args.Error(1)
}

func (m *MockManifestRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*freight.Manifest], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[*freight.Manifest]), args.Error(1)
}

func (m *MockManifestRepository) MaxSequenceNo(ctx context.Context, scope sequence.Scope) (int, error) {
	args := m.Called(ctx, scope)
	return args.Int(0), args.Error(1)
}

func (m *MockManifestRepository) ExistsForShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, shipmentID)
	return args.Bool(0), args.Error(1)
}

type MockSequenceAllocator struct {
	mock.Mock
}

func (m *MockSequenceAllocator) Next(ctx context.Context, scope sequence.Scope) (int, error) {
	args := m.Called(ctx, scope)
	return args.Int(0), args.Error(1)
}

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *freight.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) Update(ctx context.Context, vehicle *freight.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) FindByVehicleNo(ctx context.Context, tenantID uuid.UUID, vehicleNo string) (*freight.Vehicle, error) {
	args := m.Called(ctx, tenantID, vehicleNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*freight.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*freight.Vehicle], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[*freight.Vehicle]), args.Error(1)
}

type MockAdjustmentRepository struct {
	mock.Mock
}

func (m *MockAdjustmentRepository) Create(ctx context.Context, adjustment *freight.ManifestAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

func (m *MockAdjustmentRepository) FindByShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) ([]*freight.ManifestAdjustment, error) {
	args := m.Called(ctx, tenantID, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*freight.ManifestAdjustment), args.Error(1)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) CreateBatch(ctx context.Context, invoices []*billing.Invoice) error {
	args := m.Called(ctx, invoices)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindActiveByEntity(ctx context.Context, tenantID, entityID uuid.UUID) ([]*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*billing.Invoice], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[*billing.Invoice]), args.Error(1)
}

func (m *MockInvoiceRepository) MaxSequenceNo(ctx context.Context, scope sequence.Scope) (int, error) {
	args := m.Called(ctx, scope)
	return args.Int(0), args.Error(1)
}

type MockPreInvoiceRepository struct {
	mock.Mock
}

func (m *MockPreInvoiceRepository) Create(ctx context.Context, preInvoice *billing.PreInvoice) error {
	args := m.Called(ctx, preInvoice)
	return args.Error(0)
}

func (m *MockPreInvoiceRepository) Update(ctx context.Context, preInvoice *billing.PreInvoice) error {
	args := m.Called(ctx, preInvoice)
	return args.Error(0)
}

func (m *MockPreInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.PreInvoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PreInvoice), args.Error(1)
}

func (m *MockPreInvoiceRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*billing.PreInvoice], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[*billing.PreInvoice]), args.Error(1)
}

func (m *MockPreInvoiceRepository) ExistsActiveForShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, shipmentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPreInvoiceRepository) MaxSequenceNo(ctx context.Context, scope sequence.Scope) (int, error) {
	args := m.Called(ctx, scope)
	return args.Int(0), args.Error(1)
}

type MockReceivableLedger struct {
	mock.Mock
}

func (m *MockReceivableLedger) RecordShipmentReceivable(ctx context.Context, req apppayment.RecordReceivableRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockReceivableLedger) ZeroShipmentReceivable(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, referenceNo string) error {
	args := m.Called(ctx, tenantID, entity, referenceNo)
	return args.Error(0)
}
