package billing

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

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
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

// MockPreInvoiceRepository is a mock implementation of billing.PreInvoiceRepository
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

// MockSequenceAllocator is a mock implementation of sequence.Allocator
type MockSequenceAllocator struct {
	mock.Mock
}

func (m *MockSequenceAllocator) Next(ctx context.Context, scope sequence.Scope) (int, error) {
	args := m.Called(ctx, scope)
	return args.Int(0), args.Error(1)
}

// MockBookingLedger is a mock implementation of BookingLedger
type MockBookingLedger struct {
	mock.Mock
}

func (m *MockBookingLedger) AllocateBookingPayments(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	args := m.Called(ctx, tenantID, invoiceID)
	return args.Error(0)
}

// MockShipmentRepository is a mock implementation of freight.ShipmentRepository
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

// MockEntityDirectory is a mock implementation of billing.EntityDirectory
type MockEntityDirectory struct {
	mock.Mock
}

func (m *MockEntityDirectory) ResolveParty(ctx context.Context, tenantID uuid.UUID, ref valueobject.EntityRef) (*billing.BillingParty, error) {
	args := m.Called(ctx, tenantID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BillingParty), args.Error(1)
}

func (m *MockEntityDirectory) FirstDeliveryLocation(ctx context.Context, tenantID, entityID uuid.UUID) (*billing.DeliveryLocation, error) {
	args := m.Called(ctx, tenantID, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.DeliveryLocation), args.Error(1)
}

func (m *MockEntityDirectory) ParentBranch(ctx context.Context, tenantID, hubID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, tenantID, hubID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockEntityDirectory) BranchCode(ctx context.Context, tenantID, branchID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID, branchID)
	return args.String(0), args.Error(1)
}

// MockSettingsRepository is a mock implementation of billing.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context, tenantID uuid.UUID) (*billing.TenantSettings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.TenantSettings), args.Error(1)
}

// MockReconciler is a mock implementation of Reconciler
type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) RebuildEntity(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef) (*apppayment.RebuildResult, error) {
	args := m.Called(ctx, tenantID, entity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apppayment.RebuildResult), args.Error(1)
}
