package payment

import (
	"context"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/billing"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/freight"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/payment"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/sequence"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockPaymentRepository is a mock implementation of payment.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, row *payment.Payment) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, row *payment.Payment) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByReference(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, direction payment.Direction, referenceNo string) (*payment.Payment, error) {
	args := m.Called(ctx, tenantID, entity, direction, referenceNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByEntity(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, direction payment.Direction, filter shared.Filter) (shared.Paginated[*payment.Payment], error) {
	args := m.Called(ctx, tenantID, entity, direction, filter)
	return args.Get(0).(shared.Paginated[*payment.Payment]), args.Error(1)
}

// MockSummaryRepository is a mock implementation of payment.SummaryRepository
type MockSummaryRepository struct {
	mock.Mock
}

func (m *MockSummaryRepository) Upsert(ctx context.Context, summary *payment.PaymentEntitySummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockSummaryRepository) Find(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, direction payment.Direction) (*payment.PaymentEntitySummary, error) {
	args := m.Called(ctx, tenantID, entity, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentEntitySummary), args.Error(1)
}

func (m *MockSummaryRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, direction payment.Direction, filter shared.Filter) (shared.Paginated[*payment.PaymentEntitySummary], error) {
	args := m.Called(ctx, tenantID, direction, filter)
	return args.Get(0).(shared.Paginated[*payment.PaymentEntitySummary]), args.Error(1)
}

// MockTransactionRepository is a mock implementation of payment.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *payment.PaymentTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) Update(ctx context.Context, txn *payment.PaymentTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payment.PaymentTransaction, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByEntity(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, filter shared.Filter) (shared.Paginated[*payment.PaymentTransaction], error) {
	args := m.Called(ctx, tenantID, entity, filter)
	return args.Get(0).(shared.Paginated[*payment.PaymentTransaction]), args.Error(1)
}

func (m *MockTransactionRepository) ExistsByReference(ctx context.Context, tenantID uuid.UUID, method, reference string) (*payment.PaymentTransaction, error) {
	args := m.Called(ctx, tenantID, method, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentTransaction), args.Error(1)
}

func (m *MockTransactionRepository) SumPostedByEntity(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, direction payment.Direction) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, entity, direction)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) SumPostedByReference(ctx context.Context, tenantID uuid.UUID, reference string) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, reference)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) SumPostedAllocations(ctx context.Context, tenantID, invoiceID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

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
