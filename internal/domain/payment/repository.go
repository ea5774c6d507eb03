package payment

import (
	"context"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRepository defines persistence for payment rows
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	Update(ctx context.Context, payment *Payment) error
	// FindByReference resolves the natural key
	// (tenant, entity, direction, referenceNo).
	FindByReference(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, direction Direction, referenceNo string) (*Payment, error)
	FindByEntity(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, direction Direction, filter shared.Filter) (shared.Paginated[*Payment], error)
}

// SummaryRepository defines persistence for the per-entity rollups
type SummaryRepository interface {
	Upsert(ctx context.Context, summary *PaymentEntitySummary) error
	Find(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, direction Direction) (*PaymentEntitySummary, error)
	ListForTenant(ctx context.Context, tenantID uuid.UUID, direction Direction, filter shared.Filter) (shared.Paginated[*PaymentEntitySummary], error)
}

// TransactionRepository defines persistence for the append-only ledger
type TransactionRepository interface {
	Create(ctx context.Context, txn *PaymentTransaction) error
	Update(ctx context.Context, txn *PaymentTransaction) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PaymentTransaction, error)
	FindByEntity(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, filter shared.Filter) (shared.Paginated[*PaymentTransaction], error)
	// ExistsByReference backs the idempotent initial-paid posting: a second
	// create with the same reference and method is skipped.
	ExistsByReference(ctx context.Context, tenantID uuid.UUID, method, reference string) (*PaymentTransaction, error)
	// SumPostedByEntity re-derives AmountPaid from the non-voided ledger
	// entries, the authoritative figure after a void.
	SumPostedByEntity(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, direction Direction) (decimal.Decimal, error)
	// SumPostedByReference sums the non-voided entries carrying one
	// reference. A payment row's own reference recovers its surviving
	// postings after an invoice settlement is voided.
	SumPostedByReference(ctx context.Context, tenantID uuid.UUID, reference string) (decimal.Decimal, error)
	// SumPostedAllocations returns the non-voided allocation total against
	// one invoice, the figure the over-allocation check compares with the
	// invoice total.
	SumPostedAllocations(ctx context.Context, tenantID, invoiceID uuid.UUID) (decimal.Decimal, error)
}
