package billing

import (
	"context"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/sequence"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository defines persistence for invoices. CreateBatch must be
// all-or-nothing inside one statement scope and translate a unique violation
// on (tenant, fiscal year, category, branch, sequence_no) into
// shared.ErrAlreadyExists so the caller can fail the whole batch.
type InvoiceRepository interface {
	CreateBatch(ctx context.Context, invoices []*Invoice) error
	Update(ctx context.Context, invoice *Invoice) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Invoice, error)
	// FindActiveByEntity returns non-cancelled invoices for one billing
	// entity, the reconciliation input set.
	FindActiveByEntity(ctx context.Context, tenantID, entityID uuid.UUID) ([]*Invoice, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*Invoice], error)
	// MaxSequenceNo returns the highest allocated serial inside the scope,
	// or 0 when the scope is empty.
	MaxSequenceNo(ctx context.Context, scope sequence.Scope) (int, error)
}

// PreInvoiceRepository defines persistence for draft invoices. Create must
// translate a unique violation on the draft numbering scope into
// shared.ErrAlreadyExists so callers can retry the allocation.
type PreInvoiceRepository interface {
	Create(ctx context.Context, preInvoice *PreInvoice) error
	// MaxSequenceNo returns the highest allocated draft serial inside the
	// scope, or 0 when the scope is empty.
	MaxSequenceNo(ctx context.Context, scope sequence.Scope) (int, error)
	Update(ctx context.Context, preInvoice *PreInvoice) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PreInvoice, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*PreInvoice], error)
	// ExistsActiveForShipment reports whether a draft or invoiced pre-invoice
	// still includes the shipment. Guards shipment deletion.
	ExistsActiveForShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) (bool, error)
}
