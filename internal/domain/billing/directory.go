package billing

import (
	"context"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// BillingParty is the directory's view of a billable entity
type BillingParty struct {
	Ref  valueobject.EntityRef
	Name string
}

// DeliveryLocation is a billing address on file for an entity
type DeliveryLocation struct {
	ID       uuid.UUID
	EntityID uuid.UUID
	Name     string
	Address  string
}

// EntityDirectory resolves billing parties, locations and branch structure
// from the tenant's record store. The invoice generator and payment ledger
// consult it; they never own these records.
type EntityDirectory interface {
	// ResolveParty loads the party for an entity reference; guests resolve
	// with Kind guest, which drives category C numbering.
	ResolveParty(ctx context.Context, tenantID uuid.UUID, ref valueobject.EntityRef) (*BillingParty, error)
	// FirstDeliveryLocation is the fallback when a shipment carries no
	// explicit billing location.
	FirstDeliveryLocation(ctx context.Context, tenantID, entityID uuid.UUID) (*DeliveryLocation, error)
	// ParentBranch resolves a hub to its owning branch for branch-scoped
	// invoicing.
	ParentBranch(ctx context.Context, tenantID, hubID uuid.UUID) (uuid.UUID, error)
	// BranchCode returns the short display token of a branch ("BLR")
	BranchCode(ctx context.Context, tenantID, branchID uuid.UUID) (string, error)
}

// TenantSettings carries the tenant's invoicing configuration row
type TenantSettings struct {
	TenantID uuid.UUID
	// BranchScopedInvoicing splits invoice number scopes per branch and
	// embeds the branch token in the display code.
	BranchScopedInvoicing bool
}

// SettingsRepository loads per-tenant invoicing configuration
type SettingsRepository interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*TenantSettings, error)
}
