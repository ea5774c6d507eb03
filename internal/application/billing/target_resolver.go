package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/billing"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/freight"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/sequence"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// targetResolver turns one shipment into its billing target before any
// serial is consumed: the billing party and its category from the directory,
// the billing location (the shipment's own, or the entity's first delivery
// location), and under branch-scoped invoicing the owning branch, with hub
// origins folded into their parent branch. Directory answers are cached for
// the life of one batch, so a hundred shipments of the same client cost one
// lookup per question, not one per shipment.
type targetResolver struct {
	directory    billing.EntityDirectory
	tenantID     uuid.UUID
	branchScoped bool

	parties     map[uuid.UUID]*billing.BillingParty
	locations   map[uuid.UUID]uuid.UUID // entity id -> fallback delivery location
	parents     map[uuid.UUID]uuid.UUID // hub id -> parent branch
	branchCodes map[uuid.UUID]string
}

func (s *InvoiceService) newTargetResolver(tenantID uuid.UUID, branchScoped bool) *targetResolver {
	return &targetResolver{
		directory:    s.directory,
		tenantID:     tenantID,
		branchScoped: branchScoped,
		parties:      make(map[uuid.UUID]*billing.BillingParty),
		locations:    make(map[uuid.UUID]uuid.UUID),
		parents:      make(map[uuid.UUID]uuid.UUID),
		branchCodes:  make(map[uuid.UUID]string),
	}
}

// resolve validates and resolves one shipment's billing target
func (r *targetResolver) resolve(ctx context.Context, sh *freight.Shipment) (billingTarget, error) {
	if sh.BillingEntity == nil {
		return billingTarget{}, shared.NewDomainError("INVALID_BILLING_ENTITY",
			fmt.Sprintf("Consignment %s has no billing entity", sh.ConsignmentNumber))
	}

	party, err := r.party(ctx, *sh.BillingEntity)
	if err != nil {
		return billingTarget{}, err
	}

	category := sequence.CategoryBusiness
	if party.Ref.Kind == valueobject.EntityKindGuest {
		category = sequence.CategoryConsumer
	}

	locationID, err := r.location(ctx, sh, party.Ref)
	if err != nil {
		return billingTarget{}, err
	}

	target := billingTarget{
		entity:     party.Ref,
		locationID: locationID,
		category:   category,
	}

	if r.branchScoped {
		branchID, err := r.branch(ctx, sh)
		if err != nil {
			return billingTarget{}, err
		}
		code, err := r.code(ctx, branchID)
		if err != nil {
			return billingTarget{}, err
		}
		target.branchID = &branchID
		target.branchCode = code
	}

	return target, nil
}

func (r *targetResolver) party(ctx context.Context, ref valueobject.EntityRef) (*billing.BillingParty, error) {
	if party, ok := r.parties[ref.ID]; ok {
		return party, nil
	}
	party, err := r.directory.ResolveParty(ctx, r.tenantID, ref)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_BILLING_ENTITY",
				fmt.Sprintf("Billing entity %s does not exist", ref.ID))
		}
		return nil, fmt.Errorf("failed to resolve billing party: %w", err)
	}
	if !party.Ref.Kind.IsBillable() {
		return nil, shared.NewDomainError("INVALID_BILLING_ENTITY",
			fmt.Sprintf("Entity kind %s cannot be billed", party.Ref.Kind))
	}
	r.parties[ref.ID] = party
	return party, nil
}

// location prefers the shipment's own billing location; without one it falls
// back to the entity's first delivery location.
func (r *targetResolver) location(ctx context.Context, sh *freight.Shipment, entity valueobject.EntityRef) (uuid.UUID, error) {
	if sh.BillingLocationID != nil && *sh.BillingLocationID != uuid.Nil {
		return *sh.BillingLocationID, nil
	}
	if id, ok := r.locations[entity.ID]; ok {
		return id, nil
	}
	loc, err := r.directory.FirstDeliveryLocation(ctx, r.tenantID, entity.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, shared.NewDomainError("INVALID_BILLING_LOCATION",
				fmt.Sprintf("Billing entity %s has no delivery location", entity.ID))
		}
		return uuid.Nil, fmt.Errorf("failed to resolve billing location: %w", err)
	}
	r.locations[entity.ID] = loc.ID
	return loc.ID, nil
}

// branch resolves the shipment's owning branch: branch origins bill under
// themselves, hub origins under their parent branch.
func (r *targetResolver) branch(ctx context.Context, sh *freight.Shipment) (uuid.UUID, error) {
	switch sh.Origin.Kind {
	case valueobject.EntityKindBranch:
		return sh.Origin.ID, nil
	case valueobject.EntityKindHub:
		if id, ok := r.parents[sh.Origin.ID]; ok {
			return id, nil
		}
		parentID, err := r.directory.ParentBranch(ctx, r.tenantID, sh.Origin.ID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return uuid.Nil, shared.NewDomainError("INVALID_BRANCH",
					fmt.Sprintf("Hub %s has no parent branch", sh.Origin.ID))
			}
			return uuid.Nil, fmt.Errorf("failed to resolve parent branch: %w", err)
		}
		r.parents[sh.Origin.ID] = parentID
		return parentID, nil
	default:
		return uuid.Nil, shared.NewDomainError("INVALID_BRANCH",
			fmt.Sprintf("Consignment %s origin %s cannot scope an invoice", sh.ConsignmentNumber, sh.Origin.Kind))
	}
}

func (r *targetResolver) code(ctx context.Context, branchID uuid.UUID) (string, error) {
	if code, ok := r.branchCodes[branchID]; ok {
		return code, nil
	}
	code, err := r.directory.BranchCode(ctx, r.tenantID, branchID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve branch code: %w", err)
	}
	r.branchCodes[branchID] = code
	return code, nil
}
