package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/billing"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/persistence/models"
)

// GormEntityDirectory implements billing.EntityDirectory over the tenant's
// party records
type GormEntityDirectory struct {
	db *gorm.DB
}

// NewGormEntityDirectory creates a new GormEntityDirectory
func NewGormEntityDirectory(db *gorm.DB) *GormEntityDirectory {
	return &GormEntityDirectory{db: db}
}

// ResolveParty loads the party behind an entity reference
func (d *GormEntityDirectory) ResolveParty(ctx context.Context, tenantID uuid.UUID, ref valueobject.EntityRef) (*billing.BillingParty, error) {
	var model models.PartyModel
	if err := d.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ? AND kind = ?", tenantID, ref.ID, string(ref.Kind)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &billing.BillingParty{
		Ref:  valueobject.EntityRef{Kind: valueobject.EntityKind(model.Kind), ID: model.ID},
		Name: model.Name,
	}, nil
}

// FirstDeliveryLocation returns the entity's first location on file, by sort
// order then age
func (d *GormEntityDirectory) FirstDeliveryLocation(ctx context.Context, tenantID, entityID uuid.UUID) (*billing.DeliveryLocation, error) {
	var model models.DeliveryLocationModel
	if err := d.db.WithContext(ctx).
		Where("tenant_id = ? AND entity_id = ?", tenantID, entityID).
		Order("sort_order ASC, created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &billing.DeliveryLocation{
		ID:       model.ID,
		EntityID: model.EntityID,
		Name:     model.Name,
		Address:  model.Address,
	}, nil
}

// ParentBranch resolves a hub to its owning branch
func (d *GormEntityDirectory) ParentBranch(ctx context.Context, tenantID, hubID uuid.UUID) (uuid.UUID, error) {
	var model models.PartyModel
	if err := d.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ? AND kind = ?", tenantID, hubID, string(valueobject.EntityKindHub)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, shared.ErrNotFound
		}
		return uuid.Nil, err
	}
	if model.ParentBranchID == nil {
		return uuid.Nil, shared.ErrNotFound
	}
	return *model.ParentBranchID, nil
}

// BranchCode returns the short display token of a branch
func (d *GormEntityDirectory) BranchCode(ctx context.Context, tenantID, branchID uuid.UUID) (string, error) {
	var model models.PartyModel
	if err := d.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ? AND kind = ?", tenantID, branchID, string(valueobject.EntityKindBranch)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return model.Code, nil
}

// Ensure GormEntityDirectory implements billing.EntityDirectory
var _ billing.EntityDirectory = (*GormEntityDirectory)(nil)

// GormSettingsRepository implements billing.SettingsRepository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the tenant's invoicing settings. A tenant without a settings
// row runs with the defaults.
func (r *GormSettingsRepository) Get(ctx context.Context, tenantID uuid.UUID) (*billing.TenantSettings, error) {
	var model models.TenantSettingsModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &billing.TenantSettings{TenantID: tenantID}, nil
		}
		return nil, err
	}
	return &billing.TenantSettings{
		TenantID:              tenantID,
		BranchScopedInvoicing: model.BranchScopedInvoicing,
	}, nil
}

// Ensure GormSettingsRepository implements billing.SettingsRepository
var _ billing.SettingsRepository = (*GormSettingsRepository)(nil)
