package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/freight"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/sequence"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/persistence/models"
)

// GormManifestRepository implements freight.ManifestRepository using GORM
type GormManifestRepository struct {
	db *gorm.DB
}

// NewGormManifestRepository creates a new GormManifestRepository
func NewGormManifestRepository(db *gorm.DB) *GormManifestRepository {
	return &GormManifestRepository{db: db}
}

// Create inserts the manifest with its items in one transaction. A unique
// violation on the scope serial comes back as shared.ErrAlreadyExists so the
// caller can re-read the scope maximum and retry.
func (r *GormManifestRepository) Create(ctx context.Context, manifest *freight.Manifest) error {
	model := models.ManifestModelFromDomain(manifest)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update saves manifest state and item flags
func (r *GormManifestRepository) Update(ctx context.Context, manifest *freight.Manifest) error {
	model := models.ManifestModelFromDomain(manifest)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		for i := range model.Items {
			if err := tx.Save(&model.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByIDForTenant finds a manifest with its items
func (r *GormManifestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*freight.Manifest, error) {
	var model models.ManifestModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns a page of manifests for a tenant
func (r *GormManifestRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*freight.Manifest], error) {
	filter = normalizeFilter(filter)
	query := r.db.WithContext(ctx).Model(&models.ManifestModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("manifest_number ILIKE ? OR vehicle_no ILIKE ? OR route ILIKE ?", pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "vehicle_no":
			query = query.Where("vehicle_no = ?", value)
		case "entity_id":
			query = query.Where("entity_id = ?", value)
		case "fiscal_year":
			query = query.Where("fiscal_year = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*freight.Manifest]{}, err
	}

	query = applyOrdering(query, filter, ManifestSortFields, "created_at DESC")
	query = applyPagination(query, filter).Preload("Items")

	var manifestModels []models.ManifestModel
	if err := query.Find(&manifestModels).Error; err != nil {
		return shared.Paginated[*freight.Manifest]{}, err
	}

	manifests := make([]*freight.Manifest, len(manifestModels))
	for i := range manifestModels {
		manifests[i] = manifestModels[i].ToDomain()
	}
	return shared.NewPaginated(manifests, total, filter.Page, filter.PageSize), nil
}

// MaxSequenceNo returns the highest allocated serial inside the scope, or 0
// when the scope is empty. The scope index makes this a range scan, not a
// counter row.
func (r *GormManifestRepository) MaxSequenceNo(ctx context.Context, scope sequence.Scope) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&models.ManifestModel{}).
		Select("COALESCE(MAX(sequence_no), 0)").
		Where("tenant_id = ? AND fiscal_year = ? AND entity_id = ?",
			scope.TenantID, int(scope.FiscalYear), scope.BranchID).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

// ExistsForShipment reports whether any non-cancelled manifest still carries
// the shipment.
func (r *GormManifestRepository) ExistsForShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ManifestItemModel{}).
		Joins("JOIN manifests ON manifests.id = manifest_items.manifest_id").
		Where("manifests.tenant_id = ? AND manifest_items.shipment_id = ? AND manifest_items.removed = false AND manifests.status <> ?",
			tenantID, shipmentID, freight.ManifestCancelled).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormManifestRepository implements freight.ManifestRepository
var _ freight.ManifestRepository = (*GormManifestRepository)(nil)

// GormAdjustmentRepository implements freight.AdjustmentRepository using GORM
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormAdjustmentRepository creates a new GormAdjustmentRepository
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

// Create appends one correction row. The ledger is append-only; there is no
// update or delete path.
func (r *GormAdjustmentRepository) Create(ctx context.Context, adjustment *freight.ManifestAdjustment) error {
	model := models.ManifestAdjustmentModelFromDomain(adjustment)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByShipment returns the correction history of one shipment, oldest first
func (r *GormAdjustmentRepository) FindByShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) ([]*freight.ManifestAdjustment, error) {
	var adjustmentModels []models.ManifestAdjustmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND shipment_id = ?", tenantID, shipmentID).
		Order("created_at ASC").
		Find(&adjustmentModels).Error; err != nil {
		return nil, err
	}

	adjustments := make([]*freight.ManifestAdjustment, len(adjustmentModels))
	for i := range adjustmentModels {
		adjustments[i] = adjustmentModels[i].ToDomain()
	}
	return adjustments, nil
}

// Ensure GormAdjustmentRepository implements freight.AdjustmentRepository
var _ freight.AdjustmentRepository = (*GormAdjustmentRepository)(nil)
