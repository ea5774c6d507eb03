package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/billing"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/sequence"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/persistence/models"
)

// GormPreInvoiceRepository implements billing.PreInvoiceRepository using GORM
type GormPreInvoiceRepository struct {
	db *gorm.DB
}

// NewGormPreInvoiceRepository creates a new GormPreInvoiceRepository
func NewGormPreInvoiceRepository(db *gorm.DB) *GormPreInvoiceRepository {
	return &GormPreInvoiceRepository{db: db}
}

// Create inserts a draft with its lines. A unique violation on the draft
// serial comes back as shared.ErrAlreadyExists so the caller can re-read the
// scope maximum and retry.
func (r *GormPreInvoiceRepository) Create(ctx context.Context, preInvoice *billing.PreInvoice) error {
	model := models.PreInvoiceModelFromDomain(preInvoice)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// MaxSequenceNo returns the highest allocated draft serial inside the
// numbering scope, or 0 when the scope is empty. A nil branch matches the
// tenant-wide scope, so the branch comparison must treat NULL as a value.
func (r *GormPreInvoiceRepository) MaxSequenceNo(ctx context.Context, scope sequence.Scope) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&models.PreInvoiceModel{}).
		Select("COALESCE(MAX(sequence_no), 0)").
		Where("tenant_id = ? AND fiscal_year = ? AND category = ? AND branch_id IS NOT DISTINCT FROM ?",
			scope.TenantID, int(scope.FiscalYear), string(scope.Category), scope.BranchID).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

// Update saves draft state and replaces its lines. Drafts stay editable, so
// the line set on the aggregate is authoritative.
func (r *GormPreInvoiceRepository) Update(ctx context.Context, preInvoice *billing.PreInvoice) error {
	model := models.PreInvoiceModelFromDomain(preInvoice)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("pre_invoice_id = ?", model.ID).
			Delete(&models.PreInvoiceLineModel{}).Error; err != nil {
			return err
		}
		if len(model.Lines) == 0 {
			return nil
		}
		return tx.Create(&model.Lines).Error
	})
}

// FindByIDForTenant finds a pre-invoice with its lines
func (r *GormPreInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.PreInvoice, error) {
	var model models.PreInvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns a page of pre-invoices for a tenant
func (r *GormPreInvoiceRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*billing.PreInvoice], error) {
	filter = normalizeFilter(filter)
	query := r.db.WithContext(ctx).Model(&models.PreInvoiceModel{}).
		Where("tenant_id = ?", tenantID)

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "billing_entity_id":
			query = query.Where("billing_entity_id = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*billing.PreInvoice]{}, err
	}

	query = applyOrdering(query, filter, PreInvoiceSortFields, "created_at DESC")
	query = applyPagination(query, filter).Preload("Lines")

	var preInvoiceModels []models.PreInvoiceModel
	if err := query.Find(&preInvoiceModels).Error; err != nil {
		return shared.Paginated[*billing.PreInvoice]{}, err
	}

	preInvoices := make([]*billing.PreInvoice, len(preInvoiceModels))
	for i := range preInvoiceModels {
		preInvoices[i] = preInvoiceModels[i].ToDomain()
	}
	return shared.NewPaginated(preInvoices, total, filter.Page, filter.PageSize), nil
}

// ExistsActiveForShipment reports whether a draft or already-invoiced
// pre-invoice still carries the shipment.
func (r *GormPreInvoiceRepository) ExistsActiveForShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PreInvoiceLineModel{}).
		Joins("JOIN pre_invoices ON pre_invoices.id = pre_invoice_lines.pre_invoice_id").
		Where("pre_invoices.tenant_id = ? AND pre_invoice_lines.shipment_id = ? AND pre_invoices.status IN ?",
			tenantID, shipmentID, []billing.PreInvoiceStatus{billing.PreInvoiceDraft, billing.PreInvoiceInvoiced}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormPreInvoiceRepository implements billing.PreInvoiceRepository
var _ billing.PreInvoiceRepository = (*GormPreInvoiceRepository)(nil)
