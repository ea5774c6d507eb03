package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/billing"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/sequence"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// CreateBatch inserts a generation batch atomically. Any unique violation on
// a serial or display code rolls back the whole batch and surfaces as
// shared.ErrAlreadyExists; partial batches are never committed.
func (r *GormInvoiceRepository) CreateBatch(ctx context.Context, invoices []*billing.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, invoice := range invoices {
			model := models.InvoiceModelFromDomain(invoice)
			if err := tx.Create(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update saves invoice status transitions
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Omit("Lines").Save(model).Error
}

// FindByIDForTenant finds an invoice with its lines
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
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

// FindByCode finds an invoice by its display code
func (r *GormInvoiceRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByEntity returns the non-cancelled invoices of one billing
// entity, the input set for receivable reconciliation.
func (r *GormInvoiceRepository) FindActiveByEntity(ctx context.Context, tenantID, entityID uuid.UUID) ([]*billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND billing_entity_id = ? AND status <> ?",
			tenantID, entityID, billing.InvoiceCancelled).
		Order("issued_at ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toInvoices(invoiceModels), nil
}

// List returns a page of invoices for a tenant
func (r *GormInvoiceRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*billing.Invoice], error) {
	filter = normalizeFilter(filter)
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		query = query.Where("code ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "billing_entity_id":
			query = query.Where("billing_entity_id = ?", value)
		case "branch_id":
			query = query.Where("branch_id = ?", value)
		case "fiscal_year":
			query = query.Where("fiscal_year = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*billing.Invoice]{}, err
	}

	query = applyOrdering(query, filter, InvoiceSortFields, "issued_at DESC")
	query = applyPagination(query, filter).Preload("Lines")

	var invoiceModels []models.InvoiceModel
	if err := query.Find(&invoiceModels).Error; err != nil {
		return shared.Paginated[*billing.Invoice]{}, err
	}
	return shared.NewPaginated(toInvoices(invoiceModels), total, filter.Page, filter.PageSize), nil
}

// MaxSequenceNo returns the highest allocated serial inside the numbering
// scope, or 0 when the scope is empty. A nil branch matches the tenant-wide
// scope, so the branch comparison must treat NULL as a value.
func (r *GormInvoiceRepository) MaxSequenceNo(ctx context.Context, scope sequence.Scope) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("COALESCE(MAX(sequence_no), 0)").
		Where("tenant_id = ? AND fiscal_year = ? AND category = ? AND branch_id IS NOT DISTINCT FROM ?",
			scope.TenantID, int(scope.FiscalYear), string(scope.Category), scope.BranchID).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

func toInvoices(invoiceModels []models.InvoiceModel) []*billing.Invoice {
	invoices := make([]*billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices
}

// Ensure GormInvoiceRepository implements billing.InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
