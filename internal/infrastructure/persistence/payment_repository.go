package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/payment"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/persistence/models"
)

// GormPaymentRepository implements payment.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create inserts a new payment row. The natural key is unique, so a
// concurrent insert of the same obligation surfaces as
// shared.ErrAlreadyExists.
func (r *GormPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	model := models.PaymentModelFromDomain(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update saves payment amounts and derived status
func (r *GormPaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	model := models.PaymentModelFromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByReference resolves a payment by its natural key
func (r *GormPaymentRepository) FindByReference(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, direction payment.Direction, referenceNo string) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND entity_kind = ? AND entity_id = ? AND direction = ? AND reference_no = ?",
			tenantID, string(entity.Kind), entity.ID, direction, referenceNo).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEntity returns a page of payment rows for one entity and direction
func (r *GormPaymentRepository) FindByEntity(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, direction payment.Direction, filter shared.Filter) (shared.Paginated[*payment.Payment], error) {
	filter = normalizeFilter(filter)
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("tenant_id = ? AND entity_kind = ? AND entity_id = ? AND direction = ?",
			tenantID, string(entity.Kind), entity.ID, direction)

	if filter.Search != "" {
		query = query.Where("reference_no ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*payment.Payment]{}, err
	}

	query = applyOrdering(query, filter, PaymentSortFields, "created_at DESC")
	query = applyPagination(query, filter)

	var paymentModels []models.PaymentModel
	if err := query.Find(&paymentModels).Error; err != nil {
		return shared.Paginated[*payment.Payment]{}, err
	}

	payments := make([]*payment.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = paymentModels[i].ToDomain()
	}
	return shared.NewPaginated(payments, total, filter.Page, filter.PageSize), nil
}

// Ensure GormPaymentRepository implements payment.PaymentRepository
var _ payment.PaymentRepository = (*GormPaymentRepository)(nil)

// GormSummaryRepository implements payment.SummaryRepository using GORM
type GormSummaryRepository struct {
	db *gorm.DB
}

// NewGormSummaryRepository creates a new GormSummaryRepository
func NewGormSummaryRepository(db *gorm.DB) *GormSummaryRepository {
	return &GormSummaryRepository{db: db}
}

// Upsert writes the rollup row, replacing totals when the entity already has
// one. The summary is derived state; the last write wins.
func (r *GormSummaryRepository) Upsert(ctx context.Context, summary *payment.PaymentEntitySummary) error {
	model := models.PaymentEntitySummaryModelFromDomain(summary)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "tenant_id"}, {Name: "entity_kind"}, {Name: "entity_id"}, {Name: "direction"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"total_due", "total_paid", "total_balance", "updated_at"}),
	}).Create(model).Error
}

// Find returns the rollup for one entity and direction
func (r *GormSummaryRepository) Find(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, direction payment.Direction) (*payment.PaymentEntitySummary, error) {
	var model models.PaymentEntitySummaryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND entity_kind = ? AND entity_id = ? AND direction = ?",
			tenantID, string(entity.Kind), entity.ID, direction).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListForTenant returns a page of rollups for one direction
func (r *GormSummaryRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, direction payment.Direction, filter shared.Filter) (shared.Paginated[*payment.PaymentEntitySummary], error) {
	filter = normalizeFilter(filter)
	query := r.db.WithContext(ctx).Model(&models.PaymentEntitySummaryModel{}).
		Where("tenant_id = ? AND direction = ?", tenantID, direction)

	for key, value := range filter.Filters {
		switch key {
		case "entity_kind":
			query = query.Where("entity_kind = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*payment.PaymentEntitySummary]{}, err
	}

	query = applyOrdering(query, filter, SummarySortFields, "total_balance DESC")
	query = applyPagination(query, filter)

	var summaryModels []models.PaymentEntitySummaryModel
	if err := query.Find(&summaryModels).Error; err != nil {
		return shared.Paginated[*payment.PaymentEntitySummary]{}, err
	}

	summaries := make([]*payment.PaymentEntitySummary, len(summaryModels))
	for i := range summaryModels {
		summaries[i] = summaryModels[i].ToDomain()
	}
	return shared.NewPaginated(summaries, total, filter.Page, filter.PageSize), nil
}

// Ensure GormSummaryRepository implements payment.SummaryRepository
var _ payment.SummaryRepository = (*GormSummaryRepository)(nil)
