package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/payment"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/persistence/models"
)

// GormTransactionRepository implements payment.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create appends a ledger entry with its allocations
func (r *GormTransactionRepository) Create(ctx context.Context, txn *payment.PaymentTransaction) error {
	model := models.PaymentTransactionModelFromDomain(txn)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update saves the void markers on an entry and its allocations. Amounts are
// never rewritten; a void flips status and records the reason.
func (r *GormTransactionRepository) Update(ctx context.Context, txn *payment.PaymentTransaction) error {
	model := models.PaymentTransactionModelFromDomain(txn)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		for i := range model.Allocations {
			if err := tx.Save(&model.Allocations[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByIDForTenant finds a ledger entry with its allocations
func (r *GormTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payment.PaymentTransaction, error) {
	var model models.PaymentTransactionModel
	if err := r.db.WithContext(ctx).
		Preload("Allocations").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEntity returns a page of ledger entries for one entity, voided ones
// included. The ledger exposes its full history.
func (r *GormTransactionRepository) FindByEntity(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, filter shared.Filter) (shared.Paginated[*payment.PaymentTransaction], error) {
	filter = normalizeFilter(filter)
	query := r.db.WithContext(ctx).Model(&models.PaymentTransactionModel{}).
		Where("tenant_id = ? AND entity_kind = ? AND entity_id = ?",
			tenantID, string(entity.Kind), entity.ID)

	if filter.Search != "" {
		query = query.Where("reference ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "method":
			query = query.Where("method = ?", value)
		case "direction":
			query = query.Where("direction = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*payment.PaymentTransaction]{}, err
	}

	query = applyOrdering(query, filter, TransactionSortFields, "transaction_date DESC")
	query = applyPagination(query, filter).Preload("Allocations")

	var txnModels []models.PaymentTransactionModel
	if err := query.Find(&txnModels).Error; err != nil {
		return shared.Paginated[*payment.PaymentTransaction]{}, err
	}

	txns := make([]*payment.PaymentTransaction, len(txnModels))
	for i := range txnModels {
		txns[i] = txnModels[i].ToDomain()
	}
	return shared.NewPaginated(txns, total, filter.Page, filter.PageSize), nil
}

// ExistsByReference returns the posted entry already carrying the given
// method and reference, or nil when none does.
func (r *GormTransactionRepository) ExistsByReference(ctx context.Context, tenantID uuid.UUID, method, reference string) (*payment.PaymentTransaction, error) {
	var model models.PaymentTransactionModel
	err := r.db.WithContext(ctx).
		Preload("Allocations").
		Where("tenant_id = ? AND method = ? AND reference = ? AND status = ?",
			tenantID, method, reference, payment.TransactionPosted).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SumPostedByEntity totals the non-voided entries of one entity and direction
func (r *GormTransactionRepository) SumPostedByEntity(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, direction payment.Direction) (decimal.Decimal, error) {
	return r.sumPosted(r.db.WithContext(ctx).
		Model(&models.PaymentTransactionModel{}).
		Where("tenant_id = ? AND entity_kind = ? AND entity_id = ? AND direction = ?",
			tenantID, string(entity.Kind), entity.ID, direction))
}

// SumPostedByReference totals the non-voided entries carrying one reference
func (r *GormTransactionRepository) SumPostedByReference(ctx context.Context, tenantID uuid.UUID, reference string) (decimal.Decimal, error) {
	return r.sumPosted(r.db.WithContext(ctx).
		Model(&models.PaymentTransactionModel{}).
		Where("tenant_id = ? AND reference = ?", tenantID, reference))
}

// SumPostedAllocations totals the non-voided allocations against one invoice
func (r *GormTransactionRepository) SumPostedAllocations(ctx context.Context, tenantID, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.PaymentAllocationModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("tenant_id = ? AND invoice_id = ? AND status = ?",
			tenantID, invoiceID, payment.TransactionPosted).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *GormTransactionRepository) sumPosted(query *gorm.DB) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := query.
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", payment.TransactionPosted).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// Ensure GormTransactionRepository implements payment.TransactionRepository
var _ payment.TransactionRepository = (*GormTransactionRepository)(nil)
