package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/freight"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/persistence/models"
)

// undeliveredStatuses are the shipment states that still hold a vehicle on
// its route.
var undeliveredStatuses = []freight.ShipmentStatus{
	freight.StatusPending, freight.StatusManifestation, freight.StatusOutForDelivery,
	freight.StatusDPending, freight.StatusDManifestation, freight.StatusDOutForDelivery,
}

// GormShipmentRepository implements freight.ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// Create inserts a new shipment row
func (r *GormShipmentRepository) Create(ctx context.Context, shipment *freight.Shipment) error {
	model := models.ShipmentModelFromDomain(shipment)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update saves shipment state, counters and billing links
func (r *GormShipmentRepository) Update(ctx context.Context, shipment *freight.Shipment) error {
	model := models.ShipmentModelFromDomain(shipment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a shipment row within a tenant
func (r *GormShipmentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ShipmentModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByIDForTenant finds a shipment by ID within a tenant
func (r *GormShipmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*freight.Shipment, error) {
	var model models.ShipmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByConsignmentNumber finds a shipment by its consignment number
func (r *GormShipmentRepository) FindByConsignmentNumber(ctx context.Context, tenantID uuid.UUID, consignmentNumber string) (*freight.Shipment, error) {
	var model models.ShipmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND consignment_number = ?", tenantID, consignmentNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByConsignmentNumbers finds shipments by their consignment numbers
func (r *GormShipmentRepository) FindByConsignmentNumbers(ctx context.Context, tenantID uuid.UUID, consignmentNumbers []string) ([]*freight.Shipment, error) {
	if len(consignmentNumbers) == 0 {
		return []*freight.Shipment{}, nil
	}
	var shipmentModels []models.ShipmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND consignment_number IN ?", tenantID, consignmentNumbers).
		Find(&shipmentModels).Error; err != nil {
		return nil, err
	}
	return toShipments(shipmentModels), nil
}

// FindByIDs finds multiple shipments by their IDs
func (r *GormShipmentRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*freight.Shipment, error) {
	if len(ids) == 0 {
		return []*freight.Shipment{}, nil
	}
	var shipmentModels []models.ShipmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&shipmentModels).Error; err != nil {
		return nil, err
	}
	return toShipments(shipmentModels), nil
}

// FindByStatus returns a page of shipments in any of the given states
func (r *GormShipmentRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, statuses []freight.ShipmentStatus, filter shared.Filter) (shared.Paginated[*freight.Shipment], error) {
	query := r.db.WithContext(ctx).Model(&models.ShipmentModel{}).
		Where("tenant_id = ? AND status IN ?", tenantID, statuses)
	return r.paginate(query, filter)
}

// FindByInvoiceID returns the shipments frozen into one invoice
func (r *GormShipmentRepository) FindByInvoiceID(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*freight.Shipment, error) {
	var shipmentModels []models.ShipmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND invoice_id = ?", tenantID, invoiceID).
		Find(&shipmentModels).Error; err != nil {
		return nil, err
	}
	return toShipments(shipmentModels), nil
}

// List returns a page of shipments for a tenant
func (r *GormShipmentRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*freight.Shipment], error) {
	query := r.db.WithContext(ctx).Model(&models.ShipmentModel{}).
		Where("tenant_id = ?", tenantID)
	return r.paginate(query, filter)
}

// ExistsActiveOnRoute reports whether any undelivered shipment's route
// mentions the vehicle number.
func (r *GormShipmentRepository) ExistsActiveOnRoute(ctx context.Context, tenantID uuid.UUID, vehicleNo string) (bool, error) {
	if vehicleNo == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ShipmentModel{}).
		Where("tenant_id = ? AND status IN ? AND route ILIKE ?",
			tenantID, undeliveredStatuses, "%"+vehicleNo+"%").
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// paginate applies the filter and returns one result page with its total
func (r *GormShipmentRepository) paginate(query *gorm.DB, filter shared.Filter) (shared.Paginated[*freight.Shipment], error) {
	filter = normalizeFilter(filter)
	query = r.applySearchAndFilters(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*freight.Shipment]{}, err
	}

	query = applyOrdering(query, filter, ShipmentSortFields, "created_at DESC")
	query = applyPagination(query, filter)

	var shipmentModels []models.ShipmentModel
	if err := query.Find(&shipmentModels).Error; err != nil {
		return shared.Paginated[*freight.Shipment]{}, err
	}
	return shared.NewPaginated(toShipments(shipmentModels), total, filter.Page, filter.PageSize), nil
}

func (r *GormShipmentRepository) applySearchAndFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("consignment_number ILIKE ? OR route ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "consignor_id":
			query = query.Where("consignor_id = ?", value)
		case "consignee_id":
			query = query.Where("consignee_id = ?", value)
		case "origin_id":
			query = query.Where("origin_id = ?", value)
		case "billing_entity_id":
			query = query.Where("billing_entity_id = ?", value)
		}
	}
	return query
}

func toShipments(shipmentModels []models.ShipmentModel) []*freight.Shipment {
	shipments := make([]*freight.Shipment, len(shipmentModels))
	for i := range shipmentModels {
		shipments[i] = shipmentModels[i].ToDomain()
	}
	return shipments
}

// normalizeFilter fills unset page fields so the page math stays defined
func normalizeFilter(filter shared.Filter) shared.Filter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	return filter
}

// applyOrdering applies the filter's ordering or a default. OrderBy passes
// through the field whitelist; anything else falls back to the default.
func applyOrdering(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool, defaultOrder string) *gorm.DB {
	if filter.OrderBy == "" {
		return query.Order(defaultOrder)
	}
	field := ValidateSortField(filter.OrderBy, allowedFields, "created_at")
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

// applyPagination applies the filter's page window
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormShipmentRepository implements freight.ShipmentRepository
var _ freight.ShipmentRepository = (*GormShipmentRepository)(nil)
