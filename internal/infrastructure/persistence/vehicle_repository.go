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

// GormVehicleRepository implements freight.VehicleRepository using GORM
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// Create inserts a new vehicle
func (r *GormVehicleRepository) Create(ctx context.Context, vehicle *freight.Vehicle) error {
	model := models.VehicleModelFromDomain(vehicle)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update saves vehicle status and route
func (r *GormVehicleRepository) Update(ctx context.Context, vehicle *freight.Vehicle) error {
	model := models.VehicleModelFromDomain(vehicle)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByVehicleNo finds a vehicle by its registration number
func (r *GormVehicleRepository) FindByVehicleNo(ctx context.Context, tenantID uuid.UUID, vehicleNo string) (*freight.Vehicle, error) {
	var model models.VehicleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND vehicle_no = ?", tenantID, vehicleNo).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns a page of vehicles for a tenant
func (r *GormVehicleRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*freight.Vehicle], error) {
	filter = normalizeFilter(filter)
	query := r.db.WithContext(ctx).Model(&models.VehicleModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("vehicle_no ILIKE ? OR current_route ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*freight.Vehicle]{}, err
	}

	query = applyOrdering(query, filter, VehicleSortFields, "vehicle_no ASC")
	query = applyPagination(query, filter)

	var vehicleModels []models.VehicleModel
	if err := query.Find(&vehicleModels).Error; err != nil {
		return shared.Paginated[*freight.Vehicle]{}, err
	}

	vehicles := make([]*freight.Vehicle, len(vehicleModels))
	for i := range vehicleModels {
		vehicles[i] = vehicleModels[i].ToDomain()
	}
	return shared.NewPaginated(vehicles, total, filter.Page, filter.PageSize), nil
}

// Ensure GormVehicleRepository implements freight.VehicleRepository
var _ freight.VehicleRepository = (*GormVehicleRepository)(nil)
