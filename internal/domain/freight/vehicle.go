package freight

import (
	"time"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// VehicleStatus tracks whether a vehicle is free for dispatch
type VehicleStatus string

const (
	VehicleOnline VehicleStatus = "online"
	VehicleBusy   VehicleStatus = "busy"
)

// Vehicle is a dispatchable truck. A vehicle goes busy when a manifest is
// scheduled against it and comes back online when its runs finish, unless an
// active shipment route still references its number.
type Vehicle struct {
	shared.TenantAggregateRoot
	VehicleNo    string
	Status       VehicleStatus
	CurrentRoute string
}

// NewVehicle registers a vehicle in the online state
func NewVehicle(tenantID uuid.UUID, vehicleNo string) (*Vehicle, error) {
	if vehicleNo == "" {
		return nil, shared.NewDomainError("INVALID_VEHICLE", "Vehicle number cannot be empty")
	}
	return &Vehicle{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		VehicleNo:           vehicleNo,
		Status:              VehicleOnline,
	}, nil
}

// MarkBusy assigns the vehicle to a route
func (v *Vehicle) MarkBusy(route string) error {
	if v.Status == VehicleBusy {
		return shared.NewDomainError("VEHICLE_BUSY", "Vehicle is already assigned to a route")
	}
	v.Status = VehicleBusy
	v.CurrentRoute = route
	v.touch()
	return nil
}

// Release returns the vehicle to the online pool. Re-entrant.
func (v *Vehicle) Release() {
	if v.Status == VehicleOnline {
		return
	}
	v.Status = VehicleOnline
	v.CurrentRoute = ""
	v.touch()
}

func (v *Vehicle) touch() {
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
}
