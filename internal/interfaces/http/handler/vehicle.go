package handler

import (
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/freight"
	"github.com/gin-gonic/gin"
)

// VehicleHandler handles vehicle API endpoints. Vehicles are created on the
// fly by manifest dispatch, so the API surface is read-only.
type VehicleHandler struct {
	BaseHandler
	vehicleRepo freight.VehicleRepository
}

// NewVehicleHandler creates a new VehicleHandler
func NewVehicleHandler(vehicleRepo freight.VehicleRepository) *VehicleHandler {
	return &VehicleHandler{
		vehicleRepo: vehicleRepo,
	}
}

// List godoc
// @ID           listVehicles
// @Summary      List vehicles
// @Description  Retrieve a paginated list of the tenant's vehicles
// @Tags         vehicles
// @Produce      json
// @Param        search query string false "Search term (vehicle number)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]VehicleResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /freight/vehicles [get]
func (h *VehicleHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	page, err := h.vehicleRepo.List(c.Request.Context(), tenantID, bindListFilter(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, toVehicleResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// GetByNumber godoc
// @ID           getVehicleByNumber
// @Summary      Get vehicle by number
// @Description  Retrieve a vehicle by its registration number
// @Tags         vehicles
// @Produce      json
// @Param        vehicle_no path string true "Vehicle number"
// @Success      200 {object} APIResponse[VehicleResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /freight/vehicles/{vehicle_no} [get]
func (h *VehicleHandler) GetByNumber(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	vehicleNo := c.Param("vehicle_no")
	if vehicleNo == "" {
		h.BadRequest(c, "Vehicle number is required")
		return
	}

	vehicle, err := h.vehicleRepo.FindByVehicleNo(c.Request.Context(), tenantID, vehicleNo)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toVehicleResponse(vehicle))
}
