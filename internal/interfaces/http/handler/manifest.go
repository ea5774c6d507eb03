package handler

import (
	"time"

	freightapp "github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/application/freight"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ManifestHandler handles dispatch manifest API endpoints
type ManifestHandler struct {
	BaseHandler
	manifestService *freightapp.ManifestService
}

// NewManifestHandler creates a new ManifestHandler
func NewManifestHandler(manifestService *freightapp.ManifestService) *ManifestHandler {
	return &ManifestHandler{
		manifestService: manifestService,
	}
}

// CreateManifestRequest represents a request to schedule a dispatch run
// @Description Request body for creating a manifest
type CreateManifestRequest struct {
	Entity       EntityRefDTO `json:"entity" binding:"required"`
	VehicleNo    string       `json:"vehicle_no" binding:"required,min=1,max=50" example:"KA01AB1234"`
	Route        string       `json:"route" binding:"max=500" example:"BLR-MAA"`
	Consignments []string     `json:"consignments" binding:"required,min=1,dive,min=1"`
}

// UpdateManifestStatusRequest represents a manifest status transition
// @Description Request body for moving a manifest through its lifecycle
type UpdateManifestStatusRequest struct {
	Status      string     `json:"status" binding:"required,oneof=OUT_FOR_DELIVERY COMPLETED CANCELLED" example:"COMPLETED"`
	DeliveredAt *time.Time `json:"delivered_at"`
}

// RecordAdjustmentRequest represents a manual stock correction
// @Description Request body for recording a manifest adjustment
type RecordAdjustmentRequest struct {
	ShipmentID     string  `json:"shipment_id" binding:"required,uuid"`
	ManifestID     *string `json:"manifest_id" binding:"omitempty,uuid"`
	ItemType       string  `json:"item_type" binding:"required,min=1,max=100" example:"carton"`
	DeltaInStock   int     `json:"delta_in_stock" example:"-2"`
	DeltaInTransit int     `json:"delta_in_transit" example:"0"`
	DeltaDelivered int     `json:"delta_delivered" example:"2"`
	DeltaAmount    float64 `json:"delta_amount" example:"0"`
	Reason         string  `json:"reason" binding:"required,min=1,max=500" example:"Damaged cartons written off at hub"`
}

// Create godoc
// @ID           createManifest
// @Summary      Schedule a dispatch run
// @Description  Create a manifest over the named consignments, allocating its scope serial and marking the vehicle busy
// @Tags         manifests
// @Accept       json
// @Produce      json
// @Param        request body CreateManifestRequest true "Manifest creation request"
// @Success      201 {object} APIResponse[ManifestResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /freight/manifests [post]
func (h *ManifestHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req CreateManifestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	entity, err := parseEntityRef(req.Entity)
	if err != nil {
		h.BadRequest(c, "Invalid dispatching entity")
		return
	}

	manifest, err := h.manifestService.CreateManifest(c.Request.Context(), freightapp.CreateManifestRequest{
		TenantID:     tenantID,
		Entity:       entity,
		VehicleNo:    req.VehicleNo,
		Route:        req.Route,
		Consignments: req.Consignments,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toManifestResponse(manifest))
}

// GetByID godoc
// @ID           getManifestById
// @Summary      Get manifest by ID
// @Description  Retrieve a manifest by its ID
// @Tags         manifests
// @Produce      json
// @Param        id path string true "Manifest ID" format(uuid)
// @Success      200 {object} APIResponse[ManifestResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /freight/manifests/{id} [get]
func (h *ManifestHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	manifestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid manifest ID format")
		return
	}

	manifest, err := h.manifestService.GetManifest(c.Request.Context(), tenantID, manifestID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toManifestResponse(manifest))
}

// List godoc
// @ID           listManifests
// @Summary      List manifests
// @Description  Retrieve a paginated list of manifests
// @Tags         manifests
// @Produce      json
// @Param        search query string false "Search term (manifest number, vehicle, route)"
// @Param        status query string false "Manifest status" Enums(SCHEDULED, COMPLETED, CANCELLED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]ManifestResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /freight/manifests [get]
func (h *ManifestHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter := bindListFilter(c)
	if status := c.Query("status"); status != "" {
		filter.Filters = map[string]interface{}{"status": status}
	}

	page, err := h.manifestService.ListManifests(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, toManifestResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// UpdateStatus godoc
// @ID           updateManifestStatus
// @Summary      Move a manifest through its lifecycle
// @Description  OUT_FOR_DELIVERY flips the shipments onto the delivery leg, COMPLETED delivers the manifested units, CANCELLED returns them to stock
// @Tags         manifests
// @Accept       json
// @Produce      json
// @Param        id path string true "Manifest ID" format(uuid)
// @Param        request body UpdateManifestStatusRequest true "Target status"
// @Success      200 {object} APIResponse[ManifestResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /freight/manifests/{id}/status [put]
func (h *ManifestHandler) UpdateStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	manifestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid manifest ID format")
		return
	}

	var req UpdateManifestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	manifest, err := h.manifestService.UpdateStatus(c.Request.Context(), freightapp.UpdateStatusRequest{
		TenantID:    tenantID,
		ManifestID:  manifestID,
		Status:      req.Status,
		DeliveredAt: req.DeliveredAt,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toManifestResponse(manifest))
}

// RemoveConsignment godoc
// @ID           removeManifestConsignment
// @Summary      Remove a consignment from a manifest
// @Description  Take one shipment off a scheduled manifest and credit its units back to stock
// @Tags         manifests
// @Produce      json
// @Param        id path string true "Manifest ID" format(uuid)
// @Param        consignment_number path string true "Consignment number"
// @Success      200 {object} APIResponse[ManifestResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /freight/manifests/{id}/consignments/{consignment_number} [delete]
func (h *ManifestHandler) RemoveConsignment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	manifestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid manifest ID format")
		return
	}

	consignmentNumber := c.Param("consignment_number")
	if consignmentNumber == "" {
		h.BadRequest(c, "Consignment number is required")
		return
	}

	manifest, err := h.manifestService.RemoveConsignment(c.Request.Context(), tenantID, manifestID, consignmentNumber)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toManifestResponse(manifest))
}

// RecordAdjustment godoc
// @ID           recordManifestAdjustment
// @Summary      Record a stock adjustment
// @Description  Apply a ledgered manual correction to one shipment line item
// @Tags         manifests
// @Accept       json
// @Produce      json
// @Param        request body RecordAdjustmentRequest true "Adjustment request"
// @Success      201 {object} APIResponse[AdjustmentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /freight/adjustments [post]
func (h *ManifestHandler) RecordAdjustment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req RecordAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	shipmentID, err := uuid.Parse(req.ShipmentID)
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID format")
		return
	}

	appReq := freightapp.AdjustmentRequest{
		TenantID:       tenantID,
		ShipmentID:     shipmentID,
		ItemType:       req.ItemType,
		DeltaInStock:   req.DeltaInStock,
		DeltaInTransit: req.DeltaInTransit,
		DeltaDelivered: req.DeltaDelivered,
		DeltaAmount:    toDecimal(req.DeltaAmount),
		Reason:         req.Reason,
	}

	if req.ManifestID != nil {
		manifestID, err := uuid.Parse(*req.ManifestID)
		if err != nil {
			h.BadRequest(c, "Invalid manifest ID format")
			return
		}
		appReq.ManifestID = &manifestID
	}

	if userID, err := getUserID(c); err == nil && userID != uuid.Nil {
		appReq.AdjustedBy = &userID
	}

	adjustment, err := h.manifestService.RecordAdjustment(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toAdjustmentResponse(adjustment))
}
