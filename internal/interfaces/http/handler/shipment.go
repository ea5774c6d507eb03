package handler

import (
	freightapp "github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/application/freight"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ShipmentHandler handles consignment API endpoints
type ShipmentHandler struct {
	BaseHandler
	shipmentService *freightapp.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler
func NewShipmentHandler(shipmentService *freightapp.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{
		shipmentService: shipmentService,
	}
}

// LineItemRequest represents one product line on a new shipment
// @Description Line item for shipment creation
type LineItemRequest struct {
	ItemType  string  `json:"item_type" binding:"required,min=1,max=100" example:"carton"`
	Units     int     `json:"units" binding:"required,gt=0" example:"10"`
	Amount    float64 `json:"amount" binding:"gte=0" example:"1500.00"`
	ReturnLeg bool    `json:"return_leg" example:"false"`
}

// CreateShipmentRequest represents a request to book a consignment
// @Description Request body for creating a new shipment
type CreateShipmentRequest struct {
	ConsignmentNumber string            `json:"consignment_number" binding:"required,min=1,max=50" example:"CN-2026-0042"`
	Origin            EntityRefDTO      `json:"origin" binding:"required"`
	ConsignorID       string            `json:"consignor_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440002"`
	ConsigneeID       string            `json:"consignee_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440003"`
	BillingEntity     *EntityRefDTO     `json:"billing_entity"`
	BillingLocationID *string           `json:"billing_location_id" binding:"omitempty,uuid"`
	Route             string            `json:"route" binding:"max=500" example:"BLR-MAA via KA01AB1234"`
	LineItems         []LineItemRequest `json:"line_items" binding:"required,min=1,dive"`
	FinalAmount       float64           `json:"final_amount" binding:"gte=0" example:"1500.00"`
	InitialPaid       float64           `json:"initial_paid" binding:"gte=0" example:"500.00"`
}

// Create godoc
// @ID           createShipment
// @Summary      Book a consignment
// @Description  Create a new shipment; a billing entity also posts its receivable
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        request body CreateShipmentRequest true "Shipment creation request"
// @Success      201 {object} APIResponse[ShipmentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /freight/shipments [post]
func (h *ShipmentHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	origin, err := parseEntityRef(req.Origin)
	if err != nil {
		h.BadRequest(c, "Invalid origin entity")
		return
	}
	consignorID, err := uuid.Parse(req.ConsignorID)
	if err != nil {
		h.BadRequest(c, "Invalid consignor ID format")
		return
	}
	consigneeID, err := uuid.Parse(req.ConsigneeID)
	if err != nil {
		h.BadRequest(c, "Invalid consignee ID format")
		return
	}

	appReq := freightapp.CreateShipmentRequest{
		TenantID:          tenantID,
		ConsignmentNumber: req.ConsignmentNumber,
		Origin:            origin,
		ConsignorID:       consignorID,
		ConsigneeID:       consigneeID,
		Route:             req.Route,
		FinalAmount:       toDecimal(req.FinalAmount),
		InitialPaid:       toDecimal(req.InitialPaid),
	}

	if req.BillingEntity != nil {
		billingEntity, err := parseEntityRef(*req.BillingEntity)
		if err != nil {
			h.BadRequest(c, "Invalid billing entity")
			return
		}
		appReq.BillingEntity = &billingEntity
	}
	if req.BillingLocationID != nil {
		locationID, err := uuid.Parse(*req.BillingLocationID)
		if err != nil {
			h.BadRequest(c, "Invalid billing location ID format")
			return
		}
		appReq.BillingLocationID = &locationID
	}

	for _, li := range req.LineItems {
		appReq.LineItems = append(appReq.LineItems, freightapp.LineItemInput{
			ItemType:  li.ItemType,
			Units:     li.Units,
			Amount:    toDecimal(li.Amount),
			ReturnLeg: li.ReturnLeg,
		})
	}

	shipment, err := h.shipmentService.CreateShipment(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toShipmentResponse(shipment))
}

// GetByID godoc
// @ID           getShipmentById
// @Summary      Get shipment by ID
// @Description  Retrieve a shipment by its ID
// @Tags         shipments
// @Produce      json
// @Param        id path string true "Shipment ID" format(uuid)
// @Success      200 {object} APIResponse[ShipmentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /freight/shipments/{id} [get]
func (h *ShipmentHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID format")
		return
	}

	shipment, err := h.shipmentService.GetShipment(c.Request.Context(), tenantID, shipmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toShipmentResponse(shipment))
}

// List godoc
// @ID           listShipments
// @Summary      List shipments
// @Description  Retrieve a paginated list of shipments
// @Tags         shipments
// @Produce      json
// @Param        search query string false "Search term (consignment number, route)"
// @Param        status query string false "Shipment status"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]ShipmentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /freight/shipments [get]
func (h *ShipmentHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter := bindListFilter(c)
	if status := c.Query("status"); status != "" {
		filter.Filters = map[string]interface{}{"status": status}
	}

	page, err := h.shipmentService.ListShipments(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, toShipmentResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// Delete godoc
// @ID           deleteShipment
// @Summary      Delete a shipment
// @Description  Delete a shipment that is not referenced by a manifest, invoice or pre-invoice
// @Tags         shipments
// @Produce      json
// @Param        id path string true "Shipment ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /freight/shipments/{id} [delete]
func (h *ShipmentHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID format")
		return
	}

	if err := h.shipmentService.DeleteShipment(c.Request.Context(), tenantID, shipmentID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// parseEntityRef converts a wire entity reference into the validated domain form
func parseEntityRef(in EntityRefDTO) (valueobject.EntityRef, error) {
	id, err := uuid.Parse(in.ID)
	if err != nil {
		return valueobject.EntityRef{}, err
	}
	return valueobject.NewEntityRef(valueobject.EntityKind(in.Kind), id)
}

// bindListFilter reads the shared pagination query parameters
func bindListFilter(c *gin.Context) shared.Filter {
	filter := shared.DefaultFilter()
	var q struct {
		Page     int    `form:"page"`
		PageSize int    `form:"page_size"`
		OrderBy  string `form:"order_by"`
		OrderDir string `form:"order_dir"`
		Search   string `form:"search"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		return filter
	}
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = q.PageSize
	}
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		filter.OrderDir = q.OrderDir
	}
	filter.Search = q.Search
	return filter
}
