package handler

import (
	billingapp "github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PreInvoiceHandler handles draft invoice API endpoints
type PreInvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewPreInvoiceHandler creates a new PreInvoiceHandler
func NewPreInvoiceHandler(invoiceService *billingapp.InvoiceService) *PreInvoiceHandler {
	return &PreInvoiceHandler{
		invoiceService: invoiceService,
	}
}

// CreatePreInvoiceRequest represents a draft creation request
// @Description Request body naming the shipments for one draft
type CreatePreInvoiceRequest struct {
	ShipmentIDs []string `json:"shipment_ids" binding:"required,min=1,dive,uuid"`
}

// UpdatePreInvoiceLineRequest represents an edit to one draft line
// @Description Request body for updating a pre-invoice line's charges and tax
type UpdatePreInvoiceLineRequest struct {
	Charges   float64 `json:"charges" binding:"gte=0" example:"50.00"`
	TaxAmount float64 `json:"tax_amount" binding:"gte=0" example:"100.00"`
}

// Create godoc
// @ID           createPreInvoice
// @Summary      Create a pre-invoice draft
// @Description  Build an editable draft over one billing entity; no serial is consumed
// @Tags         pre-invoices
// @Accept       json
// @Produce      json
// @Param        request body CreatePreInvoiceRequest true "Shipments for the draft"
// @Success      201 {object} APIResponse[PreInvoiceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /billing/pre-invoices [post]
func (h *PreInvoiceHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req CreatePreInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	shipmentIDs, err := parseUUIDs(req.ShipmentIDs)
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID format")
		return
	}

	preInvoice, err := h.invoiceService.CreatePreInvoice(c.Request.Context(), billingapp.CreatePreInvoiceRequest{
		TenantID:    tenantID,
		ShipmentIDs: shipmentIDs,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toPreInvoiceResponse(preInvoice))
}

// GetByID godoc
// @ID           getPreInvoiceById
// @Summary      Get pre-invoice by ID
// @Description  Retrieve a pre-invoice by its ID
// @Tags         pre-invoices
// @Produce      json
// @Param        id path string true "Pre-invoice ID" format(uuid)
// @Success      200 {object} APIResponse[PreInvoiceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /billing/pre-invoices/{id} [get]
func (h *PreInvoiceHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	preInvoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pre-invoice ID format")
		return
	}

	preInvoice, err := h.invoiceService.GetPreInvoice(c.Request.Context(), tenantID, preInvoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toPreInvoiceResponse(preInvoice))
}

// List godoc
// @ID           listPreInvoices
// @Summary      List pre-invoices
// @Description  Retrieve a paginated list of pre-invoices
// @Tags         pre-invoices
// @Produce      json
// @Param        status query string false "Pre-invoice status" Enums(DRAFT, INVOICED, CANCELLED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]PreInvoiceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /billing/pre-invoices [get]
func (h *PreInvoiceHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter := bindListFilter(c)
	if status := c.Query("status"); status != "" {
		filter.Filters = map[string]interface{}{"status": status}
	}

	page, err := h.invoiceService.ListPreInvoices(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, toPreInvoiceResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// UpdateLine godoc
// @ID           updatePreInvoiceLine
// @Summary      Edit a pre-invoice line
// @Description  Update the charges and tax on one draft line and recompute the draft total
// @Tags         pre-invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Pre-invoice ID" format(uuid)
// @Param        line_id path string true "Line ID" format(uuid)
// @Param        request body UpdatePreInvoiceLineRequest true "Line edit"
// @Success      200 {object} APIResponse[PreInvoiceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /billing/pre-invoices/{id}/lines/{line_id} [put]
func (h *PreInvoiceHandler) UpdateLine(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	preInvoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pre-invoice ID format")
		return
	}

	lineID, err := uuid.Parse(c.Param("line_id"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}

	var req UpdatePreInvoiceLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	preInvoice, err := h.invoiceService.UpdatePreInvoiceLine(c.Request.Context(), tenantID, preInvoiceID, lineID,
		toDecimal(req.Charges), toDecimal(req.TaxAmount))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toPreInvoiceResponse(preInvoice))
}

// Generate godoc
// @ID           generateInvoiceFromPreInvoice
// @Summary      Finalize a pre-invoice
// @Description  Generate a numbered invoice from the draft, freezing its edited lines
// @Tags         pre-invoices
// @Produce      json
// @Param        id path string true "Pre-invoice ID" format(uuid)
// @Success      201 {object} APIResponse[InvoiceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /billing/pre-invoices/{id}/generate [post]
func (h *PreInvoiceHandler) Generate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	preInvoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pre-invoice ID format")
		return
	}

	invoice, err := h.invoiceService.GenerateFromPreInvoice(c.Request.Context(), tenantID, preInvoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toInvoiceResponse(invoice))
}
