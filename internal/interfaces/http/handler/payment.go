package handler

import (
	"fmt"
	"time"

	paymentapp "github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/application/payment"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/payment"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles payment ledger API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *paymentapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *paymentapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// AllocationRequest earmarks part of a transaction against one invoice
// @Description Allocation of a transaction amount to an invoice
type AllocationRequest struct {
	InvoiceID string  `json:"invoice_id" binding:"required,uuid"`
	Amount    float64 `json:"amount" binding:"required,gt=0" example:"1000.00"`
}

// RecordTransactionRequest represents a manual ledger posting
// @Description Request body for recording a payment transaction
type RecordTransactionRequest struct {
	Entity          EntityRefDTO        `json:"entity" binding:"required"`
	Direction       string              `json:"direction" binding:"required,oneof=receivable payable" example:"receivable"`
	Amount          float64             `json:"amount" binding:"required,gt=0" example:"1000.00"`
	Method          string              `json:"method" binding:"required,min=1,max=50" example:"bank_transfer"`
	Reference       string              `json:"reference" binding:"max=100" example:"NEFT-20260124-001"`
	TransactionDate *time.Time          `json:"transaction_date"`
	Allocations     []AllocationRequest `json:"allocations" binding:"omitempty,dive"`
}

// VoidTransactionRequest represents a non-destructive void
// @Description Request body for voiding a transaction
type VoidTransactionRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500" example:"Cheque bounced"`
}

// RecordTransaction godoc
// @ID           recordPaymentTransaction
// @Summary      Record a payment transaction
// @Description  Post a payment into the ledger; allocations are validated against each invoice's outstanding
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body RecordTransactionRequest true "Transaction to post"
// @Success      201 {object} APIResponse[TransactionResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payments/transactions [post]
func (h *PaymentHandler) RecordTransaction(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	entity, err := parseEntityRef(req.Entity)
	if err != nil {
		h.BadRequest(c, "Invalid entity reference")
		return
	}

	transactionDate := time.Now()
	if req.TransactionDate != nil {
		transactionDate = *req.TransactionDate
	}

	appReq := paymentapp.RecordTransactionRequest{
		TenantID:        tenantID,
		Entity:          entity,
		Direction:       payment.Direction(req.Direction),
		Amount:          toDecimal(req.Amount),
		Method:          req.Method,
		Reference:       req.Reference,
		TransactionDate: transactionDate,
	}

	for _, a := range req.Allocations {
		invoiceID, err := uuid.Parse(a.InvoiceID)
		if err != nil {
			h.BadRequest(c, "Invalid invoice ID format in allocation")
			return
		}
		appReq.Allocations = append(appReq.Allocations, paymentapp.AllocationInput{
			InvoiceID: invoiceID,
			Amount:    toDecimal(a.Amount),
		})
	}

	txn, err := h.paymentService.RecordTransaction(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toTransactionResponse(txn))
}

// VoidTransaction godoc
// @ID           voidPaymentTransaction
// @Summary      Void a payment transaction
// @Description  Reverse a posted transaction non-destructively; the row survives with voided status
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Param        request body VoidTransactionRequest true "Void reason"
// @Success      200 {object} APIResponse[TransactionResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payments/transactions/{id}/void [post]
func (h *PaymentHandler) VoidTransaction(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	txnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	var req VoidTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	txn, err := h.paymentService.VoidTransaction(c.Request.Context(), tenantID, txnID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toTransactionResponse(txn))
}

// ListTransactions godoc
// @ID           listPaymentTransactions
// @Summary      List transactions for an entity
// @Description  Retrieve a paginated list of an entity's transactions, voided rows included
// @Tags         payments
// @Produce      json
// @Param        entity_kind query string true "Entity kind" Enums(client, guest, branch, hub, transport_partner)
// @Param        entity_id query string true "Entity ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]TransactionResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payments/transactions [get]
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	entity, err := entityFromQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid entity reference")
		return
	}

	page, err := h.paymentService.ListTransactions(c.Request.Context(), tenantID, entity, bindListFilter(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, toTransactionResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// ListPayments godoc
// @ID           listPayments
// @Summary      List an entity's ledger positions
// @Description  Retrieve a paginated list of the entity's payment rows for one direction
// @Tags         payments
// @Produce      json
// @Param        entity_kind query string true "Entity kind" Enums(client, guest, branch, hub, transport_partner)
// @Param        entity_id query string true "Entity ID" format(uuid)
// @Param        direction query string false "Ledger direction" Enums(receivable, payable) default(receivable)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]PaymentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	entity, err := entityFromQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid entity reference")
		return
	}

	direction, err := directionFromQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid ledger direction")
		return
	}

	page, err := h.paymentService.ListPayments(c.Request.Context(), tenantID, entity, direction, bindListFilter(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, toPaymentResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// GetEntitySummary godoc
// @ID           getPaymentEntitySummary
// @Summary      Get an entity's ledger rollup
// @Description  Retrieve the aggregated due, paid and balance for one entity and direction
// @Tags         payments
// @Produce      json
// @Param        entity_kind query string true "Entity kind" Enums(client, guest, branch, hub, transport_partner)
// @Param        entity_id query string true "Entity ID" format(uuid)
// @Param        direction query string false "Ledger direction" Enums(receivable, payable) default(receivable)
// @Success      200 {object} APIResponse[EntitySummaryResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payments/summary [get]
func (h *PaymentHandler) GetEntitySummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	entity, err := entityFromQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid entity reference")
		return
	}

	direction, err := directionFromQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid ledger direction")
		return
	}

	summary, err := h.paymentService.GetEntitySummary(c.Request.Context(), tenantID, entity, direction)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toEntitySummaryResponse(summary))
}

// InvoiceOutstanding godoc
// @ID           getInvoiceOutstanding
// @Summary      Get an invoice's outstanding amount
// @Description  Re-derive the invoice's outstanding from its total minus posted allocations
// @Tags         payments
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[OutstandingResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payments/invoices/{id}/outstanding [get]
func (h *PaymentHandler) InvoiceOutstanding(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	outstanding, err := h.paymentService.InvoiceOutstanding(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, OutstandingResponse{
		InvoiceID:   invoiceID.String(),
		Outstanding: outstanding.InexactFloat64(),
	})
}

// entityFromQuery reads and validates the entity_kind/entity_id query pair
func entityFromQuery(c *gin.Context) (valueobject.EntityRef, error) {
	id, err := uuid.Parse(c.Query("entity_id"))
	if err != nil {
		return valueobject.EntityRef{}, err
	}
	return valueobject.NewEntityRef(valueobject.EntityKind(c.Query("entity_kind")), id)
}

// directionFromQuery reads the ledger direction, defaulting to receivable
func directionFromQuery(c *gin.Context) (payment.Direction, error) {
	raw := c.DefaultQuery("direction", string(payment.DirectionReceivable))
	direction := payment.Direction(raw)
	if !direction.IsValid() {
		return "", fmt.Errorf("unknown ledger direction %q", raw)
	}
	return direction, nil
}
