package handler

import (
	paymentapp "github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/application/payment"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
)

// ReconciliationHandler handles ledger rebuild API endpoints
type ReconciliationHandler struct {
	BaseHandler
	reconciliationService *paymentapp.ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(reconciliationService *paymentapp.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: reconciliationService,
	}
}

// RebuildRequest names the billing entities to recompute
// @Description Request body for a ledger rebuild
type RebuildRequest struct {
	Entities []EntityRefDTO `json:"entities" binding:"required,min=1,dive"`
}

// Rebuild godoc
// @ID           rebuildLedger
// @Summary      Rebuild entity ledgers
// @Description  Recompute the named entities' receivables from the surviving invoices; partial failures are reported per entity
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        request body RebuildRequest true "Entities to rebuild"
// @Success      200 {object} APIResponse[[]paymentapp.RebuildResult]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliation/rebuild [post]
func (h *ReconciliationHandler) Rebuild(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req RebuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	entities := make([]valueobject.EntityRef, 0, len(req.Entities))
	for _, in := range req.Entities {
		entity, err := parseEntityRef(in)
		if err != nil {
			h.BadRequest(c, "Invalid entity reference")
			return
		}
		entities = append(entities, entity)
	}

	results, err := h.reconciliationService.Rebuild(c.Request.Context(), tenantID, entities)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, results)
}
