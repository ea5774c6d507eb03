package freight

import (
	"context"
	"errors"
	"fmt"

	apppayment "github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/application/payment"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/billing"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/freight"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceivableLedger is the slice of the payment ledger the shipment lifecycle
// needs: posting the receivable at creation and clearing it at deletion.
type ReceivableLedger interface {
	RecordShipmentReceivable(ctx context.Context, req apppayment.RecordReceivableRequest) error
	ZeroShipmentReceivable(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, referenceNo string) error
}

// ShipmentService handles the consignment lifecycle. The create path writes
// in fixed order: shipment first, then the payment ledger; there is no
// cross-document transaction, so a crash between the two is repaired by the
// reconciliation sync, not by a rollback.
type ShipmentService struct {
	shipmentRepo   freight.ShipmentRepository
	manifestRepo   freight.ManifestRepository
	invoiceRepo    billing.InvoiceRepository
	preInvoiceRepo billing.PreInvoiceRepository
	ledger         ReceivableLedger
	logger         *zap.Logger
}

// NewShipmentService creates a new ShipmentService
func NewShipmentService(
	shipmentRepo freight.ShipmentRepository,
	manifestRepo freight.ManifestRepository,
	invoiceRepo billing.InvoiceRepository,
	preInvoiceRepo billing.PreInvoiceRepository,
	ledger ReceivableLedger,
	logger *zap.Logger,
) *ShipmentService {
	return &ShipmentService{
		shipmentRepo:   shipmentRepo,
		manifestRepo:   manifestRepo,
		invoiceRepo:    invoiceRepo,
		preInvoiceRepo: preInvoiceRepo,
		ledger:         ledger,
		logger:         logger,
	}
}

// LineItemInput is one product line on a new shipment
type LineItemInput struct {
	ItemType  string
	Units     int
	Amount    decimal.Decimal
	ReturnLeg bool
}

// CreateShipmentRequest carries a consignment booking
type CreateShipmentRequest struct {
	TenantID          uuid.UUID
	ConsignmentNumber string
	Origin            valueobject.EntityRef
	ConsignorID       uuid.UUID
	ConsigneeID       uuid.UUID
	BillingEntity     *valueobject.EntityRef
	BillingLocationID *uuid.UUID
	Route             string
	LineItems         []LineItemInput
	FinalAmount       decimal.Decimal
	InitialPaid       decimal.Decimal
}

// CreateShipment books a consignment and, when a billing entity is set,
// posts its receivable with the idempotent initial-paid entry.
func (s *ShipmentService) CreateShipment(ctx context.Context, req CreateShipmentRequest) (*freight.Shipment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "shipment", "create")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, req.TenantID.String(),
		telemetry.SpanAttrConsignmentNumber, req.ConsignmentNumber,
		telemetry.SpanAttrAmount, req.FinalAmount.String(),
	)

	items := make(freight.LineItems, 0, len(req.LineItems))
	for _, in := range req.LineItems {
		if in.Units < 1 {
			err := shared.NewDomainError("INVALID_LINE_ITEMS", "Line item units must be positive")
			telemetry.RecordError(span, err)
			return nil, err
		}
		items = append(items, freight.LineItem{
			ItemType:  in.ItemType,
			InStock:   in.Units,
			Amount:    in.Amount,
			ReturnLeg: in.ReturnLeg,
		})
	}

	shipment, err := freight.NewShipment(req.TenantID, req.ConsignmentNumber, req.Origin,
		req.ConsignorID, req.ConsigneeID, items, req.FinalAmount, req.InitialPaid)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	shipment.Route = req.Route

	if req.BillingEntity != nil {
		if err := shipment.SetBillingEntity(*req.BillingEntity, req.BillingLocationID); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	if err := s.shipmentRepo.Create(ctx, shipment); err != nil {
		telemetry.RecordError(span, err)
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS",
				fmt.Sprintf("Consignment number %s already exists", req.ConsignmentNumber))
		}
		return nil, fmt.Errorf("failed to create shipment: %w", err)
	}

	if shipment.BillingEntity != nil {
		err := s.ledger.RecordShipmentReceivable(ctx, apppayment.RecordReceivableRequest{
			TenantID:    req.TenantID,
			Entity:      *shipment.BillingEntity,
			ReferenceNo: shipment.PaymentReference(),
			AmountDue:   shipment.FinalAmount,
			InitialPaid: shipment.InitialPaid,
		})
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	s.logger.Info("Shipment created",
		zap.String("tenant_id", req.TenantID.String()),
		zap.String("consignment_number", shipment.ConsignmentNumber),
		zap.String("status", shipment.Status.String()),
	)

	return shipment, nil
}

// GetShipment loads one shipment
func (s *ShipmentService) GetShipment(ctx context.Context, tenantID, id uuid.UUID) (*freight.Shipment, error) {
	return s.shipmentRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListShipments returns a page of the tenant's shipments
func (s *ShipmentService) ListShipments(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*freight.Shipment], error) {
	return s.shipmentRepo.List(ctx, tenantID, filter)
}

// DeleteShipment removes a shipment, failing closed: any surviving manifest,
// active invoice or active pre-invoice reference blocks the delete. The
// payment row is zeroed, never deleted, so the trail survives.
func (s *ShipmentService) DeleteShipment(ctx context.Context, tenantID, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "shipment", "delete")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrShipmentID, id.String())

	shipment, err := s.shipmentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	onManifest, err := s.manifestRepo.ExistsForShipment(ctx, tenantID, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to check manifest references: %w", err)
	}
	if onManifest {
		err := shared.NewDomainError("REFERENCED_ELSEWHERE", "Shipment is included in a manifest")
		telemetry.RecordError(span, err)
		return err
	}

	if shipment.InvoiceID != nil {
		invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, *shipment.InvoiceID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			telemetry.RecordError(span, err)
			return fmt.Errorf("failed to check invoice reference: %w", err)
		}
		if invoice != nil && invoice.Status != billing.InvoiceCancelled {
			err := shared.NewDomainError("REFERENCED_ELSEWHERE",
				fmt.Sprintf("Shipment is billed on invoice %s", invoice.Code))
			telemetry.RecordError(span, err)
			return err
		}
	}

	onPreInvoice, err := s.preInvoiceRepo.ExistsActiveForShipment(ctx, tenantID, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to check pre-invoice references: %w", err)
	}
	if onPreInvoice {
		err := shared.NewDomainError("REFERENCED_ELSEWHERE", "Shipment is included in a pre-invoice")
		telemetry.RecordError(span, err)
		return err
	}

	if shipment.BillingEntity != nil {
		if err := s.ledger.ZeroShipmentReceivable(ctx, tenantID, *shipment.BillingEntity, shipment.PaymentReference()); err != nil {
			telemetry.RecordError(span, err)
			return err
		}
	}

	if err := s.shipmentRepo.Delete(ctx, tenantID, id); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to delete shipment: %w", err)
	}

	s.logger.Info("Shipment deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("consignment_number", shipment.ConsignmentNumber),
	)
	return nil
}
