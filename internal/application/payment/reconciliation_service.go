package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/billing"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/freight"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/payment"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReconciliationService rebuilds the receivable ledger from the invoice
// store. The invoice set is authoritative for what is owed; the transaction
// log is authoritative for what was paid, so totalPaid is never touched.
// Rebuild is safe to run at any time and is the correctness net after
// cancels, voids and backfills.
type ReconciliationService struct {
	invoiceRepo  billing.InvoiceRepository
	shipmentRepo freight.ShipmentRepository
	paymentRepo  payment.PaymentRepository
	summaryRepo  payment.SummaryRepository
	logger       *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	invoiceRepo billing.InvoiceRepository,
	shipmentRepo freight.ShipmentRepository,
	paymentRepo payment.PaymentRepository,
	summaryRepo payment.SummaryRepository,
	logger *zap.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		invoiceRepo:  invoiceRepo,
		shipmentRepo: shipmentRepo,
		paymentRepo:  paymentRepo,
		summaryRepo:  summaryRepo,
		logger:       logger,
	}
}

// RebuildResult reports what one entity's rebuild recomputed
type RebuildResult struct {
	EntityID     uuid.UUID       `json:"entity_id"`
	TotalDue     decimal.Decimal `json:"total_due"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalBalance decimal.Decimal `json:"total_balance"`
	Invoices     int             `json:"invoices"`
}

// RebuildEntity recomputes one billing entity's receivables: totalDue from
// the non-cancelled invoices, per-invoice payment rows upserted with the
// frozen line amounts, totalPaid left to the transaction log.
func (s *ReconciliationService) RebuildEntity(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef) (*RebuildResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reconciliation", "rebuild_entity")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrEntityKind, string(entity.Kind),
		telemetry.SpanAttrEntityID, entity.ID.String(),
	)

	invoices, err := s.invoiceRepo.FindActiveByEntity(ctx, tenantID, entity.ID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load active invoices: %w", err)
	}

	totalDue := decimal.Zero
	for _, invoice := range invoices {
		totalDue = totalDue.Add(invoice.Total)
		if err := s.upsertInvoiceRows(ctx, tenantID, entity, invoice); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	summary, err := s.summaryRepo.Find(ctx, tenantID, entity, payment.DirectionReceivable)
	if errors.Is(err, shared.ErrNotFound) {
		summary = payment.NewPaymentEntitySummary(tenantID, entity, payment.DirectionReceivable)
	} else if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load entity summary: %w", err)
	}

	summary.Reset(totalDue, summary.TotalPaid)
	if err := s.summaryRepo.Upsert(ctx, summary); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to upsert entity summary: %w", err)
	}

	s.logger.Info("Rebuilt entity receivables",
		zap.String("tenant_id", tenantID.String()),
		zap.String("entity_id", entity.ID.String()),
		zap.String("total_due", summary.TotalDue.String()),
		zap.String("total_paid", summary.TotalPaid.String()),
		zap.Int("invoices", len(invoices)),
	)

	return &RebuildResult{
		EntityID:     entity.ID,
		TotalDue:     summary.TotalDue,
		TotalPaid:    summary.TotalPaid,
		TotalBalance: summary.TotalBalance,
		Invoices:     len(invoices),
	}, nil
}

// Rebuild recomputes receivables for the given entities, or for every entity
// carrying a summary row when none are named.
func (s *ReconciliationService) Rebuild(ctx context.Context, tenantID uuid.UUID, entities []valueobject.EntityRef) ([]RebuildResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reconciliation", "rebuild")
	defer span.End()

	if len(entities) == 0 {
		filter := shared.DefaultFilter()
		filter.PageSize = 500
		page, err := s.summaryRepo.ListForTenant(ctx, tenantID, payment.DirectionReceivable, filter)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("failed to list entity summaries: %w", err)
		}
		for _, summary := range page.Items {
			entities = append(entities, summary.Entity)
		}
	}

	results := make([]RebuildResult, 0, len(entities))
	for _, entity := range entities {
		res, err := s.RebuildEntity(ctx, tenantID, entity)
		if err != nil {
			telemetry.RecordError(span, err)
			return results, err
		}
		results = append(results, *res)
	}
	return results, nil
}

// upsertInvoiceRows reasserts the per-shipment payment rows under one
// invoice: due comes from the frozen line, paid is left untouched.
func (s *ReconciliationService) upsertInvoiceRows(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, invoice *billing.Invoice) error {
	shipments, err := s.shipmentRepo.FindByInvoiceID(ctx, tenantID, invoice.ID)
	if err != nil {
		return fmt.Errorf("failed to load invoice shipments: %w", err)
	}

	amounts := make(map[uuid.UUID]decimal.Decimal, len(invoice.Lines))
	for _, line := range invoice.Lines {
		amounts[line.ShipmentID] = line.FinalAmount
	}

	for _, sh := range shipments {
		due, ok := amounts[sh.ID]
		if !ok {
			continue
		}
		row, err := s.paymentRepo.FindByReference(ctx, tenantID, entity, payment.DirectionReceivable, sh.PaymentReference())
		switch {
		case errors.Is(err, shared.ErrNotFound):
			row, err = payment.NewPayment(tenantID, entity, payment.DirectionReceivable, sh.PaymentReference(), due, decimal.Zero)
			if err != nil {
				return err
			}
			if err := s.paymentRepo.Create(ctx, row); err != nil {
				return fmt.Errorf("failed to create payment row: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to load payment row: %w", err)
		default:
			if row.AmountDue.Equal(due) {
				continue
			}
			if err := row.SetAmounts(due, row.AmountPaid); err != nil {
				return err
			}
			if err := s.paymentRepo.Update(ctx, row); err != nil {
				return fmt.Errorf("failed to update payment row: %w", err)
			}
		}
	}
	return nil
}
