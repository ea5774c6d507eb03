package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/billing"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/freight"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/payment"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentService owns the payment ledger: receivable rows, the append-only
// transaction log, allocations against invoices and the per-entity rollups.
// Writes follow the fixed order transaction -> allocations -> payment rows ->
// summary; there is no cross-document transaction, so every compensating
// path here is re-entrant.
type PaymentService struct {
	paymentRepo  payment.PaymentRepository
	summaryRepo  payment.SummaryRepository
	txnRepo      payment.TransactionRepository
	invoiceRepo  billing.InvoiceRepository
	shipmentRepo freight.ShipmentRepository
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo payment.PaymentRepository,
	summaryRepo payment.SummaryRepository,
	txnRepo payment.TransactionRepository,
	invoiceRepo billing.InvoiceRepository,
	shipmentRepo freight.ShipmentRepository,
) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		summaryRepo:  summaryRepo,
		txnRepo:      txnRepo,
		invoiceRepo:  invoiceRepo,
		shipmentRepo: shipmentRepo,
	}
}

// RecordReceivableRequest carries the shipment-creation posting
type RecordReceivableRequest struct {
	TenantID    uuid.UUID
	Entity      valueobject.EntityRef
	ReferenceNo string
	AmountDue   decimal.Decimal
	InitialPaid decimal.Decimal
}

// RecordShipmentReceivable upserts the payment row for a shipment and rolls
// the delta into the entity summary. When initialPaid > 0 it additionally
// posts an "Initial Paid" transaction, idempotent via the fixed per-shipment
// reference: re-running the create path never double-posts.
func (s *PaymentService) RecordShipmentReceivable(ctx context.Context, req RecordReceivableRequest) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "record_shipment_receivable")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrEntityKind, string(req.Entity.Kind),
		telemetry.SpanAttrEntityID, req.Entity.ID.String(),
		telemetry.SpanAttrReference, req.ReferenceNo,
		telemetry.SpanAttrAmount, req.AmountDue.String(),
	)

	paid := req.InitialPaid
	if paid.GreaterThan(req.AmountDue) {
		paid = req.AmountDue
	}

	prevDue := decimal.Zero
	prevPaid := decimal.Zero
	row, err := s.paymentRepo.FindByReference(ctx, req.TenantID, req.Entity, payment.DirectionReceivable, req.ReferenceNo)
	switch {
	case err == nil:
		prevDue = row.AmountDue
		prevPaid = row.AmountPaid
		if err := row.SetAmounts(req.AmountDue, paid); err != nil {
			telemetry.RecordError(span, err)
			return err
		}
		if err := s.paymentRepo.Update(ctx, row); err != nil {
			telemetry.RecordError(span, err)
			return fmt.Errorf("failed to update payment row: %w", err)
		}
	case errors.Is(err, shared.ErrNotFound):
		row, err = payment.NewPayment(req.TenantID, req.Entity, payment.DirectionReceivable, req.ReferenceNo, req.AmountDue, paid)
		if err != nil {
			telemetry.RecordError(span, err)
			return err
		}
		if err := s.paymentRepo.Create(ctx, row); err != nil {
			telemetry.RecordError(span, err)
			return fmt.Errorf("failed to create payment row: %w", err)
		}
	default:
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to load payment row: %w", err)
	}

	if err := s.applySummaryDelta(ctx, req.TenantID, req.Entity, payment.DirectionReceivable,
		req.AmountDue.Sub(prevDue), paid.Sub(prevPaid)); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	if req.InitialPaid.IsPositive() {
		existing, err := s.txnRepo.ExistsByReference(ctx, req.TenantID, payment.MethodInitialPaid, req.ReferenceNo)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			telemetry.RecordError(span, err)
			return fmt.Errorf("failed to check initial paid posting: %w", err)
		}
		if existing == nil || errors.Is(err, shared.ErrNotFound) {
			txn, err := payment.NewPaymentTransaction(req.TenantID, req.Entity, payment.DirectionReceivable,
				paid, payment.MethodInitialPaid, req.ReferenceNo, time.Now())
			if err != nil {
				telemetry.RecordError(span, err)
				return err
			}
			if err := s.txnRepo.Create(ctx, txn); err != nil {
				telemetry.RecordError(span, err)
				return fmt.Errorf("failed to post initial paid transaction: %w", err)
			}
		}
	}

	return nil
}

// ZeroShipmentReceivable clears a removed shipment's payment row without
// deleting it and voids its initial-paid posting. Part of the shipment
// delete path; safe to call when nothing was ever posted.
func (s *PaymentService) ZeroShipmentReceivable(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, referenceNo string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "zero_shipment_receivable")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrReference, referenceNo)

	row, err := s.paymentRepo.FindByReference(ctx, tenantID, entity, payment.DirectionReceivable, referenceNo)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to load payment row: %w", err)
	}

	prevDue := row.AmountDue
	prevPaid := row.AmountPaid
	row.ZeroOut()
	if err := s.paymentRepo.Update(ctx, row); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to zero payment row: %w", err)
	}

	txn, err := s.txnRepo.ExistsByReference(ctx, tenantID, payment.MethodInitialPaid, referenceNo)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to look up initial paid transaction: %w", err)
	}
	if txn != nil && txn.Status == payment.TransactionPosted {
		if err := txn.Void("shipment removed", time.Now()); err != nil {
			telemetry.RecordError(span, err)
			return err
		}
		if err := s.txnRepo.Update(ctx, txn); err != nil {
			telemetry.RecordError(span, err)
			return fmt.Errorf("failed to void initial paid transaction: %w", err)
		}
	}

	if err := s.applySummaryDelta(ctx, tenantID, entity, payment.DirectionReceivable, prevDue.Neg(), prevPaid.Neg()); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	return nil
}

// GetEntitySummary returns the rollup row for an entity, zeroed when the
// entity has no ledger activity yet.
func (s *PaymentService) GetEntitySummary(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, direction payment.Direction) (*payment.PaymentEntitySummary, error) {
	summary, err := s.summaryRepo.Find(ctx, tenantID, entity, direction)
	if errors.Is(err, shared.ErrNotFound) {
		return payment.NewPaymentEntitySummary(tenantID, entity, direction), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load entity summary: %w", err)
	}
	return summary, nil
}

// InvoiceOutstanding re-derives what remains payable on an invoice:
// total minus the non-voided allocations against it.
func (s *PaymentService) InvoiceOutstanding(ctx context.Context, tenantID, invoiceID uuid.UUID) (decimal.Decimal, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}
	allocated, err := s.txnRepo.SumPostedAllocations(ctx, tenantID, invoiceID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum allocations: %w", err)
	}
	outstanding := invoice.Total.Sub(allocated)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}
	return outstanding, nil
}

// AllocateBookingPayments earmarks each invoiced shipment's surviving
// initial-paid posting against the invoice it was billed into, so the
// invoice starts out owing only what was not already collected at booking.
// Runs at invoice generation; re-entrant. A posting still allocated to a
// cancelled invoice is released first, so a shipment re-invoiced after a
// cancel carries its booking payment over to the new invoice.
func (s *PaymentService) AllocateBookingPayments(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "allocate_booking_payments")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrInvoiceID, invoiceID.String())

	shipments, err := s.shipmentRepo.FindByInvoiceID(ctx, tenantID, invoiceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to load invoice shipments: %w", err)
	}

	for _, sh := range shipments {
		txn, err := s.txnRepo.ExistsByReference(ctx, tenantID, payment.MethodInitialPaid, sh.PaymentReference())
		if errors.Is(err, shared.ErrNotFound) || txn == nil {
			continue
		}
		if err != nil {
			telemetry.RecordError(span, err)
			return fmt.Errorf("failed to look up initial paid transaction: %w", err)
		}
		if txn.Status != payment.TransactionPosted {
			continue
		}

		changed := false
		for _, oldID := range txn.InvoiceIDs() {
			old, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, oldID)
			if err != nil {
				telemetry.RecordError(span, err)
				return err
			}
			if old.Status == billing.InvoiceCancelled {
				txn.ReleaseAllocations(oldID)
				changed = true
			}
		}
		if len(txn.InvoiceIDs()) == 0 {
			if err := txn.Allocate(invoiceID, txn.Amount); err != nil {
				telemetry.RecordError(span, err)
				return err
			}
			changed = true
		}
		if changed {
			if err := s.txnRepo.Update(ctx, txn); err != nil {
				telemetry.RecordError(span, err)
				return fmt.Errorf("failed to allocate initial paid transaction: %w", err)
			}
		}
	}
	return nil
}

// AllocationInput earmarks part of a transaction against one invoice
type AllocationInput struct {
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
}

// RecordTransactionRequest carries a manual ledger posting
type RecordTransactionRequest struct {
	TenantID        uuid.UUID
	Entity          valueobject.EntityRef
	Direction       payment.Direction
	Amount          decimal.Decimal
	Method          string
	Reference       string
	TransactionDate time.Time
	Allocations     []AllocationInput
}

// RecordTransaction posts a payment into the ledger. Each allocation is
// validated against the invoice's re-derived outstanding at entry time; an
// invoice fully covered by its allocations is marked paid along with its
// shipments and their payment rows.
func (s *PaymentService) RecordTransaction(ctx context.Context, req RecordTransactionRequest) (*payment.PaymentTransaction, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "record_transaction")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrEntityKind, string(req.Entity.Kind),
		telemetry.SpanAttrEntityID, req.Entity.ID.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
		"method", req.Method,
	)

	txn, err := payment.NewPaymentTransaction(req.TenantID, req.Entity, req.Direction,
		req.Amount, req.Method, req.Reference, req.TransactionDate)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if len(req.Allocations) > 0 {
		if req.Direction != payment.DirectionReceivable || !req.Entity.Kind.IsBillable() {
			err := shared.NewDomainError("INVALID_ALLOCATION", "Allocations apply to billable-entity receivables only")
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	// validate every allocation against outstanding before writing anything.
	// Sibling allocations against the same invoice inside this request count
	// too, so in-request totals fold into the repository-derived figure.
	invoices := make(map[uuid.UUID]*billing.Invoice)
	priorAllocated := make(map[uuid.UUID]decimal.Decimal)
	inRequest := make(map[uuid.UUID]decimal.Decimal)
	for _, alloc := range req.Allocations {
		invoice, seen := invoices[alloc.InvoiceID]
		if !seen {
			var err error
			invoice, err = s.invoiceRepo.FindByIDForTenant(ctx, req.TenantID, alloc.InvoiceID)
			if err != nil {
				telemetry.RecordError(span, err)
				return nil, err
			}
			if invoice.Status == billing.InvoiceCancelled {
				err := shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Invoice %s is cancelled", invoice.Code))
				telemetry.RecordError(span, err)
				return nil, err
			}
			allocated, err := s.txnRepo.SumPostedAllocations(ctx, req.TenantID, alloc.InvoiceID)
			if err != nil {
				telemetry.RecordError(span, err)
				return nil, fmt.Errorf("failed to sum allocations: %w", err)
			}
			invoices[alloc.InvoiceID] = invoice
			priorAllocated[alloc.InvoiceID] = allocated
			inRequest[alloc.InvoiceID] = decimal.Zero
		}
		outstanding := invoice.Total.Sub(priorAllocated[alloc.InvoiceID]).Sub(inRequest[alloc.InvoiceID])
		if alloc.Amount.GreaterThan(outstanding) {
			err := shared.NewDomainError("OVER_ALLOCATION",
				fmt.Sprintf("Allocation %s against invoice %s exceeds outstanding %s",
					alloc.Amount.String(), invoice.Code, outstanding.String()))
			telemetry.RecordError(span, err)
			return nil, err
		}
		if err := txn.Allocate(alloc.InvoiceID, alloc.Amount); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		inRequest[alloc.InvoiceID] = inRequest[alloc.InvoiceID].Add(alloc.Amount)
	}

	settled := make([]*billing.Invoice, 0, len(invoices))
	for id, invoice := range invoices {
		if priorAllocated[id].Add(inRequest[id]).GreaterThanOrEqual(invoice.Total) {
			settled = append(settled, invoice)
		}
	}

	if err := s.txnRepo.Create(ctx, txn); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to post transaction: %w", err)
	}

	for _, invoice := range settled {
		if err := s.settleInvoice(ctx, invoice); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	if err := s.applySummaryDelta(ctx, req.TenantID, req.Entity, req.Direction, decimal.Zero, req.Amount); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	return txn, nil
}

// settleInvoice marks an invoice and everything under it fully paid
func (s *PaymentService) settleInvoice(ctx context.Context, invoice *billing.Invoice) error {
	if invoice.Status == billing.InvoiceActive {
		if err := invoice.MarkPaid(); err != nil {
			return err
		}
		if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
			return fmt.Errorf("failed to mark invoice paid: %w", err)
		}
	}

	shipments, err := s.shipmentRepo.FindByInvoiceID(ctx, invoice.TenantID, invoice.ID)
	if err != nil {
		return fmt.Errorf("failed to load invoice shipments: %w", err)
	}
	for _, sh := range shipments {
		if sh.Status != freight.StatusPaid {
			if err := sh.MarkPaid(); err != nil {
				return err
			}
			if err := s.shipmentRepo.Update(ctx, sh); err != nil {
				return fmt.Errorf("failed to mark shipment paid: %w", err)
			}
		}
		row, err := s.paymentRepo.FindByReference(ctx, invoice.TenantID, invoice.BillingEntity,
			payment.DirectionReceivable, sh.PaymentReference())
		if errors.Is(err, shared.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load payment row: %w", err)
		}
		if err := row.SetAmounts(row.AmountDue, row.AmountDue); err != nil {
			return err
		}
		if err := s.paymentRepo.Update(ctx, row); err != nil {
			return fmt.Errorf("failed to settle payment row: %w", err)
		}
	}
	return nil
}

// VoidTransaction flags a transaction and its allocations voided without
// deleting anything, re-derives the entity's paid total from the surviving
// log and reopens any invoice the voided payment had settled.
func (s *PaymentService) VoidTransaction(ctx context.Context, tenantID, txnID uuid.UUID, reason string) (*payment.PaymentTransaction, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "void_transaction")
	defer span.End()

	txn, err := s.txnRepo.FindByIDForTenant(ctx, tenantID, txnID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	invoiceIDs := txn.InvoiceIDs()
	isInvoicePayment := txn.Method == payment.MethodInvoice || len(invoiceIDs) > 0

	if err := txn.Void(reason, time.Now()); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.txnRepo.Update(ctx, txn); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to void transaction: %w", err)
	}

	if isInvoicePayment {
		for _, invoiceID := range invoiceIDs {
			if err := s.reopenInvoice(ctx, tenantID, invoiceID); err != nil {
				telemetry.RecordError(span, err)
				return nil, err
			}
		}
	}

	// the surviving log is authoritative for the paid total
	paid, err := s.txnRepo.SumPostedByEntity(ctx, tenantID, txn.Entity, txn.Direction)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to re-sum entity payments: %w", err)
	}
	summary, err := s.GetEntitySummary(ctx, tenantID, txn.Entity, txn.Direction)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	summary.Reset(summary.TotalDue, paid)
	if err := s.summaryRepo.Upsert(ctx, summary); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to update entity summary: %w", err)
	}

	return txn, nil
}

// reopenInvoice reverts a settled invoice and its shipments after a void
func (s *PaymentService) reopenInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	invoice.Reopen()
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return fmt.Errorf("failed to reopen invoice: %w", err)
	}

	shipments, err := s.shipmentRepo.FindByInvoiceID(ctx, tenantID, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to load invoice shipments: %w", err)
	}
	for _, sh := range shipments {
		sh.ReopenInvoiced()
		if err := s.shipmentRepo.Update(ctx, sh); err != nil {
			return fmt.Errorf("failed to reopen shipment: %w", err)
		}
		row, err := s.paymentRepo.FindByReference(ctx, tenantID, invoice.BillingEntity,
			payment.DirectionReceivable, sh.PaymentReference())
		if errors.Is(err, shared.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load payment row: %w", err)
		}
		// surviving postings under the row's own reference (the initial
		// paid entry) are what remains paid once the settlement is gone
		paid, err := s.txnRepo.SumPostedByReference(ctx, tenantID, row.ReferenceNo)
		if err != nil {
			return fmt.Errorf("failed to re-sum row payments: %w", err)
		}
		if err := row.SetAmounts(row.AmountDue, paid); err != nil {
			return err
		}
		if err := s.paymentRepo.Update(ctx, row); err != nil {
			return fmt.Errorf("failed to reopen payment row: %w", err)
		}
	}
	return nil
}

// ListTransactions returns an entity's ledger entries, voided rows included
func (s *PaymentService) ListTransactions(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, filter shared.Filter) (shared.Paginated[*payment.PaymentTransaction], error) {
	return s.txnRepo.FindByEntity(ctx, tenantID, entity, filter)
}

// ListPayments returns an entity's payment rows
func (s *PaymentService) ListPayments(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, direction payment.Direction, filter shared.Filter) (shared.Paginated[*payment.Payment], error) {
	return s.paymentRepo.FindByEntity(ctx, tenantID, entity, direction, filter)
}

// applySummaryDelta rolls an incremental change into the entity rollup,
// creating the row on first contact.
func (s *PaymentService) applySummaryDelta(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef, direction payment.Direction, dueDelta, paidDelta decimal.Decimal) error {
	summary, err := s.summaryRepo.Find(ctx, tenantID, entity, direction)
	if errors.Is(err, shared.ErrNotFound) {
		summary = payment.NewPaymentEntitySummary(tenantID, entity, direction)
	} else if err != nil {
		return fmt.Errorf("failed to load entity summary: %w", err)
	}
	summary.ApplyDelta(dueDelta, paidDelta)
	if err := s.summaryRepo.Upsert(ctx, summary); err != nil {
		return fmt.Errorf("failed to update entity summary: %w", err)
	}
	return nil
}
