package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	apppayment "github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/application/payment"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/billing"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/freight"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/sequence"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Reconciler is the slice of the payment ledger the invoice lifecycle needs:
// rebuilding an entity's receivables after an invoice cancel.
type Reconciler interface {
	RebuildEntity(ctx context.Context, tenantID uuid.UUID, entity valueobject.EntityRef) (*apppayment.RebuildResult, error)
}

// BookingLedger back-allocates booking-time postings onto a freshly issued
// invoice, so its outstanding balance starts net of what the consignor
// already paid at shipment entry.
type BookingLedger interface {
	AllocateBookingPayments(ctx context.Context, tenantID, invoiceID uuid.UUID) error
}

// InvoiceService generates numbered invoices from delivered shipments.
// Generation groups shipments by (entity, location, branch when scoped,
// category), pulls one gapless serial per group and persists the whole batch
// in one insert: a uniqueness violation fails the entire batch rather than
// issuing a partial set.
type InvoiceService struct {
	invoiceRepo    billing.InvoiceRepository
	preInvoiceRepo billing.PreInvoiceRepository
	shipmentRepo   freight.ShipmentRepository
	directory      billing.EntityDirectory
	settingsRepo   billing.SettingsRepository
	allocator      sequence.Allocator
	bookingLedger  BookingLedger
	reconciler     Reconciler
	logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	preInvoiceRepo billing.PreInvoiceRepository,
	shipmentRepo freight.ShipmentRepository,
	directory billing.EntityDirectory,
	settingsRepo billing.SettingsRepository,
	allocator sequence.Allocator,
	bookingLedger BookingLedger,
	reconciler Reconciler,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:    invoiceRepo,
		preInvoiceRepo: preInvoiceRepo,
		shipmentRepo:   shipmentRepo,
		directory:      directory,
		settingsRepo:   settingsRepo,
		allocator:      allocator,
		bookingLedger:  bookingLedger,
		reconciler:     reconciler,
		logger:         logger,
	}
}

// billingTarget is the resolved grouping key for one shipment
type billingTarget struct {
	entity     valueobject.EntityRef
	locationID uuid.UUID
	branchID   *uuid.UUID
	branchCode string
	category   sequence.BillingCategory
}

func (t billingTarget) key() string {
	branch := "-"
	if t.branchID != nil {
		branch = t.branchID.String()
	}
	return fmt.Sprintf("%s|%s|%s|%s", t.entity.ID, t.locationID, branch, t.category)
}

// GenerateInvoicesRequest names the shipments to bill
type GenerateInvoicesRequest struct {
	TenantID    uuid.UUID
	ShipmentIDs []uuid.UUID
}

// GenerateInvoices resolves billing targets for every shipment, groups them,
// allocates serials and persists the batch. The batch is all-or-nothing: a
// serial collision fails every invoice in it with a remediation hint.
func (s *InvoiceService) GenerateInvoices(ctx context.Context, req GenerateInvoicesRequest) ([]*billing.Invoice, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "generate")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, req.TenantID.String(),
		"shipments", len(req.ShipmentIDs),
	)

	if len(req.ShipmentIDs) == 0 {
		err := shared.NewDomainError("INVALID_INPUT", "Invoice generation requires at least one shipment")
		telemetry.RecordError(span, err)
		return nil, err
	}

	shipments, err := s.shipmentRepo.FindByIDs(ctx, req.TenantID, req.ShipmentIDs)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if len(shipments) != len(req.ShipmentIDs) {
		err := shared.NewDomainError("NOT_FOUND",
			fmt.Sprintf("Resolved %d of %d shipments", len(shipments), len(req.ShipmentIDs)))
		telemetry.RecordError(span, err)
		return nil, err
	}
	for _, sh := range shipments {
		if sh.Status == freight.StatusInvoiced || sh.Status == freight.StatusPaid {
			err := shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Consignment %s is already invoiced", sh.ConsignmentNumber))
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	settings, err := s.settingsRepo.Get(ctx, req.TenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load tenant settings: %w", err)
	}

	resolver := s.newTargetResolver(req.TenantID, settings.BranchScopedInvoicing)

	groups := make(map[string][]*freight.Shipment)
	targets := make(map[string]billingTarget)
	for _, sh := range shipments {
		target, err := resolver.resolve(ctx, sh)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		k := target.key()
		groups[k] = append(groups[k], sh)
		targets[k] = target
	}

	fy := sequence.CurrentFiscalYear()
	seqCache := make(map[string]int) // scope key -> last serial handed out in this batch

	invoices := make([]*billing.Invoice, 0, len(groups))
	for k, group := range groups {
		target := targets[k]
		lines := make([]billing.InvoiceLine, 0, len(group))
		for _, sh := range group {
			lines = append(lines, billing.InvoiceLine{
				ShipmentID:        sh.ID,
				ConsignmentNumber: sh.ConsignmentNumber,
				TaxableValue:      sh.FinalAmount,
				FinalAmount:       sh.FinalAmount,
			})
		}

		seq, err := s.nextSerial(ctx, req.TenantID, fy, target, seqCache)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}

		invoice, err := billing.NewInvoice(req.TenantID, fy, target.category, target.branchID,
			target.branchCode, seq, target.entity, target.locationID, lines)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		invoices = append(invoices, invoice)
	}

	if err := s.persistBatch(ctx, span, invoices); err != nil {
		return nil, err
	}

	for _, invoice := range invoices {
		for _, sh := range groups[s.groupKeyOf(invoice, targets)] {
			if err := sh.MarkInvoiced(invoice.ID); err != nil {
				telemetry.RecordError(span, err)
				return nil, err
			}
			if err := s.shipmentRepo.Update(ctx, sh); err != nil {
				telemetry.RecordError(span, err)
				return nil, fmt.Errorf("failed to mark shipment invoiced: %w", err)
			}
		}
		if err := s.bookingLedger.AllocateBookingPayments(ctx, req.TenantID, invoice.ID); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	s.logger.Info("Invoices generated",
		zap.String("tenant_id", req.TenantID.String()),
		zap.Int("invoices", len(invoices)),
		zap.Int("shipments", len(shipments)),
	)

	return invoices, nil
}

// groupKeyOf recovers the grouping key an invoice was built from
func (s *InvoiceService) groupKeyOf(invoice *billing.Invoice, targets map[string]billingTarget) string {
	for k, t := range targets {
		if t.entity.ID == invoice.BillingEntity.ID && t.locationID == invoice.BillingLocationID &&
			t.category == invoice.Category && samebranch(t.branchID, invoice.BranchID) {
			return k
		}
	}
	return ""
}

func samebranch(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// GenerateFromPreInvoice finalizes a draft through the same numbering path:
// the edited lines are frozen into a numbered invoice and the draft closes.
func (s *InvoiceService) GenerateFromPreInvoice(ctx context.Context, tenantID, preInvoiceID uuid.UUID) (*billing.Invoice, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "generate_from_pre_invoice")
	defer span.End()

	telemetry.SetAttribute(span, "pre_invoice_id", preInvoiceID.String())

	pre, err := s.preInvoiceRepo.FindByIDForTenant(ctx, tenantID, preInvoiceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if pre.Status != billing.PreInvoiceDraft {
		err := shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot finalize a %s pre-invoice", pre.Status))
		telemetry.RecordError(span, err)
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load tenant settings: %w", err)
	}

	category := sequence.CategoryBusiness
	if pre.BillingEntity.Kind == valueobject.EntityKindGuest {
		category = sequence.CategoryConsumer
	}

	var branchID *uuid.UUID
	branchCode := ""
	if settings.BranchScopedInvoicing {
		if pre.BranchID == nil {
			err := shared.NewDomainError("INVALID_BRANCH", "Branch-scoped invoicing requires the pre-invoice branch")
			telemetry.RecordError(span, err)
			return nil, err
		}
		branchID = pre.BranchID
		branchCode, err = s.directory.BranchCode(ctx, tenantID, *pre.BranchID)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	fy := sequence.CurrentFiscalYear()
	seqCache := make(map[string]int)
	target := billingTarget{
		entity:     pre.BillingEntity,
		locationID: pre.BillingLocationID,
		branchID:   branchID,
		branchCode: branchCode,
		category:   category,
	}
	seq, err := s.nextSerial(ctx, tenantID, fy, target, seqCache)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	lines := make([]billing.InvoiceLine, 0, len(pre.Lines))
	for _, pl := range pre.Lines {
		lines = append(lines, billing.InvoiceLine{
			ShipmentID:        pl.ShipmentID,
			ConsignmentNumber: pl.ConsignmentNumber,
			TaxableValue:      pl.TaxableValue,
			TaxAmount:         pl.TaxAmount,
			Charges:           pl.Charges,
			FinalAmount:       pl.FinalAmount,
		})
	}

	invoice, err := billing.NewInvoice(tenantID, fy, category, branchID, branchCode, seq,
		pre.BillingEntity, pre.BillingLocationID, lines)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	invoice.PreInvoiceID = &pre.ID

	if err := s.persistBatch(ctx, span, []*billing.Invoice{invoice}); err != nil {
		return nil, err
	}

	if err := pre.MarkInvoiced(invoice.ID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.preInvoiceRepo.Update(ctx, pre); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to close pre-invoice: %w", err)
	}

	shipments, err := s.shipmentRepo.FindByIDs(ctx, tenantID, pre.ShipmentIDs())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	for _, sh := range shipments {
		if err := sh.MarkInvoiced(invoice.ID); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if err := s.shipmentRepo.Update(ctx, sh); err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("failed to mark shipment invoiced: %w", err)
		}
	}

	if err := s.bookingLedger.AllocateBookingPayments(ctx, tenantID, invoice.ID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	return invoice, nil
}

// CreatePreInvoiceRequest names the shipments for one draft
type CreatePreInvoiceRequest struct {
	TenantID    uuid.UUID
	ShipmentIDs []uuid.UUID
}

// CreatePreInvoice builds an editable draft over one billing entity. Mixed
// billing entities in one request, or mixed branches under branch-scoped
// invoicing, is a validation error rather than an implicit split.
func (s *InvoiceService) CreatePreInvoice(ctx context.Context, req CreatePreInvoiceRequest) (*billing.PreInvoice, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create_pre_invoice")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrTenantID, req.TenantID.String())

	if len(req.ShipmentIDs) == 0 {
		err := shared.NewDomainError("INVALID_INPUT", "Pre-invoice requires at least one shipment")
		telemetry.RecordError(span, err)
		return nil, err
	}

	shipments, err := s.shipmentRepo.FindByIDs(ctx, req.TenantID, req.ShipmentIDs)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if len(shipments) != len(req.ShipmentIDs) {
		err := shared.NewDomainError("NOT_FOUND",
			fmt.Sprintf("Resolved %d of %d shipments", len(shipments), len(req.ShipmentIDs)))
		telemetry.RecordError(span, err)
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx, req.TenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load tenant settings: %w", err)
	}

	resolver := s.newTargetResolver(req.TenantID, settings.BranchScopedInvoicing)

	var target *billingTarget
	lines := make([]billing.PreInvoiceLine, 0, len(shipments))
	for _, sh := range shipments {
		t, err := resolver.resolve(ctx, sh)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if target == nil {
			target = &t
		} else if t.entity.ID != target.entity.ID {
			err := shared.NewDomainError("INVALID_INPUT", "Pre-invoice shipments must share one billing entity")
			telemetry.RecordError(span, err)
			return nil, err
		} else if settings.BranchScopedInvoicing && !samebranch(t.branchID, target.branchID) {
			err := shared.NewDomainError("INVALID_INPUT", "Pre-invoice shipments must share one branch")
			telemetry.RecordError(span, err)
			return nil, err
		}
		lines = append(lines, billing.PreInvoiceLine{
			ShipmentID:        sh.ID,
			ConsignmentNumber: sh.ConsignmentNumber,
			TaxableValue:      sh.FinalAmount,
			FinalAmount:       sh.FinalAmount,
		})
	}

	// drafts number from their own series: allocate under the scope index
	// with a bounded retry, the manifest pattern
	fy := sequence.CurrentFiscalYear()
	scope := sequence.NewPreInvoiceScope(req.TenantID, fy, target.branchID, target.category)
	var pre *billing.PreInvoice
	for attempt := 1; attempt <= sequence.MaxAllocationRetries; attempt++ {
		seq, err := s.allocator.Next(ctx, scope)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		candidate, err := billing.NewPreInvoice(req.TenantID, fy, target.category, target.branchID,
			target.branchCode, seq, target.entity, target.locationID, lines)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		err = s.preInvoiceRepo.Create(ctx, candidate)
		if err == nil {
			pre = candidate
			break
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("failed to create pre-invoice: %w", err)
		}
		telemetry.AddEvent(span, "sequence_collision", telemetry.SpanAttrAttempts, attempt)
	}
	if pre == nil {
		err := sequence.NewContentionError(scope, sequence.MaxAllocationRetries)
		telemetry.RecordError(span, err)
		return nil, err
	}

	for _, sh := range shipments {
		if err := sh.MarkPreInvoiced(pre.ID); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if err := s.shipmentRepo.Update(ctx, sh); err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("failed to mark shipment pre-invoiced: %w", err)
		}
	}

	return pre, nil
}

// CancelInvoice voids an invoice: shipments revert to their pre-invoiced or
// pending state, the draft (if any) reopens, and the entity's receivables
// are rebuilt. The consumed serial is never reissued.
func (s *InvoiceService) CancelInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*billing.Invoice, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "cancel")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrInvoiceID, invoiceID.String())

	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := invoice.Cancel(time.Now()); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to cancel invoice: %w", err)
	}

	shipments, err := s.shipmentRepo.FindByInvoiceID(ctx, tenantID, invoiceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	for _, sh := range shipments {
		sh.RevertInvoiceCancelled()
		if err := s.shipmentRepo.Update(ctx, sh); err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("failed to revert shipment: %w", err)
		}
	}

	if invoice.PreInvoiceID != nil {
		pre, err := s.preInvoiceRepo.FindByIDForTenant(ctx, tenantID, *invoice.PreInvoiceID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if pre != nil {
			pre.RevertToDraft()
			if err := s.preInvoiceRepo.Update(ctx, pre); err != nil {
				telemetry.RecordError(span, err)
				return nil, fmt.Errorf("failed to reopen pre-invoice: %w", err)
			}
		}
	}

	if _, err := s.reconciler.RebuildEntity(ctx, tenantID, invoice.BillingEntity); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Invoice cancelled",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_code", invoice.Code),
		zap.Int("shipments_reverted", len(shipments)),
	)

	return invoice, nil
}

// GetInvoice loads one invoice
func (s *InvoiceService) GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	return s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListInvoices returns a page of the tenant's invoices
func (s *InvoiceService) ListInvoices(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*billing.Invoice], error) {
	return s.invoiceRepo.List(ctx, tenantID, filter)
}

// GetPreInvoice loads one pre-invoice
func (s *InvoiceService) GetPreInvoice(ctx context.Context, tenantID, id uuid.UUID) (*billing.PreInvoice, error) {
	return s.preInvoiceRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListPreInvoices returns a page of the tenant's pre-invoices
func (s *InvoiceService) ListPreInvoices(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*billing.PreInvoice], error) {
	return s.preInvoiceRepo.List(ctx, tenantID, filter)
}

// UpdatePreInvoiceLine edits one draft line's charges and tax
func (s *InvoiceService) UpdatePreInvoiceLine(ctx context.Context, tenantID, preInvoiceID, lineID uuid.UUID, charges, taxAmount decimal.Decimal) (*billing.PreInvoice, error) {
	pre, err := s.preInvoiceRepo.FindByIDForTenant(ctx, tenantID, preInvoiceID)
	if err != nil {
		return nil, err
	}
	if err := pre.UpdateLineCharges(lineID, charges, taxAmount); err != nil {
		return nil, err
	}
	if err := s.preInvoiceRepo.Update(ctx, pre); err != nil {
		return nil, fmt.Errorf("failed to update pre-invoice: %w", err)
	}
	return pre, nil
}

// nextSerial hands out the next serial in the group's scope, counting past
// serials already consumed by this batch.
func (s *InvoiceService) nextSerial(ctx context.Context, tenantID uuid.UUID, fy sequence.FiscalYear, target billingTarget, cache map[string]int) (int, error) {
	scope := sequence.NewInvoiceScope(tenantID, fy, target.branchID, target.category)
	key := scope.Key()
	if last, ok := cache[key]; ok {
		cache[key] = last + 1
		return last + 1, nil
	}
	seq, err := s.allocator.Next(ctx, scope)
	if err != nil {
		return 0, err
	}
	cache[key] = seq
	return seq, nil
}

// persistBatch inserts the invoices all-or-nothing. A uniqueness violation
// is surfaced as a conflict with the repair hint: another writer consumed
// the serial, the safe remediation is to re-run generation.
func (s *InvoiceService) persistBatch(ctx context.Context, span trace.Span, invoices []*billing.Invoice) error {
	if err := s.invoiceRepo.CreateBatch(ctx, invoices); err != nil {
		telemetry.RecordError(span, err)
		if errors.Is(err, shared.ErrAlreadyExists) {
			return shared.NewDomainError("ALLOCATION_CONTENTION",
				"Invoice numbers were taken by a concurrent batch; no invoices were issued. Re-run generation to allocate fresh serials")
		}
		return fmt.Errorf("failed to persist invoice batch: %w", err)
	}
	return nil
}
