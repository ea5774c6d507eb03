package payment

import (
	"fmt"
	"time"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reserved transaction methods. MethodInitialPaid marks the posting made at
// shipment creation and is idempotent per shipment; MethodInvoice marks a
// full-invoice settlement whose void must reopen the invoice.
const (
	MethodInitialPaid = "Initial Paid"
	MethodInvoice     = "Invoice"
)

// TransactionStatus tracks the posted/voided state of one ledger entry
type TransactionStatus string

const (
	TransactionPosted TransactionStatus = "posted"
	TransactionVoided TransactionStatus = "voided"
)

// PaymentTransaction is one append-only ledger entry. Entries are never
// deleted or edited; a mistake is corrected by voiding, which keeps the row
// and flags it.
type PaymentTransaction struct {
	shared.TenantAggregateRoot
	Entity          valueobject.EntityRef
	Direction       Direction
	Amount          decimal.Decimal
	Method          string
	Reference       string
	TransactionDate time.Time
	Status          TransactionStatus
	VoidedAt        *time.Time
	VoidReason      string
	Allocations     []PaymentAllocation
}

// PaymentAllocation earmarks part of a transaction against one invoice. The
// sum of non-voided allocations per invoice never exceeds the invoice total.
type PaymentAllocation struct {
	shared.BaseEntity
	TransactionID uuid.UUID
	InvoiceID     uuid.UUID
	Amount        decimal.Decimal
	Status        TransactionStatus
}

// NewPaymentTransaction posts a ledger entry
func NewPaymentTransaction(
	tenantID uuid.UUID,
	entity valueobject.EntityRef,
	direction Direction,
	amount decimal.Decimal,
	method, reference string,
	transactionDate time.Time,
) (*PaymentTransaction, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount must be positive")
	}
	if method == "" {
		return nil, shared.NewDomainError("INVALID_METHOD", "Transaction method cannot be empty")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", fmt.Sprintf("Unknown payment direction %q", direction))
	}
	if transactionDate.IsZero() {
		transactionDate = time.Now()
	}

	return &PaymentTransaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Entity:              entity,
		Direction:           direction,
		Amount:              amount,
		Method:              method,
		Reference:           reference,
		TransactionDate:     transactionDate,
		Status:              TransactionPosted,
	}, nil
}

// Allocate earmarks part of the transaction against an invoice. The caller
// validates the amount against the invoice's outstanding balance.
func (t *PaymentTransaction) Allocate(invoiceID uuid.UUID, amount decimal.Decimal) error {
	if t.Status != TransactionPosted {
		return shared.NewDomainError("INVALID_STATE", "Cannot allocate a voided transaction")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}
	allocated := t.AllocatedTotal()
	if allocated.Add(amount).GreaterThan(t.Amount) {
		return shared.NewDomainError("OVER_ALLOCATION", "Allocations exceed the transaction amount")
	}
	t.Allocations = append(t.Allocations, PaymentAllocation{
		BaseEntity:    shared.NewBaseEntity(),
		TransactionID: t.ID,
		InvoiceID:     invoiceID,
		Amount:        amount,
		Status:        TransactionPosted,
	})
	t.touch()
	return nil
}

// AllocatedTotal sums the non-voided allocations on the transaction
func (t *PaymentTransaction) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range t.Allocations {
		if a.Status == TransactionPosted {
			total = total.Add(a.Amount)
		}
	}
	return total
}

// InvoiceIDs returns the invoices touched by non-voided allocations
func (t *PaymentTransaction) InvoiceIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.Allocations))
	for _, a := range t.Allocations {
		if a.Status == TransactionPosted {
			ids = append(ids, a.InvoiceID)
		}
	}
	return ids
}

// ReleaseAllocations voids the posted allocations against one invoice while
// keeping the transaction itself posted. Used when the allocated invoice is
// cancelled and the money returns to the entity's unallocated balance.
func (t *PaymentTransaction) ReleaseAllocations(invoiceID uuid.UUID) {
	changed := false
	for i := range t.Allocations {
		a := &t.Allocations[i]
		if a.InvoiceID == invoiceID && a.Status == TransactionPosted {
			a.Status = TransactionVoided
			changed = true
		}
	}
	if changed {
		t.touch()
	}
}

// Void flags the transaction and all of its allocations without deleting
// anything. Voiding twice is a state error.
func (t *PaymentTransaction) Void(reason string, at time.Time) error {
	if t.Status == TransactionVoided {
		return shared.NewDomainError("INVALID_STATE", "Transaction is already voided")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Void reason cannot be empty")
	}
	t.Status = TransactionVoided
	t.VoidedAt = &at
	t.VoidReason = reason
	for i := range t.Allocations {
		t.Allocations[i].Status = TransactionVoided
	}
	t.touch()
	return nil
}

func (t *PaymentTransaction) touch() {
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}
