package payment

import (
	"testing"
	"time"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientRef(t *testing.T) valueobject.EntityRef {
	t.Helper()
	ref, err := valueobject.NewEntityRef(valueobject.EntityKindClient, uuid.New())
	require.NoError(t, err)
	return ref
}

func TestNewPayment(t *testing.T) {
	entity := clientRef(t)

	t.Run("derives balance and status", func(t *testing.T) {
		p, err := NewPayment(uuid.New(), entity, DirectionReceivable, "ref-1",
			decimal.NewFromInt(1000), decimal.NewFromInt(200))
		require.NoError(t, err)
		assert.True(t, p.Balance.Equal(decimal.NewFromInt(800)))
		assert.Equal(t, PaymentPending, p.Status)
	})

	t.Run("overpayment clamps balance at zero", func(t *testing.T) {
		p, err := NewPayment(uuid.New(), entity, DirectionReceivable, "ref-1",
			decimal.NewFromInt(1000), decimal.NewFromInt(1500))
		require.NoError(t, err)
		assert.True(t, p.Balance.IsZero())
		assert.Equal(t, PaymentSettled, p.Status)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := NewPayment(uuid.New(), entity, Direction("sideways"), "ref-1", decimal.NewFromInt(1), decimal.Zero)
		assert.Error(t, err)

		_, err = NewPayment(uuid.New(), entity, DirectionReceivable, "", decimal.NewFromInt(1), decimal.Zero)
		assert.Error(t, err)

		_, err = NewPayment(uuid.New(), entity, DirectionReceivable, "ref-1", decimal.NewFromInt(-1), decimal.Zero)
		assert.Error(t, err)
	})
}

func TestPayment_AddPaid(t *testing.T) {
	p, err := NewPayment(uuid.New(), clientRef(t), DirectionReceivable, "ref-1",
		decimal.NewFromInt(1000), decimal.NewFromInt(200))
	require.NoError(t, err)

	require.NoError(t, p.AddPaid(decimal.NewFromInt(800)))

	assert.True(t, p.AmountPaid.Equal(decimal.NewFromInt(1000)))
	assert.True(t, p.Balance.IsZero())
	assert.Equal(t, PaymentSettled, p.Status)

	assert.Error(t, p.AddPaid(decimal.Zero))
}

func TestPayment_ZeroOut(t *testing.T) {
	p, err := NewPayment(uuid.New(), clientRef(t), DirectionReceivable, "ref-1",
		decimal.NewFromInt(1000), decimal.NewFromInt(200))
	require.NoError(t, err)

	p.ZeroOut()

	assert.True(t, p.AmountDue.IsZero())
	assert.True(t, p.AmountPaid.IsZero())
	assert.True(t, p.Balance.IsZero())
	assert.Equal(t, PaymentPending, p.Status)
}

func TestPaymentEntitySummary(t *testing.T) {
	s := NewPaymentEntitySummary(uuid.New(), clientRef(t), DirectionReceivable)

	s.ApplyDelta(decimal.NewFromInt(1000), decimal.NewFromInt(200))
	assert.True(t, s.TotalBalance.Equal(decimal.NewFromInt(800)))

	s.ApplyDelta(decimal.Zero, decimal.NewFromInt(800))
	assert.True(t, s.TotalBalance.IsZero())

	// rebuild path replaces totals outright
	s.Reset(decimal.NewFromInt(500), decimal.NewFromInt(700))
	assert.True(t, s.TotalDue.Equal(decimal.NewFromInt(500)))
	assert.True(t, s.TotalBalance.IsZero(), "overpaid entity clamps at zero")
}

func newPostedTransaction(t *testing.T, amount int64) *PaymentTransaction {
	t.Helper()
	txn, err := NewPaymentTransaction(uuid.New(), clientRef(t), DirectionReceivable,
		decimal.NewFromInt(amount), "NEFT", "utr-991", time.Now())
	require.NoError(t, err)
	return txn
}

func TestNewPaymentTransaction_Validation(t *testing.T) {
	entity := clientRef(t)

	_, err := NewPaymentTransaction(uuid.New(), entity, DirectionReceivable, decimal.Zero, "NEFT", "", time.Now())
	assert.Error(t, err)

	_, err = NewPaymentTransaction(uuid.New(), entity, DirectionReceivable, decimal.NewFromInt(10), "", "", time.Now())
	assert.Error(t, err)
}

func TestPaymentTransaction_Allocate(t *testing.T) {
	txn := newPostedTransaction(t, 800)
	invoiceID := uuid.New()

	require.NoError(t, txn.Allocate(invoiceID, decimal.NewFromInt(500)))
	require.NoError(t, txn.Allocate(uuid.New(), decimal.NewFromInt(300)))
	assert.True(t, txn.AllocatedTotal().Equal(decimal.NewFromInt(800)))

	t.Run("cannot exceed the transaction amount", func(t *testing.T) {
		err := txn.Allocate(uuid.New(), decimal.NewFromInt(1))
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "OVER_ALLOCATION", de.Code)
	})

	t.Run("invoice ids cover posted allocations", func(t *testing.T) {
		assert.Contains(t, txn.InvoiceIDs(), invoiceID)
		assert.Len(t, txn.InvoiceIDs(), 2)
	})
}

func TestPaymentTransaction_ReleaseAllocations(t *testing.T) {
	txn := newPostedTransaction(t, 800)
	cancelledInvoice := uuid.New()
	otherInvoice := uuid.New()
	require.NoError(t, txn.Allocate(cancelledInvoice, decimal.NewFromInt(500)))
	require.NoError(t, txn.Allocate(otherInvoice, decimal.NewFromInt(300)))

	txn.ReleaseAllocations(cancelledInvoice)

	assert.Equal(t, TransactionPosted, txn.Status, "the transaction itself stays posted")
	assert.True(t, txn.AllocatedTotal().Equal(decimal.NewFromInt(300)))
	assert.Equal(t, []uuid.UUID{otherInvoice}, txn.InvoiceIDs())

	// the freed amount can be re-earmarked
	require.NoError(t, txn.Allocate(uuid.New(), decimal.NewFromInt(500)))
	assert.True(t, txn.AllocatedTotal().Equal(decimal.NewFromInt(800)))
}

func TestPaymentTransaction_Void(t *testing.T) {
	txn := newPostedTransaction(t, 800)
	require.NoError(t, txn.Allocate(uuid.New(), decimal.NewFromInt(800)))

	at := time.Now()
	require.NoError(t, txn.Void("posted against the wrong client", at))

	assert.Equal(t, TransactionVoided, txn.Status)
	require.NotNil(t, txn.VoidedAt)
	assert.Equal(t, TransactionVoided, txn.Allocations[0].Status)
	assert.True(t, txn.AllocatedTotal().IsZero())
	assert.Empty(t, txn.InvoiceIDs())

	// amount stays on the row: the ledger is append-only
	assert.True(t, txn.Amount.Equal(decimal.NewFromInt(800)))

	t.Run("voiding twice is a state error", func(t *testing.T) {
		err := txn.Void("again", time.Now())
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_STATE", de.Code)
	})

	t.Run("voided transaction rejects new allocations", func(t *testing.T) {
		assert.Error(t, txn.Allocate(uuid.New(), decimal.NewFromInt(10)))
	})
}
