package billing

import (
	"testing"
	"time"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/sequence"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLines(amounts ...int64) []InvoiceLine {
	lines := make([]InvoiceLine, 0, len(amounts))
	for _, a := range amounts {
		lines = append(lines, InvoiceLine{
			ShipmentID:        uuid.New(),
			ConsignmentNumber: "CN-1001",
			TaxableValue:      decimal.NewFromInt(a),
			FinalAmount:       decimal.NewFromInt(a),
		})
	}
	return lines
}

func newTestInvoice(t *testing.T, category sequence.BillingCategory, branchCode string, seq int) *Invoice {
	t.Helper()
	var branchID *uuid.UUID
	if branchCode != "" {
		id := uuid.New()
		branchID = &id
	}
	entity, err := valueobject.NewEntityRef(valueobject.EntityKindClient, uuid.New())
	require.NoError(t, err)
	inv, err := NewInvoice(uuid.New(), sequence.FiscalYear(2025), category, branchID, branchCode, seq,
		entity, uuid.New(), testLines(600, 400))
	require.NoError(t, err)
	return inv
}

func TestComposeInvoiceCode(t *testing.T) {
	tests := []struct {
		name       string
		category   sequence.BillingCategory
		branchCode string
		seq        int
		want       string
	}{
		{"tenant-wide business", sequence.CategoryBusiness, "", 1, "26B1"},
		{"branch-scoped consumer", sequence.CategoryConsumer, "BLR", 4, "26CBLR4"},
		{"large serial", sequence.CategoryBusiness, "", 1042, "26B1042"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComposeInvoiceCode(sequence.FiscalYear(2025), tt.category, tt.branchCode, tt.seq)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewInvoice(t *testing.T) {
	t.Run("sums line totals and freezes lines", func(t *testing.T) {
		inv := newTestInvoice(t, sequence.CategoryBusiness, "", 1)
		assert.Equal(t, "26B1", inv.Code)
		assert.Equal(t, InvoiceActive, inv.Status)
		assert.True(t, inv.Total.Equal(decimal.NewFromInt(1000)))
		for _, l := range inv.Lines {
			assert.Equal(t, inv.ID, l.InvoiceID)
			assert.NotEqual(t, uuid.Nil, l.ID)
		}
		assert.Len(t, inv.GetDomainEvents(), 1)
	})

	t.Run("rejects branch origin as billing entity", func(t *testing.T) {
		branchRef, _ := valueobject.NewEntityRef(valueobject.EntityKindBranch, uuid.New())
		_, err := NewInvoice(uuid.New(), sequence.FiscalYear(2025), sequence.CategoryBusiness, nil, "", 1,
			branchRef, uuid.New(), testLines(100))
		assert.Error(t, err)
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		entity, _ := valueobject.NewEntityRef(valueobject.EntityKindClient, uuid.New())
		_, err := NewInvoice(uuid.New(), sequence.FiscalYear(2025), sequence.CategoryBusiness, nil, "", 1,
			entity, uuid.New(), nil)
		assert.Error(t, err)
	})

	t.Run("rejects branch scope without branch code", func(t *testing.T) {
		entity, _ := valueobject.NewEntityRef(valueobject.EntityKindClient, uuid.New())
		id := uuid.New()
		_, err := NewInvoice(uuid.New(), sequence.FiscalYear(2025), sequence.CategoryBusiness, &id, "", 1,
			entity, uuid.New(), testLines(100))
		assert.Error(t, err)
	})
}

func TestInvoice_Lifecycle(t *testing.T) {
	inv := newTestInvoice(t, sequence.CategoryBusiness, "", 1)

	require.NoError(t, inv.MarkPaid())
	assert.Equal(t, InvoicePaid, inv.Status)

	inv.Reopen()
	assert.Equal(t, InvoiceActive, inv.Status)

	// reopen on an active invoice is a no-op
	inv.Reopen()
	assert.Equal(t, InvoiceActive, inv.Status)

	require.NoError(t, inv.Cancel(time.Now()))
	assert.Equal(t, InvoiceCancelled, inv.Status)
	require.NotNil(t, inv.CancelledAt)

	// cancelling twice is a state error
	assert.Error(t, inv.Cancel(time.Now()))
	// a cancelled invoice cannot be marked paid
	assert.Error(t, inv.MarkPaid())
}

func TestPreInvoice(t *testing.T) {
	entity, err := valueobject.NewEntityRef(valueobject.EntityKindGuest, uuid.New())
	require.NoError(t, err)

	newDraft := func(t *testing.T) *PreInvoice {
		t.Helper()
		p, err := NewPreInvoice(uuid.New(), sequence.CurrentFiscalYear(), sequence.CategoryConsumer, nil, "", 1, entity, uuid.New(), []PreInvoiceLine{
			{
				ShipmentID:        uuid.New(),
				ConsignmentNumber: "CN-1001",
				TaxableValue:      decimal.NewFromInt(500),
				FinalAmount:       decimal.NewFromInt(500),
			},
		})
		require.NoError(t, err)
		return p
	}

	t.Run("starts as draft with computed total", func(t *testing.T) {
		p := newDraft(t)
		assert.Equal(t, PreInvoiceDraft, p.Status)
		assert.Equal(t, "P"+sequence.CurrentFiscalYear().Token()+"C1", p.Code)
		assert.True(t, p.Total.Equal(decimal.NewFromInt(500)))
	})

	t.Run("edit recomputes line and total", func(t *testing.T) {
		p := newDraft(t)
		require.NoError(t, p.UpdateLineCharges(p.Lines[0].ID, decimal.NewFromInt(50), decimal.NewFromInt(90)))
		assert.True(t, p.Lines[0].FinalAmount.Equal(decimal.NewFromInt(640)))
		assert.True(t, p.Total.Equal(decimal.NewFromInt(640)))
	})

	t.Run("rejects negative charges", func(t *testing.T) {
		p := newDraft(t)
		assert.Error(t, p.UpdateLineCharges(p.Lines[0].ID, decimal.NewFromInt(-1), decimal.Zero))
	})

	t.Run("finalize locks the draft", func(t *testing.T) {
		p := newDraft(t)
		invoiceID := uuid.New()
		require.NoError(t, p.MarkInvoiced(invoiceID))
		assert.Equal(t, PreInvoiceInvoiced, p.Status)
		require.NotNil(t, p.InvoiceID)

		assert.Error(t, p.UpdateLineCharges(p.Lines[0].ID, decimal.NewFromInt(5), decimal.Zero))
		assert.Error(t, p.MarkInvoiced(uuid.New()))
	})

	t.Run("invoice cancel reverts to draft", func(t *testing.T) {
		p := newDraft(t)
		require.NoError(t, p.MarkInvoiced(uuid.New()))

		p.RevertToDraft()

		assert.Equal(t, PreInvoiceDraft, p.Status)
		assert.Nil(t, p.InvoiceID)
	})

	t.Run("cancel discards a draft only", func(t *testing.T) {
		p := newDraft(t)
		require.NoError(t, p.Cancel())
		assert.Error(t, p.Cancel())
	})
}
