package sequence

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SeriesKind names an independent numbering series
type SeriesKind string

const (
	SeriesKindInvoice    SeriesKind = "invoice"
	SeriesKindPreInvoice SeriesKind = "pre_invoice"
	SeriesKindManifest   SeriesKind = "manifest"
)

// IsValid checks if the series kind is known
func (k SeriesKind) IsValid() bool {
	switch k {
	case SeriesKindInvoice, SeriesKindPreInvoice, SeriesKindManifest:
		return true
	}
	return false
}

// BillingCategory separates the business and consumer numbering series
type BillingCategory string

const (
	CategoryBusiness BillingCategory = "B" // GST-registered billing entity
	CategoryConsumer BillingCategory = "C" // guest / consumer billing entity
)

// IsValid checks if the billing category is known
func (c BillingCategory) IsValid() bool {
	return c == CategoryBusiness || c == CategoryConsumer
}

// FiscalYear is the numbering window, identified by its starting calendar
// year. The window runs April 1 through March 31.
type FiscalYear int

// FiscalYearOf returns the fiscal year containing t
func FiscalYearOf(t time.Time) FiscalYear {
	if t.Month() >= time.April {
		return FiscalYear(t.Year())
	}
	return FiscalYear(t.Year() - 1)
}

// CurrentFiscalYear returns the fiscal year containing the current time
func CurrentFiscalYear() FiscalYear {
	return FiscalYearOf(time.Now())
}

// Start returns the first instant of the fiscal year (April 1, 00:00 UTC)
func (fy FiscalYear) Start() time.Time {
	return time.Date(int(fy), time.April, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant after the fiscal year (April 1 of the next year)
func (fy FiscalYear) End() time.Time {
	return time.Date(int(fy)+1, time.April, 1, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside the fiscal year window
func (fy FiscalYear) Contains(t time.Time) bool {
	return !t.Before(fy.Start()) && t.Before(fy.End())
}

// Token returns the two-digit display token, taken from the closing calendar
// year: the 2025-26 fiscal year renders as "26".
func (fy FiscalYear) Token() string {
	return fmt.Sprintf("%02d", (int(fy)+1)%100)
}

// Scope identifies one numbering series. Numbers are unique and strictly
// increasing within a scope; two scopes never share a series.
type Scope struct {
	TenantID   uuid.UUID
	FiscalYear FiscalYear
	Kind       SeriesKind
	BranchID   *uuid.UUID      // set only under branch-scoped numbering
	Category   BillingCategory // set only for invoice/pre-invoice series
}

// NewInvoiceScope builds the scope for a generated-invoice series
func NewInvoiceScope(tenantID uuid.UUID, fy FiscalYear, branchID *uuid.UUID, category BillingCategory) Scope {
	return Scope{
		TenantID:   tenantID,
		FiscalYear: fy,
		Kind:       SeriesKindInvoice,
		BranchID:   branchID,
		Category:   category,
	}
}

// NewPreInvoiceScope builds the scope for a draft-invoice series. Drafts
// number independently of the final invoices so that discarding a draft
// never leaves a gap in the issued series.
func NewPreInvoiceScope(tenantID uuid.UUID, fy FiscalYear, branchID *uuid.UUID, category BillingCategory) Scope {
	return Scope{
		TenantID:   tenantID,
		FiscalYear: fy,
		Kind:       SeriesKindPreInvoice,
		BranchID:   branchID,
		Category:   category,
	}
}

// NewManifestScope builds the scope for a manifest series. Manifest numbering
// is always scoped to the owning branch or hub.
func NewManifestScope(tenantID uuid.UUID, fy FiscalYear, entityID uuid.UUID) Scope {
	id := entityID
	return Scope{
		TenantID:   tenantID,
		FiscalYear: fy,
		Kind:       SeriesKindManifest,
		BranchID:   &id,
	}
}

// Key returns a stable string form of the scope, used in error context and
// as the cache key when a batch touches several scopes.
func (s Scope) Key() string {
	branch := "-"
	if s.BranchID != nil {
		branch = s.BranchID.String()
	}
	return fmt.Sprintf("%s|%d|%s|%s|%s", s.TenantID, s.FiscalYear, s.Kind, branch, s.Category)
}

// Validate checks the scope is internally consistent
func (s Scope) Validate() error {
	if s.TenantID == uuid.Nil {
		return fmt.Errorf("scope tenant id cannot be empty")
	}
	if !s.Kind.IsValid() {
		return fmt.Errorf("unknown series kind: %q", s.Kind)
	}
	if s.Category != "" && !s.Category.IsValid() {
		return fmt.Errorf("unknown billing category: %q", s.Category)
	}
	return nil
}
