// Package billing provides domain models for invoice generation in a multi-tenant
// freight ledger.
//
// This package implements the billing bounded context, which is responsible for:
//   - Generating numbered invoices from delivered shipments
//   - Freezing shipment line snapshots at invoice time
//   - Managing editable pre-invoice drafts that later become invoices
//
// Key Aggregates:
//   - Invoice: A numbered, immutable bill with frozen shipment line snapshots
//   - PreInvoice: An editable draft whose lines can be adjusted before generation
//
// The billing domain integrates with:
//   - Freight domain: Delivered shipments are the source of invoice lines
//   - Sequence domain: Gapless per-scope serial numbers for invoice codes
//   - Payment domain: Invoice totals feed receivable balances and allocations
package billing
