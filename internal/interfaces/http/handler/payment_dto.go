package handler

import (
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/payment"
)

// PaymentResponse represents one ledger position in API responses
// @Description Payment row keyed by entity, direction and reference
type PaymentResponse struct {
	ID          string       `json:"id"`
	TenantID    string       `json:"tenant_id"`
	Entity      EntityRefDTO `json:"entity"`
	Direction   string       `json:"direction" example:"receivable" enums:"receivable,payable"`
	ReferenceNo string       `json:"reference_no" example:"SHP-CN-2026-0042"`
	AmountDue   float64      `json:"amount_due" example:"1500.00"`
	AmountPaid  float64      `json:"amount_paid" example:"500.00"`
	Balance     float64      `json:"balance" example:"1000.00"`
	Status      string       `json:"status" example:"PENDING" enums:"PENDING,PAID"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
}

// EntitySummaryResponse represents an entity's ledger rollup
// @Description Aggregated due, paid and balance for one entity and direction
type EntitySummaryResponse struct {
	TenantID     string       `json:"tenant_id"`
	Entity       EntityRefDTO `json:"entity"`
	Direction    string       `json:"direction" example:"receivable" enums:"receivable,payable"`
	TotalDue     float64      `json:"total_due" example:"15000.00"`
	TotalPaid    float64      `json:"total_paid" example:"10000.00"`
	TotalBalance float64      `json:"total_balance" example:"5000.00"`
	UpdatedAt    string       `json:"updated_at"`
}

// AllocationResponse represents one earmark of a transaction against an invoice
// @Description Transaction allocation
type AllocationResponse struct {
	ID        string  `json:"id"`
	InvoiceID string  `json:"invoice_id"`
	Amount    float64 `json:"amount" example:"1000.00"`
	Status    string  `json:"status" example:"posted" enums:"posted,voided"`
}

// TransactionResponse represents a money movement in API responses
// @Description Payment transaction with its allocations
type TransactionResponse struct {
	ID              string               `json:"id"`
	TenantID        string               `json:"tenant_id"`
	Entity          EntityRefDTO         `json:"entity"`
	Direction       string               `json:"direction" example:"receivable" enums:"receivable,payable"`
	Amount          float64              `json:"amount" example:"1000.00"`
	Method          string               `json:"method" example:"bank_transfer"`
	Reference       string               `json:"reference,omitempty" example:"NEFT-20260124-001"`
	TransactionDate string               `json:"transaction_date" example:"2026-01-24T00:00:00Z"`
	Status          string               `json:"status" example:"posted" enums:"posted,voided"`
	VoidedAt        *string              `json:"voided_at,omitempty"`
	VoidReason      string               `json:"void_reason,omitempty"`
	Allocations     []AllocationResponse `json:"allocations"`
	CreatedAt       string               `json:"created_at"`
}

// OutstandingResponse reports an invoice's re-derived outstanding amount
// @Description Invoice outstanding balance
type OutstandingResponse struct {
	InvoiceID   string  `json:"invoice_id"`
	Outstanding float64 `json:"outstanding" example:"500.00"`
}

func toPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID.String(),
		TenantID:    p.TenantID.String(),
		Entity:      EntityRefDTO{Kind: string(p.Entity.Kind), ID: p.Entity.ID.String()},
		Direction:   string(p.Direction),
		ReferenceNo: p.ReferenceNo,
		AmountDue:   p.AmountDue.InexactFloat64(),
		AmountPaid:  p.AmountPaid.InexactFloat64(),
		Balance:     p.Balance.InexactFloat64(),
		Status:      string(p.Status),
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
}

func toPaymentResponses(payments []*payment.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	return out
}

func toEntitySummaryResponse(s *payment.PaymentEntitySummary) EntitySummaryResponse {
	return EntitySummaryResponse{
		TenantID:     s.TenantID.String(),
		Entity:       EntityRefDTO{Kind: string(s.Entity.Kind), ID: s.Entity.ID.String()},
		Direction:    string(s.Direction),
		TotalDue:     s.TotalDue.InexactFloat64(),
		TotalPaid:    s.TotalPaid.InexactFloat64(),
		TotalBalance: s.TotalBalance.InexactFloat64(),
		UpdatedAt:    formatTime(s.UpdatedAt),
	}
}

func toTransactionResponse(t *payment.PaymentTransaction) TransactionResponse {
	resp := TransactionResponse{
		ID:              t.ID.String(),
		TenantID:        t.TenantID.String(),
		Entity:          EntityRefDTO{Kind: string(t.Entity.Kind), ID: t.Entity.ID.String()},
		Direction:       string(t.Direction),
		Amount:          t.Amount.InexactFloat64(),
		Method:          t.Method,
		Reference:       t.Reference,
		TransactionDate: formatTime(t.TransactionDate),
		Status:          string(t.Status),
		VoidedAt:        formatTimePtr(t.VoidedAt),
		VoidReason:      t.VoidReason,
		Allocations:     make([]AllocationResponse, 0, len(t.Allocations)),
		CreatedAt:       formatTime(t.CreatedAt),
	}
	for _, a := range t.Allocations {
		resp.Allocations = append(resp.Allocations, AllocationResponse{
			ID:        a.ID.String(),
			InvoiceID: a.InvoiceID.String(),
			Amount:    a.Amount.InexactFloat64(),
			Status:    string(a.Status),
		})
	}
	return resp
}

func toTransactionResponses(txns []*payment.PaymentTransaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, toTransactionResponse(t))
	}
	return out
}
