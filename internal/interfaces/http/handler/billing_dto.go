package handler

import (
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/billing"
)

// InvoiceLineResponse represents one frozen shipment snapshot on an invoice
// @Description Invoice line with the frozen shipment amounts
type InvoiceLineResponse struct {
	ID                string  `json:"id"`
	ShipmentID        string  `json:"shipment_id"`
	ConsignmentNumber string  `json:"consignment_number" example:"CN-2026-0042"`
	TaxableValue      float64 `json:"taxable_value" example:"1400.00"`
	TaxAmount         float64 `json:"tax_amount" example:"100.00"`
	Charges           float64 `json:"charges" example:"0"`
	FinalAmount       float64 `json:"final_amount" example:"1500.00"`
}

// InvoiceResponse represents an invoice in API responses
// @Description Invoice details returned by the API
type InvoiceResponse struct {
	ID                string                `json:"id"`
	TenantID          string                `json:"tenant_id"`
	Code              string                `json:"code" example:"26CBLR4"`
	SequenceNo        int                   `json:"sequence_no" example:"4"`
	FiscalYear        int                   `json:"fiscal_year" example:"2026"`
	Category          string                `json:"category" example:"C" enums:"B,C"`
	BranchID          *string               `json:"branch_id,omitempty"`
	BranchCode        string                `json:"branch_code,omitempty" example:"BLR"`
	BillingEntity     EntityRefDTO          `json:"billing_entity"`
	BillingLocationID string                `json:"billing_location_id"`
	Lines             []InvoiceLineResponse `json:"lines"`
	Total             float64               `json:"total" example:"1500.00"`
	Status            string                `json:"status" example:"ACTIVE" enums:"ACTIVE,PAID,CANCELLED"`
	PreInvoiceID      *string               `json:"pre_invoice_id,omitempty"`
	IssuedAt          string                `json:"issued_at" example:"2026-01-24T12:00:00Z"`
	CancelledAt       *string               `json:"cancelled_at,omitempty"`
	CreatedAt         string                `json:"created_at"`
	UpdatedAt         string                `json:"updated_at"`
	Version           int                   `json:"version" example:"1"`
}

// PreInvoiceLineResponse represents one editable draft line
// @Description Pre-invoice line with editable charges and tax
type PreInvoiceLineResponse struct {
	ID                string  `json:"id"`
	ShipmentID        string  `json:"shipment_id"`
	ConsignmentNumber string  `json:"consignment_number" example:"CN-2026-0042"`
	TaxableValue      float64 `json:"taxable_value" example:"1400.00"`
	TaxAmount         float64 `json:"tax_amount" example:"100.00"`
	Charges           float64 `json:"charges" example:"50.00"`
	FinalAmount       float64 `json:"final_amount" example:"1550.00"`
}

// PreInvoiceResponse represents a draft invoice in API responses
// @Description Pre-invoice details returned by the API
type PreInvoiceResponse struct {
	ID                string                   `json:"id"`
	TenantID          string                   `json:"tenant_id"`
	Code              string                   `json:"code" example:"P26B3"`
	SequenceNo        int                      `json:"sequence_no" example:"3"`
	FiscalYear        int                      `json:"fiscal_year" example:"2026"`
	Category          string                   `json:"category" example:"B" enums:"B,C"`
	BillingEntity     EntityRefDTO             `json:"billing_entity"`
	BillingLocationID string                   `json:"billing_location_id"`
	BranchID          *string                  `json:"branch_id,omitempty"`
	BranchCode        string                   `json:"branch_code,omitempty" example:"BLR"`
	Lines             []PreInvoiceLineResponse `json:"lines"`
	Total             float64                  `json:"total" example:"1550.00"`
	Status            string                   `json:"status" example:"DRAFT" enums:"DRAFT,INVOICED,CANCELLED"`
	InvoiceID         *string                  `json:"invoice_id,omitempty"`
	CreatedAt         string                   `json:"created_at"`
	UpdatedAt         string                   `json:"updated_at"`
	Version           int                      `json:"version" example:"1"`
}

func toInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:                inv.ID.String(),
		TenantID:          inv.TenantID.String(),
		Code:              inv.Code,
		SequenceNo:        inv.SequenceNo,
		FiscalYear:        int(inv.FiscalYear),
		Category:          string(inv.Category),
		BranchCode:        inv.BranchCode,
		BillingEntity:     EntityRefDTO{Kind: string(inv.BillingEntity.Kind), ID: inv.BillingEntity.ID.String()},
		BillingLocationID: inv.BillingLocationID.String(),
		Lines:             make([]InvoiceLineResponse, 0, len(inv.Lines)),
		Total:             inv.Total.InexactFloat64(),
		Status:            string(inv.Status),
		IssuedAt:          formatTime(inv.IssuedAt),
		CancelledAt:       formatTimePtr(inv.CancelledAt),
		CreatedAt:         formatTime(inv.CreatedAt),
		UpdatedAt:         formatTime(inv.UpdatedAt),
		Version:           inv.Version,
	}
	if inv.BranchID != nil {
		id := inv.BranchID.String()
		resp.BranchID = &id
	}
	if inv.PreInvoiceID != nil {
		id := inv.PreInvoiceID.String()
		resp.PreInvoiceID = &id
	}
	for _, line := range inv.Lines {
		resp.Lines = append(resp.Lines, InvoiceLineResponse{
			ID:                line.ID.String(),
			ShipmentID:        line.ShipmentID.String(),
			ConsignmentNumber: line.ConsignmentNumber,
			TaxableValue:      line.TaxableValue.InexactFloat64(),
			TaxAmount:         line.TaxAmount.InexactFloat64(),
			Charges:           line.Charges.InexactFloat64(),
			FinalAmount:       line.FinalAmount.InexactFloat64(),
		})
	}
	return resp
}

func toInvoiceResponses(invoices []*billing.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoiceResponse(inv))
	}
	return out
}

func toPreInvoiceResponse(pi *billing.PreInvoice) PreInvoiceResponse {
	resp := PreInvoiceResponse{
		ID:                pi.ID.String(),
		TenantID:          pi.TenantID.String(),
		Code:              pi.Code,
		SequenceNo:        pi.SequenceNo,
		FiscalYear:        int(pi.FiscalYear),
		Category:          string(pi.Category),
		BranchCode:        pi.BranchCode,
		BillingEntity:     EntityRefDTO{Kind: string(pi.BillingEntity.Kind), ID: pi.BillingEntity.ID.String()},
		BillingLocationID: pi.BillingLocationID.String(),
		Lines:             make([]PreInvoiceLineResponse, 0, len(pi.Lines)),
		Total:             pi.Total.InexactFloat64(),
		Status:            string(pi.Status),
		CreatedAt:         formatTime(pi.CreatedAt),
		UpdatedAt:         formatTime(pi.UpdatedAt),
		Version:           pi.Version,
	}
	if pi.BranchID != nil {
		id := pi.BranchID.String()
		resp.BranchID = &id
	}
	if pi.InvoiceID != nil {
		id := pi.InvoiceID.String()
		resp.InvoiceID = &id
	}
	for _, line := range pi.Lines {
		resp.Lines = append(resp.Lines, PreInvoiceLineResponse{
			ID:                line.ID.String(),
			ShipmentID:        line.ShipmentID.String(),
			ConsignmentNumber: line.ConsignmentNumber,
			TaxableValue:      line.TaxableValue.InexactFloat64(),
			TaxAmount:         line.TaxAmount.InexactFloat64(),
			Charges:           line.Charges.InexactFloat64(),
			FinalAmount:       line.FinalAmount.InexactFloat64(),
		})
	}
	return resp
}

func toPreInvoiceResponses(preInvoices []*billing.PreInvoice) []PreInvoiceResponse {
	out := make([]PreInvoiceResponse, 0, len(preInvoices))
	for _, pi := range preInvoices {
		out = append(out, toPreInvoiceResponse(pi))
	}
	return out
}
