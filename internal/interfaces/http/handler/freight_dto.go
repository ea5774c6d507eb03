package handler

import (
	"time"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/freight"
)

// EntityRefDTO identifies a party by kind and id
// @Description Entity reference (kind + id)
type EntityRefDTO struct {
	Kind string `json:"kind" binding:"required,oneof=client guest branch hub transport_partner" example:"branch"`
	ID   string `json:"id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// LineItemResponse represents one product line on a shipment
// @Description Shipment line item with unit counters
type LineItemResponse struct {
	ItemType  string  `json:"item_type" example:"carton"`
	InStock   int     `json:"in_stock" example:"10"`
	InTransit int     `json:"in_transit" example:"0"`
	Delivered int     `json:"delivered" example:"0"`
	Amount    float64 `json:"amount" example:"1500.00"`
	ReturnLeg bool    `json:"return_leg,omitempty"`
}

// ShipmentResponse represents a shipment in API responses
// @Description Shipment details returned by the API
type ShipmentResponse struct {
	ID                string             `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	TenantID          string             `json:"tenant_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	ConsignmentNumber string             `json:"consignment_number" example:"CN-2026-0042"`
	Origin            EntityRefDTO       `json:"origin"`
	ConsignorID       string             `json:"consignor_id" example:"550e8400-e29b-41d4-a716-446655440002"`
	ConsigneeID       string             `json:"consignee_id" example:"550e8400-e29b-41d4-a716-446655440003"`
	BillingEntity     *EntityRefDTO      `json:"billing_entity,omitempty"`
	BillingLocationID *string            `json:"billing_location_id,omitempty"`
	Route             string             `json:"route" example:"BLR-MAA via KA01AB1234"`
	LineItems         []LineItemResponse `json:"line_items"`
	FinalAmount       float64            `json:"final_amount" example:"1500.00"`
	InitialPaid       float64            `json:"initial_paid" example:"500.00"`
	Status            string             `json:"status" example:"PENDING"`
	PreInvoiceID      *string            `json:"pre_invoice_id,omitempty"`
	InvoiceID         *string            `json:"invoice_id,omitempty"`
	DeliveredAt       *string            `json:"delivered_at,omitempty"`
	CreatedAt         string             `json:"created_at" example:"2026-01-24T12:00:00Z"`
	UpdatedAt         string             `json:"updated_at" example:"2026-01-24T12:00:00Z"`
	Version           int                `json:"version" example:"1"`
}

// ManifestItemResponse represents one shipment's inclusion in a manifest
// @Description Manifest line with the units drawn into transit
type ManifestItemResponse struct {
	ID                string  `json:"id"`
	ShipmentID        string  `json:"shipment_id"`
	ConsignmentNumber string  `json:"consignment_number" example:"CN-2026-0042"`
	ItemType          string  `json:"item_type" example:"carton"`
	Units             int     `json:"units" example:"10"`
	Delivered         bool    `json:"delivered"`
	DeliveredAt       *string `json:"delivered_at,omitempty"`
	Removed           bool    `json:"removed,omitempty"`
}

// ManifestResponse represents a dispatch manifest in API responses
// @Description Manifest details returned by the API
type ManifestResponse struct {
	ID             string                 `json:"id"`
	TenantID       string                 `json:"tenant_id"`
	ManifestNumber string                 `json:"manifest_number" example:"MF26550E1"`
	SequenceNo     int                    `json:"sequence_no" example:"1"`
	FiscalYear     int                    `json:"fiscal_year" example:"2026"`
	Entity         EntityRefDTO           `json:"entity"`
	VehicleNo      string                 `json:"vehicle_no" example:"KA01AB1234"`
	Route          string                 `json:"route" example:"BLR-MAA"`
	Status         string                 `json:"status" example:"SCHEDULED" enums:"SCHEDULED,COMPLETED,CANCELLED"`
	Items          []ManifestItemResponse `json:"items"`
	CompletedAt    *string                `json:"completed_at,omitempty"`
	CancelledAt    *string                `json:"cancelled_at,omitempty"`
	CreatedAt      string                 `json:"created_at"`
	UpdatedAt      string                 `json:"updated_at"`
	Version        int                    `json:"version" example:"1"`
}

// AdjustmentResponse represents a manual stock correction
// @Description Recorded manifest adjustment
type AdjustmentResponse struct {
	ID             string  `json:"id"`
	TenantID       string  `json:"tenant_id"`
	ShipmentID     string  `json:"shipment_id"`
	ManifestID     *string `json:"manifest_id,omitempty"`
	ItemType       string  `json:"item_type" example:"carton"`
	DeltaInStock   int     `json:"delta_in_stock" example:"-2"`
	DeltaInTransit int     `json:"delta_in_transit" example:"0"`
	DeltaDelivered int     `json:"delta_delivered" example:"2"`
	DeltaAmount    float64 `json:"delta_amount" example:"0"`
	Reason         string  `json:"reason" example:"Damaged cartons written off at hub"`
	AdjustedBy     *string `json:"adjusted_by,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// VehicleResponse represents a vehicle in API responses
// @Description Vehicle details returned by the API
type VehicleResponse struct {
	ID           string `json:"id"`
	TenantID     string `json:"tenant_id"`
	VehicleNo    string `json:"vehicle_no" example:"KA01AB1234"`
	Status       string `json:"status" example:"online" enums:"online,busy"`
	CurrentRoute string `json:"current_route,omitempty" example:"BLR-MAA"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func toShipmentResponse(s *freight.Shipment) ShipmentResponse {
	resp := ShipmentResponse{
		ID:                s.ID.String(),
		TenantID:          s.TenantID.String(),
		ConsignmentNumber: s.ConsignmentNumber,
		Origin:            EntityRefDTO{Kind: string(s.Origin.Kind), ID: s.Origin.ID.String()},
		ConsignorID:       s.ConsignorID.String(),
		ConsigneeID:       s.ConsigneeID.String(),
		Route:             s.Route,
		LineItems:         make([]LineItemResponse, 0, len(s.LineItems)),
		FinalAmount:       s.FinalAmount.InexactFloat64(),
		InitialPaid:       s.InitialPaid.InexactFloat64(),
		Status:            string(s.Status),
		DeliveredAt:       formatTimePtr(s.DeliveredAt),
		CreatedAt:         formatTime(s.CreatedAt),
		UpdatedAt:         formatTime(s.UpdatedAt),
		Version:           s.Version,
	}
	if s.BillingEntity != nil {
		resp.BillingEntity = &EntityRefDTO{Kind: string(s.BillingEntity.Kind), ID: s.BillingEntity.ID.String()}
	}
	if s.BillingLocationID != nil {
		id := s.BillingLocationID.String()
		resp.BillingLocationID = &id
	}
	if s.PreInvoiceID != nil {
		id := s.PreInvoiceID.String()
		resp.PreInvoiceID = &id
	}
	if s.InvoiceID != nil {
		id := s.InvoiceID.String()
		resp.InvoiceID = &id
	}
	for _, li := range s.LineItems {
		resp.LineItems = append(resp.LineItems, LineItemResponse{
			ItemType:  li.ItemType,
			InStock:   li.InStock,
			InTransit: li.InTransit,
			Delivered: li.Delivered,
			Amount:    li.Amount.InexactFloat64(),
			ReturnLeg: li.ReturnLeg,
		})
	}
	return resp
}

func toShipmentResponses(shipments []*freight.Shipment) []ShipmentResponse {
	out := make([]ShipmentResponse, 0, len(shipments))
	for _, s := range shipments {
		out = append(out, toShipmentResponse(s))
	}
	return out
}

func toManifestResponse(m *freight.Manifest) ManifestResponse {
	resp := ManifestResponse{
		ID:             m.ID.String(),
		TenantID:       m.TenantID.String(),
		ManifestNumber: m.ManifestNumber,
		SequenceNo:     m.SequenceNo,
		FiscalYear:     int(m.FiscalYear),
		Entity:         EntityRefDTO{Kind: string(m.Entity.Kind), ID: m.Entity.ID.String()},
		VehicleNo:      m.VehicleNo,
		Route:          m.Route,
		Status:         string(m.Status),
		Items:          make([]ManifestItemResponse, 0, len(m.Items)),
		CompletedAt:    formatTimePtr(m.CompletedAt),
		CancelledAt:    formatTimePtr(m.CancelledAt),
		CreatedAt:      formatTime(m.CreatedAt),
		UpdatedAt:      formatTime(m.UpdatedAt),
		Version:        m.Version,
	}
	for _, it := range m.Items {
		resp.Items = append(resp.Items, ManifestItemResponse{
			ID:                it.ID.String(),
			ShipmentID:        it.ShipmentID.String(),
			ConsignmentNumber: it.ConsignmentNumber,
			ItemType:          it.ItemType,
			Units:             it.Units,
			Delivered:         it.Delivered,
			DeliveredAt:       formatTimePtr(it.DeliveredAt),
			Removed:           it.Removed,
		})
	}
	return resp
}

func toManifestResponses(manifests []*freight.Manifest) []ManifestResponse {
	out := make([]ManifestResponse, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, toManifestResponse(m))
	}
	return out
}

func toAdjustmentResponse(a *freight.ManifestAdjustment) AdjustmentResponse {
	resp := AdjustmentResponse{
		ID:             a.ID.String(),
		TenantID:       a.TenantID.String(),
		ShipmentID:     a.ShipmentID.String(),
		ItemType:       a.ItemType,
		DeltaInStock:   a.DeltaInStock,
		DeltaInTransit: a.DeltaInTransit,
		DeltaDelivered: a.DeltaDelivered,
		DeltaAmount:    a.DeltaAmount.InexactFloat64(),
		Reason:         a.Reason,
		CreatedAt:      formatTime(a.CreatedAt),
	}
	if a.ManifestID != nil {
		id := a.ManifestID.String()
		resp.ManifestID = &id
	}
	if a.AdjustedBy != nil {
		id := a.AdjustedBy.String()
		resp.AdjustedBy = &id
	}
	return resp
}

func toVehicleResponse(v *freight.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:           v.ID.String(),
		TenantID:     v.TenantID.String(),
		VehicleNo:    v.VehicleNo,
		Status:       string(v.Status),
		CurrentRoute: v.CurrentRoute,
		CreatedAt:    formatTime(v.CreatedAt),
		UpdatedAt:    formatTime(v.UpdatedAt),
	}
}

func toVehicleResponses(vehicles []*freight.Vehicle) []VehicleResponse {
	out := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, toVehicleResponse(v))
	}
	return out
}
