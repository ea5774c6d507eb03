package models

import (
	"github.com/google/uuid"
)

// PartyModel is the tenant's record of a billable or operational entity:
// clients, guests, branches, hubs and transport partners share one table,
// discriminated by kind. The ledger consults these rows, it never owns them.
type PartyModel struct {
	TenantAggregateModel
	Kind           string     `gorm:"type:varchar(20);not null;index"`
	Name           string     `gorm:"type:varchar(200);not null"`
	Code           string     `gorm:"type:varchar(20);index"` // short display token, set for branches
	ParentBranchID *uuid.UUID `gorm:"type:uuid;index"`        // set for hubs
}

// TableName returns the table name for GORM
func (PartyModel) TableName() string {
	return "parties"
}

// DeliveryLocationModel is a billing address on file for a party
type DeliveryLocationModel struct {
	TenantAggregateModel
	EntityID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Address   string    `gorm:"type:text"`
	SortOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DeliveryLocationModel) TableName() string {
	return "delivery_locations"
}

// TenantSettingsModel carries the tenant's invoicing configuration row
type TenantSettingsModel struct {
	TenantAggregateModel
	BranchScopedInvoicing bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (TenantSettingsModel) TableName() string {
	return "tenant_settings"
}
