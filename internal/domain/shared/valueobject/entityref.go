package valueobject

import (
	"fmt"

	"github.com/google/uuid"
)

// EntityKind enumerates the party kinds that can own a ledger position.
// Guests are consumer-billed clients without a registered business profile;
// they share the client record shape but bill under the consumer series.
type EntityKind string

const (
	EntityKindClient           EntityKind = "client"
	EntityKindGuest            EntityKind = "guest"
	EntityKindBranch           EntityKind = "branch"
	EntityKindHub              EntityKind = "hub"
	EntityKindTransportPartner EntityKind = "transport_partner"
)

// IsValid checks if the kind is a known EntityKind
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityKindClient, EntityKindGuest, EntityKindBranch, EntityKindHub, EntityKindTransportPartner:
		return true
	}
	return false
}

// String returns the string representation of EntityKind
func (k EntityKind) String() string {
	return string(k)
}

// IsBillable returns true if the kind can be a billing entity on a shipment
func (k EntityKind) IsBillable() bool {
	return k == EntityKindClient || k == EntityKindGuest || k == EntityKindTransportPartner
}

// ParseEntityKind converts a string to an EntityKind
func ParseEntityKind(s string) (EntityKind, error) {
	k := EntityKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("unknown entity kind: %q", s)
	}
	return k, nil
}

// EntityRef is a typed reference to a party (client, guest, branch, hub or
// transport partner). It replaces free-text entity type strings so that code
// switching on the kind stays exhaustive.
type EntityRef struct {
	Kind EntityKind `json:"kind"`
	ID   uuid.UUID  `json:"id"`
}

// NewEntityRef creates a validated EntityRef
func NewEntityRef(kind EntityKind, id uuid.UUID) (EntityRef, error) {
	if !kind.IsValid() {
		return EntityRef{}, fmt.Errorf("unknown entity kind: %q", kind)
	}
	if id == uuid.Nil {
		return EntityRef{}, fmt.Errorf("entity id cannot be empty")
	}
	return EntityRef{Kind: kind, ID: id}, nil
}

// IsZero returns true if the reference is unset
func (r EntityRef) IsZero() bool {
	return r.Kind == "" && r.ID == uuid.Nil
}

// Equals returns true if both references point to the same entity
func (r EntityRef) Equals(other EntityRef) bool {
	return r.Kind == other.Kind && r.ID == other.ID
}

// String returns "kind:id", usable as a map key
func (r EntityRef) String() string {
	return string(r.Kind) + ":" + r.ID.String()
}
