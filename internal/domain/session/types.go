package session

// Package session contains domain-level types for identity, wallet linkage,
// and role-based session state. It is pure and free of framework/adapter concerns.

import "fmt"

// Role represents an application's authorization role.
// Keep string form for easy persistence and JSON transport.
// Valid values are defined as constants below.
type Role string

const (
	RoleDonor     Role = "donor"
	RoleRecipient Role = "recipient"
	RoleValidator Role = "validator"
	RoleAdmin     Role = "admin"

	// RoleUnresolved is the zero value: an identity whose role has not been
	// resolved yet, or no identity at all.
	RoleUnresolved Role = ""
)

// Valid reports whether r is one of the four assignable roles.
// The unresolved zero value is not assignable.
func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleRecipient, RoleValidator, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole converts a raw string into a Role, rejecting anything outside the
// enumerated set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return RoleUnresolved, fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Identity represents the authenticated principal returned by an identity
// provider. Adapters map provider-specific claims into this shape.
type Identity struct {
	ID          string `json:"id"` // stable per provider account (e.g., sub)
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// WalletLink is the association between the current session and a connected
// blockchain address. Zero-or-one per identity at a time.
type WalletLink struct {
	Address   string `json:"address,omitempty"`
	Connected bool   `json:"connected"`
}

// RoleRecord is the role document stored by the external document
// collaborator, keyed by identity. ManuallyCreated marks administratively
// assigned records; it is owned by admin tooling and never written here.
type RoleRecord struct {
	Key             string `json:"key"`
	Role            Role   `json:"role"`
	ManuallyCreated bool   `json:"manually_created"`
}

// Snapshot is the combined view of identity, wallet link, and role held by the
// session store at one instant. Consumers receive copies and never mutate
// shared state through them.
type Snapshot struct {
	Identity *Identity  `json:"identity,omitempty"`
	Wallet   WalletLink `json:"wallet"`
	Role     Role       `json:"role,omitempty"`
}

// SignedIn reports whether an identity is present.
func (s Snapshot) SignedIn() bool { return s.Identity != nil && s.Identity.ID != "" }

// HasWalletAddress reports whether a wallet address is known for this session.
func (s Snapshot) HasWalletAddress() bool { return s.Wallet.Address != "" }

// Clone returns a deep copy of the snapshot so callers can hold it without
// aliasing the store's state.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Identity != nil {
		id := *s.Identity
		out.Identity = &id
	}
	return out
}

// Equal reports whether two snapshots carry the same observable state.
func (s Snapshot) Equal(other Snapshot) bool {
	if s.Role != other.Role || s.Wallet != other.Wallet {
		return false
	}
	switch {
	case s.Identity == nil && other.Identity == nil:
		return true
	case s.Identity == nil || other.Identity == nil:
		return false
	default:
		return *s.Identity == *other.Identity
	}
}
