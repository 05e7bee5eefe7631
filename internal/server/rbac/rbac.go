// Package rbac maps roles to capabilities and guards role changes.
//
// The mapping is a flat table per role rather than a linear hierarchy: each
// capability is declared independently for every role, even though in
// practice admin is a superset.
package rbac

import "github.com/dmitrijs2005/secureportal/internal/server/models"

// Role names. Anything else is invalid.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleGuest = "guest"
)

// Capabilities is the fixed capability set of one role.
type Capabilities struct {
	ViewSensitive         bool `json:"view_sensitive"`
	ViewPlaintext         bool `json:"view_plaintext"`
	ViewEncryptedMetadata bool `json:"view_encrypted_metadata"`
	SubmitRecords         bool `json:"submit_records"`
	AccessAuditLog        bool `json:"access_audit_log"`
	ManageIdentities      bool `json:"manage_identities"`
}

var roleTable = map[string]Capabilities{
	RoleAdmin: {
		ViewSensitive:         true,
		ViewPlaintext:         true,
		ViewEncryptedMetadata: true,
		SubmitRecords:         true,
		AccessAuditLog:        true,
		ManageIdentities:      true,
	},
	RoleUser: {
		ViewPlaintext: true,
		SubmitRecords: true,
	},
	RoleGuest: {},
}

// ForRole returns the capability set of a role. Unknown roles get the guest
// (empty) capability set.
func ForRole(role string) Capabilities {
	if c, ok := roleTable[role]; ok {
		return c
	}
	return roleTable[RoleGuest]
}

// IsValidRole reports whether role is one of the three declared roles.
func IsValidRole(role string) bool {
	_, ok := roleTable[role]
	return ok
}

// DefaultRole is assigned when registration supplies no or an invalid role.
func DefaultRole() string {
	return RoleGuest
}

// CanChangeRole reports whether actor may change target's role. Both halves
// of the condition are hard invariants: only the root identity may change
// roles, and the root identity's own role can never be changed (no lockout
// path). Denials are security-relevant and must be logged by the caller as a
// distinct denied event.
func CanChangeRole(actor, target *models.Identity) bool {
	if actor == nil || target == nil {
		return false
	}
	if !actor.IsRoot {
		return false
	}
	if target.IsRoot {
		return false
	}
	return true
}
