// Package identity carries the authenticated caller from the HTTP layer into services.
package identity

import "github.com/google/uuid"

// Role values carried in access tokens
const (
	RoleUser    = "USER"
	RoleCompany = "COMPANY"
	RoleAdmin   = "ADMIN"
)

// Actor is the caller as established from a verified token, never from request bodies
type Actor struct {
	UserID      uuid.UUID
	Email       string
	Role        string
	CompagnieID *uuid.UUID
}

// System is used by background jobs and the CLI
var System = Actor{Role: RoleAdmin}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsStaffOf reports whether the actor works for the given compagnie
func (a Actor) IsStaffOf(compagnieID uuid.UUID) bool {
	return a.CompagnieID != nil && *a.CompagnieID == compagnieID
}

// CanManageCompagnie reports whether the actor may act on data owned by compagnieID
func (a Actor) CanManageCompagnie(compagnieID uuid.UUID) bool {
	return a.IsAdmin() || a.IsStaffOf(compagnieID)
}

// RoleFor derives the token role from profile flags
func RoleFor(admin bool, compagnieID *uuid.UUID) string {
	switch {
	case admin:
		return RoleAdmin
	case compagnieID != nil:
		return RoleCompany
	default:
		return RoleUser
	}
}
