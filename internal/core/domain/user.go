package domain

import (
	"strings"
	"time"
)

// Role is the coarse access level of a user account.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
	RoleClient  Role = "client"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleAdmin, RoleManager, RoleUser, RoleClient}

// PermissionAll grants every capability.
const PermissionAll = "*"

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User models an account that can act on the store: staff in the back office
// or a client's portal login.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Role         Role      `json:"role"`
	Permissions  []string  `json:"permissions"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPermission reports whether the user holds perm, either directly or via
// the wildcard permission.
func (u *User) HasPermission(perm string) bool {
	for _, p := range u.Permissions {
		if p == PermissionAll || p == perm {
			return true
		}
	}
	return false
}

// NormalizeEmail returns the canonical stored form of an address: trimmed and
// lowercased, so uniqueness checks are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
