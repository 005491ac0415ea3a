// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Moderation and platform administration. Admins do not author content.
	RoleAdmin UserRole = "admin"

	// Default role for registered and social-login accounts
	RoleUser UserRole = "user"
)

// IsAdmin reports whether the role grants moderation rights.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// # Principal

// Principal is the identity attached to a request after its session has been
// resolved. It is rebuilt from the stored account on every request so that
// ban and role changes apply immediately.
type Principal struct {
	AccountID  string
	Email      string
	Role       UserRole
	IsBanned   bool
	IsVerified bool
}

// # Gate Messages

const (
	MsgLoginRequired = "not authorized, please login"
	MsgUserRequired  = "not authorized, user account required"
	MsgAccountBanned = "not authorized, account is banned"
	MsgAdminRequired = "not authorized, admin account required"
)
