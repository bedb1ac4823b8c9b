// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Full catalog management and user administration
	RoleAdmin UserRole = "admin"

	// Can edit or delete any review and comment
	RoleModerator UserRole = "moderator"

	// Default role for registered users
	RoleUser UserRole = "user"
)

// Roles lists every assignable role, in ascending privilege.
var Roles = []UserRole{RoleUser, RoleModerator, RoleAdmin}

// RoleNames returns [Roles] as plain strings, for enum validation.
func RoleNames() []string {
	names := make([]string, len(Roles))
	for i, role := range Roles {
		names[i] = string(role)
	}
	return names
}

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// RoleState is the role and superuser flag an account holds in storage.
type RoleState struct {
	Role      UserRole
	Superuser bool
}

// # Derived Capability

// EffectiveRole returns the role a user acts with.
//
// The superuser flag escalates to [RoleAdmin]. The stored role is left untouched,
// so demoting a superuser back to a plain account only needs the flag cleared.
func EffectiveRole(stored UserRole, isSuperuser bool) UserRole {
	if isSuperuser {
		return RoleAdmin
	}
	return stored
}
