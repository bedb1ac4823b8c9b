// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements YaMDb identity: the user record, the confirmation-code
credential and the signup / token exchange flow.

# Architecture

  - User: identity with a stored role and a superuser flag.
  - ConfirmationCode: a single credential per user, replaced on every signup.
  - Service: RequestSignup and IssueToken, plus code issuance for operators.

Only the bcrypt hash of a code is persisted. The plain code exists in memory
long enough to be mailed (or printed by the operator CLI).
*/
package auth

import (
	"time"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// # Domain Entities

// User represents a registered YaMDb account.
type User struct {
	ID          int64        `json:"-"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Bio         string       `json:"bio"`
	Role        sec.UserRole `json:"role"`
	IsSuperuser bool         `json:"-"`
	CreatedAt   time.Time    `json:"-"`
}

// EffectiveRole returns the role the user acts with.
func (u *User) EffectiveRole() sec.UserRole {
	return sec.EffectiveRole(u.Role, u.IsSuperuser)
}

// TokenSubject returns the identity an access token is minted for.
func (u *User) TokenSubject() sec.TokenSubject {
	return sec.TokenSubject{
		UserID:    u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Superuser: u.IsSuperuser,
	}
}

// ConfirmationCode is the credential proving ownership of a user's email.
type ConfirmationCode struct {
	UserID     int64
	CodeHash   string
	IssuedAt   time.Time
	ConsumedAt *time.Time
}

// Consumed reports whether the code was already exchanged for a token.
func (c *ConfirmationCode) Consumed() bool {
	return c.ConsumedAt != nil
}

// # Field Identifiers

// Field names for validation and identity mapping.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldBio              = "bio"
	FieldRole             = "role"
)

// # Field Limits

const (
	MaxUsernameLength = 150
	MaxEmailLength    = 254
	MaxNameLength     = 150
	MaxBioLength      = 250
)
