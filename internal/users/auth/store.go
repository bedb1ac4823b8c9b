// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the identity lookups and inserts the signup flow needs.
type UserRepository interface {

	/*
		FindByUsername returns the account with the given username.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a new account and fills in its ID and CreatedAt.

		Returns:
		  - error: apperr.ValidationError on username/email collisions, or database failures
	*/
	Create(context context.Context, user *User) error
}

// # Credential Data Access

// CodeRepository stores the single confirmation code owned by each user.
type CodeRepository interface {

	/*
		Replace stores code as the user's only confirmation code, discarding
		any previous one.
	*/
	Replace(context context.Context, code *ConfirmationCode) error

	/*
		Find returns the user's current confirmation code.

		Returns:
		  - error: apperr.NotFound when no code was ever issued
	*/
	Find(context context.Context, userID int64) (*ConfirmationCode, error)

	/*
		MarkConsumed records the first successful exchange of the code.

		Returns:
		  - bool: true when this call performed the transition (consumedat was NULL)
		  - error: database failures
	*/
	MarkConsumed(context context.Context, userID int64, at time.Time) (bool, error)
}

// # Volatile Data Access

// CooldownRepository throttles repeated signups for the same email.
type CooldownRepository interface {

	/*
		Acquire claims the cooldown window for key.

		Returns:
		  - bool: false when the window is still held by an earlier call
		  - time.Duration: remaining window when not acquired
		  - error: connectivity failures
	*/
	Acquire(context context.Context, key string, window time.Duration) (bool, time.Duration, error)

	// Release frees a window early. Releasing an unheld key is not an error.
	Release(context context.Context, key string) error
}
