// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user administration and the caller's own profile.

# Architecture

  - Admin surface: list, create, read, update and delete any account by username.
  - Self surface: /users/me read and update, where the role is never writable.
  - Operators: CreateSuperuser backs the yamdbctl command.

The package reuses the [auth.User] entity and its identity validation rules.
*/
package account

import (
	"context"

	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Query Types

// ListFilter narrows the admin user listing.
type ListFilter struct {
	// Search matches usernames containing the term, case-insensitively.
	Search string
	pagination.Params
}

// # Repository Contracts

// Repository defines the persistence contract for user accounts.
type Repository interface {

	/*
		List returns one page of accounts ordered by username.

		Returns:
		  - []*auth.User: Page of accounts
		  - int: Total number of matching accounts
		  - error: Storage failures
	*/
	List(context context.Context, filter ListFilter) ([]*auth.User, int, error)

	/*
		FindByID retrieves an account by its primary key.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id int64) (*auth.User, error)

	/*
		FindByUsername retrieves an account by its username.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*auth.User, error)

	/*
		Create persists a new account and fills in its ID and CreatedAt.

		Returns:
		  - error: apperr.ValidationError on username/email collisions
	*/
	Create(context context.Context, user *auth.User) error

	/*
		Update writes every mutable column of user.

		Returns:
		  - error: apperr.NotFound, apperr.ValidationError on collisions
	*/
	Update(context context.Context, user *auth.User) error

	/*
		Delete removes the account. Reviews, comments and the confirmation
		code go with it.

		Returns:
		  - error: apperr.NotFound when no row was deleted
	*/
	Delete(context context.Context, id int64) error
}

// RoleCache keeps the role state of recently seen accounts so that
// authentication does not hit Postgres on every request.
type RoleCache interface {

	/*
		Get returns the cached state of an account.

		Returns:
		  - bool: false on a cache miss
		  - error: connectivity failures
	*/
	Get(context context.Context, userID int64) (sec.RoleState, bool, error)

	// Set stores the state of an account.
	Set(context context.Context, userID int64, state sec.RoleState) error

	// Invalidate drops the cached state of an account.
	Invalidate(context context.Context, userID int64) error
}
