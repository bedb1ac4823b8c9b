// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// UserColumns is the SELECT list matching [ScanUser].
var UserColumns = strings.Join(schema.UserAccount.Columns(), ", ")

// ScanUser hydrates a [User] from a row selected with [UserColumns].
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.IsSuperuser,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		UserColumns, schema.UserAccount.Table, schema.UserAccount.Username)

	user, err := ScanUser(repository.pool.QueryRow(context, query, username))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		UserColumns, schema.UserAccount.Table, schema.UserAccount.Email)

	user, err := ScanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

/*
Create inserts a new account and fills in the generated ID and timestamp.

Description: A concurrent signup racing for the same username or email loses
on the unique constraints; that loss is reported as the same validation error
the service produces for a detected collision.
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Email, schema.UserAccount.FirstName,
		schema.UserAccount.LastName, schema.UserAccount.Bio, schema.UserAccount.Role,
		schema.UserAccount.IsSuperuser,
		schema.UserAccount.ID, schema.UserAccount.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.Username, user.Email, user.FirstName, user.LastName, user.Bio, user.Role, user.IsSuperuser,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return WrapIdentityError(err)
	}
	return nil
}

// WrapIdentityError maps unique violations on users.account to field errors.
func WrapIdentityError(err error) error {
	switch {
	case dberr.IsUniqueViolation(err, "account_username_key"):
		return apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: FieldUsername, Message: "A user with that username already exists"}).WithCause(err)
	case dberr.IsUniqueViolation(err, "account_email_key"),
		dberr.IsUniqueViolation(err, "account_username_email_key"):
		return apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: FieldEmail, Message: "A user with that email already exists"}).WithCause(err)
	}
	return dberr.Wrap(err, "User")
}

// # Confirmation Code Repository

// PostgresCodeRepository implements [CodeRepository] using pgx.
type PostgresCodeRepository struct {
	pool *pgxpool.Pool
}

// NewCodeRepository creates a new PostgreSQL implementation of the CodeRepository.
func NewCodeRepository(pool *pgxpool.Pool) *PostgresCodeRepository {
	return &PostgresCodeRepository{pool: pool}
}

// Replace upserts the user's code and clears its consumption mark.
func (repository *PostgresCodeRepository) Replace(context context.Context, code *ConfirmationCode) error {
	table := schema.UserConfirmationCode
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NULL)
		ON CONFLICT (%s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = NULL`,
		table.Table, table.UserID, table.CodeHash, table.IssuedAt, table.ConsumedAt,
		table.UserID,
		table.CodeHash, table.CodeHash, table.IssuedAt, table.IssuedAt, table.ConsumedAt,
	)

	if _, err := repository.pool.Exec(context, query, code.UserID, code.CodeHash, code.IssuedAt); err != nil {
		return dberr.Wrap(err, "Confirmation code")
	}
	return nil
}

// Find returns the user's current code.
func (repository *PostgresCodeRepository) Find(context context.Context, userID int64) (*ConfirmationCode, error) {
	table := schema.UserConfirmationCode
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		table.UserID, table.CodeHash, table.IssuedAt, table.ConsumedAt, table.Table, table.UserID)

	code := &ConfirmationCode{}
	err := repository.pool.QueryRow(context, query, userID).Scan(
		&code.UserID, &code.CodeHash, &code.IssuedAt, &code.ConsumedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Confirmation code")
	}
	return code, nil
}

// MarkConsumed sets consumedat only if it is still NULL, so concurrent
// exchanges agree on a single winner.
func (repository *PostgresCodeRepository) MarkConsumed(context context.Context, userID int64, at time.Time) (bool, error) {
	table := schema.UserConfirmationCode
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1 AND %s IS NULL`,
		table.Table, table.ConsumedAt, table.UserID, table.ConsumedAt)

	tag, err := repository.pool.Exec(context, query, userID, at)
	if err != nil {
		return false, dberr.Wrap(err, "Confirmation code")
	}
	return tag.RowsAffected() == 1, nil
}
