// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
List retrieves a page of accounts with the total match count.

Description: The total comes from COUNT(*) OVER() so one round trip serves
both the page and its metadata.
*/
func (repository *PostgresRepository) List(context context.Context, filter ListFilter) ([]*auth.User, int, error) {
	table := schema.UserAccount

	where := "TRUE"
	args := []any{}

	if filter.Search != "" {
		args = append(args, postgres.ContainsPattern(filter.Search))
		where = fmt.Sprintf("%s ILIKE $%d", table.Username, len(args))
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s
		ORDER BY %s ASC
		LIMIT $%d OFFSET $%d`,
		auth.UserColumns, table.Table, where, table.Username, len(args)-1, len(args),
	)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}
	defer rows.Close()

	users := make([]*auth.User, 0, filter.Limit)
	total := 0

	for rows.Next() {
		user := &auth.User{}
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
			&user.Bio, &user.Role, &user.IsSuperuser, &user.CreatedAt, &total,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "User")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}

	return users, total, nil
}

// FindByID retrieves an account by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		auth.UserColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	user, err := auth.ScanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

// FindByUsername retrieves an account by username.
func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*auth.User, error) {
	return auth.NewUserRepository(repository.pool).FindByUsername(context, username)
}

// Create inserts a new account.
func (repository *PostgresRepository) Create(context context.Context, user *auth.User) error {
	return auth.NewUserRepository(repository.pool).Create(context, user)
}

// Update writes the mutable columns of an existing account.
func (repository *PostgresRepository) Update(context context.Context, user *auth.User) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8
		WHERE %s = $1`,
		table.Table,
		table.Username, table.Email, table.FirstName, table.LastName, table.Bio, table.Role, table.IsSuperuser,
		table.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		user.ID, user.Username, user.Email, user.FirstName, user.LastName, user.Bio, user.Role, user.IsSuperuser,
	)
	if err != nil {
		return auth.WrapIdentityError(err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// Delete removes an account by primary key.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.UserAccount.Table, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "User")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}
