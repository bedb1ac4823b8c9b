// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
)

// PostgresRepository implements [Repository] for one [Kind] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
	kind Kind
}

// NewPostgresRepository returns a repository bound to kind's table.
func NewPostgresRepository(pool *pgxpool.Pool, kind Kind) *PostgresRepository {
	return &PostgresRepository{pool: pool, kind: kind}
}

// List retrieves a page of items with the total match count.
func (repository *PostgresRepository) List(context context.Context, filter ListFilter) ([]*Item, int, error) {
	table := repository.kind.Table

	where := "TRUE"
	args := []any{}

	if filter.Search != "" {
		args = append(args, postgres.ContainsPattern(filter.Search))
		where = fmt.Sprintf("%s ILIKE $%d", table.Name, len(args))
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s
		ORDER BY %s ASC, %s ASC
		LIMIT $%d OFFSET $%d`,
		table.ID, table.Name, table.Slug,
		table.Table, where, table.Name, table.ID, len(args)-1, len(args),
	)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, repository.kind.Resource)
	}
	defer rows.Close()

	items := make([]*Item, 0, filter.Limit)
	total := 0

	for rows.Next() {
		item := &Item{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Slug, &total); err != nil {
			return nil, 0, dberr.Wrap(err, repository.kind.Resource)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, repository.kind.Resource)
	}

	return items, total, nil
}

// FindBySlug retrieves a single item by slug.
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Item, error) {
	table := repository.kind.Table
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		table.ID, table.Name, table.Slug, table.Table, table.Slug)

	item := &Item{}
	if err := repository.pool.QueryRow(context, query, slug).Scan(&item.ID, &item.Name, &item.Slug); err != nil {
		return nil, dberr.Wrap(err, repository.kind.Resource)
	}
	return item, nil
}

// FindBySlugs retrieves every item whose slug appears in slugs.
func (repository *PostgresRepository) FindBySlugs(context context.Context, slugs []string) ([]*Item, error) {
	if len(slugs) == 0 {
		return []*Item{}, nil
	}

	table := repository.kind.Table
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = ANY($1) ORDER BY %s ASC`,
		table.ID, table.Name, table.Slug, table.Table, table.Slug, table.Name)

	rows, err := repository.pool.Query(context, query, slugs)
	if err != nil {
		return nil, dberr.Wrap(err, repository.kind.Resource)
	}
	defer rows.Close()

	items := make([]*Item, 0, len(slugs))
	for rows.Next() {
		item := &Item{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Slug); err != nil {
			return nil, dberr.Wrap(err, repository.kind.Resource)
		}
		items = append(items, item)
	}

	return items, dberr.Wrap(rows.Err(), repository.kind.Resource)
}

// Create inserts a new item.
func (repository *PostgresRepository) Create(context context.Context, item *Item) error {
	table := repository.kind.Table
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		table.Table, table.Name, table.Slug, table.ID)

	err := repository.pool.QueryRow(context, query, item.Name, item.Slug).Scan(&item.ID)
	return dberr.Wrap(err, repository.kind.Resource)
}

// DeleteBySlug removes an item by slug.
func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	table := repository.kind.Table
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.Slug)

	tag, err := repository.pool.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, repository.kind.Resource)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound(repository.kind.Resource)
	}
	return nil
}
