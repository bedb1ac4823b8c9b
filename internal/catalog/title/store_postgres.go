// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/catalog/reference"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
)

const resource = "Title"

// psql builds queries with PostgreSQL $n placeholders; the list filters
// combine freely, so queries are assembled rather than written out.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// querier is the subset of pgx shared by the pool and transactions.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository implements [Repository] using pgx and squirrel.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Read Path

// col qualifies a column with a table alias.
func col(alias, column string) string {
	return alias + "." + column
}

// selectTitles is the base SELECT shared by List and FindByID. The rating is a
// correlated AVG over the title's reviews, evaluated on every read.
func selectTitles() sq.SelectBuilder {
	t, c, r := schema.CatalogTitle, schema.CatalogCategory, schema.SocialReview

	return psql.
		Select(
			col("t", t.ID), col("t", t.Name), col("t", t.Year), col("t", t.Description),
			col("c", c.ID), col("c", c.Name), col("c", c.Slug),
			fmt.Sprintf("(SELECT AVG(r.%s)::float8 FROM %s r WHERE r.%s = t.%s) AS rating",
				r.Score, r.Table, r.TitleID, t.ID),
		).
		From(t.Table + " t").
		LeftJoin(fmt.Sprintf("%s c ON c.%s = t.%s", c.Table, c.ID, t.CategoryID))
}

// titleRow receives one row of [selectTitles], with optional trailing columns.
type titleRow struct {
	title        Title
	categoryID   *int64
	categoryName *string
	categorySlug *string
}

func (row *titleRow) targets(extra ...any) []any {
	return append([]any{
		&row.title.ID, &row.title.Name, &row.title.Year, &row.title.Description,
		&row.categoryID, &row.categoryName, &row.categorySlug,
		&row.title.Rating,
	}, extra...)
}

func (row *titleRow) hydrate() *Title {
	title := row.title
	title.Genre = []*reference.Item{}
	if row.categoryID != nil {
		title.Category = &reference.Item{ID: *row.categoryID, Name: *row.categoryName, Slug: *row.categorySlug}
	}
	return &title
}

/*
List retrieves a filtered page of titles.

Description: Category, genre, name and year filters are optional and combine
with AND. COUNT(*) OVER() returns the total with the page.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter) ([]*Title, int, error) {
	t, c := schema.CatalogTitle, schema.CatalogCategory
	tg, g := schema.CatalogTitleGenre, schema.CatalogGenre

	builder := selectTitles().Column("COUNT(*) OVER() AS total_count")

	if filter.Category != "" {
		builder = builder.Where(sq.Eq{col("c", c.Slug): filter.Category})
	}
	if len(filter.Genres) > 0 {
		builder = builder.Where(sq.Expr(fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s tg JOIN %s g ON g.%s = tg.%s WHERE tg.%s = t.%s AND g.%s = ANY(?))",
			tg.Table, g.Table, g.ID, tg.GenreID, tg.TitleID, t.ID, g.Slug,
		), filter.Genres))
	}
	if filter.Name != "" {
		builder = builder.Where(sq.ILike{col("t", t.Name): postgres.ContainsPattern(filter.Name)})
	}
	if filter.Year != nil {
		builder = builder.Where(sq.Eq{col("t", t.Year): *filter.Year})
	}

	query, args, err := builder.
		OrderBy(col("t", t.ID) + " ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Errorf("title_list_query_build_failed: %w", err))
	}

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resource)
	}
	defer rows.Close()

	titles := make([]*Title, 0, filter.Limit)
	total := 0

	for rows.Next() {
		row := &titleRow{}
		if err := rows.Scan(row.targets(&total)...); err != nil {
			return nil, 0, dberr.Wrap(err, resource)
		}
		titles = append(titles, row.hydrate())
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resource)
	}

	if err := loadGenres(context, repository.pool, titles); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

// FindByID retrieves one hydrated title.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Title, error) {
	query, args, err := selectTitles().Where(sq.Eq{col("t", schema.CatalogTitle.ID): id}).ToSql()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("title_find_query_build_failed: %w", err))
	}

	row := &titleRow{}
	if err := repository.pool.QueryRow(context, query, args...).Scan(row.targets()...); err != nil {
		return nil, dberr.Wrap(err, resource)
	}

	title := row.hydrate()
	if err := loadGenres(context, repository.pool, []*Title{title}); err != nil {
		return nil, err
	}
	return title, nil
}

// loadGenres attaches genres to titles with one query.
func loadGenres(context context.Context, db querier, titles []*Title) error {
	if len(titles) == 0 {
		return nil
	}

	tg, g := schema.CatalogTitleGenre, schema.CatalogGenre

	byID := make(map[int64]*Title, len(titles))
	ids := make([]int64, 0, len(titles))
	for _, title := range titles {
		byID[title.ID] = title
		ids = append(ids, title.ID)
	}

	query, args, err := psql.
		Select(col("tg", tg.TitleID), col("g", g.ID), col("g", g.Name), col("g", g.Slug)).
		From(tg.Table + " tg").
		Join(fmt.Sprintf("%s g ON g.%s = tg.%s", g.Table, g.ID, tg.GenreID)).
		Where(col("tg", tg.TitleID)+" = ANY(?)", ids).
		OrderBy(col("g", g.Name) + " ASC").
		ToSql()
	if err != nil {
		return apperr.Internal(fmt.Errorf("title_genre_query_build_failed: %w", err))
	}

	rows, err := db.Query(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, "Genre")
	}
	defer rows.Close()

	for rows.Next() {
		var titleID int64
		genre := &reference.Item{}
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug); err != nil {
			return dberr.Wrap(err, "Genre")
		}
		if title, ok := byID[titleID]; ok {
			title.Genre = append(title.Genre, genre)
		}
	}

	return dberr.Wrap(rows.Err(), "Genre")
}

// # Write Path

// Create inserts the title and its genre links in one transaction.
func (repository *PostgresRepository) Create(context context.Context, title *Title) error {
	t := schema.CatalogTitle

	return postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		query, args, err := psql.
			Insert(t.Table).
			Columns(t.Name, t.Year, t.Description, t.CategoryID).
			Values(title.Name, title.Year, title.Description, categoryID(title)).
			Suffix("RETURNING " + t.ID).
			ToSql()
		if err != nil {
			return apperr.Internal(fmt.Errorf("title_insert_query_build_failed: %w", err))
		}

		if err := tx.QueryRow(context, query, args...).Scan(&title.ID); err != nil {
			return dberr.Wrap(err, resource)
		}

		return insertGenres(context, tx, title)
	})
}

// Update writes the title's columns and optionally replaces its genre links.
func (repository *PostgresRepository) Update(context context.Context, title *Title, replaceGenres bool) error {
	t, tg := schema.CatalogTitle, schema.CatalogTitleGenre

	return postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		query, args, err := psql.
			Update(t.Table).
			Set(t.Name, title.Name).
			Set(t.Year, title.Year).
			Set(t.Description, title.Description).
			Set(t.CategoryID, categoryID(title)).
			Where(sq.Eq{t.ID: title.ID}).
			ToSql()
		if err != nil {
			return apperr.Internal(fmt.Errorf("title_update_query_build_failed: %w", err))
		}

		tag, err := tx.Exec(context, query, args...)
		if err != nil {
			return dberr.Wrap(err, resource)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound(resource)
		}

		if !replaceGenres {
			return nil
		}

		unlink := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, tg.Table, tg.TitleID)
		if _, err := tx.Exec(context, unlink, title.ID); err != nil {
			return dberr.Wrap(err, "Genre")
		}

		return insertGenres(context, tx, title)
	})
}

// Delete removes a title; reviews, comments and genre links cascade.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	t := schema.CatalogTitle
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resource)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

func insertGenres(context context.Context, tx pgx.Tx, title *Title) error {
	if len(title.Genre) == 0 {
		return nil
	}

	tg := schema.CatalogTitleGenre
	builder := psql.Insert(tg.Table).Columns(tg.TitleID, tg.GenreID)
	for _, genre := range title.Genre {
		builder = builder.Values(title.ID, genre.ID)
	}

	query, args, err := builder.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return apperr.Internal(fmt.Errorf("title_genre_insert_query_build_failed: %w", err))
	}

	if _, err := tx.Exec(context, query, args...); err != nil {
		return dberr.Wrap(err, "Genre")
	}
	return nil
}

func categoryID(title *Title) *int64 {
	if title.Category == nil {
		return nil
	}
	return &title.Category.ID
}
