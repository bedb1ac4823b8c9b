// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectReviews joins the author so every read carries the username.
func selectReviews(extra string) string {
	r, a := schema.SocialReview, schema.UserAccount
	return fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s%s
		FROM %s r
		JOIN %s a ON a.%s = r.%s`,
		r.ID, r.TitleID, r.AuthorID, a.Username, r.Text, r.Score, r.PubDate, extra,
		r.Table,
		a.Table, a.ID, r.AuthorID,
	)
}

func scanTargets(review *Review, extra ...any) []any {
	return append([]any{
		&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
		&review.Text, &review.Score, &review.PubDate,
	}, extra...)
}

// # Read Path

// TitleExists reports whether the title row is present.
func (repository *PostgresRepository) TitleExists(context context.Context, titleID int64) (bool, error) {
	t := schema.CatalogTitle
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, t.Table, t.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, titleID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "Title")
	}
	return exists, nil
}

// HasReview reports whether the author already reviewed the title.
func (repository *PostgresRepository) HasReview(context context.Context, titleID, authorID int64) (bool, error) {
	r := schema.SocialReview
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		r.Table, r.TitleID, r.AuthorID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, titleID, authorID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, resource)
	}
	return exists, nil
}

// List returns a page of the title's reviews with COUNT(*) OVER() as total.
func (repository *PostgresRepository) List(context context.Context, titleID int64, params pagination.Params) ([]*Review, int, error) {
	r := schema.SocialReview
	query := selectReviews(", COUNT(*) OVER() AS total_count") +
		fmt.Sprintf(` WHERE r.%s = $1 ORDER BY r.%s ASC LIMIT $2 OFFSET $3`, r.TitleID, r.ID)

	rows, err := repository.pool.Query(context, query, titleID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, resource)
	}
	defer rows.Close()

	reviews := make([]*Review, 0, params.Limit)
	total := 0

	for rows.Next() {
		review := &Review{}
		if err := rows.Scan(scanTargets(review, &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, resource)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resource)
	}

	return reviews, total, nil
}

// FindByID retrieves a review only when it belongs to titleID.
func (repository *PostgresRepository) FindByID(context context.Context, titleID, id int64) (*Review, error) {
	r := schema.SocialReview
	query := selectReviews("") + fmt.Sprintf(` WHERE r.%s = $1 AND r.%s = $2`, r.ID, r.TitleID)

	review := &Review{}
	if err := repository.pool.QueryRow(context, query, id, titleID).Scan(scanTargets(review)...); err != nil {
		return nil, dberr.Wrap(err, resource)
	}
	return review, nil
}

// # Write Path

/*
Create inserts a review.

Description: A unique violation on (titleid, authorid) is reported as
[ErrDuplicate]; it happens when a concurrent request inserted first.
*/
func (repository *PostgresRepository) Create(context context.Context, review *Review) error {
	r := schema.SocialReview
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s`,
		r.Table, r.TitleID, r.AuthorID, r.Text, r.Score,
		r.ID, r.PubDate,
	)

	err := repository.pool.QueryRow(context, query,
		review.TitleID, review.AuthorID, review.Text, review.Score,
	).Scan(&review.ID, &review.PubDate)

	if dberr.IsUniqueViolation(err, r.UniqueTitleAuthor) {
		return ErrDuplicate().WithCause(err)
	}
	return dberr.Wrap(err, resource)
}

// Update writes text and score; the title and author columns are never touched.
func (repository *PostgresRepository) Update(context context.Context, review *Review) error {
	r := schema.SocialReview
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3 AND %s = $4`,
		r.Table, r.Text, r.Score, r.ID, r.TitleID)

	tag, err := repository.pool.Exec(context, query, review.Text, review.Score, review.ID, review.TitleID)
	if err != nil {
		return dberr.Wrap(err, resource)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

// Delete removes a review of the title; its comments cascade.
func (repository *PostgresRepository) Delete(context context.Context, titleID, id int64) error {
	r := schema.SocialReview
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, r.Table, r.ID, r.TitleID)

	tag, err := repository.pool.Exec(context, query, id, titleID)
	if err != nil {
		return dberr.Wrap(err, resource)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}
