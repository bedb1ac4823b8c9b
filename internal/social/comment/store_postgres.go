// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

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

func selectComments(extra string) string {
	c, a := schema.SocialComment, schema.UserAccount
	return fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, a.%s, c.%s, c.%s%s
		FROM %s c
		JOIN %s a ON a.%s = c.%s`,
		c.ID, c.ReviewID, c.AuthorID, a.Username, c.Text, c.PubDate, extra,
		c.Table,
		a.Table, a.ID, c.AuthorID,
	)
}

func scanTargets(comment *Comment, extra ...any) []any {
	return append([]any{
		&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
		&comment.Text, &comment.PubDate,
	}, extra...)
}

// List returns a page of the review's comments ordered by id.
func (repository *PostgresRepository) List(context context.Context, reviewID int64, params pagination.Params) ([]*Comment, int, error) {
	c := schema.SocialComment
	query := selectComments(", COUNT(*) OVER() AS total_count") +
		fmt.Sprintf(` WHERE c.%s = $1 ORDER BY c.%s ASC LIMIT $2 OFFSET $3`, c.ReviewID, c.ID)

	rows, err := repository.pool.Query(context, query, reviewID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, resource)
	}
	defer rows.Close()

	comments := make([]*Comment, 0, params.Limit)
	total := 0

	for rows.Next() {
		comment := &Comment{}
		if err := rows.Scan(scanTargets(comment, &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, resource)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resource)
	}

	return comments, total, nil
}

// FindByID retrieves a comment only when it belongs to reviewID.
func (repository *PostgresRepository) FindByID(context context.Context, reviewID, id int64) (*Comment, error) {
	c := schema.SocialComment
	query := selectComments("") + fmt.Sprintf(` WHERE c.%s = $1 AND c.%s = $2`, c.ID, c.ReviewID)

	comment := &Comment{}
	if err := repository.pool.QueryRow(context, query, id, reviewID).Scan(scanTargets(comment)...); err != nil {
		return nil, dberr.Wrap(err, resource)
	}
	return comment, nil
}

// Create inserts a comment and fills ID and PubDate.
func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	c := schema.SocialComment
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s`,
		c.Table, c.ReviewID, c.AuthorID, c.Text,
		c.ID, c.PubDate,
	)

	err := repository.pool.QueryRow(context, query, comment.ReviewID, comment.AuthorID, comment.Text).
		Scan(&comment.ID, &comment.PubDate)
	return dberr.Wrap(err, resource)
}

// Update writes the comment text.
func (repository *PostgresRepository) Update(context context.Context, comment *Comment) error {
	c := schema.SocialComment
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2 AND %s = $3`,
		c.Table, c.Text, c.ID, c.ReviewID)

	tag, err := repository.pool.Exec(context, query, comment.Text, comment.ID, comment.ReviewID)
	if err != nil {
		return dberr.Wrap(err, resource)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

// Delete removes a comment of the review.
func (repository *PostgresRepository) Delete(context context.Context, reviewID, id int64) error {
	c := schema.SocialComment
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, c.Table, c.ID, c.ReviewID)

	tag, err := repository.pool.Exec(context, query, id, reviewID)
	if err != nil {
		return dberr.Wrap(err, resource)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}
