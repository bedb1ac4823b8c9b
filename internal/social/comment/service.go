// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/sanitize"
)

// Service implements the comment use cases.
type Service struct {
	repository Repository
	reviews    Reviews
	logger     *slog.Logger
}

// NewService constructs a comment [Service].
func NewService(repo Repository, reviews Reviews, logger *slog.Logger) *Service {
	return &Service{repository: repo, reviews: reviews, logger: logger}
}

// Path locates a review in the URL hierarchy.
type Path struct {
	TitleID  int64
	ReviewID int64
}

// List returns a page of the review's comments.
func (service *Service) List(context context.Context, path Path, params pagination.Params) ([]*Comment, int, error) {
	if _, err := service.reviews.Get(context, path.TitleID, path.ReviewID); err != nil {
		return nil, 0, err
	}
	return service.repository.List(context, path.ReviewID, params)
}

// Get returns a comment of the review at path.
func (service *Service) Get(context context.Context, path Path, id int64) (*Comment, error) {
	if _, err := service.reviews.Get(context, path.TitleID, path.ReviewID); err != nil {
		return nil, err
	}
	return service.repository.FindByID(context, path.ReviewID, id)
}

/*
Create posts a comment by authorID.

Returns:
  - *Comment: The stored comment, re-read with its author username
  - error: NotFound for an unknown title or review, ValidationError for empty text
*/
func (service *Service) Create(context context.Context, path Path, authorID int64, text string) (*Comment, error) {
	if _, err := service.reviews.Get(context, path.TitleID, path.ReviewID); err != nil {
		return nil, err
	}

	text = sanitize.Text(text)

	validator := &validate.Validator{}
	if err := validator.Required(FieldText, text).Err(); err != nil {
		return nil, err
	}

	comment := &Comment{ReviewID: path.ReviewID, AuthorID: authorID, Text: text}
	if err := service.repository.Create(context, comment); err != nil {
		return nil, fmt.Errorf("comment_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "comment_created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("review_id", path.ReviewID),
		slog.Int64("author_id", authorID),
	)

	return service.repository.FindByID(context, path.ReviewID, comment.ID)
}

// Update replaces the text of a loaded comment when text is supplied.
func (service *Service) Update(context context.Context, comment *Comment, text *string) (*Comment, error) {
	updated := *comment
	if text == nil {
		return &updated, nil
	}

	updated.Text = sanitize.Text(*text)

	validator := &validate.Validator{}
	if err := validator.Required(FieldText, updated.Text).Err(); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, &updated); err != nil {
		return nil, fmt.Errorf("comment_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "comment_updated", slog.Int64("comment_id", updated.ID))
	return &updated, nil
}

// Delete removes a loaded comment.
func (service *Service) Delete(context context.Context, comment *Comment) error {
	if err := service.repository.Delete(context, comment.ReviewID, comment.ID); err != nil {
		return fmt.Errorf("comment_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(context, "comment_deleted", slog.Int64("comment_id", comment.ID))
	return nil
}
