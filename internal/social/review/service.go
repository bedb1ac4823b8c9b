// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/sanitize"
)

// Service implements the review use cases.
type Service struct {
	repository Repository
	minScore   int
	maxScore   int
	logger     *slog.Logger
}

// NewService constructs a review [Service] accepting scores in [minScore, maxScore].
func NewService(repo Repository, minScore, maxScore int, logger *slog.Logger) *Service {
	return &Service{
		repository: repo,
		minScore:   minScore,
		maxScore:   maxScore,
		logger:     logger,
	}
}

// # Inputs

// CreateInput carries a new review. A nil Score is reported as missing.
type CreateInput struct {
	Text  string
	Score *int
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Text  *string
	Score *int
}

// # Queries

// List returns a page of the title's reviews. An unknown title is NotFound.
func (service *Service) List(context context.Context, titleID int64, params pagination.Params) ([]*Review, int, error) {
	if err := service.ensureTitle(context, titleID); err != nil {
		return nil, 0, err
	}
	return service.repository.List(context, titleID, params)
}

// Get returns a review that belongs to titleID.
func (service *Service) Get(context context.Context, titleID, id int64) (*Review, error) {
	return service.repository.FindByID(context, titleID, id)
}

// # Commands

/*
Create publishes a review by authorID on titleID.

Description: The title must exist, the sanitized text must be non-empty and
the score within bounds. A second review by the same author is rejected
before insertion; a concurrent insert that slips past the check is rejected
by storage with the same error.

Returns:
  - *Review: The stored review, re-read with its author username
  - error: NotFound, ValidationError, [ErrDuplicate] or storage failures
*/
func (service *Service) Create(context context.Context, titleID, authorID int64, input CreateInput) (*Review, error) {
	if err := service.ensureTitle(context, titleID); err != nil {
		return nil, err
	}

	text := sanitize.Text(input.Text)

	validator := &validate.Validator{}
	validator.Required(FieldText, text)
	validator.Custom(FieldScore, input.Score == nil, "This field is required")
	if input.Score != nil {
		validator.Range(FieldScore, *input.Score, service.minScore, service.maxScore)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	exists, err := service.repository.HasReview(context, titleID, authorID)
	if err != nil {
		return nil, fmt.Errorf("review_service_duplicate_check_failed: %w", err)
	}
	if exists {
		return nil, ErrDuplicate()
	}

	review := &Review{
		TitleID:  titleID,
		AuthorID: authorID,
		Text:     text,
		Score:    *input.Score,
	}

	if err := service.repository.Create(context, review); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("review_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "review_created",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", titleID),
		slog.Int64("author_id", authorID),
		slog.Int("score", review.Score),
	)

	return service.repository.FindByID(context, titleID, review.ID)
}

/*
Update applies a partial update to a loaded review. The caller has already
checked that the actor may modify it.
*/
func (service *Service) Update(context context.Context, review *Review, input UpdateInput) (*Review, error) {
	validator := &validate.Validator{}

	if input.Text != nil {
		text := sanitize.Text(*input.Text)
		validator.Required(FieldText, text)
		input.Text = &text
	}
	if input.Score != nil {
		validator.Range(FieldScore, *input.Score, service.minScore, service.maxScore)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	updated := *review
	if input.Text != nil {
		updated.Text = *input.Text
	}
	if input.Score != nil {
		updated.Score = *input.Score
	}

	if err := service.repository.Update(context, &updated); err != nil {
		return nil, fmt.Errorf("review_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "review_updated", slog.Int64("review_id", updated.ID))
	return &updated, nil
}

// Delete removes a loaded review together with its comments.
func (service *Service) Delete(context context.Context, review *Review) error {
	if err := service.repository.Delete(context, review.TitleID, review.ID); err != nil {
		return fmt.Errorf("review_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(context, "review_deleted",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", review.TitleID),
	)
	return nil
}

func (service *Service) ensureTitle(context context.Context, titleID int64) error {
	exists, err := service.repository.TitleExists(context, titleID)
	if err != nil {
		return fmt.Errorf("review_service_title_lookup_failed: %w", err)
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}
