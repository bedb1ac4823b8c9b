// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/catalog/reference"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/slice"
)

// Service implements the title use cases.
type Service struct {
	repository Repository
	genres     Lookup
	categories Lookup
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new title [Service].
func NewService(repo Repository, genres, categories Lookup, logger *slog.Logger) *Service {
	return &Service{
		repository: repo,
		genres:     genres,
		categories: categories,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the wall clock used for the year rule.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// # Inputs

// CreateInput carries a new title. Genre and Category hold slugs.
type CreateInput struct {
	Name        string
	Year        *int
	Description *string
	Genre       []string
	Category    string
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Name        *string
	Year        *int
	Description *string
	Genre       *[]string
	Category    *string
}

// # Queries

// List returns a page of titles matching filter.
func (service *Service) List(context context.Context, filter Filter) ([]*Title, int, error) {
	filter.Name = strings.TrimSpace(filter.Name)
	return service.repository.List(context, filter)
}

// Get returns a single title with its current rating.
func (service *Service) Get(context context.Context, id int64) (*Title, error) {
	return service.repository.FindByID(context, id)
}

// # Commands

/*
Create validates and persists a new title.

Description: Name and year are required and the year may not lie in the
future. The category slug is required; it and every genre slug must resolve.

Returns:
  - *Title: The stored title, re-read so the payload matches a GET
  - error: ValidationError or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Title, error) {
	input.Name = strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	service.validateName(validator, input.Name)
	validator.Custom(FieldYear, input.Year == nil, "This field is required")
	if input.Year != nil {
		service.validateYear(validator, *input.Year)
	}

	category, err := service.resolveCategory(context, validator, input.Category)
	if err != nil {
		return nil, err
	}

	genres, err := service.resolveGenres(context, validator, input.Genre)
	if err != nil {
		return nil, err
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	title := &Title{
		Name:        input.Name,
		Year:        *input.Year,
		Description: input.Description,
		Genre:       genres,
		Category:    category,
	}

	if err := service.repository.Create(context, title); err != nil {
		return nil, fmt.Errorf("title_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "title_created", slog.Int64("title_id", title.ID))
	return service.repository.FindByID(context, title.ID)
}

/*
Update applies a partial update. Each supplied field is validated with the
same rule as on create; absent fields keep their values.
*/
func (service *Service) Update(context context.Context, id int64, input UpdateInput) (*Title, error) {
	title, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}

	if input.Name != nil {
		*input.Name = strings.TrimSpace(*input.Name)
		service.validateName(validator, *input.Name)
	}
	if input.Year != nil {
		service.validateYear(validator, *input.Year)
	}

	var category *reference.Item
	if input.Category != nil {
		if category, err = service.resolveCategory(context, validator, *input.Category); err != nil {
			return nil, err
		}
	}

	var genres []*reference.Item
	if input.Genre != nil {
		if genres, err = service.resolveGenres(context, validator, *input.Genre); err != nil {
			return nil, err
		}
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Name != nil {
		title.Name = *input.Name
	}
	if input.Year != nil {
		title.Year = *input.Year
	}
	if input.Description != nil {
		title.Description = input.Description
	}
	if category != nil {
		title.Category = category
	}
	if input.Genre != nil {
		title.Genre = genres
	}

	if err := service.repository.Update(context, title, input.Genre != nil); err != nil {
		return nil, fmt.Errorf("title_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "title_updated", slog.Int64("title_id", title.ID))
	return service.repository.FindByID(context, title.ID)
}

// Delete removes a title together with its reviews and comments.
func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repository.Delete(context, id); err != nil {
		return fmt.Errorf("title_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(context, "title_deleted", slog.Int64("title_id", id))
	return nil
}

// # Validation Helpers

func (service *Service) validateName(validator *validate.Validator, name string) {
	validator.
		Required(FieldName, name).
		MaxLen(FieldName, name, MaxNameLength)
}

// validateYear rejects years after the current one, read at write time.
func (service *Service) validateYear(validator *validate.Validator, year int) {
	validator.Custom(FieldYear, year > service.now().Year(), "Year cannot be in the future")
}

// resolveCategory records a field error unless slug names an existing category.
// Only storage failures are returned as errors.
func (service *Service) resolveCategory(context context.Context, validator *validate.Validator, slug string) (*reference.Item, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		validator.Required(FieldCategory, slug)
		return nil, nil
	}

	category, err := service.categories.FindBySlug(context, slug)
	if apperr.HasCode(err, apperr.CodeNotFound) {
		validator.Custom(FieldCategory, true, fmt.Sprintf("Unknown category %q", slug))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("title_service_category_lookup_failed: %w", err)
	}
	return category, nil
}

// resolveGenres records a field error for every slug without a genre.
func (service *Service) resolveGenres(context context.Context, validator *validate.Validator, slugs []string) ([]*reference.Item, error) {
	slugs = slice.Map(slugs, strings.TrimSpace)
	if len(slugs) == 0 {
		return []*reference.Item{}, nil
	}

	genres, err := service.genres.FindBySlugs(context, slugs)
	if err != nil {
		return nil, fmt.Errorf("title_service_genre_lookup_failed: %w", err)
	}

	known := make(map[string]bool, len(genres))
	for _, genre := range genres {
		known[genre.Slug] = true
	}

	for _, slug := range slugs {
		validator.Custom(FieldGenre, !known[slug], fmt.Sprintf("Unknown genre %q", slug))
	}

	return genres, nil
}
