// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/slug"
)

// Service orchestrates business rules for one [Kind].
type Service struct {
	repository Repository
	kind       Kind
	logger     *slog.Logger
}

// NewService constructs a new reference [Service].
func NewService(repo Repository, kind Kind, logger *slog.Logger) *Service {
	return &Service{repository: repo, kind: kind, logger: logger}
}

// Kind returns the kind this service manages.
func (service *Service) Kind() Kind {
	return service.kind
}

// CreateInput carries a new item. An empty Slug is derived from Name.
type CreateInput struct {
	Name string
	Slug string
}

// List returns a page of items and the total match count.
func (service *Service) List(context context.Context, filter ListFilter) ([]*Item, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return service.repository.List(context, filter)
}

// Get returns the item with the given slug.
func (service *Service) Get(context context.Context, slug string) (*Item, error) {
	return service.repository.FindBySlug(context, slug)
}

/*
Create validates and persists a new item.

Returns:
  - *Item: The persisted item
  - error: ValidationError, or Conflict when the slug is taken
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Item, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)

	validator := &validate.Validator{}
	validator.
		Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength)

	if input.Slug == "" && !validator.HasErrors() {
		input.Slug = slug.From(input.Name)
		validator.Custom(FieldSlug, input.Slug == "", "Cannot derive a slug from name, provide one")
	}

	if input.Slug != "" {
		validator.
			MaxLen(FieldSlug, input.Slug, MaxSlugLength).
			Slug(FieldSlug, input.Slug)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	item := &Item{Name: input.Name, Slug: input.Slug}
	if err := service.repository.Create(context, item); err != nil {
		return nil, fmt.Errorf("reference_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "reference_created",
		slog.String("kind", service.kind.Resource),
		slog.String("slug", item.Slug),
	)

	return item, nil
}

// Delete removes the item with the given slug.
func (service *Service) Delete(context context.Context, slug string) error {
	if err := service.repository.DeleteBySlug(context, slug); err != nil {
		return fmt.Errorf("reference_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(context, "reference_deleted",
		slog.String("kind", service.kind.Resource),
		slog.String("slug", slug),
	)
	return nil
}
