// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reference manages the catalog's classification entries: genres and
categories.

Both share one shape (name plus unique slug) and one lifecycle (list, create,
read and delete by slug), so a single implementation serves each [Kind].
*/
package reference

import (
	"context"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Domain Entities

// Item is a genre or a category.
type Item struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Kind binds the shared implementation to one table.
type Kind struct {
	// Resource names the entity in error messages.
	Resource string
	Table    schema.ReferenceTable
}

var (
	// Genres is the kind stored in catalog.genre.
	Genres = Kind{Resource: "Genre", Table: schema.CatalogGenre}
	// Categories is the kind stored in catalog.category.
	Categories = Kind{Resource: "Category", Table: schema.CatalogCategory}
)

// Field names and limits.
const (
	FieldName = "name"
	FieldSlug = "slug"

	MaxNameLength = 256
	MaxSlugLength = 50
)

// ListFilter narrows a listing.
type ListFilter struct {
	// Search matches names containing the term, case-insensitively.
	Search string
	pagination.Params
}

// # Repository Contracts

// Repository defines the persistence contract for one [Kind].
type Repository interface {

	/*
		List returns a page of items ordered by name.

		Returns:
		  - []*Item: Page of items
		  - int: Total number of matches
		  - error: Storage failures
	*/
	List(context context.Context, filter ListFilter) ([]*Item, int, error)

	/*
		FindBySlug retrieves a single item.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	FindBySlug(context context.Context, slug string) (*Item, error)

	/*
		FindBySlugs retrieves every item whose slug is listed. Unknown slugs
		are simply absent from the result.
	*/
	FindBySlugs(context context.Context, slugs []string) ([]*Item, error)

	/*
		Create persists a new item and fills in its ID.

		Returns:
		  - error: apperr.Conflict when the slug is taken
	*/
	Create(context context.Context, item *Item) error

	/*
		DeleteBySlug removes an item. Titles lose the association.

		Returns:
		  - error: apperr.NotFound when nothing was deleted
	*/
	DeleteBySlug(context context.Context, slug string) error
}
