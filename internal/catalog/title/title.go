// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title manages catalog titles: the works users review.

# Architecture

  - Title: name, year, optional description, one category and many genres.
  - Rating: the mean review score, computed by the store on every read.
  - Service: validates writes, resolving genre and category slugs to entries.

Deleting a category leaves its titles uncategorised; deleting a genre drops
only the association.
*/
package title

import (
	"context"

	"github.com/taibuivan/yamdb/internal/catalog/reference"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Domain Entities

// Title is a catalog work as presented to readers.
type Title struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Description *string           `json:"description"`
	Rating      *float64          `json:"rating"`
	Genre       []*reference.Item `json:"genre"`
	Category    *reference.Item   `json:"category"`
}

// Field names and limits.
const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldGenre       = "genre"
	FieldCategory    = "category"

	MaxNameLength = 256
)

// Filter narrows a title listing. Zero values disable a criterion.
type Filter struct {
	// Category is a category slug.
	Category string
	// Genres are genre slugs; a title matches when it has any of them.
	Genres []string
	// Name matches titles whose name contains it, case-insensitively.
	Name string
	// Year matches exactly.
	Year *int
	pagination.Params
}

// # Repository Contracts

// Repository defines the persistence contract for titles.
type Repository interface {

	/*
		List returns one page of titles ordered by id, with ratings.

		Returns:
		  - []*Title: Page of hydrated titles
		  - int: Total number of matches
		  - error: Storage failures
	*/
	List(context context.Context, filter Filter) ([]*Title, int, error)

	/*
		FindByID retrieves a hydrated title with its rating.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id int64) (*Title, error)

	/*
		Create persists the title and its genre associations atomically.
	*/
	Create(context context.Context, title *Title) error

	/*
		Update writes the title's columns. When replaceGenres is true the
		genre associations are replaced by title.Genre in the same transaction.

		Returns:
		  - error: apperr.NotFound when the title no longer exists
	*/
	Update(context context.Context, title *Title, replaceGenres bool) error

	/*
		Delete removes the title with its reviews and comments.

		Returns:
		  - error: apperr.NotFound when nothing was deleted
	*/
	Delete(context context.Context, id int64) error
}

// Lookup resolves reference slugs. [reference.Repository] satisfies it.
type Lookup interface {
	FindBySlug(context context.Context, slug string) (*reference.Item, error)
	FindBySlugs(context context.Context, slugs []string) ([]*reference.Item, error)
}
