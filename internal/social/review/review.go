// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review manages title reviews and guards their integrity.

# Architecture

  - One review per (title, author): the service pre-checks for a friendly
    error, the UNIQUE constraint on social.review is the authoritative guard.
  - Score bounds come from configuration; text is stripped of markup.
  - Title and author are fixed at creation; PATCH touches text and score only.

A title's rating is the AVG of these scores, computed by the title store on read.
*/
package review

import (
	"context"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Domain Entities

// Review is a user's scored opinion of a title.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"title"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// Field names.
const (
	FieldText  = "text"
	FieldScore = "score"
)

const resource = "Review"

// ErrDuplicate is returned when the author already reviewed the title.
func ErrDuplicate() *apperr.AppError {
	return apperr.Conflict("duplicate review")
}

// # Repository Contracts

// Repository defines the persistence contract for reviews. Every lookup is
// scoped to a title: a review id under the wrong title is not found.
type Repository interface {

	// TitleExists reports whether the title is present.
	TitleExists(context context.Context, titleID int64) (bool, error)

	// HasReview reports whether authorID already reviewed titleID.
	HasReview(context context.Context, titleID, authorID int64) (bool, error)

	/*
		List returns one page of the title's reviews ordered by id.

		Returns:
		  - []*Review: Page of reviews with author usernames
		  - int: Total reviews of the title
		  - error: Storage failures
	*/
	List(context context.Context, titleID int64, params pagination.Params) ([]*Review, int, error)

	/*
		FindByID retrieves a review of the given title.

		Returns:
		  - error: apperr.NotFound when missing or attached to another title
	*/
	FindByID(context context.Context, titleID, id int64) (*Review, error)

	/*
		Create inserts the review and fills ID and PubDate.

		Returns:
		  - error: [ErrDuplicate] on a unique violation of (title, author)
	*/
	Create(context context.Context, review *Review) error

	// Update writes text and score.
	Update(context context.Context, review *Review) error

	// Delete removes the review and, by cascade, its comments.
	Delete(context context.Context, titleID, id int64) error
}
