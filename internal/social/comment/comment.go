// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package comment manages replies to reviews.
//
// Comments live under a review which must itself belong to the title in the
// URL; a mismatch anywhere in the chain is reported as not found.
package comment

import (
	"context"
	"time"

	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Comment is a user's reply to a review.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"review"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// FieldText is the only writable field.
const FieldText = "text"

const resource = "Comment"

// Repository defines the persistence contract for comments, scoped to a review.
type Repository interface {
	List(context context.Context, reviewID int64, params pagination.Params) ([]*Comment, int, error)
	FindByID(context context.Context, reviewID, id int64) (*Comment, error)
	Create(context context.Context, comment *Comment) error
	Update(context context.Context, comment *Comment) error
	Delete(context context.Context, reviewID, id int64) error
}

// Reviews resolves the parent review. [*review.Service] satisfies it.
type Reviews interface {
	Get(context context.Context, titleID, id int64) (*review.Review, error)
}
