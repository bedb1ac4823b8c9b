// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SocialReviewTable represents the 'social.review' table
type SocialReviewTable struct {
	Table    string
	ID       string
	TitleID  string
	AuthorID string
	Text     string
	Score    string
	PubDate  string

	// UniqueTitleAuthor is the constraint guarding one review per author per title.
	UniqueTitleAuthor string
}

// SocialReview is the schema definition for social.review
var SocialReview = SocialReviewTable{
	Table:             "social.review",
	ID:                "id",
	TitleID:           "titleid",
	AuthorID:          "authorid",
	Text:              "text",
	Score:             "score",
	PubDate:           "pubdate",
	UniqueTitleAuthor: "review_title_author_key",
}

// Columns returns all standard column names
func (t SocialReviewTable) Columns() []string {
	return []string{t.ID, t.TitleID, t.AuthorID, t.Text, t.Score, t.PubDate}
}
