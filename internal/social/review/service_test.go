// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

/*
TestCreate_OnePerAuthor verifies that a second review of the same title by the
same author is a conflict and leaves a single row.
*/
func TestCreate_OnePerAuthor(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	service := newService(repo)

	first, err := service.Create(ctx, 1, 10, review.CreateInput{Text: "Great", Score: pointer.To(9)})
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Author)
	assert.Equal(t, int64(1), first.TitleID)

	_, err = service.Create(ctx, 1, 10, review.CreateInput{Text: "Again", Score: pointer.To(3)})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
	assert.Equal(t, "duplicate review", err.Error())

	// Same author, other title; other author, same title
	_, err = service.Create(ctx, 2, 10, review.CreateInput{Text: "Fine", Score: pointer.To(6)})
	assert.NoError(t, err)
	_, err = service.Create(ctx, 1, 11, review.CreateInput{Text: "Meh", Score: pointer.To(4)})
	assert.NoError(t, err)

	_, total, err := service.List(ctx, 1, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

/*
TestCreate_StorageGuard verifies that a duplicate missed by the pre-check is
still reported as the same conflict.
*/
func TestCreate_StorageGuard(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	service := newService(repo)

	_, err := service.Create(ctx, 1, 10, review.CreateInput{Text: "Great", Score: pointer.To(9)})
	require.NoError(t, err)

	repo.skipPrecheck = true
	_, err = service.Create(ctx, 1, 10, review.CreateInput{Text: "Race", Score: pointer.To(2)})

	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
	assert.Len(t, repo.rows, 1)
}

/*
TestCreate_Validation verifies title existence, text and score bounds.
*/
func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	service := newService(newMemoryRepository())

	_, err := service.Create(ctx, 99, 10, review.CreateInput{Text: "x", Score: pointer.To(5)})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	tests := []struct {
		name  string
		input review.CreateInput
		field string
	}{
		{"score below", review.CreateInput{Text: "x", Score: pointer.To(0)}, review.FieldScore},
		{"score above", review.CreateInput{Text: "x", Score: pointer.To(11)}, review.FieldScore},
		{"score missing", review.CreateInput{Text: "x"}, review.FieldScore},
		{"empty text", review.CreateInput{Text: "   ", Score: pointer.To(5)}, review.FieldText},
		{"markup only", review.CreateInput{Text: "<script>x()</script>", Score: pointer.To(5)}, review.FieldText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, 1, 10, tt.input)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, apperr.CodeValidation, appError.Code)
			require.Len(t, appError.Details, 1)
			assert.Equal(t, tt.field, appError.Details[0].Field)
		})
	}

	for _, score := range []int{1, 10} {
		_, err := service.Create(ctx, 1, int64(10+score), review.CreateInput{Text: "edge", Score: pointer.To(score)})
		assert.NoError(t, err, "score %d", score)
	}
}

/*
TestUpdate verifies partial updates with the create-time rules.
*/
func TestUpdate(t *testing.T) {
	ctx := context.Background()
	service := newService(newMemoryRepository())

	created, err := service.Create(ctx, 1, 10, review.CreateInput{Text: "Good", Score: pointer.To(7)})
	require.NoError(t, err)

	updated, err := service.Update(ctx, created, review.UpdateInput{Score: pointer.To(8)})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Score)
	assert.Equal(t, "Good", updated.Text)
	assert.Equal(t, created.TitleID, updated.TitleID)
	assert.Equal(t, created.AuthorID, updated.AuthorID)

	updated, err = service.Update(ctx, updated, review.UpdateInput{Text: pointer.To("<i>Very</i> good")})
	require.NoError(t, err)
	assert.Equal(t, "Very good", updated.Text)

	_, err = service.Update(ctx, updated, review.UpdateInput{Score: pointer.To(42), Text: pointer.To("")})
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Len(t, appError.Details, 2)

	stored, err := service.Get(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Score)
}

/*
TestGet_ScopedToTitle verifies that a review is not reachable under another title.
*/
func TestGet_ScopedToTitle(t *testing.T) {
	ctx := context.Background()
	service := newService(newMemoryRepository())

	created, err := service.Create(ctx, 1, 10, review.CreateInput{Text: "Good", Score: pointer.To(7)})
	require.NoError(t, err)

	_, err = service.Get(ctx, 2, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	require.NoError(t, service.Delete(ctx, created))
	_, err = service.Get(ctx, 1, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	// The author may review again once the first review is gone
	_, err = service.Create(ctx, 1, 10, review.CreateInput{Text: "Second look", Score: pointer.To(8)})
	assert.NoError(t, err)
}
