// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package review_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/catalog/title"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/postgres/pgtest"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

const migrationsPath = "../../../data/migrations"

/*
TestPostgres_UniqueGuard verifies that storage rejects a second review for the
same (title, author) and that concurrent creates leave exactly one row.
*/
func TestPostgres_UniqueGuard(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Start(t, migrationsPath)
	repo := review.NewPostgresRepository(pool)

	titleID := pgtest.InsertTitle(t, pool, "Stalker", 1979)
	authorID := pgtest.InsertUser(t, pool, "alice")

	require.NoError(t, repo.Create(ctx, &review.Review{TitleID: titleID, AuthorID: authorID, Text: "First", Score: 8}))

	// Straight to storage, skipping the service pre-check
	err := repo.Create(ctx, &review.Review{TitleID: titleID, AuthorID: authorID, Text: "Second", Score: 2})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict), "got %v", err)
	assert.Equal(t, "duplicate review", err.Error())

	service := review.NewService(repo, 1, 10, slog.New(slog.NewTextHandler(io.Discard, nil)))
	racerID := pgtest.InsertUser(t, pool, "racer")

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Create(ctx, titleID, racerID, review.CreateInput{
				Text:  fmt.Sprintf("attempt %d", i),
				Score: pointer.To(5),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case apperr.HasCode(err, apperr.CodeConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)
}

/*
TestPostgres_Rating verifies that the rating follows the current review rows.
*/
func TestPostgres_Rating(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Start(t, migrationsPath)
	reviews := review.NewPostgresRepository(pool)
	titles := title.NewPostgresRepository(pool)

	titleID := pgtest.InsertTitle(t, pool, "Solaris", 1972)

	got, err := titles.FindByID(ctx, titleID)
	require.NoError(t, err)
	assert.Nil(t, got.Rating)

	first := &review.Review{TitleID: titleID, AuthorID: pgtest.InsertUser(t, pool, "alice"), Text: "Good", Score: 8}
	require.NoError(t, reviews.Create(ctx, first))
	require.NoError(t, reviews.Create(ctx, &review.Review{
		TitleID: titleID, AuthorID: pgtest.InsertUser(t, pool, "bob"), Text: "Great", Score: 10,
	}))

	got, err = titles.FindByID(ctx, titleID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 9.0, *got.Rating, 1e-9)

	require.NoError(t, reviews.Delete(ctx, titleID, first.ID))

	got, err = titles.FindByID(ctx, titleID)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, *got.Rating, 1e-9)

	// Reviews of another title are invisible through this one
	otherID := pgtest.InsertTitle(t, pool, "Mirror", 1975)
	_, err = reviews.FindByID(ctx, otherID, first.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
