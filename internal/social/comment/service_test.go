// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/social/comment"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// # Fakes

// reviewsByTitle holds review 1 on title 1 and review 2 on title 2.
type reviewsByTitle map[int64]int64

func (m reviewsByTitle) Get(_ context.Context, titleID, id int64) (*review.Review, error) {
	if owner, ok := m[id]; !ok || owner != titleID {
		return nil, apperr.NotFound("Review")
	}
	return &review.Review{ID: id, TitleID: titleID}, nil
}

type memoryRepository struct {
	rows   map[int64]comment.Comment
	nextID int64
}

func (m *memoryRepository) List(_ context.Context, reviewID int64, params pagination.Params) ([]*comment.Comment, int, error) {
	var all []*comment.Comment
	for _, row := range m.rows {
		if row.ReviewID == reviewID {
			all = append(all, &row)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	start := min(params.Offset(), len(all))
	end := min(start+params.Limit, len(all))
	return all[start:end], len(all), nil
}

func (m *memoryRepository) FindByID(_ context.Context, reviewID, id int64) (*comment.Comment, error) {
	row, ok := m.rows[id]
	if !ok || row.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	return &row, nil
}

func (m *memoryRepository) Create(_ context.Context, c *comment.Comment) error {
	m.nextID++
	c.ID = m.nextID
	c.PubDate = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	m.rows[c.ID] = *c
	return nil
}

func (m *memoryRepository) Update(_ context.Context, c *comment.Comment) error {
	if _, ok := m.rows[c.ID]; !ok {
		return apperr.NotFound("Comment")
	}
	m.rows[c.ID] = *c
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, reviewID, id int64) error {
	row, ok := m.rows[id]
	if !ok || row.ReviewID != reviewID {
		return apperr.NotFound("Comment")
	}
	delete(m.rows, id)
	return nil
}

func newService() *comment.Service {
	repo := &memoryRepository{rows: map[int64]comment.Comment{}}
	reviews := reviewsByTitle{1: 1, 2: 2}
	return comment.NewService(repo, reviews, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// # Tests

/*
TestService verifies the review chain, text validation and partial update.
*/
func TestService(t *testing.T) {
	ctx := context.Background()
	service := newService()
	at := comment.Path{TitleID: 1, ReviewID: 1}

	created, err := service.Create(ctx, at, 10, "<em>Agreed</em>")
	require.NoError(t, err)
	assert.Equal(t, "Agreed", created.Text)
	assert.Equal(t, int64(1), created.ReviewID)

	_, err = service.Create(ctx, at, 10, " ")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	// Review 2 belongs to title 2
	_, err = service.Create(ctx, comment.Path{TitleID: 1, ReviewID: 2}, 10, "Hi")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	_, err = service.Get(ctx, comment.Path{TitleID: 2, ReviewID: 1}, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	unchanged, err := service.Update(ctx, created, nil)
	require.NoError(t, err)
	assert.Equal(t, "Agreed", unchanged.Text)

	_, err = service.Update(ctx, created, pointer.To(""))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	updated, err := service.Update(ctx, created, pointer.To("Disagreed"))
	require.NoError(t, err)
	assert.Equal(t, "Disagreed", updated.Text)

	comments, total, err := service.List(ctx, at, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Disagreed", comments[0].Text)

	require.NoError(t, service.Delete(ctx, updated))
	_, err = service.Get(ctx, at, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestHandler_Permissions verifies public reads and author, moderator or admin writes.
*/
func TestHandler_Permissions(t *testing.T) {
	root := chi.NewRouter()
	root.Mount("/titles/{title_id}/reviews/{review_id}/comments", comment.NewHandler(newService()).Routes())

	serve := func(claims *sec.AuthClaims, method, path, body string) int {
		request := httptest.NewRequest(method, path, strings.NewReader(body))
		if claims != nil {
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
		}
		recorder := httptest.NewRecorder()
		root.ServeHTTP(recorder, request)
		return recorder.Code
	}

	author := &sec.AuthClaims{UserID: 10, Role: sec.RoleUser}
	stranger := &sec.AuthClaims{UserID: 11, Role: sec.RoleUser}
	moderator := &sec.AuthClaims{UserID: 12, Role: sec.RoleModerator}

	const list = "/titles/1/reviews/1/comments"
	const item = "/titles/1/reviews/1/comments/1"

	assert.Equal(t, http.StatusUnauthorized, serve(nil, http.MethodPost, list, `{"text":"Hi"}`))
	assert.Equal(t, http.StatusCreated, serve(author, http.MethodPost, list, `{"text":"Hi"}`))
	assert.Equal(t, http.StatusBadRequest, serve(author, http.MethodPost, list, `{}`))
	assert.Equal(t, http.StatusNotFound, serve(author, http.MethodPost, "/titles/2/reviews/1/comments", `{"text":"Hi"}`))

	assert.Equal(t, http.StatusOK, serve(nil, http.MethodGet, list, ""))
	assert.Equal(t, http.StatusOK, serve(nil, http.MethodGet, item, ""))

	assert.Equal(t, http.StatusForbidden, serve(stranger, http.MethodPatch, item, `{"text":"Mine now"}`))
	assert.Equal(t, http.StatusOK, serve(author, http.MethodPatch, item, `{"text":"Edited"}`))
	assert.Equal(t, http.StatusUnauthorized, serve(nil, http.MethodDelete, item, ""))
	assert.Equal(t, http.StatusNoContent, serve(moderator, http.MethodDelete, item, ""))
	assert.Equal(t, http.StatusNotFound, serve(nil, http.MethodGet, item, ""))
}
