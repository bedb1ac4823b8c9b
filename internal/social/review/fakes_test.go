// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// memoryRepository mirrors the postgres store, UNIQUE(title, author) included.
type memoryRepository struct {
	titles    map[int64]bool
	usernames map[int64]string
	rows      map[int64]review.Review
	nextID    int64

	// skipPrecheck makes HasReview miss, as when a concurrent insert lands
	// between the check and the write.
	skipPrecheck bool
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		titles:    map[int64]bool{1: true, 2: true},
		usernames: map[int64]string{10: "alice", 11: "bob", 12: "mod", 13: "root"},
		rows:      map[int64]review.Review{},
	}
}

func (m *memoryRepository) TitleExists(_ context.Context, titleID int64) (bool, error) {
	return m.titles[titleID], nil
}

func (m *memoryRepository) HasReview(_ context.Context, titleID, authorID int64) (bool, error) {
	if m.skipPrecheck {
		return false, nil
	}
	return m.duplicate(titleID, authorID), nil
}

func (m *memoryRepository) duplicate(titleID, authorID int64) bool {
	for _, row := range m.rows {
		if row.TitleID == titleID && row.AuthorID == authorID {
			return true
		}
	}
	return false
}

func (m *memoryRepository) List(_ context.Context, titleID int64, params pagination.Params) ([]*review.Review, int, error) {
	var all []*review.Review
	for _, row := range m.rows {
		if row.TitleID == titleID {
			all = append(all, m.hydrate(row))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	start := min(params.Offset(), len(all))
	end := min(start+params.Limit, len(all))
	return all[start:end], len(all), nil
}

func (m *memoryRepository) hydrate(row review.Review) *review.Review {
	row.Author = m.usernames[row.AuthorID]
	return &row
}

func (m *memoryRepository) FindByID(_ context.Context, titleID, id int64) (*review.Review, error) {
	row, ok := m.rows[id]
	if !ok || row.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	return m.hydrate(row), nil
}

func (m *memoryRepository) Create(_ context.Context, r *review.Review) error {
	if m.duplicate(r.TitleID, r.AuthorID) {
		return review.ErrDuplicate()
	}
	m.nextID++
	r.ID = m.nextID
	r.PubDate = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	m.rows[r.ID] = *r
	return nil
}

func (m *memoryRepository) Update(_ context.Context, r *review.Review) error {
	row, ok := m.rows[r.ID]
	if !ok || row.TitleID != r.TitleID {
		return apperr.NotFound("Review")
	}
	row.Text, row.Score = r.Text, r.Score
	m.rows[r.ID] = row
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, titleID, id int64) error {
	row, ok := m.rows[id]
	if !ok || row.TitleID != titleID {
		return apperr.NotFound("Review")
	}
	delete(m.rows, id)
	return nil
}

func newService(repo *memoryRepository) *review.Service {
	return review.NewService(repo, 1, 10, slog.New(slog.NewTextHandler(io.Discard, nil)))
}
