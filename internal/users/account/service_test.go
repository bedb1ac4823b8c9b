// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// # Fakes

type memoryRepository struct {
	nextID int64
	rows   map[int64]*auth.User
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: map[int64]*auth.User{}}
}

func (m *memoryRepository) List(_ context.Context, filter account.ListFilter) ([]*auth.User, int, error) {
	var matched []*auth.User
	for _, user := range m.rows {
		if strings.Contains(strings.ToLower(user.Username), strings.ToLower(filter.Search)) {
			clone := *user
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })

	start := min(filter.Offset(), len(matched))
	end := min(start+filter.Limit, len(matched))
	return matched[start:end], len(matched), nil
}

func (m *memoryRepository) FindByID(_ context.Context, id int64) (*auth.User, error) {
	if user, ok := m.rows[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range m.rows {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryRepository) collides(user *auth.User) error {
	for _, existing := range m.rows {
		if existing.ID == user.ID {
			continue
		}
		if existing.Username == user.Username {
			return apperr.ValidationError("Validation failed", apperr.FieldError{Field: auth.FieldUsername})
		}
		if existing.Email == user.Email {
			return apperr.ValidationError("Validation failed", apperr.FieldError{Field: auth.FieldEmail})
		}
	}
	return nil
}

func (m *memoryRepository) Create(_ context.Context, user *auth.User) error {
	if err := m.collides(user); err != nil {
		return err
	}
	m.nextID++
	user.ID = m.nextID
	clone := *user
	m.rows[user.ID] = &clone
	return nil
}

func (m *memoryRepository) Update(_ context.Context, user *auth.User) error {
	if _, ok := m.rows[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	if err := m.collides(user); err != nil {
		return err
	}
	clone := *user
	m.rows[user.ID] = &clone
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(m.rows, id)
	return nil
}

type memoryRoleCache struct {
	states map[int64]sec.RoleState
	hits   int
}

func newMemoryRoleCache() *memoryRoleCache {
	return &memoryRoleCache{states: map[int64]sec.RoleState{}}
}

func (m *memoryRoleCache) Get(_ context.Context, userID int64) (sec.RoleState, bool, error) {
	state, ok := m.states[userID]
	if ok {
		m.hits++
	}
	return state, ok, nil
}

func (m *memoryRoleCache) Set(_ context.Context, userID int64, state sec.RoleState) error {
	m.states[userID] = state
	return nil
}

func (m *memoryRoleCache) Invalidate(_ context.Context, userID int64) error {
	delete(m.states, userID)
	return nil
}

type stubCodes struct{ issued []int64 }

func (s *stubCodes) IssueCode(_ context.Context, user *auth.User) (string, error) {
	s.issued = append(s.issued, user.ID)
	return "c0de", nil
}

func newService() (*account.Service, *memoryRepository, *stubCodes) {
	repo := newMemoryRepository()
	codes := &stubCodes{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return account.NewService(repo, codes, logger), repo, codes
}

// # Tests

/*
TestCreate verifies admin creation rules.
*/
func TestCreate(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService()

	user, err := service.Create(ctx, account.CreateInput{Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, user.Role)

	tests := []struct {
		name  string
		input account.CreateInput
		code  string
	}{
		{"reserved me", account.CreateInput{Username: "me", Email: "me@x.com"}, apperr.CodeValidation},
		{"unknown role", account.CreateInput{Username: "carl", Email: "carl@x.com", Role: "author"}, apperr.CodeValidation},
		{"long first name", account.CreateInput{Username: "dana", Email: "dana@x.com", FirstName: strings.Repeat("d", 151)}, apperr.CodeValidation},
		{"taken username", account.CreateInput{Username: "bob", Email: "b2@x.com"}, apperr.CodeValidation},
		{"long bio", account.CreateInput{Username: "erin", Email: "erin@x.com", Bio: strings.Repeat("b", 251)}, apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, tt.input)
			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
		})
	}

	moderator, err := service.Create(ctx, account.CreateInput{Username: "mod", Email: "mod@x.com", Role: "moderator"})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, moderator.Role)
}

/*
TestUpdate verifies partial updates by admins and by the account owner.
*/
func TestUpdate(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService()

	bob, err := service.Create(ctx, account.CreateInput{Username: "bob", Email: "bob@x.com", Bio: "hi"})
	require.NoError(t, err)

	t.Run("admin changes role", func(t *testing.T) {
		updated, err := service.Update(ctx, "bob", account.UpdateInput{Role: pointer.To("moderator")})
		require.NoError(t, err)
		assert.Equal(t, sec.RoleModerator, updated.Role)
		assert.Equal(t, "hi", updated.Bio)
	})

	t.Run("admin invalid role", func(t *testing.T) {
		_, err := service.Update(ctx, "bob", account.UpdateInput{Role: pointer.To("root")})
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})

	t.Run("me ignores role", func(t *testing.T) {
		updated, err := service.UpdateMe(ctx, bob.ID, account.UpdateInput{
			Bio:  pointer.To("new bio"),
			Role: pointer.To("admin"),
		})
		require.NoError(t, err)
		assert.Equal(t, "new bio", updated.Bio)
		assert.Equal(t, sec.RoleModerator, updated.Role)
	})

	t.Run("me rejects long bio", func(t *testing.T) {
		_, err := service.UpdateMe(ctx, bob.ID, account.UpdateInput{Bio: pointer.To(strings.Repeat("б", 251))})
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

		updated, err := service.UpdateMe(ctx, bob.ID, account.UpdateInput{Bio: pointer.To(strings.Repeat("б", 250))})
		require.NoError(t, err)
		assert.Len(t, []rune(updated.Bio), 250)
	})

	t.Run("me rejects reserved username", func(t *testing.T) {
		_, err := service.UpdateMe(ctx, bob.ID, account.UpdateInput{Username: pointer.To("me")})
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := service.Update(ctx, "ghost", account.UpdateInput{})
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})
}

/*
TestListAndDelete verifies search, pagination and deletion.
*/
func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService()

	for _, name := range []string{"alice", "bob", "bobby", "carol"} {
		_, err := service.Create(ctx, account.CreateInput{Username: name, Email: name + "@x.com"})
		require.NoError(t, err)
	}

	users, total, err := service.List(ctx, account.ListFilter{Search: " BOB ", Params: pagination.Params{Page: 1, Limit: 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)

	require.NoError(t, service.Delete(ctx, "bob"))
	_, err = service.Get(ctx, "bob")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.True(t, apperr.HasCode(service.Delete(ctx, "bob"), apperr.CodeNotFound))
}

/*
TestCreateSuperuser verifies creation, promotion and email mismatch.
*/
func TestCreateSuperuser(t *testing.T) {
	ctx := context.Background()
	service, _, codes := newService()

	root, code, err := service.CreateSuperuser(ctx, "root", "root@x.com")
	require.NoError(t, err)
	assert.Equal(t, "c0de", code)
	assert.True(t, root.IsSuperuser)
	assert.Equal(t, sec.RoleAdmin, root.EffectiveRole())

	plain, err := service.Create(ctx, account.CreateInput{Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)

	promoted, _, err := service.CreateSuperuser(ctx, "bob", "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, plain.ID, promoted.ID)
	assert.True(t, promoted.IsSuperuser)

	_, _, err = service.CreateSuperuser(ctx, "bob", "other@x.com")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	assert.Equal(t, []int64{root.ID, plain.ID}, codes.issued)
}

/*
TestResolveRole verifies that authentication sees role changes and deletions
through the cache.
*/
func TestResolveRole(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService()
	cache := newMemoryRoleCache()
	service.WithRoleCache(cache)

	bob, err := service.Create(ctx, account.CreateInput{Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)

	state, err := service.ResolveRole(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleState{Role: sec.RoleUser}, state)

	// Second lookup is served from the cache
	_, err = service.ResolveRole(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	_, err = service.Update(ctx, "bob", account.UpdateInput{Role: pointer.To("admin")})
	require.NoError(t, err)
	state, err = service.ResolveRole(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, state.Role)

	_, _, err = service.CreateSuperuser(ctx, "bob", "bob@x.com")
	require.NoError(t, err)
	state, err = service.ResolveRole(ctx, bob.ID)
	require.NoError(t, err)
	assert.True(t, state.Superuser)

	require.NoError(t, service.Delete(ctx, "bob"))
	_, err = service.ResolveRole(ctx, bob.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
