// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

const (
	roleField      = "role"
	superuserField = "superuser"
)

// RedisRoleCache implements [RoleCache] with one hash per account.
type RedisRoleCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRoleCache creates a Redis-backed RoleCache whose entries expire after ttl.
func NewRoleCache(client redis.UniversalClient, ttl time.Duration) *RedisRoleCache {
	return &RedisRoleCache{client: client, ttl: ttl}
}

func roleKey(userID int64) string {
	return constants.RedisPrefixAccountRole + strconv.FormatInt(userID, 10)
}

// Get reads the cached hash. A missing key or an unknown role is a miss.
func (cache *RedisRoleCache) Get(context context.Context, userID int64) (sec.RoleState, bool, error) {
	values, err := cache.client.HGetAll(context, roleKey(userID)).Result()
	if err != nil {
		return sec.RoleState{}, false, fmt.Errorf("redis_role_cache_get_failed: %w", err)
	}

	role := sec.UserRole(values[roleField])
	if !role.Valid() {
		return sec.RoleState{}, false, nil
	}

	return sec.RoleState{Role: role, Superuser: values[superuserField] == "1"}, true, nil
}

// Set writes the hash and its expiry in one transaction.
func (cache *RedisRoleCache) Set(context context.Context, userID int64, state sec.RoleState) error {
	key := roleKey(userID)

	_, err := cache.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.HSet(context, key, roleField, string(state.Role), superuserField, state.Superuser)
		pipe.Expire(context, key, cache.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_role_cache_set_failed: %w", err)
	}
	return nil
}

// Invalidate deletes the hash.
func (cache *RedisRoleCache) Invalidate(context context.Context, userID int64) error {
	if err := cache.client.Del(context, roleKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis_role_cache_invalidate_failed: %w", err)
	}
	return nil
}
