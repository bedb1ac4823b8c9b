// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCooldownRepository implements [CooldownRepository] with SET NX PX.
type RedisCooldownRepository struct {
	client redis.UniversalClient
}

// NewCooldownRepository creates a new Redis-backed CooldownRepository.
func NewCooldownRepository(client redis.UniversalClient) *RedisCooldownRepository {
	return &RedisCooldownRepository{client: client}
}

/*
Acquire claims key for window. A held key reports its remaining TTL.

Parameters:
  - context: context.Context
  - key: string (already prefixed)
  - window: time.Duration

Returns:
  - bool: whether the window was acquired by this call
  - time.Duration: remaining window when not acquired
  - error: connectivity failures
*/
func (repository *RedisCooldownRepository) Acquire(context context.Context, key string, window time.Duration) (bool, time.Duration, error) {
	acquired, err := repository.client.SetNX(context, key, 1, window).Result()
	if err != nil {
		return false, 0, fmt.Errorf("redis_cooldown_acquire_failed: %w", err)
	}

	if acquired {
		return true, 0, nil
	}

	remaining, err := repository.client.PTTL(context, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("redis_cooldown_ttl_failed: %w", err)
	}

	// A key without expiry (-1) or one that vanished meanwhile (-2) falls back to the full window.
	if remaining <= 0 {
		remaining = window
	}

	return false, remaining, nil
}

// Release deletes key so the next Acquire succeeds immediately.
func (repository *RedisCooldownRepository) Release(context context.Context, key string) error {
	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_cooldown_release_failed: %w", err)
	}
	return nil
}
