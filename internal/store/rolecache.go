package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RoleCache remembers the role of admins so the admin gate does not hit
// the user collection on every request.
type RoleCache interface {
	// Lookup reports the cached role and whether the email was cached at all.
	Lookup(ctx context.Context, email string) (string, bool, error)
	Remember(ctx context.Context, email, role string) error
	Forget(ctx context.Context, email string) error
}

type RedisRoleCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRoleCache(client *redis.Client, ttl time.Duration) *RedisRoleCache {
	return &RedisRoleCache{client: client, ttl: ttl}
}

func roleKey(email string) string {
	return "role:" + email
}

func (c *RedisRoleCache) Lookup(ctx context.Context, email string) (string, bool, error) {
	role, err := c.client.Get(ctx, roleKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read role cache: %w", err)
	}
	return role, true, nil
}

func (c *RedisRoleCache) Remember(ctx context.Context, email, role string) error {
	if err := c.client.Set(ctx, roleKey(email), role, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write role cache: %w", err)
	}
	return nil
}

func (c *RedisRoleCache) Forget(ctx context.Context, email string) error {
	if err := c.client.Del(ctx, roleKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to evict role cache: %w", err)
	}
	return nil
}
