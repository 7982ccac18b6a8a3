// Package cache keeps short-lived copies of per-user authorization data.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"financeiro/internal/logger"

	"github.com/redis/go-redis/v9"
)

// AuthorityCache stores the authorities granted to a user.
type AuthorityCache interface {
	Get(ctx context.Context, userID int64) ([]string, bool)
	Set(ctx context.Context, userID int64, authorities []string)
	Invalidate(ctx context.Context, userID int64)
}

// NopAuthorityCache never stores anything.
type NopAuthorityCache struct{}

func (NopAuthorityCache) Get(context.Context, int64) ([]string, bool) { return nil, false }
func (NopAuthorityCache) Set(context.Context, int64, []string)        {}
func (NopAuthorityCache) Invalidate(context.Context, int64)           {}

// RedisAuthorityCache stores authorities as JSON under user:<id>:authorities.
// Redis failures are logged and treated as cache misses.
type RedisAuthorityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisAuthorityCache creates a cache whose entries expire after ttl.
func NewRedisAuthorityCache(client *redis.Client, ttl time.Duration) *RedisAuthorityCache {
	return &RedisAuthorityCache{client: client, ttl: ttl}
}

// Key returns the redis key for a user's authorities.
func Key(userID int64) string {
	return fmt.Sprintf("user:%d:authorities", userID)
}

func (c *RedisAuthorityCache) Get(ctx context.Context, userID int64) ([]string, bool) {
	raw, err := c.client.Get(ctx, Key(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.FromContext(ctx).Warnw("Authority cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}
	var authorities []string
	if err := json.Unmarshal([]byte(raw), &authorities); err != nil {
		logger.FromContext(ctx).Warnw("Authority cache entry is corrupt", "user_id", userID, "error", err)
		return nil, false
	}
	return authorities, true
}

func (c *RedisAuthorityCache) Set(ctx context.Context, userID int64, authorities []string) {
	raw, err := json.Marshal(authorities)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, Key(userID), raw, c.ttl).Err(); err != nil {
		logger.FromContext(ctx).Warnw("Authority cache write failed", "user_id", userID, "error", err)
	}
}

func (c *RedisAuthorityCache) Invalidate(ctx context.Context, userID int64) {
	if err := c.client.Del(ctx, Key(userID)).Err(); err != nil {
		logger.FromContext(ctx).Warnw("Authority cache invalidation failed", "user_id", userID, "error", err)
	}
}

// NewRedisClient connects to redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}
