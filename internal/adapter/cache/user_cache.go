package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "user-directory-service/internal/domain/user"
)

// UserCache is the read-through cache the repository decorator works with.
type UserCache interface {
	// Get returns the cached user, or nil on a miss.
	Get(ctx context.Context, id int64) (*domain.User, error)

	// Set stores the user for the configured TTL.
	Set(ctx context.Context, user *domain.User) error

	// Delete drops the entry for the given id.
	Delete(ctx context.Context, id int64) error
}

// RedisUserCache implements UserCache on Redis. Entries are stored as JSON
// under per-id keys and expire after the configured TTL.
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserCache creates a new Redis-backed user cache.
func NewRedisUserCache(client *redis.Client, ttl time.Duration, log *zap.Logger) UserCache {
	return &RedisUserCache{client: client, ttl: ttl, log: log}
}

func (c *RedisUserCache) cacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// Get retrieves a user from Redis. A missing key is a miss, not an error.
func (c *RedisUserCache) Get(ctx context.Context, id int64) (*domain.User, error) {
	data, err := c.client.Get(ctx, c.cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("user cache miss", zap.Int64("id", id))
		return nil, nil
	}
	if err != nil {
		c.log.Error("user cache read failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		c.log.Error("failed to decode cached user", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	c.log.Debug("user cache hit", zap.Int64("id", id))
	return &u, nil
}

// Set stores a user in Redis under its id key for the configured TTL.
func (c *RedisUserCache) Set(ctx context.Context, user *domain.User) error {
	if user == nil {
		return fmt.Errorf("cannot cache nil user")
	}

	data, err := json.Marshal(user)
	if err != nil {
		c.log.Error("failed to encode user for cache", zap.Int64("id", user.ID), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, c.cacheKey(user.ID), data, c.ttl).Err(); err != nil {
		c.log.Error("user cache write failed", zap.Int64("id", user.ID), zap.Error(err))
		return err
	}

	c.log.Debug("user cached", zap.Int64("id", user.ID), zap.Duration("ttl", c.ttl))
	return nil
}

// Delete removes a user entry. Deleting an absent key succeeds.
func (c *RedisUserCache) Delete(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, c.cacheKey(id)).Err(); err != nil {
		c.log.Error("user cache delete failed", zap.Int64("id", id), zap.Error(err))
		return err
	}

	c.log.Debug("user cache entry removed", zap.Int64("id", id))
	return nil
}
