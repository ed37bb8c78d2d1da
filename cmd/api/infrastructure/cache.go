package infrastructure

import (
	"fmt"
	"time"

	"user-directory-service/internal/config"
	redisclient "user-directory-service/pkg/redis"

	"go.uber.org/zap"
)

// NewRedisClient connects the optional Redis client. Callers gate on
// cfg.Redis.Enabled; the user cache and the rate limiter share the
// returned connection pool.
func NewRedisClient(cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	rdb, err := redisclient.NewClient(redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}

// CacheTTL returns the configured lifetime for cached user entries.
func CacheTTL(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Redis.CacheTTL) * time.Second
}
