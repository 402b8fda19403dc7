// File: internal/platform/redis/client.go
package redis

import (
	"context"
	"fmt"
	"time"

	"local_services_backend/internal/config"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps the go-redis client. A nil *Client means Redis is not configured.
type Client struct {
	client *goredis.Client
}

// NewClient connects to REDIS_ADDR and pings it. An empty address returns a
// nil client and a no-op cleanup.
func NewClient(cfg *config.Config, logger *zap.Logger) (*Client, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set; provider change feed stays in-process")
		return nil, func() {}, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}

	logger.Info("Redis client connected", zap.String("addr", cfg.RedisAddr), zap.Int("db", cfg.RedisDB))
	cleanup := func() {
		if err := rdb.Close(); err != nil {
			logger.Error("Error closing Redis client", zap.Error(err))
		}
	}
	return &Client{client: rdb}, cleanup, nil
}

// Client returns the underlying go-redis client.
func (c *Client) Client() *goredis.Client {
	return c.client
}

// Ping verifies the connection to Redis.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
