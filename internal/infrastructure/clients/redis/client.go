package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/hbnb/backend/pkg/config"
	"github.com/zatekoja/hbnb/backend/pkg/retry"
)

const pingTimeout = 5 * time.Second

// Client holds the go-redis connection used for token revocation
type Client struct {
	client *redis.Client
}

// NewClient connects to the configured Redis, retrying the first ping with
// backoff
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	return NewClientWithRetry(context.Background(), cfg, retry.DefaultConfig())
}

// NewClientWithRetry is NewClient with an explicit context and retry policy
func NewClientWithRetry(ctx context.Context, cfg *config.RedisConfig, retryCfg retry.Config) (*Client, error) {
	c := Wrap(redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}))

	err := retry.DoWithLog(ctx, retryCfg, "Redis", func() error {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return c.Ping(pingCtx)
	}, func(attempt int, err error, nextDelay time.Duration) {
		log.Warn().
			Err(err).
			Str("addr", cfg.RedisAddr()).
			Int("attempt", attempt).
			Dur("retry_in", nextDelay).
			Msg("Redis not reachable yet")
	})
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info().Str("addr", cfg.RedisAddr()).Int("db", cfg.DB).Msg("Connected to Redis")
	return c, nil
}

// Wrap adopts an existing go-redis client
func Wrap(client *redis.Client) *Client {
	return &Client{client: client}
}

// Client returns the go-redis client
func (c *Client) Client() *redis.Client {
	return c.client
}

// Close closes the connection pool
func (c *Client) Close() error {
	return c.client.Close()
}

// Ping checks the server answers
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
