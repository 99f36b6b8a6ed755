package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/hbnb/backend/pkg/config"
	"github.com/zatekoja/hbnb/backend/pkg/retry"
)

const (
	driverName  = "postgres"
	pingTimeout = 5 * time.Second
)

// Client owns the sqlx connection pool backing the Entity Store
type Client struct {
	db *sqlx.DB
}

// NewClient opens the pool described by cfg and waits for the server to
// answer, retrying with backoff while it starts up
func NewClient(cfg *config.DatabaseConfig) (*Client, error) {
	return NewClientWithRetry(context.Background(), cfg, retry.DefaultConfig())
}

// NewClientWithRetry is NewClient with an explicit context and retry policy
func NewClientWithRetry(ctx context.Context, cfg *config.DatabaseConfig, retryCfg retry.Config) (*Client, error) {
	db, err := sqlx.Open(driverName, cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	configurePool(db, cfg)

	client := &Client{db: db}
	err = retry.DoWithLog(ctx, retryCfg, "PostgreSQL", func() error {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return client.Ping(pingCtx)
	}, func(attempt int, err error, nextDelay time.Duration) {
		log.Warn().
			Err(err).
			Str("host", cfg.Host).
			Int("attempt", attempt).
			Dur("retry_in", nextDelay).
			Msg("PostgreSQL not reachable yet")
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Database).
		Int("max_open_conns", db.Stats().MaxOpenConnections).
		Msg("Connected to PostgreSQL")
	return client, nil
}

// Wrap adopts an existing pool, for tests and tools that open their own
func Wrap(db *sqlx.DB) *Client {
	return &Client{db: db}
}

func configurePool(db *sqlx.DB, cfg *config.DatabaseConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// DB returns the pool
func (c *Client) DB() *sqlx.DB {
	return c.db
}

// Close releases every pooled connection
func (c *Client) Close() error {
	return c.db.Close()
}

// Ping checks the server answers
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
