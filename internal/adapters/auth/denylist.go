package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zatekoja/hbnb/backend/internal/domain/providers"
	redisclient "github.com/zatekoja/hbnb/backend/internal/infrastructure/clients/redis"
)

const denylistKeyPrefix = "hbnb:revoked:"

// RedisDenylist stores revoked token ids in Redis with a TTL matching the
// token's remaining lifetime
type RedisDenylist struct {
	client *redisclient.Client
}

// NewRedisDenylist creates a Redis backed denylist
func NewRedisDenylist(client *redisclient.Client) providers.TokenDenylist {
	return &RedisDenylist{
		client: client,
	}
}

// Add marks tokenID as revoked for ttl
func (d *RedisDenylist) Add(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Client().Set(ctx, denylistKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// Contains reports whether tokenID has been revoked
func (d *RedisDenylist) Contains(ctx context.Context, tokenID string) (bool, error) {
	err := d.client.Client().Get(ctx, denylistKeyPrefix+tokenID).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}
	return true, nil
}

// LocalDenylist is the in-process fallback used when Redis is disabled.
// Revocations do not survive a restart.
type LocalDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewLocalDenylist creates an empty in-process denylist
func NewLocalDenylist() *LocalDenylist {
	return &LocalDenylist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (d *LocalDenylist) Add(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	for id, expiresAt := range d.entries {
		if !now.Before(expiresAt) {
			delete(d.entries, id)
		}
	}
	d.entries[tokenID] = now.Add(ttl)
	return nil
}

func (d *LocalDenylist) Contains(ctx context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	expiresAt, ok := d.entries[tokenID]
	return ok && d.now().Before(expiresAt), nil
}
