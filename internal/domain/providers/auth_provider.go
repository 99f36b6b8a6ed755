package providers

import (
	"context"
	"time"

	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
)

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) bool
}

// IssuedToken is a signed bearer credential
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// TokenProvider issues bearer credentials and resolves them back into actors.
// Resolve returns an UNAUTHORIZED error for missing, malformed, expired or
// revoked credentials.
type TokenProvider interface {
	Issue(ctx context.Context, user *entities.User) (*IssuedToken, error)
	Resolve(ctx context.Context, credential string) (*entities.Actor, error)

	// Revoke invalidates the credential until it would have expired
	Revoke(ctx context.Context, credential string) error
}

// TokenDenylist remembers revoked token ids until they expire
type TokenDenylist interface {
	Add(ctx context.Context, tokenID string, ttl time.Duration) error
	Contains(ctx context.Context, tokenID string) (bool, error)
}
