package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/domain/providers"
	"github.com/zatekoja/hbnb/backend/pkg/config"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

// Claims is the payload of an access token
type Claims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// JWTProvider issues and resolves HS256 bearer tokens
type JWTProvider struct {
	secret   []byte
	issuer   string
	ttl      time.Duration
	denylist providers.TokenDenylist
	now      func() time.Time
}

// NewJWTProvider creates a token provider from the auth config
func NewJWTProvider(cfg *config.AuthConfig, denylist providers.TokenDenylist) *JWTProvider {
	return &JWTProvider{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.Issuer,
		ttl:      cfg.TokenTTL,
		denylist: denylist,
		now:      time.Now,
	}
}

var _ providers.TokenProvider = (*JWTProvider)(nil)

// Issue signs a token for user
func (p *JWTProvider) Issue(ctx context.Context, user *entities.User) (*providers.IssuedToken, error) {
	now := p.now()
	expiresAt := now.Add(p.ttl)
	claims := Claims{
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &providers.IssuedToken{
		Token:     signed,
		ID:        claims.ID,
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve verifies credential and returns the actor it was issued to
func (p *JWTProvider) Resolve(ctx context.Context, credential string) (*entities.Actor, error) {
	claims, err := p.parse(credential)
	if err != nil {
		return nil, err
	}

	if p.denylist != nil && claims.ID != "" {
		revoked, err := p.denylist.Contains(ctx, claims.ID)
		if err != nil {
			return nil, apperrors.NewStorageError("failed to check token revocation", err)
		}
		if revoked {
			return nil, apperrors.NewUnauthorizedError("token has been revoked")
		}
	}

	return &entities.Actor{ID: claims.Subject, IsAdmin: claims.IsAdmin}, nil
}

// Revoke denylists the credential until it expires
func (p *JWTProvider) Revoke(ctx context.Context, credential string) error {
	claims, err := p.parse(credential)
	if err != nil {
		return err
	}
	if p.denylist == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := p.denylist.Add(ctx, claims.ID, ttl); err != nil {
		return apperrors.NewStorageError("failed to revoke token", err)
	}
	return nil
}

func (p *JWTProvider) parse(credential string) (*Claims, error) {
	if credential == "" {
		return nil, apperrors.NewUnauthorizedError("missing bearer token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	token, err := jwt.ParseWithClaims(credential, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewUnauthorizedError("token has expired")
		}
		return nil, apperrors.NewUnauthorizedError("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, apperrors.NewUnauthorizedError("invalid token")
	}
	return claims, nil
}
