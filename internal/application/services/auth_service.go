package services

import (
	"context"
	"time"

	"github.com/zatekoja/hbnb/backend/internal/application/validation"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/domain/providers"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

// LoginResult is returned by a successful login
type LoginResult struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresAt   time.Time      `json:"expires_at"`
	User        *entities.User `json:"user"`
}

// AuthService exchanges credentials for bearer tokens
type AuthService struct {
	store  repositories.Store
	hasher providers.PasswordHasher
	tokens providers.TokenProvider
}

// NewAuthService creates a new auth service
func NewAuthService(store repositories.Store, hasher providers.PasswordHasher, tokens providers.TokenProvider) *AuthService {
	return &AuthService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
	}
}

// Login verifies email and password. Failures never reveal which one was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	invalid := apperrors.NewUnauthorizedError("invalid email or password")
	if email == "" || password == "" {
		return nil, denied(ctx, "auth.login", invalid)
	}

	user, err := s.store.Users().GetByEmail(ctx, validation.NormalizeEmail(email))
	if apperrors.IsNotFound(err) {
		return nil, denied(ctx, "auth.login", invalid)
	}
	if err != nil {
		return nil, storeError(ctx, "auth.login", err)
	}
	if !s.hasher.Compare(password, user.PasswordHash) {
		return nil, denied(ctx, "auth.login", invalid)
	}

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}
	return &LoginResult{
		AccessToken: token.Token,
		TokenType:   "Bearer",
		ExpiresAt:   token.ExpiresAt,
		User:        user.Public(),
	}, nil
}

// Logout revokes the presented credential
func (s *AuthService) Logout(ctx context.Context, credential string) error {
	return s.tokens.Revoke(ctx, credential)
}

// Resolve maps a bearer credential to the acting identity. The account is
// reloaded so deletion and admin demotion apply to tokens already issued.
func (s *AuthService) Resolve(ctx context.Context, credential string) (*entities.Actor, error) {
	claimed, err := s.tokens.Resolve(ctx, credential)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByID(ctx, claimed.ID)
	if apperrors.IsNotFound(err) {
		return nil, denied(ctx, "auth.resolve", apperrors.NewUnauthorizedError("account no longer exists"))
	}
	if err != nil {
		return nil, storeError(ctx, "auth.resolve", err)
	}
	return &entities.Actor{ID: user.ID, IsAdmin: user.IsAdmin}, nil
}
