package services

import (
	"context"

	"github.com/zatekoja/hbnb/backend/internal/application/validation"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/domain/providers"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

// UserService handles registration, profile updates and account removal
type UserService struct {
	store     repositories.Store
	hasher    providers.PasswordHasher
	lifecycle *Lifecycle
}

// NewUserService creates a new user service
func NewUserService(store repositories.Store, hasher providers.PasswordHasher, lifecycle *Lifecycle) *UserService {
	return &UserService{
		store:     store,
		hasher:    hasher,
		lifecycle: lifecycle,
	}
}

// Register creates an account. Anyone may register; granting is_admin
// requires an admin actor.
func (s *UserService) Register(ctx context.Context, actor *entities.Actor, payload validation.Payload) (*entities.User, error) {
	if err := checkCreateFields(entities.KindUser, payload); err != nil {
		return nil, denied(ctx, "user.register", err)
	}
	if wantsAdmin, _ := payload[entities.FieldIsAdmin].(bool); wantsAdmin && !actor.Admin() {
		return nil, denied(ctx, "user.register", apperrors.NewForbiddenError("admin privileges required to create an administrator"))
	}
	if err := checkRequired(entities.KindUser, payload); err != nil {
		return nil, denied(ctx, "user.register", err)
	}
	fields, err := validation.Fields(entities.KindUser, payload)
	if err != nil {
		return nil, denied(ctx, "user.register", err)
	}

	email := fields.String(entities.FieldEmail)
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(fields.String(entities.FieldPassword))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	isAdmin, _ := fields[entities.FieldIsAdmin].(bool)
	user := &entities.User{
		FirstName:    fields.String(entities.FieldFirstName),
		LastName:     fields.String(entities.FieldLastName),
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, storeError(ctx, "user.register", err)
	}
	return user.Public(), nil
}

// Get retrieves a user by ID
func (s *UserService) Get(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "user.get", err)
	}
	return user.Public(), nil
}

// List returns every user
func (s *UserService) List(ctx context.Context) ([]*entities.User, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, storeError(ctx, "user.list", err)
	}
	out := make([]*entities.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// UpdateSelf lets a user change their own names after proving the current
// email and password. The proof fields are consumed, not applied.
func (s *UserService) UpdateSelf(ctx context.Context, actor *entities.Actor, id string, payload validation.Payload) (*entities.User, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorizedError("authentication required")
	}
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "user.update_self", err)
	}
	if !actor.Is(id) {
		msg := "you can only modify your own profile"
		if actor.Admin() {
			msg = "administrators must use the admin update operation"
		}
		return nil, denied(ctx, "user.update_self", apperrors.NewForbiddenError(msg))
	}
	if err := s.verifyCredentials(user, payload); err != nil {
		return nil, denied(ctx, "user.update_self", err)
	}

	changes := make(validation.Payload, len(payload))
	for k, v := range payload {
		if k != entities.FieldEmail && k != entities.FieldPassword {
			changes[k] = v
		}
	}
	if err := checkUpdateFields(entities.KindUser, AudienceSelf, changes); err != nil {
		return nil, denied(ctx, "user.update_self", err)
	}
	fields, err := validation.Fields(entities.KindUser, changes)
	if err != nil {
		return nil, denied(ctx, "user.update_self", err)
	}
	if len(fields) == 0 {
		return user.Public(), nil
	}

	updated, err := s.store.Users().UpdateFields(ctx, id, repositories.Fields(fields))
	if err != nil {
		return nil, storeError(ctx, "user.update_self", err)
	}
	return updated.Public(), nil
}

// AdminUpdate lets an administrator change any mutable user field
func (s *UserService) AdminUpdate(ctx context.Context, actor *entities.Actor, id string, payload validation.Payload) (*entities.User, error) {
	if !actor.Admin() {
		return nil, denied(ctx, "user.admin_update", apperrors.NewForbiddenError("admin privileges required"))
	}
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "user.admin_update", err)
	}
	if err := checkUpdateFields(entities.KindUser, AudienceAdmin, payload); err != nil {
		return nil, denied(ctx, "user.admin_update", err)
	}
	fields, err := validation.Fields(entities.KindUser, payload)
	if err != nil {
		return nil, denied(ctx, "user.admin_update", err)
	}

	if email, ok := fields[entities.FieldEmail].(string); ok && email != user.Email {
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return nil, err
		}
	}
	if password, ok := fields[entities.FieldPassword].(string); ok {
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to hash password", err)
		}
		delete(fields, entities.FieldPassword)
		fields[entities.FieldPasswordHash] = hash
	}
	if len(fields) == 0 {
		return user.Public(), nil
	}

	updated, err := s.store.Users().UpdateFields(ctx, id, repositories.Fields(fields))
	if err != nil {
		return nil, storeError(ctx, "user.admin_update", err)
	}
	return updated.Public(), nil
}

// Delete removes a user together with the places they own and the reviews
// they wrote. Admin only.
func (s *UserService) Delete(ctx context.Context, actor *entities.Actor, id string) error {
	if !actor.Admin() {
		return denied(ctx, "user.delete", apperrors.NewForbiddenError("admin privileges required"))
	}
	if _, err := s.store.Users().GetByID(ctx, id); err != nil {
		return storeError(ctx, "user.delete", err)
	}
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		return s.lifecycle.Delete(ctx, tx, entities.KindUser, id)
	})
	return storeError(ctx, "user.delete", err)
}

func (s *UserService) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	existing, err := s.store.Users().GetByEmail(ctx, email)
	if apperrors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return storeError(ctx, "user.email_lookup", err)
	}
	if existing.ID == exceptID {
		return nil
	}
	return denied(ctx, "user.email_lookup", apperrors.NewConflictError("email already registered"))
}

// verifyCredentials checks the email+password re-proof carried in payload
func (s *UserService) verifyCredentials(user *entities.User, payload validation.Payload) error {
	email, _ := payload[entities.FieldEmail].(string)
	password, _ := payload[entities.FieldPassword].(string)
	if email == "" || password == "" {
		return apperrors.NewUnauthorizedError("current email and password are required")
	}
	if validation.NormalizeEmail(email) != user.Email || !s.hasher.Compare(password, user.PasswordHash) {
		return apperrors.NewUnauthorizedError("invalid email or password")
	}
	return nil
}
