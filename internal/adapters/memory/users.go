package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(ctx context.Context, user *entities.User) error {
	return r.s.write(func(st *state) error {
		if emailTaken(st, user.Email, "") {
			return apperrors.NewConflictError(fmt.Sprintf("email %s is already registered", user.Email))
		}
		r.s.stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt)
		if _, exists := st.users[user.ID]; exists {
			return apperrors.NewConflictError(fmt.Sprintf("user with id %s already exists", user.ID))
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	var out *entities.User
	err := r.s.read(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var out *entities.User
	err := r.s.read(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				found := u
				out = &found
				return nil
			}
		}
		return apperrors.NewNotFoundError(fmt.Sprintf("user with email %s not found", email))
	})
	return out, err
}

func (r *userRepo) List(ctx context.Context) ([]*entities.User, error) {
	var out []*entities.User
	err := r.s.read(func(st *state) error {
		out = make([]*entities.User, 0, len(st.users))
		for _, u := range st.users {
			out = append(out, &u)
		}
		return nil
	})
	sortByCreation(out, func(u *entities.User) (time.Time, string) { return u.CreatedAt, u.ID })
	return out, err
}

func (r *userRepo) UpdateFields(ctx context.Context, id string, fields repositories.Fields) (*entities.User, error) {
	var out *entities.User
	err := r.s.write(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
		}
		for field, value := range fields {
			var ok bool
			switch field {
			case entities.FieldFirstName:
				u.FirstName, ok = value.(string)
			case entities.FieldLastName:
				u.LastName, ok = value.(string)
			case entities.FieldEmail:
				u.Email, ok = value.(string)
				if ok && emailTaken(st, u.Email, id) {
					return apperrors.NewConflictError(fmt.Sprintf("email %s is already registered", u.Email))
				}
			case entities.FieldPasswordHash:
				u.PasswordHash, ok = value.(string)
			case entities.FieldIsAdmin:
				u.IsAdmin, ok = value.(bool)
			}
			if !ok {
				return badField(entities.KindUser, field, value)
			}
		}
		u.UpdatedAt = r.s.now()
		st.users[id] = u
		out = &u
		return nil
	})
	return out, err
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
		}
		for _, p := range st.places {
			if p.OwnerID == id {
				return stillReferenced(entities.KindUser, id, entities.KindPlace)
			}
		}
		for _, rv := range st.reviews {
			if rv.UserID == id {
				return stillReferenced(entities.KindUser, id, entities.KindReview)
			}
		}
		delete(st.users, id)
		return nil
	})
}

func emailTaken(st *state, email, exceptID string) bool {
	for _, u := range st.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func badField(kind entities.EntityKind, field string, value interface{}) error {
	return apperrors.NewInternalError(fmt.Sprintf("cannot set %s.%s to %T", kind, field, value), nil)
}

func stillReferenced(kind entities.EntityKind, id string, by entities.EntityKind) error {
	return apperrors.NewConflictError(fmt.Sprintf("%s %s is still referenced by a %s", kind, id, by))
}
