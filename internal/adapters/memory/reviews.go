package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

type reviewRepo struct {
	s *Store
}

func (r *reviewRepo) Create(ctx context.Context, review *entities.Review) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.users[review.UserID]; !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", review.UserID))
		}
		if _, ok := st.places[review.PlaceID]; !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("place with id %s not found", review.PlaceID))
		}
		for _, existing := range st.reviews {
			if existing.UserID == review.UserID && existing.PlaceID == review.PlaceID {
				return apperrors.NewConflictError("user has already reviewed this place")
			}
		}
		r.s.stamp(&review.ID, &review.CreatedAt, &review.UpdatedAt)
		if _, exists := st.reviews[review.ID]; exists {
			return apperrors.NewConflictError(fmt.Sprintf("review with id %s already exists", review.ID))
		}
		st.reviews[review.ID] = *review
		return nil
	})
}

func (r *reviewRepo) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	var out *entities.Review
	err := r.s.read(func(st *state) error {
		rv, ok := st.reviews[id]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("review with id %s not found", id))
		}
		out = &rv
		return nil
	})
	return out, err
}

func (r *reviewRepo) GetByUserAndPlace(ctx context.Context, userID, placeID string) (*entities.Review, error) {
	matches, err := r.filter(func(rv *entities.Review) bool {
		return rv.UserID == userID && rv.PlaceID == placeID
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no review by user %s for place %s", userID, placeID))
	}
	return matches[0], nil
}

func (r *reviewRepo) List(ctx context.Context) ([]*entities.Review, error) {
	return r.filter(func(*entities.Review) bool { return true })
}

func (r *reviewRepo) ListByPlace(ctx context.Context, placeID string) ([]*entities.Review, error) {
	return r.filter(func(rv *entities.Review) bool { return rv.PlaceID == placeID })
}

func (r *reviewRepo) ListByUser(ctx context.Context, userID string) ([]*entities.Review, error) {
	return r.filter(func(rv *entities.Review) bool { return rv.UserID == userID })
}

func (r *reviewRepo) filter(keep func(*entities.Review) bool) ([]*entities.Review, error) {
	out := []*entities.Review{}
	err := r.s.read(func(st *state) error {
		for _, rv := range st.reviews {
			if keep(&rv) {
				out = append(out, &rv)
			}
		}
		return nil
	})
	sortByCreation(out, func(rv *entities.Review) (time.Time, string) { return rv.CreatedAt, rv.ID })
	return out, err
}

func (r *reviewRepo) UpdateFields(ctx context.Context, id string, fields repositories.Fields) (*entities.Review, error) {
	var out *entities.Review
	err := r.s.write(func(st *state) error {
		rv, ok := st.reviews[id]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("review with id %s not found", id))
		}
		for field, value := range fields {
			var ok bool
			switch field {
			case entities.FieldText:
				rv.Text, ok = value.(string)
			case entities.FieldRating:
				rv.Rating, ok = value.(int)
			}
			if !ok {
				return badField(entities.KindReview, field, value)
			}
		}
		rv.UpdatedAt = r.s.now()
		st.reviews[id] = rv
		out = &rv
		return nil
	})
	return out, err
}

func (r *reviewRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.reviews[id]; !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("review with id %s not found", id))
		}
		delete(st.reviews, id)
		return nil
	})
}
