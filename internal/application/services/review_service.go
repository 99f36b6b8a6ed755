package services

import (
	"context"

	"github.com/zatekoja/hbnb/backend/internal/application/validation"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

// ReviewService handles reviews of places
type ReviewService struct {
	store     repositories.Store
	lifecycle *Lifecycle
}

// NewReviewService creates a new review service
func NewReviewService(store repositories.Store, lifecycle *Lifecycle) *ReviewService {
	return &ReviewService{
		store:     store,
		lifecycle: lifecycle,
	}
}

// Create records the actor's review of a place. Owners cannot review their
// own places and each user reviews a place at most once.
func (s *ReviewService) Create(ctx context.Context, actor *entities.Actor, payload validation.Payload) (*entities.ReviewDetail, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorizedError("authentication required")
	}
	if err := checkCreateFields(entities.KindReview, payload); err != nil {
		return nil, denied(ctx, "review.create", err)
	}
	if payload.Has(entities.FieldUserID) {
		if userID, _ := payload[entities.FieldUserID].(string); !actor.Is(userID) {
			return nil, denied(ctx, "review.create", apperrors.NewForbiddenError("cannot create a review on behalf of another user"))
		}
	}
	if !payload.Has(entities.FieldPlaceID) {
		return nil, denied(ctx, "review.create", apperrors.NewFieldError(entities.FieldPlaceID, apperrors.ReasonRequired, "place_id is required"))
	}
	placeID, err := validation.Identifier(entities.FieldPlaceID, payload[entities.FieldPlaceID])
	if err != nil {
		return nil, denied(ctx, "review.create", err)
	}

	place, err := s.store.Places().GetByID(ctx, placeID.(string))
	if err != nil {
		return nil, storeError(ctx, "review.create", err)
	}
	if actor.Is(place.OwnerID) {
		return nil, denied(ctx, "review.create", apperrors.NewForbiddenError("you cannot review your own place"))
	}

	if err := checkRequired(entities.KindReview, payload); err != nil {
		return nil, denied(ctx, "review.create", err)
	}
	fields, err := validation.Fields(entities.KindReview, payload)
	if err != nil {
		return nil, denied(ctx, "review.create", err)
	}

	if _, err := s.store.Reviews().GetByUserAndPlace(ctx, actor.ID, place.ID); err == nil {
		return nil, denied(ctx, "review.create", apperrors.NewConflictError("you have already reviewed this place"))
	} else if !apperrors.IsNotFound(err) {
		return nil, storeError(ctx, "review.create", err)
	}

	review := &entities.Review{
		Text:    fields.String(entities.FieldText),
		Rating:  fields[entities.FieldRating].(int),
		UserID:  actor.ID,
		PlaceID: place.ID,
	}
	if err := s.store.Reviews().Create(ctx, review); err != nil {
		return nil, storeError(ctx, "review.create", err)
	}
	return s.detail(ctx, review)
}

// Get retrieves a review by ID
func (s *ReviewService) Get(ctx context.Context, id string) (*entities.ReviewDetail, error) {
	review, err := s.store.Reviews().GetByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "review.get", err)
	}
	return s.detail(ctx, review)
}

// List returns every review
func (s *ReviewService) List(ctx context.Context) ([]*entities.ReviewDetail, error) {
	reviews, err := s.store.Reviews().List(ctx)
	if err != nil {
		return nil, storeError(ctx, "review.list", err)
	}
	return s.details(ctx, reviews)
}

// ListByPlace returns the reviews of a place. An unknown place yields an
// empty list, not NOT_FOUND, as the public listing has always done.
func (s *ReviewService) ListByPlace(ctx context.Context, placeID string) ([]*entities.ReviewDetail, error) {
	reviews, err := s.store.Reviews().ListByPlace(ctx, placeID)
	if err != nil {
		return nil, storeError(ctx, "review.list_by_place", err)
	}
	return s.details(ctx, reviews)
}

// Update changes text or rating. Author or admin only.
func (s *ReviewService) Update(ctx context.Context, actor *entities.Actor, id string, payload validation.Payload) (*entities.ReviewDetail, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorizedError("authentication required")
	}
	review, err := s.store.Reviews().GetByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "review.update", err)
	}
	if !actor.Is(review.UserID) && !actor.Admin() {
		return nil, denied(ctx, "review.update", apperrors.NewForbiddenError("only the author or an administrator can modify this review"))
	}
	if err := checkUpdateFields(entities.KindReview, AudienceOwner, payload); err != nil {
		return nil, denied(ctx, "review.update", err)
	}
	fields, err := validation.Fields(entities.KindReview, payload)
	if err != nil {
		return nil, denied(ctx, "review.update", err)
	}
	if len(fields) == 0 {
		return s.detail(ctx, review)
	}

	updated, err := s.store.Reviews().UpdateFields(ctx, id, repositories.Fields(fields))
	if err != nil {
		return nil, storeError(ctx, "review.update", err)
	}
	return s.detail(ctx, updated)
}

// Delete removes a review. Author or admin only.
func (s *ReviewService) Delete(ctx context.Context, actor *entities.Actor, id string) error {
	if actor == nil {
		return apperrors.NewUnauthorizedError("authentication required")
	}
	review, err := s.store.Reviews().GetByID(ctx, id)
	if err != nil {
		return storeError(ctx, "review.delete", err)
	}
	if !actor.Is(review.UserID) && !actor.Admin() {
		return denied(ctx, "review.delete", apperrors.NewForbiddenError("only the author or an administrator can delete this review"))
	}
	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		return s.lifecycle.Delete(ctx, tx, entities.KindReview, id)
	})
	return storeError(ctx, "review.delete", err)
}

func (s *ReviewService) detail(ctx context.Context, review *entities.Review) (*entities.ReviewDetail, error) {
	author, err := s.store.Users().GetByID(ctx, review.UserID)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, storeError(ctx, "review.detail", err)
	}
	place, err := s.store.Places().GetByID(ctx, review.PlaceID)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, storeError(ctx, "review.detail", err)
	}
	return entities.NewReviewDetail(review, author, place), nil
}

func (s *ReviewService) details(ctx context.Context, reviews []*entities.Review) ([]*entities.ReviewDetail, error) {
	out := make([]*entities.ReviewDetail, 0, len(reviews))
	for _, r := range reviews {
		d, err := s.detail(ctx, r)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
