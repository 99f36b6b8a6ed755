package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/zatekoja/hbnb/backend/internal/application/validation"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

// PlaceService handles listings and their amenity associations
type PlaceService struct {
	store     repositories.Store
	lifecycle *Lifecycle
}

// NewPlaceService creates a new place service
func NewPlaceService(store repositories.Store, lifecycle *Lifecycle) *PlaceService {
	return &PlaceService{
		store:     store,
		lifecycle: lifecycle,
	}
}

// Create lists a new place owned by the actor
func (s *PlaceService) Create(ctx context.Context, actor *entities.Actor, payload validation.Payload) (*entities.PlaceDetail, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorizedError("authentication required")
	}
	if err := checkCreateFields(entities.KindPlace, payload); err != nil {
		return nil, denied(ctx, "place.create", err)
	}
	if payload.Has(entities.FieldOwnerID) {
		if ownerID, _ := payload[entities.FieldOwnerID].(string); !actor.Is(ownerID) {
			return nil, denied(ctx, "place.create", apperrors.NewForbiddenError("cannot create a place on behalf of another user"))
		}
	}
	if err := checkRequired(entities.KindPlace, payload); err != nil {
		return nil, denied(ctx, "place.create", err)
	}
	fields, err := validation.Fields(entities.KindPlace, payload)
	if err != nil {
		return nil, denied(ctx, "place.create", err)
	}

	place := &entities.Place{
		Title:       fields.String(entities.FieldTitle),
		Description: fields.String(entities.FieldDescription),
		Price:       fields[entities.FieldPrice].(decimal.Decimal),
		Latitude:    fields[entities.FieldLatitude].(float64),
		Longitude:   fields[entities.FieldLongitude].(float64),
		OwnerID:     actor.ID,
	}
	amenityIDs, _ := fields[entities.FieldAmenities].([]string)

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Users().GetByID(ctx, actor.ID); err != nil {
			return err
		}
		if _, err := s.lifecycle.ResolveAmenities(ctx, tx, amenityIDs); err != nil {
			return err
		}
		if err := tx.Places().Create(ctx, place); err != nil {
			return err
		}
		return s.lifecycle.ReplaceAmenities(ctx, tx, place.ID, amenityIDs)
	})
	if err != nil {
		return nil, storeError(ctx, "place.create", err)
	}
	return s.Get(ctx, place.ID)
}

// Get returns a place with owner, amenities and reviews
func (s *PlaceService) Get(ctx context.Context, id string) (*entities.PlaceDetail, error) {
	place, err := s.store.Places().GetByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "place.get", err)
	}
	detail, err := s.detail(ctx, place)
	if err != nil {
		return nil, storeError(ctx, "place.get", err)
	}
	return detail, nil
}

// List returns every place in detail form
func (s *PlaceService) List(ctx context.Context) ([]*entities.PlaceDetail, error) {
	places, err := s.store.Places().List(ctx)
	if err != nil {
		return nil, storeError(ctx, "place.list", err)
	}
	out := make([]*entities.PlaceDetail, 0, len(places))
	for _, p := range places {
		detail, err := s.detail(ctx, p)
		if err != nil {
			return nil, storeError(ctx, "place.list", err)
		}
		out = append(out, detail)
	}
	return out, nil
}

// ListAmenities returns the amenities offered by a place
func (s *PlaceService) ListAmenities(ctx context.Context, placeID string) ([]*entities.Amenity, error) {
	if _, err := s.store.Places().GetByID(ctx, placeID); err != nil {
		return nil, storeError(ctx, "place.amenities", err)
	}
	amenities, err := s.amenitiesOf(ctx, placeID)
	if err != nil {
		return nil, storeError(ctx, "place.amenities", err)
	}
	return amenities, nil
}

// Update applies a partial update. When amenities is present it replaces
// the whole association set.
func (s *PlaceService) Update(ctx context.Context, actor *entities.Actor, id string, payload validation.Payload) (*entities.PlaceDetail, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorizedError("authentication required")
	}
	place, err := s.store.Places().GetByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "place.update", err)
	}
	if !actor.Is(place.OwnerID) && !actor.Admin() {
		return nil, denied(ctx, "place.update", apperrors.NewForbiddenError("only the owner or an administrator can modify this place"))
	}
	if err := checkUpdateFields(entities.KindPlace, AudienceOwner, payload); err != nil {
		return nil, denied(ctx, "place.update", err)
	}
	fields, err := validation.Fields(entities.KindPlace, payload)
	if err != nil {
		return nil, denied(ctx, "place.update", err)
	}

	amenityIDs, replaceAmenities := fields[entities.FieldAmenities].([]string)
	delete(fields, entities.FieldAmenities)

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if replaceAmenities {
			if _, err := s.lifecycle.ResolveAmenities(ctx, tx, amenityIDs); err != nil {
				return err
			}
			if err := s.lifecycle.ReplaceAmenities(ctx, tx, id, amenityIDs); err != nil {
				return err
			}
		}
		_, err := tx.Places().UpdateFields(ctx, id, repositories.Fields(fields))
		return err
	})
	if err != nil {
		return nil, storeError(ctx, "place.update", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a place and its reviews; amenities survive
func (s *PlaceService) Delete(ctx context.Context, actor *entities.Actor, id string) error {
	if actor == nil {
		return apperrors.NewUnauthorizedError("authentication required")
	}
	place, err := s.store.Places().GetByID(ctx, id)
	if err != nil {
		return storeError(ctx, "place.delete", err)
	}
	if !actor.Is(place.OwnerID) && !actor.Admin() {
		return denied(ctx, "place.delete", apperrors.NewForbiddenError("only the owner or an administrator can delete this place"))
	}
	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		return s.lifecycle.Delete(ctx, tx, entities.KindPlace, id)
	})
	return storeError(ctx, "place.delete", err)
}

func (s *PlaceService) detail(ctx context.Context, place *entities.Place) (*entities.PlaceDetail, error) {
	owner, err := s.store.Users().GetByID(ctx, place.OwnerID)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	amenities, err := s.amenitiesOf(ctx, place.ID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.store.Reviews().ListByPlace(ctx, place.ID)
	if err != nil {
		return nil, err
	}
	return entities.NewPlaceDetail(place, owner, amenities, reviews), nil
}

func (s *PlaceService) amenitiesOf(ctx context.Context, placeID string) ([]*entities.Amenity, error) {
	ids, err := s.store.PlaceAmenities().ListAmenityIDs(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*entities.Amenity{}, nil
	}
	return s.store.Amenities().ListByIDs(ctx, ids)
}
