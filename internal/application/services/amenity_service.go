package services

import (
	"context"

	"github.com/zatekoja/hbnb/backend/internal/application/validation"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

// AmenityService manages the global amenity catalogue. Mutations are
// admin only and names are unique ignoring case.
type AmenityService struct {
	store     repositories.Store
	lifecycle *Lifecycle
}

// NewAmenityService creates a new amenity service
func NewAmenityService(store repositories.Store, lifecycle *Lifecycle) *AmenityService {
	return &AmenityService{
		store:     store,
		lifecycle: lifecycle,
	}
}

// Create adds an amenity
func (s *AmenityService) Create(ctx context.Context, actor *entities.Actor, payload validation.Payload) (*entities.Amenity, error) {
	if !actor.Admin() {
		return nil, denied(ctx, "amenity.create", apperrors.NewForbiddenError("admin privileges required"))
	}
	if err := checkCreateFields(entities.KindAmenity, payload); err != nil {
		return nil, denied(ctx, "amenity.create", err)
	}
	if err := checkRequired(entities.KindAmenity, payload); err != nil {
		return nil, denied(ctx, "amenity.create", err)
	}
	fields, err := validation.Fields(entities.KindAmenity, payload)
	if err != nil {
		return nil, denied(ctx, "amenity.create", err)
	}

	name := fields.String(entities.FieldName)
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}
	amenity := &entities.Amenity{Name: name}
	if err := s.store.Amenities().Create(ctx, amenity); err != nil {
		return nil, storeError(ctx, "amenity.create", err)
	}
	return amenity, nil
}

// Get retrieves an amenity by ID
func (s *AmenityService) Get(ctx context.Context, id string) (*entities.Amenity, error) {
	amenity, err := s.store.Amenities().GetByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "amenity.get", err)
	}
	return amenity, nil
}

// List returns every amenity
func (s *AmenityService) List(ctx context.Context) ([]*entities.Amenity, error) {
	amenities, err := s.store.Amenities().List(ctx)
	if err != nil {
		return nil, storeError(ctx, "amenity.list", err)
	}
	return amenities, nil
}

// Update renames an amenity
func (s *AmenityService) Update(ctx context.Context, actor *entities.Actor, id string, payload validation.Payload) (*entities.Amenity, error) {
	if !actor.Admin() {
		return nil, denied(ctx, "amenity.update", apperrors.NewForbiddenError("admin privileges required"))
	}
	amenity, err := s.store.Amenities().GetByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "amenity.update", err)
	}
	if err := checkUpdateFields(entities.KindAmenity, AudienceAdmin, payload); err != nil {
		return nil, denied(ctx, "amenity.update", err)
	}
	fields, err := validation.Fields(entities.KindAmenity, payload)
	if err != nil {
		return nil, denied(ctx, "amenity.update", err)
	}
	if len(fields) == 0 {
		return amenity, nil
	}
	if name, ok := fields[entities.FieldName].(string); ok {
		if err := s.ensureNameFree(ctx, name, id); err != nil {
			return nil, err
		}
	}

	updated, err := s.store.Amenities().UpdateFields(ctx, id, repositories.Fields(fields))
	if err != nil {
		return nil, storeError(ctx, "amenity.update", err)
	}
	return updated, nil
}

// Delete removes an amenity and detaches it from every place
func (s *AmenityService) Delete(ctx context.Context, actor *entities.Actor, id string) error {
	if !actor.Admin() {
		return denied(ctx, "amenity.delete", apperrors.NewForbiddenError("admin privileges required"))
	}
	if _, err := s.store.Amenities().GetByID(ctx, id); err != nil {
		return storeError(ctx, "amenity.delete", err)
	}
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		return s.lifecycle.Delete(ctx, tx, entities.KindAmenity, id)
	})
	return storeError(ctx, "amenity.delete", err)
}

func (s *AmenityService) ensureNameFree(ctx context.Context, name, exceptID string) error {
	existing, err := s.store.Amenities().GetByName(ctx, name)
	if apperrors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return storeError(ctx, "amenity.name_lookup", err)
	}
	if existing.ID == exceptID {
		return nil
	}
	return denied(ctx, "amenity.name_lookup", apperrors.NewConflictError("amenity '"+existing.Name+"' already exists"))
}
