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

type amenityRepo struct {
	s *Store
}

func (r *amenityRepo) Create(ctx context.Context, amenity *entities.Amenity) error {
	return r.s.write(func(st *state) error {
		if nameTaken(st, amenity.Name, "") {
			return apperrors.NewConflictError(fmt.Sprintf("amenity '%s' already exists", amenity.Name))
		}
		r.s.stamp(&amenity.ID, &amenity.CreatedAt, &amenity.UpdatedAt)
		if _, exists := st.amenities[amenity.ID]; exists {
			return apperrors.NewConflictError(fmt.Sprintf("amenity with id %s already exists", amenity.ID))
		}
		st.amenities[amenity.ID] = *amenity
		return nil
	})
}

func (r *amenityRepo) GetByID(ctx context.Context, id string) (*entities.Amenity, error) {
	var out *entities.Amenity
	err := r.s.read(func(st *state) error {
		a, ok := st.amenities[id]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("amenity with id %s not found", id))
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *amenityRepo) GetByName(ctx context.Context, name string) (*entities.Amenity, error) {
	var out *entities.Amenity
	err := r.s.read(func(st *state) error {
		for _, a := range st.amenities {
			if strings.EqualFold(a.Name, name) {
				found := a
				out = &found
				return nil
			}
		}
		return apperrors.NewNotFoundError(fmt.Sprintf("amenity '%s' not found", name))
	})
	return out, err
}

func (r *amenityRepo) List(ctx context.Context) ([]*entities.Amenity, error) {
	var out []*entities.Amenity
	err := r.s.read(func(st *state) error {
		out = make([]*entities.Amenity, 0, len(st.amenities))
		for _, a := range st.amenities {
			out = append(out, &a)
		}
		return nil
	})
	sortByCreation(out, func(a *entities.Amenity) (time.Time, string) { return a.CreatedAt, a.ID })
	return out, err
}

// ListByIDs returns the amenities found, in the order of ids. Missing ids are
// skipped.
func (r *amenityRepo) ListByIDs(ctx context.Context, ids []string) ([]*entities.Amenity, error) {
	out := make([]*entities.Amenity, 0, len(ids))
	err := r.s.read(func(st *state) error {
		for _, id := range ids {
			if a, ok := st.amenities[id]; ok {
				out = append(out, &a)
			}
		}
		return nil
	})
	return out, err
}

func (r *amenityRepo) UpdateFields(ctx context.Context, id string, fields repositories.Fields) (*entities.Amenity, error) {
	var out *entities.Amenity
	err := r.s.write(func(st *state) error {
		a, ok := st.amenities[id]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("amenity with id %s not found", id))
		}
		for field, value := range fields {
			var ok bool
			switch field {
			case entities.FieldName:
				a.Name, ok = value.(string)
				if ok && nameTaken(st, a.Name, id) {
					return apperrors.NewConflictError(fmt.Sprintf("amenity '%s' already exists", a.Name))
				}
			}
			if !ok {
				return badField(entities.KindAmenity, field, value)
			}
		}
		a.UpdatedAt = r.s.now()
		st.amenities[id] = a
		out = &a
		return nil
	})
	return out, err
}

func (r *amenityRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.amenities[id]; !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("amenity with id %s not found", id))
		}
		for _, set := range st.placeAmenities {
			if _, linked := set[id]; linked {
				return stillReferenced(entities.KindAmenity, id, entities.KindPlaceAmenity)
			}
		}
		delete(st.amenities, id)
		return nil
	})
}

func nameTaken(st *state, name, exceptID string) bool {
	for _, a := range st.amenities {
		if a.ID != exceptID && strings.EqualFold(a.Name, name) {
			return true
		}
	}
	return false
}
