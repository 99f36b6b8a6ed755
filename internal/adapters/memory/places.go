package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

type placeRepo struct {
	s *Store
}

func (r *placeRepo) Create(ctx context.Context, place *entities.Place) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.users[place.OwnerID]; !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("owner with id %s not found", place.OwnerID))
		}
		r.s.stamp(&place.ID, &place.CreatedAt, &place.UpdatedAt)
		if _, exists := st.places[place.ID]; exists {
			return apperrors.NewConflictError(fmt.Sprintf("place with id %s already exists", place.ID))
		}
		st.places[place.ID] = *place
		return nil
	})
}

func (r *placeRepo) GetByID(ctx context.Context, id string) (*entities.Place, error) {
	var out *entities.Place
	err := r.s.read(func(st *state) error {
		p, ok := st.places[id]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("place with id %s not found", id))
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *placeRepo) List(ctx context.Context) ([]*entities.Place, error) {
	return r.filter(func(*entities.Place) bool { return true })
}

func (r *placeRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Place, error) {
	return r.filter(func(p *entities.Place) bool { return p.OwnerID == ownerID })
}

func (r *placeRepo) filter(keep func(*entities.Place) bool) ([]*entities.Place, error) {
	out := []*entities.Place{}
	err := r.s.read(func(st *state) error {
		for _, p := range st.places {
			if keep(&p) {
				out = append(out, &p)
			}
		}
		return nil
	})
	sortByCreation(out, func(p *entities.Place) (time.Time, string) { return p.CreatedAt, p.ID })
	return out, err
}

func (r *placeRepo) UpdateFields(ctx context.Context, id string, fields repositories.Fields) (*entities.Place, error) {
	var out *entities.Place
	err := r.s.write(func(st *state) error {
		p, ok := st.places[id]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("place with id %s not found", id))
		}
		for field, value := range fields {
			var ok bool
			switch field {
			case entities.FieldTitle:
				p.Title, ok = value.(string)
			case entities.FieldDescription:
				p.Description, ok = value.(string)
			case entities.FieldPrice:
				p.Price, ok = value.(decimal.Decimal)
			case entities.FieldLatitude:
				p.Latitude, ok = value.(float64)
			case entities.FieldLongitude:
				p.Longitude, ok = value.(float64)
			}
			if !ok {
				return badField(entities.KindPlace, field, value)
			}
		}
		p.UpdatedAt = r.s.now()
		st.places[id] = p
		out = &p
		return nil
	})
	return out, err
}

func (r *placeRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.places[id]; !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("place with id %s not found", id))
		}
		for _, rv := range st.reviews {
			if rv.PlaceID == id {
				return stillReferenced(entities.KindPlace, id, entities.KindReview)
			}
		}
		if len(st.placeAmenities[id]) > 0 {
			return stillReferenced(entities.KindPlace, id, entities.KindPlaceAmenity)
		}
		delete(st.places, id)
		delete(st.placeAmenities, id)
		return nil
	})
}

type placeAmenityRepo struct {
	s *Store
}

func (r *placeAmenityRepo) ListAmenityIDs(ctx context.Context, placeID string) ([]string, error) {
	var out []string
	err := r.s.read(func(st *state) error {
		out = linkedIDs(st.placeAmenities[placeID])
		return nil
	})
	return out, err
}

func (r *placeAmenityRepo) ListPlaceIDs(ctx context.Context, amenityID string) ([]string, error) {
	var out []string
	err := r.s.read(func(st *state) error {
		out = []string{}
		for placeID, set := range st.placeAmenities {
			if _, ok := set[amenityID]; ok {
				out = append(out, placeID)
			}
		}
		sort.Strings(out)
		return nil
	})
	return out, err
}

func (r *placeAmenityRepo) Add(ctx context.Context, placeID, amenityID string) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.places[placeID]; !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("place with id %s not found", placeID))
		}
		if _, ok := st.amenities[amenityID]; !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("amenity with id %s not found", amenityID))
		}
		set, ok := st.placeAmenities[placeID]
		if !ok {
			set = map[string]time.Time{}
			st.placeAmenities[placeID] = set
		}
		if _, linked := set[amenityID]; !linked {
			set[amenityID] = r.s.now()
		}
		return nil
	})
}

func (r *placeAmenityRepo) Remove(ctx context.Context, placeID, amenityID string) error {
	return r.s.write(func(st *state) error {
		delete(st.placeAmenities[placeID], amenityID)
		return nil
	})
}

func (r *placeAmenityRepo) ClearPlace(ctx context.Context, placeID string) error {
	return r.s.write(func(st *state) error {
		delete(st.placeAmenities, placeID)
		return nil
	})
}

func (r *placeAmenityRepo) ClearAmenity(ctx context.Context, amenityID string) error {
	return r.s.write(func(st *state) error {
		for _, set := range st.placeAmenities {
			delete(set, amenityID)
		}
		return nil
	})
}

// linkedIDs returns amenity ids in the order they were linked
func linkedIDs(set map[string]time.Time) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ti, tj := set[ids[i]], set[ids[j]]
		if ti.Equal(tj) {
			return ids[i] < ids[j]
		}
		return ti.Before(tj)
	})
	return ids
}
