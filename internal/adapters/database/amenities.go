package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

const amenitiesTable = "amenities"

var amenityColumns = columns("id", "name", "created_at", "updated_at")

type amenityRepo struct {
	s *Store
}

func (r *amenityRepo) Create(ctx context.Context, amenity *entities.Amenity) error {
	r.s.stamp(&amenity.ID, &amenity.CreatedAt, &amenity.UpdatedAt)
	ds := r.s.dialect.Insert(amenitiesTable).Prepared(true).Rows(goqu.Record{
		"id":         amenity.ID,
		"name":       amenity.Name,
		"created_at": amenity.CreatedAt,
		"updated_at": amenity.UpdatedAt,
	})
	_, err := r.s.exec(ctx, ds)
	return translate(err, entities.KindAmenity, amenity.ID, false)
}

func (r *amenityRepo) GetByID(ctx context.Context, id string) (*entities.Amenity, error) {
	ds := r.s.dialect.From(amenitiesTable).Prepared(true).Select(amenityColumns...).Where(goqu.Ex{"id": id})
	amenity := &entities.Amenity{}
	if err := r.s.get(ctx, amenity, ds); err != nil {
		return nil, translate(err, entities.KindAmenity, id, false)
	}
	return amenity, nil
}

func (r *amenityRepo) GetByName(ctx context.Context, name string) (*entities.Amenity, error) {
	ds := r.s.dialect.From(amenitiesTable).Prepared(true).Select(amenityColumns...).
		Where(goqu.Func("lower", goqu.C("name")).Eq(strings.ToLower(name)))
	amenity := &entities.Amenity{}
	if err := r.s.get(ctx, amenity, ds); err != nil {
		err = translate(err, entities.KindAmenity, name, false)
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("amenity '%s' not found", name))
		}
		return nil, err
	}
	return amenity, nil
}

func (r *amenityRepo) List(ctx context.Context) ([]*entities.Amenity, error) {
	ds := r.s.dialect.From(amenitiesTable).Prepared(true).Select(amenityColumns...).Order(creationOrder...)
	amenities := []*entities.Amenity{}
	if err := r.s.selectAll(ctx, &amenities, ds); err != nil {
		return nil, translate(err, entities.KindAmenity, "", false)
	}
	return amenities, nil
}

// ListByIDs returns the amenities found, in the order of ids. Missing ids are
// skipped.
func (r *amenityRepo) ListByIDs(ctx context.Context, ids []string) ([]*entities.Amenity, error) {
	if len(ids) == 0 {
		return []*entities.Amenity{}, nil
	}
	ds := r.s.dialect.From(amenitiesTable).Prepared(true).Select(amenityColumns...).Where(goqu.Ex{"id": ids})
	found := []*entities.Amenity{}
	if err := r.s.selectAll(ctx, &found, ds); err != nil {
		return nil, translate(err, entities.KindAmenity, "", false)
	}

	byID := make(map[string]*entities.Amenity, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}
	out := make([]*entities.Amenity, 0, len(found))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *amenityRepo) UpdateFields(ctx context.Context, id string, fields repositories.Fields) (*entities.Amenity, error) {
	record, err := updateRecord(entities.KindAmenity, fields, map[string]string{
		entities.FieldName: "name",
	})
	if err != nil {
		return nil, err
	}
	record["updated_at"] = r.s.now()

	ds := r.s.dialect.Update(amenitiesTable).Prepared(true).Set(record).Where(goqu.Ex{"id": id}).Returning(amenityColumns...)
	amenity := &entities.Amenity{}
	if err := r.s.get(ctx, amenity, ds); err != nil {
		return nil, translate(err, entities.KindAmenity, id, false)
	}
	return amenity, nil
}

func (r *amenityRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.s, amenitiesTable, entities.KindAmenity, id)
}
