package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
)

const (
	placesTable         = "places"
	placeAmenitiesTable = "place_amenities"
)

var placeColumns = columns("id", "title", "description", "price", "latitude", "longitude", "owner_id", "created_at", "updated_at")

type placeRepo struct {
	s *Store
}

func (r *placeRepo) Create(ctx context.Context, place *entities.Place) error {
	r.s.stamp(&place.ID, &place.CreatedAt, &place.UpdatedAt)
	ds := r.s.dialect.Insert(placesTable).Prepared(true).Rows(goqu.Record{
		"id":          place.ID,
		"title":       place.Title,
		"description": place.Description,
		"price":       place.Price,
		"latitude":    place.Latitude,
		"longitude":   place.Longitude,
		"owner_id":    place.OwnerID,
		"created_at":  place.CreatedAt,
		"updated_at":  place.UpdatedAt,
	})
	_, err := r.s.exec(ctx, ds)
	return translate(err, entities.KindPlace, place.ID, false)
}

func (r *placeRepo) GetByID(ctx context.Context, id string) (*entities.Place, error) {
	ds := r.s.dialect.From(placesTable).Prepared(true).Select(placeColumns...).Where(goqu.Ex{"id": id})
	place := &entities.Place{}
	if err := r.s.get(ctx, place, ds); err != nil {
		return nil, translate(err, entities.KindPlace, id, false)
	}
	return place, nil
}

func (r *placeRepo) List(ctx context.Context) ([]*entities.Place, error) {
	return r.list(ctx, goqu.Ex{})
}

func (r *placeRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Place, error) {
	return r.list(ctx, goqu.Ex{"owner_id": ownerID})
}

func (r *placeRepo) list(ctx context.Context, where goqu.Ex) ([]*entities.Place, error) {
	ds := r.s.dialect.From(placesTable).Prepared(true).Select(placeColumns...).Order(creationOrder...)
	if len(where) > 0 {
		ds = ds.Where(where)
	}
	places := []*entities.Place{}
	if err := r.s.selectAll(ctx, &places, ds); err != nil {
		return nil, translate(err, entities.KindPlace, "", false)
	}
	return places, nil
}

func (r *placeRepo) UpdateFields(ctx context.Context, id string, fields repositories.Fields) (*entities.Place, error) {
	record, err := updateRecord(entities.KindPlace, fields, map[string]string{
		entities.FieldTitle:       "title",
		entities.FieldDescription: "description",
		entities.FieldPrice:       "price",
		entities.FieldLatitude:    "latitude",
		entities.FieldLongitude:   "longitude",
	})
	if err != nil {
		return nil, err
	}
	record["updated_at"] = r.s.now()

	ds := r.s.dialect.Update(placesTable).Prepared(true).Set(record).Where(goqu.Ex{"id": id}).Returning(placeColumns...)
	place := &entities.Place{}
	if err := r.s.get(ctx, place, ds); err != nil {
		return nil, translate(err, entities.KindPlace, id, false)
	}
	return place, nil
}

func (r *placeRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.s, placesTable, entities.KindPlace, id)
}

type placeAmenityRepo struct {
	s *Store
}

func (r *placeAmenityRepo) ListAmenityIDs(ctx context.Context, placeID string) ([]string, error) {
	return r.ids(ctx, "amenity_id", goqu.Ex{"place_id": placeID})
}

func (r *placeAmenityRepo) ListPlaceIDs(ctx context.Context, amenityID string) ([]string, error) {
	return r.ids(ctx, "place_id", goqu.Ex{"amenity_id": amenityID})
}

func (r *placeAmenityRepo) ids(ctx context.Context, col string, where goqu.Ex) ([]string, error) {
	ds := r.s.dialect.From(placeAmenitiesTable).Prepared(true).Select(col).Where(where).
		Order(goqu.I("created_at").Asc(), goqu.I(col).Asc())
	ids := []string{}
	if err := r.s.selectAll(ctx, &ids, ds); err != nil {
		return nil, translate(err, entities.KindPlaceAmenity, "", false)
	}
	return ids, nil
}

func (r *placeAmenityRepo) Add(ctx context.Context, placeID, amenityID string) error {
	ds := r.s.dialect.Insert(placeAmenitiesTable).Prepared(true).Rows(goqu.Record{
		"place_id":   placeID,
		"amenity_id": amenityID,
		"created_at": r.s.now(),
	}).OnConflict(goqu.DoNothing())
	_, err := r.s.exec(ctx, ds)
	return translate(err, entities.KindPlaceAmenity, placeID+"/"+amenityID, false)
}

func (r *placeAmenityRepo) Remove(ctx context.Context, placeID, amenityID string) error {
	return r.clear(ctx, goqu.Ex{"place_id": placeID, "amenity_id": amenityID})
}

func (r *placeAmenityRepo) ClearPlace(ctx context.Context, placeID string) error {
	return r.clear(ctx, goqu.Ex{"place_id": placeID})
}

func (r *placeAmenityRepo) ClearAmenity(ctx context.Context, amenityID string) error {
	return r.clear(ctx, goqu.Ex{"amenity_id": amenityID})
}

func (r *placeAmenityRepo) clear(ctx context.Context, where goqu.Ex) error {
	ds := r.s.dialect.Delete(placeAmenitiesTable).Prepared(true).Where(where)
	_, err := r.s.exec(ctx, ds)
	return translate(err, entities.KindPlaceAmenity, "", true)
}
