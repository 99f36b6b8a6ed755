package database

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

const reviewsTable = "reviews"

var reviewColumns = columns("id", "text", "rating", "user_id", "place_id", "created_at", "updated_at")

type reviewRepo struct {
	s *Store
}

func (r *reviewRepo) Create(ctx context.Context, review *entities.Review) error {
	r.s.stamp(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	ds := r.s.dialect.Insert(reviewsTable).Prepared(true).Rows(goqu.Record{
		"id":         review.ID,
		"text":       review.Text,
		"rating":     review.Rating,
		"user_id":    review.UserID,
		"place_id":   review.PlaceID,
		"created_at": review.CreatedAt,
		"updated_at": review.UpdatedAt,
	})
	_, err := r.s.exec(ctx, ds)
	return translate(err, entities.KindReview, review.ID, false)
}

func (r *reviewRepo) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	ds := r.s.dialect.From(reviewsTable).Prepared(true).Select(reviewColumns...).Where(goqu.Ex{"id": id})
	review := &entities.Review{}
	if err := r.s.get(ctx, review, ds); err != nil {
		return nil, translate(err, entities.KindReview, id, false)
	}
	return review, nil
}

func (r *reviewRepo) GetByUserAndPlace(ctx context.Context, userID, placeID string) (*entities.Review, error) {
	ds := r.s.dialect.From(reviewsTable).Prepared(true).Select(reviewColumns...).
		Where(goqu.Ex{"user_id": userID, "place_id": placeID})
	review := &entities.Review{}
	if err := r.s.get(ctx, review, ds); err != nil {
		err = translate(err, entities.KindReview, "", false)
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no review by user %s for place %s", userID, placeID))
		}
		return nil, err
	}
	return review, nil
}

func (r *reviewRepo) List(ctx context.Context) ([]*entities.Review, error) {
	return r.list(ctx, goqu.Ex{})
}

func (r *reviewRepo) ListByPlace(ctx context.Context, placeID string) ([]*entities.Review, error) {
	return r.list(ctx, goqu.Ex{"place_id": placeID})
}

func (r *reviewRepo) ListByUser(ctx context.Context, userID string) ([]*entities.Review, error) {
	return r.list(ctx, goqu.Ex{"user_id": userID})
}

func (r *reviewRepo) list(ctx context.Context, where goqu.Ex) ([]*entities.Review, error) {
	ds := r.s.dialect.From(reviewsTable).Prepared(true).Select(reviewColumns...).Order(creationOrder...)
	if len(where) > 0 {
		ds = ds.Where(where)
	}
	reviews := []*entities.Review{}
	if err := r.s.selectAll(ctx, &reviews, ds); err != nil {
		return nil, translate(err, entities.KindReview, "", false)
	}
	return reviews, nil
}

func (r *reviewRepo) UpdateFields(ctx context.Context, id string, fields repositories.Fields) (*entities.Review, error) {
	record, err := updateRecord(entities.KindReview, fields, map[string]string{
		entities.FieldText:   "text",
		entities.FieldRating: "rating",
	})
	if err != nil {
		return nil, err
	}
	record["updated_at"] = r.s.now()

	ds := r.s.dialect.Update(reviewsTable).Prepared(true).Set(record).Where(goqu.Ex{"id": id}).Returning(reviewColumns...)
	review := &entities.Review{}
	if err := r.s.get(ctx, review, ds); err != nil {
		return nil, translate(err, entities.KindReview, id, false)
	}
	return review, nil
}

func (r *reviewRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.s, reviewsTable, entities.KindReview, id)
}
