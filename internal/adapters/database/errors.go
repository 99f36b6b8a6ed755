package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// Constraint names created by EnsureSchema
const (
	constraintUserEmail    = "users_email_key"
	constraintAmenityName  = "amenities_name_key"
	constraintReviewAuthor = "reviews_user_place_key"
	constraintPlaceOwner   = "places_owner_id_fkey"
	constraintReviewUser   = "reviews_user_id_fkey"
	constraintReviewPlace  = "reviews_place_id_fkey"
	constraintLinkPlace    = "place_amenities_place_id_fkey"
	constraintLinkAmenity  = "place_amenities_amenity_id_fkey"
)

// translate maps a driver error onto the store's error contract. Foreign key
// violations mean a missing parent on writes and a live reference on delete.
func translate(err error, kind entities.EntityKind, id string, deleting bool) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(kind, id)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return apperrors.NewConflictError(uniqueMessage(pqErr.Constraint, kind, id))
		case pqForeignKeyViolation:
			if deleting {
				return apperrors.NewConflictError(fmt.Sprintf("%s %s is still referenced by %s", kind, id, pqErr.Table))
			}
			return apperrors.NewNotFoundError(missingParentMessage(pqErr.Constraint))
		}
	}
	return apperrors.NewStorageError(fmt.Sprintf("%s store operation failed", kind), err)
}

func notFound(kind entities.EntityKind, id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("%s with id %s not found", kind, id))
}

func uniqueMessage(constraint string, kind entities.EntityKind, id string) string {
	switch constraint {
	case constraintUserEmail:
		return "email is already registered"
	case constraintAmenityName:
		return "amenity already exists"
	case constraintReviewAuthor:
		return "user has already reviewed this place"
	}
	return fmt.Sprintf("%s with id %s already exists", kind, id)
}

func missingParentMessage(constraint string) string {
	switch constraint {
	case constraintPlaceOwner:
		return "owner not found"
	case constraintReviewUser:
		return "user not found"
	case constraintReviewPlace, constraintLinkPlace:
		return "place not found"
	case constraintLinkAmenity:
		return "amenity not found"
	}
	return "referenced entity not found"
}
