package services

import (
	"fmt"

	"github.com/zatekoja/hbnb/backend/internal/application/validation"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

type fieldSet map[string]struct{}

func newFieldSet(fields ...string) fieldSet {
	set := make(fieldSet, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func (s fieldSet) has(field string) bool {
	_, ok := s[field]
	return ok
}

// Audience selects which allow-list applies to a write
type Audience string

const (
	AudienceOwner Audience = "owner"
	AudienceSelf  Audience = "self"
	AudienceAdmin Audience = "admin"
)

type policyKey struct {
	kind     entities.EntityKind
	audience Audience
}

// mutableFields is the allow-list of fields an update may touch
var mutableFields = map[policyKey]fieldSet{
	{entities.KindUser, AudienceSelf}: newFieldSet(
		entities.FieldFirstName, entities.FieldLastName,
	),
	{entities.KindUser, AudienceAdmin}: newFieldSet(
		entities.FieldFirstName, entities.FieldLastName, entities.FieldEmail,
		entities.FieldPassword, entities.FieldIsAdmin,
	),
	{entities.KindPlace, AudienceOwner}: newFieldSet(
		entities.FieldTitle, entities.FieldDescription, entities.FieldPrice,
		entities.FieldLatitude, entities.FieldLongitude, entities.FieldAmenities,
	),
	{entities.KindReview, AudienceOwner}:  newFieldSet(entities.FieldText, entities.FieldRating),
	{entities.KindAmenity, AudienceAdmin}: newFieldSet(entities.FieldName),
}

// creatableFields is the set of fields a create payload may carry
var creatableFields = map[entities.EntityKind]fieldSet{
	entities.KindUser: newFieldSet(
		entities.FieldFirstName, entities.FieldLastName, entities.FieldEmail,
		entities.FieldPassword, entities.FieldIsAdmin,
	),
	entities.KindPlace: newFieldSet(
		entities.FieldTitle, entities.FieldDescription, entities.FieldPrice,
		entities.FieldLatitude, entities.FieldLongitude, entities.FieldOwnerID,
		entities.FieldAmenities,
	),
	entities.KindReview: newFieldSet(
		entities.FieldText, entities.FieldRating, entities.FieldUserID, entities.FieldPlaceID,
	),
	entities.KindAmenity: newFieldSet(entities.FieldName),
}

// requiredFields must be present on create
var requiredFields = map[entities.EntityKind][]string{
	entities.KindUser:    {entities.FieldFirstName, entities.FieldLastName, entities.FieldEmail, entities.FieldPassword},
	entities.KindPlace:   {entities.FieldTitle, entities.FieldPrice, entities.FieldLatitude, entities.FieldLongitude},
	entities.KindReview:  {entities.FieldText, entities.FieldRating, entities.FieldPlaceID},
	entities.KindAmenity: {entities.FieldName},
}

// protectedFields can never be written by an update
var protectedFields = map[entities.EntityKind]fieldSet{
	entities.KindUser:    newFieldSet(entities.FieldID, entities.FieldCreatedAt, entities.FieldUpdatedAt),
	entities.KindPlace:   newFieldSet(entities.FieldID, entities.FieldCreatedAt, entities.FieldUpdatedAt, entities.FieldOwnerID),
	entities.KindReview:  newFieldSet(entities.FieldID, entities.FieldCreatedAt, entities.FieldUpdatedAt, entities.FieldUserID, entities.FieldPlaceID),
	entities.KindAmenity: newFieldSet(entities.FieldID, entities.FieldCreatedAt, entities.FieldUpdatedAt),
}

// checkUpdateFields rejects any key outside the allow-list before a write.
// Protected and known-but-not-mutable fields report "protected"; anything
// else reports "unknown".
func checkUpdateFields(kind entities.EntityKind, audience Audience, payload validation.Payload) error {
	allowed := mutableFields[policyKey{kind, audience}]
	for _, field := range payload.Keys() {
		if allowed.has(field) {
			continue
		}
		if protectedFields[kind].has(field) || validation.Has(kind, field) {
			return apperrors.NewFieldError(field, apperrors.ReasonProtected,
				fmt.Sprintf("%s '%s' cannot be modified", kind, field))
		}
		return apperrors.NewFieldError(field, apperrors.ReasonUnknown,
			fmt.Sprintf("unknown %s field '%s'", kind, field))
	}
	return nil
}

// checkCreateFields rejects unknown or server-assigned keys
func checkCreateFields(kind entities.EntityKind, payload validation.Payload) error {
	allowed := creatableFields[kind]
	for _, field := range payload.Keys() {
		if allowed.has(field) {
			continue
		}
		if protectedFields[kind].has(field) {
			return apperrors.NewFieldError(field, apperrors.ReasonProtected,
				fmt.Sprintf("%s '%s' is assigned by the server", kind, field))
		}
		return apperrors.NewFieldError(field, apperrors.ReasonUnknown,
			fmt.Sprintf("unknown %s field '%s'", kind, field))
	}
	return nil
}

// checkRequired reports the first required field missing from payload
func checkRequired(kind entities.EntityKind, payload validation.Payload) error {
	for _, field := range requiredFields[kind] {
		if !payload.Has(field) {
			return apperrors.NewFieldError(field, apperrors.ReasonRequired,
				fmt.Sprintf("%s is required", field))
		}
	}
	return nil
}
