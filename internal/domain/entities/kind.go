package entities

// EntityKind names a persisted entity type
type EntityKind string

const (
	KindUser         EntityKind = "user"
	KindPlace        EntityKind = "place"
	KindReview       EntityKind = "review"
	KindAmenity      EntityKind = "amenity"
	KindPlaceAmenity EntityKind = "place_amenity"
)

// Field names shared by every entity
const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// Entity field names
const (
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldPasswordHash = "password_hash"
	FieldIsAdmin      = "is_admin"
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldPrice        = "price"
	FieldLatitude     = "latitude"
	FieldLongitude    = "longitude"
	FieldOwnerID      = "owner_id"
	FieldAmenities    = "amenities"
	FieldText         = "text"
	FieldRating       = "rating"
	FieldUserID       = "user_id"
	FieldPlaceID      = "place_id"
	FieldAmenityID    = "amenity_id"
	FieldName         = "name"
)
