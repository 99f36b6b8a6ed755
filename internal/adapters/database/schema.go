package database

import (
	"context"

	"github.com/rs/zerolog/log"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

// schemaStatements create the tables on an empty database. Every foreign key
// restricts deletes; cascades are performed by the lifecycle orchestrator.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            VARCHAR(36) PRIMARY KEY,
		first_name    VARCHAR(255) NOT NULL,
		last_name     VARCHAR(255) NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + constraintUserEmail + ` ON users (lower(email))`,

	`CREATE TABLE IF NOT EXISTS places (
		id          VARCHAR(36) PRIMARY KEY,
		title       VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price       NUMERIC(10, 2) NOT NULL,
		latitude    DOUBLE PRECISION NOT NULL,
		longitude   DOUBLE PRECISION NOT NULL,
		owner_id    VARCHAR(36) NOT NULL CONSTRAINT ` + constraintPlaceOwner + ` REFERENCES users (id) ON DELETE RESTRICT,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS places_owner_id_idx ON places (owner_id)`,

	`CREATE TABLE IF NOT EXISTS amenities (
		id         VARCHAR(36) PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + constraintAmenityName + ` ON amenities (lower(name))`,

	`CREATE TABLE IF NOT EXISTS reviews (
		id         VARCHAR(36) PRIMARY KEY,
		text       TEXT NOT NULL,
		rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		user_id    VARCHAR(36) NOT NULL CONSTRAINT ` + constraintReviewUser + ` REFERENCES users (id) ON DELETE RESTRICT,
		place_id   VARCHAR(36) NOT NULL CONSTRAINT ` + constraintReviewPlace + ` REFERENCES places (id) ON DELETE RESTRICT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT ` + constraintReviewAuthor + ` UNIQUE (user_id, place_id)
	)`,
	`CREATE INDEX IF NOT EXISTS reviews_place_id_idx ON reviews (place_id)`,

	`CREATE TABLE IF NOT EXISTS place_amenities (
		place_id   VARCHAR(36) NOT NULL CONSTRAINT ` + constraintLinkPlace + ` REFERENCES places (id) ON DELETE RESTRICT,
		amenity_id VARCHAR(36) NOT NULL CONSTRAINT ` + constraintLinkAmenity + ` REFERENCES amenities (id) ON DELETE RESTRICT,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (place_id, amenity_id)
	)`,
	`CREATE INDEX IF NOT EXISTS place_amenities_amenity_id_idx ON place_amenities (amenity_id)`,
}

// EnsureSchema creates any missing tables and indexes
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.NewStorageError("failed to create schema", err)
		}
	}
	log.Info().Int("statements", len(schemaStatements)).Msg("Database schema ensured")
	return nil
}
