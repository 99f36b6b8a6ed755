package repositories

import (
	"context"

	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
)

// Fields is a set of validated column values for a partial update.
// Keys are entity field names (see entities.Field*).
type Fields map[string]interface{}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create inserts a user, assigning id and timestamps when absent
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail retrieves a user by normalised email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// List returns every user
	List(ctx context.Context) ([]*entities.User, error)

	// UpdateFields applies a partial update and bumps updated_at
	UpdateFields(ctx context.Context, id string, fields Fields) (*entities.User, error)

	// Delete removes the user row only; cascades are driven by the caller
	Delete(ctx context.Context, id string) error
}

// PlaceRepository defines the interface for place data operations
type PlaceRepository interface {
	Create(ctx context.Context, place *entities.Place) error
	GetByID(ctx context.Context, id string) (*entities.Place, error)
	List(ctx context.Context) ([]*entities.Place, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entities.Place, error)
	UpdateFields(ctx context.Context, id string, fields Fields) (*entities.Place, error)
	Delete(ctx context.Context, id string) error
}

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	Create(ctx context.Context, review *entities.Review) error
	GetByID(ctx context.Context, id string) (*entities.Review, error)

	// GetByUserAndPlace returns the single review a user wrote for a place
	GetByUserAndPlace(ctx context.Context, userID, placeID string) (*entities.Review, error)

	List(ctx context.Context) ([]*entities.Review, error)
	ListByPlace(ctx context.Context, placeID string) ([]*entities.Review, error)
	ListByUser(ctx context.Context, userID string) ([]*entities.Review, error)
	UpdateFields(ctx context.Context, id string, fields Fields) (*entities.Review, error)
	Delete(ctx context.Context, id string) error
}

// AmenityRepository defines the interface for amenity operations
type AmenityRepository interface {
	Create(ctx context.Context, amenity *entities.Amenity) error
	GetByID(ctx context.Context, id string) (*entities.Amenity, error)

	// GetByName matches names case-insensitively
	GetByName(ctx context.Context, name string) (*entities.Amenity, error)

	List(ctx context.Context) ([]*entities.Amenity, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entities.Amenity, error)
	UpdateFields(ctx context.Context, id string, fields Fields) (*entities.Amenity, error)
	Delete(ctx context.Context, id string) error
}

// PlaceAmenityRepository manages the place <-> amenity association rows
type PlaceAmenityRepository interface {
	ListAmenityIDs(ctx context.Context, placeID string) ([]string, error)
	ListPlaceIDs(ctx context.Context, amenityID string) ([]string, error)
	Add(ctx context.Context, placeID, amenityID string) error
	Remove(ctx context.Context, placeID, amenityID string) error
	ClearPlace(ctx context.Context, placeID string) error
	ClearAmenity(ctx context.Context, amenityID string) error
}

// Store is the entity store consumed by the application layer. It owns all
// persisted state and enforces the uniqueness invariants (user email,
// amenity name, one review per user and place) as hard constraints.
type Store interface {
	Users() UserRepository
	Places() PlaceRepository
	Reviews() ReviewRepository
	Amenities() AmenityRepository
	PlaceAmenities() PlaceAmenityRepository

	// WithinTx runs fn against a transactional view of the store. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Store) error) error

	// Ping verifies the store is reachable
	Ping(ctx context.Context) error
}
