// Package memory is an in-process Entity Store. Writes made inside WithinTx
// are applied to a private copy of the state and swapped in on commit.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
)

type state struct {
	users          map[string]entities.User
	places         map[string]entities.Place
	reviews        map[string]entities.Review
	amenities      map[string]entities.Amenity
	placeAmenities map[string]map[string]time.Time // place id -> amenity id -> linked at
}

func newState() *state {
	return &state{
		users:          map[string]entities.User{},
		places:         map[string]entities.Place{},
		reviews:        map[string]entities.Review{},
		amenities:      map[string]entities.Amenity{},
		placeAmenities: map[string]map[string]time.Time{},
	}
}

func (s *state) clone() *state {
	out := &state{
		users:          make(map[string]entities.User, len(s.users)),
		places:         make(map[string]entities.Place, len(s.places)),
		reviews:        make(map[string]entities.Review, len(s.reviews)),
		amenities:      make(map[string]entities.Amenity, len(s.amenities)),
		placeAmenities: make(map[string]map[string]time.Time, len(s.placeAmenities)),
	}
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.places {
		out.places[k] = v
	}
	for k, v := range s.reviews {
		out.reviews[k] = v
	}
	for k, v := range s.amenities {
		out.amenities[k] = v
	}
	for placeID, set := range s.placeAmenities {
		links := make(map[string]time.Time, len(set))
		for amenityID, at := range set {
			links[amenityID] = at
		}
		out.placeAmenities[placeID] = links
	}
	return out
}

// Store implements repositories.Store in memory
type Store struct {
	mu    *sync.RWMutex
	state *state
	inTx  bool
	now   func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty in-memory store
func NewStore(opts ...Option) *Store {
	s := &Store{
		mu:    &sync.RWMutex{},
		state: newState(),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ repositories.Store = (*Store)(nil)

func (s *Store) Users() repositories.UserRepository                  { return &userRepo{s} }
func (s *Store) Places() repositories.PlaceRepository                { return &placeRepo{s} }
func (s *Store) Reviews() repositories.ReviewRepository              { return &reviewRepo{s} }
func (s *Store) Amenities() repositories.AmenityRepository           { return &amenityRepo{s} }
func (s *Store) PlaceAmenities() repositories.PlaceAmenityRepository { return &placeAmenityRepo{s} }

// WithinTx runs fn against a copy of the state and commits it if fn succeeds.
// Nested calls join the running transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{mu: s.mu, state: s.state.clone(), inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		return err
	}
	*s.state = *tx.state
	return nil
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) read(fn func(st *state) error) error {
	if !s.inTx {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	return fn(s.state)
}

func (s *Store) write(fn func(st *state) error) error {
	if !s.inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.state)
}

func (s *Store) stamp(id *string, createdAt, updatedAt *time.Time) {
	if *id == "" {
		*id = uuid.New().String()
	}
	now := s.now()
	if createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt.IsZero() {
		*updatedAt = *createdAt
	}
}

// sortByCreation orders a listing oldest first with id as tie-break
func sortByCreation[T any](items []*T, key func(*T) (time.Time, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti.Equal(tj) {
			return idi < idj
		}
		return ti.Before(tj)
	})
}
