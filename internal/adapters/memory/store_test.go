package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hbnb/backend/internal/adapters/memory"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

func seedUser(t *testing.T, store *memory.Store, email string) *entities.User {
	t.Helper()
	u := &entities.User{FirstName: "Test", LastName: "User", Email: email, PasswordHash: "hash"}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

func TestStore_UserLifecycle(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	store := memory.NewStore(memory.WithClock(func() time.Time { return fixed }))

	u := seedUser(t, store, "jane@example.com")
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, fixed, u.CreatedAt)
	assert.Equal(t, fixed, u.UpdatedAt)

	got, err := store.Users().GetByEmail(ctx, "JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	err = store.Users().Create(ctx, &entities.User{FirstName: "J", LastName: "D", Email: "Jane@Example.com"})
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeConflict))

	updated, err := store.Users().UpdateFields(ctx, u.ID, repositories.Fields{entities.FieldFirstName: "Janet"})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.FirstName)
	assert.Equal(t, "jane@example.com", updated.Email)

	_, err = store.Users().UpdateFields(ctx, "missing", repositories.Fields{entities.FieldFirstName: "x"})
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, store.Users().Delete(ctx, u.ID))
	_, err = store.Users().GetByID(ctx, u.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStore_UpdateFieldsIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	u := seedUser(t, store, "a@example.com")

	_, err := store.Users().UpdateFields(ctx, u.ID, repositories.Fields{
		entities.FieldFirstName: "Changed",
		entities.FieldIsAdmin:   "yes",
	})
	require.Error(t, err)

	got, err := store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test", got.FirstName)
}

func TestStore_ReferentialConstraints(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	err := store.Places().Create(ctx, &entities.Place{Title: "Nowhere", OwnerID: "ghost"})
	assert.True(t, apperrors.IsNotFound(err))

	owner := seedUser(t, store, "owner@example.com")
	guest := seedUser(t, store, "guest@example.com")
	place := &entities.Place{Title: "Loft", Price: decimal.NewFromInt(80), OwnerID: owner.ID}
	require.NoError(t, store.Places().Create(ctx, place))

	review := &entities.Review{Text: "Great", Rating: 5, UserID: guest.ID, PlaceID: place.ID}
	require.NoError(t, store.Reviews().Create(ctx, review))

	dup := &entities.Review{Text: "Again", Rating: 4, UserID: guest.ID, PlaceID: place.ID}
	assert.True(t, apperrors.Is(store.Reviews().Create(ctx, dup), apperrors.ErrorTypeConflict))

	// referenced rows cannot be removed until their children are gone
	assert.True(t, apperrors.Is(store.Users().Delete(ctx, owner.ID), apperrors.ErrorTypeConflict))
	assert.True(t, apperrors.Is(store.Places().Delete(ctx, place.ID), apperrors.ErrorTypeConflict))

	require.NoError(t, store.Reviews().Delete(ctx, review.ID))
	require.NoError(t, store.Places().Delete(ctx, place.ID))
	require.NoError(t, store.Users().Delete(ctx, owner.ID))
}

func TestStore_PlaceAmenities(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	owner := seedUser(t, store, "owner@example.com")
	place := &entities.Place{Title: "Cabin", OwnerID: owner.ID}
	require.NoError(t, store.Places().Create(ctx, place))

	wifi := &entities.Amenity{Name: "Wi-Fi"}
	pool := &entities.Amenity{Name: "Pool"}
	require.NoError(t, store.Amenities().Create(ctx, wifi))
	require.NoError(t, store.Amenities().Create(ctx, pool))

	assert.True(t, apperrors.Is(store.Amenities().Create(ctx, &entities.Amenity{Name: "wi-fi"}), apperrors.ErrorTypeConflict))

	links := store.PlaceAmenities()
	require.NoError(t, links.Add(ctx, place.ID, wifi.ID))
	require.NoError(t, links.Add(ctx, place.ID, pool.ID))
	require.NoError(t, links.Add(ctx, place.ID, pool.ID))
	assert.True(t, apperrors.IsNotFound(links.Add(ctx, place.ID, "ghost")))

	ids, err := links.ListAmenityIDs(ctx, place.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{wifi.ID, pool.ID}, ids)

	placeIDs, err := links.ListPlaceIDs(ctx, wifi.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{place.ID}, placeIDs)

	require.NoError(t, links.ClearAmenity(ctx, wifi.ID))
	ids, err = links.ListAmenityIDs(ctx, place.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{pool.ID}, ids)

	require.NoError(t, links.ClearPlace(ctx, place.ID))
	ids, err = links.ListAmenityIDs(ctx, place.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	found, err := store.Amenities().ListByIDs(ctx, []string{pool.ID, "ghost", wifi.ID})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, pool.ID, found[0].ID)
	assert.Equal(t, wifi.ID, found[1].ID)
}

func TestStore_WithinTx(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	t.Run("commits on success", func(t *testing.T) {
		var id string
		err := store.WithinTx(ctx, func(tx repositories.Store) error {
			u := &entities.User{FirstName: "Tx", LastName: "User", Email: "tx@example.com"}
			if err := tx.Users().Create(ctx, u); err != nil {
				return err
			}
			id = u.ID
			return nil
		})
		require.NoError(t, err)

		_, err = store.Users().GetByID(ctx, id)
		assert.NoError(t, err)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		var id string
		err := store.WithinTx(ctx, func(tx repositories.Store) error {
			u := &entities.User{FirstName: "Gone", LastName: "User", Email: "gone@example.com"}
			if err := tx.Users().Create(ctx, u); err != nil {
				return err
			}
			id = u.ID
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = store.Users().GetByID(ctx, id)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("nested calls join the outer transaction", func(t *testing.T) {
		err := store.WithinTx(ctx, func(tx repositories.Store) error {
			return tx.WithinTx(ctx, func(inner repositories.Store) error {
				return inner.Users().Create(ctx, &entities.User{FirstName: "N", LastName: "N", Email: "nested@example.com"})
			})
		})
		require.NoError(t, err)
		_, err = store.Users().GetByEmail(ctx, "nested@example.com")
		assert.NoError(t, err)
	})
}
