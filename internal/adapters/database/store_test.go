package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	store := NewStoreWithDB(sqlx.NewDb(mockDB, "postgres"))
	store.now = func() time.Time { return fixedNow }
	return store, mock
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "password_hash", "is_admin", "created_at", "updated_at"})
}

func TestUsers_GetByID(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE`).
		WithArgs("u-1").
		WillReturnRows(userRows().AddRow("u-1", "Ada", "Lovelace", "ada@example.com", "hash", true, fixedNow, fixedNow))

	user, err := store.Users().GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.True(t, user.IsAdmin)
	assert.Equal(t, fixedNow, user.CreatedAt)

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE`).
		WithArgs("missing").
		WillReturnRows(userRows())

	_, err = store.Users().GetByID(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers_GetByEmailIgnoresCase(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE \((?i:lower)\("email"\) = \$1\)`).
		WithArgs("ada@example.com").
		WillReturnRows(userRows().AddRow("u-1", "Ada", "Lovelace", "ada@example.com", "hash", false, fixedNow, fixedNow))

	user, err := store.Users().GetByEmail(context.Background(), "Ada@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers_Create(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	t.Run("assigns id and timestamps", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO "users"`).WillReturnResult(sqlmock.NewResult(0, 1))

		user := &entities.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", PasswordHash: "hash"}
		require.NoError(t, store.Users().Create(ctx, user))
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, fixedNow, user.CreatedAt)
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO "users"`).
			WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: constraintUserEmail})

		err := store.Users().Create(ctx, &entities.User{Email: "ada@example.com"})
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
		assert.Equal(t, "email is already registered", appErr.Message)
	})

	t.Run("driver failure is storage unavailable", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(errors.New("connection refused"))

		err := store.Users().Create(ctx, &entities.User{Email: "grace@example.com"})
		assert.Equal(t, apperrors.ErrorTypeStorageUnavailable, apperrors.TypeOf(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers_UpdateFieldsRejectsForeignColumns(t *testing.T) {
	store, mock := newMockStore(t)

	_, err := store.Users().UpdateFields(context.Background(), "u-1", repositories.Fields{entities.FieldTitle: "x"})
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.TypeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM "users"`).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.Users().Delete(ctx, "u-1")
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("still referenced", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM "users"`).
			WithArgs("u-1").
			WillReturnError(&pq.Error{Code: pqForeignKeyViolation, Table: "places", Constraint: constraintPlaceOwner})

		err := store.Users().Delete(ctx, "u-1")
		assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.TypeOf(err))
	})

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM "amenities"`).WithArgs("a-1").WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, store.Amenities().Delete(ctx, "a-1"))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaces_CreateWithMissingOwner(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO "places"`).
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation, Constraint: constraintPlaceOwner})

	err := store.Places().Create(context.Background(), &entities.Place{
		Title:   "Loft",
		Price:   decimal.RequireFromString("99.90"),
		OwnerID: "ghost",
	})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
	assert.Equal(t, "owner not found", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaces_UpdateFields(t *testing.T) {
	store, mock := newMockStore(t)
	later := fixedNow

	rows := sqlmock.NewRows([]string{"id", "title", "description", "price", "latitude", "longitude", "owner_id", "created_at", "updated_at"}).
		AddRow("p-1", "Loft", "", "120.50", 48.85, 2.35, "u-1", fixedNow.Add(-time.Hour), later)
	mock.ExpectQuery(`UPDATE "places" SET (.+) WHERE (.+) RETURNING`).WillReturnRows(rows)

	place, err := store.Places().UpdateFields(context.Background(), "p-1", repositories.Fields{
		entities.FieldPrice: decimal.RequireFromString("120.50"),
	})
	require.NoError(t, err)
	assert.True(t, place.Price.Equal(decimal.RequireFromString("120.5")))
	assert.Equal(t, later, place.UpdatedAt)

	mock.ExpectQuery(`UPDATE "places"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = store.Places().UpdateFields(context.Background(), "gone", repositories.Fields{entities.FieldTitle: "x"})
	assert.True(t, apperrors.IsNotFound(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviews_DuplicateAuthorIsConflict(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO "reviews"`).
		WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: constraintReviewAuthor})

	err := store.Reviews().Create(context.Background(), &entities.Review{Text: "ok", Rating: 4, UserID: "u-1", PlaceID: "p-1"})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
	assert.Equal(t, "user has already reviewed this place", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAmenities_ListByIDsKeepsRequestOrder(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
		AddRow("a-2", "Pool", fixedNow, fixedNow).
		AddRow("a-1", "Wifi", fixedNow, fixedNow)
	mock.ExpectQuery(`SELECT (.+) FROM "amenities" WHERE \("id" IN`).
		WithArgs("a-1", "missing", "a-2").
		WillReturnRows(rows)

	amenities, err := store.Amenities().ListByIDs(context.Background(), []string{"a-1", "missing", "a-2"})
	require.NoError(t, err)
	require.Len(t, amenities, 2)
	assert.Equal(t, "a-1", amenities[0].ID)
	assert.Equal(t, "a-2", amenities[1].ID)

	empty, err := store.Amenities().ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceAmenities_ListAmenityIDs(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT "amenity_id" FROM "place_amenities"`).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"amenity_id"}).AddRow("a-2").AddRow("a-1"))

	ids, err := store.PlaceAmenities().ListAmenityIDs(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a-2", "a-1"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "place_amenities"`).WithArgs("p-1").WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM "places"`).WithArgs("p-1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.WithinTx(ctx, func(tx repositories.Store) error {
			if err := tx.PlaceAmenities().ClearPlace(ctx, "p-1"); err != nil {
				return err
			}
			return tx.WithinTx(ctx, func(nested repositories.Store) error {
				return nested.Places().Delete(ctx, "p-1")
			})
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "reviews"`).WithArgs("r-1").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := store.WithinTx(ctx, func(tx repositories.Store) error {
			return tx.Reviews().Delete(ctx, "r-1")
		})
		assert.True(t, apperrors.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err := store.WithinTx(ctx, func(tx repositories.Store) error { return nil })
		assert.Equal(t, apperrors.ErrorTypeStorageUnavailable, apperrors.TypeOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEnsureSchema(t *testing.T) {
	store, mock := newMockStore(t)

	for range schemaStatements {
		mock.ExpectExec(`CREATE`).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).WillReturnError(errors.New("permission denied"))
	err := store.EnsureSchema(context.Background())
	assert.Equal(t, apperrors.ErrorTypeStorageUnavailable, apperrors.TypeOf(err))
}
