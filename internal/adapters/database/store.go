// Package database is the PostgreSQL Entity Store. Queries are built with
// goqu and executed through sqlx so that the same repositories run against
// the pool or an open transaction.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
	"github.com/zatekoja/hbnb/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

// builder is any goqu dataset that renders to SQL
type builder interface {
	ToSQL() (string, []interface{}, error)
}

// Store implements repositories.Store on PostgreSQL
type Store struct {
	db      *sqlx.DB
	q       sqlx.ExtContext
	dialect goqu.DialectWrapper
	inTx    bool
	now     func() time.Time
}

// NewStore creates a store on the client's connection pool
func NewStore(client *postgres.Client) *Store {
	return NewStoreWithDB(client.DB())
}

// NewStoreWithDB creates a store on an existing sqlx handle
func NewStoreWithDB(db *sqlx.DB) *Store {
	return &Store{
		db:      db,
		q:       db,
		dialect: goqu.Dialect("postgres"),
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

var _ repositories.Store = (*Store)(nil)

func (s *Store) Users() repositories.UserRepository                  { return &userRepo{s} }
func (s *Store) Places() repositories.PlaceRepository                { return &placeRepo{s} }
func (s *Store) Reviews() repositories.ReviewRepository              { return &reviewRepo{s} }
func (s *Store) Amenities() repositories.AmenityRepository           { return &amenityRepo{s} }
func (s *Store) PlaceAmenities() repositories.PlaceAmenityRepository { return &placeAmenityRepo{s} }

// WithinTx runs fn inside a database transaction. Nested calls join the
// running transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repositories.Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}

	sqlTx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.NewStorageError("failed to begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	tx := &Store{db: s.db, q: sqlTx, dialect: s.dialect, inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return apperrors.NewStorageError("failed to commit transaction", err)
	}
	return nil
}

// Ping verifies the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return apperrors.NewStorageError("database unreachable", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, dest interface{}, b builder) error {
	query, args, err := b.ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build query", err)
	}
	return sqlx.GetContext(ctx, s.q, dest, query, args...)
}

func (s *Store) selectAll(ctx context.Context, dest interface{}, b builder) error {
	query, args, err := b.ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build query", err)
	}
	return sqlx.SelectContext(ctx, s.q, dest, query, args...)
}

func (s *Store) exec(ctx context.Context, b builder) (int64, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build query", err)
	}
	result, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *Store) stamp(id *string, createdAt, updatedAt *time.Time) {
	if *id == "" {
		*id = uuid.New().String()
	}
	if createdAt.IsZero() {
		*createdAt = s.now()
	}
	if updatedAt.IsZero() {
		*updatedAt = *createdAt
	}
}

// columns converts column names into goqu select/returning arguments
func columns(names ...string) []interface{} {
	out := make([]interface{}, len(names))
	for i, name := range names {
		out[i] = name
	}
	return out
}

// creationOrder is the stable listing order shared by every table
var creationOrder = []exp.OrderedExpression{goqu.I("created_at").Asc(), goqu.I("id").Asc()}
