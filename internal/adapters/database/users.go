package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

const usersTable = "users"

var userColumns = columns("id", "first_name", "last_name", "email", "password_hash", "is_admin", "created_at", "updated_at")

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(ctx context.Context, user *entities.User) error {
	r.s.stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	ds := r.s.dialect.Insert(usersTable).Prepared(true).Rows(goqu.Record{
		"id":            user.ID,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"is_admin":      user.IsAdmin,
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
	})
	_, err := r.s.exec(ctx, ds)
	return translate(err, entities.KindUser, user.ID, false)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	ds := r.s.dialect.From(usersTable).Prepared(true).Select(userColumns...).Where(goqu.Ex{"id": id})
	user := &entities.User{}
	if err := r.s.get(ctx, user, ds); err != nil {
		return nil, translate(err, entities.KindUser, id, false)
	}
	return user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	ds := r.s.dialect.From(usersTable).Prepared(true).Select(userColumns...).
		Where(goqu.Func("lower", goqu.C("email")).Eq(strings.ToLower(email)))
	user := &entities.User{}
	if err := r.s.get(ctx, user, ds); err != nil {
		err = translate(err, entities.KindUser, email, false)
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with email %s not found", email))
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepo) List(ctx context.Context) ([]*entities.User, error) {
	ds := r.s.dialect.From(usersTable).Prepared(true).Select(userColumns...).Order(creationOrder...)
	users := []*entities.User{}
	if err := r.s.selectAll(ctx, &users, ds); err != nil {
		return nil, translate(err, entities.KindUser, "", false)
	}
	return users, nil
}

func (r *userRepo) UpdateFields(ctx context.Context, id string, fields repositories.Fields) (*entities.User, error) {
	record, err := updateRecord(entities.KindUser, fields, map[string]string{
		entities.FieldFirstName:    "first_name",
		entities.FieldLastName:     "last_name",
		entities.FieldEmail:        "email",
		entities.FieldPasswordHash: "password_hash",
		entities.FieldIsAdmin:      "is_admin",
	})
	if err != nil {
		return nil, err
	}
	record["updated_at"] = r.s.now()

	ds := r.s.dialect.Update(usersTable).Prepared(true).Set(record).Where(goqu.Ex{"id": id}).Returning(userColumns...)
	user := &entities.User{}
	if err := r.s.get(ctx, user, ds); err != nil {
		return nil, translate(err, entities.KindUser, id, false)
	}
	return user, nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.s, usersTable, entities.KindUser, id)
}

// updateRecord maps validated entity fields onto table columns. Fields the
// table does not own are a programming error.
func updateRecord(kind entities.EntityKind, fields repositories.Fields, cols map[string]string) (goqu.Record, error) {
	record := goqu.Record{}
	for field, value := range fields {
		col, ok := cols[field]
		if !ok {
			return nil, apperrors.NewInternalError(fmt.Sprintf("cannot set %s.%s", kind, field), nil)
		}
		record[col] = value
	}
	return record, nil
}

func deleteByID(ctx context.Context, s *Store, table string, kind entities.EntityKind, id string) error {
	ds := s.dialect.Delete(table).Prepared(true).Where(goqu.Ex{"id": id})
	n, err := s.exec(ctx, ds)
	if err != nil {
		return translate(err, kind, id, true)
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}
