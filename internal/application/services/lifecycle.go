package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

// OnDelete is the action applied to children when a parent is deleted
type OnDelete string

const (
	OnDeleteCascade          OnDelete = "cascade"
	OnDeleteClearAssociation OnDelete = "clear-association"
)

// CascadeRule declares how deleting a parent affects one child relation
type CascadeRule struct {
	Parent     entities.EntityKind
	Child      entities.EntityKind
	ForeignKey string
	OnDelete   OnDelete
}

// CascadeRules is applied in order when an entity is deleted
var CascadeRules = []CascadeRule{
	{Parent: entities.KindUser, Child: entities.KindPlace, ForeignKey: entities.FieldOwnerID, OnDelete: OnDeleteCascade},
	{Parent: entities.KindUser, Child: entities.KindReview, ForeignKey: entities.FieldUserID, OnDelete: OnDeleteCascade},
	{Parent: entities.KindPlace, Child: entities.KindReview, ForeignKey: entities.FieldPlaceID, OnDelete: OnDeleteCascade},
	{Parent: entities.KindPlace, Child: entities.KindPlaceAmenity, ForeignKey: entities.FieldPlaceID, OnDelete: OnDeleteClearAssociation},
	{Parent: entities.KindAmenity, Child: entities.KindPlaceAmenity, ForeignKey: entities.FieldAmenityID, OnDelete: OnDeleteClearAssociation},
}

// Lifecycle sequences multi-row writes: cascading deletes and amenity set
// replacement. Callers run it inside a store transaction.
type Lifecycle struct {
	rules []CascadeRule
}

// NewLifecycle creates an orchestrator for the given cascade table
func NewLifecycle(rules []CascadeRule) *Lifecycle {
	return &Lifecycle{rules: rules}
}

// Delete removes kind/id after applying every cascade rule whose parent is kind
func (l *Lifecycle) Delete(ctx context.Context, tx repositories.Store, kind entities.EntityKind, id string) error {
	for _, rule := range l.rules {
		if rule.Parent != kind {
			continue
		}
		switch rule.OnDelete {
		case OnDeleteCascade:
			childIDs, err := l.children(ctx, tx, rule, id)
			if err != nil {
				return err
			}
			for _, childID := range childIDs {
				if err := l.Delete(ctx, tx, rule.Child, childID); err != nil {
					return err
				}
			}
		case OnDeleteClearAssociation:
			if err := l.clear(ctx, tx, rule, id); err != nil {
				return err
			}
		default:
			return apperrors.NewInternalError(fmt.Sprintf("unsupported cascade action %q", rule.OnDelete), nil)
		}
	}
	return deleteRow(ctx, tx, kind, id)
}

func (l *Lifecycle) children(ctx context.Context, tx repositories.Store, rule CascadeRule, parentID string) ([]string, error) {
	switch {
	case rule.Child == entities.KindPlace && rule.ForeignKey == entities.FieldOwnerID:
		places, err := tx.Places().ListByOwner(ctx, parentID)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(places))
		for _, p := range places {
			ids = append(ids, p.ID)
		}
		return ids, nil
	case rule.Child == entities.KindReview && rule.ForeignKey == entities.FieldUserID:
		reviews, err := tx.Reviews().ListByUser(ctx, parentID)
		if err != nil {
			return nil, err
		}
		return reviewIDs(reviews), nil
	case rule.Child == entities.KindReview && rule.ForeignKey == entities.FieldPlaceID:
		reviews, err := tx.Reviews().ListByPlace(ctx, parentID)
		if err != nil {
			return nil, err
		}
		return reviewIDs(reviews), nil
	}
	return nil, apperrors.NewInternalError(fmt.Sprintf("no child lookup for %s.%s", rule.Child, rule.ForeignKey), nil)
}

func (l *Lifecycle) clear(ctx context.Context, tx repositories.Store, rule CascadeRule, parentID string) error {
	if rule.Child != entities.KindPlaceAmenity {
		return apperrors.NewInternalError(fmt.Sprintf("cannot clear association %s", rule.Child), nil)
	}
	switch rule.ForeignKey {
	case entities.FieldPlaceID:
		return tx.PlaceAmenities().ClearPlace(ctx, parentID)
	case entities.FieldAmenityID:
		return tx.PlaceAmenities().ClearAmenity(ctx, parentID)
	}
	return apperrors.NewInternalError(fmt.Sprintf("unknown association key %s", rule.ForeignKey), nil)
}

func deleteRow(ctx context.Context, tx repositories.Store, kind entities.EntityKind, id string) error {
	switch kind {
	case entities.KindUser:
		return tx.Users().Delete(ctx, id)
	case entities.KindPlace:
		return tx.Places().Delete(ctx, id)
	case entities.KindReview:
		return tx.Reviews().Delete(ctx, id)
	case entities.KindAmenity:
		return tx.Amenities().Delete(ctx, id)
	}
	return apperrors.NewInternalError(fmt.Sprintf("cannot delete %s", kind), nil)
}

func reviewIDs(reviews []*entities.Review) []string {
	ids := make([]string, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ID)
	}
	return ids
}

// ResolveAmenities loads every referenced amenity, reporting all missing ids
// in a single NOT_FOUND error.
func (l *Lifecycle) ResolveAmenities(ctx context.Context, store repositories.Store, ids []string) ([]*entities.Amenity, error) {
	if len(ids) == 0 {
		return []*entities.Amenity{}, nil
	}
	found, err := store.Amenities().ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) == len(ids) {
		return found, nil
	}
	present := make(map[string]struct{}, len(found))
	for _, a := range found {
		present[a.ID] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("amenity not found: %s", strings.Join(missing, ", ")))
}

// ReplaceAmenities makes the place's amenity set exactly desired
func (l *Lifecycle) ReplaceAmenities(ctx context.Context, tx repositories.Store, placeID string, desired []string) error {
	current, err := tx.PlaceAmenities().ListAmenityIDs(ctx, placeID)
	if err != nil {
		return err
	}
	toAdd, toRemove := diffIDs(current, desired)
	for _, id := range toRemove {
		if err := tx.PlaceAmenities().Remove(ctx, placeID, id); err != nil {
			return err
		}
	}
	for _, id := range toAdd {
		if err := tx.PlaceAmenities().Add(ctx, placeID, id); err != nil {
			return err
		}
	}
	return nil
}

// diffIDs returns ids in desired but not current, and in current but not desired
func diffIDs(current, desired []string) (toAdd, toRemove []string) {
	have := make(map[string]struct{}, len(current))
	for _, id := range current {
		have[id] = struct{}{}
	}
	want := make(map[string]struct{}, len(desired))
	for _, id := range desired {
		want[id] = struct{}{}
		if _, ok := have[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if _, ok := want[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}
