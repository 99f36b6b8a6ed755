// Package validation holds the per-field rules applied to entity payloads at
// create and update time. Rules are pure: they return the normalised value to
// store or a VALIDATION AppError carrying the field name and a reason.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

const (
	// MaxNameLength bounds names, titles and amenity names
	MaxNameLength = 255

	// MinPasswordLength is the shortest accepted password
	MinPasswordLength = 6

	// MaxPasswordBytes is the bcrypt input limit
	MaxPasswordBytes = 72
)

// maxPrice is the largest value a NUMERIC(10,2) column holds.
var maxPrice = decimal.RequireFromString("99999999.99")

var validate = validator.New()

// Rule validates and normalises a single proposed value
type Rule func(field string, value interface{}) (interface{}, error)

var rules = map[entities.EntityKind]map[string]Rule{
	entities.KindUser: {
		entities.FieldFirstName: boundedString(MaxNameLength),
		entities.FieldLastName:  boundedString(MaxNameLength),
		entities.FieldEmail:     Email,
		entities.FieldPassword:  Password,
		entities.FieldIsAdmin:   Bool,
	},
	entities.KindPlace: {
		entities.FieldTitle:       boundedString(MaxNameLength),
		entities.FieldDescription: OptionalString,
		entities.FieldPrice:       Price,
		entities.FieldLatitude:    coordinate(90),
		entities.FieldLongitude:   coordinate(180),
		entities.FieldOwnerID:     Identifier,
		entities.FieldAmenities:   IdentifierList,
	},
	entities.KindReview: {
		entities.FieldText:    boundedString(0),
		entities.FieldRating:  Rating,
		entities.FieldUserID:  Identifier,
		entities.FieldPlaceID: Identifier,
	},
	entities.KindAmenity: {
		entities.FieldName: boundedString(MaxNameLength),
	},
}

// Validate applies the rule registered for kind.field to value
func Validate(kind entities.EntityKind, field string, value interface{}) (interface{}, error) {
	byField, ok := rules[kind]
	if !ok {
		return nil, apperrors.NewInternalError(fmt.Sprintf("no validation rules for %s", kind), nil)
	}
	rule, ok := byField[field]
	if !ok {
		return nil, apperrors.NewFieldError(field, apperrors.ReasonUnknown,
			fmt.Sprintf("unknown %s field '%s'", kind, field))
	}
	return rule(field, value)
}

// Has reports whether a rule exists for kind.field
func Has(kind entities.EntityKind, field string) bool {
	_, ok := rules[kind][field]
	return ok
}

// String validates a required string of at most maxLen runes (0 = unbounded).
func String(field string, value interface{}, maxLen int) (string, error) {
	s, ok := value.(string)
	if !ok {
		if value == nil {
			return "", required(field)
		}
		return "", typeError(field, "a string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperrors.NewFieldError(field, apperrors.ReasonRequired,
			fmt.Sprintf("%s must be a non-empty string", field))
	}
	if maxLen > 0 {
		if err := validate.Var(s, "max="+strconv.Itoa(maxLen)); err != nil {
			return "", apperrors.NewFieldError(field, apperrors.ReasonLength,
				fmt.Sprintf("%s must be at most %d characters", field, maxLen))
		}
	}
	return s, nil
}

func boundedString(maxLen int) Rule {
	return func(field string, value interface{}) (interface{}, error) {
		return String(field, value, maxLen)
	}
}

// OptionalString accepts nil or any string, trimmed
func OptionalString(field string, value interface{}) (interface{}, error) {
	if value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, typeError(field, "a string")
	}
	return strings.TrimSpace(s), nil
}

// Identifier validates a referenced entity id
func Identifier(field string, value interface{}) (interface{}, error) {
	return String(field, value, 0)
}

// IdentifierList validates a list of entity ids. Duplicates collapse, first
// occurrence wins.
func IdentifierList(field string, value interface{}) (interface{}, error) {
	var raw []interface{}
	switch v := value.(type) {
	case []interface{}:
		raw = v
	case []string:
		raw = make([]interface{}, len(v))
		for i, s := range v {
			raw[i] = s
		}
	default:
		return nil, typeError(field, "a list of ids")
	}

	seen := make(map[string]struct{}, len(raw))
	ids := make([]string, 0, len(raw))
	for _, item := range raw {
		id, err := String(field, item, 0)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// Email validates syntax only and normalises to lower case
func Email(field string, value interface{}) (interface{}, error) {
	s, err := String(field, value, MaxNameLength)
	if err != nil {
		return nil, err
	}
	if err := validate.Var(s, "email"); err != nil {
		return nil, apperrors.NewFieldError(field, apperrors.ReasonFormat,
			fmt.Sprintf("invalid email: %s", s))
	}
	return NormalizeEmail(s), nil
}

// NormalizeEmail returns the canonical form used for storage and lookups
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Password enforces the minimum length; the raw value is returned for hashing
func Password(field string, value interface{}) (interface{}, error) {
	s, ok := value.(string)
	if !ok {
		if value == nil {
			return nil, required(field)
		}
		return nil, typeError(field, "a string")
	}
	if len(s) < MinPasswordLength {
		return nil, apperrors.NewFieldError(field, apperrors.ReasonLength,
			fmt.Sprintf("password must be at least %d characters long", MinPasswordLength))
	}
	if len(s) > MaxPasswordBytes {
		return nil, apperrors.NewFieldError(field, apperrors.ReasonLength,
			fmt.Sprintf("password must be at most %d bytes long", MaxPasswordBytes))
	}
	return s, nil
}

// Bool accepts only JSON booleans
func Bool(field string, value interface{}) (interface{}, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, typeError(field, "a boolean")
	}
	return b, nil
}

// Price parses a non-negative decimal. Numeric strings are accepted.
func Price(field string, value interface{}) (interface{}, error) {
	var (
		d   decimal.Decimal
		err error
	)
	switch v := value.(type) {
	case nil:
		return nil, required(field)
	case decimal.Decimal:
		d = v
	case json.Number:
		d, err = decimal.NewFromString(v.String())
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, typeError(field, "a number")
		}
		d = decimal.NewFromFloat(v)
	case float32:
		d = decimal.NewFromFloat32(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	default:
		return nil, typeError(field, "a number")
	}
	if err != nil {
		return nil, typeError(field, "a number")
	}
	if d.IsNegative() {
		return nil, apperrors.NewFieldError(field, apperrors.ReasonRange, "price must be non-negative")
	}
	if d.GreaterThan(maxPrice) {
		return nil, apperrors.NewFieldError(field, apperrors.ReasonRange,
			fmt.Sprintf("price must not exceed %s", maxPrice.StringFixed(2)))
	}
	if !d.Equal(d.Round(2)) {
		return nil, apperrors.NewFieldError(field, apperrors.ReasonFormat, "price must have at most 2 decimal places")
	}
	return d, nil
}

func coordinate(limit float64) Rule {
	return func(field string, value interface{}) (interface{}, error) {
		f, err := Float(field, value)
		if err != nil {
			return nil, err
		}
		if f < -limit || f > limit {
			return nil, apperrors.NewFieldError(field, apperrors.ReasonRange,
				fmt.Sprintf("%s must be between %g and %g", field, -limit, limit))
		}
		return f, nil
	}
}

// Float accepts JSON numbers and Go numerics; strings and booleans are type errors
func Float(field string, value interface{}) (float64, error) {
	var f float64
	switch v := value.(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, typeError(field, "a number")
		}
		f = parsed
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case nil:
		return 0, required(field)
	default:
		return 0, typeError(field, "a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, typeError(field, "a finite number")
	}
	return f, nil
}

// Rating accepts integral literals in [1,5]. 3.5 and 3.0 are type errors.
func Rating(field string, value interface{}) (interface{}, error) {
	var n int64
	switch v := value.(type) {
	case json.Number:
		parsed, err := strconv.ParseInt(v.String(), 10, 64)
		if err != nil {
			return nil, typeError(field, "an integer")
		}
		n = parsed
	case int:
		n = int64(v)
	case int64:
		n = v
	case int32:
		n = int64(v)
	case nil:
		return nil, required(field)
	default:
		return nil, typeError(field, "an integer")
	}
	if n < 1 || n > 5 {
		return nil, apperrors.NewFieldError(field, apperrors.ReasonRange, "rating must be between 1 and 5")
	}
	return int(n), nil
}

func required(field string) error {
	return apperrors.NewFieldError(field, apperrors.ReasonRequired, fmt.Sprintf("%s is required", field))
}

func typeError(field, want string) error {
	return apperrors.NewFieldError(field, apperrors.ReasonType, fmt.Sprintf("%s must be %s", field, want))
}
