package validation

import (
	"sort"

	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
)

// Payload is a decoded request body keyed by entity field name. Presence of a
// key is meaningful for partial updates: an absent key leaves the field as is.
type Payload map[string]interface{}

// Has reports whether the payload carries field
func (p Payload) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// Keys returns the payload keys in a stable order
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validated is the normalised form of a payload, one entry per touched field
type Validated map[string]interface{}

// String returns a validated string field or ""
func (v Validated) String(field string) string {
	s, _ := v[field].(string)
	return s
}

// Fields validates every key of p against kind's rules
func Fields(kind entities.EntityKind, p Payload) (Validated, error) {
	out := make(Validated, len(p))
	for _, field := range p.Keys() {
		value, err := Validate(kind, field, p[field])
		if err != nil {
			return nil, err
		}
		out[field] = value
	}
	return out, nil
}
