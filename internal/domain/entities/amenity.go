package entities

import "time"

// Amenity is a feature that places can offer. Names are globally unique,
// compared case-insensitively.
type Amenity struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AmenitySummary is the amenity block embedded in place payloads
type AmenitySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
