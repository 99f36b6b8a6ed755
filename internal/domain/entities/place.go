package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are serialised as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Place represents a rental listing
type Place struct {
	ID          string          `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Latitude    float64         `json:"latitude" db:"latitude"`
	Longitude   float64         `json:"longitude" db:"longitude"`
	OwnerID     string          `json:"owner_id" db:"owner_id"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// PlaceDetail is a place with its owner, amenities and reviews denormalised
type PlaceDetail struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	Latitude    float64          `json:"latitude"`
	Longitude   float64          `json:"longitude"`
	Owner       UserSummary      `json:"owner"`
	Amenities   []AmenitySummary `json:"amenities"`
	Reviews     []PlaceReview    `json:"reviews"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// PlaceReview is the review block embedded in place payloads
type PlaceReview struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
	UserID string `json:"user_id"`
}

// PlaceSummary is the place block embedded in review payloads
type PlaceSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NewPlaceDetail assembles the outward view of a place
func NewPlaceDetail(place *Place, owner *User, amenities []*Amenity, reviews []*Review) *PlaceDetail {
	detail := &PlaceDetail{
		ID:          place.ID,
		Title:       place.Title,
		Description: place.Description,
		Price:       place.Price,
		Latitude:    place.Latitude,
		Longitude:   place.Longitude,
		Owner:       UserSummary{ID: place.OwnerID},
		Amenities:   make([]AmenitySummary, 0, len(amenities)),
		Reviews:     make([]PlaceReview, 0, len(reviews)),
		CreatedAt:   place.CreatedAt,
		UpdatedAt:   place.UpdatedAt,
	}
	if owner != nil {
		detail.Owner = UserSummary{
			ID:        owner.ID,
			FirstName: owner.FirstName,
			LastName:  owner.LastName,
			Email:     owner.Email,
		}
	}
	for _, a := range amenities {
		detail.Amenities = append(detail.Amenities, AmenitySummary{ID: a.ID, Name: a.Name})
	}
	for _, r := range reviews {
		detail.Reviews = append(detail.Reviews, PlaceReview{
			ID:     r.ID,
			Text:   r.Text,
			Rating: r.Rating,
			UserID: r.UserID,
		})
	}
	return detail
}
