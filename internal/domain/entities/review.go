package entities

import "time"

// Review is a user's rating of a place. One review per user per place.
type Review struct {
	ID        string    `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	Rating    int       `json:"rating" db:"rating"` // 1-5
	UserID    string    `json:"user_id" db:"user_id"`
	PlaceID   string    `json:"place_id" db:"place_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ReviewDetail is a review with author and place summaries
type ReviewDetail struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	Rating    int          `json:"rating"`
	User      UserSummary  `json:"user"`
	Place     PlaceSummary `json:"place"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewReviewDetail assembles the outward view of a review. Author email is
// never exposed here.
func NewReviewDetail(review *Review, author *User, place *Place) *ReviewDetail {
	detail := &ReviewDetail{
		ID:        review.ID,
		Text:      review.Text,
		Rating:    review.Rating,
		User:      UserSummary{ID: review.UserID},
		Place:     PlaceSummary{ID: review.PlaceID},
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
	if author != nil {
		detail.User.FirstName = author.FirstName
		detail.User.LastName = author.LastName
	}
	if place != nil {
		detail.Place.Title = place.Title
	}
	return detail
}
