package models

import "time"

// Feedback verdicts
const (
	FeedbackLiked    = "liked"
	FeedbackDisliked = "disliked"
)

// PlaceFeedback records a user's reaction to a recommended place
type PlaceFeedback struct {
	ID        string    `json:"id" badgerhold:"key"`
	PlaceID   string    `json:"place_id" badgerhold:"index"`
	Verdict   string    `json:"verdict" validate:"required,oneof=liked disliked"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
