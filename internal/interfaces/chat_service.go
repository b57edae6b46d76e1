package interfaces

import (
	"context"

	"github.com/ternarybob/tavolo/internal/models"
)

// ChatRequest represents a conversational request
type ChatRequest struct {
	// User's message
	Message string `json:"message" validate:"required"`

	// Conversation history (optional)
	History []Message `json:"history,omitempty"`

	// Caller-known origin, e.g. from device location (optional)
	Coords *models.LatLng `json:"coords,omitempty"`

	// Radius override in meters (optional)
	RadiusMeters int `json:"radius_meters,omitempty" validate:"gte=0"`
}

// ChatResponse represents the response from a chat request
type ChatResponse struct {
	// Generated reply text
	Message string `json:"message"`

	// Places recommended in this turn, if search ran
	Places []models.Place `json:"places,omitempty"`

	// Whether the place search engine was invoked
	UsedSearch bool `json:"used_search"`

	// Opaque token to continue pagination on a follow-up turn
	NextPageToken string `json:"next_page_token,omitempty"`
}

// ChatService handles conversational requests, deciding whether to invoke
// the place search engine and formatting its outcome into a reply.
type ChatService interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}
