package interfaces

import (
	"context"

	"github.com/ternarybob/tavolo/internal/models"
)

// PlaceSearchService defines the interface for the place search engine.
type PlaceSearchService interface {
	// SearchPlaces resolves the remote tool set, selects a search mode, runs
	// the call with its fallback cascade, ranks the survivors and returns a
	// complete outcome. Failures inside the cascade are folded into the
	// outcome's message; the error return is reserved for invalid input.
	SearchPlaces(ctx context.Context, req *models.PlaceSearchRequest) (*models.PlaceSearchOutcome, error)
}
