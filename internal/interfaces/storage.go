package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/tavolo/internal/models"
)

// Sentinel errors returned by storage implementations
var (
	ErrKeyNotFound   = errors.New("key not found")
	ErrPlaceNotFound = errors.New("place not found")
)

// KeyValuePair represents a stored key/value entry (API keys, settings)
type KeyValuePair struct {
	Key         string    `json:"key" badgerhold:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// KeyValueStorage provides case-insensitive key/value persistence
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, description string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]KeyValuePair, error)
}

// PlaceStorage persists normalized places surfaced by search
type PlaceStorage interface {
	// UpsertPlaces stores or refreshes a batch of places by place ID
	UpsertPlaces(ctx context.Context, places []models.Place) error

	// GetPlace returns a stored place or ErrPlaceNotFound
	GetPlace(ctx context.Context, placeID string) (*models.Place, error)

	// ListRecent returns the most recently seen places, newest first
	ListRecent(ctx context.Context, limit int) ([]models.Place, error)
}

// FeedbackStorage persists user feedback about recommended places
type FeedbackStorage interface {
	// Record stores a single feedback entry
	Record(ctx context.Context, feedback *models.PlaceFeedback) error

	// ForPlace returns all feedback entries for a place, newest first
	ForPlace(ctx context.Context, placeID string) ([]models.PlaceFeedback, error)

	// Counts returns the liked/disliked tallies for a place
	Counts(ctx context.Context, placeID string) (liked int, disliked int, err error)
}

// StorageManager provides access to all storage backends
type StorageManager interface {
	PlaceStorage() PlaceStorage
	FeedbackStorage() FeedbackStorage
	KeyValueStorage() KeyValueStorage
	Close() error
}
