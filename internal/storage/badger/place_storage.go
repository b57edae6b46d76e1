package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/tavolo/internal/interfaces"
	"github.com/ternarybob/tavolo/internal/models"
)

// PlaceStorage implements the PlaceStorage interface for Badger
type PlaceStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewPlaceStorage creates a new PlaceStorage instance
func NewPlaceStorage(db *BadgerDB, logger arbor.ILogger) interfaces.PlaceStorage {
	return &PlaceStorage{
		db:     db,
		logger: logger,
	}
}

// UpsertPlaces stores or refreshes a batch of places keyed by place ID.
// FirstSeen is preserved across updates; LastSeen always advances.
func (s *PlaceStorage) UpsertPlaces(ctx context.Context, places []models.Place) error {
	now := time.Now()
	for i := range places {
		place := places[i]
		if place.PlaceID == "" {
			continue
		}

		place.LastSeen = now
		place.FirstSeen = now

		var existing models.Place
		if err := s.db.Store().Get(place.PlaceID, &existing); err == nil {
			place.FirstSeen = existing.FirstSeen
		}

		if err := s.db.Store().Upsert(place.PlaceID, &place); err != nil {
			return fmt.Errorf("failed to upsert place %s: %w", place.PlaceID, err)
		}
	}

	s.logger.Debug().Int("count", len(places)).Msg("Places upserted")
	return nil
}

// GetPlace returns a stored place or ErrPlaceNotFound
func (s *PlaceStorage) GetPlace(ctx context.Context, placeID string) (*models.Place, error) {
	var place models.Place
	err := s.db.Store().Get(placeID, &place)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrPlaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	return &place, nil
}

// ListRecent returns the most recently seen places, newest first
func (s *PlaceStorage) ListRecent(ctx context.Context, limit int) ([]models.Place, error) {
	query := badgerhold.Where("PlaceID").Ne("").SortBy("LastSeen").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var places []models.Place
	if err := s.db.Store().Find(&places, query); err != nil {
		return nil, fmt.Errorf("failed to list recent places: %w", err)
	}
	return places, nil
}
