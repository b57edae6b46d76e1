package places

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tavolo/internal/common"
	"github.com/ternarybob/tavolo/internal/interfaces"
	"github.com/ternarybob/tavolo/internal/models"
	"github.com/ternarybob/tavolo/internal/services/tools"
)

// Ranker reorders and filters candidates against the cuisine intent. It is
// total: implementations always return a complete result, degrading to a
// deterministic ranking when the reasoning service cannot be used.
type Ranker interface {
	Rank(ctx context.Context, req *models.RankRequest) *models.RankResult
}

// Service implements the PlaceSearchService interface. It owns mode
// selection, the tool call, and the bounded fallback cascade.
type Service struct {
	gatewayConfig *common.GatewayConfig
	searchConfig  *common.SearchConfig
	gateway       tools.Invoker
	catalog       *tools.Catalog
	ranker        Ranker
	placeStorage  interfaces.PlaceStorage
	eventService  interfaces.EventService
	logger        arbor.ILogger
}

// NewService creates the place search engine. ranker, placeStorage and
// eventService are optional; the cascade runs without them.
func NewService(
	config *common.Config,
	gateway tools.Invoker,
	catalog *tools.Catalog,
	ranker Ranker,
	placeStorage interfaces.PlaceStorage,
	eventService interfaces.EventService,
	logger arbor.ILogger,
) *Service {
	return &Service{
		gatewayConfig: &config.Gateway,
		searchConfig:  &config.Search,
		gateway:       gateway,
		catalog:       catalog,
		ranker:        ranker,
		placeStorage:  placeStorage,
		eventService:  eventService,
		logger:        logger,
	}
}

// SearchPlaces runs one search request through the full cascade. Every
// terminal state yields a well-formed outcome; the error return is reserved
// for invalid input.
func (s *Service) SearchPlaces(ctx context.Context, req *models.PlaceSearchRequest) (*models.PlaceSearchOutcome, error) {
	if req == nil {
		return nil, fmt.Errorf("search request is required")
	}

	radius := req.RadiusMeters
	if radius <= 0 {
		radius = s.searchConfig.DefaultRadiusMeters
	}

	s.logger.Info().
		Str("keyword", req.Keyword).
		Str("location_text", req.LocationText).
		Int("radius_meters", radius).
		Bool("has_coords", req.Coords != nil).
		Msg("Starting place search")

	s.publishEvent(ctx, interfaces.EventSearchStarted, map[string]interface{}{
		"keyword":       req.Keyword,
		"location_text": req.LocationText,
		"radius_meters": radius,
	})

	outcome := s.run(ctx, req, radius, &cascade{})

	s.persistPlaces(ctx, outcome.Places)

	eventType := interfaces.EventSearchCompleted
	if len(outcome.Places) == 0 {
		eventType = interfaces.EventSearchFailed
	}
	s.publishEvent(ctx, eventType, map[string]interface{}{
		"keyword":      req.Keyword,
		"result_count": len(outcome.Places),
		"used_ranker":  outcome.UsedRanker,
		"used_radius":  outcome.UsedRadius,
		"mode":         outcome.Mode,
	})

	s.logger.Info().
		Int("result_count", len(outcome.Places)).
		Str("mode", outcome.Mode).
		Bool("used_ranker", outcome.UsedRanker).
		Msg("Place search completed")

	return outcome, nil
}

// persistPlaces upserts normalized places so feedback and history can refer
// to them later. Persistence failures never affect the search outcome.
func (s *Service) persistPlaces(ctx context.Context, places []models.Place) {
	if s.placeStorage == nil || !s.searchConfig.PersistResults || len(places) == 0 {
		return
	}

	if err := s.placeStorage.UpsertPlaces(ctx, places); err != nil {
		s.logger.Warn().Err(err).Int("count", len(places)).Msg("Failed to persist search results")
	}
}

func (s *Service) publishEvent(ctx context.Context, eventType interfaces.EventType, data map[string]interface{}) {
	if s.eventService == nil {
		return
	}

	data["timestamp"] = time.Now().Format(time.RFC3339)
	event := interfaces.Event{
		Type:    eventType,
		Payload: data,
	}
	if err := s.eventService.Publish(ctx, event); err != nil {
		s.logger.Warn().
			Err(err).
			Str("event_type", string(eventType)).
			Msg("Failed to publish event")
	}
}
