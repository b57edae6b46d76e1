package places

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/tavolo/internal/interfaces"
	"github.com/ternarybob/tavolo/internal/models"
	"github.com/ternarybob/tavolo/internal/services/tools"
)

// User-facing terminal messages. Every terminal state favors an actionable
// suggestion over a bare failure notice.
const (
	msgUnavailable   = "Place search is currently unavailable. Please try again in a few minutes."
	msgEmptyGeneric  = "No places found. Try a broader keyword or a larger search radius."
	msgAllTooFar     = "We found some candidates but none were plausibly near you. Try increasing the radius or naming a neighborhood."
	msgCallFailed    = "The place lookup failed. Try rephrasing the cuisine or naming a neighborhood."
	msgEmptyLocation = "We couldn't find anything matching that in %s. Try a broader cuisine or a nearby neighborhood."
)

// cuisineTerms mark keywords that describe a cuisine rather than a venue;
// cuisine queries prefer text search and get one broadening retry when empty
var cuisineTerms = []string{
	"italian", "chinese", "japanese", "thai", "indian", "mexican", "french",
	"korean", "vietnamese", "greek", "turkish", "lebanese", "spanish",
	"ethiopian", "sushi", "pizza", "ramen", "pho", "burger", "bbq",
	"barbecue", "seafood", "steak", "noodle", "dumpling", "curry", "tapas",
	"vegan", "vegetarian", "halal", "kosher", "dessert", "brunch", "breakfast",
}

// cascade carries the once-only guards that bound the fallback state
// machine. Each trigger fires at most once per request, which makes
// termination within a small constant number of remote round-trips an
// invariant rather than an accident of control flow.
type cascade struct {
	schemaRetryDone      bool
	broadenDone          bool
	radiusRetryDone      bool
	locationFallbackDone bool

	// note explains the fallback that produced the final results; it
	// prefixes the outcome message when results exist
	note string
}

// run executes one pass of the orchestration state machine:
// SELECT_MODE -> CALL -> {SUCCESS, EMPTY, SCHEMA_ERROR, DISTANCE_FAILURE}
// -> [FALLBACK]* -> TERMINAL. It recurses into itself exactly once, for the
// radius-expansion retry, guarded by cascade.radiusRetryDone.
func (s *Service) run(ctx context.Context, req *models.PlaceSearchRequest, radius int, c *cascade) *models.PlaceSearchOutcome {
	if !s.gateway.Configured() {
		return &models.PlaceSearchOutcome{Places: []models.Place{}, Message: msgUnavailable}
	}

	toolset, err := s.catalog.Toolset(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Tool catalog unavailable")
		return &models.PlaceSearchOutcome{Places: []models.Place{}, Message: msgUnavailable}
	}
	if toolset.Empty() {
		s.logger.Warn().Msg("Gateway advertises no usable search tools")
		return &models.PlaceSearchOutcome{Places: []models.Place{}, Message: msgUnavailable}
	}

	mode := s.selectMode(req, toolset)

	var resp rawSearchResponse
	if mode == models.SearchModeNearby {
		resp = s.callNearby(ctx, toolset.NearbySearch, req, radius)
	} else {
		resp = s.callText(ctx, toolset.TextSearch, req.Keyword, req.LocationText, req.Coords, radius, req.PaginationToken)
	}

	// SCHEMA_ERROR -> retry-with-text, at most once per request
	if !resp.Successful {
		if mode == models.SearchModeNearby && toolset.TextSearch != nil &&
			!c.schemaRetryDone && isSchemaError(resp.ErrorMessage) {
			c.schemaRetryDone = true
			c.note = "The nearby lookup rejected our filters, so we searched by text instead."
			s.publishEvent(ctx, interfaces.EventSearchFallback, map[string]interface{}{
				"fallback": "schema_error_text_retry",
				"error":    resp.ErrorMessage,
			})
			mode = models.SearchModeText
			resp = s.callText(ctx, toolset.TextSearch, req.Keyword, req.LocationText, req.Coords, radius, "")
		}

		if !resp.Successful {
			s.logger.Warn().Str("error", resp.ErrorMessage).Msg("Place tool call failed")
			return &models.PlaceSearchOutcome{Places: []models.Place{}, Message: msgCallFailed, Mode: mode, UsedRadius: radius}
		}
	}

	// EMPTY -> cuisine broaden, at most once per request
	if len(resp.Candidates) == 0 && isCuisineQuery(req.Keyword) && toolset.TextSearch != nil && !c.broadenDone {
		c.broadenDone = true
		s.publishEvent(ctx, interfaces.EventSearchFallback, map[string]interface{}{
			"fallback": "cuisine_broaden",
			"keyword":  req.Keyword,
		})
		broadened := s.callText(ctx, toolset.TextSearch, "restaurants", req.LocationText, req.Coords, radius, "")
		if broadened.Successful && len(broadened.Candidates) > 0 {
			c.note = fmt.Sprintf("No %s spots turned up, so here are restaurants nearby instead.", strings.TrimSpace(req.Keyword))
			mode = models.SearchModeText
			resp = broadened
		}
	}

	normalized := s.normalizeAll(resp.Candidates, req.Coords)

	// Relevance ranking: cuisine filter plus optional reorder, always with a
	// deterministic fallback inside the ranker itself
	usedRanker := false
	if s.ranker != nil && len(normalized) > 0 {
		ranked := s.ranker.Rank(ctx, &models.RankRequest{
			Query:        req.Keyword,
			Places:       normalized,
			Coords:       req.Coords,
			LocationText: req.LocationText,
			RadiusMeters: radius,
			MaxResults:   s.maxResults(req),
		})
		normalized = ranked.RankedPlaces
		usedRanker = ranked.UsedRanker
	}

	normalized = filterFoodTypes(normalized)

	// Distance Safety Net
	kept := normalized
	droppedByDistance := 0
	if !req.DisableDistanceFilter && req.Coords != nil {
		maxDistance := float64(maxInt(radius*s.searchConfig.DistanceToleranceMult, s.searchConfig.MinSafetyNetMeters))
		filtered := FilterByMaxDistance(req.Coords, normalized, placePoint, maxDistance)
		kept = filtered.Kept
		droppedByDistance = filtered.DroppedCount

		// DISTANCE_FAILURE: candidates existed pre-filter but none survived
		if len(normalized) > 0 && len(kept) == 0 {
			if outcome, handled := s.handleDistanceFailure(ctx, req, radius, maxDistance, c, toolset); handled {
				return outcome
			}
		}
	}

	return &models.PlaceSearchOutcome{
		Places:        kept,
		Message:       s.terminalMessage(c, kept, req, droppedByDistance),
		NextPageToken: resp.NextPageToken,
		UsedRanker:    usedRanker,
		UsedRadius:    radius,
		Mode:          mode,
	}
}

// handleDistanceFailure runs the two recovery paths for a safety-net
// wipeout: radius expansion (one level of recursion), then the explicit
// location text fallback. Returns handled=false when neither applies so the
// caller can fall through to the terminal empty outcome.
func (s *Service) handleDistanceFailure(
	ctx context.Context,
	req *models.PlaceSearchRequest,
	radius int,
	maxDistance float64,
	c *cascade,
	toolset *tools.ResolvedToolSet,
) (*models.PlaceSearchOutcome, bool) {
	if !c.radiusRetryDone && radius < s.searchConfig.MaxRadiusMeters {
		c.radiusRetryDone = true
		expanded := minInt(radius*3, s.searchConfig.MaxRadiusMeters)
		c.note = fmt.Sprintf("Nothing was within %dm, so we widened the search to about %dm.", radius, expanded)
		s.publishEvent(ctx, interfaces.EventSearchFallback, map[string]interface{}{
			"fallback":   "radius_expand",
			"old_radius": radius,
			"new_radius": expanded,
		})
		return s.run(ctx, req, expanded, c), true
	}

	if req.LocationText != "" && !c.locationFallbackDone && toolset.TextSearch != nil {
		c.locationFallbackDone = true
		s.publishEvent(ctx, interfaces.EventSearchFallback, map[string]interface{}{
			"fallback":      "explicit_location_text",
			"location_text": req.LocationText,
		})
		resp := s.callText(ctx, toolset.TextSearch, req.Keyword, req.LocationText, req.Coords, radius, "")
		if resp.Successful {
			normalized := filterFoodTypes(s.normalizeAll(resp.Candidates, req.Coords))
			filtered := FilterByMaxDistance(req.Coords, normalized, placePoint, maxDistance)
			if len(filtered.Kept) > 0 {
				c.note = fmt.Sprintf("We searched around %s by name instead.", req.LocationText)
				return &models.PlaceSearchOutcome{
					Places:        filtered.Kept,
					Message:       s.terminalMessage(c, filtered.Kept, req, filtered.DroppedCount),
					NextPageToken: resp.NextPageToken,
					UsedRadius:    radius,
					Mode:          models.SearchModeText,
				}, true
			}
		}
	}

	return nil, false
}

// selectMode picks the search mode. Text search is preferred for cuisine
// terms, explicit location phrases, and forced-text requests; nearby search
// requires an origin coordinate and a nearby-capable tool.
func (s *Service) selectMode(req *models.PlaceSearchRequest, toolset *tools.ResolvedToolSet) string {
	canNearby := req.Coords != nil && toolset.NearbySearch != nil

	switch {
	case req.ForceMode == models.SearchModeNearby && canNearby:
		return models.SearchModeNearby
	case req.ForceMode == models.SearchModeText:
		return models.SearchModeText
	case isCuisineQuery(req.Keyword) || req.LocationText != "":
		if toolset.TextSearch != nil {
			return models.SearchModeText
		}
		return models.SearchModeNearby
	case canNearby:
		return models.SearchModeNearby
	default:
		return models.SearchModeText
	}
}

// callNearby builds and issues a nearby-search call
func (s *Service) callNearby(ctx context.Context, tool *tools.Definition, req *models.PlaceSearchRequest, radius int) rawSearchResponse {
	args := buildNearbyArgs(tool, nearbyParams{
		Coords:          *req.Coords,
		RadiusMeters:    radius,
		Keyword:         req.Keyword,
		IncludedTypes:   req.PlaceTypes,
		PaginationToken: req.PaginationToken,
		MaxResults:      s.maxResults(req),
	})
	return s.invoke(ctx, tool, args)
}

// callText builds and issues a text-search call
func (s *Service) callText(ctx context.Context, tool *tools.Definition, keyword, locationText string, coords *models.LatLng, radius int, pageToken string) rawSearchResponse {
	if tool == nil {
		return rawSearchResponse{ErrorMessage: "no text search tool available"}
	}

	args, query := buildTextArgs(tool, textParams{
		Keyword:         keyword,
		LocationText:    locationText,
		Coords:          coords,
		RadiusMeters:    radius,
		PaginationToken: pageToken,
		MaxResults:      s.maxResults(nil),
	})

	s.logger.Debug().Str("query", query).Msg("Issuing text search")
	return s.invoke(ctx, tool, args)
}

// invoke performs the tool call and folds transport errors into the same
// shape as application-level failures. An unknown-tool error invalidates the
// catalog so the next request re-fetches the schema.
func (s *Service) invoke(ctx context.Context, tool *tools.Definition, args map[string]interface{}) rawSearchResponse {
	result, err := s.gateway.CallTool(ctx, tool.Name, args)
	if err != nil {
		if tools.IsUnknownToolError(err) {
			s.catalog.Invalidate()
		}
		return rawSearchResponse{ErrorMessage: err.Error()}
	}
	return parseCallResult(result)
}

func (s *Service) normalizeAll(candidates []map[string]interface{}, origin *models.LatLng) []models.Place {
	places := make([]models.Place, 0, len(candidates))
	for _, candidate := range candidates {
		if place, ok := normalizeCandidate(candidate, origin); ok {
			places = append(places, place)
		}
	}
	return places
}

// terminalMessage selects the outcome message by priority: fallback
// explanation (when results exist) > generic success > explicit-location
// empty > safety-net drop > generic empty.
func (s *Service) terminalMessage(c *cascade, results []models.Place, req *models.PlaceSearchRequest, droppedByDistance int) string {
	if len(results) > 0 {
		base := fmt.Sprintf("Found %d places.", len(results))
		if c.note != "" {
			return c.note + " " + base
		}
		return base
	}

	if req.LocationText != "" {
		return fmt.Sprintf(msgEmptyLocation, req.LocationText)
	}
	if droppedByDistance > 0 {
		return msgAllTooFar
	}
	return msgEmptyGeneric
}

func (s *Service) maxResults(req *models.PlaceSearchRequest) int {
	limit := s.gatewayConfig.MaxResults
	if req != nil && req.MaxResults > 0 && (limit == 0 || req.MaxResults < limit) {
		limit = req.MaxResults
	}
	return limit
}

// filterFoodTypes drops candidates whose declared types mark an obviously
// non-food venue without any food type alongside
func filterFoodTypes(places []models.Place) []models.Place {
	kept := make([]models.Place, 0, len(places))
	for _, place := range places {
		if isFoodVenue(place.Types) {
			kept = append(kept, place)
		}
	}
	return kept
}

var foodVenueTypes = map[string]bool{
	"restaurant":           true,
	"cafe":                 true,
	"bakery":               true,
	"bar":                  true,
	"food":                 true,
	"meal_takeaway":        true,
	"meal_delivery":        true,
	"coffee_shop":          true,
	"ice_cream_shop":       true,
	"fast_food_restaurant": true,
}

var nonFoodVenueTypes = map[string]bool{
	"store":         true,
	"lodging":       true,
	"school":        true,
	"shopping_mall": true,
}

func isFoodVenue(types []string) bool {
	if len(types) == 0 {
		return true
	}

	hasNonFood := false
	for _, t := range types {
		if foodVenueTypes[t] {
			return true
		}
		if nonFoodVenueTypes[t] {
			hasNonFood = true
		}
	}
	return !hasNonFood
}

func isCuisineQuery(keyword string) bool {
	lowered := strings.ToLower(keyword)
	for _, term := range cuisineTerms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}

// isSchemaError reports whether a call failure looks like an argument-schema
// rejection (invalid type filter, 400-class status) rather than an outage
func isSchemaError(message string) bool {
	lowered := strings.ToLower(message)
	if strings.Contains(lowered, "invalid") && strings.Contains(lowered, "type") {
		return true
	}
	return strings.Contains(lowered, "400") ||
		strings.Contains(lowered, "bad request") ||
		strings.Contains(lowered, "invalid_argument")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
