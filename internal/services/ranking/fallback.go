package ranking

import (
	"strings"

	"github.com/ternarybob/tavolo/internal/models"
	"github.com/ternarybob/tavolo/internal/services/places"
)

const fallbackSafetyNetMeters = 8000

// deterministicRank is the no-LLM path: keyword and type matching, a
// distance cut, and truncation. It never reorders beyond a stable partition
// of matches before non-matches.
func deterministicRank(req *models.RankRequest) []models.Place {
	matched, rest := partitionByQuery(req.Query, req.Places)
	ordered := append(matched, rest...)

	if req.Coords != nil {
		maxDistance := float64(req.RadiusMeters * 4)
		if maxDistance < fallbackSafetyNetMeters {
			maxDistance = fallbackSafetyNetMeters
		}
		filtered := places.FilterByMaxDistance(req.Coords, ordered, placePoint, maxDistance)
		ordered = filtered.Kept
	}

	if req.MaxResults > 0 && len(ordered) > req.MaxResults {
		ordered = ordered[:req.MaxResults]
	}
	return ordered
}

// partitionByQuery splits places into those whose name or types mention a
// query token and the remainder, each partition preserving input order
func partitionByQuery(query string, candidates []models.Place) ([]models.Place, []models.Place) {
	tokens := queryTokens(query)
	if len(tokens) == 0 {
		return candidates, nil
	}

	var matched, rest []models.Place
	for _, place := range candidates {
		if placeMatchesTokens(place, tokens) {
			matched = append(matched, place)
		} else {
			rest = append(rest, place)
		}
	}
	return matched, rest
}

func queryTokens(query string) []string {
	var tokens []string
	for _, field := range strings.Fields(strings.ToLower(query)) {
		if len(field) >= 3 {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

func placeMatchesTokens(place models.Place, tokens []string) bool {
	haystack := strings.ToLower(place.Name) + " " + strings.ToLower(strings.Join(place.Types, " "))
	for _, token := range tokens {
		if strings.Contains(haystack, token) {
			return true
		}
	}
	return false
}

func placePoint(p models.Place) *models.LatLng {
	if !p.HasCoordinates() {
		return nil
	}
	return &models.LatLng{Lat: p.Latitude, Lng: p.Longitude}
}
