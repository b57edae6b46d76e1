package places

import (
	"fmt"
	"strings"

	"github.com/ternarybob/tavolo/internal/models"
	"github.com/ternarybob/tavolo/internal/services/tools"
)

// Defaults applied when the caller supplies no keyword or type filter
var (
	defaultIncludedTypes = []string{"restaurant"}
	defaultExcludedTypes = []string{"store", "lodging", "school", "shopping_mall"}
)

// foodNouns mark a keyword that already names a food venue; anything else
// gets " restaurant" appended for text queries
var foodNouns = []string{
	"restaurant", "food", "cafe", "coffee", "bar", "pub", "bakery",
	"diner", "bistro", "eatery", "takeaway", "takeout", "pizzeria",
	"brunch", "breakfast", "dessert",
}

// typeHints maps keyword fragments to extra included place types, in a
// fixed order so the built arguments are stable
var typeHints = []struct {
	fragment  string
	placeType string
}{
	{"cafe", "cafe"},
	{"coffee", "cafe"},
	{"bakery", "bakery"},
	{"bar", "bar"},
	{"pub", "bar"},
	{"takeaway", "meal_takeaway"},
	{"takeout", "meal_takeaway"},
}

// nearbyParams carries the semantic parameters of a proximity search
type nearbyParams struct {
	Coords          models.LatLng
	RadiusMeters    int
	Keyword         string
	IncludedTypes   []string
	PaginationToken string
	MaxResults      int
}

// textParams carries the semantic parameters of a free-text search
type textParams struct {
	Keyword         string
	LocationText    string
	Coords          *models.LatLng
	RadiusMeters    int
	PaginationToken string
	MaxResults      int
}

// buildNearbyArgs constructs the argument payload for a nearby-search tool
// by matching each semantic parameter onto whatever property names the
// tool's schema declares
func buildNearbyArgs(tool *tools.Definition, p nearbyParams) map[string]interface{} {
	index := buildPropertyIndex(tool)
	args := make(map[string]interface{})

	latKey, hasLat := index.find(latitudeKeys)
	lngKey, hasLng := index.find(longitudeKeys)
	if hasLat && hasLng {
		args[latKey] = p.Coords.Lat
		args[lngKey] = p.Coords.Lng
	} else if locKey, ok := index.find(locationKeys); ok {
		biasKey, isBias := index.find(locationBiasKeys)
		if isBias && biasKey == locKey {
			// A text-shaped schema serving proximity duty: a bias property
			// takes a circular region, never a flat pair
			args[biasKey] = circleBias(p.Coords, p.RadiusMeters)
		} else {
			// Schema declares a composite location object instead of flat fields
			args[locKey] = map[string]interface{}{
				"lat": p.Coords.Lat,
				"lng": p.Coords.Lng,
			}
		}
	}

	if key, ok := index.find(radiusKeys); ok && p.RadiusMeters > 0 {
		args[key] = p.RadiusMeters
	}

	keyword := p.Keyword
	if keyword == "" {
		keyword = "restaurant"
	}
	if key, ok := index.find(keywordKeys); ok {
		args[key] = keyword
	}

	if key, ok := index.find(includedTypeKeys); ok {
		args[key] = includedTypesFor(p.Keyword, p.IncludedTypes)
	}
	if key, ok := index.find(excludedTypeKeys); ok {
		args[key] = defaultExcludedTypes
	}

	if key, ok := index.find(maxResultKeys); ok && p.MaxResults > 0 {
		args[key] = p.MaxResults
	}
	if key, ok := index.find(pageTokenKeys); ok && p.PaginationToken != "" {
		args[key] = p.PaginationToken
	}

	return args
}

// buildTextArgs constructs the argument payload for a text-search tool and
// returns the synthesized query string alongside it
func buildTextArgs(tool *tools.Definition, p textParams) (map[string]interface{}, string) {
	index := buildPropertyIndex(tool)
	args := make(map[string]interface{})

	query := synthesizeQuery(p.Keyword, p.LocationText)
	if key, ok := index.find(keywordKeys); ok {
		args[key] = query
	}

	// Circular location bias when the schema supports one; otherwise raw
	// lat/lng plus radius. Never both for the same request.
	if p.Coords != nil && p.RadiusMeters > 0 {
		if biasKey, ok := index.find(locationBiasKeys); ok {
			args[biasKey] = circleBias(*p.Coords, p.RadiusMeters)
		} else {
			latKey, hasLat := index.find(latitudeKeys)
			lngKey, hasLng := index.find(longitudeKeys)
			if hasLat && hasLng {
				args[latKey] = p.Coords.Lat
				args[lngKey] = p.Coords.Lng
				if key, ok := index.find(radiusKeys); ok {
					args[key] = p.RadiusMeters
				}
			}
		}
	}

	if key, ok := index.find(fieldMaskKeys); ok {
		args[key] = "*"
	}
	if key, ok := index.find(maxResultKeys); ok && p.MaxResults > 0 {
		args[key] = p.MaxResults
	}
	if key, ok := index.find(pageTokenKeys); ok && p.PaginationToken != "" {
		args[key] = p.PaginationToken
	}

	return args, query
}

// circleBias builds the circular region payload a location-bias property
// expects
func circleBias(coords models.LatLng, radiusMeters int) map[string]interface{} {
	return map[string]interface{}{
		"circle": map[string]interface{}{
			"center": map[string]interface{}{
				"latitude":  coords.Lat,
				"longitude": coords.Lng,
			},
			"radius": radiusMeters,
		},
	}
}

// synthesizeQuery turns a cuisine keyword and an optional location phrase
// into a text-search query
func synthesizeQuery(keyword, locationText string) string {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		keyword = "restaurants"
	} else if !hasFoodNoun(keyword) {
		keyword = keyword + " restaurant"
	}

	if locationText != "" {
		return fmt.Sprintf("%s in %s", keyword, locationText)
	}
	return keyword
}

func hasFoodNoun(keyword string) bool {
	lowered := strings.ToLower(keyword)
	for _, noun := range foodNouns {
		if strings.Contains(lowered, noun) {
			return true
		}
	}
	return false
}

// includedTypesFor returns the caller override unchanged, or the default
// restaurant filter plus additions inferred from the keyword
func includedTypesFor(keyword string, override []string) []string {
	if len(override) > 0 {
		return override
	}

	types := append([]string{}, defaultIncludedTypes...)
	lowered := strings.ToLower(keyword)
	for _, hint := range typeHints {
		if strings.Contains(lowered, hint.fragment) && !containsString(types, hint.placeType) {
			types = append(types, hint.placeType)
		}
	}
	return types
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
