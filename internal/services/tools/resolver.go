package tools

import (
	"strings"
)

// ResolvedToolSet maps abstract search capabilities to concrete gateway
// tools. Fields are nil when the deployment does not expose that capability;
// a fully empty set means search is unavailable.
type ResolvedToolSet struct {
	NearbySearch *Definition
	TextSearch   *Definition
	Geocode      *Definition
	PlaceDetails *Definition
}

// Empty reports whether no search-capable tool was found
func (s *ResolvedToolSet) Empty() bool {
	return s == nil || (s.NearbySearch == nil && s.TextSearch == nil)
}

// Resolve identifies which advertised tools implement nearby search, text
// search, geocoding and place details. Matching is by name keywords first,
// then by schema property heuristics for generically named search tools.
// Resolution never fails hard; missing capabilities stay nil and the
// orchestrator decides whether that is fatal.
func Resolve(defs []Definition) *ResolvedToolSet {
	set := &ResolvedToolSet{}

	for i := range defs {
		def := &defs[i]
		name := strings.ToLower(def.Name)

		switch {
		case set.NearbySearch == nil && strings.Contains(name, "nearby") && strings.Contains(name, "search"):
			set.NearbySearch = def
		case set.TextSearch == nil && strings.Contains(name, "search") && strings.Contains(name, "text"):
			set.TextSearch = def
		case set.Geocode == nil && strings.Contains(name, "geocode"):
			set.Geocode = def
		case set.PlaceDetails == nil && strings.Contains(name, "detail"):
			set.PlaceDetails = def
		case set.PlaceDetails == nil && strings.Contains(name, "place") && strings.Contains(name, "get"):
			set.PlaceDetails = def
		}
	}

	// Generic "search" tools: classify by which semantic keys the schema
	// declares when the name alone was not decisive.
	for i := range defs {
		def := &defs[i]
		name := strings.ToLower(def.Name)
		if !strings.Contains(name, "search") && !strings.Contains(name, "place") {
			continue
		}

		if set.NearbySearch == nil && hasPropertyLike(def, "latitude", "lat") && hasPropertyLike(def, "radius") {
			set.NearbySearch = def
		}
		if set.TextSearch == nil && hasPropertyLike(def, "query", "text", "keyword") {
			set.TextSearch = def
		}
	}

	// Cross-fallback: a text tool can serve proximity queries via a biased
	// query string, and vice versa.
	if set.NearbySearch == nil {
		set.NearbySearch = set.TextSearch
	}
	if set.TextSearch == nil {
		set.TextSearch = set.NearbySearch
	}

	return set
}

// hasPropertyLike reports whether the tool schema declares a property whose
// lowercased name contains any of the given fragments
func hasPropertyLike(def *Definition, fragments ...string) bool {
	for propName := range def.Properties() {
		lowered := strings.ToLower(propName)
		for _, fragment := range fragments {
			if strings.Contains(lowered, fragment) {
				return true
			}
		}
	}
	return false
}
