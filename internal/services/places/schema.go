package places

import (
	"sort"
	"strings"
	"unicode"

	"github.com/ternarybob/tavolo/internal/services/tools"
)

// Ranked candidate key tables per semantic field. The remote tool's schema
// is versioned independently of this codebase, so the same concept appears
// under different property names across gateway versions; these tables are
// the only place that knowledge lives.
var (
	latitudeKeys     = []string{"latitude", "lat"}
	longitudeKeys    = []string{"longitude", "lng", "lon"}
	radiusKeys       = []string{"radius", "radius_m", "distance"}
	keywordKeys      = []string{"keyword", "textquery", "text_query", "query", "searchtext", "input"}
	pageTokenKeys    = []string{"pagetoken", "page_token", "nexttoken", "next_page_token", "token"}
	maxResultKeys    = []string{"maxresultcount", "max_results", "maxresults", "limit", "count"}
	includedTypeKeys = []string{"includedtypes", "included_types", "includetypes", "types", "type"}
	excludedTypeKeys = []string{"excludedtypes", "excluded_types", "excludetypes"}
	fieldMaskKeys    = []string{"fieldmask", "field_mask", "fields"}
	locationBiasKeys = []string{"locationbias", "location_bias", "bias"}
	locationKeys     = []string{"location", "center"}
)

// propertyIndex maps lowercased schema property names to their declared
// spelling. Built once per tool per request; pure data, no reflection.
type propertyIndex map[string]string

// buildPropertyIndex indexes the declared property names of a tool schema
func buildPropertyIndex(tool *tools.Definition) propertyIndex {
	props := tool.Properties()
	index := make(propertyIndex, len(props))
	for name := range props {
		index[strings.ToLower(name)] = name
	}
	return index
}

// find returns the declared property name matching the first candidate that
// hits, in candidate-priority order. A candidate matches exactly first, then
// as a whole word within the property name's camelCase/snake_case segments,
// so "location" prefers a property named "location" over "locationBias", and
// "lat" never matches a property that merely contains those letters.
func (idx propertyIndex) find(candidates []string) (string, bool) {
	for _, candidate := range candidates {
		if declared, ok := idx[candidate]; ok {
			return declared, true
		}
	}
	lowered := make([]string, 0, len(idx))
	for name := range idx {
		lowered = append(lowered, name)
	}
	sort.Strings(lowered)

	for _, candidate := range candidates {
		want := strings.Split(candidate, "_")
		for _, name := range lowered {
			if tokensContain(splitPropertyName(idx[name]), want) {
				return idx[name], true
			}
		}
	}
	return "", false
}

// splitPropertyName breaks a declared property name into lowercased tokens
// at underscore, hyphen and camelCase boundaries
func splitPropertyName(name string) []string {
	var tokens []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, strings.ToLower(string(current)))
			current = current[:0]
		}
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '-':
			flush()
		case unicode.IsUpper(r) && i > 0:
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	return tokens
}

// tokensContain reports whether want occurs as a consecutive run of have's
// tokens, so "page_token" hits "nextPageToken" but "lat" misses "unrelated"
func tokensContain(have, want []string) bool {
	if len(want) == 0 || len(have) < len(want) {
		return false
	}
	for i := 0; i+len(want) <= len(have); i++ {
		match := true
		for j, token := range want {
			if have[i+j] != token {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
