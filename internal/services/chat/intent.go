package chat

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Intent is the structured interpretation of a chat message
type Intent struct {
	WantsSearch  bool   `json:"search"`
	Keyword      string `json:"keyword"`
	LocationText string `json:"location"`
	RadiusMeters int    `json:"radius_m"`
}

// intentSchemaJSON is the strict shape the extraction LLM must produce
const intentSchemaJSON = `{
	"type": "object",
	"properties": {
		"search": {"type": "boolean"},
		"keyword": {"type": "string"},
		"location": {"type": "string"},
		"radius_m": {"type": "number"}
	},
	"required": ["search"],
	"additionalProperties": false
}`

var intentSchema = gojsonschema.NewStringLoader(intentSchemaJSON)

// parseIntentResponse extracts and validates an LLM intent payload
func parseIntentResponse(text string) (*Intent, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}
	raw := text[start : end+1]

	result, err := gojsonschema.Validate(intentSchema, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("response does not match intent schema: %v", result.Errors())
	}

	var intent Intent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		return nil, fmt.Errorf("unmarshal intent: %w", err)
	}
	return &intent, nil
}

// Deterministic intent parser. Used when the LLM is unavailable or returns
// something unusable; search conversations must keep working without it.

var searchTriggers = []string{
	"restaurant", "food", "eat", "hungry", "dinner", "lunch", "breakfast",
	"brunch", "cuisine", "takeaway", "takeout", "cafe", "coffee", "bar",
	"place to", "somewhere to", "recommend", "craving",
}

var keywordTerms = []string{
	"italian", "chinese", "japanese", "thai", "indian", "mexican", "french",
	"korean", "vietnamese", "greek", "turkish", "lebanese", "spanish",
	"ethiopian", "sushi", "pizza", "ramen", "pho", "burger", "bbq",
	"barbecue", "seafood", "steak", "noodle", "dumpling", "curry", "tapas",
	"vegan", "vegetarian", "halal", "kosher", "dessert", "brunch",
	"breakfast", "cafe", "coffee", "bakery", "bar", "pub",
}

var (
	locationPattern = regexp.MustCompile(`(?i)\b(?:in|near|around)\s+([a-zA-Z][a-zA-Z'\- ]{2,40}?)(?:[.,!?]|$)`)
	radiusPattern   = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(km|kilometers?|kms|m|meters?|metres?)\b`)
)

// parseIntentHeuristic classifies a message with keyword tables and regexes
func parseIntentHeuristic(message string) *Intent {
	lowered := strings.ToLower(strings.TrimSpace(message))
	intent := &Intent{}

	for _, trigger := range searchTriggers {
		if strings.Contains(lowered, trigger) {
			intent.WantsSearch = true
			break
		}
	}
	if !intent.WantsSearch {
		for _, term := range keywordTerms {
			if strings.Contains(lowered, term) {
				intent.WantsSearch = true
				break
			}
		}
	}
	if !intent.WantsSearch {
		return intent
	}

	for _, term := range keywordTerms {
		if strings.Contains(lowered, term) {
			intent.Keyword = term
			break
		}
	}

	if match := locationPattern.FindStringSubmatch(message); match != nil {
		candidate := strings.TrimSpace(match[1])
		// "near me", "around here" and similar are origin references, not
		// location names
		switch strings.ToLower(candidate) {
		case "me", "here", "us", "my location", "my place":
		default:
			intent.LocationText = candidate
		}
	}

	if match := radiusPattern.FindStringSubmatch(lowered); match != nil {
		if value, err := strconv.ParseFloat(match[1], 64); err == nil {
			if strings.HasPrefix(match[2], "k") {
				value *= 1000
			}
			if value > 0 {
				intent.RadiusMeters = int(value)
			}
		}
	}

	return intent
}
