package places

import (
	"encoding/json"
	"strings"

	"github.com/ternarybob/tavolo/internal/models"
	"github.com/ternarybob/tavolo/internal/services/tools"
)

// rawSearchResponse is the parsed form of a tools/call result before
// normalization. Candidates are untyped because field names vary by gateway
// schema version and are never trusted directly.
type rawSearchResponse struct {
	Candidates    []map[string]interface{}
	NextPageToken string
	Successful    bool
	ErrorMessage  string
}

// parseCallResult extracts the candidate list, pagination token and success
// flag from a tool call result. A payload failing these minimal shape checks
// is treated as a failed call, never as a panic.
func parseCallResult(result *tools.CallResult) rawSearchResponse {
	if result == nil {
		return rawSearchResponse{ErrorMessage: "empty gateway response"}
	}

	if result.IsError {
		return rawSearchResponse{ErrorMessage: firstText(result)}
	}

	payload := result.StructuredContent
	if payload == nil {
		text := firstText(result)
		if text == "" {
			return rawSearchResponse{ErrorMessage: "gateway response has no content"}
		}

		// Some gateways return a bare JSON array of candidates
		trimmed := strings.TrimSpace(text)
		if strings.HasPrefix(trimmed, "[") {
			var list []map[string]interface{}
			if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
				return rawSearchResponse{ErrorMessage: "unparseable gateway payload"}
			}
			return rawSearchResponse{Candidates: list, Successful: true}
		}

		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
			return rawSearchResponse{ErrorMessage: "unparseable gateway payload"}
		}
		payload = obj
	}

	resp := rawSearchResponse{Successful: true}

	for _, key := range []string{"places", "results", "candidates"} {
		if list, ok := payload[key].([]interface{}); ok {
			for _, entry := range list {
				if candidate, ok := entry.(map[string]interface{}); ok {
					resp.Candidates = append(resp.Candidates, candidate)
				}
			}
			break
		}
	}

	for _, key := range []string{"next_page_token", "nextPageToken"} {
		if token, ok := payload[key].(string); ok && token != "" {
			resp.NextPageToken = token
			break
		}
	}

	// Legacy status field: anything other than OK/ZERO_RESULTS is a failure
	if status, ok := payload["status"].(string); ok {
		if status != "OK" && status != "ZERO_RESULTS" {
			resp.Successful = false
			resp.ErrorMessage = status
			if msg, ok := payload["error_message"].(string); ok && msg != "" {
				resp.ErrorMessage = msg
			}
		}
	}

	return resp
}

func firstText(result *tools.CallResult) string {
	for _, block := range result.Content {
		if block.Text != "" {
			return block.Text
		}
	}
	return ""
}

// normalizeCandidate maps one untyped candidate record onto a Place,
// tolerating the field-name variants different gateway versions emit.
// Distance from origin is computed here, once, and never recomputed.
func normalizeCandidate(raw map[string]interface{}, origin *models.LatLng) (models.Place, bool) {
	place := models.Place{
		PlaceID: stringField(raw, "place_id", "placeId", "id", "reference"),
		Name:    nameField(raw),
		Address: stringField(raw, "formatted_address", "formattedAddress", "vicinity", "address"),
		MapsURL: stringField(raw, "googleMapsUri", "maps_url", "url"),
	}

	if place.PlaceID == "" && place.Name == "" {
		return models.Place{}, false
	}

	if lat, lng, ok := coordinates(raw); ok {
		place.Latitude = lat
		place.Longitude = lng
	}

	if rating, ok := floatField(raw, "rating"); ok {
		place.Rating = rating
	}
	if count, ok := floatField(raw, "user_ratings_total", "userRatingCount", "review_count"); ok {
		place.ReviewCount = int(count)
	}
	place.PriceLevel = priceLevelField(raw)

	if list, ok := raw["types"].([]interface{}); ok {
		for _, entry := range list {
			if t, ok := entry.(string); ok {
				place.Types = append(place.Types, t)
			}
		}
	}

	if origin != nil && place.HasCoordinates() {
		distance := Haversine(*origin, models.LatLng{Lat: place.Latitude, Lng: place.Longitude})
		place.DistanceMeters = &distance
	}

	return place, true
}

// coordinates digs a lat/lng pair out of the candidate, trying flat fields,
// geometry.location, location.{latitude,longitude} and the double-nested
// location.location some schema versions emit
func coordinates(raw map[string]interface{}) (float64, float64, bool) {
	if lat, ok := floatField(raw, "latitude", "lat"); ok {
		if lng, ok := floatField(raw, "longitude", "lng", "lon"); ok {
			return lat, lng, true
		}
	}

	for _, path := range [][]string{
		{"geometry", "location"},
		{"location", "location"},
		{"location"},
	} {
		node := raw
		found := true
		for _, key := range path {
			next, ok := node[key].(map[string]interface{})
			if !ok {
				found = false
				break
			}
			node = next
		}
		if !found {
			continue
		}
		if lat, ok := floatField(node, "latitude", "lat"); ok {
			if lng, ok := floatField(node, "longitude", "lng", "lon"); ok {
				return lat, lng, true
			}
		}
	}

	return 0, 0, false
}

func stringField(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if value, ok := raw[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

func floatField(raw map[string]interface{}, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch value := raw[key].(type) {
		case float64:
			return value, true
		case int:
			return float64(value), true
		case json.Number:
			if f, err := value.Float64(); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func nameField(raw map[string]interface{}) string {
	if name, ok := raw["name"].(string); ok && name != "" {
		// New-style schemas put the resource path in "name" and the human
		// label in displayName; a resource path is not a display name
		if !strings.HasPrefix(name, "places/") {
			return name
		}
	}
	if display, ok := raw["displayName"].(map[string]interface{}); ok {
		if text, ok := display["text"].(string); ok {
			return text
		}
	}
	if display, ok := raw["displayName"].(string); ok {
		return display
	}
	return ""
}

// priceLevelField accepts both numeric levels and the enum strings newer
// schema versions use
func priceLevelField(raw map[string]interface{}) int {
	if level, ok := floatField(raw, "price_level", "priceLevel"); ok {
		return int(level)
	}
	if level, ok := raw["priceLevel"].(string); ok {
		switch level {
		case "PRICE_LEVEL_FREE":
			return 0
		case "PRICE_LEVEL_INEXPENSIVE":
			return 1
		case "PRICE_LEVEL_MODERATE":
			return 2
		case "PRICE_LEVEL_EXPENSIVE":
			return 3
		case "PRICE_LEVEL_VERY_EXPENSIVE":
			return 4
		}
	}
	return 0
}
