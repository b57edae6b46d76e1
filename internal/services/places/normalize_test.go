package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/tavolo/internal/models"
	"github.com/ternarybob/tavolo/internal/services/tools"
)

func TestParseCallResultStructured(t *testing.T) {
	result := &tools.CallResult{
		StructuredContent: map[string]interface{}{
			"places": []interface{}{
				map[string]interface{}{"id": "p1", "displayName": map[string]interface{}{"text": "Tre Colori"}},
			},
			"nextPageToken": "next-1",
		},
	}

	resp := parseCallResult(result)

	require.True(t, resp.Successful)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "next-1", resp.NextPageToken)
}

func TestParseCallResultTextPayload(t *testing.T) {
	result := &tools.CallResult{
		Content: []tools.ContentBlock{
			{Type: "text", Text: `{"results": [{"place_id": "p1", "name": "Soi 38"}], "status": "OK"}`},
		},
	}

	resp := parseCallResult(result)

	require.True(t, resp.Successful)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "p1", resp.Candidates[0]["place_id"])
}

func TestParseCallResultBareArray(t *testing.T) {
	result := &tools.CallResult{
		Content: []tools.ContentBlock{
			{Type: "text", Text: `[{"id": "a"}, {"id": "b"}]`},
		},
	}

	resp := parseCallResult(result)

	require.True(t, resp.Successful)
	assert.Len(t, resp.Candidates, 2)
}

func TestParseCallResultFailures(t *testing.T) {
	resp := parseCallResult(nil)
	assert.False(t, resp.Successful)

	resp = parseCallResult(&tools.CallResult{
		IsError: true,
		Content: []tools.ContentBlock{{Type: "text", Text: "INVALID_ARGUMENT: bad included type"}},
	})
	assert.False(t, resp.Successful)
	assert.Contains(t, resp.ErrorMessage, "INVALID_ARGUMENT")

	resp = parseCallResult(&tools.CallResult{
		Content: []tools.ContentBlock{{Type: "text", Text: "not json at all"}},
	})
	assert.False(t, resp.Successful)
}

func TestParseCallResultLegacyStatus(t *testing.T) {
	result := &tools.CallResult{
		StructuredContent: map[string]interface{}{
			"status":        "REQUEST_DENIED",
			"error_message": "The provided key is invalid",
		},
	}

	resp := parseCallResult(result)

	assert.False(t, resp.Successful)
	assert.Equal(t, "The provided key is invalid", resp.ErrorMessage)

	// ZERO_RESULTS is an empty success, not a failure
	resp = parseCallResult(&tools.CallResult{
		StructuredContent: map[string]interface{}{"status": "ZERO_RESULTS"},
	})
	assert.True(t, resp.Successful)
	assert.Empty(t, resp.Candidates)
}

func TestNormalizeCandidateNewSchema(t *testing.T) {
	origin := &models.LatLng{Lat: -37.8136, Lng: 144.9631}
	raw := map[string]interface{}{
		"id":          "ChIJabc",
		"name":        "places/ChIJabc",
		"displayName": map[string]interface{}{"text": "Supernormal"},
		"location": map[string]interface{}{
			"latitude":  -37.8150,
			"longitude": 144.9700,
		},
		"rating":           4.4,
		"userRatingCount":  float64(2100),
		"priceLevel":       "PRICE_LEVEL_MODERATE",
		"formattedAddress": "180 Flinders Ln, Melbourne",
		"googleMapsUri":    "https://maps.google.com/?cid=1",
		"types":            []interface{}{"restaurant", "point_of_interest"},
	}

	place, ok := normalizeCandidate(raw, origin)

	require.True(t, ok)
	assert.Equal(t, "ChIJabc", place.PlaceID)
	assert.Equal(t, "Supernormal", place.Name)
	assert.Equal(t, -37.8150, place.Latitude)
	assert.Equal(t, 4.4, place.Rating)
	assert.Equal(t, 2100, place.ReviewCount)
	assert.Equal(t, 2, place.PriceLevel)
	assert.Equal(t, []string{"restaurant", "point_of_interest"}, place.Types)
	require.NotNil(t, place.DistanceMeters)
	assert.Greater(t, *place.DistanceMeters, 0.0)
	assert.Less(t, *place.DistanceMeters, 2000.0)
}

func TestNormalizeCandidateLegacySchema(t *testing.T) {
	raw := map[string]interface{}{
		"place_id": "legacy-1",
		"name":     "Pellegrini's",
		"vicinity": "66 Bourke St",
		"geometry": map[string]interface{}{
			"location": map[string]interface{}{"lat": -37.8110, "lng": 144.9690},
		},
		"price_level":        float64(1),
		"user_ratings_total": float64(3400),
	}

	place, ok := normalizeCandidate(raw, nil)

	require.True(t, ok)
	assert.Equal(t, "legacy-1", place.PlaceID)
	assert.Equal(t, "Pellegrini's", place.Name)
	assert.Equal(t, "66 Bourke St", place.Address)
	assert.Equal(t, -37.8110, place.Latitude)
	assert.Equal(t, 1, place.PriceLevel)
	assert.Equal(t, 3400, place.ReviewCount)
	assert.Nil(t, place.DistanceMeters)
}

func TestNormalizeCandidateRejectsAnonymous(t *testing.T) {
	_, ok := normalizeCandidate(map[string]interface{}{"rating": 4.0}, nil)
	assert.False(t, ok)
}
