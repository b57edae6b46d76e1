package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/tavolo/internal/models"
)

func TestBuildNearbyArgsFlatCoordinates(t *testing.T) {
	tool := toolWithProperties("latitude", "longitude", "radius", "keyword", "includedTypes", "excludedTypes", "maxResultCount", "pageToken")

	args := buildNearbyArgs(tool, nearbyParams{
		Coords:          models.LatLng{Lat: -37.81, Lng: 144.96},
		RadiusMeters:    1500,
		Keyword:         "ramen",
		PaginationToken: "tok-1",
		MaxResults:      10,
	})

	assert.Equal(t, -37.81, args["latitude"])
	assert.Equal(t, 144.96, args["longitude"])
	assert.Equal(t, 1500, args["radius"])
	assert.Equal(t, "ramen", args["keyword"])
	assert.Equal(t, []string{"restaurant"}, args["includedTypes"])
	assert.Equal(t, defaultExcludedTypes, args["excludedTypes"])
	assert.Equal(t, 10, args["maxResultCount"])
	assert.Equal(t, "tok-1", args["pageToken"])
}

func TestBuildNearbyArgsCompositeLocation(t *testing.T) {
	tool := toolWithProperties("location", "radius", "keyword")

	args := buildNearbyArgs(tool, nearbyParams{
		Coords:       models.LatLng{Lat: 1.5, Lng: 2.5},
		RadiusMeters: 800,
	})

	location, ok := args["location"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 1.5, location["lat"])
	assert.Equal(t, 2.5, location["lng"])
	assert.Equal(t, "restaurant", args["keyword"])
}

func TestBuildNearbyArgsTextShapedSchema(t *testing.T) {
	// Cross-fallback can alias a text tool for proximity duty; its bias
	// property must receive a circular region, never a flat lat/lng pair
	tool := toolWithProperties("query", "locationBias", "fieldMask")

	args := buildNearbyArgs(tool, nearbyParams{
		Coords:       models.LatLng{Lat: -37.8, Lng: 144.9},
		RadiusMeters: 2000,
		Keyword:      "ramen",
	})

	bias, ok := args["locationBias"].(map[string]interface{})
	require.True(t, ok)
	assert.NotContains(t, bias, "lat")
	assert.NotContains(t, bias, "lng")
	circle, ok := bias["circle"].(map[string]interface{})
	require.True(t, ok)
	center, ok := circle["center"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, -37.8, center["latitude"])
	assert.Equal(t, 144.9, center["longitude"])
	assert.Equal(t, 2000, circle["radius"])
}

func TestBuildNearbyArgsTypeHints(t *testing.T) {
	tool := toolWithProperties("latitude", "longitude", "keyword", "includedTypes")

	args := buildNearbyArgs(tool, nearbyParams{
		Coords:  models.LatLng{Lat: 1, Lng: 2},
		Keyword: "coffee",
	})
	assert.Equal(t, []string{"restaurant", "cafe"}, args["includedTypes"])

	args = buildNearbyArgs(tool, nearbyParams{
		Coords:        models.LatLng{Lat: 1, Lng: 2},
		Keyword:       "anything",
		IncludedTypes: []string{"bakery"},
	})
	assert.Equal(t, []string{"bakery"}, args["includedTypes"])
}

func TestBuildTextArgsQuerySynthesis(t *testing.T) {
	tool := toolWithProperties("query")

	tests := []struct {
		keyword      string
		locationText string
		want         string
	}{
		{"", "", "restaurants"},
		{"sushi", "", "sushi restaurant"},
		{"thai food", "", "thai food"},
		{"ramen", "Fitzroy", "ramen restaurant in Fitzroy"},
		{"", "Carlton", "restaurants in Carlton"},
	}

	for _, tc := range tests {
		args, query := buildTextArgs(tool, textParams{Keyword: tc.keyword, LocationText: tc.locationText})
		assert.Equal(t, tc.want, query)
		assert.Equal(t, tc.want, args["query"])
	}
}

func TestBuildTextArgsLocationBias(t *testing.T) {
	tool := toolWithProperties("query", "locationBias", "fieldMask")

	args, _ := buildTextArgs(tool, textParams{
		Keyword:      "thai",
		Coords:       &models.LatLng{Lat: -37.81, Lng: 144.96},
		RadiusMeters: 2000,
	})

	bias, ok := args["locationBias"].(map[string]interface{})
	require.True(t, ok)
	circle, ok := bias["circle"].(map[string]interface{})
	require.True(t, ok)
	center, ok := circle["center"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, -37.81, center["latitude"])
	assert.Equal(t, 144.96, center["longitude"])
	assert.Equal(t, 2000, circle["radius"])
	assert.Equal(t, "*", args["fieldMask"])
}

func TestBuildTextArgsFlatCoordinateFallback(t *testing.T) {
	tool := toolWithProperties("query", "latitude", "longitude", "radius")

	args, _ := buildTextArgs(tool, textParams{
		Keyword:      "pho",
		Coords:       &models.LatLng{Lat: 1.0, Lng: 2.0},
		RadiusMeters: 500,
	})

	assert.Equal(t, 1.0, args["latitude"])
	assert.Equal(t, 2.0, args["longitude"])
	assert.Equal(t, 500, args["radius"])
	assert.NotContains(t, args, "locationBias")
}

func TestBuildTextArgsNoCoords(t *testing.T) {
	tool := toolWithProperties("query", "locationBias")

	args, _ := buildTextArgs(tool, textParams{Keyword: "pizza", LocationText: "Brunswick"})

	assert.Equal(t, "pizza restaurant in Brunswick", args["query"])
	assert.NotContains(t, args, "locationBias")
}

func TestSynthesizeQueryFoodNouns(t *testing.T) {
	assert.Equal(t, "wine bar", synthesizeQuery("wine bar", ""))
	assert.Equal(t, "vegan cafe", synthesizeQuery("vegan cafe", ""))
	assert.Equal(t, "quiet restaurant", synthesizeQuery("quiet", ""))
}
