package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schemaWithProperties(props ...string) map[string]interface{} {
	properties := make(map[string]interface{}, len(props))
	for _, prop := range props {
		properties[prop] = map[string]interface{}{"type": "string"}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
}

func TestResolveByName(t *testing.T) {
	defs := []Definition{
		{Name: "maps_search_nearby", InputSchema: schemaWithProperties("latitude", "longitude", "radius")},
		{Name: "maps_search_text", InputSchema: schemaWithProperties("query")},
		{Name: "maps_geocode", InputSchema: schemaWithProperties("address")},
		{Name: "maps_place_details", InputSchema: schemaWithProperties("place_id")},
	}

	set := Resolve(defs)
	require.NotNil(t, set)

	assert.Equal(t, "maps_search_nearby", set.NearbySearch.Name)
	assert.Equal(t, "maps_search_text", set.TextSearch.Name)
	assert.Equal(t, "maps_geocode", set.Geocode.Name)
	assert.Equal(t, "maps_place_details", set.PlaceDetails.Name)
	assert.False(t, set.Empty())
}

func TestResolveByProperties(t *testing.T) {
	// Generic names force the property-heuristic pass
	defs := []Definition{
		{Name: "places_search_v2", InputSchema: schemaWithProperties("lat", "lng", "radius_m")},
		{Name: "find_places", InputSchema: schemaWithProperties("textQuery", "pageToken")},
	}

	set := Resolve(defs)
	require.NotNil(t, set)

	assert.Equal(t, "places_search_v2", set.NearbySearch.Name)
	assert.Equal(t, "find_places", set.TextSearch.Name)
}

func TestResolveCrossFallback(t *testing.T) {
	t.Run("text only serves nearby", func(t *testing.T) {
		defs := []Definition{
			{Name: "maps_search_text", InputSchema: schemaWithProperties("query")},
		}

		set := Resolve(defs)
		require.NotNil(t, set.NearbySearch)
		assert.Equal(t, "maps_search_text", set.NearbySearch.Name)
		assert.False(t, set.Empty())
	})

	t.Run("nearby only serves text", func(t *testing.T) {
		defs := []Definition{
			{Name: "nearby_search", InputSchema: schemaWithProperties("latitude", "longitude", "radius")},
		}

		set := Resolve(defs)
		require.NotNil(t, set.TextSearch)
		assert.Equal(t, "nearby_search", set.TextSearch.Name)
	})
}

func TestResolveEmpty(t *testing.T) {
	set := Resolve([]Definition{
		{Name: "send_email", InputSchema: schemaWithProperties("to", "subject")},
	})
	assert.True(t, set.Empty())

	var nilSet *ResolvedToolSet
	assert.True(t, nilSet.Empty())

	assert.True(t, Resolve(nil).Empty())
}

func TestResolveIgnoresUnrelatedTools(t *testing.T) {
	defs := []Definition{
		{Name: "weather_lookup", InputSchema: schemaWithProperties("latitude", "longitude", "radius")},
		{Name: "maps_search_text", InputSchema: schemaWithProperties("query")},
	}

	set := Resolve(defs)
	// weather_lookup has nearby-shaped properties but a non-search name, so
	// the text tool backfills nearby search
	assert.Equal(t, "maps_search_text", set.NearbySearch.Name)
	assert.Equal(t, "maps_search_text", set.TextSearch.Name)
}
