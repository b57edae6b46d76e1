package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/tavolo/internal/services/tools"
)

func toolWithProperties(names ...string) *tools.Definition {
	props := make(map[string]interface{}, len(names))
	for _, name := range names {
		props[name] = map[string]interface{}{"type": "string"}
	}
	return &tools.Definition{
		Name:        "test_tool",
		InputSchema: map[string]interface{}{"type": "object", "properties": props},
	}
}

func TestPropertyIndexExactMatch(t *testing.T) {
	index := buildPropertyIndex(toolWithProperties("latitude", "longitude", "radius"))

	name, ok := index.find(latitudeKeys)
	require.True(t, ok)
	assert.Equal(t, "latitude", name)

	name, ok = index.find(radiusKeys)
	require.True(t, ok)
	assert.Equal(t, "radius", name)
}

func TestPropertyIndexCaseInsensitive(t *testing.T) {
	index := buildPropertyIndex(toolWithProperties("maxResultCount", "pageToken"))

	name, ok := index.find(maxResultKeys)
	require.True(t, ok)
	assert.Equal(t, "maxResultCount", name)

	name, ok = index.find(pageTokenKeys)
	require.True(t, ok)
	assert.Equal(t, "pageToken", name)
}

func TestPropertyIndexPrefersExactOverSubstring(t *testing.T) {
	index := buildPropertyIndex(toolWithProperties("location", "locationBias"))

	name, ok := index.find(locationKeys)
	require.True(t, ok)
	assert.Equal(t, "location", name)
}

func TestPropertyIndexTokenFallback(t *testing.T) {
	// No exact "radius" property, but a declared name carries it as a segment
	index := buildPropertyIndex(toolWithProperties("searchRadiusMeters", "textQuery"))

	name, ok := index.find(radiusKeys)
	require.True(t, ok)
	assert.Equal(t, "searchRadiusMeters", name)

	name, ok = index.find(keywordKeys)
	require.True(t, ok)
	assert.Equal(t, "textQuery", name)

	// Compound candidates span adjacent segments
	index = buildPropertyIndex(toolWithProperties("nextPageToken"))
	name, ok = index.find(pageTokenKeys)
	require.True(t, ok)
	assert.Equal(t, "nextPageToken", name)
}

func TestPropertyIndexMiss(t *testing.T) {
	index := buildPropertyIndex(toolWithProperties("unrelated"))

	_, ok := index.find(latitudeKeys)
	assert.False(t, ok)

	name, ok := index.find([]string{"unrelated"})
	require.True(t, ok)
	assert.Equal(t, "unrelated", name)
}

func TestPropertyIndexIgnoresEmbeddedLetters(t *testing.T) {
	// "lat" occurs inside all of these, but never as a name segment
	index := buildPropertyIndex(toolWithProperties("template", "plated", "translation"))

	_, ok := index.find(latitudeKeys)
	assert.False(t, ok)

	// A real segment still matches
	index = buildPropertyIndex(toolWithProperties("centerLat"))
	name, ok := index.find(latitudeKeys)
	require.True(t, ok)
	assert.Equal(t, "centerLat", name)
}
