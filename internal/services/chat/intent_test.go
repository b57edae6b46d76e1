package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntentHeuristicSearch(t *testing.T) {
	intent := parseIntentHeuristic("I'm craving ramen in Fitzroy")

	assert.True(t, intent.WantsSearch)
	assert.Equal(t, "ramen", intent.Keyword)
	assert.Equal(t, "Fitzroy", intent.LocationText)
	assert.Zero(t, intent.RadiusMeters)
}

func TestParseIntentHeuristicNoSearch(t *testing.T) {
	intent := parseIntentHeuristic("How do I reset my password?")

	assert.False(t, intent.WantsSearch)
	assert.Empty(t, intent.Keyword)
}

func TestParseIntentHeuristicNearMe(t *testing.T) {
	intent := parseIntentHeuristic("Find me a good pizza place near me")

	assert.True(t, intent.WantsSearch)
	assert.Equal(t, "pizza", intent.Keyword)
	assert.Empty(t, intent.LocationText)
}

func TestParseIntentHeuristicRadius(t *testing.T) {
	intent := parseIntentHeuristic("any thai restaurants within 2 km?")
	assert.True(t, intent.WantsSearch)
	assert.Equal(t, "thai", intent.Keyword)
	assert.Equal(t, 2000, intent.RadiusMeters)

	intent = parseIntentHeuristic("somewhere to eat within 800 meters")
	assert.True(t, intent.WantsSearch)
	assert.Equal(t, 800, intent.RadiusMeters)
}

func TestParseIntentHeuristicTriggerWithoutCuisine(t *testing.T) {
	intent := parseIntentHeuristic("I'm hungry, any recommendations?")

	assert.True(t, intent.WantsSearch)
	assert.Empty(t, intent.Keyword)
}

func TestParseIntentResponse(t *testing.T) {
	intent, err := parseIntentResponse(`{"search": true, "keyword": "sushi", "location": "Carlton", "radius_m": 1500}`)
	require.NoError(t, err)
	assert.True(t, intent.WantsSearch)
	assert.Equal(t, "sushi", intent.Keyword)
	assert.Equal(t, "Carlton", intent.LocationText)
	assert.Equal(t, 1500, intent.RadiusMeters)
}

func TestParseIntentResponseToleratesProse(t *testing.T) {
	intent, err := parseIntentResponse("Sure, here is the intent:\n{\"search\": false}")
	require.NoError(t, err)
	assert.False(t, intent.WantsSearch)
}

func TestParseIntentResponseRejectsInvalid(t *testing.T) {
	_, err := parseIntentResponse(`{"keyword": "sushi"}`)
	assert.Error(t, err)

	_, err = parseIntentResponse(`{"search": true, "extra": 1}`)
	assert.Error(t, err)

	_, err = parseIntentResponse("not json")
	assert.Error(t, err)
}
