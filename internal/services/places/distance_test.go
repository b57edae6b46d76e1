package places

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/tavolo/internal/models"
)

func TestHaversine(t *testing.T) {
	melbourne := models.LatLng{Lat: -37.8136, Lng: 144.9631}

	assert.Zero(t, Haversine(melbourne, melbourne))

	// One hundredth of a degree of latitude is about 1.11km
	north := models.LatLng{Lat: melbourne.Lat + 0.01, Lng: melbourne.Lng}
	assert.InDelta(t, 1112.0, Haversine(melbourne, north), 5.0)

	// Symmetric
	assert.Equal(t, Haversine(melbourne, north), Haversine(north, melbourne))

	sydney := models.LatLng{Lat: -33.8688, Lng: 151.2093}
	assert.InDelta(t, 713000.0, Haversine(melbourne, sydney), 10000.0)
}

func TestFilterByMaxDistance(t *testing.T) {
	origin := &models.LatLng{Lat: -37.8136, Lng: 144.9631}

	near := models.Place{PlaceID: "near", Latitude: -37.8150, Longitude: 144.9640}
	far := models.Place{PlaceID: "far", Latitude: -37.5000, Longitude: 144.9631}
	noCoords := models.Place{PlaceID: "nocoords"}

	result := FilterByMaxDistance(origin, []models.Place{near, far, noCoords}, placePoint, 2000)

	assert.Len(t, result.Kept, 1)
	assert.Equal(t, "near", result.Kept[0].PlaceID)
	assert.Equal(t, 2, result.DroppedCount)
	assert.Greater(t, result.MaxKeptDistance, 0.0)
	assert.LessOrEqual(t, result.MaxKeptDistance, 2000.0)
}

func TestFilterByMaxDistanceNilOrigin(t *testing.T) {
	items := []models.Place{
		{PlaceID: "a", Latitude: 1, Longitude: 1},
		{PlaceID: "b"},
	}

	result := FilterByMaxDistance(nil, items, placePoint, 10)

	assert.Len(t, result.Kept, 2)
	assert.Zero(t, result.DroppedCount)
}

func TestFilterByMaxDistanceInvalidCoords(t *testing.T) {
	origin := &models.LatLng{Lat: 0, Lng: 0}
	items := []models.Place{
		{PlaceID: "nan", Latitude: math.NaN(), Longitude: 1},
	}

	result := FilterByMaxDistance(origin, items, placePoint, 1e9)

	assert.Empty(t, result.Kept)
	assert.Equal(t, 1, result.DroppedCount)
}
