package places

import (
	"math"

	"github.com/ternarybob/tavolo/internal/models"
)

const earthRadiusMeters = 6371000.0

// Haversine returns the great-circle distance in meters between two points
func Haversine(a, b models.LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// DistanceFilterResult reports what the safety net kept and dropped
type DistanceFilterResult[T any] struct {
	Kept            []T
	DroppedCount    int
	MaxKeptDistance float64
}

// FilterByMaxDistance keeps items whose extracted point has finite, present
// coordinates within maxDistanceMeters of origin. Items with missing or
// invalid coordinates are dropped and counted. When origin is nil every item
// is kept unconditionally: the safety net guards geographic plausibility
// only, it is not a correctness filter.
func FilterByMaxDistance[T any](origin *models.LatLng, items []T, getPoint func(T) *models.LatLng, maxDistanceMeters float64) DistanceFilterResult[T] {
	if origin == nil {
		return DistanceFilterResult[T]{Kept: items}
	}

	result := DistanceFilterResult[T]{Kept: make([]T, 0, len(items))}
	for _, item := range items {
		point := getPoint(item)
		if point == nil || !isFiniteCoord(point.Lat) || !isFiniteCoord(point.Lng) {
			result.DroppedCount++
			continue
		}

		distance := Haversine(*origin, *point)
		if distance > maxDistanceMeters {
			result.DroppedCount++
			continue
		}

		if distance > result.MaxKeptDistance {
			result.MaxKeptDistance = distance
		}
		result.Kept = append(result.Kept, item)
	}

	return result
}

// placePoint extracts a place's coordinates for the safety net, or nil when
// the normalizer could not find any
func placePoint(p models.Place) *models.LatLng {
	if p.Latitude == 0 && p.Longitude == 0 {
		return nil
	}
	return &models.LatLng{Lat: p.Latitude, Lng: p.Longitude}
}

func isFiniteCoord(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
