package models

import "time"

// LatLng represents a geographic coordinate
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a normalized place record. It is constructed once from a raw tool
// candidate and immutable afterward; DistanceMeters is computed relative to
// the request origin at normalization time, not recomputed later.
type Place struct {
	PlaceID        string   `json:"place_id" badgerhold:"key"`
	Name           string   `json:"name"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Rating         float64  `json:"rating,omitempty"`
	ReviewCount    int      `json:"review_count,omitempty"`
	PriceLevel     int      `json:"price_level,omitempty"`
	Types          []string `json:"types,omitempty"`
	Address        string   `json:"address,omitempty"`
	MapsURL        string   `json:"maps_url,omitempty"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`

	// Set by storage on upsert
	FirstSeen time.Time `json:"first_seen,omitempty"`
	LastSeen  time.Time `json:"last_seen,omitempty"`
}

// HasCoordinates reports whether the place carries a usable coordinate pair
func (p *Place) HasCoordinates() bool {
	return !(p.Latitude == 0 && p.Longitude == 0)
}
