package models

// Search modes selected by the orchestrator
const (
	SearchModeNearby = "nearby"
	SearchModeText   = "text"
)

// PlaceSearchRequest is the normalized search intent handed to the engine.
// If Coords is nil the mode must resolve to text search; proximity search is
// impossible without an origin.
type PlaceSearchRequest struct {
	Keyword      string  `json:"keyword"`
	Coords       *LatLng `json:"coords,omitempty"`
	RadiusMeters int     `json:"radius_meters,omitempty" validate:"gte=0"`
	LocationText string  `json:"location_text,omitempty"`

	// PlaceTypes overrides the included-types filter inferred from the keyword
	PlaceTypes []string `json:"place_types,omitempty"`

	// ForceMode pins the search mode regardless of query characteristics
	ForceMode string `json:"force_mode,omitempty" validate:"omitempty,oneof=nearby text"`

	// PaginationToken continues a previous search; round-tripped verbatim
	PaginationToken string `json:"pagination_token,omitempty"`

	// MaxResults caps the returned list (0 = server default)
	MaxResults int `json:"max_results,omitempty" validate:"gte=0"`

	// DisableDistanceFilter skips the geographic safety net, e.g. when the
	// caller explicitly asked for a named location far from their origin
	DisableDistanceFilter bool `json:"disable_distance_filter,omitempty"`
}

// PlaceSearchOutcome is the terminal value returned to the caller. Every
// fallback branch produces a complete outcome; it is never partially mutated.
type PlaceSearchOutcome struct {
	Places        []Place `json:"places"`
	Message       string  `json:"message"`
	NextPageToken string  `json:"next_page_token,omitempty"`
	UsedRanker    bool    `json:"used_ranker"`

	// UsedRadius is the radius in meters the final (possibly expanded) search
	// actually ran with
	UsedRadius int `json:"used_radius,omitempty"`

	// Mode is the search mode of the final call: "nearby" or "text"
	Mode string `json:"mode,omitempty"`
}
