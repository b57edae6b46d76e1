package models

// RankRequest asks the relevance ranker to filter and optionally reorder a
// candidate list against the user's cuisine intent
type RankRequest struct {
	Query        string
	Places       []Place
	Coords       *LatLng
	LocationText string
	RadiusMeters int
	MaxResults   int
}

// RankResult is always complete: RankedPlaces is never nil and UsedRanker is
// true only when the reorder stage's output passed schema validation and was
// actually applied
type RankResult struct {
	RankedPlaces     []Place
	AssistantMessage string
	UsedRanker       bool
}
