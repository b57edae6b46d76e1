package ranking

import (
	"fmt"
	"strings"

	"github.com/ternarybob/tavolo/internal/models"
)

const filterSystemPrompt = `You match restaurant candidates against a user's cuisine intent.
You receive a query and a numbered list of places with their declared types.
Respond with a single JSON object and nothing else:
{"kept": [<place ids or zero-based indexes of the places that plausibly match the query>]}
Keep a place when in doubt. Never invent ids that are not in the list.`

const reorderSystemPrompt = `You order restaurant candidates by how well they fit a user's request.
You receive a query, optional origin context, and a numbered list of places.
Respond with a single JSON object and nothing else:
{"ranked": [<place ids or zero-based indexes, best match first>], "rationale": "<one short sentence>"}
Include every listed place exactly once. Never invent ids that are not in the list.`

// buildFilterPrompt renders the cuisine-filter user turn
func buildFilterPrompt(req *models.RankRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\nPlaces:\n", req.Query)
	writePlaceList(&b, req.Places)
	return b.String()
}

// buildReorderPrompt renders the reorder user turn
func buildReorderPrompt(req *models.RankRequest, places []models.Place) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n", req.Query)
	if req.LocationText != "" {
		fmt.Fprintf(&b, "Area: %s\n", req.LocationText)
	}
	if req.Coords != nil {
		fmt.Fprintf(&b, "Search radius: %dm from the user's position\n", req.RadiusMeters)
	}
	b.WriteString("\nPlaces:\n")
	writePlaceList(&b, places)
	return b.String()
}

func writePlaceList(b *strings.Builder, places []models.Place) {
	for i, place := range places {
		fmt.Fprintf(b, "%d. id=%s name=%q types=%s rating=%.1f reviews=%d",
			i, place.PlaceID, place.Name, strings.Join(place.Types, ","), place.Rating, place.ReviewCount)
		if place.DistanceMeters != nil {
			fmt.Fprintf(b, " distance=%.0fm", *place.DistanceMeters)
		}
		b.WriteString("\n")
	}
}
