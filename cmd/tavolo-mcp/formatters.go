package main

import (
	"fmt"
	"strings"

	"github.com/ternarybob/tavolo/internal/models"
)

// formatSearchOutcome renders a search outcome as markdown
func formatSearchOutcome(outcome *models.PlaceSearchOutcome) string {
	var b strings.Builder
	b.WriteString(outcome.Message)
	b.WriteString("\n\n")
	writePlaces(&b, outcome.Places)

	if outcome.NextPageToken != "" {
		fmt.Fprintf(&b, "\nNext page token: %s\n", outcome.NextPageToken)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatPlace renders one place as markdown
func formatPlace(place *models.Place) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", place.Name)
	fmt.Fprintf(&b, "- ID: %s\n", place.PlaceID)
	if place.Rating > 0 {
		fmt.Fprintf(&b, "- Rating: %.1f (%d reviews)\n", place.Rating, place.ReviewCount)
	}
	if len(place.Types) > 0 {
		fmt.Fprintf(&b, "- Types: %s\n", strings.Join(place.Types, ", "))
	}
	if place.Address != "" {
		fmt.Fprintf(&b, "- Address: %s\n", place.Address)
	}
	if place.MapsURL != "" {
		fmt.Fprintf(&b, "- Map: %s\n", place.MapsURL)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatPlaceList renders a plain place list as markdown
func formatPlaceList(places []models.Place) string {
	if len(places) == 0 {
		return "No places stored yet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d places:\n\n", len(places))
	writePlaces(&b, places)
	return strings.TrimRight(b.String(), "\n")
}

func writePlaces(b *strings.Builder, places []models.Place) {
	for i, place := range places {
		fmt.Fprintf(b, "%d. **%s** (%s)", i+1, place.Name, place.PlaceID)
		if place.Rating > 0 {
			fmt.Fprintf(b, " - %.1f stars", place.Rating)
		}
		if place.DistanceMeters != nil {
			fmt.Fprintf(b, ", %.0fm away", *place.DistanceMeters)
		}
		if place.Address != "" {
			fmt.Fprintf(b, "\n   %s", place.Address)
		}
		b.WriteString("\n")
	}
}
