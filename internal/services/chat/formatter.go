package chat

import (
	"fmt"
	"strings"

	"github.com/ternarybob/tavolo/internal/models"
)

// formatPlaces renders a place list as a Markdown reply. The search
// outcome's own message leads so fallback explanations survive into the chat.
func formatPlaces(outcomeMessage string, places []models.Place) string {
	if len(places) == 0 {
		return outcomeMessage
	}

	var b strings.Builder
	b.WriteString(outcomeMessage)
	b.WriteString("\n\n")

	for i, place := range places {
		fmt.Fprintf(&b, "%d. **%s**", i+1, place.Name)

		var details []string
		if place.Rating > 0 {
			detail := fmt.Sprintf("%.1f stars", place.Rating)
			if place.ReviewCount > 0 {
				detail += fmt.Sprintf(" (%d reviews)", place.ReviewCount)
			}
			details = append(details, detail)
		}
		if place.PriceLevel > 0 {
			details = append(details, strings.Repeat("$", place.PriceLevel))
		}
		if place.DistanceMeters != nil {
			details = append(details, formatDistance(*place.DistanceMeters))
		}
		if len(details) > 0 {
			fmt.Fprintf(&b, " - %s", strings.Join(details, ", "))
		}

		if place.Address != "" {
			fmt.Fprintf(&b, "\n   %s", place.Address)
		}
		if place.MapsURL != "" {
			fmt.Fprintf(&b, "\n   [Map](%s)", place.MapsURL)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1fkm away", meters/1000)
	}
	return fmt.Sprintf("%.0fm away", meters)
}
