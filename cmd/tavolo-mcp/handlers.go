package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tavolo/internal/interfaces"
	"github.com/ternarybob/tavolo/internal/models"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// handleSearchPlaces implements the search_places tool
func handleSearchPlaces(searchService interfaces.PlaceSearchService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := &models.PlaceSearchRequest{
			Keyword:      request.GetString("keyword", ""),
			LocationText: request.GetString("location", ""),
			RadiusMeters: request.GetInt("radius_m", 0),
		}

		lat := request.GetFloat("latitude", 0)
		lng := request.GetFloat("longitude", 0)
		if lat != 0 || lng != 0 {
			req.Coords = &models.LatLng{Lat: lat, Lng: lng}
		}

		outcome, err := searchService.SearchPlaces(ctx, req)
		if err != nil {
			logger.Error().Err(err).Msg("Place search failed")
			return textResult(fmt.Sprintf("Search error: %v", err)), nil
		}

		return textResult(formatSearchOutcome(outcome)), nil
	}
}

// handleGetPlace implements the get_place tool
func handleGetPlace(placeStorage interfaces.PlaceStorage, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		placeID, err := request.RequireString("place_id")
		if err != nil || placeID == "" {
			return textResult("Error: place_id parameter is required"), nil
		}

		place, err := placeStorage.GetPlace(ctx, placeID)
		if err != nil {
			logger.Error().Err(err).Str("place_id", placeID).Msg("GetPlace failed")
			return textResult(fmt.Sprintf("Place not found: %v", err)), nil
		}

		return textResult(formatPlace(place)), nil
	}
}

// handleListRecentPlaces implements the list_recent_places tool
func handleListRecentPlaces(placeStorage interfaces.PlaceStorage, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 20)
		if limit > 100 {
			limit = 100
		}

		places, err := placeStorage.ListRecent(ctx, limit)
		if err != nil {
			logger.Error().Err(err).Msg("ListRecent failed")
			return textResult(fmt.Sprintf("Error listing places: %v", err)), nil
		}

		return textResult(formatPlaceList(places)), nil
	}
}

// handleRecordFeedback implements the record_feedback tool
func handleRecordFeedback(feedbackStorage interfaces.FeedbackStorage, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		placeID, err := request.RequireString("place_id")
		if err != nil || placeID == "" {
			return textResult("Error: place_id parameter is required"), nil
		}

		verdict, err := request.RequireString("verdict")
		if err != nil || (verdict != models.FeedbackLiked && verdict != models.FeedbackDisliked) {
			return textResult("Error: verdict must be 'liked' or 'disliked'"), nil
		}

		feedback := &models.PlaceFeedback{
			PlaceID: placeID,
			Verdict: verdict,
			Comment: request.GetString("comment", ""),
		}

		if err := feedbackStorage.Record(ctx, feedback); err != nil {
			logger.Error().Err(err).Str("place_id", placeID).Msg("Record feedback failed")
			return textResult(fmt.Sprintf("Error recording feedback: %v", err)), nil
		}

		return textResult(fmt.Sprintf("Feedback %s recorded for %s", feedback.ID, placeID)), nil
	}
}
