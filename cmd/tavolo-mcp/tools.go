package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createSearchPlacesTool returns the search_places tool definition
func createSearchPlacesTool() mcp.Tool {
	return mcp.NewTool("search_places",
		mcp.WithDescription("Search for restaurants and food venues near a position or in a named area"),
		mcp.WithString("keyword",
			mcp.Description("Cuisine or dish to search for (e.g. 'italian', 'ramen'); empty searches restaurants generally"),
		),
		mcp.WithNumber("latitude",
			mcp.Description("Origin latitude for nearby search"),
		),
		mcp.WithNumber("longitude",
			mcp.Description("Origin longitude for nearby search"),
		),
		mcp.WithString("location",
			mcp.Description("Named area to search in (e.g. 'Fitzroy'); used when no coordinates are given"),
		),
		mcp.WithNumber("radius_m",
			mcp.Description("Search radius in meters (default from config)"),
		),
	)
}

// createGetPlaceTool returns the get_place tool definition
func createGetPlaceTool() mcp.Tool {
	return mcp.NewTool("get_place",
		mcp.WithDescription("Retrieve a previously surfaced place by its place ID"),
		mcp.WithString("place_id",
			mcp.Required(),
			mcp.Description("Provider place ID"),
		),
	)
}

// createListRecentPlacesTool returns the list_recent_places tool definition
func createListRecentPlacesTool() mcp.Tool {
	return mcp.NewTool("list_recent_places",
		mcp.WithDescription("List the most recently surfaced places, newest first"),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 20)"),
		),
	)
}

// createRecordFeedbackTool returns the record_feedback tool definition
func createRecordFeedbackTool() mcp.Tool {
	return mcp.NewTool("record_feedback",
		mcp.WithDescription("Record liked/disliked feedback for a place"),
		mcp.WithString("place_id",
			mcp.Required(),
			mcp.Description("Provider place ID"),
		),
		mcp.WithString("verdict",
			mcp.Required(),
			mcp.Description("Either 'liked' or 'disliked'"),
		),
		mcp.WithString("comment",
			mcp.Description("Optional free-text comment"),
		),
	)
}
