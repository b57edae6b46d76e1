package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tavolo/internal/interfaces"
	"github.com/ternarybob/tavolo/internal/models"
)

// SearchHandler handles place search HTTP requests
type SearchHandler struct {
	searchService interfaces.PlaceSearchService
	placeStorage  interfaces.PlaceStorage
	validate      *validator.Validate
	logger        arbor.ILogger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService interfaces.PlaceSearchService, placeStorage interfaces.PlaceStorage, logger arbor.ILogger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		placeStorage:  placeStorage,
		validate:      validator.New(),
		logger:        logger,
	}
}

// SearchHandler handles POST /api/search requests
func (h *SearchHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.PlaceSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode search request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid search request: "+err.Error())
		return
	}

	outcome, err := h.searchService.SearchPlaces(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Place search failed")
		WriteError(w, http.StatusInternalServerError, "Search failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"message":         outcome.Message,
		"places":          outcome.Places,
		"next_page_token": outcome.NextPageToken,
		"used_ranker":     outcome.UsedRanker,
		"used_radius":     outcome.UsedRadius,
		"mode":            outcome.Mode,
	})
}

// RecentHandler handles GET /api/places/recent requests
func (h *SearchHandler) RecentHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	places, err := h.placeStorage.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list recent places")
		WriteError(w, http.StatusInternalServerError, "Failed to list recent places")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"places":  places,
		"count":   len(places),
	})
}

// GetPlaceHandler handles GET /api/places/get?id= requests
func (h *SearchHandler) GetPlaceHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	placeID := r.URL.Query().Get("id")
	if placeID == "" {
		WriteError(w, http.StatusBadRequest, "id query parameter is required")
		return
	}

	place, err := h.placeStorage.GetPlace(r.Context(), placeID)
	if err == interfaces.ErrPlaceNotFound {
		WriteError(w, http.StatusNotFound, "Place not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("place_id", placeID).Msg("Failed to get place")
		WriteError(w, http.StatusInternalServerError, "Failed to get place")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"place":   place,
	})
}
