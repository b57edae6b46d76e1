package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tavolo/internal/interfaces"
	"github.com/ternarybob/tavolo/internal/models"
)

// FeedbackHandler handles place feedback HTTP requests
type FeedbackHandler struct {
	feedbackStorage interfaces.FeedbackStorage
	eventService    interfaces.EventService
	validate        *validator.Validate
	logger          arbor.ILogger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackStorage interfaces.FeedbackStorage, eventService interfaces.EventService, logger arbor.ILogger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackStorage: feedbackStorage,
		eventService:    eventService,
		validate:        validator.New(),
		logger:          logger,
	}
}

// RecordHandler handles POST /api/feedback requests
func (h *FeedbackHandler) RecordHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var feedback models.PlaceFeedback
	if err := json.NewDecoder(r.Body).Decode(&feedback); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode feedback request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if feedback.PlaceID == "" {
		WriteError(w, http.StatusBadRequest, "place_id field is required")
		return
	}
	if err := h.validate.Struct(&feedback); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid feedback: "+err.Error())
		return
	}

	if err := h.feedbackStorage.Record(r.Context(), &feedback); err != nil {
		h.logger.Error().Err(err).Str("place_id", feedback.PlaceID).Msg("Failed to record feedback")
		WriteError(w, http.StatusInternalServerError, "Failed to record feedback")
		return
	}

	if h.eventService != nil {
		_ = h.eventService.Publish(context.Background(), interfaces.Event{
			Type: interfaces.EventFeedbackRecorded,
			Payload: map[string]interface{}{
				"feedback_id": feedback.ID,
				"place_id":    feedback.PlaceID,
				"verdict":     feedback.Verdict,
				"timestamp":   time.Now().UTC().Format(time.RFC3339),
			},
		})
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"feedback_id": feedback.ID,
	})
}

// ForPlaceHandler handles GET /api/feedback?place_id= requests
func (h *FeedbackHandler) ForPlaceHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	placeID := r.URL.Query().Get("place_id")
	if placeID == "" {
		WriteError(w, http.StatusBadRequest, "place_id query parameter is required")
		return
	}

	entries, err := h.feedbackStorage.ForPlace(r.Context(), placeID)
	if err != nil {
		h.logger.Error().Err(err).Str("place_id", placeID).Msg("Failed to list feedback")
		WriteError(w, http.StatusInternalServerError, "Failed to list feedback")
		return
	}

	liked, disliked, err := h.feedbackStorage.Counts(r.Context(), placeID)
	if err != nil {
		h.logger.Error().Err(err).Str("place_id", placeID).Msg("Failed to count feedback")
		WriteError(w, http.StatusInternalServerError, "Failed to count feedback")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"feedback": entries,
		"liked":    liked,
		"disliked": disliked,
	})
}
