package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tavolo/internal/interfaces"
)

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	chatService interfaces.ChatService
	logger      arbor.ILogger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService interfaces.ChatService, logger arbor.ILogger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// ChatHandler handles POST /api/chat requests
func (h *ChatHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req interfaces.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode chat request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Message == "" {
		WriteError(w, http.StatusBadRequest, "Message field is required")
		return
	}

	h.logger.Info().
		Int("message_length", len(req.Message)).
		Int("history_length", len(req.History)).
		Msg("Processing chat request")

	response, err := h.chatService.Chat(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to generate chat response")
		WriteError(w, http.StatusInternalServerError, "Failed to generate response: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"message":         response.Message,
		"places":          response.Places,
		"used_search":     response.UsedSearch,
		"next_page_token": response.NextPageToken,
	})
}
