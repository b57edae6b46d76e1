package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Chat
	mux.HandleFunc("/api/chat", s.app.ChatHandler.ChatHandler)

	// API routes - Place search
	mux.HandleFunc("/api/search", s.app.SearchHandler.SearchHandler)
	mux.HandleFunc("/api/places/recent", s.app.SearchHandler.RecentHandler)
	mux.HandleFunc("/api/places/get", s.app.SearchHandler.GetPlaceHandler)

	// API routes - Feedback
	mux.HandleFunc("/api/feedback", s.handleFeedbackRoutes)

	// API routes - System
	mux.HandleFunc("/api/status", s.app.StatusHandler.StatusHandler)
	mux.HandleFunc("/health", s.app.StatusHandler.HealthHandler)

	return mux
}

// handleFeedbackRoutes dispatches /api/feedback by method
func (s *Server) handleFeedbackRoutes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.app.FeedbackHandler.RecordHandler(w, r)
	case http.MethodGet:
		s.app.FeedbackHandler.ForPlaceHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
