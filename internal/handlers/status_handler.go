package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tavolo/internal/common"
	"github.com/ternarybob/tavolo/internal/interfaces"
	"github.com/ternarybob/tavolo/internal/services/tools"
)

// StatusHandler reports service health and component readiness
type StatusHandler struct {
	llmService interfaces.LLMService
	gateway    tools.Invoker
	catalog    *tools.Catalog
	startTime  time.Time
	logger     arbor.ILogger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(llmService interfaces.LLMService, gateway tools.Invoker, catalog *tools.Catalog, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		llmService: llmService,
		gateway:    gateway,
		catalog:    catalog,
		startTime:  time.Now(),
		logger:     logger,
	}
}

// StatusHandler handles GET /api/status requests
func (h *StatusHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	llmMode := string(interfaces.LLMModeDisabled)
	if h.llmService != nil {
		llmMode = string(h.llmService.GetMode())
	}

	gatewayStatus := "unconfigured"
	toolCount := 0
	if h.gateway != nil && h.gateway.Configured() {
		gatewayStatus = "configured"
		if defs, err := h.catalog.Tools(r.Context()); err == nil {
			toolCount = len(defs)
		} else {
			gatewayStatus = "unreachable"
		}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"version":        common.GetVersion(),
		"uptime_seconds": int(time.Since(h.startTime).Seconds()),
		"llm_mode":       llmMode,
		"gateway":        gatewayStatus,
		"tool_count":     toolCount,
	})
}

// HealthHandler handles GET /health requests with a minimal liveness reply
func (h *StatusHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
