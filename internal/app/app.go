package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tavolo/internal/common"
	"github.com/ternarybob/tavolo/internal/handlers"
	"github.com/ternarybob/tavolo/internal/interfaces"
	"github.com/ternarybob/tavolo/internal/services/chat"
	"github.com/ternarybob/tavolo/internal/services/events"
	"github.com/ternarybob/tavolo/internal/services/llm"
	"github.com/ternarybob/tavolo/internal/services/places"
	"github.com/ternarybob/tavolo/internal/services/ranking"
	"github.com/ternarybob/tavolo/internal/services/scheduler"
	"github.com/ternarybob/tavolo/internal/services/tools"
	badgerstorage "github.com/ternarybob/tavolo/internal/storage/badger"
)

// App owns every wired component and their shutdown order
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager interfaces.StorageManager
	EventService   interfaces.EventService
	LLMService     interfaces.LLMService

	GatewayClient *tools.Client
	ToolCatalog   *tools.Catalog

	RankingService *ranking.Service
	SearchService  interfaces.PlaceSearchService
	ChatService    interfaces.ChatService
	Scheduler      *scheduler.Service

	ChatHandler     *handlers.ChatHandler
	SearchHandler   *handlers.SearchHandler
	FeedbackHandler *handlers.FeedbackHandler
	StatusHandler   *handlers.StatusHandler
	WSHandler       *handlers.WebSocketHandler
}

// New wires the application from configuration. Construction order follows
// the dependency chain: storage, events, LLM, gateway, search, chat,
// handlers, scheduler.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	storageManager, err := badgerstorage.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.StorageManager = storageManager

	a.EventService = events.NewService(logger)

	llmService, err := llm.NewLLMService(config, storageManager, logger)
	if err != nil {
		// Search must survive a missing LLM key; the ranker and chat layer
		// fall back to their deterministic paths.
		logger.Warn().Err(err).Msg("LLM service unavailable, continuing without it")
		llmService = nil
	}
	a.LLMService = llmService

	gatewayKey, err := common.ResolveAPIKey(context.Background(), storageManager.KeyValueStorage(), "gateway_api_key", config.Gateway.APIKey)
	if err != nil {
		logger.Debug().Msg("No gateway API key configured")
		gatewayKey = ""
	}
	a.GatewayClient = tools.NewClient(&config.Gateway, gatewayKey, logger)
	a.ToolCatalog = tools.NewCatalog(a.GatewayClient, config.Gateway.CatalogTTL, logger)

	a.RankingService = ranking.NewService(config, llmService, logger)
	a.SearchService = places.NewService(
		config,
		a.GatewayClient,
		a.ToolCatalog,
		a.RankingService,
		storageManager.PlaceStorage(),
		a.EventService,
		logger,
	)

	a.ChatService = chat.NewChatService(llmService, a.SearchService, logger)

	a.ChatHandler = handlers.NewChatHandler(a.ChatService, logger)
	a.SearchHandler = handlers.NewSearchHandler(a.SearchService, storageManager.PlaceStorage(), logger)
	a.FeedbackHandler = handlers.NewFeedbackHandler(storageManager.FeedbackStorage(), a.EventService, logger)
	a.StatusHandler = handlers.NewStatusHandler(llmService, a.GatewayClient, a.ToolCatalog, logger)
	a.WSHandler = handlers.NewWebSocketHandler(a.EventService, &config.WebSocket, logger)

	a.Scheduler = scheduler.NewService(a.ToolCatalog, a.EventService, logger)
	if config.Scheduler.Enabled && a.GatewayClient.Configured() {
		if err := a.Scheduler.Start(config.Scheduler.CatalogRefresh); err != nil {
			logger.Warn().Err(err).Msg("Failed to start scheduler")
		}
	}

	logger.Info().Msg("Application initialized")
	return a, nil
}

// Close shuts components down in reverse construction order
func (a *App) Close() error {
	if a.Scheduler != nil {
		if err := a.Scheduler.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Scheduler shutdown failed")
		}
	}

	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("LLM service shutdown failed")
		}
	}

	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Event service shutdown failed")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("storage shutdown failed: %w", err)
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
