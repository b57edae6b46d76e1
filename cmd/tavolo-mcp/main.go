package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"

	"github.com/ternarybob/tavolo/internal/common"
	"github.com/ternarybob/tavolo/internal/services/llm"
	"github.com/ternarybob/tavolo/internal/services/places"
	"github.com/ternarybob/tavolo/internal/services/ranking"
	"github.com/ternarybob/tavolo/internal/services/tools"
	badgerstorage "github.com/ternarybob/tavolo/internal/storage/badger"
)

func main() {
	configPath := os.Getenv("TAVOLO_CONFIG")
	if configPath == "" {
		configPath = "tavolo.toml"
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal console logger; stdio carries the MCP protocol
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	storageManager, err := badgerstorage.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer storageManager.Close()

	llmService, err := llm.NewLLMService(config, storageManager, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("LLM service unavailable, ranking falls back to deterministic order")
		llmService = nil
	}

	gatewayKey, err := common.ResolveAPIKey(context.Background(), storageManager.KeyValueStorage(), "gateway_api_key", config.Gateway.APIKey)
	if err != nil {
		gatewayKey = ""
	}
	gatewayClient := tools.NewClient(&config.Gateway, gatewayKey, logger)
	catalog := tools.NewCatalog(gatewayClient, config.Gateway.CatalogTTL, logger)

	rankingService := ranking.NewService(config, llmService, logger)
	searchService := places.NewService(config, gatewayClient, catalog, rankingService, storageManager.PlaceStorage(), nil, logger)

	mcpServer := server.NewMCPServer(
		"tavolo",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createSearchPlacesTool(), handleSearchPlaces(searchService, logger))
	mcpServer.AddTool(createGetPlaceTool(), handleGetPlace(storageManager.PlaceStorage(), logger))
	mcpServer.AddTool(createListRecentPlacesTool(), handleListRecentPlaces(storageManager.PlaceStorage(), logger))
	mcpServer.AddTool(createRecordFeedbackTool(), handleRecordFeedback(storageManager.FeedbackStorage(), logger))

	// Blocks on stdio
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
