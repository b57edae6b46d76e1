package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tavolo/internal/common"
	"github.com/ternarybob/tavolo/internal/interfaces"
)

// NewLLMService creates the LLM service implementation selected by
// configuration. When the LLM layer is disabled the returned service reports
// LLMModeDisabled and every call fails fast, so consumers can keep a single
// code path and rely on their deterministic fallbacks.
func NewLLMService(cfg *common.Config, storageManager interfaces.StorageManager, logger arbor.ILogger) (interfaces.LLMService, error) {
	if !cfg.LLM.Enabled {
		logger.Info().Msg("LLM layer disabled by configuration")
		return &disabledService{}, nil
	}

	provider := cfg.LLM.DefaultProvider
	if provider == "" {
		provider = common.LLMProviderGemini
	}

	logger.Info().Str("provider", provider).Msg("Initializing LLM service")

	switch provider {
	case common.LLMProviderGemini:
		return NewGeminiService(&cfg.Gemini, storageManager, logger)
	case common.LLMProviderClaude:
		return NewClaudeService(&cfg.Claude, storageManager, logger)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// disabledService satisfies LLMService when no provider is configured.
type disabledService struct{}

func (d *disabledService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return "", fmt.Errorf("LLM service is disabled")
}

func (d *disabledService) HealthCheck(ctx context.Context) error {
	return nil
}

func (d *disabledService) GetMode() interfaces.LLMMode {
	return interfaces.LLMModeDisabled
}

func (d *disabledService) Close() error {
	return nil
}
