package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/tavolo/internal/interfaces"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Gateway     GatewayConfig   `toml:"gateway"` // Remote place-tool gateway (JSON-RPC tools/list + tools/call)
	Search      SearchConfig    `toml:"search"`
	Ranking     RankingConfig   `toml:"ranking"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Claude      ClaudeConfig    `toml:"claude"`
	LLM         LLMConfig       `toml:"llm"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	WebSocket   WebSocketConfig `toml:"websocket"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gte=0,lte=65535"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
	GCInterval     string `toml:"gc_interval"`              // Value-log GC interval, e.g. "10m" (empty disables)
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

// GatewayConfig configures the remote tool-calling gateway. The gateway's tool
// names and argument schemas are discovered at runtime via tools/list; nothing
// about them is hard-coded here.
type GatewayConfig struct {
	URL            string        `toml:"url"`              // Empty disables place search entirely
	APIKey         string        `toml:"api_key"`          // Sent as X-Api-Key; KV store takes precedence
	RequestTimeout time.Duration `toml:"request_timeout"`  // Per tool call (default 10s)
	CatalogTTL     time.Duration `toml:"catalog_ttl"`      // Tool list / resolution cache TTL (default 5m)
	RateLimit      float64       `toml:"rate_limit"`       // Tool calls per second (default 5)
	MaxResults     int           `toml:"max_results"`      // Cap requested from the remote tool
}

// SearchConfig contains defaults for place search behavior
type SearchConfig struct {
	DefaultRadiusMeters   int  `toml:"default_radius_meters" validate:"gt=0"`
	MaxRadiusMeters       int  `toml:"max_radius_meters" validate:"gt=0"`   // Radius-expansion cap
	DistanceToleranceMult int  `toml:"distance_tolerance_mult" validate:"gt=0"`
	MinSafetyNetMeters    int  `toml:"min_safety_net_meters" validate:"gt=0"`
	PersistResults        bool `toml:"persist_results"` // Upsert normalized places into storage
}

// RankingConfig controls the LLM-backed relevance ranker
type RankingConfig struct {
	Enabled        bool          `toml:"enabled"`         // Cuisine filter stage
	ReorderEnabled bool          `toml:"reorder_enabled"` // Reorder stage (separate flag)
	MaxResults     int           `toml:"max_results" validate:"gt=0"`
	Timeout        time.Duration `toml:"timeout"` // Budget per LLM call, runs inline in user requests
}

type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Timeout     string  `toml:"timeout"`
	Temperature float32 `toml:"temperature"`
}

type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Timeout     string  `toml:"timeout"`
	Temperature float32 `toml:"temperature"`
}

// LLMProvider values for LLMConfig.DefaultProvider
const (
	LLMProviderGemini = "gemini"
	LLMProviderClaude = "claude"
)

type LLMConfig struct {
	DefaultProvider string `toml:"default_provider" validate:"omitempty,oneof=gemini claude"`
	Enabled         bool   `toml:"enabled"`
}

// SchedulerConfig drives background maintenance (tool catalog refresh)
type SchedulerConfig struct {
	Enabled         bool   `toml:"enabled"`
	CatalogRefresh  string `toml:"catalog_refresh"` // Cron spec, e.g. "*/4 * * * *"
}

type WebSocketConfig struct {
	AllowedEvents []string `toml:"allowed_events"` // Whitelist of events to broadcast (empty = allow all)
}

// NewDefaultConfig returns the built-in configuration defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8585,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/tavolo",
				ResetOnStartup: false,
				GCInterval:     "10m",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Gateway: GatewayConfig{
			URL:            "", // User must provide gateway URL; empty means search is unavailable
			RequestTimeout: 10 * time.Second,
			CatalogTTL:     5 * time.Minute,
			RateLimit:      5,
			MaxResults:     20,
		},
		Search: SearchConfig{
			DefaultRadiusMeters:   1500,
			MaxRadiusMeters:       8000,
			DistanceToleranceMult: 4,
			MinSafetyNetMeters:    8000,
			PersistResults:        true,
		},
		Ranking: RankingConfig{
			Enabled:        true,
			ReorderEnabled: false,
			MaxResults:     8,
			Timeout:        8 * time.Second,
		},
		Gemini: GeminiConfig{
			Model:       "gemini-3-flash-preview",
			Timeout:     "1m",
			Temperature: 0.3,
		},
		Claude: ClaudeConfig{
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   4096,
			Timeout:     "1m",
			Temperature: 0.3,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
			Enabled:         true,
		},
		Scheduler: SchedulerConfig{
			Enabled:        true,
			CatalogRefresh: "*/4 * * * *",
		},
		WebSocket: WebSocketConfig{
			AllowedEvents: []string{},
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files; later files override
// earlier ones. Priority: env > last file > ... > first file > defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks structural constraints on the loaded configuration
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TAVOLO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("TAVOLO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("TAVOLO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if badgerPath := os.Getenv("TAVOLO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	if level := os.Getenv("TAVOLO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("TAVOLO_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	if url := os.Getenv("TAVOLO_GATEWAY_URL"); url != "" {
		config.Gateway.URL = url
	}
	if key := os.Getenv("TAVOLO_GATEWAY_API_KEY"); key != "" {
		config.Gateway.APIKey = key
	}

	if provider := os.Getenv("TAVOLO_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = provider
	}
}

// ResolveAPIKey resolves an API key with priority: env var > KV store > config fallback.
// kvStorage can be nil (resolution falls straight through to the config value).
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key":    {"TAVOLO_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"anthropic_api_key": {"TAVOLO_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
		"gateway_api_key":   {"TAVOLO_GATEWAY_API_KEY"},
	}

	if envVarNames, hasMappedEnv := keyToEnvMapping[name]; hasMappedEnv {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if kvStorage != nil {
		apiKey, err := kvStorage.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key %q not found in environment, KV store, or config", name)
}
