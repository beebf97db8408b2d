package config

import (
	"log/slog"
	"strings"

	pkgconfig "funding-digest/internal/pkg/config"
)

// Provider names a remote language model backend.
type Provider string

// Supported providers. ProviderNone runs every stage on its fallback strategy.
const (
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderNone   Provider = "none"
)

// ModelConfig selects and configures the remote model strategy.
type ModelConfig struct {
	Provider Provider

	AnthropicAPIKey string
	OpenAIAPIKey    string
	GeminiAPIKey    string

	ClaudeModel string
	OpenAIModel string
	GeminiModel string

	// MaxTokens bounds the model answer. Verdicts and names are short.
	MaxTokens int

	// RequestsPerMinute throttles model calls across all workers; 0 disables.
	RequestsPerMinute int

	// CacheSize is the number of answers kept between runs; 0 disables.
	// Articles stay in the age window for weeks, so consecutive daily runs
	// see mostly the same headlines.
	CacheSize int
}

// DefaultModelConfig returns the defaults used when nothing is configured.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Provider:          ProviderClaude,
		ClaudeModel:       "claude-haiku-4-5",
		OpenAIModel:       "gpt-4o-mini",
		GeminiModel:       "gemini-1.5-flash",
		MaxTokens:         32,
		RequestsPerMinute: 120,
		CacheSize:         4096,
	}
}

// APIKey returns the key of the selected provider.
func (c ModelConfig) APIKey() string {
	switch c.Provider {
	case ProviderClaude:
		return c.AnthropicAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderGemini:
		return c.GeminiAPIKey
	default:
		return ""
	}
}

// ModelName returns the model identifier of the selected provider.
func (c ModelConfig) ModelName() string {
	switch c.Provider {
	case ProviderClaude:
		return c.ClaudeModel
	case ProviderOpenAI:
		return c.OpenAIModel
	case ProviderGemini:
		return c.GeminiModel
	default:
		return ""
	}
}

// LoadModelConfig reads the model configuration from the environment.
//
//	MODEL_PROVIDER         claude | openai | gemini | none (default claude)
//	ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY
//	CLAUDE_MODEL, OPENAI_MODEL, GEMINI_MODEL
//	MODEL_MAX_TOKENS       (default 32)
//	MODEL_RPM              (default 120, 0 = unthrottled)
//	MODEL_CACHE_SIZE       (default 4096, 0 = no cache)
//
// A selected provider without an API key degrades to ProviderNone with a
// warning: the digest still runs on the rule-based strategies.
func LoadModelConfig(logger *slog.Logger, metrics *pkgconfig.ConfigMetrics) ModelConfig {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := DefaultModelConfig()
	tracker := pkgconfig.NewTracker(logger)

	provider := pkgconfig.Track(tracker, "model_provider",
		pkgconfig.LoadEnvWithFallback("MODEL_PROVIDER", string(cfg.Provider),
			pkgconfig.OneOf(string(ProviderClaude), string(ProviderOpenAI), string(ProviderGemini), string(ProviderNone))))
	cfg.Provider = Provider(strings.ToLower(provider))

	cfg.AnthropicAPIKey = pkgconfig.LoadEnvString("ANTHROPIC_API_KEY", "")
	cfg.OpenAIAPIKey = pkgconfig.LoadEnvString("OPENAI_API_KEY", "")
	cfg.GeminiAPIKey = pkgconfig.LoadEnvString("GEMINI_API_KEY", "")

	cfg.ClaudeModel = pkgconfig.LoadEnvString("CLAUDE_MODEL", cfg.ClaudeModel)
	cfg.OpenAIModel = pkgconfig.LoadEnvString("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.GeminiModel = pkgconfig.LoadEnvString("GEMINI_MODEL", cfg.GeminiModel)

	cfg.MaxTokens = pkgconfig.Track(tracker, "model_max_tokens",
		pkgconfig.LoadEnvInt("MODEL_MAX_TOKENS", cfg.MaxTokens, func(v int) error {
			return pkgconfig.ValidateIntRange(v, 8, 1024)
		}))
	cfg.RequestsPerMinute = pkgconfig.Track(tracker, "model_rpm",
		pkgconfig.LoadEnvInt("MODEL_RPM", cfg.RequestsPerMinute, func(v int) error {
			return pkgconfig.ValidateIntRange(v, 0, 100000)
		}))
	cfg.CacheSize = pkgconfig.Track(tracker, "model_cache_size",
		pkgconfig.LoadEnvInt("MODEL_CACHE_SIZE", cfg.CacheSize, func(v int) error {
			return pkgconfig.ValidateIntRange(v, 0, 1000000)
		}))

	tracker.Report(metrics)

	if cfg.Provider != ProviderNone && cfg.APIKey() == "" {
		logger.Warn("model provider has no API key, using rule-based strategies only",
			slog.String("provider", string(cfg.Provider)))
		cfg.Provider = ProviderNone
	}

	return cfg
}
