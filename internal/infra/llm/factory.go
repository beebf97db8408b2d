package llm

import (
	"context"
	"fmt"

	"funding-digest/internal/config"
)

// Strategy holds the model strategies built from configuration.
// Both are nil when no provider is configured.
type Strategy struct {
	Classifier *Classifier
	Extractor  *Extractor
	Provider   string

	close func() error
}

// Enabled reports whether a model provider is configured.
func (s *Strategy) Enabled() bool {
	return s.Classifier != nil
}

// Close releases provider resources.
func (s *Strategy) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// NewStrategy builds the completer chain for cfg: provider client, then
// rate limit, then answer cache. Classifier and extractor share the chain.
func NewStrategy(ctx context.Context, cfg config.ModelConfig) (*Strategy, error) {
	var (
		base      Completer
		closeFunc func() error
	)

	switch cfg.Provider {
	case config.ProviderNone, "":
		return &Strategy{Provider: string(config.ProviderNone)}, nil
	case config.ProviderClaude:
		base = NewClaude(cfg.AnthropicAPIKey, cfg.ClaudeModel, cfg.MaxTokens)
	case config.ProviderOpenAI:
		base = NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.MaxTokens, "")
	case config.ProviderGemini:
		g, err := NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.MaxTokens)
		if err != nil {
			return nil, err
		}
		base, closeFunc = g, g.Close
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}

	completer, err := NewCached(NewRateLimited(base, cfg.RequestsPerMinute), cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Strategy{
		Classifier: NewClassifier(completer),
		Extractor:  NewExtractor(completer),
		Provider:   base.Name(),
		close:      closeFunc,
	}, nil
}
