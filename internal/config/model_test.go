package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadModelConfig_Defaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	cfg := LoadModelConfig(nil, nil)

	assert.Equal(t, ProviderClaude, cfg.Provider)
	assert.Equal(t, "sk-ant-test", cfg.APIKey())
	assert.Equal(t, "claude-haiku-4-5", cfg.ModelName())
	assert.Equal(t, 32, cfg.MaxTokens)
	assert.Equal(t, 120, cfg.RequestsPerMinute)
	assert.Equal(t, 4096, cfg.CacheSize)
}

func TestLoadModelConfig_ProviderSelection(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		want      Provider
		wantModel string
	}{
		{
			name:      "openai",
			env:       map[string]string{"MODEL_PROVIDER": "openai", "OPENAI_API_KEY": "sk-test", "OPENAI_MODEL": "gpt-4.1-mini"},
			want:      ProviderOpenAI,
			wantModel: "gpt-4.1-mini",
		},
		{
			name:      "gemini is case-insensitive",
			env:       map[string]string{"MODEL_PROVIDER": "Gemini", "GEMINI_API_KEY": "g-test"},
			want:      ProviderGemini,
			wantModel: "gemini-1.5-flash",
		},
		{
			name: "missing key degrades to none",
			env:  map[string]string{"MODEL_PROVIDER": "openai"},
			want: ProviderNone,
		},
		{
			name: "explicit none",
			env:  map[string]string{"MODEL_PROVIDER": "none", "ANTHROPIC_API_KEY": "sk-ant"},
			want: ProviderNone,
		},
		{
			name:      "unknown provider falls back to claude",
			env:       map[string]string{"MODEL_PROVIDER": "llama", "ANTHROPIC_API_KEY": "sk-ant"},
			want:      ProviderClaude,
			wantModel: "claude-haiku-4-5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := LoadModelConfig(nil, nil)

			assert.Equal(t, tt.want, cfg.Provider)
			assert.Equal(t, tt.wantModel, cfg.ModelName())
		})
	}
}

func TestLoadModelConfig_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("MODEL_MAX_TOKENS", "2")
	t.Setenv("MODEL_RPM", "-1")
	t.Setenv("MODEL_CACHE_SIZE", "big")

	cfg := LoadModelConfig(nil, nil)
	def := DefaultModelConfig()

	assert.Equal(t, def.MaxTokens, cfg.MaxTokens)
	assert.Equal(t, def.RequestsPerMinute, cfg.RequestsPerMinute)
	assert.Equal(t, def.CacheSize, cfg.CacheSize)
}
