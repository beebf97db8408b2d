package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"funding-digest/internal/observability/logging"
	"funding-digest/internal/resilience/circuitbreaker"
)

// OpenAI implements Completer using OpenAI's chat completions API.
type OpenAI struct {
	client    *openai.Client
	model     string
	maxTokens int
	guard     guard
}

// NewOpenAI creates an OpenAI completer. An empty baseURL keeps the
// public endpoint.
func NewOpenAI(apiKey, model string, maxTokens int, baseURL string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	slog.Info("initialized openai completer",
		slog.String("model", model),
		slog.Int("max_tokens", maxTokens))

	return &OpenAI{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
		guard:     newGuard("openai", circuitbreaker.OpenAIAPIConfig()),
	}
}

// Name implements Completer.
func (o *OpenAI) Name() string { return "openai" }

// Complete implements Completer.
func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	return o.guard.call(ctx, func(ctx context.Context) (string, error) {
		return o.doComplete(ctx, prompt)
	})
}

func (o *OpenAI) doComplete(ctx context.Context, prompt string) (string, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})
	duration := time.Since(start)

	if err != nil {
		logger.DebugContext(ctx, "openai request failed",
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))

		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
			return "", o.guard.statusError(apiErr.HTTPStatusCode, err)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
			return "", o.guard.statusError(reqErr.HTTPStatusCode, err)
		}
		return "", o.guard.transportError(err)
	}

	if len(resp.Choices) == 0 {
		return "", o.guard.malformed("openai returned no choices")
	}

	logger.DebugContext(ctx, "openai request completed",
		slog.Duration("duration", duration),
		slog.Int("total_tokens", resp.Usage.TotalTokens))
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
