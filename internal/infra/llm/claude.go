package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"

	"funding-digest/internal/observability/logging"
	"funding-digest/internal/resilience/circuitbreaker"
)

// Claude implements Completer using Anthropic's Messages API.
type Claude struct {
	client    anthropic.Client
	model     string
	maxTokens int
	guard     guard
}

// NewClaude creates a Claude completer. Extra options (for example
// option.WithBaseURL) are applied after the API key. The SDK's own retries
// are disabled; the completer retries through its guard.
func NewClaude(apiKey, model string, maxTokens int, opts ...option.RequestOption) *Claude {
	base := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}

	slog.Info("initialized claude completer",
		slog.String("model", model),
		slog.Int("max_tokens", maxTokens))

	return &Claude{
		client:    anthropic.NewClient(append(base, opts...)...),
		model:     model,
		maxTokens: maxTokens,
		guard:     newGuard("claude", circuitbreaker.ClaudeAPIConfig()),
	}
}

// Name implements Completer.
func (c *Claude) Name() string { return "claude" }

// Complete implements Completer.
func (c *Claude) Complete(ctx context.Context, prompt string) (string, error) {
	return c.guard.call(ctx, func(ctx context.Context) (string, error) {
		return c.doComplete(ctx, prompt)
	})
}

// doComplete performs the API call without retry or circuit breaker.
func (c *Claude) doComplete(ctx context.Context, prompt string) (string, error) {
	requestID := uuid.New().String()
	logger := logging.FromContext(ctx)
	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	duration := time.Since(start)

	if err != nil {
		logger.DebugContext(ctx, "claude request failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))

		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", c.guard.statusError(apiErr.StatusCode, err)
		}
		return "", c.guard.transportError(err)
	}

	if len(message.Content) == 0 {
		return "", c.guard.malformed("claude returned no content")
	}
	block, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", c.guard.malformed("claude returned %s block", message.Content[0].Type)
	}

	logger.DebugContext(ctx, "claude request completed",
		slog.String("request_id", requestID),
		slog.Duration("duration", duration))
	return strings.TrimSpace(block.Text), nil
}
