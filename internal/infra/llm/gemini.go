package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"funding-digest/internal/domain/entity"
	"funding-digest/internal/observability/logging"
	"funding-digest/internal/resilience/circuitbreaker"
)

// Gemini implements Completer using Google's Gemini API.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	guard  guard
}

// NewGemini creates a Gemini completer. The caller must Close it.
func NewGemini(ctx context.Context, apiKey, model string, maxTokens int, opts ...option.ClientOption) (*Gemini, error) {
	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	gm := client.GenerativeModel(model)
	gm.SetMaxOutputTokens(int32(maxTokens))
	gm.SetTemperature(0)

	slog.Info("initialized gemini completer",
		slog.String("model", model),
		slog.Int("max_tokens", maxTokens))

	return &Gemini{
		client: client,
		model:  gm,
		guard:  newGuard("gemini", circuitbreaker.GeminiAPIConfig()),
	}, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// Name implements Completer.
func (g *Gemini) Name() string { return "gemini" }

// Complete implements Completer.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	return g.guard.call(ctx, func(ctx context.Context) (string, error) {
		return g.doComplete(ctx, prompt)
	})
}

func (g *Gemini) doComplete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	duration := time.Since(start)

	if err != nil {
		logging.FromContext(ctx).DebugContext(ctx, "gemini request failed",
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", g.mapError(err)
	}
	return g.answerText(resp)
}

// answerText returns the text parts of the first candidate.
func (g *Gemini) answerText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", g.guard.malformed("gemini returned no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", g.guard.malformed("gemini returned no text")
	}
	return strings.TrimSpace(b.String()), nil
}

// grpcHTTPStatus gives gRPC codes the HTTP status that retry understands.
var grpcHTTPStatus = map[codes.Code]int{
	codes.ResourceExhausted: 429,
	codes.DeadlineExceeded:  504,
	codes.Unavailable:       503,
	codes.Internal:          500,
	codes.Unknown:           500,
	codes.InvalidArgument:   400,
	codes.NotFound:          404,
	codes.PermissionDenied:  403,
	codes.Unauthenticated:   401,
}

func (g *Gemini) mapError(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return g.guard.fail(entity.ErrMalformedResponse, err)
	}
	if st, ok := status.FromError(err); ok {
		if code, known := grpcHTTPStatus[st.Code()]; known {
			return g.guard.statusError(code, err)
		}
	}
	return g.guard.transportError(err)
}
