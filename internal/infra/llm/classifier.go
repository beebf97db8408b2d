package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"funding-digest/internal/domain/entity"
	"funding-digest/internal/observability/metrics"
)

// Classifier asks a language model whether an article reports a funding event.
type Classifier struct {
	completer Completer
}

// NewClassifier creates a model classifier over completer.
func NewClassifier(completer Completer) *Classifier {
	return &Classifier{completer: completer}
}

// Classify returns the model's YES/NO verdict. Any other answer is
// reported as entity.ErrMalformedResponse.
func (c *Classifier) Classify(ctx context.Context, article entity.RawArticle) (bool, error) {
	prompt, err := render(classifyTemplate, article)
	if err != nil {
		return false, fmt.Errorf("render classify prompt: %w", err)
	}

	start := time.Now()
	answer, err := c.completer.Complete(ctx, prompt)
	if err == nil {
		var verdict bool
		verdict, err = parseVerdict(answer)
		if err == nil {
			metrics.RecordModelCall(c.completer.Name(), "classify", "none", time.Since(start))
			return verdict, nil
		}
		err = &entity.ModelError{Provider: c.completer.Name(), Op: "classify", Err: entity.ErrMalformedResponse, Cause: err}
	}

	metrics.RecordModelCall(c.completer.Name(), "classify", entity.FailureReason(err), time.Since(start))
	return false, err
}

// parseVerdict reads the first word of answer as YES or NO.
func parseVerdict(answer string) (bool, error) {
	fields := strings.FieldsFunc(answer, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(fields) == 0 {
		return false, fmt.Errorf("empty answer")
	}
	switch strings.ToUpper(fields[0]) {
	case "YES", "JA":
		return true, nil
	case "NO", "NEJ":
		return false, nil
	}
	return false, fmt.Errorf("unexpected answer %q", answer)
}
