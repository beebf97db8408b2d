package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"funding-digest/internal/domain/entity"
	"funding-digest/internal/observability/metrics"
	"funding-digest/internal/utils/text"
)

const (
	// maxNameRunes and maxNameWords reject answers that are sentences
	// rather than names.
	maxNameRunes = 80
	maxNameWords = 8
)

// unknownAnswers mean the model found no company.
var unknownAnswers = map[string]struct{}{
	"unknown": {}, "none": {}, "n/a": {}, "na": {}, "no company": {},
}

// Extractor asks a language model for the company an article is about.
type Extractor struct {
	completer Completer
}

// NewExtractor creates a model extractor over completer.
func NewExtractor(completer Completer) *Extractor {
	return &Extractor{completer: completer}
}

// Extract returns the company name from the model's answer. An UNKNOWN
// answer is entity.ErrEmptyExtraction; a rambling one is
// entity.ErrMalformedResponse.
func (e *Extractor) Extract(ctx context.Context, article entity.RawArticle) (string, error) {
	prompt, err := render(extractTemplate, article)
	if err != nil {
		return "", fmt.Errorf("render extract prompt: %w", err)
	}

	start := time.Now()
	answer, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		metrics.RecordModelCall(e.completer.Name(), "extract", entity.FailureReason(err), time.Since(start))
		return "", err
	}

	name, err := parseName(answer)
	if err != nil {
		err = &entity.ModelError{Provider: e.completer.Name(), Op: "extract", Err: entity.ErrMalformedResponse, Cause: err}
		metrics.RecordModelCall(e.completer.Name(), "extract", entity.FailureReason(err), time.Since(start))
		return "", err
	}
	metrics.RecordModelCall(e.completer.Name(), "extract", "none", time.Since(start))

	if name == "" {
		return "", entity.ErrEmptyExtraction
	}
	return name, nil
}

// parseName takes the first line of answer, drops a "Company:" label and
// normalises the name. It returns "" for an UNKNOWN answer.
func parseName(answer string) (string, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(answer), "\n")
	if label, rest, ok := strings.Cut(line, ":"); ok && strings.EqualFold(strings.TrimSpace(label), "company") {
		line = rest
	}

	name := entity.NormalizeCompanyName(line)
	if _, ok := unknownAnswers[strings.ToLower(name)]; ok || name == "" {
		return "", nil
	}
	if text.CountRunes(name) > maxNameRunes || len(strings.Fields(name)) > maxNameWords {
		return "", fmt.Errorf("answer is not a name: %q", text.Truncate(name, 40))
	}
	return name, nil
}
