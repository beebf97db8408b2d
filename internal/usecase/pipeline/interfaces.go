package pipeline

import (
	"context"

	"funding-digest/internal/domain/entity"
)

// Collector supplies the raw articles of one run.
type Collector interface {
	Collect(ctx context.Context) ([]entity.RawArticle, error)
}

// Classifier decides whether an article reports a new funding event.
type Classifier interface {
	Classify(ctx context.Context, article entity.RawArticle) (bool, error)
}

// Extractor names the company an article's funding event belongs to.
// An empty name must be reported as entity.ErrEmptyExtraction.
type Extractor interface {
	Extract(ctx context.Context, article entity.RawArticle) (string, error)
}

// KeywordMatcher answers the keyword questions the filter asks of a headline.
type KeywordMatcher interface {
	MatchesGeography(text string) bool
	MatchesFunding(text string) bool
}

// Enricher attaches amount, round stage, domain tags and relevance to a mention.
type Enricher interface {
	Enrich(mention entity.FundingMention) entity.FundingMention
}

// Publisher delivers a finished digest.
type Publisher interface {
	Publish(ctx context.Context, digest *entity.Digest) error
	Name() string
}

// Strategies pairs the model strategy of a stage with its fallback.
// Model may be nil, in which case the fallback answers every article.
type Strategies[T any] struct {
	Model    T
	Fallback T
}
