package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"funding-digest/internal/domain/entity"
	"funding-digest/internal/observability/logging"
	"funding-digest/internal/observability/metrics"
)

// Feed is a single named article source.
type Feed interface {
	Name() string
	Collect(ctx context.Context) ([]entity.RawArticle, error)
}

// Aggregator collects every feed concurrently and concatenates the results
// in feed order. It satisfies pipeline.Collector.
type Aggregator struct {
	feeds       []Feed
	parallelism int
}

// NewAggregator creates an aggregator over feeds. parallelism <= 0 means
// one goroutine per feed.
func NewAggregator(parallelism int, feeds ...Feed) *Aggregator {
	return &Aggregator{feeds: feeds, parallelism: parallelism}
}

// Collect runs every feed. A failing feed is logged and skipped; an error is
// returned only when no feed succeeded.
func (a *Aggregator) Collect(ctx context.Context) ([]entity.RawArticle, error) {
	if len(a.feeds) == 0 {
		return nil, nil
	}

	logger := logging.FromContext(ctx)
	results := make([][]entity.RawArticle, len(a.feeds))
	errs := make([]error, len(a.feeds))

	eg, egCtx := errgroup.WithContext(ctx)
	if a.parallelism > 0 {
		eg.SetLimit(a.parallelism)
	}
	for i, feed := range a.feeds {
		i, feed := i, feed
		eg.Go(func() error {
			start := time.Now()
			articles, err := feed.Collect(egCtx)
			if err != nil {
				metrics.RecordCollectorError(feed.Name())
				logger.Warn("feed collection failed",
					slog.String("feed", feed.Name()),
					slog.Duration("duration", time.Since(start)),
					slog.Any("error", err))
				errs[i] = fmt.Errorf("%s: %w", feed.Name(), err)
				return nil
			}
			metrics.RecordArticlesCollected(feed.Name(), len(articles))
			logger.Info("feed collected",
				slog.String("feed", feed.Name()),
				slog.Int("articles", len(articles)),
				slog.Duration("duration", time.Since(start)))
			results[i] = articles
			return nil
		})
	}
	_ = eg.Wait()

	failed := 0
	var out []entity.RawArticle
	for i := range a.feeds {
		if errs[i] != nil {
			failed++
			continue
		}
		out = append(out, results[i]...)
	}

	if failed == len(a.feeds) {
		return nil, errors.Join(entity.ErrCollectorFailure, errors.Join(errs...))
	}
	return out, nil
}

// NewRSSFeeds builds one RSS collector per source, sharing client.
func NewRSSFeeds(sources []Source, client *http.Client, matcher FundingMatcher) []Feed {
	feeds := make([]Feed, 0, len(sources))
	for _, s := range sources {
		feeds = append(feeds, NewRSSCollector(s, client, matcher))
	}
	return feeds
}
