package collector

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"funding-digest/internal/domain/entity"
	"funding-digest/internal/observability/logging"
	"funding-digest/internal/resilience/circuitbreaker"
	"funding-digest/internal/resilience/retry"
)

const userAgent = "FundingDigestBot/1.0"

// FundingMatcher decides whether text mentions funding.
type FundingMatcher interface {
	MatchesFunding(text string) bool
}

// RSSCollector collects one RSS/Atom feed.
// It includes circuit breaker and retry logic for improved reliability.
type RSSCollector struct {
	source         Source
	client         *http.Client
	matcher        FundingMatcher
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	now            func() time.Time
}

// NewRSSCollector creates a collector for source. matcher is only used
// when source.FundingOnly is set.
func NewRSSCollector(source Source, client *http.Client, matcher FundingMatcher) *RSSCollector {
	return &RSSCollector{
		source:         source,
		client:         client,
		matcher:        matcher,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig(source.Name)),
		retryConfig:    retry.FeedFetchConfig(),
		now:            time.Now,
	}
}

// Name returns the source name.
func (c *RSSCollector) Name() string {
	return c.source.Name
}

// Collect fetches the feed and converts its items into raw articles.
func (c *RSSCollector) Collect(ctx context.Context) ([]entity.RawArticle, error) {
	var feed *gofeed.Feed

	err := retry.WithBackoff(ctx, c.retryConfig, func() error {
		result, err := circuitbreaker.Call(c.circuitBreaker, func() (*gofeed.Feed, error) {
			return c.fetch(ctx)
		})
		if err != nil {
			if circuitbreaker.IsRejection(err) {
				logging.FromContext(ctx).Warn("feed circuit breaker open, request rejected",
					slog.String("source", c.source.Name),
					slog.String("state", c.circuitBreaker.State().String()))
			}
			return err
		}
		feed = result
		return nil
	})
	if err != nil {
		return nil, errors.Join(entity.ErrCollectorFailure, err)
	}

	return c.articles(ctx, feed), nil
}

// fetch performs the HTTP request and parse without retry or circuit breaker.
func (c *RSSCollector) fetch(ctx context.Context) (*gofeed.Feed, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = userAgent
	fp.Client = c.client

	feed, err := fp.ParseURLWithContext(c.source.URL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &retry.HTTPError{StatusCode: httpErr.StatusCode, Message: httpErr.Status}
		}
		return nil, err
	}
	return feed, nil
}

func (c *RSSCollector) articles(ctx context.Context, feed *gofeed.Feed) []entity.RawArticle {
	logger := logging.FromContext(ctx)
	fetchedAt := c.now()

	items := feed.Items
	if c.source.Limit > 0 && len(items) > c.source.Limit {
		items = items[:c.source.Limit]
	}

	out := make([]entity.RawArticle, 0, len(items))
	for _, it := range items {
		a := entity.RawArticle{
			Headline: cleanHeadline(it.Title),
			Source:   c.source.Name,
			URL:      strings.TrimSpace(it.Link),
			Summary:  plainText(firstNonEmpty(it.Description, it.Content)),
		}

		switch {
		case it.PublishedParsed != nil:
			a.PublishedAt = *it.PublishedParsed
		case it.UpdatedParsed != nil:
			a.PublishedAt = *it.UpdatedParsed
		default:
			// Undated items count as published when fetched and so always
			// pass the age window.
			a.PublishedAt = fetchedAt
		}

		if c.source.OutletInTitle {
			if headline, outlet, ok := splitOutlet(a.Headline); ok {
				a.Headline, a.Source = headline, outlet
			}
		}

		if c.source.FundingOnly && c.matcher != nil && !c.matcher.MatchesFunding(a.Headline+" "+a.Summary) {
			continue
		}

		if err := a.Validate(); err != nil {
			logger.Debug("skipping invalid feed item",
				slog.String("source", c.source.Name),
				slog.String("link", it.Link),
				slog.Any("error", err))
			continue
		}
		out = append(out, a)
	}
	return out
}

// splitOutlet splits "Headline - Outlet" at the last separator.
func splitOutlet(title string) (headline, outlet string, ok bool) {
	i := strings.LastIndex(title, " - ")
	if i <= 0 {
		return title, "", false
	}
	headline = strings.TrimSpace(title[:i])
	outlet = strings.TrimSpace(title[i+3:])
	if headline == "" || outlet == "" {
		return title, "", false
	}
	return headline, outlet, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
