// Package collector supplies raw articles from news feeds: Google News
// search queries and the RSS feeds of Swedish tech outlets.
package collector

import (
	"fmt"
	"net/url"
)

// Source describes one feed to collect.
type Source struct {
	// Name labels the source in logs and metrics, and is the article
	// source unless OutletInTitle applies.
	Name string
	URL  string

	// Limit is the number of feed items read; 0 reads all.
	Limit int

	// FundingOnly keeps only items whose headline or summary mentions
	// funding. General outlets need it; search queries are already narrow.
	FundingOnly bool

	// OutletInTitle marks feeds whose titles end in " - Outlet"
	// (Google News); the outlet becomes the article source.
	OutletInTitle bool
}

const googleNewsSearch = "https://news.google.com/rss/search"

// GoogleNewsQueries are the search queries collected every run.
var GoogleNewsQueries = []string{
	"Sweden startup funding",
	"Swedish startup raises million",
	"Stockholm startup investment round",
	"Sverige startup finansiering",
	"Nordic startup funding",
}

// GoogleNewsURL returns the RSS search URL for query, localised to Sweden.
func GoogleNewsURL(query string) string {
	q := url.Values{}
	q.Set("q", query)
	q.Set("hl", "en-SE")
	q.Set("gl", "SE")
	q.Set("ceid", "SE:en")
	return googleNewsSearch + "?" + q.Encode()
}

// DefaultSources returns the sources collected when none are configured.
func DefaultSources() []Source {
	sources := make([]Source, 0, len(GoogleNewsQueries)+2)
	for _, q := range GoogleNewsQueries {
		sources = append(sources, Source{
			Name:          "google-news: " + q,
			URL:           GoogleNewsURL(q),
			Limit:         15,
			OutletInTitle: true,
		})
	}
	return append(sources,
		Source{Name: "Breakit", URL: "https://www.breakit.se/feed/articles", Limit: 20, FundingOnly: true},
		Source{Name: "Dagens industri Digital", URL: "https://digital.di.se/rss", Limit: 20, FundingOnly: true},
	)
}

// FeedSource describes an operator-supplied feed URL, named by its host.
// Its items are not pre-filtered: the pipeline filter judges them.
func FeedSource(raw string) (Source, error) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Source{}, fmt.Errorf("invalid feed URL %q", raw)
	}
	return Source{Name: u.Host, URL: raw}, nil
}
