package pipeline

import (
	"time"

	"funding-digest/internal/config"
	"funding-digest/internal/domain/entity"
)

// FilterStats counts why articles were rejected by the filter.
type FilterStats struct {
	Admitted   int
	TooOld     int
	NoKeyword  int
	Duplicates int
}

// Filter is the age and keyword pre-filter.
type Filter struct {
	maxAge     time.Duration
	requireGeo bool
	matcher    KeywordMatcher
}

// NewFilter creates a filter from the pipeline configuration.
func NewFilter(cfg config.PipelineConfig, matcher KeywordMatcher) *Filter {
	return &Filter{
		maxAge:     cfg.MaxAge(),
		requireGeo: cfg.RequireGeography,
		matcher:    matcher,
	}
}

// Apply returns the articles that are recent enough and match the keyword
// sets. An item an outlet delivered twice (same outlet, same URL) is kept
// once; the same headline from another outlet is kept so clustering can
// record both sources. Survivors keep their input order; the input slice is
// not modified.
func (f *Filter) Apply(articles []entity.RawArticle, now time.Time) []entity.RawArticle {
	kept, _ := f.ApplyWithStats(articles, now)
	return kept
}

// ApplyWithStats is Apply plus the rejection counts.
func (f *Filter) ApplyWithStats(articles []entity.RawArticle, now time.Time) ([]entity.RawArticle, FilterStats) {
	var stats FilterStats
	kept := make([]entity.RawArticle, 0, len(articles))
	seen := make(map[repeatKey]struct{}, len(articles))

	for _, a := range articles {
		if now.Sub(a.PublishedAt) > f.maxAge {
			stats.TooOld++
			continue
		}
		if !f.admits(a.Headline) {
			stats.NoKeyword++
			continue
		}

		if a.URL != "" {
			key := repeatKey{source: a.Source, url: a.URL}
			if _, dup := seen[key]; dup {
				stats.Duplicates++
				continue
			}
			seen[key] = struct{}{}
		}

		kept = append(kept, a)
	}

	stats.Admitted = len(kept)
	return kept, stats
}

func (f *Filter) admits(headline string) bool {
	geo := f.matcher.MatchesGeography(headline)
	funding := f.matcher.MatchesFunding(headline)
	if f.requireGeo {
		return geo && funding
	}
	return geo || funding
}

// repeatKey identifies one outlet's copy of an article.
type repeatKey struct {
	source string
	url    string
}
