package pipeline_test

import (
	"strings"
	"testing"
	"time"

	"funding-digest/internal/config"
	"funding-digest/internal/domain/entity"
	"funding-digest/internal/infra/rules"
	"funding-digest/internal/usecase/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)

// stubMatcher matches lower-cased substrings.
type stubMatcher struct {
	geo     []string
	funding []string
}

func (m stubMatcher) MatchesGeography(text string) bool { return containsAny(text, m.geo) }
func (m stubMatcher) MatchesFunding(text string) bool   { return containsAny(text, m.funding) }

func containsAny(text string, words []string) bool {
	text = strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func article(headline, url string, age time.Duration) entity.RawArticle {
	return entity.RawArticle{
		Headline:    headline,
		Source:      "EU-Startups",
		URL:         url,
		PublishedAt: now.Add(-age),
	}
}

func newStubFilter(requireGeo bool) *pipeline.Filter {
	cfg := config.DefaultPipelineConfig()
	cfg.RequireGeography = requireGeo
	return pipeline.NewFilter(cfg, stubMatcher{
		geo:     []string{"swedish", "stockholm"},
		funding: []string{"raises", "funding"},
	})
}

func TestFilter_AgeWindow(t *testing.T) {
	f := newStubFilter(false)
	day := 24 * time.Hour

	tests := []struct {
		name string
		age  time.Duration
		want bool
	}{
		{name: "fresh", age: time.Hour, want: true},
		{name: "exactly at the window", age: 90 * day, want: true},
		{name: "one second past the window", age: 90*day + time.Second, want: false},
		{name: "a year old", age: 365 * day, want: false},
		{name: "dated in the future", age: -day, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Apply([]entity.RawArticle{article("Swedish startup raises money", "https://a.example/1", tt.age)}, now)
			assert.Equal(t, tt.want, len(got) == 1)
		})
	}
}

func TestFilter_KeywordAdmission(t *testing.T) {
	tests := []struct {
		name       string
		headline   string
		requireGeo bool
		want       bool
	}{
		{name: "geography only", headline: "Stockholm opens new office park", want: true},
		{name: "funding only", headline: "Berlin startup raises €2m", want: true},
		{name: "both", headline: "Swedish startup raises €2m", want: true},
		{name: "neither", headline: "Weather is nice today", want: false},
		{name: "case insensitive", headline: "STOCKHOLM STARTUP", want: true},
		{name: "require geography rejects funding only", headline: "Berlin startup raises €2m", requireGeo: true, want: false},
		{name: "require geography rejects geography only", headline: "Stockholm opens new office park", requireGeo: true, want: false},
		{name: "require geography admits both", headline: "Swedish startup raises €2m", requireGeo: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStubFilter(tt.requireGeo)
			got := f.Apply([]entity.RawArticle{article(tt.headline, "https://a.example/1", time.Hour)}, now)
			assert.Equal(t, tt.want, len(got) == 1)
		})
	}
}

func TestFilter_DropsSameOutletRepeats(t *testing.T) {
	f := newStubFilter(false)

	input := []entity.RawArticle{
		article("Swedish startup raises seed", "https://a.example/1", time.Hour),
		article("Swedish startup raises seed", "https://a.example/1", time.Hour), // fetched twice
		article("swedish STARTUP raises seed", "https://b.example/2", time.Hour),
		article("Stockholm fintech raises funding", "", time.Hour),
		article("Stockholm fintech raises funding", "", time.Hour), // no URL, never collapsed
	}
	other := article("Swedish startup raises seed", "https://a.example/1", time.Hour)
	other.Source = "Sifted"
	input = append(input, other)

	kept, stats := f.ApplyWithStats(input, now)

	require.Len(t, kept, 5)
	assert.Equal(t, []string{"https://a.example/1", "https://b.example/2", "", "", "https://a.example/1"},
		[]string{kept[0].URL, kept[1].URL, kept[2].URL, kept[3].URL, kept[4].URL})
	assert.Equal(t, "Sifted", kept[4].Source)
	assert.Equal(t, pipeline.FilterStats{Admitted: 5, Duplicates: 1}, stats)
}

func TestFilter_SyndicatedHeadlineKeepsEveryOutlet(t *testing.T) {
	f := pipeline.NewFilter(config.DefaultPipelineConfig(), rules.NewMatcher(config.DefaultKeywordSets()))
	headline := "Stockholm fintech Klarna raises $10M seed round"

	euStartups := article(headline, "https://eu-startups.example/klarna", 8*time.Hour)
	sifted := article(headline, "https://sifted.example/klarna", 4*time.Hour)
	sifted.Source = "Sifted"

	kept := f.Apply([]entity.RawArticle{euStartups, sifted}, now)
	require.Len(t, kept, 2)

	mentions := make([]entity.FundingMention, 0, len(kept))
	for _, a := range kept {
		mentions = append(mentions, entity.FundingMention{
			ClassifiedArticle: entity.ClassifiedArticle{RawArticle: a, IsFundingEvent: true},
			CompanyName:       "Klarna",
		})
	}

	events := pipeline.Cluster(mentions, 14*24*time.Hour)
	require.Len(t, events, 1)
	assert.Equal(t, []string{"EU-Startups", "Sifted"}, events[0].Sources)
	assert.Equal(t, 2, events[0].Mentions)
}

func TestFilter_RejectedArticlesDoNotShadowLaterOnes(t *testing.T) {
	f := newStubFilter(false)
	input := []entity.RawArticle{
		article("Swedish startup raises seed", "https://a.example/1", 400*24*time.Hour),
		article("Swedish startup raises seed", "https://a.example/1", time.Hour),
	}

	kept, stats := f.ApplyWithStats(input, now)
	require.Len(t, kept, 1)
	assert.Equal(t, now.Add(-time.Hour), kept[0].PublishedAt)
	assert.Equal(t, 1, stats.TooOld)
	assert.Zero(t, stats.Duplicates)
}

func TestFilter_PreservesOrderAndInput(t *testing.T) {
	f := newStubFilter(false)
	input := []entity.RawArticle{
		article("Stockholm startup C raises", "https://a.example/c", time.Hour),
		article("Unrelated", "https://a.example/x", time.Hour),
		article("Stockholm startup A raises", "https://a.example/a", 3*time.Hour),
		article("Stockholm startup B raises", "https://a.example/b", 2*time.Hour),
	}
	snapshot := append([]entity.RawArticle(nil), input...)

	kept := f.Apply(input, now)

	require.Len(t, kept, 3)
	assert.Equal(t, []string{"https://a.example/c", "https://a.example/a", "https://a.example/b"},
		[]string{kept[0].URL, kept[1].URL, kept[2].URL})
	assert.Equal(t, snapshot, input, "input must not be modified")
}

func TestFilter_EmptyInput(t *testing.T) {
	f := newStubFilter(false)
	kept := f.Apply(nil, now)
	assert.NotNil(t, kept)
	assert.Empty(t, kept)
}

func TestFilter_WithKeywordMatcher(t *testing.T) {
	f := pipeline.NewFilter(config.DefaultPipelineConfig(), rules.NewMatcher(config.DefaultKeywordSets()))

	kept := f.Apply([]entity.RawArticle{
		article("Stockholm fintech Klarna raises $10M seed round", "https://a.example/1", time.Hour),
		article("He said the weather was fine", "https://a.example/2", time.Hour),
	}, now)

	require.Len(t, kept, 1)
	assert.Equal(t, "https://a.example/1", kept[0].URL)
}
