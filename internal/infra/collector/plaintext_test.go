package collector

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"funding-digest/internal/utils/text"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "   ", want: ""},
		{name: "plain with entities", raw: "Saltx &amp; partners  raise\nSEK 20m", want: "Saltx & partners raise SEK 20m"},
		{name: "paragraphs", raw: "<p>First</p><p>Second</p>", want: "First Second"},
		{name: "scripts dropped", raw: `<div>Body<script>alert(1)</script><style>p{}</style></div>`, want: "Body"},
		{name: "line breaks", raw: "one<br>two", want: "one two"},
		{name: "inline markup", raw: `<a href="https://x.se">Northvolt</a> gets <b>funding</b>`, want: "Northvolt gets funding"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plainText(tt.raw))
		})
	}
}

func TestPlainText_Truncates(t *testing.T) {
	raw := "<p>" + strings.Repeat("word ", 200) + "</p>"
	got := plainText(raw)
	assert.LessOrEqual(t, text.CountRunes(got), summaryRunes)
	assert.True(t, strings.HasSuffix(got, text.Ellipsis))
}

func TestCleanHeadline(t *testing.T) {
	assert.Equal(t, "Voi raises SEK 50 million", cleanHeadline("Voi raises <em>SEK 50 million</em>"))
	assert.Equal(t, "Bolt & Co closes round", cleanHeadline("Bolt &amp; Co  closes round"))
	assert.Equal(t, "Plain title", cleanHeadline(" Plain title "))
}

func TestGoogleNewsURL(t *testing.T) {
	raw := GoogleNewsURL("Sweden startup funding")

	u, err := url.Parse(raw)
	assert.NoError(t, err)
	assert.Equal(t, "news.google.com", u.Host)
	assert.Equal(t, "/rss/search", u.Path)
	assert.Equal(t, "Sweden startup funding", u.Query().Get("q"))
	assert.Equal(t, "SE", u.Query().Get("gl"))
	assert.Equal(t, "SE:en", u.Query().Get("ceid"))
}

func TestDefaultSources(t *testing.T) {
	sources := DefaultSources()
	for _, s := range sources {
		assert.NotEmpty(t, s.Name)
		assert.True(t, strings.HasPrefix(s.URL, "https://"), s.URL)
		if strings.HasPrefix(s.Name, "google-news") {
			assert.True(t, s.OutletInTitle)
			assert.False(t, s.FundingOnly)
		} else {
			assert.True(t, s.FundingOnly)
		}
	}
}

func TestFeedSource(t *testing.T) {
	s, err := FeedSource("https://news.example.se/feed.xml")
	assert.NoError(t, err)
	assert.Equal(t, Source{Name: "news.example.se", URL: "https://news.example.se/feed.xml"}, s)

	for _, raw := range []string{"", "news.example.se/feed", "ftp://news.example.se/feed", "https://"} {
		_, err := FeedSource(raw)
		assert.Error(t, err, raw)
	}
}
