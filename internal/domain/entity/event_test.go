package entity

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanySearchLink(t *testing.T) {
	link := CompanySearchLink("Acme AB")

	assert.True(t, strings.HasPrefix(link, "https://www.linkedin.com/search/results/companies/?"))
	assert.Contains(t, link, "keywords=Acme+AB")
	assert.NotContains(t, link, "Acme AB")

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Acme AB", parsed.Query().Get("keywords"))
}

func TestCompanySearchLink_Deterministic(t *testing.T) {
	assert.Equal(t, CompanySearchLink("Acme AB"), CompanySearchLink("Acme AB"))
	assert.NotEqual(t, CompanySearchLink("Acme AB"), CompanySearchLink("Acme"))
}

func TestCompanySearchLink_EncodesSpecialCharacters(t *testing.T) {
	link := CompanySearchLink("Mölnlycke & Co")

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Mölnlycke & Co", parsed.Query().Get("keywords"))
	assert.NotContains(t, link, "&Co")
}

func TestFundingEvent_SearchLink(t *testing.T) {
	event := FundingEvent{CompanyName: "Klarna", EarliestDate: time.Now(), Mentions: 1}
	assert.Equal(t, CompanySearchLink("Klarna"), event.SearchLink())
}

func TestRawArticle_Validate(t *testing.T) {
	valid := RawArticle{
		Headline:    "Stockholm fintech Klarna raises $10M seed round",
		Source:      "Breakit",
		URL:         "https://www.breakit.se/artikel/1",
		PublishedAt: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(a *RawArticle)
		field  string
	}{
		{"missing headline", func(a *RawArticle) { a.Headline = "" }, "headline"},
		{"missing source", func(a *RawArticle) { a.Source = "" }, "source"},
		{"missing time", func(a *RawArticle) { a.PublishedAt = time.Time{} }, "published_at"},
		{"missing url", func(a *RawArticle) { a.URL = "" }, "url"},
		{"bad scheme", func(a *RawArticle) { a.URL = "ftp://example.com/a" }, "url"},
		{"no host", func(a *RawArticle) { a.URL = "https:///path" }, "url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			tt.mutate(&a)

			err := a.Validate()
			require.Error(t, err)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestValidateURL_TooLong(t *testing.T) {
	err := ValidateURL("https://example.com/" + strings.Repeat("a", maxURLLength))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "must not exceed")
}

func TestFundingMention_HasCompany(t *testing.T) {
	assert.False(t, FundingMention{}.HasCompany())
	assert.True(t, FundingMention{CompanyName: "Voi"}.HasCompany())
}
