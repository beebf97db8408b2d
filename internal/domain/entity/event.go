package entity

import (
	"net/url"
	"time"
)

// companySearchBase is the professional-network company search endpoint
// that report rows link to.
const companySearchBase = "https://www.linkedin.com/search/results/companies/"

// FundingEvent is a deduplicated funding event, the unit a report renders.
type FundingEvent struct {
	CompanyName string
	Amount      string
	RoundStage  string
	DomainTags  []string

	// Headline and URL belong to the most informative member mention.
	Headline string
	URL      string

	// Sources is the sorted set of outlets that covered the event.
	Sources      []string
	EarliestDate time.Time

	// Mentions is the number of articles merged into the event (always >= 1).
	Mentions  int
	Relevance int
}

// SearchLink returns the company search URL for the event's company.
func (e FundingEvent) SearchLink() string {
	return CompanySearchLink(e.CompanyName)
}

// CompanySearchLink builds a company search URL with the name URL-encoded
// as the keywords query parameter. It performs no I/O.
func CompanySearchLink(companyName string) string {
	q := url.Values{}
	q.Set("keywords", companyName)
	return companySearchBase + "?" + q.Encode()
}

// RunStats summarises a single pipeline run. Stage counts are survivors:
// Filtered articles passed the filter, Funding articles were classified as
// funding events.
type RunStats struct {
	Collected  int
	Duplicates int
	Filtered   int
	Funding    int

	// Which strategy produced each verdict and each company name.
	ModelVerdicts    int
	FallbackVerdicts int
	ModelNames       int
	FallbackNames    int
	UnknownNames     int

	Events   int
	Duration time.Duration
}

// Digest is the output of one pipeline run.
type Digest struct {
	RunID       string
	GeneratedAt time.Time
	Events      []FundingEvent
	Stats       RunStats
}
