// Package entity defines the core domain entities of the funding digest.
// It contains the article records that flow through the pipeline, the funding
// events produced by clustering, and the error taxonomy shared by every stage.
package entity

import "time"

// Strategy identifies which decision method produced a verdict or a name.
type Strategy string

const (
	// StrategyModel marks a result produced by the remote language model.
	StrategyModel Strategy = "model"
	// StrategyFallback marks a result produced by the deterministic rules.
	StrategyFallback Strategy = "fallback"
)

// String implements fmt.Stringer.
func (s Strategy) String() string {
	return string(s)
}

// RawArticle is a single article as supplied by a collector.
// It is treated as immutable once created.
type RawArticle struct {
	Headline    string
	Source      string
	URL         string
	PublishedAt time.Time

	// Summary is optional plain-text context (feed description).
	// Only the remote model and the relevance score read it.
	Summary string
}

// Validate checks the fields a collector must always populate.
func (a RawArticle) Validate() error {
	if a.Headline == "" {
		return &ValidationError{Field: "headline", Message: "headline is required"}
	}
	if a.Source == "" {
		return &ValidationError{Field: "source", Message: "source is required"}
	}
	if a.PublishedAt.IsZero() {
		return &ValidationError{Field: "published_at", Message: "publish time is required"}
	}
	return ValidateURL(a.URL)
}

// ClassifiedArticle is a filtered article with a funding verdict attached.
type ClassifiedArticle struct {
	RawArticle

	IsFundingEvent       bool
	ClassificationSource Strategy
}

// FundingMention is one article's coverage of a candidate funding event.
// An empty CompanyName means both extraction strategies failed.
type FundingMention struct {
	ClassifiedArticle

	CompanyName      string
	ExtractionSource Strategy

	Amount     string
	RoundStage string
	DomainTags []string
	Relevance  int
}

// HasCompany reports whether extraction produced a usable company name.
func (m FundingMention) HasCompany() bool {
	return m.CompanyName != ""
}
