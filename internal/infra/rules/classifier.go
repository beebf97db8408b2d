package rules

import (
	"context"
	"regexp"

	"funding-digest/internal/domain/entity"
)

// fundingSignals are headline patterns that announce money coming in.
var fundingSignals = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(raise[sd]?|raising)\b`),
	regexp.MustCompile(`(?i)\bsecur(e|es|ed|ing)\b`),
	regexp.MustCompile(`(?i)\b(funding|financing)\b`),
	regexp.MustCompile(`(?i)\binvest(s|ed|ment|ments)?\b`),
	regexp.MustCompile(`(?i)\bseries [a-f]\b`),
	regexp.MustCompile(`(?i)\b(pre-?)?seed\b`),
	regexp.MustCompile(`(?i)\b(acquires?|takes?|buys?) (an? )?([a-z]+ )?stake\b`),
	regexp.MustCompile(`(?i)\bclos(e|es|ed|ing)\b.*\bround\b`),
	regexp.MustCompile(`(?i)\bbacked by\b`),
	regexp.MustCompile(`(?i)\b(lands|bags|nabs|snags)\b.*(\d|million|round)`),
	regexp.MustCompile(`(?i)\b(finansiering|investering|nyemission|kapitaltillskott)\b`),
	regexp.MustCompile(`(?i)\b(tar in|tog in|reser|har rest)\b`),
}

// disqualifiers veto a verdict even when a funding signal is present: money
// leaving a company, legal trouble, or an investor raising its own fund.
var disqualifiers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(bankrupt|bankruptcy|insolvency|konkurs)\b`),
	regexp.MustCompile(`(?i)\b(layoffs?|lays off|laid off|varsel|job cuts)\b`),
	regexp.MustCompile(`(?i)\bcuts? \d+ (jobs|staff|employees)\b`),
	regexp.MustCompile(`(?i)\b(lawsuit|sues|sued)\b`),
	regexp.MustCompile(`(?i)\b(withdraws?|postpones?|scraps?|cancels?|pulls?) (its |the )?ipo\b`),
	regexp.MustCompile(`(?i)\b(launch(es|ed)?|opens?) (an? )?(new )?([a-z0-9€$£.-]+ )?fund\b`),
	regexp.MustCompile(`(?i)\b(raises|closes|closed) (an? )?(new |first |second |third )?([a-z0-9€$£.-]+ )?(vc |venture )?fund( [iv]+)?\b`),
	regexp.MustCompile(`(?i)\b(shuts? down|winds? down|acquired by)\b`),
}

// IsFundingHeadline reports whether headline reads as a new funding round:
// at least one funding signal and no disqualifier.
func IsFundingHeadline(headline string) bool {
	for _, re := range disqualifiers {
		if re.MatchString(headline) {
			return false
		}
	}
	for _, re := range fundingSignals {
		if re.MatchString(headline) {
			return true
		}
	}
	return false
}

// Classifier is the rule-based funding classifier. It never fails.
type Classifier struct{}

// NewClassifier returns the rule-based classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify implements pipeline.Classifier.
func (c *Classifier) Classify(_ context.Context, article entity.RawArticle) (bool, error) {
	return IsFundingHeadline(article.Headline), nil
}
