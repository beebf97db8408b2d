package rules

import (
	"regexp"
	"strings"

	"funding-digest/internal/domain/entity"
)

const (
	scale    = `(?:[.,]\d+)?\s?(?:million|billion|bn|mn|m|k|miljoner|miljarder)?`
	currency = `(?:sek|eur|usd|gbp|nok|dkk|euros?|dollars?|kronor|mkr|msek)`
)

// amountPattern finds money amounts in three shapes: "$10M", "50 MSEK" and
// "SEK 50 million".
var amountPattern = regexp.MustCompile(`(?i)` +
	`[$€£]\s?\d+` + scale + `\b` +
	`|\b\d+` + scale + `\s?` + currency + `\b` +
	`|\b` + currency + `\s?\d+` + scale + `\b`)

// roundPattern finds the financing stage.
var roundPattern = regexp.MustCompile(`(?i)\b(pre-?seed|seed|series [a-f]|bridge|growth|angel)\b`)

// Enricher fills in the descriptive fields of a funding mention from its
// headline and summary.
type Enricher struct {
	matcher *Matcher
}

// NewEnricher returns an Enricher that tags and scores with matcher.
func NewEnricher(matcher *Matcher) *Enricher {
	return &Enricher{matcher: matcher}
}

// Enrich returns a copy of mention with Amount, RoundStage, DomainTags and
// Relevance set. The headline wins over the summary for amount and stage.
func (e *Enricher) Enrich(mention entity.FundingMention) entity.FundingMention {
	text := mention.Headline + " " + mention.Summary

	mention.Amount = firstMatch(amountPattern, mention.Headline, mention.Summary)
	mention.RoundStage = RoundStage(firstMatch(roundPattern, mention.Headline, mention.Summary))
	mention.DomainTags = e.matcher.DomainTags(text)
	mention.Relevance = e.matcher.Score(text)
	return mention
}

func firstMatch(re *regexp.Regexp, texts ...string) string {
	for _, text := range texts {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// RoundStage canonicalises a stage label: "series b" → "Series B",
// "preseed" → "Pre-seed". Unknown input is returned trimmed.
func RoundStage(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case lowered == "":
		return ""
	case lowered == "preseed" || lowered == "pre-seed":
		return "Pre-seed"
	case strings.HasPrefix(lowered, "series "):
		return "Series " + strings.ToUpper(strings.TrimPrefix(lowered, "series "))
	default:
		return strings.ToUpper(lowered[:1]) + lowered[1:]
	}
}
