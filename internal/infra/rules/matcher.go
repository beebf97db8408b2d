// Package rules implements the deterministic side of every dual-strategy
// stage: keyword matching for the filter, regex classification, leading-token
// company extraction, and the enrichment of mentions with amount, round stage,
// domain tags and relevance. Everything here is pure: the same headline always
// produces the same result.
package rules

import (
	"regexp"
	"slices"
	"strings"

	"funding-digest/internal/config"
)

// shortKeywordLen is the longest keyword that must match as a whole word, so
// that "ai" does not hit "said" and "ml" does not hit "html".
const shortKeywordLen = 3

// Word edges are Unicode-aware so keywords such as "örebro" anchor correctly.
const (
	wordStart = `(?:^|[^\p{L}\p{N}])`
	wordEnd   = `(?:$|[^\p{L}\p{N}])`
)

// keywordSet matches a list of keywords against lower-cased text.
// Phrases match as substrings, short keywords as whole words, and every
// other single word at the start of a word: "raise" hits "raises" but
// "tech" does not hit "fintech".
type keywordSet struct {
	keywords []string
	words    map[string]*regexp.Regexp
}

func newKeywordSet(keywords []string) keywordSet {
	set := keywordSet{words: make(map[string]*regexp.Regexp)}
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || slices.Contains(set.keywords, k) {
			continue
		}
		set.keywords = append(set.keywords, k)
		if strings.Contains(k, " ") {
			continue
		}
		pattern := wordStart + regexp.QuoteMeta(k)
		if len([]rune(k)) <= shortKeywordLen {
			pattern += wordEnd
		}
		set.words[k] = regexp.MustCompile(pattern)
	}
	return set
}

func (s keywordSet) matches(lowered, k string) bool {
	if re, ok := s.words[k]; ok {
		return re.MatchString(lowered)
	}
	return strings.Contains(lowered, k)
}

// matchAny reports whether lowered contains at least one keyword.
func (s keywordSet) matchAny(lowered string) bool {
	for _, k := range s.keywords {
		if s.matches(lowered, k) {
			return true
		}
	}
	return false
}

// hits returns the keywords found in lowered, in configuration order.
func (s keywordSet) hits(lowered string) []string {
	var found []string
	for _, k := range s.keywords {
		if s.matches(lowered, k) {
			found = append(found, k)
		}
	}
	return found
}

// Matcher checks text against the configured keyword sets. It is safe for
// concurrent use.
type Matcher struct {
	geography keywordSet
	funding   keywordSet
	domain    keywordSet
}

// NewMatcher compiles the keyword sets. Keywords are case-folded and
// deduplicated; blank entries are ignored.
func NewMatcher(sets config.KeywordSets) *Matcher {
	return &Matcher{
		geography: newKeywordSet(sets.Geography),
		funding:   newKeywordSet(sets.Funding),
		domain:    newKeywordSet(sets.Domain),
	}
}

// MatchesGeography reports whether text names a Swedish or Nordic location.
func (m *Matcher) MatchesGeography(text string) bool {
	return m.geography.matchAny(strings.ToLower(text))
}

// MatchesFunding reports whether text carries a funding keyword.
func (m *Matcher) MatchesFunding(text string) bool {
	return m.funding.matchAny(strings.ToLower(text))
}

// DomainTags returns the domain keywords found in text, sorted.
func (m *Matcher) DomainTags(text string) []string {
	tags := m.domain.hits(strings.ToLower(text))
	slices.Sort(tags)
	return tags
}

// Score rates how relevant text is for the digest: every distinct funding
// keyword counts 2, every domain keyword 3, every geography keyword 1.
func (m *Matcher) Score(text string) int {
	lowered := strings.ToLower(text)
	return 2*len(m.funding.hits(lowered)) +
		3*len(m.domain.hits(lowered)) +
		len(m.geography.hits(lowered))
}
