package pipeline

import (
	"slices"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"funding-digest/internal/domain/entity"
)

// Cluster merges mentions of the same funding event.
//
// Mentions are grouped by company key; within a group, sorted by date, a
// new event starts wherever the gap to the previous mention exceeds
// tolerance. This is single-linkage clustering, so two mentions far apart
// still merge when a chain of mentions between them is dense enough.
// Mentions without a company name are dropped.
//
// The result is ordered by earliest date, then company name, and does not
// depend on the order of mentions.
func Cluster(mentions []entity.FundingMention, tolerance time.Duration) []entity.FundingEvent {
	groups := make(map[string][]entity.FundingMention)
	for _, m := range mentions {
		if !m.HasCompany() {
			continue
		}
		key := entity.CompanyKey(m.CompanyName)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], m)
	}

	events := make([]entity.FundingEvent, 0, len(groups))
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool { return mentionLess(group[i], group[j]) })

		start := 0
		for i := 1; i <= len(group); i++ {
			if i == len(group) || group[i].PublishedAt.Sub(group[i-1].PublishedAt) > tolerance {
				events = append(events, mergeMentions(group[start:i]))
				start = i
			}
		}
	}

	sortEvents(events)
	return events
}

// mentionLess orders mentions by date, then URL, source and headline.
func mentionLess(a, b entity.FundingMention) bool {
	if !a.PublishedAt.Equal(b.PublishedAt) {
		return a.PublishedAt.Before(b.PublishedAt)
	}
	if a.URL != b.URL {
		return a.URL < b.URL
	}
	if a.Source != b.Source {
		return a.Source < b.Source
	}
	return a.Headline < b.Headline
}

// sortEvents applies the report order: earliest date, then name.
// Headline and URL only break ties between otherwise equal events.
func sortEvents(events []entity.FundingEvent) {
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.EarliestDate.Equal(b.EarliestDate) {
			return a.EarliestDate.Before(b.EarliestDate)
		}
		if a.CompanyName != b.CompanyName {
			return a.CompanyName < b.CompanyName
		}
		if a.Headline != b.Headline {
			return a.Headline < b.Headline
		}
		return a.URL < b.URL
	})
}

// mergeMentions builds one event from a date-sorted, non-empty cluster.
func mergeMentions(cluster []entity.FundingMention) entity.FundingEvent {
	first := cluster[0]
	ev := entity.FundingEvent{
		CompanyName:  first.CompanyName,
		EarliestDate: first.PublishedAt,
		Mentions:     len(cluster),
	}

	sources := make(map[string]struct{})
	tags := make(map[string]struct{})
	var amount, round valuePick
	best := first
	for _, m := range cluster {
		// Earliest mention names the event; ties go to the smaller name.
		if m.PublishedAt.Equal(ev.EarliestDate) && m.CompanyName < ev.CompanyName {
			ev.CompanyName = m.CompanyName
		}
		if m.Source != "" {
			sources[m.Source] = struct{}{}
		}
		for _, t := range m.DomainTags {
			tags[t] = struct{}{}
		}
		if m.Relevance > ev.Relevance {
			ev.Relevance = m.Relevance
		}
		amount.offer(m.Amount, m.PublishedAt)
		round.offer(m.RoundStage, m.PublishedAt)
		if betterHeadline(m, best) {
			best = m
		}
	}

	ev.Amount = amount.value
	ev.RoundStage = round.value
	ev.Headline = best.Headline
	ev.URL = best.URL
	ev.Sources = sortedKeys(sources)
	ev.DomainTags = sortedKeys(tags)
	return ev
}

// valuePick keeps the most specific non-empty value offered: the longest,
// then the most recent, then the lexicographically smallest.
type valuePick struct {
	value string
	at    time.Time
}

func (p *valuePick) offer(value string, at time.Time) {
	if value == "" {
		return
	}
	if p.value == "" {
		p.value, p.at = value, at
		return
	}
	vl, pl := utf8.RuneCountInString(value), utf8.RuneCountInString(p.value)
	switch {
	case vl != pl:
		if vl < pl {
			return
		}
	case !at.Equal(p.at):
		if at.Before(p.at) {
			return
		}
	case value >= p.value:
		return
	}
	p.value, p.at = value, at
}

// betterHeadline reports whether m carries a more informative headline than
// best. Untruncated beats truncated, then longer, then more recent, then
// lexicographically smaller.
func betterHeadline(m, best entity.FundingMention) bool {
	mt, bt := isTruncated(m.Headline), isTruncated(best.Headline)
	if mt != bt {
		return !mt
	}
	ml, bl := utf8.RuneCountInString(m.Headline), utf8.RuneCountInString(best.Headline)
	if ml != bl {
		return ml > bl
	}
	if !m.PublishedAt.Equal(best.PublishedAt) {
		return m.PublishedAt.After(best.PublishedAt)
	}
	if m.Headline != best.Headline {
		return m.Headline < best.Headline
	}
	return m.URL < best.URL
}

func isTruncated(headline string) bool {
	h := strings.TrimSpace(headline)
	return strings.HasSuffix(h, "...") || strings.HasSuffix(h, "…")
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
