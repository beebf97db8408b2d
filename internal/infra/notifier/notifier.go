// Package notifier publishes funding digests to chat webhooks.
//
// Slack (Block Kit) and Discord (embeds) publishers share one webhook sender
// that applies rate limiting and retries transient failures. A no-op
// publisher stands in when no webhook is configured.
package notifier

import (
	"fmt"
	"strings"

	"funding-digest/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// emptyDigestText is posted when a run found no funding events.
const emptyDigestText = "No new Swedish startup funding events found."

// headerText summarises the digest in one line.
func headerText(d *entity.Digest) string {
	noun := "events"
	if len(d.Events) == 1 {
		noun = "event"
	}
	return fmt.Sprintf("Swedish startup funding: %d %s (%s)",
		len(d.Events), noun, d.GeneratedAt.Format(dateLayout))
}

// eventTitle joins the company name with whatever amount and round are known.
func eventTitle(e entity.FundingEvent) string {
	parts := []string{e.CompanyName}
	if e.Amount != "" {
		parts = append(parts, e.Amount)
	}
	if e.RoundStage != "" {
		parts = append(parts, e.RoundStage)
	}
	return strings.Join(parts, " · ")
}

// eventMeta is the secondary line: sources, first report date and tags.
func eventMeta(e entity.FundingEvent) string {
	parts := []string{}
	if len(e.Sources) > 0 {
		parts = append(parts, strings.Join(e.Sources, ", "))
	}
	parts = append(parts, e.EarliestDate.Format(dateLayout))
	if len(e.DomainTags) > 0 {
		parts = append(parts, strings.Join(e.DomainTags, ", "))
	}
	return strings.Join(parts, " • ")
}

// chunk splits events into groups of at most size.
func chunk(events []entity.FundingEvent, size int) [][]entity.FundingEvent {
	var out [][]entity.FundingEvent
	for len(events) > size {
		out = append(out, events[:size])
		events = events[size:]
	}
	if len(events) > 0 {
		out = append(out, events)
	}
	return out
}
