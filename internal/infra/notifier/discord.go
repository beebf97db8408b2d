package notifier

import (
	"context"
	"fmt"
	"time"

	"funding-digest/internal/domain/entity"
	"funding-digest/internal/utils/text"
)

// DiscordConfig contains configuration for Discord webhook publishing.
type DiscordConfig struct {
	// Enabled indicates whether Discord publishing is enabled
	Enabled bool

	// WebhookURL is the Discord webhook URL (includes authentication token)
	WebhookURL string

	// Timeout is the HTTP request timeout for Discord API calls
	Timeout time.Duration
}

// DiscordPublisher posts digests to Discord via webhook.
type DiscordPublisher struct {
	webhook *webhook
}

// NewDiscordPublisher creates a publisher rate limited to 0.5 requests/second
// with burst of 3 (Discord webhook limit: 30 requests per minute).
func NewDiscordPublisher(config DiscordConfig) *DiscordPublisher {
	return &DiscordPublisher{
		webhook: newWebhook("Discord", config.WebhookURL, config.Timeout, NewRateLimiter(0.5, 3)),
	}
}

// Name implements pipeline.Publisher.
func (d *DiscordPublisher) Name() string {
	return "discord"
}

// DiscordWebhookPayload represents the JSON payload sent to Discord webhook.
type DiscordWebhookPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []DiscordEmbed `json:"embeds,omitempty"`
}

// DiscordEmbed represents a Discord embed message.
type DiscordEmbed struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	URL         string             `json:"url"`
	Color       int                `json:"color"`
	Footer      DiscordEmbedFooter `json:"footer"`
	Timestamp   string             `json:"timestamp"`
}

// DiscordEmbedFooter represents the footer of a Discord embed.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

const (
	// Discord limits
	maxTitleLength       = 256
	maxDescriptionLength = 4096
	maxFooterLength      = 2048
	maxContentLength     = 2000
	maxEmbedsPerMessage  = 10

	// Discord blue color (#5865F2)
	discordBlueColor = 5793266
)

// buildPayloads renders the digest as messages of up to ten embeds each.
// The header rides on the first message as plain content.
func (d *DiscordPublisher) buildPayloads(digest *entity.Digest) []DiscordWebhookPayload {
	header := headerText(digest)
	if len(digest.Events) == 0 {
		return []DiscordWebhookPayload{{
			Content: text.Truncate(header+"\n"+emptyDigestText, maxContentLength),
		}}
	}

	groups := chunk(digest.Events, maxEmbedsPerMessage)
	payloads := make([]DiscordWebhookPayload, 0, len(groups))
	for i, group := range groups {
		p := DiscordWebhookPayload{Embeds: make([]DiscordEmbed, 0, len(group))}
		if i == 0 {
			p.Content = text.Truncate(header, maxContentLength)
		}
		for _, e := range group {
			p.Embeds = append(p.Embeds, discordEmbed(e))
		}
		payloads = append(payloads, p)
	}
	return payloads
}

// discordEmbed renders one event. The embed title links to the article;
// the description carries the headline and the company search link.
func discordEmbed(e entity.FundingEvent) DiscordEmbed {
	description := fmt.Sprintf("%s\n[Find %s](%s)", e.Headline, e.CompanyName, e.SearchLink())
	return DiscordEmbed{
		Title:       text.Truncate(eventTitle(e), maxTitleLength),
		Description: text.Truncate(description, maxDescriptionLength),
		URL:         e.URL,
		Color:       discordBlueColor,
		Footer:      DiscordEmbedFooter{Text: text.Truncate(eventMeta(e), maxFooterLength)},
		Timestamp:   e.EarliestDate.Format(time.RFC3339),
	}
}

// Publish implements pipeline.Publisher.
func (d *DiscordPublisher) Publish(ctx context.Context, digest *entity.Digest) error {
	payloads := d.buildPayloads(digest)
	generic := make([]any, len(payloads))
	for i := range payloads {
		generic[i] = payloads[i]
	}
	return d.webhook.postAll(ctx, generic)
}
