package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"funding-digest/internal/domain/entity"
	"funding-digest/internal/utils/text"
)

// SlackConfig contains configuration for Slack webhook publishing.
type SlackConfig struct {
	// Enabled indicates whether Slack publishing is enabled
	Enabled bool

	// WebhookURL is the Slack Incoming Webhook URL (includes authentication token)
	WebhookURL string

	// Timeout is the HTTP request timeout for Slack API calls
	Timeout time.Duration
}

// SlackPublisher posts digests to Slack via Incoming Webhook.
type SlackPublisher struct {
	webhook *webhook
}

// NewSlackPublisher creates a publisher rate limited to 1 request/second
// with burst of 1 (the Slack webhook limit).
func NewSlackPublisher(config SlackConfig) *SlackPublisher {
	return &SlackPublisher{
		webhook: newWebhook("Slack", config.WebhookURL, config.Timeout, NewRateLimiter(1.0, 1)),
	}
}

// Name implements pipeline.Publisher.
func (s *SlackPublisher) Name() string {
	return "slack"
}

// SlackWebhookPayload represents the JSON payload sent to Slack webhook using Block Kit.
type SlackWebhookPayload struct {
	Text   string       `json:"text"`   // Fallback text (required)
	Blocks []SlackBlock `json:"blocks"` // Rich formatting blocks
}

// SlackBlock represents a Slack Block Kit block.
type SlackBlock struct {
	Type     string            `json:"type"`               // "header", "section", "context", "divider"
	Text     *SlackTextObject  `json:"text,omitempty"`     // Text content (for header and section)
	Elements []SlackTextObject `json:"elements,omitempty"` // Elements (for context)
}

// SlackTextObject represents a text object in Slack Block Kit.
type SlackTextObject struct {
	Type string `json:"type"` // "mrkdwn" or "plain_text"
	Text string `json:"text"` // Actual text content
}

const (
	// Slack Block Kit limits
	maxSectionTextLength = 3000
	maxContextTextLength = 2000
	maxHeaderTextLength  = 150

	// A message holds at most 50 blocks; each event takes two.
	slackEventsPerMessage = 20
)

var slackEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// buildPayloads renders the digest as one or more Block Kit messages. The
// first message carries the header; an empty digest is a single notice.
func (s *SlackPublisher) buildPayloads(d *entity.Digest) []SlackWebhookPayload {
	header := headerText(d)
	headerBlock := SlackBlock{
		Type: "header",
		Text: &SlackTextObject{Type: "plain_text", Text: text.Truncate(header, maxHeaderTextLength)},
	}

	if len(d.Events) == 0 {
		return []SlackWebhookPayload{{
			Text: header,
			Blocks: []SlackBlock{
				headerBlock,
				{Type: "section", Text: &SlackTextObject{Type: "mrkdwn", Text: emptyDigestText}},
			},
		}}
	}

	groups := chunk(d.Events, slackEventsPerMessage)
	payloads := make([]SlackWebhookPayload, 0, len(groups))
	for i, group := range groups {
		var blocks []SlackBlock
		fallback := header
		if i == 0 {
			blocks = append(blocks, headerBlock)
		} else {
			fallback = fmt.Sprintf("%s, part %d", header, i+1)
		}
		for _, e := range group {
			blocks = append(blocks, slackEventBlocks(e)...)
		}
		payloads = append(payloads, SlackWebhookPayload{Text: fallback, Blocks: blocks})
	}
	return payloads
}

// slackEventBlocks renders one event: company linked to its search page,
// the headline linked to the article, then a context line.
// Format: *<search|Company · Amount · Round>*\n<url|headline>
func slackEventBlocks(e entity.FundingEvent) []SlackBlock {
	title := fmt.Sprintf("*<%s|%s>*", e.SearchLink(), slackEscaper.Replace(eventTitle(e)))
	headline := fmt.Sprintf("<%s|%s>", e.URL, slackEscaper.Replace(e.Headline))
	section := text.Truncate(title+"\n"+headline, maxSectionTextLength)

	return []SlackBlock{
		{Type: "section", Text: &SlackTextObject{Type: "mrkdwn", Text: section}},
		{Type: "context", Elements: []SlackTextObject{{
			Type: "mrkdwn",
			Text: text.Truncate(slackEscaper.Replace(eventMeta(e)), maxContextTextLength),
		}}},
	}
}

// Publish implements pipeline.Publisher.
func (s *SlackPublisher) Publish(ctx context.Context, digest *entity.Digest) error {
	payloads := s.buildPayloads(digest)
	generic := make([]any, len(payloads))
	for i := range payloads {
		generic[i] = payloads[i]
	}
	return s.webhook.postAll(ctx, generic)
}
