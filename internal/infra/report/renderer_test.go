package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funding-digest/internal/domain/entity"
)

func sampleDigest() *entity.Digest {
	return &entity.Digest{
		RunID:       "run-42",
		GeneratedAt: time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC),
		Stats:       entity.RunStats{Collected: 12, Events: 2},
		Events: []entity.FundingEvent{
			{
				CompanyName:  "Bolt & Co",
				Amount:       "SEK 20 million",
				RoundStage:   "Series A",
				DomainTags:   []string{"ai", "saas"},
				Headline:     "Bolt & Co lands <big> round",
				URL:          "https://example.com/bolt",
				Sources:      []string{"Breakit", "Di Digital"},
				EarliestDate: time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC),
				Mentions:     2,
			},
			{
				CompanyName:  "Voi",
				Headline:     "Voi gets funding",
				URL:          "https://example.com/voi",
				Sources:      []string{"TechCrunch"},
				EarliestDate: time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC),
				Mentions:     1,
			},
		},
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func TestRenderer_RenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestRenderer(t).RenderHTML(&buf, sampleDigest()))
	out := buf.String()

	assert.Contains(t, out, "<title>Swedish startup funding 2025-03-01</title>")
	assert.Contains(t, out, `<a href="https://www.linkedin.com/search/results/companies/?keywords=Bolt`)
	assert.Contains(t, out, `">Bolt &amp; Co</a>`)
	assert.Contains(t, out, "<td>SEK 20 million</td>")
	assert.Contains(t, out, "<span>ai</span><span>saas</span>")
	assert.Contains(t, out, `<a href="https://example.com/bolt">Bolt &amp; Co lands &lt;big&gt; round</a>`)
	assert.Contains(t, out, "<td>Breakit, Di Digital</td>")
	assert.Contains(t, out, "<td>2025-02-10</td>")
	assert.Contains(t, out, "run-42")
	assert.NotContains(t, out, "No new Swedish startup funding events found.")

	// Missing amount and round render as a dash.
	assert.Equal(t, 2, strings.Count(out, "<td>-</td>"))
	assert.Equal(t, 2, strings.Count(out, "<tr>\n<td>"))
}

func TestRenderer_RenderHTML_Empty(t *testing.T) {
	d := sampleDigest()
	d.Events = nil

	var buf bytes.Buffer
	require.NoError(t, newTestRenderer(t).RenderHTML(&buf, d))

	assert.Contains(t, buf.String(), "<p>No new Swedish startup funding events found.</p>")
	assert.NotContains(t, buf.String(), "<table>")
}

func TestRenderer_RenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestRenderer(t).RenderText(&buf, sampleDigest()))

	want := `Swedish startup funding 2025-03-01: 2 events

Bolt & Co · SEK 20 million · Series A
  Bolt & Co lands <big> round
  https://example.com/bolt
  Breakit, Di Digital · 2025-02-10 · ai, saas
  https://www.linkedin.com/search/results/companies/?keywords=Bolt+%26+Co

Voi
  Voi gets funding
  https://example.com/voi
  TechCrunch · 2025-02-20
  https://www.linkedin.com/search/results/companies/?keywords=Voi
`
	assert.Equal(t, want, buf.String())
}

func TestRenderer_RenderText_Empty(t *testing.T) {
	d := sampleDigest()
	d.Events = nil

	var buf bytes.Buffer
	require.NoError(t, newTestRenderer(t).RenderText(&buf, d))
	assert.Equal(t, "Swedish startup funding 2025-03-01: 0 events\nNo new Swedish startup funding events found.\n", buf.String())
}
