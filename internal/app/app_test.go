package app_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funding-digest/internal/app"
	"funding-digest/internal/config"
	"funding-digest/internal/domain/entity"
	"funding-digest/internal/infra/collector"
)

const feed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Nordic Tech</title>
    <item>
      <title>Stockholm fintech Klarna raises $10M seed round - EU-Startups</title>
      <link>https://eu-startups.example/klarna</link>
      <pubDate>Thu, 27 Feb 2025 08:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Klarna secures $10M seed funding in Sweden - Breakit</title>
      <link>https://breakit.example/klarna</link>
      <pubDate>Fri, 28 Feb 2025 08:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Ten tips for a better standup - Blog</title>
      <link>https://blog.example/standup</link>
      <pubDate>Fri, 28 Feb 2025 09:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

var now = time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feed))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestBuild_RunsWithoutModel(t *testing.T) {
	server := feedServer(t)

	model := config.DefaultModelConfig()
	model.Provider = config.ProviderNone

	a, err := app.Build(context.Background(), app.Options{
		Pipeline:   config.DefaultPipelineConfig(),
		Model:      model,
		Sources:    []collector.Source{{Name: "test", URL: server.URL, OutletInTitle: true}},
		HTTPClient: server.Client(),
	}, discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.Equal(t, "none", a.Provider)

	digest, err := a.Run(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, digest.Events, 1)

	ev := digest.Events[0]
	assert.Equal(t, "Klarna", ev.CompanyName)
	assert.Equal(t, []string{"Breakit", "EU-Startups"}, ev.Sources)
	assert.Equal(t, 2, ev.Mentions)
	assert.Equal(t, 3, digest.Stats.Collected)
	assert.Zero(t, digest.Stats.ModelVerdicts)
}

func TestBuild_InvalidPipelineConfig(t *testing.T) {
	cfg := config.DefaultPipelineConfig()
	cfg.Parallelism = 0

	_, err := app.Build(context.Background(), app.Options{Pipeline: cfg}, discard())
	require.ErrorIs(t, err, entity.ErrInvalidConfig)
}

func TestBuild_UnknownProvider(t *testing.T) {
	model := config.DefaultModelConfig()
	model.Provider = "watson"

	_, err := app.Build(context.Background(), app.Options{
		Pipeline: config.DefaultPipelineConfig(),
		Model:    model,
	}, discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watson")
}

func TestNewHTTPClient(t *testing.T) {
	assert.Equal(t, 30*time.Second, app.NewHTTPClient(0).Timeout)
	assert.Equal(t, 5*time.Second, app.NewHTTPClient(5*time.Second).Timeout)

	transport, ok := app.NewHTTPClient(time.Second).Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotNil(t, transport.TLSClientConfig)
}
