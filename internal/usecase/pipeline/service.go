package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"funding-digest/internal/config"
	"funding-digest/internal/domain/entity"
	"funding-digest/internal/observability/logging"
	"funding-digest/internal/observability/metrics"
	"funding-digest/internal/observability/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Service runs the digest pipeline from collection to clustered events.
type Service struct {
	collector Collector
	filter    *Filter
	classify  classifyStage
	extract   extractStage
	enricher  Enricher
	cfg       config.PipelineConfig
}

// NewService creates a pipeline service.
//
// Parameters:
//   - collector: source of raw articles
//   - filter: age and keyword pre-filter
//   - classifiers: model and fallback funding classifiers (model may be nil)
//   - extractors: model and fallback company extractors (model may be nil)
//   - enricher: attaches amount, round, tags and relevance (may be nil)
//   - cfg: pipeline configuration
//
// Missing required collaborators are reported by Run.
func NewService(
	collector Collector,
	filter *Filter,
	classifiers Strategies[Classifier],
	extractors Strategies[Extractor],
	enricher Enricher,
	cfg config.PipelineConfig,
) *Service {
	return &Service{
		collector: collector,
		filter:    filter,
		classify: classifyStage{
			model:    classifiers.Model,
			fallback: classifiers.Fallback,
			timeout:  cfg.ModelTimeout,
		},
		extract: extractStage{
			model:    extractors.Model,
			fallback: extractors.Fallback,
			timeout:  cfg.ModelTimeout,
		},
		enricher: enricher,
		cfg:      cfg,
	}
}

func (s *Service) validate() error {
	switch {
	case s.collector == nil:
		return fmt.Errorf("%w: collector", ErrMissingCollaborator)
	case s.filter == nil:
		return fmt.Errorf("%w: filter", ErrMissingCollaborator)
	case s.classify.fallback == nil:
		return fmt.Errorf("%w: fallback classifier", ErrMissingCollaborator)
	case s.extract.fallback == nil:
		return fmt.Errorf("%w: fallback extractor", ErrMissingCollaborator)
	}
	return nil
}

// Run executes one pipeline run as of now.
//
// Per-article failures never abort the run: a collector failure yields an
// empty digest and a model failure falls back for that article. The only
// error returned is ErrMissingCollaborator.
func (s *Service) Run(ctx context.Context, now time.Time) (digest *entity.Digest, err error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.New().String()
	ctx = logging.ContextWithRunID(ctx, runID)
	logger := logging.WithRunID(ctx, logging.FromContext(ctx))
	ctx = logging.WithLogger(ctx, logger)

	ctx, span := tracing.GetTracer().Start(ctx, "pipeline.run")
	span.SetAttributes(attribute.String("run_id", runID))
	defer func() { tracing.End(span, err) }()

	logger.Info("digest run started", slog.Time("as_of", now))
	stats := entity.RunStats{}

	raw := s.collect(ctx)
	stats.Collected = len(raw)

	admitted := s.applyFilter(ctx, raw, now, &stats)

	classified := s.classifyAll(ctx, admitted)
	funding := make([]entity.ClassifiedArticle, 0, len(classified))
	for _, c := range classified {
		switch c.ClassificationSource {
		case entity.StrategyModel:
			stats.ModelVerdicts++
		default:
			stats.FallbackVerdicts++
		}
		if c.IsFundingEvent {
			funding = append(funding, c)
		}
	}
	stats.Funding = len(funding)

	mentions := s.extractAll(ctx, funding)
	for _, m := range mentions {
		switch {
		case !m.HasCompany():
			stats.UnknownNames++
		case m.ExtractionSource == entity.StrategyModel:
			stats.ModelNames++
		default:
			stats.FallbackNames++
		}
	}

	events := s.clusterAndCap(ctx, mentions)
	stats.Events = len(events)
	stats.Duration = time.Since(start)

	metrics.RecordDigest(stats.Events)
	metrics.RecordStageDuration("run", stats.Duration)
	logger.Info("digest run completed",
		slog.Int("collected", stats.Collected),
		slog.Int("duplicates", stats.Duplicates),
		slog.Int("filtered", stats.Filtered),
		slog.Int("funding", stats.Funding),
		slog.Int("model_verdicts", stats.ModelVerdicts),
		slog.Int("fallback_verdicts", stats.FallbackVerdicts),
		slog.Int("unknown_names", stats.UnknownNames),
		slog.Int("events", stats.Events),
		slog.Duration("duration", stats.Duration),
	)

	return &entity.Digest{
		RunID:       runID,
		GeneratedAt: now,
		Events:      events,
		Stats:       stats,
	}, nil
}

func (s *Service) collect(ctx context.Context) []entity.RawArticle {
	ctx, span := tracing.StartStage(ctx, "collect")
	start := time.Now()

	raw, err := s.collector.Collect(ctx)
	metrics.RecordStageDuration("collect", time.Since(start))
	tracing.End(span, err)
	if err != nil {
		logging.FromContext(ctx).Warn("collector failed, continuing with no articles",
			slog.Any("error", err))
		return nil
	}
	return raw
}

func (s *Service) applyFilter(ctx context.Context, raw []entity.RawArticle, now time.Time, stats *entity.RunStats) []entity.RawArticle {
	_, span := tracing.StartStage(ctx, "filter", attribute.Int("articles", len(raw)))
	start := time.Now()

	admitted, fs := s.filter.ApplyWithStats(raw, now)
	stats.Duplicates = fs.Duplicates
	stats.Filtered = fs.Admitted

	metrics.RecordFilterDecisions(fs.Admitted, fs.TooOld, fs.NoKeyword, fs.Duplicates)
	metrics.RecordStageDuration("filter", time.Since(start))
	span.SetAttributes(attribute.Int("admitted", fs.Admitted))
	tracing.End(span, nil)
	return admitted
}

// parallelism returns the per-article fan-out bound.
func (s *Service) parallelism() int {
	if s.cfg.Parallelism < 1 {
		return 1
	}
	return s.cfg.Parallelism
}

func (s *Service) classifyAll(ctx context.Context, articles []entity.RawArticle) []entity.ClassifiedArticle {
	ctx, span := tracing.StartStage(ctx, "classify", attribute.Int("articles", len(articles)))
	start := time.Now()

	out := make([]entity.ClassifiedArticle, len(articles))
	var eg errgroup.Group
	eg.SetLimit(s.parallelism())
	for i, a := range articles {
		i, a := i, a
		eg.Go(func() error {
			out[i] = s.classify.run(ctx, a)
			return nil
		})
	}
	_ = eg.Wait() // stage goroutines never fail

	metrics.RecordStageDuration("classify", time.Since(start))
	tracing.End(span, nil)
	return out
}

func (s *Service) extractAll(ctx context.Context, articles []entity.ClassifiedArticle) []entity.FundingMention {
	ctx, span := tracing.StartStage(ctx, "extract", attribute.Int("articles", len(articles)))
	start := time.Now()

	out := make([]entity.FundingMention, len(articles))
	var eg errgroup.Group
	eg.SetLimit(s.parallelism())
	for i, a := range articles {
		i, a := i, a
		eg.Go(func() error {
			m := s.extract.run(ctx, a)
			if s.enricher != nil {
				m = s.enricher.Enrich(m)
			}
			out[i] = m
			return nil
		})
	}
	_ = eg.Wait()

	metrics.RecordStageDuration("extract", time.Since(start))
	tracing.End(span, nil)
	return out
}

func (s *Service) clusterAndCap(ctx context.Context, mentions []entity.FundingMention) []entity.FundingEvent {
	_, span := tracing.StartStage(ctx, "cluster", attribute.Int("mentions", len(mentions)))
	start := time.Now()

	events := Cluster(mentions, s.cfg.ClusterTolerance())
	if s.cfg.MaxEvents > 0 && len(events) > s.cfg.MaxEvents {
		logging.FromContext(ctx).Info("capping digest",
			slog.Int("events", len(events)),
			slog.Int("max_events", s.cfg.MaxEvents))
		events = TopEvents(events, s.cfg.MaxEvents)
	}

	metrics.RecordStageDuration("cluster", time.Since(start))
	span.SetAttributes(attribute.Int("events", len(events)))
	tracing.End(span, nil)
	return events
}

// TopEvents keeps the n most relevant events, preferring earlier events and
// then smaller names on equal relevance, and returns them in report order.
// The input slice is not modified.
func TopEvents(events []entity.FundingEvent, n int) []entity.FundingEvent {
	ranked := make([]entity.FundingEvent, len(events))
	copy(ranked, events)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Relevance != b.Relevance {
			return a.Relevance > b.Relevance
		}
		if !a.EarliestDate.Equal(b.EarliestDate) {
			return a.EarliestDate.Before(b.EarliestDate)
		}
		return a.CompanyName < b.CompanyName
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	sortEvents(ranked)
	return ranked
}
