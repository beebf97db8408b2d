package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"funding-digest/internal/domain/entity"
	"funding-digest/internal/observability/logging"
	"funding-digest/internal/observability/metrics"
	"funding-digest/internal/pkg/redact"
)

// classifyStage attaches a funding verdict to an article.
type classifyStage struct {
	model    Classifier
	fallback Classifier
	timeout  time.Duration
}

func (s classifyStage) run(ctx context.Context, article entity.RawArticle) entity.ClassifiedArticle {
	logger := logging.FromContext(ctx)
	out := entity.ClassifiedArticle{RawArticle: article}

	if s.model != nil {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		verdict, err := s.model.Classify(callCtx, article)
		cancel()
		if err == nil {
			out.IsFundingEvent = verdict
			out.ClassificationSource = entity.StrategyModel
			metrics.RecordStrategyResult("classify", entity.StrategyModel.String())
			return out
		}
		logger.Warn("model classification failed, using fallback",
			slog.String("url", article.URL),
			slog.String("reason", entity.FailureReason(err)),
			slog.String("error", redact.Error(err)))
	}

	verdict, err := s.fallback.Classify(ctx, article)
	if err != nil {
		// Rule classifiers are total; a failing one rejects the article.
		logger.Error("fallback classification failed",
			slog.String("url", article.URL),
			slog.String("error", redact.Error(err)))
		verdict = false
	}
	out.IsFundingEvent = verdict
	out.ClassificationSource = entity.StrategyFallback
	metrics.RecordStrategyResult("classify", entity.StrategyFallback.String())
	return out
}

// extractStage names the company of a funding article.
type extractStage struct {
	model    Extractor
	fallback Extractor
	timeout  time.Duration
}

func (s extractStage) run(ctx context.Context, article entity.ClassifiedArticle) entity.FundingMention {
	logger := logging.FromContext(ctx)
	out := entity.FundingMention{ClassifiedArticle: article}

	if s.model != nil {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		name, err := s.model.Extract(callCtx, article.RawArticle)
		cancel()
		if err == nil {
			name = entity.NormalizeCompanyName(name)
			if name == "" {
				err = entity.ErrEmptyExtraction
			}
		}
		if err == nil {
			out.CompanyName = name
			out.ExtractionSource = entity.StrategyModel
			metrics.RecordStrategyResult("extract", entity.StrategyModel.String())
			return out
		}
		logger.Warn("model extraction failed, using fallback",
			slog.String("url", article.URL),
			slog.String("reason", entity.FailureReason(err)),
			slog.String("error", redact.Error(err)))
	}

	out.ExtractionSource = entity.StrategyFallback
	metrics.RecordStrategyResult("extract", entity.StrategyFallback.String())

	name, err := s.fallback.Extract(ctx, article.RawArticle)
	if err == nil {
		name = entity.NormalizeCompanyName(name)
		if name == "" {
			err = entity.ErrEmptyExtraction
		}
	}
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, entity.ErrEmptyExtraction) {
			level = slog.LevelInfo
		}
		logger.Log(ctx, level, "no company name extracted, dropping mention",
			slog.String("url", article.URL),
			slog.String("headline", article.Headline),
			slog.String("error", redact.Error(err)))
		metrics.RecordUnknownCompany()
		return out
	}

	out.CompanyName = name
	return out
}
