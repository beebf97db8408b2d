// Package config holds the typed configuration of the digest pipeline and of
// the remote language model. Values are read from the environment through the
// fail-open loaders in internal/pkg/config; only structural problems, such as
// an unreadable keyword file, are returned as errors.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"funding-digest/internal/domain/entity"
	pkgconfig "funding-digest/internal/pkg/config"
)

// KeywordSets are the case-insensitive keyword lists the filter and the
// relevance score match against. Keywords of three characters or fewer
// ("ai", "ml") only match whole words.
type KeywordSets struct {
	Geography []string `yaml:"geography"`
	Funding   []string `yaml:"funding"`
	Domain    []string `yaml:"domain"`
}

// DefaultKeywordSets returns the built-in Swedish startup funding keywords.
func DefaultKeywordSets() KeywordSets {
	return KeywordSets{
		Geography: []string{
			"sweden", "swedish", "stockholm", "gothenburg", "göteborg",
			"malmö", "malmo", "uppsala", "nordic", "scandinavia",
			"sverige", "svensk",
		},
		Funding: []string{
			"funding", "raises", "raised", "investment", "series a",
			"series b", "series c", "seed", "venture", "capital", "million",
			"miljon", "miljard", "finansiering", "investering", "runda", "round",
		},
		Domain: []string{
			"ai", "machine learning", "ml", "data", "fintech", "saas", "tech",
			"software", "analytics", "deep learning", "nlp", "platform",
			"automation", "quantitative", "algorithm",
		},
	}
}

// PipelineConfig configures one digest run.
type PipelineConfig struct {
	// MaxAgeDays is the maximum article age admitted by the filter.
	MaxAgeDays int

	// ClusterToleranceDays is the largest gap between two mentions of the
	// same company that still counts as the same funding event.
	ClusterToleranceDays int

	// MaxEvents caps the digest; 0 disables the cap.
	MaxEvents int

	// Parallelism bounds concurrent per-article classification and extraction.
	Parallelism int

	// ModelTimeout bounds each individual remote model call.
	ModelTimeout time.Duration

	// RequireGeography makes the filter demand a geography keyword in
	// addition to a funding keyword.
	RequireGeography bool

	Keywords KeywordSets
}

// DefaultPipelineConfig returns the production defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		MaxAgeDays:           90,
		ClusterToleranceDays: 14,
		MaxEvents:            25,
		Parallelism:          5,
		ModelTimeout:         20 * time.Second,
		Keywords:             DefaultKeywordSets(),
	}
}

// MaxAge returns MaxAgeDays as a duration.
func (c PipelineConfig) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeDays) * 24 * time.Hour
}

// ClusterTolerance returns ClusterToleranceDays as a duration.
func (c PipelineConfig) ClusterTolerance() time.Duration {
	return time.Duration(c.ClusterToleranceDays) * 24 * time.Hour
}

// Validate reports structural problems that make a run meaningless.
func (c PipelineConfig) Validate() error {
	var errs []error

	if err := pkgconfig.ValidateIntRange(c.MaxAgeDays, 1, 3650); err != nil {
		errs = append(errs, fmt.Errorf("max age days: %w", err))
	}
	if err := pkgconfig.ValidateIntRange(c.ClusterToleranceDays, 0, 365); err != nil {
		errs = append(errs, fmt.Errorf("cluster tolerance days: %w", err))
	}
	if c.MaxEvents < 0 {
		errs = append(errs, fmt.Errorf("max events: must not be negative, got %d", c.MaxEvents))
	}
	if err := pkgconfig.ValidateIntRange(c.Parallelism, 1, 64); err != nil {
		errs = append(errs, fmt.Errorf("parallelism: %w", err))
	}
	if err := pkgconfig.ValidatePositiveDuration(c.ModelTimeout); err != nil {
		errs = append(errs, fmt.Errorf("model timeout: %w", err))
	}
	if len(c.Keywords.Funding) == 0 {
		errs = append(errs, fmt.Errorf("keywords: funding set is empty"))
	}
	if c.RequireGeography && len(c.Keywords.Geography) == 0 {
		errs = append(errs, fmt.Errorf("keywords: geography set is empty but required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: pipeline: %v", entity.ErrInvalidConfig, errs)
	}
	return nil
}

// LoadPipelineConfig reads the pipeline configuration from the environment.
//
//	MAX_AGE_DAYS              (default 90)
//	CLUSTER_TOLERANCE_DAYS    (default 14)
//	DIGEST_MAX_EVENTS         (default 25, 0 = unlimited)
//	PIPELINE_PARALLELISM      (default 5)
//	MODEL_TIMEOUT             (default 20s)
//	FILTER_REQUIRE_GEOGRAPHY  (default false)
//	KEYWORDS_FILE             (optional YAML with geography/funding/domain lists)
//
// Out-of-range numbers fall back to their defaults with a warning. A keyword
// file that cannot be read or parsed is an error wrapping entity.ErrInvalidConfig.
func LoadPipelineConfig(logger *slog.Logger, metrics *pkgconfig.ConfigMetrics) (PipelineConfig, error) {
	cfg := DefaultPipelineConfig()
	tracker := pkgconfig.NewTracker(logger)

	cfg.MaxAgeDays = pkgconfig.Track(tracker, "max_age_days",
		pkgconfig.LoadEnvInt("MAX_AGE_DAYS", cfg.MaxAgeDays, func(v int) error {
			return pkgconfig.ValidateIntRange(v, 1, 3650)
		}))
	cfg.ClusterToleranceDays = pkgconfig.Track(tracker, "cluster_tolerance_days",
		pkgconfig.LoadEnvInt("CLUSTER_TOLERANCE_DAYS", cfg.ClusterToleranceDays, func(v int) error {
			return pkgconfig.ValidateIntRange(v, 0, 365)
		}))
	cfg.MaxEvents = pkgconfig.Track(tracker, "max_events",
		pkgconfig.LoadEnvInt("DIGEST_MAX_EVENTS", cfg.MaxEvents, func(v int) error {
			return pkgconfig.ValidateIntRange(v, 0, 1000)
		}))
	cfg.Parallelism = pkgconfig.Track(tracker, "parallelism",
		pkgconfig.LoadEnvInt("PIPELINE_PARALLELISM", cfg.Parallelism, func(v int) error {
			return pkgconfig.ValidateIntRange(v, 1, 64)
		}))
	cfg.ModelTimeout = pkgconfig.Track(tracker, "model_timeout",
		pkgconfig.LoadEnvDuration("MODEL_TIMEOUT", cfg.ModelTimeout, func(d time.Duration) error {
			return pkgconfig.ValidateDuration(d, time.Second, 5*time.Minute)
		}))
	cfg.RequireGeography = pkgconfig.Track(tracker, "require_geography",
		pkgconfig.LoadEnvBool("FILTER_REQUIRE_GEOGRAPHY", cfg.RequireGeography))

	tracker.Report(metrics)

	if path := os.Getenv("KEYWORDS_FILE"); path != "" {
		keywords, err := LoadKeywordFile(path, cfg.Keywords)
		if err != nil {
			return PipelineConfig{}, err
		}
		cfg.Keywords = keywords
	}

	if err := cfg.Validate(); err != nil {
		return PipelineConfig{}, err
	}
	return cfg, nil
}

// LoadKeywordFile reads a YAML keyword file. Sections missing from the file
// keep the values from base.
//
//	geography: [sweden, stockholm]
//	funding: [raises, series a]
//	domain: [ai, fintech]
func LoadKeywordFile(path string, base KeywordSets) (KeywordSets, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return KeywordSets{}, fmt.Errorf("%w: read keyword file: %v", entity.ErrInvalidConfig, err)
	}

	var file KeywordSets
	if err := yaml.Unmarshal(data, &file); err != nil {
		return KeywordSets{}, fmt.Errorf("%w: parse keyword file %s: %v", entity.ErrInvalidConfig, path, err)
	}

	merged := base
	if file.Geography != nil {
		merged.Geography = file.Geography
	}
	if file.Funding != nil {
		merged.Funding = file.Funding
	}
	if file.Domain != nil {
		merged.Domain = file.Domain
	}
	return merged, nil
}
