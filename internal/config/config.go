// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error kinds.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Duplicate region code policies accepted by DuplicatePolicy.
const (
	PolicyKeepFirst = "keep_first"
	PolicyStrict    = "strict"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// AthleteSources lists the two athlete CSV files, concatenated in order.
	AthleteSources []string `koanf:"athlete_sources"`

	// RegionSource is the NOC to region lookup CSV.
	RegionSource string `koanf:"region_source"`

	// DuplicatePolicy decides how repeated NOC codes in the lookup are joined.
	DuplicatePolicy string `koanf:"duplicate_policy"`

	// TopCountries is the N used by the top performing countries widget.
	TopCountries int `koanf:"top_countries"`

	// MaxRecordsLimit caps GET /api/v1/records?limit.
	MaxRecordsLimit int `koanf:"max_records_limit"`

	// SessionTTL evicts dashboard sessions idle for longer than this.
	SessionTTL time.Duration `koanf:"session_ttl"`

	// SessionSweepInterval controls how often idle sessions are evicted.
	SessionSweepInterval time.Duration `koanf:"session_sweep_interval"`

	// SummaryCacheSize bounds memoized summaries; 0 disables memoization.
	SummaryCacheSize int `koanf:"summary_cache_size"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Addr:      ":9080",
		AthleteSources: []string{
			"data/athlete_performance_1.csv",
			"data/athlete_performance_2.csv",
		},
		RegionSource:         "data/noc_regions.csv",
		DuplicatePolicy:      PolicyKeepFirst,
		TopCountries:         10,
		MaxRecordsLimit:      1000,
		SessionTTL:           30 * time.Minute,
		SessionSweepInterval: time.Minute,
		SummaryCacheSize:     256,
	}
}

// Validate checks invariants the rest of the service relies on.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case len(c.AthleteSources) != 2:
		return fmt.Errorf("%w: athlete_sources needs exactly 2 entries, got %d", ErrInvalidConfig, len(c.AthleteSources))
	case strings.TrimSpace(c.RegionSource) == "":
		return fmt.Errorf("%w: region_source must not be empty", ErrInvalidConfig)
	case c.DuplicatePolicy != PolicyKeepFirst && c.DuplicatePolicy != PolicyStrict:
		return fmt.Errorf("%w: duplicate_policy must be %q or %q", ErrInvalidConfig, PolicyKeepFirst, PolicyStrict)
	case c.TopCountries < 1:
		return fmt.Errorf("%w: top_countries must be positive", ErrInvalidConfig)
	case c.MaxRecordsLimit < 1:
		return fmt.Errorf("%w: max_records_limit must be positive", ErrInvalidConfig)
	case c.SessionTTL <= 0:
		return fmt.Errorf("%w: session_ttl must be positive", ErrInvalidConfig)
	case c.SessionSweepInterval <= 0:
		return fmt.Errorf("%w: session_sweep_interval must be positive", ErrInvalidConfig)
	case c.SummaryCacheSize < 0:
		return fmt.Errorf("%w: summary_cache_size must not be negative", ErrInvalidConfig)
	}
	for i, src := range c.AthleteSources {
		if strings.TrimSpace(src) == "" {
			return fmt.Errorf("%w: athlete_sources[%d] is empty", ErrInvalidConfig, i)
		}
	}
	return nil
}
