// Package config layers command-line flags, SWATCH_* environment variables,
// a .env file and defaults into one validated Config.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/maax3v3/swatchmatch/internal/deltae"
	"github.com/maax3v3/swatchmatch/internal/match"
)

// EnvPrefix prefixes every environment variable, e.g. SWATCH_MAX_DISTANCE.
const EnvPrefix = "SWATCH"

// Keys shared by flags, environment variables and defaults.
const (
	KeyLibrary        = "library"
	KeyMetric         = "metric"
	KeyMaxDistance    = "max-distance"
	KeyLimit          = "limit"
	KeyWorkers        = "workers"
	KeyListen         = "listen"
	KeyMaxUploadBytes = "max-upload-bytes"
)

// Config holds the resolved settings shared by every command.
type Config struct {
	// Library is a path or http(s) URL. Empty means the first existing file
	// of library.DefaultPaths.
	Library string
	Metric  deltae.Metric
	// MaxDistance of 0 means unbounded.
	MaxDistance    float64
	Limit          int
	Workers        int
	Listen         string
	MaxUploadBytes int64
}

// Load reads configuration with precedence flags > environment > .env >
// defaults. Only flags that exist in fs and were changed override the
// environment; fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	// A missing .env is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLibrary, "")
	v.SetDefault(KeyMetric, deltae.CIEDE2000.String())
	v.SetDefault(KeyMaxDistance, 0.0)
	v.SetDefault(KeyLimit, match.DefaultLimit)
	v.SetDefault(KeyWorkers, 1)
	v.SetDefault(KeyListen, ":8080")
	v.SetDefault(KeyMaxUploadBytes, int64(8*1024*1024))

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, fmt.Errorf("binding flags: %w", err)
		}
	}

	metric, err := deltae.ParseMetric(v.GetString(KeyMetric))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Library:        strings.TrimSpace(v.GetString(KeyLibrary)),
		Metric:         metric,
		MaxDistance:    v.GetFloat64(KeyMaxDistance),
		Limit:          v.GetInt(KeyLimit),
		Workers:        v.GetInt(KeyWorkers),
		Listen:         v.GetString(KeyListen),
		MaxUploadBytes: v.GetInt64(KeyMaxUploadBytes),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range setting.
func (c Config) Validate() error {
	var errs []error
	if c.Limit <= 0 {
		errs = append(errs, fmt.Errorf("limit must be > 0, got %d", c.Limit))
	}
	if c.MaxDistance < 0 || math.IsNaN(c.MaxDistance) {
		errs = append(errs, fmt.Errorf("max-distance must be > 0 (or 0 for unbounded), got %v", c.MaxDistance))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if !c.Metric.Valid() {
		errs = append(errs, fmt.Errorf("%w: %d", deltae.ErrUnknownMetric, int(c.Metric)))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("max-upload-bytes must be > 0, got %d", c.MaxUploadBytes))
	}
	return errors.Join(errs...)
}

// MatchOptions converts the matching settings to match.Options.
func (c Config) MatchOptions() match.Options {
	maxDist := c.MaxDistance
	if maxDist == 0 {
		maxDist = match.Unbounded
	}
	return match.Options{
		Metric:      c.Metric,
		MaxDistance: maxDist,
		Limit:       c.Limit,
		Workers:     c.Workers,
	}
}
