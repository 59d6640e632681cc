// Package revconfig loads the orchestration core's tuning configuration:
// circuit-breaker thresholds, retry backoff, scheduler bounds, and the
// near-duplicate merge thresholds.
package revconfig

import (
	"fmt"
	"os"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// BreakerYAMLConfig mirrors breaker.Config for YAML decoding.
type BreakerYAMLConfig struct {
	FailureThreshold int64  `yaml:"failure_threshold" validate:"omitempty,min=1"`
	ResetTimeout     string `yaml:"reset_timeout" validate:"omitempty"`
}

// RetryYAMLConfig mirrors retry.Config for YAML decoding.
type RetryYAMLConfig struct {
	MaxRetries  int    `yaml:"max_retries" validate:"omitempty,min=0"`
	BackoffBase string `yaml:"backoff_base" validate:"omitempty"`
	BackoffMax  string `yaml:"backoff_max" validate:"omitempty"`
}

// MergeYAMLConfig mirrors merge.Thresholds for YAML decoding.
type MergeYAMLConfig struct {
	BigramJaccard         float64 `yaml:"bigram_jaccard" validate:"omitempty,gt=0,lte=1"`
	LevenshteinSimilarity float64 `yaml:"levenshtein_similarity" validate:"omitempty,gt=0,lte=1"`
}

// SchedulerYAMLConfig mirrors the idle-timeout scheduler's tick bound.
type SchedulerYAMLConfig struct {
	MinCheckInterval string `yaml:"min_check_interval" validate:"omitempty"`
}

// TuningYAMLConfig mirrors review.TuningParams for YAML decoding.
type TuningYAMLConfig struct {
	MaxAccumulatedSize         int `yaml:"max_accumulated_size" validate:"omitempty,min=1"`
	InitialAccumulatedCapacity int `yaml:"initial_accumulated_capacity" validate:"omitempty,min=0"`
}

// YAMLConfig is the top-level shape of the orchestration core's tuning
// config file: the circuit-breaker record plus the scheduler, backoff,
// merge, and buffer tuning knobs.
type YAMLConfig struct {
	Breaker   BreakerYAMLConfig   `yaml:"breaker"`
	Retry     RetryYAMLConfig     `yaml:"retry"`
	Merge     MergeYAMLConfig     `yaml:"merge"`
	Scheduler SchedulerYAMLConfig `yaml:"scheduler"`
	Tuning    TuningYAMLConfig    `yaml:"tuning"`
}

// defaultYAMLConfig provides the built-in defaults that user configuration
// is merged over (mergo.WithOverride, user values winning).
var defaultYAMLConfig = YAMLConfig{
	Breaker: BreakerYAMLConfig{FailureThreshold: 8, ResetTimeout: "30s"},
	Retry:   RetryYAMLConfig{MaxRetries: 2, BackoffBase: "1s", BackoffMax: "8s"},
	Merge:   MergeYAMLConfig{BigramJaccard: 0.5, LevenshteinSimilarity: 0.6},
	Scheduler: SchedulerYAMLConfig{
		MinCheckInterval: "5s",
	},
	Tuning: TuningYAMLConfig{MaxAccumulatedSize: 2 << 20, InitialAccumulatedCapacity: 4096},
}

var validate = validator.New()

// Load reads path (if it exists), merges it over the built-in defaults, and
// validates the result. A missing path is not an error; the built-in
// defaults are returned as-is.
func Load(path string) (*YAMLConfig, error) {
	cfg := defaultYAMLConfig

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("revconfig: reading %s: %w", path, err)
			}
		} else {
			var user YAMLConfig
			if err := yaml.Unmarshal(data, &user); err != nil {
				return nil, fmt.Errorf("revconfig: parsing %s: %w", path, err)
			}
			if err := mergo.Merge(&cfg, user, mergo.WithOverride); err != nil {
				return nil, fmt.Errorf("revconfig: merging %s: %w", path, err)
			}
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("revconfig: validation failed: %w", err)
	}

	return &cfg, nil
}

// ParseDuration is a small helper for the *_timeout/*_interval string
// fields, which are authored in Go duration syntax ("30s", "5m").
func ParseDuration(s, fallback string) (time.Duration, error) {
	if s == "" {
		s = fallback
	}
	return time.ParseDuration(s)
}
