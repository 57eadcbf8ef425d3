package config

import (
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/mchmarny/aipulse/pkg/feed"
	"github.com/mchmarny/aipulse/pkg/score"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the optional YAML file read from the app home dir.
	ConfigFileName = "config.yaml"

	newsQueryEnv    = "NEWS_QUERY"
	newsWindowEnv   = "NEWS_WINDOW_DAYS"
	topPerBucketEnv = "TOP_PER_BUCKET"
	outputJSONEnv   = "OUTPUT_JSON"
	providerEnv     = "NEWS_API_PROVIDER"

	// News providers.
	ProviderRSS     = "rss"
	ProviderNewsAPI = "newsapi"

	queryDefault = "AI OR artificial intelligence OR generative AI"
)

// Config carries the collaborator-supplied engine settings: the weight
// vector, rows kept per bucket, fetch options, and optional keyword
// vocabulary overrides. The vocabularies are data, not code; anything
// not overridden falls back to the built-in tables.
type Config struct {
	Weights      map[string]float64 `yaml:"weights"`
	TopPerBucket int                `yaml:"topPerBucket"`
	Query        string             `yaml:"query"`
	WindowDays   int                `yaml:"windowDays"`
	Provider     string             `yaml:"provider"`
	Output       string             `yaml:"output"`
	Vocabulary   *VocabularyConfig  `yaml:"vocabulary,omitempty"`
}

// VocabularyConfig overrides the built-in keyword tables. Patterns are
// uncompiled regular expressions, matched case-insensitively.
type VocabularyConfig struct {
	Buckets  []BucketConfig    `yaml:"buckets"`
	Fallback string            `yaml:"fallback"`
	Vendors  []string          `yaml:"vendors"`
	Signals  []SignalConfig    `yaml:"signals"`
	BestFor  map[string]string `yaml:"bestFor"`
}

// BucketConfig is one category rule.
type BucketConfig struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
}

// SignalConfig is one signal key rule.
type SignalConfig struct {
	Key      string   `yaml:"key"`
	Patterns []string `yaml:"patterns"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Weights:      map[string]float64(score.DefaultWeights()),
		TopPerBucket: score.TopPerBucketDefault,
		Query:        queryDefault,
		WindowDays:   feed.WindowDaysDefault,
		Provider:     ProviderRSS,
	}
}

// Load reads the optional YAML file, applies env overrides, and
// validates the result. A missing file is fine; an unreadable or
// invalid one is not.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			slog.Debug("no config file, using defaults", "path", path)
		case err != nil:
			return nil, errors.Wrapf(err, "failed to read config file: %s", path)
		default:
			var override Config
			if err := yaml.Unmarshal(b, &override); err != nil {
				return nil, errors.Wrapf(err, "failed to parse config file: %s", path)
			}
			cfg = merge(cfg, &override)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate surfaces misconfiguration before any run: weights that do
// not sum to 1.0 are fatal rather than silently renormalized.
func (c *Config) Validate() error {
	if err := score.Weights(c.Weights).Validate(); err != nil {
		return errors.Wrap(err, "invalid weights")
	}
	if c.TopPerBucket <= 0 {
		return errors.Errorf("topPerBucket must be positive, got %d", c.TopPerBucket)
	}
	if c.WindowDays <= 0 {
		return errors.Errorf("windowDays must be positive, got %d", c.WindowDays)
	}
	if c.Provider != ProviderRSS && c.Provider != ProviderNewsAPI {
		return errors.Errorf("unknown provider: %s", c.Provider)
	}
	return nil
}

// CompiledVocabulary compiles the override tables, or returns the
// built-in vocabulary when no override is configured.
func (c *Config) CompiledVocabulary() (*score.Vocabulary, error) {
	if c.Vocabulary == nil {
		return score.DefaultVocabulary(), nil
	}

	base := score.DefaultVocabulary()
	v := &score.Vocabulary{
		Fallback: base.Fallback,
		Vendors:  base.Vendors,
		Signals:  base.Signals,
		BestFor:  base.BestFor,
		Buckets:  base.Buckets,
	}

	o := c.Vocabulary
	if len(o.Buckets) > 0 {
		v.Buckets = make([]score.BucketRule, 0, len(o.Buckets))
		for _, b := range o.Buckets {
			patterns, err := compilePatterns(b.Patterns)
			if err != nil {
				return nil, errors.Wrapf(err, "bucket %s", b.Name)
			}
			v.Buckets = append(v.Buckets, score.BucketRule{Name: b.Name, Patterns: patterns})
		}
		v.Fallback = v.Buckets[0].Name
	}
	if o.Fallback != "" {
		v.Fallback = o.Fallback
	}
	if len(o.Vendors) > 0 {
		v.Vendors = o.Vendors
	}
	if len(o.Signals) > 0 {
		v.Signals = make([]score.SignalRule, 0, len(o.Signals))
		for _, s := range o.Signals {
			patterns, err := compilePatterns(s.Patterns)
			if err != nil {
				return nil, errors.Wrapf(err, "signal %s", s.Key)
			}
			v.Signals = append(v.Signals, score.SignalRule{Key: s.Key, Patterns: patterns})
		}
	}
	if len(o.BestFor) > 0 {
		v.BestFor = o.BestFor
	}

	return v, nil
}

func compilePatterns(exprs []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		p, err := regexp.Compile(`(?i)` + e)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid pattern: %s", e)
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(newsQueryEnv); v != "" {
		c.Query = v
	}
	if v := os.Getenv(providerEnv); v != "" {
		c.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv(outputJSONEnv); v != "" {
		c.Output = v
	}
	if v := os.Getenv(newsWindowEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.WindowDays = n
		} else {
			slog.Warn("ignoring bad env value", "var", newsWindowEnv, "value", v)
		}
	}
	if v := os.Getenv(topPerBucketEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TopPerBucket = n
		} else {
			slog.Warn("ignoring bad env value", "var", topPerBucketEnv, "value", v)
		}
	}
}

// merge applies non-zero override fields onto base.
func merge(base, override *Config) *Config {
	if len(override.Weights) > 0 {
		base.Weights = override.Weights
	}
	if override.TopPerBucket > 0 {
		base.TopPerBucket = override.TopPerBucket
	}
	if override.Query != "" {
		base.Query = override.Query
	}
	if override.WindowDays > 0 {
		base.WindowDays = override.WindowDays
	}
	if override.Provider != "" {
		base.Provider = override.Provider
	}
	if override.Output != "" {
		base.Output = override.Output
	}
	if override.Vocabulary != nil {
		base.Vocabulary = override.Vocabulary
	}
	return base
}
