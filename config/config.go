// Package config loads docharvest configuration via Viper. Values come from
// defaults, then an optional config file, then DOCHARVEST_* environment
// variables; command-line flags are applied on top by the caller.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/docharvest"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. DOCHARVEST_EXTRACT_WORKERS.
const EnvPrefix = "DOCHARVEST"

// Extractor names accepted by extract.extractor.
const (
	ExtractorGoquery     = "goquery"
	ExtractorReadability = "readability"
	ExtractorTrafilatura = "trafilatura"
	ExtractorNone        = "none"
)

// Config captures every configuration knob.
type Config struct {
	Input   InputConfig   `mapstructure:"input"`
	Output  OutputConfig  `mapstructure:"output"`
	Extract ExtractConfig `mapstructure:"extract"`
	History HistoryConfig `mapstructure:"history"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// InputConfig selects the requested targets.
type InputConfig struct {
	Manifest   string   `mapstructure:"manifest"`
	SitemapURL string   `mapstructure:"sitemap_url"`
	Categories []string `mapstructure:"categories"`
	Batch      string   `mapstructure:"batch"`
}

// OutputConfig locates the artifact tree.
type OutputConfig struct {
	Root string `mapstructure:"root"`
}

// ExtractConfig governs fetching and conversion.
type ExtractConfig struct {
	Workers        int     `mapstructure:"workers"`
	SkipExisting   bool    `mapstructure:"skip_existing"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	MaxRetries     int     `mapstructure:"max_retries"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	Extractor      string  `mapstructure:"extractor"`
	Sanitize       bool    `mapstructure:"sanitize"`
	Browser        bool    `mapstructure:"browser"`
	UserAgent      string  `mapstructure:"user_agent"`
}

// HistoryConfig enables the SQLite run history when DB is set.
type HistoryConfig struct {
	DB string `mapstructure:"db"`
}

// MetricsConfig enables the Prometheus textfile when File is set.
type MetricsConfig struct {
	File string `mapstructure:"file"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Load builds a Config from defaults, the file at path (if any) and the
// environment, and validates it.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.manifest", "urls_to_extract.csv")
	v.SetDefault("input.sitemap_url", "https://docs.n8n.io/sitemap.xml")
	v.SetDefault("input.categories", []string{})
	v.SetDefault("input.batch", "")
	v.SetDefault("output.root", "./output")
	v.SetDefault("extract.workers", 8)
	v.SetDefault("extract.skip_existing", true)
	v.SetDefault("extract.timeout_seconds", 30)
	v.SetDefault("extract.max_retries", 3)
	v.SetDefault("extract.rate_limit", 0)
	v.SetDefault("extract.extractor", ExtractorGoquery)
	v.SetDefault("extract.sanitize", true)
	v.SetDefault("extract.browser", false)
	v.SetDefault("extract.user_agent", "")
	v.SetDefault("history.db", "")
	v.SetDefault("metrics.file", "")
	v.SetDefault("logging.level", "info")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Output.Root == "" {
		return docharvest.Errorf(docharvest.EINVALID, "output.root must be set")
	}
	if c.Extract.Workers <= 0 {
		return docharvest.Errorf(docharvest.EINVALID, "extract.workers must be > 0")
	}
	if c.Extract.TimeoutSeconds <= 0 {
		return docharvest.Errorf(docharvest.EINVALID, "extract.timeout_seconds must be > 0")
	}
	if c.Extract.MaxRetries <= 0 {
		return docharvest.Errorf(docharvest.EINVALID, "extract.max_retries must be > 0")
	}
	if c.Extract.RateLimit < 0 {
		return docharvest.Errorf(docharvest.EINVALID, "extract.rate_limit must be >= 0")
	}
	switch c.Extract.Extractor {
	case ExtractorGoquery, ExtractorReadability, ExtractorTrafilatura, ExtractorNone:
	default:
		return docharvest.Errorf(docharvest.EINVALID, "unknown extractor %q", c.Extract.Extractor)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return docharvest.Errorf(docharvest.EINVALID, "unknown log level %q", c.Logging.Level)
	}
	return nil
}

// FetchTimeout returns the per-attempt fetch timeout.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Extract.TimeoutSeconds) * time.Second
}
