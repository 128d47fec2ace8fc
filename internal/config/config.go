// Package config loads CLI configuration from a YAML or JSON file and JOBMATCH_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/jobmatch/internal/fetch"
	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/refresh"
	"github.com/jonathan/jobmatch/internal/similarity"
)

// EnvPrefix prefixes every environment override, e.g. JOBMATCH_REFRESH_INTERVAL.
const EnvPrefix = "JOBMATCH"

// Name is the config file base name searched in the working directory.
const Name = "jobmatch"

// Config is the resolved configuration.
type Config struct {
	// Storage. The vocabulary lives in Postgres when DatabaseURL is set, else in SQLite
	// when SQLitePath is set, else in VocabularyPath.
	DatabaseURL    string `mapstructure:"database-url"`
	SQLitePath     string `mapstructure:"sqlite-path"`
	VocabularyPath string `mapstructure:"vocabulary-path"`
	VocabularyName string `mapstructure:"vocabulary-name"`

	// Corpus file (JSON or CSV) loaded at startup
	Corpus string `mapstructure:"corpus"`

	// Scoring
	Semantic        bool               `mapstructure:"semantic"`
	ExtendedCatalog bool               `mapstructure:"extended-catalog"`
	Weights         similarity.Weights `mapstructure:"weights"`

	Refresh RefreshConfig `mapstructure:"refresh"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	LLM     LLMConfig     `mapstructure:"llm"`

	Debug bool `mapstructure:"debug"`
	JSON  bool `mapstructure:"json"`
}

// RefreshConfig selects refresh sources and pacing.
type RefreshConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RemoteOK      bool          `mapstructure:"remoteok"`
	SearchTerm    string        `mapstructure:"search-term"`
	GitHub        bool          `mapstructure:"github"`
	StackOverflow bool          `mapstructure:"stackoverflow"`
	Postgres      bool          `mapstructure:"postgres"`
	Tagger        bool          `mapstructure:"tagger"`
}

// FetchConfig configures outbound HTTP.
type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user-agent"`
}

// LLMConfig configures the refresh tagger model.
type LLMConfig struct {
	APIKey   string `mapstructure:"api-key"`
	Model    string `mapstructure:"model"`
	MaxTerms int    `mapstructure:"max-terms"`
}

// SetDefaults registers every key with its default so environment overrides apply on Unmarshal.
func SetDefaults(v *viper.Viper) {
	w := similarity.DefaultWeights()
	v.SetDefault("database-url", "")
	v.SetDefault("sqlite-path", "")
	v.SetDefault("vocabulary-path", "jobmatch-vocabulary.json")
	v.SetDefault("vocabulary-name", "default")
	v.SetDefault("corpus", "")
	v.SetDefault("semantic", false)
	v.SetDefault("extended-catalog", false)
	v.SetDefault("weights.lexical", w.Lexical)
	v.SetDefault("weights.skill", w.Skill)
	v.SetDefault("weights.experience", w.Experience)
	v.SetDefault("weights.semantic", w.Semantic)
	v.SetDefault("refresh.interval", refresh.DefaultInterval)
	v.SetDefault("refresh.timeout", 2*time.Minute)
	v.SetDefault("refresh.remoteok", true)
	v.SetDefault("refresh.search-term", "")
	v.SetDefault("refresh.github", true)
	v.SetDefault("refresh.stackoverflow", true)
	v.SetDefault("refresh.postgres", false)
	v.SetDefault("refresh.tagger", false)
	v.SetDefault("fetch.timeout", fetch.DefaultTimeout)
	v.SetDefault("fetch.user-agent", fetch.DefaultUserAgent)
	v.SetDefault("llm.api-key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.max-terms", llm.DefaultMaxTerms)
	v.SetDefault("debug", false)
	v.SetDefault("json", false)
}

// Load reads path, or jobmatch.{yaml,json} from the working directory when path is
// empty, and applies environment overrides. A missing default file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database-url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind DATABASE_URL: %w", err)
	}
	if err := v.BindEnv("llm.api-key", EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(Name)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	w := c.Weights
	for name, val := range map[string]float64{
		"lexical": w.Lexical, "skill": w.Skill, "experience": w.Experience, "semantic": w.Semantic,
	} {
		if val < 0 {
			return fmt.Errorf("config error: 'weights.%s' must be non-negative", name)
		}
	}
	if w.Lexical+w.Skill+w.Experience+w.Semantic == 0 {
		return fmt.Errorf("config error: at least one weight must be positive")
	}
	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("config error: 'refresh.interval' must be positive")
	}
	if c.Refresh.Timeout < 0 {
		return fmt.Errorf("config error: 'refresh.timeout' must be non-negative")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("config error: 'fetch.timeout' must be positive")
	}
	if c.LLM.MaxTerms < 0 {
		return fmt.Errorf("config error: 'llm.max-terms' must be non-negative")
	}
	if c.Refresh.Tagger && c.LLM.APIKey == "" {
		return fmt.Errorf("config error: 'refresh.tagger' needs 'llm.api-key' or GEMINI_API_KEY")
	}
	if c.Refresh.Postgres && c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'refresh.postgres' needs 'database-url'")
	}
	if c.VocabularyName == "" {
		return fmt.Errorf("config error: 'vocabulary-name' must not be empty")
	}
	return nil
}

// FetchOptions returns the HTTP options for fetchers.
func (c *Config) FetchOptions() *fetch.Options {
	opts := fetch.DefaultOptions()
	opts.Timeout = c.Fetch.Timeout
	if c.Fetch.UserAgent != "" {
		opts.UserAgent = c.Fetch.UserAgent
	}
	return opts
}

// LLMModelConfig returns the model configuration for the tagger.
func (c *Config) LLMModelConfig() *llm.Config {
	cfg := llm.DefaultConfig()
	if c.LLM.Model != "" {
		cfg = cfg.WithModel(llm.TierLite, c.LLM.Model)
	}
	return cfg
}
