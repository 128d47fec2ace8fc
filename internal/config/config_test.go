package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobmatch/internal/fetch"
	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/similarity"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, similarity.DefaultWeights(), cfg.Weights)
	assert.Equal(t, 6*time.Hour, cfg.Refresh.Interval)
	assert.Equal(t, 2*time.Minute, cfg.Refresh.Timeout)
	assert.True(t, cfg.Refresh.RemoteOK)
	assert.True(t, cfg.Refresh.GitHub)
	assert.False(t, cfg.Refresh.Tagger)
	assert.Equal(t, "jobmatch-vocabulary.json", cfg.VocabularyPath)
	assert.Equal(t, "default", cfg.VocabularyName)
	assert.Equal(t, fetch.DefaultTimeout, cfg.Fetch.Timeout)
	assert.Equal(t, llm.DefaultMaxTerms, cfg.LLM.MaxTerms)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeFile(t, "jobmatch.yaml", `
corpus: postings.json
semantic: true
weights:
  lexical: 0.5
  skill: 0.5
  experience: 0
  semantic: 0
refresh:
  interval: 30m
  search-term: golang
  github: false
fetch:
  user-agent: test-agent
`)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "postings.json", cfg.Corpus)
	assert.True(t, cfg.Semantic)
	assert.Equal(t, similarity.Weights{Lexical: 0.5, Skill: 0.5}, cfg.Weights)
	assert.Equal(t, 30*time.Minute, cfg.Refresh.Interval)
	assert.Equal(t, "golang", cfg.Refresh.SearchTerm)
	assert.False(t, cfg.Refresh.GitHub)
	assert.True(t, cfg.Refresh.StackOverflow)
	assert.Equal(t, "test-agent", cfg.FetchOptions().UserAgent)
}

func TestLoad_JSONFile(t *testing.T) {
	path := writeFile(t, "config.json", `{"sqlite-path": "vocab.db", "vocabulary-name": "team"}`)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "vocab.db", cfg.SQLitePath)
	assert.Equal(t, "team", cfg.VocabularyName)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JOBMATCH_REFRESH_INTERVAL", "90m")
	t.Setenv("JOBMATCH_SEMANTIC", "true")
	t.Setenv("DATABASE_URL", "postgres://localhost/jobmatch")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("JOBMATCH_REFRESH_TAGGER", "true")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, cfg.Refresh.Interval)
	assert.True(t, cfg.Semantic)
	assert.Equal(t, "postgres://localhost/jobmatch", cfg.DatabaseURL)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
	assert.True(t, cfg.Refresh.Tagger)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	bad := writeFile(t, "bad.yaml", "weights: [unclosed")
	_, err = Load(viper.New(), bad)
	require.Error(t, err)

	invalid := writeFile(t, "invalid.yaml", "refresh:\n  interval: 0s\n")
	_, err = Load(viper.New(), invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh.interval")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			VocabularyName: "default",
			Weights:        similarity.DefaultWeights(),
			Refresh:        RefreshConfig{Interval: time.Hour},
			Fetch:          FetchConfig{Timeout: time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"negative weight", func(c *Config) { c.Weights.Skill = -1 }, "weights.skill"},
		{"all weights zero", func(c *Config) { c.Weights = similarity.Weights{} }, "at least one weight"},
		{"zero interval", func(c *Config) { c.Refresh.Interval = 0 }, "refresh.interval"},
		{"negative timeout", func(c *Config) { c.Refresh.Timeout = -time.Second }, "refresh.timeout"},
		{"zero fetch timeout", func(c *Config) { c.Fetch.Timeout = 0 }, "fetch.timeout"},
		{"negative max terms", func(c *Config) { c.LLM.MaxTerms = -1 }, "llm.max-terms"},
		{"tagger without key", func(c *Config) { c.Refresh.Tagger = true }, "GEMINI_API_KEY"},
		{"postgres source without url", func(c *Config) { c.Refresh.Postgres = true }, "database-url"},
		{"empty vocabulary name", func(c *Config) { c.VocabularyName = "" }, "vocabulary-name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLLMModelConfig(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.LLMModelConfig().GetModel(llm.TierLite))

	cfg.LLM.Model = "gemini-custom"
	assert.Equal(t, "gemini-custom", cfg.LLMModelConfig().GetModel(llm.TierLite))
}
