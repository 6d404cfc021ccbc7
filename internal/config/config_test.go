package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-matcher/internal/llm"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil, "")
	require.NoError(t, err)

	assert.Equal(t, 0.6, cfg.Matching.Threshold)
	assert.Equal(t, 0.8, cfg.Matching.CriticalBand)
	assert.Equal(t, 0.5, cfg.Matching.RecommendedBand)
	assert.Equal(t, 5*time.Second, cfg.Health.TTL)
	assert.Equal(t, 2*time.Second, cfg.Health.ProbeTimeout)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 8, cfg.Ranking.Concurrency)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 1000, cfg.Cache.MaxEntries)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.LLM.Models.Lite)
}

func TestLoad_YAMLFile(t *testing.T) {
	content := `matching:
  threshold: 0.7
  critical_band: 0.9
health:
  ttl: 30s
ranking:
  concurrency: 2
backend:
  url: http://localhost:5000
`
	path := filepath.Join(t.TempDir(), "matcher.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(nil, path)
	require.NoError(t, err)

	assert.Equal(t, 0.7, cfg.Matching.Threshold)
	assert.Equal(t, 0.9, cfg.Matching.CriticalBand)
	assert.Equal(t, 0.5, cfg.Matching.RecommendedBand)
	assert.Equal(t, 30*time.Second, cfg.Health.TTL)
	assert.Equal(t, 2, cfg.Ranking.Concurrency)
	assert.Equal(t, "http://localhost:5000", cfg.Backend.URL)
}

func TestLoad_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matcher.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server": {"port": 9090}, "log": {"json": true}}`), 0644))

	cfg, err := Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Log.JSON)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("MATCHER_MATCHING_THRESHOLD", "0.75")
	t.Setenv("MATCHER_HEALTH_PROBE_TIMEOUT", "500ms")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("DATABASE_URL", "postgres://localhost/matcher")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SCORING_BACKEND_URL", "http://scorer:5000")

	cfg, err := Load(nil, "")
	require.NoError(t, err)

	assert.Equal(t, 0.75, cfg.Matching.Threshold)
	assert.Equal(t, 500*time.Millisecond, cfg.Health.ProbeTimeout)
	assert.Equal(t, "gemini-key", cfg.LLM.APIKey)
	assert.Equal(t, "postgres://localhost/matcher", cfg.Database.URL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Cache.RedisURL)
	assert.Equal(t, "http://scorer:5000", cfg.Backend.URL)
}

func TestLoad_PrefixedBeatsAlias(t *testing.T) {
	t.Setenv("MATCHER_LLM_API_KEY", "prefixed")
	t.Setenv("GEMINI_API_KEY", "alias")

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.LLM.APIKey)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(nil, "/nonexistent/path/matcher.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matching:\n  threshold: 1.5\n"), 0644))
	_, err = Load(nil, path)
	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "matching.threshold", ce.Field)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg, err := Load(nil, "")
		require.NoError(t, err)
		return *cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"valid", func(*Config) {}, ""},
		{"threshold zero ok", func(c *Config) { c.Matching.Threshold = 0 }, ""},
		{"threshold negative", func(c *Config) { c.Matching.Threshold = -0.1 }, "matching.threshold"},
		{"threshold above one", func(c *Config) { c.Matching.Threshold = 1.01 }, "matching.threshold"},
		{"bands inverted", func(c *Config) { c.Matching.RecommendedBand = 0.9 }, "matching.critical_band"},
		{"critical above one", func(c *Config) { c.Matching.CriticalBand = 1.2 }, "matching.critical_band"},
		{"zero ttl", func(c *Config) { c.Health.TTL = 0 }, "health.ttl"},
		{"negative probe timeout", func(c *Config) { c.Health.ProbeTimeout = -time.Second }, "health.probe_timeout"},
		{"zero concurrency", func(c *Config) { c.Ranking.Concurrency = 0 }, "ranking.concurrency"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ce *ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestLLMConfig_ModelConfig(t *testing.T) {
	cfg := LLMConfig{Models: ModelConfig{Standard: "custom-model"}}.ModelConfig()

	assert.Equal(t, "custom-model", cfg.GetModel(llm.TierStandard))
	assert.Equal(t, llm.DefaultGeminiConfig().GetModel(llm.TierLite), cfg.GetModel(llm.TierLite))
}

func TestRateLimitConfig_Limits(t *testing.T) {
	t.Setenv("MATCHER_RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("MATCHER_RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("MATCHER_RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")

	cfg, err := Load(nil, "")
	require.NoError(t, err)

	limits := cfg.RateLimit.Limits()
	assert.True(t, limits.Enabled)
	assert.Equal(t, 42, limits.DefaultLimit)
	assert.Equal(t, 30*time.Second, limits.DefaultWindow)
	assert.Equal(t, 5*time.Minute, limits.CleanupInterval)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, limits.Whitelist)
	assert.Empty(t, limits.Blacklist)
	assert.NotEmpty(t, limits.EndpointConfigs)

	t.Setenv("MATCHER_RATE_LIMIT_ENABLED", "false")
	cfg, err = Load(nil, "")
	require.NoError(t, err)
	assert.False(t, cfg.RateLimit.Limits().Enabled)

	t.Setenv("MATCHER_RATE_LIMIT_ENABLED", "true")
	t.Setenv("MATCHER_RATE_LIMIT_DEFAULT_LIMIT", "0")
	_, err = Load(nil, "")
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "rate_limit.default_limit", cfgErr.Field)
}
