// Package config loads matcher configuration from defaults, an optional config file
// and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/server/ratelimit"
)

// EnvPrefix prefixes every environment override, e.g. MATCHER_MATCHING_THRESHOLD.
const EnvPrefix = "MATCHER"

// Config is the full matcher configuration.
type Config struct {
	Matching MatchingConfig `mapstructure:"matching"`
	Health   HealthConfig   `mapstructure:"health"`
	Backend  BackendConfig  `mapstructure:"backend"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Ranking  RankingConfig  `mapstructure:"ranking"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Database DatabaseConfig `mapstructure:"database"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Server    ServerConfig    `mapstructure:"server"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

// MatchingConfig holds the match threshold and gap bands.
type MatchingConfig struct {
	Threshold       float64 `mapstructure:"threshold"`
	CriticalBand    float64 `mapstructure:"critical_band"`
	RecommendedBand float64 `mapstructure:"recommended_band"`
}

// HealthConfig tunes the backend health monitor.
type HealthConfig struct {
	TTL          time.Duration `mapstructure:"ttl"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

// BackendConfig points at the remote scoring model. An empty URL disables it.
type BackendConfig struct {
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LLMConfig configures the generative model.
type LLMConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	APIKey  string      `mapstructure:"api_key"`
	Models  ModelConfig `mapstructure:"models"`
}

// ModelConfig names the model per tier.
type ModelConfig struct {
	Lite     string `mapstructure:"lite"`
	Standard string `mapstructure:"standard"`
	Advanced string `mapstructure:"advanced"`
}

// RankingConfig bounds ranking parallelism.
type RankingConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// CacheConfig configures the skill and draft cache. An empty RedisURL keeps it in memory.
type CacheConfig struct {
	RedisURL   string        `mapstructure:"redis_url"`
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// DatabaseConfig points at the outcome store. An empty URL disables historical success.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// FetchConfig configures job posting downloads.
type FetchConfig struct {
	UseBrowser bool          `mapstructure:"use_browser"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// RateLimitConfig sets the per-client API limits. Endpoint limits come from
// ratelimit.DefaultEndpointConfigs.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

// Limits converts the settings for the rate limiter.
func (c RateLimitConfig) Limits() *ratelimit.Config {
	if !c.Enabled {
		return &ratelimit.Config{Enabled: false}
	}
	return &ratelimit.Config{
		Enabled:         true,
		DefaultLimit:    c.DefaultLimit,
		DefaultWindow:   c.DefaultWindow,
		CleanupInterval: c.CleanupInterval,
		Whitelist:       ratelimit.IPSet(c.Whitelist),
		Blacklist:       ratelimit.IPSet(c.Blacklist),
		EndpointConfigs: ratelimit.DefaultEndpointConfigs(),
	}
}

// LogConfig selects the log format.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
}

// conventional environment names accepted besides the prefixed ones
var envAliases = map[string]string{
	"llm.api_key":     "GEMINI_API_KEY",
	"database.url":    "DATABASE_URL",
	"cache.redis_url": "REDIS_URL",
	"backend.url":     "SCORING_BACKEND_URL",
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	models := llm.DefaultGeminiConfig().Models

	v.SetDefault("matching.threshold", 0.6)
	v.SetDefault("matching.critical_band", 0.8)
	v.SetDefault("matching.recommended_band", 0.5)
	v.SetDefault("health.ttl", 5*time.Second)
	v.SetDefault("health.probe_timeout", 2*time.Second)
	v.SetDefault("backend.url", "")
	v.SetDefault("backend.api_key", "")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("llm.enabled", true)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.models.lite", models[llm.TierLite])
	v.SetDefault("llm.models.standard", models[llm.TierStandard])
	v.SetDefault("llm.models.advanced", models[llm.TierAdvanced])
	v.SetDefault("ranking.concurrency", 8)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", 15*time.Minute)
	v.SetDefault("cache.max_entries", 1000)
	v.SetDefault("database.url", "")
	v.SetDefault("fetch.use_browser", false)
	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("server.port", 8080)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_limit", 1000)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
	v.SetDefault("rate_limit.whitelist", []string{})
	v.SetDefault("rate_limit.blacklist", []string{})
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// Load reads configuration into a Config. v may carry bound command line flags; nil
// uses a fresh instance. path is an optional YAML or JSON file.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range envAliases {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, alias); err != nil {
			return nil, fmt.Errorf("binding %s environment variable: %w", alias, err)
		}
	}

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
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
	m := c.Matching
	if m.Threshold < 0 || m.Threshold > 1 {
		return &ConfigError{Field: "matching.threshold", Message: "must be within [0, 1]"}
	}
	if m.RecommendedBand < 0 || m.CriticalBand > 1 || m.RecommendedBand > m.CriticalBand {
		return &ConfigError{Field: "matching.critical_band", Message: "bands must satisfy 0 <= recommended_band <= critical_band <= 1"}
	}

	durations := []struct {
		field string
		value time.Duration
	}{
		{"health.ttl", c.Health.TTL},
		{"health.probe_timeout", c.Health.ProbeTimeout},
		{"backend.timeout", c.Backend.Timeout},
		{"cache.ttl", c.Cache.TTL},
		{"fetch.timeout", c.Fetch.Timeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return &ConfigError{Field: d.field, Message: "must be positive"}
		}
	}

	if c.Ranking.Concurrency < 1 {
		return &ConfigError{Field: "ranking.concurrency", Message: "must be at least 1"}
	}
	if c.Cache.MaxEntries < 1 {
		return &ConfigError{Field: "cache.max_entries", Message: "must be at least 1"}
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "must be a valid TCP port"}
	}
	if rl := c.RateLimit; rl.Enabled {
		if rl.DefaultLimit < 1 {
			return &ConfigError{Field: "rate_limit.default_limit", Message: "must be at least 1"}
		}
		if rl.DefaultWindow <= 0 || rl.CleanupInterval <= 0 {
			return &ConfigError{Field: "rate_limit.default_window", Message: "windows must be positive"}
		}
	}
	return nil
}

// ModelConfig converts the model settings for the llm package.
func (c LLMConfig) ModelConfig() *llm.Config {
	cfg := llm.DefaultGeminiConfig()
	for tier, name := range map[llm.ModelTier]string{
		llm.TierLite:     c.Models.Lite,
		llm.TierStandard: c.Models.Standard,
		llm.TierAdvanced: c.Models.Advanced,
	} {
		if name != "" {
			cfg = cfg.WithModel(tier, name)
		}
	}
	return cfg
}
