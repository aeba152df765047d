// Package config loads the jd-matcher configuration from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/jd-matcher/internal/rewriting"
	"github.com/jonathan/jd-matcher/internal/selection"
	"github.com/jonathan/jd-matcher/internal/skills"
)

// Embedding providers and cache drivers accepted by Validate.
const (
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderHashing = "hashing"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// EnvProduction enables production-only behavior such as secure cookies.
const EnvProduction = "production"

// Config holds the complete jd-matcher configuration.
type Config struct {
	Environment string           `yaml:"environment"`
	Server      ServerConfig     `yaml:"server"`
	Embedding   EmbeddingConfig  `yaml:"embedding"`
	Cache       CacheConfig      `yaml:"cache"`
	Planner     PlannerConfig    `yaml:"planner"`
	Classifier  ClassifierConfig `yaml:"classifier"`
	Rubric      rewriting.Rubric `yaml:"rubric"`
	Rewriter    RewriterConfig   `yaml:"rewriter"`
	Unlock      UnlockConfig     `yaml:"unlock"`
	RateLimit   RateLimitConfig  `yaml:"rate_limit"`
	Log         LogConfig        `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// EmbeddingConfig selects the embedding provider.
type EmbeddingConfig struct {
	Provider     string        `yaml:"provider"` // gemini, openai, hashing
	Model        string        `yaml:"model"`
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"`
	Dimensions   int           `yaml:"dimensions"`
	PrewarmDelay time.Duration `yaml:"prewarm_delay"` // 0 disables prewarming
}

// CacheConfig holds embedding cache settings.
type CacheConfig struct {
	Driver   string        `yaml:"driver"` // none, memory, redis
	Addrs    []string      `yaml:"addrs"`
	Password string        `yaml:"password"`
	TTL      time.Duration `yaml:"ttl"`
	MaxItems int           `yaml:"max_items"`
}

// PlannerConfig holds gap planner settings.
type PlannerConfig struct {
	selection.Config `yaml:",inline"`
	TargetScore      int `yaml:"target_score"`
}

// ClassifierConfig overrides the bucket rules. Order matters: the first
// matching rule wins. Empty keeps the built-in rules.
type ClassifierConfig struct {
	Rules []skills.Rule `yaml:"rules"`
}

// RewriterConfig holds bullet rewriter settings.
type RewriterConfig struct {
	MaxWords int `yaml:"max_words"`
}

// RateLimitConfig holds API rate limit settings.
type RateLimitConfig struct {
	Enabled           bool     `yaml:"enabled"`
	RequestsPerMinute int      `yaml:"requests_per_minute"`
	Burst             int      `yaml:"burst"`
	Whitelist         []string `yaml:"whitelist"` // client IPs that are never limited
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := base()
	cfg.ApplyDefaults()
	return cfg
}

// base holds the defaults that zero values cannot express.
func base() *Config {
	return &Config{
		Planner:   PlannerConfig{Config: selection.DefaultConfig()},
		Rubric:    rewriting.DefaultRubric(),
		RateLimit: RateLimitConfig{Enabled: true},
	}
}

// Load builds the configuration: the YAML file at path (defaults when path is
// empty), then environment overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads a YAML file, expands ${VAR} references and fills defaults.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	data = expandEnvVars(data)

	cfg := base()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = ProviderGemini
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheMemory
	}
	if c.Cache.MaxItems <= 0 {
		c.Cache.MaxItems = 1024
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 24 * time.Hour
	}
	if c.Planner.TargetScore == 0 {
		c.Planner.TargetScore = 80
	}
	if c.Rewriter.MaxWords <= 0 {
		c.Rewriter.MaxWords = rewriting.DefaultMaxWords
	}
	if c.Unlock.ExpirationHours == 0 {
		c.Unlock.ExpirationHours = DefaultUnlockHours
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		c.RateLimit.RequestsPerMinute = 60
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ApplyEnv overlays settings from environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("JDM_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("JDM_EMBEDDING_PROVIDER"); v != "" {
		c.Embedding.Provider = strings.ToLower(v)
	}
	if c.Embedding.APIKey == "" {
		switch c.Embedding.Provider {
		case ProviderGemini:
			c.Embedding.APIKey = os.Getenv("GEMINI_API_KEY")
		case ProviderOpenAI:
			c.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if v := os.Getenv("JDM_REDIS_ADDR"); v != "" {
		c.Cache.Driver = CacheRedis
		c.Cache.Addrs = splitList(v)
	}
	if v := os.Getenv("JDM_UNLOCK_SECRET"); v != "" {
		c.Unlock.Secret = v
	}
	if v := os.Getenv("JDM_PAYMENT_SECRET"); v != "" {
		c.Unlock.PaymentSecret = v
	}
	if v := os.Getenv("JDM_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Embedding.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderHashing:
	default:
		return fmt.Errorf("embedding.provider must be gemini, openai or hashing, got %q", c.Embedding.Provider)
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions must be non-negative, got %d", c.Embedding.Dimensions)
	}
	switch c.Cache.Driver {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("cache.driver must be none, memory or redis, got %q", c.Cache.Driver)
	}
	if err := c.Planner.Validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}
	if _, err := skills.NewClassifier(c.Classifier.Rules); err != nil {
		return fmt.Errorf("classifier.rules: %w", err)
	}
	if c.Planner.TargetScore < 0 || c.Planner.TargetScore > 100 {
		return fmt.Errorf("planner.target_score must be between 0 and 100, got %d", c.Planner.TargetScore)
	}
	if err := c.Rubric.Validate(); err != nil {
		return fmt.Errorf("rubric: %w", err)
	}
	if err := c.Unlock.validate(); err != nil {
		return err
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// BuildPlanner creates the gap planner over the configured bucket rules.
func (c *Config) BuildPlanner() (*selection.Planner, error) {
	classifier, err := skills.NewClassifier(c.Classifier.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}
	return selection.NewPlanner(c.Planner.Config, classifier)
}

// IsProduction reports whether the environment is production.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// envVarRegex matches ${VAR} and ${VAR:-default}.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
