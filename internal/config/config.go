// Package config builds the process configuration once at start-up.
// Values come from the environment, optionally seeded from .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ANTHROPIC_API_KEY       = "ANTHROPIC_API_KEY"
	ANTHROPIC_MODEL         = "ANTHROPIC_MODEL"
	ANTHROPIC_MAX_TOKENS    = "ANTHROPIC_MAX_TOKENS"
	ANTHROPIC_BASE_URL      = "ANTHROPIC_BASE_URL"
	GOOGLE_CREDENTIALS_FILE = "GOOGLE_CREDENTIALS_FILE"
	ANALYTICS_DAYS          = "ANALYTICS_DAYS"
	LEADS_DSN               = "LEADS_DSN"
	LOG_LEVEL               = "LOG_LEVEL"
	LOG_DEVELOPMENT         = "LOG_DEVELOPMENT"
	SERVER_ADDR             = "SERVER_ADDR"
	GIN_MODE                = "GIN_MODE"
	USER_AGENT              = "USER_AGENT"
	PAGE_TIMEOUT            = "PAGE_TIMEOUT"
	CHECK_TIMEOUT           = "CHECK_TIMEOUT"
	CACHE_TTL               = "CACHE_TTL"
	RATE_LIMIT_RPS          = "RATE_LIMIT_RPS"
	RATE_LIMIT_BURST        = "RATE_LIMIT_BURST"
)

// DefaultEnvFiles are read in order when present. Earlier files and the real
// environment win over later files.
var DefaultEnvFiles = []string{".env.development", ".env"}

// Config holds every setting. Components receive the parts they need at construction.
type Config struct {
	AnthropicAPIKey       string        `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicModel        string        `mapstructure:"ANTHROPIC_MODEL"`
	AnthropicMaxTokens    int           `mapstructure:"ANTHROPIC_MAX_TOKENS"`
	AnthropicBaseURL      string        `mapstructure:"ANTHROPIC_BASE_URL"`
	GoogleCredentialsFile string        `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	AnalyticsDays         int           `mapstructure:"ANALYTICS_DAYS"`
	LeadsDSN              string        `mapstructure:"LEADS_DSN"`
	LogLevel              string        `mapstructure:"LOG_LEVEL"`
	LogDevelopment        bool          `mapstructure:"LOG_DEVELOPMENT"`
	ServerAddr            string        `mapstructure:"SERVER_ADDR"`
	GinMode               string        `mapstructure:"GIN_MODE"`
	UserAgent             string        `mapstructure:"USER_AGENT"`
	PageTimeout           time.Duration `mapstructure:"PAGE_TIMEOUT"`
	CheckTimeout          time.Duration `mapstructure:"CHECK_TIMEOUT"`
	CacheTTL              time.Duration `mapstructure:"CACHE_TTL"`
	RateLimitRPS          float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst        int           `mapstructure:"RATE_LIMIT_BURST"`
}

// Load reads the given env files (DefaultEnvFiles when none are passed),
// then the environment, and validates the result. Missing files are skipped.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = DefaultEnvFiles
	}

	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ANTHROPIC_API_KEY, "")
	v.SetDefault(ANTHROPIC_MODEL, "claude-sonnet-4-20250514")
	v.SetDefault(ANTHROPIC_MAX_TOKENS, 2000)
	v.SetDefault(ANTHROPIC_BASE_URL, "https://api.anthropic.com")
	v.SetDefault(GOOGLE_CREDENTIALS_FILE, "")
	v.SetDefault(ANALYTICS_DAYS, 28)
	v.SetDefault(LEADS_DSN, "")
	v.SetDefault(LOG_LEVEL, "info")
	v.SetDefault(LOG_DEVELOPMENT, false)
	v.SetDefault(SERVER_ADDR, ":8082")
	v.SetDefault(GIN_MODE, "release")
	v.SetDefault(USER_AGENT, "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault(PAGE_TIMEOUT, 10*time.Second)
	v.SetDefault(CHECK_TIMEOUT, 5*time.Second)
	v.SetDefault(CACHE_TTL, 30*time.Minute)
	v.SetDefault(RATE_LIMIT_RPS, 2.0)
	v.SetDefault(RATE_LIMIT_BURST, 5)
}

// Validate rejects values no component can work with.
func (c Config) Validate() error {
	var errs []error

	if c.AnthropicMaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", ANTHROPIC_MAX_TOKENS))
	}
	if c.AnalyticsDays <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", ANALYTICS_DAYS))
	}
	if c.PageTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", PAGE_TIMEOUT))
	}
	if c.CheckTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", CHECK_TIMEOUT))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", CACHE_TTL))
	}
	if c.RateLimitRPS < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", RATE_LIMIT_RPS))
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive when %s is set", RATE_LIMIT_BURST, RATE_LIMIT_RPS))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}
