// Package config loads the interview agent configuration from an optional
// YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/llm"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

// Config is the root configuration.
type Config struct {
	AI        AIConfig
	Retry     RetryConfig
	RateLimit RateLimitConfig
	History   HistoryConfig
	Input     InputConfig
	Questions QuestionsConfig
	Log       LogConfig
}

// AIConfig selects the provider and default call settings.
type AIConfig struct {
	Provider    llm.Provider
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	BaseURL     string // OpenAI only
}

// RetryConfig bounds retries of failed model calls.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// RateLimitConfig sizes the sliding window.
type RateLimitConfig struct {
	Calls          int
	Window         time.Duration
	WarningPercent float64
}

// HistoryConfig selects the session store.
type HistoryConfig struct {
	Driver string // sqlite, postgres or none
	DSN    string
	Limit  int
}

// InputConfig bounds job description length.
type InputConfig struct {
	MinLength int
	MaxLength int
}

// QuestionsConfig bounds the question count.
type QuestionsConfig struct {
	Default int
	Max     int
}

// LogConfig selects the logger mode.
type LogConfig struct {
	Mode string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		AI: AIConfig{
			Provider:    llm.ProviderOpenAI,
			Model:       types.DefaultModel,
			Temperature: types.DefaultTemperature,
			MaxTokens:   types.DefaultMaxTokens,
			Timeout:     types.DefaultTimeout,
			BaseURL:     llm.DefaultConfig().BaseURL,
		},
		Retry: RetryConfig{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     10 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Calls:          100,
			Window:         time.Hour,
			WarningPercent: 80,
		},
		History: HistoryConfig{
			Driver: "sqlite",
			DSN:    "interview_history.db",
			Limit:  10,
		},
		Input: InputConfig{
			MinLength: types.MinJobDescriptionLength,
			MaxLength: types.MaxJobDescriptionLength,
		},
		Questions: QuestionsConfig{
			Default: types.DefaultQuestionCount,
			Max:     types.MaxQuestionCount,
		},
		Log: LogConfig{Mode: "production"},
	}
}

// rawConfig is used for YAML unmarshaling (durations as strings, pointers
// to tell absent keys from zero values).
type rawConfig struct {
	AI struct {
		Provider    string   `yaml:"provider"`
		Model       string   `yaml:"model"`
		Temperature *float64 `yaml:"temperature"`
		MaxTokens   *int     `yaml:"max_tokens"`
		Timeout     string   `yaml:"timeout"`
		BaseURL     string   `yaml:"base_url"`
	} `yaml:"ai"`
	Retry struct {
		MaxAttempts  *int   `yaml:"max_attempts"`
		InitialDelay string `yaml:"initial_delay"`
		MaxDelay     string `yaml:"max_delay"`
	} `yaml:"retry"`
	RateLimit struct {
		Calls          *int     `yaml:"calls"`
		Window         string   `yaml:"window"`
		WarningPercent *float64 `yaml:"warning_percent"`
	} `yaml:"rate_limit"`
	History struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
		Limit  *int   `yaml:"limit"`
	} `yaml:"history"`
	Input struct {
		MinLength *int `yaml:"min_length"`
		MaxLength *int `yaml:"max_length"`
	} `yaml:"input"`
	Questions struct {
		Default *int `yaml:"default"`
		Max     *int `yaml:"max"`
	} `yaml:"questions"`
	Log struct {
		Mode string `yaml:"mode"`
	} `yaml:"log"`
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty), and environment overrides, then validates it.
// ${VAR} references in the file are expanded.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		var raw rawConfig
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &raw); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		if err := raw.apply(cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (raw *rawConfig) apply(cfg *Config) error {
	var err error
	if raw.AI.Provider != "" {
		if cfg.AI.Provider, err = llm.ParseProvider(raw.AI.Provider); err != nil {
			return fmt.Errorf("parse ai.provider: %w", err)
		}
	}
	setString(&cfg.AI.Model, raw.AI.Model)
	setFloat(&cfg.AI.Temperature, raw.AI.Temperature)
	setInt(&cfg.AI.MaxTokens, raw.AI.MaxTokens)
	if err := setDuration(&cfg.AI.Timeout, raw.AI.Timeout, "ai.timeout"); err != nil {
		return err
	}
	setString(&cfg.AI.BaseURL, raw.AI.BaseURL)

	setInt(&cfg.Retry.MaxAttempts, raw.Retry.MaxAttempts)
	if err := setDuration(&cfg.Retry.InitialDelay, raw.Retry.InitialDelay, "retry.initial_delay"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Retry.MaxDelay, raw.Retry.MaxDelay, "retry.max_delay"); err != nil {
		return err
	}

	setInt(&cfg.RateLimit.Calls, raw.RateLimit.Calls)
	if err := setDuration(&cfg.RateLimit.Window, raw.RateLimit.Window, "rate_limit.window"); err != nil {
		return err
	}
	setFloat(&cfg.RateLimit.WarningPercent, raw.RateLimit.WarningPercent)

	setString(&cfg.History.Driver, raw.History.Driver)
	setString(&cfg.History.DSN, raw.History.DSN)
	setInt(&cfg.History.Limit, raw.History.Limit)

	setInt(&cfg.Input.MinLength, raw.Input.MinLength)
	setInt(&cfg.Input.MaxLength, raw.Input.MaxLength)
	setInt(&cfg.Questions.Default, raw.Questions.Default)
	setInt(&cfg.Questions.Max, raw.Questions.Max)
	setString(&cfg.Log.Mode, raw.Log.Mode)
	return nil
}

// applyEnv applies environment overrides. lookup is os.LookupEnv outside tests.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("AI_PROVIDER"); ok {
		p, err := llm.ParseProvider(v)
		if err != nil {
			return fmt.Errorf("parse AI_PROVIDER: %w", err)
		}
		cfg.AI.Provider = p
	}
	if v, ok := get("DEFAULT_MODEL"); ok {
		cfg.AI.Model = v
	}
	if v, ok := get("TEMPERATURE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse TEMPERATURE %q: %w", v, err)
		}
		cfg.AI.Temperature = f
	}
	if v, ok := get("MAX_TOKENS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse MAX_TOKENS %q: %w", v, err)
		}
		cfg.AI.MaxTokens = n
	}
	if v, ok := get("AI_TIMEOUT"); ok {
		if err := setDuration(&cfg.AI.Timeout, v, "AI_TIMEOUT"); err != nil {
			return err
		}
	}
	if v, ok := get("OPENAI_BASE_URL"); ok {
		cfg.AI.BaseURL = v
	}
	if v, ok := get("RATE_LIMIT_CALLS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse RATE_LIMIT_CALLS %q: %w", v, err)
		}
		cfg.RateLimit.Calls = n
	}
	if v, ok := get("RATE_LIMIT_WINDOW"); ok {
		if err := setDuration(&cfg.RateLimit.Window, v, "RATE_LIMIT_WINDOW"); err != nil {
			return err
		}
	}
	if v, ok := get("HISTORY_DRIVER"); ok {
		cfg.History.Driver = v
	}
	if v, ok := get("DATABASE_URL"); ok {
		cfg.History.DSN = v
	}
	if v, ok := get("HISTORY_DSN"); ok {
		cfg.History.DSN = v
	}
	if v, ok := get("SESSION_HISTORY_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse SESSION_HISTORY_LIMIT %q: %w", v, err)
		}
		cfg.History.Limit = n
	}
	if v, ok := get("LOG_MODE"); ok {
		cfg.Log.Mode = v
	}
	return nil
}

// Validate checks ranges and cross-field constraints and reports every
// problem at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.AI.Model != "", "ai.model must not be empty")
	check(c.AI.Temperature >= 0 && c.AI.Temperature <= 2, "ai.temperature must be between 0 and 2, got %v", c.AI.Temperature)
	check(c.AI.MaxTokens >= 100 && c.AI.MaxTokens <= 4000, "ai.max_tokens must be between 100 and 4000, got %d", c.AI.MaxTokens)
	check(c.AI.Timeout > 0, "ai.timeout must be positive, got %v", c.AI.Timeout)
	check(c.Retry.MaxAttempts >= 1, "retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	check(c.Retry.InitialDelay >= 0 && c.Retry.MaxDelay >= c.Retry.InitialDelay,
		"retry delays must satisfy 0 <= initial_delay <= max_delay, got %v and %v", c.Retry.InitialDelay, c.Retry.MaxDelay)
	check(c.RateLimit.Calls > 0, "rate_limit.calls must be positive, got %d", c.RateLimit.Calls)
	check(c.RateLimit.Window > 0, "rate_limit.window must be positive, got %v", c.RateLimit.Window)
	check(c.RateLimit.WarningPercent > 0 && c.RateLimit.WarningPercent <= 100,
		"rate_limit.warning_percent must be in (0, 100], got %v", c.RateLimit.WarningPercent)
	switch strings.ToLower(c.History.Driver) {
	case "sqlite", "postgres", "none":
	default:
		errs = append(errs, fmt.Errorf("history.driver must be sqlite, postgres or none, got %q", c.History.Driver))
	}
	check(strings.EqualFold(c.History.Driver, "none") || c.History.DSN != "", "history.dsn must be set for driver %q", c.History.Driver)
	check(c.History.Limit > 0, "history.limit must be positive, got %d", c.History.Limit)
	check(c.Input.MinLength > 0 && c.Input.MaxLength >= c.Input.MinLength,
		"input lengths must satisfy 0 < min_length <= max_length, got %d and %d", c.Input.MinLength, c.Input.MaxLength)
	check(c.Questions.Max >= 1 && c.Questions.Max <= types.MaxQuestionCount,
		"questions.max must be between 1 and %d, got %d", types.MaxQuestionCount, c.Questions.Max)
	check(c.Questions.Default >= 1 && c.Questions.Default <= c.Questions.Max,
		"questions.default must be between 1 and questions.max, got %d", c.Questions.Default)

	if len(errs) > 0 {
		return fmt.Errorf("config error: %w", errors.Join(errs...))
	}
	return nil
}

// AISettings returns the default per-call settings.
func (c *Config) AISettings() types.AISettings {
	return types.AISettings{
		Model:       c.AI.Model,
		Temperature: c.AI.Temperature,
		MaxTokens:   c.AI.MaxTokens,
		Timeout:     c.AI.Timeout,
	}
}

// LLMConfig returns the provider configuration.
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Provider = c.AI.Provider
	if c.AI.BaseURL != "" {
		cfg.BaseURL = c.AI.BaseURL
	}
	return cfg
}

// APIKey returns the provider API key from the environment.
func (c *Config) APIKey() string {
	return strings.TrimSpace(os.Getenv(c.AI.Provider.APIKeyEnv()))
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v, key string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s %q: %w", key, v, err)
	}
	*dst = d
	return nil
}
