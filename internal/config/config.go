// Package config loads CLI configuration from .env, an optional YAML file
// and environment variables, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ai "github.com/spetersoncode/parley"
	"github.com/spetersoncode/parley/agent"
	"github.com/spetersoncode/parley/client"
	"github.com/spetersoncode/parley/retry"
)

// APIKeys holds one key per hosted provider.
type APIKeys struct {
	OpenAI    string `yaml:"openai"`
	Anthropic string `yaml:"anthropic"`
	Google    string `yaml:"google"`
	DashScope string `yaml:"dashscope"`
	Local     string `yaml:"local"`
}

// Agent holds loop settings.
type Agent struct {
	MaxIterations int           `yaml:"max_iterations"`
	CallTimeout   time.Duration `yaml:"call_timeout"`
	ModelRetries  int           `yaml:"model_retries"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
}

// Config is the resolved CLI configuration.
type Config struct {
	Provider ai.Provider `yaml:"provider"`
	Model    string      `yaml:"model"`
	BaseURL  string      `yaml:"base_url"`
	APIKeys  APIKeys     `yaml:"api_keys"`

	Agent Agent `yaml:"agent"`

	// RequestsPerMinute limits model requests. Zero means unlimited.
	RequestsPerMinute int `yaml:"requests_per_minute"`
	// Temperature is sent with every request when set.
	Temperature *float64 `yaml:"temperature"`

	LogLevel     string `yaml:"log_level"`
	TranscriptDB string `yaml:"transcript_db"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Provider: ai.ProviderOpenAI,
		Agent: Agent{
			MaxIterations: agent.DefaultMaxIterations,
			CallTimeout:   60 * time.Second,
			ModelRetries:  1,
			RetryDelay:    time.Second,
		},
		LogLevel: "warn",
	}
}

// Override adjusts a Config after the environment has been applied.
type Override func(*Config)

// WithProvider selects the provider when p is non-empty.
func WithProvider(p string) Override {
	return func(c *Config) {
		if p != "" {
			c.Provider = ai.Provider(strings.ToLower(p))
		}
	}
}

// WithModel sets the model when m is non-empty.
func WithModel(m string) Override {
	return func(c *Config) {
		if m != "" {
			c.Model = m
		}
	}
}

// WithTranscriptDB sets the transcript database when path is non-empty.
func WithTranscriptDB(path string) Override {
	return func(c *Config) {
		if path != "" {
			c.TranscriptDB = path
		}
	}
}

// Load builds a Config from defaults, then path (if non-empty), then the
// environment, then overrides. A .env file in the working directory is
// loaded first when present. The result is validated.
func Load(path string, overrides ...Override) (*Config, error) {
	_ = godotenv.Load() // Load .env file if present

	cfg := Defaults()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadFile reads YAML from path, expanding ${VAR} references first.
func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Model, "PARLEY_MODEL")
	setString(&c.BaseURL, "PARLEY_BASE_URL")
	setString(&c.APIKeys.OpenAI, "OPENAI_API_KEY")
	setString(&c.APIKeys.Anthropic, "ANTHROPIC_API_KEY")
	setString(&c.APIKeys.Google, "GOOGLE_API_KEY")
	setString(&c.APIKeys.DashScope, "BL_API_KEY")
	setString(&c.APIKeys.DashScope, "DASHSCOPE_API_KEY")
	setString(&c.APIKeys.Local, "LOCAL_API_KEY")
	setString(&c.LogLevel, "PARLEY_LOG_LEVEL")
	setString(&c.TranscriptDB, "PARLEY_TRANSCRIPT_DB")
	if v := os.Getenv("PARLEY_PROVIDER"); v != "" {
		c.Provider = ai.Provider(strings.ToLower(v))
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" && c.Provider == ai.ProviderOpenAI && c.BaseURL == "" {
		c.BaseURL = v
	}

	return errors.Join(
		setInt(&c.Agent.MaxIterations, "PARLEY_MAX_ITERATIONS"),
		setDuration(&c.Agent.CallTimeout, "PARLEY_CALL_TIMEOUT"),
		setInt(&c.Agent.ModelRetries, "PARLEY_MODEL_RETRIES"),
		setDuration(&c.Agent.RetryDelay, "PARLEY_RETRY_DELAY"),
		setInt(&c.RequestsPerMinute, "PARLEY_RPM"),
		setFloat(&c.Temperature, "PARLEY_TEMPERATURE"),
	)
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if !c.Provider.Valid() {
		names := make([]string, 0, len(ai.Providers()))
		for _, p := range ai.Providers() {
			names = append(names, string(p))
		}
		return fmt.Errorf("config: unknown provider %q (must be one of %s)", c.Provider, strings.Join(names, ", "))
	}
	if c.Provider.NeedsAPIKey() && c.APIKey() == "" {
		return fmt.Errorf("config: %s is required for %s provider", keyVar(c.Provider), c.Provider)
	}
	if c.Provider == ai.ProviderLocal {
		if c.BaseURL == "" {
			return errors.New("config: PARLEY_BASE_URL is required for local provider")
		}
		if c.Model == "" {
			return errors.New("config: PARLEY_MODEL is required for local provider")
		}
	}
	if c.Agent.ModelRetries < 0 {
		return errors.New("config: model_retries must not be negative")
	}
	if c.RequestsPerMinute < 0 {
		return errors.New("config: requests_per_minute must not be negative")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// APIKey returns the key for the selected provider.
func (c *Config) APIKey() string {
	switch c.Provider {
	case ai.ProviderOpenAI:
		return c.APIKeys.OpenAI
	case ai.ProviderAnthropic:
		return c.APIKeys.Anthropic
	case ai.ProviderGoogle:
		return c.APIKeys.Google
	case ai.ProviderDashScope:
		return c.APIKeys.DashScope
	case ai.ProviderLocal:
		return c.APIKeys.Local
	}
	return ""
}

// ClientConfig converts c into a client.Config.
// Retries live in the loop engine, so client-level retry is disabled.
func (c *Config) ClientConfig(logger *slog.Logger, httpClient *http.Client) client.Config {
	noRetry := retry.Disabled()
	return client.Config{
		Provider:          c.Provider,
		APIKey:            c.APIKey(),
		BaseURL:           c.BaseURL,
		Model:             c.Model,
		Retry:             &noRetry,
		RequestsPerMinute: c.RequestsPerMinute,
		HTTPClient:        httpClient,
		Logger:            logger,
	}
}

// ClientOptions returns default request options derived from c.
func (c *Config) ClientOptions() []client.ClientOption {
	if c.Temperature == nil {
		return nil
	}
	return []client.ClientOption{client.WithDefaultTemperature(*c.Temperature)}
}

// AgentOptions returns the loop options derived from c.
func (c *Config) AgentOptions(logger *slog.Logger) []agent.Option {
	return []agent.Option{
		agent.WithMaxIterations(c.Agent.MaxIterations),
		agent.WithCallTimeout(c.Agent.CallTimeout),
		agent.WithModelRetries(c.Agent.ModelRetries),
		agent.WithRetryDelay(c.Agent.RetryDelay),
		agent.WithLogger(logger),
	}
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("config: invalid log level %q", s)
	}
	return level, nil
}

func keyVar(p ai.Provider) string {
	if p == ai.ProviderDashScope {
		return "DASHSCOPE_API_KEY"
	}
	return strings.ToUpper(string(p)) + "_API_KEY"
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func setInt(dst *int, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = i
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = d
	return nil
}

func setFloat(dst **float64, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = &f
	return nil
}
