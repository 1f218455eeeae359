package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	ai "github.com/spetersoncode/parley"
	"github.com/spetersoncode/parley/internal/provider/anthropic"
	"github.com/spetersoncode/parley/internal/provider/compat"
	"github.com/spetersoncode/parley/internal/provider/google"
	"github.com/spetersoncode/parley/internal/provider/openai"
	"github.com/spetersoncode/parley/retry"
)

// DefaultDashScopeModel is used for DashScope when Config.Model is empty.
const DefaultDashScopeModel = "qwen-turbo"

// Config holds everything needed to reach one provider. It is passed
// explicitly; the client never reads the environment.
type Config struct {
	Provider ai.Provider
	APIKey   string
	// BaseURL overrides the provider endpoint. Required for ProviderLocal
	// unless the server listens on compat.DefaultBaseURL.
	BaseURL string
	// Model is the default model. Required for ProviderLocal.
	Model string

	// Retry configures retries of transient errors.
	// If nil, retry.DefaultConfig() is used.
	Retry *retry.Config

	// RequestsPerMinute limits outgoing requests, including retries.
	// Zero means unlimited.
	RequestsPerMinute int

	HTTPClient *http.Client
	Logger     *slog.Logger

	// Events is an optional channel for receiving client operation events.
	// Events are sent non-blocking; if the channel is full, events are dropped.
	Events chan<- Event
}

// ErrMissingAPIKey is returned when a hosted provider has no API key.
type ErrMissingAPIKey struct {
	Provider ai.Provider
}

func (e *ErrMissingAPIKey) Error() string {
	return fmt.Sprintf("client: no API key configured for %s", e.Provider)
}

// ErrNoModel is returned when a provider needs an explicit model and none is set.
type ErrNoModel struct {
	Provider ai.Provider
}

func (e *ErrNoModel) Error() string {
	return fmt.Sprintf("client: no model configured for %s", e.Provider)
}

// ErrUnsupportedProvider is returned for unknown provider names.
type ErrUnsupportedProvider struct {
	Provider ai.Provider
}

func (e *ErrUnsupportedProvider) Error() string {
	return fmt.Sprintf("client: unsupported provider %q", e.Provider)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithDefaultTemperature sets the default temperature for chat requests.
// Per-request options override this default.
func WithDefaultTemperature(t float64) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, ai.WithTemperature(t))
	}
}

// WithDefaultMaxTokens sets the default max tokens for chat requests.
// Per-request options override this default.
func WithDefaultMaxTokens(n int) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, ai.WithMaxTokens(n))
	}
}

// WithDefaultChatOptions sets default options for all chat requests.
// Per-request options override these defaults.
func WithDefaultChatOptions(opts ...ai.Option) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, opts...)
	}
}

// Client is a ChatProvider that adds retries, rate limiting, default
// options and events on top of a provider backend.
type Client struct {
	backend         ai.ChatProvider
	provider        ai.Provider
	model           string
	retryConfig     retry.Config
	limiter         *rate.Limiter
	log             *slog.Logger
	events          chan<- Event
	defaultChatOpts []ai.Option
}

// New creates a client for the configured provider.
func New(ctx context.Context, cfg Config, opts ...ClientOption) (*Client, error) {
	backend, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return Wrap(backend, cfg, opts...), nil
}

func newBackend(ctx context.Context, cfg Config) (ai.ChatProvider, error) {
	if !cfg.Provider.Valid() {
		return nil, &ErrUnsupportedProvider{Provider: cfg.Provider}
	}
	if cfg.Provider.NeedsAPIKey() && cfg.APIKey == "" {
		return nil, &ErrMissingAPIKey{Provider: cfg.Provider}
	}

	switch cfg.Provider {
	case ai.ProviderOpenAI, ai.ProviderDashScope:
		var opts []openai.ClientOption
		baseURL, model := cfg.BaseURL, cfg.Model
		if cfg.Provider == ai.ProviderDashScope {
			if baseURL == "" {
				baseURL = ai.DashScopeBaseURL
			}
			if model == "" {
				model = DefaultDashScopeModel
			}
		}
		if baseURL != "" {
			opts = append(opts, openai.WithBaseURL(baseURL))
		}
		if model != "" {
			opts = append(opts, openai.WithModel(model))
		}
		if cfg.HTTPClient != nil {
			opts = append(opts, openai.WithHTTPClient(cfg.HTTPClient))
		}
		return openai.New(cfg.APIKey, opts...), nil

	case ai.ProviderAnthropic:
		var opts []anthropic.ClientOption
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(cfg.Model))
		}
		if cfg.HTTPClient != nil {
			opts = append(opts, anthropic.WithHTTPClient(cfg.HTTPClient))
		}
		return anthropic.New(cfg.APIKey, opts...), nil

	case ai.ProviderGoogle:
		var opts []google.ClientOption
		if cfg.BaseURL != "" {
			opts = append(opts, google.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Model != "" {
			opts = append(opts, google.WithModel(cfg.Model))
		}
		if cfg.HTTPClient != nil {
			opts = append(opts, google.WithHTTPClient(cfg.HTTPClient))
		}
		c, err := google.New(ctx, cfg.APIKey, opts...)
		if err != nil {
			return nil, fmt.Errorf("client: failed to initialize google: %w", err)
		}
		return c, nil

	case ai.ProviderLocal:
		if cfg.Model == "" {
			return nil, &ErrNoModel{Provider: cfg.Provider}
		}
		var opts []compat.ClientOption
		if cfg.APIKey != "" {
			opts = append(opts, compat.WithAPIKey(cfg.APIKey))
		}
		if cfg.HTTPClient != nil {
			opts = append(opts, compat.WithHTTPClient(cfg.HTTPClient))
		}
		return compat.New(cfg.BaseURL, cfg.Model, opts...), nil
	}
	return nil, &ErrUnsupportedProvider{Provider: cfg.Provider}
}

// Wrap adds the client's retry, rate limiting and events to an existing
// provider. Only the Retry, RequestsPerMinute, Logger, Events, Provider and
// Model fields of cfg are used.
func Wrap(backend ai.ChatProvider, cfg Config, opts ...ClientOption) *Client {
	retryConfig := retry.DefaultConfig()
	if cfg.Retry != nil {
		retryConfig = *cfg.Retry
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &Client{
		backend:     backend,
		provider:    cfg.Provider,
		model:       cfg.Model,
		retryConfig: retryConfig,
		log:         logger.With("component", "client", "provider", string(cfg.Provider)),
		events:      cfg.Events,
	}
	if cfg.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the configured provider.
func (c *Client) Provider() ai.Provider { return c.provider }

// wait blocks until the rate limiter admits one request.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *Client) prepare(opts []ai.Option) ([]ai.Option, string) {
	// Defaults first so per-request options override them.
	merged := append(append([]ai.Option(nil), c.defaultChatOpts...), opts...)
	model := ai.ApplyOptions(merged...).Model
	if model == "" {
		model = c.model
	}
	return merged, model
}

func (c *Client) notify(operation, model string) retry.Notify {
	return func(attempt int, err error, delay time.Duration) {
		c.log.Warn("request failed, retrying",
			"operation", operation, "attempt", attempt, "delay", delay, "error", err)
		c.emit(Event{
			Type:      EventRetry,
			Operation: operation,
			Model:     model,
			Attempt:   attempt,
			Delay:     delay,
			Error:     err,
		})
	}
}

// Chat sends a conversation and returns a complete response.
// Transient errors are retried according to the client's retry configuration.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	opts, model := c.prepare(opts)
	start := time.Now()
	c.emit(Event{Type: EventRequestStart, Operation: "chat", Model: model})

	resp, err := retry.DoNotify(ctx, c.retryConfig, c.notify("chat", model), func(ctx context.Context) (*ai.Response, error) {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		return c.backend.Chat(ctx, messages, opts...)
	})
	if err != nil {
		c.emit(Event{Type: EventRequestError, Operation: "chat", Model: model, Duration: time.Since(start), Error: err})
		return nil, err
	}

	c.log.Debug("chat complete", "model", model, "duration", time.Since(start),
		"input_tokens", resp.Usage.InputTokens, "output_tokens", resp.Usage.OutputTokens)
	c.emit(Event{
		Type:      EventRequestComplete,
		Operation: "chat",
		Model:     model,
		Duration:  time.Since(start),
		Usage:     &resp.Usage,
	})
	return resp, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
// Transient errors are retried while establishing the stream only.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	opts, model := c.prepare(opts)
	start := time.Now()
	c.emit(Event{Type: EventRequestStart, Operation: "chat_stream", Model: model})

	ch, err := retry.DoNotify(ctx, c.retryConfig, c.notify("chat_stream", model), func(ctx context.Context) (<-chan ai.StreamEvent, error) {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		return c.backend.ChatStream(ctx, messages, opts...)
	})
	if err != nil {
		c.emit(Event{Type: EventRequestError, Operation: "chat_stream", Model: model, Duration: time.Since(start), Error: err})
		return nil, err
	}

	c.emit(Event{Type: EventRequestComplete, Operation: "chat_stream", Model: model, Duration: time.Since(start)})
	return ch, nil
}

var _ ai.ChatProvider = (*Client)(nil)
