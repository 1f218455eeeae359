package agent

import (
	"log/slog"
	"time"

	ai "github.com/spetersoncode/parley"
)

// DefaultMaxIterations is the iteration cap used when none is given.
const DefaultMaxIterations = 10

// Options contains configuration for a loop run.
type Options struct {
	// MaxIterations caps the number of model requests in one run, retries included.
	// Values below 1 are replaced by DefaultMaxIterations.
	MaxIterations int

	// CallTimeout bounds each model call. A call that times out counts as
	// a transient failure. 0 disables the per-call timeout.
	CallTimeout time.Duration

	// ModelRetries is how many times a transiently failing model call is
	// repeated within the same iteration. Default is 1.
	ModelRetries int

	// RetryDelay is the wait before a retry. Default is 1 second.
	RetryDelay time.Duration

	// ToolTimeout bounds each tool handler. Default is 30 seconds; 0 disables it.
	// An expired handler is reported to the model as an execution error.
	ToolTimeout time.Duration

	// OnEvent receives loop events synchronously. May be nil.
	OnEvent EventHandler

	// Logger receives debug and warning records. Defaults to discarding.
	Logger *slog.Logger

	// ChatOptions are passed through to every model call.
	ChatOptions []ai.Option
}

// Option is a functional option for configuring a run.
type Option func(*Options)

// WithMaxIterations sets the iteration cap.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		o.MaxIterations = n
	}
}

// WithCallTimeout sets the per-call model timeout.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.CallTimeout = d
	}
}

// WithModelRetries sets how many times a transient model failure is retried.
func WithModelRetries(n int) Option {
	return func(o *Options) {
		o.ModelRetries = n
	}
}

// WithRetryDelay sets the wait before retrying a model call.
func WithRetryDelay(d time.Duration) Option {
	return func(o *Options) {
		o.RetryDelay = d
	}
}

// WithToolTimeout sets the timeout for each tool handler.
func WithToolTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ToolTimeout = d
	}
}

// WithEventHandler sets the function receiving loop events.
func WithEventHandler(fn EventHandler) Option {
	return func(o *Options) {
		o.OnEvent = fn
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithChatOptions passes options through to the model client.
func WithChatOptions(opts ...ai.Option) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, opts...)
	}
}

// WithModel is a convenience option to set the model for chat calls.
func WithModel(model string) Option {
	return WithChatOptions(ai.WithModel(model))
}

// WithTemperature is a convenience option to set temperature for chat calls.
func WithTemperature(t float64) Option {
	return WithChatOptions(ai.WithTemperature(t))
}

// WithMaxTokens is a convenience option to set max tokens for chat calls.
func WithMaxTokens(n int) Option {
	return WithChatOptions(ai.WithMaxTokens(n))
}

// ApplyOptions applies functional options to an Options struct with defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		MaxIterations: DefaultMaxIterations,
		ModelRetries:  1,
		RetryDelay:    time.Second,
		ToolTimeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.MaxIterations < 1 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.ModelRetries < 0 {
		o.ModelRetries = 0
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
