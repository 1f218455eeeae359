package agent

import (
	"context"
	"errors"
	"strings"

	ai "github.com/spetersoncode/parley"
)

// ModelClient maps a conversation and tool catalog to a Reply.
//
// Implementations report transport, rate-limit and invalid-request failures
// as errors, preferably parley.CategorizedError so transient ones are retried.
// A reply that fits neither shape is reported with an error wrapping
// ErrMalformedResponse.
type ModelClient interface {
	Next(ctx context.Context, messages []ai.Message, tools []ai.Tool, opts ...ai.Option) (Reply, error)
}

// ModelFunc adapts a function into a ModelClient.
type ModelFunc func(ctx context.Context, messages []ai.Message, tools []ai.Tool, opts ...ai.Option) (Reply, error)

// Next calls f.
func (f ModelFunc) Next(ctx context.Context, messages []ai.Message, tools []ai.Tool, opts ...ai.Option) (Reply, error) {
	return f(ctx, messages, tools, opts...)
}

func withTools(tools []ai.Tool, opts []ai.Option) []ai.Option {
	if len(tools) == 0 {
		return opts
	}
	return append([]ai.Option{ai.WithTools(tools)}, opts...)
}

type providerModel struct {
	provider ai.ChatProvider
}

// FromProvider adapts a ChatProvider using blocking Chat calls.
func FromProvider(p ai.ChatProvider) ModelClient {
	return &providerModel{provider: p}
}

func (m *providerModel) Next(ctx context.Context, messages []ai.Message, tools []ai.Tool, opts ...ai.Option) (Reply, error) {
	resp, err := m.provider.Chat(ctx, messages, withTools(tools, opts)...)
	if err != nil {
		return Reply{}, providerError(err)
	}
	return Classify(resp)
}

// providerError reports a response without choices as malformed.
func providerError(err error) error {
	if errors.Is(err, ai.ErrNoChoices) {
		return malformed("no choices")
	}
	return err
}

type streamingModel struct {
	provider ai.ChatProvider
	onDelta  func(string)
}

// Streaming adapts a ChatProvider using ChatStream, passing each text delta
// to onDelta as it arrives. onDelta may be nil.
func Streaming(p ai.ChatProvider, onDelta func(delta string)) ModelClient {
	return &streamingModel{provider: p, onDelta: onDelta}
}

func (m *streamingModel) Next(ctx context.Context, messages []ai.Message, tools []ai.Tool, opts ...ai.Option) (Reply, error) {
	stream, err := m.provider.ChatStream(ctx, messages, withTools(tools, opts)...)
	if err != nil {
		return Reply{}, providerError(err)
	}

	var text strings.Builder
	var final *ai.Response
	for ev := range stream {
		if ev.Err != nil {
			err := providerError(ev.Err)
			if text.Len() > 0 && m.onDelta != nil {
				// The caller has already shown part of this reply.
				return Reply{}, ai.NewPermanentError("agent: stream failed after output", 0, err)
			}
			return Reply{}, err
		}
		if ev.Delta != "" {
			text.WriteString(ev.Delta)
			if m.onDelta != nil {
				m.onDelta(ev.Delta)
			}
		}
		if ev.Done {
			final = ev.Response
		}
	}

	if err := ctx.Err(); err != nil {
		return Reply{}, err
	}
	if final == nil {
		return Reply{}, malformed("stream ended without a final response")
	}
	if final.Content == "" {
		final.Content = text.String()
	}
	return Classify(final)
}
