package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/parley"
	"github.com/spetersoncode/parley/retry"
)

// stubProvider returns queued results in order.
type stubProvider struct {
	errs     []error
	resp     *ai.Response
	calls    int
	lastOpts *ai.Options
}

func (s *stubProvider) next(opts []ai.Option) error {
	s.lastOpts = ai.ApplyOptions(opts...)
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return err
	}
	return nil
}

func (s *stubProvider) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	if err := s.next(opts); err != nil {
		return nil, err
	}
	return s.resp, nil
}

func (s *stubProvider) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	if err := s.next(opts); err != nil {
		return nil, err
	}
	ch := make(chan ai.StreamEvent, 1)
	ch <- ai.StreamEvent{Done: true, Response: s.resp}
	close(ch)
	return ch, nil
}

func fastRetry() *retry.Config {
	cfg := retry.Retries(2, time.Millisecond)
	return &cfg
}

func drain(events chan Event) []EventType {
	var types []EventType
	for {
		select {
		case e := <-events:
			types = append(types, e.Type)
		default:
			return types
		}
	}
}

func TestNewValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown provider", func(t *testing.T) {
		_, err := New(ctx, Config{Provider: "mystery"})
		var target *ErrUnsupportedProvider
		require.ErrorAs(t, err, &target)
		assert.Equal(t, `client: unsupported provider "mystery"`, err.Error())
	})

	t.Run("hosted provider without key", func(t *testing.T) {
		for _, p := range []ai.Provider{ai.ProviderOpenAI, ai.ProviderAnthropic, ai.ProviderGoogle, ai.ProviderDashScope} {
			_, err := New(ctx, Config{Provider: p})
			var target *ErrMissingAPIKey
			require.ErrorAs(t, err, &target, p)
			assert.Equal(t, p, target.Provider)
		}
	})

	t.Run("local without model", func(t *testing.T) {
		_, err := New(ctx, Config{Provider: ai.ProviderLocal})
		var target *ErrNoModel
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "client: no model configured for local", err.Error())
	})

	t.Run("builds every provider", func(t *testing.T) {
		for _, p := range []ai.Provider{ai.ProviderOpenAI, ai.ProviderAnthropic, ai.ProviderDashScope} {
			c, err := New(ctx, Config{Provider: p, APIKey: "test-key"})
			require.NoError(t, err, p)
			assert.Equal(t, p, c.Provider())
		}
		c, err := New(ctx, Config{Provider: ai.ProviderLocal, Model: "qwen2.5:7b"})
		require.NoError(t, err)
		assert.Equal(t, ai.ProviderLocal, c.Provider())
	})
}

func TestNewDashScopeUsesCompatibleEndpoint(t *testing.T) {
	var path string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","created":1,"model":"qwen-turbo","choices":[{"index":0,"message":{"role":"assistant","content":"你好"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c, err := New(context.Background(), Config{
		Provider: ai.ProviderDashScope,
		APIKey:   "sk-test",
		BaseURL:  srv.URL + "/v1/",
		Retry:    fastRetry(),
	})
	require.NoError(t, err)

	resp, err := c.Chat(context.Background(), []ai.Message{ai.NewUserMessage("你好")})
	require.NoError(t, err)
	assert.Equal(t, "你好", resp.Content)
	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, DefaultDashScopeModel, body["model"])
}

func TestChatRetriesTransientErrors(t *testing.T) {
	stub := &stubProvider{
		errs: []error{ai.NewTransientError("openai: server error", 503, nil)},
		resp: &ai.Response{Content: "ok", Usage: ai.Usage{InputTokens: 5, OutputTokens: 1}},
	}
	events := make(chan Event, 10)
	c := Wrap(stub, Config{Provider: ai.ProviderOpenAI, Retry: fastRetry(), Events: events})

	resp, err := c.Chat(context.Background(), []ai.Message{ai.NewUserMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 2, stub.calls)
	assert.Equal(t, []EventType{EventRequestStart, EventRetry, EventRequestComplete}, drain(events))
}

func TestChatDoesNotRetryPermanentErrors(t *testing.T) {
	denied := ai.NewPermanentError("openai: invalid API key", 401, nil)
	stub := &stubProvider{errs: []error{denied}}
	events := make(chan Event, 10)
	c := Wrap(stub, Config{Retry: fastRetry(), Events: events})

	_, err := c.Chat(context.Background(), []ai.Message{ai.NewUserMessage("hi")})
	assert.Same(t, denied, err)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, []EventType{EventRequestStart, EventRequestError}, drain(events))
}

func TestChatGivesUpAfterMaxAttempts(t *testing.T) {
	boom := ai.NewTransientError("openai: rate limit exceeded", 429, nil)
	stub := &stubProvider{errs: []error{boom, boom, boom, boom}}
	c := Wrap(stub, Config{Retry: fastRetry()})

	_, err := c.Chat(context.Background(), []ai.Message{ai.NewUserMessage("hi")})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, stub.calls)
	assert.Equal(t, ai.FailureRateLimited, ai.FailureOf(err))
}

func TestDefaultOptions(t *testing.T) {
	stub := &stubProvider{resp: &ai.Response{Content: "ok"}}
	c := Wrap(stub, Config{Model: "qwen-plus"}, WithDefaultTemperature(0.2), WithDefaultMaxTokens(64))

	_, err := c.Chat(context.Background(), []ai.Message{ai.NewUserMessage("hi")}, ai.WithTemperature(0.9))
	require.NoError(t, err)
	require.NotNil(t, stub.lastOpts.Temperature)
	assert.Equal(t, 0.9, *stub.lastOpts.Temperature)
	assert.Equal(t, 64, stub.lastOpts.MaxTokens)
	assert.Equal(t, "", stub.lastOpts.Model)
}

func TestChatStream(t *testing.T) {
	stub := &stubProvider{
		errs: []error{errors.New("dial tcp: refused")},
		resp: &ai.Response{Content: "done"},
	}
	c := Wrap(stub, Config{Retry: fastRetry()})

	// Uncategorized errors are not retried.
	_, err := c.ChatStream(context.Background(), []ai.Message{ai.NewUserMessage("hi")})
	require.Error(t, err)

	ch, err := c.ChatStream(context.Background(), []ai.Message{ai.NewUserMessage("hi")})
	require.NoError(t, err)
	ev := <-ch
	assert.True(t, ev.Done)
	assert.Equal(t, "done", ev.Response.Content)
}

func TestRateLimiterHonorsContext(t *testing.T) {
	stub := &stubProvider{resp: &ai.Response{Content: "ok"}}
	c := Wrap(stub, Config{RequestsPerMinute: 1, Retry: fastRetry()})

	_, err := c.Chat(context.Background(), []ai.Message{ai.NewUserMessage("first")})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Chat(ctx, []ai.Message{ai.NewUserMessage("second")})
	require.Error(t, err)
	assert.Equal(t, 1, stub.calls)
}

func TestEmitDropsWhenFull(t *testing.T) {
	events := make(chan Event, 1)
	c := Wrap(&stubProvider{resp: &ai.Response{Content: "ok"}}, Config{Provider: ai.ProviderLocal, Events: events})

	c.emit(Event{Type: EventRequestStart})
	c.emit(Event{Type: EventRequestComplete})

	e := <-events
	assert.Equal(t, EventRequestStart, e.Type)
	assert.Equal(t, ai.ProviderLocal, e.Provider)
	assert.False(t, e.Timestamp.IsZero())
	assert.Empty(t, events)
}
