// Package compat talks to self-hosted servers that expose the OpenAI chat
// completions protocol, such as Ollama, LM Studio, vLLM or llama.cpp.
//
// It uses github.com/sashabaranov/go-openai, whose plain-struct requests are
// tolerant of the partial protocol support these servers offer. Web search
// settings are not forwarded.
package compat

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	ai "github.com/spetersoncode/parley"
)

// DefaultBaseURL is Ollama's OpenAI-compatible endpoint.
const DefaultBaseURL = "http://localhost:11434/v1"

// Client implements ai.ChatProvider against a local server.
type Client struct {
	client *openai.Client
	model  string
}

type clientConfig struct {
	apiKey     string
	httpClient *http.Client
}

// ClientOption configures the client.
type ClientOption func(*clientConfig)

// WithAPIKey sets a bearer token for servers that require one.
func WithAPIKey(key string) ClientOption {
	return func(c *clientConfig) {
		c.apiKey = key
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// New creates a client for the server at baseURL serving model.
// An empty baseURL selects DefaultBaseURL.
func New(baseURL, model string, opts ...ClientOption) *Client {
	var cfg clientConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	config := openai.DefaultConfig(cfg.apiKey)
	config.BaseURL = strings.TrimRight(baseURL, "/")
	if cfg.httpClient != nil {
		config.HTTPClient = cfg.httpClient
	}
	return &Client{client: openai.NewClientWithConfig(config), model: model}
}

func (c *Client) buildRequest(messages []ai.Message, options *ai.Options) openai.ChatCompletionRequest {
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: convertMessages(messages),
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}
	if options.Temperature != nil {
		req.Temperature = float32(*options.Temperature)
	}
	if len(options.Tools) > 0 {
		req.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			req.ToolChoice = string(options.ToolChoice)
		}
	}
	return req
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	resp, err := c.client.CreateChatCompletion(ctx, c.buildRequest(messages, ai.ApplyOptions(opts...)))
	if err != nil {
		return nil, wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, ai.ErrNoChoices
	}

	choice := resp.Choices[0]
	return &ai.Response{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Usage: ai.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
		ToolCalls: extractToolCalls(choice.Message.ToolCalls),
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	req := c.buildRequest(messages, ai.ApplyOptions(opts...))
	req.Stream = true
	req.StreamOptions = &openai.StreamOptions{IncludeUsage: true}

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, wrapError(err)
	}

	ch := make(chan ai.StreamEvent)
	go func() {
		defer close(ch)
		defer stream.Close()

		send := func(ev ai.StreamEvent) bool {
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		var (
			content strings.Builder
			final   ai.Response
			calls   toolCallAccumulator
		)
		for {
			chunk, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				send(ai.StreamEvent{Err: wrapError(err)})
				return
			}

			if chunk.Usage != nil {
				final.Usage = ai.Usage{
					InputTokens:  chunk.Usage.PromptTokens,
					OutputTokens: chunk.Usage.CompletionTokens,
				}
			}
			if len(chunk.Choices) == 0 {
				continue
			}

			choice := chunk.Choices[0]
			if choice.FinishReason != "" {
				final.FinishReason = string(choice.FinishReason)
			}
			calls.add(choice.Delta.ToolCalls)
			if choice.Delta.Content != "" {
				content.WriteString(choice.Delta.Content)
				if !send(ai.StreamEvent{Delta: choice.Delta.Content}) {
					return
				}
			}
		}

		final.Content = content.String()
		final.ToolCalls = calls.result()
		send(ai.StreamEvent{Done: true, Response: &final})
	}()

	return ch, nil
}

var _ ai.ChatProvider = (*Client)(nil)
