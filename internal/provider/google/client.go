// Package google adapts the Gemini API to [parley.ChatProvider] through
// google.golang.org/genai.
package google

import (
	"context"
	"net/http"
	"strings"

	ai "github.com/spetersoncode/parley"
	"google.golang.org/genai"
)

const (
	Gemini25Flash = "gemini-2.5-flash"
	Gemini25Pro   = "gemini-2.5-pro"

	// DefaultModel is used when neither the client nor the request names a model.
	DefaultModel = Gemini25Flash
)

// Client wraps the Google GenAI SDK to implement ai.ChatProvider.
type Client struct {
	client *genai.Client
	model  string
}

type clientConfig struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures the Google client.
type ClientOption func(*clientConfig)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *clientConfig) {
		c.model = model
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// New creates a new Google GenAI client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	cfg := clientConfig{model: DefaultModel}
	for _, opt := range opts {
		opt(&cfg)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  cfg.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.baseURL},
	})
	if err != nil {
		return nil, err
	}
	return &Client{client: client, model: cfg.model}, nil
}

func (c *Client) buildRequest(messages []ai.Message, options *ai.Options) (string, []*genai.Content, *genai.GenerateContentConfig, error) {
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	contents, system, err := convertMessages(messages)
	if err != nil {
		return "", nil, nil, err
	}

	config := &genai.GenerateContentConfig{SystemInstruction: system}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}
	if len(options.Tools) > 0 {
		config.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			config.ToolConfig = convertToolChoice(options.ToolChoice)
		}
	}
	return model, contents, config, nil
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	model, contents, config, err := c.buildRequest(messages, ai.ApplyOptions(opts...))
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, wrapError(err)
	}
	if err := blocked(resp); err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 {
		return nil, ai.ErrNoChoices
	}

	var parts []*genai.Part
	if resp.Candidates[0].Content != nil {
		parts = resp.Candidates[0].Content.Parts
	}
	return &ai.Response{
		Content:      joinText(parts),
		FinishReason: string(resp.Candidates[0].FinishReason),
		Usage:        usageOf(resp),
		ToolCalls:    extractToolCalls(parts),
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	model, contents, config, err := c.buildRequest(messages, ai.ApplyOptions(opts...))
	if err != nil {
		return nil, err
	}

	ch := make(chan ai.StreamEvent)
	go func() {
		defer close(ch)

		send := func(ev ai.StreamEvent) bool {
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		var (
			final    ai.Response
			allParts []*genai.Part
			chunks   int
		)
		for resp, err := range c.client.Models.GenerateContentStream(ctx, model, contents, config) {
			if err != nil {
				send(ai.StreamEvent{Err: wrapError(err)})
				return
			}
			if err := blocked(resp); err != nil {
				send(ai.StreamEvent{Err: err})
				return
			}
			chunks++

			if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
				for _, part := range resp.Candidates[0].Content.Parts {
					allParts = append(allParts, part)
					if part.Text != "" && !send(ai.StreamEvent{Delta: part.Text}) {
						return
					}
				}
				final.FinishReason = string(resp.Candidates[0].FinishReason)
			}
			if resp.UsageMetadata != nil {
				final.Usage = usageOf(resp)
			}
		}

		if chunks == 0 {
			send(ai.StreamEvent{Err: ai.ErrNoChoices})
			return
		}

		final.Content = joinText(allParts)
		final.ToolCalls = extractToolCalls(allParts)
		send(ai.StreamEvent{Done: true, Response: &final})
	}()

	return ch, nil
}

func joinText(parts []*genai.Part) string {
	var b strings.Builder
	for _, part := range parts {
		if part.Text != "" && !part.Thought {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

func usageOf(resp *genai.GenerateContentResponse) ai.Usage {
	if resp.UsageMetadata == nil {
		return ai.Usage{}
	}
	return ai.Usage{
		InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
		OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
	}
}

var _ ai.ChatProvider = (*Client)(nil)
