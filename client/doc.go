// Package client provides the model client used by tools, the loop engine
// and the CLI.
//
// A Client is built from an explicit Config naming one provider. It wraps
// the provider adapter with:
//
//   - retries of transient errors with exponential backoff (see package retry)
//   - client-side rate limiting in requests per minute
//   - default request options such as temperature
//   - non-blocking operation events on an optional channel
//
// # Basic Usage
//
//	c, err := client.New(ctx, client.Config{
//	    Provider: parley.ProviderDashScope,
//	    APIKey:   os.Getenv("DASHSCOPE_API_KEY"),
//	    Model:    "qwen-plus",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := c.Chat(ctx, []parley.Message{parley.NewUserMessage("Hello!")})
//
// # Local Models
//
// Self-hosted OpenAI-compatible servers need a model name and usually no key:
//
//	c, err := client.New(ctx, client.Config{
//	    Provider: parley.ProviderLocal,
//	    BaseURL:  "http://localhost:11434/v1",
//	    Model:    "qwen2.5:7b",
//	})
//
// # Events
//
//	events := make(chan client.Event, 100)
//	c, _ := client.New(ctx, client.Config{..., Events: events})
//	go func() {
//	    for e := range events {
//	        log.Printf("[%s] %s %s", e.Type, e.Operation, e.Duration)
//	    }
//	}()
//
// # Wrapping an Existing Provider
//
// Wrap adds the same behavior to any ai.ChatProvider:
//
//	c := client.Wrap(myProvider, client.Config{RequestsPerMinute: 60})
package client
