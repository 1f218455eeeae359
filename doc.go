// Package parley provides the shared data model for talking to LLM providers
// and driving bounded tool-calling conversations.
//
// The root package defines messages, tool declarations, request options and
// the categorized error model. Provider access lives in
// [github.com/spetersoncode/parley/client], local tools in
// [github.com/spetersoncode/parley/tool], and the conversation loop in
// [github.com/spetersoncode/parley/agent].
//
// # Basic Usage
//
//	c, err := client.New(ctx, client.Config{
//	    Provider: parley.ProviderOpenAI,
//	    APIKey:   os.Getenv("OPENAI_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := c.Chat(ctx, []parley.Message{
//	    parley.NewUserMessage("What is the capital of France?"),
//	})
//
// # Tool Loops
//
// Register local functions and let the loop engine dispatch the model's
// tool calls until it produces a final answer:
//
//	reg := tool.NewRegistry()
//	tool.MustRegisterFunc(reg, "get_current_weather", "Get the weather",
//	    func(ctx context.Context, args WeatherArgs) (any, error) { ... })
//
//	a := agent.New(agent.FromProvider(c), reg)
//	result := a.Run(ctx, messages, agent.WithMaxIterations(5))
//	if result.Err != nil {
//	    log.Printf("aborted: %s", result.Termination)
//	}
//	fmt.Println(result.Answer)
//
// # Web Search
//
// OpenAI-compatible endpoints that support search augmentation accept a
// [SearchConfig]:
//
//	resp, err := c.Chat(ctx, messages, parley.WithSearch(parley.DefaultSearchConfig()))
package parley
