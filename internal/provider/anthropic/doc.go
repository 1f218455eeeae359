// Package anthropic adapts the Anthropic Messages API to [parley.ChatProvider].
//
// System messages are collected into the request's system blocks. Tool
// results are sent as user turns carrying tool_result blocks, as the API
// requires.
//
//	client := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"), anthropic.WithModel(anthropic.ClaudeHaiku45))
//	resp, err := client.Chat(ctx, messages)
package anthropic
