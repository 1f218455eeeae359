package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	ai "github.com/spetersoncode/parley"
	"github.com/spetersoncode/parley/mcp"
	"github.com/spetersoncode/parley/tool"
)

const defaultSystemPrompt = "You are a helpful assistant."

func runChat(ctx context.Context, a *app, args []string) error {
	fs := a.flags("chat")
	stream := fs.Bool("stream", false, "print the answer as it is generated")
	system := fs.String("system", defaultSystemPrompt, "system prompt")
	mcpServer := fs.String("mcp", "", "`command` of an MCP server whose tools are offered to the model")
	if err := fs.Parse(args); err != nil {
		return err
	}

	prompt := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if prompt == "" {
		return errors.New("chat: missing prompt")
	}

	registry := tool.NewRegistry()
	if *mcpServer != "" {
		fields := strings.Fields(*mcpServer)
		remote, err := mcp.Connect(ctx, fields[0], os.Environ(), fields[1:]...)
		if err != nil {
			return err
		}
		defer remote.Close()
		if err := remote.RegisterInto(registry); err != nil {
			return err
		}
		a.log.Info("mcp tools attached", "tools", registry.Names())
	}

	var onDelta func(string)
	if *stream {
		onDelta = func(d string) { fmt.Fprint(a.out, d) }
	}

	messages := []ai.Message{ai.NewSystemMessage(*system), ai.NewUserMessage(prompt)}
	return a.converse(ctx, "chat", a.model(onDelta), registry, messages, *stream)
}
