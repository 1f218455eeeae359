package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	ai "github.com/spetersoncode/parley"
	"github.com/spetersoncode/parley/tool"
)

// Remote is a connection to an external MCP server.
type Remote struct {
	client *client.Client
	tools  []ai.Tool
}

// Connect launches command as an MCP server subprocess and lists its tools.
func Connect(ctx context.Context, command string, env []string, args ...string) (*Remote, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("mcp: start %s: %w", command, err)
	}
	return attach(ctx, c)
}

// attach starts and initializes c, then fetches its tool list.
func attach(ctx context.Context, c *client.Client) (*Remote, error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("mcp: start client: %w", err)
	}

	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "parley",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("mcp: initialize: %w", err)
	}

	listed, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("mcp: list tools: %w", err)
	}

	r := &Remote{client: c, tools: make([]ai.Tool, len(listed.Tools))}
	for i, t := range listed.Tools {
		r.tools[i] = FromMCPTool(t)
	}
	return r, nil
}

// Tools returns the tools advertised by the server.
func (r *Remote) Tools() []ai.Tool {
	return append([]ai.Tool(nil), r.tools...)
}

// Call invokes a tool on the server. Transport failures are returned as
// errors; failures reported by the tool come back as an error ToolResult.
func (r *Remote) Call(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error) {
	result, err := r.client.CallTool(ctx, ToMCPCallToolRequest(call))
	if err != nil {
		return ai.ToolResult{}, fmt.Errorf("mcp: call %s: %w", call.Name, err)
	}
	return FromMCPCallToolResult(call, result), nil
}

// RegisterInto adds every remote tool to registry. Calls are forwarded to
// the server after the registry has validated the arguments.
func (r *Remote) RegisterInto(registry *tool.Registry) error {
	for _, t := range r.tools {
		name := t.Name
		handler := func(ctx context.Context, args json.RawMessage) (any, error) {
			result, err := r.Call(ctx, ai.ToolCall{Name: name, Arguments: string(args)})
			if err != nil {
				return nil, err
			}
			if result.IsError {
				return nil, errors.New(result.Content)
			}
			return result.Content, nil
		}
		if err := registry.Register(t, handler); err != nil {
			return err
		}
	}
	return nil
}

// Close stops the server connection.
func (r *Remote) Close() error {
	return r.client.Close()
}
