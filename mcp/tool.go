// Package mcp connects tool registries to the Model Context Protocol.
//
// NewServer and ServeStdio expose a [tool.Registry] to MCP clients such as
// desktop assistants. Connect goes the other way: it attaches to an external
// MCP server and registers its tools into a local registry so the loop
// engine can call them.
//
//	registry := builtin.Registry(builtin.NewSimulatedStatus(nil))
//	if err := mcp.ServeStdio(ctx, registry); err != nil {
//	    log.Fatal(err)
//	}
package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	ai "github.com/spetersoncode/parley"
)

// ToMCPTool converts a Tool to an MCP Tool.
// Tool.Parameters is used as the MCP tool's raw input schema.
func ToMCPTool(t ai.Tool) mcp.Tool {
	return mcp.NewToolWithRawSchema(t.Name, t.Description, t.Parameters)
}

// ToMCPTools converts a slice of Tools to MCP Tools.
func ToMCPTools(tools []ai.Tool) []mcp.Tool {
	result := make([]mcp.Tool, len(tools))
	for i, t := range tools {
		result[i] = ToMCPTool(t)
	}
	return result
}

// FromMCPTool converts an MCP Tool to a Tool.
// It uses RawInputSchema when set and the structured InputSchema otherwise.
func FromMCPTool(t mcp.Tool) ai.Tool {
	schema := t.RawInputSchema
	if len(schema) == 0 {
		if data, err := json.Marshal(t.InputSchema); err == nil {
			schema = data
		}
	}
	return ai.Tool{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  schema,
	}
}

// FromMCPCallToolRequest converts an MCP call into a ToolCall.
// Absent arguments become "{}".
func FromMCPCallToolRequest(req mcp.CallToolRequest) (ai.ToolCall, error) {
	call := ai.ToolCall{Name: req.Params.Name, Arguments: "{}"}
	if req.Params.Arguments == nil {
		return call, nil
	}
	data, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		return call, fmt.Errorf("mcp: marshal arguments: %w", err)
	}
	call.Arguments = string(data)
	return call, nil
}

// ToMCPCallToolRequest converts a ToolCall to an MCP CallToolRequest.
// Arguments that are not valid JSON are sent as a plain string.
func ToMCPCallToolRequest(call ai.ToolCall) mcp.CallToolRequest {
	var args any
	if strings.TrimSpace(call.Arguments) != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			args = call.Arguments
		}
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      call.Name,
			Arguments: args,
		},
	}
}

// FromMCPCallToolResult converts an MCP CallToolResult to a ToolResult.
// Text content is joined with newlines; other content is included as JSON.
func FromMCPCallToolResult(call ai.ToolCall, result *mcp.CallToolResult) ai.ToolResult {
	out := ai.ToolResult{ToolCallID: call.ID, Name: call.Name}
	if result == nil {
		out.IsError = true
		return out
	}

	var parts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				parts = append(parts, string(data))
			}
		}
	}
	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			parts = append(parts, string(data))
		}
	}

	out.Content = strings.Join(parts, "\n")
	out.IsError = result.IsError
	return out
}

// ToMCPCallToolResult converts a ToolResult to an MCP CallToolResult.
func ToMCPCallToolResult(result ai.ToolResult) *mcp.CallToolResult {
	if result.IsError {
		return mcp.NewToolResultError(result.Content)
	}
	return mcp.NewToolResultText(result.Content)
}
