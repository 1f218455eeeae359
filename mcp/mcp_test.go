package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/parley"
	"github.com/spetersoncode/parley/tool"
	"github.com/spetersoncode/parley/tool/builtin"
)

type fixedStatus builtin.ServerStatus

func (f fixedStatus) Status(context.Context) (builtin.ServerStatus, error) {
	return builtin.ServerStatus(f), nil
}

func testRegistry() *tool.Registry {
	r := builtin.Registry(fixedStatus{Connections: 42, CPUUsage: "95%", MemoryUsage: "40%"})
	r.Add(tool.Func("fail", "Always fails", func(ctx context.Context, args struct{}) (any, error) {
		return nil, errors.New("disk unavailable")
	}))
	return r
}

// connect starts an in-process client against a server for registry.
func connect(t *testing.T, registry *tool.Registry) *client.Client {
	t.Helper()
	c, err := client.NewInProcessClient(NewServer(registry, WithName("test-server")))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	t.Cleanup(func() { c.Close() })

	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo:      mcp.Implementation{Name: "test-client", Version: "1.0.0"},
		},
	})
	require.NoError(t, err)
	return c
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestToMCPTool(t *testing.T) {
	schema := json.RawMessage(`{"type":"object","properties":{"location":{"type":"string"}}}`)
	mt := ToMCPTool(ai.Tool{Name: "get_current_weather", Description: "weather", Parameters: schema})

	assert.Equal(t, "get_current_weather", mt.Name)
	assert.Equal(t, "weather", mt.Description)
	assert.Equal(t, schema, mt.RawInputSchema)

	back := FromMCPTool(mt)
	assert.Equal(t, schema, back.Parameters)

	assert.Len(t, ToMCPTools([]ai.Tool{{Name: "a"}, {Name: "b"}}), 2)
}

func TestFromMCPToolStructuredSchema(t *testing.T) {
	mt := mcp.NewTool("echo", mcp.WithDescription("Echo"), mcp.WithString("text", mcp.Required()))
	got := FromMCPTool(mt)
	assert.Equal(t, "echo", got.Name)
	assert.Contains(t, string(got.Parameters), `"text"`)
}

func TestCallRequestConversion(t *testing.T) {
	t.Run("to MCP", func(t *testing.T) {
		req := ToMCPCallToolRequest(ai.ToolCall{Name: "w", Arguments: `{"location":"大连"}`})
		assert.Equal(t, map[string]any{"location": "大连"}, req.Params.Arguments)

		req = ToMCPCallToolRequest(ai.ToolCall{Name: "w", Arguments: "not json"})
		assert.Equal(t, "not json", req.Params.Arguments)

		req = ToMCPCallToolRequest(ai.ToolCall{Name: "w"})
		assert.Nil(t, req.Params.Arguments)
	})

	t.Run("from MCP", func(t *testing.T) {
		call, err := FromMCPCallToolRequest(mcp.CallToolRequest{Params: mcp.CallToolParams{Name: "w"}})
		require.NoError(t, err)
		assert.Equal(t, "{}", call.Arguments)

		call, err = FromMCPCallToolRequest(mcp.CallToolRequest{Params: mcp.CallToolParams{
			Name: "w", Arguments: map[string]any{"location": "上海"},
		}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"location":"上海"}`, call.Arguments)
	})
}

func TestCallResultConversion(t *testing.T) {
	call := ai.ToolCall{ID: "c1", Name: "w"}

	r := FromMCPCallToolResult(call, mcp.NewToolResultText("sunny"))
	assert.Equal(t, ai.ToolResult{ToolCallID: "c1", Name: "w", Content: "sunny"}, r)

	r = FromMCPCallToolResult(call, mcp.NewToolResultError("boom"))
	assert.True(t, r.IsError)
	assert.Equal(t, "boom", r.Content)

	assert.True(t, FromMCPCallToolResult(call, nil).IsError)

	assert.True(t, ToMCPCallToolResult(ai.ToolResult{Content: "x", IsError: true}).IsError)
	assert.False(t, ToMCPCallToolResult(ai.ToolResult{Content: "x"}).IsError)
}

func TestServer(t *testing.T) {
	ctx := context.Background()
	c := connect(t, testRegistry())

	t.Run("lists registry tools", func(t *testing.T) {
		listed, err := c.ListTools(ctx, mcp.ListToolsRequest{})
		require.NoError(t, err)
		names := make([]string, len(listed.Tools))
		for i, tl := range listed.Tools {
			names[i] = tl.Name
		}
		assert.ElementsMatch(t, []string{"fail", builtin.StatusToolName, builtin.WeatherToolName}, names)
	})

	t.Run("invokes through the registry", func(t *testing.T) {
		result, err := c.CallTool(ctx, mcp.CallToolRequest{Params: mcp.CallToolParams{
			Name:      builtin.WeatherToolName,
			Arguments: map[string]any{"location": "大连"},
		}})
		require.NoError(t, err)
		assert.False(t, result.IsError)

		var report builtin.WeatherReport
		require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &report))
		assert.Equal(t, 10, report.Temperature)
	})

	t.Run("rejects invalid arguments", func(t *testing.T) {
		result, err := c.CallTool(ctx, mcp.CallToolRequest{Params: mcp.CallToolParams{
			Name:      builtin.WeatherToolName,
			Arguments: map[string]any{"location": 5},
		}})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, textOf(t, result), builtin.WeatherToolName)
	})

	t.Run("reports handler failures as error results", func(t *testing.T) {
		result, err := c.CallTool(ctx, mcp.CallToolRequest{Params: mcp.CallToolParams{Name: "fail"}})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.JSONEq(t, `{"error":"disk unavailable"}`, textOf(t, result))
	})
}

func TestRemoteRegisterInto(t *testing.T) {
	ctx := context.Background()
	c, err := client.NewInProcessClient(NewServer(testRegistry()))
	require.NoError(t, err)

	remote, err := attach(ctx, c)
	require.NoError(t, err)
	defer remote.Close()
	assert.Len(t, remote.Tools(), 3)

	local := tool.NewRegistry()
	require.NoError(t, remote.RegisterInto(local))
	assert.Equal(t, []string{"fail", builtin.StatusToolName, builtin.WeatherToolName}, local.Names())

	result, err := local.Execute(ctx, ai.ToolCall{ID: "c1", Name: builtin.StatusToolName, Arguments: "{}"})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, result.Content, "95%")

	result, err = local.Execute(ctx, ai.ToolCall{ID: "c2", Name: "fail"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content, "disk unavailable")

	// Registering twice collides on names.
	var dup *tool.ErrToolAlreadyRegistered
	assert.ErrorAs(t, remote.RegisterInto(local), &dup)
}
