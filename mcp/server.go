package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spetersoncode/parley/tool"
)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
	logger  *slog.Logger
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithLogger sets the logger used for tool call failures.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(c *serverConfig) {
		c.logger = logger
	}
}

// NewServer creates an MCP server that exposes every tool in registry.
//
// Each call goes through the registry exactly as a loop dispatch does:
// arguments are validated against the tool's schema and the handler's
// result is serialized. Invalid arguments and handler failures are
// reported to the client as error results, not protocol errors.
//
//	registry := builtin.Registry(builtin.NewSimulatedStatus(nil))
//	s := mcp.NewServer(registry, mcp.WithName("parley-tools"))
func NewServer(registry *tool.Registry, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "parley",
		version: "1.0.0",
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	log := cfg.logger.With("component", "mcp")
	for _, t := range registry.Tools() {
		s.AddTool(ToMCPTool(t), handlerFor(registry, t.Name, log))
	}
	return s
}

// handlerFor routes an MCP tool call through the registry.
func handlerFor(registry *tool.Registry, name string, log *slog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		call, err := FromMCPCallToolRequest(req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		call.ID = uuid.NewString()
		call.Name = name

		result, err := registry.Execute(ctx, call)
		if err != nil {
			log.Warn("tool call rejected", "tool", name, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		if result.IsError {
			log.Warn("tool failed", "tool", name, "error", result.Content)
		}
		return ToMCPCallToolResult(result), nil
	}
}

// Serve runs an MCP server for registry over the given streams until ctx
// is cancelled or in is closed.
func Serve(ctx context.Context, registry *tool.Registry, in io.Reader, out io.Writer, opts ...ServerOption) error {
	s := server.NewStdioServer(NewServer(registry, opts...))
	err := s.Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// ServeStdio starts an MCP server that communicates over stdin/stdout.
// This is the standard transport for MCP servers invoked as subprocesses.
func ServeStdio(ctx context.Context, registry *tool.Registry, opts ...ServerOption) error {
	return Serve(ctx, registry, os.Stdin, os.Stdout, opts...)
}

