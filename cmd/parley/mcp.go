package main

import (
	"context"

	"github.com/spetersoncode/parley/mcp"
	"github.com/spetersoncode/parley/tool/builtin"
)

// runMCP serves the builtin tools to an MCP client over stdin and stdout.
func runMCP(ctx context.Context, a *app, args []string) error {
	fs := a.flags("mcp")
	name := fs.String("name", "parley", "server name reported to clients")
	if err := fs.Parse(args); err != nil {
		return err
	}

	registry := builtin.Registry(builtin.NewSimulatedStatus(nil))
	a.log.Info("serving mcp", "tools", registry.Names())
	return mcp.ServeStdio(ctx, registry, mcp.WithName(*name), mcp.WithLogger(a.log))
}
