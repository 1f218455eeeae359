// Command parley runs the tool-calling, search, vision and game examples
// against a configured model provider.
//
// Usage:
//
//	parley [-config FILE] [-provider NAME] [-model NAME] [-transcripts DB] COMMAND [ARGS]
//
// Run "parley -h" for the list of commands.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

type command struct {
	name    string
	summary string
	// offline commands run without a model client.
	offline bool
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{name: "chat", summary: "send one prompt, optionally streaming or with MCP tools", run: runChat},
	{name: "alert", summary: "analyze operations alerts with the database status tool", run: runAlert},
	{name: "weather", summary: "answer weather questions with function calling", run: runWeather},
	{name: "search", summary: "ask a question with web search augmentation", run: runSearch},
	{name: "vision", summary: "describe an image file or URL", run: runVision},
	{name: "game", summary: "play the apology game", run: runGame},
	{name: "mcp", summary: "serve the builtin tools over MCP stdio", offline: true, run: runMCP},
	{name: "history", summary: "list or show saved transcripts", offline: true, run: runHistory},
}

type globals struct {
	configPath  string
	provider    string
	model       string
	transcripts string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var g globals
	fs := flag.NewFlagSet("parley", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&g.configPath, "config", "", "YAML configuration `file`")
	fs.StringVar(&g.provider, "provider", "", "provider: openai, anthropic, google, dashscope or local")
	fs.StringVar(&g.model, "model", "", "model name")
	fs.StringVar(&g.transcripts, "transcripts", "", "SQLite `file` for saving transcripts")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	cmd, ok := lookup(fs.Arg(0))
	if !ok {
		return fmt.Errorf("unknown command %q", fs.Arg(0))
	}

	a, err := newApp(ctx, g, cmd.offline, stdin, stdout, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	err = cmd.run(ctx, a, fs.Args()[1:])
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "Usage: parley [flags] COMMAND [args]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(out, "  %-9s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Flags:")
	fs.PrintDefaults()
}
