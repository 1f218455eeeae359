package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	ai "github.com/spetersoncode/parley"
	"github.com/spetersoncode/parley/agent"
	"github.com/spetersoncode/parley/client"
	"github.com/spetersoncode/parley/internal/config"
	"github.com/spetersoncode/parley/model"
	"github.com/spetersoncode/parley/store"
	"github.com/spetersoncode/parley/tool"
)

const wrapWidth = 100

// app holds what every command needs.
type app struct {
	cfg         *config.Config
	log         *slog.Logger
	client      *client.Client
	db          *store.SQLiteAdapter
	transcripts *store.Transcripts

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func newApp(ctx context.Context, g globals, offline bool, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	a := &app{in: bufio.NewReader(stdin), out: stdout, errOut: stderr}

	overrides := []config.Override{
		config.WithProvider(g.provider),
		config.WithModel(g.model),
		config.WithTranscriptDB(g.transcripts),
	}
	cfg, err := config.Load(g.configPath, overrides...)
	if err != nil && !offline {
		return nil, err
	}
	if err != nil {
		// Offline commands only need logging and transcripts.
		defaults := config.Defaults()
		cfg = &defaults
		for _, o := range overrides {
			o(cfg)
		}
		if v := os.Getenv("PARLEY_LOG_LEVEL"); v != "" {
			cfg.LogLevel = v
		}
		if v := os.Getenv("PARLEY_TRANSCRIPT_DB"); v != "" && g.transcripts == "" {
			cfg.TranscriptDB = v
		}
	}
	a.cfg = cfg

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	a.log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if cfg.TranscriptDB != "" {
		a.db, err = store.OpenSQLite(ctx, cfg.TranscriptDB)
		if err != nil {
			return nil, err
		}
		a.transcripts = store.NewTranscripts(a.db)
	}

	if !offline {
		a.client, err = client.New(ctx, cfg.ClientConfig(a.log, nil), cfg.ClientOptions()...)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.log.Debug("client ready", "provider", cfg.Provider, "model", cfg.Model)
	}
	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("parley "+name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// agentOptions returns the configured loop options plus a handler that
// prints tool activity.
func (a *app) agentOptions(extra ...agent.Option) []agent.Option {
	opts := a.cfg.AgentOptions(a.log)
	opts = append(opts, agent.WithEventHandler(func(ev agent.Event) {
		switch ev.Type {
		case agent.EventTurnAppended:
			if m := ev.Message; m != nil && len(m.ToolCalls) > 0 {
				call := m.ToolCalls[0]
				fmt.Fprintln(a.out, toolStyle.Render(fmt.Sprintf("→ %s(%s)", call.Name, call.Arguments)))
			}
		case agent.EventToolInvoked:
			if r := ev.ToolResult; r != nil {
				fmt.Fprintln(a.out, toolStyle.Render("← "+r.Content))
			}
		case agent.EventModelRetry:
			fmt.Fprintln(a.out, warnStyle.Render("retrying: "+ev.Error.Error()))
		}
	}))
	return append(opts, extra...)
}

// converse runs one loop, prints the answer unless streamed, and saves
// the transcript.
func (a *app) converse(ctx context.Context, kind string, mc agent.ModelClient, registry *tool.Registry, messages []ai.Message, streamed bool, extra ...agent.Option) error {
	result := agent.New(mc, registry).Run(ctx, messages, a.agentOptions(extra...)...)

	if result.Termination == agent.TerminationFinalAnswer {
		if streamed {
			fmt.Fprintln(a.out)
		} else {
			fmt.Fprintln(a.out, wrap(result.Answer))
		}
	}
	attrs := []any{
		"kind", kind, "termination", result.Termination, "iterations", result.Iterations,
		"input_tokens", result.Usage.InputTokens, "output_tokens", result.Usage.OutputTokens,
	}
	if m, ok := model.Resolve(a.cfg.Provider, a.cfg.Model); ok {
		attrs = append(attrs, "model", m.String(), "cost_usd", m.Cost(result.Usage))
	}
	a.log.Info("conversation finished", attrs...)

	a.save(ctx, store.Transcript{Kind: kind, Messages: result.Messages(), Outcome: string(result.Termination)})

	if result.Termination.Aborted() {
		return fmt.Errorf("%s: %w", result.Termination, result.Err)
	}
	return nil
}

// save stores t when a transcript database is configured.
// Failures are logged and otherwise ignored. The write outlives a cancelled
// ctx so an interrupted session is still recorded.
func (a *app) save(ctx context.Context, t store.Transcript) {
	if a.transcripts == nil {
		return
	}
	id, err := a.transcripts.Save(context.WithoutCancel(ctx), t)
	if err != nil {
		a.log.Warn("saving transcript failed", "error", err)
		return
	}
	fmt.Fprintln(a.out, dimStyle.Render("transcript "+id))
}

// model returns a model client over the configured provider, streaming
// deltas to onDelta when it is non-nil.
func (a *app) model(onDelta func(string)) agent.ModelClient {
	if onDelta != nil {
		return agent.Streaming(a.client, onDelta)
	}
	return agent.FromProvider(a.client)
}
