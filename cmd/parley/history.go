package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	ai "github.com/spetersoncode/parley"
)

// runHistory lists saved transcripts, or prints one when given its ID.
func runHistory(ctx context.Context, a *app, args []string) error {
	fs := a.flags("history")
	limit := fs.Int("n", 20, "number of transcripts to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if a.transcripts == nil {
		return errors.New("history: no transcript database; use -transcripts or PARLEY_TRANSCRIPT_DB")
	}

	if fs.NArg() > 0 {
		t, err := a.transcripts.Load(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, headerStyle.Render(fmt.Sprintf("%s %s", t.Kind, t.Outcome)))
		for _, m := range t.Messages {
			printMessage(a, m)
		}
		return nil
	}

	list, err := a.transcripts.List(ctx)
	if err != nil {
		return err
	}
	for i, t := range list {
		if i == *limit {
			break
		}
		line := fmt.Sprintf("%s  %-7s %-18s %2d messages", t.CreatedAt.Local().Format("2006-01-02 15:04"), t.Kind, t.Outcome, len(t.Messages))
		if t.Score != nil {
			line += fmt.Sprintf("  score %d", *t.Score)
		}
		fmt.Fprintln(a.out, t.ID, dimStyle.Render(line))
	}
	return nil
}

func printMessage(a *app, m ai.Message) {
	role := titleStyle.Render(string(m.Role) + ":")
	switch {
	case len(m.ToolCalls) > 0:
		call := m.ToolCalls[0]
		fmt.Fprintln(a.out, role, toolStyle.Render(fmt.Sprintf("→ %s(%s)", call.Name, call.Arguments)))
	case len(m.ToolResults) > 0:
		fmt.Fprintln(a.out, role, toolStyle.Render("← "+m.ToolResults[0].Content))
	case len(m.Parts) > 0:
		var texts []string
		for _, p := range m.Parts {
			if p.Type == ai.ContentPartTypeText {
				texts = append(texts, p.Text)
			} else {
				texts = append(texts, "[image]")
			}
		}
		fmt.Fprintln(a.out, role, wrap(strings.Join(texts, " ")))
	default:
		fmt.Fprintln(a.out, role, wrap(m.Content))
	}
}
