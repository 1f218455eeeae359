package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	ai "github.com/spetersoncode/parley"
	"github.com/spetersoncode/parley/agent"
)

func runSearch(ctx context.Context, a *app, args []string) error {
	defaults := ai.DefaultSearchConfig()
	fs := a.flags("search")
	engine := fs.String("engine", defaults.Engine, "search engine: bing or google")
	freshness := fs.String("freshness", defaults.Freshness, "result age: day, week or month")
	depth := fs.Int("depth", defaults.Depth, "search depth, 1-3")
	maxResults := fs.Int("max-results", defaults.MaxResults, "maximum results to use")
	filter := fs.String("filter", "", "result filter, e.g. site:techcrunch.com")
	language := fs.String("language", defaults.Language, "result language")
	region := fs.String("region", defaults.Region, "result region")
	if err := fs.Parse(args); err != nil {
		return err
	}

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		return errors.New("search: missing query")
	}
	if !slices.Contains([]string{"bing", "google"}, *engine) {
		return fmt.Errorf("search: unknown engine %q", *engine)
	}
	if !slices.Contains([]string{"day", "week", "month"}, *freshness) {
		return fmt.Errorf("search: unknown freshness %q", *freshness)
	}
	if *depth < 1 || *depth > 3 {
		return fmt.Errorf("search: depth must be between 1 and 3, got %d", *depth)
	}

	search := defaults.Merge(ai.SearchConfig{
		Engine:     *engine,
		Freshness:  *freshness,
		Depth:      *depth,
		MaxResults: *maxResults,
		Filter:     *filter,
		Language:   *language,
		Region:     *region,
	})

	switch a.cfg.Provider {
	case ai.ProviderOpenAI, ai.ProviderDashScope:
	default:
		a.log.Warn("provider ignores web search settings", "provider", a.cfg.Provider)
	}

	messages := []ai.Message{ai.NewSystemMessage(defaultSystemPrompt), ai.NewUserMessage(query)}
	return a.converse(ctx, "search", a.model(nil), nil, messages, false,
		agent.WithChatOptions(ai.WithSearch(search)))
}
