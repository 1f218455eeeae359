package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	ai "github.com/spetersoncode/parley"
	"github.com/spetersoncode/parley/tool"
	"github.com/spetersoncode/parley/tool/builtin"
)

// runAlert analyzes each alert with the database status tool.
// Without arguments the sample alerts are used.
func runAlert(ctx context.Context, a *app, args []string) error {
	fs := a.flags("alert")
	if err := fs.Parse(args); err != nil {
		return err
	}
	alerts := fs.Args()
	if len(alerts) == 0 {
		alerts = builtin.SampleAlerts
	}

	registry := tool.NewRegistry().Add(builtin.StatusTool(builtin.NewSimulatedStatus(nil)))
	return forEach(ctx, a, "alert", alerts, func(alert string) error {
		messages := []ai.Message{
			ai.NewSystemMessage(builtin.AnalystPrompt),
			ai.NewUserMessage(alert),
		}
		return a.converse(ctx, "alert", a.model(nil), registry, messages, false)
	})
}

// runWeather answers weather questions with get_current_weather.
// Without arguments the sample questions are used.
func runWeather(ctx context.Context, a *app, args []string) error {
	fs := a.flags("weather")
	if err := fs.Parse(args); err != nil {
		return err
	}
	queries := fs.Args()
	if len(queries) > 0 {
		queries = []string{strings.Join(queries, " ")}
	} else {
		queries = builtin.SampleWeatherQueries
	}

	registry := tool.NewRegistry().Add(builtin.WeatherTool())
	return forEach(ctx, a, "weather", queries, func(query string) error {
		messages := []ai.Message{ai.NewUserMessage(query)}
		return a.converse(ctx, "weather", a.model(nil), registry, messages, false)
	})
}

// forEach runs fn for every input, printing a header first, and keeps
// going after failures.
func forEach(ctx context.Context, a *app, kind string, inputs []string, fn func(string) error) error {
	var errs []error
	for i, input := range inputs {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		fmt.Fprintln(a.out, headerStyle.Render(fmt.Sprintf("%s %d/%d", kind, i+1, len(inputs))))
		fmt.Fprintln(a.out, titleStyle.Render(input))
		if err := fn(input); err != nil {
			fmt.Fprintln(a.out, errorStyle.Render(err.Error()))
			errs = append(errs, err)
		}
		fmt.Fprintln(a.out)
	}
	return errors.Join(errs...)
}
