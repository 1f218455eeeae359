package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spetersoncode/parley/game"
	"github.com/spetersoncode/parley/store"
)

func runGame(ctx context.Context, a *app, args []string) error {
	fs := a.flags("game")
	difficulty := fs.String("difficulty", "easy", "easy, normal or hard")
	reason := fs.String("reason", "", "why your partner is angry; random when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	d, err := game.ParseDifficulty(*difficulty)
	if err != nil {
		return err
	}

	stream := func(delta string) { fmt.Fprint(a.out, partnerStyle.Render(delta)) }
	cfg := game.Config{
		Difficulty:   d,
		Reason:       *reason,
		Logger:       a.log,
		AgentOptions: a.cfg.AgentOptions(a.log),
	}
	if a.cfg.Temperature != nil {
		cfg.Temperature = *a.cfg.Temperature
	}
	session := game.NewSession(a.model(stream), cfg)

	fmt.Fprintln(a.out, headerStyle.Render("Apology Game"))
	fmt.Fprintln(a.out, "Your partner is angry! Try to make them happy again. Type \"quit\" to give up.")
	fmt.Fprintln(a.out, errorStyle.Render("Situation: "+session.Reason()))
	printStatus(a, session.Score())

	defer func() {
		score := session.Score()
		a.save(ctx, store.Transcript{
			Kind:     "game",
			Messages: session.History(),
			Outcome:  string(session.Outcome()),
			Score:    &score,
		})
	}()

	for !session.Outcome().Terminal() {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, promptStyle.Render("What will you say?"))
		line, err := a.in.ReadString('\n')
		text := strings.TrimSpace(line)
		if errors.Is(err, io.EOF) && text == "" {
			return nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "quit") {
			fmt.Fprintln(a.out, dimStyle.Render("You walked away."))
			return nil
		}

		turn, err := session.Say(ctx, text)
		fmt.Fprintln(a.out)
		if err != nil {
			fmt.Fprintln(a.out, errorStyle.Render(err.Error()))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		if !turn.DeltaFound {
			fmt.Fprintln(a.out, warnStyle.Render("[Warning] No score found in response"))
		}
		fmt.Fprintln(a.out, partnerStyle.Render(fmt.Sprintf("[Score] %+d", turn.Delta)))
		printStatus(a, turn.Score)
	}

	switch session.Outcome() {
	case game.Won:
		fmt.Fprintln(a.out, promptStyle.Render("🎉 Congratulations! You have been forgiven!"))
	case game.Lost:
		fmt.Fprintln(a.out, errorStyle.Render("💔 Game Over! They broke up with you!"))
	}
	return nil
}

func printStatus(a *app, score int) {
	fmt.Fprintln(a.out, titleStyle.Render(fmt.Sprintf("Forgiveness Score: %d/%d", score, game.WinThreshold)))
}
