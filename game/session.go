package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	ai "github.com/spetersoncode/parley"
	"github.com/spetersoncode/parley/agent"
)

// DefaultTemperature is the sampling temperature used when Config leaves it unset.
const DefaultTemperature = 0.7

// Config configures a Session.
type Config struct {
	Difficulty Difficulty
	// Reason is why the partner is angry. Empty picks one of Reasons.
	Reason      string
	Temperature float64
	// Rand selects the random reason. Nil uses the global source.
	Rand   *rand.Rand
	Logger *slog.Logger
	// AgentOptions apply to every model turn. The call cap and
	// temperature are always set by the session.
	AgentOptions []agent.Option
}

// Session is one game played against a model.
// It is not safe for concurrent use.
type Session struct {
	state  *State
	agent  *agent.Agent
	reason string
	diff   Difficulty
	opts   []agent.Option
	log    *slog.Logger
}

// NewSession starts a game. The model is offered no tools.
func NewSession(model agent.ModelClient, cfg Config) *Session {
	if !cfg.Difficulty.Valid() {
		cfg.Difficulty = Easy
	}
	if cfg.Reason == "" {
		cfg.Reason = RandomReason(cfg.Rand)
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	// Session settings come last so AgentOptions cannot lift the turn cap.
	// The cap leaves room for the configured retries; with no tools offered a
	// turn still ends after the first reply.
	opts := append([]agent.Option{agent.WithLogger(cfg.Logger)}, cfg.AgentOptions...)
	retries := agent.ApplyOptions(opts...).ModelRetries
	opts = append(opts,
		agent.WithMaxIterations(1+max(retries, 0)),
		agent.WithTemperature(cfg.Temperature),
	)

	return &Session{
		state:  NewState(ai.NewSystemMessage(SystemPrompt(cfg.Difficulty, cfg.Reason))),
		agent:  agent.New(model, nil),
		reason: cfg.Reason,
		diff:   cfg.Difficulty,
		opts:   opts,
		log:    cfg.Logger.With("component", "game"),
	}
}

// Reason returns why the partner is angry.
func (s *Session) Reason() string { return s.reason }

// Difficulty returns the session difficulty.
func (s *Session) Difficulty() Difficulty { return s.diff }

// Score returns the current forgiveness score.
func (s *Session) Score() int { return s.state.Score }

// Outcome returns the current outcome.
func (s *Session) Outcome() Outcome { return s.state.Outcome }

// History returns a copy of the conversation so far.
func (s *Session) History() []ai.Message {
	return append([]ai.Message(nil), s.state.History...)
}

// Say sends the player's line and scores the reply.
//
// A failed model turn leaves the game unchanged, so the line can be retried.
// A reply without a score marker counts as a zero delta with DeltaFound false.
func (s *Session) Say(ctx context.Context, text string) (TurnResult, error) {
	if s.state.Outcome.Terminal() {
		return TurnResult{Score: s.state.Score, Outcome: s.state.Outcome}, ErrGameOver
	}
	if strings.TrimSpace(text) == "" {
		return TurnResult{}, ai.ErrEmptyInput
	}

	messages := append(s.History(), ai.NewUserMessage(text))
	result := s.agent.Run(ctx, messages, s.opts...)
	if result.Err != nil {
		return TurnResult{}, fmt.Errorf("game: model turn %s: %w", result.Termination, result.Err)
	}

	turn, err := s.state.Apply(result.Answer)
	if err != nil {
		return turn, err
	}
	s.state.History = result.Messages()

	if !turn.DeltaFound {
		s.log.Warn("no score found in reply", "reply", result.Answer)
	}
	s.log.Debug("turn scored", "delta", turn.Delta, "score", turn.Score, "outcome", turn.Outcome)
	return turn, nil
}
