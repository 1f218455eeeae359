package game

import (
	"errors"

	ai "github.com/spetersoncode/parley"
)

// ErrGameOver is returned when a turn is applied after the game has ended.
var ErrGameOver = errors.New("game: game over")

// Outcome is the state of a game.
type Outcome string

const (
	Ongoing Outcome = "ongoing"
	Won     Outcome = "won"
	Lost    Outcome = "lost"
)

// Terminal reports whether no further turns are accepted.
func (o Outcome) Terminal() bool {
	return o == Won || o == Lost
}

// OutcomeFor returns the outcome implied by a score.
func OutcomeFor(score int) Outcome {
	switch {
	case score >= WinThreshold:
		return Won
	case score <= LoseThreshold:
		return Lost
	}
	return Ongoing
}

// TurnResult describes the effect of one assistant turn.
type TurnResult struct {
	Text       string // raw assistant text
	Emotion    string
	Line       string
	Delta      int // applied change, after clamping
	DeltaFound bool
	Score      int
	Outcome    Outcome
}

// State is the bounded score and conversation of one game.
// It is not safe for concurrent use.
type State struct {
	Score   int
	Outcome Outcome
	History []ai.Message
}

// NewState starts a game at InitialScore with the given history.
func NewState(history ...ai.Message) *State {
	return &State{
		Score:   InitialScore,
		Outcome: OutcomeFor(InitialScore),
		History: history,
	}
}

// Apply scores an assistant turn. Once the outcome is terminal Apply
// returns ErrGameOver and leaves the state unchanged.
func (s *State) Apply(text string) (TurnResult, error) {
	if s.Outcome.Terminal() {
		return TurnResult{Score: s.Score, Outcome: s.Outcome}, ErrGameOver
	}

	score, found := ApplyTurn(text, s.Score)
	emotion, line := ParseReply(text)
	turn := TurnResult{
		Text:       text,
		Emotion:    emotion,
		Line:       line,
		Delta:      score - s.Score,
		DeltaFound: found,
		Score:      score,
		Outcome:    OutcomeFor(score),
	}

	s.Score = score
	s.Outcome = turn.Outcome
	return turn, nil
}
