package game

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeFor(t *testing.T) {
	assert.Equal(t, Lost, OutcomeFor(0))
	assert.Equal(t, Ongoing, OutcomeFor(1))
	assert.Equal(t, Ongoing, OutcomeFor(InitialScore))
	assert.Equal(t, Ongoing, OutcomeFor(99))
	assert.Equal(t, Won, OutcomeFor(100))
}

func TestStateApply(t *testing.T) {
	t.Run("starts ongoing at initial score", func(t *testing.T) {
		s := NewState()
		assert.Equal(t, InitialScore, s.Score)
		assert.Equal(t, Ongoing, s.Outcome)
	})

	t.Run("reports applied delta", func(t *testing.T) {
		s := NewState()
		turn, err := s.Apply("[SAD] You hurt me.\n[SCORE] -30")
		require.NoError(t, err)

		assert.Equal(t, -20, turn.Delta)
		assert.True(t, turn.DeltaFound)
		assert.Equal(t, 0, turn.Score)
		assert.Equal(t, Lost, turn.Outcome)
		assert.Equal(t, "SAD", turn.Emotion)
		assert.Equal(t, "You hurt me.", turn.Line)
		assert.Equal(t, Lost, s.Outcome)
	})

	t.Run("win", func(t *testing.T) {
		s := NewState()
		var turn TurnResult
		var err error
		for range 8 {
			turn, err = s.Apply("[HAPPY] Aww.\n[SCORE] 10")
			require.NoError(t, err)
		}
		assert.Equal(t, Won, turn.Outcome)
		assert.Equal(t, 100, s.Score)
	})

	t.Run("missing score is a soft miss", func(t *testing.T) {
		s := NewState()
		turn, err := s.Apply("I forgive you")
		require.NoError(t, err)
		assert.False(t, turn.DeltaFound)
		assert.Equal(t, 0, turn.Delta)
		assert.Equal(t, InitialScore, s.Score)
		assert.Equal(t, Ongoing, s.Outcome)
	})

	t.Run("terminal state rejects turns", func(t *testing.T) {
		s := NewState()
		_, err := s.Apply("[SCORE] -999")
		require.NoError(t, err)

		turn, err := s.Apply("[SCORE] +50")
		assert.ErrorIs(t, err, ErrGameOver)
		assert.Equal(t, 0, s.Score)
		assert.Equal(t, Lost, s.Outcome)
		assert.Equal(t, Lost, turn.Outcome)
	})

	t.Run("outcome never leaves a terminal state", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(7, 7))
		for range 50 {
			s := NewState()
			var terminal Outcome
			for range 40 {
				_, err := s.Apply("[SCORE] " + strconv.Itoa(rng.IntN(61)-30))
				if terminal != "" {
					require.ErrorIs(t, err, ErrGameOver)
					require.Equal(t, terminal, s.Outcome)
					continue
				}
				require.NoError(t, err)
				if s.Outcome.Terminal() {
					terminal = s.Outcome
				}
			}
		}
	})
}

func TestDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want Difficulty
	}{
		{"", Easy},
		{"1", Easy},
		{"2", Normal},
		{"3", Hard},
		{"HARD", Hard},
		{" normal ", Normal},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDifficulty(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}

	_, err := ParseDifficulty("nightmare")
	assert.Error(t, err)
	assert.Len(t, Difficulties(), 3)
}

func TestSystemPrompt(t *testing.T) {
	p := SystemPrompt(Hard, "You were late for our date")

	assert.Contains(t, p, "difficult (but not impossible) to please")
	assert.Contains(t, p, "has made you angry because: You were late for our date")
	assert.Contains(t, p, "* +10: Exceptional, perfect response")
	assert.Contains(t, p, "[EMOTION] Your response text\n[SCORE] number")

	assert.Equal(t, SystemPrompt(Easy, "x"), SystemPrompt("bogus", "x"))
}

func TestRandomReason(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	for range 20 {
		assert.Contains(t, Reasons, RandomReason(rng))
	}
	assert.Contains(t, Reasons, RandomReason(nil))
	assert.Len(t, Reasons, 8)
	for _, r := range Reasons {
		assert.True(t, strings.HasPrefix(r, "You "))
	}
}
