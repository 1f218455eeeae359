package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/parley"
	"github.com/spetersoncode/parley/internal/provider/anthropic"
	"github.com/spetersoncode/parley/internal/provider/google"
	"github.com/spetersoncode/parley/internal/provider/openai"
)

func TestCalculateCost(t *testing.T) {
	pricing := ChatPricing{InputPerMillion: 1.00, OutputPerMillion: 2.00}

	t.Run("standard usage", func(t *testing.T) {
		// 1000/1M * $1 + 500/1M * $2
		assert.InDelta(t, 0.002, CalculateCost(ai.Usage{InputTokens: 1000, OutputTokens: 500}, pricing), 1e-9)
	})

	t.Run("million tokens", func(t *testing.T) {
		assert.InDelta(t, 3.0, CalculateCost(ai.Usage{InputTokens: 1_000_000, OutputTokens: 1_000_000}, pricing), 1e-9)
	})

	t.Run("zero usage", func(t *testing.T) {
		assert.Equal(t, 0.0, CalculateCost(ai.Usage{}, pricing))
	})
}

func TestChatModelCost(t *testing.T) {
	usage := ai.Usage{InputTokens: 10_000, OutputTokens: 5_000}
	// 10k * $3/M + 5k * $15/M
	assert.InDelta(t, 0.105, ClaudeSonnet45.Cost(usage), 1e-9)
	assert.Equal(t, "claude-sonnet-4-5", ClaudeSonnet45.String())
	assert.Equal(t, ai.ProviderAnthropic, ClaudeSonnet45.Provider())
}

func TestLookup(t *testing.T) {
	m, ok := Lookup("qwen-plus")
	require.True(t, ok)
	assert.Equal(t, ai.ProviderDashScope, m.Provider())
	assert.Equal(t, 0.40, m.Pricing().InputPerMillion)

	_, ok = Lookup("llama3")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		provider ai.Provider
		id       string
		want     string
		ok       bool
	}{
		{ai.ProviderDashScope, "", "qwen-turbo", true},
		{ai.ProviderOpenAI, "", openai.DefaultModel, true},
		{ai.ProviderAnthropic, "", anthropic.DefaultModel, true},
		{ai.ProviderGoogle, "", google.DefaultModel, true},
		{ai.ProviderOpenAI, "gpt-4o", "gpt-4o", true},
		{ai.ProviderLocal, "", "", false},
		{ai.ProviderLocal, "qwen2.5:7b", "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.provider)+"/"+tt.id, func(t *testing.T) {
			m, ok := Resolve(tt.provider, tt.id)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, m.String())
			}
		})
	}
}

func TestCatalogueIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range All() {
		assert.False(t, seen[m.String()], "duplicate %s", m)
		seen[m.String()] = true
		assert.Positive(t, m.Pricing().InputPerMillion, m.String())
	}
}
