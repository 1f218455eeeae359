// Package model catalogues the chat models parley knows how to price.
//
// Lookup resolves a model identifier to its catalogue entry; Resolve does the
// same but falls back to the provider's default model when no identifier is
// configured. Cost turns token usage into an estimated USD amount.
//
//	m, ok := model.Resolve(ai.ProviderDashScope, "")
//	if ok {
//		fmt.Printf("%s cost $%.4f\n", m, m.Cost(result.Usage))
//	}
package model

import ai "github.com/spetersoncode/parley"

// ChatModel is a chat model offered by one provider.
type ChatModel struct {
	id       string
	provider ai.Provider
	pricing  ChatPricing
}

// String returns the API identifier for this model.
func (m ChatModel) String() string { return m.id }

// Provider returns which provider serves this model.
func (m ChatModel) Provider() ai.Provider { return m.provider }

// Pricing returns the pricing for this model.
func (m ChatModel) Pricing() ChatPricing { return m.pricing }

// Cost estimates the USD cost of usage on this model.
func (m ChatModel) Cost(usage ai.Usage) float64 {
	return CalculateCost(usage, m.pricing)
}

// DashScope Qwen models, international endpoint pricing.
var (
	QwenTurbo = ChatModel{id: "qwen-turbo", provider: ai.ProviderDashScope, pricing: ChatPricing{InputPerMillion: 0.05, OutputPerMillion: 0.20}}
	QwenPlus  = ChatModel{id: "qwen-plus", provider: ai.ProviderDashScope, pricing: ChatPricing{InputPerMillion: 0.40, OutputPerMillion: 1.20}}
	QwenMax   = ChatModel{id: "qwen-max", provider: ai.ProviderDashScope, pricing: ChatPricing{InputPerMillion: 1.60, OutputPerMillion: 6.40}}
	QwenVLMax = ChatModel{id: "qwen-vl-max", provider: ai.ProviderDashScope, pricing: ChatPricing{InputPerMillion: 0.80, OutputPerMillion: 3.20}}
)

// OpenAI models.
var (
	GPT4o     = ChatModel{id: "gpt-4o", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 2.50, OutputPerMillion: 10.00}}
	GPT4oMini = ChatModel{id: "gpt-4o-mini", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 0.15, OutputPerMillion: 0.60}}
	GPT5      = ChatModel{id: "gpt-5", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 1.25, OutputPerMillion: 10.00}}
	GPT5Mini  = ChatModel{id: "gpt-5-mini", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 0.25, OutputPerMillion: 1.00}}
)

// Anthropic models.
var (
	ClaudeSonnet45 = ChatModel{id: "claude-sonnet-4-5", provider: ai.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 3.00, OutputPerMillion: 15.00}}
	ClaudeHaiku45  = ChatModel{id: "claude-haiku-4-5", provider: ai.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 1.00, OutputPerMillion: 5.00}}
)

// Google models.
var (
	Gemini25Pro   = ChatModel{id: "gemini-2.5-pro", provider: ai.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 1.25, OutputPerMillion: 10.00}}
	Gemini25Flash = ChatModel{id: "gemini-2.5-flash", provider: ai.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 0.15, OutputPerMillion: 0.60}}
)

var catalogue = []ChatModel{
	QwenTurbo, QwenPlus, QwenMax, QwenVLMax,
	GPT4o, GPT4oMini, GPT5, GPT5Mini,
	ClaudeSonnet45, ClaudeHaiku45,
	Gemini25Pro, Gemini25Flash,
}

// defaults mirror the models each provider adapter falls back to.
var defaults = map[ai.Provider]ChatModel{
	ai.ProviderDashScope: QwenTurbo,
	ai.ProviderOpenAI:    GPT4oMini,
	ai.ProviderAnthropic: ClaudeSonnet45,
	ai.ProviderGoogle:    Gemini25Flash,
}

// All returns every catalogued model.
func All() []ChatModel {
	out := make([]ChatModel, len(catalogue))
	copy(out, catalogue)
	return out
}

// Lookup finds a catalogued model by identifier.
func Lookup(id string) (ChatModel, bool) {
	for _, m := range catalogue {
		if m.id == id {
			return m, true
		}
	}
	return ChatModel{}, false
}

// Default returns the model a provider uses when none is configured.
// Local servers have no default.
func Default(provider ai.Provider) (ChatModel, bool) {
	m, ok := defaults[provider]
	return m, ok
}

// Resolve returns the catalogue entry for id, or the provider default when
// id is empty.
func Resolve(provider ai.Provider, id string) (ChatModel, bool) {
	if id == "" {
		return Default(provider)
	}
	return Lookup(id)
}
