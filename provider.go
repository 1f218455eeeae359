package parley

// Provider identifies a model backend.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
	// ProviderDashScope is Alibaba Bailian's OpenAI-compatible mode.
	ProviderDashScope Provider = "dashscope"
	// ProviderLocal is any self-hosted OpenAI-compatible server.
	ProviderLocal Provider = "local"
)

// DashScopeBaseURL is the OpenAI-compatible endpoint for DashScope.
const DashScopeBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

// Providers lists every supported provider.
func Providers() []Provider {
	return []Provider{ProviderOpenAI, ProviderAnthropic, ProviderGoogle, ProviderDashScope, ProviderLocal}
}

// Valid reports whether p names a supported provider.
func (p Provider) Valid() bool {
	for _, known := range Providers() {
		if p == known {
			return true
		}
	}
	return false
}

// NeedsAPIKey reports whether requests to p require an API key.
func (p Provider) NeedsAPIKey() bool {
	return p != ProviderLocal
}
