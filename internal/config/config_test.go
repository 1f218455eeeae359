package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/parley"
)

var envVars = []string{
	"PARLEY_PROVIDER", "PARLEY_MODEL", "PARLEY_BASE_URL",
	"OPENAI_API_KEY", "OPENAI_BASE_URL", "ANTHROPIC_API_KEY", "GOOGLE_API_KEY",
	"DASHSCOPE_API_KEY", "BL_API_KEY", "LOCAL_API_KEY",
	"PARLEY_MAX_ITERATIONS", "PARLEY_CALL_TIMEOUT", "PARLEY_MODEL_RETRIES", "PARLEY_RETRY_DELAY",
	"PARLEY_RPM", "PARLEY_TEMPERATURE", "PARLEY_LOG_LEVEL", "PARLEY_TRANSCRIPT_DB",
}

// clearEnv blanks every variable Load reads. Blank values are ignored.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parley.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ai.ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.APIKey())
	assert.Equal(t, 10, cfg.Agent.MaxIterations)
	assert.Equal(t, 60*time.Second, cfg.Agent.CallTimeout)
	assert.Equal(t, 1, cfg.Agent.ModelRetries)
	assert.Nil(t, cfg.Temperature)
	assert.Nil(t, cfg.ClientOptions())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("MY_DASHSCOPE_KEY", "sk-from-env")

	path := writeFile(t, `
provider: dashscope
model: qwen-plus
api_keys:
  dashscope: ${MY_DASHSCOPE_KEY}
agent:
  max_iterations: 4
  call_timeout: 15s
  model_retries: 0
requests_per_minute: 30
temperature: 0.7
log_level: debug
transcript_db: parley.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ai.ProviderDashScope, cfg.Provider)
	assert.Equal(t, "qwen-plus", cfg.Model)
	assert.Equal(t, "sk-from-env", cfg.APIKey())
	assert.Equal(t, 4, cfg.Agent.MaxIterations)
	assert.Equal(t, 15*time.Second, cfg.Agent.CallTimeout)
	assert.Equal(t, 0, cfg.Agent.ModelRetries)
	assert.Equal(t, time.Second, cfg.Agent.RetryDelay)
	assert.Equal(t, 30, cfg.RequestsPerMinute)
	require.NotNil(t, cfg.Temperature)
	assert.Equal(t, 0.7, *cfg.Temperature)
	assert.Len(t, cfg.ClientOptions(), 1)
	assert.Equal(t, "parley.db", cfg.TranscriptDB)

	level, err := ParseLevel(cfg.LogLevel)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "provider: openai\nmodel: gpt-4o\napi_keys:\n  anthropic: file-key\n")

	t.Setenv("PARLEY_PROVIDER", "Anthropic")
	t.Setenv("PARLEY_MODEL", "claude-haiku-4-5")
	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	t.Setenv("PARLEY_MAX_ITERATIONS", "3")
	t.Setenv("PARLEY_CALL_TIMEOUT", "5s")
	t.Setenv("PARLEY_RETRY_DELAY", "250ms")
	t.Setenv("PARLEY_RPM", "12")
	t.Setenv("PARLEY_TEMPERATURE", "0.2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ai.ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "claude-haiku-4-5", cfg.Model)
	assert.Equal(t, "env-key", cfg.APIKey())
	assert.Equal(t, 3, cfg.Agent.MaxIterations)
	assert.Equal(t, 5*time.Second, cfg.Agent.CallTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Agent.RetryDelay)
	assert.Equal(t, 12, cfg.RequestsPerMinute)
	assert.Equal(t, 0.2, *cfg.Temperature)
}

func TestDashScopeKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("PARLEY_PROVIDER", "dashscope")
	t.Setenv("BL_API_KEY", "bl-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "bl-key", cfg.APIKey())

	t.Setenv("DASHSCOPE_API_KEY", "ds-key")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "ds-key", cfg.APIKey())
}

func TestOpenAIBaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk")
	t.Setenv("OPENAI_BASE_URL", "https://proxy.example/v1")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://proxy.example/v1", cfg.BaseURL)

	t.Setenv("PARLEY_BASE_URL", "https://other.example/v1")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://other.example/v1", cfg.BaseURL)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "unknown provider",
			env:  map[string]string{"PARLEY_PROVIDER": "vertex"},
			want: `unknown provider "vertex"`,
		},
		{
			name: "missing key",
			env:  map[string]string{"PARLEY_PROVIDER": "google"},
			want: "GOOGLE_API_KEY is required for google provider",
		},
		{
			name: "missing dashscope key",
			env:  map[string]string{"PARLEY_PROVIDER": "dashscope"},
			want: "DASHSCOPE_API_KEY is required",
		},
		{
			name: "local without base url",
			env:  map[string]string{"PARLEY_PROVIDER": "local", "PARLEY_MODEL": "qwen2.5"},
			want: "PARLEY_BASE_URL is required",
		},
		{
			name: "local without model",
			env:  map[string]string{"PARLEY_PROVIDER": "local", "PARLEY_BASE_URL": "http://localhost:11434/v1"},
			want: "PARLEY_MODEL is required",
		},
		{
			name: "malformed number",
			env:  map[string]string{"OPENAI_API_KEY": "sk", "PARLEY_MAX_ITERATIONS": "many"},
			want: "PARLEY_MAX_ITERATIONS",
		},
		{
			name: "malformed duration",
			env:  map[string]string{"OPENAI_API_KEY": "sk", "PARLEY_CALL_TIMEOUT": "soon"},
			want: "PARLEY_CALL_TIMEOUT",
		},
		{
			name: "negative retries",
			env:  map[string]string{"OPENAI_API_KEY": "sk", "PARLEY_MODEL_RETRIES": "-1"},
			want: "model_retries",
		},
		{
			name: "bad log level",
			env:  map[string]string{"OPENAI_API_KEY": "sk", "PARLEY_LOG_LEVEL": "loud"},
			want: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "provider: [openai"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestLocalProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("PARLEY_PROVIDER", "local")
	t.Setenv("PARLEY_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("PARLEY_MODEL", "qwen2.5:7b")
	t.Setenv("LOCAL_API_KEY", "lm-studio")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "lm-studio", cfg.APIKey())

	cc := cfg.ClientConfig(nil, nil)
	assert.Equal(t, ai.ProviderLocal, cc.Provider)
	assert.Equal(t, "http://localhost:11434/v1", cc.BaseURL)
	assert.Equal(t, "qwen2.5:7b", cc.Model)
	require.NotNil(t, cc.Retry)
	assert.Equal(t, 1, cc.Retry.MaxAttempts)
	assert.Len(t, cfg.AgentOptions(nil), 5)
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PARLEY_PROVIDER", "openai")
	t.Setenv("PARLEY_MODEL", "gpt-4o")
	t.Setenv("ANTHROPIC_API_KEY", "ak")

	cfg, err := Load("", WithProvider("ANTHROPIC"), WithModel("claude-sonnet-4-5"), WithTranscriptDB("t.db"), WithModel(""))
	require.NoError(t, err)
	assert.Equal(t, ai.ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Model)
	assert.Equal(t, "t.db", cfg.TranscriptDB)
}
