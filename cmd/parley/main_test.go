package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reply is one scripted assistant turn.
type reply struct {
	content  string
	toolName string
	toolArgs string
}

// fakeServer speaks enough of the OpenAI chat completions API for the
// local provider, returning scripted replies in order.
type fakeServer struct {
	t        *testing.T
	mu       sync.Mutex
	replies  []reply
	requests []map[string]any
	// onRequest, when set, runs instead of replying; the handler then
	// waits for the client to go away.
	onRequest func()
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))

	if f.onRequest != nil {
		f.onRequest()
		<-r.Context().Done()
		return
	}

	f.mu.Lock()
	f.requests = append(f.requests, body)
	next := reply{content: "out of script"}
	if len(f.replies) > 0 {
		next, f.replies = f.replies[0], f.replies[1:]
	}
	f.mu.Unlock()

	if stream, _ := body["stream"].(bool); stream {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, word := range strings.SplitAfter(next.content, " ") {
			chunk, _ := json.Marshal(map[string]any{
				"id":      "1",
				"choices": []any{map[string]any{"index": 0, "delta": map[string]any{"content": word}}},
			})
			fmt.Fprintf(w, "data: %s\n\n", chunk)
		}
		fmt.Fprint(w, `data: {"id":"1","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`+"\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
		return
	}

	message := map[string]any{"role": "assistant", "content": next.content}
	finish := "stop"
	if next.toolName != "" {
		finish = "tool_calls"
		message["tool_calls"] = []any{map[string]any{
			"id":       "call_1",
			"type":     "function",
			"function": map[string]any{"name": next.toolName, "arguments": next.toolArgs},
		}}
	}
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(f.t, json.NewEncoder(w).Encode(map[string]any{
		"id":      "1",
		"object":  "chat.completion",
		"model":   "qwen2.5:7b",
		"choices": []any{map[string]any{"index": 0, "message": message, "finish_reason": finish}},
		"usage":   map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}))
}

// setup starts a fake server and points the local provider at it.
func setup(t *testing.T, replies ...reply) *fakeServer {
	t.Helper()
	f := &fakeServer{t: t, replies: replies}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	for _, key := range []string{"OPENAI_API_KEY", "PARLEY_TEMPERATURE", "PARLEY_RPM", "PARLEY_MAX_ITERATIONS", "PARLEY_TRANSCRIPT_DB"} {
		t.Setenv(key, "")
	}
	t.Setenv("PARLEY_PROVIDER", "local")
	t.Setenv("PARLEY_BASE_URL", srv.URL+"/v1")
	t.Setenv("PARLEY_MODEL", "qwen2.5:7b")
	t.Setenv("PARLEY_LOG_LEVEL", "error")
	t.Setenv("PARLEY_MODEL_RETRIES", "0")
	return f
}

func execute(args []string, stdin string) (string, string, error) {
	var out, errOut bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestUsage(t *testing.T) {
	setup(t)

	_, errOut, err := execute(nil, "")
	assert.EqualError(t, err, "missing command")
	assert.Contains(t, errOut, "alert")

	_, _, err = execute([]string{"-h"}, "")
	assert.NoError(t, err)

	_, _, err = execute([]string{"dance"}, "")
	assert.EqualError(t, err, `unknown command "dance"`)
}

func TestAlertRunsToolLoopAndSavesTranscript(t *testing.T) {
	f := setup(t,
		reply{toolName: "get_current_status", toolArgs: "{}"},
		reply{content: "CPU usage is high; check slow queries."},
	)
	db := filepath.Join(t.TempDir(), "parley.db")

	out, _, err := execute([]string{"-transcripts", db, "alert", "Alert: CPU usage abnormal"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "→ get_current_status({})")
	assert.Contains(t, out, "CPU usage is high; check slow queries.")
	assert.Contains(t, out, "transcript ")

	require.Len(t, f.requests, 2)
	tools, _ := f.requests[0]["tools"].([]any)
	assert.Len(t, tools, 1)

	out, _, err = execute([]string{"-transcripts", db, "history"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "alert")
	assert.Contains(t, out, "final_answer")
}

func TestWeatherReportsUnknownTool(t *testing.T) {
	setup(t, reply{toolName: "get_stock_price", toolArgs: "{}"})

	_, _, err := execute([]string{"weather", "大连的天气怎样"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown_tool")
}

func TestSearchSendsSearchFields(t *testing.T) {
	f := setup(t, reply{content: "Here is the news."})

	_, _, err := execute([]string{"search", "-engine", "google", "latest AI news"}, "")
	require.NoError(t, err)
	require.Len(t, f.requests, 1)
	// Only the OpenAI-compatible hosted adapter forwards search fields.
	assert.NotContains(t, f.requests[0], "enable_search")

	_, _, err = execute([]string{"search", "-engine", "yahoo", "x"}, "")
	assert.ErrorContains(t, err, "unknown engine")
}

func TestChatStream(t *testing.T) {
	setup(t, reply{content: "Hello there friend"})

	out, _, err := execute([]string{"chat", "-stream", "hi"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello there friend")

	_, _, err = execute([]string{"chat"}, "")
	assert.ErrorContains(t, err, "missing prompt")
}

func TestGameWins(t *testing.T) {
	setup(t,
		reply{content: "[EMOTION] Sulking [RESPONSE] Hmph. [SCORE] +30"},
		reply{content: "[EMOTION] Delighted [RESPONSE] Fine, you are forgiven. [SCORE] +50"},
	)

	out, _, err := execute([]string{"game", "-difficulty", "normal", "-reason", "You forgot our anniversary"},
		"I am so sorry.\nI booked dinner at your favorite place.\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Situation: You forgot our anniversary")
	assert.Contains(t, out, "Forgiveness Score: 50/100")
	assert.Contains(t, out, "Forgiveness Score: 100/100")
	assert.Contains(t, out, "Congratulations")
}

func TestGameQuitAndMissingScore(t *testing.T) {
	setup(t, reply{content: "[EMOTION] Cold [RESPONSE] Whatever."})

	out, _, err := execute([]string{"game"}, "sorry\nquit\n")
	require.NoError(t, err)
	assert.Contains(t, out, "No score found")
	assert.Contains(t, out, "[Score] +0")
	assert.Contains(t, out, "You walked away.")
}

func TestGameInterruptedStillSavesTranscript(t *testing.T) {
	f := setup(t)
	db := filepath.Join(t.TempDir(), "parley.db")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.onRequest = cancel

	var out, errOut bytes.Buffer
	err := run(ctx, []string{"-transcripts", db, "game"}, strings.NewReader("sorry\n"), &out, &errOut)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, out.String(), "transcript ")

	history, _, err := execute([]string{"-transcripts", db, "history"}, "")
	require.NoError(t, err)
	assert.Contains(t, history, "game")
	assert.Contains(t, history, "ongoing")
	assert.Contains(t, history, "score 20")
}

func TestHistoryRequiresDatabase(t *testing.T) {
	setup(t)
	_, _, err := execute([]string{"history"}, "")
	assert.ErrorContains(t, err, "no transcript database")
}
